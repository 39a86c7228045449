package utils

import (
	"fmt"

	"github.com/twilio/twilio-go/twiml"
)

// fallbackTwiML is served if rendering ever fails, so the sender still gets a reply.
const fallbackTwiML = `<?xml version="1.0" encoding="UTF-8"?><Response><Message>Sorry, something went wrong.</Message></Response>`

// RenderMessage wraps text in a TwiML messaging response with exactly one
// <Message> element.
func RenderMessage(text string) (string, error) {
	doc, err := twiml.Messages([]twiml.Element{
		&twiml.MessagingMessage{Body: text},
	})
	if err != nil {
		return "", fmt.Errorf("render twiml: %w", err)
	}
	return doc, nil
}

// MustRenderMessage is RenderMessage with the fixed fallback document on error.
func MustRenderMessage(text string) string {
	doc, err := RenderMessage(text)
	if err != nil {
		return fallbackTwiML
	}
	return doc
}
