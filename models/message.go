package models

// InboundMessage is the form payload Twilio posts for an incoming SMS.
type InboundMessage struct {
	From string `form:"From"`
	Body string `form:"Body"`
}
