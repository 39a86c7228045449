// Package intent reads a customer name and an appointment time out of a
// free-text SMS body.
package intent

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"novacuts/models"
)

// nameMarker separates the request from the name it is booked under.
const nameMarker = " for "

// ErrNoDateTime is returned when the text holds nothing that reads as a date or time.
var ErrNoDateTime = errors.New("no date or time found in message")

var (
	// calendarDate matches a month name or a numeric day/month in the parsed span.
	calendarDate = regexp.MustCompile(`(?i)\b(jan(uary)?|feb(ruary)?|mar(ch)?|apr(il)?|may|june?|july?|aug(ust)?|sep(t(ember)?)?|oct(ober)?|nov(ember)?|dec(ember)?)\b|\b\d{1,2}[/.]\d{1,2}\b`)
	explicitYear = regexp.MustCompile(`\b(19|20)\d{2}\b`)
	explicitDay  = regexp.MustCompile(`(?i)\b(today|tonight|yesterday|ago|last)\b`)
)

// Extractor turns message text into an Intent.
type Extractor struct {
	parser *when.Parser
}

func NewExtractor() *Extractor {
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	return &Extractor{parser: w}
}

// Extract returns the name and start time found in text. Relative dates are
// resolved against ref and land in ref's location. Dates that leave something
// open resolve to the next occurrence after ref: a bare weekday or month/day
// moves forward, and a time already gone today means tomorrow. If no time is found the returned Intent still carries
// the name and the error is ErrNoDateTime.
func (e *Extractor) Extract(text string, ref time.Time) (models.Intent, error) {
	in := models.Intent{Name: e.Name(text)}

	start, err := e.Time(text, ref)
	if err != nil {
		return in, err
	}
	in.Start = start
	return in, nil
}

// Name returns the title-cased text after the first " for ", or the default
// customer name.
func (e *Extractor) Name(text string) string {
	_, after, found := strings.Cut(text, nameMarker)
	if !found {
		return models.DefaultCustomerName
	}
	name := strings.TrimSpace(after)
	if name == "" {
		return models.DefaultCustomerName
	}
	// Each apostrophe-separated part is cased on its own, so "o'brien" reads
	// "O'Brien". Casers keep state between calls; each part gets its own.
	parts := strings.Split(name, "'")
	for i, p := range parts {
		parts[i] = cases.Title(language.English).String(p)
	}
	return strings.Join(parts, "'")
}

// Time returns the first date/time mentioned in text, truncated to the minute.
func (e *Extractor) Time(text string, ref time.Time) (time.Time, error) {
	res, err := e.parser.Parse(text, ref)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date: %w", err)
	}
	if res == nil {
		return time.Time{}, ErrNoDateTime
	}
	return preferFuture(res.Time, res.Text, ref).Truncate(time.Minute), nil
}

// preferFuture moves t, parsed from matched, to its next occurrence when it
// fell before ref and the text did not pin it down. A month/day without a
// year rolls by years; a time on ref's own day rolls by one day. Explicit
// years and past references ("yesterday", "last monday") are kept.
func preferFuture(t time.Time, matched string, ref time.Time) time.Time {
	if !t.Before(ref) || explicitYear.MatchString(matched) || explicitDay.MatchString(matched) {
		return t
	}

	if calendarDate.MatchString(matched) {
		for t.Before(ref) {
			t = t.AddDate(1, 0, 0)
		}
		return t
	}

	ry, rm, rd := ref.Date()
	if y, m, d := t.Date(); y == ry && m == rm && d == rd {
		return t.AddDate(0, 0, 1)
	}
	return t
}
