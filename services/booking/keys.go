package booking

import "strings"

var (
	keyReplacer   = strings.NewReplacer(":", "-", "+", "_")
	humanReplacer = strings.NewReplacer("T", " ", "Z", " UTC")
)

// IdempotencyKey derives the create-booking key from the slot's start time.
// It depends on nothing else, so two customers asking for the same start time
// share a key.
func IdempotencyKey(startAt string) string {
	return keyReplacer.Replace(startAt)
}

// HumanTime turns an RFC 3339 timestamp into "2026-10-16 15:00:00 UTC" form.
func HumanTime(startAt string) string {
	return humanReplacer.Replace(startAt)
}
