package assistant

import (
	"regexp"
	"time"
)

// The dialogue engine signals a booking by emitting this token verbatim:
//
//	[BOOK_APPOINTMENT:fecha="YYYY-MM-DD",hora="HH:MM",empleado="NAME"?,email="EMAIL"?]
//
// The field names and ordering are the wire contract. Anything that deviates
// from the bracketed structure — malformed quoting, missing required fields,
// extra fields — is treated as plain conversational text, never partially
// extracted.
var bookingPattern = regexp.MustCompile(
	`\[BOOK_APPOINTMENT:fecha="([^"]+)",hora="([^"]+)"(?:,empleado="([^"]+)")?(?:,email="([^"]+)")?\]`)

const (
	commandDateLayout  = "2006-01-02"
	commandClockLayout = "15:04"
)

// BookingCommand is the structured command extracted from the dialogue
// engine's free text.
type BookingCommand struct {
	Date         string
	Time         string
	EmployeeName string
	Email        string
	// When is the absolute appointment instant, populated only when both
	// Date and Time parsed strictly.
	When time.Time
}

// TryParseBooking scans free text for a booking command token. found is false
// when no structurally valid token is present. A structurally valid token
// whose date or time does not parse strictly yields found=true together with
// a *ParseError; the command must then be treated as "no booking occurred".
func TryParseBooking(text string) (*BookingCommand, bool, error) {
	m := bookingPattern.FindStringSubmatch(text)
	if m == nil {
		return nil, false, nil
	}

	cmd := &BookingCommand{
		Date:         m[1],
		Time:         m[2],
		EmployeeName: m[3],
		Email:        m[4],
	}

	// Fixed-width on top of time.Parse: the layout alone still tolerates
	// single-digit hours.
	if len(cmd.Date) != len(commandDateLayout) {
		return nil, true, &ParseError{Field: "fecha", Value: cmd.Date}
	}
	if len(cmd.Time) != len(commandClockLayout) {
		return nil, true, &ParseError{Field: "hora", Value: cmd.Time}
	}
	day, err := time.Parse(commandDateLayout, cmd.Date)
	if err != nil {
		return nil, true, &ParseError{Field: "fecha", Value: cmd.Date}
	}
	clock, err := time.Parse(commandClockLayout, cmd.Time)
	if err != nil {
		return nil, true, &ParseError{Field: "hora", Value: cmd.Time}
	}

	cmd.When = time.Date(day.Year(), day.Month(), day.Day(),
		clock.Hour(), clock.Minute(), 0, 0, time.Local)
	return cmd, true, nil
}
