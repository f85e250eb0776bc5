package booking

import (
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/civil"
)

const displayLayout = "02 Jan"

// FormatDisplay renders a canonical date as "27 Jan". One way only.
func FormatDisplay(d civil.Date) string {
	if !d.IsValid() {
		return ""
	}
	return d.In(time.UTC).Format(displayLayout)
}

// ParseISODate parses a YYYY-MM-DD calendar date.
func ParseISODate(s string) (civil.Date, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return civil.Date{}, NewValidationError("Please select check-in date")
	}
	d, err := civil.ParseDate(s)
	if err != nil {
		return civil.Date{}, &Error{Kind: KindValidation, Message: fmt.Sprintf("invalid date %q", s), Err: err}
	}
	return d, nil
}

// ParseDisplayDate resolves a yearless "27 Jan" into the first matching
// calendar date on or after notBefore.
func ParseDisplayDate(s string, notBefore civil.Date) (civil.Date, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return civil.Date{}, NewValidationError("missing display date")
	}
	// Parse against a leap year so that 29 Feb is accepted.
	t, err := time.Parse("2 Jan 2006", s+" 2000")
	if err != nil {
		return civil.Date{}, &Error{Kind: KindValidation, Message: fmt.Sprintf("invalid display date %q", s), Err: err}
	}
	month, day := t.Month(), t.Day()
	for year := notBefore.Year; year <= notBefore.Year+8; year++ {
		d := civil.Date{Year: year, Month: month, Day: day}
		// 29 Feb only exists in leap years.
		if d.IsValid() && !d.Before(notBefore) {
			return d, nil
		}
	}
	return civil.Date{}, NewValidationError(fmt.Sprintf("cannot resolve display date %q", s))
}

// resolveStay returns the canonical check-in and check-out for a draft.
// Canonical dates win; display strings are only a fallback for drafts that
// never carried them. Either way check-out must be check-in plus nights.
func resolveStay(checkIn, checkOut civil.Date, displayIn, displayOut string, nights int, today civil.Date) (civil.Date, civil.Date, error) {
	if nights < 1 {
		return civil.Date{}, civil.Date{}, NewValidationError("nights must be at least 1")
	}
	if checkIn.IsValid() {
		if !checkOut.IsValid() {
			checkOut = checkIn.AddDays(nights)
		}
		return checkStay(checkIn, checkOut, nights)
	}

	in, err := ParseDisplayDate(displayIn, today)
	if err != nil {
		return civil.Date{}, civil.Date{}, err
	}
	if strings.TrimSpace(displayOut) == "" {
		return in, in.AddDays(nights), nil
	}
	out, err := ParseDisplayDate(displayOut, in.AddDays(1))
	if err != nil {
		return civil.Date{}, civil.Date{}, err
	}
	return checkStay(in, out, nights)
}

func checkStay(in, out civil.Date, nights int) (civil.Date, civil.Date, error) {
	if !out.After(in) {
		return civil.Date{}, civil.Date{}, NewValidationError("check-out must be after check-in")
	}
	if out != in.AddDays(nights) {
		return civil.Date{}, civil.Date{}, NewValidationError(
			fmt.Sprintf("stay %s to %s does not match %d nights", in, out, nights))
	}
	return in, out, nil
}
