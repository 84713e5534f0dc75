package utils

import (
	"fmt"
	"time"
)

// DateLayout is the wire format for all calendar dates in this service
const DateLayout = "2006-01-02"

// bangkok is the fixed civil timezone for "today" defaults; the HIS and the
// NHSO API both operate on Thai calendar dates regardless of the host clock.
var bangkok *time.Location

func init() {
	loc, err := time.LoadLocation("Asia/Bangkok")
	if err != nil {
		loc = time.FixedZone("ICT", 7*60*60)
	}
	bangkok = loc
}

// BangkokNow returns the current time in Thailand
func BangkokNow() time.Time {
	return time.Now().In(bangkok)
}

// TodayString returns today's date in Thailand as YYYY-MM-DD
func TodayString() string {
	return BangkokNow().Format(DateLayout)
}

// ParseDate parses a YYYY-MM-DD date string
func ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, s, bangkok)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return t, nil
}

// ToThaiDateCode converts a Gregorian date to the Buddhist-era label used for
// regional reporting: year+543 followed by zero-padded month and day,
// e.g. 2024-06-15 -> "25670615".
func ToThaiDateCode(t time.Time) string {
	return fmt.Sprintf("%04d%02d%02d", t.Year()+543, int(t.Month()), t.Day())
}

// ThaiDateCodeOrNil returns the Buddhist-era label for a nullable date
func ThaiDateCodeOrNil(t *time.Time) *string {
	if t == nil {
		return nil
	}
	code := ToThaiDateCode(*t)
	return &code
}
