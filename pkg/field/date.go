package field

import (
	"strings"
	"time"
)

// DateLayout is the format date fields commit and accept.
const DateLayout = "2006-01-02"

// FormatDate renders t as a committed date value.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// DateValue reads a date field value. Committed values are DateLayout
// strings; time.Time is accepted for values set by library callers.
func DateValue(value any) (time.Time, bool) {
	switch v := value.(type) {
	case time.Time:
		return v, !v.IsZero()
	case string:
		t, err := time.Parse(DateLayout, strings.TrimSpace(v))
		if err != nil {
			return time.Time{}, false
		}
		return t, true
	}
	return time.Time{}, false
}

func datePrefill(value any) any {
	if t, ok := DateValue(value); ok {
		return FormatDate(t)
	}
	return nil
}
