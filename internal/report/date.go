package report

import (
	"fmt"
	"time"
)

// longDate renders an ISO date like "August 28th, 2026". Unparseable input
// is returned as-is rather than failing the render.
func longDate(iso string) string {
	t, err := time.Parse("2006-01-02", iso)
	if err != nil {
		return iso
	}
	return fmt.Sprintf("%s %s, %d", t.Month().String(), ordinal(t.Day()), t.Year())
}

func ordinal(d int) string {
	suffix := "th"
	switch {
	case d%100 >= 11 && d%100 <= 13:
	case d%10 == 1:
		suffix = "st"
	case d%10 == 2:
		suffix = "nd"
	case d%10 == 3:
		suffix = "rd"
	}
	return fmt.Sprintf("%d%s", d, suffix)
}
