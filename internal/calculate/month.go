package calculate

import (
	"fmt"
	"time"
)

const monthKeyLayout = "2006-01"

// MonthKey formats t's UTC calendar month as a zero-padded "YYYY-MM" key.
// Zero padding keeps lexicographic order equal to chronological order.
func MonthKey(t time.Time) string {
	return t.UTC().Format(monthKeyLayout)
}

// AddMonths shifts a "YYYY-MM" key by n calendar months (n may be negative).
func AddMonths(key string, n int) (string, error) {
	t, err := time.Parse(monthKeyLayout, key)
	if err != nil {
		return "", fmt.Errorf("bad month key %q: %w", key, err)
	}
	return t.AddDate(0, n, 0).Format(monthKeyLayout), nil
}
