package dates

import (
	"errors"
	"fmt"
	"time"
)

var ErrInvalidDayKey = errors.New("dates: invalid day key")

// DayKeyLayout is the canonical day key form. Keys are fixed-width and
// zero-padded, so lexicographic comparison of two keys is date order.
// Several sort paths depend on that and never parse the key back.
const DayKeyLayout = "2006-01-02"

// ToDayKey renders the local calendar date of t as a day key.
func ToDayKey(t time.Time) string {
	return t.Format(DayKeyLayout)
}

// DayKey builds a key from explicit calendar fields.
func DayKey(year int, month time.Month, day int) string {
	return fmt.Sprintf("%04d-%02d-%02d", year, month, day)
}

// ParseDayKey splits a day key back into calendar fields.
func ParseDayKey(key string) (year int, month time.Month, day int, err error) {
	t, perr := time.Parse(DayKeyLayout, key)
	if perr != nil {
		return 0, 0, 0, fmt.Errorf("%w: %q", ErrInvalidDayKey, key)
	}
	return t.Year(), t.Month(), t.Day(), nil
}

// IsDayKey reports whether key is a well-formed day key.
func IsDayKey(key string) bool {
	_, _, _, err := ParseDayKey(key)
	return err == nil
}

// MonthPrefix returns the "YYYY-MM" prefix shared by all day keys of the
// given month, including the trailing separator.
func MonthPrefix(year int, month time.Month) string {
	return fmt.Sprintf("%04d-%02d-", year, month)
}

// IsTimeKey reports whether s is an "HH:MM" time key. Time keys share the
// fixed-width property of day keys: string order is clock order.
func IsTimeKey(s string) bool {
	if len(s) != 5 || s[2] != ':' {
		return false
	}
	hh := int(s[0]-'0')*10 + int(s[1]-'0')
	mm := int(s[3]-'0')*10 + int(s[4]-'0')
	for _, i := range []int{0, 1, 3, 4} {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return hh < 24 && mm < 60
}
