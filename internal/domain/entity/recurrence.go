package entity

import (
	"errors"
	"strings"
)

// RecurrenceMode controls how a single booking request expands into a series
type RecurrenceMode string

const (
	RecurrenceNone       RecurrenceMode = "none"
	RecurrenceContinuous RecurrenceMode = "continuous"
)

const (
	// ContinuousOccurrences is the fixed length of a continuous weekly series
	ContinuousOccurrences = 12
	// RecurrenceIntervalDays is the distance between two occurrences of a series
	RecurrenceIntervalDays = 7
)

var ErrInvalidRecurrence = errors.New("invalid recurrence, use 'none' or 'continuous'")

// ParseRecurrenceMode maps the request value to a mode; empty means none
func ParseRecurrenceMode(s string) (RecurrenceMode, error) {
	switch RecurrenceMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", RecurrenceNone:
		return RecurrenceNone, nil
	case RecurrenceContinuous:
		return RecurrenceContinuous, nil
	default:
		return "", ErrInvalidRecurrence
	}
}

// ExpandRecurrence turns a base date into the ordered list of occurrence dates.
// none yields the base date alone, continuous yields the base date followed by
// 11 more dates, each one week after the previous.
func ExpandRecurrence(baseDate string, mode RecurrenceMode) ([]Date, error) {
	base, err := ParseDate(baseDate)
	if err != nil {
		return nil, err
	}

	switch mode {
	case RecurrenceNone:
		return []Date{base}, nil
	case RecurrenceContinuous:
		dates := make([]Date, ContinuousOccurrences)
		for i := range dates {
			dates[i] = base.AddDays(i * RecurrenceIntervalDays)
		}
		return dates, nil
	default:
		return nil, ErrInvalidRecurrence
	}
}
