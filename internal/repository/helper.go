package repository

import (
	"fmt"
	"time"
)

const (
	dateLayout = "2006-01-02"
	// timeLayout has fixed-width fractional seconds so stored timestamps sort
	// lexically in time order.
	timeLayout = "2006-01-02T15:04:05.000000000Z07:00"
)

// ParseTime parses a timestamp stored as RFC3339 (with or without fractional
// seconds) or a plain "2006-01-02" date, returning it in UTC.
func ParseTime(str string) (time.Time, error) {
	returnTime, err := time.Parse(time.RFC3339Nano, str)
	if err != nil {
		returnTime, err = time.Parse(dateLayout, str)
		if err != nil {
			return time.Time{}, fmt.Errorf("failed to parse date: %w", err)
		}
	}
	return returnTime.UTC(), nil
}

// formatTime is the storage format of every timestamp column.
func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func formatDate(t time.Time) string {
	return t.UTC().Format(dateLayout)
}
