package service

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/jask/staffdesk/internal/clock"
	"github.com/jask/staffdesk/internal/database"
)

const dateLayout = "2006-01-02"

func dollarsToCents(s string) (int64, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	s = strings.TrimPrefix(s, "$")
	if s == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	return int64(math.Round(f * 100)), nil
}

// CentsToDollars formats cents the way dollarsToCents reads them.
func CentsToDollars(c int64) string {
	return strconv.FormatFloat(float64(c)/100, 'f', 2, 64)
}

// parseDay reads YYYY-MM-DD into midnight UTC.
func parseDay(s string) (time.Time, error) {
	return time.Parse(dateLayout, strings.TrimSpace(s))
}

func nullableStr(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// nowFrom reads c, or the wall clock when c is nil, at second precision.
func nowFrom(c clock.Clock) time.Time {
	if c == nil {
		return database.Now()
	}
	return c.Now().UTC().Truncate(time.Second)
}
