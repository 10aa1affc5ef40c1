package timeutil

import (
	"sync/atomic"
	"time"
)

// DefaultZone is the business time zone used when none is configured
const DefaultZone = "America/Costa_Rica"

var zone atomic.Pointer[time.Location]

func init() {
	loc, err := time.LoadLocation(DefaultZone)
	if err != nil {
		// Fallback: Costa Rica has no DST, a fixed UTC-6 zone is exact
		loc = time.FixedZone("CST", -6*60*60)
	}
	zone.Store(loc)
}

// SetZone switches the business time zone. An unknown name leaves the zone unchanged.
func SetZone(name string) error {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return err
	}
	zone.Store(loc)
	return nil
}

// Zone returns the business time zone
func Zone() *time.Location {
	return zone.Load()
}

// Now returns the current time in the business zone
func Now() time.Time {
	return time.Now().In(Zone())
}

// ParseDate parses a YYYY-MM-DD date as midnight in the business zone
func ParseDate(value string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, value, Zone())
}

// StartOfDay returns 00:00:00 of t's day in the business zone
func StartOfDay(t time.Time) time.Time {
	local := t.In(Zone())
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, Zone())
}

// EndOfDay returns the last instant of t's day in the business zone
func EndOfDay(t time.Time) time.Time {
	local := t.In(Zone())
	return time.Date(local.Year(), local.Month(), local.Day(), 23, 59, 59, 999999999, Zone())
}

// FormatDisplay formats t as dd/mm/yyyy in the business zone
func FormatDisplay(t time.Time) string {
	return t.In(Zone()).Format(DisplayLayout)
}

// Common layouts
const (
	DateLayout     = "2006-01-02"
	DateTimeLayout = "2006-01-02 15:04:05"
	DisplayLayout  = "02/01/2006"
)
