package utils

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// MaxRentalPricePerDayCents caps the daily rate so that any valid date
// range prices without overflowing int64.
const MaxRentalPricePerDayCents int64 = 100_000_000_000

var (
	ErrInvalidDate    = errors.New("invalid date")
	ErrEndBeforeStart = errors.New("end date must be on or after start date")
	ErrPriceOverflow  = errors.New("rental total is too large")
)

// Date represents a calendar date
type Date struct {
	Year  int
	Month int
	Day   int
}

// RentalCostBreakdown provides detailed cost breakdown
type RentalCostBreakdown struct {
	StartDate        Date
	EndDate          Date
	Days             int64
	PricePerDayCents int64
	TotalCents       int64
}

// ParseDate converts a yyyy-mm-dd formatted string into a Date struct
func ParseDate(dateStr string) (Date, error) {
	parts := strings.Split(strings.TrimSpace(dateStr), "-")
	if len(parts) != 3 {
		return Date{}, fmt.Errorf("%w: expected yyyy-mm-dd, got %q", ErrInvalidDate, dateStr)
	}

	year, ok := parseDigits(parts[0], 4)
	if !ok || year < 1 {
		return Date{}, fmt.Errorf("%w: invalid year %q", ErrInvalidDate, parts[0])
	}

	month, ok := parseDigits(parts[1], 2)
	if !ok {
		return Date{}, fmt.Errorf("%w: invalid month %q", ErrInvalidDate, parts[1])
	}

	day, ok := parseDigits(parts[2], 2)
	if !ok {
		return Date{}, fmt.Errorf("%w: invalid day %q", ErrInvalidDate, parts[2])
	}

	if month < 1 || month > 12 {
		return Date{}, fmt.Errorf("%w: month must be between 1 and 12", ErrInvalidDate)
	}

	if day < 1 || day > DaysInMonth(year, month) {
		return Date{}, fmt.Errorf("%w: day %d out of range for %04d-%02d", ErrInvalidDate, day, year, month)
	}

	return Date{Year: year, Month: month, Day: day}, nil
}

// parseDigits accepts exactly width ASCII digits, no sign.
func parseDigits(s string, width int) (int, bool) {
	if len(s) != width {
		return 0, false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(s)
	return n, err == nil
}

// DaysInMonth returns the number of days in a given month
func DaysInMonth(year, month int) int {
	if month == 2 {
		if (year%4 == 0 && year%100 != 0) || (year%400 == 0) {
			return 29
		}
		return 28
	}

	if month == 4 || month == 6 || month == 9 || month == 11 {
		return 30
	}

	return 31
}

// Time returns midnight UTC of the date
func (d Date) Time() time.Time {
	return time.Date(d.Year, time.Month(d.Month), d.Day, 0, 0, 0, 0, time.UTC)
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// RentalDays counts the days of [start, end] with both ends included.
func RentalDays(start, end Date) (int64, error) {
	s, e := start.Time(), end.Time()
	if e.Before(s) {
		return 0, ErrEndBeforeStart
	}
	return int64(e.Sub(s)/(24*time.Hour)) + 1, nil
}

// CalculateRentalCost prices an inclusive yyyy-mm-dd date range at a flat daily rate.
func CalculateRentalCost(startDate, endDate string, pricePerDayCents int64) (RentalCostBreakdown, error) {
	start, err := ParseDate(startDate)
	if err != nil {
		return RentalCostBreakdown{}, fmt.Errorf("start date: %w", err)
	}
	end, err := ParseDate(endDate)
	if err != nil {
		return RentalCostBreakdown{}, fmt.Errorf("end date: %w", err)
	}

	days, err := RentalDays(start, end)
	if err != nil {
		return RentalCostBreakdown{}, err
	}
	if pricePerDayCents > 0 && days > math.MaxInt64/pricePerDayCents {
		return RentalCostBreakdown{}, fmt.Errorf("%w: %d days at %d cents per day", ErrPriceOverflow, days, pricePerDayCents)
	}

	return RentalCostBreakdown{
		StartDate:        start,
		EndDate:          end,
		Days:             days,
		PricePerDayCents: pricePerDayCents,
		TotalCents:       days * pricePerDayCents,
	}, nil
}
