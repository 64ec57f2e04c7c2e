package util

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// ISODate is the stored date layout.
const ISODate = "2006-01-02"

// FormatDate formats a date string (YYYY-MM-DD) for display.
func FormatDate(date string) string {
	date = strings.TrimSpace(date)
	if date == "" {
		return "—"
	}
	t, err := time.Parse(ISODate, date)
	if err != nil {
		return date
	}
	return t.Format("Jan 02, 2006")
}

// FormatDateLong renders a date as "Month D, YYYY". Unparseable input is
// returned unchanged.
func FormatDateLong(date string) string {
	date = strings.TrimSpace(date)
	t, err := time.Parse(ISODate, date)
	if err != nil {
		return date
	}
	return t.Format("January 2, 2006")
}

// FormatDateHuman formats a date with humanized relative display.
// "Today", "Yesterday", "Tomorrow", "in 3d", "3d ago", "Jan 15", "Jan 15 '24"
func FormatDateHuman(date string) string {
	date = strings.TrimSpace(date)
	if date == "" {
		return "—"
	}
	t, err := time.Parse(ISODate, date)
	if err != nil {
		return date
	}

	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	dateDay := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)

	days := int(today.Sub(dateDay).Hours() / 24)

	switch {
	case days == 0:
		return "Today"
	case days == 1:
		return "Yesterday"
	case days == -1:
		return "Tomorrow"
	case days > 1 && days < 7:
		return fmt.Sprintf("%dd ago", days)
	case days < -1 && days > -7:
		return fmt.Sprintf("in %dd", -days)
	case t.Year() == now.Year():
		return t.Format("Jan 02")
	default:
		return t.Format("Jan 02 '06")
	}
}

// TodayISO returns today's date in ISO 8601 format (YYYY-MM-DD).
func TodayISO() string {
	return time.Now().Format(ISODate)
}

// ValidateDate validates a date string in YYYY-MM-DD format.
func ValidateDate(date string) error {
	_, err := time.Parse(ISODate, date)
	return err
}

// ParseDateInput parses flexible user input and normalizes to ISO (YYYY-MM-DD).
// Empty input is allowed and returns "".
func ParseDateInput(input string) (string, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return "", nil
	}

	switch strings.ToLower(s) {
	case "today":
		return TodayISO(), nil
	case "tomorrow":
		return time.Now().AddDate(0, 0, 1).Format(ISODate), nil
	case "yesterday":
		return time.Now().AddDate(0, 0, -1).Format(ISODate), nil
	}

	layouts := []string{
		ISODate,
		"January 2, 2006",
		"Jan 2, 2006",
		"1/2/2006",
		"01/02/2006",
	}

	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(ISODate), nil
		}
	}

	return "", fmt.Errorf("invalid date format")
}

// FormatNumber keeps at most two decimals and drops trailing zeros.
func FormatNumber(v float64) string {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	s := strconv.FormatFloat(v, 'f', 2, 64)
	s = strings.TrimRight(s, "0")
	s = strings.TrimSuffix(s, ".")
	return s
}

// FormatPrice formats a price with two decimals. Non-finite values print as-is.
func FormatPrice(v float64) string {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return fmt.Sprintf("%.2f", v)
}

// FormatQuantity renders "2 cup" style quantities.
func FormatQuantity(qty float64, unit string) string {
	unit = strings.TrimSpace(unit)
	if unit == "" {
		return FormatNumber(qty)
	}
	return FormatNumber(qty) + " " + unit
}

// ParseNumber parses a non-negative decimal. Empty input yields 0.
func ParseNumber(input string) (float64, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%q is not a number", s)
	}
	if v < 0 {
		return 0, fmt.Errorf("%q must not be negative", s)
	}
	return v, nil
}

// TruncateString truncates a string to maxLen and adds "..." if needed.
func TruncateString(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen < 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}

// SplitLines splits multi-line input, trimming lines and dropping blanks.
func SplitLines(input string) []string {
	var lines []string
	for _, line := range strings.Split(input, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
