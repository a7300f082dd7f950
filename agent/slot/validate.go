package slot

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	contractx "github.com/tanpawarit/Chative-Booking-Engine/agent/contract"
)

const (
	DateLayout     = "2006-01-02"
	DateTimeLayout = "2006-01-02 15:04"

	ReasonRequired        = "response required"
	ReasonInvalidDate     = "invalid date, expected YYYY-MM-DD"
	ReasonInvalidDateTime = "invalid date and time, expected YYYY-MM-DD HH:MM"
	ReasonNotNumber       = "must be a number"
)

var (
	datePattern     = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})$`)
	dateTimePattern = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2}) (\d{2}):(\d{2})$`)
)

// Validate checks raw against def.Type and returns the normalized value.
// Surrounding whitespace is dropped before any type check.
func Validate(def contractx.SlotDefinition, raw string) (string, error) {
	var (
		value  string
		reason string
	)
	switch def.Type {
	case contractx.SlotString:
		value, reason = ValidateString(raw)
	case contractx.SlotDate:
		value, reason = ValidateDate(raw)
	case contractx.SlotDateTime:
		value, reason = ValidateDateTime(raw)
	case contractx.SlotNumber:
		value, reason = ValidateNumber(raw)
	default:
		reason = fmt.Sprintf("unsupported slot type %q", def.Type)
	}
	if reason != "" {
		return "", contractx.NewValidationError(def.Key, reason)
	}
	return value, nil
}

func ValidateString(raw string) (string, string) {
	v := strings.TrimSpace(raw)
	if v == "" {
		return "", ReasonRequired
	}
	return v, ""
}

func ValidateDate(raw string) (string, string) {
	v := strings.TrimSpace(raw)
	if v == "" {
		return "", ReasonRequired
	}
	m := datePattern.FindStringSubmatch(v)
	if m == nil {
		return "", ReasonInvalidDate
	}
	if !calendarDate(m[1], m[2], m[3]) {
		return "", ReasonInvalidDate
	}
	return v, ""
}

func ValidateDateTime(raw string) (string, string) {
	v := strings.TrimSpace(raw)
	if v == "" {
		return "", ReasonRequired
	}
	m := dateTimePattern.FindStringSubmatch(v)
	if m == nil {
		return "", ReasonInvalidDateTime
	}
	if !calendarDate(m[1], m[2], m[3]) {
		return "", ReasonInvalidDateTime
	}
	hour, _ := strconv.Atoi(m[4])
	minute, _ := strconv.Atoi(m[5])
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return "", ReasonInvalidDateTime
	}
	return v, ""
}

func ValidateNumber(raw string) (string, string) {
	v := strings.TrimSpace(raw)
	if v == "" {
		return "", ReasonNotNumber
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return "", ReasonNotNumber
	}
	return v, ""
}

// calendarDate rebuilds the date from its parts; time.Date normalizes
// overflow (Feb 30 -> Mar 1), so any change means the input was impossible.
func calendarDate(ys, ms, ds string) bool {
	y, _ := strconv.Atoi(ys)
	m, _ := strconv.Atoi(ms)
	d, _ := strconv.Atoi(ds)
	t := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
	return t.Year() == y && int(t.Month()) == m && t.Day() == d
}

// ParseDate parses a value that already passed ValidateDate.
func ParseDate(v string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, strings.TrimSpace(v), time.UTC)
}
