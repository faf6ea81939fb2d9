package leads

import (
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"time"
)

// stampPattern is the lead export's local time format: M/D/YYYY H:MM:SS.
var stampPattern = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4}) (\d{1,2}):(\d{2}):(\d{2})$`)

// stampLayout renders day-first, 24-hour, zero-padded.
const stampLayout = "02/01/2006, 15:04:05"

// IsTimestamp reports whether value has the M/D/YYYY H:MM:SS shape.
func IsTimestamp(value string) bool {
	return stampPattern.MatchString(value)
}

// TimestampConverter re-renders wall-clock timestamps from one fixed UTC
// offset to another.
type TimestampConverter struct {
	source *time.Location
	target *time.Location
	logger *slog.Logger
}

// NewTimestampConverter builds a converter for the given offsets.
// A nil logger uses slog.Default at conversion time.
func NewTimestampConverter(z Zones, logger *slog.Logger) *TimestampConverter {
	return &TimestampConverter{
		source: time.FixedZone(offsetName(z.SourceOffsetHours), z.SourceOffsetHours*3600),
		target: time.FixedZone(offsetName(z.TargetOffsetHours), z.TargetOffsetHours*3600),
		logger: logger,
	}
}

var defaultConverter = NewTimestampConverter(DefaultRules().Zones, nil)

// ConvertZone converts a UTC+8 "M/D/YYYY H:MM:SS" value to UTC+1 as
// "DD/MM/YYYY, HH:MM:SS". Values of any other shape come back unchanged.
func ConvertZone(value string) string {
	return defaultConverter.Convert(value)
}

// Convert converts value between the converter's offsets. Values that do
// not match the pattern are returned as-is; values that match but name an
// impossible date or time are logged and returned as-is.
func (c *TimestampConverter) Convert(value string) string {
	m := stampPattern.FindStringSubmatch(value)
	if m == nil {
		return value
	}

	t, err := c.wallClock(m[1:])
	if err != nil {
		c.log().Warn("timestamp conversion failed, showing raw value",
			"value", value,
			"error", err,
		)
		return value
	}
	return t.In(c.target).Format(stampLayout)
}

// wallClock builds the source-zone time from month, day, year, hour,
// minute and second strings, rejecting out-of-range parts instead of
// letting time.Date normalize them.
func (c *TimestampConverter) wallClock(parts []string) (time.Time, error) {
	n := make([]int, len(parts))
	for i, p := range parts {
		v, err := strconv.Atoi(p)
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: %v", ErrConversionFallback, err)
		}
		n[i] = v
	}
	month, day, year, hour, minute, second := n[0], n[1], n[2], n[3], n[4], n[5]

	if month < 1 || month > 12 {
		return time.Time{}, fmt.Errorf("%w: month %d out of range", ErrConversionFallback, month)
	}
	if day < 1 || day > daysIn(time.Month(month), year) {
		return time.Time{}, fmt.Errorf("%w: day %d out of range for %d/%d", ErrConversionFallback, day, month, year)
	}
	if hour > 23 || minute > 59 || second > 59 {
		return time.Time{}, fmt.Errorf("%w: time %02d:%02d:%02d out of range", ErrConversionFallback, hour, minute, second)
	}

	return time.Date(year, time.Month(month), day, hour, minute, second, 0, c.source), nil
}

func (c *TimestampConverter) log() *slog.Logger {
	if c.logger != nil {
		return c.logger
	}
	return slog.Default()
}

func daysIn(m time.Month, year int) int {
	return time.Date(year, m+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func offsetName(hours int) string {
	return fmt.Sprintf("UTC%+d", hours)
}
