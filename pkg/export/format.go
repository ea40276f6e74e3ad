package export

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// FormatDate renders a calendar date as "Month D, YYYY", or "TBA" when the
// date is unset.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return "TBA"
	}
	return t.Format("January 2, 2006")
}

// FormatTime converts a 24-hour "HH:MM" string into 12-hour clock notation
// with zero-padded minutes ("0:5" becomes "12:05 AM"). Empty or unparsable
// input renders as "TBA".
func FormatTime(raw string) string {
	if raw == "" {
		return "TBA"
	}
	parts := strings.SplitN(raw, ":", 3)
	hour, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || hour < 0 {
		return "TBA"
	}
	minutes := "00"
	if len(parts) > 1 && strings.TrimSpace(parts[1]) != "" {
		minutes = strings.TrimSpace(parts[1])
		if len(minutes) == 1 {
			minutes = "0" + minutes
		}
	}
	meridiem := "AM"
	if hour >= 12 {
		meridiem = "PM"
	}
	hour12 := hour % 12
	if hour12 == 0 {
		hour12 = 12
	}
	return fmt.Sprintf("%d:%s %s", hour12, minutes, meridiem)
}

// Duration computes the span between two "HH:MM" times as a display string.
// Spans crossing midnight wrap forward by 24 hours. Malformed input yields
// an empty string, never an error.
func Duration(start, end string) string {
	sh, sm, ok := parseClock(start)
	if !ok {
		return ""
	}
	eh, em, ok := parseClock(end)
	if !ok {
		return ""
	}
	diff := (eh*60 + em) - (sh*60 + sm)
	if diff < 0 {
		diff += 24 * 60
	}
	hours := diff / 60
	minutes := diff % 60
	switch {
	case hours > 0 && minutes > 0:
		return fmt.Sprintf("%d %s %d mins", hours, pluralHour(hours), minutes)
	case hours > 0:
		return fmt.Sprintf("%d %s", hours, pluralHour(hours))
	default:
		return fmt.Sprintf("%d mins", minutes)
	}
}

func pluralHour(n int) string {
	if n > 1 {
		return "hours"
	}
	return "hour"
}

func parseClock(raw string) (hour, minute int, ok bool) {
	if raw == "" {
		return 0, 0, false
	}
	parts := strings.SplitN(raw, ":", 3)
	if len(parts) < 2 {
		return 0, 0, false
	}
	h, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, false
	}
	m, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, false
	}
	return h, m, true
}

// SplitBullets turns a dash-delimited free-text field into discrete bullet
// strings. Line breaks are folded into dash separators first, so multi-line
// fields bullet-ize the same way. A literal hyphen inside prose splits too;
// report output has always behaved this way and downstream consumers expect it.
func SplitBullets(text string) []string {
	if text == "" {
		return []string{}
	}
	normalized := strings.ReplaceAll(text, "\r\n", "\n")
	normalized = strings.ReplaceAll(normalized, "\n", " - ")
	parts := strings.Split(normalized, "-")
	bullets := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			bullets = append(bullets, trimmed)
		}
	}
	return bullets
}
