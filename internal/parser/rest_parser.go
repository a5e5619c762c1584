package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const maxRest = 15 * time.Minute

var bareSecondsRegex = regexp.MustCompile(`^\d+$`)

// ParseRest parses a rest duration
// Supported formats:
// - bare seconds (e.g., "90")
// - Go durations (e.g., "90s", "2m", "1m30s")
// - clock style (e.g., "1:30")
func ParseRest(input string) (time.Duration, error) {
	input = strings.ToLower(strings.TrimSpace(input))
	if input == "" {
		return 0, fmt.Errorf("empty duration")
	}

	var d time.Duration
	switch {
	case bareSecondsRegex.MatchString(input):
		secs, err := strconv.Atoi(input)
		if err != nil {
			return 0, fmt.Errorf("invalid number")
		}
		d = time.Duration(secs) * time.Second

	case strings.Contains(input, ":"):
		parts := strings.SplitN(input, ":", 2)
		mins, err1 := strconv.Atoi(parts[0])
		secs, err2 := strconv.Atoi(parts[1])
		if err1 != nil || err2 != nil || secs < 0 || secs > 59 {
			return 0, fmt.Errorf("invalid format. Use: 90, 90s, 2m, 1m30s or 1:30")
		}
		d = time.Duration(mins)*time.Minute + time.Duration(secs)*time.Second

	default:
		parsed, err := time.ParseDuration(input)
		if err != nil {
			return 0, fmt.Errorf("invalid format. Use: 90, 90s, 2m, 1m30s or 1:30")
		}
		d = parsed
	}

	if d < 0 || d > maxRest {
		return 0, fmt.Errorf("rest must be between 0 and %s", maxRest)
	}
	return d.Truncate(time.Second), nil
}

// FormatElapsed renders a workout duration as H:MM:SS, or MM:SS under an hour
func FormatElapsed(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d / time.Second)
	h, m, s := total/3600, (total%3600)/60, total%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}

// FormatWeight drops a trailing .0 (60 -> "60kg", 22.5 -> "22.5kg")
func FormatWeight(kg float64) string {
	return strconv.FormatFloat(kg, 'f', -1, 64) + "kg"
}
