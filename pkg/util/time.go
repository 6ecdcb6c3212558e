package util

import (
	"fmt"
	"strconv"
	"strings"
)

// ZeroTimecode is the default value for unset start/end fields.
const ZeroTimecode = "00:00:00"

// ParseTimecode converts an H:MM:SS timecode into total seconds.
// Parts are plain integers; out-of-range minutes or seconds (e.g. "0:61:00")
// are accepted and scaled arithmetically rather than rejected.
func ParseTimecode(s string) (int, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("invalid timecode format: %s", s)
	}

	var vals [3]int
	for i, p := range parts {
		v, err := strconv.Atoi(p)
		if err != nil {
			return 0, fmt.Errorf("invalid timecode format: %s", s)
		}
		vals[i] = v
	}

	return vals[0]*3600 + vals[1]*60 + vals[2], nil
}

// FormatTimecode converts total seconds into an H:MM:SS timecode.
// Minutes and seconds are zero-padded to two digits, hours are not, so
// ParseTimecode(FormatTimecode(s)) == s for every non-negative s.
func FormatTimecode(total int) string {
	hours := total / 3600
	minutes := (total % 3600) / 60
	seconds := total % 60
	return fmt.Sprintf("%d:%02d:%02d", hours, minutes, seconds)
}
