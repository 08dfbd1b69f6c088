package utils

import (
	"fmt"
	"strconv"
	"time"
)

var unitSeconds = map[byte]int64{
	's': 1,
	'm': 60,
	'h': 3600,
	'd': 86400,
}

// ParseRemindDuration parses the reminder offset format: an integer directly
// followed by a single unit character out of s/m/h/d ("10m", "2h", "1d").
// Anything else is rejected.
func ParseRemindDuration(input string) (time.Duration, error) {
	if len(input) < 2 {
		return 0, fmt.Errorf("invalid time format %q", input)
	}

	unit, ok := unitSeconds[input[len(input)-1]]
	if !ok {
		return 0, fmt.Errorf("invalid time unit in %q, use s, m, h or d", input)
	}

	amount, err := strconv.ParseInt(input[:len(input)-1], 10, 64)
	if err != nil || amount <= 0 {
		return 0, fmt.Errorf("invalid time amount in %q", input)
	}

	return time.Duration(amount*unit) * time.Second, nil
}
