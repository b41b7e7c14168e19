// Copyright 2026 The OQES Authors
// SPDX-License-Identifier: Apache-2.0

package attempt

import "fmt"

// FormatClock renders a countdown value as zero-padded MM:SS, clamped
// to 00:00 so a negative value from scheduling jitter never displays as
// negative. Durations of 100 minutes or more widen the minute field
// rather than wrapping.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
