package util

import (
	"fmt"
	"time"
)

// FormatDuration formats a track length or position as m:ss, or h:mm:ss once
// it reaches an hour. Negative durations read as 0:00.
func FormatDuration(d time.Duration) string {
	total := int(max(d, 0) / time.Second)
	h, m, s := total/3600, total/60%60, total%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}
