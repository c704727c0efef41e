package service

import (
	"fmt"
	"math"
	"strconv"
)

var byteUnits = []string{"Bytes", "KB", "MB", "GB"}

// FormatDuration renders seconds as M:SS, or H:MM:SS from one hour up
func FormatDuration(seconds int64) string {
	if seconds < 0 {
		seconds = 0
	}
	hours := seconds / 3600
	minutes := (seconds % 3600) / 60
	secs := seconds % 60

	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, secs)
	}
	return fmt.Sprintf("%d:%02d", minutes, secs)
}

// FormatBytes renders a byte count with base-1024 units rounded to two decimals.
// Sizes past 1024 GB stay in GB.
func FormatBytes(bytes int64) string {
	if bytes <= 0 {
		return "0 Bytes"
	}

	unit := 0
	value := float64(bytes)
	for value >= 1024 && unit < len(byteUnits)-1 {
		value /= 1024
		unit++
	}

	value = math.Round(value*100) / 100
	return strconv.FormatFloat(value, 'f', -1, 64) + " " + byteUnits[unit]
}
