package services

import "time"

// NowMillis returns the current time as epoch milliseconds, the timestamp
// unit used across all stored records.
func NowMillis() int64 {
	return time.Now().UnixMilli()
}
