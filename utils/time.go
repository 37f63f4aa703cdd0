package utils

import "time"

// UTCTimestamp formats the current time the way both the message log
// and webhook event records expect: "YYYY-MM-DD HH:MM:SS" in UTC.
func UTCTimestamp() string {
	return time.Now().UTC().Format("2006-01-02 15:04:05")
}
