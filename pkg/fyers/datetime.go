package fyers

import "time"

// IST is Indian Standard Time, a fixed UTC+05:30 offset.
var IST = time.FixedZone("IST", 5*60*60+30*60)

// ISTDateTime returns the instant for the given broker-local wall clock time,
// expressed in UTC.
func ISTDateTime(year int, month time.Month, day, hour, minute int) time.Time {
	return time.Date(year, month, day, hour, minute, 0, 0, IST).UTC()
}
