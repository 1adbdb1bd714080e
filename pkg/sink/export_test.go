package sink

import "time"

func OverloadTimestamp(overload func() time.Time) func() {
	timestampRef := timestamp
	timestamp = overload
	return func() { timestamp = timestampRef }
}
