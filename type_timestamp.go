package finance

import "time"

// Timestamp is an absolute instant in milliseconds since the epoch.
type Timestamp int64

// At returns the Timestamp of t, truncated to the millisecond.
func At(t time.Time) Timestamp { return Timestamp(t.UnixMilli()) }

// Now returns the current Timestamp.
func Now() Timestamp { return At(time.Now()) }

// Time returns the instant as a local time.Time.
func (t Timestamp) Time() time.Time { return time.UnixMilli(int64(t)) }

// String formats the instant in local time.
func (t Timestamp) String() string { return t.Time().Format("2006-01-02 15:04") }
