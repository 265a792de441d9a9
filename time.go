package bazaar

import (
	"encoding/json"
	"time"

	"github.com/iov-one/bazaar/errors"
)

// UnixTime is a moment in time with second precision, counted from the
// epoch. Block times and auction deadlines are stored in this form.
type UnixTime int64

// AsUnixTime truncates t to whole seconds.
func AsUnixTime(t time.Time) UnixTime {
	return UnixTime(t.Unix())
}

func (t UnixTime) Time() time.Time {
	return time.Unix(int64(t), 0)
}

func (t UnixTime) IsZero() bool {
	return t == 0
}

// Add moves t by d, dropping any sub second part of d.
func (t UnixTime) Add(d time.Duration) UnixTime {
	return t + UnixTime(d/time.Second)
}

// AddSeconds moves t forward by secs and fails with ErrOverflow when the
// result does not fit.
func (t UnixTime) AddSeconds(secs uint32) (UnixTime, error) {
	end := t + UnixTime(secs)
	if end < t {
		return 0, errors.Wrapf(errors.ErrOverflow, "%d + %ds", t, secs)
	}
	return end, nil
}

// UnmarshalJSON accepts either a number of seconds or an RFC 3339 string.
// Times before the epoch are rejected.
func (t *UnixTime) UnmarshalJSON(raw []byte) error {
	var secs int64
	if err := json.Unmarshal(raw, &secs); err != nil {
		var ts time.Time
		if err := json.Unmarshal(raw, &ts); err != nil {
			return errors.Wrap(errors.ErrInput, "invalid time format")
		}
		secs = ts.Unix()
	}
	if secs < 0 {
		return errors.Wrap(errors.ErrInput, "time before epoch")
	}
	*t = UnixTime(secs)
	return nil
}

func (t UnixTime) Validate() error {
	if t < 0 {
		return errors.Wrap(errors.ErrState, "negative value")
	}
	return nil
}

// String formats t as RFC 3339 in UTC.
func (t UnixTime) String() string {
	return t.Time().UTC().Format(time.RFC3339)
}
