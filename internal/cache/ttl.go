package cache

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// DefaultTTL applies when Set is called with the zero TTL.
const DefaultTTL = 3600 * time.Second

// maxDurationSeconds is the largest whole-second count a time.Duration holds.
const maxDurationSeconds = int64(math.MaxInt64 / int64(time.Second))

// TTL is an optional time-to-live. The zero value means "not given", in which
// case the backend's default applies.
//
// A TTL built from whole seconds keeps the count as is, so expiration times
// beyond the range of time.Duration are computed without overflow.
type TTL struct {
	secs  int64
	d     time.Duration
	set   bool
	isDur bool
}

// Seconds returns a TTL of n seconds.
func Seconds(n int64) TTL { return TTL{secs: n, set: true} }

// Duration returns a TTL of d.
func Duration(d time.Duration) TTL { return TTL{d: d, set: true, isDur: true} }

// IsSet reports whether an explicit TTL was given.
func (t TTL) IsSet() bool { return t.set }

// Duration returns the explicit TTL, or 0 when unset. Second counts outside
// the range of time.Duration saturate.
func (t TTL) Duration() time.Duration {
	switch {
	case t.isDur:
		return t.d
	case t.secs > maxDurationSeconds:
		return math.MaxInt64
	case t.secs < -maxDurationSeconds:
		return math.MinInt64
	}
	return time.Duration(t.secs) * time.Second
}

// InSeconds returns the explicit TTL in whole seconds, or 0 when unset.
func (t TTL) InSeconds() int64 {
	if t.isDur {
		return int64(t.d / time.Second)
	}
	return t.secs
}

// ExpiresAt returns the absolute unix timestamp (seconds) of an entry written
// at now with this TTL.
func (t TTL) ExpiresAt(now time.Time, def time.Duration) int64 {
	switch {
	case !t.set:
		return now.Add(def).Unix()
	case t.isDur:
		return now.Add(t.d).Unix()
	}
	return addSeconds(now.Unix(), t.secs)
}

func (t TTL) String() string {
	switch {
	case !t.set:
		return "default"
	case t.isDur:
		return t.d.String()
	case t.secs > maxDurationSeconds || t.secs < -maxDurationSeconds:
		return strconv.FormatInt(t.secs, 10) + "s"
	}
	return t.Duration().String()
}

// addSeconds returns now+secs, saturating at the int64 bounds.
func addSeconds(now, secs int64) int64 {
	switch {
	case secs > 0 && now > math.MaxInt64-secs:
		return math.MaxInt64
	case secs < 0 && now < math.MinInt64-secs:
		return math.MinInt64
	}
	return now + secs
}

var errEmptyTTL = errors.New("empty TTL")

// ParseTTL parses integer seconds ("3600") or a Go duration ("1h30m").
func ParseTTL(s string) (TTL, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return TTL{}, errEmptyTTL
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return Seconds(n), nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return TTL{}, fmt.Errorf("invalid TTL format: %w", err)
	}
	return Duration(d), nil
}
