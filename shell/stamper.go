package shell

import (
	"time"

	"github.com/google/uuid"

	"github.com/acmsl/licdata/core"
)

// IDGenerator returns a new unique id.
type IDGenerator func() string

// Clock returns the current time.
type Clock func() time.Time

// Stamper hands out event ids and timestamps, the two impure inputs every Decide function receives.
type Stamper struct {
	newID IDGenerator
	now   Clock
}

// NewStamper creates a Stamper. Nil arguments fall back to random UUIDs and the wall clock.
func NewStamper(newID IDGenerator, now Clock) Stamper {
	if newID == nil {
		newID = uuid.NewString
	}

	if now == nil {
		now = time.Now
	}

	return Stamper{newID: newID, now: now}
}

// DefaultStamper returns a Stamper backed by uuid.NewString and time.Now.
func DefaultStamper() Stamper {
	return NewStamper(nil, nil)
}

// IsZero reports whether s is the zero Stamper rather than one built by NewStamper.
func (s Stamper) IsZero() bool {
	return s.newID == nil && s.now == nil
}

// NewID returns a fresh id, used for events and aggregates alike.
func (s Stamper) NewID() string {
	if s.newID == nil {
		return uuid.NewString()
	}

	return s.newID()
}

// Stamp returns a Stamp with a fresh event id and the current time.
func (s Stamper) Stamp() core.Stamp {
	now := time.Now
	if s.now != nil {
		now = s.now
	}

	return core.BuildStamp(s.NewID(), now())
}
