package session

import (
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
)

// IDGenerator produces tab ids. taken reports ids already present in the session.
type IDGenerator interface {
	NewID(taken func(id string) bool) string
}

// TimeIDs generates "tab-<unix millis>" ids. Two calls within the same millisecond, or
// a clock that moves backwards, bump the value so ids stay unique.
type TimeIDs struct {
	Now func() time.Time

	mu   sync.Mutex
	last int64
}

// NewTimeIDs returns a TimeIDs backed by the wall clock.
func NewTimeIDs() *TimeIDs {
	return &TimeIDs{Now: time.Now}
}

func (g *TimeIDs) NewID(taken func(string) bool) string {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := time.Now
	if g.Now != nil {
		now = g.Now
	}
	ms := now().UnixMilli()
	if ms <= g.last {
		ms = g.last + 1
	}
	for taken != nil && taken(timeID(ms)) {
		ms++
	}
	g.last = ms
	return timeID(ms)
}

func timeID(ms int64) string {
	return "tab-" + strconv.FormatInt(ms, 10)
}

// UUIDIDs generates "tab-<uuid>" ids.
type UUIDIDs struct{}

func (UUIDIDs) NewID(taken func(string) bool) string {
	for {
		id := "tab-" + uuid.NewString()
		if taken == nil || !taken(id) {
			return id
		}
	}
}

// NewIDGenerator maps a configured style name to a generator. Unknown styles use time ids.
func NewIDGenerator(style string) IDGenerator {
	if style == "uuid" {
		return UUIDIDs{}
	}
	return NewTimeIDs()
}
