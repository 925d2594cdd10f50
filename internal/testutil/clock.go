package testutil

import (
	"fmt"
	"time"
)

// StubClock is a series.Clock that only moves when told to.
type StubClock struct {
	now time.Time
}

// NewStubClock creates a StubClock reading t.
func NewStubClock(t time.Time) *StubClock {
	return &StubClock{now: t}
}

// FixedClock returns a StubClock at 2024-01-15 10:30:00 UTC.
func FixedClock() *StubClock {
	return NewStubClock(time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC))
}

func (c *StubClock) Now() time.Time { return c.now }

// Advance moves the clock forward by d, e.g. between two invocations.
func (c *StubClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

// StubIDGenerator hands out invocation ids "inv-1", "inv-2", ...
type StubIDGenerator struct {
	issued int
}

func NewStubIDGenerator() *StubIDGenerator {
	return &StubIDGenerator{}
}

func (g *StubIDGenerator) New() string {
	g.issued++
	return fmt.Sprintf("inv-%d", g.issued)
}
