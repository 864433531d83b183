package event_bus

import "time"

// Event types published by the clock services.
const (
	ClockedInEvent  EventType = "clock.in"
	ClockedOutEvent EventType = "clock.out"
)

// ClockedIn is published when a user opens a work session.
type ClockedIn struct {
	EntryId int
	UserId  int
	ClockIn time.Time
}

// ClockedOut is published when a user closes their open session.
type ClockedOut struct {
	EntryId  int
	UserId   int
	ClockIn  time.Time
	ClockOut time.Time
	// Hours is the worked time of the closed session, breaks deducted.
	Hours float64
}
