package models

import "time"

type SessionStatus string

const (
	SessionIdle   SessionStatus = "idle"
	SessionActive SessionStatus = "active"
	SessionEnded  SessionStatus = "ended"
)

// TableSession is the live occupancy record of one table slot.
// Values handed out by the registry are snapshots and never alias its state.
type TableSession struct {
	TableNumber    int           `json:"tableNumber"`
	SessionID      string        `json:"sessionId"`
	Status         SessionStatus `json:"status"`
	ElapsedSeconds int64         `json:"elapsedSeconds"`
	ElapsedMinutes int64         `json:"elapsedMinutes"`
	TableCharge    int64         `json:"tableCharge"`
	Items          []LineItem    `json:"items"`
	StartedAt      *time.Time    `json:"startedAt,omitempty"`
	EndedAt        *time.Time    `json:"endedAt,omitempty"`
}

// ItemsTotal sums price * quantity over the session items.
func (s TableSession) ItemsTotal() int64 {
	var total int64
	for _, item := range s.Items {
		total += item.Subtotal()
	}
	return total
}

// Clone returns a deep copy of the session.
func (s TableSession) Clone() TableSession {
	out := s
	out.Items = CloneItems(s.Items)
	if s.StartedAt != nil {
		t := *s.StartedAt
		out.StartedAt = &t
	}
	if s.EndedAt != nil {
		t := *s.EndedAt
		out.EndedAt = &t
	}
	return out
}
