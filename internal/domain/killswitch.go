package domain

import "time"

// KillSwitchState is the process-wide pause singleton. At most one state
// record is authoritative at a time; a read after DeactivateAt has elapsed
// must report inactive (lazy expiry).
type KillSwitchState struct {
	Active         bool
	Reason         string
	ActivatedAt    time.Time
	DeactivateAt   time.Time
	TriggeredCount int
	Message        string
}

// Remaining reports how long the pause has left at the given instant.
// Zero or negative means the pause has expired.
func (s KillSwitchState) Remaining(now time.Time) time.Duration {
	if !s.Active {
		return 0
	}
	return s.DeactivateAt.Sub(now)
}
