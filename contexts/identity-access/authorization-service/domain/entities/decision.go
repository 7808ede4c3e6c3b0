package entities

import "time"

// Decision is returned by the authorize query.
type Decision struct {
	UserID     string     `json:"user_id"`
	Operation  Operation  `json:"operation"`
	Permission Permission `json:"permission"`
	Allowed    bool       `json:"allowed"`
	Reason     string     `json:"reason"`
	CheckedAt  time.Time  `json:"checked_at"`
}
