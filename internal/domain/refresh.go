package domain

import "time"

// RefreshRun records the outcome of one upstream refresh for operators.
type RefreshRun struct {
	ID         int64     `json:"id"`
	Method     string    `json:"method"`
	ShiftCount int       `json:"shiftCount"`
	PageCount  int       `json:"pageCount"`
	Partial    bool      `json:"partial"`
	DurationMS int64     `json:"durationMs"`
	Succeeded  bool      `json:"succeeded"`
	Detail     string    `json:"detail"`
	CreatedAt  time.Time `json:"createdAt"`
}

// RefreshMessage is the queue payload published after every refresh attempt.
type RefreshMessage struct {
	Method     string `json:"method"`
	ShiftCount int    `json:"shiftCount"`
	PageCount  int    `json:"pageCount"`
	Partial    bool   `json:"partial"`
	DurationMS int64  `json:"durationMs"`
	Succeeded  bool   `json:"succeeded"`
	Detail     string `json:"detail,omitempty"`
}
