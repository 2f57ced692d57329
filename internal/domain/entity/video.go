package entity

import (
	"fmt"
	"time"
)

// Resolution holds the pixel dimensions reported by the probe. Both fields
// are nil when the probed bytes contain no video stream entry.
type Resolution struct {
	Width  *int
	Height *int
}

func (r Resolution) String() string {
	if r.Width == nil || r.Height == nil {
		return "unknown"
	}
	return fmt.Sprintf("%dx%d", *r.Width, *r.Height)
}

// ProcessedVideo is the durable record appended for every successfully
// processed alert. Duplicate uids are possible under at-least-once delivery.
type ProcessedVideo struct {
	ID          int64
	UID         string
	Video       string
	Width       *int
	Height      *int
	ProcessedAt time.Time
}
