package entity

import "errors"

// Alert is the inbound message published to the alerts queue. It is
// transient: consumed, enriched and discarded, never persisted verbatim.
type Alert struct {
	UID       string  `json:"uid"`
	Video     string  `json:"video"`
	Timestamp float64 `json:"timestamp"`
	Store     string  `json:"store"`
}

// Validate checks the syntactic requirements on an inbound alert.
func (a Alert) Validate() error {
	if a.UID == "" {
		return errors.New("uid is required")
	}
	if a.Video == "" {
		return errors.New("video is required")
	}
	if a.Timestamp <= 0 {
		return errors.New("timestamp must be a positive number")
	}
	if a.Store == "" {
		return errors.New("store is required")
	}
	return nil
}
