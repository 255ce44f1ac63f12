package model

import "time"

// AnalyticsEvent is one recorded observability event. Parameters are
// free-form string pairs; Date is when the event occurred.
type AnalyticsEvent struct {
	ID         string            `json:"id"`
	Name       string            `json:"name"`
	Parameters map[string]string `json:"parameters,omitempty"`
	Date       time.Time         `json:"date"`
}
