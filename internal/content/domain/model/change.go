package model

import "time"

// ChangeEntry is one record of the admin change log.
type ChangeEntry struct {
	ID        string      `json:"id"`
	Type      string      `json:"type"`
	Domain    string      `json:"domain"`
	Actor     string      `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data,omitempty"`
}
