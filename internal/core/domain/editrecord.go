package domain

import "time"

// EditRecord is a journal entry for an edit applied through this client.
type EditRecord struct {
	ID         string
	EntityID   string
	EntityType string
	RevisionID int64
	Summary    string
	Bot        bool
	Recovered  bool
	CreatedAt  time.Time
}
