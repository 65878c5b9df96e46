package domain

import "time"

// RecentChange is one entry of the recent changes feed.
type RecentChange struct {
	// Title is the title of the changed page, e.g. "Q42" or "Property:P31".
	Title  string
	Author string
	Date   time.Time
	Link   string
}
