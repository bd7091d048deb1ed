package domain

import "time"

// SavedEntry is a lightweight record kept in the saved-users and
// recently-viewed lists. Entries are unique by ID within each list.
type SavedEntry struct {
	ID            string    `json:"id"`
	Username      string    `json:"username"`
	ProfilePicURL *string   `json:"profile_pic_url,omitempty"`
	RecordedAt    time.Time `json:"recorded_at"`
}

// NewSavedEntry builds an entry from a full user aggregate.
func NewSavedEntry(user User, at time.Time) SavedEntry {
	return SavedEntry{
		ID:            user.ID,
		Username:      user.Username,
		ProfilePicURL: user.ProfilePicURL,
		RecordedAt:    at,
	}
}
