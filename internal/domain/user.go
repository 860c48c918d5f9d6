package domain

import "time"

// User represents a registered account. Lists reference users by ID only;
// deleting a user does not implicitly delete their lists (account deletion
// performs that cascade explicitly at the service layer).
type User struct {
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
	ID           string       `json:"id"`
	Username     string       `json:"username"`
	Email        string       `json:"email"`
	PasswordHash string       `json:"password_hash,omitempty"` // Stored hashed, filter from API responses
	About        []AboutEntry `json:"about"`                   // Newest first, removable by ID
	LastLoginAt  time.Time    `json:"last_login_at"`
}

// AboutEntry is a free-text profile note. Entries are append-only except
// for removal by ID, which only the owning user may perform.
type AboutEntry struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// DisplayName returns the name shown on books and comments this user submits.
func (u *User) DisplayName() string {
	return u.Username
}

// FindAbout returns the about entry with the given ID, or nil if absent.
func (u *User) FindAbout(aboutID string) *AboutEntry {
	for i := range u.About {
		if u.About[i].ID == aboutID {
			return &u.About[i]
		}
	}
	return nil
}

// Touch updates the UpdatedAt timestamp to the current time.
func (u *User) Touch() {
	u.UpdatedAt = time.Now()
}

// Sanitized returns a copy safe for API responses: the password hash is
// stripped, everything else is kept.
func (u *User) Sanitized() *User {
	clean := *u
	clean.PasswordHash = ""
	return &clean
}
