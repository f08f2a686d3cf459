package codex

import "time"

// Session is the persisted selection cell of one interactive session.
// Character is empty until the user picks someone.
type Session struct {
	ID        string
	Character string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// SessionID scopes a session to one user in one channel. Direct messages
// have no channel worth separating, so the user ID alone is used.
func SessionID(channelID, userID string) string {
	if channelID == "" {
		return userID
	}
	return channelID + ":" + userID
}
