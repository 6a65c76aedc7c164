package storage

// Turn represents one persisted message of a chat session.
type Turn struct {
	ID         string // UUID
	SessionKey string // "<user_id>:<channel_id>"
	Seq        int    // Position within the session (starts at 0)
	Role       string // "user" or "assistant"
	Content    string
}
