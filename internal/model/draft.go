package model

import "time"

// Draft is a persisted record of a completed generation, kept so the
// user can browse and reuse past results. It is written by the UI after
// the generation request has been delivered; the request itself is not
// cached.
type Draft struct {
	ID        string    `db:"id"`
	Prompt    string    `db:"prompt"`
	Response  string    `db:"response"`
	Model     string    `db:"model"`
	CreatedAt time.Time `db:"created_at"`
}
