package model

// User exists in the schema for future authentication. No route reads it.
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Password string `json:"-"`
}
