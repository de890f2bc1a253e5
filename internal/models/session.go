package models

import "time"

// Session maps an opaque token to the login that opened it.
type Session struct {
	Token     string    `json:"token"`
	Login     string    `json:"login"`
	CreatedAt time.Time `json:"createdAt"`
}
