package domain

import "time"

// Token describes an issued session token. The signed string itself is only held by the client.
type Token struct {
	ID        string
	LoginID   string
	Role      Role
	IssuedAt  time.Time
	ExpiresAt time.Time
}
