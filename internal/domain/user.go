package domain

import "time"

// User is a registered account. Credit is nullable in the store; a NULL
// balance on an existing row is a data-integrity fault, not "no credit".
type User struct {
	UserID    string
	Name      string
	Email     string
	Phone     string
	Password  string
	Credit    *int
	CreatedAt time.Time
	UpdatedAt time.Time
}
