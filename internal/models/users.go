package models

import "database/sql"

type User struct {
	ID        int            `json:"id,omitempty" db:"id,omitempty"`
	Username  string         `json:"username,omitempty" db:"username,omitempty"`
	Name      string         `json:"name,omitempty" db:"name,omitempty"`
	Email     string         `json:"email,omitempty" db:"email,omitempty"`
	Password  string         `json:"-" db:"password,omitempty"`
	CreatedAt sql.NullString `json:"created_at,omitempty" db:"created_at,omitempty"`
}

// UserRef is the slice of a user the settlement engine needs: an identity to
// key balances on and a name to label settlements with. The engine never
// touches full user records.
type UserRef struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}
