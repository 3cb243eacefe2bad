package models

import "time"

// League groups rounds into a championship. Closing a league is a
// one-way transition: standings become final and champions are reported.
type League struct {
	ID       int    `json:"id" db:"id"`
	Name     string `json:"name" db:"name"`
	IsClosed bool   `json:"is_closed" db:"is_closed"`

	LogoKey *string `json:"-" db:"logo_key"`
	LogoURL *string `json:"logo_url,omitempty" db:"-"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
