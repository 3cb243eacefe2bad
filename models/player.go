package models

import "time"

type Player struct {
	ID            int     `json:"id" db:"id"`
	Name          string  `json:"name" db:"name"`
	Nickname      *string `json:"nickname,omitempty" db:"nickname"`
	HcpExact      float64 `json:"hcp_exact" db:"hcp_exact"`
	Active        bool    `json:"active" db:"active"`
	LicenseNumber *string `json:"license_number,omitempty" db:"license_number"`

	PhotoKey *string `json:"-" db:"photo_key"`
	PhotoURL *string `json:"photo_url,omitempty" db:"-"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
