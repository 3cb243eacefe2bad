package models

import "time"

type Achievement struct {
	ID          int     `json:"id" db:"id"`
	Name        string  `json:"name" db:"name"`
	Icon        string  `json:"icon" db:"icon"`
	Description *string `json:"description,omitempty" db:"description"`
	Category    *string `json:"category,omitempty" db:"category"`
}

type PlayerAchievement struct {
	ID            int        `json:"id" db:"id"`
	PlayerID      int        `json:"player_id" db:"player_id"`
	AchievementID int        `json:"achievement_id" db:"achievement_id"`
	Unlocked      bool       `json:"unlocked" db:"unlocked"`
	UnlockedAt    *time.Time `json:"unlocked_at,omitempty" db:"unlocked_at"`

	Achievement *Achievement `json:"achievement,omitempty" db:"-"`
}
