package models

import "time"

// RoundType distinguishes friendly rounds from league rounds.
type RoundType string

const (
	RoundFriendly RoundType = "friendly"
	RoundLeague   RoundType = "league"
)

// WinnerType is set once every card of the round has been submitted.
type WinnerType string

const (
	WinnerSingle WinnerType = "single"
	WinnerTie    WinnerType = "tie"
)

// PlayerResult is the per-participant outcome of a resolved round.
type PlayerResult string

const (
	ResultWin  PlayerResult = "win"
	ResultTie  PlayerResult = "tie"
	ResultLoss PlayerResult = "loss"
)

// Round is a single scoring event at one course on one date.
// League rounds reference exactly one league.
type Round struct {
	ID       int       `json:"id" db:"id"`
	Date     time.Time `json:"date" db:"date"`
	CourseID int       `json:"course_id" db:"course_id"`
	Tee      string    `json:"tee" db:"tee"`
	Type     RoundType `json:"type" db:"type"`
	LeagueID *int      `json:"league_id,omitempty" db:"league_id"`

	WinnerType      *WinnerType `json:"winner_type,omitempty" db:"winner_type"`
	WinnerPlayerIDs *string     `json:"winner_player_ids,omitempty" db:"winner_player_ids"`

	Course       *Course       `json:"course,omitempty" db:"-"`
	RoundPlayers []RoundPlayer `json:"round_players,omitempty" db:"-"`
}

// RoundPlayer is one player's participation in one round. The handicap
// fields are frozen at round creation; the totals stay nil until the
// player's card is submitted.
type RoundPlayer struct {
	ID       int `json:"id" db:"id"`
	RoundID  int `json:"round_id" db:"round_id"`
	PlayerID int `json:"player_id" db:"player_id"`

	HcpExactDay    float64 `json:"hcp_exact_day" db:"hcp_exact_day"`
	CourseHandicap int     `json:"course_handicap" db:"course_handicap"`

	GrossTotal             *int `json:"gross_total,omitempty" db:"gross_total"`
	NetTotal               *int `json:"net_total,omitempty" db:"net_total"`
	StablefordHcpTotal     *int `json:"stableford_hcp_total,omitempty" db:"stableford_hcp_total"`
	StablefordScratchTotal *int `json:"stableford_scratch_total,omitempty" db:"stableford_scratch_total"`
	PuttsTotal             *int `json:"putts_total,omitempty" db:"putts_total"`

	Result *PlayerResult `json:"result,omitempty" db:"result"`

	Player     *Player     `json:"player,omitempty" db:"-"`
	HoleScores []HoleScore `json:"hole_scores,omitempty" db:"-"`
}

// HoleScore is one hole's recorded result for one round player.
// FIR is nil on par-3 holes, GIR is nil when putts are unknown.
type HoleScore struct {
	ID            int `json:"id" db:"id"`
	RoundPlayerID int `json:"round_player_id" db:"round_player_id"`
	HoleNumber    int `json:"hole_number" db:"hole_number"`

	GrossStrokes int   `json:"gross_strokes" db:"gross_strokes"`
	Putts        *int  `json:"putts,omitempty" db:"putts"`
	FIR          *bool `json:"fir,omitempty" db:"fir"`
	GIR          *bool `json:"gir,omitempty" db:"gir"`

	NetStrokes       int `json:"net_strokes" db:"net_strokes"`
	StablefordPoints int `json:"stableford_points" db:"stableford_points"`
}
