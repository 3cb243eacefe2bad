package services

import "errors"

// Shared errors used across services and the HTTP mapping layer.
var (
	ErrNotFound         = errors.New("requested resource not found")
	ErrValidationFailed = errors.New("validation failed")

	// Auth
	ErrAuthInvalidAccessKey = errors.New("invalid access key")

	// Entity lookups
	ErrPlayerNotFound      = errors.New("player not found")
	ErrCourseNotFound      = errors.New("course not found")
	ErrRoundNotFound       = errors.New("round not found")
	ErrLeagueNotFound      = errors.New("league not found")
	ErrRoundPlayerNotFound = errors.New("player is not part of this round")
	ErrAchievementNotFound = errors.New("achievement not found")

	// Conflicts
	ErrPlayerNameConflict      = errors.New("player with this name already exists")
	ErrCourseNameConflict      = errors.New("course with this name already exists")
	ErrLeagueNameConflict      = errors.New("league with this name already exists")
	ErrAchievementNameConflict = errors.New("achievement with this name already exists")
	ErrRoundPlayerDuplicate    = errors.New("player is already in this round")

	// Referenced rows that block deletion
	ErrPlayerInUse = errors.New("player has recorded rounds and cannot be deleted")
	ErrCourseInUse = errors.New("course has recorded rounds and cannot be deleted")
	ErrLeagueInUse = errors.New("league has rounds and cannot be deleted")

	// Business rules
	ErrCourseHolesIncomplete = errors.New("course does not have a complete set of 18 holes")
	ErrRoundNoPlayers        = errors.New("a round needs at least one player")
	ErrRoundNoScoredPlayers  = errors.New("no player in this round has a submitted card")
	ErrLeagueClosed          = errors.New("league is closed")
	ErrLeagueRoundMissing    = errors.New("a league round must reference a league")
	ErrUploadInvalidType     = errors.New("unsupported image content type")
)
