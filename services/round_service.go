package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/Fermalla/golf-league-system/golf"
	"github.com/Fermalla/golf-league-system/models"
	"github.com/Fermalla/golf-league-system/repositories"
)

var (
	ErrRoundTypeInvalid       = errors.New("round type must be friendly or league")
	ErrFriendlyRoundHasLeague = errors.New("a friendly round cannot reference a league")
	ErrCardInvalid            = errors.New("invalid score card")
)

// RoundNotifier pushes round events to live subscribers. The websocket hub
// implements it; services stay unaware of the transport.
type RoundNotifier interface {
	NotifyRound(roundID int, event string, payload interface{})
}

const (
	EventCardSaved     = "CARD_SAVED"
	EventRoundResolved = "ROUND_RESOLVED"
)

type RoundService interface {
	CreateRound(ctx context.Context, input CreateRoundInput) (*models.Round, error)
	GetRoundByID(ctx context.Context, id int) (*models.Round, error)
	GetAllRounds(ctx context.Context) ([]models.Round, error)
	SubmitCard(ctx context.Context, roundID, playerID int, input CardInput) (*models.RoundPlayer, error)
	ResolveRound(ctx context.Context, roundID int) (*models.Round, error)
	DeleteRound(ctx context.Context, id int) error
}

type CreateRoundInput struct {
	Date      time.Time        `json:"date"`
	CourseID  int              `json:"course_id"`
	Tee       string           `json:"tee"`
	Type      models.RoundType `json:"type"`
	LeagueID  *int             `json:"league_id"`
	PlayerIDs []int            `json:"player_ids"`
}

type CardInput struct {
	// CourseHandicap, when set, overrides the handicap frozen at round
	// creation before the card is aggregated.
	CourseHandicap *int            `json:"course_handicap,omitempty"`
	Holes          []CardHoleInput `json:"holes"`
}

type CardHoleInput struct {
	Number     int   `json:"number"`
	Gross      int   `json:"gross"`
	Putts      *int  `json:"putts"`
	FairwayHit *bool `json:"fairway_hit"`
}

type roundService struct {
	db              *sql.DB
	roundRepo       repositories.RoundRepository
	roundPlayerRepo repositories.RoundPlayerRepository
	holeScoreRepo   repositories.HoleScoreRepository
	playerRepo      repositories.PlayerRepository
	courseRepo      repositories.CourseRepository
	holeRepo        repositories.HoleRepository
	leagueRepo      repositories.LeagueRepository
	notifier        RoundNotifier
	logger          *slog.Logger
}

func NewRoundService(
	db *sql.DB,
	roundRepo repositories.RoundRepository,
	roundPlayerRepo repositories.RoundPlayerRepository,
	holeScoreRepo repositories.HoleScoreRepository,
	playerRepo repositories.PlayerRepository,
	courseRepo repositories.CourseRepository,
	holeRepo repositories.HoleRepository,
	leagueRepo repositories.LeagueRepository,
	notifier RoundNotifier,
	logger *slog.Logger,
) RoundService {
	return &roundService{
		db:              db,
		roundRepo:       roundRepo,
		roundPlayerRepo: roundPlayerRepo,
		holeScoreRepo:   holeScoreRepo,
		playerRepo:      playerRepo,
		courseRepo:      courseRepo,
		holeRepo:        holeRepo,
		leagueRepo:      leagueRepo,
		notifier:        notifier,
		logger:          logger,
	}
}

// CreateRound registers a round and freezes each player's handicap for it.
// The exact handicap and the resulting course handicap are stored on the
// round player, so later handicap edits never rewrite history.
func (s *roundService) CreateRound(ctx context.Context, input CreateRoundInput) (*models.Round, error) {
	switch input.Type {
	case models.RoundFriendly:
		if input.LeagueID != nil {
			return nil, ErrFriendlyRoundHasLeague
		}
	case models.RoundLeague:
		if input.LeagueID == nil {
			return nil, ErrLeagueRoundMissing
		}
		league, err := s.leagueRepo.GetByID(ctx, *input.LeagueID)
		if err != nil {
			if errors.Is(err, repositories.ErrLeagueNotFound) {
				return nil, ErrLeagueNotFound
			}
			return nil, fmt.Errorf("failed to get league %d: %w", *input.LeagueID, err)
		}
		if league.IsClosed {
			return nil, ErrLeagueClosed
		}
	default:
		return nil, ErrRoundTypeInvalid
	}

	if len(input.PlayerIDs) == 0 {
		return nil, ErrRoundNoPlayers
	}

	course, err := s.courseRepo.GetByID(ctx, input.CourseID)
	if err != nil {
		if errors.Is(err, repositories.ErrCourseNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("failed to get course %d: %w", input.CourseID, err)
	}
	holes, err := s.holeRepo.ListByCourse(ctx, input.CourseID)
	if err != nil {
		return nil, fmt.Errorf("failed to list holes for course %d: %w", input.CourseID, err)
	}
	if len(holes) != golf.HolesPerRound {
		return nil, ErrCourseHolesIncomplete
	}

	players := make([]*models.Player, 0, len(input.PlayerIDs))
	seen := make(map[int]bool, len(input.PlayerIDs))
	for _, playerID := range input.PlayerIDs {
		if seen[playerID] {
			return nil, ErrRoundPlayerDuplicate
		}
		seen[playerID] = true
		player, err := s.playerRepo.GetByID(ctx, playerID)
		if err != nil {
			if errors.Is(err, repositories.ErrPlayerNotFound) {
				return nil, ErrPlayerNotFound
			}
			return nil, fmt.Errorf("failed to get player %d: %w", playerID, err)
		}
		players = append(players, player)
	}

	round := &models.Round{
		Date:     input.Date,
		CourseID: input.CourseID,
		Tee:      input.Tee,
		Type:     input.Type,
		LeagueID: input.LeagueID,
	}

	err = runInTx(ctx, s.db, func(tx *sql.Tx) error {
		if err := s.roundRepo.Create(ctx, tx, round); err != nil {
			return err
		}
		for _, player := range players {
			rp := &models.RoundPlayer{
				RoundID:        round.ID,
				PlayerID:       player.ID,
				HcpExactDay:    player.HcpExact,
				CourseHandicap: golf.CourseHandicap(player.HcpExact, course.Slope),
			}
			if err := s.roundPlayerRepo.Create(ctx, tx, rp); err != nil {
				return err
			}
			round.RoundPlayers = append(round.RoundPlayers, *rp)
		}
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrRoundCourseInvalid):
			return nil, ErrCourseNotFound
		case errors.Is(err, repositories.ErrRoundLeagueInvalid):
			return nil, ErrLeagueNotFound
		case errors.Is(err, repositories.ErrRoundPlayerDuplicate):
			return nil, ErrRoundPlayerDuplicate
		default:
			return nil, fmt.Errorf("failed to create round: %w", err)
		}
	}

	round.Course = course
	return round, nil
}

func (s *roundService) GetRoundByID(ctx context.Context, id int) (*models.Round, error) {
	round, err := s.roundRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrRoundNotFound) {
			return nil, ErrRoundNotFound
		}
		return nil, fmt.Errorf("failed to get round by id %d: %w", id, err)
	}
	if err := s.populateRound(ctx, round, true); err != nil {
		return nil, err
	}
	return round, nil
}

func (s *roundService) GetAllRounds(ctx context.Context) ([]models.Round, error) {
	rounds, err := s.roundRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get all rounds: %w", err)
	}
	if rounds == nil {
		return []models.Round{}, nil
	}
	for i := range rounds {
		if err := s.populateRound(ctx, &rounds[i], false); err != nil {
			return nil, err
		}
	}
	return rounds, nil
}

func (s *roundService) populateRound(ctx context.Context, round *models.Round, withCards bool) error {
	course, err := s.courseRepo.GetByID(ctx, round.CourseID)
	if err == nil {
		round.Course = course
	} else if !errors.Is(err, repositories.ErrCourseNotFound) {
		return fmt.Errorf("failed to get course %d for round %d: %w", round.CourseID, round.ID, err)
	}

	roundPlayers, err := s.roundPlayerRepo.ListByRound(ctx, round.ID)
	if err != nil {
		return fmt.Errorf("failed to list players for round %d: %w", round.ID, err)
	}
	for i := range roundPlayers {
		player, err := s.playerRepo.GetByID(ctx, roundPlayers[i].PlayerID)
		if err == nil {
			roundPlayers[i].Player = player
		} else if !errors.Is(err, repositories.ErrPlayerNotFound) {
			return fmt.Errorf("failed to get player %d for round %d: %w", roundPlayers[i].PlayerID, round.ID, err)
		}
		if withCards {
			scores, err := s.holeScoreRepo.ListByRoundPlayer(ctx, roundPlayers[i].ID)
			if err != nil {
				return fmt.Errorf("failed to list hole scores for round player %d: %w", roundPlayers[i].ID, err)
			}
			roundPlayers[i].HoleScores = scores
		}
	}
	round.RoundPlayers = roundPlayers
	return nil
}

// SubmitCard replaces the player's full card for the round and refreshes the
// derived totals atomically. When every participant has a card after the
// save, the round result is resolved in the same transaction.
func (s *roundService) SubmitCard(ctx context.Context, roundID, playerID int, input CardInput) (*models.RoundPlayer, error) {
	round, err := s.roundRepo.GetByID(ctx, roundID)
	if err != nil {
		if errors.Is(err, repositories.ErrRoundNotFound) {
			return nil, ErrRoundNotFound
		}
		return nil, fmt.Errorf("failed to get round %d: %w", roundID, err)
	}

	rp, err := s.roundPlayerRepo.GetByRoundAndPlayer(ctx, roundID, playerID)
	if err != nil {
		if errors.Is(err, repositories.ErrRoundPlayerNotFound) {
			return nil, ErrRoundPlayerNotFound
		}
		return nil, fmt.Errorf("failed to get round player: %w", err)
	}

	holes, err := s.holeRepo.ListByCourse(ctx, round.CourseID)
	if err != nil {
		return nil, fmt.Errorf("failed to list holes for course %d: %w", round.CourseID, err)
	}

	hcpOverridden := input.CourseHandicap != nil && *input.CourseHandicap != rp.CourseHandicap
	if hcpOverridden {
		rp.CourseHandicap = *input.CourseHandicap
	}

	card := golf.ScoreCard{
		Gross:    make(map[int]int, len(input.Holes)),
		Putts:    make(map[int]*int, len(input.Holes)),
		Fairways: make(map[int]bool, len(input.Holes)),
	}
	for _, h := range input.Holes {
		card.Gross[h.Number] = h.Gross
		card.Putts[h.Number] = h.Putts
		if h.FairwayHit != nil && *h.FairwayHit {
			card.Fairways[h.Number] = true
		}
	}

	totals, holeScores, err := golf.AggregateCard(rp.CourseHandicap, holes, card)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCardInvalid, err)
	}

	rp.GrossTotal = &totals.GrossTotal
	rp.NetTotal = &totals.NetTotal
	rp.StablefordHcpTotal = &totals.StablefordHcpTotal
	rp.StablefordScratchTotal = &totals.StablefordScratchTotal
	rp.PuttsTotal = nil
	if totals.GIRPossible > 0 {
		rp.PuttsTotal = &totals.PuttsTotal
	}

	var resolution *golf.Resolution
	err = runInTx(ctx, s.db, func(tx *sql.Tx) error {
		if hcpOverridden {
			if err := s.roundPlayerRepo.UpdateCourseHandicap(ctx, tx, rp.ID, rp.CourseHandicap); err != nil {
				return err
			}
		}
		if err := s.holeScoreRepo.ReplaceForRoundPlayer(ctx, tx, rp.ID, holeScores); err != nil {
			return err
		}
		if err := s.roundPlayerRepo.UpdateTotals(ctx, tx, rp); err != nil {
			return err
		}

		participants, err := s.roundPlayerRepo.ListByRound(ctx, roundID)
		if err != nil {
			return fmt.Errorf("failed to list participants for round %d: %w", roundID, err)
		}
		for i := range participants {
			if participants[i].ID == rp.ID {
				participants[i] = *rp
			}
		}
		if !allScored(participants) {
			return nil
		}
		resolution, err = s.resolveInTx(ctx, tx, roundID, participants)
		return err
	})
	if err != nil {
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.NotifyRound(roundID, EventCardSaved, map[string]interface{}{
			"round_id":     roundID,
			"player_id":    playerID,
			"round_player": rp,
		})
		if resolution != nil {
			s.notifier.NotifyRound(roundID, EventRoundResolved, map[string]interface{}{
				"round_id":          roundID,
				"winner_type":       resolution.WinnerType,
				"winner_player_ids": resolution.WinnerPlayerIDs,
			})
		}
	}
	return rp, nil
}

// ResolveRound recomputes the winner from the cards submitted so far. Rounds
// normally resolve themselves once the last card lands; this is the manual
// override for rounds where someone never finished.
func (s *roundService) ResolveRound(ctx context.Context, roundID int) (*models.Round, error) {
	if _, err := s.roundRepo.GetByID(ctx, roundID); err != nil {
		if errors.Is(err, repositories.ErrRoundNotFound) {
			return nil, ErrRoundNotFound
		}
		return nil, fmt.Errorf("failed to get round %d: %w", roundID, err)
	}

	participants, err := s.roundPlayerRepo.ListByRound(ctx, roundID)
	if err != nil {
		return nil, fmt.Errorf("failed to list participants for round %d: %w", roundID, err)
	}

	var resolution *golf.Resolution
	err = runInTx(ctx, s.db, func(tx *sql.Tx) error {
		resolution, err = s.resolveInTx(ctx, tx, roundID, participants)
		return err
	})
	if err != nil {
		return nil, err
	}

	if s.notifier != nil && resolution != nil {
		s.notifier.NotifyRound(roundID, EventRoundResolved, map[string]interface{}{
			"round_id":          roundID,
			"winner_type":       resolution.WinnerType,
			"winner_player_ids": resolution.WinnerPlayerIDs,
		})
	}
	return s.GetRoundByID(ctx, roundID)
}

func (s *roundService) resolveInTx(ctx context.Context, tx *sql.Tx, roundID int, participants []models.RoundPlayer) (*golf.Resolution, error) {
	resolution, err := golf.ResolveRound(participants)
	if err != nil {
		if errors.Is(err, golf.ErrNoScoredPlayers) {
			return nil, ErrRoundNoScoredPlayers
		}
		return nil, fmt.Errorf("failed to resolve round %d: %w", roundID, err)
	}

	if err := s.roundRepo.SetWinner(ctx, tx, roundID, resolution.WinnerType, joinIDs(resolution.WinnerPlayerIDs)); err != nil {
		return nil, err
	}
	for roundPlayerID, result := range resolution.Results {
		if err := s.roundPlayerRepo.UpdateResult(ctx, tx, roundPlayerID, result); err != nil {
			return nil, err
		}
	}

	s.logger.InfoContext(ctx, "round resolved",
		slog.Int("round_id", roundID),
		slog.String("winner_type", string(resolution.WinnerType)),
		slog.String("winner_player_ids", joinIDs(resolution.WinnerPlayerIDs)),
	)
	return resolution, nil
}

func (s *roundService) DeleteRound(ctx context.Context, id int) error {
	if err := s.roundRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrRoundNotFound) {
			return ErrRoundNotFound
		}
		return fmt.Errorf("failed to delete round %d: %w", id, err)
	}
	return nil
}

func allScored(participants []models.RoundPlayer) bool {
	if len(participants) == 0 {
		return false
	}
	for i := range participants {
		if participants[i].GrossTotal == nil {
			return false
		}
	}
	return true
}

func joinIDs(ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, ",")
}
