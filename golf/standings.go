package golf

import (
	"sort"

	"github.com/Fermalla/golf-league-system/models"
)

// NetChampionMinRounds is the eligibility threshold for the net title:
// a player needs at least this many rounds in the league to be named
// net champion.
const NetChampionMinRounds = 5

// MainRow is one entry of the points leaderboard.
type MainRow struct {
	PlayerID   int     `json:"player_id"`
	PlayerName string  `json:"player_name"`
	Points     float64 `json:"points"`
	Rounds     int     `json:"rounds"`
}

// NetRow is one entry of the average-net leaderboard.
type NetRow struct {
	PlayerID   int     `json:"player_id"`
	PlayerName string  `json:"player_name"`
	AvgNet     float64 `json:"avg_net"`
	Rounds     int     `json:"rounds"`
}

// ScratchRow is one entry of the scratch-points leaderboard.
type ScratchRow struct {
	PlayerID     int    `json:"player_id"`
	PlayerName   string `json:"player_name"`
	TotalScratch int    `json:"total_scratch"`
	Rounds       int    `json:"rounds"`
}

// PlayerTableRow carries every aggregate per player for detailed display.
// It is a superset view of the three leaderboards, not a fourth ranking.
type PlayerTableRow struct {
	PlayerID   int    `json:"player_id"`
	PlayerName string `json:"player_name"`

	Rounds int `json:"rounds"`
	Wins   int `json:"wins"`
	Ties   int `json:"ties"`

	GrossTotal      int      `json:"gross_total"`
	NetTotal        int      `json:"net_total"`
	StablefordTotal int      `json:"stableford_total"`
	ScratchTotal    int      `json:"scratch_total"`
	AvgGross        *float64 `json:"avg_gross,omitempty"`
	LevelHcp        *float64 `json:"level_hcp,omitempty"`
	BestGross       *int     `json:"best_gross,omitempty"`

	F1Points float64 `json:"f1_points"`
}

// Champions holds the title winners of a closed league. All three lists
// stay empty while the league is open.
type Champions struct {
	MainPlayerIDs    []int `json:"main_player_ids"`
	NetPlayerIDs     []int `json:"net_player_ids"`
	ScratchPlayerIDs []int `json:"scratch_player_ids"`
}

// Standings is the full classification of one league.
type Standings struct {
	Main      []MainRow        `json:"main"`
	Net       []NetRow         `json:"net"`
	Scratch   []ScratchRow     `json:"scratch"`
	Players   []PlayerTableRow `json:"players_table"`
	Champions Champions        `json:"champions"`
}

type playerAgg struct {
	playerID int
	name     string

	rounds int
	wins   int
	ties   int

	f1Points float64

	grossSum   int
	grossCount int
	bestGross  *int

	netSum   int
	netCount int

	scratchSum    int
	stablefordSum int

	levelHcpSum   float64
	levelHcpCount int
}

// ComputeStandings builds the three leaderboards, the extended player
// table and the champions of one league from its rounds. Rounds are
// expected to carry their course and round players (players loaded for
// names); a round with no submitted card is skipped.
//
// Per round, max(n−1, 0) points are on offer, where n is the number of
// participants with a handicap-Stableford total, and are split evenly
// among everyone matching the round's best total.
func ComputeStandings(league models.League, rounds []models.Round) Standings {
	stats := make(map[int]*playerAgg)
	var order []int // first-seen order, so map iteration never leaks into results

	get := func(rp *models.RoundPlayer) *playerAgg {
		s, ok := stats[rp.PlayerID]
		if !ok {
			s = &playerAgg{playerID: rp.PlayerID}
			if rp.Player != nil {
				s.name = rp.Player.Name
			}
			stats[rp.PlayerID] = s
			order = append(order, rp.PlayerID)
		}
		return s
	}

	for ri := range rounds {
		r := &rounds[ri]

		scored := make([]*models.RoundPlayer, 0, len(r.RoundPlayers))
		for i := range r.RoundPlayers {
			if r.RoundPlayers[i].GrossTotal != nil {
				scored = append(scored, &r.RoundPlayers[i])
			}
		}
		if len(scored) == 0 {
			continue
		}

		for _, rp := range scored {
			s := get(rp)
			s.rounds++

			if rp.Result != nil {
				switch *rp.Result {
				case models.ResultWin:
					s.wins++
				case models.ResultTie:
					s.ties++
				}
			}

			gross := *rp.GrossTotal
			s.grossSum += gross
			s.grossCount++
			if s.bestGross == nil || gross < *s.bestGross {
				best := gross
				s.bestGross = &best
			}

			if r.Course != nil && r.Course.Slope != 0 {
				level := (float64(gross) - r.Course.Rating) * NeutralSlope / float64(r.Course.Slope)
				s.levelHcpSum += level
				s.levelHcpCount++
			}

			if rp.NetTotal != nil {
				s.netSum += *rp.NetTotal
				s.netCount++
			}
			if rp.StablefordScratchTotal != nil {
				s.scratchSum += *rp.StablefordScratchTotal
			}
			if rp.StablefordHcpTotal != nil {
				s.stablefordSum += *rp.StablefordHcpTotal
			}
		}

		distributeRoundPoints(scored, stats)
	}

	st := Standings{
		Champions: Champions{
			MainPlayerIDs:    []int{},
			NetPlayerIDs:     []int{},
			ScratchPlayerIDs: []int{},
		},
	}

	for _, pid := range order {
		s := stats[pid]

		st.Main = append(st.Main, MainRow{
			PlayerID:   s.playerID,
			PlayerName: s.name,
			Points:     s.f1Points,
			Rounds:     s.rounds,
		})

		if s.netCount > 0 {
			st.Net = append(st.Net, NetRow{
				PlayerID:   s.playerID,
				PlayerName: s.name,
				AvgNet:     float64(s.netSum) / float64(s.netCount),
				Rounds:     s.rounds,
			})
		}

		if s.scratchSum > 0 {
			st.Scratch = append(st.Scratch, ScratchRow{
				PlayerID:     s.playerID,
				PlayerName:   s.name,
				TotalScratch: s.scratchSum,
				Rounds:       s.rounds,
			})
		}

		st.Players = append(st.Players, PlayerTableRow{
			PlayerID:        s.playerID,
			PlayerName:      s.name,
			Rounds:          s.rounds,
			Wins:            s.wins,
			Ties:            s.ties,
			GrossTotal:      s.grossSum,
			NetTotal:        s.netSum,
			StablefordTotal: s.stablefordSum,
			ScratchTotal:    s.scratchSum,
			AvgGross:        average(s.grossSum, s.grossCount),
			LevelHcp:        averageFloat(s.levelHcpSum, s.levelHcpCount),
			BestGross:       s.bestGross,
			F1Points:        s.f1Points,
		})
	}

	sort.SliceStable(st.Main, func(i, j int) bool {
		a, b := st.Main[i], st.Main[j]
		if a.Points != b.Points {
			return a.Points > b.Points
		}
		if a.Rounds != b.Rounds {
			return a.Rounds > b.Rounds
		}
		if a.PlayerName != b.PlayerName {
			return a.PlayerName < b.PlayerName
		}
		return a.PlayerID < b.PlayerID
	})

	sort.SliceStable(st.Net, func(i, j int) bool {
		a, b := st.Net[i], st.Net[j]
		if a.AvgNet != b.AvgNet {
			return a.AvgNet < b.AvgNet
		}
		if a.Rounds != b.Rounds {
			return a.Rounds > b.Rounds
		}
		if a.PlayerName != b.PlayerName {
			return a.PlayerName < b.PlayerName
		}
		return a.PlayerID < b.PlayerID
	})

	sort.SliceStable(st.Scratch, func(i, j int) bool {
		a, b := st.Scratch[i], st.Scratch[j]
		if a.TotalScratch != b.TotalScratch {
			return a.TotalScratch > b.TotalScratch
		}
		if a.Rounds != b.Rounds {
			return a.Rounds > b.Rounds
		}
		if a.PlayerName != b.PlayerName {
			return a.PlayerName < b.PlayerName
		}
		return a.PlayerID < b.PlayerID
	})

	sort.SliceStable(st.Players, func(i, j int) bool {
		a, b := st.Players[i], st.Players[j]
		if a.F1Points != b.F1Points {
			return a.F1Points > b.F1Points
		}
		if a.PlayerName != b.PlayerName {
			return a.PlayerName < b.PlayerName
		}
		return a.PlayerID < b.PlayerID
	})

	if league.IsClosed {
		st.Champions = computeChampions(st)
	}

	return st
}

// distributeRoundPoints splits the round's point pool among the joint
// winners. The pool is max(n−1, 0) for n participants with a valid
// handicap-Stableford total.
func distributeRoundPoints(scored []*models.RoundPlayer, stats map[int]*playerAgg) {
	var best *int
	valid := 0
	for _, rp := range scored {
		if rp.StablefordHcpTotal == nil {
			continue
		}
		valid++
		if best == nil || *rp.StablefordHcpTotal > *best {
			best = rp.StablefordHcpTotal
		}
	}
	if valid == 0 {
		return
	}

	var winners []*models.RoundPlayer
	for _, rp := range scored {
		if rp.StablefordHcpTotal != nil && *rp.StablefordHcpTotal == *best {
			winners = append(winners, rp)
		}
	}

	pool := float64(valid - 1)
	if pool < 0 {
		pool = 0
	}
	share := pool / float64(len(winners))
	for _, rp := range winners {
		stats[rp.PlayerID].f1Points += share
	}
}

func computeChampions(st Standings) Champions {
	ch := Champions{
		MainPlayerIDs:    []int{},
		NetPlayerIDs:     []int{},
		ScratchPlayerIDs: []int{},
	}

	if len(st.Main) > 0 {
		best := st.Main[0].Points
		for _, row := range st.Main {
			if row.Points == best {
				ch.MainPlayerIDs = append(ch.MainPlayerIDs, row.PlayerID)
			}
		}
	}

	// Net title requires a minimum number of rounds; if nobody qualifies
	// there is no net champion, not even the leader.
	var eligible []NetRow
	for _, row := range st.Net {
		if row.Rounds >= NetChampionMinRounds {
			eligible = append(eligible, row)
		}
	}
	if len(eligible) > 0 {
		best := eligible[0].AvgNet
		for _, row := range eligible {
			if row.AvgNet == best {
				ch.NetPlayerIDs = append(ch.NetPlayerIDs, row.PlayerID)
			}
		}
	}

	if len(st.Scratch) > 0 {
		best := st.Scratch[0].TotalScratch
		for _, row := range st.Scratch {
			if row.TotalScratch == best {
				ch.ScratchPlayerIDs = append(ch.ScratchPlayerIDs, row.PlayerID)
			}
		}
	}

	return ch
}

func averageFloat(sum float64, count int) *float64 {
	if count == 0 {
		return nil
	}
	avg := sum / float64(count)
	return &avg
}
