package stats

import (
	"sort"

	"github.com/riskibarqy/league-history/internal/domain/identity"
	"github.com/riskibarqy/league-history/internal/domain/season"
)

// CloseGameMargin is the exclusive upper bound for a "close" game.
const CloseGameMargin = 10.0

// Meeting is one game between two owners, described from the winner's side.
// For a tie, Winner is the home owner.
type Meeting struct {
	Year           int     `json:"year"`
	Week           int     `json:"week"`
	Winner         string  `json:"winner"`
	Loser          string  `json:"loser"`
	WinnerScore    float64 `json:"winnerScore"`
	LoserScore     float64 `json:"loserScore"`
	Margin         float64 `json:"margin"`
	Tie            bool    `json:"tie,omitempty"`
	IsPlayoff      bool    `json:"isPlayoff"`
	IsChampionship bool    `json:"isChampionship"`
}

// HeadToHeadRecord is the all-time series between two owners. Owner1 always
// has the smaller identity slug (not display name), so a pair is stored
// exactly once. Between re-orients a record to the caller's order.
type HeadToHeadRecord struct {
	Owner1               string    `json:"owner1"`
	Owner2               string    `json:"owner2"`
	Owner1Wins           int       `json:"owner1Wins"`
	Owner2Wins           int       `json:"owner2Wins"`
	Ties                 int       `json:"ties"`
	TotalMatchups        int       `json:"totalMatchups"`
	Owner1Points         float64   `json:"owner1Points"`
	Owner2Points         float64   `json:"owner2Points"`
	PlayoffMeetings      int       `json:"playoffMeetings"`
	ChampionshipMeetings int       `json:"championshipMeetings"`
	CloseGames           int       `json:"closeGames"`
	BiggestBlowout       *Meeting  `json:"biggestBlowout,omitempty"`
	ClosestGame          *Meeting  `json:"closestGame,omitempty"`
	Meetings             []Meeting `json:"meetings"`
}

// AveragePoints returns each side's points per meeting.
func (r HeadToHeadRecord) AveragePoints() (float64, float64) {
	if r.TotalMatchups == 0 {
		return 0, 0
	}
	n := float64(r.TotalMatchups)
	return r.Owner1Points / n, r.Owner2Points / n
}

type pairKey struct {
	low, high string
}

// HeadToHead accumulates every pair of owners that met at least once.
// Seasons without matchups contribute nothing. Output is ordered by owner keys.
func HeadToHead(seasons []season.Season) []HeadToHeadRecord {
	byPair := make(map[pairKey]*HeadToHeadRecord)

	for _, s := range chronological(seasons) {
		matchups := append([]season.WeeklyMatchup(nil), s.Matchups...)
		sort.SliceStable(matchups, func(i, j int) bool {
			return matchups[i].Week < matchups[j].Week
		})

		for _, m := range matchups {
			homeKey := identity.Slugify(m.Home.OwnerName)
			awayKey := identity.Slugify(m.Away.OwnerName)
			if homeKey == "" || awayKey == "" || homeKey == awayKey {
				continue
			}

			first, second := m.Home, m.Away
			key := pairKey{low: homeKey, high: awayKey}
			if awayKey < homeKey {
				first, second = m.Away, m.Home
				key = pairKey{low: awayKey, high: homeKey}
			}

			rec, ok := byPair[key]
			if !ok {
				rec = &HeadToHeadRecord{Owner1: first.OwnerName, Owner2: second.OwnerName}
				byPair[key] = rec
			}
			rec.add(s.Year, m, first, second)
		}
	}

	keys := make([]pairKey, 0, len(byPair))
	for key := range byPair {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].low != keys[j].low {
			return keys[i].low < keys[j].low
		}
		return keys[i].high < keys[j].high
	})

	out := make([]HeadToHeadRecord, 0, len(keys))
	for _, key := range keys {
		rec := byPair[key]
		sort.SliceStable(rec.Meetings, func(i, j int) bool {
			if rec.Meetings[i].Year != rec.Meetings[j].Year {
				return rec.Meetings[i].Year > rec.Meetings[j].Year
			}
			return rec.Meetings[i].Week > rec.Meetings[j].Week
		})
		out = append(out, *rec)
	}
	return out
}

func (r *HeadToHeadRecord) add(year int, m season.WeeklyMatchup, first, second season.TeamScore) {
	r.TotalMatchups++
	r.Owner1Points += first.Score
	r.Owner2Points += second.Score

	winner, loser, decided := m.Winner()
	meeting := Meeting{
		Year:           year,
		Week:           m.Week,
		Winner:         winner.OwnerName,
		Loser:          loser.OwnerName,
		WinnerScore:    winner.Score,
		LoserScore:     loser.Score,
		Margin:         m.Margin(),
		Tie:            !decided,
		IsPlayoff:      m.IsPlayoff || m.IsChampionship,
		IsChampionship: m.IsChampionship,
	}
	r.Meetings = append(r.Meetings, meeting)

	switch {
	case !decided:
		r.Ties++
	case first.Score > second.Score:
		r.Owner1Wins++
	default:
		r.Owner2Wins++
	}

	switch {
	case m.IsChampionship:
		r.ChampionshipMeetings++
	case m.IsPlayoff:
		r.PlayoffMeetings++
	}
	if meeting.Margin < CloseGameMargin {
		r.CloseGames++
	}

	if decided && (r.BiggestBlowout == nil || meeting.Margin > r.BiggestBlowout.Margin) {
		blowout := meeting
		r.BiggestBlowout = &blowout
	}
	if r.ClosestGame == nil || meeting.Margin < r.ClosestGame.Margin {
		closest := meeting
		r.ClosestGame = &closest
	}
}

// Between returns the series for a and b oriented so Owner1 is a.
func Between(records []HeadToHeadRecord, a, b string) (HeadToHeadRecord, bool) {
	aKey, bKey := identity.Slugify(a), identity.Slugify(b)
	if aKey == "" || bKey == "" || aKey == bKey {
		return HeadToHeadRecord{}, false
	}

	for _, rec := range records {
		first, second := identity.Slugify(rec.Owner1), identity.Slugify(rec.Owner2)
		switch {
		case first == aKey && second == bKey:
			return rec, true
		case first == bKey && second == aKey:
			return rec.swapped(), true
		}
	}
	return HeadToHeadRecord{}, false
}

func (r HeadToHeadRecord) swapped() HeadToHeadRecord {
	r.Owner1, r.Owner2 = r.Owner2, r.Owner1
	r.Owner1Wins, r.Owner2Wins = r.Owner2Wins, r.Owner1Wins
	r.Owner1Points, r.Owner2Points = r.Owner2Points, r.Owner1Points
	return r
}
