package stats

import "sort"

const (
	rivalryBalanceWeight      = 2
	rivalryPlayoffWeight      = 5
	rivalryChampionshipWeight = 10
	rivalryCloseGameWeight    = 3
)

// Rivalry is a head-to-head series with its competitiveness score.
type Rivalry struct {
	HeadToHeadRecord
	RivalryScore int `json:"rivalryScore"`
}

// RivalryScore weighs balance and high-stakes meetings above raw volume.
func RivalryScore(r HeadToHeadRecord) int {
	return rivalryBalanceWeight*min(r.Owner1Wins, r.Owner2Wins) +
		rivalryPlayoffWeight*r.PlayoffMeetings +
		rivalryChampionshipWeight*r.ChampionshipMeetings +
		rivalryCloseGameWeight*r.CloseGames +
		r.TotalMatchups
}

// Rivalries scores every series and orders them by score, highest first.
// Equal scores fall back to more meetings, then to the pair order of records.
func Rivalries(records []HeadToHeadRecord) []Rivalry {
	out := make([]Rivalry, 0, len(records))
	for _, rec := range records {
		out = append(out, Rivalry{HeadToHeadRecord: rec, RivalryScore: RivalryScore(rec)})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].RivalryScore != out[j].RivalryScore {
			return out[i].RivalryScore > out[j].RivalryScore
		}
		return out[i].TotalMatchups > out[j].TotalMatchups
	})
	return out
}

// TopRivalries keeps the first n rivalries; n <= 0 keeps all.
func TopRivalries(rivalries []Rivalry, n int) []Rivalry {
	if n <= 0 || len(rivalries) <= n {
		return rivalries
	}
	return rivalries[:n]
}
