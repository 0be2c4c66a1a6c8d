package espn

import (
	"bytes"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
)

// League is the subset of a league season payload (views mTeam, mMatchup and
// mSettings) that the history pipeline reads.
type League struct {
	ID       int64     `json:"id"`
	SeasonID int       `json:"seasonId"`
	Size     int       `json:"size"`
	Teams    []Team    `json:"teams"`
	Members  []Member  `json:"members"`
	Schedule []Matchup `json:"schedule"`
	Settings Settings  `json:"settings"`
}

type Team struct {
	ID                  int      `json:"id"`
	Abbrev              string   `json:"abbrev"`
	Location            string   `json:"location"`
	Nickname            string   `json:"nickname"`
	Name                string   `json:"name"`
	Owners              []string `json:"owners"`
	Record              Record   `json:"record"`
	Points              float64  `json:"points"`
	PointsAgainst       float64  `json:"pointsAgainst"`
	PlayoffSeed         int      `json:"playoffSeed"`
	RankCalculatedFinal int      `json:"rankCalculatedFinal"`
}

type Record struct {
	Overall RecordLine `json:"overall"`
}

type RecordLine struct {
	Wins       int     `json:"wins"`
	Losses     int     `json:"losses"`
	Ties       int     `json:"ties"`
	Percentage float64 `json:"percentage"`
}

type Member struct {
	ID              string `json:"id"`
	DisplayName     string `json:"displayName"`
	FirstName       string `json:"firstName"`
	LastName        string `json:"lastName"`
	IsLeagueManager bool   `json:"isLeagueManager"`
}

type Matchup struct {
	ID              int          `json:"id"`
	MatchupPeriodID int          `json:"matchupPeriodId"`
	PlayoffTierType string       `json:"playoffTierType"`
	Home            *MatchupTeam `json:"home"`
	Away            *MatchupTeam `json:"away"`
	Winner          string       `json:"winner"`
}

type MatchupTeam struct {
	TeamID               int      `json:"teamId"`
	TotalPoints          float64  `json:"totalPoints"`
	TotalProjectedPoints *float64 `json:"totalProjectedPoints"`
}

type Settings struct {
	Name                            string            `json:"name"`
	RegularSeasonMatchupPeriodCount int               `json:"regularSeasonMatchupPeriodCount"`
	PlayoffTeamCount                int               `json:"playoffTeamCount"`
	PlayoffMatchupPeriodLength      int               `json:"playoffMatchupPeriodLength"`
	ScheduleSettings                *ScheduleSettings `json:"scheduleSettings"`
}

type ScheduleSettings struct {
	MatchupPeriodCount int `json:"matchupPeriodCount"`
	PlayoffTeamCount   int `json:"playoffTeamCount"`
}

var ErrEmptyPayload = crerr.New("espn payload is empty")

// Decode accepts either a single league object or the array returned by the
// league history endpoint, in which case the first element is used.
func Decode(data []byte) (League, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return League{}, ErrEmptyPayload
	}

	if trimmed[0] == '[' {
		var items []League
		if err := sonic.Unmarshal(trimmed, &items); err != nil {
			return League{}, crerr.Wrap(err, "decode league history payload")
		}
		if len(items) == 0 {
			return League{}, ErrEmptyPayload
		}
		return items[0], nil
	}

	var league League
	if err := sonic.Unmarshal(trimmed, &league); err != nil {
		return League{}, crerr.Wrap(err, "decode league payload")
	}
	return league, nil
}
