package espn

import (
	"strings"

	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/league-history/internal/domain/season"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	DefaultPlayoffTeamCount = 6
	unrankedPosition        = 99
	unknownTeamName         = "Unknown Team"
)

type MapperOptions struct {
	// ByDisplayName maps a member display name to the canonical owner name.
	ByDisplayName map[string]string
	// NameFixes maps a built "First Last" name to the canonical owner name.
	NameFixes        map[string]string
	PointsMultiplier float64
}

type Mapper struct {
	byDisplayName map[string]string
	nameFixes     map[string]string
	multiplier    float64
}

func NewMapper(opts MapperOptions) *Mapper {
	multiplier := opts.PointsMultiplier
	if multiplier <= 0 {
		multiplier = 1
	}
	return &Mapper{
		byDisplayName: opts.ByDisplayName,
		nameFixes:     opts.NameFixes,
		multiplier:    multiplier,
	}
}

// MapSeason converts one league payload into raw standings and matchups.
// Championship flags are left for the normalizer. year overrides the payload's
// seasonId when positive.
func (m *Mapper) MapSeason(league League, year int) (season.RawSeason, error) {
	if year <= 0 {
		year = league.SeasonID
	}
	if year <= 0 {
		return season.RawSeason{}, crerr.New("payload has no season id")
	}
	if len(league.Teams) == 0 {
		return season.RawSeason{}, crerr.Newf("season %d: payload has no teams", year)
	}

	members := make(map[string]Member, len(league.Members))
	for _, member := range league.Members {
		members[member.ID] = member
	}

	owners := make(map[int]string, len(league.Teams))
	teamNames := make(map[int]string, len(league.Teams))
	playoffTeams := playoffTeamCount(league.Settings)

	standings := make([]season.Standing, 0, len(league.Teams))
	for _, team := range league.Teams {
		teamNames[team.ID] = teamName(team)

		owner := ""
		if len(team.Owners) > 0 {
			if member, ok := members[team.Owners[0]]; ok {
				owner = m.CanonicalName(member)
			}
		}
		if owner == "" {
			return season.RawSeason{}, crerr.Newf("season %d: team %d has no resolvable owner", year, team.ID)
		}
		owners[team.ID] = owner

		seed := team.PlayoffSeed
		if seed <= 0 {
			seed = unrankedPosition
		}
		rank := team.RankCalculatedFinal
		if rank <= 0 {
			rank = seed
		}

		standings = append(standings, season.Standing{
			Rank:          rank,
			OwnerName:     owner,
			TeamName:      teamNames[team.ID],
			Wins:          team.Record.Overall.Wins,
			Losses:        team.Record.Overall.Losses,
			Ties:          team.Record.Overall.Ties,
			PointsFor:     team.Points * m.multiplier,
			PointsAgainst: team.PointsAgainst * m.multiplier,
			MadePlayoffs:  seed <= playoffTeams,
		})
	}

	regularWeeks := regularSeasonWeeks(league.Settings)
	matchups := make([]season.WeeklyMatchup, 0, len(league.Schedule))
	for _, game := range league.Schedule {
		// bye weeks have no away side
		if game.Home == nil || game.Away == nil {
			continue
		}
		home, err := m.teamScore(game.Home, owners, teamNames)
		if err != nil {
			return season.RawSeason{}, crerr.Wrapf(err, "season %d: matchup %d", year, game.ID)
		}
		away, err := m.teamScore(game.Away, owners, teamNames)
		if err != nil {
			return season.RawSeason{}, crerr.Wrapf(err, "season %d: matchup %d", year, game.ID)
		}
		matchups = append(matchups, season.WeeklyMatchup{
			Week:      game.MatchupPeriodID,
			Home:      home,
			Away:      away,
			IsPlayoff: game.MatchupPeriodID > regularWeeks,
		})
	}

	return season.RawSeason{
		Year:               year,
		Standings:          standings,
		Matchups:           matchups,
		RegularSeasonWeeks: regularWeeks,
	}, nil
}

func (m *Mapper) teamScore(side *MatchupTeam, owners, teamNames map[int]string) (season.TeamScore, error) {
	owner, ok := owners[side.TeamID]
	if !ok {
		return season.TeamScore{}, crerr.Newf("unknown team %d", side.TeamID)
	}
	score := season.TeamScore{
		OwnerName: owner,
		TeamName:  teamNames[side.TeamID],
		Score:     side.TotalPoints * m.multiplier,
	}
	if side.TotalProjectedPoints != nil {
		projected := *side.TotalProjectedPoints * m.multiplier
		score.ProjectedScore = &projected
	}
	return score, nil
}

// CanonicalName resolves a member to an owner name: the display name mapping
// first, then the title-cased first and last name (through the name fixes),
// then the raw display name.
func (m *Mapper) CanonicalName(member Member) string {
	displayName := strings.TrimSpace(member.DisplayName)
	if name, ok := m.byDisplayName[displayName]; ok && strings.TrimSpace(name) != "" {
		return name
	}

	original := strings.TrimSpace(strings.TrimSpace(member.FirstName) + " " + strings.TrimSpace(member.LastName))
	fullName := cases.Title(language.English).String(strings.ToLower(original))
	if fixed, ok := m.nameFixes[fullName]; ok {
		return fixed
	}
	if fixed, ok := m.nameFixes[original]; ok {
		return fixed
	}
	if fullName != "" {
		return fullName
	}
	return displayName
}

func teamName(team Team) string {
	name := strings.TrimSpace(strings.TrimSpace(team.Location) + " " + strings.TrimSpace(team.Nickname))
	if name == "" {
		name = strings.TrimSpace(team.Name)
	}
	if name == "" {
		name = unknownTeamName
	}
	return name
}

func regularSeasonWeeks(s Settings) int {
	if s.ScheduleSettings != nil && s.ScheduleSettings.MatchupPeriodCount > 0 {
		return s.ScheduleSettings.MatchupPeriodCount
	}
	if s.RegularSeasonMatchupPeriodCount > 0 {
		return s.RegularSeasonMatchupPeriodCount
	}
	return season.DefaultRegularSeasonWeeks
}

func playoffTeamCount(s Settings) int {
	if s.ScheduleSettings != nil && s.ScheduleSettings.PlayoffTeamCount > 0 {
		return s.ScheduleSettings.PlayoffTeamCount
	}
	if s.PlayoffTeamCount > 0 {
		return s.PlayoffTeamCount
	}
	return DefaultPlayoffTeamCount
}
