package csvhistory

import (
	"context"
	"encoding/csv"
	stderrors "errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	crerr "github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/league-history/internal/domain/season"
	"github.com/riskibarqy/league-history/internal/platform/logging"
)

const (
	DefaultMinYear  = 2004
	DefaultMaxYear  = 2025
	DefaultTeamName = "Unknown Team"
)

const (
	colYear          = "Year"
	colOwnerName     = "OwnerName"
	colTeamName      = "TeamName"
	colRank          = "Rank"
	colWins          = "Wins"
	colLosses        = "Losses"
	colTies          = "Ties"
	colPointsFor     = "PointsFor"
	colPointsAgainst = "PointsAgainst"
	colChampion      = "Champion"
	colRunnerUp      = "RunnerUp"
	colMadePlayoffs  = "MadePlayoffs"
)

// RequiredColumns must all be present in the header row.
var RequiredColumns = []string{colYear, colOwnerName, colTeamName, colWins, colLosses, colPointsFor, colPointsAgainst}

var (
	ErrEmptyInput     = crerr.New("csv content is empty")
	ErrMissingColumns = crerr.New("csv header is missing required columns")
)

type Options struct {
	MinYear          int
	MaxYear          int
	PlayoffTeamCount int
	Logger           *logging.Logger
}

// Result holds the seasons built from every valid row. Errors lists the rejected
// rows as "row N: reason" where N is the line number in the file.
type Result struct {
	Seasons    []season.RawSeason
	OwnerNames []string
	Errors     []string
}

type Parser struct {
	minYear          int
	maxYear          int
	playoffTeamCount int
	validate         *validator.Validate
	logger           *logging.Logger
}

func NewParser(opts Options) *Parser {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Default()
	}
	minYear, maxYear := opts.MinYear, opts.MaxYear
	if minYear <= 0 {
		minYear = DefaultMinYear
	}
	if maxYear <= 0 {
		maxYear = DefaultMaxYear
	}

	return &Parser{
		minYear:          minYear,
		maxYear:          maxYear,
		playoffTeamCount: max(opts.PlayoffTeamCount, 0),
		validate:         validator.New(),
		logger:           logger,
	}
}

type row struct {
	Year          int     `validate:"required"`
	OwnerName     string  `validate:"required,max=120"`
	TeamName      string  `validate:"required,max=120"`
	Rank          int     `validate:"gte=0"`
	Wins          int     `validate:"gte=0"`
	Losses        int     `validate:"gte=0"`
	Ties          int     `validate:"gte=0"`
	PointsFor     float64 `validate:"gte=0"`
	PointsAgainst float64 `validate:"gte=0"`
	Champion      bool
	RunnerUp      bool
	MadePlayoffs  bool
}

type yearRows struct {
	standings []season.Standing
	champions []string
	runnerUp  string
}

// Parse reads a historical standings CSV. A malformed header fails the whole
// file; a malformed row is recorded in Result.Errors and skipped.
func (p *Parser) Parse(ctx context.Context, r io.Reader) (Result, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if stderrors.Is(err, io.EOF) {
		return Result{}, ErrEmptyInput
	}
	if err != nil {
		return Result{}, crerr.Wrap(err, "read csv header")
	}
	columns, err := headerIndex(header)
	if err != nil {
		return Result{}, err
	}

	out := Result{}
	byYear := make(map[int]*yearRows)
	seenOwners := make(map[string]struct{})

	for {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}

		record, err := reader.Read()
		if stderrors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if stderrors.As(err, &parseErr) {
				out.Errors = append(out.Errors, fmt.Sprintf("row %d: %v", parseErr.StartLine, parseErr.Err))
				continue
			}
			return Result{}, crerr.Wrap(err, "read csv row")
		}
		line, _ := reader.FieldPos(0)
		if isBlank(record) {
			continue
		}

		item, err := p.parseRow(columns, record)
		if err != nil {
			out.Errors = append(out.Errors, fmt.Sprintf("row %d: %v", line, err))
			continue
		}

		rows, ok := byYear[item.Year]
		if !ok {
			rows = &yearRows{}
			byYear[item.Year] = rows
		}
		rows.standings = append(rows.standings, season.Standing{
			Rank:          item.Rank,
			OwnerName:     item.OwnerName,
			TeamName:      item.TeamName,
			Wins:          item.Wins,
			Losses:        item.Losses,
			Ties:          item.Ties,
			PointsFor:     item.PointsFor,
			PointsAgainst: item.PointsAgainst,
			MadePlayoffs:  item.MadePlayoffs,
		})
		if item.Champion {
			rows.champions = append(rows.champions, item.OwnerName)
		}
		if item.RunnerUp {
			rows.runnerUp = item.OwnerName
		}
		if _, ok := seenOwners[item.OwnerName]; !ok {
			seenOwners[item.OwnerName] = struct{}{}
			out.OwnerNames = append(out.OwnerNames, item.OwnerName)
		}
	}

	out.Seasons = p.buildSeasons(byYear)
	if len(out.Errors) > 0 {
		p.logger.WarnContext(ctx, "csv rows rejected", "rejected", len(out.Errors), "seasons", len(out.Seasons))
	}
	return out, nil
}

func (p *Parser) buildSeasons(byYear map[int]*yearRows) []season.RawSeason {
	years := make([]int, 0, len(byYear))
	for year := range byYear {
		years = append(years, year)
	}
	sort.Ints(years)

	out := make([]season.RawSeason, 0, len(years))
	for _, year := range years {
		rows := byYear[year]
		// Blank ranks take the row position within the year.
		for i := range rows.standings {
			if rows.standings[i].Rank <= 0 {
				rows.standings[i].Rank = i + 1
			}
		}

		raw := season.RawSeason{
			Year:             year,
			Standings:        rows.standings,
			PlayoffTeamCount: p.playoffTeamCount,
		}
		switch len(rows.champions) {
		case 0:
		case 1:
			raw.Overrides.ChampionOverride = rows.champions[0]
		default:
			raw.Overrides.SplitChampions = rows.champions
		}
		raw.Overrides.RunnerUpOverride = rows.runnerUp
		out = append(out, raw)
	}
	return out
}

func (p *Parser) parseRow(columns map[string]int, record []string) (row, error) {
	get := func(name string) string {
		idx, ok := columns[name]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	var (
		item row
		err  error
	)
	rawYear := get(colYear)
	if item.Year, err = strconv.Atoi(rawYear); err != nil || item.Year < p.minYear || item.Year > p.maxYear {
		return row{}, crerr.Newf("invalid year %q", rawYear)
	}

	item.OwnerName = get(colOwnerName)
	if item.OwnerName == "" {
		return row{}, crerr.New("missing owner name")
	}
	item.TeamName = get(colTeamName)
	if item.TeamName == "" {
		item.TeamName = DefaultTeamName
	}

	for _, field := range []struct {
		column string
		target *int
	}{
		{colRank, &item.Rank},
		{colWins, &item.Wins},
		{colLosses, &item.Losses},
		{colTies, &item.Ties},
	} {
		if *field.target, err = parseInt(get(field.column)); err != nil {
			return row{}, crerr.Wrapf(err, "invalid %s", field.column)
		}
	}
	if item.PointsFor, err = parseFloat(get(colPointsFor)); err != nil {
		return row{}, crerr.Wrapf(err, "invalid %s", colPointsFor)
	}
	if item.PointsAgainst, err = parseFloat(get(colPointsAgainst)); err != nil {
		return row{}, crerr.Wrapf(err, "invalid %s", colPointsAgainst)
	}

	item.Champion = parseFlag(get(colChampion))
	item.RunnerUp = parseFlag(get(colRunnerUp))
	item.MadePlayoffs = parseFlag(get(colMadePlayoffs))

	if err := p.validate.Struct(item); err != nil {
		return row{}, describeValidation(err)
	}
	return item, nil
}

func headerIndex(header []string) (map[string]int, error) {
	columns := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		if name == "" {
			continue
		}
		if _, ok := columns[name]; !ok {
			columns[name] = i
		}
	}

	var missing []string
	for _, name := range RequiredColumns {
		if _, ok := columns[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, crerr.Wrapf(ErrMissingColumns, "missing %s", strings.Join(missing, ", "))
	}
	return columns, nil
}

func describeValidation(err error) error {
	var fieldErrs validator.ValidationErrors
	if !stderrors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return err
	}
	fe := fieldErrs[0]
	switch fe.Tag() {
	case "required":
		return crerr.Newf("%s is required", fe.Field())
	case "gte":
		return crerr.Newf("%s must be >= %s", fe.Field(), fe.Param())
	case "max":
		return crerr.Newf("%s must be at most %s characters", fe.Field(), fe.Param())
	default:
		return crerr.Newf("%s failed %s validation", fe.Field(), fe.Tag())
	}
}

func parseInt(v string) (int, error) {
	if v == "" {
		return 0, nil
	}
	return strconv.Atoi(v)
}

func parseFloat(v string) (float64, error) {
	if v == "" {
		return 0, nil
	}
	return strconv.ParseFloat(strings.ReplaceAll(v, ",", ""), 64)
}

func parseFlag(v string) bool {
	switch strings.ToLower(v) {
	case "yes", "y", "true", "1":
		return true
	default:
		return false
	}
}

func isBlank(record []string) bool {
	for _, field := range record {
		if strings.TrimSpace(field) != "" {
			return false
		}
	}
	return true
}
