package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	jsoniter "github.com/json-iterator/go"
)

var mappingsJSON = jsoniter.ConfigCompatibleWithStandardLibrary

// OwnerMappings is the hand-maintained document that reconciles owner names
// and corrects title outcomes. Year keys are strings in the document.
type OwnerMappings struct {
	ByDisplayName      map[string]string   `json:"byDisplayName" validate:"dive,keys,required,endkeys,required"`
	NameFixes          map[string]string   `json:"nameFixes" validate:"dive,keys,required,endkeys,required"`
	ChampionOverrides  map[string]string   `json:"championOverrides" validate:"dive,keys,numeric,endkeys,required"`
	RunnerUpOverrides  map[string]string   `json:"runnerUpOverrides" validate:"dive,keys,numeric,endkeys,required"`
	SplitChampionships map[string][]string `json:"splitChampionships" validate:"dive,keys,numeric,endkeys,len=2,dive,required"`
	CurrentOwners      []string            `json:"currentOwners" validate:"dive,required"`
	PlayoffTeamCount   int                 `json:"playoffTeamCount" validate:"gte=0,lte=32"`
}

// LoadOwnerMappings reads the mappings document. An empty path yields an empty
// document.
func LoadOwnerMappings(path string) (OwnerMappings, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return OwnerMappings{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return OwnerMappings{}, fmt.Errorf("read owner mappings %s: %w", path, err)
	}
	return ParseOwnerMappings(data)
}

func ParseOwnerMappings(data []byte) (OwnerMappings, error) {
	var out OwnerMappings
	if err := mappingsJSON.Unmarshal(data, &out); err != nil {
		return OwnerMappings{}, fmt.Errorf("decode owner mappings: %w", err)
	}
	if err := validator.New().Struct(out); err != nil {
		return OwnerMappings{}, fmt.Errorf("validate owner mappings: %w", err)
	}
	return out, nil
}

// ResolverOverrides merges display-name and name-fix aliases into one table.
// A name fix wins when both define the same alias.
func (m OwnerMappings) ResolverOverrides() map[string]string {
	out := make(map[string]string, len(m.ByDisplayName)+len(m.NameFixes))
	for alias, name := range m.ByDisplayName {
		out[alias] = name
	}
	for alias, name := range m.NameFixes {
		out[alias] = name
	}
	return out
}

func (m OwnerMappings) ChampionOverridesByYear() map[int]string {
	return byYear(m.ChampionOverrides)
}

func (m OwnerMappings) RunnerUpOverridesByYear() map[int]string {
	return byYear(m.RunnerUpOverrides)
}

func (m OwnerMappings) SplitChampionshipsByYear() map[int][]string {
	out := make(map[int][]string, len(m.SplitChampionships))
	for key, names := range m.SplitChampionships {
		year, err := strconv.Atoi(strings.TrimSpace(key))
		if err != nil {
			continue
		}
		out[year] = append([]string(nil), names...)
	}
	return out
}

func byYear(items map[string]string) map[int]string {
	out := make(map[int]string, len(items))
	for key, value := range items {
		year, err := strconv.Atoi(strings.TrimSpace(key))
		if err != nil {
			continue
		}
		out[year] = value
	}
	return out
}
