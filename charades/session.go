/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package charades

import (
	"fmt"
	"slices"

	"github.com/google/uuid"
)

// Team is a group of players guessing together.
type Team struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Score int    `json:"score"`
}

// Session is the configuration of a game: categories, roster, and timing.
// It does not know about phases; Game decides when mutation is allowed.
type Session struct {
	Categories  []Category `json:"categories"`
	Teams       []Team     `json:"teams"`
	TimeLimit   int        `json:"time_limit"`
	TotalRounds int        `json:"total_rounds"`

	limits Limits
}

func NewSession(limits Limits) *Session {
	s := &Session{
		Categories:  DefaultCategories(),
		TimeLimit:   limits.ClampTimeLimit(limits.DefaultTimeLimit),
		TotalRounds: limits.ClampRounds(limits.DefaultRounds),
		limits:      limits,
	}

	for range s.minTeams() {
		s.AddTeam()
	}

	return s
}

func (s *Session) EnabledCategories() []Category {
	enabled := make([]Category, 0, len(s.Categories))
	for _, c := range s.Categories {
		if c.Enabled {
			enabled = append(enabled, c)
		}
	}

	return enabled
}

// ToggleCategory flips the category with the given id. Unknown ids are ignored.
func (s *Session) ToggleCategory(id string) bool {
	for i := range s.Categories {
		if s.Categories[i].ID == id {
			s.Categories[i].Enabled = !s.Categories[i].Enabled
			return true
		}
	}

	return false
}

// AddTeam appends a team named after its position in the roster.
func (s *Session) AddTeam() Team {
	t := Team{
		ID:   uuid.New().String(),
		Name: fmt.Sprintf("Team %d", len(s.Teams)+1),
	}
	s.Teams = append(s.Teams, t)

	return t
}

// RemoveTeam drops a team unless that would leave fewer than MinTeams.
func (s *Session) RemoveTeam(id string) bool {
	if len(s.Teams)-1 < s.minTeams() {
		return false
	}

	i := s.teamIndex(id)
	if i < 0 {
		return false
	}
	s.Teams = slices.Delete(s.Teams, i, i+1)

	return true
}

// RenameTeam sets a team's name. Empty names are allowed.
func (s *Session) RenameTeam(id, name string) error {
	i := s.teamIndex(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrUnknownTeam, id)
	}
	s.Teams[i].Name = name

	return nil
}

func (s *Session) SetTimeLimit(seconds int) int {
	s.TimeLimit = s.limits.ClampTimeLimit(seconds)

	return s.TimeLimit
}

func (s *Session) SetTotalRounds(n int) int {
	s.TotalRounds = s.limits.ClampRounds(n)

	return s.TotalRounds
}

// StartBlocker returns the reason a game cannot start, or nil.
func (s *Session) StartBlocker() error {
	switch {
	case len(s.EnabledCategories()) == 0:
		return ErrNoCategories
	case len(s.Teams) < s.minTeams():
		return ErrTooFewTeams
	}

	return nil
}

func (s *Session) CanStart() bool {
	return s.StartBlocker() == nil
}

func (s *Session) minTeams() int {
	return max(s.limits.MinTeams, 2)
}

func (s *Session) resetScores() {
	for i := range s.Teams {
		s.Teams[i].Score = 0
	}
}

func (s *Session) teamIndex(id string) int {
	return slices.IndexFunc(s.Teams, func(t Team) bool { return t.ID == id })
}

func (s *Session) clone() Session {
	return Session{
		Categories:  slices.Clone(s.Categories),
		Teams:       slices.Clone(s.Teams),
		TimeLimit:   s.TimeLimit,
		TotalRounds: s.TotalRounds,
		limits:      s.limits,
	}
}
