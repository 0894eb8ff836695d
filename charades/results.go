/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package charades

import (
	"fmt"
	"slices"
)

type Standing struct {
	Position int    `json:"position"`
	Place    string `json:"place"`
	Team     Team   `json:"team"`
}

type Results struct {
	Standings []Standing `json:"standings"`
	Winner    Team       `json:"winner"`
	// Tied is set when another team shares the winner's score. The winner is still
	// the first of them in roster order.
	Tied         bool `json:"tied"`
	TotalPoints  int  `json:"total_points"`
	RoundsPlayed int  `json:"rounds_played"`
	TurnsPlayed  int  `json:"turns_played"`
}

// Rank orders teams by score, highest first. Teams with equal scores keep their
// roster order.
func Rank(teams []Team) []Team {
	ranked := slices.Clone(teams)
	slices.SortStableFunc(ranked, func(a, b Team) int {
		return b.Score - a.Score
	})

	return ranked
}

// Winner returns the top-ranked team, or false for an empty roster.
func Winner(teams []Team) (Team, bool) {
	ranked := Rank(teams)
	if len(ranked) == 0 {
		return Team{}, false
	}

	return ranked[0], true
}

func (g *Game) Winner() (Team, bool) {
	return Winner(g.session.Teams)
}

func (g *Game) Results() Results {
	ranked := Rank(g.session.Teams)

	r := Results{
		Standings:    make([]Standing, 0, len(ranked)),
		RoundsPlayed: g.roundsCompleted,
		TurnsPlayed:  g.turnsCompleted,
	}

	for i, t := range ranked {
		r.Standings = append(r.Standings, Standing{
			Position: i + 1,
			Place:    placeLabel(i + 1),
			Team:     t,
		})
		r.TotalPoints += t.Score
	}

	if len(ranked) > 0 {
		r.Winner = ranked[0]
		r.Tied = len(ranked) > 1 && ranked[1].Score == ranked[0].Score
	}

	return r
}

func placeLabel(position int) string {
	switch position {
	case 1:
		return "🥇 1st place"
	case 2:
		return "🥈 2nd place"
	case 3:
		return "🥉 3rd place"
	}

	suffix := "th"
	switch {
	case position%100 >= 11 && position%100 <= 13:
	case position%10 == 1:
		suffix = "st"
	case position%10 == 2:
		suffix = "nd"
	case position%10 == 3:
		suffix = "rd"
	}

	return fmt.Sprintf("%d%s place", position, suffix)
}
