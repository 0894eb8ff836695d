/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package charades

// TurnProgress only exists while a game is playing.
type TurnProgress struct {
	CurrentRound       int       `json:"current_round"`
	CurrentTeamIndex   int       `json:"current_team_index"`
	TurnsPlayedInRound int       `json:"turns_played_in_round"`
	Word               string    `json:"word,omitempty"`
	Category           string    `json:"category,omitempty"`
	TimeLeft           int       `json:"time_left"`
	TimerRunning       bool      `json:"timer_running"`
	State              TurnState `json:"state"`
}

// Snapshot is a copy of everything the presentation needs to render a table.
// It shares no memory with the Game.
type Snapshot struct {
	Phase        Phase         `json:"phase"`
	Session      Session       `json:"session"`
	Turn         *TurnProgress `json:"turn,omitempty"`
	Limits       Limits        `json:"limits"`
	CanStart     bool          `json:"can_start"`
	StartBlocker string        `json:"start_blocker,omitempty"`
	Results      *Results      `json:"results,omitempty"`
}

func (g *Game) Snapshot() Snapshot {
	s := Snapshot{
		Phase:   g.phase,
		Session: g.session.clone(),
		Limits:  g.limits,
	}

	if g.phase == PhaseSetup {
		s.CanStart = g.session.CanStart()
		if err := g.session.StartBlocker(); err != nil {
			s.StartBlocker = err.Error()
		}
	}

	if g.phase == PhasePlaying {
		s.Turn = &TurnProgress{
			CurrentRound:       g.round,
			CurrentTeamIndex:   g.teamIndex,
			TurnsPlayedInRound: g.turnsPlayed,
			Word:               g.word.Text,
			Category:           g.word.Category,
			TimeLeft:           g.timer.TimeLeft(),
			TimerRunning:       g.timer.Running(),
			State:              g.turn,
		}
	}

	if g.phase == PhaseResults {
		r := g.Results()
		s.Results = &r
	}

	return s
}

// CurrentTeam returns the team whose turn it is. It reports false outside of play.
func (s Snapshot) CurrentTeam() (Team, bool) {
	if s.Turn == nil || s.Turn.CurrentTeamIndex >= len(s.Session.Teams) {
		return Team{}, false
	}

	return s.Session.Teams[s.Turn.CurrentTeamIndex], true
}
