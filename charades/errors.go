/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package charades

import "errors"

var (
	ErrNotInSetup    = errors.New("game settings can only be changed before the game starts")
	ErrNotPlaying    = errors.New("no game in progress")
	ErrNotInResults  = errors.New("game has not finished yet")
	ErrNoCategories  = errors.New("select at least one category")
	ErrTooFewTeams   = errors.New("at least two teams are required")
	ErrTurnNotReady  = errors.New("a turn is already in progress")
	ErrTurnNotActive = errors.New("no turn in progress")
	ErrUnknownTeam   = errors.New("unknown team")
)
