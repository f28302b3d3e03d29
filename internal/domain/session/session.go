// Package session holds the cleaning session a panel edits and the
// controller that turns it into a sequence of device commands.
package session

import (
	"roborock-cleaning-panel/internal/domain/model"
	"roborock-cleaning-panel/internal/domain/rules"
)

// Session is owned by a Controller and only changed through it.
type Session struct {
	State         model.SessionState
	CleaningMode  model.CleaningMode
	SuctionMode   model.SuctionMode
	MopMode       model.MopMode
	RouteMode     model.RouteMode
	Cycles        model.CycleCount
	SelectedRooms []string
	InProgress    bool
}

func newSession() Session {
	return Session{
		State:        model.SessionIdle,
		CleaningMode: model.CleaningModeVacuumAndMop,
		SuctionMode:  model.SuctionModeTurbo,
		MopMode:      model.MopModeHigh,
		RouteMode:    model.RouteModeStandard,
		Cycles:       model.MinCycles,
	}
}

// fix brings suction, mop and route back in line with the cleaning mode.
// Deep is forced for mop-only runs even when the previous route is legal.
func (s *Session) fix() {
	if !rules.IsSupportedSuctionMode(s.SuctionMode, s.CleaningMode) {
		if s.CleaningMode == model.CleaningModeMopOnly {
			s.SuctionMode = model.SuctionModeOff
		} else {
			s.SuctionMode = model.SuctionModeTurbo
		}
	}
	if !rules.IsSupportedMopMode(s.MopMode, s.CleaningMode) {
		if s.CleaningMode == model.CleaningModeVacuumOnly {
			s.MopMode = model.MopModeOff
		} else {
			s.MopMode = model.MopModeHigh
		}
	}
	if s.CleaningMode == model.CleaningModeMopOnly {
		s.RouteMode = model.RouteModeDeep
	} else if !rules.IsSupportedRouteMode(s.RouteMode, s.CleaningMode) {
		s.RouteMode = model.RouteModeStandard
	}
}

func (s Session) clone() Session {
	s.SelectedRooms = append([]string(nil), s.SelectedRooms...)
	return s
}
