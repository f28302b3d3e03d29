// Package rules holds the tables that decide which suction, mop and route
// values a cleaning mode accepts.
package rules

import (
	"fmt"

	"roborock-cleaning-panel/internal/domain/model"
)

// IsSupportedSuctionMode reports whether the robot accepts mode during a
// cleaning run. It panics on a cleaning mode outside the enumeration.
func IsSupportedSuctionMode(mode model.SuctionMode, cleaning model.CleaningMode) bool {
	switch cleaning {
	case model.CleaningModeVacuumAndMop:
		return oneOf(mode, model.SuctionModeQuiet, model.SuctionModeBalanced, model.SuctionModeTurbo, model.SuctionModeMax)
	case model.CleaningModeVacuumOnly:
		return oneOf(mode, model.SuctionModeQuiet, model.SuctionModeBalanced, model.SuctionModeTurbo, model.SuctionModeMax, model.SuctionModeMaxPlus)
	case model.CleaningModeMopOnly:
		return mode == model.SuctionModeOff
	}
	panic(unknownCleaningMode(cleaning))
}

// IsSupportedMopMode is the mop intensity table. Panics on an unknown
// cleaning mode.
func IsSupportedMopMode(mode model.MopMode, cleaning model.CleaningMode) bool {
	switch cleaning {
	case model.CleaningModeVacuumAndMop, model.CleaningModeMopOnly:
		return oneOf(mode, model.MopModeLow, model.MopModeMedium, model.MopModeHigh)
	case model.CleaningModeVacuumOnly:
		return mode == model.MopModeOff
	}
	panic(unknownCleaningMode(cleaning))
}

// IsSupportedRouteMode is the route table; deep routes need MopOnly.
// Panics on an unknown cleaning mode.
func IsSupportedRouteMode(mode model.RouteMode, cleaning model.CleaningMode) bool {
	switch cleaning {
	case model.CleaningModeVacuumAndMop, model.CleaningModeVacuumOnly:
		return oneOf(mode, model.RouteModeFast, model.RouteModeStandard)
	case model.CleaningModeMopOnly:
		return oneOf(mode, model.RouteModeFast, model.RouteModeStandard, model.RouteModeDeep, model.RouteModeDeepPlus)
	}
	panic(unknownCleaningMode(cleaning))
}

func unknownCleaningMode(cleaning model.CleaningMode) string {
	return fmt.Sprintf("rules: unknown cleaning mode %q", string(cleaning))
}

func oneOf[T comparable](v T, allowed ...T) bool {
	for _, a := range allowed {
		if v == a {
			return true
		}
	}
	return false
}
