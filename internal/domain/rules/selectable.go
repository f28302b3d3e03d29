package rules

import "roborock-cleaning-panel/internal/domain/model"

// Off stays a valid device value but is never offered as a button.

func IsSelectableSuctionMode(mode model.SuctionMode, cleaning model.CleaningMode) bool {
	if mode == model.SuctionModeOff {
		return false
	}
	return IsSupportedSuctionMode(mode, cleaning)
}

func IsSelectableMopMode(mode model.MopMode, cleaning model.CleaningMode) bool {
	if mode == model.MopModeOff {
		return false
	}
	return IsSupportedMopMode(mode, cleaning)
}

func IsSelectableRouteMode(mode model.RouteMode, cleaning model.CleaningMode) bool {
	return IsSupportedRouteMode(mode, cleaning)
}
