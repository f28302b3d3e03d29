package model

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrInvalidMode   = errors.New("invalid mode")
	ErrInvalidCycles = errors.New("invalid cycle count")
)

type CleaningMode string

const (
	CleaningModeVacuumAndMop CleaningMode = "vac_and_mop"
	CleaningModeMopOnly      CleaningMode = "mop"
	CleaningModeVacuumOnly   CleaningMode = "vac"
)

type SuctionMode string

const (
	SuctionModeOff      SuctionMode = "off"
	SuctionModeQuiet    SuctionMode = "quiet"
	SuctionModeBalanced SuctionMode = "balanced"
	SuctionModeTurbo    SuctionMode = "turbo"
	SuctionModeMax      SuctionMode = "max"
	SuctionModeMaxPlus  SuctionMode = "max_plus"
)

type MopMode string

const (
	MopModeOff    MopMode = "off"
	MopModeLow    MopMode = "low"
	MopModeMedium MopMode = "medium"
	MopModeHigh   MopMode = "high"
)

type RouteMode string

const (
	RouteModeFast     RouteMode = "fast"
	RouteModeStandard RouteMode = "standard"
	RouteModeDeep     RouteMode = "deep"
	RouteModeDeepPlus RouteMode = "deep_plus"
)

// CycleCount is the number of passes of a cleaning run.
type CycleCount int

const (
	MinCycles CycleCount = 1
	MaxCycles CycleCount = 2
)

// Display order of every family, matching the order of the card buttons.
var (
	cleaningModes = []CleaningMode{CleaningModeVacuumAndMop, CleaningModeMopOnly, CleaningModeVacuumOnly}
	suctionModes  = []SuctionMode{SuctionModeOff, SuctionModeQuiet, SuctionModeBalanced, SuctionModeTurbo, SuctionModeMax, SuctionModeMaxPlus}
	mopModes      = []MopMode{MopModeOff, MopModeLow, MopModeMedium, MopModeHigh}
	routeModes    = []RouteMode{RouteModeFast, RouteModeStandard, RouteModeDeep, RouteModeDeepPlus}
)

func CleaningModes() []CleaningMode { return append([]CleaningMode(nil), cleaningModes...) }
func SuctionModes() []SuctionMode   { return append([]SuctionMode(nil), suctionModes...) }
func MopModes() []MopMode           { return append([]MopMode(nil), mopModes...) }
func RouteModes() []RouteMode       { return append([]RouteMode(nil), routeModes...) }
func CycleCounts() []CycleCount     { return []CycleCount{MinCycles, MaxCycles} }

func (m CleaningMode) Valid() bool { return contains(cleaningModes, m) }
func (m SuctionMode) Valid() bool  { return contains(suctionModes, m) }
func (m MopMode) Valid() bool      { return contains(mopModes, m) }
func (m RouteMode) Valid() bool    { return contains(routeModes, m) }
func (c CycleCount) Valid() bool   { return c >= MinCycles && c <= MaxCycles }

func (c CycleCount) String() string { return strconv.Itoa(int(c)) }

func ParseCleaningMode(s string) (CleaningMode, error) {
	m := CleaningMode(normalize(s))
	if !m.Valid() {
		return "", fmt.Errorf("%w: cleaning mode %q", ErrInvalidMode, s)
	}
	return m, nil
}

func ParseSuctionMode(s string) (SuctionMode, error) {
	m := SuctionMode(normalize(s))
	if !m.Valid() {
		return "", fmt.Errorf("%w: suction mode %q", ErrInvalidMode, s)
	}
	return m, nil
}

func ParseMopMode(s string) (MopMode, error) {
	m := MopMode(normalize(s))
	if !m.Valid() {
		return "", fmt.Errorf("%w: mop mode %q", ErrInvalidMode, s)
	}
	return m, nil
}

func ParseRouteMode(s string) (RouteMode, error) {
	m := RouteMode(normalize(s))
	if !m.Valid() {
		return "", fmt.Errorf("%w: route mode %q", ErrInvalidMode, s)
	}
	return m, nil
}

// ParseCycleCount accepts the "1"/"2" strings the card sends.
func ParseCycleCount(s string) (CycleCount, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || !CycleCount(n).Valid() {
		return 0, fmt.Errorf("%w: %q", ErrInvalidCycles, s)
	}
	return CycleCount(n), nil
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func contains[T comparable](values []T, v T) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}
