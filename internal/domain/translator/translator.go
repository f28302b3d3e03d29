// Package translator maps the state strings reported by the platform onto
// the mode enumerations, and back.
package translator

import (
	"errors"
	"fmt"
	"strings"

	"roborock-cleaning-panel/internal/domain/model"
)

var ErrUnrecognizedState = errors.New("unrecognized state")

type Mapper struct {
	suction   map[string]model.SuctionMode
	mop       map[string]model.MopMode
	route     map[string]model.RouteMode
	retain    map[string]bool
	mopActive *expression
}

func NewMapper(m model.StateMapping) (*Mapper, error) {
	exprSrc := m.MopActiveExpression
	if exprSrc == "" {
		exprSrc = model.DefaultMopActiveExpression
	}
	expr, err := compileExpression(exprSrc)
	if err != nil {
		return nil, err
	}

	mp := &Mapper{
		suction:   make(map[string]model.SuctionMode),
		mop:       make(map[string]model.MopMode),
		route:     make(map[string]model.RouteMode),
		retain:    make(map[string]bool),
		mopActive: expr,
	}
	for k, v := range m.SuctionAliases {
		if !v.Valid() {
			return nil, fmt.Errorf("suction alias %q: %w", k, model.ErrInvalidMode)
		}
		mp.suction[key(k)] = v
	}
	for k, v := range m.MopAliases {
		if !v.Valid() {
			return nil, fmt.Errorf("mop alias %q: %w", k, model.ErrInvalidMode)
		}
		mp.mop[key(k)] = v
	}
	for k, v := range m.RouteAliases {
		if !v.Valid() {
			return nil, fmt.Errorf("route alias %q: %w", k, model.ErrInvalidMode)
		}
		mp.route[key(k)] = v
	}
	for _, s := range m.MopRetainStates {
		mp.retain[key(s)] = true
	}
	return mp, nil
}

// MustDefault is the mapper for the stock Roborock integration.
func MustDefault() *Mapper {
	mp, err := NewMapper(model.DefaultStateMapping())
	if err != nil {
		panic(err)
	}
	return mp
}

func (m *Mapper) Suction(raw string) (model.SuctionMode, error) {
	k := key(raw)
	if v, ok := m.suction[k]; ok {
		return v, nil
	}
	if v := model.SuctionMode(k); v.Valid() {
		return v, nil
	}
	return "", fmt.Errorf("%w: suction %q", ErrUnrecognizedState, raw)
}

// Mop reports retain=true for states that say nothing about the intensity,
// e.g. "vac_followed_by_mop"; the caller keeps its last known value.
func (m *Mapper) Mop(raw string) (mode model.MopMode, retain bool, err error) {
	k := key(raw)
	if m.retain[k] {
		return "", true, nil
	}
	if v, ok := m.mop[k]; ok {
		return v, false, nil
	}
	if v := model.MopMode(k); v.Valid() {
		return v, false, nil
	}
	return "", false, fmt.Errorf("%w: mop %q", ErrUnrecognizedState, raw)
}

func (m *Mapper) Route(raw string) (model.RouteMode, error) {
	k := key(raw)
	if v, ok := m.route[k]; ok {
		return v, nil
	}
	if v := model.RouteMode(k); v.Valid() {
		return v, nil
	}
	return "", fmt.Errorf("%w: route %q", ErrUnrecognizedState, raw)
}

// MopActive evaluates the configured expression against raw (lower-cased)
// intensity and route states.
func (m *Mapper) MopActive(intensity, route string) (bool, error) {
	return m.mopActive.evalBool(map[string]interface{}{
		"intensity": key(intensity),
		"route":     key(route),
	})
}

func key(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
