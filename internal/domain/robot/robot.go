// Package robot is the vacuum facade on top of the Home Assistant port: it
// knows which entities belong to the robot and which services to call.
package robot

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/mitchellh/mapstructure"
	"roborock-cleaning-panel/internal/domain/model"
	"roborock-cleaning-panel/internal/domain/translator"
	"roborock-cleaning-panel/internal/ports"
)

var ErrNotInitialized = errors.New("robot not initialized")

// Fallbacks used while the platform has no state for an entity.
const (
	DefaultSuctionMode = model.SuctionModeTurbo
	DefaultMopMode     = model.MopModeHigh
	DefaultRouteMode   = model.RouteModeStandard

	segmentCleanCommand = "app_segment_clean"
)

type vacuumAttributes struct {
	FanSpeed     string   `mapstructure:"fan_speed"`
	FanSpeedList []string `mapstructure:"fan_speed_list"`
	BatteryLevel int      `mapstructure:"battery_level"`
	FriendlyName string   `mapstructure:"friendly_name"`
}

type Robot struct {
	ha ports.HomeAssistantPort

	mu               sync.RWMutex
	entities         model.Entities
	mapper           *translator.Mapper
	lastMopIntensity model.MopMode
}

func New(ha ports.HomeAssistantPort, mapper *translator.Mapper) *Robot {
	if mapper == nil {
		mapper = translator.MustDefault()
	}
	return &Robot{ha: ha, mapper: mapper}
}

// Configure swaps the robot identity; a nil mapper keeps the current one.
func (r *Robot) Configure(entities model.Entities, mapper *translator.Mapper) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if entities.Vacuum != r.entities.Vacuum {
		r.lastMopIntensity = ""
	}
	r.entities = entities
	if mapper != nil {
		r.mapper = mapper
	}
}

func (r *Robot) Name() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.entities.Name
}

func (r *Robot) Entities() model.Entities {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.entities
}

func (r *Robot) snapshot() (model.Entities, *translator.Mapper, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ready := r.entities.Vacuum != "" && r.ha.IsConfigured()
	return r.entities, r.mapper, ready
}

func (r *Robot) SuctionMode(ctx context.Context) (model.SuctionMode, error) {
	ents, mapper, ready := r.snapshot()
	if !ready {
		return DefaultSuctionMode, nil
	}
	st, err := r.state(ctx, ents.Vacuum)
	if err != nil || st == nil {
		return DefaultSuctionMode, err
	}
	attrs, err := decodeAttributes(st.Attributes)
	if err != nil {
		return DefaultSuctionMode, err
	}
	if attrs.FanSpeed == "" {
		return DefaultSuctionMode, nil
	}
	mode, err := mapper.Suction(attrs.FanSpeed)
	if err != nil {
		return DefaultSuctionMode, fmt.Errorf("%s: %w", ents.Vacuum, err)
	}
	return mode, nil
}

// MopMode remembers the last real intensity so that combined states such
// as "vac_followed_by_mop" still resolve to a level.
func (r *Robot) MopMode(ctx context.Context) (model.MopMode, error) {
	ents, mapper, ready := r.snapshot()
	if !ready {
		return DefaultMopMode, nil
	}
	st, err := r.state(ctx, ents.MopIntensity)
	if err != nil || st == nil {
		return DefaultMopMode, err
	}
	mode, retain, err := mapper.Mop(st.State)
	if err != nil {
		return DefaultMopMode, fmt.Errorf("%s: %w", ents.MopIntensity, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if retain {
		if r.lastMopIntensity == "" {
			return model.MopModeMedium, nil
		}
		return r.lastMopIntensity, nil
	}
	if mode != model.MopModeOff {
		r.lastMopIntensity = mode
	}
	return mode, nil
}

func (r *Robot) RouteMode(ctx context.Context) (model.RouteMode, error) {
	ents, mapper, ready := r.snapshot()
	if !ready {
		return DefaultRouteMode, nil
	}
	st, err := r.state(ctx, ents.RouteMode)
	if err != nil || st == nil {
		return DefaultRouteMode, err
	}
	mode, err := mapper.Route(st.State)
	if err != nil {
		return DefaultRouteMode, fmt.Errorf("%s: %w", ents.RouteMode, err)
	}
	return mode, nil
}

func (r *Robot) MopActive(ctx context.Context) (bool, error) {
	ents, mapper, ready := r.snapshot()
	if !ready {
		return false, nil
	}
	intensity := string(model.MopModeOff)
	if st, err := r.state(ctx, ents.MopIntensity); err != nil {
		return false, err
	} else if st != nil {
		intensity = st.State
	}
	route := string(model.RouteModeStandard)
	if st, err := r.state(ctx, ents.RouteMode); err != nil {
		return false, err
	} else if st != nil {
		route = st.State
	}
	return mapper.MopActive(intensity, route)
}

func (r *Robot) Status(ctx context.Context) (*model.VacuumStatus, error) {
	ents, mapper, ready := r.snapshot()
	if !ready {
		return nil, ErrNotInitialized
	}
	st, err := r.ha.GetState(ctx, ents.Vacuum)
	if err != nil {
		return nil, err
	}
	attrs, err := decodeAttributes(st.Attributes)
	if err != nil {
		return nil, err
	}
	status := &model.VacuumStatus{
		State:        st.State,
		BatteryLevel: attrs.BatteryLevel,
	}
	if attrs.FanSpeed != "" {
		if mode, err := mapper.Suction(attrs.FanSpeed); err == nil {
			status.FanSpeed = mode
		}
	}
	if status.MopActive, err = r.MopActive(ctx); err != nil {
		return nil, err
	}
	return status, nil
}

func (r *Robot) SetSuctionMode(ctx context.Context, mode model.SuctionMode) error {
	ents, _, ready := r.snapshot()
	if !ready {
		return ErrNotInitialized
	}
	return r.ha.CallService(ctx, "vacuum", "set_fan_speed", map[string]interface{}{
		"entity_id": ents.Vacuum,
		"fan_speed": string(mode),
	})
}

func (r *Robot) SetMopMode(ctx context.Context, mode model.MopMode) error {
	ents, _, ready := r.snapshot()
	if !ready {
		return ErrNotInitialized
	}
	return r.selectOption(ctx, ents.MopIntensity, string(mode))
}

func (r *Robot) SetRouteMode(ctx context.Context, mode model.RouteMode) error {
	ents, _, ready := r.snapshot()
	if !ready {
		return ErrNotInitialized
	}
	return r.selectOption(ctx, ents.RouteMode, string(mode))
}

func (r *Robot) StartSegmentsCleaning(ctx context.Context, segments []int, repeat int) error {
	ents, _, ready := r.snapshot()
	if !ready {
		return ErrNotInitialized
	}
	return r.ha.CallService(ctx, "vacuum", "send_command", map[string]interface{}{
		"entity_id": ents.Vacuum,
		"command":   segmentCleanCommand,
		"params": []interface{}{
			map[string]interface{}{
				"segments": segments,
				"repeat":   repeat,
			},
		},
	})
}

func (r *Robot) CallService(ctx context.Context, service string) error {
	ents, _, ready := r.snapshot()
	if !ready {
		return ErrNotInitialized
	}
	return r.ha.CallService(ctx, "vacuum", service, map[string]interface{}{
		"entity_id": ents.Vacuum,
	})
}

func (r *Robot) selectOption(ctx context.Context, entityID, option string) error {
	if _, err := r.ha.GetState(ctx, entityID); err != nil {
		return fmt.Errorf("select %s: %w", entityID, err)
	}
	return r.ha.CallService(ctx, "select", "select_option", map[string]interface{}{
		"entity_id": entityID,
		"option":    option,
	})
}

// state returns nil without error when the entity does not exist.
func (r *Robot) state(ctx context.Context, entityID string) (*ports.EntityState, error) {
	st, err := r.ha.GetState(ctx, entityID)
	if errors.Is(err, ports.ErrEntityNotFound) {
		return nil, nil
	}
	return st, err
}

func decodeAttributes(raw map[string]interface{}) (vacuumAttributes, error) {
	var attrs vacuumAttributes
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &attrs,
	})
	if err != nil {
		return attrs, err
	}
	if err := dec.Decode(raw); err != nil {
		return attrs, fmt.Errorf("decode vacuum attributes: %w", err)
	}
	return attrs, nil
}
