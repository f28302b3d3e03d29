package model

import "time"

const DefaultSettleDelay = 100 * time.Millisecond

const DefaultMopActiveExpression = "intensity != 'off' || route == 'deep' || route == 'deep_plus'"

type RobotConfig struct {
	EntityID             string `json:"entity" yaml:"entity"`
	MopIntensityEntityID string `json:"mop_intensity_entity,omitempty" yaml:"mop_intensity_entity,omitempty"`
	// Some integrations expose the route mode under the "mop_mode" select.
	RouteModeEntityID string `json:"mop_mode_entity,omitempty" yaml:"mop_mode_entity,omitempty"`
}

type AreaConfig struct {
	AreaID         string `json:"area_id" yaml:"area_id"`
	RoborockAreaID int    `json:"roborock_area_id" yaml:"roborock_area_id"`
	Name           string `json:"name,omitempty" yaml:"name,omitempty"`
	Icon           string `json:"icon,omitempty" yaml:"icon,omitempty"`
}

// Theme replaces the document-level CSS variables the card used to read.
type Theme struct {
	PrimaryColor   string `json:"primary_color,omitempty" yaml:"primary_color,omitempty"`
	IconColor      string `json:"icon_color,omitempty" yaml:"icon_color,omitempty"`
	CardBackground string `json:"card_background,omitempty" yaml:"card_background,omitempty"`
}

func DefaultTheme() Theme {
	return Theme{
		PrimaryColor:   "#89B3F8",
		IconColor:      "#fff",
		CardBackground: "white",
	}
}

// WithDefaults fills every empty color from DefaultTheme.
func (t Theme) WithDefaults() Theme {
	d := DefaultTheme()
	if t.PrimaryColor == "" {
		t.PrimaryColor = d.PrimaryColor
	}
	if t.IconColor == "" {
		t.IconColor = d.IconColor
	}
	if t.CardBackground == "" {
		t.CardBackground = d.CardBackground
	}
	return t
}

// StateMapping describes how platform state strings map onto the mode
// enumerations. Integrations disagree on spellings, so aliases are data.
type StateMapping struct {
	SuctionAliases      map[string]SuctionMode `json:"suction_aliases,omitempty" yaml:"suction_aliases,omitempty"`
	MopAliases          map[string]MopMode     `json:"mop_aliases,omitempty" yaml:"mop_aliases,omitempty"`
	RouteAliases        map[string]RouteMode   `json:"route_aliases,omitempty" yaml:"route_aliases,omitempty"`
	MopRetainStates     []string               `json:"mop_retain_states,omitempty" yaml:"mop_retain_states,omitempty"`
	MopActiveExpression string                 `json:"mop_active_expression,omitempty" yaml:"mop_active_expression,omitempty"`
}

func DefaultStateMapping() StateMapping {
	return StateMapping{
		MopRetainStates:     []string{"vac_followed_by_mop", "mop_after_vac"},
		MopActiveExpression: DefaultMopActiveExpression,
	}
}

type Config struct {
	HassURL       string       `json:"hass_url"`
	HassToken     string       `json:"hass_token"`
	LocalIP       string       `json:"local_ip"`
	Robot         RobotConfig  `json:"robot"`
	Areas         []AreaConfig `json:"areas"` // Ordered slice
	Theme         Theme        `json:"theme"`
	StateMapping  StateMapping `json:"state_mapping"`
	SettleDelayMS int          `json:"settle_delay_ms,omitempty"`
}

func (c *Config) SettleDelay() time.Duration {
	if c.SettleDelayMS <= 0 {
		return DefaultSettleDelay
	}
	return time.Duration(c.SettleDelayMS) * time.Millisecond
}

// EffectiveStateMapping returns the mapping with defaults for unset fields.
func (c *Config) EffectiveStateMapping() StateMapping {
	m := c.StateMapping
	d := DefaultStateMapping()
	if m.MopRetainStates == nil {
		m.MopRetainStates = d.MopRetainStates
	}
	if m.MopActiveExpression == "" {
		m.MopActiveExpression = d.MopActiveExpression
	}
	return m
}
