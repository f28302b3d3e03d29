package model

import (
	"errors"
	"fmt"
	"strings"
)

var ErrMissingEntity = errors.New("missing vacuum entity")

const vacuumDomain = "vacuum."

// Entities holds the effective Home Assistant entity ids of one robot.
type Entities struct {
	Name         string
	Vacuum       string
	MopIntensity string
	RouteMode    string
}

// ResolveEntities derives the companion select entities from the vacuum
// entity when they are not configured explicitly.
func ResolveEntities(cfg RobotConfig) (Entities, error) {
	id := strings.TrimSpace(cfg.EntityID)
	if id == "" {
		return Entities{}, ErrMissingEntity
	}
	if !strings.HasPrefix(id, vacuumDomain) || len(id) == len(vacuumDomain) {
		return Entities{}, fmt.Errorf("%w: %q is not a vacuum entity", ErrMissingEntity, id)
	}

	name := strings.TrimPrefix(id, vacuumDomain)
	ents := Entities{
		Name:         name,
		Vacuum:       id,
		MopIntensity: strings.TrimSpace(cfg.MopIntensityEntityID),
		RouteMode:    strings.TrimSpace(cfg.RouteModeEntityID),
	}
	if ents.MopIntensity == "" {
		ents.MopIntensity = fmt.Sprintf("select.%s_mop_intensity", name)
	}
	if ents.RouteMode == "" {
		ents.RouteMode = fmt.Sprintf("select.%s_mop_mode", name)
	}
	return ents, nil
}
