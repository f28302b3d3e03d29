package model

import (
	"strconv"
	"strings"
	"time"
)

const DefaultRoomIcon = "mdi:floor-plan"

type Room struct {
	ID     string `json:"id"` // Device segment id, decimal
	Name   string `json:"name"`
	Icon   string `json:"icon"`
	AreaID string `json:"area_id"`
}

// NormalizeAreaID turns "Living Room" into "living_room".
func NormalizeAreaID(id string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(id), " ", "_"))
}

func RoomFromArea(area AreaConfig, name string) Room {
	icon := area.Icon
	if icon == "" {
		icon = DefaultRoomIcon
	}
	return Room{
		ID:     strconv.Itoa(area.RoborockAreaID),
		Name:   name,
		Icon:   icon,
		AreaID: NormalizeAreaID(area.AreaID),
	}
}

type RunKind string

const (
	RunKindSegments RunKind = "segments"
	RunKindAll      RunKind = "all"
)

// RunEvent describes one dispatch sequence.
type RunEvent struct {
	ID        string        `json:"id"`
	Kind      RunKind       `json:"kind"`
	Segments  []int         `json:"segments,omitempty"`
	Cycles    CycleCount    `json:"cycles"`
	Suction   SuctionMode   `json:"suction_mode"`
	Mop       MopMode       `json:"mop_mode"`
	Route     RouteMode     `json:"route_mode"`
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration"`
}
