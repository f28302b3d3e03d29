package model

import "github.com/amimof/huego"

type DeviceType string

const (
	DeviceTypeAllRooms DeviceType = "all_rooms"
	DeviceTypeRoom     DeviceType = "room"
)

// Device is a virtual Hue light that launches a cleaning run when switched on.
type Device struct {
	ID    string
	Name  string
	Type  DeviceType
	Room  *Room // nil for DeviceTypeAllRooms
	State *huego.State
}

type VacuumStatus struct {
	State        string      `json:"state"`
	BatteryLevel int         `json:"battery_level"`
	FanSpeed     SuctionMode `json:"fan_speed,omitempty"`
	MopActive    bool        `json:"mop_active"`
}

func (s VacuumStatus) Cleaning() bool {
	return s.State == "cleaning"
}
