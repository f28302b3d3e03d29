package model

type SessionState string

const (
	SessionIdle        SessionState = "idle"
	SessionConfiguring SessionState = "configuring"
	SessionDispatching SessionState = "dispatching"
)

type Option struct {
	Value    string `json:"value"`
	Active   bool   `json:"active"`
	Disabled bool   `json:"disabled"`
}

type PanelOptions struct {
	Cleaning []Option `json:"cleaning_modes"`
	Suction  []Option `json:"suction_modes,omitempty"` // hidden for mop-only runs
	Mop      []Option `json:"mop_modes,omitempty"`     // hidden for vacuum-only runs
	Route    []Option `json:"route_modes"`
	Cycles   []Option `json:"cycles"`
}

type PanelView struct {
	State         SessionState `json:"state"`
	CleaningMode  CleaningMode `json:"cleaning_mode"`
	SuctionMode   SuctionMode  `json:"suction_mode"`
	MopMode       MopMode      `json:"mop_mode"`
	RouteMode     RouteMode    `json:"route_mode"`
	Cycles        CycleCount   `json:"cycles"`
	SelectedRooms []string     `json:"selected_rooms"`
	InProgress    bool         `json:"in_progress"`
	CanRun        bool         `json:"can_run"`
	Options       PanelOptions `json:"options"`
	Rooms         []Room       `json:"rooms"`
	Theme         Theme        `json:"theme"`
}
