package ports

import (
	"context"
	"roborock-cleaning-panel/internal/domain/model"
)

// VacuumPort is the device facade the session controller drives.
type VacuumPort interface {
	SuctionMode(ctx context.Context) (model.SuctionMode, error)
	MopMode(ctx context.Context) (model.MopMode, error)
	RouteMode(ctx context.Context) (model.RouteMode, error)

	SetSuctionMode(ctx context.Context, mode model.SuctionMode) error
	SetMopMode(ctx context.Context, mode model.MopMode) error
	SetRouteMode(ctx context.Context, mode model.RouteMode) error
	StartSegmentsCleaning(ctx context.Context, segments []int, repeat int) error
	CallService(ctx context.Context, service string) error
}

type RoomDirectory interface {
	Rooms(ctx context.Context) ([]model.Room, error)
}

// RunObserver is notified about every dispatch sequence.
type RunObserver interface {
	RunStarted(run model.RunEvent)
	CommandDispatched(run model.RunEvent, command string, err error)
	RunFinished(run model.RunEvent, err error)
}
