package ports

import (
	"context"
	"roborock-cleaning-panel/internal/domain/model"
)

// PanelPort is the surface the UI shell drives.
type PanelPort interface {
	View(ctx context.Context) (*model.PanelView, error)
	Status(ctx context.Context) (*model.VacuumStatus, error)
	Open(ctx context.Context) (*model.PanelView, error)
	Close(ctx context.Context) (*model.PanelView, error)

	SetCleaningMode(ctx context.Context, value string) (*model.PanelView, error)
	SetSuctionMode(ctx context.Context, value string) (*model.PanelView, error)
	SetMopMode(ctx context.Context, value string) (*model.PanelView, error)
	SetRouteMode(ctx context.Context, value string) (*model.PanelView, error)
	SetCycles(ctx context.Context, value string) (*model.PanelView, error)
	SelectRooms(ctx context.Context, roomIDs []string) (*model.PanelView, error)

	Run(ctx context.Context) error
	RunAll(ctx context.Context) error
}
