package ports

import (
	"context"
	"roborock-cleaning-panel/internal/domain/model"
)

type BridgePort interface {
	GetDevices(ctx context.Context) ([]*model.Device, error)
	GetDevice(ctx context.Context, id string) (*model.Device, error)
	UpdateDeviceState(ctx context.Context, id string, state map[string]interface{}) error
}

type AdminPort interface {
	GetConfig(ctx context.Context) (*model.Config, error)
	UpdateConfig(ctx context.Context, cfg *model.Config) error
	GetAllEntities(ctx context.Context) ([]HomeAssistantEntity, error)
}
