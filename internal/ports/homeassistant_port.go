package ports

import (
	"context"
	"errors"
)

var ErrEntityNotFound = errors.New("entity not found")

type HomeAssistantEntity struct {
	EntityID     string `json:"entity_id"`
	FriendlyName string `json:"friendly_name"`
}

type EntityState struct {
	EntityID   string                 `json:"entity_id"`
	State      string                 `json:"state"`
	Attributes map[string]interface{} `json:"attributes"`
}

type HomeAssistantPort interface {
	GetRawStates(ctx context.Context) ([]map[string]interface{}, error)
	// GetState returns ErrEntityNotFound when the entity does not exist.
	GetState(ctx context.Context, entityID string) (*EntityState, error)
	GetAllEntities(ctx context.Context) ([]HomeAssistantEntity, error)
	CallService(ctx context.Context, domain, service string, data map[string]interface{}) error
	RenderTemplate(ctx context.Context, template string) (string, error)
	Configure(url, token string)
	IsConfigured() bool
}
