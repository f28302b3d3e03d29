package persistence

import (
	"context"
	"encoding/json"
	"os"
	"sync"

	"roborock-cleaning-panel/internal/domain/model"
)

type JSONConfigRepository struct {
	filepath string
	mu       sync.RWMutex
}

// legacyConfig is the flat layout the card configuration used, with the
// robot entities at the top level.
type legacyConfig struct {
	HassURL              string             `json:"hass_url"`
	HassToken            string             `json:"hass_token"`
	Entity               string             `json:"entity"`
	MopIntensityEntityID string             `json:"mop_intensity_entity"`
	MopModeEntityID      string             `json:"mop_mode_entity"`
	Areas                []model.AreaConfig `json:"areas"`
}

func NewJSONConfigRepository(filepath string) *JSONConfigRepository {
	return &JSONConfigRepository{filepath: filepath}
}

// Exists reports whether a config file has been written yet.
func (r *JSONConfigRepository) Exists() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, err := os.Stat(r.filepath)
	return err == nil
}

func (r *JSONConfigRepository) Get(ctx context.Context) (*model.Config, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	data, err := os.ReadFile(r.filepath)
	if err != nil {
		if os.IsNotExist(err) {
			return &model.Config{Areas: []model.AreaConfig{}}, nil
		}
		return nil, err
	}

	var cfg model.Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	// Migration check: no robot section means the flat layout
	if cfg.Robot.EntityID == "" {
		return r.migrate(data, &cfg)
	}
	if cfg.Areas == nil {
		cfg.Areas = []model.AreaConfig{}
	}
	return &cfg, nil
}

func (r *JSONConfigRepository) migrate(data []byte, cfg *model.Config) (*model.Config, error) {
	var legacy legacyConfig
	if err := json.Unmarshal(data, &legacy); err != nil {
		return cfg, nil
	}

	cfg.Robot = model.RobotConfig{
		EntityID:             legacy.Entity,
		MopIntensityEntityID: legacy.MopIntensityEntityID,
		RouteModeEntityID:    legacy.MopModeEntityID,
	}
	if len(cfg.Areas) == 0 {
		cfg.Areas = legacy.Areas
	}
	if cfg.Areas == nil {
		cfg.Areas = []model.AreaConfig{}
	}
	return cfg, nil
}

func (r *JSONConfigRepository) Save(ctx context.Context, config *model.Config) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(r.filepath, data, 0600)
}
