package persistence

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
	"roborock-cleaning-panel/internal/domain/model"
)

// cardConfig is the Lovelace card definition as written in a dashboard.
type cardConfig struct {
	Type                 string             `yaml:"type"`
	Entity               string             `yaml:"entity"`
	MopIntensityEntityID string             `yaml:"mop_intensity_entity"`
	MopModeEntityID      string             `yaml:"mop_mode_entity"`
	Areas                []model.AreaConfig `yaml:"areas"`
	Theme                model.Theme        `yaml:"theme"`
	StateMapping         model.StateMapping `yaml:"state_mapping"`
	SettleDelayMS        int                `yaml:"settle_delay_ms"`
}

// ParseCardConfig reads a card YAML document into a config. Platform
// credentials are not part of a card and stay empty.
func ParseCardConfig(data []byte) (*model.Config, error) {
	var card cardConfig
	if err := yaml.Unmarshal(data, &card); err != nil {
		return nil, fmt.Errorf("parse card config: %w", err)
	}
	if card.Entity == "" {
		return nil, fmt.Errorf("parse card config: %w", model.ErrMissingEntity)
	}

	areas := card.Areas
	if areas == nil {
		areas = []model.AreaConfig{}
	}
	return &model.Config{
		Robot: model.RobotConfig{
			EntityID:             card.Entity,
			MopIntensityEntityID: card.MopIntensityEntityID,
			RouteModeEntityID:    card.MopModeEntityID,
		},
		Areas:         areas,
		Theme:         card.Theme,
		StateMapping:  card.StateMapping,
		SettleDelayMS: card.SettleDelayMS,
	}, nil
}

func LoadCardConfig(path string) (*model.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseCardConfig(data)
}
