package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"roborock-cleaning-panel/internal/domain/model"
	"roborock-cleaning-panel/internal/domain/translator"
	"roborock-cleaning-panel/internal/ports"
)

var ErrInvalidConfig = errors.New("invalid config")

type RobotConfigurer interface {
	Configure(entities model.Entities, mapper *translator.Mapper)
}

type ConfigService struct {
	repo   ports.ConfigRepository
	haPort ports.HomeAssistantPort
	robot  RobotConfigurer
	rooms  *RoomDirectory
	panel  *PanelService
}

func NewConfigService(repo ports.ConfigRepository, haPort ports.HomeAssistantPort, robot RobotConfigurer, rooms *RoomDirectory, panel *PanelService) *ConfigService {
	return &ConfigService{
		repo:   repo,
		haPort: haPort,
		robot:  robot,
		rooms:  rooms,
		panel:  panel,
	}
}

func (s *ConfigService) GetConfig(ctx context.Context) (*model.Config, error) {
	return s.repo.Get(ctx)
}

// UpdateConfig validates cfg before anything is saved, then applies it to
// every running component.
func (s *ConfigService) UpdateConfig(ctx context.Context, cfg *model.Config) error {
	if err := s.Apply(cfg); err != nil {
		return err
	}
	return s.repo.Save(ctx, cfg)
}

// Apply pushes cfg into the running components without persisting it.
func (s *ConfigService) Apply(cfg *model.Config) error {
	entities, err := model.ResolveEntities(cfg.Robot)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	mapper, err := translator.NewMapper(cfg.EffectiveStateMapping())
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	for _, area := range cfg.Areas {
		if strings.TrimSpace(area.AreaID) == "" {
			return fmt.Errorf("%w: area for segment %d has no area_id", ErrInvalidConfig, area.RoborockAreaID)
		}
	}

	if cfg.HassURL != "" && cfg.HassToken != "" {
		s.haPort.Configure(cfg.HassURL, cfg.HassToken)
	}
	s.robot.Configure(entities, mapper)
	s.rooms.SetAreas(cfg.Areas)
	s.panel.SetTheme(cfg.Theme)
	return nil
}

func (s *ConfigService) GetAllEntities(ctx context.Context) ([]ports.HomeAssistantEntity, error) {
	return s.haPort.GetAllEntities(ctx)
}
