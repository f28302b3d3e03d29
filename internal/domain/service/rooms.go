package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"roborock-cleaning-panel/internal/domain/model"
	"roborock-cleaning-panel/internal/ports"
)

// RoomDirectory lists the rooms of the configured areas that the platform knows.
type RoomDirectory struct {
	haPort ports.HomeAssistantPort
	log    *slog.Logger

	mu    sync.RWMutex
	areas []model.AreaConfig
}

func NewRoomDirectory(haPort ports.HomeAssistantPort, areas []model.AreaConfig, log *slog.Logger) *RoomDirectory {
	if log == nil {
		log = slog.Default()
	}
	d := &RoomDirectory{haPort: haPort, log: log}
	d.SetAreas(areas)
	return d
}

func (d *RoomDirectory) SetAreas(areas []model.AreaConfig) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.areas = append([]model.AreaConfig(nil), areas...)
}

func (d *RoomDirectory) Rooms(ctx context.Context) ([]model.Room, error) {
	d.mu.RLock()
	areas := append([]model.AreaConfig(nil), d.areas...)
	d.mu.RUnlock()

	rooms := make([]model.Room, 0, len(areas))
	for _, area := range areas {
		name := area.Name
		if name == "" {
			resolved, err := d.areaName(ctx, model.NormalizeAreaID(area.AreaID))
			if err != nil {
				return nil, err
			}
			name = resolved
		}
		if name == "" {
			d.log.Debug("area not found, skipping", "area_id", area.AreaID)
			continue
		}
		rooms = append(rooms, model.RoomFromArea(area, name))
	}
	return rooms, nil
}

func (d *RoomDirectory) areaName(ctx context.Context, areaID string) (string, error) {
	if !d.haPort.IsConfigured() {
		return "", nil
	}
	out, err := d.haPort.RenderTemplate(ctx, fmt.Sprintf("{{ area_name('%s') }}", strings.ReplaceAll(areaID, "'", "")))
	if err != nil {
		return "", fmt.Errorf("resolve area %s: %w", areaID, err)
	}
	out = strings.TrimSpace(out)
	if out == "None" {
		return "", nil
	}
	return out, nil
}
