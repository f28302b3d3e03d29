package service

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"sync"

	"github.com/amimof/huego"
	"roborock-cleaning-panel/internal/domain/model"
	"roborock-cleaning-panel/internal/ports"
)

const allRoomsDeviceID = "1"

// CleaningLauncher starts runs without touching the panel's room selection.
type CleaningLauncher interface {
	LaunchRooms(ctx context.Context, roomIDs []string, cycles model.CycleCount) error
	LaunchAll(ctx context.Context) error
	Cycles() model.CycleCount
}

type VacuumRemote interface {
	Status(ctx context.Context) (*model.VacuumStatus, error)
	CallService(ctx context.Context, service string) error
}

// BridgeService exposes the rooms as switchable lights so a voice assistant
// can start and stop cleaning.
type BridgeService struct {
	rooms    ports.RoomDirectory
	launcher CleaningLauncher
	vacuum   VacuumRemote
	log      *slog.Logger
	devices  map[string]*model.Device
	mu       sync.RWMutex
}

func NewBridgeService(rooms ports.RoomDirectory, launcher CleaningLauncher, vacuum VacuumRemote, log *slog.Logger) *BridgeService {
	if log == nil {
		log = slog.Default()
	}
	return &BridgeService{
		rooms:    rooms,
		launcher: launcher,
		vacuum:   vacuum,
		log:      log,
		devices:  make(map[string]*model.Device),
	}
}

func (s *BridgeService) RefreshDevices(ctx context.Context) error {
	rooms, err := s.rooms.Rooms(ctx)
	if err != nil {
		return err
	}

	cleaning := false
	if status, err := s.vacuum.Status(ctx); err != nil {
		s.log.Debug("vacuum status unavailable", "error", err)
	} else {
		cleaning = status.Cleaning()
	}

	newDevices := make(map[string]*model.Device, len(rooms)+1)
	newDevices[allRoomsDeviceID] = &model.Device{
		ID:    allRoomsDeviceID,
		Name:  "All rooms",
		Type:  model.DeviceTypeAllRooms,
		State: lightState(cleaning),
	}
	for i := range rooms {
		room := rooms[i]
		id := strconv.Itoa(i + 2)
		newDevices[id] = &model.Device{
			ID:    id,
			Name:  room.Name,
			Type:  model.DeviceTypeRoom,
			Room:  &room,
			State: lightState(cleaning),
		}
	}

	s.mu.Lock()
	s.devices = newDevices
	s.mu.Unlock()
	return nil
}

func (s *BridgeService) GetDevices(ctx context.Context) ([]*model.Device, error) {
	if err := s.RefreshDevices(ctx); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	devices := make([]*model.Device, 0, len(s.devices))
	for _, d := range s.devices {
		devices = append(devices, copyDevice(d))
	}
	return devices, nil
}

func (s *BridgeService) GetDevice(ctx context.Context, id string) (*model.Device, error) {
	s.mu.RLock()
	empty := len(s.devices) == 0
	s.mu.RUnlock()
	if empty {
		if err := s.RefreshDevices(ctx); err != nil {
			return nil, err
		}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.devices[id]
	if !ok {
		return nil, fmt.Errorf("device %s not found", id)
	}
	return copyDevice(d), nil
}

// UpdateDeviceState answers at once; the run itself continues in the
// background because voice assistants time out quickly.
func (s *BridgeService) UpdateDeviceState(ctx context.Context, id string, hueStateUpdate map[string]interface{}) error {
	device, err := s.GetDevice(ctx, id)
	if err != nil {
		return err
	}
	on, ok := hueStateUpdate["on"].(bool)
	if !ok {
		return nil
	}

	s.mu.Lock()
	if stored, ok := s.devices[id]; ok {
		stored.State.On = on
	}
	s.mu.Unlock()

	go func() {
		ctx := context.Background()
		var err error
		switch {
		case !on:
			err = s.vacuum.CallService(ctx, "return_to_base")
		case device.Type == model.DeviceTypeAllRooms:
			err = s.launcher.LaunchAll(ctx)
		default:
			err = s.launcher.LaunchRooms(ctx, []string{device.Room.ID}, s.launcher.Cycles())
		}
		if err != nil {
			s.log.Error("voice command failed", "device", device.Name, "on", on, "error", err)
		}
	}()
	return nil
}

// copyDevice detaches the returned device from the shared state so callers
// can encode it without holding the lock.
func copyDevice(d *model.Device) *model.Device {
	out := *d
	if d.State != nil {
		st := *d.State
		out.State = &st
	}
	if d.Room != nil {
		room := *d.Room
		out.Room = &room
	}
	return &out
}

func lightState(on bool) *huego.State {
	return &huego.State{
		On:        on,
		Bri:       254,
		Reachable: true,
	}
}
