package service

import (
	"context"

	"github.com/stretchr/testify/mock"
	"roborock-cleaning-panel/internal/domain/model"
	"roborock-cleaning-panel/internal/ports"
)

type MockHAPort struct {
	mock.Mock
}

func (m *MockHAPort) GetRawStates(ctx context.Context) ([]map[string]interface{}, error) {
	args := m.Called(ctx)
	return args.Get(0).([]map[string]interface{}), args.Error(1)
}

func (m *MockHAPort) GetState(ctx context.Context, entityID string) (*ports.EntityState, error) {
	args := m.Called(ctx, entityID)
	st, _ := args.Get(0).(*ports.EntityState)
	return st, args.Error(1)
}

func (m *MockHAPort) GetAllEntities(ctx context.Context) ([]ports.HomeAssistantEntity, error) {
	args := m.Called(ctx)
	return args.Get(0).([]ports.HomeAssistantEntity), args.Error(1)
}

func (m *MockHAPort) CallService(ctx context.Context, domain, service string, data map[string]interface{}) error {
	args := m.Called(ctx, domain, service, data)
	return args.Error(0)
}

func (m *MockHAPort) RenderTemplate(ctx context.Context, template string) (string, error) {
	args := m.Called(ctx, template)
	return args.String(0), args.Error(1)
}

func (m *MockHAPort) Configure(url, token string) { m.Called(url, token) }

func (m *MockHAPort) IsConfigured() bool { return m.Called().Bool(0) }

type MockVacuum struct {
	mock.Mock
}

func (m *MockVacuum) SuctionMode(ctx context.Context) (model.SuctionMode, error) {
	args := m.Called(ctx)
	return args.Get(0).(model.SuctionMode), args.Error(1)
}

func (m *MockVacuum) MopMode(ctx context.Context) (model.MopMode, error) {
	args := m.Called(ctx)
	return args.Get(0).(model.MopMode), args.Error(1)
}

func (m *MockVacuum) RouteMode(ctx context.Context) (model.RouteMode, error) {
	args := m.Called(ctx)
	return args.Get(0).(model.RouteMode), args.Error(1)
}

func (m *MockVacuum) SetSuctionMode(ctx context.Context, mode model.SuctionMode) error {
	return m.Called(ctx, mode).Error(0)
}

func (m *MockVacuum) SetMopMode(ctx context.Context, mode model.MopMode) error {
	return m.Called(ctx, mode).Error(0)
}

func (m *MockVacuum) SetRouteMode(ctx context.Context, mode model.RouteMode) error {
	return m.Called(ctx, mode).Error(0)
}

func (m *MockVacuum) StartSegmentsCleaning(ctx context.Context, segments []int, repeat int) error {
	return m.Called(ctx, segments, repeat).Error(0)
}

func (m *MockVacuum) CallService(ctx context.Context, service string) error {
	return m.Called(ctx, service).Error(0)
}

func (m *MockVacuum) Status(ctx context.Context) (*model.VacuumStatus, error) {
	args := m.Called(ctx)
	st, _ := args.Get(0).(*model.VacuumStatus)
	return st, args.Error(1)
}

type staticRooms []model.Room

func (r staticRooms) Rooms(ctx context.Context) ([]model.Room, error) {
	return r, nil
}
