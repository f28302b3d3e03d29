package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/amimof/huego"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"roborock-cleaning-panel/internal/domain/model"
	"roborock-cleaning-panel/internal/domain/robot"
	"roborock-cleaning-panel/internal/domain/service"
	"roborock-cleaning-panel/internal/domain/session"
	"roborock-cleaning-panel/internal/ports"
)

type MockPanel struct {
	mock.Mock
}

func (m *MockPanel) view(args mock.Arguments) (*model.PanelView, error) {
	v, _ := args.Get(0).(*model.PanelView)
	return v, args.Error(1)
}

func (m *MockPanel) View(ctx context.Context) (*model.PanelView, error) {
	return m.view(m.Called(ctx))
}

func (m *MockPanel) Status(ctx context.Context) (*model.VacuumStatus, error) {
	args := m.Called(ctx)
	st, _ := args.Get(0).(*model.VacuumStatus)
	return st, args.Error(1)
}

func (m *MockPanel) Open(ctx context.Context) (*model.PanelView, error) {
	return m.view(m.Called(ctx))
}

func (m *MockPanel) Close(ctx context.Context) (*model.PanelView, error) {
	return m.view(m.Called(ctx))
}

func (m *MockPanel) SetCleaningMode(ctx context.Context, value string) (*model.PanelView, error) {
	return m.view(m.Called(ctx, value))
}

func (m *MockPanel) SetSuctionMode(ctx context.Context, value string) (*model.PanelView, error) {
	return m.view(m.Called(ctx, value))
}

func (m *MockPanel) SetMopMode(ctx context.Context, value string) (*model.PanelView, error) {
	return m.view(m.Called(ctx, value))
}

func (m *MockPanel) SetRouteMode(ctx context.Context, value string) (*model.PanelView, error) {
	return m.view(m.Called(ctx, value))
}

func (m *MockPanel) SetCycles(ctx context.Context, value string) (*model.PanelView, error) {
	return m.view(m.Called(ctx, value))
}

func (m *MockPanel) SelectRooms(ctx context.Context, roomIDs []string) (*model.PanelView, error) {
	return m.view(m.Called(ctx, roomIDs))
}

func (m *MockPanel) Run(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockPanel) RunAll(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type MockAdmin struct {
	mock.Mock
}

func (m *MockAdmin) GetConfig(ctx context.Context) (*model.Config, error) {
	args := m.Called(ctx)
	cfg, _ := args.Get(0).(*model.Config)
	return cfg, args.Error(1)
}

func (m *MockAdmin) UpdateConfig(ctx context.Context, cfg *model.Config) error {
	return m.Called(ctx, cfg).Error(0)
}

func (m *MockAdmin) GetAllEntities(ctx context.Context) ([]ports.HomeAssistantEntity, error) {
	args := m.Called(ctx)
	e, _ := args.Get(0).([]ports.HomeAssistantEntity)
	return e, args.Error(1)
}

type MockBridge struct {
	mock.Mock
}

func (m *MockBridge) GetDevices(ctx context.Context) ([]*model.Device, error) {
	args := m.Called(ctx)
	d, _ := args.Get(0).([]*model.Device)
	return d, args.Error(1)
}

func (m *MockBridge) GetDevice(ctx context.Context, id string) (*model.Device, error) {
	args := m.Called(ctx, id)
	d, _ := args.Get(0).(*model.Device)
	return d, args.Error(1)
}

func (m *MockBridge) UpdateDeviceState(ctx context.Context, id string, state map[string]interface{}) error {
	return m.Called(ctx, id, state).Error(0)
}

type fixture struct {
	panel  *MockPanel
	admin  *MockAdmin
	bridge *MockBridge
	router http.Handler
}

func newFixture() *fixture {
	f := &fixture{panel: new(MockPanel), admin: new(MockAdmin), bridge: new(MockBridge)}
	metrics := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "roborock_panel_runs_started_total 0")
	})
	f.router = NewServer(f.panel, f.admin, f.bridge, metrics, "192.168.1.10", 0, nil).Router()
	return f
}

func (f *fixture) do(method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func TestPanelRoutes_View(t *testing.T) {
	f := newFixture()
	f.panel.On("Open", mock.Anything).Return(&model.PanelView{State: model.SessionConfiguring, Cycles: 1}, nil)
	f.panel.On("View", mock.Anything).Return(&model.PanelView{State: model.SessionIdle}, nil)

	rec := f.do(http.MethodPost, "/panel/open", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"state":"configuring"`)

	rec = f.do(http.MethodGet, "/panel", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"state":"idle"`)
}

func TestPanelRoutes_SetValue(t *testing.T) {
	f := newFixture()
	f.panel.On("SetCycles", mock.Anything, "2").Return(&model.PanelView{Cycles: 2}, nil)
	f.panel.On("SetSuctionMode", mock.Anything, "max").Return(&model.PanelView{SuctionMode: model.SuctionModeMax}, nil)
	f.panel.On("SetRouteMode", mock.Anything, "deep").Return(nil, fmt.Errorf("%w: deep", session.ErrUnsupportedMode))

	assert.Equal(t, http.StatusOK, f.do(http.MethodPut, "/panel/cycles", `{"value": 2}`).Code)
	assert.Equal(t, http.StatusOK, f.do(http.MethodPut, "/panel/suction-mode", `{"value": "max"}`).Code)
	assert.Equal(t, http.StatusBadRequest, f.do(http.MethodPut, "/panel/route-mode", `{"value": "deep"}`).Code)
	assert.Equal(t, http.StatusBadRequest, f.do(http.MethodPut, "/panel/mop-mode", `{}`).Code)
	assert.Equal(t, http.StatusBadRequest, f.do(http.MethodPut, "/panel/mop-mode", `not json`).Code)
	f.panel.AssertExpectations(t)
}

func TestPanelRoutes_SelectRooms(t *testing.T) {
	f := newFixture()
	f.panel.On("SelectRooms", mock.Anything, []string{"16", "17"}).
		Return(&model.PanelView{SelectedRooms: []string{"16", "17"}, CanRun: true}, nil)

	rec := f.do(http.MethodPut, "/panel/rooms", `{"rooms": ["16", "17"]}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"can_run":true`)
}

func TestPanelRoutes_RunErrors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"in progress", session.ErrRunInProgress, http.StatusConflict},
		{"not initialized", fmt.Errorf("set_suction_mode: %w", robot.ErrNotInitialized), http.StatusServiceUnavailable},
		{"bad room", fmt.Errorf("%w: \"x\"", session.ErrInvalidRoomID), http.StatusBadRequest},
		{"platform failure", errors.New("set_mop_mode: HA API error: 500"), http.StatusBadGateway},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			f.panel.On("Run", mock.Anything).Return(tt.err)
			rec := f.do(http.MethodPost, "/panel/run", "")
			assert.Equal(t, tt.status, rec.Code)
			assert.Contains(t, rec.Body.String(), `"error"`)
		})
	}
}

func TestPanelRoutes_RunAllReturnsView(t *testing.T) {
	f := newFixture()
	f.panel.On("RunAll", mock.Anything).Return(nil)
	f.panel.On("View", mock.Anything).Return(&model.PanelView{State: model.SessionIdle}, nil)

	rec := f.do(http.MethodPost, "/panel/run-all", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	f.panel.AssertExpectations(t)
}

func TestAdminRoutes(t *testing.T) {
	f := newFixture()
	f.admin.On("GetConfig", mock.Anything).Return(&model.Config{HassURL: "http://ha:8123"}, nil)
	f.admin.On("UpdateConfig", mock.Anything, mock.MatchedBy(func(c *model.Config) bool {
		return c.Robot.EntityID == "vacuum.s8"
	})).Return(nil)
	f.admin.On("UpdateConfig", mock.Anything, mock.Anything).Return(fmt.Errorf("%w: missing vacuum entity", service.ErrInvalidConfig))
	f.admin.On("GetAllEntities", mock.Anything).Return([]ports.HomeAssistantEntity{{EntityID: "vacuum.s8", FriendlyName: "S8"}}, nil)

	rec := f.do(http.MethodGet, "/admin/config", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "http://ha:8123")

	assert.Equal(t, http.StatusOK, f.do(http.MethodPost, "/admin/config", `{"robot": {"entity": "vacuum.s8"}}`).Code)
	assert.Equal(t, http.StatusBadRequest, f.do(http.MethodPost, "/admin/config", `{"robot": {}}`).Code)

	rec = f.do(http.MethodGet, "/admin/ha-entities", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "vacuum.s8")
}

func TestHueRoutes(t *testing.T) {
	f := newFixture()
	kitchen := &model.Device{ID: "2", Name: "Kitchen", Type: model.DeviceTypeRoom,
		State: &huego.State{On: false, Bri: 254, Reachable: true}}
	f.bridge.On("GetDevices", mock.Anything).Return([]*model.Device{kitchen}, nil)
	f.bridge.On("GetDevice", mock.Anything, "2").Return(kitchen, nil)
	f.bridge.On("GetDevice", mock.Anything, "9").Return(nil, errors.New("device 9 not found"))
	f.bridge.On("UpdateDeviceState", mock.Anything, "2", map[string]interface{}{"on": true}).Return(nil)

	rec := f.do(http.MethodGet, "/description.xml", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<URLBase>http://192.168.1.10:80/</URLBase>")

	rec = f.do(http.MethodPost, "/api", `{"devicetype":"echo"}`)
	assert.Contains(t, rec.Body.String(), `"username":"admin"`)

	rec = f.do(http.MethodGet, "/api/admin", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"Kitchen"`)
	assert.Contains(t, rec.Body.String(), `"bridgeid"`)

	rec = f.do(http.MethodGet, "/api/admin/lights", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"2"`)

	assert.Equal(t, http.StatusOK, f.do(http.MethodGet, "/api/admin/lights/2", "").Code)
	assert.Equal(t, http.StatusNotFound, f.do(http.MethodGet, "/api/admin/lights/9", "").Code)

	rec = f.do(http.MethodPut, "/api/admin/lights/2/state", `{"on": true}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"/lights/2/state/on":true`)
}

func TestMetricsRoute(t *testing.T) {
	f := newFixture()
	rec := f.do(http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "roborock_panel_runs_started_total")
}

func TestDecodeValue(t *testing.T) {
	v, err := decodeValue([]byte(`"vac"`))
	require.NoError(t, err)
	assert.Equal(t, "vac", v)

	v, err = decodeValue([]byte(`1`))
	require.NoError(t, err)
	assert.Equal(t, "1", v)

	_, err = decodeValue([]byte(`true`))
	assert.Error(t, err)
}

func TestDescriptionUsesListenPort(t *testing.T) {
	router := NewServer(new(MockPanel), new(MockAdmin), new(MockBridge), nil, "10.0.0.5", 8080, nil).Router()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/description.xml", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<URLBase>http://10.0.0.5:8080/</URLBase>")
	assert.Contains(t, rec.Body.String(), "<friendlyName>Philips hue (10.0.0.5)</friendlyName>")
}
