package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"roborock-cleaning-panel/internal/domain/model"
	"roborock-cleaning-panel/internal/domain/session"
)

func noSleep(ctx context.Context, d time.Duration) error { return nil }

func newPanel(vac *MockVacuum) *PanelService {
	ctrl := session.NewController(vac, session.WithSleeper(noSleep))
	rooms := staticRooms{{ID: "3", Name: "Kitchen", Icon: "mdi:stove", AreaID: "kitchen"}}
	return NewPanelService(ctrl, rooms, vac, model.Theme{IconColor: "#000"})
}

func optionByValue(opts []model.Option, value string) model.Option {
	for _, o := range opts {
		if o.Value == value {
			return o
		}
	}
	return model.Option{}
}

func TestPanelService_OpenAndView(t *testing.T) {
	vac := new(MockVacuum)
	vac.On("SuctionMode", mock.Anything).Return(model.SuctionModeMax, nil)
	vac.On("MopMode", mock.Anything).Return(model.MopModeLow, nil)
	vac.On("RouteMode", mock.Anything).Return(model.RouteModeFast, nil)
	p := newPanel(vac)

	view, err := p.Open(context.Background())
	require.NoError(t, err)
	assert.Equal(t, model.SessionConfiguring, view.State)
	assert.Equal(t, model.CleaningModeVacuumAndMop, view.CleaningMode)
	assert.Equal(t, model.SuctionModeMax, view.SuctionMode)
	assert.Equal(t, model.MopModeLow, view.MopMode)
	assert.Equal(t, model.RouteModeFast, view.RouteMode)
	assert.False(t, view.CanRun)
	assert.Equal(t, []string{}, view.SelectedRooms)
	assert.Len(t, view.Rooms, 1)

	assert.Equal(t, "#000", view.Theme.IconColor)
	assert.Equal(t, "#89B3F8", view.Theme.PrimaryColor)

	assert.True(t, optionByValue(view.Options.Suction, "off").Disabled)
	assert.True(t, optionByValue(view.Options.Suction, "max_plus").Disabled)
	assert.True(t, optionByValue(view.Options.Suction, "max").Active)
	assert.True(t, optionByValue(view.Options.Mop, "off").Disabled)
	assert.True(t, optionByValue(view.Options.Route, "deep").Disabled)
	assert.True(t, optionByValue(view.Options.Cycles, "1").Active)
}

func TestPanelService_HidesFamiliesPerCleaningMode(t *testing.T) {
	p := newPanel(new(MockVacuum))
	ctx := context.Background()

	view, err := p.SetCleaningMode(ctx, "mop")
	require.NoError(t, err)
	assert.Empty(t, view.Options.Suction)
	assert.Len(t, view.Options.Mop, 4)
	assert.False(t, optionByValue(view.Options.Route, "deep_plus").Disabled)
	assert.True(t, optionByValue(view.Options.Route, "deep").Active)

	view, err = p.SetCleaningMode(ctx, "vac")
	require.NoError(t, err)
	assert.Empty(t, view.Options.Mop)
	assert.False(t, optionByValue(view.Options.Suction, "max_plus").Disabled)
}

func TestPanelService_InputValidation(t *testing.T) {
	p := newPanel(new(MockVacuum))
	ctx := context.Background()

	_, err := p.SetCleaningMode(ctx, "sweep")
	assert.ErrorIs(t, err, model.ErrInvalidMode)
	_, err = p.SetSuctionMode(ctx, "loud")
	assert.ErrorIs(t, err, model.ErrInvalidMode)
	_, err = p.SetSuctionMode(ctx, "max_plus")
	assert.ErrorIs(t, err, session.ErrUnsupportedMode)
	_, err = p.SetCycles(ctx, "3")
	assert.ErrorIs(t, err, model.ErrInvalidCycles)

	view, err := p.SetCycles(ctx, "2")
	require.NoError(t, err)
	assert.Equal(t, model.CycleCount(2), view.Cycles)

	view, err = p.SetMopMode(ctx, "Medium")
	require.NoError(t, err)
	assert.Equal(t, model.MopModeMedium, view.MopMode)

	view, err = p.SetRouteMode(ctx, "fast")
	require.NoError(t, err)
	assert.Equal(t, model.RouteModeFast, view.RouteMode)
}

func TestPanelService_Run(t *testing.T) {
	vac := new(MockVacuum)
	vac.On("SetSuctionMode", mock.Anything, model.SuctionModeTurbo).Return(nil)
	vac.On("SetMopMode", mock.Anything, model.MopModeHigh).Return(nil)
	vac.On("SetRouteMode", mock.Anything, model.RouteModeStandard).Return(nil)
	vac.On("StartSegmentsCleaning", mock.Anything, []int{3}, 2).Return(nil)
	p := newPanel(vac)
	ctx := context.Background()

	_, err := p.SetCycles(ctx, "2")
	require.NoError(t, err)
	view, err := p.SelectRooms(ctx, []string{"3"})
	require.NoError(t, err)
	assert.True(t, view.CanRun)

	require.NoError(t, p.Run(ctx))
	vac.AssertExpectations(t)

	view, err = p.View(ctx)
	require.NoError(t, err)
	assert.Empty(t, view.SelectedRooms)
	assert.Equal(t, model.SessionIdle, view.State)
}

func TestPanelService_RunAll(t *testing.T) {
	vac := new(MockVacuum)
	vac.On("SetSuctionMode", mock.Anything, mock.Anything).Return(nil)
	vac.On("SetMopMode", mock.Anything, mock.Anything).Return(nil)
	vac.On("SetRouteMode", mock.Anything, mock.Anything).Return(nil)
	vac.On("CallService", mock.Anything, "start").Return(nil)
	p := newPanel(vac)

	require.NoError(t, p.RunAll(context.Background()))
	vac.AssertExpectations(t)
	vac.AssertNotCalled(t, "StartSegmentsCleaning", mock.Anything, mock.Anything, mock.Anything)
}

func TestPanelService_Status(t *testing.T) {
	vac := new(MockVacuum)
	vac.On("Status", mock.Anything).Return(&model.VacuumStatus{State: "docked", BatteryLevel: 100}, nil)
	p := newPanel(vac)

	st, err := p.Status(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "docked", st.State)
}
