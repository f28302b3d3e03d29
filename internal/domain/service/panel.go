package service

import (
	"context"
	"sync"

	"roborock-cleaning-panel/internal/domain/model"
	"roborock-cleaning-panel/internal/domain/rules"
	"roborock-cleaning-panel/internal/domain/session"
	"roborock-cleaning-panel/internal/ports"
)

type StatusReader interface {
	Status(ctx context.Context) (*model.VacuumStatus, error)
}

// PanelService is what the UI shell talks to: it parses user input, drives
// the session controller and renders views of the session.
type PanelService struct {
	controller *session.Controller
	rooms      ports.RoomDirectory
	status     StatusReader

	mu    sync.RWMutex
	theme model.Theme
}

func NewPanelService(controller *session.Controller, rooms ports.RoomDirectory, status StatusReader, theme model.Theme) *PanelService {
	return &PanelService{
		controller: controller,
		rooms:      rooms,
		status:     status,
		theme:      theme.WithDefaults(),
	}
}

func (s *PanelService) SetTheme(theme model.Theme) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.theme = theme.WithDefaults()
}

func (s *PanelService) View(ctx context.Context) (*model.PanelView, error) {
	return s.render(ctx, s.controller.Snapshot())
}

func (s *PanelService) Status(ctx context.Context) (*model.VacuumStatus, error) {
	return s.status.Status(ctx)
}

func (s *PanelService) Open(ctx context.Context) (*model.PanelView, error) {
	return s.render(ctx, s.controller.Open(ctx))
}

func (s *PanelService) Close(ctx context.Context) (*model.PanelView, error) {
	return s.render(ctx, s.controller.Close())
}

func (s *PanelService) SetCleaningMode(ctx context.Context, value string) (*model.PanelView, error) {
	mode, err := model.ParseCleaningMode(value)
	if err != nil {
		return nil, err
	}
	sess, err := s.controller.SetCleaningMode(mode)
	if err != nil {
		return nil, err
	}
	return s.render(ctx, sess)
}

func (s *PanelService) SetSuctionMode(ctx context.Context, value string) (*model.PanelView, error) {
	mode, err := model.ParseSuctionMode(value)
	if err != nil {
		return nil, err
	}
	sess, err := s.controller.SetSuctionMode(mode)
	if err != nil {
		return nil, err
	}
	return s.render(ctx, sess)
}

func (s *PanelService) SetMopMode(ctx context.Context, value string) (*model.PanelView, error) {
	mode, err := model.ParseMopMode(value)
	if err != nil {
		return nil, err
	}
	sess, err := s.controller.SetMopMode(mode)
	if err != nil {
		return nil, err
	}
	return s.render(ctx, sess)
}

func (s *PanelService) SetRouteMode(ctx context.Context, value string) (*model.PanelView, error) {
	mode, err := model.ParseRouteMode(value)
	if err != nil {
		return nil, err
	}
	sess, err := s.controller.SetRouteMode(mode)
	if err != nil {
		return nil, err
	}
	return s.render(ctx, sess)
}

func (s *PanelService) SetCycles(ctx context.Context, value string) (*model.PanelView, error) {
	n, err := model.ParseCycleCount(value)
	if err != nil {
		return nil, err
	}
	sess, err := s.controller.SetCycles(n)
	if err != nil {
		return nil, err
	}
	return s.render(ctx, sess)
}

func (s *PanelService) SelectRooms(ctx context.Context, roomIDs []string) (*model.PanelView, error) {
	return s.render(ctx, s.controller.SelectRooms(roomIDs))
}

func (s *PanelService) Run(ctx context.Context) error {
	return s.controller.Run(ctx)
}

func (s *PanelService) RunAll(ctx context.Context) error {
	return s.controller.RunAll(ctx)
}

func (s *PanelService) render(ctx context.Context, sess session.Session) (*model.PanelView, error) {
	rooms, err := s.rooms.Rooms(ctx)
	if err != nil {
		return nil, err
	}
	s.mu.RLock()
	theme := s.theme
	s.mu.RUnlock()

	selected := sess.SelectedRooms
	if selected == nil {
		selected = []string{}
	}
	return &model.PanelView{
		State:         sess.State,
		CleaningMode:  sess.CleaningMode,
		SuctionMode:   sess.SuctionMode,
		MopMode:       sess.MopMode,
		RouteMode:     sess.RouteMode,
		Cycles:        sess.Cycles,
		SelectedRooms: selected,
		InProgress:    sess.InProgress,
		CanRun:        len(sess.SelectedRooms) > 0 && !sess.InProgress,
		Options:       options(sess),
		Rooms:         rooms,
		Theme:         theme,
	}, nil
}

func options(sess session.Session) model.PanelOptions {
	cm := sess.CleaningMode
	var opts model.PanelOptions
	for _, m := range model.CleaningModes() {
		opts.Cleaning = append(opts.Cleaning, model.Option{Value: string(m), Active: m == cm})
	}
	if cm != model.CleaningModeMopOnly {
		for _, m := range model.SuctionModes() {
			opts.Suction = append(opts.Suction, model.Option{
				Value: string(m), Active: m == sess.SuctionMode, Disabled: !rules.IsSelectableSuctionMode(m, cm),
			})
		}
	}
	if cm != model.CleaningModeVacuumOnly {
		for _, m := range model.MopModes() {
			opts.Mop = append(opts.Mop, model.Option{
				Value: string(m), Active: m == sess.MopMode, Disabled: !rules.IsSelectableMopMode(m, cm),
			})
		}
	}
	for _, m := range model.RouteModes() {
		opts.Route = append(opts.Route, model.Option{
			Value: string(m), Active: m == sess.RouteMode, Disabled: !rules.IsSelectableRouteMode(m, cm),
		})
	}
	for _, n := range model.CycleCounts() {
		opts.Cycles = append(opts.Cycles, model.Option{Value: n.String(), Active: n == sess.Cycles})
	}
	return opts
}
