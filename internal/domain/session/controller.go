package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"roborock-cleaning-panel/internal/domain/model"
	"roborock-cleaning-panel/internal/domain/rules"
	"roborock-cleaning-panel/internal/ports"
)

var (
	ErrRunInProgress   = errors.New("cleaning run already in progress")
	ErrUnsupportedMode = errors.New("mode not available for the current cleaning mode")
	ErrInvalidRoomID   = errors.New("invalid room id")
)

// Command names, as reported to observers.
const (
	CommandSetSuction   = "set_suction_mode"
	CommandSetMop       = "set_mop_mode"
	CommandSetRoute     = "set_route_mode"
	CommandSegmentClean = "start_segments_cleaning"
	CommandStart        = "start"
)

// Sleeper waits between two device commands.
type Sleeper func(ctx context.Context, d time.Duration) error

type Option func(*Controller)

func WithSettleDelay(d time.Duration) Option {
	return func(c *Controller) { c.settle = d }
}

func WithSleeper(s Sleeper) Option {
	return func(c *Controller) { c.sleep = s }
}

func WithObserver(o ports.RunObserver) Option {
	return func(c *Controller) { c.observers = append(c.observers, o) }
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) { c.log = l }
}

func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

type Controller struct {
	robot     ports.VacuumPort
	settle    time.Duration
	sleep     Sleeper
	observers []ports.RunObserver
	log       *slog.Logger
	now       func() time.Time

	mu      sync.Mutex
	session Session
}

func NewController(robot ports.VacuumPort, opts ...Option) *Controller {
	c := &Controller{
		robot:   robot,
		settle:  model.DefaultSettleDelay,
		sleep:   sleepContext,
		log:     slog.Default(),
		now:     time.Now,
		session: newSession(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Controller) Snapshot() Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session.clone()
}

func (c *Controller) Cycles() model.CycleCount {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session.Cycles
}

// Open starts a configuring session from the robot's current settings.
// Unreadable or unrecognized device state falls back to defaults.
func (c *Controller) Open(ctx context.Context) Session {
	suction, err := c.robot.SuctionMode(ctx)
	if err != nil {
		c.log.Warn("suction mode read failed, using default", "mode", suction, "error", err)
	}
	mop, err := c.robot.MopMode(ctx)
	if err != nil {
		c.log.Warn("mop mode read failed, using default", "mode", mop, "error", err)
	}
	route, err := c.robot.RouteMode(ctx)
	if err != nil {
		c.log.Warn("route mode read failed, using default", "mode", route, "error", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.session.InProgress {
		c.session.State = model.SessionConfiguring
	}
	c.session.SuctionMode = suction
	c.session.MopMode = mop
	c.session.RouteMode = route
	c.session.CleaningMode = model.CleaningModeVacuumAndMop
	c.session.fix()
	return c.session.clone()
}

// Close dismisses the panel. Only the room selection is forgotten.
func (c *Controller) Close() Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closeLocked()
	return c.session.clone()
}

func (c *Controller) closeLocked() {
	c.session.SelectedRooms = nil
	if !c.session.InProgress {
		c.session.State = model.SessionIdle
	}
}

func (c *Controller) SetCleaningMode(mode model.CleaningMode) (Session, error) {
	if !mode.Valid() {
		return Session{}, fmt.Errorf("%w: cleaning mode %q", model.ErrInvalidMode, mode)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.session.CleaningMode = mode
	c.session.fix()
	c.touchLocked()
	return c.session.clone(), nil
}

func (c *Controller) SetSuctionMode(mode model.SuctionMode) (Session, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !rules.IsSelectableSuctionMode(mode, c.session.CleaningMode) {
		return c.session.clone(), fmt.Errorf("%w: suction %q", ErrUnsupportedMode, mode)
	}
	c.session.SuctionMode = mode
	c.touchLocked()
	return c.session.clone(), nil
}

func (c *Controller) SetMopMode(mode model.MopMode) (Session, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !rules.IsSelectableMopMode(mode, c.session.CleaningMode) {
		return c.session.clone(), fmt.Errorf("%w: mop %q", ErrUnsupportedMode, mode)
	}
	c.session.MopMode = mode
	c.touchLocked()
	return c.session.clone(), nil
}

func (c *Controller) SetRouteMode(mode model.RouteMode) (Session, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !rules.IsSelectableRouteMode(mode, c.session.CleaningMode) {
		return c.session.clone(), fmt.Errorf("%w: route %q", ErrUnsupportedMode, mode)
	}
	c.session.RouteMode = mode
	c.touchLocked()
	return c.session.clone(), nil
}

func (c *Controller) SetCycles(n model.CycleCount) (Session, error) {
	if !n.Valid() {
		return Session{}, fmt.Errorf("%w: %d", model.ErrInvalidCycles, n)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.session.Cycles = n
	c.touchLocked()
	return c.session.clone(), nil
}

func (c *Controller) SelectRooms(ids []string) Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.session.SelectedRooms = append([]string(nil), ids...)
	c.touchLocked()
	return c.session.clone()
}

func (c *Controller) touchLocked() {
	if c.session.State == model.SessionIdle {
		c.session.State = model.SessionConfiguring
	}
}

// Run cleans the selected rooms with the session's cycle count.
func (c *Controller) Run(ctx context.Context) error {
	c.mu.Lock()
	rooms := append([]string(nil), c.session.SelectedRooms...)
	cycles := c.session.Cycles
	c.mu.Unlock()
	return c.RunRooms(ctx, rooms, cycles)
}

// RunRooms configures the robot and starts a segment clean of roomIDs,
// then closes the panel. An empty room list is a no-op.
func (c *Controller) RunRooms(ctx context.Context, roomIDs []string, cycles model.CycleCount) error {
	return c.runRooms(ctx, roomIDs, cycles, true)
}

// LaunchRooms is RunRooms for callers outside the panel: the room
// selection and panel state are left as they were.
func (c *Controller) LaunchRooms(ctx context.Context, roomIDs []string, cycles model.CycleCount) error {
	return c.runRooms(ctx, roomIDs, cycles, false)
}

// RunAll configures the robot and starts a whole-area clean.
func (c *Controller) RunAll(ctx context.Context) error {
	return c.runAll(ctx, true)
}

// LaunchAll is RunAll without closing the panel.
func (c *Controller) LaunchAll(ctx context.Context) error {
	return c.runAll(ctx, false)
}

func (c *Controller) runRooms(ctx context.Context, roomIDs []string, cycles model.CycleCount, fromPanel bool) error {
	if len(roomIDs) == 0 {
		return nil
	}
	if !cycles.Valid() {
		return fmt.Errorf("%w: %d", model.ErrInvalidCycles, cycles)
	}
	segments := make([]int, 0, len(roomIDs))
	for _, id := range roomIDs {
		n, err := strconv.Atoi(id)
		if err != nil {
			return fmt.Errorf("%w: %q", ErrInvalidRoomID, id)
		}
		segments = append(segments, n)
	}

	run := model.RunEvent{Kind: model.RunKindSegments, Segments: segments, Cycles: cycles}
	return c.dispatch(ctx, run, fromPanel, CommandSegmentClean, func(ctx context.Context) error {
		return c.robot.StartSegmentsCleaning(ctx, segments, int(cycles))
	})
}

func (c *Controller) runAll(ctx context.Context, fromPanel bool) error {
	c.mu.Lock()
	cycles := c.session.Cycles
	c.mu.Unlock()

	run := model.RunEvent{Kind: model.RunKindAll, Cycles: cycles}
	return c.dispatch(ctx, run, fromPanel, CommandStart, func(ctx context.Context) error {
		return c.robot.CallService(ctx, "start")
	})
}

type step struct {
	command string
	call    func(ctx context.Context) error
}

func (c *Controller) dispatch(ctx context.Context, run model.RunEvent, fromPanel bool, startCommand string, start func(context.Context) error) (err error) {
	c.mu.Lock()
	if c.session.InProgress {
		c.mu.Unlock()
		return ErrRunInProgress
	}
	prevState := c.session.State
	c.session.InProgress = true
	c.session.State = model.SessionDispatching
	c.session.fix()
	run.Suction = c.session.SuctionMode
	run.Mop = c.session.MopMode
	run.Route = c.session.RouteMode
	c.mu.Unlock()

	run.ID = uuid.NewString()
	run.StartedAt = c.now()
	log := c.log.With("run_id", run.ID, "kind", run.Kind)
	log.Info("cleaning run started", "segments", run.Segments, "cycles", int(run.Cycles),
		"suction", run.Suction, "mop", run.Mop, "route", run.Route)
	c.notify(func(o ports.RunObserver) { o.RunStarted(run) })

	defer func() {
		c.mu.Lock()
		c.session.InProgress = false
		switch {
		case !fromPanel:
			c.session.State = prevState
		case err == nil:
			c.closeLocked()
		default:
			c.session.State = model.SessionConfiguring
		}
		c.mu.Unlock()

		run.Duration = c.now().Sub(run.StartedAt)
		if err != nil {
			log.Error("cleaning run failed", "error", err, "duration", run.Duration)
		} else {
			log.Info("cleaning run dispatched", "duration", run.Duration)
		}
		c.notify(func(o ports.RunObserver) { o.RunFinished(run, err) })
	}()

	// A started sequence runs to completion or failure.
	ctx = context.WithoutCancel(ctx)

	steps := []step{
		{CommandSetSuction, func(ctx context.Context) error { return c.robot.SetSuctionMode(ctx, run.Suction) }},
		{CommandSetMop, func(ctx context.Context) error { return c.robot.SetMopMode(ctx, run.Mop) }},
		{CommandSetRoute, func(ctx context.Context) error { return c.robot.SetRouteMode(ctx, run.Route) }},
		{startCommand, start},
	}
	for i, st := range steps {
		if i > 0 {
			if err := c.sleep(ctx, c.settle); err != nil {
				return err
			}
		}
		callErr := st.call(ctx)
		c.notify(func(o ports.RunObserver) { o.CommandDispatched(run, st.command, callErr) })
		if callErr != nil {
			return fmt.Errorf("%s: %w", st.command, callErr)
		}
	}
	return nil
}

func (c *Controller) notify(fn func(ports.RunObserver)) {
	for _, o := range c.observers {
		fn(o)
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
