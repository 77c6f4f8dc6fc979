package draft

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/MessiVomNr/PoNuzTracker-sub000/internal/clock"
	"github.com/MessiVomNr/PoNuzTracker-sub000/internal/event"
)

// Manager-level errors.
var (
	ErrNoDraft      = errors.New("no draft for this room")
	ErrDraftRunning = errors.New("room already has a running draft")
	ErrNotYourTeam  = errors.New("player does not own this team")
)

// Broadcaster pushes read-only state snapshots to connected clients. The
// engine emits, a transport component fans out.
type Broadcaster interface {
	BroadcastState(roomID string, s State)
}

// Archiver receives the frozen Results state for durable storage.
type Archiver interface {
	Archive(ctx context.Context, s State) error
}

// BotFactory builds a Bidder for an unclaimed seat. seatIndex keys the bot's
// RNG stream off the draft seed so personalities are reproducible.
type BotFactory func(draftSeed int64, seatIndex int, teamID string, difficulty int) Bidder

// session is one room's slot in the registry. engine is nil while a start for
// the room is still in flight; the slot is reserved so a concurrent start
// fails instead of racing to register twice.
type session struct {
	engine *Engine
	cancel context.CancelFunc
}

// Manager owns the draft sessions: one engine per room, each driven by its
// own 1 Hz tick loop. All engine events it drains are persisted and every
// accepted mutation is broadcast.
type Manager struct {
	mu     sync.RWMutex
	drafts map[string]*session // keyed by room id

	events    event.Store
	archiver  Archiver
	broadcast Broadcaster
	newBot    BotFactory
	relobby   func(roomID string)
	logger    *slog.Logger
	tracer    trace.Tracer
	clock     clock.Clock
}

// NewManager creates a draft Manager. relobby is called once per completed
// draft so the room layer can reopen seat claims; it may be nil.
func NewManager(events event.Store, archiver Archiver, broadcast Broadcaster, newBot BotFactory, relobby func(roomID string), logger *slog.Logger, tp trace.TracerProvider, clk clock.Clock) *Manager {
	return &Manager{
		drafts:    make(map[string]*session),
		events:    events,
		archiver:  archiver,
		broadcast: broadcast,
		newBot:    newBot,
		relobby:   relobby,
		logger:    logger,
		tracer:    tp.Tracer("github.com/MessiVomNr/PoNuzTracker-sub000/internal/draft"),
		clock:     clk,
	}
}

// StartDraft creates and starts a draft session for a room. Seats with no
// owning player get a bot bidder at the configured difficulty.
func (m *Manager) StartDraft(ctx context.Context, roomID, hostPlayerID string, seats []Seat, settings Settings) (State, error) {
	ctx, span := m.tracer.Start(ctx, "Manager.StartDraft",
		trace.WithAttributes(
			attribute.String("room.id", roomID),
			attribute.Int("participants", settings.Participants),
		),
	)
	defer span.End()

	// Reserve the room's slot before releasing the lock: a concurrent start
	// for the same room sees the reservation and fails instead of racing the
	// registration below.
	m.mu.Lock()
	if existing, ok := m.drafts[roomID]; ok {
		if existing.engine == nil || existing.engine.Phase() != PhaseResults {
			m.mu.Unlock()
			return State{}, ErrDraftRunning
		}
		existing.cancel()
	}
	m.drafts[roomID] = &session{cancel: func() {}}
	m.mu.Unlock()

	release := func() {
		m.mu.Lock()
		delete(m.drafts, roomID)
		m.mu.Unlock()
	}

	if settings.Seed == 0 {
		settings.Seed = m.clock.Now().UnixNano()
	}

	id := fmt.Sprintf("draft-%d", m.clock.Now().UnixNano())
	eng := NewEngine(id, roomID, hostPlayerID, seats, m.logger)
	if err := eng.Start(ctx, hostPlayerID, settings); err != nil {
		release()
		return State{}, err
	}

	for i, seat := range seats {
		if seat.OwnerPlayerID != "" {
			continue
		}
		eng.AttachBidders(m.newBot(settings.Seed, i, seat.TeamID, settings.BotDifficulty))
	}

	if err := m.events.Append(ctx, eng.PendingEvents()...); err != nil {
		release()
		return State{}, fmt.Errorf("persisting draft started events: %w", err)
	}

	tickCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	m.mu.Lock()
	m.drafts[roomID] = &session{engine: eng, cancel: cancel}
	m.mu.Unlock()

	go m.run(tickCtx, roomID, eng)

	snap := eng.Snapshot()
	m.broadcast.BroadcastState(roomID, snap)

	m.logger.InfoContext(ctx, "draft session started",
		slog.String("draft_id", id),
		slog.String("room_id", roomID),
	)
	return snap, nil
}

// tickInterval is the fixed cadence the manager drives every engine at.
var tickInterval = time.Second

// run drives the engine until the draft finishes or the session is cancelled.
func (m *Manager) run(ctx context.Context, roomID string, eng *Engine) {
	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			changed := eng.Tick(ctx)
			m.flush(ctx, roomID, eng, changed)
			if eng.Phase() == PhaseResults {
				m.finish(ctx, roomID, eng)
				return
			}
		}
	}
}

// flush persists drained events and broadcasts the snapshot if anything
// changed this tick.
func (m *Manager) flush(ctx context.Context, roomID string, eng *Engine, changed bool) {
	if pending := eng.PendingEvents(); len(pending) > 0 {
		if err := m.events.Append(ctx, pending...); err != nil {
			m.logger.ErrorContext(ctx, "failed to persist draft events",
				slog.String("draft_id", eng.ID()),
				slog.Any("error", err),
			)
		}
	}
	if changed {
		m.broadcast.BroadcastState(roomID, eng.Snapshot())
	}
}

// finish archives the frozen Results and hands the room back to the lobby
// layer so seats can change before a rematch.
func (m *Manager) finish(ctx context.Context, roomID string, eng *Engine) {
	snap := eng.Snapshot()
	if err := m.archiver.Archive(ctx, snap); err != nil {
		m.logger.ErrorContext(ctx, "failed to archive draft results",
			slog.String("draft_id", eng.ID()),
			slog.Any("error", err),
		)
	}
	if m.relobby != nil {
		m.relobby(roomID)
	}
	m.logger.InfoContext(ctx, "draft session finished",
		slog.String("draft_id", eng.ID()),
		slog.String("room_id", roomID),
	)
}

// SubmitBid routes a human bid to the room's engine. Ownership is checked
// here: a player may only bid for the team they claimed.
func (m *Manager) SubmitBid(ctx context.Context, roomID, playerID, teamID string, amount int) error {
	ctx, span := m.tracer.Start(ctx, "Manager.SubmitBid",
		trace.WithAttributes(
			attribute.String("room.id", roomID),
			attribute.String("team.id", teamID),
			attribute.Int("bid.amount", amount),
		),
	)
	defer span.End()

	eng, err := m.engine(roomID)
	if err != nil {
		return err
	}

	snap := eng.Snapshot()
	team := snap.Team(teamID)
	if team == nil {
		return ErrUnknownTeam
	}
	if team.OwnerPlayerID != playerID {
		return ErrNotYourTeam
	}

	if err := eng.SubmitBid(ctx, teamID, amount); err != nil {
		return err
	}
	m.flush(ctx, roomID, eng, true)
	return nil
}

// Pause freezes the room's countdown. Host only.
func (m *Manager) Pause(ctx context.Context, roomID, callerPlayerID string) error {
	eng, err := m.engine(roomID)
	if err != nil {
		return err
	}
	if err := eng.Pause(ctx, callerPlayerID); err != nil {
		return err
	}
	m.flush(ctx, roomID, eng, true)
	return nil
}

// Resume un-freezes the room's countdown with the bonus window. Host only.
func (m *Manager) Resume(ctx context.Context, roomID, callerPlayerID string) error {
	eng, err := m.engine(roomID)
	if err != nil {
		return err
	}
	if err := eng.Resume(ctx, callerPlayerID); err != nil {
		return err
	}
	m.flush(ctx, roomID, eng, true)
	return nil
}

// Snapshot returns the room's current draft state.
func (m *Manager) Snapshot(roomID string) (State, error) {
	eng, err := m.engine(roomID)
	if err != nil {
		return State{}, err
	}
	return eng.Snapshot(), nil
}

// Stop cancels every running session. Used on shutdown.
func (m *Manager) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for roomID, s := range m.drafts {
		s.cancel()
		delete(m.drafts, roomID)
	}
}

func (m *Manager) engine(roomID string) (*Engine, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.drafts[roomID]
	if !ok || s.engine == nil {
		return nil, ErrNoDraft
	}
	return s.engine, nil
}
