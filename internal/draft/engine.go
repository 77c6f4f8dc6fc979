package draft

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"math/rand"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/MessiVomNr/PoNuzTracker-sub000/internal/dex"
	"github.com/MessiVomNr/PoNuzTracker-sub000/internal/event"
)

var tracer = otel.Tracer("github.com/MessiVomNr/PoNuzTracker-sub000/internal/draft")

// ResumeBonusSeconds is added to the countdown when the host resumes.
const ResumeBonusSeconds = 5

// Sequencing errors. Like bid rejections they are no-ops: state is unchanged.
var (
	ErrNotHost       = errors.New("only the host may do that")
	ErrNotInLobby    = errors.New("draft already started")
	ErrSeatMismatch  = errors.New("participants does not match the seat count")
	ErrDraftFinished = errors.New("draft already finished")
)

// Seat is one team slot handed to the engine at start. An empty OwnerPlayerID
// means the slot was never claimed and will be run by a bot.
type Seat struct {
	TeamID        string
	Name          string
	OwnerPlayerID string
}

// Bidder proposes bids for a bot-controlled team. Proposals go through the
// same validation as human bids; a Bidder can never bypass it.
type Bidder interface {
	TeamID() string
	Propose(s State) (amount int, ok bool)
}

// Engine is the state machine for one draft session. Every mutation is
// serialized through its mutex: humans and bots alike only ever propose
// events, and the engine alone applies them. Two simultaneous bids resolve by
// lock order; the loser re-validates against the updated highest bid.
type Engine struct {
	mu sync.Mutex

	id           string
	roomID       string
	hostPlayerID string
	seats        []Seat

	state   State
	pool    *LotPool
	timer   TimerController
	alloc   *LotAllocator
	bidders []Bidder

	version int
	pending []event.Event

	logger *slog.Logger
}

// NewEngine creates an engine in the Lobby phase.
func NewEngine(id, roomID, hostPlayerID string, seats []Seat, logger *slog.Logger) *Engine {
	return &Engine{
		id:           id,
		roomID:       roomID,
		hostPlayerID: hostPlayerID,
		seats:        seats,
		state: State{
			DraftID: id,
			RoomID:  roomID,
			Phase:   PhaseLobby,
		},
		logger: logger,
	}
}

// ID returns the draft session id.
func (e *Engine) ID() string { return e.id }

// Start validates the settings, draws the lot pool, funds one team per seat
// and opens bidding on the first lot. Only the host may start, and only from
// the Lobby phase. Settings.Seed must be non-zero by the time it reaches the
// engine so the shuffle is reproducible.
func (e *Engine) Start(ctx context.Context, callerPlayerID string, settings Settings) error {
	ctx, span := tracer.Start(ctx, "Engine.Start",
		trace.WithAttributes(attribute.String("draft.id", e.id)),
	)
	defer span.End()

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state.Phase != PhaseLobby {
		return ErrNotInLobby
	}
	if callerPlayerID != e.hostPlayerID {
		return ErrNotHost
	}
	if err := settings.Validate(); err != nil {
		return err
	}
	if settings.Participants != len(e.seats) {
		return ErrSeatMismatch
	}

	poolSize, _ := dex.PoolSize(settings.Generation)
	rng := rand.New(rand.NewSource(settings.Seed))
	e.pool = NewLotPool(poolSize, rng)
	e.alloc = NewLotAllocator(e.pool)

	teams := make([]Team, len(e.seats))
	for i, seat := range e.seats {
		teams[i] = Team{
			ID:            seat.TeamID,
			Name:          seat.Name,
			OwnerPlayerID: seat.OwnerPlayerID,
			Budget:        settings.BudgetPerTeam,
		}
	}

	first, _ := e.pool.Next()
	lot := NewLot(first)

	e.state = State{
		DraftID:       e.id,
		RoomID:        e.roomID,
		Phase:         PhaseAuction,
		Teams:         teams,
		CurrentLot:    &lot,
		TotalLots:     min(settings.TotalLots, e.pool.Size()),
		SecondsPerBid: settings.SecondsPerBid,
		InitialBudget: settings.BudgetPerTeam,
	}

	startData, _ := json.Marshal(event.DraftStartedData{
		RoomID:        e.roomID,
		HostPlayerID:  e.hostPlayerID,
		Generation:    settings.Generation,
		Participants:  settings.Participants,
		BudgetPerTeam: settings.BudgetPerTeam,
		TotalLots:     settings.TotalLots,
		SecondsPerBid: settings.SecondsPerBid,
		Seed:          settings.Seed,
	})
	e.recordEvent(event.DraftStarted, startData)
	e.recordLotDrawn()

	e.logger.InfoContext(ctx, "draft started",
		slog.String("draft_id", e.id),
		slog.Int("teams", len(teams)),
		slog.Int("total_lots", e.state.TotalLots),
	)
	return nil
}

// AttachBidders registers the bot bidders evaluated on every tick.
func (e *Engine) AttachBidders(bidders ...Bidder) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.bidders = append(e.bidders, bidders...)
}

// SubmitBid applies one proposed bid. The opening accepted bid starts the
// countdown; every accepted bid resets it to the full window. Rejected bids
// change nothing; the returned reason is for the submitting side only and is
// never surfaced to other participants.
func (e *Engine) SubmitBid(ctx context.Context, teamID string, amount int) error {
	ctx, span := tracer.Start(ctx, "Engine.SubmitBid",
		trace.WithAttributes(
			attribute.String("draft.id", e.id),
			attribute.String("team.id", teamID),
			attribute.Int("bid.amount", amount),
		),
	)
	defer span.End()

	e.mu.Lock()
	defer e.mu.Unlock()
	return e.submitBidLocked(ctx, teamID, amount)
}

func (e *Engine) submitBidLocked(ctx context.Context, teamID string, amount int) error {
	if err := ValidateBid(&e.state, teamID, amount); err != nil {
		return err
	}

	e.state.HighestBid = amount
	e.state.HighestBidderTeamID = teamID
	e.state.HasStarted = true
	e.timer.Reset(e.state.SecondsPerBid)
	e.state.TimerRunning = true
	e.state.RemainingSeconds = e.state.SecondsPerBid

	data, _ := json.Marshal(event.BidPlacedData{
		TeamID:    teamID,
		Amount:    amount,
		SpeciesID: e.state.CurrentLot.SpeciesID,
		LotIndex:  e.state.CurrentLotIndex,
	})
	e.recordEvent(event.DraftBidPlaced, data)

	e.logger.InfoContext(ctx, "bid accepted",
		slog.String("draft_id", e.id),
		slog.String("team_id", teamID),
		slog.Int("amount", amount),
		slog.Int("lot_index", e.state.CurrentLotIndex),
	)
	return nil
}

// Tick advances the draft by one second. The countdown is decremented first;
// on expiry the lot settles synchronously and either the next lot opens or
// the draft freezes into Results. Otherwise every bot gets one chance to
// propose a bid against the current snapshot. Returns true if anything
// observable changed.
func (e *Engine) Tick(ctx context.Context) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state.Phase != PhaseAuction {
		return false
	}

	changed := false
	if e.timer.Running() && !e.timer.Paused() {
		remaining, expired := e.timer.Tick()
		e.state.RemainingSeconds = remaining
		e.state.TimerRunning = e.timer.Running()
		changed = true
		if expired {
			e.resolveLocked(ctx)
			return true
		}
	}

	if e.timer.Paused() {
		return changed
	}

	snapshot := e.state.clone()
	for _, b := range e.bidders {
		amount, ok := b.Propose(snapshot)
		if !ok {
			continue
		}
		if err := e.submitBidLocked(ctx, b.TeamID(), amount); err != nil {
			e.logger.DebugContext(ctx, "bot bid rejected",
				slog.String("draft_id", e.id),
				slog.String("team_id", b.TeamID()),
				slog.Int("amount", amount),
				slog.Any("reason", err),
			)
			continue
		}
		changed = true
		snapshot = e.state.clone()
	}
	return changed
}

// resolveLocked runs the settlement. Resolving is instantaneous and
// exclusive: it happens under the same lock that gates SubmitBid, so no bid
// can interleave with it.
func (e *Engine) resolveLocked(ctx context.Context) {
	e.state.Phase = PhaseResolving
	res := e.alloc.Settle(&e.state)
	e.timer.Stop()
	e.state.TimerRunning = false
	e.state.RemainingSeconds = 0

	data, _ := json.Marshal(event.LotSettledData{
		SpeciesID:    res.SpeciesID,
		LotIndex:     res.LotIndex,
		WinnerTeamID: res.WinnerTeamID,
		Price:        res.Price,
	})
	e.recordEvent(event.DraftLotSettled, data)

	if res.WinnerTeamID != "" {
		e.logger.InfoContext(ctx, "lot settled",
			slog.String("draft_id", e.id),
			slog.Int("species_id", res.SpeciesID),
			slog.String("winner_team_id", res.WinnerTeamID),
			slog.Int("price", res.Price),
		)
	} else {
		e.logger.InfoContext(ctx, "lot discarded unclaimed",
			slog.String("draft_id", e.id),
			slog.Int("species_id", res.SpeciesID),
		)
	}

	if res.Completed {
		done, _ := json.Marshal(event.DraftCompletedData{LotsSettled: e.state.LotsSettled})
		e.recordEvent(event.DraftCompleted, done)
		e.logger.InfoContext(ctx, "draft completed",
			slog.String("draft_id", e.id),
			slog.Int("lots_settled", e.state.LotsSettled),
		)
		return
	}
	e.recordLotDrawn()
}

// Pause freezes the countdown. Host only; a no-op unless the countdown is
// running.
func (e *Engine) Pause(ctx context.Context, callerPlayerID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if callerPlayerID != e.hostPlayerID {
		return ErrNotHost
	}
	if !e.timer.Running() || e.timer.Paused() {
		return nil
	}
	e.timer.Pause()
	e.state.TimerPaused = true

	data, _ := json.Marshal(event.PauseData{
		ByPlayerID:       callerPlayerID,
		RemainingSeconds: e.timer.Remaining(),
	})
	e.recordEvent(event.DraftPaused, data)
	e.logger.InfoContext(ctx, "draft paused", slog.String("draft_id", e.id))
	return nil
}

// Resume un-freezes the countdown and grants the bonus window. Host only.
func (e *Engine) Resume(ctx context.Context, callerPlayerID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if callerPlayerID != e.hostPlayerID {
		return ErrNotHost
	}
	if !e.timer.Paused() {
		return nil
	}
	e.timer.Resume(ResumeBonusSeconds)
	e.state.TimerPaused = false
	e.state.RemainingSeconds = e.timer.Remaining()

	data, _ := json.Marshal(event.PauseData{
		ByPlayerID:       callerPlayerID,
		RemainingSeconds: e.timer.Remaining(),
	})
	e.recordEvent(event.DraftResumed, data)
	e.logger.InfoContext(ctx, "draft resumed", slog.String("draft_id", e.id))
	return nil
}

// Snapshot returns a deep copy of the current state for rendering.
func (e *Engine) Snapshot() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.clone()
}

// Phase returns the current lifecycle phase.
func (e *Engine) Phase() Phase {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.Phase
}

// PendingEvents returns uncommitted events and clears the buffer.
func (e *Engine) PendingEvents() []event.Event {
	e.mu.Lock()
	defer e.mu.Unlock()
	events := e.pending
	e.pending = nil
	return events
}

func (e *Engine) recordLotDrawn() {
	data, _ := json.Marshal(event.LotDrawnData{
		SpeciesID: e.state.CurrentLot.SpeciesID,
		LotIndex:  e.state.CurrentLotIndex,
	})
	e.recordEvent(event.DraftLotDrawn, data)
}

func (e *Engine) recordEvent(t event.Type, data json.RawMessage) {
	e.version++
	e.pending = append(e.pending, event.Event{
		AggregateID: e.id,
		Type:        t,
		Data:        data,
		Version:     e.version,
	})
}
