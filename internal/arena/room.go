package arena

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"scrap-rally/internal/game"
)

const archiveWriteTimeout = 5 * time.Second

// Room wraps one engine behind a mutex gate. Every external operation runs
// lock -> engine call -> drain -> unlock -> publish, so observers never see
// an event before the state it describes, and never while the gate is held.
type Room struct {
	id     string
	log    zerolog.Logger
	sink   ResultSink
	buffer *EventBuffer

	mu         sync.Mutex
	engine     *game.Engine
	lastActive time.Time

	cancel   context.CancelFunc
	pumpDone chan struct{}
	disposed chan struct{}
	closeOne sync.Once
}

func newRoom(engine *game.Engine, bufferMax int, sink ResultSink, log zerolog.Logger) *Room {
	return &Room{
		id:         engine.ID(),
		log:        log.With().Str("room_id", engine.ID()).Logger(),
		sink:       sink,
		buffer:     NewEventBuffer(bufferMax),
		engine:     engine,
		lastActive: time.Now(),
		pumpDone:   make(chan struct{}),
		disposed:   make(chan struct{}),
	}
}

func (r *Room) ID() string           { return r.id }
func (r *Room) Buffer() *EventBuffer { return r.buffer }

// Do serializes one operation through the gate and publishes whatever the
// engine buffered. The operation's error never suppresses publication:
// failed calls can still have emitted nothing, and partial emission does
// not happen by construction.
func (r *Room) Do(op func(e *game.Engine) error) error {
	r.mu.Lock()
	err := op(r.engine)
	events := r.engine.Drain()
	r.lastActive = time.Now()
	r.mu.Unlock()
	r.publish(events)
	return err
}

// SnapshotFor builds a read-consistent projection under the gate.
func (r *Room) SnapshotFor(participantID string) game.Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.engine.SnapshotFor(participantID)
}

func (r *Room) Snapshot() game.Snapshot {
	return r.SnapshotFor("")
}

func (r *Room) LastActive() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastActive
}

func (r *Room) publish(events []game.Event) {
	for _, ev := range events {
		r.buffer.Append(string(ev.Type), r.id, ev)
		if ev.Type == game.EventMatchEnded && r.sink != nil {
			go r.archiveResult(ev)
		}
	}
}

func (r *Room) archiveResult(ev game.Event) {
	standings, _ := ev.Data["standings"].([]game.Standing)
	reason, _ := ev.Data["reason"].(string)
	snap := r.Snapshot()

	ctx, cancel := context.WithTimeout(context.Background(), archiveWriteTimeout)
	defer cancel()
	err := r.sink.RecordRace(ctx, RaceResult{
		RoomID:    r.id,
		RoomName:  snap.Name,
		Track:     snap.Track,
		Reason:    reason,
		EndedAt:   ev.At,
		Standings: standings,
	})
	if err != nil {
		metricArchiveWriteErrors.Add(1)
		r.log.Error().Err(err).Msg("archive race result failed")
	}
}

// startPump runs the timeout sweep on a fixed tick until the context is
// cancelled. The sweep shares the room's gate; detected overruns surface
// as events on the same publish path as player actions. Ticks never touch
// lastActive, so an idle room still ages toward eviction.
func (r *Room) startPump(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Second
	}
	go func() {
		defer close(r.pumpDone)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				metricPumpTicksTotal.Add(1)
				r.mu.Lock()
				r.engine.TimeoutSweep()
				events := r.engine.Drain()
				r.mu.Unlock()
				r.publish(events)
			}
		}
	}()
}

// dispose stops the pump, waits for its final tick to drain, then closes
// the buffer so every subscriber sees end-of-stream. Safe to call twice.
func (r *Room) dispose() {
	r.closeOne.Do(func() {
		if r.cancel != nil {
			r.cancel()
			<-r.pumpDone
		}
		r.buffer.Close()
		close(r.disposed)
	})
}
