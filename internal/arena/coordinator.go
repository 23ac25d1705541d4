package arena

import (
	"context"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"scrap-rally/internal/game"
)

const (
	defaultRoomTTL        = 30 * time.Minute
	defaultPumpInterval   = time.Second
	defaultEventBufferMax = 500
)

type Options struct {
	RoomTTL        time.Duration
	PumpInterval   time.Duration
	EventBufferMax int
	Tunables       game.Tunables
	Shuffle        game.Shuffler
	Sink           ResultSink
	Log            zerolog.Logger
}

/// Coordinator owns the room registry: creation, lookup, TTL-based eviction
// and the per-room pump lifecycle. The registry map has its own mutex,
// separate from every room's gate, and no path holds both at once while
// calling into an engine.
type Coordinator struct {
	opts Options

	mu    sync.Mutex
	rooms map[string]*Room
}

func NewCoordinator(opts Options) *Coordinator {
	if opts.RoomTTL <= 0 {
		opts.RoomTTL = defaultRoomTTL
	}
	if opts.PumpInterval <= 0 {
		opts.PumpInterval = defaultPumpInterval
	}
	if opts.EventBufferMax <= 0 {
		opts.EventBufferMax = defaultEventBufferMax
	}
	if opts.Shuffle == nil {
		opts.Shuffle = rand.Shuffle
	}
	return &Coordinator{
		opts:  opts,
		rooms: map[string]*Room{},
	}
}

// CreateRoom validates the settings, builds an engine with the host already
// seated, registers the room and starts its pump. The host's join event is
// published like any other.
func (c *Coordinator) CreateRoom(settings game.Settings, hostID, hostName string) (*Room, error) {
	if settings.Track == "" {
		settings.Track = game.DefaultTrack().Name
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	track, ok := game.TrackByName(settings.Track)
	if !ok {
		return nil, game.ErrInvalidSettings
	}

	roomID := game.NewID()
	engine := game.NewEngine(roomID, settings, track, c.opts.Tunables, c.opts.Shuffle, c.opts.Log)
	room := newRoom(engine, c.opts.EventBufferMax, c.opts.Sink, c.opts.Log)

	ctx, cancel := context.WithCancel(context.Background())
	room.cancel = cancel
	room.startPump(ctx, c.opts.PumpInterval)

	c.mu.Lock()
	c.rooms[roomID] = room
	c.mu.Unlock()
	metricRoomCreateTotal.Add(1)
	metricRoomsActive.Add(1)

	if err := room.Do(func(e *game.Engine) error {
		return e.Join(hostID, hostName)
	}); err != nil {
		c.Evict(roomID)
		return nil, err
	}
	c.opts.Log.Info().Str("room_id", roomID).Str("host", hostID).Str("track", settings.Track).Msg("room created")
	return room, nil
}

func (c *Coordinator) Room(id string) (*Room, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	room, ok := c.rooms[id]
	return room, ok
}

// List returns spectator snapshots of every non-private room, ordered by
// room id. ULID ids make that creation order.
func (c *Coordinator) List() []game.Snapshot {
	c.mu.Lock()
	rooms := make([]*Room, 0, len(c.rooms))
	for _, room := range c.rooms {
		rooms = append(rooms, room)
	}
	c.mu.Unlock()

	sort.Slice(rooms, func(i, j int) bool { return rooms[i].id < rooms[j].id })
	out := make([]game.Snapshot, 0, len(rooms))
	for _, room := range rooms {
		snap := room.Snapshot()
		if snap.Settings.Private {
			continue
		}
		out = append(out, snap)
	}
	return out
}

// Evict removes the room from the registry immediately; counter updates
// are synchronous with removal, pump teardown happens off the caller's
// goroutine because dispose waits on the pump.
func (c *Coordinator) Evict(id string) bool {
	c.mu.Lock()
	room, ok := c.rooms[id]
	if ok {
		delete(c.rooms, id)
	}
	c.mu.Unlock()
	if !ok {
		return false
	}
	metricRoomEvictedTotal.Add(1)
	metricRoomsActive.Add(-1)
	go room.dispose()
	return true
}

// StartJanitor sweeps for idle rooms until the context is cancelled.
func (c *Coordinator) StartJanitor(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				c.expireRooms(now)
			}
		}
	}()
}

func (c *Coordinator) expireRooms(now time.Time) {
	c.mu.Lock()
	var expired []string
	for id, room := range c.rooms {
		if now.Sub(room.LastActive()) >= c.opts.RoomTTL {
			expired = append(expired, id)
		}
	}
	c.mu.Unlock()

	for _, id := range expired {
		if c.Evict(id) {
			c.opts.Log.Info().Str("room_id", id).Msg("room expired")
		}
	}
}

// Shutdown evicts everything and waits for every pump to stop.
func (c *Coordinator) Shutdown() {
	c.mu.Lock()
	rooms := make([]*Room, 0, len(c.rooms))
	for id, room := range c.rooms {
		rooms = append(rooms, room)
		delete(c.rooms, id)
	}
	c.mu.Unlock()
	for _, room := range rooms {
		metricRoomEvictedTotal.Add(1)
		metricRoomsActive.Add(-1)
		room.dispose()
	}
}
