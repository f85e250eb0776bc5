package listing

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"roomm8/models"
)

// ErrRoomNotFound is returned when a room is neither cached nor known to the source.
var ErrRoomNotFound = errors.New("listing: room not found")

// Source fetches listings from the backend.
type Source interface {
	ApprovedProperties(ctx context.Context) ([]models.RoomListing, error)
	Property(ctx context.Context, id int64) (*models.RoomListing, error)
}

// Catalog caches the approved listings for a short time. Concurrent misses
// share a single backend fetch.
type Catalog struct {
	source Source
	ttl    time.Duration
	logger *zap.Logger
	Now    func() time.Time

	group singleflight.Group

	mu        sync.RWMutex
	rooms      []models.RoomListing
	fetchedAt  time.Time
	generation uint64
}

func NewCatalog(source Source, ttl time.Duration, logger *zap.Logger) *Catalog {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Catalog{source: source, ttl: ttl, logger: logger, Now: time.Now}
}

// List returns the approved listings, refreshing the cache when stale.
func (c *Catalog) List(ctx context.Context) ([]models.RoomListing, error) {
	if rooms, ok := c.cached(); ok {
		return rooms, nil
	}

	v, err, shared := c.group.Do("approved", func() (interface{}, error) {
		rooms, err := c.source.ApprovedProperties(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.rooms = rooms
		c.fetchedAt = c.Now()
		c.generation++
		c.mu.Unlock()
		return rooms, nil
	})
	if err != nil {
		c.logger.Error("Failed to refresh catalog", zap.Error(err))
		return nil, err
	}
	if shared {
		c.logger.Debug("Catalog refresh shared between callers")
	}
	return copyRooms(v.([]models.RoomListing)), nil
}

// Get looks a room up in the cache before asking the source.
func (c *Catalog) Get(ctx context.Context, id int64) (*models.RoomListing, error) {
	c.mu.RLock()
	for _, r := range c.rooms {
		if r.ID == id {
			room := r
			c.mu.RUnlock()
			return &room, nil
		}
	}
	c.mu.RUnlock()

	room, err := c.source.Property(ctx, id)
	if err != nil {
		return nil, err
	}
	if room == nil {
		return nil, ErrRoomNotFound
	}
	return room, nil
}

// Remove drops a listing from the cache before del runs and puts it back at
// its old position if del fails. A refresh that lands while del runs wins over
// the rollback.
func (c *Catalog) Remove(ctx context.Context, id int64, del func(context.Context) error) error {
	c.mu.Lock()
	generation := c.generation
	index := -1
	var removed models.RoomListing
	for i, r := range c.rooms {
		if r.ID == id {
			index, removed = i, r
			c.rooms = append(c.rooms[:i:i], c.rooms[i+1:]...)
			break
		}
	}
	c.mu.Unlock()

	if err := del(ctx); err != nil {
		if index >= 0 {
			c.mu.Lock()
			restored := c.generation == generation && !containsRoom(c.rooms, id)
			if restored {
				c.rooms = insertAt(c.rooms, index, removed)
			}
			c.mu.Unlock()
			c.logger.Warn("Rolled back optimistic listing removal",
				zap.Int64("roomId", id), zap.Bool("restored", restored), zap.Error(err))
		}
		return err
	}
	return nil
}

// Invalidate forces the next List to refetch.
func (c *Catalog) Invalidate() {
	c.mu.Lock()
	c.fetchedAt = time.Time{}
	c.mu.Unlock()
}

func (c *Catalog) cached() ([]models.RoomListing, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.fetchedAt.IsZero() || c.Now().Sub(c.fetchedAt) > c.ttl {
		return nil, false
	}
	return copyRooms(c.rooms), true
}

func containsRoom(rooms []models.RoomListing, id int64) bool {
	for _, r := range rooms {
		if r.ID == id {
			return true
		}
	}
	return false
}

func insertAt(rooms []models.RoomListing, i int, r models.RoomListing) []models.RoomListing {
	if i > len(rooms) {
		i = len(rooms)
	}
	rooms = append(rooms, models.RoomListing{})
	copy(rooms[i+1:], rooms[i:])
	rooms[i] = r
	return rooms
}

func copyRooms(rooms []models.RoomListing) []models.RoomListing {
	out := make([]models.RoomListing, len(rooms))
	copy(out, rooms)
	return out
}
