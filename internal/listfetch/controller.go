// Package listfetch owns the lifecycle of a remotely loaded collection shown
// by a single screen: the items, whether a load or refresh is in flight, and
// the error of the last attempt.
//
// Every trigger takes a new generation number. Only the attempt holding the
// latest generation may commit its result; older attempts still finish and
// clear their in-flight flag but their items and errors are dropped.
package listfetch

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrSuperseded is returned by Load and Refresh when a newer attempt started
// before this one completed, so its result was discarded.
var ErrSuperseded = errors.New("superseded by a newer fetch")

const unknownError = "unknown error"

// Source fetches the full collection in one call.
type Source[T any] interface {
	Fetch(ctx context.Context) ([]T, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc[T any] func(ctx context.Context) ([]T, error)

func (f SourceFunc[T]) Fetch(ctx context.Context) ([]T, error) {
	return f(ctx)
}

// State is an immutable snapshot of the controller.
type State[T any] struct {
	Items      []T
	Loading    bool
	Refreshing bool
	Err        string
	Generation uint64
	LoadedAt   time.Time
}

// Failed reports whether the latest committed attempt failed.
func (s State[T]) Failed() bool {
	return s.Err != ""
}

type trigger int

const (
	triggerLoad trigger = iota
	triggerRefresh
)

func (t trigger) String() string {
	if t == triggerRefresh {
		return "refresh"
	}
	return "load"
}

// Controller mediates between a Source and a view.
type Controller[T any] struct {
	source Source[T]
	logger *slog.Logger
	now    func() time.Time

	mu         sync.Mutex
	id         uuid.UUID
	items      []T
	loads      int
	refreshes  int
	err        string
	generation uint64
	loadedAt   time.Time
	activated  bool
}

// New creates a Controller with an empty collection.
func New[T any](source Source[T]) *Controller[T] {
	return &Controller[T]{
		source: source,
		logger: slog.Default(),
		now:    time.Now,
		id:     uuid.New(),
		items:  []T{},
	}
}

// ID identifies the current screen instance. It changes on Deactivate.
func (c *Controller[T]) ID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.id.String()
}

// State returns a snapshot of the current state.
func (c *Controller[T]) State() State[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return State[T]{
		Items:      append(make([]T, 0, len(c.items)), c.items...),
		Loading:    c.loads > 0,
		Refreshing: c.refreshes > 0,
		Err:        c.err,
		Generation: c.generation,
		LoadedAt:   c.loadedAt,
	}
}

// Load fetches the collection, flagging Loading while the request is in flight.
func (c *Controller[T]) Load(ctx context.Context) error {
	return c.run(ctx, triggerLoad)
}

// Refresh is Load with the Refreshing flag instead of Loading.
func (c *Controller[T]) Refresh(ctx context.Context) error {
	return c.run(ctx, triggerRefresh)
}

// Activate performs the initial load the first time the screen becomes
// visible. Later calls do nothing until Deactivate.
func (c *Controller[T]) Activate(ctx context.Context) error {
	c.mu.Lock()
	if c.activated {
		c.mu.Unlock()
		return nil
	}
	c.activated = true
	c.mu.Unlock()

	return c.Load(ctx)
}

// Deactivate discards the state. Attempts still in flight will not commit.
func (c *Controller[T]) Deactivate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.generation++
	c.id = uuid.New()
	c.items = []T{}
	c.loads = 0
	c.refreshes = 0
	c.err = ""
	c.loadedAt = time.Time{}
	c.activated = false
}

func (c *Controller[T]) run(ctx context.Context, t trigger) error {
	gen, id := c.begin(t)
	log := c.logger.With("screen_id", id, "trigger", t.String(), "generation", gen)
	log.Debug("fetch started")

	items, err := c.source.Fetch(ctx)

	committed := c.finish(t, gen, id, items, err)
	switch {
	case !committed:
		log.Debug("fetch superseded")
		return ErrSuperseded
	case err != nil:
		log.Warn("fetch failed", "error", err)
		return err
	}
	log.Debug("fetch committed", "items", len(items))
	return nil
}

func (c *Controller[T]) begin(t trigger) (uint64, string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.generation++
	c.err = ""
	if t == triggerRefresh {
		c.refreshes++
	} else {
		c.loads++
	}
	return c.generation, c.id.String()
}

func (c *Controller[T]) finish(t trigger, gen uint64, id string, items []T, err error) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	// A Deactivate in between reset the counters; only the same screen
	// instance may release its flag.
	if c.id.String() == id {
		if t == triggerRefresh {
			c.refreshes = max(0, c.refreshes-1)
		} else {
			c.loads = max(0, c.loads-1)
		}
	}

	if gen != c.generation {
		return false
	}

	if err != nil {
		msg := err.Error()
		if msg == "" {
			msg = unknownError
		}
		c.err = msg
		return true
	}

	c.items = append(make([]T, 0, len(items)), items...)
	c.loadedAt = c.now()
	return true
}
