package cart

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/Kariqs/silkstitch-api/logger"
	"go.uber.org/zap"
)

const keyPrefix = "cart:"

// KeyFor returns the store key for a cart session.
func KeyFor(session string) string {
	return keyPrefix + session
}

// Engine applies actions to one session's cart and persists the result.
// Persistence is best-effort: a failed save is logged and the in-memory
// state still advances.
type Engine struct {
	mu    sync.Mutex
	store Store
	key   string
	state State
}

func NewEngine(store Store, session string) *Engine {
	return &Engine{store: store, key: KeyFor(session), state: Empty()}
}

// Load rehydrates the engine from its store. Missing or unreadable snapshots
// start an empty cart.
func (e *Engine) Load(ctx context.Context) State {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.state = Empty()
	data, err := e.store.Load(ctx, e.key)
	if err != nil {
		logger.Warn(ctx, "cart load failed", zap.String("key", e.key), zap.Error(err))
		return e.state
	}
	if data == nil {
		return e.state
	}
	state, err := Rehydrate(data)
	if err != nil {
		logger.Warn(ctx, "discarding unreadable cart snapshot", zap.String("key", e.key), zap.Error(err))
		return e.state
	}
	e.state = state
	return e.state
}

func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Dispatch reduces the current state with action and saves the result.
func (e *Engine) Dispatch(ctx context.Context, action Action) State {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.state = Reduce(e.state, action)
	e.persist(ctx)
	return e.state
}

func (e *Engine) persist(ctx context.Context) {
	data, err := json.Marshal(e.state)
	if err != nil {
		logger.Warn(ctx, "cart encode failed", zap.String("key", e.key), zap.Error(err))
		return
	}
	if err := e.store.Save(ctx, e.key, data); err != nil {
		logger.Warn(ctx, "cart save failed", zap.String("key", e.key), zap.Error(err))
	}
}

func (e *Engine) Add(ctx context.Context, item Item, quantity int) State {
	return e.Dispatch(ctx, AddItem{Item: item, Quantity: quantity})
}

func (e *Engine) Remove(ctx context.Context, id uint) State {
	return e.Dispatch(ctx, RemoveItem{ID: id})
}

func (e *Engine) UpdateQuantity(ctx context.Context, id uint, quantity int) State {
	return e.Dispatch(ctx, UpdateQuantity{ID: id, Quantity: quantity})
}

func (e *Engine) Clear(ctx context.Context) State { return e.Dispatch(ctx, Clear{}) }
func (e *Engine) Open(ctx context.Context) State { return e.Dispatch(ctx, Open{}) }
func (e *Engine) Close(ctx context.Context) State { return e.Dispatch(ctx, Close{}) }
func (e *Engine) Toggle(ctx context.Context) State { return e.Dispatch(ctx, Toggle{}) }
