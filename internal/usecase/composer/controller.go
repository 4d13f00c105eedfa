package composer

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Controller governs draft session lifecycle: open seeds a fresh draft from
// current source data, close discards it. There is no reopening of a closed
// draft; state never survives a close.
type Controller struct {
	suggestions SuggestionProvider
	catalog     CatalogProvider
	orders      OrderCreator
	events      Events

	now func() time.Time
	ttl time.Duration

	mu       sync.Mutex
	sessions map[uuid.UUID]*Session
}

func NewController(suggestions SuggestionProvider, catalog CatalogProvider, orders OrderCreator, events Events, ttl time.Duration) *Controller {
	return &Controller{
		suggestions: suggestions,
		catalog:     catalog,
		orders:      orders,
		events:      events,
		now:         time.Now,
		ttl:         ttl,
		sessions:    make(map[uuid.UUID]*Session),
	}
}

// OpenInput drives the open(context, seedRecordOrWarehouse) control surface.
// Suggestion context needs the seeding suggestion; manual context needs the
// warehouse picked in the scope filters.
type OpenInput struct {
	Context     Context     `json:"context"`
	Suggestion  *Suggestion `json:"suggestion"`
	WarehouseID *int64      `json:"warehouseId"`
	// WarehouseName is display-only metadata for the manual context.
	WarehouseName string `json:"warehouseName"`
	OwnerID       string `json:"-"`
}

func (c *Controller) Open(ctx context.Context, in OpenInput) (*Session, error) {
	var source Source
	var poolError string

	switch in.Context {
	case ContextSuggestion:
		if in.Suggestion == nil {
			return nil, ErrNoSuggestion
		}
		pool, err := c.suggestions.Suggestions(ctx, in.Suggestion.WarehouseID)
		if err != nil {
			// Non-fatal: the seeded item is still composable, only the
			// sibling candidates are starved until a refresh.
			poolError = "Unable to load restock recommendations right now."
			pool = nil
		}
		source = newSuggestionSource(*in.Suggestion, pool)
	case ContextManual:
		if in.WarehouseID == nil || *in.WarehouseID <= 0 {
			return nil, ErrNoWarehouse
		}
		catalog, err := c.catalog.Products(ctx, *in.WarehouseID)
		if err != nil {
			poolError = "Unable to load products for this warehouse. Try again later."
			catalog = nil
		}
		source = newManualSource(*in.WarehouseID, in.WarehouseName, catalog)
	default:
		return nil, ErrInvalidInput
	}

	now := c.now()
	s := &Session{
		ID:      uuid.New(),
		OwnerID: in.OwnerID,
		source:  source,
		touched: now,
	}
	s.poolError = poolError
	s.reset(now)

	c.mu.Lock()
	c.sweepLocked(now)
	c.sessions[s.ID] = s
	c.mu.Unlock()
	return s, nil
}

// Get returns the session if it exists, belongs to ownerID, and has not
// expired.
func (c *Controller) Get(id uuid.UUID, ownerID string) (*Session, error) {
	now := c.now()

	c.mu.Lock()
	c.sweepLocked(now)
	s, ok := c.sessions[id]
	c.mu.Unlock()

	if !ok || s.OwnerID != ownerID {
		return nil, ErrNotFound
	}
	s.touch(now)
	return s, nil
}

// Close discards the draft. Closing while a submission is in flight is
// rejected so a late collaborator response can never land on dismissed state.
func (c *Controller) Close(id uuid.UUID, ownerID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	s, ok := c.sessions[id]
	if !ok || s.OwnerID != ownerID {
		return ErrNotFound
	}
	s.mu.Lock()
	inFlight := s.submitting
	s.mu.Unlock()
	if inFlight {
		return ErrSubmitInFlight
	}
	delete(c.sessions, id)
	return nil
}

// Refresh re-fetches the session's source snapshot, clearing or re-recording
// the pool availability message. The draft itself is untouched.
func (c *Controller) Refresh(ctx context.Context, id uuid.UUID, ownerID string) error {
	s, err := c.Get(id, ownerID)
	if err != nil {
		return err
	}

	switch s.source.Context() {
	case ContextSuggestion:
		pool, ferr := c.suggestions.Suggestions(ctx, s.source.WarehouseID())
		s.mu.Lock()
		if ferr != nil {
			s.poolError = "Unable to load restock recommendations right now."
		} else {
			s.poolError = ""
			s.source.setPool(pool, nil)
		}
		s.mu.Unlock()
	case ContextManual:
		catalog, ferr := c.catalog.Products(ctx, s.source.WarehouseID())
		s.mu.Lock()
		if ferr != nil {
			s.poolError = "Unable to load products for this warehouse. Try again later."
		} else {
			s.poolError = ""
			s.source.setPool(nil, catalog)
		}
		s.mu.Unlock()
	}
	return nil
}

func (c *Controller) sweepLocked(now time.Time) {
	for id, s := range c.sessions {
		if s.expired(now, c.ttl) {
			delete(c.sessions, id)
		}
	}
}
