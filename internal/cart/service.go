package cart

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/minishop/internal/catalog"
	pkgerrors "github.com/angelmondragon/minishop/pkg/errors"
)

const (
	opAdd    = "add"
	opRemove = "remove"
	opUpdate = "update"
	opClear  = "clear"
)

type productLookup interface {
	Get(id string) (catalog.Product, bool)
}

type mutationRecorder interface {
	IncMutation(op string)
	AddEvicted(n int)
}

// Service exposes the per-session cart operations. Every mutation on a session
// key is atomic with respect to other mutations on the same key.
type Service interface {
	Get(ctx context.Context, sessionKey string) Cart
	AddItem(ctx context.Context, sessionKey, productID string, quantity int) (Cart, error)
	RemoveItem(ctx context.Context, sessionKey, productID string) Cart
	SetItemQuantity(ctx context.Context, sessionKey, productID string, quantity int) Cart
	Clear(ctx context.Context, sessionKey string) Cart
	EvictIdle(ctx context.Context, cutoff time.Time) int
}

// ServiceParams configure the in-memory cart store.
type ServiceParams struct {
	Products productLookup
	Metrics  mutationRecorder
	Clock    func() time.Time
}

type session struct {
	mu        sync.Mutex
	items     []LineItem
	total     decimal.Decimal
	updatedAt time.Time
	evicted   bool
}

type service struct {
	products productLookup
	metrics  mutationRecorder
	now      func() time.Time

	mu       sync.RWMutex
	sessions map[string]*session
}

// NewService builds an in-memory cart store backed by the given catalog.
func NewService(params ServiceParams) (Service, error) {
	if params.Products == nil {
		return nil, fmt.Errorf("product lookup required")
	}
	clock := params.Clock
	if clock == nil {
		clock = time.Now
	}
	return &service{
		products: params.Products,
		metrics:  params.Metrics,
		now:      clock,
		sessions: make(map[string]*session),
	}, nil
}

func (s *service) Get(ctx context.Context, sessionKey string) Cart {
	return s.withSession(sessionKey, "", nil)
}

func (s *service) AddItem(ctx context.Context, sessionKey, productID string, quantity int) (Cart, error) {
	product, ok := s.products.Get(productID)
	if !ok {
		return Cart{}, pkgerrors.New(pkgerrors.CodeNotFound, "product not found").
			WithDetails(map[string]any{"productId": productID})
	}
	if quantity <= 0 {
		return s.Get(ctx, sessionKey), nil
	}
	if quantity > MaxLineQuantity {
		return Cart{}, quantityLimitError(productID)
	}
	return s.tryWithSession(sessionKey, opAdd, func(sess *session) error {
		for i := range sess.items {
			if sess.items[i].ProductID == productID {
				if sess.items[i].Quantity > MaxLineQuantity-quantity {
					return quantityLimitError(productID)
				}
				sess.items[i].Quantity += quantity
				return nil
			}
		}
		sess.items = append(sess.items, LineItem{
			ProductID: productID,
			Quantity:  quantity,
			Price:     product.Price,
		})
		return nil
	})
}

func quantityLimitError(productID string) error {
	return pkgerrors.New(pkgerrors.CodeValidation, "quantity limit exceeded").
		WithDetails(map[string]any{"productId": productID, "maxQuantity": MaxLineQuantity})
}

func (s *service) RemoveItem(ctx context.Context, sessionKey, productID string) Cart {
	return s.withSession(sessionKey, opRemove, func(sess *session) {
		sess.removeLine(productID)
	})
}

// SetItemQuantity clamps quantities above MaxLineQuantity.
func (s *service) SetItemQuantity(ctx context.Context, sessionKey, productID string, quantity int) Cart {
	if quantity <= 0 {
		return s.RemoveItem(ctx, sessionKey, productID)
	}
	quantity = min(quantity, MaxLineQuantity)
	return s.withSession(sessionKey, opUpdate, func(sess *session) {
		for i := range sess.items {
			if sess.items[i].ProductID == productID {
				sess.items[i].Quantity = quantity
				return
			}
		}
	})
}

func (s *service) Clear(ctx context.Context, sessionKey string) Cart {
	return s.withSession(sessionKey, opClear, func(sess *session) {
		sess.items = nil
	})
}

// EvictIdle drops carts not touched since cutoff and returns how many went.
func (s *service) EvictIdle(ctx context.Context, cutoff time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	evicted := 0
	for key, sess := range s.sessions {
		sess.mu.Lock()
		if sess.updatedAt.Before(cutoff) {
			sess.evicted = true
			delete(s.sessions, key)
			evicted++
		}
		sess.mu.Unlock()
	}
	if s.metrics != nil {
		s.metrics.AddEvicted(evicted)
	}
	return evicted
}

// withSession runs mutate under the session lock, recomputes the total and
// returns a snapshot. A nil mutate only reads (and touches) the cart.
func (s *service) withSession(sessionKey, op string, mutate func(*session)) Cart {
	var fn func(*session) error
	if mutate != nil {
		fn = func(sess *session) error {
			mutate(sess)
			return nil
		}
	}
	snapshot, _ := s.tryWithSession(sessionKey, op, fn)
	return snapshot
}

// tryWithSession is withSession for mutations that can be refused. A refused
// mutation must leave the session untouched.
func (s *service) tryWithSession(sessionKey, op string, mutate func(*session) error) (Cart, error) {
	for {
		sess := s.lookup(sessionKey)
		sess.mu.Lock()
		if sess.evicted {
			// Lost a race with the sweeper; resolve a fresh session.
			sess.mu.Unlock()
			continue
		}
		if mutate != nil {
			if err := mutate(sess); err != nil {
				sess.mu.Unlock()
				return Cart{}, err
			}
			sess.total = Subtotal(sess.items)
		}
		sess.updatedAt = s.now()
		snapshot := Cart{Items: CloneItems(sess.items), Total: sess.total}
		sess.mu.Unlock()

		if op != "" && s.metrics != nil {
			s.metrics.IncMutation(op)
		}
		return snapshot, nil
	}
}

func (s *service) lookup(sessionKey string) *session {
	s.mu.RLock()
	sess, ok := s.sessions[sessionKey]
	s.mu.RUnlock()
	if ok {
		return sess
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok = s.sessions[sessionKey]; ok {
		return sess
	}
	sess = &session{total: decimal.Zero, updatedAt: s.now()}
	s.sessions[sessionKey] = sess
	return sess
}

func (sess *session) removeLine(productID string) {
	kept := sess.items[:0]
	for _, item := range sess.items {
		if item.ProductID != productID {
			kept = append(kept, item)
		}
	}
	sess.items = kept
}
