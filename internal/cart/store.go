package cart

import (
	"context"
	"errors"
	"sync"

	"github.com/Skotchmaster/shop_client/internal/gateway"
	"github.com/Skotchmaster/shop_client/internal/logging"
	"github.com/Skotchmaster/shop_client/internal/models"
	"github.com/Skotchmaster/shop_client/internal/notify"
)

var (
	ErrQuantity         = errors.New("quantity must be at least 1")
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrCartUnavailable  = errors.New("cart is not available")
)

// Gateway is the slice of the backend client the cart store uses.
type Gateway interface {
	UserCart(ctx context.Context, userID int64) (*models.Cart, error)
	AddCartItem(ctx context.Context, req gateway.AddCartItemRequest) (*models.CartItem, error)
	UpdateCartItem(ctx context.Context, itemID int64, quantity int) (*models.CartItem, error)
	RemoveCartItem(ctx context.Context, itemID int64) error
	ClearCart(ctx context.Context, cartID int64) error
}

// Session is the read-only view of the session store the cart store
// gates its operations on.
type Session interface {
	CurrentUser() *models.User
}

// Store caches the authenticated user's cart. The cache is never
// patched locally: every mutation goes to the backend and is followed
// by a full refetch, pricing and totals stay backend-authoritative.
type Store struct {
	gw      Gateway
	session Session
	notify  notify.Notifier

	// mutateMu serializes mutate-then-refetch sequences so two
	// concurrent mutations cannot leave the cache holding the earlier
	// snapshot.
	mutateMu sync.Mutex

	mu      sync.Mutex
	cart    *models.Cart
	loading bool
	lastErr string
	open    bool
}

func New(gw Gateway, session Session, n notify.Notifier) *Store {
	return &Store{gw: gw, session: session, notify: n}
}

// HandleIdentityChange is the subscription target wired to the session
// store: fetch on login or user switch, drop the cart on logout. A cart
// belonging to a previous identity must never survive the transition.
func (s *Store) HandleIdentityChange(ctx context.Context, user *models.User) {
	if user == nil {
		s.mu.Lock()
		s.cart = nil
		s.mu.Unlock()
		return
	}
	s.Fetch(ctx)
}

// Fetch reloads the cart snapshot. Failures are recorded on the store
// but never returned, it is safe to call speculatively.
func (s *Store) Fetch(ctx context.Context) {
	if err := s.fetch(ctx); err != nil {
		logging.FromContext(ctx).Error("fetch cart failed", "error", err)
	}
}

func (s *Store) fetch(ctx context.Context) error {
	user := s.session.CurrentUser()
	if user == nil {
		return nil
	}

	s.setLoading(true)
	defer s.setLoading(false)

	snapshot, err := s.gw.UserCart(ctx, user.ID)
	if err != nil {
		s.recordError(gateway.Message(err, "Failed to fetch cart"))
		return err
	}

	s.mu.Lock()
	s.cart = snapshot
	s.lastErr = ""
	s.mu.Unlock()
	return nil
}

// Add posts a new line item and refetches. While anonymous it warns and
// returns without touching the network.
func (s *Store) Add(ctx context.Context, productID int64, quantity int) (*models.CartItem, error) {
	if quantity < 1 {
		return nil, ErrQuantity
	}

	user := s.session.CurrentUser()
	if user == nil {
		s.notify.Warning("Please login to add items to cart")
		return nil, nil
	}

	s.mutateMu.Lock()
	defer s.mutateMu.Unlock()

	cartID, err := s.currentCartID(ctx)
	if err != nil {
		return nil, err
	}

	item, err := s.gw.AddCartItem(ctx, gateway.AddCartItemRequest{
		Cart:      cartID,
		ProductID: productID,
		Quantity:  quantity,
	})
	if err != nil {
		msg := gateway.Message(err, "Failed to add item to cart")
		s.recordError(msg)
		s.notify.Error(msg)
		return nil, err
	}

	s.Fetch(ctx)
	s.notify.Success("Item added to cart!")
	return item, nil
}

func (s *Store) UpdateItem(ctx context.Context, itemID int64, quantity int) error {
	if quantity < 1 {
		return ErrQuantity
	}
	if s.session.CurrentUser() == nil {
		return ErrNotAuthenticated
	}

	s.mutateMu.Lock()
	defer s.mutateMu.Unlock()

	if _, err := s.gw.UpdateCartItem(ctx, itemID, quantity); err != nil {
		msg := gateway.Message(err, "Failed to update cart")
		s.recordError(msg)
		s.notify.Error(msg)
		return err
	}

	s.Fetch(ctx)
	s.notify.Success("Cart updated!")
	return nil
}

func (s *Store) RemoveItem(ctx context.Context, itemID int64) error {
	if s.session.CurrentUser() == nil {
		return ErrNotAuthenticated
	}

	s.mutateMu.Lock()
	defer s.mutateMu.Unlock()

	if err := s.gw.RemoveCartItem(ctx, itemID); err != nil {
		msg := gateway.Message(err, "Failed to remove item from cart")
		s.recordError(msg)
		s.notify.Error(msg)
		return err
	}

	s.Fetch(ctx)
	s.notify.Success("Item removed from cart!")
	return nil
}

// Clear deletes every line item. With no cart loaded it is a no-op.
func (s *Store) Clear(ctx context.Context) error {
	if s.session.CurrentUser() == nil {
		return ErrNotAuthenticated
	}

	s.mutateMu.Lock()
	defer s.mutateMu.Unlock()

	s.mu.Lock()
	cart := s.cart
	s.mu.Unlock()
	if cart == nil {
		return nil
	}

	if err := s.gw.ClearCart(ctx, cart.ID); err != nil {
		msg := gateway.Message(err, "Failed to clear cart")
		s.recordError(msg)
		s.notify.Error(msg)
		return err
	}

	s.Fetch(ctx)
	s.notify.Success("Cart cleared!")
	return nil
}

func (s *Store) Current() *models.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart
}

func (s *Store) ItemsCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cart == nil {
		return 0
	}
	total := 0
	for _, item := range s.cart.Items {
		total += item.Quantity
	}
	return total
}

// Total reports the backend-computed total, never a local sum over the
// line items.
func (s *Store) Total() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cart == nil {
		return 0
	}
	return s.cart.Total
}

func (s *Store) Open() {
	s.mu.Lock()
	s.open = true
	s.mu.Unlock()
}

func (s *Store) Close() {
	s.mu.Lock()
	s.open = false
	s.mu.Unlock()
}

func (s *Store) IsOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.open
}

func (s *Store) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

func (s *Store) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// currentCartID returns the loaded cart's id, fetching once if the
// snapshot is missing (e.g. the fetch on login failed).
func (s *Store) currentCartID(ctx context.Context) (int64, error) {
	s.mu.Lock()
	cart := s.cart
	s.mu.Unlock()
	if cart != nil {
		return cart.ID, nil
	}

	if err := s.fetch(ctx); err != nil {
		return 0, err
	}

	s.mu.Lock()
	cart = s.cart
	s.mu.Unlock()
	if cart == nil {
		return 0, ErrCartUnavailable
	}
	return cart.ID, nil
}

func (s *Store) recordError(msg string) {
	s.mu.Lock()
	s.lastErr = msg
	s.mu.Unlock()
}

func (s *Store) setLoading(v bool) {
	s.mu.Lock()
	s.loading = v
	s.mu.Unlock()
}
