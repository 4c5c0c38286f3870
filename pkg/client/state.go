package client

import (
	"context"
	"sort"
	"sync"
)

// State mirrors server-side cart and order data locally, plus favorites,
// which exist only on the client. The mirror re-synchronizes on auth change
// and empties on logout.
type State struct {
	api *Client

	mu        sync.RWMutex
	cart      *CartResponse
	orders    []Order
	favorites map[uint]bool
}

func NewState(api *Client) *State {
	return &State{
		api:       api,
		favorites: make(map[uint]bool),
	}
}

// SetAuth swaps the bearer token. A non-empty token triggers a full refresh;
// an empty one logs out and clears the mirror (favorites survive, they belong
// to the device).
func (s *State) SetAuth(ctx context.Context, token string) error {
	s.api.SetToken(token)
	if token == "" {
		s.mu.Lock()
		s.cart = nil
		s.orders = nil
		s.mu.Unlock()
		return nil
	}
	return s.Refresh(ctx)
}

// Refresh pulls cart and order history from the server.
func (s *State) Refresh(ctx context.Context) error {
	cart, err := s.api.Cart(ctx)
	if err != nil {
		return err
	}
	orders, err := s.api.Orders(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.cart = cart
	s.orders = orders
	s.mu.Unlock()
	return nil
}

func (s *State) Cart() *CartResponse {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cart
}

func (s *State) Orders() []Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Order, len(s.orders))
	copy(out, s.orders)
	return out
}

// ToggleFavorite flips a product's favorite flag and reports the new value.
func (s *State) ToggleFavorite(productID uint) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.favorites[productID] {
		delete(s.favorites, productID)
		return false
	}
	s.favorites[productID] = true
	return true
}

func (s *State) IsFavorite(productID uint) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.favorites[productID]
}

func (s *State) Favorites() []uint {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]uint, 0, len(s.favorites))
	for id := range s.favorites {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
