package services

import (
	"context"
	"sync"

	"storefront-service/internal/domain"
	"storefront-service/internal/repository"
)

// memStore is an in-memory catalog, cart and order store whose transition
// handler behaves like the SQL one: version-checked and all-or-nothing.
type memStore struct {
	mu       sync.Mutex
	products map[uint64]*domain.Product
	carts    map[string]*domain.Cart
	orders   map[uint64]*domain.Order
	seq      map[string]int64
	nextID   uint64
}

func newMemStore(products ...*domain.Product) *memStore {
	s := &memStore{
		products: map[uint64]*domain.Product{},
		carts:    map[string]*domain.Cart{},
		orders:   map[uint64]*domain.Order{},
		seq:      map[string]int64{},
	}
	for _, p := range products {
		cp := *p
		s.products[p.ID] = &cp
	}
	return s
}

func (s *memStore) product(id uint64) domain.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.products[id]
}

func (s *memStore) order(id uint64) domain.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneOrder(s.orders[id])
}

func cloneOrder(o *domain.Order) domain.Order {
	cp := *o
	cp.Items = append([]domain.OrderItem(nil), o.Items...)
	return cp
}

func cloneCart(c *domain.Cart) *domain.Cart {
	cp := *c
	cp.Items = append([]domain.CartItem{}, c.Items...)
	return &cp
}

type memOrders struct{ *memStore }
type memCarts struct{ *memStore }
type memProducts struct{ *memStore }

var (
	_ repository.OrderRepository   = memOrders{}
	_ repository.OrderSequence     = memOrders{}
	_ repository.CartRepository    = memCarts{}
	_ repository.ProductRepository = memProducts{}
)

func (s memOrders) SaveAndClearCart(_ context.Context, o *domain.Order, c *domain.Cart) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.orders {
		if existing.OrderNumber == o.OrderNumber {
			return repository.ErrDuplicateOrderNumber
		}
	}
	if stored, ok := s.carts[c.UserID]; ok && stored.Version != c.Version {
		return domain.Conflict("cart")
	}
	s.nextID++
	o.ID = s.nextID
	cp := cloneOrder(o)
	s.orders[o.ID] = &cp
	c.Clear()
	c.Version++
	s.carts[c.UserID] = cloneCart(c)
	return nil
}

func (s memOrders) FindByID(_ context.Context, id uint64) (*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	if !ok {
		return nil, nil
	}
	cp := cloneOrder(o)
	return &cp, nil
}

func (s memOrders) FindByUser(_ context.Context, userID string) ([]domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Order
	for _, o := range s.orders {
		if o.UserID == userID {
			out = append(out, cloneOrder(o))
		}
	}
	return out, nil
}

func (s memOrders) FindAll(_ context.Context) ([]domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Order, 0, len(s.orders))
	for _, o := range s.orders {
		out = append(out, cloneOrder(o))
	}
	return out, nil
}

func (s memOrders) ApplyTransition(_ context.Context, o *domain.Order, ev *domain.StockEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.orders[o.ID]
	if !ok || stored.Version != o.Version {
		return domain.Conflict("order")
	}
	if ev != nil {
		for _, l := range ev.Lines {
			stock, _ := ev.Delta(l)
			p, ok := s.products[l.ProductID]
			if !ok {
				if stock < 0 {
					return domain.NotFound("product")
				}
				continue
			}
			if p.Stock+stock < 0 {
				return domain.InsufficientStock(p.ID, p.Name, l.Quantity, p.Stock)
			}
		}
		for _, l := range ev.Lines {
			stock, sold := ev.Delta(l)
			p, ok := s.products[l.ProductID]
			if !ok {
				continue
			}
			p.Stock += stock
			p.Sold = max(p.Sold+sold, 0)
		}
	}
	o.Version++
	cp := cloneOrder(o)
	s.orders[o.ID] = &cp
	return nil
}

func (s memOrders) Next(_ context.Context, day string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq[day]++
	return s.seq[day], nil
}

func (s memCarts) FindByUser(_ context.Context, userID string) (*domain.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.carts[userID]
	if !ok {
		return nil, nil
	}
	return cloneCart(c), nil
}

func (s memCarts) Save(_ context.Context, c *domain.Cart) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if stored, ok := s.carts[c.UserID]; ok && stored.Version != c.Version {
		return domain.Conflict("cart")
	}
	c.Version++
	s.carts[c.UserID] = cloneCart(c)
	return nil
}

func (s memProducts) FindByID(_ context.Context, id uint64) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (s memProducts) FindByIDs(_ context.Context, ids []uint64) (map[uint64]*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[uint64]*domain.Product, len(ids))
	for _, id := range ids {
		if p, ok := s.products[id]; ok {
			cp := *p
			out[id] = &cp
		}
	}
	return out, nil
}

func (s memProducts) List(_ context.Context, _ domain.ProductFilter) ([]domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Product, 0, len(s.products))
	for _, p := range s.products {
		out = append(out, *p)
	}
	return out, nil
}

func (s memProducts) AdjustStock(_ context.Context, id uint64, delta, soldDelta int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	if !ok {
		if delta < 0 {
			return domain.NotFound("product")
		}
		return nil
	}
	if p.Stock+delta < 0 {
		return domain.InsufficientStock(p.ID, p.Name, -delta, p.Stock)
	}
	p.Stock += delta
	p.Sold = max(p.Sold+soldDelta, 0)
	return nil
}
