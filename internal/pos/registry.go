package pos

import "sync"

// Registry holds one cart per session, created on first use.
type Registry struct {
	products ProductLookup

	mu    sync.RWMutex
	carts map[string]*Cart
}

func NewRegistry(products ProductLookup) *Registry {
	return &Registry{products: products, carts: make(map[string]*Cart)}
}

func (r *Registry) Cart(session string) *Cart {
	r.mu.RLock()
	c, ok := r.carts[session]
	r.mu.RUnlock()
	if ok {
		return c
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.carts[session]; ok {
		return c
	}
	c = NewCart(r.products)
	r.carts[session] = c
	return c
}

// Drop forgets a session's cart, e.g. on logout.
func (r *Registry) Drop(session string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.carts, session)
}
