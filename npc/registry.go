package npc

import (
	"sync"

	"github.com/google/uuid"
)

// HandleRegistry tracks every live NPC handle the process owns, keyed by NPC
// id. Safe for concurrent use.
type HandleRegistry struct {
	mu      sync.RWMutex
	handles map[uuid.UUID]*Handle
}

// NewHandleRegistry creates an empty registry.
func NewHandleRegistry() *HandleRegistry {
	return &HandleRegistry{handles: make(map[uuid.UUID]*Handle)}
}

// Register adds a handle. A killed handle removes itself.
func (r *HandleRegistry) Register(h *Handle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	h.onKill = func(h *Handle) { r.remove(h.id) }
	r.handles[h.id] = h
}

// Get returns the handle for the given NPC id.
func (r *HandleRegistry) Get(id uuid.UUID) (*Handle, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.handles[id]
	return h, ok
}

// Remove drops the handle for the given NPC id and invalidates it. The
// backend NPC is not touched.
func (r *HandleRegistry) Remove(id uuid.UUID) {
	r.mu.Lock()
	h, ok := r.handles[id]
	if ok {
		delete(r.handles, id)
	}
	r.mu.Unlock()

	if ok {
		h.markDead()
	}
}

// ByGame returns all handles belonging to the given game.
func (r *HandleRegistry) ByGame(gameID string) []*Handle {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*Handle
	for _, h := range r.handles {
		if h.gameID == gameID {
			out = append(out, h)
		}
	}
	return out
}

// Count returns the number of registered handles.
func (r *HandleRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.handles)
}

// Clear invalidates and drops every handle.
func (r *HandleRegistry) Clear() {
	r.mu.Lock()
	handles := r.handles
	r.handles = make(map[uuid.UUID]*Handle)
	r.mu.Unlock()

	for _, h := range handles {
		h.markDead()
	}
}

func (r *HandleRegistry) remove(id uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.handles, id)
}
