package game

import "xyzzy-server/packs"

// Player is one participant, human or bot. Identity is client-supplied
// and stable across reconnects; a disconnected player keeps their seat,
// hand, and score until kicked.
type Player struct {
	ID        string
	Name      string
	Score     int
	Hand      []packs.ResponseCard
	Connected bool
	IsAdmin   bool
	IsBot     bool

	// Send is the current connection's send channel; nil for bots and
	// disconnected players.
	Send chan []byte
}

// Registry holds all players in insertion order. Judge rotation and the
// player list broadcast both walk that order.
type Registry struct {
	byID  map[string]*Player
	order []string
}

// NewRegistry creates an empty player registry.
func NewRegistry() *Registry {
	return &Registry{byID: make(map[string]*Player)}
}

// Add inserts a player. Adding an existing id is a no-op.
func (r *Registry) Add(p *Player) {
	if _, ok := r.byID[p.ID]; ok {
		return
	}
	r.byID[p.ID] = p
	r.order = append(r.order, p.ID)
}

// Get returns the player with the given id, or nil.
func (r *Registry) Get(id string) *Player {
	return r.byID[id]
}

// Remove deletes and returns the player with the given id, or nil.
func (r *Registry) Remove(id string) *Player {
	p, ok := r.byID[id]
	if !ok {
		return nil
	}
	delete(r.byID, id)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return p
}

// Len reports the number of registered players.
func (r *Registry) Len() int { return len(r.byID) }

// IDs returns player ids in insertion order.
func (r *Registry) IDs() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// All returns players in insertion order.
func (r *Registry) All() []*Player {
	out := make([]*Player, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byID[id])
	}
	return out
}

// NextJudge returns the player id following current in insertion order.
// If current is empty or no longer registered, rotation resets to the
// first player. Returns "" for an empty registry.
func (r *Registry) NextJudge(current string) string {
	if len(r.order) == 0 {
		return ""
	}
	idx := -1
	for i, id := range r.order {
		if id == current {
			idx = i
			break
		}
	}
	if idx < 0 {
		return r.order[0]
	}
	return r.order[(idx+1)%len(r.order)]
}
