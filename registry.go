package easel

// Registry tracks the live paint controller for each layer. At most one live
// Sprite exists per layer; creating a second returns the existing one.
// History closures resolve sprites through the registry by layer id instead
// of holding references, so a disposed-and-recreated sprite is picked up
// transparently.
type Registry struct {
	sprites map[LayerID]*Sprite
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{sprites: make(map[LayerID]*Sprite)}
}

// Get returns the live sprite for the layer, or nil.
func (r *Registry) Get(id LayerID) *Sprite {
	return r.sprites[id]
}

// Create returns the live sprite for the layer, creating it if none exists.
func (r *Registry) Create(ses *Session, layer *Layer) *Sprite {
	if layer == nil {
		panic("easel: nil layer")
	}
	if sp := r.sprites[layer.ID]; sp != nil {
		return sp
	}
	sp := newSprite(ses, layer)
	r.sprites[layer.ID] = sp
	return sp
}

// remove drops the registration. Called from Sprite.Dispose.
func (r *Registry) remove(id LayerID) {
	delete(r.sprites, id)
}

// Len returns the number of live sprites.
func (r *Registry) Len() int {
	return len(r.sprites)
}

// Each calls fn for every live sprite.
func (r *Registry) Each(fn func(*Sprite)) {
	for _, sp := range r.sprites {
		fn(sp)
	}
}
