package harvesters

import "fmt"

// Registry maps sources to their harvesters. It is built once at startup
// and read-only afterwards.
type Registry struct {
	order    []Source
	bySource map[Source]Harvester
}

func NewRegistry(hs ...Harvester) (*Registry, error) {
	r := &Registry{bySource: make(map[Source]Harvester, len(hs))}
	for _, h := range hs {
		src := h.Source()
		if _, dup := r.bySource[src]; dup {
			return nil, fmt.Errorf("harvester for source %q registered twice", src)
		}
		r.bySource[src] = h
		r.order = append(r.order, src)
	}
	return r, nil
}

func (r *Registry) Lookup(src Source) (Harvester, bool) {
	h, ok := r.bySource[src]
	return h, ok
}

// Sources returns the registered sources in registration order.
func (r *Registry) Sources() []Source {
	out := make([]Source, len(r.order))
	copy(out, r.order)
	return out
}

func (r *Registry) Len() int { return len(r.order) }
