package dispatch

import (
	"context"
	"sort"
)

// HandlerFunc handles one prefix command invocation. args excludes the
// command name itself.
type HandlerFunc func(ctx context.Context, msg Message, args []string) error

// Router maps prefix command names to handlers. Registration happens once at
// startup; lookups are concurrent afterwards, so no locking is needed.
type Router struct {
	handlers map[string]HandlerFunc
}

func NewRouter() *Router {
	return &Router{handlers: make(map[string]HandlerFunc)}
}

func (r *Router) Register(name string, h HandlerFunc) {
	r.handlers[name] = h
}

func (r *Router) Lookup(name string) (HandlerFunc, bool) {
	h, ok := r.handlers[name]
	return h, ok
}

// Names returns the registered command names, sorted for stable suggestion
// output.
func (r *Router) Names() []string {
	names := make([]string, 0, len(r.handlers))
	for name := range r.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
