package render

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
)

// Renderer writes a value in one output format.
type Renderer interface {
	Format() string
	Render(w io.Writer, v any) error
}

// Registry maps format names to renderers.
type Registry interface {
	Register(r Renderer)
	RendererFor(format string) (Renderer, error)
	Formats() []string
}

type registry struct {
	mu        sync.RWMutex
	renderers map[string]Renderer
}

// NewRegistry returns a registry with optional pre-registered renderers.
func NewRegistry(renderers ...Renderer) Registry {
	r := &registry{renderers: make(map[string]Renderer)}
	for _, rd := range renderers {
		r.Register(rd)
	}
	return r
}

// Register associates a renderer with its format.
func (r *registry) Register(rd Renderer) {
	if rd == nil {
		return
	}
	format := strings.TrimSpace(strings.ToLower(rd.Format()))
	if format == "" {
		return
	}

	r.mu.Lock()
	r.renderers[format] = rd
	r.mu.Unlock()
}

// RendererFor returns the renderer registered for format.
func (r *registry) RendererFor(format string) (Renderer, error) {
	key := strings.TrimSpace(strings.ToLower(format))
	if key == "" {
		return nil, fmt.Errorf("no output format given")
	}

	r.mu.RLock()
	rd := r.renderers[key]
	r.mu.RUnlock()

	if rd == nil {
		return nil, fmt.Errorf("no renderer registered for format %q (have %s)", format, strings.Join(r.Formats(), ", "))
	}
	return rd, nil
}

// Formats lists registered formats in sorted order.
func (r *registry) Formats() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, 0, len(r.renderers))
	for f := range r.renderers {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

// DefaultRegistry wires up the JSON and YAML renderers.
func DefaultRegistry() Registry {
	return NewRegistry(JSON{Indent: "  "}, YAML{Indent: 2})
}
