package convert

import "fmt"

// Converter renders a raw HTML body into one output text format. The
// format name doubles as the output file extension.
type Converter interface {
	Name() string
	Convert(body string) (string, error)
}

// Registry keeps a mapping from target format names to their converters.
type Registry struct {
	converters map[string]Converter
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{converters: map[string]Converter{}}
}

// Register adds or replaces a converter implementation.
func (r *Registry) Register(converter Converter) {
	if r.converters == nil {
		r.converters = map[string]Converter{}
	}
	r.converters[converter.Name()] = converter
}

// Resolve returns a converter by format name or an error if it is absent.
func (r *Registry) Resolve(name string) (Converter, error) {
	if converter, ok := r.converters[name]; ok {
		return converter, nil
	}
	return nil, fmt.Errorf("target format %s is not supported", name)
}
