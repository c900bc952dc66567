package mock

import (
	"github.com/temirov/csskit/internal/purge"
)

var _ purge.Backend = (*Backend)(nil)
var _ purge.Stylesheet = (*Stylesheet)(nil)

// Backend is a mock implementation of purge.Backend.
type Backend struct {
	LoadFn func(path string) (purge.Stylesheet, error)
}

func (b *Backend) Load(path string) (purge.Stylesheet, error) {
	return b.LoadFn(path)
}

// Stylesheet is a mock implementation of purge.Stylesheet.
type Stylesheet struct {
	RetainFn func(selectors []string)
	RenderFn func(minify bool) (string, error)
}

func (s *Stylesheet) Retain(selectors []string) {
	s.RetainFn(selectors)
}

func (s *Stylesheet) Render(minify bool) (string, error) {
	return s.RenderFn(minify)
}
