package mock

import "github.com/temirov/csskit/internal/services/clipboard"

var _ clipboard.Copier = (*Copier)(nil)

// Copier is a mock implementation of clipboard.Copier.
type Copier struct {
	CopyFn func(text string) error
}

func (c *Copier) Copy(text string) error {
	return c.CopyFn(text)
}
