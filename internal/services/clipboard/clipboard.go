// Package clipboard copies purged stylesheets to the system clipboard.
package clipboard

import (
	"errors"
	"fmt"

	"github.com/atotto/clipboard"
)

// ErrUnsupported reports a platform without a usable clipboard utility.
var ErrUnsupported = errors.New("clipboard unavailable (install xclip, xsel or wl-clipboard)")

// Copier copies textual data to the system clipboard.
type Copier interface {
	Copy(text string) error
}

// Service implements Copier on top of github.com/atotto/clipboard.
type Service struct {
	unsupported bool
	write       func(text string) error
}

var _ Copier = (*Service)(nil)

// NewService returns a Service bound to the system clipboard.
func NewService() *Service {
	return &Service{unsupported: clipboard.Unsupported, write: clipboard.WriteAll}
}

// Copy writes text to the clipboard. Empty text is not copied.
func (service *Service) Copy(text string) error {
	if text == "" {
		return nil
	}
	if service.unsupported {
		return ErrUnsupported
	}
	if writeError := service.write(text); writeError != nil {
		return fmt.Errorf("copy %d bytes to clipboard: %w", len(text), writeError)
	}
	return nil
}
