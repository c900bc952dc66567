package mock

import (
	"context"

	"github.com/temirov/csskit/internal/scss"
)

var _ scss.Compiler = (*Compiler)(nil)

// Compiler is a mock implementation of scss.Compiler.
type Compiler struct {
	CompileFn func(ctx context.Context, request scss.Request) (scss.Result, error)
}

func (c *Compiler) Compile(ctx context.Context, request scss.Request) (scss.Result, error) {
	return c.CompileFn(ctx, request)
}
