// Package engine implements the turn loop: selecting the next event,
// applying a chosen option, and resolving the ending when the run
// terminates. The engine itself is stateless; all mutable state lives
// on the session it is handed.
package engine

import (
	"log/slog"
	"math/rand/v2"

	"github.com/jwebster45206/life-engine/pkg/conditions"
)

// Engine drives turns for any number of independent sessions. Its only
// nondeterminism is the injected random source, so runs are
// reproducible under a fixed sequence of draws.
type Engine struct {
	rand   conditions.RandSource
	eval   *conditions.Evaluator
	logger *slog.Logger
}

// New creates an Engine. A nil source falls back to math/rand/v2; a
// nil logger discards.
func New(src conditions.RandSource, logger *slog.Logger) *Engine {
	if src == nil {
		src = rand.Float64
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Engine{
		rand:   src,
		eval:   conditions.NewEvaluator(src),
		logger: logger,
	}
}
