package evaluators

import (
	"log/slog"

	"github.com/jamcalli/pulsarr/internal/router"
)

// DefaultRegistry wires every built-in evaluator over the given store.
func DefaultRegistry(store router.RuleStore, log *slog.Logger) *router.Registry {
	return router.NewRegistry(log,
		NewUserEvaluator(store),
		NewGenreEvaluator(store),
		NewLanguageEvaluator(store),
		NewYearEvaluator(store),
		NewCertificationEvaluator(store),
	)
}
