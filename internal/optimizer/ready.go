package optimizer

import (
	"context"
	"slices"

	"github.com/mlorentedev/promptune/internal/metrics"
)

// Status is the outcome of one readiness check. It is never cached.
type Status struct {
	Reachable    bool
	Models       []string
	Model        string
	ModelPresent bool
	Err          error
}

// Ready reports whether optimization can proceed.
func (s Status) Ready() bool {
	return s.Reachable && s.ModelPresent
}

// CheckReady lists the installed models and looks for the configured one by
// exact name.
func (o *Optimizer) CheckReady(ctx context.Context) Status {
	st := Status{Model: o.model}

	models, err := o.backend.Models(ctx)
	if err != nil {
		st.Err = err
		metrics.BackendAvailable.WithLabelValues(o.model).Set(0)
		return st
	}

	st.Reachable = true
	st.Models = models
	st.ModelPresent = slices.Contains(models, o.model)

	if st.ModelPresent {
		metrics.BackendAvailable.WithLabelValues(o.model).Set(1)
	} else {
		metrics.BackendAvailable.WithLabelValues(o.model).Set(0)
	}
	return st
}
