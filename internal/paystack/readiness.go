package paystack

import (
	"context"
	"sync"
	"time"
)

// LoadState is the gateway client's load outcome. It replaces the old
// unbounded "script still loading" flag: a probe either becomes Ready
// within its timeout or lands in Failed, from which Retry re-probes.
type LoadState string

const (
	Loading LoadState = "loading"
	Ready   LoadState = "ready"
	Failed  LoadState = "failed"
)

type Readiness struct {
	mu    sync.Mutex
	state LoadState
	probe func(context.Context) error

	// ProbeTimeout bounds a single probe attempt.
	ProbeTimeout time.Duration
}

func newReadiness(probe func(context.Context) error) *Readiness {
	return &Readiness{
		state:        Loading,
		probe:        probe,
		ProbeTimeout: 10 * time.Second,
	}
}

func (r *Readiness) State() LoadState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Start launches the initial probe in the background. Submission stays
// blocked until the state reaches Ready.
func (r *Readiness) Start(ctx context.Context) {
	go r.run(ctx)
}

// Retry re-probes after a Failed outcome. A no-op while Loading or Ready.
func (r *Readiness) Retry(ctx context.Context) {
	r.mu.Lock()
	if r.state != Failed {
		r.mu.Unlock()
		return
	}
	r.state = Loading
	r.mu.Unlock()
	go r.run(ctx)
}

func (r *Readiness) run(ctx context.Context) {
	probeCtx, cancel := context.WithTimeout(ctx, r.ProbeTimeout)
	defer cancel()

	err := r.probe(probeCtx)

	r.mu.Lock()
	defer r.mu.Unlock()
	if err != nil {
		r.state = Failed
		return
	}
	r.state = Ready
}

// ForceReady marks the probe as completed. Tests and the sandbox
// environment use it; production goes through Start.
func (r *Readiness) ForceReady() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state = Ready
}
