package mpsync

import (
	"context"
	"time"

	"github.com/apex/log"
)

type HealthChecker interface {
	HealthCheck() bool
}

type HealthProberOptionFN func(*HealthProber)

// HealthProber polls the remote health endpoint and drives the serverDown
// flag. Cancel the context passed to Run to tear it down.
type HealthProber struct {
	checker       HealthChecker
	state         *ConnState
	probeInterval time.Duration

	// recoverHandler fires on a down-to-up transition, typically wired to
	// EntityStore.Sync.
	recoverHandler func()
}

func NewHealthProber(checker HealthChecker, state *ConnState, optFNs ...HealthProberOptionFN) *HealthProber {
	p := &HealthProber{
		checker:       checker,
		state:         state,
		probeInterval: 5 * time.Second,
	}

	for _, optfn := range optFNs {
		optfn(p)
	}

	return p
}

func WithProbeInterval(interval time.Duration) HealthProberOptionFN {
	return func(p *HealthProber) {
		p.probeInterval = interval
	}
}

func WithRecoverHandler(f func()) HealthProberOptionFN {
	return func(p *HealthProber) {
		p.recoverHandler = f
	}
}

func (p *HealthProber) Run(c context.Context) {
	for {
		p.probe()
		select {
		case <-c.Done():
			return
		case <-time.After(p.probeInterval):
		}
	}
}

func (p *HealthProber) probe() {
	wasDown := p.state.ServerDown()
	ok := p.checker.HealthCheck()
	p.state.SetServerDown(!ok)

	if wasDown && ok {
		log.Info("Server reachable again")
		if p.recoverHandler != nil {
			p.recoverHandler()
		}
	}

	if !wasDown && !ok {
		log.Warn("Server unreachable")
	}
}
