package mpsync

import (
	"context"

	"github.com/apex/log"
)

// ConnectivityObserver consumes platform online/offline notifications and
// drives the networkDown flag. It is purely event-driven; there is no
// polling here. Cancel the context passed to Run to unsubscribe.
type ConnectivityObserver struct {
	state  *ConnState
	events <-chan bool

	// onOnline fires on a down-to-up transition, typically wired to
	// EntityStore.Sync so queued work replays immediately.
	onOnline func()
}

// NewConnectivityObserver subscribes to events, where each value is the new
// networkDown state.
func NewConnectivityObserver(state *ConnState, events <-chan bool, onOnline func()) *ConnectivityObserver {
	return &ConnectivityObserver{
		state:    state,
		events:   events,
		onOnline: onOnline,
	}
}

func (o *ConnectivityObserver) Run(c context.Context) {
	for {
		select {
		case <-c.Done():
			return
		case down, ok := <-o.events:
			if !ok {
				return
			}

			wasDown := o.state.NetworkDown()
			o.state.SetNetworkDown(down)

			switch {
			case wasDown && !down:
				log.Info("Network connectivity restored")
				if o.onOnline != nil {
					o.onOnline()
				}
			case !wasDown && down:
				log.Warn("Network connectivity lost")
			}
		}
	}
}
