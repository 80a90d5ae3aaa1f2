package mpsync

import "sync/atomic"

// ConnState holds the two independent reachability flags. networkDown comes
// from platform connectivity notifications, serverDown from the health
// prober. serverDown starts optimistic (false) until the first probe runs.
type ConnState struct {
	networkDown atomic.Bool
	serverDown  atomic.Bool
}

func NewConnState() *ConnState {
	return &ConnState{}
}

func (s *ConnState) SetNetworkDown(down bool) {
	s.networkDown.Store(down)
}

func (s *ConnState) SetServerDown(down bool) {
	s.serverDown.Store(down)
}

func (s *ConnState) NetworkDown() bool {
	return s.networkDown.Load()
}

func (s *ConnState) ServerDown() bool {
	return s.serverDown.Load()
}

// Online reports whether mutations can go straight to the remote.
func (s *ConnState) Online() bool {
	return !s.networkDown.Load() && !s.serverDown.Load()
}
