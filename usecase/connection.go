package usecase

import (
	"sync"

	domainConnection "github.com/wasched/wasched/domains/connection"
)

type serviceConnection struct {
	mu     sync.RWMutex
	state  domainConnection.State
	notify func(domainConnection.State)
}

func NewConnectionService() domainConnection.IConnectionUsecase {
	return &serviceConnection{}
}

func (s *serviceConnection) State() domainConnection.State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Set replaces the connection state and reports whether the connected
// flag flipped. The notifier fires only on such transitions so that
// listeners are not spammed on every poll.
func (s *serviceConnection) Set(state domainConnection.State) bool {
	s.mu.Lock()
	changed := s.state.Connected != state.Connected
	s.state = state
	notify := s.notify
	s.mu.Unlock()

	if changed && notify != nil {
		notify(state)
	}
	return changed
}

func (s *serviceConnection) SetNotifier(fn func(domainConnection.State)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notify = fn
}
