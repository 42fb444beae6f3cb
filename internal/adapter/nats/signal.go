package nats

import (
	"github.com/Abdurahmanit/GroupProject/adbrowser-service/internal/connectivity"
	"github.com/nats-io/nats.go"
)

// Signal reports the NATS link as the network state.
type Signal struct {
	*connectivity.Manual
}

var _ connectivity.Signal = (*Signal)(nil)

// NewSignal starts offline until a connection is bound.
func NewSignal() *Signal {
	return &Signal{Manual: connectivity.NewManual(false)}
}

// Bind takes the initial state from an established connection.
func (s *Signal) Bind(nc *nats.Conn) {
	s.SetOnline(nc != nil && nc.IsConnected())
}
