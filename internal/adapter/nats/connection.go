package nats

import (
	"fmt"
	"time"

	"github.com/Abdurahmanit/GroupProject/adbrowser-service/internal/app/config"
	"github.com/Abdurahmanit/GroupProject/adbrowser-service/internal/platform/logger"
	"github.com/nats-io/nats.go"
)

const (
	connectWait   = 5 * time.Second
	maxReconnects = -1
	reconnectWait = 2 * time.Second
)

// NewConnection connects with unlimited reconnects. Link state changes are
// logged and, when signal is not nil, reported to it.
func NewConnection(cfg config.NATSConfig, signal *Signal, log logger.Logger) (*nats.Conn, error) {
	h := &linkHandlers{signal: signal, log: log}

	opts := []nats.Option{
		nats.Name("AdBrowser Service"),
		nats.Timeout(connectWait),
		nats.MaxReconnects(maxReconnects),
		nats.ReconnectWait(reconnectWait),
		nats.DisconnectErrHandler(h.disconnected),
		nats.ReconnectHandler(h.reconnected),
		nats.ClosedHandler(h.closed),
	}

	nc, err := nats.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS at %s: %w", cfg.URL, err)
	}
	if signal != nil {
		signal.Bind(nc)
	}

	return nc, nil
}

type linkHandlers struct {
	signal *Signal
	log    logger.Logger
}

func (h *linkHandlers) disconnected(_ *nats.Conn, err error) {
	if err != nil {
		h.log.Warnf("NATS disconnected: %v", err)
	} else {
		h.log.Warn("NATS disconnected")
	}
	if h.signal != nil {
		h.signal.SetOnline(false)
	}
}

func (h *linkHandlers) reconnected(nc *nats.Conn) {
	h.log.Infof("NATS reconnected to %s", nc.ConnectedUrl())
	if h.signal != nil {
		h.signal.SetOnline(true)
	}
}

func (h *linkHandlers) closed(_ *nats.Conn) {
	h.log.Info("NATS connection closed")
	if h.signal != nil {
		h.signal.SetOnline(false)
	}
}
