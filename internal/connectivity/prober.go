package connectivity

import (
	"context"
	"net"
	"time"

	"github.com/Abdurahmanit/GroupProject/adbrowser-service/internal/platform/logger"
)

const (
	DefaultProbeInterval = 10 * time.Second
	DefaultProbeTimeout  = 3 * time.Second
)

type dialFunc func(ctx context.Context, network, address string) (net.Conn, error)

// Prober treats the network as reachable while a TCP dial to address succeeds.
type Prober struct {
	*Manual

	address  string
	interval time.Duration
	timeout  time.Duration
	dial     dialFunc
	log      logger.Logger
}

// NewProber falls back to the default interval and timeout for non-positive
// values.
func NewProber(address string, interval, timeout time.Duration, log logger.Logger) *Prober {
	if interval <= 0 {
		log.Warnf("connectivity probe interval %v is not positive, using %v", interval, DefaultProbeInterval)
		interval = DefaultProbeInterval
	}
	if timeout <= 0 {
		log.Warnf("connectivity probe timeout %v is not positive, using %v", timeout, DefaultProbeTimeout)
		timeout = DefaultProbeTimeout
	}

	d := &net.Dialer{}
	return &Prober{
		Manual:   NewManual(true),
		address:  address,
		interval: interval,
		timeout:  timeout,
		dial:     d.DialContext,
		log:      log,
	}
}

// Probe dials once and updates the state.
func (p *Prober) Probe(ctx context.Context) bool {
	dialCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	conn, err := p.dial(dialCtx, "tcp", p.address)
	if err != nil {
		if p.Online() {
			p.log.Warnf("connectivity probe to %s failed: %v", p.address, err)
		}
		p.SetOnline(false)
		return false
	}
	_ = conn.Close()

	if !p.Online() {
		p.log.Infof("connectivity probe to %s succeeded, network is back", p.address)
	}
	p.SetOnline(true)
	return true
}

// Start probes once synchronously, then keeps probing every interval until
// ctx is done.
func (p *Prober) Start(ctx context.Context) {
	p.Probe(ctx)

	go func() {
		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				p.Probe(ctx)
			}
		}
	}()
}
