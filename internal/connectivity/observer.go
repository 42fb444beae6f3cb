package connectivity

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/Abdurahmanit/GroupProject/adbrowser-service/internal/platform/logger"
)

// Checker is the store side of the bridge.
type Checker interface {
	CheckOnline(ctx context.Context)
}

// Observer forwards Signal transitions into a Checker while active and keeps
// its own offline flag for display.
type Observer struct {
	signal  Signal
	checker Checker
	log     logger.Logger

	mu      sync.Mutex
	active  bool
	ctx     context.Context
	unsubs  []func()
	offline atomic.Bool
}

func NewObserver(signal Signal, checker Checker, log logger.Logger) *Observer {
	return &Observer{
		signal:  signal,
		checker: checker,
		log:     log,
	}
}

// Activate subscribes to both transitions and checks once right away.
// Calling it on an active observer does nothing.
func (o *Observer) Activate(ctx context.Context) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.active {
		return
	}
	o.active = true
	o.ctx = context.WithoutCancel(ctx)
	o.unsubs = []func(){
		o.signal.Subscribe(EventOnline, o.handle),
		o.signal.Subscribe(EventOffline, o.handle),
	}
	o.log.Debug("connectivity observer activated")

	o.checkLocked()
}

// Deactivate detaches from the signal. A transition already being handled
// finishes before Deactivate returns; none start afterwards.
func (o *Observer) Deactivate() {
	o.mu.Lock()
	defer o.mu.Unlock()

	if !o.active {
		return
	}
	for _, unsub := range o.unsubs {
		unsub()
	}
	o.unsubs = nil
	o.active = false
	o.log.Debug("connectivity observer deactivated")
}

func (o *Observer) Active() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.active
}

func (o *Observer) IsOffline() bool {
	return o.offline.Load()
}

func (o *Observer) handle() {
	o.mu.Lock()
	defer o.mu.Unlock()

	if !o.active {
		return
	}
	o.checkLocked()
}

func (o *Observer) checkLocked() {
	offline := !o.signal.Online()
	if o.offline.Swap(offline) != offline {
		o.log.Infof("connectivity changed: offline=%t", offline)
	}
	o.checker.CheckOnline(o.ctx)
}
