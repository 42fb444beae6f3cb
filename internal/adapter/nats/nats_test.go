package nats

import (
	"context"
	"errors"
	"testing"

	"github.com/Abdurahmanit/GroupProject/adbrowser-service/internal/app/config"
	"github.com/Abdurahmanit/GroupProject/adbrowser-service/internal/connectivity"
	"github.com/Abdurahmanit/GroupProject/adbrowser-service/internal/platform/logger"
	"github.com/stretchr/testify/assert"
)

func TestLinkHandlers_DriveSignal(t *testing.T) {
	sig := NewSignal()
	sig.SetOnline(true)

	var offline, online int
	sig.Subscribe(connectivity.EventOffline, func() { offline++ })
	sig.Subscribe(connectivity.EventOnline, func() { online++ })

	h := &linkHandlers{signal: sig, log: logger.NewNopLogger()}

	h.disconnected(nil, errors.New("io: read/write on closed pipe"))
	assert.False(t, sig.Online())
	h.disconnected(nil, nil)
	h.closed(nil)
	assert.Equal(t, 1, offline)

	sig.SetOnline(true)
	assert.Equal(t, 1, online)
}

func TestLinkHandlers_NilSignal(t *testing.T) {
	h := &linkHandlers{log: logger.NewNopLogger()}
	assert.NotPanics(t, func() {
		h.disconnected(nil, nil)
		h.closed(nil)
	})
}

func TestSignal_BindNil(t *testing.T) {
	sig := NewSignal()
	sig.SetOnline(true)
	sig.Bind(nil)
	assert.False(t, sig.Online())
}

func TestNewNATSPublisher_NilConn(t *testing.T) {
	p, err := NewNATSPublisher(nil)
	assert.Error(t, err)
	assert.Nil(t, p)
}

func TestNewConnection_Unreachable(t *testing.T) {
	_, err := NewConnection(config.NATSConfig{URL: "nats://127.0.0.1:1"}, NewSignal(), logger.NewNopLogger())
	assert.Error(t, err)
}

func TestPublishRaw_CancelledContext(t *testing.T) {
	p := &natsPublisher{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, p.PublishRaw(ctx, SubjectAdsGenerated, []byte("{}")), context.Canceled)
}
