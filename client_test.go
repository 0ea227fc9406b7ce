package gateway

import (
	"io"
	"testing"
	"time"
)

type NoopRateLimiter struct{}

func (rl *NoopRateLimiter) Try() (bool, time.Duration) { return true, 0 }

type NoopIdentifyRateLimiter struct{}

func (rl *NoopIdentifyRateLimiter) Try(ShardID) (bool, time.Duration) { return true, 0 }

type NopHeartbeatHandler struct{}

func (p *NopHeartbeatHandler) Configure(*StateCtx, io.Writer, io.Writer, time.Duration) {}
func (p *NopHeartbeatHandler) Run()                                                    {}
func (p *NopHeartbeatHandler) HandleAck()                                              {}
func (p *NopHeartbeatHandler) HandleServerRequest()                                    {}
func (p *NopHeartbeatHandler) Stop()                                                   {}

var _ HeartbeatHandler = (*NopHeartbeatHandler)(nil)

var commonOptions = []Option{
	WithCommandRateLimiter(&NoopRateLimiter{}),
	WithIdentifyRateLimiter(&NoopIdentifyRateLimiter{}),
	WithHeartbeatHandler(&NopHeartbeatHandler{}),
}

func NewClientMust(t *testing.T, options ...Option) *Client {
	client, err := NewClient("token", options...)
	if err != nil {
		t.Fatal(err)
	}
	return client
}
