package gateway

import (
	"io"
	"strconv"
	"sync"
	"time"

	"github.com/relaygate/discordgw/closecode"
	"github.com/relaygate/discordgw/command"
	"github.com/relaygate/discordgw/event"
)

// maxMissedHeartbeatAcks bounds the ACK-watchdog re-arm spec.md §9
// flags as capable of unbounded recursion in the original design:
// after this many consecutive missed ACKs the handler stops resending
// and forces a reconnect instead.
const maxMissedHeartbeatAcks = 3

// HeartbeatHandler owns the periodic heartbeat send and the
// outstanding-ACK watchdog for one connection (spec.md §4.2).
type HeartbeatHandler interface {
	Configure(ctx *StateCtx, pipe io.Writer, closePipe io.Writer, interval time.Duration)
	Run()
	HandleAck()
	HandleServerRequest()
	Stop()
}

// DefaultHeartbeatHandler implements HeartbeatHandler with a
// time.Ticker for the periodic schedule and a goroutine-per-send
// watchdog timer.
type DefaultHeartbeatHandler struct {
	ctx       *StateCtx
	pipe      io.Writer
	closePipe io.Writer
	interval  time.Duration

	mu       sync.Mutex
	lastSend time.Time
	missed   int

	stopOnce sync.Once
	stop     chan struct{}
}

// Configure arms the handler for one connection. A fresh stopOnce is
// installed alongside the fresh stop channel: the handler instance is
// reused across reconnects (spec.md §9), and without this, the first
// connection's Stop() call permanently spends the sync.Once, leaving
// every later connection's Stop() a no-op and its goroutines leaked.
func (p *DefaultHeartbeatHandler) Configure(ctx *StateCtx, pipe io.Writer, closePipe io.Writer, interval time.Duration) {
	p.ctx = ctx
	p.pipe = pipe
	p.closePipe = closePipe
	p.interval = interval
	p.stopOnce = sync.Once{}
	p.stop = make(chan struct{})
}

// Run starts the periodic schedule: one immediate heartbeat, then one
// every interval, until Stop is called (spec.md §4.2 "Setup").
func (p *DefaultHeartbeatHandler) Run() {
	p.sendHeartbeat()

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-p.stop:
			return
		case <-ticker.C:
			p.sendHeartbeat()
		}
	}
}

func (p *DefaultHeartbeatHandler) sendHeartbeat() {
	if p.ctx.closed.Load() {
		return
	}

	seq := p.ctx.sequenceNumber.Load()
	sentAt := time.Now()

	if err := p.ctx.Write(p.pipe, command.Heartbeat, []byte(strconv.FormatInt(seq, 10))); err != nil {
		p.ctx.client.logger.Warn("heartbeat send failed: %s", err)
		return
	}

	p.mu.Lock()
	p.lastSend = sentAt
	p.mu.Unlock()

	p.ctx.client.emitEvent(event.Heartbeat.String(), seq, p.ctx.client.snapshot())
	p.armWatchdog()
}

// armWatchdog waits 5 seconds for HandleAck to flip heartbeatACK true.
// If it fires unacknowledged, resend once; after maxMissedHeartbeatAcks
// consecutive misses, force a reconnect instead of resending forever.
func (p *DefaultHeartbeatHandler) armWatchdog() {
	p.ctx.heartbeatACK.Store(false)

	go func() {
		select {
		case <-p.stop:
			return
		case <-time.After(5 * time.Second):
		}

		if p.ctx.heartbeatACK.Load() {
			return
		}

		p.mu.Lock()
		p.missed++
		missed := p.missed
		p.mu.Unlock()

		if missed >= maxMissedHeartbeatAcks {
			p.ctx.client.logger.Warn("heartbeat ack missed %d times in a row, forcing reconnect", missed)
			p.ctx.client.emitEvent(event.Error.String(), "heartbeat ack watchdog exhausted", p.ctx.client.snapshot())
			_ = p.ctx.WriteCloseCode(p.closePipe, closecode.ClientReconnecting)
			p.Stop()
			return
		}

		p.ctx.client.logger.Warn("heartbeat ack not received within deadline, resending")
		p.sendHeartbeat()
	}()
}

// HandleAck cancels the watchdog and emits the round-trip observation.
func (p *DefaultHeartbeatHandler) HandleAck() {
	p.ctx.heartbeatACK.Store(true)

	p.mu.Lock()
	sentAt := p.lastSend
	p.missed = 0
	p.mu.Unlock()

	var rtt int64
	if !sentAt.IsZero() {
		rtt = time.Since(sentAt).Milliseconds()
	}
	p.ctx.client.emitEvent(event.HeartbeatAck.String(), rtt, p.ctx.client.snapshot())
}

// HandleServerRequest sends one heartbeat in response to a
// server-requested HEARTBEAT, leaving the periodic ticker untouched.
func (p *DefaultHeartbeatHandler) HandleServerRequest() {
	p.sendHeartbeat()
}

func (p *DefaultHeartbeatHandler) Stop() {
	p.stopOnce.Do(func() {
		close(p.stop)
	})
}

var _ HeartbeatHandler = (*DefaultHeartbeatHandler)(nil)
