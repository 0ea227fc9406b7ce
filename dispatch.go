package gateway

import (
	"io"
	"sync"

	"go.uber.org/atomic"

	"github.com/relaygate/discordgw/event"
)

// handlerFunc hydrates one dispatch payload and returns the value to
// emit under the event's name. An error means "log and drop": the
// dispatch is not emitted under its name or aliases (only the raw event
// fires) and no internal hook runs twice over it.
type handlerFunc func(c *Client, payload *Payload, pipe io.Writer) (interface{}, error)

type registryEntry struct {
	handler handlerFunc
	aliases []event.Type
}

// bypassQueue is the event-name set the pre-READY gate never defers:
// GUILD_CREATE is explicit bootstrap traffic (spec.md §3), and the
// remaining five are the "internal handlers" spec.md §4.4 says must
// never be deferred regardless of dispatch gating.
var bypassQueue = map[event.Type]struct{}{
	event.GuildCreate:       {},
	event.Ready:             {},
	event.Resumed:           {},
	event.VoiceServerUpdate: {},
	event.VoiceStateUpdate:  {},
	event.GuildMembersChunk: {},
}

type queuedDispatch struct {
	payload *Payload
	pipe    io.Writer
}

// Router maps dispatch event names to handlers (spec.md §3 "Dispatch
// registry") and gates dispatch execution behind the READY bootstrap
// (spec.md §4.4, §4.6). Built once per Client in NewClient; registry
// entries are immutable afterward, matching spec.md's "immutable
// mapping" wording.
type Router struct {
	registry map[event.Type]registryEntry
	disabled map[event.Type]struct{}

	mu    sync.Mutex
	queue []queuedDispatch

	ready atomic.Bool
}

func newRouter(disabledEvents []event.Type) *Router {
	r := &Router{
		registry: map[event.Type]registryEntry{},
		disabled: map[event.Type]struct{}{},
	}
	for _, e := range disabledEvents {
		r.disabled[e] = struct{}{}
	}
	return r
}

func (r *Router) register(name event.Type, handler handlerFunc, aliases ...event.Type) {
	if _, disabled := r.disabled[name]; disabled {
		return
	}
	r.registry[name] = registryEntry{handler: handler, aliases: aliases}
}

// dispatch is called for every DISPATCH opcode frame. It drops events
// outside the configured whitelist (WithGuildEvents/WithDirectMessageEvents
// narrow subscriptions down from "every event"), enforces the pre-READY
// gate (spec.md §3 "Unparsed-packet queue"), and otherwise executes
// immediately.
func (r *Router) dispatch(c *Client, payload *Payload, pipe io.Writer) {
	_, bypass := bypassQueue[payload.EventName]

	if !bypass && c.whitelist != nil && len(c.whitelist) > 0 && !c.whitelist.Contains(payload.EventName) {
		return
	}

	if !r.ready.Load() && !bypass {
		r.mu.Lock()
		r.queue = append(r.queue, queuedDispatch{payload: payload, pipe: pipe})
		r.mu.Unlock()
		return
	}
	r.execute(c, payload, pipe)
}

func (r *Router) execute(c *Client, payload *Payload, pipe io.Writer) {
	prev := c.snapshot()

	entry, ok := r.registry[payload.EventName]
	if !ok {
		c.emitEvent(string(payload.EventName), payload.Data, prev)
		c.emitEvent(event.Raw.String(), payload, prev)
		return
	}

	value, err := entry.handler(c, payload, pipe)
	if err != nil {
		if c.logger != nil {
			c.logger.Warn("dispatch handler for %s failed: %s", payload.EventName, err)
		}
		c.emitEvent(event.Raw.String(), payload, prev)
		return
	}

	c.emitEvent(string(payload.EventName), value, prev)
	for _, alias := range entry.aliases {
		c.emitEvent(string(alias), value, prev)
	}
	c.emitEvent(event.Raw.String(), payload, prev)
}

// markReady flips the idempotent ready gate and drains whatever built
// up in the pre-READY queue, in enqueue order (spec.md §4.6).
func (r *Router) markReady(c *Client) {
	if !r.ready.CompareAndSwap(false, true) {
		return
	}

	c.emitEvent(event.ReadyEvent.String(), c.snapshot(), c.snapshot())

	r.mu.Lock()
	drained := r.queue
	r.queue = nil
	r.mu.Unlock()

	for _, qd := range drained {
		r.execute(c, qd.payload, qd.pipe)
	}
}

func (r *Router) isReady() bool {
	return r.ready.Load()
}
