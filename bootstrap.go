package gateway

import (
	"io"
	"sync"

	"github.com/relaygate/discordgw/json"
	"github.com/relaygate/discordgw/model"
)

// readyPayload is the full shape of a READY dispatch, used to hydrate
// identity, private channels, and the initial guild index (spec.md §4.5).
type readyPayload struct {
	SessionID        string                 `json:"session_id"`
	ResumeGatewayURL string                 `json:"resume_gateway_url"`
	User             model.User             `json:"user"`
	PrivateChannels  []model.PrivateChannel `json:"private_channels"`
	Guilds           []model.Guild          `json:"guilds"`
}

// Bootstrap tracks which guilds READY announced as still arriving
// (spec.md §3 "Guild-availability set"), draining as their GUILD_CREATE
// dispatches come in.
type Bootstrap struct {
	mu          sync.Mutex
	unavailable map[string]struct{}
}

func newBootstrap() *Bootstrap {
	return &Bootstrap{unavailable: map[string]struct{}{}}
}

func (b *Bootstrap) markUnavailable(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.unavailable[id] = struct{}{}
}

func (b *Bootstrap) resolve(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.unavailable, id)
}

func (b *Bootstrap) empty() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.unavailable) == 0
}

// handleReady is the registry handler for the READY dispatch event.
// On a resumed session the cached view is kept and re-parsing is
// skipped entirely (spec.md §4.5).
func handleReady(c *Client, payload *Payload, _ io.Writer) (interface{}, error) {
	if c.ctx.reconnecting.CompareAndSwap(true, false) {
		return &readyPayload{SessionID: c.ctx.SessionID}, nil
	}

	var ready readyPayload
	if err := json.Unmarshal(payload.Data, &ready); err != nil {
		return nil, err
	}

	c.ctx.SessionID = ready.SessionID
	c.ctx.ResumeGatewayURL = ready.ResumeGatewayURL
	c.identity = &ready.User

	for i := range ready.PrivateChannels {
		c.cache.SetPrivateChannel(&ready.PrivateChannels[i])
	}

	for i := range ready.Guilds {
		g := ready.Guilds[i]
		c.cache.SetGuild(&g)
		if g.Unavailable {
			c.bootstrap.markUnavailable(g.ID)
		}
	}

	if c.bootstrap.empty() {
		c.afterBootstrapComplete()
	}

	return &ready, nil
}

// handleGuildCreate is the registry handler for real GUILD_CREATE
// dispatches, both the ones bootstrap is still waiting on and any that
// arrive during steady-state operation (spec.md §4.5, §4.7).
func handleGuildCreate(c *Client, payload *Payload, _ io.Writer) (interface{}, error) {
	g, err := c.factory.NewGuild(payload.Data)
	if err != nil {
		return nil, err
	}
	c.cache.SetGuild(g)

	if !c.router.isReady() {
		c.bootstrap.resolve(g.ID)
		if c.bootstrap.empty() {
			c.afterBootstrapComplete()
		}
	}

	if g.Large && c.loadAllMembers {
		c.chunker.addLargeGuild(g.ID, g.MemberCount)
	}

	return g, nil
}

// handleResumed clears the reconnecting flag once Discord confirms the
// session was actually resumed, rather than forcing a fresh IDENTIFY.
func handleResumed(c *Client, _ *Payload, _ io.Writer) (interface{}, error) {
	c.ctx.reconnecting.Store(false)
	return struct{}{}, nil
}

// afterBootstrapComplete runs once the guild-availability set drains to
// empty: hand off to the chunker if large-guild backfill is enabled,
// otherwise open the ready gate directly (spec.md §4.5, §4.7).
func (c *Client) afterBootstrapComplete() {
	if c.loadAllMembers {
		c.chunker.begin(c)
		return
	}
	c.router.markReady(c)
}
