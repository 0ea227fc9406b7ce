package gateway

import (
	"io"
	"sync"
	"time"

	"go.uber.org/atomic"

	"github.com/bradfitz/iter"

	"github.com/relaygate/discordgw/command"
	"github.com/relaygate/discordgw/json"
	"github.com/relaygate/discordgw/model"
)

const (
	chunkSize          = 50
	chunkCheckInterval = 5 * time.Second
	chunkSendSpacing   = 1 * time.Second
)

// chunker batches large-guild member backfill requests (spec.md §4.7).
// pending holds guild IDs awaiting their first chunk request in FIFO
// order; sent holds guild IDs whose chunk request went out but whose
// member population hasn't yet caught up to member_count.
type chunker struct {
	mu         sync.Mutex
	pending    []string
	pendingSet map[string]struct{}
	sent       map[string]struct{}
	expected   map[string]int
	received   map[string]map[string]struct{}

	client  *Client
	started atomic.Bool
}

func newChunker() *chunker {
	return &chunker{
		pendingSet: map[string]struct{}{},
		sent:       map[string]struct{}{},
		expected:   map[string]int{},
		received:   map[string]map[string]struct{}{},
	}
}

// addLargeGuild enqueues a guild for member backfill, invariant §3
// ("largeGuilds and largeSent are disjoint"): a guild already sent or
// already pending is not re-added.
func (ch *chunker) addLargeGuild(guildID string, memberCount int) {
	ch.mu.Lock()
	defer ch.mu.Unlock()

	if _, ok := ch.pendingSet[guildID]; ok {
		return
	}
	if _, ok := ch.sent[guildID]; ok {
		return
	}

	ch.pending = append(ch.pending, guildID)
	ch.pendingSet[guildID] = struct{}{}
	ch.expected[guildID] = memberCount
}

// begin starts the periodic chunker loop. Idempotent: a reconnect that
// re-enters bootstrap must not spawn a second loop.
func (ch *chunker) begin(c *Client) {
	if !ch.started.CompareAndSwap(false, true) {
		return
	}
	ch.client = c
	go ch.loop()
}

func (ch *chunker) loop() {
	if ch.tick() {
		return
	}
	ticker := time.NewTicker(chunkCheckInterval)
	defer ticker.Stop()
	for range ticker.C {
		if ch.tick() {
			return
		}
	}
}

// tick is one check per spec.md §4.7: if both sets are empty the gate
// opens; otherwise the current pending batch is partitioned into
// 50-id chunks and moved wholesale into sent.
func (ch *chunker) tick() bool {
	ch.mu.Lock()
	if len(ch.pending) == 0 && len(ch.sent) == 0 {
		ch.mu.Unlock()
		ch.client.router.markReady(ch.client)
		return true
	}

	batch := ch.pending
	ch.pending = nil
	ch.pendingSet = map[string]struct{}{}
	for _, id := range batch {
		ch.sent[id] = struct{}{}
	}
	ch.mu.Unlock()

	if len(batch) == 0 {
		return false
	}

	pipe := ch.client.currentPipe()
	for i, part := range partitionChunks(batch, chunkSize) {
		if i > 0 {
			time.Sleep(chunkSendSpacing)
		}
		if err := ch.sendChunk(pipe, part); err != nil && ch.client.logger != nil {
			ch.client.logger.Warn("member chunk request failed: %s", err)
		}
	}
	return false
}

func partitionChunks(ids []string, size int) [][]string {
	n := (len(ids) + size - 1) / size
	chunks := make([][]string, 0, n)
	for i := range iter.N(n) {
		start := i * size
		end := start + size
		if end > len(ids) {
			end = len(ids)
		}
		chunks = append(chunks, ids[start:end])
	}
	return chunks
}

type requestGuildMembers struct {
	GuildID []string `json:"guild_id"`
	Query   string   `json:"query"`
	Limit   int      `json:"limit"`
}

func (ch *chunker) sendChunk(pipe io.Writer, guildIDs []string) error {
	payload, err := json.Marshal(&requestGuildMembers{GuildID: guildIDs, Query: "", Limit: 0})
	if err != nil {
		return err
	}
	return ch.client.ctx.Write(pipe, command.RequestGuildMembers, payload)
}

type guildMembersChunk struct {
	GuildID    string         `json:"guild_id"`
	Members    []model.Member `json:"members"`
	ChunkIndex int            `json:"chunk_index"`
	ChunkCount int            `json:"chunk_count"`
}

// handleGuildMembersChunk hydrates members into the cache and, once a
// large guild's received count catches up to its expected member_count,
// removes it from sent. When sent drains to empty, ready() is invoked.
func handleGuildMembersChunk(c *Client, payload *Payload, _ io.Writer) (interface{}, error) {
	var chunk guildMembersChunk
	if err := json.Unmarshal(payload.Data, &chunk); err != nil {
		return nil, err
	}

	ch := c.chunker
	ch.mu.Lock()
	seen, ok := ch.received[chunk.GuildID]
	if !ok {
		seen = map[string]struct{}{}
		ch.received[chunk.GuildID] = seen
	}
	ch.mu.Unlock()

	for i := range chunk.Members {
		m := chunk.Members[i]
		m.GuildID = chunk.GuildID
		if m.Status == "" {
			m.Status = "offline"
		}
		if _, already := seen[m.User.ID]; !already {
			seen[m.User.ID] = struct{}{}
			c.cache.SetMember(&m)
			c.cache.SetUser(&m.User)
		}
	}

	ch.mu.Lock()
	expected := ch.expected[chunk.GuildID]
	received := len(seen)
	if received >= expected {
		delete(ch.sent, chunk.GuildID)
	}
	remaining := len(ch.sent) + len(ch.pending)
	ch.mu.Unlock()

	if remaining == 0 {
		c.router.markReady(c)
	}

	return &chunk, nil
}
