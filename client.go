package gateway

import (
	"errors"
	"io"
	"runtime"
	"sync"

	"github.com/relaygate/discordgw/cache"
	"github.com/relaygate/discordgw/closecode"
	"github.com/relaygate/discordgw/command"
	"github.com/relaygate/discordgw/event"
	"github.com/relaygate/discordgw/factory"
	"github.com/relaygate/discordgw/gatewayresolver"
	"github.com/relaygate/discordgw/intent"
	"github.com/relaygate/discordgw/internal/util"
	"github.com/relaygate/discordgw/json"
	"github.com/relaygate/discordgw/model"
)

var ErrOutOfSync = errors.New("sequence number was out of sync")

func NewClient(botToken string, options ...Option) (*Client, error) {
	client := &Client{
		botToken:         botToken,
		emitter:          NewEmitter(),
		cache:            cache.NewMemory(),
		factory:          factory.Default{},
		logger:           &nopLogger{},
		resolver:         gatewayresolver.NewDefault(botToken),
		bootstrap:        newBootstrap(),
		chunker:          newChunker(),
		voiceJoins:       newVoiceCoordinator(),
		heartbeatHandler: &DefaultHeartbeatHandler{},
	}
	client.ctx = &StateCtx{client: client}

	for i := range options {
		if err := options[i](client); err != nil {
			return nil, err
		}
	}

	client.router = newRouter(client.disabledEvents)
	client.router.register(event.Ready, handleReady)
	client.router.register(event.Resumed, handleResumed, event.Reconnected)
	client.router.register(event.GuildCreate, handleGuildCreate)
	client.router.register(event.GuildMembersChunk, handleGuildMembersChunk)
	client.router.register(event.VoiceStateUpdate, handleVoiceStateUpdate)
	client.router.register(event.VoiceServerUpdate, handleVoiceServerUpdate)

	if client.intents == 0 && (len(client.guildEvents) > 0 || len(client.directMessageEvents) > 0) {
		// derive intents
		client.intents |= intent.GuildEventsToIntents(client.guildEvents)
		client.intents |= intent.DMEventsToIntents(client.directMessageEvents)

		// whitelisted events specified events only
		client.whitelist = util.Set[event.Type]{}
		client.whitelist.Add(client.guildEvents...)
		client.whitelist.Add(client.directMessageEvents...)

		// crucial for normal function
		client.whitelist.Add(event.Ready, event.Resumed)
	}

	// rate limits
	if client.commandRateLimiter == nil {
		return nil, errors.New("missing command rate limiter - try 'gateway.NewCommandRateLimiter()'")
	}
	if client.identifyRateLimiter == nil {
		return nil, errors.New("missing identify rate limiter - try 'gateway.NewLocalIdentifyRateLimiter()'")
	}

	// connection properties
	if client.connectionProperties == nil {
		client.connectionProperties = &IdentifyConnectionProperties{
			OS:      runtime.GOOS,
			Browser: "github.com/relaygate/discordgw",
			Device:  "github.com/relaygate/discordgw",
		}
	}

	// sharding
	if client.totalNumberOfShards == 0 {
		if client.id == 0 {
			client.totalNumberOfShards = 1
		} else {
			return nil, errors.New("missing shard count")
		}
	}
	if int(client.id) > client.totalNumberOfShards {
		return nil, errors.New("shard id is higher than shard count")
	}

	client.identifyPayload = &Identify{
		BotToken:       botToken,
		Properties:     &client.connectionProperties,
		Compress:       true,
		LargeThreshold: 0,
		Shard:          [2]int{int(client.id), client.totalNumberOfShards},
		Presence:       nil,
		Intents:        client.intents,
	}
	client.ctx.state = &HelloState{
		StateCtx: client.ctx,
		Identity: client.identifyPayload,
	}
	return client, nil
}

type Client struct {
	botToken string
	id       ShardID

	// events that are not found in the whitelist are viewed as redundant and are
	// skipped / ignored
	whitelist           util.Set[event.Type]
	directMessageEvents []event.Type
	guildEvents         []event.Type
	disabledEvents      []event.Type

	intents intent.Type

	ctx                  *StateCtx
	commandRateLimiter   CommandRateLimiter
	identifyRateLimiter  IdentifyRateLimiter
	heartbeatHandler     HeartbeatHandler
	connectionProperties interface{}
	totalNumberOfShards  int

	router     *Router
	emitter    *Emitter
	logger     Logger
	cache      cache.Cache
	factory    factory.EntityFactory
	resolver   gatewayresolver.Resolver
	bootstrap  *Bootstrap
	chunker    *chunker
	voiceJoins *voiceCoordinator

	loadAllMembers  bool
	identity        *model.User
	identifyPayload *Identify

	pipeMu    sync.RWMutex
	pipe      io.Writer
	closePipe io.Writer
}

// snapshot captures the session-identifying fields as they stand right
// now, for handlers to diff against after processing a dispatch
// (spec.md §9 "emit an immutable snapshot value" redesign note).
func (c *Client) snapshot() Snapshot {
	return Snapshot{
		SessionID:      c.ctx.SessionID,
		SequenceNumber: c.ctx.sequenceNumber.Load(),
		Reconnecting:   c.ctx.reconnecting.Load(),
		ReconnectCount: c.ctx.reconnectCount.Load(),
	}
}

func (c *Client) emitEvent(name string, value interface{}, prev Snapshot) {
	c.emitter.emit(&Event{Name: name, Value: value, Client: c, Previous: prev})
}

// Me returns the authenticated bot's own user record, or nil before
// READY hydrates it. Replaces the dynamic fall-through-to-inner-user
// pattern spec.md §9 flags with an explicit accessor.
func (c *Client) Me() *model.User {
	return c.identity
}

func (c *Client) setPipe(pipe io.Writer) {
	c.pipeMu.Lock()
	c.pipe = pipe
	c.pipeMu.Unlock()
}

func (c *Client) currentPipe() io.Writer {
	c.pipeMu.RLock()
	defer c.pipeMu.RUnlock()
	return c.pipe
}

// setClosePipe records the writer that sends frames with the WebSocket
// OpClose opcode for the current connection, kept separate from pipe
// (OpText) since a close code must travel as a close control frame, not
// a text frame.
func (c *Client) setClosePipe(pipe io.Writer) {
	c.pipeMu.Lock()
	c.closePipe = pipe
	c.pipeMu.Unlock()
}

func (c *Client) currentClosePipe() io.Writer {
	c.pipeMu.RLock()
	defer c.pipeMu.RUnlock()
	return c.closePipe
}

// On subscribes fn to every emission of the named event. See Emitter.On.
func (c *Client) On(name string, fn func(*Event)) Subscription {
	return c.emitter.On(name, fn)
}

// Once subscribes fn to the next emission of the named event, then
// removes it. See Emitter.Once.
func (c *Client) Once(name string, fn func(*Event)) Subscription {
	return c.emitter.Once(name, fn)
}

// Off removes a subscription registered with On or Once.
func (c *Client) Off(sub Subscription) {
	c.emitter.Off(sub)
}

func (c *Client) ResumeDetails() (resumeGatewayURL string, sessionID string, err error) {
	if st, ok := c.ctx.state.(*ResumableClosedState); ok {
		return st.ResumeGatewayURL, st.SessionID, nil
	}
	return "", "", errors.New("not a resumable state")
}

// Close sends a normal close frame over the connection's dedicated
// OpClose writer and marks the session closed.
func (c *Client) Close() error {
	return c.ctx.WriteNormalClose(c.currentClosePipe())
}

// UpdatePresence sends OP 3 PRESENCE_UPDATE (spec.md §6 updatePresence),
// setting the bot's activity and online/idle status. game may be nil to
// clear the current activity.
func (c *Client) UpdatePresence(game interface{}, idle bool) error {
	pipe := c.currentPipe()
	if pipe == nil {
		return errors.New("no active connection to update presence on")
	}

	status := "online"
	if idle {
		status = "idle"
	}

	body := struct {
		Since  *int64      `json:"since"`
		Game   interface{} `json:"game"`
		Status string      `json:"status"`
		AFK    bool        `json:"afk"`
	}{Since: nil, Game: game, Status: status, AFK: idle}

	payload, err := json.Marshal(&body)
	if err != nil {
		return err
	}
	return c.ctx.Write(pipe, command.UpdatePresence, payload)
}

func (c *Client) ProcessNextPayload(payload *Payload, pipe io.Writer) (err error) {
	c.setPipe(pipe)

	if payload.Seq == 0 {
		return c.ctx.Process(payload, pipe)
	}
	if c.ctx.sequenceNumber.CompareAndSwap(payload.Seq-1, payload.Seq) {
		return c.ctx.Process(payload, pipe)
	} else if c.ctx.sequenceNumber.Load() >= payload.Seq {
		// already handled
		return nil
	}

	c.ctx.state = &ClosedState{}
	return ErrOutOfSync
}

func (c *Client) Write(pipe io.Writer, opc command.Type, payload json.RawMessage) error {
	return c.ctx.Write(pipe, opc, payload)
}

// ProcessNext reads one full payload from r and processes it. r carries
// either a normal gateway frame or a synthetic close-code payload (see
// Payload.CloseCode): whichever layer is feeding frames into this client
// translates a real websocket close frame into the latter before calling
// here, so the close-handling logic only has to live in one place.
func (c *Client) ProcessNext(r io.Reader, pipe io.Writer) (*Payload, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var payload Payload
	if err := json.Unmarshal(data, &payload); err != nil {
		c.ctx.SetState(&ClosedState{})
		return nil, err
	}

	if payload.CloseCode != 0 {
		return &payload, c.handleCloseCodePayload(&payload)
	}

	return &payload, c.ProcessNextPayload(&payload, pipe)
}

func (c *Client) handleCloseCodePayload(payload *Payload) error {
	var reason string
	_ = json.Unmarshal(payload.Data, &reason)
	return c.HandleCloseFrame(payload.CloseCode, reason)
}

// HandleCloseFrame applies a websocket close code, transitioning to a
// resumable or terminal closed state depending on whether Discord
// documents the code as reconnectable. Called directly by a transport
// that already parsed a real close frame off the wire, or indirectly by
// ProcessNext for a synthetic CloseCode payload.
func (c *Client) HandleCloseFrame(code closecode.Type, reason string) error {
	discordErr := &DiscordError{CloseCode: code, Reason: reason}

	if closecode.CanReconnectAfter(code) {
		c.ctx.SetState(&ResumableClosedState{StateCtx: c.ctx})
	} else {
		c.ctx.SetState(&ClosedState{})
	}
	return discordErr
}
