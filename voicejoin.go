package gateway

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/relaygate/discordgw/command"
	"github.com/relaygate/discordgw/event"
	"github.com/relaygate/discordgw/json"
	"github.com/relaygate/discordgw/model"
)

var (
	ErrNotVoiceChannel   = errors.New("channel is not a voice channel")
	ErrVoiceClientExists = errors.New("a voice client already exists for this guild")
)

// VoiceClient is the handle returned once a voice-join attempt
// resolves. The UDP/RTP data plane itself is outside this module's
// scope (spec.md §1); this only carries what the handshake produced.
type VoiceClient struct {
	GuildID   string
	ChannelID string
	SessionID string
	Token     string
	Endpoint  string
	Bitrate   int

	mu     sync.Mutex
	closed bool

	onClose func()
}

// Close tears the voice client down and runs its one-shot close
// callback, which removes it from the owning coordinator's table.
func (vc *VoiceClient) Close() {
	vc.mu.Lock()
	if vc.closed {
		vc.mu.Unlock()
		return
	}
	vc.closed = true
	vc.mu.Unlock()

	if vc.onClose != nil {
		vc.onClose()
	}
}

// voiceJoinAttempt is the per-attempt context spec.md §3 describes:
// partial {session_id?, endpoint?, token?}. VOICE_STATE_UPDATE fills in
// session_id and VOICE_SERVER_UPDATE fills in token and endpoint; a
// server update that arrives before the session id rejects the attempt.
// The completion fires exactly once (invariant §8.6).
type voiceJoinAttempt struct {
	guildID   string
	channelID string
	mute      bool
	deaf      bool

	mu        sync.Mutex
	sessionID string
	token     string
	endpoint  string

	stateSub  Subscription
	serverSub Subscription

	done chan struct{}
	once sync.Once
	err  error
	vc   *VoiceClient
}

// voiceCoordinator owns the voice client table (spec.md §3, invariant:
// at most one entry per guild id) and the in-flight join attempts
// keyed the same way.
type voiceCoordinator struct {
	mu       sync.Mutex
	clients  map[string]*VoiceClient
	attempts map[string]*voiceJoinAttempt
}

func newVoiceCoordinator() *voiceCoordinator {
	return &voiceCoordinator{
		clients:  map[string]*VoiceClient{},
		attempts: map[string]*voiceJoinAttempt{},
	}
}

func (vco *voiceCoordinator) get(guildID string) (*VoiceClient, bool) {
	vco.mu.Lock()
	defer vco.mu.Unlock()
	vc, ok := vco.clients[guildID]
	return vc, ok
}

// JoinVoiceChannel implements spec.md §4.8. It blocks until the
// handshake resolves with a usable VoiceClient or fails. The
// VOICE_STATE_UPDATE command is written to whichever pipe the client's
// current connection last handed ProcessNextPayload, the same source
// the chunker uses for its own out-of-band writes.
func (c *Client) JoinVoiceChannel(channel *model.Channel, mute, deaf bool) (*VoiceClient, error) {
	if !channel.IsVoice() {
		return nil, ErrNotVoiceChannel
	}

	pipe := c.currentPipe()
	if pipe == nil {
		return nil, errors.New("no active connection to join a voice channel on")
	}

	vco := c.voiceJoins
	vco.mu.Lock()
	if _, exists := vco.clients[channel.GuildID]; exists {
		vco.mu.Unlock()
		return nil, ErrVoiceClientExists
	}
	attempt := &voiceJoinAttempt{
		guildID:   channel.GuildID,
		channelID: channel.ID,
		mute:      mute,
		deaf:      deaf,
		done:      make(chan struct{}),
	}
	vco.attempts[channel.GuildID] = attempt
	vco.mu.Unlock()

	attempt.stateSub = c.emitter.On(event.VoiceStateUpdate.String(), attempt.onStateUpdate(c))
	attempt.serverSub = c.emitter.On(event.VoiceServerUpdate.String(), attempt.onServerUpdate(c, channel))

	if err := c.sendVoiceStateUpdate(pipe, channel.GuildID, &channel.ID, mute, deaf); err != nil {
		c.emitter.Off(attempt.stateSub)
		c.emitter.Off(attempt.serverSub)
		vco.mu.Lock()
		delete(vco.attempts, channel.GuildID)
		vco.mu.Unlock()
		return nil, err
	}

	<-attempt.done

	vco.mu.Lock()
	delete(vco.attempts, channel.GuildID)
	vco.mu.Unlock()

	if attempt.err != nil {
		return nil, attempt.err
	}
	return attempt.vc, nil
}

func (attempt *voiceJoinAttempt) resolve(vc *VoiceClient) {
	attempt.once.Do(func() {
		attempt.vc = vc
		close(attempt.done)
	})
}

func (attempt *voiceJoinAttempt) reject(err error) {
	attempt.once.Do(func() {
		attempt.err = err
		close(attempt.done)
	})
}

func (attempt *voiceJoinAttempt) onStateUpdate(c *Client) func(*Event) {
	return func(evt *Event) {
		vs, ok := evt.Value.(*model.VoiceState)
		if !ok || vs.GuildID != attempt.guildID {
			return
		}

		attempt.mu.Lock()
		attempt.sessionID = vs.SessionID
		attempt.mu.Unlock()

		c.emitter.Off(attempt.stateSub)
	}
}

type voiceServerUpdate struct {
	GuildID  string `json:"guild_id"`
	Token    string `json:"token"`
	Endpoint string `json:"endpoint"`
}

func (attempt *voiceJoinAttempt) onServerUpdate(c *Client, channel *model.Channel) func(*Event) {
	return func(evt *Event) {
		vsu, ok := evt.Value.(*voiceServerUpdate)
		if !ok || vsu.GuildID != attempt.guildID {
			return
		}

		attempt.mu.Lock()
		attempt.token = vsu.Token
		attempt.endpoint = vsu.Endpoint
		sessionID := attempt.sessionID
		attempt.mu.Unlock()

		c.emitter.Off(attempt.serverSub)

		if sessionID == "" {
			attempt.reject(fmt.Errorf("voice server update arrived before session id for guild %s", attempt.guildID))
			return
		}

		vc := &VoiceClient{
			GuildID:   attempt.guildID,
			ChannelID: channel.ID,
			SessionID: sessionID,
			Token:     vsu.Token,
			Endpoint:  vsu.Endpoint,
			Bitrate:   channel.Bitrate,
		}
		vc.onClose = func() {
			c.voiceJoins.mu.Lock()
			delete(c.voiceJoins.clients, attempt.guildID)
			c.voiceJoins.mu.Unlock()
		}

		c.voiceJoins.mu.Lock()
		c.voiceJoins.clients[attempt.guildID] = vc
		c.voiceJoins.mu.Unlock()

		attempt.resolve(vc)
	}
}

// GetVoiceClient looks up the VoiceClient for a guild the bot currently
// holds a resolved voice connection in (spec.md §6 getVoiceClient).
func (c *Client) GetVoiceClient(guildID string) (*VoiceClient, bool) {
	return c.voiceJoins.get(guildID)
}

func (c *Client) sendVoiceStateUpdate(pipe io.Writer, guildID string, channelID *string, mute, deaf bool) error {
	body := struct {
		GuildID   string  `json:"guild_id"`
		ChannelID *string `json:"channel_id"`
		SelfMute  bool    `json:"self_mute"`
		SelfDeaf  bool    `json:"self_deaf"`
	}{GuildID: guildID, ChannelID: channelID, SelfMute: mute, SelfDeaf: deaf}

	payload, err := json.Marshal(&body)
	if err != nil {
		return err
	}
	return c.ctx.Write(pipe, command.UpdateVoiceState, payload)
}

// handleVoiceStateUpdate hydrates the voice state and republishes it as
// the typed value dispatched to subscribers (including the voice-join
// coordinator's own one-shot listener above).
func handleVoiceStateUpdate(c *Client, payload *Payload, _ io.Writer) (interface{}, error) {
	vs, err := c.factory.NewVoiceState(payload.Data)
	if err != nil {
		return nil, err
	}
	return vs, nil
}

// handleVoiceServerUpdate does the same for VOICE_SERVER_UPDATE, which
// has no dedicated model type since it only ever feeds the voice-join
// handshake.
func handleVoiceServerUpdate(c *Client, payload *Payload, _ io.Writer) (interface{}, error) {
	var vsu voiceServerUpdate
	if err := json.Unmarshal(payload.Data, &vsu); err != nil {
		return nil, err
	}
	return &vsu, nil
}
