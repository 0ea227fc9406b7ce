package gateway

import (
	"errors"
	"fmt"
	"io"
	"net"
	"time"

	"go.uber.org/atomic"

	"github.com/relaygate/discordgw/closecode"
	"github.com/relaygate/discordgw/command"
	"github.com/relaygate/discordgw/json"
	"github.com/relaygate/discordgw/opcode"
)

// commandToOpcode maps the commands a session is allowed to send to the
// wire opcode that carries them. command.Type's numeric values already
// mirror Discord's opcode numbering, but opcode.Type packs direction
// flags into its high bits, so the two are not interchangeable by cast.
var commandToOpcode = map[command.Type]opcode.Type{
	command.Heartbeat:           opcode.Heartbeat,
	command.Identify:            opcode.Identify,
	command.UpdatePresence:      opcode.PresenceUpdate,
	command.UpdateVoiceState:    opcode.VoiceStateUpdate,
	command.Resume:              opcode.Resume,
	command.RequestGuildMembers: opcode.RequestGuildMembers,
}

func opcodeFromCommand(opc command.Type) opcode.Type {
	if op, ok := commandToOpcode[opc]; ok {
		return op
	}
	return opcode.Invalid
}

// State is implemented by every state the session can be in. Process
// receives the next payload read off the wire and decides, based on
// what state it holds, whether to reply, transition, or both.
//
// This replaces the dynamic State.Update fall-through of the monolithic
// generation with one explicit accessor per state, so a reader can find
// every legal transition by grepping for SetState instead of tracing a
// switch statement's control flow.
type State interface {
	Process(payload *Payload, pipe io.Writer) error
}

// StateCtx is the mutable session context shared by every State value a
// session moves through. It is confined to the goroutine driving the
// connection except for the fields explicitly guarded by atomics, which
// the heartbeat goroutine also touches.
type StateCtx struct {
	client *Client
	state  State

	SessionID        string
	ResumeGatewayURL string

	sequenceNumber atomic.Int64
	heartbeatACK   atomic.Bool
	closed         atomic.Bool
	reconnecting   atomic.Bool
	reconnectCount atomic.Int32
}

func (ctx *StateCtx) SetState(s State) {
	ctx.state = s
}

func (ctx *StateCtx) CurrentState() State {
	return ctx.state
}

func (ctx *StateCtx) Process(payload *Payload, pipe io.Writer) error {
	if ctx.state == nil {
		return errors.New("session has no active state")
	}
	return ctx.state.Process(payload, pipe)
}

// Write serializes an outgoing command, honoring the configured rate
// limiters before putting bytes on the wire. Heartbeats bypass the
// command rate limiter entirely: Discord expects them on a fixed clock
// regardless of how much of the bucket other commands have spent.
func (ctx *StateCtx) Write(pipe io.Writer, opc command.Type, payload json.RawMessage) (err error) {
	if ctx.closed.Load() {
		return net.ErrClosed
	}

	if opc != command.Heartbeat {
		if ok, timeout := ctx.client.commandRateLimiter.Try(); !ok {
			<-time.After(timeout)
		}
	}
	if opc == command.Identify {
		if available, _ := ctx.client.identifyRateLimiter.Try(ctx.client.id); !available {
			return errors.New("identify rate limiter denied shard to identify")
		}
	}

	packet := Payload{
		Op:   opcodeFromCommand(opc),
		Data: payload,
	}

	data, err := json.Marshal(&packet)
	if err != nil {
		return fmt.Errorf("unable to marshal packet: %w", err)
	}

	if _, err = pipe.Write(data); err != nil {
		return fmt.Errorf("write failed: %w", err)
	}
	return nil
}

// WriteNormalClose sends a locally-initiated close frame and marks the
// session closed. Safe to call more than once; only the first call
// writes anything. pipe must be a writer configured for the WebSocket
// close opcode, not the same one ordinary commands go out on.
func (ctx *StateCtx) WriteNormalClose(pipe io.Writer) error {
	if !ctx.closed.CompareAndSwap(false, true) {
		return net.ErrClosed
	}

	code := uint16(NormalCloseCode)
	if _, err := pipe.Write([]byte{byte(code >> 8), byte(code)}); err != nil {
		return fmt.Errorf("failed to write close frame: %w", err)
	}
	return nil
}

// WriteCloseCode sends a close frame carrying the given close code; the
// heartbeat watchdog uses it with closecode.ClientReconnecting once ACKs
// stop arriving. pipe must be a writer configured for the WebSocket
// close opcode.
func (ctx *StateCtx) WriteCloseCode(pipe io.Writer, code closecode.Type) error {
	if !ctx.closed.CompareAndSwap(false, true) {
		return net.ErrClosed
	}

	buf := [2]byte{byte(uint32(code) >> 8), byte(code)}
	if _, err := pipe.Write(buf[:]); err != nil {
		return fmt.Errorf("failed to write close frame: %w", err)
	}
	return nil
}
