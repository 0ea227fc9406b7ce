package gateway

import (
	"io"

	"github.com/relaygate/discordgw/opcode"
)

// ConnectedState handles any discord events after a successful gateway connection. The only possible state after
// this is the ClosedState or it's derivatives such as a resumable state.
//
// See the Discord documentation for more information:
//   - https://discord.com/developers/docs/topics/gateway#dispatch-events
//   - https://discord.com/developers/docs/topics/gateway#heartbeat-interval-example-heartbeat-ack
//   - https://discord.com/developers/docs/topics/gateway#heartbeat-requests
type ConnectedState struct {
	*StateCtx
}

func (st *ConnectedState) Process(payload *Payload, pipe io.Writer) error {
	switch payload.Op {
	case opcode.Heartbeat:
		// server-requested heartbeat: send immediately, the periodic
		// schedule the heartbeat handler owns is left undisturbed
		// (spec.md §4.2).
		st.StateCtx.client.heartbeatHandler.HandleServerRequest()

	case opcode.HeartbeatACK:
		st.StateCtx.client.heartbeatHandler.HandleAck()

	case opcode.Reconnect:
		// OP_RECONNECT: close locally and redial; resume-eligible.
		st.StateCtx.reconnecting.Store(true)
		st.StateCtx.reconnectCount.Add(1)
		st.StateCtx.client.heartbeatHandler.Stop()
		st.StateCtx.SetState(&ResumableClosedState{StateCtx: st.StateCtx})
		return &DiscordError{OpCode: payload.Op}

	case opcode.InvalidSession:
		// OP_INVALID_SESSION: redial, but force a fresh IDENTIFY rather
		// than RESUME (spec.md §4.3).
		st.StateCtx.reconnecting.Store(false)
		st.StateCtx.client.heartbeatHandler.Stop()
		st.StateCtx.SetState(&ResumableClosedState{StateCtx: st.StateCtx})
		return &DiscordError{OpCode: payload.Op}

	case opcode.Dispatch:
		if st.StateCtx.client.router == nil {
			return nil
		}
		st.StateCtx.client.router.dispatch(st.StateCtx.client, payload, pipe)
	}

	return nil
}
