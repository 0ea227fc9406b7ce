package gateway

import (
	"fmt"
	"io"
	"time"

	"github.com/relaygate/discordgw/command"
	"github.com/relaygate/discordgw/json"
	"github.com/relaygate/discordgw/opcode"
)

type Hello struct {
	HeartbeatIntervalMilli int64 `json:"heartbeat_interval"`
}

type HelloState struct {
	*StateCtx
	Identity *Identify
}

func (st *HelloState) String() string {
	return "hello"
}

// Process implements the AwaitingHello → Identifying|Resuming
// transition (spec.md §4.3): send RESUME if the session is reconnecting
// with a known session id, else IDENTIFY; either way, arm the
// heartbeat before the handshake response is awaited.
func (st *HelloState) Process(payload *Payload, pipe io.Writer) error {
	if payload.Op != opcode.Hello {
		st.StateCtx.SetState(&ClosedState{})
		return fmt.Errorf("incorrect opcode: %d, wants hello", int(payload.Op))
	}

	var hello Hello
	if err := json.Unmarshal(payload.Data, &hello); err != nil {
		st.StateCtx.SetState(&ClosedState{})
		return err
	}

	handler := st.StateCtx.client.heartbeatHandler
	closePipe := st.StateCtx.client.currentClosePipe()
	handler.Configure(st.StateCtx, pipe, closePipe, time.Duration(hello.HeartbeatIntervalMilli)*time.Millisecond)
	go handler.Run()

	if st.StateCtx.reconnecting.Load() && st.StateCtx.SessionID != "" {
		return st.sendResume(pipe)
	}
	return st.sendIdentify(pipe)
}

func (st *HelloState) sendIdentify(pipe io.Writer) error {
	data, err := json.Marshal(st.Identity)
	if err != nil {
		st.StateCtx.SetState(&ClosedState{})
		return fmt.Errorf("unable to marshal identify payload: %w", err)
	}

	if err = st.StateCtx.Write(pipe, command.Identify, data); err != nil {
		st.StateCtx.SetState(&ClosedState{})
		return err
	}

	st.StateCtx.SetState(&ReadyState{StateCtx: st.StateCtx})
	return nil
}

func (st *HelloState) sendResume(pipe io.Writer) error {
	resume := Resume{
		BotToken:       st.Identity.BotToken,
		SessionID:      st.StateCtx.SessionID,
		SequenceNumber: st.StateCtx.sequenceNumber.Load(),
	}
	data, err := json.Marshal(&resume)
	if err != nil {
		st.StateCtx.SetState(&ClosedState{})
		return fmt.Errorf("unable to marshal resume payload: %w", err)
	}

	if err = st.StateCtx.Write(pipe, command.Resume, data); err != nil {
		st.StateCtx.SetState(&ClosedState{})
		return err
	}

	st.StateCtx.SetState(&ResumeState{ConnectedState: &ConnectedState{StateCtx: st.StateCtx}})
	return nil
}
