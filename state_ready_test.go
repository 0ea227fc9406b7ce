package gateway

import (
	"bytes"
	"testing"

	"github.com/relaygate/discordgw/event"
	"github.com/relaygate/discordgw/opcode"
)

func NewReadyStateClient(t *testing.T, options ...Option) *Client {
	client := NewClientMust(t, options...)
	client.ctx.SetState(&ReadyState{StateCtx: client.ctx})
	return client
}

func TestReadyState_String(t *testing.T) {
	state := &ReadyState{StateCtx: nil}
	got := state.String()
	wants := "ready"
	if got != wants {
		t.Errorf("incorrect state name. Got %s, wants %s", got, wants)
	}
}

func TestReadyState_Process(t *testing.T) {
	options := append(commonOptions, []Option{}...)

	t.Run("unexpected payload", func(t *testing.T) {
		client := NewReadyStateClient(t, options...)
		state := client.ctx.state.(*ReadyState)

		// a hello payload is not a valid dispatch
		payload := &Payload{Op: opcode.Hello, Data: []byte(`{"heartbeat_interval":45}`)}
		buffer := &bytes.Buffer{}

		if err := state.Process(payload, buffer); err == nil {
			t.Fatal("should have failed")
		}

		if _, ok := client.ctx.state.(*ClosedState); !ok {
			t.Error("state was not closed")
		}
	})

	t.Run("ok", func(t *testing.T) {
		client := NewReadyStateClient(t, options...)
		state := client.ctx.state.(*ReadyState)

		payload := &Payload{
			Op:        opcode.Dispatch,
			EventName: event.Ready,
			Data:      []byte(`{"v":10, "session_id": "test", "resume_gateway_url": "test.com"}`),
		}
		buffer := &bytes.Buffer{}

		if err := state.Process(payload, buffer); err != nil {
			t.Fatal("should properly handle the dispatch payload")
		}

		if _, ok := client.ctx.state.(*ConnectedState); !ok {
			t.Fatal("state was not set to connected")
		}

		if client.ctx.SessionID == "" {
			t.Error("forgot to save session id")
		}
		if client.ctx.ResumeGatewayURL == "" {
			t.Error("forgot to save resume url")
		}
	})
}
