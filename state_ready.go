package gateway

import (
	"fmt"
	"io"

	"github.com/relaygate/discordgw/opcode"
)

// ReadyState is entered right after an IDENTIFY is sent. The Identifying
// → Running transition (spec.md §4.3) happens on the first valid
// dispatch, which is routed through the dispatch router here (so the
// READY bootstrap handler in bootstrap.go actually runs) before the
// session moves into steady-state ConnectedState.
type ReadyState struct {
	*StateCtx
}

func (st *ReadyState) String() string {
	return "ready"
}

func (st *ReadyState) Process(payload *Payload, pipe io.Writer) error {
	if payload.Op != opcode.Dispatch {
		st.StateCtx.SetState(&ClosedState{})
		return fmt.Errorf("incorrect opcode: %d, wants %d", int(payload.Op), int(opcode.Dispatch))
	}

	if st.StateCtx.client.router != nil {
		st.StateCtx.client.router.dispatch(st.StateCtx.client, payload, pipe)
	}

	st.StateCtx.SetState(&ConnectedState{StateCtx: st.StateCtx})
	return nil
}
