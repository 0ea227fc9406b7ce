package gateway

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/relaygate/discordgw/closecode"
)

func TestCloseFrameHandling(t *testing.T) {
	options := append(commonOptions, []Option{}...)

	description := "You sent more than one identify payload. Don't do that!"
	data := fmt.Sprintf(`{"closecode":%d,"d":%q}`, closecode.AlreadyAuthenticated, description)

	client := NewClientMust(t, options...)
	client.ctx.SetState(&ConnectedState{client.ctx})

	reader := strings.NewReader(data)
	buffer := &bytes.Buffer{}

	_, err := client.ProcessNext(reader, buffer)
	if err == nil {
		t.Fatal("missing error")
	}

	if got := buffer.String(); got != "" {
		t.Error("client unexpectedly wrote to connection")
	}

	var discordErr *DiscordError
	if !errors.As(err, &discordErr) {
		t.Fatal("expected DiscordError type")
	}

	if discordErr.CloseCode != closecode.AlreadyAuthenticated {
		t.Error("wrong close code")
	}
	if discordErr.Reason != description {
		t.Errorf("wrong description. Got '%s', wants '%s'", discordErr.Reason, description)
	}
}

func TestCloseFrameTransitions(t *testing.T) {
	options := append(commonOptions, []Option{}...)

	description := "description"
	resumeFrame := fmt.Sprintf(`{"closecode":%d,"d":%q}`, closecode.AlreadyAuthenticated, description)
	closeFrame := fmt.Sprintf(`{"closecode":%d,"d":%q}`, closecode.ShardingRequired, description)

	t.Run("close", func(t *testing.T) {
		client := NewClientMust(t, options...)
		client.ctx.SetState(&ConnectedState{client.ctx})

		reader := strings.NewReader(closeFrame)
		buffer := &bytes.Buffer{}

		if _, err := client.ProcessNext(reader, buffer); err == nil {
			t.Fatal("missing error")
		}

		if _, ok := client.ctx.state.(*ClosedState); !ok {
			t.Error("expected state to be closed")
		}
	})

	t.Run("resume", func(t *testing.T) {
		client := NewClientMust(t, options...)
		client.ctx.SetState(&ConnectedState{client.ctx})

		reader := strings.NewReader(resumeFrame)
		buffer := &bytes.Buffer{}

		if _, err := client.ProcessNext(reader, buffer); err == nil {
			t.Fatal("missing error")
		}

		if _, ok := client.ctx.state.(*ResumableClosedState); !ok {
			t.Error("expected state to be resumable")
		}
	})
}
