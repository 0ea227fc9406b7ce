package gateway

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net"
	"strings"
	"time"

	"github.com/gobwas/ws"
	"github.com/gobwas/ws/wsutil"
	"github.com/klauspost/compress/zlib"

	"github.com/relaygate/discordgw/closecode"
	"github.com/relaygate/discordgw/gatewayresolver"
	"github.com/relaygate/discordgw/json"
	"github.com/relaygate/discordgw/opcode"
)

const (
	reconnectBaseDelay = 500 * time.Millisecond
	reconnectMaxDelay  = 30 * time.Second
)

// Transport owns the WebSocket connection lifecycle: gateway URL
// discovery, dialing, the read loop, and the reconnect-with-backoff
// policy spec.md §9 recommends in place of the original's unbounded
// immediate retries.
type Transport struct {
	client *Client
}

func NewTransport(c *Client) *Transport {
	return &Transport{client: c}
}

// Run dials and drives the session until ctx is cancelled or a fatal
// error occurs (CLOSE_INVALID_TOKEN — spec.md §4.3 "Any → Fatal").
func (t *Transport) Run(ctx context.Context) error {
	attempt := 0
	for {
		var url string
		if t.client.ctx.reconnecting.Load() && t.client.ctx.ResumeGatewayURL != "" {
			resumeURL, err := gatewayDialURLFromResume(t.client.ctx.ResumeGatewayURL)
			if err == nil {
				url = resumeURL
			}
		}
		if url == "" {
			discovered, err := t.client.resolver.GatewayURL(ctx)
			if err != nil {
				discovered = "wss://gateway.discord.gg/?v=10&encoding=json"
			}
			url = discovered
		}

		conn, err := t.dial(ctx, url)
		if err != nil {
			t.client.logger.Error("gateway dial failed: %s", err)
			if waitErr := t.backoff(ctx, attempt); waitErr != nil {
				return waitErr
			}
			attempt++
			continue
		}

		err = t.readLoop(ctx, conn)
		_ = conn.Close()
		// A graceful opcode-driven close (OP_RECONNECT, OP_INVALID_SESSION)
		// already stopped the handler; this covers every other exit from
		// readLoop (read errors, ordinary close frames) so the next
		// HelloState always Configures a handler with a fresh stopOnce
		// instead of piling another live goroutine on top of a leaked one.
		t.client.heartbeatHandler.Stop()

		var fatal *fatalError
		if errors.As(err, &fatal) {
			return fatal.err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		t.client.logger.Error("gateway connection ended, reconnecting: %s", err)

		// OP_INVALID_SESSION already cleared reconnecting so the next HELLO
		// sends IDENTIFY; every other exit is resume-eligible.
		var discordErr *DiscordError
		if !errors.As(err, &discordErr) || discordErr.OpCode != opcode.InvalidSession {
			t.client.ctx.reconnecting.Store(true)
		}
		t.client.ctx.reconnectCount.Add(1)
		t.client.ctx.closed.Store(false)
		t.client.ctx.SetState(&HelloState{
			StateCtx: t.client.ctx,
			Identity: t.client.identifyPayload,
		})

		if waitErr := t.backoff(ctx, attempt); waitErr != nil {
			return waitErr
		}
		attempt++
	}
}

// ioWriteFlusher adapts a *wsutil.Writer, which only buffers until
// Flush is called, into a plain io.Writer that emits one frame per
// Write call. Without this, bytes queued by StateCtx.Write/WriteNormalClose/
// WriteCloseCode sit in the wsutil buffer until it fills or something else flushes
// it, and nothing else in this package does.
type ioWriteFlusher struct {
	writer *wsutil.Writer
}

func (w *ioWriteFlusher) Write(p []byte) (int, error) {
	n, err := w.writer.Write(p)
	if err != nil {
		return n, err
	}
	return n, w.writer.Flush()
}

// fatalError wraps an error that must stop the reconnect loop entirely.
type fatalError struct{ err error }

func (f *fatalError) Error() string { return f.err.Error() }
func (f *fatalError) Unwrap() error { return f.err }

// backoff waits an exponentially growing, jittered delay before the
// next connect attempt (spec.md §9 "exponential backoff with jitter,
// capped").
func (t *Transport) backoff(ctx context.Context, attempt int) error {
	delay := reconnectBaseDelay * time.Duration(1<<uint(attempt))
	if delay > reconnectMaxDelay || delay <= 0 {
		delay = reconnectMaxDelay
	}
	jitter := time.Duration(rand.Int63n(int64(delay) / 2))
	delay = delay/2 + jitter

	select {
	case <-time.After(delay):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// gatewayDialURLFromResume turns the resume_gateway_url READY carried
// (spec.md §4.5) into a full dial URL the same way gatewayresolver builds
// one from a discovered host, so a resume reconnect lands on the session's
// own gateway shard rather than re-running discovery.
func gatewayDialURLFromResume(base string) (string, error) {
	base = strings.TrimSuffix(base, "/")
	if base == "" {
		return "", fmt.Errorf("empty resume gateway url")
	}
	return fmt.Sprintf("%s/?v=%s&encoding=json", base, gatewayresolver.GatewayVersion), nil
}

func (t *Transport) dial(ctx context.Context, url string) (net.Conn, error) {
	conn, _, _, err := ws.Dial(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to dial gateway: %w", err)
	}
	return conn, nil
}

// readLoop reads frames until the connection closes or a fatal error
// surfaces. Binary frames are zlib-inflated before JSON decode (spec.md
// §4.1); text frames decode directly.
func (t *Transport) readLoop(ctx context.Context, conn net.Conn) error {
	controlHandler := wsutil.ControlFrameHandler(conn, ws.StateClientSide)
	rd := wsutil.Reader{
		Source:          conn,
		State:           ws.StateClientSide,
		CheckUTF8:       true,
		SkipHeaderCheck: false,
		OnIntermediate:  controlHandler,
	}
	textWriter := &ioWriteFlusher{writer: wsutil.NewWriter(conn, ws.StateClientSide, ws.OpText)}
	closeWriter := &ioWriteFlusher{writer: wsutil.NewWriter(conn, ws.StateClientSide, ws.OpClose)}
	t.client.setClosePipe(closeWriter)

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		hdr, err := rd.NextFrame()
		if err != nil {
			if strings.Contains(err.Error(), "i/o timeout") {
				continue
			}
			return fmt.Errorf("failed to read frame: %w", err)
		}

		if hdr.OpCode.IsControl() {
			if err := controlHandler(hdr, &rd); err != nil {
				var closedErr wsutil.ClosedError
				if errors.As(err, &closedErr) {
					return t.handleClose(uint32(closedErr.Code), closedErr.Reason)
				}
				return fmt.Errorf("failed to handle control frame: %w", err)
			}
			continue
		}

		var payloadBytes []byte
		switch {
		case hdr.OpCode == ws.OpText:
			payloadBytes, err = io.ReadAll(&rd)
		case hdr.OpCode == ws.OpBinary:
			// compress:true in IDENTIFY means each dispatch payload
			// arrives as an independent zlib stream, one per frame
			// (spec.md §4.1): a fresh reader per frame, not a
			// connection-wide one.
			var zr io.ReadCloser
			zr, err = zlib.NewReader(&rd)
			if err == nil {
				var buf bytes.Buffer
				_, err = io.Copy(&buf, zr)
				_ = zr.Close()
				payloadBytes = buf.Bytes()
			}
		default:
			if err = rd.Discard(); err != nil {
				return fmt.Errorf("failed to discard frame: %w", err)
			}
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to decode frame: %w", err)
		}

		var payload Payload
		if err := json.Unmarshal(payloadBytes, &payload); err != nil {
			t.client.logger.Warn("malformed gateway frame dropped: %s", err)
			continue
		}

		if perr := t.client.ProcessNextPayload(&payload, textWriter); perr != nil {
			var discordErr *DiscordError
			if errors.As(perr, &discordErr) && closecode.IsFatal(discordErr.CloseCode) {
				return &fatalError{err: perr}
			}
			return perr
		}
	}
}

func (t *Transport) handleClose(code uint32, reason string) error {
	cc := closecode.Type(code)
	discordErr := t.client.HandleCloseFrame(cc, reason)

	if closecode.IsFatal(cc) {
		t.client.logger.Error("session closed: %s", reason)
		return &fatalError{err: discordErr}
	}
	return discordErr
}
