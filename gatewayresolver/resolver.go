// Package gatewayresolver implements the REST collaborator from
// spec.md §4.9: discovering the gateway WebSocket URL before first
// connect, with a fixed fallback if the REST call fails.
package gatewayresolver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/relaygate/discordgw/json"
)

const (
	// DefaultURL is used whenever the REST lookup fails.
	DefaultURL = "wss://gateway.discord.gg"

	// GatewayVersion is the Discord gateway protocol version this
	// module speaks.
	GatewayVersion = "10"

	restBaseURL = "https://discord.com/api/v10"
)

var supportedAPIVersions = map[string]bool{"8": true, "9": true, "10": true}
var supportedEncodings = map[string]bool{"json": true}

var (
	ErrURLScheme            = errors.New("gateway url scheme was not ws or wss")
	ErrUnsupportedAPIVersion = fmt.Errorf("only gateway api versions %v are supported", []string{"8", "9", "10"})
	ErrUnsupportedEncoding  = errors.New("only json encoding is supported; etf is declared by discord but not implemented here")
	ErrIncompleteDialURL    = errors.New("incomplete url, missing version and/or encoding query parameters")
)

// Resolver is the gateway URL discovery collaborator spec.md §4.9 names.
type Resolver interface {
	GatewayURL(ctx context.Context) (string, error)
}

// Default hits Discord's GET /gateway/bot, authenticated with the bot
// token, and falls back to DefaultURL on any failure — a failed lookup
// is not itself fatal, since the fallback host is stable.
type Default struct {
	BotToken string
	HTTP     *http.Client
	Encoding string // "json"; any other value makes GatewayURL return ErrUnsupportedEncoding
}

// NewDefault builds a Default resolver for the given bot token, using
// json encoding and a 10-second-timeout HTTP client.
func NewDefault(botToken string) *Default {
	return &Default{BotToken: botToken, Encoding: "json"}
}

type gatewayBotResponse struct {
	URL string `json:"url"`
}

func (d *Default) GatewayURL(ctx context.Context) (string, error) {
	base, err := d.fetch(ctx)
	if err != nil {
		base = DefaultURL
	}
	return buildDialURL(base, d.encoding())
}

func (d *Default) encoding() string {
	if d.Encoding == "" {
		return "json"
	}
	return d.Encoding
}

func (d *Default) fetch(ctx context.Context) (string, error) {
	client := d.HTTP
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, restBaseURL+"/gateway/bot", nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bot "+d.BotToken)

	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("gateway/bot returned status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	var body gatewayBotResponse
	if err := json.Unmarshal(data, &body); err != nil {
		return "", err
	}
	if body.URL == "" {
		return "", errors.New("gateway/bot response carried no url")
	}
	return body.URL, nil
}

// buildDialURL trims a single trailing slash and appends the version
// and encoding query parameters, per spec.md §4.9.
func buildDialURL(base, encoding string) (string, error) {
	if !supportedEncodings[encoding] {
		return "", ErrUnsupportedEncoding
	}

	base = strings.TrimSuffix(base, "/")
	return fmt.Sprintf("%s/?v=%s&encoding=%s", base, GatewayVersion, encoding), nil
}

// ValidateDialURL checks a fully-built dial URL carries a websocket
// scheme and supported version/encoding query parameters, for callers
// constructing a URL outside of Default.
func ValidateDialURL(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}

	v := u.Query().Get("v")
	enc := u.Query().Get("encoding")
	if v == "" || enc == "" || u.Scheme == "" {
		return "", ErrIncompleteDialURL
	}
	if u.Scheme != "ws" && u.Scheme != "wss" {
		return "", ErrURLScheme
	}
	if !supportedAPIVersions[v] {
		return "", ErrUnsupportedAPIVersion
	}
	if !supportedEncodings[enc] {
		return "", ErrUnsupportedEncoding
	}
	return u.String(), nil
}
