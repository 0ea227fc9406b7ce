// Package encoding forwards to the json package's codec. Kept as its
// own import path since it predates the module's json package
// consolidation and call sites (tests included) already reference it.
package encoding

import "github.com/relaygate/discordgw/json"

var (
	Marshal   = json.Marshal
	Unmarshal = json.Unmarshal
)

type RawMessage = json.RawMessage
