// Package closecode defines the voice gateway's close codes, a
// separate numbering from the main gateway's closecode.Type.
package closecode

type Type uint16

const (
	_ Type = 4000 + iota
	// UnknownOpCode You sent an invalid opcode
	UnknownOpCode
	_
	// NotAuthenticated You sent a payload before identifying with the Gateway
	NotAuthenticated
	// AuthenticationFailed The token you sent in your identify payload is incorrect
	AuthenticationFailed
	// AlreadyAuthenticated You sent more than one identify payload. Stahp
	AlreadyAuthenticated
	// SessionNoLongerValid Your session is no longer valid
	SessionNoLongerValid
	_ // 4007
	_ // 4008
	// SessionTimedOut Your session has timed out
	SessionTimedOut
	_ // 4010
	// ServerNotFound We can't find the server you're trying to connect to
	ServerNotFound
	// UnknownProtocol We didn't recognize the protocol you sent
	UnknownProtocol
	_ // 4013
	// Disconnected Either the channel was deleted or you were kicked. Should not reconnect
	Disconnected
	// VoiceServerCrashed The server crashed. Our bad! Try resuming
	VoiceServerCrashed
	// UnknownEncryptionMode We didn't recognize your encryption
	UnknownEncryptionMode
)

// Reconnectable reports whether the voice client should attempt to
// resume after this close code rather than tearing the session down.
func Reconnectable(code Type) bool {
	return code != Disconnected
}
