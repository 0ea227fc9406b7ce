// Package opcode defines the voice gateway's operation codes. These are
// a separate numbering from the main gateway's opcode.Type — the voice
// websocket is a distinct protocol Discord multiplexes per guild.
package opcode

type Type uint8

const (
	Identify Type = iota
	SelectProtocol
	Ready
	Heartbeat
	SessionDescription
	Speaking
	HeartbeatAck
	Resume
	Hello
	Resumed
	_
	_
	_
	ClientDisconnect
)
