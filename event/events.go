// Package event enumerates Discord gateway dispatch event names (opcode
// 0 "t" field values) and the handful of synthetic, library-level event
// names emitted on the public event emitter surface.
package event

// Type is a dispatch event name, exactly as it appears on the wire in
// the Payload.EventName ("t") field.
type Type string

// Dispatch event names. Not exhaustive of every event Discord has ever
// shipped, but covers every event this session's bootstrap, chunker,
// voice-join coordinator, and dispatch router need to reason about by
// name, plus the common guild/channel/message/member lifecycle events a
// bot library is expected to route.
const (
	Ready   Type = "READY"
	Resumed Type = "RESUMED"

	GuildCreate               Type = "GUILD_CREATE"
	GuildUpdate               Type = "GUILD_UPDATE"
	GuildDelete               Type = "GUILD_DELETE"
	GuildRoleCreate           Type = "GUILD_ROLE_CREATE"
	GuildRoleUpdate           Type = "GUILD_ROLE_UPDATE"
	GuildRoleDelete           Type = "GUILD_ROLE_DELETE"
	GuildBanAdd               Type = "GUILD_BAN_ADD"
	GuildBanRemove            Type = "GUILD_BAN_REMOVE"
	GuildEmojisUpdate         Type = "GUILD_EMOJIS_UPDATE"
	GuildStickersUpdate       Type = "GUILD_STICKERS_UPDATE"
	GuildIntegrationsUpdate   Type = "GUILD_INTEGRATIONS_UPDATE"
	GuildMembersChunk         Type = "GUILD_MEMBERS_CHUNK"
	GuildMemberAdd            Type = "GUILD_MEMBER_ADD"
	GuildMemberUpdate         Type = "GUILD_MEMBER_UPDATE"
	GuildMemberRemove         Type = "GUILD_MEMBER_REMOVE"
	GuildScheduledEventCreate Type = "GUILD_SCHEDULED_EVENT_CREATE"
	GuildScheduledEventUpdate Type = "GUILD_SCHEDULED_EVENT_UPDATE"
	GuildScheduledEventDelete Type = "GUILD_SCHEDULED_EVENT_DELETE"

	ChannelCreate     Type = "CHANNEL_CREATE"
	ChannelUpdate     Type = "CHANNEL_UPDATE"
	ChannelDelete     Type = "CHANNEL_DELETE"
	ChannelPinsUpdate Type = "CHANNEL_PINS_UPDATE"
	ThreadCreate      Type = "THREAD_CREATE"
	ThreadUpdate      Type = "THREAD_UPDATE"
	ThreadDelete      Type = "THREAD_DELETE"
	ThreadListSync    Type = "THREAD_LIST_SYNC"

	MessageCreate            Type = "MESSAGE_CREATE"
	MessageUpdate            Type = "MESSAGE_UPDATE"
	MessageDelete            Type = "MESSAGE_DELETE"
	MessageDeleteBulk        Type = "MESSAGE_DELETE_BULK"
	MessageReactionAdd        Type = "MESSAGE_REACTION_ADD"
	MessageReactionRemove     Type = "MESSAGE_REACTION_REMOVE"
	MessageReactionRemoveAll  Type = "MESSAGE_REACTION_REMOVE_ALL"
	MessageReactionRemoveEmoji Type = "MESSAGE_REACTION_REMOVE_EMOJI"

	PresenceUpdate Type = "PRESENCE_UPDATE"
	TypingStart    Type = "TYPING_START"
	UserUpdate     Type = "USER_UPDATE"

	VoiceStateUpdate  Type = "VOICE_STATE_UPDATE"
	VoiceServerUpdate Type = "VOICE_SERVER_UPDATE"

	WebhooksUpdate    Type = "WEBHOOKS_UPDATE"
	InviteCreate      Type = "INVITE_CREATE"
	InviteDelete      Type = "INVITE_DELETE"
	InteractionCreate Type = "INTERACTION_CREATE"

	StageInstanceCreate Type = "STAGE_INSTANCE_CREATE"
	StageInstanceUpdate Type = "STAGE_INSTANCE_UPDATE"
	StageInstanceDelete Type = "STAGE_INSTANCE_DELETE"

	ThreadMembersUpdate Type = "THREAD_MEMBERS_UPDATE"
	ThreadMemberUpdate  Type = "THREAD_MEMBER_UPDATE"

	IntegrationCreate Type = "INTEGRATION_CREATE"
	IntegrationUpdate Type = "INTEGRATION_UPDATE"
	IntegrationDelete Type = "INTEGRATION_DELETE"

	GuildScheduledEventUserAdd    Type = "GUILD_SCHEDULED_EVENT_USER_ADD"
	GuildScheduledEventUserRemove Type = "GUILD_SCHEDULED_EVENT_USER_REMOVE"
)

// Synthetic event names: library-level observations that never appear on
// the wire, surfaced on the same emitter as dispatch events per spec.md §6.
const (
	Raw          Type = "raw"
	ReadyEvent   Type = "ready"
	Reconnected  Type = "reconnected"
	Trace        Type = "trace"
	Error        Type = "error"
	Heartbeat    Type = "heartbeat"
	HeartbeatAck Type = "heartbeat-ack"
)

func (t Type) String() string {
	return string(t)
}

var all = []Type{
	Ready, Resumed,
	GuildCreate, GuildUpdate, GuildDelete, GuildRoleCreate, GuildRoleUpdate, GuildRoleDelete,
	GuildBanAdd, GuildBanRemove, GuildEmojisUpdate, GuildStickersUpdate, GuildIntegrationsUpdate,
	GuildMembersChunk, GuildMemberAdd, GuildMemberUpdate, GuildMemberRemove,
	GuildScheduledEventCreate, GuildScheduledEventUpdate, GuildScheduledEventDelete,
	GuildScheduledEventUserAdd, GuildScheduledEventUserRemove,
	ChannelCreate, ChannelUpdate, ChannelDelete, ChannelPinsUpdate,
	ThreadCreate, ThreadUpdate, ThreadDelete, ThreadListSync, ThreadMembersUpdate, ThreadMemberUpdate,
	MessageCreate, MessageUpdate, MessageDelete, MessageDeleteBulk,
	MessageReactionAdd, MessageReactionRemove, MessageReactionRemoveAll, MessageReactionRemoveEmoji,
	PresenceUpdate, TypingStart, UserUpdate,
	VoiceStateUpdate, VoiceServerUpdate,
	WebhooksUpdate, InviteCreate, InviteDelete, InteractionCreate,
	StageInstanceCreate, StageInstanceUpdate, StageInstanceDelete,
	IntegrationCreate, IntegrationUpdate, IntegrationDelete,
}

// All returns every known dispatch event name.
func All() []Type {
	cpy := make([]Type, len(all))
	copy(cpy, all)
	return cpy
}
