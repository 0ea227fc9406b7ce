// Package model holds the plain data types hydrated from dispatch
// payloads by the entity factory. Fields are limited to what bootstrap,
// the chunker, and the voice-join coordinator actually read or write —
// this is not a mirror of Discord's full REST schema.
package model

// User is the authenticated bot's own identity, or a member's user record.
type User struct {
	ID            string `json:"id"`
	Username      string `json:"username"`
	Discriminator string `json:"discriminator"`
	Bot           bool   `json:"bot"`
}

// PrivateChannel is a DM channel delivered in READY's private_channels.
type PrivateChannel struct {
	ID         string `json:"id"`
	Type       int    `json:"type"`
	Recipients []User `json:"recipients"`
}

// Channel is a guild channel. Type uses Discord's numeric channel-type
// enum; 2 and 13 are the voice-capable types the voice-join coordinator
// checks for.
type Channel struct {
	ID      string `json:"id"`
	GuildID string `json:"guild_id"`
	Type    int    `json:"type"`
	Name    string `json:"name"`
	Bitrate int    `json:"bitrate"`
}

const (
	ChannelTypeGuildVoice = 2
	ChannelTypeGuildStage = 13
)

// IsVoice reports whether the channel is a type the voice-join
// coordinator is allowed to join.
func (c Channel) IsVoice() bool {
	return c.Type == ChannelTypeGuildVoice || c.Type == ChannelTypeGuildStage
}

// Member is a guild member, as delivered in GUILD_CREATE and
// GUILD_MEMBERS_CHUNK payloads.
type Member struct {
	GuildID string      `json:"guild_id"`
	User    User        `json:"user"`
	Nick    string      `json:"nick"`
	Status  string      `json:"status"`
	Game    interface{} `json:"game"`
}

// Guild is a guild (server), as delivered in GUILD_CREATE. Unavailable
// guilds carry only ID and Unavailable; everything else arrives once
// Discord sends the real GUILD_CREATE for it.
type Guild struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Unavailable bool              `json:"unavailable"`
	MemberCount int               `json:"member_count"`
	Large       bool              `json:"large"`
	Members     map[string]Member `json:"-"`
}

// VoiceState is one guild member's voice connection state, as delivered
// in VOICE_STATE_UPDATE.
type VoiceState struct {
	GuildID   string `json:"guild_id"`
	ChannelID string `json:"channel_id"`
	UserID    string `json:"user_id"`
	SessionID string `json:"session_id"`
	Mute      bool   `json:"mute"`
	Deaf      bool   `json:"deaf"`
}
