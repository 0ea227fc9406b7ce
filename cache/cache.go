// Package cache defines the entity store contract spec.md treats as an
// external collaborator (§1), plus a default in-process implementation.
// Handlers treat writes as commutative key-sets — last writer wins —
// since the read loop is the cache's only writer (spec.md §5).
package cache

import (
	"sync"

	"github.com/relaygate/discordgw/model"
)

// Cache is the store handlers hydrate entities into and read them back
// from. A generic Get/Set/Delete covers anything not given a typed
// wrapper below.
type Cache interface {
	Get(key string) (interface{}, bool)
	Set(key string, value interface{})
	Delete(key string)

	Guild(id string) (*model.Guild, bool)
	SetGuild(g *model.Guild)
	DeleteGuild(id string)

	User(id string) (*model.User, bool)
	SetUser(u *model.User)

	Member(guildID, userID string) (*model.Member, bool)
	SetMember(m *model.Member)

	PrivateChannel(recipientID string) (*model.PrivateChannel, bool)
	SetPrivateChannel(pc *model.PrivateChannel)
}

// Memory is the default Cache: one sync.RWMutex-guarded map per entity
// kind, matching the sharded-by-kind shape used by the pack's other
// gateway/state-tracking daemons.
type Memory struct {
	genericMu sync.RWMutex
	generic   map[string]interface{}

	guildsMu sync.RWMutex
	guilds   map[string]*model.Guild

	usersMu sync.RWMutex
	users   map[string]*model.User

	membersMu sync.RWMutex
	members   map[string]*model.Member // key: guildID + ":" + userID

	dmsMu sync.RWMutex
	dms   map[string]*model.PrivateChannel // key: recipient id
}

func NewMemory() *Memory {
	return &Memory{
		generic: map[string]interface{}{},
		guilds:  map[string]*model.Guild{},
		users:   map[string]*model.User{},
		members: map[string]*model.Member{},
		dms:     map[string]*model.PrivateChannel{},
	}
}

func (m *Memory) Get(key string) (interface{}, bool) {
	m.genericMu.RLock()
	defer m.genericMu.RUnlock()
	v, ok := m.generic[key]
	return v, ok
}

func (m *Memory) Set(key string, value interface{}) {
	m.genericMu.Lock()
	defer m.genericMu.Unlock()
	m.generic[key] = value
}

func (m *Memory) Delete(key string) {
	m.genericMu.Lock()
	defer m.genericMu.Unlock()
	delete(m.generic, key)
}

func (m *Memory) Guild(id string) (*model.Guild, bool) {
	m.guildsMu.RLock()
	defer m.guildsMu.RUnlock()
	g, ok := m.guilds[id]
	return g, ok
}

func (m *Memory) SetGuild(g *model.Guild) {
	m.guildsMu.Lock()
	defer m.guildsMu.Unlock()
	m.guilds[g.ID] = g
}

func (m *Memory) DeleteGuild(id string) {
	m.guildsMu.Lock()
	defer m.guildsMu.Unlock()
	delete(m.guilds, id)
}

func (m *Memory) User(id string) (*model.User, bool) {
	m.usersMu.RLock()
	defer m.usersMu.RUnlock()
	u, ok := m.users[id]
	return u, ok
}

func (m *Memory) SetUser(u *model.User) {
	m.usersMu.Lock()
	defer m.usersMu.Unlock()
	m.users[u.ID] = u
}

func memberKey(guildID, userID string) string {
	return guildID + ":" + userID
}

func (m *Memory) Member(guildID, userID string) (*model.Member, bool) {
	m.membersMu.RLock()
	defer m.membersMu.RUnlock()
	mem, ok := m.members[memberKey(guildID, userID)]
	return mem, ok
}

func (m *Memory) SetMember(mem *model.Member) {
	m.membersMu.Lock()
	defer m.membersMu.Unlock()
	m.members[memberKey(mem.GuildID, mem.User.ID)] = mem
}

func (m *Memory) PrivateChannel(recipientID string) (*model.PrivateChannel, bool) {
	m.dmsMu.RLock()
	defer m.dmsMu.RUnlock()
	pc, ok := m.dms[recipientID]
	return pc, ok
}

func (m *Memory) SetPrivateChannel(pc *model.PrivateChannel) {
	m.dmsMu.Lock()
	defer m.dmsMu.Unlock()
	for _, recipient := range pc.Recipients {
		m.dms[recipient.ID] = pc
	}
}

var _ Cache = (*Memory)(nil)
