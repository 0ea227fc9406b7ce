// Package factory hydrates raw dispatch payloads into typed model
// entities. spec.md (§1) treats the object factory as a fixed external
// contract; this gives it a concrete interface and default.
package factory

import (
	"github.com/relaygate/discordgw/json"
	"github.com/relaygate/discordgw/model"
)

// EntityFactory constructs typed entities from raw JSON payloads.
type EntityFactory interface {
	NewGuild(raw json.RawMessage) (*model.Guild, error)
	NewChannel(raw json.RawMessage) (*model.Channel, error)
	NewUser(raw json.RawMessage) (*model.User, error)
	NewMember(raw json.RawMessage) (*model.Member, error)
	NewVoiceState(raw json.RawMessage) (*model.VoiceState, error)
	NewPrivateChannel(raw json.RawMessage) (*model.PrivateChannel, error)
}

// Default unmarshals directly into the model types; every field the
// session needs is already tagged on the model structs themselves.
type Default struct{}

func (Default) NewGuild(raw json.RawMessage) (*model.Guild, error) {
	g := &model.Guild{}
	if err := json.Unmarshal(raw, g); err != nil {
		return nil, err
	}
	return g, nil
}

func (Default) NewChannel(raw json.RawMessage) (*model.Channel, error) {
	c := &model.Channel{}
	if err := json.Unmarshal(raw, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (Default) NewUser(raw json.RawMessage) (*model.User, error) {
	u := &model.User{}
	if err := json.Unmarshal(raw, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (Default) NewMember(raw json.RawMessage) (*model.Member, error) {
	m := &model.Member{}
	if err := json.Unmarshal(raw, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (Default) NewVoiceState(raw json.RawMessage) (*model.VoiceState, error) {
	vs := &model.VoiceState{}
	if err := json.Unmarshal(raw, vs); err != nil {
		return nil, err
	}
	return vs, nil
}

func (Default) NewPrivateChannel(raw json.RawMessage) (*model.PrivateChannel, error) {
	pc := &model.PrivateChannel{}
	if err := json.Unmarshal(raw, pc); err != nil {
		return nil, err
	}
	return pc, nil
}

var _ EntityFactory = Default{}
