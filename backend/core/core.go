// Package core is the connection, presence and routing engine. It owns the
// identity registry and the room membership index as a single state object;
// every inbound event mutates that state atomically under one lock, which
// gives a consistent linearization of all mutations server-side.
package core

import (
	"errors"
	"slices"
	"sync"

	"github.com/adwski/chat-playground/backend/model"
	"github.com/davecgh/go-spew/spew"
	"github.com/rs/zerolog"
	"github.com/samber/lo"
)

var (
	ErrNotLoggedIn      = errors.New("connection has no identity")
	ErrAlreadyLoggedIn  = errors.New("connection already has an identity")
	ErrNameTaken        = errors.New("name is already online")
	ErrEmptyName        = errors.New("empty username")
	ErrUnknownRoom      = errors.New("unknown room")
	ErrRecipientOffline = errors.New("recipient is offline")
	ErrInvalidConfig    = errors.New("invalid core config")
)

type Config struct {
	Logger *zerolog.Logger

	// Rooms is the fixed room set, known at startup. Rooms are never
	// created or destroyed at runtime.
	Rooms       []string
	DefaultRoom string

	// AllowDuplicateNames permits two connections to register the same
	// identity. Resolution then picks the earliest still-connected
	// registrant. Default (false) rejects the second login.
	AllowDuplicateNames bool
}

type Core struct {
	logger zerolog.Logger

	rooms       []string
	roomSet     map[string]struct{}
	defaultRoom string
	allowDupes  bool

	mx sync.Mutex
	// All connected transports, identified or not.
	peers map[model.ConnID]model.Wire
	// Identity registry, both directions. byName keeps registration order
	// so lookups among duplicates stay deterministic.
	names  map[model.ConnID]string
	byName map[string][]model.ConnID
	// Membership index: one active room per connection at most.
	roomOf  map[model.ConnID]string
	members map[string]map[model.ConnID]struct{}
}

func New(cfg Config) (*Core, error) {
	if len(cfg.Rooms) == 0 {
		return nil, errors.Join(ErrInvalidConfig, errors.New("no rooms configured"))
	}
	if !slices.Contains(cfg.Rooms, cfg.DefaultRoom) {
		return nil, errors.Join(ErrInvalidConfig, errors.New("default room is not in room set"))
	}
	c := &Core{
		logger:      cfg.Logger.With().Str("component", "core").Logger(),
		rooms:       slices.Clone(cfg.Rooms),
		roomSet:     make(map[string]struct{}, len(cfg.Rooms)),
		defaultRoom: cfg.DefaultRoom,
		allowDupes:  cfg.AllowDuplicateNames,
		peers:       make(map[model.ConnID]model.Wire),
		names:       make(map[model.ConnID]string),
		byName:      make(map[string][]model.ConnID),
		roomOf:      make(map[model.ConnID]string),
		members:     make(map[string]map[model.ConnID]struct{}, len(cfg.Rooms)),
	}
	for _, room := range cfg.Rooms {
		c.roomSet[room] = struct{}{}
		c.members[room] = make(map[model.ConnID]struct{})
	}
	return c, nil
}

// Rooms returns the configured room set in configuration order.
func (c *Core) Rooms() []string {
	return slices.Clone(c.rooms)
}

// Identities returns the global presence list: one entry per registered
// connection, sorted. Always derived live from the registry.
func (c *Core) Identities() []string {
	c.mx.Lock()
	defer c.mx.Unlock()
	return c.identitiesLocked()
}

func (c *Core) identitiesLocked() []string {
	list := lo.Values(c.names)
	slices.Sort(list)
	return list
}

// RosterOf returns the identities currently in room, sorted.
func (c *Core) RosterOf(room string) []string {
	c.mx.Lock()
	defer c.mx.Unlock()
	return c.rosterLocked(room)
}

func (c *Core) rosterLocked(room string) []string {
	roster := lo.FilterMap(lo.Keys(c.members[room]), func(id model.ConnID, _ int) (string, bool) {
		name, ok := c.names[id]
		return name, ok
	})
	slices.Sort(roster)
	return roster
}

// Resolve returns a connection currently registered under name. With
// duplicate names allowed this is the earliest still-connected registrant.
func (c *Core) Resolve(name string) (model.ConnID, bool) {
	c.mx.Lock()
	defer c.mx.Unlock()
	return c.resolveLocked(name)
}

func (c *Core) resolveLocked(name string) (model.ConnID, bool) {
	conns := c.byName[name]
	if len(conns) == 0 {
		return "", false
	}
	return conns[0], true
}

// deliver pushes one event onto a peer's TX without blocking. Transports
// that stopped draining lose events rather than stall the event path.
func (c *Core) deliver(id model.ConnID, ev model.Event) {
	wire, ok := c.peers[id]
	if !ok {
		return
	}
	select {
	case wire.TX <- ev:
	default:
		c.logger.Error().
			Str("connID", string(id)).
			Str("type", ev.Type).
			Msg("dead endpoint, event dropped")
	}
}

// broadcastPresenceLocked pushes the global online list to every connected
// transport. Fires after each registry mutation.
func (c *Core) broadcastPresenceLocked() {
	ev := model.Event{
		Type:    model.EventFullUserListUpdate,
		Payload: c.identitiesLocked(),
	}
	for id := range c.peers {
		c.deliver(id, ev)
	}
}

// broadcastRosterLocked pushes room's roster to all of its current members.
func (c *Core) broadcastRosterLocked(room string) {
	ev := model.Event{
		Type:    model.EventUserListUpdate,
		Payload: c.rosterLocked(room),
	}
	for id := range c.members[room] {
		c.deliver(id, ev)
	}
}

// DumpState renders the full engine state for the debug endpoint.
func (c *Core) DumpState() string {
	c.mx.Lock()
	defer c.mx.Unlock()
	return spew.Sdump(struct {
		Peers   int
		Names   map[model.ConnID]string
		RoomOf  map[model.ConnID]string
		Members map[string]map[model.ConnID]struct{}
	}{
		Peers:   len(c.peers),
		Names:   c.names,
		RoomOf:  c.roomOf,
		Members: c.members,
	})
}
