package core

import "github.com/adwski/chat-playground/backend/model"

// Login registers an identity for an anonymous connection and places it
// into the default room. The connection receives initial_data; other
// default-room members get a joined notice and a roster refresh; everyone
// gets the updated global online list. A second login on the same
// connection is rejected, there is no implicit re-login.
func (c *Core) Login(id model.ConnID, username string) error {
	c.mx.Lock()
	defer c.mx.Unlock()

	if _, ok := c.names[id]; ok {
		return ErrAlreadyLoggedIn
	}
	if username == "" {
		return ErrEmptyName
	}
	if !c.allowDupes && len(c.byName[username]) > 0 {
		return ErrNameTaken
	}

	c.names[id] = username
	c.byName[username] = append(c.byName[username], id)

	room := c.defaultRoom
	c.members[room][id] = struct{}{}
	c.roomOf[id] = room

	c.deliver(id, model.Event{
		Type: model.EventInitialData,
		Payload: model.InitialData{
			Rooms:          c.Rooms(),
			CurrentRoom:    room,
			UsersInRoom:    c.rosterLocked(room),
			AllOnlineUsers: c.identitiesLocked(),
		},
	})

	// The joiner already has the roster via initial_data, so the joined
	// notice and roster refresh go to the other members only.
	joined := model.Event{
		Type:    model.EventUserJoined,
		Payload: model.RoomNotice{Room: room, Username: username},
	}
	roster := model.Event{
		Type:    model.EventUserListUpdate,
		Payload: c.rosterLocked(room),
	}
	for member := range c.members[room] {
		if member == id {
			continue
		}
		c.deliver(member, joined)
		c.deliver(member, roster)
	}

	c.broadcastPresenceLocked()

	c.logger.Debug().
		Str("connID", string(id)).
		Str("username", username).
		Str("room", room).
		Msg("identity registered")
	return nil
}

// unregisterLocked removes the identity association, if any. No-op for
// anonymous connections.
func (c *Core) unregisterLocked(id model.ConnID) (string, bool) {
	name, ok := c.names[id]
	if !ok {
		return "", false
	}
	delete(c.names, id)

	conns := c.byName[name]
	for i, conn := range conns {
		if conn == id {
			conns = append(conns[:i], conns[i+1:]...)
			break
		}
	}
	if len(conns) == 0 {
		delete(c.byName, name)
	} else {
		c.byName[name] = conns
	}
	return name, true
}
