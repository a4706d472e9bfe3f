package core

import "github.com/adwski/chat-playground/backend/model"

// JoinRoom moves a connection into room. The leave side of the previous
// room fully resolves (left notice plus roster refresh to the remaining
// members) before the join side applies. The new room's other members get
// a joined notice; the roster refresh goes to the joiner and the other
// members both. Joining the current room is a no-op with no events.
func (c *Core) JoinRoom(id model.ConnID, room string) error {
	c.mx.Lock()
	defer c.mx.Unlock()

	name, ok := c.names[id]
	if !ok {
		return ErrNotLoggedIn
	}
	if _, ok = c.roomSet[room]; !ok {
		return ErrUnknownRoom
	}
	if c.roomOf[id] == room {
		return nil
	}

	c.leaveCurrentLocked(id, name)

	c.members[room][id] = struct{}{}
	c.roomOf[id] = room

	joined := model.Event{
		Type:    model.EventUserJoined,
		Payload: model.RoomNotice{Room: room, Username: name},
	}
	for member := range c.members[room] {
		if member != id {
			c.deliver(member, joined)
		}
	}
	c.broadcastRosterLocked(room)

	// Room switch is a membership mutation, so the global list refreshes
	// too even though the identity set did not change.
	c.broadcastPresenceLocked()

	c.logger.Debug().
		Str("connID", string(id)).
		Str("username", name).
		Str("room", room).
		Msg("room joined")
	return nil
}

// leaveCurrentLocked removes the connection from its current room, if any,
// and notifies the remaining members.
func (c *Core) leaveCurrentLocked(id model.ConnID, name string) {
	room, ok := c.roomOf[id]
	if !ok {
		return
	}
	delete(c.members[room], id)
	delete(c.roomOf, id)

	left := model.Event{
		Type:    model.EventUserLeft,
		Payload: model.RoomNotice{Room: room, Username: name},
	}
	for member := range c.members[room] {
		c.deliver(member, left)
	}
	c.broadcastRosterLocked(room)
}
