package core

import (
	"github.com/adwski/chat-playground/backend/model"
	"github.com/google/uuid"
)

// SendToRoom routes a chat message to every connection currently in room,
// the sender included when it is a member, and acknowledges the assigned
// message id back to the sender.
func (c *Core) SendToRoom(id model.ConnID, room, text string, timestamp int64) (model.Message, error) {
	c.mx.Lock()
	defer c.mx.Unlock()

	name, ok := c.names[id]
	if !ok {
		return model.Message{}, ErrNotLoggedIn
	}
	if _, ok = c.roomSet[room]; !ok {
		return model.Message{}, ErrUnknownRoom
	}

	msg := model.Message{
		ID:        uuid.NewString(),
		Sender:    name,
		Room:      room,
		Text:      text,
		Timestamp: timestamp,
	}
	ev := model.Event{Type: model.EventReceiveMessage, Payload: msg}
	for member := range c.members[room] {
		c.deliver(member, ev)
	}
	c.deliver(id, model.Event{
		Type:    model.EventMessageAck,
		Payload: model.MessageAck{ID: msg.ID},
	})

	c.logger.Debug().
		Str("msgID", msg.ID).
		Str("sender", name).
		Str("room", room).
		Msg("room message routed")
	return msg, nil
}

// SendDirect routes a message to one identity, independent of room
// membership, and echoes the same message back to the sender so the
// sender's view needs no separate local echo. An unresolvable recipient
// yields ErrRecipientOffline, which the wire path drops silently: the
// sender sees neither an error nor an acknowledgment.
func (c *Core) SendDirect(id model.ConnID, recipient, text string, timestamp int64) (model.Message, error) {
	c.mx.Lock()
	defer c.mx.Unlock()

	name, ok := c.names[id]
	if !ok {
		return model.Message{}, ErrNotLoggedIn
	}
	target, ok := c.resolveLocked(recipient)
	if !ok {
		c.logger.Debug().
			Str("sender", name).
			Str("recipient", recipient).
			Msg("direct message dropped, recipient offline")
		return model.Message{}, ErrRecipientOffline
	}

	msg := model.Message{
		ID:        uuid.NewString(),
		Sender:    name,
		Recipient: recipient,
		Text:      text,
		Timestamp: timestamp,
	}
	ev := model.Event{Type: model.EventReceivePrivate, Payload: msg}
	c.deliver(target, ev)
	if target != id {
		c.deliver(id, ev)
	}

	c.logger.Debug().
		Str("msgID", msg.ID).
		Str("sender", name).
		Str("recipient", recipient).
		Msg("direct message routed")
	return msg, nil
}
