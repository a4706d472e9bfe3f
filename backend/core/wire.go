package core

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/adwski/chat-playground/backend/model"
)

// Attach registers a transport connection with the engine and starts
// consuming its inbound events. The connection is anonymous until it
// logs in. Events from one connection are handled in the order they
// arrive on the wire.
func (c *Core) Attach(ctx context.Context, id model.ConnID, wire model.Wire) {
	c.mx.Lock()
	c.peers[id] = wire
	c.mx.Unlock()

	c.logger.Debug().Str("connID", string(id)).Msg("connection attached")

	go c.dispatch(ctx, id, wire.RX)
}

// Detach runs the disconnect transition: the identity is unregistered,
// room membership is torn down with the usual left/roster notices, and
// the global online list is re-broadcast.
func (c *Core) Detach(id model.ConnID) {
	c.mx.Lock()
	defer c.mx.Unlock()

	delete(c.peers, id)
	name, had := c.unregisterLocked(id)
	if !had {
		delete(c.roomOf, id)
		return
	}
	c.leaveCurrentLocked(id, name)
	c.broadcastPresenceLocked()

	c.logger.Debug().
		Str("connID", string(id)).
		Str("username", name).
		Msg("connection detached")
}

func (c *Core) dispatch(ctx context.Context, id model.ConnID, rx <-chan model.RawEvent) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-rx:
			if !ok {
				return
			}
			c.handle(id, ev)
		}
	}
}

func (c *Core) handle(id model.ConnID, ev model.RawEvent) {
	var err error
	switch ev.Type {
	case model.EventLogin:
		var p model.LoginPayload
		if err = json.Unmarshal(ev.Payload, &p); err == nil {
			err = c.Login(id, p.Username)
		}
	case model.EventJoinRoom:
		var p model.JoinRoomPayload
		if err = json.Unmarshal(ev.Payload, &p); err == nil {
			err = c.JoinRoom(id, p.Room)
		}
	case model.EventSendRoomMessage:
		var p model.RoomMessagePayload
		if err = json.Unmarshal(ev.Payload, &p); err == nil {
			_, err = c.SendToRoom(id, p.Room, p.Text, p.Timestamp)
		}
	case model.EventSendPrivateMessage:
		var p model.PrivateMessagePayload
		if err = json.Unmarshal(ev.Payload, &p); err == nil {
			_, err = c.SendDirect(id, p.Recipient, p.Text, p.Timestamp)
		}
	case model.EventTypingStart:
		var p model.TypingPayload
		if err = json.Unmarshal(ev.Payload, &p); err == nil {
			err = c.TypingStart(id, p.Context, p.Direct)
		}
	case model.EventTypingStop:
		var p model.TypingPayload
		if err = json.Unmarshal(ev.Payload, &p); err == nil {
			err = c.TypingStop(id, p.Context)
		}
	default:
		c.logger.Debug().
			Str("connID", string(id)).
			Str("type", ev.Type).
			Msg("unknown event type ignored")
		return
	}

	if err == nil {
		return
	}
	// Unresolvable direct targets are dropped without telling the sender.
	if errors.Is(err, ErrRecipientOffline) {
		return
	}
	c.sendError(id, err)
}

// sendError surfaces a rejected action to the offending connection only.
func (c *Core) sendError(id model.ConnID, err error) {
	c.mx.Lock()
	defer c.mx.Unlock()
	c.deliver(id, model.Event{
		Type:    model.EventError,
		Payload: model.ErrorPayload{Error: err.Error()},
	})
}
