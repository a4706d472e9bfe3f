package core

import "github.com/adwski/chat-playground/backend/model"

// TypingStart relays a typing-active signal. Direct signals go to the one
// resolved recipient; room signals go to the other members of the context
// room. Nothing is stored and nothing times out server-side.
func (c *Core) TypingStart(id model.ConnID, context string, direct bool) error {
	c.mx.Lock()
	defer c.mx.Unlock()

	name, ok := c.names[id]
	if !ok {
		return ErrNotLoggedIn
	}
	ev := model.Event{
		Type:    model.EventUserTyping,
		Payload: model.TypingNotice{Username: name, Context: context},
	}

	if direct {
		target, ok := c.resolveLocked(context)
		if !ok {
			return ErrRecipientOffline
		}
		c.deliver(target, ev)
		return nil
	}
	for member := range c.members[context] {
		if member != id {
			c.deliver(member, ev)
		}
	}
	return nil
}

// TypingStop relays a typing-inactive signal to every other connected
// transport, regardless of room or conversation context. The asymmetry
// with TypingStart's scoping is deliberate and kept as-is; see the
// matching test before narrowing it.
func (c *Core) TypingStop(id model.ConnID, context string) error {
	c.mx.Lock()
	defer c.mx.Unlock()

	name, ok := c.names[id]
	if !ok {
		return ErrNotLoggedIn
	}
	ev := model.Event{
		Type:    model.EventUserStoppedTyping,
		Payload: model.TypingNotice{Username: name, Context: context},
	}
	for peer := range c.peers {
		if peer != id {
			c.deliver(peer, ev)
		}
	}
	return nil
}
