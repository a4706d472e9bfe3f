package core

import (
	"testing"

	"github.com/adwski/chat-playground/backend/model"
	"github.com/stretchr/testify/require"
)

func TestTypingStart_RoomScopedToOtherMembers(t *testing.T) {
	req := require.New(t)
	c := newTestCore(t)
	alice := loginAs(t, c, "c1", "alice")
	bob := loginAs(t, c, "c2", "bob")
	carol := loginAs(t, c, "c3", "carol")
	req.NoError(c.JoinRoom("c3", "Gaming"))
	drain(alice)
	drain(bob)
	drain(carol)

	req.NoError(c.TypingStart("c1", "General", false))

	evs := ofType(drain(bob), model.EventUserTyping)
	req.Len(evs, 1)
	req.Equal(model.TypingNotice{Username: "alice", Context: "General"}, evs[0].Payload)

	// Not the typist, not members of other rooms
	req.Empty(drain(alice))
	req.Empty(drain(carol))
}

func TestTypingStart_DirectGoesToRecipientOnly(t *testing.T) {
	req := require.New(t)
	c := newTestCore(t)
	alice := loginAs(t, c, "c1", "alice")
	bob := loginAs(t, c, "c2", "bob")
	carol := loginAs(t, c, "c3", "carol")
	drain(alice)
	drain(bob)

	req.NoError(c.TypingStart("c1", "bob", true))

	evs := ofType(drain(bob), model.EventUserTyping)
	req.Len(evs, 1)
	req.Equal(model.TypingNotice{Username: "alice", Context: "bob"}, evs[0].Payload)
	req.Empty(drain(alice))
	req.Empty(drain(carol))
}

func TestTypingStart_OfflineRecipient(t *testing.T) {
	req := require.New(t)
	c := newTestCore(t)
	loginAs(t, c, "c1", "alice")

	req.ErrorIs(c.TypingStart("c1", "nobody", true), ErrRecipientOffline)
}

func TestTypingStart_RequiresLogin(t *testing.T) {
	req := require.New(t)
	c := newTestCore(t)
	connect(t, c, "c1")

	req.ErrorIs(c.TypingStart("c1", "General", false), ErrNotLoggedIn)
}

// TypingStop is intentionally unscoped: unlike TypingStart it reaches every
// other connection, whatever room or conversation they are in. Narrowing it
// to the context would be a behavior change; this test pins the current one.
func TestTypingStop_ReachesEveryConnectionRegardlessOfRoom(t *testing.T) {
	req := require.New(t)
	c := newTestCore(t)
	alice := loginAs(t, c, "c1", "alice")
	bob := loginAs(t, c, "c2", "bob")
	carol := loginAs(t, c, "c3", "carol")
	anon := connect(t, c, "c4")
	req.NoError(c.JoinRoom("c3", "Gaming"))
	drain(alice)
	drain(bob)
	drain(carol)
	drain(anon)

	req.NoError(c.TypingStop("c1", "General"))

	for _, wire := range []model.Wire{bob, carol, anon} {
		evs := ofType(drain(wire), model.EventUserStoppedTyping)
		req.Len(evs, 1)
		req.Equal(model.TypingNotice{Username: "alice", Context: "General"}, evs[0].Payload)
	}
	req.Empty(drain(alice))
}

func TestTypingStop_RequiresLogin(t *testing.T) {
	req := require.New(t)
	c := newTestCore(t)
	connect(t, c, "c1")

	req.ErrorIs(c.TypingStop("c1", "General"), ErrNotLoggedIn)
}
