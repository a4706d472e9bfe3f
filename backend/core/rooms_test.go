package core

import (
	"testing"

	"github.com/adwski/chat-playground/backend/model"
	"github.com/stretchr/testify/require"
)

func TestJoinRoom_RequiresLogin(t *testing.T) {
	req := require.New(t)
	c := newTestCore(t)
	connect(t, c, "c1")

	req.ErrorIs(c.JoinRoom("c1", "Gaming"), ErrNotLoggedIn)
}

func TestJoinRoom_UnknownRoomRejected(t *testing.T) {
	req := require.New(t)
	c := newTestCore(t)
	loginAs(t, c, "c1", "alice")

	req.ErrorIs(c.JoinRoom("c1", "Lobby"), ErrUnknownRoom)
	req.Equal([]string{"alice"}, c.RosterOf("General"))
}

func TestJoinRoom_SameRoomIsNoOp(t *testing.T) {
	req := require.New(t)
	c := newTestCore(t)
	alice := loginAs(t, c, "c1", "alice")
	bob := loginAs(t, c, "c2", "bob")
	drain(alice)

	req.NoError(c.JoinRoom("c1", "General"))

	req.Empty(drain(alice))
	req.Empty(drain(bob))
}

func TestJoinRoom_SwitchScenario(t *testing.T) {
	req := require.New(t)
	c := newTestCore(t)
	alice := loginAs(t, c, "c1", "alice")
	carol := loginAs(t, c, "c3", "carol")
	req.NoError(c.JoinRoom("c3", "Gaming"))
	bob := loginAs(t, c, "c2", "bob")
	drain(alice)
	drain(carol)

	// When bob switches from General to Gaming
	req.NoError(c.JoinRoom("c2", "Gaming"))

	// Then the remaining General member sees exactly one left notice
	// and one roster update
	aliceEvs := drain(alice)
	left := ofType(aliceEvs, model.EventUserLeft)
	req.Len(left, 1)
	req.Equal(model.RoomNotice{Room: "General", Username: "bob"}, left[0].Payload)
	rosters := ofType(aliceEvs, model.EventUserListUpdate)
	req.Len(rosters, 1)
	req.Equal([]string{"alice"}, rosters[0].Payload)
	req.Empty(ofType(aliceEvs, model.EventUserJoined))

	// And the Gaming members see exactly one joined notice and one roster
	carolEvs := drain(carol)
	joined := ofType(carolEvs, model.EventUserJoined)
	req.Len(joined, 1)
	req.Equal(model.RoomNotice{Room: "Gaming", Username: "bob"}, joined[0].Payload)
	rosters = ofType(carolEvs, model.EventUserListUpdate)
	req.Len(rosters, 1)
	req.Equal([]string{"bob", "carol"}, rosters[0].Payload)

	// And bob himself gets only the new room's roster, no join/left notices
	bobEvs := drain(bob)
	req.Empty(ofType(bobEvs, model.EventUserJoined))
	req.Empty(ofType(bobEvs, model.EventUserLeft))
	rosters = ofType(bobEvs, model.EventUserListUpdate)
	req.Len(rosters, 1)
	req.Equal([]string{"bob", "carol"}, rosters[0].Payload)

	req.Equal([]string{"alice"}, c.RosterOf("General"))
	req.Equal([]string{"bob", "carol"}, c.RosterOf("Gaming"))
}

func TestJoinRoom_SingleMembershipAfterInterleavedJoins(t *testing.T) {
	req := require.New(t)
	c := newTestCore(t)
	loginAs(t, c, "c1", "alice")
	loginAs(t, c, "c2", "bob")

	seq := []struct {
		conn model.ConnID
		room string
	}{
		{"c1", "Gaming"}, {"c2", "Gaming"}, {"c1", "Random"},
		{"c2", "Technology"}, {"c1", "Gaming"}, {"c1", "Gaming"},
		{"c2", "Gaming"}, {"c1", "General"},
	}
	for _, s := range seq {
		req.NoError(c.JoinRoom(s.conn, s.room))
	}

	// Each connection occupies exactly one room
	total := 0
	for _, room := range c.Rooms() {
		total += len(c.RosterOf(room))
	}
	req.Equal(2, total)
	req.Equal([]string{"alice"}, c.RosterOf("General"))
	req.Equal([]string{"bob"}, c.RosterOf("Gaming"))
}
