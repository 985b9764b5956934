package roomcache

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zyfking/rocketroom/roomview"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := Open(filepath.Join(t.TempDir(), "rooms.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	return s
}

func TestPutGetRoom(t *testing.T) {
	s := newTestStore(t)

	_, found := s.GetRoom("R1")
	assert.False(t, found)

	room := roomview.RoomRecord{RID: "R1", Type: "c", Name: "general", Muted: []string{"bob"}}
	require.NoError(t, s.PutRoom(room))

	got, found := s.GetRoom("R1")
	require.True(t, found)
	assert.Equal(t, room, got)

	// rid is the primary key
	room.Name = "renamed"
	require.NoError(t, s.PutRoom(room))

	got, _ = s.GetRoom("R1")
	assert.Equal(t, "renamed", got.Name)
}

func TestPutRoomWithoutRID(t *testing.T) {
	s := newTestStore(t)

	assert.Error(t, s.PutRoom(roomview.RoomRecord{Name: "general"}))
}

func TestSubscribeSnapshot(t *testing.T) {
	s := newTestStore(t)

	sub := s.Subscribe("R1")
	assert.Empty(t, sub.Snapshot())

	require.NoError(t, s.PutRoom(roomview.RoomRecord{RID: "R1", Type: "c"}))

	snap := sub.Snapshot()
	require.Len(t, snap, 1)
	assert.Equal(t, "R1", snap[0].RID)

	require.NoError(t, s.DeleteRoom("R1"))
	assert.Empty(t, sub.Snapshot())
}

func TestListenerFiresOnRegistrationAndMutation(t *testing.T) {
	s := newTestStore(t)
	sub := s.Subscribe("R1")

	var fired int
	sub.AddListener(func() { fired++ })

	// once immediately on registration
	assert.Equal(t, 1, fired)

	require.NoError(t, s.PutRoom(roomview.RoomRecord{RID: "R1", Type: "c"}))
	assert.Equal(t, 2, fired)

	require.NoError(t, s.PutRoom(roomview.RoomRecord{RID: "R1", Type: "c", Favorite: true}))
	assert.Equal(t, 3, fired)

	require.NoError(t, s.DeleteRoom("R1"))
	assert.Equal(t, 4, fired)

	// unrelated rids do not notify
	require.NoError(t, s.PutRoom(roomview.RoomRecord{RID: "R2", Type: "c"}))
	assert.Equal(t, 4, fired)
}

func TestRemoveAllListeners(t *testing.T) {
	s := newTestStore(t)
	sub := s.Subscribe("R1")

	var fired int
	sub.AddListener(func() { fired++ })
	sub.RemoveAllListeners()

	require.NoError(t, s.PutRoom(roomview.RoomRecord{RID: "R1", Type: "c"}))
	assert.Equal(t, 1, fired)
}

func TestNotificationCarriesCurrentSnapshot(t *testing.T) {
	s := newTestStore(t)
	sub := s.Subscribe("R1")

	var names []string
	sub.AddListener(func() {
		snap := sub.Snapshot()
		if len(snap) > 0 {
			names = append(names, snap[0].Name)
		}
	})

	require.NoError(t, s.PutRoom(roomview.RoomRecord{RID: "R1", Type: "c", Name: "one"}))
	require.NoError(t, s.PutRoom(roomview.RoomRecord{RID: "R1", Type: "c", Name: "two"}))

	assert.Equal(t, []string{"one", "two"}, names)
}
