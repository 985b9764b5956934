// Package roomcache persists room records in a bbolt database and hands
// out listener-capable subscriptions over single records. Writes may come
// from anywhere (the realtime sync, a controller delegation); subscribers
// always re-read the full current snapshot on notification, so delivery
// order across writers does not matter.
package roomcache

import (
	"encoding/json"
	"errors"
	"sync"

	bolt "go.etcd.io/bbolt"

	"github.com/zyfking/rocketroom/roomview"
)

var bucketRooms = []byte("rooms")

var errNoRID = errors.New("room record without rid")

type Store struct {
	db *bolt.DB

	mu   sync.Mutex
	subs map[string][]*Subscription
}

func Open(path string) (*Store, error) {
	db, err := bolt.Open(path, 0o600, nil)
	if err != nil {
		return nil, err
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketRooms)
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Store{
		db:   db,
		subs: make(map[string][]*Subscription),
	}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// PutRoom inserts or replaces the record and notifies subscribers.
func (s *Store) PutRoom(room roomview.RoomRecord) error {
	if room.RID == "" {
		return errNoRID
	}

	buf, err := json.Marshal(room)
	if err != nil {
		return err
	}

	err = s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketRooms).Put([]byte(room.RID), buf)
	})
	if err != nil {
		return err
	}

	s.notify(room.RID)

	return nil
}

// DeleteRoom removes the record and notifies subscribers; they observe an
// empty snapshot, the "left room" state.
func (s *Store) DeleteRoom(rid string) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketRooms).Delete([]byte(rid))
	})
	if err != nil {
		return err
	}

	s.notify(rid)

	return nil
}

func (s *Store) GetRoom(rid string) (roomview.RoomRecord, bool) {
	var (
		room  roomview.RoomRecord
		found bool
	)

	s.db.View(func(tx *bolt.Tx) error { //nolint:errcheck
		v := tx.Bucket(bucketRooms).Get([]byte(rid))
		if v == nil {
			return nil
		}

		if err := json.Unmarshal(v, &room); err != nil {
			return err
		}

		found = true

		return nil
	})

	return room, found
}

// Subscribe returns a live handle over the zero-or-one records matching
// rid.
func (s *Store) Subscribe(rid string) roomview.CacheHandle {
	sub := &Subscription{store: s, rid: rid}

	s.mu.Lock()
	s.subs[rid] = append(s.subs[rid], sub)
	s.mu.Unlock()

	return sub
}

func (s *Store) notify(rid string) {
	s.mu.Lock()
	subs := append([]*Subscription(nil), s.subs[rid]...)
	s.mu.Unlock()

	for _, sub := range subs {
		sub.fire()
	}
}

// Subscription is a CacheHandle over one rid.
type Subscription struct {
	store *Store
	rid   string

	mu        sync.Mutex
	listeners []func()
}

// AddListener registers fn and invokes it once right away with the current
// snapshot, then again on every mutation of the record.
func (sub *Subscription) AddListener(fn func()) {
	sub.mu.Lock()
	sub.listeners = append(sub.listeners, fn)
	sub.mu.Unlock()

	fn()
}

func (sub *Subscription) RemoveAllListeners() {
	sub.mu.Lock()
	sub.listeners = nil
	sub.mu.Unlock()
}

// Snapshot reads the current record, if any.
func (sub *Subscription) Snapshot() []roomview.RoomRecord {
	room, ok := sub.store.GetRoom(sub.rid)
	if !ok {
		return nil
	}

	return []roomview.RoomRecord{room}
}

func (sub *Subscription) fire() {
	sub.mu.Lock()
	listeners := make([]func(), len(sub.listeners))
	copy(listeners, sub.listeners)
	sub.mu.Unlock()

	for _, fn := range listeners {
		fn()
	}
}
