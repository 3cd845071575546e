package bolt

import (
	"encoding/json"
	"fmt"

	"github.com/habitd/habitd/internal/storage"
	"github.com/habitd/habitd/pkg/habit"
	"go.etcd.io/bbolt"
)

const (
	rootBucket    = "users"
	habitsBucket  = "habits"
	apiKeysBucket = "apikeys"
	defaultUserID = "default"
)

// Store keeps one JSON habit document per habit under
// users/<userID>/habits/<habitID>, plus a flat apikeys bucket mapping
// key hashes to user IDs.
type Store struct {
	db *bbolt.DB
}

func Open(path string) (*Store, error) {
	db, err := bbolt.Open(path, 0600, nil)
	if err != nil {
		return nil, err
	}

	s := &Store{db: db}

	if err := db.Update(func(tx *bbolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists([]byte(rootBucket)); err != nil {
			return err
		}
		_, err := tx.CreateBucketIfNotExists([]byte(apiKeysBucket))
		return err
	}); err != nil {
		_ = db.Close()
		return nil, err
	}

	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func normalizeUserID(userID string) string {
	if userID == "" {
		return defaultUserID
	}
	return userID
}

// userHabits walks to the user's habits bucket without creating
// anything, so it is safe inside read-only transactions. A nil return
// means the user has never stored a habit.
func (s *Store) userHabits(tx *bbolt.Tx, userID string) *bbolt.Bucket {
	user := tx.Bucket([]byte(rootBucket)).Bucket([]byte(normalizeUserID(userID)))
	if user == nil {
		return nil
	}
	return user.Bucket([]byte(habitsBucket))
}

// ensureUserHabits creates the bucket chain on first write. Update
// transactions only; bucket creation is rejected in a read-only tx.
func (s *Store) ensureUserHabits(tx *bbolt.Tx, userID string) (*bbolt.Bucket, error) {
	users := tx.Bucket([]byte(rootBucket))
	user, err := users.CreateBucketIfNotExists([]byte(normalizeUserID(userID)))
	if err != nil {
		return nil, err
	}
	return user.CreateBucketIfNotExists([]byte(habitsBucket))
}

func (s *Store) PutHabit(userID string, h habit.Habit) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket, err := s.ensureUserHabits(tx, userID)
		if err != nil {
			return err
		}
		val, err := json.Marshal(h)
		if err != nil {
			return err
		}
		return bucket.Put([]byte(h.ID), val)
	})
}

func (s *Store) GetHabit(userID, habitID string) (habit.Habit, error) {
	var out habit.Habit
	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := s.userHabits(tx, userID)
		if bucket == nil {
			return storage.ErrNotFound
		}
		raw := bucket.Get([]byte(habitID))
		if raw == nil {
			return storage.ErrNotFound
		}
		return json.Unmarshal(raw, &out)
	})
	return out, err
}

func (s *Store) ListHabits(userID string) ([]habit.Habit, error) {
	out := []habit.Habit{}
	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := s.userHabits(tx, userID)
		if bucket == nil {
			return nil
		}
		return bucket.ForEach(func(_, v []byte) error {
			var h habit.Habit
			if err := json.Unmarshal(v, &h); err != nil {
				return err
			}
			out = append(out, h)
			return nil
		})
	})
	return out, err
}

func (s *Store) DeleteHabit(userID, habitID string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := s.userHabits(tx, userID)
		if bucket == nil || bucket.Get([]byte(habitID)) == nil {
			return storage.ErrNotFound
		}
		return bucket.Delete([]byte(habitID))
	})
}

// MutateHabit reads, mutates and rewrites one habit document inside a
// single bbolt update transaction. Concurrent toggles on the same habit
// serialize here; the one accepted race is complete/uncomplete for the
// same day, which resolves last-write-wins.
func (s *Store) MutateHabit(userID, habitID string, mutate func(*habit.Habit) error) (habit.Habit, error) {
	var out habit.Habit
	err := s.db.Update(func(tx *bbolt.Tx) error {
		bucket := s.userHabits(tx, userID)
		if bucket == nil {
			return storage.ErrNotFound
		}
		raw := bucket.Get([]byte(habitID))
		if raw == nil {
			return storage.ErrNotFound
		}
		var h habit.Habit
		if err := json.Unmarshal(raw, &h); err != nil {
			return fmt.Errorf("decode habit %s: %w", habitID, err)
		}
		if err := mutate(&h); err != nil {
			return err
		}
		val, err := json.Marshal(h)
		if err != nil {
			return err
		}
		if err := bucket.Put([]byte(habitID), val); err != nil {
			return err
		}
		out = h
		return nil
	})
	return out, err
}

func (s *Store) PutAPIKey(keyHash, userID string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(apiKeysBucket)).Put([]byte(keyHash), []byte(userID))
	})
}

func (s *Store) GetAPIKey(keyHash string) (string, bool, error) {
	var userID string
	var found bool
	err := s.db.View(func(tx *bbolt.Tx) error {
		raw := tx.Bucket([]byte(apiKeysBucket)).Get([]byte(keyHash))
		if raw != nil {
			userID = string(raw)
			found = true
		}
		return nil
	})
	return userID, found, err
}

var _ storage.Store = (*Store)(nil)
