package server

import (
	"sync"

	"github.com/habitd/habitd/internal/storage"
	"github.com/habitd/habitd/pkg/habit"
)

type memStore struct {
	mu      sync.RWMutex
	habits  map[string]map[string]habit.Habit
	apiKeys map[string]string
}

func newMemStore() *memStore {
	return &memStore{
		habits:  map[string]map[string]habit.Habit{},
		apiKeys: map[string]string{},
	}
}

func (m *memStore) PutHabit(userID string, h habit.Habit) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.habits[userID] == nil {
		m.habits[userID] = map[string]habit.Habit{}
	}
	m.habits[userID][h.ID] = h
	return nil
}

func (m *memStore) GetHabit(userID, habitID string) (habit.Habit, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	h, ok := m.habits[userID][habitID]
	if !ok {
		return habit.Habit{}, storage.ErrNotFound
	}
	return h, nil
}

func (m *memStore) ListHabits(userID string) ([]habit.Habit, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := []habit.Habit{}
	for _, h := range m.habits[userID] {
		out = append(out, h)
	}
	return out, nil
}

func (m *memStore) DeleteHabit(userID, habitID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.habits[userID][habitID]; !ok {
		return storage.ErrNotFound
	}
	delete(m.habits[userID], habitID)
	return nil
}

func (m *memStore) MutateHabit(userID, habitID string, mutate func(*habit.Habit) error) (habit.Habit, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	h, ok := m.habits[userID][habitID]
	if !ok {
		return habit.Habit{}, storage.ErrNotFound
	}
	if err := mutate(&h); err != nil {
		return habit.Habit{}, err
	}
	m.habits[userID][habitID] = h
	return h, nil
}

func (m *memStore) PutAPIKey(keyHash, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.apiKeys[keyHash] = userID
	return nil
}

func (m *memStore) GetAPIKey(keyHash string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	userID, ok := m.apiKeys[keyHash]
	return userID, ok, nil
}

func (m *memStore) Close() error {
	return nil
}

var _ storage.Store = (*memStore)(nil)
