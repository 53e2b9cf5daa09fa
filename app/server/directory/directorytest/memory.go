// Package directorytest provides an in-memory directory.Store for tests.
package directorytest

import (
	"acquisitions-api/app/server/directory"
	"acquisitions-api/app/server/models"
	"context"
	"sort"
	"sync"
	"time"
)

type Memory struct {
	mu     sync.Mutex
	users  map[uint]models.User
	nextID uint
	err    error
}

var _ directory.Store = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{users: map[uint]models.User{}, nextID: 1}
}

// FailWith 让之后的每个操作都返回 err，传 nil 恢复正常
func (m *Memory) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

func (m *Memory) FindByID(_ context.Context, id uint) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}

	user, ok := m.users[id]
	if !ok {
		return nil, directory.ErrNotFound
	}
	return &user, nil
}

func (m *Memory) FindByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}

	for _, user := range m.users {
		if user.Email == email {
			return &user, nil
		}
	}
	return nil, directory.ErrNotFound
}

func (m *Memory) List(_ context.Context, offset, limit int) ([]models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}

	users := make([]models.User, 0, len(m.users))
	for _, user := range m.users {
		users = append(users, user)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })

	if limit < 0 {
		return users, nil
	}
	if offset >= len(users) {
		return []models.User{}, nil
	}
	end := offset + limit
	if end > len(users) {
		end = len(users)
	}
	return users[offset:end], nil
}

func (m *Memory) Count(_ context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return 0, m.err
	}
	return int64(len(m.users)), nil
}

func (m *Memory) Create(_ context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	if m.emailTaken(user.Email, 0) {
		return directory.ErrDuplicateEmail
	}

	now := time.Now()
	user.ID = m.nextID
	user.CreatedAt = now
	user.UpdatedAt = now
	if user.Role == "" {
		user.Role = models.RoleUser
	}
	m.nextID++
	m.users[user.ID] = *user
	return nil
}

func (m *Memory) Update(_ context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}

	existing, ok := m.users[user.ID]
	if !ok {
		return directory.ErrNotFound
	}
	if m.emailTaken(user.Email, user.ID) {
		return directory.ErrDuplicateEmail
	}

	user.CreatedAt = existing.CreatedAt
	user.UpdatedAt = time.Now()
	m.users[user.ID] = *user
	return nil
}

func (m *Memory) Delete(_ context.Context, id uint) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}

	user, ok := m.users[id]
	if !ok {
		return nil, directory.ErrNotFound
	}
	delete(m.users, id)
	return &user, nil
}

func (m *Memory) Identity(_ context.Context, id uint) (*models.Identity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}

	user, ok := m.users[id]
	if !ok {
		return nil, directory.ErrNotFound
	}
	identity := user.Identity()
	return &identity, nil
}

func (m *Memory) emailTaken(email string, except uint) bool {
	for id, user := range m.users {
		if id != except && user.Email == email {
			return true
		}
	}
	return false
}
