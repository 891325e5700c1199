package storage

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/yourusername/order-desk-bot/internal/domain/entity"
	"github.com/yourusername/order-desk-bot/internal/domain/repository"
)

// maxStoredActions xotirada saqlanadigan harakatlar soni
const maxStoredActions = 1000

type memoryAdminRepository struct {
	mu       sync.RWMutex
	sessions map[int64]entity.AdminSession
	actions  []entity.AdminAction
	ttl      time.Duration
	now      func() time.Time
}

// NewMemoryAdminRepository in-memory admin repository yaratish (ttl - sessiya umri)
func NewMemoryAdminRepository(ttl time.Duration) repository.AdminRepository {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &memoryAdminRepository{
		sessions: make(map[int64]entity.AdminSession),
		actions:  []entity.AdminAction{},
		ttl:      ttl,
		now:      time.Now,
	}
}

// CreateSession admin sessiyasini yaratish
func (m *memoryAdminRepository) CreateSession(ctx context.Context, session entity.AdminSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	session.LastActivity = m.now()
	if session.LoginTime.IsZero() {
		session.LoginTime = session.LastActivity
	}
	m.sessions[session.UserID] = session
	return nil
}

// GetSession sessiyani olish (muddati o'tgan bo'lsa topilmaydi)
func (m *memoryAdminRepository) GetSession(ctx context.Context, userID int64) (*entity.AdminSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, exists := m.sessions[userID]
	if !exists || m.expired(session) {
		delete(m.sessions, userID)
		return nil, fmt.Errorf("session not found for user %d", userID)
	}

	session.LastActivity = m.now()
	m.sessions[userID] = session
	return &session, nil
}

// DeleteSession sessiyani o'chirish (logout)
func (m *memoryAdminRepository) DeleteSession(ctx context.Context, userID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.sessions, userID)
	return nil
}

// IsAdmin foydalanuvchi admin ekanligini tekshirish
func (m *memoryAdminRepository) IsAdmin(ctx context.Context, userID int64) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	session, exists := m.sessions[userID]
	if !exists || m.expired(session) {
		return false, nil
	}
	return session.IsAdmin, nil
}

// LogAction admin harakatini loglash
func (m *memoryAdminRepository) LogAction(ctx context.Context, action entity.AdminAction) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.actions = append(m.actions, action)
	if len(m.actions) > maxStoredActions {
		m.actions = m.actions[len(m.actions)-maxStoredActions:]
	}
	return nil
}

// GetActions so'nggi harakatlar, yangisi birinchi
func (m *memoryAdminRepository) GetActions(ctx context.Context, limit int) ([]entity.AdminAction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	n := len(m.actions)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]entity.AdminAction, 0, n)
	for i := len(m.actions) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, m.actions[i])
	}
	return out, nil
}

// expired sessiya timeout tekshirish
func (m *memoryAdminRepository) expired(s entity.AdminSession) bool {
	return m.now().Sub(s.LastActivity) > m.ttl
}
