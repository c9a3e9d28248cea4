package backend

import "sync"

// SessionStorage persists one browser's session between calls.
type SessionStorage interface {
	Load() *Session
	Save(session *Session)
	Clear()
}

// MemoryStorage keeps the session in process memory.
type MemoryStorage struct {
	mu      sync.Mutex
	session *Session
}

// NewMemoryStorage returns storage preloaded with session, which may be nil.
func NewMemoryStorage(session *Session) *MemoryStorage {
	return &MemoryStorage{session: session}
}

func (m *MemoryStorage) Load() *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil {
		return nil
	}
	copied := *m.session
	return &copied
}

func (m *MemoryStorage) Save(session *Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if session == nil {
		m.session = nil
		return
	}
	copied := *session
	m.session = &copied
}

func (m *MemoryStorage) Clear() {
	m.Save(nil)
}
