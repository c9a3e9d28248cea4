package backend

import "sync"

// Subscription is the handle returned by OnAuthStateChange.
type Subscription struct {
	once   sync.Once
	remove func()
	reg    *registration
}

// Unsubscribe detaches the listener. It is safe to call more than once and
// returns only after any in-flight delivery finished; the listener is never
// invoked afterwards. It must not be called from inside the listener itself.
func (s *Subscription) Unsubscribe() {
	if s == nil {
		return
	}
	s.once.Do(func() {
		s.reg.close()
		s.remove()
	})
}

type registration struct {
	mu       sync.Mutex
	closed   bool
	listener AuthListener
}

func (r *registration) deliver(event AuthEvent, session *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	r.listener(event, session)
}

func (r *registration) close() {
	r.mu.Lock()
	r.closed = true
	r.mu.Unlock()
}

// listeners is the observer registry shared by one Client.
type listeners struct {
	mu     sync.Mutex
	nextID uint64
	regs   map[uint64]*registration
}

func (l *listeners) add(fn AuthListener) *Subscription {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.regs == nil {
		l.regs = make(map[uint64]*registration)
	}
	id := l.nextID
	l.nextID++
	reg := &registration{listener: fn}
	l.regs[id] = reg

	return &Subscription{
		reg: reg,
		remove: func() {
			l.mu.Lock()
			delete(l.regs, id)
			l.mu.Unlock()
		},
	}
}

func (l *listeners) emit(event AuthEvent, session *Session) {
	l.mu.Lock()
	regs := make([]*registration, 0, len(l.regs))
	for _, reg := range l.regs {
		regs = append(regs, reg)
	}
	l.mu.Unlock()

	for _, reg := range regs {
		reg.deliver(event, session)
	}
}

func (l *listeners) count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.regs)
}
