package metrics

import "sync/atomic"

// Snapshot captures current in-memory counters.
type Snapshot struct {
	UsersRegistered  uint64
	LoginsSucceeded  uint64
	LoginsFailed     uint64
	AuthMissingToken uint64
	AuthExpiredToken uint64
	AuthInvalidToken uint64
	TodosCreated     uint64
	TodosUpdated     uint64
	TodosDeleted     uint64
}

// InMemoryRecorder keeps counters in memory. It backs /metrics and tests.
type InMemoryRecorder struct {
	usersRegistered  atomic.Uint64
	loginsSucceeded  atomic.Uint64
	loginsFailed     atomic.Uint64
	authMissingToken atomic.Uint64
	authExpiredToken atomic.Uint64
	authInvalidToken atomic.Uint64
	todosCreated     atomic.Uint64
	todosUpdated     atomic.Uint64
	todosDeleted     atomic.Uint64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	return Snapshot{
		UsersRegistered:  m.usersRegistered.Load(),
		LoginsSucceeded:  m.loginsSucceeded.Load(),
		LoginsFailed:     m.loginsFailed.Load(),
		AuthMissingToken: m.authMissingToken.Load(),
		AuthExpiredToken: m.authExpiredToken.Load(),
		AuthInvalidToken: m.authInvalidToken.Load(),
		TodosCreated:     m.todosCreated.Load(),
		TodosUpdated:     m.todosUpdated.Load(),
		TodosDeleted:     m.todosDeleted.Load(),
	}
}

// IncUserRegistered increments the registration counter.
func (m *InMemoryRecorder) IncUserRegistered() {
	m.usersRegistered.Add(1)
}

// IncLogin increments the login counter for status.
func (m *InMemoryRecorder) IncLogin(status string) {
	if status == LoginSuccess {
		m.loginsSucceeded.Add(1)
		return
	}
	m.loginsFailed.Add(1)
}

// IncAuthRejected increments the rejection counter for reason.
func (m *InMemoryRecorder) IncAuthRejected(reason string) {
	switch reason {
	case ReasonMissingToken:
		m.authMissingToken.Add(1)
	case ReasonExpired:
		m.authExpiredToken.Add(1)
	default:
		m.authInvalidToken.Add(1)
	}
}

// IncTodoCreated increments todo created counter.
func (m *InMemoryRecorder) IncTodoCreated() {
	m.todosCreated.Add(1)
}

// IncTodoUpdated increments todo updated counter.
func (m *InMemoryRecorder) IncTodoUpdated() {
	m.todosUpdated.Add(1)
}

// IncTodoDeleted increments todo deleted counter.
func (m *InMemoryRecorder) IncTodoDeleted() {
	m.todosDeleted.Add(1)
}
