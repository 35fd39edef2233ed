package metrics

import (
	"sync"
	"testing"
)

func TestInMemoryRecorder_Counters(t *testing.T) {
	t.Parallel()

	m := NewInMemory()
	m.IncUserRegistered()
	m.IncLogin(LoginSuccess)
	m.IncLogin(LoginFailed)
	m.IncLogin(LoginFailed)
	m.IncAuthRejected(ReasonMissingToken)
	m.IncAuthRejected(ReasonExpired)
	m.IncAuthRejected(ReasonInvalidToken)
	m.IncAuthRejected("unknown")
	m.IncTodoCreated()
	m.IncTodoUpdated()
	m.IncTodoDeleted()

	snap := m.Snapshot()
	want := Snapshot{
		UsersRegistered:  1,
		LoginsSucceeded:  1,
		LoginsFailed:     2,
		AuthMissingToken: 1,
		AuthExpiredToken: 1,
		AuthInvalidToken: 2,
		TodosCreated:     1,
		TodosUpdated:     1,
		TodosDeleted:     1,
	}
	if snap != want {
		t.Errorf("Snapshot() = %+v, want %+v", snap, want)
	}
}

func TestInMemoryRecorder_Concurrent(t *testing.T) {
	t.Parallel()

	m := NewInMemory()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.IncTodoCreated()
		}()
	}
	wg.Wait()

	if got := m.Snapshot().TodosCreated; got != 50 {
		t.Errorf("TodosCreated = %d, want 50", got)
	}
}

func TestNoopRecorder(t *testing.T) {
	t.Parallel()

	var r Recorder = NewNoop()
	r.IncUserRegistered()
	r.IncLogin(LoginSuccess)
	r.IncAuthRejected(ReasonExpired)
	r.IncTodoCreated()
	r.IncTodoUpdated()
	r.IncTodoDeleted()
}
