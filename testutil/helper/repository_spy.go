package helper

import (
	"context"
	"sync"

	"github.com/acmsl/licdata/core"
	"github.com/acmsl/licdata/shell"
)

// RepositorySpy wraps a shell.Repository and records every call.
// Errors can be injected per method; an injected error is returned without calling the wrapped repository.
// Hooks registered with After run once, right after the wrapped repository answered.
type RepositorySpy struct {
	inner  shell.Repository
	calls  []string
	errors map[string]error
	hooks  map[string]func()
	mu     sync.Mutex
}

// Repository method names as recorded by RepositorySpy.
const (
	CallFindByPK = "FindByPK"
	CallFindByID = "FindByID"
	CallList     = "List"
	CallInsert   = "Insert"
	CallUpdate   = "Update"
	CallDelete   = "Delete"
)

// NewRepositorySpy creates a RepositorySpy around inner.
func NewRepositorySpy(inner shell.Repository) *RepositorySpy {
	return &RepositorySpy{
		inner:  inner,
		calls:  make([]string, 0),
		errors: make(map[string]error),
		hooks:  make(map[string]func()),
	}
}

// FailOn makes the named method return err.
func (s *RepositorySpy) FailOn(method string, err error) *RepositorySpy {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.errors[method] = err

	return s
}

// After runs hook once, after the next call of the named method returned from the wrapped repository.
func (s *RepositorySpy) After(method string, hook func()) *RepositorySpy {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.hooks[method] = hook

	return s
}

// Calls returns the recorded method names in call order.
func (s *RepositorySpy) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	calls := make([]string, len(s.calls))
	copy(calls, s.calls)

	return calls
}

// MutationCount returns how many Insert, Update and Delete calls were made.
func (s *RepositorySpy) MutationCount() int {
	count := 0
	for _, call := range s.Calls() {
		if call == CallInsert || call == CallUpdate || call == CallDelete {
			count++
		}
	}

	return count
}

func (s *RepositorySpy) record(method string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls = append(s.calls, method)

	return s.errors[method]
}

func (s *RepositorySpy) runHook(method string) {
	s.mu.Lock()
	hook := s.hooks[method]
	delete(s.hooks, method)
	s.mu.Unlock()

	if hook != nil {
		hook()
	}
}

func (s *RepositorySpy) FindByPK(ctx context.Context, kind core.Kind, key core.NaturalKey) (core.Aggregate, bool, error) {
	if err := s.record(CallFindByPK); err != nil {
		return core.Aggregate{}, false, err
	}

	defer s.runHook(CallFindByPK)

	return s.inner.FindByPK(ctx, kind, key)
}

func (s *RepositorySpy) FindByID(ctx context.Context, kind core.Kind, id core.AggregateIDString) (core.Aggregate, bool, error) {
	if err := s.record(CallFindByID); err != nil {
		return core.Aggregate{}, false, err
	}

	defer s.runHook(CallFindByID)

	return s.inner.FindByID(ctx, kind, id)
}

func (s *RepositorySpy) List(ctx context.Context, kind core.Kind) ([]core.Aggregate, error) {
	if err := s.record(CallList); err != nil {
		return nil, err
	}

	defer s.runHook(CallList)

	return s.inner.List(ctx, kind)
}

func (s *RepositorySpy) Insert(ctx context.Context, event core.Created) error {
	if err := s.record(CallInsert); err != nil {
		return err
	}

	defer s.runHook(CallInsert)

	return s.inner.Insert(ctx, event)
}

func (s *RepositorySpy) Update(ctx context.Context, event core.Updated) error {
	if err := s.record(CallUpdate); err != nil {
		return err
	}

	defer s.runHook(CallUpdate)

	return s.inner.Update(ctx, event)
}

func (s *RepositorySpy) Delete(ctx context.Context, event core.Deleted) error {
	if err := s.record(CallDelete); err != nil {
		return err
	}

	defer s.runHook(CallDelete)

	return s.inner.Delete(ctx, event)
}
