package logquery

import (
	"context"
	"sync"

	"github.com/bytedance/sonic"
)

// stubGetter answers every GET with respond(path) encoded as JSON.
type stubGetter struct {
	mu      sync.Mutex
	paths   []string
	respond func(path string) (any, error)
}

func (s *stubGetter) GetJSON(_ context.Context, pathAndQuery string, out any) error {
	s.mu.Lock()
	s.paths = append(s.paths, pathAndQuery)
	s.mu.Unlock()

	v, err := s.respond(pathAndQuery)
	if err != nil {
		return err
	}
	raw, err := sonic.Marshal(v)
	if err != nil {
		return err
	}
	return sonic.Unmarshal(raw, out)
}

func (s *stubGetter) calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.paths...)
}
