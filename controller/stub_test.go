package controller

import (
	"context"
	"sync"

	"github.com/songquanpeng/finlogs/logquery"
	"github.com/songquanpeng/finlogs/model"
)

type stubFetcher struct {
	mu         sync.Mutex
	directives []logquery.Directive
	queries    []model.QueryCriteria
	handle     func(q model.QueryCriteria, d logquery.Directive) (*logquery.Result, error)
}

func (s *stubFetcher) Fetch(_ context.Context, q model.QueryCriteria, d logquery.Directive) (*logquery.Result, error) {
	s.mu.Lock()
	s.directives = append(s.directives, d)
	s.queries = append(s.queries, q)
	s.mu.Unlock()
	return s.handle(q, d)
}

func (s *stubFetcher) last() logquery.Directive {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.directives[len(s.directives)-1]
}

func (s *stubFetcher) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.directives)
}

func logsWithIds(ids ...int) []model.Log {
	out := make([]model.Log, 0, len(ids))
	for _, id := range ids {
		out = append(out, model.Log{Id: id})
	}
	return out
}
