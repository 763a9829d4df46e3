package provision

import (
	"context"
	"strings"
)

// mockCmd records external command invocations and returns configured results.
type mockCmd struct {
	calls   []string
	results map[string]mockResult // keyed by command name, "" matches all
}

type mockResult struct {
	Out string
	Err error
}

func (m *mockCmd) Run(ctx context.Context, dir string, name string, args ...string) (string, error) {
	m.calls = append(m.calls, strings.TrimSpace(name+" "+strings.Join(args, " ")))
	if r, ok := m.results[name]; ok {
		return r.Out, r.Err
	}
	if r, ok := m.results[""]; ok {
		return r.Out, r.Err
	}
	return "", nil
}

// mockGit records git invocations.
type mockGit struct {
	calls []string
	err   error
}

func (m *mockGit) Run(dir string, args ...string) (string, error) {
	m.calls = append(m.calls, "git "+strings.Join(args, " "))
	return "", m.err
}

// yesConfirmer answers every prompt with a fixed value.
type yesConfirmer struct {
	answer bool
	asked  int
}

func (c *yesConfirmer) Confirm(title string, def bool) (bool, error) {
	c.asked++
	return c.answer, nil
}
