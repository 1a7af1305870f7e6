// internal/youtube/mock_test.go
package youtube

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/chromedp/cdproto/network"
)

// -- Mock Tab for driving the resolver and sequencer in tests --

// mockTab records every call it receives and answers script evaluations
// through a single programmable respond hook. Scripts with no handler fail
// the evaluation, which the code under test must treat as a non-match.
type mockTab struct {
	mu sync.Mutex

	url       string
	navErr    error
	cookieErr error

	// respond answers an evaluated script with a value or an error. The value
	// is marshalled through JSON into the caller's result pointer, mirroring
	// how CDP evaluation results reach Go.
	respond func(script string) (any, error)

	evaluated []string
	navigated []string
	cookies   [][]*network.CookieParam
}

var errNoHandler = errors.New("mock: no handler for script")

func (m *mockTab) Evaluate(_ context.Context, script string, res any) error {
	m.mu.Lock()
	m.evaluated = append(m.evaluated, script)
	fn := m.respond
	m.mu.Unlock()

	if fn == nil {
		return errNoHandler
	}
	value, err := fn(script)
	if err != nil {
		return err
	}
	if res == nil {
		return nil
	}
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, res); err != nil {
		return fmt.Errorf("mock: result type mismatch: %w", err)
	}
	return nil
}

func (m *mockTab) Navigate(_ context.Context, url string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.navErr != nil {
		return m.navErr
	}
	m.navigated = append(m.navigated, url)
	m.url = url
	return nil
}

func (m *mockTab) CurrentURL(_ context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.url, nil
}

func (m *mockTab) SetCookies(_ context.Context, cookies []*network.CookieParam) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cookieErr != nil {
		return m.cookieErr
	}
	m.cookies = append(m.cookies, cookies)
	return nil
}

// evalCount reports how many times a given script was evaluated.
func (m *mockTab) evalCount(script string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, s := range m.evaluated {
		if s == script {
			n++
		}
	}
	return n
}

func (m *mockTab) navigations() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.navigated...)
}

func (m *mockTab) cookieWrites() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.cookies)
}
