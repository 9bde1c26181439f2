package testutil

import (
	"context"
	"sync"

	"github.com/ledgerbook/ledgerbook/internal/share"
)

var _ share.Opener = (*MockOpener)(nil)

// MockOpener records opened share links in order, so tests can assert the
// export-before-share ordering.
type MockOpener struct {
	mu    sync.Mutex
	links []string
	err   error
}

func NewMockOpener() *MockOpener {
	return &MockOpener{}
}

func (o *MockOpener) Open(_ context.Context, link string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.err != nil {
		return o.err
	}
	o.links = append(o.links, link)
	return nil
}

// FailWith makes subsequent Open calls return err
func (o *MockOpener) FailWith(err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.err = err
}

// Links returns the opened links in call order
func (o *MockOpener) Links() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]string, len(o.links))
	copy(out, o.links)
	return out
}
