package state

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/markalston/shopfront/internal/client"
	"github.com/markalston/shopfront/internal/kvstore"
)

// fakeAuthAPI records calls and returns canned responses
type fakeAuthAPI struct {
	mu       sync.Mutex
	resp     *client.AuthResponse
	err      error
	token    string
	calls    []string
	lastCred client.Credentials
}

func (f *fakeAuthAPI) Login(_ context.Context, creds client.Credentials) (*client.AuthResponse, error) {
	return f.respond("login", creds)
}

func (f *fakeAuthAPI) Register(_ context.Context, creds client.Credentials) (*client.AuthResponse, error) {
	return f.respond("register", creds)
}

func (f *fakeAuthAPI) respond(op string, creds client.Credentials) (*client.AuthResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, op)
	f.lastCred = creds
	if f.err != nil {
		return nil, f.err
	}
	return f.resp, nil
}

func (f *fakeAuthAPI) SetToken(token string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.token = token
}

func (f *fakeAuthAPI) currentToken() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.token
}

// failingKV fails every operation
type failingKV struct{}

var errStorage = errors.New("storage unavailable")

func (failingKV) Get(context.Context, string) (string, bool, error) { return "", false, errStorage }
func (failingKV) Set(context.Context, string, string) error         { return errStorage }
func (failingKV) Delete(context.Context, string) error              { return errStorage }
func (failingKV) Close() error                                      { return nil }

var _ kvstore.Store = failingKV{}

// pageResult is one scripted response of fakeCatalogAPI
type pageResult struct {
	items []client.Product
	err   error
	// release, when set, blocks the response until closed
	release chan struct{}
}

// fakeCatalogAPI serves scripted pages keyed by page number
type fakeCatalogAPI struct {
	mu          sync.Mutex
	pages       map[int][]pageResult
	requested   []int
	invalidated int
}

func newFakeCatalogAPI() *fakeCatalogAPI {
	return &fakeCatalogAPI{pages: make(map[int][]pageResult)}
}

func (f *fakeCatalogAPI) script(page int, r pageResult) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pages[page] = append(f.pages[page], r)
}

func (f *fakeCatalogAPI) Products(ctx context.Context, page int) ([]client.Product, error) {
	f.mu.Lock()
	f.requested = append(f.requested, page)
	queue := f.pages[page]
	if len(queue) == 0 {
		f.mu.Unlock()
		return nil, fmt.Errorf("no scripted response for page %d", page)
	}
	r := queue[0]
	f.pages[page] = queue[1:]
	f.mu.Unlock()

	if r.release != nil {
		select {
		case <-r.release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return r.items, r.err
}

func (f *fakeCatalogAPI) InvalidatePages() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.invalidated++
}

func (f *fakeCatalogAPI) requestedPages() []int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]int(nil), f.requested...)
}

// makeProducts builds n products with ids starting at firstID
func makeProducts(firstID, n int, category string) []client.Product {
	out := make([]client.Product, n)
	for i := range out {
		id := firstID + i
		out[i] = client.Product{
			ID:       id,
			Title:    fmt.Sprintf("Product %d", id),
			Category: category,
			Price:    float64(id),
		}
	}
	return out
}
