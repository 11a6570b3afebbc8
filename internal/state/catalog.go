// ABOUTME: Catalog state manager: paginated product list, categories and filters
// ABOUTME: Fetches carry generation numbers so superseded responses are dropped

package state

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"golang.org/x/text/cases"

	"github.com/markalston/shopfront/internal/client"
)

// Fallback reasons when a fetch error carries no text
const (
	ErrFetchProducts     = "Failed to fetch products"
	ErrFetchMoreProducts = "Failed to fetch more products"
)

// CatalogAPI is the slice of the remote client the catalog manager needs
type CatalogAPI interface {
	Products(ctx context.Context, page int) ([]client.Product, error)
}

// pageInvalidator is implemented by APIs that cache pages
type pageInvalidator interface {
	InvalidatePages()
}

// FetchKind distinguishes a refresh from an append
type FetchKind int

const (
	FirstPage FetchKind = iota
	NextPage
)

func (k FetchKind) String() string {
	if k == NextPage {
		return "next"
	}
	return "first"
}

// CatalogState is the committed catalog snapshot
type CatalogState struct {
	Items            []client.Product
	Page             int
	HasMore          bool
	Categories       []string
	SelectedCategory string
	SearchQuery      string

	Loading     bool
	LoadingMore bool
	Error       string

	FirstPhase Phase
	NextPhase  Phase

	dedupe   bool
	firstGen uint64
	nextGen  uint64
}

// NewCatalogState returns the state before any fetch
func NewCatalogState() CatalogState {
	return CatalogState{Page: 1, HasMore: true}
}

// EffectiveProducts returns items whose title contains the search query under
// case folding and whose category matches the selected one, in order
func (s CatalogState) EffectiveProducts() []client.Product {
	if s.SearchQuery == "" && s.SelectedCategory == "" {
		return s.Items
	}

	fold := cases.Fold()
	query := fold.String(s.SearchQuery)

	out := make([]client.Product, 0, len(s.Items))
	for _, p := range s.Items {
		if s.SelectedCategory != "" && p.Category != s.SelectedCategory {
			continue
		}
		if query != "" && !strings.Contains(fold.String(p.Title), query) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// CatalogEvent is implemented by every catalog reducer event
type CatalogEvent interface{ catalogEvent() }

type FetchStarted struct{ Kind FetchKind }
type FetchSucceeded struct {
	Kind   FetchKind
	Gen    uint64
	Target int
	Items  []client.Product
}
type FetchFailed struct {
	Kind   FetchKind
	Gen    uint64
	Reason string
}
type CategorySelected struct{ Category string }
type SearchChanged struct{ Query string }

func (FetchStarted) catalogEvent()     {}
func (FetchSucceeded) catalogEvent()   {}
func (FetchFailed) catalogEvent()      {}
func (CategorySelected) catalogEvent() {}
func (SearchChanged) catalogEvent()    {}

// ReduceCatalog is the pure catalog reducer
func ReduceCatalog(s CatalogState, e CatalogEvent) CatalogState {
	switch ev := e.(type) {
	case FetchStarted:
		s.Error = ""
		if ev.Kind == FirstPage {
			// A refresh supersedes every request in flight
			s.firstGen++
			s.nextGen++
			s.Loading = true
			s.LoadingMore = false
			s.FirstPhase = Pending
		} else {
			s.nextGen++
			s.LoadingMore = true
			s.NextPhase = Pending
		}

	case FetchSucceeded:
		if !s.current(ev.Kind, ev.Gen) {
			return s
		}
		if ev.Kind == FirstPage {
			s.Items = appendProducts(nil, ev.Items, s.dedupe)
			s.Page = 1
			s.Loading = false
			s.FirstPhase = Fulfilled
		} else {
			s.Items = appendProducts(s.Items, ev.Items, s.dedupe)
			s.Page = ev.Target
			s.LoadingMore = false
			s.NextPhase = Fulfilled
		}
		s.HasMore = len(ev.Items) == client.PageSize
		s.Categories = distinctCategories(s.Items)

	case FetchFailed:
		if !s.current(ev.Kind, ev.Gen) {
			return s
		}
		s.Error = ev.Reason
		if ev.Kind == FirstPage {
			s.Loading = false
			s.FirstPhase = Rejected
		} else {
			s.LoadingMore = false
			s.NextPhase = Rejected
		}

	case CategorySelected:
		s.SelectedCategory = ev.Category
		s.Page = 1
		s.HasMore = true

	case SearchChanged:
		s.SearchQuery = ev.Query
		s.Page = 1
		s.HasMore = true
	}
	return s
}

func (s CatalogState) current(kind FetchKind, gen uint64) bool {
	if kind == FirstPage {
		return gen == s.firstGen
	}
	return gen == s.nextGen
}

// appendProducts returns a new slice holding existing followed by page.
// With dedupe, products whose id is already present are skipped.
func appendProducts(existing, page []client.Product, dedupe bool) []client.Product {
	out := make([]client.Product, 0, len(existing)+len(page))
	out = append(out, existing...)
	if !dedupe {
		return append(out, page...)
	}

	seen := make(map[int]struct{}, cap(out))
	for _, p := range out {
		seen[p.ID] = struct{}{}
	}
	for _, p := range page {
		if _, dup := seen[p.ID]; dup {
			continue
		}
		seen[p.ID] = struct{}{}
		out = append(out, p)
	}
	return out
}

// distinctCategories lists categories in discovery order
func distinctCategories(items []client.Product) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, p := range items {
		if _, ok := seen[p.Category]; ok {
			continue
		}
		seen[p.Category] = struct{}{}
		out = append(out, p.Category)
	}
	return out
}

// CatalogOption configures a Catalog
type CatalogOption func(*Catalog)

// WithDedupeByID skips products whose id is already listed
func WithDedupeByID(enabled bool) CatalogOption {
	return func(c *Catalog) { c.dedupe = enabled }
}

// WithCatalogLogger sets the logger; the default is slog.Default()
func WithCatalogLogger(logger *slog.Logger) CatalogOption {
	return func(c *Catalog) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// Catalog owns the product list
type Catalog struct {
	api    CatalogAPI
	logger *slog.Logger
	dedupe bool
	store  *Store[CatalogState, CatalogEvent]

	// gate makes LoadMore's check-and-start atomic
	gate sync.Mutex
}

// NewCatalog creates a catalog manager with an empty list
func NewCatalog(api CatalogAPI, opts ...CatalogOption) *Catalog {
	c := &Catalog{api: api, logger: slog.Default()}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With("component", "catalog")

	initial := NewCatalogState()
	initial.dedupe = c.dedupe
	c.store = NewStore(initial, ReduceCatalog)
	return c
}

// State returns the committed snapshot
func (c *Catalog) State() CatalogState {
	return c.store.Get()
}

// Subscribe calls fn after every commit
func (c *Catalog) Subscribe(fn func(CatalogState)) func() {
	return c.store.Subscribe(fn)
}

// FetchFirstPage reloads page 1, bypassing any cached pages
func (c *Catalog) FetchFirstPage(ctx context.Context) CatalogState {
	c.gate.Lock()
	st := c.store.Dispatch(FetchStarted{Kind: FirstPage})
	c.gate.Unlock()

	if inv, ok := c.api.(pageInvalidator); ok {
		inv.InvalidatePages()
	}
	return c.fetch(ctx, FirstPage, st.firstGen, 1)
}

// FetchNextPage requests target and appends it. It does not consult HasMore.
func (c *Catalog) FetchNextPage(ctx context.Context, target int) CatalogState {
	c.gate.Lock()
	st := c.store.Dispatch(FetchStarted{Kind: NextPage})
	c.gate.Unlock()

	return c.fetch(ctx, NextPage, st.nextGen, target)
}

// LoadMore fetches the page after the current one when more pages exist and
// no fetch is running. The bool reports whether a fetch was issued.
func (c *Catalog) LoadMore(ctx context.Context) (CatalogState, bool) {
	c.gate.Lock()
	cur := c.store.Get()
	if !cur.HasMore || cur.Loading || cur.LoadingMore {
		c.gate.Unlock()
		return cur, false
	}
	st := c.store.Dispatch(FetchStarted{Kind: NextPage})
	c.gate.Unlock()

	return c.fetch(ctx, NextPage, st.nextGen, cur.Page+1), true
}

func (c *Catalog) fetch(ctx context.Context, kind FetchKind, gen uint64, target int) CatalogState {
	c.logger.Debug("Fetching products", "kind", kind, "page", target, "gen", gen)

	products, err := c.api.Products(ctx, target)
	if err != nil {
		reason := fetchFailureReason(kind, err)
		c.logger.Warn("Product fetch failed", "kind", kind, "page", target, "error", err)
		return c.store.Dispatch(FetchFailed{Kind: kind, Gen: gen, Reason: reason})
	}

	c.logger.Debug("Products fetched", "kind", kind, "page", target, "count", len(products))
	return c.store.Dispatch(FetchSucceeded{Kind: kind, Gen: gen, Target: target, Items: products})
}

// fetchFailureReason surfaces the service's message or the transport error
// text. A service error without a message gets the per-kind fallback.
func fetchFailureReason(kind FetchKind, err error) string {
	fallback := ErrFetchProducts
	if kind == NextPage {
		fallback = ErrFetchMoreProducts
	}

	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Message != "" {
			return apiErr.Message
		}
		return fallback
	}
	if reason := err.Error(); reason != "" {
		return reason
	}
	return fallback
}

// SetSelectedCategory filters by category; empty clears the filter
func (c *Catalog) SetSelectedCategory(category string) CatalogState {
	return c.store.Dispatch(CategorySelected{Category: category})
}

// SetSearchQuery filters by title
func (c *Catalog) SetSearchQuery(query string) CatalogState {
	return c.store.Dispatch(SearchChanged{Query: query})
}

// EffectiveProducts returns the filtered view of the committed items
func (c *Catalog) EffectiveProducts() []client.Product {
	return c.store.Get().EffectiveProducts()
}

// Categories returns the distinct categories of the loaded items
func (c *Catalog) Categories() []string {
	return c.store.Get().Categories
}
