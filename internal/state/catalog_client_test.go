package state

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/markalston/shopfront/internal/client"
)

// newFailingCatalogServer answers every page with a non-SUCCESS status and
// the given message
func newFailingCatalogServer(t *testing.T, message string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(client.ProductResponse{
			Status:   "FAILURE",
			Message:  message,
			Products: []client.Product{},
		})
	}))
	t.Cleanup(server.Close)
	return server
}

func TestFetch_ServiceFailureWithoutMessageUsesFallback(t *testing.T) {
	server := newFailingCatalogServer(t, "")
	c := client.New(server.URL)
	defer c.Close()
	cat := NewCatalog(c)

	st := cat.FetchFirstPage(context.Background())
	assert.Equal(t, ErrFetchProducts, st.Error)
	assert.Equal(t, Rejected, st.FirstPhase)

	st = cat.FetchNextPage(context.Background(), 2)
	assert.Equal(t, ErrFetchMoreProducts, st.Error)
	assert.Equal(t, Rejected, st.NextPhase)
}

func TestFetch_ServiceFailureMessageSurfaced(t *testing.T) {
	server := newFailingCatalogServer(t, "catalog is being rebuilt")
	c := client.New(server.URL)
	defer c.Close()
	cat := NewCatalog(c)

	st := cat.FetchFirstPage(context.Background())
	assert.Equal(t, "catalog is being rebuilt", st.Error)
}

func TestFetch_HTTPErrorWithoutBodyUsesFallback(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()
	c := client.New(server.URL)
	defer c.Close()
	cat := NewCatalog(c)

	st := cat.FetchFirstPage(context.Background())
	assert.Equal(t, ErrFetchProducts, st.Error)
}

func TestFetchFailureReason(t *testing.T) {
	tests := []struct {
		name string
		kind FetchKind
		err  error
		want string
	}{
		{"api message", FirstPage, &client.APIError{StatusCode: 200, Message: "sold out"}, "sold out"},
		{"api without message, first", FirstPage, &client.APIError{StatusCode: 200}, ErrFetchProducts},
		{"api without message, next", NextPage, &client.APIError{StatusCode: 502}, ErrFetchMoreProducts},
		{"transport error", NextPage, assert.AnError, assert.AnError.Error()},
		{"empty error text", FirstPage, silentError{}, ErrFetchProducts},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, fetchFailureReason(tt.kind, tt.err))
		})
	}
}
