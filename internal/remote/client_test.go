package remote

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/atlvs/cartflow/internal/cart"
)

func TestFetchItems_OK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/cart" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"items":[{"id":"a","price":10.5,"quantity":2},{"id":"b"}]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 2*time.Second)
	items, err := c.FetchItems(context.Background())
	if err != nil {
		t.Fatalf("FetchItems error: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 raw items, got %d", len(items))
	}
	if items[0]["id"] != "a" || items[0]["price"] != 10.5 {
		t.Fatalf("raw item mismatch: %+v", items[0])
	}

	// raw output feeds the normalizer directly
	normalized := cart.Normalize(items)
	if len(normalized) != 2 || normalized[0].Quantity != 2 || normalized[1].Quantity != 1 {
		t.Fatalf("normalize of fetched items mismatch: %+v", normalized)
	}
}

func TestFetchItems_NonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	if _, err := c.FetchItems(context.Background()); err == nil {
		t.Fatal("expected error for 502 response")
	}
}

func TestFetchItems_BadJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"items": not-json`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	if _, err := c.FetchItems(context.Background()); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestFetchItems_ContextCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := NewClient(srv.URL, time.Second)
	if _, err := c.FetchItems(ctx); err == nil {
		t.Fatal("expected error for canceled context")
	}
}
