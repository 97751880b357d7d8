//go:build !integration

package qrng

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"quantum-oracle-bot/internal/domain"
)

func TestANUSource_Fetch(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"type":"uint16","length":3,"data":[0,4242,65535],"success":true}`))
	}))
	defer srv.Close()

	src := NewANUSource(srv.URL, time.Second)
	got, err := src.Fetch(context.Background(), 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff([]uint16{0, 4242, 65535}, got); diff != "" {
		t.Errorf("values mismatch (-want +got):\n%s", diff)
	}
	if gotQuery != "length=3&type=uint16" {
		t.Errorf("unexpected query %q", gotQuery)
	}
}

func TestANUSource_Failures(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
	}{
		{"server error", http.StatusInternalServerError, `{"success":true,"data":[1]}`},
		{"success false", http.StatusOK, `{"success":false,"data":[1]}`},
		{"missing success", http.StatusOK, `{"data":[1]}`},
		{"data not array", http.StatusOK, `{"success":true,"data":"1,2"}`},
		{"non numeric value", http.StatusOK, `{"success":true,"data":[1,"2"]}`},
		{"value out of range", http.StatusOK, `{"success":true,"data":[1,70000]}`},
		{"negative value", http.StatusOK, `{"success":true,"data":[-1]}`},
		{"fractional value", http.StatusOK, `{"success":true,"data":[1.5]}`},
		{"not json", http.StatusOK, `<html>rate limited</html>`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			_, err := NewANUSource(srv.URL, time.Second).Fetch(context.Background(), 2)
			if !errors.Is(err, domain.ErrSourceUnavailable) {
				t.Fatalf("expected ErrSourceUnavailable, got %v", err)
			}
		})
	}
}

func TestANUSource_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	base := srv.URL
	srv.Close()

	if _, err := NewANUSource(base, time.Second).Fetch(context.Background(), 1); !errors.Is(err, domain.ErrSourceUnavailable) {
		t.Fatalf("expected ErrSourceUnavailable, got %v", err)
	}
}

func TestANUSource_InvalidBatchSize(t *testing.T) {
	if _, err := NewANUSource("", 0).Fetch(context.Background(), 0); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}
