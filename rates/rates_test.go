package rates

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"card-arbitrage/utils"
)

func TestGetReturnsLiveRate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/JPY" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		w.Write([]byte(`{"base":"JPY","rates":{"USD":0.0071,"GBP":0.0056}}`))
	}))
	defer srv.Close()

	c := NewClientWithBaseURL(srv.URL, utils.NewLogger())
	rate := c.Get(context.Background(), "JPY", "USD", 0.0067)

	if rate.Fallback {
		t.Error("live rate should not be flagged as fallback")
	}
	if rate.Value != 0.0071 {
		t.Errorf("rate: got %.4f, want 0.0071", rate.Value)
	}
}

func TestGetFallsBackOnServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClientWithBaseURL(srv.URL, utils.NewLogger())
	rate := c.Get(context.Background(), "JPY", "USD", 0.0067)

	if !rate.Fallback {
		t.Error("server error should flag the fallback rate")
	}
	if rate.Value != 0.0067 {
		t.Errorf("fallback rate: got %.4f, want 0.0067", rate.Value)
	}
}

func TestGetFallsBackOnMissingTarget(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"base":"EUR","rates":{"USD":1.08}}`))
	}))
	defer srv.Close()

	c := NewClientWithBaseURL(srv.URL, utils.NewLogger())
	rate := c.Get(context.Background(), "EUR", "GBP", 0.8547)

	if !rate.Fallback || rate.Value != 0.8547 {
		t.Errorf("missing target currency: got (%.4f, fallback=%v), want (0.8547, true)",
			rate.Value, rate.Fallback)
	}
}

func TestGetFallsBackWhenUnreachable(t *testing.T) {
	c := NewClientWithBaseURL("http://127.0.0.1:1", utils.NewLogger())
	rate := c.Get(context.Background(), "USD", "GBP", 0.7874)

	if !rate.Fallback || rate.Value != 0.7874 {
		t.Errorf("unreachable service: got (%.4f, fallback=%v), want (0.7874, true)",
			rate.Value, rate.Fallback)
	}
}
