package observability

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

// TestMetricsRegistered verifies that all metrics are registered in the
// default registry without panicking.
func TestMetricsRegistered(t *testing.T) {
	expected := map[string]bool{
		"onemin_provider_requests_total":     false,
		"onemin_provider_latency_seconds":    false,
		"onemin_http_responses_total":        false,
		"onemin_conversations_created_total": false,
		"onemin_conversations_cleared_total": false,
		"onemin_conversations_active":        false,
		"onemin_option_writes_total":         false,
	}

	// Vector metrics only appear after first observation.
	ProviderRequestsTotal.WithLabelValues("submit_prompt", "ok").Inc()
	ProviderLatency.WithLabelValues("submit_prompt").Observe(0.1)
	HTTPResponsesTotal.WithLabelValues("POST", "2xx").Inc()
	ConversationsClearedTotal.WithLabelValues("cleared").Inc()
	OptionWritesTotal.WithLabelValues("defaults").Inc()

	families, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		t.Fatalf("unexpected gather error: %v", err)
	}

	for _, mf := range families {
		if _, ok := expected[mf.GetName()]; ok {
			expected[mf.GetName()] = true
		}
	}

	for name, found := range expected {
		if !found {
			t.Errorf("metric %q not found in default registry", name)
		}
	}
}

// TestTransportRecordsStatusClass verifies that the transport counts
// responses by method and status class.
func TestTransportRecordsStatusClass(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := &http.Client{Transport: NewTransport(nil)}

	before2xx := counterValue(t, HTTPResponsesTotal, "GET", "2xx")
	before4xx := counterValue(t, HTTPResponsesTotal, "DELETE", "4xx")

	resp, err := client.Get(srv.URL + "/ok")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()

	req, _ := http.NewRequest(http.MethodDelete, srv.URL+"/missing", nil)
	resp, err = client.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()

	if d := counterValue(t, HTTPResponsesTotal, "GET", "2xx") - before2xx; d != 1 {
		t.Errorf("expected 2xx count to increase by 1, got delta=%f", d)
	}
	if d := counterValue(t, HTTPResponsesTotal, "DELETE", "4xx") - before4xx; d != 1 {
		t.Errorf("expected 4xx count to increase by 1, got delta=%f", d)
	}
}

type failingRoundTripper struct{}

func (failingRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return nil, errors.New("dial tcp: connection refused")
}

// TestTransportRecordsErrors verifies that transport failures are counted
// under the "error" status label and passed through unchanged.
func TestTransportRecordsErrors(t *testing.T) {
	before := counterValue(t, HTTPResponsesTotal, "POST", "error")

	client := &http.Client{Transport: NewTransport(failingRoundTripper{})}
	req, _ := http.NewRequest(http.MethodPost, "http://127.0.0.1:1/api/features", nil)
	if _, err := client.Do(req); err == nil {
		t.Fatal("expected transport error")
	}

	if d := counterValue(t, HTTPResponsesTotal, "POST", "error") - before; d != 1 {
		t.Errorf("expected error count to increase by 1, got delta=%f", d)
	}
}

// TestServeStopsOnCancel verifies that the metrics endpoint shuts down
// cleanly when its context is cancelled.
func TestServeStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Serve(ctx, "127.0.0.1:0") }()

	cancel()
	if err := <-done; err != nil {
		t.Errorf("Serve returned %v, want nil", err)
	}
}

// counterValue reads the current value of a CounterVec for the given labels.
func counterValue(t *testing.T, cv *prometheus.CounterVec, labels ...string) float64 {
	t.Helper()
	m := &dto.Metric{}
	c, err := cv.GetMetricWithLabelValues(labels...)
	if err != nil {
		t.Fatalf("getting counter metric: %v", err)
	}
	if err := c.(prometheus.Metric).Write(m); err != nil {
		t.Fatalf("writing counter metric: %v", err)
	}
	return m.GetCounter().GetValue()
}
