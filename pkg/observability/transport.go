package observability

import (
	"net/http"
	"strconv"
)

// Transport wraps an http.RoundTripper to record one HTTPResponsesTotal
// sample per round trip. Transport-level failures are recorded with the
// status label "error".
type Transport struct {
	Base http.RoundTripper
}

// NewTransport returns a Transport around base. A nil base means
// http.DefaultTransport.
func NewTransport(base http.RoundTripper) *Transport {
	return &Transport{Base: base}
}

// RoundTrip implements http.RoundTripper.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}

	resp, err := base.RoundTrip(req)
	if err != nil {
		HTTPResponsesTotal.WithLabelValues(req.Method, "error").Inc()
		return nil, err
	}

	// Status class label like "2xx", "4xx", "5xx".
	statusStr := strconv.Itoa(resp.StatusCode/100) + "xx"
	HTTPResponsesTotal.WithLabelValues(req.Method, statusStr).Inc()
	return resp, nil
}
