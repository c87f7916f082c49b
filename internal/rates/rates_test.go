package rates

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"

	"gameprice-tracker/internal/metrics"
)

type fakeTransport struct {
	status int
	body   string
	err    error
}

func (f *fakeTransport) DoDeadline(_ *fasthttp.Request, resp *fasthttp.Response, _ time.Time) error {
	if f.err != nil {
		return f.err
	}
	resp.SetStatusCode(f.status)
	resp.SetBodyString(f.body)
	return nil
}

func newTestClient(ft *fakeTransport) *Client {
	return &Client{
		url:       "https://rates.invalid/v6/latest/USD",
		transport: ft,
		metrics:   metrics.NewRegistry(),
		logger:    zerolog.Nop(),
	}
}

func TestFetch_Success(t *testing.T) {
	ft := &fakeTransport{status: 200, body: `{"result": "success", "rates": {"USD": 1, "SGD": 1.4, "TRY": 33.1}}`}
	got := newTestClient(ft).Fetch(context.Background())

	require.Len(t, got, 3)
	assert.Equal(t, 1.0, got["USD"])
	assert.Equal(t, 1.4, got["SGD"])
}

func TestFetch_FallsBack(t *testing.T) {
	cases := map[string]*fakeTransport{
		"transport error": {err: errors.New("connection refused")},
		"non-success":     {status: 500, body: "oops"},
		"malformed body":  {status: 200, body: "{not json"},
		"no rates":        {status: 200, body: `{"result": "success", "rates": {}}`},
	}

	for name, ft := range cases {
		t.Run(name, func(t *testing.T) {
			got := newTestClient(ft).Fetch(context.Background())
			assert.Equal(t, Fallback(), got)
		})
	}
}

func TestFallbackCoversSupportedCurrencies(t *testing.T) {
	fb := Fallback()
	assert.Equal(t, 1.0, fb[BaseCurrency])
	for _, code := range []string{"USD", "SGD", "TRY", "IDR"} {
		assert.Greater(t, fb[code], 0.0, "fallback must cover %s", code)
	}
}

func TestFallbackReturnsCopy(t *testing.T) {
	fb := Fallback()
	fb["USD"] = 999
	assert.Equal(t, 1.0, Fallback()["USD"])
}
