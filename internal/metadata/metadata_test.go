package metadata

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/valyala/fasthttp"

	"gameprice-tracker/internal/domain"
	"gameprice-tracker/internal/metrics"
)

type fakeTransport struct {
	status int
	body   string
	err    error
	calls  int
}

func (f *fakeTransport) DoDeadline(_ *fasthttp.Request, resp *fasthttp.Response, _ time.Time) error {
	f.calls++
	if f.err != nil {
		return f.err
	}
	resp.SetStatusCode(f.status)
	resp.SetBodyString(f.body)
	return nil
}

func newTestClient(ft *fakeTransport) *Client {
	return &Client{
		apiKey:    "test-key",
		endpoint:  "https://catalog.invalid/api/games",
		transport: ft,
		metrics:   metrics.NewRegistry(),
		logger:    zerolog.Nop(),
	}
}

func TestFetch_FirstResultIsMapped(t *testing.T) {
	ft := &fakeTransport{status: 200, body: `{
		"count": 2,
		"results": [
			{"name": "Elden Ring", "background_image": "https://img.invalid/er.jpg", "rating": 4.8},
			{"name": "Elden Ring: Shadow of the Erdtree", "background_image": "https://img.invalid/sote.jpg"}
		]
	}`}

	got := newTestClient(ft).Fetch(context.Background(), "elden ring")
	assert.Equal(t, domain.GameMetadata{
		Title:         "Elden Ring",
		CoverImageURL: "https://img.invalid/er.jpg",
	}, got)
}

func TestFetch_NoCredentialSkipsLookup(t *testing.T) {
	ft := &fakeTransport{status: 200, body: `{"results": [{"name": "x"}]}`}
	c := newTestClient(ft)
	c.apiKey = ""

	got := c.Fetch(context.Background(), "elden ring")
	assert.Equal(t, domain.GameMetadata{}, got)
	assert.Zero(t, ft.calls, "degraded mode makes no request")
}

func TestFetch_FailurePathsCollapseToEmpty(t *testing.T) {
	cases := map[string]*fakeTransport{
		"transport error": {err: errors.New("connection refused")},
		"non-success":     {status: 503, body: "busy"},
		"empty results":   {status: 200, body: `{"count": 0, "results": []}`},
		"malformed body":  {status: 200, body: "{not json"},
	}

	for name, ft := range cases {
		t.Run(name, func(t *testing.T) {
			got := newTestClient(ft).Fetch(context.Background(), "elden ring")
			assert.Equal(t, domain.GameMetadata{}, got)
		})
	}
}
