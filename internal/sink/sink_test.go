package sink

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/huangsam/storecheck/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		goleak.IgnoreTopFunction("net/http.(*persistConn).readLoop"),
		goleak.IgnoreTopFunction("net/http.(*persistConn).writeLoop"),
		goleak.IgnoreTopFunction("internal/poll.runtime_pollWait"),
	)
}

func testPayload() schema.SubmissionPayload {
	return schema.NewSubmissionPayload([]schema.PayloadEntry{
		{Key: "storeId", Value: "S001"},
		{Key: "PH_1", Value: "yes"},
		{Key: "PH_1", Value: "no"},
		{Key: "remarks", Value: "clean & tidy"},
	})
}

type capture struct {
	mu     sync.Mutex
	bodies []string
	types  []string
	times  []time.Time
}

func (c *capture) handler(status int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		c.mu.Lock()
		c.bodies = append(c.bodies, string(body))
		c.types = append(c.types, r.Header.Get("Content-Type"))
		c.times = append(c.times, time.Now())
		c.mu.Unlock()
		w.WriteHeader(status)
	}
}

func TestSubmitSendsOrderedFormBody(t *testing.T) {
	c := &capture{}
	srv := httptest.NewServer(c.handler(http.StatusOK))
	defer srv.Close()

	s := New(Options{Endpoints: []string{srv.URL}, Queue: NewQueue(0), Client: srv.Client()})
	require.NoError(t, s.Submit(context.Background(), testPayload()))

	require.Len(t, c.bodies, 1)
	assert.Equal(t, "storeId=S001&PH_1=yes&PH_1=no&remarks=clean+%26+tidy", c.bodies[0])
	assert.Equal(t, ContentType, c.types[0])
}

func TestSubmitFansOutToEveryEndpoint(t *testing.T) {
	c := &capture{}
	a := httptest.NewServer(c.handler(http.StatusOK))
	defer a.Close()
	b := httptest.NewServer(c.handler(http.StatusOK))
	defer b.Close()

	s := New(Options{Endpoints: []string{a.URL, b.URL}, Queue: NewQueue(0)})
	require.NoError(t, s.Submit(context.Background(), testPayload()))

	assert.Len(t, c.bodies, 2)
	assert.Equal(t, c.bodies[0], c.bodies[1])
	assert.Equal(t, []string{a.URL, b.URL}, s.Endpoints())
}

func TestSubmitReportsEveryFailure(t *testing.T) {
	c := &capture{}
	ok := httptest.NewServer(c.handler(http.StatusOK))
	defer ok.Close()
	bad := httptest.NewServer(c.handler(http.StatusInternalServerError))
	defer bad.Close()
	worse := httptest.NewServer(c.handler(http.StatusForbidden))
	defer worse.Close()

	s := New(Options{Endpoints: []string{ok.URL, bad.URL, worse.URL}, Queue: NewQueue(0)})
	err := s.Submit(context.Background(), testPayload())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRejected)
	assert.Contains(t, err.Error(), bad.URL)
	assert.Contains(t, err.Error(), worse.URL)
	assert.Len(t, c.bodies, 3)
}

func TestSubmitOpaqueAcceptsAnyResponse(t *testing.T) {
	c := &capture{}
	srv := httptest.NewServer(c.handler(http.StatusInternalServerError))
	defer srv.Close()

	s := New(Options{Endpoints: []string{srv.URL}, Opaque: true, Queue: NewQueue(0)})
	assert.NoError(t, s.Submit(context.Background(), testPayload()))
}

func TestSubmitOpaqueStillFailsOnTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	s := New(Options{Endpoints: []string{url}, Opaque: true, Queue: NewQueue(0)})
	assert.Error(t, s.Submit(context.Background(), testPayload()))
}

func TestSubmitNoEndpoints(t *testing.T) {
	s := New(Options{})
	assert.ErrorIs(t, s.Submit(context.Background(), testPayload()), ErrNoEndpoints)
}

func TestSubmitTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	s := New(Options{Endpoints: []string{srv.URL}, Timeout: 50 * time.Millisecond, Queue: NewQueue(0)})
	err := s.Submit(context.Background(), testPayload())
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestSubmitSpacesRequestsByGap(t *testing.T) {
	c := &capture{}
	a := httptest.NewServer(c.handler(http.StatusOK))
	defer a.Close()
	b := httptest.NewServer(c.handler(http.StatusOK))
	defer b.Close()

	gap := 100 * time.Millisecond
	s := New(Options{Endpoints: []string{a.URL, b.URL}, Queue: NewQueue(gap)})
	require.NoError(t, s.Submit(context.Background(), testPayload()))

	require.Len(t, c.times, 2)
	delta := c.times[1].Sub(c.times[0])
	if delta < 0 {
		delta = -delta
	}
	assert.GreaterOrEqual(t, delta, gap-10*time.Millisecond)
}

func TestQueueWait(t *testing.T) {
	t.Run("first caller goes immediately", func(t *testing.T) {
		q := NewQueue(time.Hour)
		start := time.Now()
		require.NoError(t, q.Wait(context.Background()))
		assert.Less(t, time.Since(start), time.Second)
	})

	t.Run("later caller honors cancellation", func(t *testing.T) {
		q := NewQueue(time.Hour)
		require.NoError(t, q.Wait(context.Background()))
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()
		assert.ErrorIs(t, q.Wait(ctx), context.DeadlineExceeded)
	})

	t.Run("slots are reserved in order", func(t *testing.T) {
		base := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
		q := NewQueue(2 * time.Second)
		q.now = func() time.Time { return base }
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		require.NoError(t, q.Wait(context.Background()))
		assert.Equal(t, base.Add(2*time.Second), q.next)
		_ = q.Wait(ctx)
		assert.Equal(t, base.Add(4*time.Second), q.next)
	})
}
