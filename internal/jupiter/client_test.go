package jupiter

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pumpwatch/internal/ratelimit"
)

// instantLimiter returns a limiter that never sleeps, for tests.
func instantLimiter() *ratelimit.Limiter {
	return ratelimit.New(0)
}

func TestGetPrices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "mintA,mintB,mintC", r.URL.Query().Get("ids"))
		w.Write([]byte(`{"data": {
			"mintA": {"price": "1.23"},
			"mintB": {"price": "0.000045"},
			"mintC": {"price": "garbage"}
		}}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, WithLimiter(instantLimiter()))
	prices, err := client.GetPrices(context.Background(), []string{"mintA", "mintB", "mintC"})
	require.NoError(t, err)

	assert.Equal(t, 1.23, prices["mintA"])
	assert.Equal(t, 0.000045, prices["mintB"])
	// Unparseable prices map to zero rather than being dropped.
	price, ok := prices["mintC"]
	assert.True(t, ok)
	assert.Equal(t, 0.0, price)
}

func TestGetPricesBatching(t *testing.T) {
	var batchSizes []int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ids := strings.Split(r.URL.Query().Get("ids"), ",")
		batchSizes = append(batchSizes, len(ids))
		fmt.Fprintf(w, `{"data": {"%s": {"price": "1"}}}`, ids[0])
	}))
	defer server.Close()

	mints := make([]string, 250)
	for i := range mints {
		mints[i] = fmt.Sprintf("mint%03d", i)
	}

	client := NewClient(server.URL, WithLimiter(instantLimiter()))
	_, err := client.GetPrices(context.Background(), mints)
	require.NoError(t, err)
	assert.Equal(t, []int{100, 100, 50}, batchSizes)
}

func TestGetPricesFailedBatchContributesNothing(t *testing.T) {
	var call int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		call++
		if call == 1 {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		ids := strings.Split(r.URL.Query().Get("ids"), ",")
		fmt.Fprintf(w, `{"data": {"%s": {"price": "2.5"}}}`, ids[0])
	}))
	defer server.Close()

	mints := make([]string, 150)
	for i := range mints {
		mints[i] = fmt.Sprintf("mint%03d", i)
	}

	client := NewClient(server.URL,
		WithLimiter(instantLimiter()),
		WithLogger(log.New(io.Discard, "", 0)))
	prices, err := client.GetPrices(context.Background(), mints)
	require.NoError(t, err)

	// Only the second batch succeeded.
	assert.Len(t, prices, 1)
	assert.Equal(t, 2.5, prices["mint100"])
}

func TestGetPricesSpacing(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data": {}}`))
	}))
	defer server.Close()

	var slept []time.Duration
	clock := time.Unix(1000, 0)
	limiter := ratelimit.New(BatchInterval).WithClock(
		func() time.Time { return clock },
		func(ctx context.Context, d time.Duration) error {
			slept = append(slept, d)
			clock = clock.Add(d)
			return nil
		})

	mints := make([]string, 150)
	for i := range mints {
		mints[i] = fmt.Sprintf("mint%03d", i)
	}

	client := NewClient(server.URL, WithLimiter(limiter))
	_, err := client.GetPrices(context.Background(), mints)
	require.NoError(t, err)

	// Two batches, one enforced gap.
	require.Len(t, slept, 1)
	assert.Equal(t, BatchInterval, slept[0])
}
