package netx

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCheckerFunc(t *testing.T) {
	var calls int
	c := CheckerFunc(func(ctx context.Context) bool {
		calls++
		return calls%2 == 1
	})

	assert.True(t, c.Online(context.Background()))
	assert.False(t, c.Online(context.Background()))
}

func TestHTTPChecker(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodHead, r.Method)
		// an error status still proves reachability
		w.WriteHeader(http.StatusMethodNotAllowed)
	}))

	c := NewHTTPChecker(srv.URL, 2*time.Second)
	assert.True(t, c.Online(context.Background()))

	srv.Close()
	assert.False(t, c.Online(context.Background()))
}
