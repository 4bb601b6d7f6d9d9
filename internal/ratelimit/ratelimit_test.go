package ratelimit

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/BerylCAtieno/event-ideas-agent/internal/observability"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

var fixedNow = time.Unix(1_700_000_000, 0)

func newTestLimiter(t *testing.T, limit int) (*Limiter, redismock.ClientMock) {
	t.Helper()
	db, mock := redismock.NewClientMock()
	l := New(db, limit, time.Minute)
	l.now = func() time.Time { return fixedNow }
	return l, mock
}

func TestLimiter_Key(t *testing.T) {
	l, _ := newTestLimiter(t, 1)
	assert.Equal(t, "ideas:ratelimit:10.0.0.1:28333333", l.key("10.0.0.1"))

	l.now = func() time.Time { return fixedNow.Add(time.Minute) }
	assert.Equal(t, "ideas:ratelimit:10.0.0.1:28333334", l.key("10.0.0.1"))
}

func TestLimiter_Allow(t *testing.T) {
	l, mock := newTestLimiter(t, 2)
	ctx := context.TODO()
	key := l.key("10.0.0.1")

	mock.ExpectIncr(key).SetVal(1)
	mock.ExpectExpire(key, time.Minute).SetVal(true)
	ok, err := l.Allow(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.True(t, ok)

	mock.ExpectIncr(key).SetVal(2)
	ok, err = l.Allow(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.True(t, ok)

	mock.ExpectIncr(key).SetVal(3)
	ok, err = l.Allow(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.False(t, ok)

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

func TestLimiter_AllowRedisErrors(t *testing.T) {
	l, mock := newTestLimiter(t, 1)
	ctx := context.TODO()
	key := l.key("10.0.0.1")

	mock.ExpectIncr(key).SetErr(errors.New("connection refused"))
	ok, err := l.Allow(ctx, "10.0.0.1")
	assert.True(t, ok)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis incr failure")

	mock.ExpectIncr(key).SetVal(1)
	mock.ExpectExpire(key, time.Minute).SetErr(errors.New("readonly"))
	ok, err = l.Allow(ctx, "10.0.0.1")
	assert.True(t, ok)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis expire failure")

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

func TestMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	l, mock := newTestLimiter(t, 1)
	key := l.key("192.0.2.1")

	router := gin.New()
	router.Use(Middleware(l, observability.New(), zaptest.NewLogger(t)))
	router.POST("/ideas", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	do := func() *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/ideas", nil))
		return w
	}

	mock.ExpectIncr(key).SetVal(1)
	mock.ExpectExpire(key, time.Minute).SetVal(true)
	assert.Equal(t, http.StatusOK, do().Code)

	mock.ExpectIncr(key).SetVal(2)
	w := do()
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), "Too many requests")

	mock.ExpectIncr(key).SetErr(errors.New("connection refused"))
	assert.Equal(t, http.StatusOK, do().Code)

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}
