package devauth

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storagegate/devauth/authority"
	"github.com/storagegate/devauth/cache"
	"github.com/storagegate/devauth/core"
)

// stubChecker accepts one account/token pair and rejects everything else.
type stubChecker struct {
	mu      sync.Mutex
	account string
	token   string
	ttl     time.Duration
	fail    bool
	calls   int
}

func (s *stubChecker) Check(_ context.Context, account, token string) authority.Verdict {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.fail {
		return authority.Verdict{Kind: authority.Failed, Err: &authority.UnavailableError{Op: "connect", Err: errors.New("connection refused")}}
	}
	if account == s.account && token == s.token {
		return authority.Verdict{Kind: authority.Accepted, TTL: s.ttl, Status: http.StatusNoContent}
	}
	return authority.Verdict{Kind: authority.Rejected, Status: http.StatusUnauthorized}
}

func (s *stubChecker) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func newStore(t *testing.T) *cache.MemoryStore {
	t.Helper()
	store, err := cache.NewMemoryStore(0)
	require.NoError(t, err)
	return store
}

var successHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	cred, err := GetCredential(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	_, _ = w.Write([]byte("ok " + cred.Account))
})

func Test_CheckAuth(t *testing.T) {
	testCases := []struct {
		name           string
		options        []Option
		method         string
		path           string
		headers        map[string]string
		failAuthority  bool
		wantStatusCode int
		wantBody       string
	}{
		{
			name:           "it proceeds with a valid auth token",
			path:           "/v1/acct1/cont/obj",
			headers:        map[string]string{"X-Auth-Token": "tok1"},
			wantStatusCode: http.StatusOK,
			wantBody:       "ok acct1",
		},
		{
			name:           "it accepts the legacy storage token header",
			path:           "/v1/acct1",
			headers:        map[string]string{"X-Storage-Token": "tok1"},
			wantStatusCode: http.StatusOK,
			wantBody:       "ok acct1",
		},
		{
			name:           "the auth token wins over the storage token",
			path:           "/v1/acct1",
			headers:        map[string]string{"X-Auth-Token": "tok1", "X-Storage-Token": "other"},
			wantStatusCode: http.StatusOK,
			wantBody:       "ok acct1",
		},
		{
			name:           "a wrong auth token is not rescued by a right storage token",
			path:           "/v1/acct1",
			headers:        map[string]string{"X-Auth-Token": "other", "X-Storage-Token": "tok1"},
			wantStatusCode: http.StatusUnauthorized,
			wantBody:       "Unauthorized",
		},
		{
			name:           "it rejects a path without an account",
			path:           "/v1",
			headers:        map[string]string{"X-Auth-Token": "tok1"},
			wantStatusCode: http.StatusPreconditionFailed,
			wantBody:       "Bad URL",
		},
		{
			name:           "it rejects the root path",
			path:           "/",
			headers:        map[string]string{"X-Auth-Token": "tok1"},
			wantStatusCode: http.StatusPreconditionFailed,
			wantBody:       "Bad URL",
		},
		{
			name:           "it rejects a missing token",
			path:           "/v1/acct1",
			wantStatusCode: http.StatusPreconditionFailed,
			wantBody:       "Missing Auth Token",
		},
		{
			name:           "it rejects an empty token",
			path:           "/v1/acct1",
			headers:        map[string]string{"X-Auth-Token": ""},
			wantStatusCode: http.StatusPreconditionFailed,
			wantBody:       "Missing Auth Token",
		},
		{
			name:           "it rejects an invalid token",
			path:           "/v1/acct1",
			headers:        map[string]string{"X-Auth-Token": "nope"},
			wantStatusCode: http.StatusUnauthorized,
			wantBody:       "Unauthorized",
		},
		{
			name:           "it fails closed when the authority is unreachable",
			path:           "/v1/acct1",
			headers:        map[string]string{"X-Auth-Token": "tok1"},
			failAuthority:  true,
			wantStatusCode: http.StatusUnauthorized,
			wantBody:       "Unauthorized",
		},
		{
			name:           "it validates OPTIONS by default",
			method:         http.MethodOptions,
			path:           "/v1/acct1",
			wantStatusCode: http.StatusPreconditionFailed,
			wantBody:       "Missing Auth Token",
		},
		{
			name:           "it skips OPTIONS when configured",
			options:        []Option{WithValidateOnOptions(false)},
			method:         http.MethodOptions,
			path:           "/v1/acct1",
			wantStatusCode: http.StatusOK,
			wantBody:       "passthrough",
		},
		{
			name:           "it skips excluded paths",
			options:        []Option{WithExclusionURLs("/healthcheck", "/info")},
			path:           "/healthcheck",
			wantStatusCode: http.StatusOK,
			wantBody:       "passthrough",
		},
		{
			name:           "it gates paths that are not excluded",
			options:        []Option{WithExclusionURLs("/healthcheck")},
			path:           "/v1/acct1",
			wantStatusCode: http.StatusPreconditionFailed,
			wantBody:       "Missing Auth Token",
		},
		{
			name: "it reports extractor failures as internal errors",
			options: []Option{WithRequestExtractor(func(*http.Request) (core.Request, error) {
				return core.Request{}, errors.New("boom")
			})},
			path:           "/v1/acct1",
			headers:        map[string]string{"X-Auth-Token": "tok1"},
			wantStatusCode: http.StatusInternalServerError,
			wantBody:       "Something went wrong while checking the auth token.",
		},
		{
			name: "it calls a custom error handler",
			options: []Option{WithErrorHandler(func(w http.ResponseWriter, r *http.Request, err error) {
				w.WriteHeader(http.StatusForbidden)
				_, _ = w.Write([]byte("custom: " + err.Error()))
			})},
			path:           "/v1",
			wantStatusCode: http.StatusForbidden,
			wantBody:       "custom: bad request: Bad URL",
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			checker := &stubChecker{account: "acct1", token: "tok1", ttl: time.Minute, fail: testCase.failAuthority}
			opts := append([]Option{WithChecker(checker), WithStore(newStore(t))}, testCase.options...)
			m, err := New(opts...)
			require.NoError(t, err)

			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if !core.HasCredential(r.Context()) {
					_, _ = w.Write([]byte("passthrough"))
					return
				}
				successHandler(w, r)
			})

			server := httptest.NewServer(m.CheckAuth(next))
			defer server.Close()

			method := testCase.method
			if method == "" {
				method = http.MethodGet
			}
			req, err := http.NewRequest(method, server.URL+testCase.path, nil)
			require.NoError(t, err)
			for k, v := range testCase.headers {
				req.Header.Set(k, v)
			}

			res, err := http.DefaultClient.Do(req)
			require.NoError(t, err)
			defer res.Body.Close()

			body, err := io.ReadAll(res.Body)
			require.NoError(t, err)

			assert.Equal(t, testCase.wantStatusCode, res.StatusCode)
			assert.Equal(t, testCase.wantBody, string(body))
		})
	}
}

func Test_CheckAuthCachesVerdicts(t *testing.T) {
	checker := &stubChecker{account: "acct1", token: "tok1", ttl: time.Minute}
	m, err := New(WithChecker(checker), WithStore(newStore(t)))
	require.NoError(t, err)
	handler := m.CheckAuth(successHandler)

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/v1/acct1/cont", nil)
		req.Header.Set("X-Auth-Token", "tok1")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
	}
	assert.Equal(t, 1, checker.count())

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, "/v1/acct1", nil)
		req.Header.Set("X-Auth-Token", "bad")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	}
	assert.Equal(t, 3, checker.count(), "rejections are asked again every time")
}

func Test_CheckAuthLeavesRequestUntouched(t *testing.T) {
	checker := &stubChecker{account: "acct1", token: "tok1", ttl: time.Minute}
	m, err := New(WithChecker(checker), WithStore(newStore(t)))
	require.NoError(t, err)

	var seen *http.Request
	handler := m.CheckAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = r
	}))

	req := httptest.NewRequest(http.MethodPut, "/v1/acct1/cont/obj?multipart-manifest=put", nil)
	req.Header.Set("X-Storage-Token", "tok1")
	req.Header.Set("X-Object-Meta-Color", "blue")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	require.NotNil(t, seen)
	assert.Equal(t, http.MethodPut, seen.Method)
	assert.Equal(t, "/v1/acct1/cont/obj", seen.URL.Path)
	assert.Equal(t, "multipart-manifest=put", seen.URL.RawQuery)
	assert.Equal(t, "blue", seen.Header.Get("X-Object-Meta-Color"))
	assert.Equal(t, "tok1", seen.Header.Get("X-Storage-Token"))
	assert.Empty(t, seen.Header.Values("X-Auth-Token"))
}

func Test_New(t *testing.T) {
	t.Run("it requires a checker and a store", func(t *testing.T) {
		_, err := New()
		assert.Error(t, err)

		_, err = New(WithChecker(&stubChecker{}))
		assert.Error(t, err)
	})

	t.Run("it accepts a prebuilt core", func(t *testing.T) {
		c, err := core.New(core.WithChecker(&stubChecker{}), core.WithStore(newStore(t)))
		require.NoError(t, err)

		m, err := New(WithCore(c))
		require.NoError(t, err)
		assert.Same(t, c, m.Core())
	})

	testCases := []struct {
		name string
		opt  Option
	}{
		{name: "nil checker", opt: WithChecker(nil)},
		{name: "nil store", opt: WithStore(nil)},
		{name: "nil core", opt: WithCore(nil)},
		{name: "nil metrics", opt: WithMetrics(nil)},
		{name: "nil tracer", opt: WithTracer(nil)},
		{name: "nil clock", opt: WithClock(nil)},
		{name: "empty prefix", opt: WithCacheKeyPrefix("")},
		{name: "nil error handler", opt: WithErrorHandler(nil)},
		{name: "nil extractor", opt: WithRequestExtractor(nil)},
		{name: "no exclusions", opt: WithExclusionURLs()},
		{name: "nil logger", opt: WithLogger(nil)},
	}
	for _, testCase := range testCases {
		t.Run("it rejects "+testCase.name, func(t *testing.T) {
			_, err := New(WithChecker(&stubChecker{}), WithStore(newStore(t)), testCase.opt)
			assert.ErrorContains(t, err, "invalid option")
		})
	}
}
