package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/passvault/pkg/helpers"
)

func init() { gin.SetMode(gin.TestMode) }

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRealIP(t *testing.T) {
	cases := []struct {
		name    string
		headers map[string]string
		want    string
	}{
		{"cloudflare wins", map[string]string{"CF-Connecting-IP": "203.0.113.7", "X-Forwarded-For": "198.51.100.1"}, "203.0.113.7"},
		{"left-most forwarded", map[string]string{"X-Forwarded-For": "198.51.100.1, 10.0.0.1"}, "198.51.100.1"},
		{"garbage falls back", map[string]string{"CF-Connecting-IP": "nope", "X-Forwarded-For": "also-nope"}, "192.0.2.1"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := gin.New()
			var got string
			r.GET("/", RealIP(), func(c *gin.Context) { got = c.GetString("real_ip") })

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			for k, v := range tc.headers {
				req.Header.Set(k, v)
			}
			serve(r, req)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	var got string
	r.GET("/", RequestIDMiddleware(), func(c *gin.Context) { got = c.GetString("request_id") })

	w := serve(r, httptest.NewRequest(http.MethodGet, "/", nil))
	_, err := uuid.Parse(got)
	require.NoError(t, err)
	assert.Equal(t, got, w.Header().Get(HeaderRequestID))

	incoming := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderRequestID, incoming)
	serve(r, req)
	assert.Equal(t, incoming, got)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderRequestID, "<script>")
	serve(r, req)
	assert.NotEqual(t, "<script>", got)
}

func TestRequireRole(t *testing.T) {
	newRouter := func(role string) *gin.Engine {
		r := gin.New()
		r.GET("/", func(c *gin.Context) {
			if role != "" {
				c.Set(CtxUserRole, role)
			}
		}, AdminOnly(), func(c *gin.Context) { c.Status(http.StatusNoContent) })
		return r
	}

	assert.Equal(t, http.StatusNoContent, serve(newRouter("admin"), httptest.NewRequest(http.MethodGet, "/", nil)).Code)
	assert.Equal(t, http.StatusForbidden, serve(newRouter("user"), httptest.NewRequest(http.MethodGet, "/", nil)).Code)
	assert.Equal(t, http.StatusForbidden, serve(newRouter(""), httptest.NewRequest(http.MethodGet, "/", nil)).Code)
}

func TestAuth_RejectsBeforeSessionLookup(t *testing.T) {
	jwt := helpers.NewJWTManager("access", "refresh", time.Minute, time.Hour)
	r := gin.New()
	r.GET("/", Auth(nil, jwt), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	w := serve(r, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: helpers.AccessCookie, Value: "not-a-jwt"})
	assert.Equal(t, http.StatusUnauthorized, serve(r, req).Code)

	// a refresh token is signed with a different secret
	refresh, _, err := jwt.GenerateRefreshToken("u1", "s1")
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: helpers.AccessCookie, Value: refresh})
	assert.Equal(t, http.StatusUnauthorized, serve(r, req).Code)

	access, _, err := jwt.GenerateAccessToken("u1", "s1")
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: helpers.AccessCookie, Value: access})
	assert.Equal(t, http.StatusServiceUnavailable, serve(r, req).Code)
}

type fakeSessions map[string]map[string]string

func (f fakeSessions) HGetAll(_ context.Context, key string) *redis.MapStringStringCmd {
	return redis.NewMapStringStringResult(f[key], nil)
}

func TestAuth_SessionMustCarryTokenSid(t *testing.T) {
	jwt := helpers.NewJWTManager("access", "refresh", time.Minute, time.Hour)
	access, _, err := jwt.GenerateAccessToken("u1", "s1")
	require.NoError(t, err)

	cases := []struct {
		name    string
		session map[string]string
		want    int
	}{
		{"matching sid", map[string]string{"sid": "s1", "user_id": "someone-else", "role": "admin"}, http.StatusOK},
		{"rotated sid", map[string]string{"sid": "s2", "role": "admin"}, http.StatusUnauthorized},
		{"session without sid", map[string]string{"user_id": "u1", "role": "admin"}, http.StatusUnauthorized},
		{"no session", nil, http.StatusUnauthorized},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := fakeSessions{}
			if tc.session != nil {
				store[helpers.KeySession("u1")] = tc.session
			}
			var gotID, gotRole string
			r := gin.New()
			r.GET("/", authenticate(store, jwt), func(c *gin.Context) {
				gotID = c.GetString(CtxUserID)
				gotRole = c.GetString(CtxUserRole)
				c.Status(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.AddCookie(&http.Cookie{Name: helpers.AccessCookie, Value: access})
			w := serve(r, req)

			assert.Equal(t, tc.want, w.Code)
			if tc.want == http.StatusOK {
				assert.Equal(t, "u1", gotID)
				assert.Equal(t, "admin", gotRole)
			}
		})
	}
}

func TestRateLimit_DisabledWithoutRedis(t *testing.T) {
	r := gin.New()
	r.GET("/", RateLimit(nil, 1, time.Minute, KeyByIP(), nil), func(c *gin.Context) { c.Status(http.StatusNoContent) })
	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusNoContent, serve(r, httptest.NewRequest(http.MethodGet, "/", nil)).Code)
	}
}

func TestKeyFuncs(t *testing.T) {
	r := gin.New()
	var keys []string
	r.GET("/items/:id", func(c *gin.Context) {
		c.Set("real_ip", "203.0.113.9")
		keys = append(keys, KeyByIP()(c), KeyByIPAndPath()(c), KeyByUserID()(c))
		c.Set(CtxUserID, "u1")
		keys = append(keys, KeyByUserID()(c))
	})
	serve(r, httptest.NewRequest(http.MethodGet, "/items/42", nil))

	assert.Equal(t, []string{
		"rl:ip:203.0.113.9",
		"rl:path:/items/:id:ip:203.0.113.9",
		"rl:user:anon:ip:203.0.113.9",
		"rl:user:u1",
	}, keys)
}

func TestAllowFuncs(t *testing.T) {
	r := gin.New()
	var private, admin, either bool
	r.GET("/", func(c *gin.Context) {
		c.Set("real_ip", "10.1.2.3")
		private = AllowPrivateIP()(c)
		admin = AllowRole("admin")(c)
		either = AllowAny(AllowRole("admin"), AllowPrivateIP())(c)
	})
	serve(r, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.True(t, private)
	assert.False(t, admin)
	assert.True(t, either)
}

func TestAccessLog(t *testing.T) {
	logger, hook := test.NewNullLogger()
	r := gin.New()
	r.GET("/missing", AccessLog(logger), func(c *gin.Context) { c.Status(http.StatusNotFound) })

	serve(r, httptest.NewRequest(http.MethodGet, "/missing?q=bank", nil))

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.WarnLevel, entry.Level)
	assert.Equal(t, "/missing", entry.Data["path"])
	assert.Equal(t, http.StatusNotFound, entry.Data["status"])
}
