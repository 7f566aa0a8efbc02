package middlewares

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"coparent-api/internal/domain/user"
	"coparent-api/internal/infrastructure/auth"
	"coparent-api/internal/infrastructure/telemetry"
	"coparent-api/internal/utils/platformerrors"
)

type fakeValidator struct{}

func (fakeValidator) Validate(_ context.Context, raw string) (*auth.Claims, error) {
	switch raw {
	case "good":
		return &auth.Claims{Subject: "sub-1", Issuer: "https://idp.example.com", Name: "Sam Lee"}, nil
	case "nosub":
		return nil, auth.ErrMissingSubject
	default:
		return nil, auth.ErrInvalidToken
	}
}

func (fakeValidator) Provider() string { return auth.ProviderOIDC }

type resolverFunc func(ctx context.Context, identity user.Identity) (*user.User, error)

func (f resolverFunc) ResolveOrCreate(ctx context.Context, identity user.Identity) (*user.User, error) {
	return f(ctx, identity)
}

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRequestID_PropagatesToPlatformErrors(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	var fromErr, fromGin string
	r.GET("/", func(c *gin.Context) {
		err := platformerrors.NewError(c.Request.Context(), platformerrors.LayerRoute, platformerrors.ErrorTypeInternal, "x", nil, "")
		fromErr = err.RequestID
		fromGin = RequestIDFromContext(c)
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-Id", "req-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "req-123", w.Header().Get("X-Request-Id"))
	assert.Equal(t, "req-123", fromErr)
	assert.Equal(t, "req-123", fromGin)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, w.Header().Get("X-Request-Id"))
	assert.Equal(t, w.Header().Get("X-Request-Id"), fromErr)
}

func TestAuthMiddleware(t *testing.T) {
	var resolved user.Identity
	resolver := resolverFunc(func(ctx context.Context, identity user.Identity) (*user.User, error) {
		resolved = identity
		return &user.User{ID: 3, PublicID: "user-3"}, nil
	})

	r := gin.New()
	r.Use(RequestID(), AuthMiddleware(fakeValidator{}, resolver, zerolog.Nop()))
	r.GET("/me", func(c *gin.Context) {
		u, ok := UserFromContext(c)
		require.True(t, ok)
		c.String(http.StatusOK, u.PublicID)
	})

	call := func(header string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	w := call("Bearer good")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "user-3", w.Body.String())
	assert.Equal(t, "sub-1", resolved.Subject)
	assert.Equal(t, auth.ProviderOIDC, resolved.Provider)
	require.NotNil(t, resolved.FirstName)
	assert.Equal(t, "Sam", *resolved.FirstName)

	assert.Equal(t, http.StatusUnauthorized, call("").Code)
	assert.Equal(t, http.StatusUnauthorized, call("Basic abc").Code)
	assert.Equal(t, http.StatusUnauthorized, call("Bearer forged").Code)

	w = call("Bearer nosub")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "token has no subject")
}

func TestAuthMiddleware_ResolverFailure(t *testing.T) {
	resolver := resolverFunc(func(ctx context.Context, identity user.Identity) (*user.User, error) {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeConflict, "email taken", nil, "user-upsert-002")
	})

	r := gin.New()
	r.Use(AuthMiddleware(fakeValidator{}, resolver, zerolog.Nop()))
	r.GET("/me", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer good")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestCORSMiddleware(t *testing.T) {
	preflight := func(origins []string, origin string) *httptest.ResponseRecorder {
		r := gin.New()
		r.Use(CORSMiddleware(origins))
		r.GET("/messages", func(c *gin.Context) { c.Status(http.StatusOK) })

		req := httptest.NewRequest(http.MethodOptions, "/messages", nil)
		req.Header.Set("Origin", origin)
		req.Header.Set("Access-Control-Request-Method", http.MethodGet)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	w := preflight([]string{"*"}, "https://app.example.com")
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Credentials"))

	w = preflight([]string{"https://app.example.com"}, "https://app.example.com")
	assert.Equal(t, "https://app.example.com", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))

	w = preflight([]string{"https://app.example.com"}, "https://evil.example.com")
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestLoggingMiddleware_SanitizesQuery(t *testing.T) {
	var buf testWriter
	logger := zerolog.New(&buf)

	r := gin.New()
	r.Use(LoggingMiddleware(logger, telemetry.NewSanitizer(telemetry.PIILevelHashed, "salt")))
	r.GET("/messages/search", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/messages/search?q=jane@example.com", nil))

	assert.NotContains(t, buf.String(), "jane@example.com")
	assert.Contains(t, buf.String(), `"status":200`)
}

func TestTracingMiddleware(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	previous := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() { otel.SetTracerProvider(previous) })

	resolver := resolverFunc(func(ctx context.Context, identity user.Identity) (*user.User, error) {
		return &user.User{ID: 3, PublicID: "user-3"}, nil
	})

	r := gin.New()
	r.Use(RequestID(), TracingMiddleware("coparent-api"))
	r.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusOK) })
	authed := r.Group("/", AuthMiddleware(fakeValidator{}, resolver, zerolog.Nop()))
	authed.GET("/messages/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Empty(t, recorder.Ended())

	req := httptest.NewRequest(http.MethodGet, "/messages/msg-42?q=secret", nil)
	req.Header.Set("Authorization", "Bearer good")
	r.ServeHTTP(httptest.NewRecorder(), req)

	ended := recorder.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, "GET /messages/:id", ended[0].Name())

	attrs := map[attribute.Key]attribute.Value{}
	for _, kv := range ended[0].Attributes() {
		attrs[kv.Key] = kv.Value
	}
	assert.Equal(t, "user-3", attrs["enduser.id"].AsString())
	assert.Equal(t, int64(200), attrs["http.status_code"].AsInt64())
	assert.NotEmpty(t, attrs["request.id"].AsString())
	for _, kv := range ended[0].Attributes() {
		assert.NotContains(t, kv.Value.Emit(), "secret")
	}
}

type testWriter struct {
	data []byte
}

func (w *testWriter) Write(p []byte) (int, error) {
	w.data = append(w.data, p...)
	return len(p), nil
}

func (w *testWriter) String() string {
	return string(w.data)
}
