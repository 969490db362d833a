package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/AlibekovAA/crudik/internal/api"
	authservice "github.com/AlibekovAA/crudik/internal/auth/service"
	commonerrors "github.com/AlibekovAA/crudik/internal/common/errors"
	commonhttp "github.com/AlibekovAA/crudik/internal/common/http"
	"github.com/AlibekovAA/crudik/internal/common/logger"
	userdomain "github.com/AlibekovAA/crudik/internal/user/domain"
	userhttp "github.com/AlibekovAA/crudik/internal/user/http"
)

type fakeUsers struct {
	createFunc func(ctx context.Context) (userdomain.User, error)
	readFunc   func(ctx context.Context, id string) (userdomain.User, error)
}

func (f *fakeUsers) CreateUser(ctx context.Context) (userdomain.User, error) {
	if f.createFunc != nil {
		return f.createFunc(ctx)
	}
	return userdomain.User{ID: uuid.New()}, nil
}

func (f *fakeUsers) ReadUser(ctx context.Context, raw string) (userdomain.User, error) {
	if f.readFunc != nil {
		return f.readFunc(ctx, raw)
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return userdomain.User{}, userdomain.UserNotFoundError{UserID: raw}
	}
	return userdomain.User{ID: id}, nil
}

func (f *fakeUsers) Ping(context.Context) string { return "pong" }

type fakeScope struct {
	users  *fakeUsers
	closed int
}

func (s *fakeScope) Users() userhttp.UserInteractor { return s.users }

func (s *fakeScope) Close(context.Context) error {
	s.closed++
	return nil
}

type fakePinger struct {
	err error
}

func (p fakePinger) Ping(context.Context) error { return p.err }

type errorEnvelope struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Meta    map[string]any `json:"meta"`
}

func newRouter(users *fakeUsers, readiness error, traceRequired bool) (http.Handler, *[]*fakeScope) {
	scopes := &[]*fakeScope{}
	handler := api.NewRouter(api.RouterConfig{
		Log:       logger.NewWithWriter(&bytes.Buffer{}, "test", "debug"),
		Trace:     commonhttp.TraceConfig{Header: "X-Trace-Id", Required: traceRequired},
		Readiness: fakePinger{err: readiness},
		Scopes: func(*http.Request) userhttp.Scope {
			s := &fakeScope{users: users}
			*scopes = append(*scopes, s)
			return s
		},
	})
	return handler, scopes
}

func do(h http.Handler, method, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, path, nil))
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) errorEnvelope {
	t.Helper()
	var env errorEnvelope
	if err := json.NewDecoder(rec.Body).Decode(&env); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return env
}

func TestRouter_CreateUser(t *testing.T) {
	id := uuid.New()
	h, scopes := newRouter(&fakeUsers{createFunc: func(context.Context) (userdomain.User, error) {
		return userdomain.User{ID: id}, nil
	}}, nil, false)

	rec := do(h, http.MethodPost, "/users/")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	var body struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.ID != id.String() {
		t.Errorf("expected id %s, got %s", id, body.ID)
	}
	if len(*scopes) != 1 || (*scopes)[0].closed != 1 {
		t.Errorf("expected exactly one closed scope, got %+v", *scopes)
	}
}

func TestRouter_ErrorEnvelopes(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		path       string
		users      *fakeUsers
		wantStatus int
		wantCode   string
		checkMeta  func(t *testing.T, meta map[string]any)
	}{
		{
			name:   "unauthorized",
			method: http.MethodPost,
			path:   "/users/",
			users: &fakeUsers{createFunc: func(context.Context) (userdomain.User, error) {
				return userdomain.User{}, authservice.UnauthorizedError{Reason: authservice.ReasonMissingUserID, Header: "X-Auth-User-Id"}
			}},
			wantStatus: http.StatusUnauthorized,
			wantCode:   "UNAUTHORIZED",
			checkMeta: func(t *testing.T, meta map[string]any) {
				if meta["reason"] != "MISSING_USER_ID" || meta["header"] != "X-Auth-User-Id" {
					t.Errorf("unexpected meta %v", meta)
				}
			},
		},
		{
			name:   "conflict",
			method: http.MethodPost,
			path:   "/users/",
			users: &fakeUsers{createFunc: func(context.Context) (userdomain.User, error) {
				return userdomain.User{}, authservice.AuthUserAlreadyExistsError{AuthUserID: "ext-1"}
			}},
			wantStatus: http.StatusConflict,
			wantCode:   "AUTH_USER_ALREADY_EXISTS",
			checkMeta: func(t *testing.T, meta map[string]any) {
				if meta["auth_user_id"] != "ext-1" {
					t.Errorf("unexpected meta %v", meta)
				}
			},
		},
		{
			name:   "access denied",
			method: http.MethodGet,
			path:   "/users/" + uuid.NewString(),
			users: &fakeUsers{readFunc: func(context.Context, string) (userdomain.User, error) {
				return userdomain.User{}, commonerrors.AccessDeniedError{}
			}},
			wantStatus: http.StatusForbidden,
			wantCode:   "ACCESS_DENIED",
			checkMeta: func(t *testing.T, meta map[string]any) {
				if meta != nil {
					t.Errorf("expected null meta, got %v", meta)
				}
			},
		},
		{
			name:       "malformed user id",
			method:     http.MethodGet,
			path:       "/users/not-a-uuid",
			users:      &fakeUsers{},
			wantStatus: http.StatusNotFound,
			wantCode:   "USER_NOT_FOUND",
			checkMeta: func(t *testing.T, meta map[string]any) {
				if meta["user_id"] != "not-a-uuid" {
					t.Errorf("expected raw user id in meta, got %v", meta)
				}
			},
		},
		{
			name:   "malformed user id without identity",
			method: http.MethodGet,
			path:   "/users/not-a-uuid",
			users: &fakeUsers{readFunc: func(context.Context, string) (userdomain.User, error) {
				return userdomain.User{}, authservice.UnauthorizedError{Reason: authservice.ReasonMissingUserID, Header: "X-Auth-User-Id"}
			}},
			wantStatus: http.StatusUnauthorized,
			wantCode:   "UNAUTHORIZED",
			checkMeta: func(t *testing.T, meta map[string]any) {
				if meta["reason"] != "MISSING_USER_ID" {
					t.Errorf("expected MISSING_USER_ID reason, got %v", meta)
				}
			},
		},
		{
			name:   "internal error",
			method: http.MethodPost,
			path:   "/users/",
			users: &fakeUsers{createFunc: func(context.Context) (userdomain.User, error) {
				return userdomain.User{}, errors.New("pq: relation does not exist")
			}},
			wantStatus: http.StatusInternalServerError,
			wantCode:   "INTERNAL_SERVER_ERROR",
			checkMeta: func(t *testing.T, meta map[string]any) {
				if meta != nil {
					t.Errorf("expected null meta, got %v", meta)
				}
			},
		},
		{
			name:       "unknown route",
			method:     http.MethodGet,
			path:       "/nowhere",
			users:      &fakeUsers{},
			wantStatus: http.StatusNotFound,
			wantCode:   "NOT_FOUND",
			checkMeta:  func(*testing.T, map[string]any) {},
		},
		{
			name:       "wrong method",
			method:     http.MethodDelete,
			path:       "/users/",
			users:      &fakeUsers{},
			wantStatus: http.StatusMethodNotAllowed,
			wantCode:   "METHOD_NOT_ALLOWED",
			checkMeta:  func(*testing.T, map[string]any) {},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h, _ := newRouter(tc.users, nil, false)
			rec := do(h, tc.method, tc.path)

			if rec.Code != tc.wantStatus {
				t.Fatalf("expected status %d, got %d", tc.wantStatus, rec.Code)
			}
			env := decode(t, rec)
			if env.Code != tc.wantCode {
				t.Errorf("expected code %s, got %s", tc.wantCode, env.Code)
			}
			tc.checkMeta(t, env.Meta)
		})
	}
}

func TestRouter_HealthEndpoints(t *testing.T) {
	h, _ := newRouter(&fakeUsers{}, nil, false)
	if rec := do(h, http.MethodGet, "/internal/alive"); rec.Code != http.StatusOK {
		t.Errorf("expected alive 200, got %d", rec.Code)
	}
	if rec := do(h, http.MethodGet, "/internal/ready"); rec.Code != http.StatusOK {
		t.Errorf("expected ready 200, got %d", rec.Code)
	}

	h, _ = newRouter(&fakeUsers{}, errors.New("db down"), false)
	if rec := do(h, http.MethodGet, "/internal/ready"); rec.Code != http.StatusTooManyRequests {
		t.Errorf("expected ready 429, got %d", rec.Code)
	}
}

func TestRouter_PingAndMetrics(t *testing.T) {
	h, _ := newRouter(&fakeUsers{}, nil, false)

	rec := do(h, http.MethodGet, "/ping/")
	if rec.Code != http.StatusOK || strings.TrimSpace(rec.Body.String()) != `"pong"` {
		t.Errorf("expected 200 \"pong\", got %d %q", rec.Code, rec.Body.String())
	}

	rec = do(h, http.MethodGet, "/metrics")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "http_requests_total") {
		t.Error("expected request counters in metrics output")
	}
}

func TestRouter_TraceID(t *testing.T) {
	h, _ := newRouter(&fakeUsers{}, nil, false)
	req := httptest.NewRequest(http.MethodGet, "/ping/", nil)
	req.Header.Set("X-Trace-Id", "abc")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Header().Get("X-Trace-Id") != "abc" {
		t.Errorf("expected trace id echoed, got %q", rec.Header().Get("X-Trace-Id"))
	}

	h, scopes := newRouter(&fakeUsers{}, nil, true)
	rec = do(h, http.MethodGet, "/users/"+uuid.NewString())
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", rec.Code)
	}
	env := decode(t, rec)
	if env.Code != "INTERNAL_SERVER_ERROR" || env.Meta != nil {
		t.Errorf("unexpected envelope %+v", env)
	}
	if len(*scopes) != 0 {
		t.Error("expected no request scope for rejected request")
	}
}
