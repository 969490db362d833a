package client_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/AlibekovAA/crudik/internal/client"
	"github.com/AlibekovAA/crudik/internal/common/bootstrap"
	"github.com/AlibekovAA/crudik/internal/common/config"
	"github.com/AlibekovAA/crudik/internal/common/db"
	"github.com/AlibekovAA/crudik/internal/common/logger"
)

const databaseURLEnv = "CRUDIK_TEST_DATABASE_URL"

func newIntegrationClient(t *testing.T) (*client.Client, *pgxpool.Pool) {
	t.Helper()
	databaseURL := os.Getenv(databaseURLEnv)
	if databaseURL == "" {
		t.Skipf("%s is not set", databaseURLEnv)
	}

	log := logger.NewWithWriter(&bytes.Buffer{}, "test", "debug")
	if err := db.Migrate(log, databaseURL); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	ctx := context.Background()
	pool, err := pgxpool.Connect(ctx, databaseURL)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	truncate := func() {
		if _, err := pool.Exec(ctx, `TRUNCATE TABLE auth_user, users CASCADE`); err != nil {
			t.Fatalf("truncate: %v", err)
		}
	}
	truncate()
	t.Cleanup(func() {
		truncate()
		pool.Close()
	})

	cfg := config.Config{
		Auth: config.AuthConfig{
			UserIDHeader:         client.DefaultAuthUserHeader,
			AccessTokenHeader:    "X-Access-Token",
			JWTAlgorithm:         "RS256",
			AllowUnverifiedEmail: true,
		},
		Tracing: config.TracingConfig{TraceIDHeader: "X-Trace-Id"},
	}
	srv := httptest.NewServer(bootstrap.NewApp(cfg, log, pool).Router())
	t.Cleanup(srv.Close)

	return client.New(srv.URL, srv.Client()), pool
}

func createUser(t *testing.T, c *client.Client) uuid.UUID {
	t.Helper()
	resp, err := c.CreateUser(context.Background())
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	if resp.Status != http.StatusOK || resp.Content == nil {
		t.Fatalf("expected status 200, got %d (%+v)", resp.Status, resp.Error)
	}
	return resp.Content.ID
}

func TestIntegration_Users(t *testing.T) {
	api, pool := newIntegrationClient(t)
	ctx := context.Background()

	t.Run("create and read own user", func(t *testing.T) {
		c := api.AsAuthUser("1")
		id := createUser(t, c)

		resp, err := c.ReadUser(ctx, id.String())
		if err != nil {
			t.Fatalf("read user: %v", err)
		}
		if resp.Status != http.StatusOK || resp.Content.ID != id {
			t.Errorf("expected own user %s, got %d %+v", id, resp.Status, resp.Content)
		}
	})

	t.Run("second create for same identity conflicts", func(t *testing.T) {
		resp, err := api.AsAuthUser("1").CreateUser(ctx)
		if err != nil {
			t.Fatalf("create user: %v", err)
		}
		if resp.Status != http.StatusConflict {
			t.Fatalf("expected status 409, got %d", resp.Status)
		}
		if resp.Error.Code != "AUTH_USER_ALREADY_EXISTS" || resp.Error.Meta["auth_user_id"] != "1" {
			t.Errorf("unexpected error %+v", resp.Error)
		}
	})

	t.Run("missing user", func(t *testing.T) {
		missing := uuid.NewString()
		resp, err := api.AsAuthUser("1").ReadUser(ctx, missing)
		if err != nil {
			t.Fatalf("read user: %v", err)
		}
		if resp.Status != http.StatusNotFound || resp.Error.Code != "USER_NOT_FOUND" || resp.Error.Meta["user_id"] != missing {
			t.Errorf("unexpected response %d %+v", resp.Status, resp.Error)
		}
	})

	t.Run("foreign user", func(t *testing.T) {
		first := createUser(t, api.AsAuthUser("2"))
		createUser(t, api.AsAuthUser("3"))

		resp, err := api.AsAuthUser("3").ReadUser(ctx, first.String())
		if err != nil {
			t.Fatalf("read user: %v", err)
		}
		if resp.Status != http.StatusForbidden || resp.Error.Code != "ACCESS_DENIED" {
			t.Errorf("unexpected response %d %+v", resp.Status, resp.Error)
		}
	})

	t.Run("anonymous", func(t *testing.T) {
		resp, err := api.CreateUser(ctx)
		if err != nil {
			t.Fatalf("create user: %v", err)
		}
		if resp.Status != http.StatusUnauthorized || resp.Error.Code != "UNAUTHORIZED" {
			t.Errorf("unexpected response %d %+v", resp.Status, resp.Error)
		}

		read, err := api.ReadUser(ctx, uuid.NewString())
		if err != nil {
			t.Fatalf("read user: %v", err)
		}
		if read.Status != http.StatusUnauthorized {
			t.Errorf("expected status 401, got %d", read.Status)
		}
	})

	t.Run("conflicting create leaves no orphan user", func(t *testing.T) {
		countUsers := func() int {
			var n int
			if err := pool.QueryRow(ctx, `SELECT count(*) FROM users`).Scan(&n); err != nil {
				t.Fatalf("count users: %v", err)
			}
			return n
		}
		before := countUsers()

		resp, err := api.AsAuthUser("1").CreateUser(ctx)
		if err != nil {
			t.Fatalf("create user: %v", err)
		}
		if resp.Status != http.StatusConflict {
			t.Fatalf("expected status 409, got %d", resp.Status)
		}
		if after := countUsers(); after != before {
			t.Errorf("expected %d users after rolled back create, got %d", before, after)
		}
	})
}

func TestIntegration_HealthEndpoints(t *testing.T) {
	api, _ := newIntegrationClient(t)
	ctx := context.Background()

	if status, err := api.Liveness(ctx); err != nil || status != http.StatusOK {
		t.Errorf("expected alive 200, got %d (%v)", status, err)
	}
	if status, err := api.Readiness(ctx); err != nil || status != http.StatusOK {
		t.Errorf("expected ready 200, got %d (%v)", status, err)
	}
	pong, err := api.Ping(ctx)
	if err != nil || pong.Content == nil || *pong.Content != "pong" {
		t.Errorf("expected pong, got %+v (%v)", pong, err)
	}
}
