package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"jobprep/interview/internal/config"
	"jobprep/interview/internal/interview"
	"jobprep/interview/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const testSecret = "main-test-secret"

func prepareEnv(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)

	t.Setenv("JWT_SECRET", testSecret)
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("REDIS_ADDR", mr.Addr())
	t.Setenv("MONGO_URI", "")
	t.Setenv("HISTORY_EXPORT_ENABLED", "false")
	t.Setenv("PORT", "9090")

	origLogger, origEnv, origOpen, origMigrate, origListen := newLogger, loadDotEnv, gormOpen, runAutoMigrate, listenAndServe
	t.Cleanup(func() {
		newLogger, loadDotEnv, gormOpen, runAutoMigrate, listenAndServe = origLogger, origEnv, origOpen, origMigrate, origListen
	})

	newLogger = func(...zap.Option) (*zap.Logger, error) { return zap.NewNop(), nil }
	loadDotEnv = func() error { return nil }
	gormOpen = func(string, string) (*gorm.DB, error) {
		dsn := fmt.Sprintf("file:main-%d?mode=memory&cache=shared", time.Now().UnixNano())
		return gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	}
	return mr
}

func serve(handler http.Handler, method, path, token string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestRunServesAPI(t *testing.T) {
	prepareEnv(t)

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "user-1"}).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}

	var (
		addr     string
		statuses = map[string]int{}
	)
	listenAndServe = func(server *http.Server) error {
		addr = server.Addr
		h := server.Handler
		statuses["healthz"] = serve(h, http.MethodGet, "/healthz", "", nil).Code
		statuses["readyz"] = serve(h, http.MethodGet, "/readyz", "", nil).Code
		statuses["metrics"] = serve(h, http.MethodGet, "/metrics", "", nil).Code
		statuses["unauthorized"] = serve(h, http.MethodGet, "/api/v1/history", "", nil).Code
		statuses["create"] = serve(h, http.MethodPost, "/api/v1/interviews", token, []byte(`{"role":"Data Scientist"}`)).Code
		statuses["history"] = serve(h, http.MethodGet, "/api/v1/history", token, nil).Code
		statuses["settings"] = serve(h, http.MethodGet, "/api/v1/settings", token, nil).Code
		return nil
	}

	if err := run(context.Background()); err != nil {
		t.Fatalf("run returned error: %v", err)
	}
	if addr != ":9090" {
		t.Fatalf("expected listen addr :9090, got %s", addr)
	}

	want := map[string]int{
		"healthz":      http.StatusOK,
		"readyz":       http.StatusOK,
		"metrics":      http.StatusOK,
		"unauthorized": http.StatusUnauthorized,
		"create":       http.StatusCreated,
		"history":      http.StatusOK,
		"settings":     http.StatusOK,
	}
	for name, code := range want {
		if statuses[name] != code {
			t.Fatalf("%s: expected %d, got %d", name, code, statuses[name])
		}
	}
}

func TestRunReadinessReportsRedisDown(t *testing.T) {
	mr := prepareEnv(t)

	var readyz int
	listenAndServe = func(server *http.Server) error {
		mr.SetError("LOADING redis is loading")
		readyz = serve(server.Handler, http.MethodGet, "/readyz", "", nil).Code
		return nil
	}

	if err := run(context.Background()); err != nil {
		t.Fatalf("run returned error: %v", err)
	}
	if readyz != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 with redis down, got %d", readyz)
	}
}

func TestRunShutsDownOnCancel(t *testing.T) {
	prepareEnv(t)

	started := make(chan struct{})
	listenAndServe = func(server *http.Server) error {
		close(started)
		<-time.After(5 * time.Second)
		return http.ErrServerClosed
	}

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-started
		cancel()
	}()

	done := make(chan error, 1)
	go func() { done <- run(ctx) }()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("run returned error: %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("run did not return after cancellation")
	}
}

func TestRunListenFailure(t *testing.T) {
	prepareEnv(t)
	listenAndServe = func(*http.Server) error { return errors.New("listen failed") }

	if err := run(context.Background()); err == nil {
		t.Fatal("expected listen error from run")
	}
}

func TestRunConnectFailure(t *testing.T) {
	prepareEnv(t)
	gormOpen = func(string, string) (*gorm.DB, error) { return nil, errors.New("connect failed") }

	if err := run(context.Background()); err == nil {
		t.Fatal("expected error from run when connection fails")
	}
}

func TestRunAutoMigrateFailure(t *testing.T) {
	prepareEnv(t)
	runAutoMigrate = func(*gorm.DB, ...interface{}) error { return errors.New("migrate failed") }

	if err := run(context.Background()); err == nil {
		t.Fatal("expected migrate error from run")
	}
}

func TestRunConfigFailure(t *testing.T) {
	prepareEnv(t)
	t.Setenv("JWT_SECRET", "")

	if err := run(context.Background()); err == nil {
		t.Fatal("expected config error from run")
	}
}

func TestRunLoggerFailure(t *testing.T) {
	prepareEnv(t)
	newLogger = func(...zap.Option) (*zap.Logger, error) { return nil, errors.New("logger boom") }

	if err := run(context.Background()); err == nil {
		t.Fatal("expected logger error from run")
	}
}

func TestDefaultGormOpenSQLite(t *testing.T) {
	db, err := defaultGormOpen("sqlite", "file:default-gorm?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("defaultGormOpen returned error: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql DB: %v", err)
	}
	sqlDB.Close()
}

func TestAppCloseEndsSessionsBeforeResources(t *testing.T) {
	prepareEnv(t)
	cfg, err := config.LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	a, err := newApp(ctx, cfg, zap.NewNop())
	if err != nil {
		t.Fatalf("newApp returned error: %v", err)
	}
	e, err := a.sessions.Create(context.Background(), "user-1", models.CreateInterviewRequest{Role: "Data Scientist"})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	// cancelling the request context leaves sessions to close
	cancel()
	time.Sleep(50 * time.Millisecond)
	if got := e.Status(); got != interview.StatusInProgress {
		t.Fatalf("expected session still in progress after cancel, got %s", got)
	}

	a.close()
	if got := e.Status(); got != interview.StatusEnded {
		t.Fatalf("expected session ended by close, got %s", got)
	}
	if n := a.sessions.Count(); n != 0 {
		t.Fatalf("expected no sessions after close, got %d", n)
	}
}
