package e2e_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"

	"github.com/marcos-nsantos/presence-socket/internal/adapter/handler"
	"github.com/marcos-nsantos/presence-socket/internal/adapter/realtime"
	pgRepo "github.com/marcos-nsantos/presence-socket/internal/adapter/repository/postgres"
	"github.com/marcos-nsantos/presence-socket/internal/infrastructure/database"
	"github.com/marcos-nsantos/presence-socket/internal/infrastructure/observability"
	"github.com/marcos-nsantos/presence-socket/internal/infrastructure/server"
	"github.com/marcos-nsantos/presence-socket/internal/usecase/broadcast"
	configUC "github.com/marcos-nsantos/presence-socket/internal/usecase/config"
	"github.com/marcos-nsantos/presence-socket/internal/usecase/schedule"
)

const (
	testDBUser     = "testuser"
	testDBPassword = "testpass"
	testDBName     = "testdb"
	apiBasePath    = "/api/v1"
)

var wib = time.FixedZone("WIB", 7*60*60)

// testClock is a settable time source shared by the config service and the
// broadcaster.
type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Set(hour, minute int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = time.Date(2024, 5, 20, hour, minute, 0, 0, wib)
}

type TestApp struct {
	Server      *httptest.Server
	Pool        *pgxpool.Pool
	Container   testcontainers.Container
	BaseURL     string
	Registry    *realtime.Registry
	Hub         *realtime.Hub
	States      *broadcast.StateTable
	Broadcaster *broadcast.Service
	Clock       *testClock
	httpClient  *http.Client
}

func setupTestApp(t *testing.T) *TestApp {
	t.Helper()

	if testing.Short() {
		t.Skip("Skipping e2e test in short mode")
	}

	gin.SetMode(gin.TestMode)
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase(testDBName),
		postgres.WithUsername(testDBUser),
		postgres.WithPassword(testDBPassword),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)

	_, err = database.RunMigrations(ctx, pool, getMigrationsPath())
	require.NoError(t, err)

	logger, _ := zap.NewDevelopment()
	clock := &testClock{}
	clock.Set(12, 0)

	deviceRepo := pgRepo.NewDeviceRepo(pool)
	hub := realtime.NewHub()
	registry := realtime.NewRegistry()
	states := broadcast.NewStateTable()
	metrics := observability.NewMetrics()

	evaluator := schedule.NewEvaluator(wib, logger)
	configSvc := configUC.NewService(deviceRepo, evaluator).WithClock(clock.Now)
	broadcaster := broadcast.NewService(broadcast.ServiceConfig{
		DeviceRepo: deviceRepo,
		Evaluator:  evaluator,
		Notifier:   handler.NewConfigNotifier(registry),
		States:     states,
		Metrics:    metrics,
		Logger:     logger,
		Now:        clock.Now,
	})

	socketHandler := handler.NewSocketHandler(handler.SocketHandlerConfig{
		ConfigService: configSvc,
		Hub:           hub,
		Registry:      registry,
		ClientConfig:  realtime.DefaultClientConfig(),
		Metrics:       metrics,
		Logger:        logger,
	})
	deviceHandler := handler.NewDeviceHandler(configSvc, hub, registry)

	router := server.NewRouter(server.RouterConfig{
		SocketHandler:  socketHandler,
		DeviceHandler:  deviceHandler,
		MetricsHandler: metrics.Handler(),
		SocketPath:     "/",
		Logger:         logger,
		Environment:    "test",
	})

	ts := httptest.NewServer(router.Engine())

	return &TestApp{
		Server:      ts,
		Pool:        pool,
		Container:   pgContainer,
		BaseURL:     ts.URL,
		Registry:    registry,
		Hub:         hub,
		States:      states,
		Broadcaster: broadcaster,
		Clock:       clock,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (app *TestApp) cleanup(t *testing.T) {
	t.Helper()

	app.Hub.CloseAll()
	app.Server.Close()
	app.Pool.Close()

	ctx := context.Background()
	if err := app.Container.Terminate(ctx); err != nil {
		t.Logf("failed to terminate container: %v", err)
	}
}

func (app *TestApp) get(path string) (*http.Response, error) {
	return app.httpClient.Get(app.BaseURL + apiBasePath + path)
}

// dial opens a device socket and waits until the server has accepted it.
func (app *TestApp) dial(t *testing.T) *websocket.Conn {
	t.Helper()

	before := app.Hub.Count()
	url := "ws" + strings.TrimPrefix(app.BaseURL, "http") + "/"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	require.Eventually(t, func() bool {
		return app.Hub.Count() > before
	}, 2*time.Second, 10*time.Millisecond)
	return conn
}

func send(t *testing.T, conn *websocket.Conn, msg any) {
	t.Helper()
	require.NoError(t, conn.WriteJSON(msg))
}

func sendRaw(t *testing.T, conn *websocket.Conn, msg string) {
	t.Helper()
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(msg)))
}

func readMessage(t *testing.T, conn *websocket.Conn) string {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(3*time.Second)))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)
	return string(msg)
}

func parseResponse(t *testing.T, resp *http.Response, dest any) {
	t.Helper()
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	if dest != nil {
		err = json.Unmarshal(body, dest)
		require.NoError(t, err, "response body: %s", string(body))
	}
}

func getMigrationsPath() string {
	_, filename, _, _ := runtime.Caller(0)
	testDir := filepath.Dir(filename)
	return filepath.Join(testDir, "..", "..", "migrations")
}
