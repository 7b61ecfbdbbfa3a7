package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/bnema/pairline/internal/adapters/behavior/relay"
	"github.com/bnema/pairline/internal/adapters/transport/ws"
	"github.com/bnema/pairline/internal/application"
	"github.com/bnema/pairline/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type lobby struct {
	mm      *application.Matchmaker
	httpURL string
	wsURL   string
}

func startLobby(t *testing.T) lobby {
	t.Helper()

	mm := application.NewMatchmaker(application.Options{Behavior: relay.New(nil)})
	server := ws.NewServer(mm, ws.Options{})
	srv := httptest.NewServer(server.Handler())
	t.Cleanup(func() {
		server.CloseConnections()
		srv.Close()
	})

	return lobby{
		mm:      mm,
		httpURL: srv.URL,
		wsURL:   "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws",
	}
}

func (l lobby) joinAs(t *testing.T, name string) *ws.Client {
	t.Helper()

	client, err := ws.Dial(context.Background(), l.wsURL)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	require.NoError(t, client.Join(name))

	deadline := time.Now().Add(5 * time.Second)
	for {
		env, err := client.Receive(deadline)
		require.NoError(t, err)
		if env.Event == domain.EventJoinSuccess {
			return client
		}
	}
}

func TestVersionPrintsBuildVersion(t *testing.T) {
	stdout, _, err := executeCLI(t, t.TempDir(), "version")
	require.NoError(t, err)
	assert.Equal(t, "dev\n", stdout)
}

func TestConfigInitWritesDefaultsOnce(t *testing.T) {
	home := t.TempDir()

	stdout, _, err := executeCLI(t, home, "config", "init")
	require.NoError(t, err)
	path := filepath.Join(home, ".pairline", "config.toml")
	assert.Contains(t, stdout, path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "port = 3000")

	_, _, err = executeCLI(t, home, "config", "init")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	_, _, err = executeCLI(t, home, "config", "init", "--force")
	require.NoError(t, err)
}

func TestConfigShowAppliesEnvironment(t *testing.T) {
	home := t.TempDir()
	t.Setenv("PORT", "4567")

	stdout, _, err := executeCLI(t, home, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, stdout, "port = 4567")
	assert.Contains(t, stdout, "max_name_length = 32")
}

func TestConfigPathHonoursFlag(t *testing.T) {
	home := t.TempDir()
	custom := filepath.Join(home, "elsewhere", "lobby.toml")

	stdout, _, err := executeCLI(t, home, "config", "path", "--config", custom)
	require.NoError(t, err)
	assert.Equal(t, custom+"\n", stdout)
}

func TestStatusRendersLobby(t *testing.T) {
	l := startLobby(t)
	l.joinAs(t, "alice")

	stdout, _, err := executeCLI(t, t.TempDir(), "status", "--server", l.httpURL)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Pairline Lobby")
	assert.Contains(t, stdout, "connected: 1  waiting: 1")
	assert.Contains(t, stdout, "1. alice")
}

func TestStatusWidthCutsLines(t *testing.T) {
	l := startLobby(t)
	l.joinAs(t, "a-player-with-a-very-long-name")

	stdout, _, err := executeCLI(t, t.TempDir(), "status", "--server", l.httpURL, "--width=14")
	require.NoError(t, err)
	for _, line := range strings.Split(strings.TrimRight(stdout, "\n"), "\n") {
		assert.LessOrEqual(t, len([]rune(line)), 14, "line %q", line)
	}
	assert.NotContains(t, stdout, "very-long-name")
}

func TestStatusJSONOutput(t *testing.T) {
	l := startLobby(t)
	l.joinAs(t, "alice")
	l.joinAs(t, "bob")

	stdout, _, err := executeCLI(t, t.TempDir(), "status", "--server", l.httpURL, "--json")
	require.NoError(t, err)
	require.True(t, json.Valid([]byte(stdout)))

	var stats application.Stats
	require.NoError(t, json.Unmarshal([]byte(stdout), &stats))
	assert.Equal(t, 1, stats.ActiveSessions)
	require.Len(t, stats.Sessions, 1)
	assert.Equal(t, [2]domain.Name{"alice", "bob"}, stats.Sessions[0].Members)
}

func TestStatusReportsServerErrors(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	t.Cleanup(srv.Close)

	_, _, err := executeCLI(t, t.TempDir(), "status", "--server", srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status")
}

func TestJoinWaitsForOpponent(t *testing.T) {
	l := startLobby(t)
	l.joinAs(t, "bob")

	stdout, _, err := executeCLI(t, t.TempDir(), "join", "alice", "--server", l.wsURL, "--timeout", "10s")
	require.NoError(t, err)
	assert.Contains(t, stdout, domain.TextSearching)
	assert.Contains(t, stdout, "matched: session ")
	assert.Contains(t, stdout, "opponent: bob")
}

func TestJoinWithTakenNameFails(t *testing.T) {
	l := startLobby(t)
	l.joinAs(t, "bob")

	_, _, err := executeCLI(t, t.TempDir(), "join", "bob", "--server", l.wsURL, "--timeout", "10s")
	require.ErrorIs(t, err, errJoinRejected)
	assert.Contains(t, err.Error(), domain.TextDuplicateName)
}

func TestJoinTimesOutWithoutOpponent(t *testing.T) {
	l := startLobby(t)

	_, _, err := executeCLI(t, t.TempDir(), "join", "alice", "--server", l.wsURL, "--timeout", "300ms")
	require.Error(t, err)
}

func TestServeStopsOnContextCancel(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	port := freePort(t)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, _, err := executeCLIContext(ctx, "serve", "--port", strconv.Itoa(port), "--log-level", "warn")
		done <- err
	}()

	healthURL := "http://" + net.JoinHostPort("127.0.0.1", strconv.Itoa(port)) + "/healthz"
	require.Eventually(t, func() bool {
		resp, err := http.Get(healthURL)
		if err != nil {
			return false
		}
		_ = resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("serve did not stop")
	}
}

func TestServeRejectsInvalidConfig(t *testing.T) {
	_, _, err := executeCLI(t, t.TempDir(), "serve", "--sweep-interval=-1s")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sweep_interval")
}

func freePort(t *testing.T) int {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := ln.Addr().(*net.TCPAddr).Port
	require.NoError(t, ln.Close())
	return port
}

func executeCLI(t *testing.T, home string, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("HOME", home)
	return executeCLIContext(context.Background(), args...)
}

// executeCLIContext runs the root command without touching the test
// environment, so it is safe to call from another goroutine.
func executeCLIContext(ctx context.Context, args ...string) (string, string, error) {

	root := newRootCmd()
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetArgs(args)

	err := root.ExecuteContext(ctx)
	return stdout.String(), stderr.String(), err
}
