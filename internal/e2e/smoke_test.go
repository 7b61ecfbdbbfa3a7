package e2e

import (
	"bytes"
	"net"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strconv"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sessionLine = regexp.MustCompile(`matched: session (\S+)`)

func TestSmokeFlow(t *testing.T) {
	home := t.TempDir()
	binaryPath := buildBinary(t)

	_, stderr, err := runPairline(t, binaryPath, home, "config", "init")
	require.NoError(t, err, "stderr: %s", stderr)

	port := strconv.Itoa(freePort(t))
	server := exec.Command(binaryPath, "serve", "--port", port, "--log-level", "warn")
	server.Env = append(os.Environ(), "HOME="+home)
	var serverLog bytes.Buffer
	server.Stderr = &serverLog
	require.NoError(t, server.Start())
	t.Cleanup(func() { _ = server.Process.Kill() })

	baseURL := "http://" + net.JoinHostPort("127.0.0.1", port)
	require.Eventually(t, func() bool {
		resp, err := http.Get(baseURL + "/healthz")
		if err != nil {
			return false
		}
		_ = resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 10*time.Second, 50*time.Millisecond, "server did not become healthy")

	wsURL := "ws://" + net.JoinHostPort("127.0.0.1", port) + "/ws"
	alice := exec.Command(binaryPath, "join", "alice", "--server", wsURL, "--timeout", "20s")
	alice.Env = append(os.Environ(), "HOME="+home)
	var aliceOut bytes.Buffer
	alice.Stdout = &aliceOut
	require.NoError(t, alice.Start())

	require.Eventually(t, func() bool {
		stdout, _, err := runPairline(t, binaryPath, home, "status", "--server", baseURL)
		return err == nil && bytes.Contains([]byte(stdout), []byte("1. alice"))
	}, 10*time.Second, 50*time.Millisecond)

	bobOut, stderr, err := runPairline(t, binaryPath, home, "join", "bob", "--server", wsURL, "--timeout", "20s")
	require.NoError(t, err, "stderr: %s", stderr)
	require.NoError(t, alice.Wait())

	aliceMatch := sessionLine.FindStringSubmatch(aliceOut.String())
	bobMatch := sessionLine.FindStringSubmatch(bobOut)
	require.Len(t, aliceMatch, 2, "alice output: %s", aliceOut.String())
	require.Len(t, bobMatch, 2, "bob output: %s", bobOut)
	assert.Equal(t, aliceMatch[1], bobMatch[1])
	assert.Contains(t, aliceOut.String(), "opponent: bob")
	assert.Contains(t, bobOut, "opponent: alice")

	require.NoError(t, server.Process.Signal(syscall.SIGTERM))
	require.NoError(t, server.Wait(), "server log: %s", serverLog.String())
}

func buildBinary(t *testing.T) string {
	t.Helper()

	binaryPath := filepath.Join(t.TempDir(), "pairline-e2e")
	cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/pairline")
	cmd.Dir = repoRoot(t)

	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "build pairline binary: %s", string(output))
	return binaryPath
}

func runPairline(t *testing.T, binaryPath, home string, args ...string) (string, string, error) {
	t.Helper()

	cmd := exec.Command(binaryPath, args...)
	cmd.Env = append(os.Environ(), "HOME="+home)

	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}

func freePort(t *testing.T) int {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := ln.Addr().(*net.TCPAddr).Port
	require.NoError(t, ln.Close())
	return port
}

func repoRoot(t *testing.T) string {
	t.Helper()

	wd, err := os.Getwd()
	require.NoError(t, err)
	return filepath.Clean(filepath.Join(wd, "..", ".."))
}
