package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slashdevops/sysmonitor"
	"github.com/slashdevops/sysmonitor/internal/config"
)

// fakeExecutor answers commands from a fixed table; anything else exits 1.
type fakeExecutor map[string]string

func (e fakeExecutor) Execute(_ context.Context, name string, args ...string) (sysmonitor.CommandResult, error) {
	if out, ok := e[strings.Join(append([]string{name}, args...), " ")]; ok {
		return sysmonitor.CommandResult{Stdout: out, Success: true}, nil
	}

	return sysmonitor.CommandResult{ExitCode: 1}, nil
}

type staticPinger bool

func (p staticPinger) Ping(context.Context, string) bool { return bool(p) }

// runCLI executes the root command with a Windows command table backed by exec.
func runCLI(t *testing.T, exec fakeExecutor, online bool, args ...string) (string, string, error) {
	t.Helper()
	t.Chdir(t.TempDir())

	a := &app{
		newCollector: func(cfg *config.Config, logger *slog.Logger) *sysmonitor.Collector {
			return sysmonitor.New().
				WithExecutor(exec).
				WithPlatform(sysmonitor.PlatformFor("windows")).
				WithPinger(staticPinger(online)).
				WithLogger(logger)
		},
	}

	var stdout, stderr bytes.Buffer
	cmd := newRootCmd(a)
	cmd.SetArgs(args)
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(""))

	err := cmd.ExecuteContext(context.Background())

	return stdout.String(), stderr.String(), err
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"INFO", slog.LevelInfo, false},
		{"", slog.LevelInfo, false},
		{" warn ", slog.LevelWarn, false},
		{"warning", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"trace", 0, true},
	}

	for _, tt := range tests {
		got, err := parseLevel(tt.input)
		if tt.wantErr {
			assert.Error(t, err, "parseLevel(%q)", tt.input)
			continue
		}
		require.NoError(t, err, "parseLevel(%q)", tt.input)
		assert.Equal(t, tt.want, got, "parseLevel(%q)", tt.input)
	}
}

func TestNewLoggerWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "sysmonitor.log")

	var stderr bytes.Buffer
	logger, closer, err := newLogger(&stderr, "debug", path)
	require.NoError(t, err)

	logger.Debug("probing host", "host", "8.8.8.8")
	require.NoError(t, closer.Close())

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), "host=8.8.8.8")
	assert.Contains(t, stderr.String(), "host=8.8.8.8")
}

func TestNewLoggerRejectsLevel(t *testing.T) {
	_, _, err := newLogger(io.Discard, "loud", "")
	assert.ErrorContains(t, err, `unsupported log level "loud"`)
}

func TestNewPrinter(t *testing.T) {
	var buf bytes.Buffer

	p, err := newPrinter(&buf, "")
	require.NoError(t, err)
	assert.Equal(t, formatJSON, p.format)
	assert.False(t, p.indent, "buffers are not terminals")

	require.NoError(t, p.print(map[string]bool{"online": true}))
	assert.Equal(t, "{\"online\":true}\n", buf.String())

	buf.Reset()
	p, err = newPrinter(&buf, formatYAML)
	require.NoError(t, err)
	require.NoError(t, p.print(map[string]bool{"online": false}))
	assert.Equal(t, "online: false\n", buf.String())

	_, err = newPrinter(&buf, "xml")
	assert.ErrorContains(t, err, `unsupported output format "xml"`)
}

func TestReadPayload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "payload.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"from":"file"}`), 0o600))

	got, err := readPayload(strings.NewReader(`{"from":"stdin"}`), "-")
	require.NoError(t, err)
	assert.Equal(t, `{"from":"stdin"}`, got)

	got, err = readPayload(nil, "@"+path)
	require.NoError(t, err)
	assert.Equal(t, `{"from":"file"}`, got)

	got, err = readPayload(nil, `{"from":"flag"}`)
	require.NoError(t, err)
	assert.Equal(t, `{"from":"flag"}`, got)

	_, err = readPayload(nil, "@"+filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorContains(t, err, "read payload file")
}

func TestInfoCommand(t *testing.T) {
	stdout, _, err := runCLI(t, fakeExecutor{"hostname": "DESKTOP-7Q2M\r\n"}, true, "info")
	require.NoError(t, err)

	var info sysmonitor.SystemInfo
	require.NoError(t, json.Unmarshal([]byte(stdout), &info))
	assert.Equal(t, "DESKTOP-7Q2M", info.Hostname)
	assert.NotEmpty(t, info.OSName)
	assert.NotEmpty(t, info.OSVersion)
}

func TestPlatformCommandYAML(t *testing.T) {
	stdout, _, err := runCLI(t, fakeExecutor{}, true, "platform", "-o", "yaml")
	require.NoError(t, err)

	assert.Contains(t, stdout, "serial_number: Unknown")
	assert.Contains(t, stdout, "activation_status: Unknown")
}

func TestConnectivityCommand(t *testing.T) {
	stdout, _, err := runCLI(t, fakeExecutor{}, false, "connectivity")
	require.NoError(t, err)
	assert.JSONEq(t, `{"online":false}`, stdout)

	stdout, _, err = runCLI(t, fakeExecutor{}, true, "connectivity")
	require.NoError(t, err)
	assert.JSONEq(t, `{"online":true}`, stdout)
}

func TestSendCommand(t *testing.T) {
	var gotAuth, gotBody string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		gotAuth = r.Header.Get("Authorization")
		gotBody = string(b)
		_, _ = io.WriteString(w, `{"accepted":true}`)
	}))
	defer server.Close()

	stdout, _, err := runCLI(t, fakeExecutor{}, true,
		"send", "--endpoint", server.URL, "--token", "s3cret", "--payload", `{"online":true}`)
	require.NoError(t, err)

	assert.Equal(t, "{\"accepted\":true}\n", stdout)
	assert.Equal(t, "Bearer s3cret", gotAuth)
	assert.Equal(t, `{"online":true}`, gotBody)
}

func TestSendCommandEndpointFromEnv(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
	}))
	defer server.Close()

	t.Setenv(config.EnvEndpoint, server.URL)
	t.Setenv(config.EnvToken, "")

	_, _, err := runCLI(t, fakeExecutor{}, true, "send", "--payload", "{}")
	require.NoError(t, err)
	assert.Empty(t, gotAuth)
}

func TestSendCommandStatusError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()

	_, _, err := runCLI(t, fakeExecutor{}, true, "send", "--endpoint", server.URL, "--payload", "{}")

	var statusErr *sysmonitor.StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusNotFound, statusErr.StatusCode)
	assert.Contains(t, err.Error(), "Not Found")
}

func TestSendCommandNoEndpoint(t *testing.T) {
	t.Setenv(config.EnvEndpoint, "")

	_, _, err := runCLI(t, fakeExecutor{}, true, "send", "--payload", "{}")
	assert.ErrorContains(t, err, "no endpoint configured")
}

func TestCollectCommandSend(t *testing.T) {
	var received sysmonitor.Report
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&received)
		_, _ = io.WriteString(w, "stored")
	}))
	defer server.Close()

	t.Setenv(config.EnvEndpoint, server.URL)

	stdout, _, err := runCLI(t, fakeExecutor{"hostname": "HOST-A"}, true, "collect", "--send")
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &out))
	assert.Equal(t, "stored", out["response"])
	assert.Equal(t, true, out["online"])
	assert.Equal(t, received.ID, out["report_id"])
	assert.Equal(t, "HOST-A", received.System.Hostname)
}

func TestLogFlags(t *testing.T) {
	_, stderr, err := runCLI(t, fakeExecutor{"hostname": "HOST-A"}, true, "info", "--log-level", "debug")
	require.NoError(t, err)
	assert.Contains(t, stderr, "trying strategy")

	_, _, err = runCLI(t, fakeExecutor{}, true, "info", "--log-level", "chatty")
	assert.ErrorContains(t, err, "unsupported log level")
}

func TestVersionCommand(t *testing.T) {
	stdout, _, err := runCLI(t, fakeExecutor{}, true, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(stdout, applicationName+" version: "))

	stdout, _, err = runCLI(t, fakeExecutor{}, true, "version", "--long")
	require.NoError(t, err)
	assert.Contains(t, stdout, "commit:")
}

func TestVersionCommandIgnoresBadConfig(t *testing.T) {
	_, _, err := runCLI(t, fakeExecutor{}, true, "--config", "/nonexistent/sysmonitor.yaml", "version")
	assert.NoError(t, err)
}
