//go:build smoke

package smoke

import (
	"bytes"
	"database/sql"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/acebook/dashboard/internal/testutil"
)

// startServer builds cmd/server, runs it against backendURL and returns the
// dashboard's base URL once /health answers.
func startServer(t *testing.T, backendURL string) string {
	t.Helper()

	repoRoot := findRepoRoot(t)
	tempDir := t.TempDir()

	binPath := filepath.Join(tempDir, "acebook-dashboard")
	buildCmd := exec.Command("go", "build", "-o", binPath, "./cmd/server")
	buildCmd.Dir = repoRoot
	buildOutput, err := buildCmd.CombinedOutput()
	if err != nil {
		t.Fatalf("failed to build server: %v\n%s", err, buildOutput)
	}

	port := reservePort(t)
	configPath := filepath.Join(tempDir, "config.yaml")
	configBody := fmt.Sprintf(`app:
  name: "AceBook"
  environment: "development"
  port: %d
  base_url: "http://localhost:%d"
  static_dir: "%s"

backend:
  base_url: "%s"
  timezone: "America/Sao_Paulo"

database:
  driver: "sqlite"
  filename: "%s"

scheduler:
  session_cleanup: "*/15 * * * *"
  dialog_cleanup: "*/5 * * * *"

features:
  enable_email: false
  enable_debug: true
`, port, port,
		filepath.ToSlash(filepath.Join(repoRoot, "web", "static")),
		backendURL,
		filepath.ToSlash(filepath.Join(tempDir, "db", "smoke.db")))

	if err := os.WriteFile(configPath, []byte(configBody), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cmd := exec.Command(binPath)
	cmd.Dir = tempDir
	cmd.Env = append(os.Environ(),
		"CONFIG_PATH="+configPath,
		"APP_SECRET_KEY=test-secret-key-for-smoke-tests-only",
	)
	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Start(); err != nil {
		t.Fatalf("failed to start server: %v", err)
	}

	waitDone := make(chan struct{})
	var waitErr error
	go func() {
		waitErr = cmd.Wait()
		close(waitDone)
	}()

	t.Cleanup(func() {
		if cmd.Process == nil {
			return
		}
		_ = cmd.Process.Signal(os.Interrupt)
		select {
		case <-waitDone:
			return
		case <-time.After(5 * time.Second):
		}
		_ = cmd.Process.Kill()
		select {
		case <-waitDone:
		case <-time.After(5 * time.Second):
			t.Logf("server process did not exit after kill")
		}
	})

	baseURL := fmt.Sprintf("http://localhost:%d", port)
	client := &http.Client{Timeout: 500 * time.Millisecond}
	deadline := time.Now().Add(10 * time.Second)

	for {
		select {
		case <-waitDone:
			t.Fatalf("server exited before health check: %v\nstdout:\n%s\nstderr:\n%s", waitErr, stdout.String(), stderr.String())
		default:
		}

		resp, err := client.Get(baseURL + "/health")
		if err == nil {
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return baseURL
			}
		}

		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for health check\nstdout:\n%s\nstderr:\n%s", stdout.String(), stderr.String())
		}

		time.Sleep(100 * time.Millisecond)
	}
}

func TestServerStartup(t *testing.T) {
	baseURL := startServer(t, "http://127.0.0.1:1")

	client := &http.Client{
		Timeout: time.Second,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
	resp, err := client.Get(baseURL + "/dashboard")
	if err != nil {
		t.Fatalf("get dashboard: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusSeeOther || resp.Header.Get("Location") != "/login" {
		t.Fatalf("expected anonymous visitor redirected to /login, got %d %q", resp.StatusCode, resp.Header.Get("Location"))
	}
}

func reservePort(t *testing.T) int {
	t.Helper()

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to reserve port: %v", err)
	}
	defer listener.Close()

	return listener.Addr().(*net.TCPAddr).Port
}

func findRepoRoot(t *testing.T) string {
	t.Helper()

	dir, err := os.Getwd()
	if err != nil {
		t.Fatalf("failed to get working directory: %v", err)
	}

	for i := 0; i < 6; i++ {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	t.Fatal("failed to locate repo root with go.mod")
	return ""
}

func TestMigrationsApplied(t *testing.T) {
	db := testutil.NewTestDB(t)

	for _, index := range []string{"sessions", "idx_sessions_user_id", "idx_sessions_expires_at"} {
		var name string
		err := db.QueryRow("SELECT name FROM sqlite_master WHERE name = ?", index).Scan(&name)
		if err == sql.ErrNoRows {
			t.Fatalf("missing %q after migrations", index)
		}
		if err != nil {
			t.Fatalf("query %q existence: %v", index, err)
		}
	}
}

func TestSessionRoleConstraint(t *testing.T) {
	db := testutil.NewTestDB(t)

	_, err := db.Exec(
		`INSERT INTO sessions (id, user_id, role, sealed_access, created_at, expires_at)
		 VALUES ('s1', 1, 'superuser', x'00', CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)`,
	)
	if err == nil {
		t.Fatal("expected check constraint failure for unknown role")
	}
}
