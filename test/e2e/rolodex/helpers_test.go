package rolodex_test

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

/*
 * Common constants and helper functions for rolodex end-to-end tests.
 * This includes container setup, service operations, and assertions.
 */

const (
	testImageName = "rolodex-test:latest"

	testSecret = "e2e-test-secret-0123456789abcdef"
)

// TestMain builds the Docker image once before all tests and cleans it up
// after all tests complete.
func TestMain(m *testing.M) {
	fmt.Fprintf(os.Stdout, "Building Rolodex Docker image...")

	if err := buildDockerImage(); err != nil {
		fmt.Fprintf(os.Stderr, "\nFailed to build Docker image: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stdout, " done\n")

	exitCode := m.Run()

	fmt.Fprintf(os.Stdout, "Cleaning up Rolodex Docker image...")
	cleanupDockerImage()
	fmt.Fprintf(os.Stdout, " done\n")

	os.Exit(exitCode)
}

func buildDockerImage() error {
	cmd := exec.Command("docker", "build",
		"-t", testImageName,
		"-f", "../../../cmd/rolodex/Dockerfile",
		"../../../")
	cmd.Stdout = os.Stdout
	cmd.Stderr = nil
	return cmd.Run()
}

func cleanupDockerImage() {
	_ = exec.Command("docker", "rmi", "-f", testImageName).Run()
}

// setupRolodexContainer starts the service in a container with relaxed rate
// limits so rapid test requests don't trip the production budgets. Returns
// the base URL and the container handle (needed to scrape confirmation
// links out of the logs).
func setupRolodexContainer(t *testing.T) (string, testcontainers.Container) {
	t.Helper()
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        testImageName,
		ExposedPorts: []string{"8080/tcp"},
		Env: map[string]string{
			"AUTH_SECRET":      testSecret,
			"AUTH_ISSUER":      "rolodex-e2e",
			"DATABASE_FILE":    "/data/rolodex.db",
			"AUTH_PEPPER_FILE": "/data/pepper",
			"AVATAR_DIR":       "/data/avatars",
			"ENV":              "test",
			"LOG_LEVEL":        "info",
			"LOG_FORMAT":       "json",
			// Relaxed limits; the production defaults would fail tests that
			// hammer the auth endpoints.
			"RATELIMIT_STRICT_REQUESTS":   "1000",
			"RATELIMIT_STRICT_WINDOW_SEC": "60",
			"RATELIMIT_STRICT_BURST":      "1000",
			"RATELIMIT_MODERATE_REQUESTS": "1000",
			"RATELIMIT_MODERATE_BURST":    "1000",
			"RATELIMIT_AVATAR_REQUESTS":   "1000",
			"RATELIMIT_AVATAR_WINDOW_SEC": "60",
			"RATELIMIT_AVATAR_BURST":      "1000",
		},
		WaitingFor: wait.ForHTTP("/livez").
			WithPort("8080/tcp").
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	mappedPort, err := container.MappedPort(ctx, "8080")
	require.NoError(t, err)

	host, err := container.Host(ctx)
	require.NoError(t, err)

	return fmt.Sprintf("http://%s:%s", host, mappedPort.Port()), container
}

var confirmLinkPattern = regexp.MustCompile(`/v1/email/confirm/([A-Za-z0-9._-]+)`)

// confirmationToken scrapes the container log for the confirmation link sent
// to the given email address. Delivery is asynchronous so it polls briefly.
func confirmationToken(t *testing.T, container testcontainers.Container, email string) string {
	t.Helper()
	ctx := context.Background()

	var lastLog string
	deadline := time.Now().Add(10 * time.Second)
	for time.Now().Before(deadline) {
		reader, err := container.Logs(ctx)
		require.NoError(t, err)
		raw, err := io.ReadAll(reader)
		reader.Close()
		require.NoError(t, err)

		lastLog = string(raw)
		token := latestTokenFor(lastLog, email)
		if token != "" {
			return token
		}
		time.Sleep(200 * time.Millisecond)
	}

	t.Fatalf("no confirmation link for %s in container log:\n%s", email, lastLog)
	return ""
}

// latestTokenFor returns the token from the last confirmation link logged
// for the given email. Later links win so re-sent confirmations are picked
// up correctly.
func latestTokenFor(log, email string) string {
	token := ""
	for _, line := range strings.Split(log, "\n") {
		if !strings.Contains(line, email) {
			continue
		}
		if m := confirmLinkPattern.FindStringSubmatch(line); m != nil {
			token = m[1]
		}
	}
	return token
}
