package e2e_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/circle-go/internal/api"
	"github.com/mcoot/circle-go/internal/factory"
)

// cliRunner manages CLI binary execution
type cliRunner struct {
	binaryPath string
	serverURL  string
	cookieFile string
	configFile string
}

func newCLIRunner(t *testing.T, serverURL string) *cliRunner {
	t.Helper()

	// Find project root (where go.mod is)
	projectRoot := findProjectRoot(t)

	// Build the CLI binary
	binaryPath := filepath.Join(projectRoot, "bin", "circle-test")
	cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/circle")
	cmd.Dir = projectRoot
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "failed to build CLI: %s", string(output))

	dir := t.TempDir()
	return &cliRunner{
		binaryPath: binaryPath,
		serverURL:  serverURL,
		cookieFile: filepath.Join(dir, "cookies.json"),
		configFile: filepath.Join(dir, "config.yaml"),
	}
}

// withCookieFile returns a runner for a second user sharing the binary
func (r *cliRunner) withCookieFile(path string) *cliRunner {
	other := *r
	other.cookieFile = path
	return &other
}

func (r *cliRunner) run(args ...string) (string, error) {
	return r.runFormat("json", args...)
}

func (r *cliRunner) runFormat(format string, args ...string) (string, error) {
	fullArgs := append([]string{
		"--server", r.serverURL,
		"--cookie-file", r.cookieFile,
		"--config", r.configFile,
		"--output", format,
	}, args...)

	cmd := exec.Command(r.binaryPath, fullArgs...)
	cmd.Stderr = nil
	output, err := cmd.Output()
	if exitErr, ok := err.(*exec.ExitError); ok {
		return string(output) + string(exitErr.Stderr), err
	}
	return string(output), err
}

func findProjectRoot(t *testing.T) string {
	t.Helper()

	dir, err := os.Getwd()
	require.NoError(t, err)

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatal("could not find project root (go.mod)")
		}
		dir = parent
	}
}

// testServer manages a real simulator server for e2e tests
type testServer struct {
	addr     string
	shutdown func()
}

func startTestServer(t *testing.T) *testServer {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	// Create application with the embedded catalog
	seed := uint64(7)
	app, err := factory.New(context.Background(), factory.Config{
		Logger: logger,
		Seed:   &seed,
	})
	require.NoError(t, err)

	router := api.NewRouter(api.RouterConfig{
		Logger:            logger,
		AuthService:       app.AuthService,
		ContestController: app.ContestController,
		Metrics:           app.Metrics,
	})

	// Listen on a free port
	serverConfig := api.DefaultServerConfig()
	serverConfig.Host = "127.0.0.1"
	serverConfig.Port = 0
	server := api.NewServer(router, serverConfig, logger)
	require.NoError(t, server.Listen())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- server.Run(ctx)
	}()

	// Wait for server to be ready
	serverURL := "http://" + server.Addr()
	waitForServer(t, serverURL+"/api/health")

	return &testServer{
		addr: serverURL,
		shutdown: func() {
			cancel()
			select {
			case err := <-done:
				assert.NoError(t, err)
			case <-time.After(5 * time.Second):
				t.Error("server did not shut down in time")
			}
		},
	}
}

func waitForServer(t *testing.T, url string) {
	t.Helper()

	client := &http.Client{Timeout: 100 * time.Millisecond}
	deadline := time.Now().Add(5 * time.Second)

	for time.Now().Before(deadline) {
		resp, err := client.Get(url)
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
		time.Sleep(50 * time.Millisecond)
	}

	t.Fatal("server did not become ready in time")
}

// Response types for JSON parsing
type identityResponse struct {
	Username             string   `json:"username"`
	Rating               int      `json:"rating"`
	Level                int      `json:"level"`
	Title                string   `json:"title"`
	Traits               []string `json:"traits"`
	TotalQuestionsSolved int      `json:"totalQuestionsSolved"`
	ActiveContestID      *int64   `json:"activeContestId"`
}

type contestResponse struct {
	ContestID int64  `json:"contestId"`
	Title     string `json:"title"`
	Status    string `json:"status"`
	Questions []struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"questions"`
	QuestionStates map[string]int `json:"questionStates"`
	SolvedCount    int            `json:"solvedCount"`
	TotalQuestions int            `json:"totalQuestions"`
}

type completeResponse struct {
	Result struct {
		SolvedCount    int     `json:"solvedCount"`
		TotalQuestions int     `json:"totalQuestions"`
		RatingBefore   int     `json:"ratingBefore"`
		RatingAfter    *int    `json:"ratingAfter"`
		RatingChange   int     `json:"ratingChange"`
		LevelBefore    int     `json:"levelBefore"`
		LevelAfter     int     `json:"levelAfter"`
		NewTitle       *string `json:"newTitle"`
	} `json:"result"`
}

type historyResponse struct {
	History []contestResponse `json:"history"`
}

type healthResponse struct {
	Status string `json:"status"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func decodeJSON[T any](t *testing.T, output string) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal([]byte(output), &v), "output: %s", output)
	return v
}

// Tests

func TestCLI_HealthCheck(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	output, err := cli.run("health")
	require.NoError(t, err, "output: %s", output)
	assert.Equal(t, "ok", decodeJSON[healthResponse](t, output).Status)
}

func TestCLI_AuthCommands(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	// Not logged in yet
	output, err := cli.run("auth", "me")
	require.Error(t, err)
	assert.Contains(t, output, "not logged in")

	// Register (cookie should be saved in the cookie file)
	output, err = cli.run("auth", "register", "--user", "alice", "--pass", "secret")
	require.NoError(t, err, "output: %s", output)
	registered := decodeJSON[identityResponse](t, output)
	assert.Equal(t, "alice", registered.Username)
	assert.Equal(t, 30, registered.Rating)
	assert.Equal(t, 4, registered.Level)

	output, err = cli.run("auth", "me")
	require.NoError(t, err, "output: %s", output)
	assert.Equal(t, "alice", decodeJSON[identityResponse](t, output).Username)

	// Logout, then log back in
	output, err = cli.run("auth", "logout")
	require.NoError(t, err, "output: %s", output)
	assert.Equal(t, "Logged out", decodeJSON[messageResponse](t, output).Message)

	_, err = cli.run("auth", "me")
	require.Error(t, err)

	output, err = cli.run("auth", "login", "--user", "alice", "--pass", "wrong")
	require.Error(t, err)
	assert.Contains(t, output, "Invalid username or password")

	output, err = cli.run("auth", "login", "--user", "alice", "--pass", "secret")
	require.NoError(t, err, "output: %s", output)
	assert.Equal(t, "alice", decodeJSON[identityResponse](t, output).Username)
}

func TestCLI_FullContestFlow(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	output, err := cli.run("auth", "register", "--user", "alice", "--pass", "secret")
	require.NoError(t, err, "output: %s", output)

	// Generate a contest
	output, err = cli.run("fight")
	require.NoError(t, err, "output: %s", output)
	contest := decodeJSON[contestResponse](t, output)
	require.Len(t, contest.Questions, 4)
	assert.Equal(t, 0, contest.SolvedCount)
	t.Logf("Generated contest %d: %s", contest.ContestID, contest.Title)

	// A second fight resumes instead of generating
	output, err = cli.run("fight")
	require.NoError(t, err, "output: %s", output)
	assert.Equal(t, contest.ContestID, decodeJSON[contestResponse](t, output).ContestID)

	// Solve every problem, by label and by ID
	for i, arg := range []string{"A", "b", contest.Questions[2].ID, "D"} {
		output, err = cli.run("contest", "solve", arg)
		require.NoError(t, err, "output: %s", output)
		assert.Equal(t, i+1, decodeJSON[contestResponse](t, output).SolvedCount)
	}

	// Solving again is rejected by the server
	output, err = cli.run("contest", "solve", "A")
	require.Error(t, err)
	assert.Contains(t, output, "Question already marked as solved")

	// Complete
	output, err = cli.run("contest", "complete")
	require.NoError(t, err, "output: %s", output)
	result := decodeJSON[completeResponse](t, output).Result
	assert.Equal(t, 4, result.SolvedCount)
	assert.Equal(t, 10, result.RatingChange)
	require.NotNil(t, result.RatingAfter)
	assert.Equal(t, 40, *result.RatingAfter)
	assert.Equal(t, 4, result.LevelBefore)
	assert.Equal(t, 5, result.LevelAfter)
	require.NotNil(t, result.NewTitle)

	// Profile reflects the result
	output, err = cli.run("auth", "me")
	require.NoError(t, err, "output: %s", output)
	me := decodeJSON[identityResponse](t, output)
	assert.Equal(t, 40, me.Rating)
	assert.Equal(t, 4, me.TotalQuestionsSolved)
	assert.Nil(t, me.ActiveContestID)

	// History
	output, err = cli.run("history")
	require.NoError(t, err, "output: %s", output)
	history := decodeJSON[historyResponse](t, output)
	require.Len(t, history.History, 1)
	assert.Equal(t, "completed", history.History[0].Status)

	// Nothing left to act on
	output, err = cli.run("contest", "show")
	require.Error(t, err)
	assert.Contains(t, output, "no active contest")
}

func TestCLI_AbandonFlow(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	output, err := cli.run("auth", "register", "--user", "alice", "--pass", "secret")
	require.NoError(t, err, "output: %s", output)

	output, err = cli.run("fight")
	require.NoError(t, err, "output: %s", output)
	contest := decodeJSON[contestResponse](t, output)

	output, err = cli.run("contest", "solve", "A")
	require.NoError(t, err, "output: %s", output)

	output, err = cli.run("contest", "abandon", "--yes")
	require.NoError(t, err, "output: %s", output)
	assert.Equal(t, "Contest abandoned", decodeJSON[messageResponse](t, output).Message)

	// Rating is untouched and the contest is in history as abandoned
	output, err = cli.run("auth", "me")
	require.NoError(t, err, "output: %s", output)
	assert.Equal(t, 30, decodeJSON[identityResponse](t, output).Rating)

	output, err = cli.run("contest", "get", strconv.FormatInt(contest.ContestID, 10))
	require.NoError(t, err, "output: %s", output)
	assert.Equal(t, "abandoned", decodeJSON[contestResponse](t, output).Status)
}

func TestCLI_UsersAreIsolated(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	alice := newCLIRunner(t, ts.addr)
	bob := alice.withCookieFile(filepath.Join(t.TempDir(), "bob-cookies.json"))

	_, err := alice.run("auth", "register", "--user", "alice", "--pass", "secret")
	require.NoError(t, err)
	_, err = bob.run("auth", "register", "--user", "bob", "--pass", "secret")
	require.NoError(t, err)

	output, err := alice.run("fight")
	require.NoError(t, err, "output: %s", output)
	contest := decodeJSON[contestResponse](t, output)

	// Bob has no contest and cannot see Alice's
	_, err = bob.run("contest", "show")
	require.Error(t, err)

	output, err = bob.run("contest", "get", strconv.FormatInt(contest.ContestID, 10))
	require.Error(t, err)
	assert.Contains(t, output, "Contest not found")
}

func TestCLI_TextOutput(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	_, err := cli.run("auth", "register", "--user", "alice", "--pass", "secret")
	require.NoError(t, err)
	_, err = cli.run("fight")
	require.NoError(t, err)

	output, err := cli.runFormat("text", "contest", "show")
	require.NoError(t, err, "output: %s", output)
	assert.Contains(t, output, "Progress: 0/4")
	assert.Contains(t, output, "Problems:")

	output, err = cli.runFormat("text", "levels")
	require.NoError(t, err, "output: %s", output)
	assert.Contains(t, output, "User: alice")
	assert.Contains(t, output, "Active contest: #")
}
