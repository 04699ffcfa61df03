package e2e

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const steamID = "76561198000000001"

func TestSmokeFlow(t *testing.T) {
	home := t.TempDir()
	binaryPath := buildBinary(t)
	server := newSteamServer(t)

	stdout, stderr, err := runSteamrec(t, binaryPath, home, server.URL, "recommend", "--json")
	require.NoError(t, err, "stderr: %s", stderr)

	var result struct {
		StopReason      string `json:"stopReason"`
		Recommendations []struct {
			AppID int    `json:"appid"`
			Name  string `json:"name"`
		} `json:"recommendations"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &result))
	assert.Equal(t, "completed", result.StopReason)
	require.Len(t, result.Recommendations, 1)
	assert.Equal(t, "Portal", result.Recommendations[0].Name)

	stdout, stderr, err = runSteamrec(t, binaryPath, home, server.URL, "history")
	require.NoError(t, err, "stderr: %s", stderr)
	assert.Contains(t, stdout, "Portal")

	stdout, stderr, err = runSteamrec(t, binaryPath, home, server.URL, "cache", "clear")
	require.NoError(t, err, "stderr: %s", stderr)
	assert.Contains(t, stdout, "cleared snapshot")
}

func newSteamServer(t *testing.T) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ISteamUser/GetFriendList/v0001/":
			_, _ = w.Write([]byte(`{"friendslist":{"friends":[{"steamid":"friend-a","relationship":"friend","friend_since":0}]}}`))
		case "/IPlayerService/GetOwnedGames/v0001/":
			if r.URL.Query().Get("steamid") == steamID {
				_, _ = w.Write([]byte(`{"response":{"games":[{"appid":10,"name":"Half-Life","playtime_forever":60}]}}`))
				return
			}
			_, _ = w.Write([]byte(`{"response":{"games":[{"appid":10,"name":"Half-Life"},{"appid":20,"name":"Portal","playtime_forever":90}]}}`))
		case "/IPlayerService/GetRecentlyPlayedGames/v0001/":
			_, _ = w.Write([]byte(`{"response":{"total_count":0}}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(server.Close)

	return server
}

func buildBinary(t *testing.T) string {
	t.Helper()

	binaryPath := filepath.Join(t.TempDir(), "steamrec-e2e")
	cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/steamrec")
	cmd.Dir = repoRoot(t)

	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "build steamrec binary: %s", string(output))
	return binaryPath
}

func runSteamrec(t *testing.T, binaryPath, home, baseURL string, args ...string) (string, string, error) {
	t.Helper()

	cmd := exec.Command(binaryPath, args...)
	cmd.Dir = home
	cmd.Env = []string{
		"HOME=" + home,
		"PATH=" + t.TempDir(),
		"XDG_CONFIG_HOME=" + filepath.Join(home, ".config"),
		"XDG_STATE_HOME=" + filepath.Join(home, ".local", "state"),
		"XDG_DATA_HOME=" + filepath.Join(home, ".local", "share"),
		"STEAM_API_KEY=e2e-key",
		"STEAM_ID=" + steamID,
		"STEAMREC_STEAM_BASE_URL=" + baseURL,
		"STEAMREC_FETCH_REQUEST_DELAY=0s",
		"STEAMREC_COLLECT_BATCH_COOLDOWN=0s",
		"STEAMREC_STEAM_REQUESTS_PER_SECOND=0",
	}

	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}

func repoRoot(t *testing.T) string {
	t.Helper()

	wd, err := os.Getwd()
	require.NoError(t, err)
	return filepath.Clean(filepath.Join(wd, "..", ".."))
}
