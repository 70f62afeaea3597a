package cmd

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetVersion(t *testing.T) {
	assert.Equal(t, "0.1.0", getVersion())
}

const builtInBanner = "This package contains built-in TypeScript declarations"

// chdir changes into dir for the duration of the test, mirroring t.Chdir
// which requires Go 1.24+.
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}

// fakeRegistry serves package pages for the paths given and 404s the rest.
func fakeRegistry(t *testing.T, pages map[string]string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := pages[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

// executeRoot runs the root command with args and captures its stdout.
func executeRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()

	// Reset flag state left over from previous runs
	devFlag = false
	ignoreWorkspaceRootFlag = false
	dryRunFlag = false
	packageManagerFlag = ""

	old := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w

	rootCmd.SetArgs(args)
	execErr := rootCmd.Execute()

	w.Close()
	os.Stdout = old

	out, err := io.ReadAll(r)
	require.NoError(t, err)
	return string(out), execErr
}

func TestRootDryRunPrintsCommandWithoutExecuting(t *testing.T) {
	server := fakeRegistry(t, map[string]string{
		"/left-pad":        "<html>nothing here</html>",
		"/@types/left-pad": "<html>declaration package page</html>",
	})
	t.Setenv("TYPEADD_REGISTRY", server.URL)
	chdir(t, t.TempDir())

	out, err := executeRoot(t, "left-pad", "--dry-run", "-p", "yarn")
	require.NoError(t, err)

	assert.Contains(t, out, "declarations are valid for @types/left-pad")
	assert.Contains(t, out, "yarn add left-pad && yarn add @types/left-pad -D")
	assert.NotContains(t, out, "$ ", "dry-run must not hand the command to the shell")
}

func TestRootForceDevGroupsEverythingAsDev(t *testing.T) {
	server := fakeRegistry(t, map[string]string{
		"/typescript": "<html>" + builtInBanner + "</html>",
	})
	t.Setenv("TYPEADD_REGISTRY", server.URL)
	chdir(t, t.TempDir())

	out, err := executeRoot(t, "typescript", "-D", "--dry-run", "-p", "yarn")
	require.NoError(t, err)

	assert.Contains(t, out, "types already exist")
	assert.Contains(t, out, "yarn add typescript -D")
	assert.NotContains(t, out, "yarn add typescript &&", "no regular install set when -D is given")
}

func TestRootAllErrorsPrintsNoPackages(t *testing.T) {
	server := fakeRegistry(t, nil)
	t.Setenv("TYPEADD_REGISTRY", server.URL)
	chdir(t, t.TempDir())

	out, err := executeRoot(t, "gone", "also-gone")
	require.NoError(t, err)

	assert.Contains(t, out, "No packages")
	assert.NotContains(t, out, "$ ", "nothing installable means no subprocess call")
}

func TestRootWorkspaceRootGuard(t *testing.T) {
	server := fakeRegistry(t, map[string]string{
		"/typescript": "<html>" + builtInBanner + "</html>",
	})
	t.Setenv("TYPEADD_REGISTRY", server.URL)

	dir := t.TempDir()
	packageJSON := `{"name": "mono", "workspaces": ["packages/*"]}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "package.json"), []byte(packageJSON), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "yarn.lock"), []byte{}, 0644))
	chdir(t, dir)

	t.Run("refuses without -W", func(t *testing.T) {
		out, err := executeRoot(t, "typescript")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "workspace root")
		assert.NotContains(t, out, "$ ", "the guard fires before any subprocess")
	})

	t.Run("-W overrides and appends the root token", func(t *testing.T) {
		out, err := executeRoot(t, "typescript", "-W", "--dry-run")
		require.NoError(t, err)
		assert.Contains(t, out, "yarn add typescript -W")
	})
}
