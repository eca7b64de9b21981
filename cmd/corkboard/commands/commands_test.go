package commands

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dyluth/corkboard/internal/config"
	"github.com/dyluth/corkboard/pkg/board"
)

// isolate keeps the host's config file, .env and CORKBOARD_* variables out
// of the test.
func isolate(t *testing.T) {
	t.Helper()
	t.Chdir(t.TempDir())
	for _, k := range []string{config.EnvStore, config.EnvRedisURL, config.EnvSQLitePath, config.EnvNamespace, config.EnvLogLevel, config.EnvLogFormat} {
		t.Setenv(k, "")
	}

	noColor := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = noColor })
}

// resetFlags restores every flag to its default so runs don't leak into
// each other through the package-level flag variables.
func resetFlags() {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	rootCmd.PersistentFlags().VisitAll(reset)
	for _, c := range append([]*cobra.Command{rootCmd}, rootCmd.Commands()...) {
		c.Flags().VisitAll(reset)
	}
}

// run executes the CLI once with args, the way main does.
func run(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	resetFlags()

	out, errOut := new(bytes.Buffer), new(bytes.Buffer)
	rootCmd.SetOut(out)
	rootCmd.SetErr(errOut)
	if args == nil {
		args = []string{}
	}
	rootCmd.SetArgs(args)

	err = Execute()
	return out.String(), errOut.String(), err
}

// redisCLI returns a run function bound to a fresh miniredis instance.
func redisCLI(t *testing.T) (func(args ...string) (string, string, error), *miniredis.Miniredis) {
	t.Helper()
	isolate(t)
	mr := miniredis.RunT(t)
	url := "redis://" + mr.Addr() + "/0"
	return func(args ...string) (string, string, error) {
		return run(t, append([]string{"--redis-url", url}, args...)...)
	}, mr
}

func TestRootCommand_ShowsHelpWhenNoSubcommand(t *testing.T) {
	isolate(t)

	stdout, _, err := run(t)
	assert.NoError(t, err)
	assert.Contains(t, stdout, "Usage:", "Help should be displayed")
	assert.Contains(t, stdout, "corkboard")
}

func TestRootCommand_RejectsUnknownFlags(t *testing.T) {
	isolate(t)

	_, _, err := run(t, "--unknown-flag", "value")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown flag")
}

func TestCLI_Scenario(t *testing.T) {
	cli, mr := redisCLI(t)

	stdout, _, err := cli("create", "--name", "Fans of Rust", "--creator", "alice")
	require.NoError(t, err)
	assert.Equal(t, "✓ Board 'Fans of Rust' has id 1\n", stdout)

	stdout, _, err = cli("create", "-q", "--name", "Fans of Rust", "--creator", "mallory")
	require.NoError(t, err)
	assert.Equal(t, "1\n", stdout, "existing board keeps its id")

	stdout, _, err = cli("comment", "1", "--creator", "bob", "--body", "hi", "-q")
	require.NoError(t, err)
	assert.Equal(t, "1\n", stdout)

	stdout, _, err = cli("comments", "1", "-o", "jsonl")
	require.NoError(t, err)
	assert.Equal(t, `{"id":"1","board_id":"1","creator":"bob","body":"hi"}`+"\n", stdout)

	stdout, _, err = cli("show", "--name", "Fans of Rust", "-o", "json")
	require.NoError(t, err)
	var view struct {
		ID       string           `json:"id"`
		Name     string           `json:"name"`
		Creator  string           `json:"creator"`
		Comments []*board.Comment `json:"comments"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &view))
	assert.Equal(t, "1", view.ID)
	assert.Equal(t, "alice", view.Creator)
	require.Len(t, view.Comments, 1)
	assert.Equal(t, "hi", view.Comments[0].Body)

	// Data lands under the documented keys.
	got, err := mr.Get("board:Fans of Rust")
	require.NoError(t, err)
	assert.Equal(t, "1", got)
	assert.Equal(t, []string{"1"}, mustList(t, mr, "comment:board:1"))
}

func mustList(t *testing.T, mr *miniredis.Miniredis, key string) []string {
	t.Helper()
	l, err := mr.List(key)
	require.NoError(t, err)
	return l
}

func TestCLI_ShowTable(t *testing.T) {
	cli, _ := redisCLI(t)

	_, _, err := cli("create", "--name", "b", "--creator", "alice")
	require.NoError(t, err)
	_, _, err = cli("comment", "1", "--creator", "bob", "--body", "first")
	require.NoError(t, err)

	stdout, _, err := cli("show", "1")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(stdout, "Board 1: b\nCreated by alice, "))
	assert.Contains(t, stdout, "first")
	assert.Contains(t, stdout, "1 comment\n")
}

func TestCLI_Namespace(t *testing.T) {
	cli, mr := redisCLI(t)

	_, _, err := cli("--namespace", "cb:", "create", "--name", "x", "--creator", "y")
	require.NoError(t, err)
	assert.True(t, mr.Exists("cb:board:x"))
	assert.False(t, mr.Exists("board:x"))
}

func TestCLI_Errors(t *testing.T) {
	cli, _ := redisCLI(t)

	t.Run("unknown board", func(t *testing.T) {
		_, stderr, err := cli("comments", "zz")
		require.Error(t, err)
		assert.Equal(t, "board 'zz' not found", err.Error())
		assert.Contains(t, stderr, "corkboard create")
	})

	t.Run("comment on unknown board", func(t *testing.T) {
		_, _, err := cli("comment", "zz", "--creator", "bob", "--body", "hi")
		require.Error(t, err)
		assert.Equal(t, "board 'zz' not found", err.Error())
	})

	t.Run("empty name", func(t *testing.T) {
		_, stderr, err := cli("create", "--creator", "alice")
		require.Error(t, err)
		assert.Equal(t, "invalid input", err.Error())
		assert.Contains(t, stderr, "name is required")
	})

	t.Run("name too long", func(t *testing.T) {
		_, stderr, err := cli("create", "--name", strings.Repeat("n", 31))
		require.Error(t, err)
		assert.Contains(t, stderr, "name must be at most 30 characters (got 31)")
	})

	t.Run("body too long", func(t *testing.T) {
		_, _, err := cli("create", "--name", "b")
		require.NoError(t, err)
		_, stderr, err := cli("comment", "1", "--body", strings.Repeat("b", 256))
		require.Error(t, err)
		assert.Contains(t, stderr, "body must be at most 255 characters (got 256)")
	})

	t.Run("bad output format", func(t *testing.T) {
		_, _, err := cli("comments", "1", "-o", "xml")
		require.Error(t, err)
		assert.Equal(t, "invalid output format", err.Error())
	})

	t.Run("bad order", func(t *testing.T) {
		_, _, err := cli("show", "1", "--order", "newest")
		require.Error(t, err)
		assert.Equal(t, "invalid comment order", err.Error())
	})

	t.Run("id and name together", func(t *testing.T) {
		_, _, err := cli("show", "1", "--name", "b")
		require.Error(t, err)
		assert.Equal(t, "conflicting arguments", err.Error())
	})

	t.Run("unknown store", func(t *testing.T) {
		_, _, err := cli("--store", "etcd", "ping")
		require.Error(t, err)
		assert.Equal(t, "invalid configuration", err.Error())
	})
}

func TestCLI_StoreUnavailable(t *testing.T) {
	cli, mr := redisCLI(t)
	mr.Close()

	_, stderr, err := cli("ping")
	require.Error(t, err)
	assert.Equal(t, "store unavailable", err.Error())
	assert.Contains(t, stderr, "Store: redis")
}

func TestCLI_Ping(t *testing.T) {
	isolate(t)

	stdout, _, err := run(t, "--store", "mem", "ping")
	require.NoError(t, err)
	assert.Equal(t, "✓ Store reachable (mem)\n", stdout)
}

func TestCLI_LogStoreOps(t *testing.T) {
	isolate(t)

	_, stderr, err := run(t, "--store", "mem", "--log-store-ops", "--log-level", "debug", "create", "--name", "logged")
	require.NoError(t, err)
	assert.Contains(t, stderr, "kv op")
	assert.Contains(t, stderr, "op=INCR")
}

func TestCLI_SQLite(t *testing.T) {
	isolate(t)
	db := filepath.Join(t.TempDir(), "boards.db")
	sqlite := func(args ...string) (string, string, error) {
		return run(t, append([]string{"--store", "sqlite", "--sqlite-path", db}, args...)...)
	}

	stdout, _, err := sqlite("create", "-q", "--name", "durable", "--creator", "alice")
	require.NoError(t, err)
	assert.Equal(t, "1\n", stdout)

	_, _, err = sqlite("comment", "1", "--creator", "bob", "--body", "still here")
	require.NoError(t, err)

	stdout, _, err = sqlite("comments", "1", "-o", "jsonl")
	require.NoError(t, err)
	assert.Contains(t, stdout, `"body":"still here"`)
}

func TestCLI_Init(t *testing.T) {
	isolate(t)

	stdout, _, err := run(t, "init")
	require.NoError(t, err)
	assert.Contains(t, stdout, "✓ corkboard.yml")
	assert.FileExists(t, "corkboard.yml")

	_, stderr, err := run(t, "init")
	require.Error(t, err)
	assert.Equal(t, "already initialized", err.Error())
	assert.Contains(t, stderr, "--force")

	_, _, err = run(t, "init", "--force")
	require.NoError(t, err)

	// The generated file is picked up by later commands.
	_, _, err = run(t, "--store", "mem", "ping")
	assert.NoError(t, err)
}

func TestCLI_Watch(t *testing.T) {
	cli, _ := redisCLI(t)

	_, _, err := cli("create", "--name", "w", "--creator", "alice")
	require.NoError(t, err)
	_, _, err = cli("comment", "1", "--creator", "bob", "--body", "hello")
	require.NoError(t, err)

	stdout, _, err := cli("watch", "1", "--existing", "--interval", "10ms", "--timeout", "100ms")
	require.NoError(t, err)
	assert.Equal(t, "[1] bob: hello\n", stdout)

	_, _, err = cli("watch", "zz", "--timeout", "100ms")
	require.Error(t, err)
	assert.Equal(t, "board 'zz' not found", err.Error())
}
