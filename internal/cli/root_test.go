package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/presspub/pkg/config"
	perrors "github.com/matzehuels/presspub/pkg/errors"
	"github.com/matzehuels/presspub/pkg/integrations/wordpress"
	"github.com/matzehuels/presspub/pkg/integrations/wordpress/wptest"
)

// testCLI returns a CLI whose config file and session store live in a
// temporary directory, with PRESSPUB_* cleared from the environment.
func testCLI(t *testing.T) *CLI {
	t.Helper()
	for _, kv := range os.Environ() {
		if name, _, _ := strings.Cut(kv, "="); strings.HasPrefix(name, "PRESSPUB_") {
			t.Setenv(name, "")
			os.Unsetenv(name)
		}
	}
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "xdg"))
	c := New(io.Discard, LogInfo)
	c.configPath = filepath.Join(dir, "config.toml")
	c.sessionDir = filepath.Join(dir, "sessions")
	return c
}

func execute(t *testing.T, c *CLI, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := c.RootCommand()
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRootCommandSubcommands(t *testing.T) {
	root := New(io.Discard, LogInfo).RootCommand()

	var names []string
	for _, cmd := range root.Commands() {
		names = append(names, cmd.Name())
	}
	for _, want := range []string{"auth", "media", "post", "taxonomy", "slug", "config", "completion"} {
		assert.Contains(t, names, want)
	}
}

func TestSlugCommand(t *testing.T) {
	out, err := execute(t, testCLI(t), "slug", "Give the PIP replacement source to the Mac to speed up the download")
	require.NoError(t, err)
	assert.Equal(t, "give_pip_replacement_source_mac_speed_up_download\n", out)
}

func TestSlugCommandJoinsArgs(t *testing.T) {
	out, err := execute(t, testCLI(t), "slug", "Speed", "Up", "Download")
	require.NoError(t, err)
	assert.Equal(t, "speed_up_download\n", out)
}

func TestSlugCommandWarnsWithoutWordCharacters(t *testing.T) {
	c := testCLI(t)
	var logs bytes.Buffer
	c.Logger.SetOutput(&logs)

	out, err := execute(t, c, "slug", "?!")
	require.NoError(t, err)
	assert.Equal(t, "\n", out)
	assert.Contains(t, logs.String(), "slug has no word characters")

	logs.Reset()
	_, err = execute(t, c, "slug", "The Mac")
	require.NoError(t, err)
	assert.NotContains(t, logs.String(), "slug has no word characters")
}

func TestConfigInitAndPath(t *testing.T) {
	c := testCLI(t)

	_, err := execute(t, c, "config", "init", "--host", "https://www.crifan.org", "--token", "secret")
	require.NoError(t, err)
	assert.FileExists(t, c.configPath)
	assert.NoFileExists(t, config.DefaultPath())

	cfg, err := config.Load(c.configPath)
	require.NoError(t, err)
	assert.Equal(t, "https://www.crifan.org", cfg.Host)
	assert.Equal(t, "secret", cfg.Token)
	assert.Equal(t, config.Default().PerPage, cfg.PerPage)

	out, err := execute(t, c, "config", "path")
	require.NoError(t, err)
	assert.Equal(t, c.configPath+"\n", out)
}

func TestRootCommandKeepsConfigPath(t *testing.T) {
	c := testCLI(t)
	want := c.configPath

	c.RootCommand()
	assert.Equal(t, want, c.configPath)

	out, err := execute(t, c, "config", "path")
	require.NoError(t, err)
	assert.Equal(t, want+"\n", out)
}

func TestConfigFlagOverridesPath(t *testing.T) {
	c := testCLI(t)
	other := filepath.Join(t.TempDir(), "other.toml")

	_, err := execute(t, c, "--config", other, "config", "init")
	require.NoError(t, err)
	assert.FileExists(t, other)
}

func TestConfigInitRefusesOverwrite(t *testing.T) {
	c := testCLI(t)

	_, err := execute(t, c, "config", "init")
	require.NoError(t, err)

	_, err = execute(t, c, "config", "init")
	assert.True(t, perrors.Is(err, perrors.ErrCodeInvalidPath), "got %v", err)

	_, err = execute(t, c, "config", "init", "--force", "--host", "https://example.com")
	assert.NoError(t, err)
}

func TestConfigInitRejectsBadHost(t *testing.T) {
	c := testCLI(t)

	_, err := execute(t, c, "config", "init", "--host", "not a url")
	assert.Error(t, err)
	assert.NoFileExists(t, c.configPath)
}

func TestTaxonomyResolveCommand(t *testing.T) {
	srv := wptest.NewServer()
	defer srv.Close()
	srv.AddTerm(wptest.Categories, "Mac", 0)

	c := testCLI(t)
	t.Setenv("PRESSPUB_HOST", srv.URL)
	t.Setenv("PRESSPUB_TOKEN", srv.Token)

	lines := captureStdout(t)
	_, err := execute(t, c, "taxonomy", "resolve", "Mac", "GPU", "--kind", "category")
	require.NoError(t, err)
	assert.Contains(t, lines.String(), "GPU")
	assert.Contains(t, lines.String(), "(created)")
	assert.Equal(t, 1, strings.Count(lines.String(), "(created)"))

	var names []string
	for _, term := range srv.Terms(wptest.Categories) {
		names = append(names, term.Name)
	}
	assert.Equal(t, []string{"Mac", "GPU"}, names)
	assert.Equal(t, 1, srv.Calls("POST", "/wp-json/wp/v2/categories"))
}

func TestTaxonomyResolveReportsFailures(t *testing.T) {
	srv := wptest.NewServer()
	defer srv.Close()
	srv.Fail("POST", "/wp-json/wp/v2/tags", 500, `{"code":"db_error","message":"insert failed"}`, 0)

	c := testCLI(t)
	t.Setenv("PRESSPUB_HOST", srv.URL)
	t.Setenv("PRESSPUB_TOKEN", srv.Token)

	_, err := execute(t, c, "taxonomy", "resolve", "GPU", "--kind", "tag")
	assert.True(t, perrors.Is(err, perrors.ErrCodeResolutionFailed), "got %v", err)
}

func TestTaxonomyRejectsUnknownKind(t *testing.T) {
	c := testCLI(t)
	t.Setenv("PRESSPUB_HOST", "https://example.com")
	t.Setenv("PRESSPUB_TOKEN", "secret")

	_, err := execute(t, c, "taxonomy", "search", "Mac", "--kind", "label")
	assert.Error(t, err)
}

func TestCommandsRequireCredentials(t *testing.T) {
	_, err := execute(t, testCLI(t), "taxonomy", "search", "Mac")
	assert.True(t, perrors.Is(err, perrors.ErrCodeInvalidConfig), "got %v", err)
}

func TestAuthLoginStoresSession(t *testing.T) {
	srv := wptest.NewServer()
	defer srv.Close()
	c := testCLI(t)

	_, err := execute(t, c, "auth", "login", "--host", srv.URL, "--token", srv.Token)
	require.NoError(t, err)

	store, err := c.sessionStore()
	require.NoError(t, err)
	sess, err := store.GetSession(context.Background())
	require.NoError(t, err)
	require.NotNil(t, sess)
	assert.Equal(t, srv.URL, sess.Host)
	assert.Equal(t, srv.Token, sess.Token)

	// Later commands pick up the stored login.
	srv.AddTerm(wptest.Tags, "GPU", 0)
	_, err = execute(t, c, "taxonomy", "search", "gpu", "--kind", "tag")
	require.NoError(t, err)
	assert.Equal(t, 1, srv.Calls("GET", "/wp-json/wp/v2/tags"))

	_, err = execute(t, c, "auth", "logout")
	require.NoError(t, err)
	sess, err = store.GetSession(context.Background())
	require.NoError(t, err)
	assert.Nil(t, sess)
}

func TestAuthLoginRejectedToken(t *testing.T) {
	srv := wptest.NewServer()
	defer srv.Close()
	c := testCLI(t)

	_, err := execute(t, c, "auth", "login", "--host", srv.URL, "--token", "wrong")
	require.Error(t, err)

	store, err := c.sessionStore()
	require.NoError(t, err)
	sess, err := store.GetSession(context.Background())
	require.NoError(t, err)
	assert.Nil(t, sess)
}

func TestPostCreateFromManifest(t *testing.T) {
	srv := wptest.NewServer()
	defer srv.Close()
	srv.AddTerm(wptest.Categories, "Mac", 0)

	c := testCLI(t)
	t.Setenv("PRESSPUB_HOST", srv.URL)
	t.Setenv("PRESSPUB_TOKEN", srv.Token)

	_, err := execute(t, c, "post", "create", "-f", filepath.Join("..", "..", "examples", "post.yaml"), "--status", "publish")
	require.NoError(t, err)

	posts := srv.Posts()
	require.Len(t, posts, 1)
	assert.Equal(t, "give_pip_replacement_source_mac_speed_up_download", posts[0].Slug)
	assert.Equal(t, "publish", posts[0].Status)
	assert.Len(t, posts[0].Categories, 1)
	assert.Len(t, posts[0].Tags, 3)
	assert.Len(t, srv.Terms(wptest.Tags), 3)
}

func TestPostCreateRequiresContent(t *testing.T) {
	c := testCLI(t)
	t.Setenv("PRESSPUB_HOST", "https://example.com")
	t.Setenv("PRESSPUB_TOKEN", "secret")

	_, err := execute(t, c, "post", "create", "--title", "Hello")
	assert.True(t, perrors.Is(err, perrors.ErrCodeInvalidInput), "got %v", err)
}

func TestMediaUpload(t *testing.T) {
	srv := wptest.NewServer()
	defer srv.Close()

	c := testCLI(t)
	t.Setenv("PRESSPUB_HOST", srv.URL)
	t.Setenv("PRESSPUB_TOKEN", srv.Token)

	path := filepath.Join(t.TempDir(), "cover.png")
	require.NoError(t, os.WriteFile(path, []byte("\x89PNG\r\n\x1a\n"), 0o644))

	_, err := execute(t, c, "media", "upload", path)
	require.NoError(t, err)

	uploads := srv.Uploads()
	require.Len(t, uploads, 1)
	assert.Equal(t, "cover.png", uploads[0].Filename)
	assert.Equal(t, "image/png", uploads[0].ContentType)
}

func TestPostCreateDateNow(t *testing.T) {
	srv := wptest.NewServer()
	defer srv.Close()

	c := testCLI(t)
	t.Setenv("PRESSPUB_HOST", srv.URL)
	t.Setenv("PRESSPUB_TOKEN", srv.Token)

	body := filepath.Join(t.TempDir(), "hello.html")
	require.NoError(t, os.WriteFile(body, []byte("<p>hello</p>"), 0o644))

	_, err := execute(t, c, "post", "create", "--title", "Hello", "--content-file", body, "--date", "now")
	require.NoError(t, err)

	posts := srv.Posts()
	require.Len(t, posts, 1)
	_, err = time.Parse(wordpress.DateLayout, posts[0].Date)
	assert.NoError(t, err, "date %q", posts[0].Date)
}
