// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/chatstudio/internal/config"
	"github.com/jeranaias/chatstudio/internal/model"
	"github.com/jeranaias/chatstudio/internal/session"
	"github.com/jeranaias/chatstudio/internal/storage"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

var testNow = time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)

type testApp struct {
	*App
	out    *bytes.Buffer
	errOut *bytes.Buffer
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	return newTestAppWithStore(t, storage.NewMemory())
}

func newTestAppWithStore(t *testing.T, store *storage.Store) *testApp {
	t.Helper()
	cfg := config.Default()
	cfg.Storage.Backend = store.Backend().Name()

	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	app := &App{
		Config:      cfg,
		Logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		Store:       store,
		Repo:        session.NewRepository(store, session.LoadSelection(store, model.ProviderLocal)),
		Clock:       func() time.Time { return testNow },
		In:          strings.NewReader(""),
		Out:         out,
		Err:         errOut,
		Interactive: func() bool { return false },
	}
	return &testApp{App: app, out: out, errOut: errOut}
}

func (a *testApp) run(args ...string) error {
	if args == nil {
		args = []string{}
	}
	root := NewRootCommand(a.App)
	root.SetArgs(args)
	root.SetOut(a.out)
	root.SetErr(a.errOut)
	return root.Execute()
}

// localServer answers every chat completion with reply and counts calls.
// Other requests (the doctor's reachability probe) get an empty 200.
func localServer(t *testing.T, reply string) (*httptest.Server, func() int) {
	t.Helper()
	var mu sync.Mutex
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			return
		}
		mu.Lock()
		calls++
		mu.Unlock()

		var body struct {
			Messages []map[string]string `json:"messages"`
			Mode     string              `json:"mode"`
		}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "chat", body.Mode)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []any{map[string]any{"message": map[string]string{"role": "assistant", "content": reply}}},
		})
	}))
	t.Cleanup(server.Close)
	return server, func() int {
		mu.Lock()
		defer mu.Unlock()
		return calls
	}
}

func seedSession(a *testApp, title string, updated time.Time, contents ...string) model.Session {
	ts := updated.Add(-time.Minute).UnixMilli()
	s := model.NewSession(title, model.ProviderLocal, ts)
	for i, c := range contents {
		role := model.RoleUser
		if i%2 == 1 {
			role = model.RoleAssistant
		}
		s.Append(model.NewMessage(role, c, ts))
	}
	s.Touch(updated.UnixMilli())
	a.Repo.Upsert(s)
	return s
}

// syncBuffer is a bytes.Buffer safe for a writer goroutine and a reader.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// =============================================================================
// ASK
// =============================================================================

func TestAsk_DeliversAndPersists(t *testing.T) {
	app := newTestApp(t)
	server, calls := localServer(t, "Hi there")
	app.Config.Local.Endpoint = server.URL + "/v1/chat/completions"

	require.NoError(t, app.run("ask", "hello", "world"))

	assert.Contains(t, app.out.String(), "Hi there")
	assert.Equal(t, 1, calls())

	sessions := app.Repo.List()
	require.Len(t, sessions, 1)
	assert.Equal(t, "hello world", sessions[0].Title)
	require.Len(t, sessions[0].Messages, 2)
	assert.Equal(t, model.RoleUser, sessions[0].Messages[0].Role)
	assert.Equal(t, "Hi there", sessions[0].Messages[1].Content)
	assert.Equal(t, sessions[0].ID, app.Repo.Selection().CurrentSessionID())
}

func TestAsk_ContinuesActiveSessionUnlessNew(t *testing.T) {
	app := newTestApp(t)
	server, _ := localServer(t, "ok")
	app.Config.Local.Endpoint = server.URL + "/v1/chat/completions"

	require.NoError(t, app.run("ask", "first"))
	require.NoError(t, app.run("ask", "second"))
	require.Equal(t, 1, app.Repo.Len())

	require.NoError(t, app.run("ask", "--new", "third"))
	assert.Equal(t, 2, app.Repo.Len())
}

func TestAsk_ReadsStdin(t *testing.T) {
	app := newTestApp(t)
	server, _ := localServer(t, "piped reply")
	app.Config.Local.Endpoint = server.URL + "/v1/chat/completions"
	app.In = strings.NewReader("question from a pipe\n")

	require.NoError(t, app.run("ask"))
	assert.Contains(t, app.out.String(), "piped reply")
	assert.Equal(t, "question from a pipe", app.Repo.List()[0].Title)
}

func TestAsk_CloudWithoutKeyRecordsFailure(t *testing.T) {
	app := newTestApp(t)

	err := app.run("--provider", "cloud", "ask", "hi")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Cloud request failed")

	assert.Contains(t, app.out.String(), "Cloud API key is not configured")
	assert.Contains(t, app.errOut.String(), "[CLOUD API Error]")
	assert.Equal(t, model.ProviderCloud, app.Repo.Selection().Provider())

	s := app.Repo.List()[0]
	require.Len(t, s.Messages, 2)
	assert.Equal(t, "configuration", s.Messages[1].Failure)
	assert.Equal(t, model.RoleAssistant, s.Messages[1].Role)
}

func TestProviderFlag_AppliesToThisRunOnly(t *testing.T) {
	app := newTestApp(t)
	assert.Error(t, app.run("-p", "cloud", "ask", "hi"))
	assert.Equal(t, model.ProviderCloud, app.Repo.Selection().Provider())

	stored := session.LoadSelection(app.Store, model.ProviderLocal)
	assert.Equal(t, model.ProviderLocal, stored.Provider())

	require.NoError(t, app.run("provider", "cloud"))
	stored = session.LoadSelection(app.Store, model.ProviderLocal)
	assert.Equal(t, model.ProviderCloud, stored.Provider())
}

func TestAsk_BlankInputIsRejected(t *testing.T) {
	app := newTestApp(t)
	app.In = strings.NewReader("   \n")

	require.Error(t, app.run("ask"))
	assert.Equal(t, 0, app.Repo.Len())
}

// =============================================================================
// CHAT REPL
// =============================================================================

func TestChat_REPLFlow(t *testing.T) {
	app := newTestApp(t)
	server, calls := localServer(t, "answer")
	app.Config.Local.Endpoint = server.URL + "/v1/chat/completions"
	app.In = strings.NewReader("first question\n\n/new\nsecond question\n/sessions\n/quit\nnever sent\n")

	require.NoError(t, app.run("chat"))

	assert.Equal(t, 2, calls())
	assert.Equal(t, 2, app.Repo.Len())
	assert.Contains(t, app.out.String(), "Started a new chat")
	assert.Contains(t, app.out.String(), "Total: 2 session(s)")
	assert.Contains(t, app.out.String(), "answer")
	assert.Empty(t, app.Repo.Search("never sent"))
}

func TestChat_IsDefaultCommand(t *testing.T) {
	app := newTestApp(t)
	app.In = strings.NewReader("/help\n")

	require.NoError(t, app.run())
	assert.Contains(t, app.out.String(), "/switch <id>")
}

func TestChat_SlashCommands(t *testing.T) {
	app := newTestApp(t)
	older := seedSession(app, "Older chat", testNow.Add(-2*time.Hour), "q", "a")
	app.In = strings.NewReader("/provider nvidia\n/bogus\n/switch " + older.ID[:6] + "\n/switch\nexit\n")

	require.NoError(t, app.run("chat"))

	assert.Equal(t, model.ProviderCloud, app.Repo.Selection().Provider())
	assert.Equal(t, older.ID, app.Repo.Selection().CurrentSessionID())
	assert.Contains(t, app.errOut.String(), "unknown command /bogus")
	assert.Contains(t, app.errOut.String(), "usage: /switch <session-id>")
	assert.Contains(t, app.out.String(), `Switched to "Older chat"`)
}

func TestChat_DeleteConfirmsThroughREPL(t *testing.T) {
	app := newTestApp(t)
	keep := seedSession(app, "Keep me", testNow.Add(-time.Hour), "q")
	drop := seedSession(app, "Drop me", testNow, "q")
	require.NoError(t, app.Repo.SetActive(drop.ID))

	app.In = strings.NewReader("/delete\nn\n/delete\ny\n/quit\n")
	require.NoError(t, app.run("chat"))

	_, ok := app.Repo.Get(drop.ID)
	assert.False(t, ok)
	_, ok = app.Repo.Get(keep.ID)
	assert.True(t, ok)
	assert.Empty(t, app.Repo.Selection().CurrentSessionID())
	assert.Contains(t, app.out.String(), "Cancelled.")
}

// =============================================================================
// SESSIONS
// =============================================================================

func TestSessions_ListNewestFirst(t *testing.T) {
	app := newTestApp(t)
	seedSession(app, "Yesterday's chat", testNow.Add(-26*time.Hour), "q")
	active := seedSession(app, "Recent chat", testNow.Add(-5*time.Minute), "q")
	require.NoError(t, app.Repo.SetActive(active.ID))

	require.NoError(t, app.run("sessions", "list"))

	out := app.out.String()
	assert.Less(t, strings.Index(out, "Recent chat"), strings.Index(out, "Yesterday's chat"))
	assert.Contains(t, out, "5 minutes ago")
	assert.Contains(t, out, "1 day ago")
	assert.Contains(t, out, "* "+active.ID[:shortIDLen])
	assert.Contains(t, out, "Total: 2 session(s)")
}

func TestSessions_ListEmpty(t *testing.T) {
	app := newTestApp(t)
	require.NoError(t, app.run("sessions"))
	assert.Contains(t, app.out.String(), "No saved sessions found.")
}

func TestSessions_ListJSON(t *testing.T) {
	app := newTestApp(t)
	a := seedSession(app, "Alpha", testNow.Add(-time.Hour), "q", "a")
	seedSession(app, "Beta", testNow, "q")
	require.NoError(t, app.Repo.SetActive(a.ID))

	require.NoError(t, app.run("sessions", "list", "--json"))

	var resp struct {
		Success bool             `json:"success"`
		Data    []sessionSummary `json:"data"`
		Command string           `json:"command"`
	}
	require.NoError(t, json.Unmarshal(app.out.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "sessions list", resp.Command)
	require.Len(t, resp.Data, 2)
	assert.Equal(t, "Beta", resp.Data[0].Title)
	assert.Equal(t, "Alpha", resp.Data[1].Title)
	assert.True(t, resp.Data[1].Active)
	assert.Equal(t, 2, resp.Data[1].Messages)
}

func TestSessions_ShowActiveAndByPrefix(t *testing.T) {
	app := newTestApp(t)
	s := seedSession(app, "Go questions", testNow, "What is a channel?", "A typed conduit.")

	err := app.run("sessions", "show")
	require.Error(t, err, "no active session yet")

	require.NoError(t, app.run("sessions", "show", s.ID[:5]))
	out := app.out.String()
	assert.Contains(t, out, "Go questions")
	assert.Contains(t, out, "What is a channel?")
	assert.Contains(t, out, "A typed conduit.")

	require.NoError(t, app.Repo.SetActive(s.ID))
	app.out.Reset()
	require.NoError(t, app.run("sessions", "show"))
	assert.Contains(t, app.out.String(), "A typed conduit.")
}

func TestSessions_SwitchByID(t *testing.T) {
	app := newTestApp(t)
	s := seedSession(app, "Target", testNow, "q")

	require.NoError(t, app.run("sessions", "switch", s.ID))
	assert.Equal(t, s.ID, app.Repo.Selection().CurrentSessionID())

	err := app.run("sessions", "switch", "does-not-exist")
	assert.ErrorIs(t, err, session.ErrSessionNotFound)
	assert.Equal(t, s.ID, app.Repo.Selection().CurrentSessionID())
}

func TestSessions_SwitchWithoutIDNeedsTerminal(t *testing.T) {
	app := newTestApp(t)
	seedSession(app, "Only", testNow, "q")

	err := app.run("sessions", "switch")
	var ttyErr *TTYRequiredError
	assert.True(t, errors.As(err, &ttyErr))
}

func TestSessions_SwitchWithPicker(t *testing.T) {
	app := newTestApp(t)
	app.Interactive = func() bool { return true }
	seedSession(app, "First", testNow.Add(-time.Hour), "q")
	second := seedSession(app, "Second", testNow, "q")

	orig := pickSession
	t.Cleanup(func() { pickSession = orig })

	var offered []model.Session
	pickSession = func(sessions []model.Session) (*model.Session, error) {
		offered = sessions
		return &sessions[0], nil
	}
	require.NoError(t, app.run("sessions", "switch"))
	require.Len(t, offered, 2)
	assert.Equal(t, second.ID, app.Repo.Selection().CurrentSessionID())

	pickSession = func([]model.Session) (*model.Session, error) { return nil, nil }
	app.Repo.NewChat()
	require.NoError(t, app.run("sessions", "switch"))
	assert.Empty(t, app.Repo.Selection().CurrentSessionID())
	assert.Contains(t, app.out.String(), "Cancelled.")
}

func TestFormatPickerLine(t *testing.T) {
	s := model.NewSession("Channels", model.ProviderCloud, testNow.Add(-10*time.Minute).UnixMilli())
	s.Append(model.NewMessage(model.RoleUser, "What is\na channel?", s.CreatedAt))
	fail := model.NewMessage(model.RoleAssistant, "Error: connection refused", s.CreatedAt)
	fail.Failure = "network"
	s.Append(fail)

	line := formatPickerLine(s, testNow)
	assert.Contains(t, line, "10 minutes ago")
	assert.Contains(t, line, "cloud")
	assert.True(t, strings.HasSuffix(line, "Channels  | What is a channel?"), line)

	empty := model.NewSession("Fresh", model.ProviderLocal, testNow.UnixMilli())
	assert.True(t, strings.HasSuffix(formatPickerLine(empty, testNow), "Fresh"))
}

func TestSessions_New(t *testing.T) {
	app := newTestApp(t)
	s := seedSession(app, "Active", testNow, "q")
	require.NoError(t, app.Repo.SetActive(s.ID))

	require.NoError(t, app.run("sessions", "new"))
	assert.Empty(t, app.Repo.Selection().CurrentSessionID())
	assert.Equal(t, 1, app.Repo.Len())
}

func TestSessions_DeleteNeedsConfirmation(t *testing.T) {
	app := newTestApp(t)
	s := seedSession(app, "Doomed", testNow, "q")
	require.NoError(t, app.Repo.SetActive(s.ID))

	err := app.run("sessions", "delete", s.ID)
	var ttyErr *TTYRequiredError
	require.True(t, errors.As(err, &ttyErr))
	assert.Contains(t, err.Error(), "--yes")
	assert.Equal(t, 1, app.Repo.Len())

	require.NoError(t, app.run("sessions", "delete", "--yes", s.ID))
	assert.Equal(t, 0, app.Repo.Len())
	assert.Empty(t, app.Repo.Selection().CurrentSessionID())
}

func TestSessions_DeleteInteractivePrompt(t *testing.T) {
	app := newTestApp(t)
	app.Interactive = func() bool { return true }
	s := seedSession(app, "Maybe", testNow, "q")

	app.In = strings.NewReader("no\n")
	require.NoError(t, app.run("sessions", "delete", s.ID))
	assert.Equal(t, 1, app.Repo.Len())
	assert.Contains(t, app.out.String(), "WARNING: Destructive Action")

	app.In = strings.NewReader("y\n")
	require.NoError(t, app.run("sessions", "rm", s.ID))
	assert.Equal(t, 0, app.Repo.Len())
}

func TestSessions_DeleteAll(t *testing.T) {
	app := newTestApp(t)
	seedSession(app, "One", testNow, "q")
	seedSession(app, "Two", testNow, "q")
	app.Repo.Selection().SetCurrentSessionID("stale-pointer")

	require.NoError(t, app.run("sessions", "delete-all", "-y"))
	assert.Equal(t, 0, app.Repo.Len())
	assert.Empty(t, app.Repo.Selection().CurrentSessionID())
	assert.Contains(t, app.out.String(), "Deleted 2 session(s).")

	app.out.Reset()
	require.NoError(t, app.run("sessions", "delete-all"))
	assert.Contains(t, app.out.String(), "No saved sessions.")
}

func TestSessions_Search(t *testing.T) {
	app := newTestApp(t)
	seedSession(app, "Cooking", testNow, "How long to boil an egg?", "About nine minutes.")
	seedSession(app, "Go", testNow, "Explain goroutines")

	require.NoError(t, app.run("sessions", "search", "NINE", "minutes"))
	assert.Contains(t, app.out.String(), "Cooking")
	assert.NotContains(t, app.out.String(), "Explain")

	app.out.Reset()
	require.NoError(t, app.run("sessions", "search", "rust"))
	assert.Contains(t, app.out.String(), `No sessions match "rust"`)
}

func TestSessions_WatchRequiresFileBackend(t *testing.T) {
	app := newTestApp(t)
	err := app.run("sessions", "watch")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "file storage backend")
}

func TestSessions_WatchReprintsOnExternalChange(t *testing.T) {
	dir := t.TempDir()
	fb, err := storage.NewFileBackend(dir)
	require.NoError(t, err)
	app := newTestAppWithStore(t, storage.New(fb, nil))
	out := &syncBuffer{}
	app.Out = out

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- watchSessions(ctx, app.App) }()

	otherFB, err := storage.NewFileBackend(dir)
	require.NoError(t, err)
	otherStore := storage.New(otherFB, nil)
	other := session.NewRepository(otherStore, session.LoadSelection(otherStore, model.ProviderLocal))
	s := model.NewSession("From another process", model.ProviderLocal, testNow.UnixMilli())

	assert.Eventually(t, func() bool {
		s.Touch(s.LastUpdated + 1)
		other.Upsert(s)
		return strings.Contains(out.String(), "From another process")
	}, 5*time.Second, 400*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watch did not stop after cancel")
	}
}

// =============================================================================
// PROVIDER / EXPORT / CONFIG / VERSION
// =============================================================================

func TestProvider_ShowAndSelect(t *testing.T) {
	app := newTestApp(t)

	require.NoError(t, app.run("provider"))
	out := app.out.String()
	assert.Contains(t, out, "* Local (local)")
	assert.Contains(t, out, "http://localhost:1234/v1/chat/completions")
	assert.Contains(t, out, "not set")

	require.NoError(t, app.run("provider", "nvidia"))
	assert.Equal(t, model.ProviderCloud, app.Repo.Selection().Provider())

	assert.Error(t, app.run("provider", "openai"))
	assert.Equal(t, model.ProviderCloud, app.Repo.Selection().Provider())
}

func TestExport_WritesJSONFile(t *testing.T) {
	app := newTestApp(t)
	dir := t.TempDir()
	seedSession(app, "Exported", testNow, "question", "answer")

	require.NoError(t, app.run("export", "--dir", dir))

	data, err := os.ReadFile(filepath.Join(dir, "chat_studio_history.json"))
	require.NoError(t, err)

	var doc []struct {
		Title         string `json:"title"`
		APIProvider   string `json:"apiProvider"`
		Conversations []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"conversations"`
	}
	require.NoError(t, json.Unmarshal(data, &doc))
	require.Len(t, doc, 1)
	assert.Equal(t, "Exported", doc[0].Title)
	assert.Equal(t, "local", doc[0].APIProvider)
	require.Len(t, doc[0].Conversations, 2)
	assert.Equal(t, "human", doc[0].Conversations[0].Role)
	assert.Equal(t, "assistant", doc[0].Conversations[1].Role)
	assert.Contains(t, app.out.String(), "Exported 1 session(s)")
}

func TestExport_EmptyHistoryWritesNothing(t *testing.T) {
	app := newTestApp(t)
	dir := t.TempDir()

	require.NoError(t, app.run("export", "--dir", dir))
	assert.Contains(t, app.out.String(), "No chat history to export.")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestExport_StdoutYAMLAndUnknownFormat(t *testing.T) {
	app := newTestApp(t)
	seedSession(app, "Yaml me", testNow, "q")

	require.NoError(t, app.run("export", "--format", "yaml", "--stdout"))
	assert.Contains(t, app.out.String(), "apiProvider: local")
	assert.Contains(t, app.out.String(), "role: human")

	assert.Error(t, app.run("export", "--format", "pdf"))
}

func TestConfig_ShowMasksKey(t *testing.T) {
	app := newTestApp(t)
	app.Config.Cloud.APIKey = "nvapi-abcdefgh12345678"

	require.NoError(t, app.run("config", "show"))
	assert.Contains(t, app.out.String(), "nvap...5678")
	assert.NotContains(t, app.out.String(), "abcdefgh")
	assert.Contains(t, app.out.String(), "[local]")
}

func TestConfig_InitAndPath(t *testing.T) {
	app := newTestApp(t)
	path := filepath.Join(t.TempDir(), "config.toml")

	require.NoError(t, app.run("--config", path, "config", "init"))
	_, err := os.Stat(path)
	require.NoError(t, err)

	err = app.run("--config", path, "config", "init")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	require.NoError(t, app.run("--config", path, "config", "init", "--force"))

	loaded, err := config.LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, config.Default().Local, loaded.Local)

	app.out.Reset()
	require.NoError(t, app.run("--config", path, "config", "path"))
	assert.Contains(t, app.out.String(), path)
	assert.Contains(t, app.out.String(), "memory")
}

func TestVersion(t *testing.T) {
	app := newTestApp(t)
	require.NoError(t, app.run("version"))
	assert.Contains(t, app.out.String(), "chatstudio "+Version)
}

// =============================================================================
// DOCTOR
// =============================================================================

func TestDoctor_ReachableLocalServer(t *testing.T) {
	app := newTestApp(t)
	server, _ := localServer(t, "unused")
	app.Config.Local.Endpoint = server.URL + "/v1/chat/completions"

	require.NoError(t, app.run("doctor"))
	out := app.out.String()
	assert.Contains(t, out, "[OK] Local server reachable")
	assert.Contains(t, out, "[!!] Cloud provider not configured")
	assert.Contains(t, out, "memory backend")
}

func TestDoctor_UnreachableSelectedProviderFails(t *testing.T) {
	app := newTestApp(t)
	server := httptest.NewServer(http.NotFoundHandler())
	endpoint := server.URL + "/v1/chat/completions"
	server.Close()
	app.Config.Local.Endpoint = endpoint

	err := app.run("doctor")
	require.Error(t, err)
	assert.Contains(t, app.out.String(), "[FAIL] Local server unreachable")
}

func TestDoctor_StalePointerWarns(t *testing.T) {
	app := newTestApp(t)
	server, _ := localServer(t, "unused")
	app.Config.Local.Endpoint = server.URL + "/v1/chat/completions"
	app.Repo.Selection().SetCurrentSessionID("deleted-session")

	require.NoError(t, app.run("doctor"))
	assert.Contains(t, app.out.String(), "names a deleted session")
}
