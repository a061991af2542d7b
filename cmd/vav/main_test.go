package main

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/daviddao/voiceagent_viewer/internal/fixture"
)

// fixtureServer serves the shared fixture file.
func fixtureServer(t *testing.T) *httptest.Server {
	t.Helper()
	s, err := fixture.Open("../../internal/fixture/testdata/conversations.json")
	if err != nil {
		t.Fatalf("open fixture: %v", err)
	}
	srv := httptest.NewServer(fixture.NewRouter(s, slog.New(slog.DiscardHandler)))
	t.Cleanup(srv.Close)
	return srv
}

// runCLI executes the root command and returns its stdout.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append(args, "--log-file", filepath.Join(t.TempDir(), "vav.log")))
	err := cmd.Execute()
	return out.String(), err
}

func TestJSONList(t *testing.T) {
	srv := fixtureServer(t)

	out, err := runCLI(t, "--api", srv.URL, "--json")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}

	var got jsonOutput
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, out)
	}
	if got.BaseURL != srv.URL {
		t.Errorf("base_url = %q, want %q", got.BaseURL, srv.URL)
	}
	if len(got.Conversations) != 2 {
		t.Fatalf("got %d conversations, want 2", len(got.Conversations))
	}
	if got.Conversations[0].ID != "c-newer" {
		t.Errorf("first = %q, want newest first", got.Conversations[0].ID)
	}
	if got.Conversation != nil {
		t.Error("list mode should not include a single conversation")
	}
}

func TestJSONConversation(t *testing.T) {
	srv := fixtureServer(t)

	out, err := runCLI(t, "--api", srv.URL, "--json", "--conversation", "c-older")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}

	var got jsonOutput
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, out)
	}
	if got.Conversation == nil || got.Conversation.ID != "c-older" {
		t.Fatalf("conversation = %+v, want c-older", got.Conversation)
	}
	if len(got.Conversation.History) != 3 || len(got.Conversation.ExecutedFunctions) != 1 {
		t.Errorf("conversation body incomplete: %+v", got.Conversation)
	}
}

func TestJSONConversationNotFound(t *testing.T) {
	srv := fixtureServer(t)

	if _, err := runCLI(t, "--api", srv.URL, "--json", "--conversation", "missing"); err == nil {
		t.Error("unknown conversation should fail")
	}
}

func TestInvalidAPIAddress(t *testing.T) {
	if _, err := runCLI(t, "--api", "localhost:5001", "--json"); err == nil {
		t.Error("address without scheme should fail")
	}
}

func TestInvalidEnvAddressNamesEnvVar(t *testing.T) {
	t.Setenv("VAV_API_URL", "localhost:5001")

	_, err := runCLI(t, "--json")
	if err == nil {
		t.Fatal("invalid VAV_API_URL should fail")
	}
	if !strings.Contains(err.Error(), "VAV_API_URL") || strings.Contains(err.Error(), "--api") {
		t.Errorf("error = %q, want it attributed to VAV_API_URL", err)
	}
}

func TestFlagOverridesEnvAddress(t *testing.T) {
	srv := fixtureServer(t)
	t.Setenv("VAV_API_URL", "localhost:5001")

	if _, err := runCLI(t, "--api", srv.URL, "--json"); err != nil {
		t.Errorf("--api should win over a bad VAV_API_URL: %v", err)
	}
}

func TestInvalidTimezone(t *testing.T) {
	if _, err := runCLI(t, "--json", "--timezone", "Nowhere/Land"); err == nil {
		t.Error("unknown timezone should fail")
	}
}

func TestFixtureRequiresFile(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"fixture"})
	if err := cmd.Execute(); err == nil {
		t.Error("fixture without --file should fail")
	}
}

func TestVersionFlag(t *testing.T) {
	out, err := runCLI(t, "--version")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !bytes.Contains([]byte(out), []byte(Version)) {
		t.Errorf("version output = %q", out)
	}
}
