package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/exileum/intercom-to-chatwoot/internal/config"
)

func executeRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRootCmd_Arguments(t *testing.T) {
	tests := []struct {
		name      string
		args      []string
		wantUsage bool
		check     func(error) bool
	}{
		{"no arguments", nil, true, nil},
		{"one argument", []string{"1"}, true, nil},
		{"three arguments", []string{"1", "2", "3"}, true, nil},
		{"non-integer start", []string{"abc", "2"}, true, config.IsValidationError},
		{"non-integer end", []string{"1", "2.5"}, true, config.IsValidationError},
		{"reversed range", []string{"5", "1"}, true, func(err error) bool { return errors.Is(err, config.ErrInvalidIDRange) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := executeRoot(t, tt.args...)
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.check != nil && !tt.check(err) {
				t.Errorf("unexpected error type: %v", err)
			}
			if tt.wantUsage && !strings.Contains(out, "Usage:") {
				t.Errorf("usage not printed, output: %q", out)
			}
		})
	}
}

func TestRootCmd_InvalidConfiguration(t *testing.T) {
	t.Setenv("INTERCOM_API_TOKEN", "")
	t.Setenv("CHATWOOT_BASE_URL", "")
	t.Setenv("CHATWOOT_API_TOKEN", "")

	out, err := executeRoot(t, "--non-interactive", "--env-file", filepath.Join(t.TempDir(), "missing.env"), "1", "2")
	if err == nil {
		t.Fatal("expected configuration error")
	}
	if !config.IsConfigurationError(err) {
		t.Errorf("error = %v, want a ConfigurationError", err)
	}
	if strings.Contains(out, "Usage:") {
		t.Error("usage printed for a configuration error")
	}
}

func TestRootCmd_DryRun(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/me":
			fmt.Fprint(w, `{"type":"admin"}`)
		case "/conversations/7":
			fmt.Fprint(w, `{"id":"7","created_at":1700000000,
				"source":{"body":"<p>Hi</p>","author":{"type":"user","email":"a@x.com","name":"Alice"}},
				"conversation_parts":{"conversation_parts":[],"pages":{"next":null}}}`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	envFile := filepath.Join(t.TempDir(), "test.env")
	if err := os.WriteFile(envFile, []byte(fmt.Sprintf(`INTERCOM_API_URL=%s
INTERCOM_API_TOKEN=test_token
CHATWOOT_BASE_URL=http://127.0.0.1:1
CHATWOOT_API_TOKEN=test_token
CHATWOOT_ACCOUNT_ID=1
CHATWOOT_INBOX_ID=9
ITEM_DELAY=0s
`, server.URL)), 0o600); err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"INTERCOM_API_URL", "INTERCOM_API_TOKEN", "CHATWOOT_BASE_URL",
		"CHATWOOT_API_TOKEN", "CHATWOOT_ACCOUNT_ID", "CHATWOOT_INBOX_ID", "ITEM_DELAY"} {
		// godotenv never overrides a variable that is already set, even to "".
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	if _, err := executeRoot(t, "--non-interactive", "--dry-run", "--env-file", envFile, "6", "7"); err != nil {
		t.Fatalf("dry run failed: %v", err)
	}
}

func TestRootCmd_InteractiveWithClosedInput(t *testing.T) {
	intercomServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/me":
			fmt.Fprint(w, `{"type":"admin"}`)
		case "/conversations/7":
			fmt.Fprint(w, `{"id":"7","created_at":1700000000,
				"source":{"body":"<p>Hi</p>","author":{"type":"user","email":"a@x.com","name":"Alice"}},
				"conversation_parts":{"conversation_parts":[],"pages":{"next":null}}}`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer intercomServer.Close()

	var posts int
	chatwootServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			posts++
		}
		switch r.URL.Path {
		case "/api/v1/accounts/1/inboxes":
			fmt.Fprint(w, `{"payload":[{"id":9,"name":"Support","channel_type":"Channel::Api"}]}`)
		case "/api/v1/accounts/1/inboxes/9":
			fmt.Fprint(w, `{"id":9,"name":"Support","channel_type":"Channel::Api"}`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer chatwootServer.Close()

	t.Setenv("INTERCOM_API_URL", intercomServer.URL)
	t.Setenv("INTERCOM_API_TOKEN", "test_token")
	t.Setenv("CHATWOOT_BASE_URL", chatwootServer.URL)
	t.Setenv("CHATWOOT_API_TOKEN", "test_token")
	t.Setenv("CHATWOOT_ACCOUNT_ID", "1")
	t.Setenv("CHATWOOT_INBOX_ID", "9")
	t.Setenv("ITEM_DELAY", "0s")

	config.SetInput(strings.NewReader(""))
	defer config.SetInput(os.Stdin)

	_, err := executeRoot(t, "--env-file", filepath.Join(t.TempDir(), "missing.env"), "7", "7")
	if !errors.Is(err, config.ErrNoInteractiveInput) {
		t.Fatalf("error = %v, want ErrNoInteractiveInput", err)
	}
	if posts != 0 {
		t.Errorf("Chatwoot received %d POST requests, want 0", posts)
	}
}
