package intercom

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func partJSON(id, authorType, body string) string {
	return fmt.Sprintf(`{"id":%q,"part_type":"comment","body":%q,"author":{"type":%q,"name":"Agent"}}`, id, body, authorType)
}

func pageJSON(parts []string, next string) string {
	nextJSON := "null"
	if next != "" {
		nextJSON = fmt.Sprintf("%q", next)
	}
	return fmt.Sprintf(`{"type":"conversation","id":"100","created_at":1700000000,
		"source":{"type":"conversation","body":"<p>Hi</p>","author":{"type":"user","name":"Alice","email":"a@x.com"}},
		"conversation_parts":{"type":"conversation_part.list","conversation_parts":[%s],"pages":{"next":%s}}}`,
		strings.Join(parts, ","), nextJSON)
}

func TestNewClient(t *testing.T) {
	client := NewClient("", "token")
	if client == nil {
		t.Fatal("Expected client to be created, got nil")
	}
	if client.baseURL != DefaultAPIURL {
		t.Errorf("Expected default base URL %q, got %q", DefaultAPIURL, client.baseURL)
	}

	if chained := client.SetTimeout(5 * time.Second); chained != client {
		t.Error("SetTimeout should return the same client instance for method chaining")
	}
}

func TestGetConversation_SinglePage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/conversations/100" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("include"); got != "contacts,conversation_parts" {
			t.Errorf("Expected include=contacts,conversation_parts, got %q", got)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer secret-token" {
			t.Errorf("Expected bearer authorization, got %q", got)
		}
		_, _ = fmt.Fprint(w, pageJSON([]string{partJSON("1", "admin", "<b>Hello</b>")}, ""))
	}))
	defer server.Close()

	client := NewClient(server.URL, "secret-token")
	conv, err := client.GetConversation(context.Background(), 100)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if conv.ID != "100" {
		t.Errorf("Expected ID 100, got %q", conv.ID)
	}
	if conv.CreatedAt != 1700000000 {
		t.Errorf("Expected created_at 1700000000, got %d", conv.CreatedAt)
	}
	if conv.Source.Author.Email != "a@x.com" || conv.Source.Author.Name != "Alice" {
		t.Errorf("Unexpected author: %+v", conv.Source.Author)
	}
	if conv.Source.Body != "<p>Hi</p>" {
		t.Errorf("Unexpected body: %q", conv.Source.Body)
	}
	if len(conv.Parts) != 1 || conv.Parts[0].Author.Type != "admin" {
		t.Errorf("Unexpected parts: %+v", conv.Parts)
	}
}

func TestGetConversation_Pagination(t *testing.T) {
	var requests []string
	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests = append(requests, r.URL.RequestURI())
		switch r.URL.Query().Get("page") {
		case "":
			_, _ = fmt.Fprint(w, pageJSON([]string{partJSON("1", "user", "a"), partJSON("2", "admin", "b")},
				server.URL+"/conversations/100/parts?page=2"))
		case "2":
			_, _ = fmt.Fprint(w, pageJSON([]string{partJSON("3", "bot", "c")},
				server.URL+"/conversations/100/parts?page=3"))
		case "3":
			_, _ = fmt.Fprint(w, pageJSON([]string{partJSON("4", "contact", "d"), partJSON("5", "admin", "e")}, ""))
		default:
			t.Errorf("Unexpected page request %s", r.URL.RequestURI())
			w.WriteHeader(http.StatusBadRequest)
		}
	}))
	defer server.Close()

	client := NewClient(server.URL, "token")
	conv, err := client.GetConversation(context.Background(), 100)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if len(requests) != 3 {
		t.Fatalf("Expected 3 page requests, got %d: %v", len(requests), requests)
	}

	var ids []string
	for _, part := range conv.Parts {
		ids = append(ids, string(part.ID))
	}
	if got := strings.Join(ids, ","); got != "1,2,3,4,5" {
		t.Errorf("Expected parts 1,2,3,4,5 in order, got %s", got)
	}
}

func TestGetConversation_Errors(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		expected error
		apiError bool
	}{
		{
			name:     "Not found",
			status:   http.StatusNotFound,
			body:     `{"type":"error.list","errors":[{"code":"not_found"}]}`,
			expected: ErrConversationNotFound,
		},
		{
			name:     "Server error",
			status:   http.StatusInternalServerError,
			body:     `oops`,
			apiError: true,
		},
		{
			name:     "Rate limited",
			status:   http.StatusTooManyRequests,
			body:     `slow down`,
			apiError: true,
		},
		{
			name:     "Invalid JSON",
			status:   http.StatusOK,
			body:     `{"id":`,
			expected: ErrMalformedResponse,
		},
		{
			name:     "Missing source",
			status:   http.StatusOK,
			body:     `{"id":"7","created_at":1700000000,"conversation_parts":{"conversation_parts":[]}}`,
			expected: ErrMalformedResponse,
		},
		{
			name:     "Missing created_at",
			status:   http.StatusOK,
			body:     `{"id":"7","source":{"body":"x","author":{"type":"user"}}}`,
			expected: ErrMalformedResponse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = fmt.Fprint(w, tt.body)
			}))
			defer server.Close()

			client := NewClient(server.URL, "token")
			conv, err := client.GetConversation(context.Background(), 7)

			if err == nil {
				t.Fatal("Expected error but got none")
			}
			if conv != nil {
				t.Error("Expected nil conversation on error")
			}
			if tt.expected != nil && !errors.Is(err, tt.expected) {
				t.Errorf("Expected %v, got %v", tt.expected, err)
			}
			if tt.apiError {
				var apiErr *APIError
				if !errors.As(err, &apiErr) {
					t.Fatalf("Expected *APIError, got %T: %v", err, err)
				}
				if apiErr.StatusCode != tt.status {
					t.Errorf("Expected status %d, got %d", tt.status, apiErr.StatusCode)
				}
			}
		})
	}
}

func TestGetConversation_FailureOnLaterPage(t *testing.T) {
	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") == "2" {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = fmt.Fprint(w, pageJSON([]string{partJSON("1", "user", "a")}, server.URL+"/next?page=2"))
	}))
	defer server.Close()

	conv, err := NewClient(server.URL, "token").GetConversation(context.Background(), 100)
	if err == nil {
		t.Fatal("Expected error when a later page fails")
	}
	if conv != nil {
		t.Error("Expected no partial conversation")
	}
}

func TestGetConversation_PaginationLoop(t *testing.T) {
	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = fmt.Fprint(w, pageJSON([]string{partJSON("1", "user", "a")}, server.URL+"/next?page=2"))
	}))
	defer server.Close()

	_, err := NewClient(server.URL, "token").GetConversation(context.Background(), 100)
	if !errors.Is(err, ErrPaginationLoop) {
		t.Errorf("Expected ErrPaginationLoop, got %v", err)
	}
}

func TestGetConversation_ForeignNextPage(t *testing.T) {
	var foreignAuth []string
	foreign := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		foreignAuth = append(foreignAuth, r.Header.Get("Authorization"))
		_, _ = fmt.Fprint(w, pageJSON(nil, ""))
	}))
	defer foreign.Close()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = fmt.Fprint(w, pageJSON([]string{partJSON("1", "user", "a")}, foreign.URL+"/conversations/100?page=2"))
	}))
	defer server.Close()

	_, err := NewClient(server.URL, "SECRET").GetConversation(context.Background(), 100)
	if !errors.Is(err, ErrForeignPageURL) {
		t.Errorf("Expected ErrForeignPageURL, got %v", err)
	}
	if len(foreignAuth) != 0 {
		t.Errorf("Foreign host received %d requests (Authorization %q)", len(foreignAuth), foreignAuth)
	}
}

func TestGetConversation_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewClient("http://127.0.0.1:0", "token").GetConversation(ctx, 1)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestTestConnection(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		shouldErr bool
		expected  error
	}{
		{name: "Authorized", status: http.StatusOK},
		{name: "Unauthorized", status: http.StatusUnauthorized, shouldErr: true, expected: ErrUnauthorized},
		{name: "Server error", status: http.StatusServiceUnavailable, shouldErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/me" {
					t.Errorf("Unexpected path %s", r.URL.Path)
				}
				w.WriteHeader(tt.status)
				_, _ = fmt.Fprint(w, `{"type":"admin"}`)
			}))
			defer server.Close()

			err := NewClient(server.URL, "token").TestConnection(context.Background())
			if tt.shouldErr && err == nil {
				t.Error("Expected error but got none")
			}
			if !tt.shouldErr && err != nil {
				t.Errorf("Expected no error but got: %v", err)
			}
			if tt.expected != nil && !errors.Is(err, tt.expected) {
				t.Errorf("Expected %v, got %v", tt.expected, err)
			}
		})
	}
}

func TestIDUnmarshal(t *testing.T) {
	tests := []struct {
		input    string
		expected ID
	}{
		{`{"id":"123"}`, "123"},
		{`{"id":123}`, "123"},
		{`{"id":null}`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			var v struct {
				ID ID `json:"id"`
			}
			if err := json.Unmarshal([]byte(tt.input), &v); err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if v.ID != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, v.ID)
			}
		})
	}
}

func TestAuthorIsEndUser(t *testing.T) {
	tests := map[string]bool{
		"user":    true,
		"contact": true,
		"admin":   false,
		"bot":     false,
		"team":    false,
		"":        false,
	}

	for authorType, expected := range tests {
		if got := (Author{Type: authorType}).IsEndUser(); got != expected {
			t.Errorf("IsEndUser(%q) = %v, expected %v", authorType, got, expected)
		}
	}
}
