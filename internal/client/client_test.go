// ABOUTME: Tests for the Mythic Companions API client
// ABOUTME: Uses httptest to mock backend responses

package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func TestLogin_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/login" {
			t.Errorf("expected path /auth/login, got %s", r.URL.Path)
		}
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		var creds Credentials
		if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
			t.Fatalf("bad body: %v", err)
		}
		if creds.Username != "alice" || creds.Password != "pw" {
			t.Errorf("unexpected credentials %+v", creds)
		}
		json.NewEncoder(w).Encode(AuthResponse{Token: "tok-1", UserID: 7, Role: "USER"})
	}))
	defer server.Close()

	c := New(server.URL)
	resp, err := c.Login(context.Background(), Credentials{Username: "alice", Password: "pw"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Token != "tok-1" || resp.UserID != 7 || resp.Role != "USER" {
		t.Errorf("unexpected response %+v", resp)
	}
}

func TestLogin_MissingToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(AuthResponse{UserID: 7})
	}))
	defer server.Close()

	_, err := New(server.URL).Login(context.Background(), Credentials{})
	if err == nil {
		t.Fatal("expected error for response without token")
	}
}

func TestBearerTokenAttached(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(UserProfile{Username: "alice"})
	}))
	defer server.Close()

	c := New(server.URL, WithTokenSource(TokenFunc(func() string { return "tok-1" })))
	if _, err := c.Profile(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotAuth != "Bearer tok-1" {
		t.Errorf("expected bearer header, got %q", gotAuth)
	}
}

func TestNoTokenSendsUnauthenticated(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode([]Species{})
	}))
	defer server.Close()

	c := New(server.URL, WithTokenSource(TokenFunc(func() string { return "" })))
	if _, err := c.Species(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotAuth != "" {
		t.Errorf("expected no Authorization header, got %q", gotAuth)
	}
}

func TestAuthFailureHook(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		wantCalls int32
	}{
		{"unauthorized", http.StatusUnauthorized, 1},
		{"forbidden", http.StatusForbidden, 1},
		{"bad request", http.StatusBadRequest, 0},
		{"server error", http.StatusInternalServerError, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer server.Close()

			var calls atomic.Int32
			c := New(server.URL, WithAuthFailureHandler(func(status int, _ string) {
				calls.Add(1)
				if status != tt.status {
					t.Errorf("hook got status %d, want %d", status, tt.status)
				}
			}))
			_, err := c.Inventory(context.Background())
			if err == nil {
				t.Fatal("expected error")
			}
			if got := calls.Load(); got != tt.wantCalls {
				t.Errorf("expected %d hook calls, got %d", tt.wantCalls, got)
			}
		})
	}
}

func TestAuthFailureHookReportsTokenSent(t *testing.T) {
	release := make(chan struct{})
	arrived := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(arrived)
		<-release
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	var current atomic.Value
	current.Store("token-a")
	var rejected atomic.Value

	c := New(server.URL,
		WithTokenSource(TokenFunc(func() string { return current.Load().(string) })),
		WithAuthFailureHandler(func(status int, token string) { rejected.Store(token) }),
	)

	done := make(chan error)
	go func() {
		_, err := c.Inventory(context.Background())
		done <- err
	}()

	<-arrived
	// The session changes while the request is in flight
	current.Store("token-b")
	close(release)

	if err := <-done; !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if got, _ := rejected.Load().(string); got != "token-a" {
		t.Errorf("hook got token %q, want %q", got, "token-a")
	}
}

func TestErrorClassification(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		sentinel error
		message  string
	}{
		{"plain text rejection", http.StatusBadRequest, "Companion is already full.", ErrRejected, "Companion is already full."},
		{"json message", http.StatusConflict, `{"message":"Username taken"}`, ErrRejected, "Username taken"},
		{"json error", http.StatusNotFound, `{"error":"not found","code":404}`, ErrRejected, "not found"},
		{"unauthorized", http.StatusUnauthorized, "", ErrUnauthorized, ""},
		{"forbidden", http.StatusForbidden, "nope", ErrUnauthorized, "nope"},
		{"server", http.StatusInternalServerError, "An unexpected internal server error occurred.", ErrServer, "An unexpected internal server error occurred."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				io.WriteString(w, tt.body)
			}))
			defer server.Close()

			_, err := New(server.URL).Interact(context.Background(), 1, InteractFeed)
			if !errors.Is(err, tt.sentinel) {
				t.Fatalf("expected %v, got %v", tt.sentinel, err)
			}
			var apiErr *APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("expected *APIError, got %T", err)
			}
			if apiErr.Message != tt.message {
				t.Errorf("expected message %q, got %q", tt.message, apiErr.Message)
			}
		})
	}
}

func TestConnectionError(t *testing.T) {
	c := New("http://localhost:99999")
	_, err := c.Profile(context.Background())
	if !errors.Is(err, ErrUnreachable) {
		t.Errorf("expected ErrUnreachable, got %v", err)
	}
	if got := Describe(err, "x"); !strings.Contains(got, "Cannot reach") {
		t.Errorf("unexpected description %q", got)
	}
}

func TestContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(100 * time.Millisecond)
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(server.URL).Profile(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected canceled error, got %v", err)
	}
}

func TestContextTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(100 * time.Millisecond)
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := New(server.URL).Profile(ctx)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected timeout error, got %v", err)
	}
}

func TestInteract_SendsActionQuery(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			t.Errorf("expected PUT, got %s", r.Method)
		}
		if r.URL.Path != "/api/companions/42/interact" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("action"); got != "train" {
			t.Errorf("expected action=train, got %q", got)
		}
		json.NewEncoder(w).Encode(Companion{ID: 42, Skill: 12})
	}))
	defer server.Close()

	comp, err := New(server.URL).Interact(context.Background(), 42, InteractTrain)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if comp.Skill != 12 {
		t.Errorf("expected skill 12, got %d", comp.Skill)
	}
}

func TestUploadProfilePicture(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		file, header, err := r.FormFile("profileImage")
		if err != nil {
			t.Fatalf("expected profileImage part: %v", err)
		}
		defer file.Close()
		data, _ := io.ReadAll(file)
		if string(data) != "PNGDATA" {
			t.Errorf("unexpected file contents %q", data)
		}
		if header.Filename != "me.png" {
			t.Errorf("unexpected filename %q", header.Filename)
		}
		json.NewEncoder(w).Encode(UserProfile{Username: "alice", ProfileImagePath: "me.png"})
	}))
	defer server.Close()

	profile, err := New(server.URL).UploadProfilePicture(context.Background(), "/tmp/me.png", strings.NewReader("PNGDATA"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if profile.ProfileImagePath != "me.png" {
		t.Errorf("unexpected profile %+v", profile)
	}
}

func TestCompleteMinigame(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body GameCompletion
		json.NewDecoder(r.Body).Decode(&body)
		if body.CompanionID != 3 || body.Score != 10 {
			t.Errorf("unexpected completion %+v", body)
		}
		json.NewEncoder(w).Encode(GameResult{
			Message: "Well played!",
			ItemsAwarded: []InventoryItem{
				{InventoryItemID: 1, Quantity: 2, Item: Item{Name: "Lembas Bread", ItemType: ItemConsumable}},
			},
		})
	}))
	defer server.Close()

	result, err := New(server.URL).CompleteMinigame(context.Background(), GameCompletion{CompanionID: 3, Score: 10})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Message != "Well played!" || len(result.ItemsAwarded) != 1 {
		t.Errorf("unexpected result %+v", result)
	}
}

func TestDeleteCompanion_EmptyBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			t.Errorf("expected DELETE, got %s", r.Method)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	if err := New(server.URL).DeleteCompanion(context.Background(), 5); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestMessage_Fallback(t *testing.T) {
	if got := Message(errors.New("boom"), "Failed to submit score."); got != "Failed to submit score." {
		t.Errorf("unexpected message %q", got)
	}
	if got := Message(&APIError{Status: 400, Message: "No companion"}, "fallback"); got != "No companion" {
		t.Errorf("unexpected message %q", got)
	}
}
