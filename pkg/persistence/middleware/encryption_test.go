package middleware_test

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aretw0/tribble/pkg/adapters/memory"
	"github.com/aretw0/tribble/pkg/domain"
	"github.com/aretw0/tribble/pkg/persistence/middleware"
	"github.com/aretw0/tribble/pkg/ports"
)

func generateKey(t *testing.T) []byte {
	k := make([]byte, middleware.KeySize)
	if _, err := io.ReadFull(rand.Reader, k); err != nil {
		t.Fatal(err)
	}
	return k
}

func secure(t *testing.T, next ports.SessionStore, config middleware.EncryptionConfig) ports.SessionStore {
	t.Helper()
	mw, err := middleware.NewEncryptionMiddleware(config)
	if err != nil {
		t.Fatalf("NewEncryptionMiddleware failed: %v", err)
	}
	return mw(next)
}

func newState(id string) *domain.SessionState {
	return &domain.SessionState{
		ID:         id,
		Locale:     "en",
		Workflow:   "report",
		History:    []domain.HistoryEntry{{Location: "start", Tags: []string{}}},
		FormValues: map[string]string{"password": "my-secret-sauce"},
	}
}

func TestEncryptionMiddleware_Roundtrip(t *testing.T) {
	underlyingStore := memory.NewStore()
	secureStore := secure(t, underlyingStore, middleware.EncryptionConfig{ActiveKey: generateKey(t)})

	ctx := context.Background()
	sessionID := "test-session"

	// 1. Save
	if err := secureStore.Save(ctx, sessionID, newState(sessionID)); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	// 2. Verify Underlying Store directly (Should be encrypted)
	storedState, err := underlyingStore.Load(ctx, sessionID)
	if err != nil {
		t.Fatalf("Underlying load failed: %v", err)
	}
	if val, ok := storedState.FormValues["password"]; ok {
		t.Fatalf("Expected secret to be hidden, found: %v", val)
	}
	if len(storedState.History) != 0 {
		t.Fatalf("Expected history to be hidden, found: %v", storedState.History)
	}
	if storedState.Workflow != "report" {
		t.Errorf("Expected envelope to keep the workflow, got %q", storedState.Workflow)
	}

	// 3. Load via Middleware (Should be decrypted)
	loadedState, err := secureStore.Load(ctx, sessionID)
	if err != nil {
		t.Fatalf("Load via middleware failed: %v", err)
	}
	if loadedState.FormValues["password"] != "my-secret-sauce" {
		t.Errorf("Expected 'my-secret-sauce', got %v", loadedState.FormValues["password"])
	}
	if len(loadedState.History) != 1 || loadedState.History[0].Location != "start" {
		t.Errorf("Expected history to survive, got %v", loadedState.History)
	}

	// 4. Passthrough operations
	ids, err := secureStore.List(ctx)
	if err != nil || len(ids) != 1 {
		t.Fatalf("List returned %v, %v", ids, err)
	}
	if err := secureStore.Delete(ctx, sessionID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := secureStore.Load(ctx, sessionID); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Errorf("Expected ErrSessionNotFound, got %v", err)
	}
}

func TestEncryptionMiddleware_KeyRotation(t *testing.T) {
	underlyingStore := memory.NewStore()
	oldKey := generateKey(t)
	newKey := generateKey(t)

	secureStoreOld := secure(t, underlyingStore, middleware.EncryptionConfig{ActiveKey: oldKey})

	ctx := context.Background()
	sessionID := "rotation-session"
	originalState := newState(sessionID)
	originalState.FormValues["data"] = "encrypted-with-old-key"

	// 1. Save with OLD key
	if err := secureStoreOld.Save(ctx, sessionID, originalState); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	// 2. Load with NEW key (Active) + OLD key (Fallback)
	secureStoreNew := secure(t, underlyingStore, middleware.EncryptionConfig{
		ActiveKey:    newKey,
		FallbackKeys: [][]byte{oldKey},
	})

	loadedState, err := secureStoreNew.Load(ctx, sessionID)
	if err != nil {
		t.Fatalf("Load with rotated key failed: %v", err)
	}
	if loadedState.FormValues["data"] != "encrypted-with-old-key" {
		t.Errorf("Decryption with fallback key failed")
	}

	// 3. Save again (Should now use the NEW key)
	loadedState.FormValues["data"] = "encrypted-with-new-key"
	if err := secureStoreNew.Save(ctx, sessionID, loadedState); err != nil {
		t.Fatalf("Save with new key failed: %v", err)
	}

	// 4. Verify we CANNOT load with just OLD key anymore
	if _, err := secureStoreOld.Load(ctx, sessionID); err == nil {
		t.Error("Expected failure when loading new-key encryption with old-key middleware")
	}
}

func TestEncryptionMiddleware_PlainStateRejected(t *testing.T) {
	underlyingStore := memory.NewStore()
	ctx := context.Background()
	if err := underlyingStore.Save(ctx, "plain", newState("plain")); err != nil {
		t.Fatal(err)
	}

	secureStore := secure(t, underlyingStore, middleware.EncryptionConfig{ActiveKey: generateKey(t)})
	_, err := secureStore.Load(ctx, "plain")
	if err == nil || !strings.Contains(err.Error(), "envelope") {
		t.Errorf("Expected envelope error, got %v", err)
	}
}

func TestEncryptionMiddleware_InvalidKey(t *testing.T) {
	if _, err := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: []byte("short-key")}); err == nil {
		t.Error("Expected error for invalid key size")
	}
	_, err := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
		ActiveKey:    generateKey(t),
		FallbackKeys: [][]byte{[]byte("short")},
	})
	if err == nil {
		t.Error("Expected error for invalid fallback key size")
	}
}

func TestParseKey(t *testing.T) {
	key := generateKey(t)
	parsed, err := middleware.ParseKey(base64.StdEncoding.EncodeToString(key))
	if err != nil {
		t.Fatalf("ParseKey failed: %v", err)
	}
	if string(parsed) != string(key) {
		t.Error("Parsed key differs")
	}
	if _, err := middleware.ParseKey("not base64!"); err == nil {
		t.Error("Expected decode error")
	}
	if _, err := middleware.ParseKey(base64.StdEncoding.EncodeToString([]byte("short"))); err == nil {
		t.Error("Expected length error")
	}
}

func TestChain(t *testing.T) {
	var calls []string
	trace := func(name string) middleware.Middleware {
		return func(next ports.SessionStore) ports.SessionStore {
			return &tracingStore{SessionStore: next, name: name, calls: &calls}
		}
	}

	store := middleware.Chain(memory.NewStore(), trace("outer"), trace("inner"))
	if err := store.Save(context.Background(), "s1", newState("s1")); err != nil {
		t.Fatal(err)
	}
	if strings.Join(calls, ",") != "outer,inner" {
		t.Errorf("Expected outer,inner got %v", calls)
	}
}

type tracingStore struct {
	ports.SessionStore
	name  string
	calls *[]string
}

func (s *tracingStore) Save(ctx context.Context, id string, state *domain.SessionState) error {
	*s.calls = append(*s.calls, s.name)
	return s.SessionStore.Save(ctx, id, state)
}
