package chat_test

import (
	"context"
	"testing"
	"time"

	"github.com/everkind/backend/internal/model/chat"
	chatService "github.com/everkind/backend/internal/service/chat"
)

func TestMemoryStoreInsertLookup(t *testing.T) {
	store := chatService.NewMemoryStore(0, 0)
	ctx := context.Background()

	record := chat.SessionRecord{
		Messages:     []chat.PromptMessage{{Role: chat.RoleUser, Content: "hello"}},
		LastResponse: "hi",
	}
	if err := store.Insert(ctx, "abc", record); err != nil {
		t.Fatalf("Insert err: %v", err)
	}

	got, ok, err := store.Lookup(ctx, "abc")
	if err != nil || !ok {
		t.Fatalf("Lookup: ok=%v err=%v", ok, err)
	}
	if got.LastResponse != "hi" || len(got.Messages) != 1 {
		t.Fatalf("unexpected record: %+v", got)
	}

	got.Messages[0].Content = "mutated"
	again, _, _ := store.Lookup(ctx, "abc")
	if again.Messages[0].Content != "hello" {
		t.Fatalf("stored record was mutated through lookup result")
	}

	if _, ok, _ := store.Lookup(ctx, "ABC"); ok {
		t.Fatal("lookup must be exact-match")
	}
	if store.Len() != 1 {
		t.Fatalf("unexpected len: %d", store.Len())
	}
}

func TestMemoryStoreBounded(t *testing.T) {
	store := chatService.NewMemoryStore(2, 0)
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c"} {
		_ = store.Insert(ctx, id, chat.SessionRecord{LastResponse: id})
	}

	if store.Len() != 2 {
		t.Fatalf("expected 2 entries, got %d", store.Len())
	}
	if _, ok, _ := store.Lookup(ctx, "a"); ok {
		t.Fatal("oldest entry should have been evicted")
	}
	if _, ok, _ := store.Lookup(ctx, "c"); !ok {
		t.Fatal("newest entry missing")
	}
}

func TestMemoryStoreTTL(t *testing.T) {
	store := chatService.NewMemoryStore(0, 20*time.Millisecond)
	ctx := context.Background()

	_ = store.Insert(ctx, "short", chat.SessionRecord{LastResponse: "x"})
	time.Sleep(60 * time.Millisecond)

	if _, ok, _ := store.Lookup(ctx, "short"); ok {
		t.Fatal("expired entry should not be returned")
	}
}
