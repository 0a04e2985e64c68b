package database

import "testing"

func TestMemoryManifestStore(t *testing.T) {
	store := NewMemoryStore()

	err := store.SaveClips([]ClipRecord{
		{Label: "hello", YoutubeID: "abc", Start: 1.0, End: 2.5},
		{Label: "hello", YoutubeID: "def", Start: 0.0, End: 1.2},
		{Label: "thanks", YoutubeID: "ghi", Start: 3.0, End: 4.0},
	})
	if err != nil {
		t.Fatalf("SaveClips failed: %v", err)
	}

	clips, err := store.ListClips("hello")
	if err != nil {
		t.Fatalf("ListClips failed: %v", err)
	}
	if len(clips) != 2 {
		t.Fatalf("expected 2 clips for hello, got %d", len(clips))
	}

	labels, err := store.Labels()
	if err != nil {
		t.Fatalf("Labels failed: %v", err)
	}
	if len(labels) != 2 || labels[0] != "hello" || labels[1] != "thanks" {
		t.Errorf("unexpected labels: %v", labels)
	}

	if err := store.DeleteLabel("hello"); err != nil {
		t.Fatalf("DeleteLabel failed: %v", err)
	}
	clips, _ = store.ListClips("hello")
	if len(clips) != 0 {
		t.Errorf("expected no clips after delete, got %d", len(clips))
	}
}

func TestMemoryStoreRejectsEmptyLabel(t *testing.T) {
	store := NewMemoryStore()
	if err := store.SaveClips([]ClipRecord{{YoutubeID: "abc"}}); err == nil {
		t.Error("expected error for empty label")
	}
	if _, err := store.ListClips(""); err == nil {
		t.Error("expected error for empty label query")
	}
}
