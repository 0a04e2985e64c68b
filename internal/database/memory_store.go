package database

import (
	"sort"
	"sync"
)

// MemoryStore keeps manifests in process memory. Used for offline intake runs
// without a database and in tests.
type MemoryStore struct {
	mu    sync.RWMutex
	clips map[string][]ClipRecord
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		clips: make(map[string][]ClipRecord),
	}
}

func (ms *MemoryStore) SaveClips(clips []ClipRecord) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	for _, clip := range clips {
		if clip.Label == "" {
			return LabelEmptyError
		}
		ms.clips[clip.Label] = append(ms.clips[clip.Label], clip)
	}
	return nil
}

func (ms *MemoryStore) ListClips(label string) ([]ClipRecord, error) {
	if label == "" {
		return nil, LabelEmptyError
	}
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	out := make([]ClipRecord, len(ms.clips[label]))
	copy(out, ms.clips[label])
	return out, nil
}

func (ms *MemoryStore) Labels() ([]string, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	labels := make([]string, 0, len(ms.clips))
	for label := range ms.clips {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	return labels, nil
}

func (ms *MemoryStore) DeleteLabel(label string) error {
	if label == "" {
		return LabelEmptyError
	}
	ms.mu.Lock()
	defer ms.mu.Unlock()
	delete(ms.clips, label)
	return nil
}
