// Package manifest normalizes public MS-ASL/WLASL clip metadata into the
// curated manifest consumed by the offline dataset pipeline (download,
// trimming, landmark extraction).
package manifest

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/signify-dev/signify-go-backend/internal/logger"
)

// ClipEntry is one normalized clip reference.
type ClipEntry struct {
	Label     string            `json:"label"`
	YoutubeID string            `json:"youtube_id"`
	Start     float64           `json:"start"`
	End       float64           `json:"end"`
	Signer    string            `json:"signer,omitempty"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// rawRecord tolerates the field aliases found across the public metadata
// dumps.
type rawRecord map[string]any

func (r rawRecord) str(keys ...string) string {
	for _, k := range keys {
		if v, ok := r[k]; ok {
			if s, ok := v.(string); ok && s != "" {
				return s
			}
			if f, ok := v.(float64); ok {
				return fmt.Sprintf("%v", f)
			}
		}
	}
	return ""
}

func (r rawRecord) num(keys ...string) (float64, bool) {
	for _, k := range keys {
		if v, ok := r[k]; ok {
			if f, ok := v.(float64); ok {
				return f, true
			}
		}
	}
	return 0, false
}

var consumedKeys = map[string]struct{}{
	"youtube_id": {}, "video_id": {}, "yt_id": {}, "id": {},
	"label": {}, "gloss": {}, "text": {}, "clean_text": {},
	"start": {}, "start_time": {}, "start_sec": {},
	"end": {}, "end_time": {}, "end_sec": {},
	"signer": {}, "performer": {},
	"url": {}, "video_url": {},
}

func youtubeIDFromURL(url string) string {
	if idx := strings.LastIndex(url, "v="); idx >= 0 {
		id := url[idx+2:]
		if amp := strings.Index(id, "&"); amp >= 0 {
			id = id[:amp]
		}
		return id
	}
	return ""
}

// LoadMetadata reads a raw metadata JSON file (a list of records, or a
// wrapper object with a "clips" or "metadata" list) and normalizes the
// complete entries. Incomplete records are skipped with a debug log.
func LoadMetadata(path string) ([]ClipEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read metadata file: %w", err)
	}

	var records []rawRecord
	if err := json.Unmarshal(data, &records); err != nil {
		var wrapper map[string]json.RawMessage
		if err2 := json.Unmarshal(data, &wrapper); err2 != nil {
			return nil, fmt.Errorf("metadata is not valid JSON: %w", err)
		}
		for _, key := range []string{"clips", "metadata"} {
			if raw, ok := wrapper[key]; ok {
				if err := json.Unmarshal(raw, &records); err != nil {
					return nil, fmt.Errorf("metadata %q list is malformed: %w", key, err)
				}
				break
			}
		}
		if records == nil {
			return nil, fmt.Errorf("expected the metadata JSON to be a list or a wrapper with a clips list")
		}
	}

	var entries []ClipEntry
	for _, record := range records {
		youtubeID := record.str("youtube_id", "video_id", "yt_id")
		if youtubeID == "" {
			youtubeID = youtubeIDFromURL(record.str("url", "video_url"))
		}
		label := record.str("label", "gloss", "text", "clean_text")
		start, hasStart := record.num("start_time", "start", "start_sec")
		end, hasEnd := record.num("end_time", "end", "end_sec")

		if youtubeID == "" || label == "" || !hasStart || !hasEnd {
			logger.DebugF("Skipping incomplete metadata entry: %v", record)
			continue
		}

		metadata := make(map[string]string)
		for k, v := range record {
			if _, consumed := consumedKeys[k]; consumed {
				continue
			}
			metadata[k] = fmt.Sprintf("%v", v)
		}
		if len(metadata) == 0 {
			metadata = nil
		}

		entries = append(entries, ClipEntry{
			Label:     label,
			YoutubeID: youtubeID,
			Start:     start,
			End:       end,
			Signer:    record.str("signer", "performer"),
			Metadata:  metadata,
		})
	}

	return entries, nil
}

// Sample limits the manifest to maxClasses labels and clipsPerClass clips per
// label, deterministically for a given seed. Labels are processed in sorted
// order so output order is stable.
func Sample(entries []ClipEntry, maxClasses, clipsPerClass int, seed int64) []ClipEntry {
	rng := rand.New(rand.NewSource(seed))

	labelGroups := make(map[string][]ClipEntry)
	for _, entry := range entries {
		labelGroups[entry.Label] = append(labelGroups[entry.Label], entry)
	}

	selectedLabels := make([]string, 0, len(labelGroups))
	for label := range labelGroups {
		selectedLabels = append(selectedLabels, label)
	}
	sort.Strings(selectedLabels)
	if len(selectedLabels) > maxClasses {
		rng.Shuffle(len(selectedLabels), func(i, j int) {
			selectedLabels[i], selectedLabels[j] = selectedLabels[j], selectedLabels[i]
		})
		selectedLabels = selectedLabels[:maxClasses]
		sort.Strings(selectedLabels)
	}

	var manifest []ClipEntry
	for _, label := range selectedLabels {
		clips := labelGroups[label]
		if len(clips) > clipsPerClass {
			rng.Shuffle(len(clips), func(i, j int) {
				clips[i], clips[j] = clips[j], clips[i]
			})
			clips = clips[:clipsPerClass]
		}
		manifest = append(manifest, clips...)
	}

	logger.InfoF("Selected %d classes and %d total clips for the manifest", len(selectedLabels), len(manifest))
	return manifest
}

// Write emits the manifest as indented JSON, creating parent directories as
// needed.
func Write(entries []ClipEntry, output string) error {
	if err := os.MkdirAll(filepath.Dir(output), 0755); err != nil {
		return fmt.Errorf("failed to create manifest directory: %w", err)
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode manifest: %w", err)
	}
	if err := os.WriteFile(output, data, 0644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	logger.InfoF("Manifest written to %s", output)
	return nil
}
