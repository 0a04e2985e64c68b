package database

const ManifestCollectionName = "manifest_clips"

// ClipRecord is one curated dataset clip persisted by the manifest store.
type ClipRecord struct {
	Label     string            `bson:"label"`
	YoutubeID string            `bson:"youtube_id"`
	Start     float64           `bson:"start"`
	End       float64           `bson:"end"`
	Signer    string            `bson:"signer,omitempty"`
	Metadata  map[string]string `bson:"metadata,omitempty"`
}

// ManifestStore persists curated clip manifests for the offline training
// pipeline.
type ManifestStore interface {
	SaveClips(clips []ClipRecord) error
	ListClips(label string) ([]ClipRecord, error)
	Labels() ([]string, error)
	DeleteLabel(label string) error
}
