// Command manifest-intake normalizes a raw MS-ASL/WLASL metadata dump into
// the curated clip manifest, optionally persisting it to the database.
package main

import (
	"flag"

	"github.com/signify-dev/signify-go-backend/internal/config"
	"github.com/signify-dev/signify-go-backend/internal/database"
	"github.com/signify-dev/signify-go-backend/internal/event"
	"github.com/signify-dev/signify-go-backend/internal/logger"
	"github.com/signify-dev/signify-go-backend/internal/manifest"
)

func main() {
	metadataPath := flag.String("metadata", "", "path to the raw metadata JSON dump")
	output := flag.String("output", "manifest.json", "path for the normalized manifest")
	maxClasses := flag.Int("max-classes", 100, "maximum number of labels to keep")
	clipsPerClass := flag.Int("clips-per-class", 50, "maximum clips kept per label")
	seed := flag.Int64("seed", 42, "sampling seed")
	useDatabase := flag.Bool("use-database", false, "also persist the manifest to the database")
	flag.Parse()

	_, err := config.ReadConfig()
	if err != nil {
		logger.FatalF("Error occured while reading config %v", err)
		return
	}
	loggerCallback := logger.Init()
	cleaner := event.NewCleaner()
	cleaner.Init(loggerCallback)

	if *metadataPath == "" {
		logger.Fatal("The -metadata flag is required")
		flag.Usage()
		return
	}

	entries, err := manifest.LoadMetadata(*metadataPath)
	if err != nil {
		logger.FatalF("Error occured while loading metadata, details: %v", err)
		return
	}
	logger.InfoF("Loaded %d usable clip entries from %s", len(entries), *metadataPath)

	sampled := manifest.Sample(entries, *maxClasses, *clipsPerClass, *seed)

	if err := manifest.Write(sampled, *output); err != nil {
		logger.FatalF("Error occured while writing the manifest, details: %v", err)
		return
	}

	if *useDatabase {
		if err := database.ConnectDatabase(); err != nil {
			logger.FatalF("Error occured while initializing database, details: %v", err)
			return
		}
		store := database.NewDatabaseStore()
		records := make([]database.ClipRecord, 0, len(sampled))
		for _, entry := range sampled {
			records = append(records, database.ClipRecord{
				Label:     entry.Label,
				YoutubeID: entry.YoutubeID,
				Start:     entry.Start,
				End:       entry.End,
				Signer:    entry.Signer,
				Metadata:  entry.Metadata,
			})
		}
		if err := store.SaveClips(records); err != nil {
			logger.FatalF("Error occured while persisting the manifest, details: %v", err)
			return
		}
	}

	logger.Info("Manifest intake finished")
}
