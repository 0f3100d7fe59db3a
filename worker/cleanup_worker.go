package worker

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"time"

	"gorm.io/gorm"

	"campaignboard/models"
	"campaignboard/utils"
)

// CleanupWorker periodically removes upload files that no media asset
// references anymore. Campaign deletion only drops the database rows,
// so the files are reaped here.
type CleanupWorker struct {
	db       *gorm.DB
	store    *utils.MediaStore
	logger   *log.Logger
	interval time.Duration

	// Files younger than this are skipped so in-flight uploads are
	// never reaped between staging and commit.
	gracePeriod time.Duration
}

func NewCleanupWorker(db *gorm.DB, store *utils.MediaStore, logger *log.Logger) *CleanupWorker {
	return &CleanupWorker{
		db:          db,
		store:       store,
		logger:      logger,
		interval:    time.Hour,
		gracePeriod: time.Hour,
	}
}

func (w *CleanupWorker) Start(ctx context.Context) {
	w.logger.Println("Starting media cleanup worker")
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Println("Stopping media cleanup worker")
			return
		case <-ticker.C:
			if err := w.runOnce(); err != nil {
				w.logger.Printf("Cleanup pass failed: %v", err)
			}
		}
	}
}

func (w *CleanupWorker) runOnce() error {
	var storedNames []string
	if err := w.db.Model(&models.MediaAsset{}).Pluck("stored_name", &storedNames).Error; err != nil {
		return err
	}

	referenced := make(map[string]struct{}, len(storedNames))
	for _, name := range storedNames {
		referenced[name] = struct{}{}
	}

	entries, err := os.ReadDir(w.store.Dir())
	if err != nil {
		return err
	}

	removed := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if _, ok := referenced[entry.Name()]; ok {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if time.Since(info.ModTime()) < w.gracePeriod {
			continue
		}
		if err := os.Remove(filepath.Join(w.store.Dir(), entry.Name())); err != nil {
			w.logger.Printf("Failed to remove orphaned file %s: %v", entry.Name(), err)
			continue
		}
		removed++
	}

	if removed > 0 {
		w.logger.Printf("Removed %d orphaned media files", removed)
	}
	return nil
}
