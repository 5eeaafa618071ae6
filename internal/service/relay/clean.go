package relay

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	DefaultTempFileTTL             = time.Hour
	DefaultTempFileCleanupInterval = 10 * time.Minute
)

// StartTempFileCleaner periodically removes staged audio files older than
// ttl. Requests delete their own files; this only catches what a crashed
// process left behind.
func (s *Service) StartTempFileCleaner(ctx context.Context, interval, ttl time.Duration) {
	if interval <= 0 {
		interval = DefaultTempFileCleanupInterval
	}
	if ttl <= 0 {
		ttl = DefaultTempFileTTL
	}
	go s.cleanupLoop(ctx, interval, ttl)
}

func (s *Service) cleanupLoop(ctx context.Context, interval, ttl time.Duration) {
	if _, err := s.cleanupExpiredFiles(time.Now(), ttl); err != nil {
		log.Printf("cleanup temp files error: %v", err)
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if _, err := s.cleanupExpiredFiles(now, ttl); err != nil {
				log.Printf("cleanup temp files error: %v", err)
			}
		}
	}
}

func (s *Service) cleanupExpiredFiles(now time.Time, ttl time.Duration) (int, error) {
	entries, err := os.ReadDir(s.tempDir)
	if err != nil {
		return 0, err
	}
	removed := 0
	for _, entry := range entries {
		if !entry.Type().IsRegular() || !strings.HasPrefix(entry.Name(), tempFilePrefix) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if now.Sub(info.ModTime()) < ttl {
			continue
		}
		path := filepath.Join(s.tempDir, entry.Name())
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			log.Printf("remove temp file %s failed: %v", path, err)
			continue
		}
		removed++
	}
	if removed > 0 {
		log.Printf("removed %d stale temp audio files", removed)
	}
	return removed, nil
}
