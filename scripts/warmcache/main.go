// scripts/warmcache/main.go
//
// Batch pre-analysis for a directory of downloaded games.
// - Scans a directory for review JSON files
// - Pairs each review with a same-named .mjai log when present
// - Runs the full analysis pipeline on each pair
// - Stores results in the cache database so later CLI runs are instant
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/nvandessel/tilelens/internal/analysis"
	"github.com/nvandessel/tilelens/internal/mjai"
	"github.com/nvandessel/tilelens/internal/review"
	"github.com/nvandessel/tilelens/internal/store"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "warmcache failed: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	if len(os.Args) < 3 {
		return fmt.Errorf("usage: warmcache <games-dir> <cache-db>")
	}
	gamesDir, cachePath := os.Args[1], os.Args[2]

	cache, err := store.Open(cachePath)
	if err != nil {
		return fmt.Errorf("open cache: %w", err)
	}
	defer cache.Close()

	entries, err := os.ReadDir(gamesDir)
	if err != nil {
		return fmt.Errorf("read games dir: %w", err)
	}

	ctx := context.Background()
	cfg := analysis.DefaultConfig()
	start := time.Now()
	analyzed, skipped := 0, 0

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		reviewPath := filepath.Join(gamesDir, entry.Name())
		reviewData, err := os.ReadFile(reviewPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "skip %s: %v\n", entry.Name(), err)
			skipped++
			continue
		}
		reviewText := string(reviewData)
		if mjai.DetectFormat(reviewText) != mjai.FormatReview {
			continue
		}

		logText, err := findLog(reviewPath, reviewText)
		if err != nil {
			fmt.Fprintf(os.Stderr, "skip %s: %v\n", entry.Name(), err)
			skipped++
			continue
		}

		hash := store.ContentHash(logText, reviewText)
		if _, err := cache.Get(ctx, hash); err == nil {
			skipped++
			continue
		}

		rev, revErrs := review.Parse(reviewText)
		if rev == nil {
			fmt.Fprintf(os.Stderr, "skip %s: %v\n", entry.Name(), revErrs[0])
			skipped++
			continue
		}
		events, logErrs := mjai.ParseLog(logText)
		if len(events) == 0 {
			fmt.Fprintf(os.Stderr, "skip %s: %v\n", entry.Name(), logErrs[0])
			skipped++
			continue
		}

		report := analysis.NewPipeline(cfg).Run(rev, events)
		if err := cache.Save(ctx, hash, report); err != nil {
			return fmt.Errorf("save %s: %w", entry.Name(), err)
		}
		analyzed++
	}

	fmt.Printf("analyzed %d games, skipped %d in %s\n", analyzed, skipped, time.Since(start).Round(time.Millisecond))
	return nil
}

// findLog locates the mjai log for a review: a sibling .mjai file first,
// then a log embedded in the review itself.
func findLog(reviewPath, reviewText string) (string, error) {
	logPath := strings.TrimSuffix(reviewPath, ".json") + ".mjai"
	if data, err := os.ReadFile(logPath); err == nil {
		return string(data), nil
	}

	embedded := review.EmbeddedLog(reviewText)
	if len(embedded) == 0 {
		return "", fmt.Errorf("no sibling .mjai log and none embedded")
	}

	var sb strings.Builder
	for _, ev := range embedded {
		line, err := json.Marshal(ev)
		if err != nil {
			continue
		}
		sb.Write(line)
		sb.WriteByte('\n')
	}
	return sb.String(), nil
}
