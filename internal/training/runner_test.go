// ABOUTME: Tests for the parallel training runner
// ABOUTME: Exercises extraction workers, failure capture, and catalog recording
package training

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/malbsmeyer/equivocal/internal/core"
	"github.com/malbsmeyer/equivocal/internal/storage"
	"github.com/malbsmeyer/equivocal/internal/storage/catalog"
)

// writeToneWAV writes a mono 16-bit sine clip long enough for framing.
func writeToneWAV(t *testing.T, path string, freq float64, seconds float64, sampleRate int) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("MkdirAll failed: %v", err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create %s: %v", path, err)
	}
	defer f.Close()

	n := int(seconds * float64(sampleRate))
	data := make([]int, n)
	for i := range data {
		data[i] = int(8000 * math.Sin(2*math.Pi*freq*float64(i)/float64(sampleRate)))
	}

	enc := wav.NewEncoder(f, sampleRate, 16, 1, 1)
	buf := &goaudio.IntBuffer{
		Data:           data,
		Format:         &goaudio.Format{NumChannels: 1, SampleRate: sampleRate},
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		t.Fatalf("failed to write WAV data: %v", err)
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("failed to close encoder: %v", err)
	}
}

func newTestCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	db, err := catalog.OpenInMemory()
	if err != nil {
		t.Fatalf("OpenInMemory() error = %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return catalog.NewCatalog(db)
}

func TestTrainCategory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "Tier_1", "test_tone")
	writeToneWAV(t, filepath.Join(dir, "tone_01.wav"), 220, 0.6, 22050)
	writeToneWAV(t, filepath.Join(dir, "tone_02.wav"), 440, 0.6, 22050)
	writeToneWAV(t, filepath.Join(dir, "tone_03.wav"), 880, 0.6, 22050)

	store := storage.NewModelStore(22050)
	cat := newTestCatalog(t)
	runner := NewRunner(store, cat, 4)

	dirs, err := DiscoverCategories(filepath.Dir(dir))
	if err != nil {
		t.Fatalf("DiscoverCategories() error = %v", err)
	}
	if len(dirs) != 1 {
		t.Fatalf("got %d categories, want 1", len(dirs))
	}

	res := runner.TrainCategory(context.Background(), dirs[0])
	if res.Err != nil {
		t.Fatalf("TrainCategory() error = %v", res.Err)
	}
	if res.Trained != 3 || res.Failed != 0 {
		t.Errorf("trained/failed = %d/%d, want 3/0", res.Trained, res.Failed)
	}
	if res.RunID == "" {
		t.Error("RunID should be set when a catalog is attached")
	}
	if len(res.Outcomes) != 3 {
		t.Fatalf("outcomes = %d, want 3", len(res.Outcomes))
	}
	// Outcomes sorted by path regardless of worker completion order.
	for i := 1; i < len(res.Outcomes); i++ {
		if res.Outcomes[i-1].Path >= res.Outcomes[i].Path {
			t.Errorf("outcomes not sorted: %s before %s",
				res.Outcomes[i-1].Path, res.Outcomes[i].Path)
		}
	}
	for _, o := range res.Outcomes {
		if o.Err != nil {
			t.Errorf("outcome %s failed: %v", o.Path, o.Err)
		}
		if math.Abs(o.Seconds-0.6) > 0.01 {
			t.Errorf("outcome %s seconds = %v, want ~0.6", o.Path, o.Seconds)
		}
	}

	proto, err := store.Get("test_tone")
	if err != nil {
		t.Fatalf("prototype missing after training: %v", err)
	}
	if proto.SampleCount != 3 {
		t.Errorf("SampleCount = %d, want 3", proto.SampleCount)
	}
	if proto.Features.EnergyLevel == nil || *proto.Features.EnergyLevel <= 0 {
		t.Error("trained tone should carry positive energy")
	}

	runs, err := cat.RunsForCategory("test_tone")
	if err != nil {
		t.Fatalf("RunsForCategory() error = %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("catalog runs = %d, want 1", len(runs))
	}
	if runs[0].SampleCount != 3 || runs[0].FailureCount != 0 {
		t.Errorf("catalog counts = %d/%d, want 3/0", runs[0].SampleCount, runs[0].FailureCount)
	}
	if runs[0].Tier != "Tier_1" {
		t.Errorf("catalog tier = %q, want Tier_1", runs[0].Tier)
	}
}

func TestTrainCategory_PartialFailure(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "Tier_1", "mixed_bag")
	writeToneWAV(t, filepath.Join(dir, "good.wav"), 330, 0.5, 22050)
	if err := os.WriteFile(filepath.Join(dir, "broken.wav"), []byte("not audio"), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	store := storage.NewModelStore(22050)
	cat := newTestCatalog(t)
	runner := NewRunner(store, cat, 2)

	dirs, err := DiscoverCategories(filepath.Dir(dir))
	if err != nil {
		t.Fatalf("DiscoverCategories() error = %v", err)
	}

	res := runner.TrainCategory(context.Background(), dirs[0])
	if res.Err != nil {
		t.Fatalf("one good sample should still train: %v", res.Err)
	}
	if res.Trained != 1 || res.Failed != 1 {
		t.Errorf("trained/failed = %d/%d, want 1/1", res.Trained, res.Failed)
	}

	if !store.Has("mixed_bag") {
		t.Error("prototype should exist despite the broken file")
	}

	failed, err := cat.FailedSamples()
	if err != nil {
		t.Fatalf("FailedSamples() error = %v", err)
	}
	if len(failed) != 1 {
		t.Fatalf("failed samples = %d, want 1", len(failed))
	}
	if filepath.Base(failed[0].Path) != "broken.wav" {
		t.Errorf("failed path = %s, want broken.wav", failed[0].Path)
	}
	if failed[0].Error == "" {
		t.Error("failed sample should carry its error text")
	}
}

func TestTrainCategory_AllFailures(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "Tier_1", "hopeless")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("MkdirAll failed: %v", err)
	}
	for _, name := range []string{"bad_01.wav", "bad_02.wav"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("garbage"), 0644); err != nil {
			t.Fatalf("WriteFile failed: %v", err)
		}
	}

	store := storage.NewModelStore(22050)
	runner := NewRunner(store, nil, 2)

	dirs, err := DiscoverCategories(filepath.Dir(dir))
	if err != nil {
		t.Fatalf("DiscoverCategories() error = %v", err)
	}

	res := runner.TrainCategory(context.Background(), dirs[0])
	if res.Err == nil {
		t.Fatal("expected error when every sample fails")
	}
	if !errors.Is(res.Err, core.ErrEmptyTrainingSet) {
		t.Errorf("error = %v, want ErrEmptyTrainingSet", res.Err)
	}
	if store.Has("hopeless") {
		t.Error("no prototype should be stored")
	}
}

func TestTrainCategory_Cancelled(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "Tier_1", "interrupted")
	writeToneWAV(t, filepath.Join(dir, "tone.wav"), 220, 0.5, 22050)

	store := storage.NewModelStore(22050)
	runner := NewRunner(store, nil, 2)

	dirs, err := DiscoverCategories(filepath.Dir(dir))
	if err != nil {
		t.Fatalf("DiscoverCategories() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := runner.TrainCategory(ctx, dirs[0])
	if !errors.Is(res.Err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", res.Err)
	}
	if store.Has("interrupted") {
		t.Error("cancelled run should not store a prototype")
	}
}

func TestTrainTiers(t *testing.T) {
	root := filepath.Join(t.TempDir(), "Tier_1")
	writeToneWAV(t, filepath.Join(root, "low_hum", "hum.wav"), 110, 0.5, 22050)
	writeToneWAV(t, filepath.Join(root, "high_whistle", "whistle.wav"), 1760, 0.5, 22050)

	store := storage.NewModelStore(22050)
	cat := newTestCatalog(t)
	runner := NewRunner(store, cat, 3)

	results, err := runner.TrainTiers(context.Background(), root)
	if err != nil {
		t.Fatalf("TrainTiers() error = %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("results = %d, want 2", len(results))
	}
	// Categories arrive sorted.
	if results[0].Category != "high_whistle" || results[1].Category != "low_hum" {
		t.Errorf("order = [%s %s], want [high_whistle low_hum]",
			results[0].Category, results[1].Category)
	}
	for _, res := range results {
		if res.Err != nil {
			t.Errorf("category %s failed: %v", res.Category, res.Err)
		}
	}

	cats := store.Categories()
	if len(cats) != 2 {
		t.Errorf("store categories = %v, want both trained", cats)
	}

	stats, err := cat.Stats()
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if len(stats) != 2 {
		t.Errorf("catalog stats = %d categories, want 2", len(stats))
	}
}

func TestTrainTiers_MissingRoot(t *testing.T) {
	store := storage.NewModelStore(22050)
	runner := NewRunner(store, nil, 1)

	_, err := runner.TrainTiers(context.Background(), filepath.Join(t.TempDir(), "nope"))
	if err == nil {
		t.Fatal("expected error for missing root")
	}
	if !strings.Contains(err.Error(), "failed to read training root") {
		t.Errorf("error = %v, want training root context", err)
	}
}
