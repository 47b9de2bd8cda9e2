// ABOUTME: Runs parallel feature extraction over training audio
// ABOUTME: Feeds extracted vectors to the trainer and records outcomes
package training

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/malbsmeyer/equivocal/internal/audio"
	"github.com/malbsmeyer/equivocal/internal/core"
	"github.com/malbsmeyer/equivocal/internal/dsp"
	"github.com/malbsmeyer/equivocal/internal/models"
	"github.com/malbsmeyer/equivocal/internal/storage"
	"github.com/malbsmeyer/equivocal/internal/storage/catalog"
)

// SampleOutcome is the result of one file's extraction.
type SampleOutcome struct {
	Path    string
	Seconds float64
	Err     error
}

// CategoryResult summarizes training one category. Err reports a
// training failure; LedgerErr reports a catalog write failure, which
// does not invalidate a trained prototype.
type CategoryResult struct {
	Category  string
	Tier      string
	RunID     string
	Trained   int
	Failed    int
	Duration  time.Duration
	Outcomes  []SampleOutcome
	Err       error
	LedgerErr error
}

// Runner drives extraction workers and hands the surviving vectors to
// the trainer. The catalog is optional; without it outcomes are only
// returned, not persisted.
type Runner struct {
	loader    *audio.Loader
	extractor *dsp.Extractor
	trainer   *core.PrototypeTrainer
	store     *storage.ModelStore
	catalog   *catalog.Catalog
	workers   int
}

// NewRunner creates a new Runner instance.
func NewRunner(store *storage.ModelStore, cat *catalog.Catalog, workers int) *Runner {
	if workers < 1 {
		workers = 1
	}
	return &Runner{
		loader:    audio.NewLoader(store.SampleRate()),
		extractor: dsp.NewExtractor(),
		trainer:   core.NewPrototypeTrainer(),
		store:     store,
		catalog:   cat,
		workers:   workers,
	}
}

type extraction struct {
	path     string
	seconds  float64
	features *models.FeatureVector
	err      error
}

// TrainCategory extracts every file of one category in parallel, trains
// a prototype from the successes, and stores it. Failures are reported
// per file; the category only fails when no file survives.
func (r *Runner) TrainCategory(ctx context.Context, dir CategoryDir) CategoryResult {
	started := time.Now()
	res := CategoryResult{Category: dir.Category, Tier: dir.Tier}

	jobs := make(chan string, len(dir.Files))
	for _, f := range dir.Files {
		jobs <- f
	}
	close(jobs)

	results := make(chan extraction, len(dir.Files))
	var wg sync.WaitGroup
	for i := 0; i < r.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range jobs {
				if ctx.Err() != nil {
					results <- extraction{path: path, err: ctx.Err()}
					continue
				}
				results <- r.extractOne(path)
			}
		}()
	}
	wg.Wait()
	close(results)

	var vectors []*models.FeatureVector
	for ex := range results {
		res.Outcomes = append(res.Outcomes, SampleOutcome{
			Path:    ex.path,
			Seconds: ex.seconds,
			Err:     ex.err,
		})
		if ex.err != nil {
			res.Failed++
			continue
		}
		res.Trained++
		vectors = append(vectors, ex.features)
	}
	sort.Slice(res.Outcomes, func(i, j int) bool {
		return res.Outcomes[i].Path < res.Outcomes[j].Path
	})
	res.Duration = time.Since(started)

	if err := ctx.Err(); err != nil {
		res.Err = err
		return res
	}

	proto, err := r.trainer.Train(dir.Category, vectors)
	if err != nil {
		res.Err = err
	} else if err := r.store.Put(proto); err != nil {
		res.Err = fmt.Errorf("failed to store prototype for %q: %w", dir.Category, err)
	}

	r.recordRun(&res)
	return res
}

// TrainTiers discovers categories under the given roots and trains each
// in turn. Per-category failures land in the results; only discovery
// errors or cancellation abort the whole pass.
func (r *Runner) TrainTiers(ctx context.Context, roots ...string) ([]CategoryResult, error) {
	dirs, err := DiscoverCategories(roots...)
	if err != nil {
		return nil, err
	}

	var results []CategoryResult
	for _, dir := range dirs {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		results = append(results, r.TrainCategory(ctx, dir))
	}
	return results, nil
}

func (r *Runner) extractOne(path string) extraction {
	clip, err := r.loader.Load(path)
	if err != nil {
		return extraction{path: path, err: err}
	}
	fv, err := r.extractor.Extract(clip.Samples, clip.SampleRate)
	if err != nil {
		return extraction{path: path, seconds: clip.Duration(), err: fmt.Errorf("failed to extract features: %w", err)}
	}
	return extraction{path: path, seconds: clip.Duration(), features: fv}
}

// recordRun writes the outcome ledger. A ledger failure never masks a
// training failure.
func (r *Runner) recordRun(res *CategoryResult) {
	if r.catalog == nil {
		return
	}

	run := &catalog.TrainingRun{
		Category:     res.Category,
		Tier:         res.Tier,
		SampleCount:  len(res.Outcomes),
		FailureCount: res.Failed,
		Duration:     res.Duration,
	}
	samples := make([]catalog.SampleRecord, 0, len(res.Outcomes))
	for _, o := range res.Outcomes {
		rec := catalog.SampleRecord{
			Category:    res.Category,
			Path:        o.Path,
			Status:      catalog.SampleOK,
			ClipSeconds: o.Seconds,
		}
		if o.Err != nil {
			rec.Status = catalog.SampleFailed
			rec.Error = o.Err.Error()
		}
		samples = append(samples, rec)
	}

	if err := r.catalog.RecordRun(run, samples); err != nil {
		res.LedgerErr = fmt.Errorf("failed to record training run: %w", err)
		return
	}
	res.RunID = run.RunID
}
