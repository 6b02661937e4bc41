package verifier

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/yuya-takeyama/strict-dir-compare/internal/logging"
	"github.com/yuya-takeyama/strict-dir-compare/internal/walker"
	"github.com/yuya-takeyama/strict-dir-compare/pkg/compare"
	"github.com/yuya-takeyama/strict-dir-compare/pkg/hasher"
	"github.com/yuya-takeyama/strict-dir-compare/pkg/logger"
	"github.com/yuya-takeyama/strict-dir-compare/pkg/reconcile"
)

var (
	ErrSamePath = errors.New("can't compare a path to itself")
	ErrMismatch = errors.New("directories differ")
)

// ProgressBar tracks bytes hashed during one pass
type ProgressBar interface {
	AddBytes(n int64)
	Close()
}

// ProgressFunc creates a bar for a pass over dir expected to hash totalBytes
type ProgressFunc func(dir string, totalBytes int64) ProgressBar

type Options struct {
	Policy    hasher.Policy
	ErrorMode hasher.ErrorMode
	Excludes  []string
	Reporter  logger.Reporter
	Logger    *logging.Logger
	Progress  ProgressFunc
}

type Verifier struct {
	opts   Options
	hasher *hasher.Hasher
	log    *logging.Logger
}

func New(opts Options) *Verifier {
	if opts.Reporter == nil {
		opts.Reporter = logger.NullReporter{}
	}
	log := opts.Logger
	if log == nil {
		log = logging.Discard()
	}
	return &Verifier{
		opts: opts,
		hasher: hasher.New(hasher.Options{
			Policy:    opts.Policy,
			ErrorMode: opts.ErrorMode,
			Reporter:  opts.Reporter,
		}),
		log: log,
	}
}

// Report is the outcome of one comparison run
type Report struct {
	Source      string
	Dest        string
	Exclusions  reconcile.Result
	Results     []compare.Result
	Summary     compare.Summary
	BytesHashed int64
	Duration    time.Duration
}

// HasMismatch reports whether any compared name did not match
func (r *Report) HasMismatch() bool {
	for _, res := range r.Results {
		if !res.Match {
			return true
		}
	}
	return false
}

// Run reconciles the two directories, hashes src then dst, and reports each pair
func (v *Verifier) Run(ctx context.Context, src, dst string) (*Report, error) {
	started := time.Now()

	absSrc, err := filepath.Abs(src)
	if err != nil {
		return nil, fmt.Errorf("get absolute path: %w", err)
	}
	absDst, err := filepath.Abs(dst)
	if err != nil {
		return nil, fmt.Errorf("get absolute path: %w", err)
	}
	if absSrc == absDst {
		return nil, ErrSamePath
	}

	if err := walker.ValidatePatterns(v.opts.Excludes); err != nil {
		return nil, err
	}

	exclusions, err := v.reconcile(absSrc, absDst)
	if err != nil {
		return nil, err
	}

	v.log.Info("Comparing %s to %s", absSrc, absDst)

	var bytesHashed int64
	srcRecords, n, err := v.hashPass(ctx, absSrc, exclusions.Excluded)
	if err != nil {
		return nil, err
	}
	bytesHashed += n

	dstRecords, n, err := v.hashPass(ctx, absDst, exclusions.Excluded)
	if err != nil {
		return nil, err
	}
	bytesHashed += n

	results := compare.Join(srcRecords, dstRecords)
	for _, r := range results {
		v.opts.Reporter.Result(r.Name, r.Match)
		if r.Status == compare.StatusMissing {
			v.log.WithField("name", r.Name).Warn("Hashed on one side only")
		}
	}

	return &Report{
		Source:      absSrc,
		Dest:        absDst,
		Exclusions:  exclusions,
		Results:     results,
		Summary:     compare.Summarize(results),
		BytesHashed: bytesHashed,
		Duration:    time.Since(started),
	}, nil
}

func (v *Verifier) reconcile(src, dst string) (reconcile.Result, error) {
	srcEntries, err := walker.List(src)
	if err != nil {
		return reconcile.Result{}, fmt.Errorf("list source: %w", err)
	}
	dstEntries, err := walker.List(dst)
	if err != nil {
		return reconcile.Result{}, fmt.Errorf("list destination: %w", err)
	}

	result, err := reconcile.Compute(walker.Names(srcEntries), walker.Names(dstEntries), v.opts.Excludes)
	if err != nil {
		return result, err
	}

	for _, n := range result.OnlyInSource {
		v.log.Debug("Only in source: %s", n)
	}
	for _, n := range result.OnlyInDest {
		v.log.Debug("Only in destination: %s", n)
	}
	for _, n := range result.PatternExcluded {
		v.log.Debug("Excluded by pattern: %s", n)
	}

	return result, nil
}

func (v *Verifier) hashPass(ctx context.Context, dir string, excluded reconcile.ExclusionSet) ([]hasher.FileRecord, int64, error) {
	pass, err := hasher.Plan(dir)
	if err != nil {
		return nil, 0, err
	}

	total := pass.HashableBytes(excluded)
	counter := &byteCounter{}
	var sink hasher.Progress = counter
	if v.opts.Progress != nil {
		bar := v.opts.Progress(dir, total)
		defer bar.Close()
		sink = &teeProgress{counter: counter, bar: bar}
	}

	v.log.Debug("Hashing pass over %s (%d entries, %d bytes)", dir, len(pass.Entries), total)

	records, err := v.hasher.Hash(ctx, pass, excluded, sink)
	if err != nil {
		return nil, counter.n, err
	}
	return records, counter.n, nil
}

type byteCounter struct{ n int64 }

func (c *byteCounter) AddBytes(n int64) { c.n += n }

type teeProgress struct {
	counter *byteCounter
	bar     ProgressBar
}

func (t *teeProgress) AddBytes(n int64) {
	t.counter.AddBytes(n)
	t.bar.AddBytes(n)
}
