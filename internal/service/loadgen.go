package service

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"sync/atomic"
	"time"

	"github.com/artiops/artifactory-automation/internal/client"
	"github.com/artiops/artifactory-automation/internal/pool"
	"github.com/artiops/artifactory-automation/internal/utils"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SizePlanner draws file sizes that sum toward a total while staying inside
// [min, max]. Each draw steers the running average back toward the target
// average: draws go low while the average is above target and high while it
// is below.
type SizePlanner struct {
	count     int
	totalSize int64
	minSize   int64
	maxSize   int64

	generated int
	sizeSoFar int64
	rng       *rand.Rand
}

// NewSizePlanner creates a planner for count files totalling roughly
// totalSize bytes, each between minSize and maxSize.
func NewSizePlanner(count int, totalSize, minSize, maxSize int64, seed int64) *SizePlanner {
	return &SizePlanner{
		count:     count,
		totalSize: totalSize,
		minSize:   minSize,
		maxSize:   maxSize,
		rng:       rand.New(rand.NewSource(seed)),
	}
}

// Next returns the size for the next file.
func (p *SizePlanner) Next() int64 {
	target := p.totalSize / int64(p.count)
	if target < p.minSize {
		target = p.minSize
	}
	if target > p.maxSize {
		target = p.maxSize
	}

	var avg int64
	if p.generated > 0 {
		avg = p.sizeSoFar / int64(p.generated)
	}

	upper := p.maxSize
	if remain := p.totalSize - p.sizeSoFar; remain < upper {
		upper = remain
	}
	if upper < p.minSize {
		upper = p.minSize
	}

	var n int64
	if avg > target {
		// Running hot: draw from the low end to pull the average down.
		high := avg
		if high > upper {
			high = upper
		}
		n = p.randBetween(p.minSize, high)
	} else {
		// Running cold or on target: draw from the high end.
		low := avg
		if low < p.minSize {
			low = p.minSize
		}
		if low > upper {
			low = upper
		}
		n = p.randBetween(low, upper)
	}

	p.generated++
	p.sizeSoFar += n
	return n
}

func (p *SizePlanner) randBetween(low, high int64) int64 {
	if high <= low {
		return low
	}
	return low + p.rng.Int63n(high-low+1)
}

// LoadOptions control one load generation run.
type LoadOptions struct {
	Repository string
	Count      int
	TotalSize  int64
	MinSize    int64
	MaxSize    int64
	// Properties are matrix parameters appended to every uploaded path,
	// e.g. {"env": "qa", "shortsha": "0a1b2c3"}. Map iteration order does
	// not matter to the server, but paths are built with sorted keys so dry
	// runs are reproducible.
	Properties map[string]string
	// Seed fixes the size sequence; zero seeds from the clock.
	Seed int64
}

// UploadPlan is one planned upload: a generated path and how many random
// bytes to send.
type UploadPlan struct {
	Path string
	Size int64
}

// LoadSummary reports a load generation run.
type LoadSummary struct {
	Planned  int
	Uploaded int64
	Failed   int64
	Bytes    int64
}

// LoadGenerator uploads synthetic binaries with realistic size distribution
// into a repository, spread over uuid-sharded directories.
type LoadGenerator struct {
	arti    client.ArtifactoryClient
	workers int
	dryRun  bool
}

// NewLoadGenerator creates a new LoadGenerator instance.
func NewLoadGenerator(arti client.ArtifactoryClient, workers int, dryRun bool) *LoadGenerator {
	return &LoadGenerator{arti: arti, workers: workers, dryRun: dryRun}
}

// PlanUploads builds the upload plan for a run: sizes from the planner and
// paths sharded by uuid so the load spreads across the repository tree.
func PlanUploads(opts LoadOptions) []UploadPlan {
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	planner := NewSizePlanner(opts.Count, opts.TotalSize, opts.MinSize, opts.MaxSize, seed)

	props := utils.SortedMatrixParams(opts.Properties)
	plans := make([]UploadPlan, 0, opts.Count)
	for i := 0; i < opts.Count; i++ {
		id := uuid.New()
		hex := id.String()
		// Shard by the first five hex bytes: aa/bb/cc/dd/ee/<uuid>.bin.
		path := fmt.Sprintf("%s/%s/%s/%s/%s/%s/%s.bin%s",
			opts.Repository,
			hex[0:2], hex[2:4], hex[4:6], hex[6:8], hex[9:11],
			hex, props)
		plans = append(plans, UploadPlan{Path: path, Size: planner.Next()})
	}
	return plans
}

// Run plans and performs the uploads, logging throughput every 15 seconds
// until the pool drains. Cancelling ctx stops the workers after their
// in-flight uploads finish.
func (g *LoadGenerator) Run(ctx context.Context, opts LoadOptions) (*LoadSummary, error) {
	log := utils.WithComponent("loadgen")

	plans := PlanUploads(opts)
	log.Info("Planned uploads",
		zap.String(utils.FieldRepo, opts.Repository),
		zap.Int("count", len(plans)),
		zap.Int64("total_size", opts.TotalSize))

	queue := pool.NewQueue[UploadPlan]()
	for _, p := range plans {
		queue.Push(p)
	}

	var uploaded, failed, bytes atomic.Int64
	action := func(p UploadPlan) error {
		if g.dryRun {
			log.Info("Dry run: would upload",
				zap.String(utils.FieldPath, p.Path),
				zap.Int64("size", p.Size))
			uploaded.Add(1)
			return nil
		}
		body := newRandomReader(p.Size)
		if err := g.arti.UploadArtifact(p.Path, body); err != nil {
			failed.Add(1)
			return fmt.Errorf("upload '%s': %w", p.Path, err)
		}
		uploaded.Add(1)
		bytes.Add(p.Size)
		return nil
	}

	workers, err := pool.New(g.workers, queue, action)
	if err != nil {
		return nil, fmt.Errorf("load generation: %w", err)
	}
	workers.Start()

	done := make(chan struct{})
	go func() {
		workers.Wait()
		close(done)
	}()

	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()
	ctxDone := ctx.Done()
	for {
		select {
		case <-done:
			summary := &LoadSummary{
				Planned:  len(plans),
				Uploaded: uploaded.Load(),
				Failed:   failed.Load(),
				Bytes:    bytes.Load(),
			}
			log.Info("Load generation finished",
				zap.Int("planned", summary.Planned),
				zap.Int64("uploaded", summary.Uploaded),
				zap.Int64("failed", summary.Failed),
				zap.Int64("bytes", summary.Bytes))
			return summary, ctx.Err()
		case <-ctxDone:
			workers.RequestStop()
			ctxDone = nil
		case <-ticker.C:
			log.Info("Upload progress",
				zap.Int64("uploaded", uploaded.Load()),
				zap.Int("planned", len(plans)),
				zap.Int64("bytes", bytes.Load()))
		}
	}
}

// randomReader streams n pseudo-random bytes. Each reader owns its source
// so concurrent uploads do not contend on a shared lock.
type randomReader struct {
	remaining int64
	rng       *rand.Rand
}

func newRandomReader(n int64) io.Reader {
	return &randomReader{remaining: n, rng: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

func (r *randomReader) Read(p []byte) (int, error) {
	if r.remaining <= 0 {
		return 0, io.EOF
	}
	if int64(len(p)) > r.remaining {
		p = p[:r.remaining]
	}
	n, err := r.rng.Read(p)
	r.remaining -= int64(n)
	return n, err
}
