package testclips

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/golang/geo/r3"
	"github.com/okian/stride/internal/domain/motion"
	"github.com/okian/stride/pkg/logger"
)

// ErrVerification is returned when the service state does not match what
// the run submitted.
var ErrVerification = errors.New("verification failed")

// Run executes the complete clip test.
func Run(ctx context.Context, config *Config) error {
	stats := &Stats{
		StartTime: time.Now(),
	}
	log := logger.Get().Named("testclips")

	log.Info(ctx, "starting stride clip test",
		logger.String("baseURL", config.BaseURL),
		logger.Int("clips", config.NumClips),
		logger.Int("frames", config.Frames),
		logger.String("mode", config.BlendMode),
		logger.Int("workers", config.Workers),
		logger.String("timeout", config.Timeout.String()))

	client := NewHTTPClient(config.BaseURL, config.Timeout)

	// Step 1: Check service health
	if err := checkServiceHealth(ctx, client); err != nil {
		return fmt.Errorf("service health check failed: %w", err)
	}

	// Step 2: Generate clips
	payloads, err := GeneratePayloads(config.NumClips, config.Frames)
	if err != nil {
		return fmt.Errorf("clip generation failed: %w", err)
	}
	stats.ClipsGenerated = len(payloads)

	// Step 3: Reconstruct them on the service
	ids := reconstructClips(ctx, client, config, payloads, stats)

	// Step 4: Lock feet
	locked := footLockClips(ctx, client, config, ids, stats)

	// Step 5: Stitch consecutive clips
	blendClips(ctx, client, config, locked, stats)

	// Step 6: Verify the store
	if err := verifyStore(ctx, client, stats); err != nil {
		return fmt.Errorf("result verification failed: %w", err)
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	displayFinalStats(stats)

	log.Info(ctx, "test completed successfully")
	return nil
}

// GeneratePayloads builds n reconstruct requests from walks with varied
// phase and heading.
func GeneratePayloads(n, frames int) ([]ReconstructPayload, error) {
	out := make([]ReconstructPayload, n)
	for i := range out {
		c, err := Walk(frames,
			WithPhase(float64(i)*phaseStep),
			WithHeading(float64(i)*headingStep),
		)
		if err != nil {
			return nil, fmt.Errorf("walk %d: %w", i, err)
		}
		out[i] = NewReconstructPayload("walk-"+strconv.Itoa(i), c)
	}
	return out, nil
}

// NewReconstructPayload converts c into tracked positions plus its rest
// pose, the way a motion capture export hands them over: a leading rest
// frame followed by the take.
func NewReconstructPayload(label string, c *motion.Clip) ReconstructPayload {
	rest := toArrays(Rest(c.Skeleton))
	p := ReconstructPayload{
		Label:     label,
		Names:     c.Skeleton.Names(),
		Parents:   c.Skeleton.Parents(),
		Rest:      rest,
		Positions: [][][3]float64{rest},
		FrameTime: c.FrameTime,
	}
	for _, frame := range Positions(c) {
		p.Positions = append(p.Positions, toArrays(frame))
	}
	return p
}

func toArrays(vs []r3.Vector) [][3]float64 {
	out := make([][3]float64, len(vs))
	for i, v := range vs {
		out[i] = [3]float64{v.X, v.Y, v.Z}
	}
	return out
}

// checkServiceHealth verifies the service is running.
func checkServiceHealth(ctx context.Context, client *HTTPClient) error {
	if _, err := client.Get(ctx, "/healthz", nil); err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	logger.Get().Info(ctx, "service is healthy")
	return nil
}

// fanOut runs fn for every index on config.Workers goroutines.
func fanOut(ctx context.Context, config *Config, n int, fn func(i int)) {
	workers := max(1, min(config.Workers, n))
	jobs := make(chan int, workers*WorkerChannelMultiplier)
	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				if ctx.Err() != nil {
					return
				}
				fn(i)
			}
		}()
	}
	go func() {
		defer close(jobs)
		for i := range n {
			select {
			case <-ctx.Done():
				return
			case jobs <- i:
			}
		}
	}()
	wg.Wait()
}

// reconstructClips posts every payload and returns the stored ids in
// payload order. Failed slots are left empty.
func reconstructClips(ctx context.Context, client *HTTPClient, config *Config, payloads []ReconstructPayload, stats *Stats) []string {
	ids := make([]string, len(payloads))
	var stored, failed, frames int64
	fanOut(ctx, config, len(payloads), func(i int) {
		var res ClipSummary
		if _, err := client.Post(ctx, "/reconstruct", payloads[i], &res); err != nil {
			atomic.AddInt64(&failed, 1)
			logger.Get().Warn(ctx, "reconstruct failed", logger.String("label", payloads[i].Label), logger.Error(err))
			return
		}
		ids[i] = res.ID
		atomic.AddInt64(&stored, 1)
		atomic.AddInt64(&frames, int64(res.Frames))
		logger.Get().Debug(ctx, "clip reconstructed", logger.String("id", res.ID), logger.Int("frames", res.Frames))
	})
	stats.ClipsStored = int(stored)
	stats.ClipsFailed = int(failed)
	stats.FramesSubmitted = int(frames)
	logger.Get().Info(ctx, "reconstruction completed",
		logger.Int("stored", stats.ClipsStored),
		logger.Int("failed", stats.ClipsFailed))
	return ids
}

func footLockClips(ctx context.Context, client *HTTPClient, config *Config, ids []string, stats *Stats) []string {
	locked := make([]string, len(ids))
	var ok, runs, unconverged int64
	fanOut(ctx, config, len(ids), func(i int) {
		if ids[i] == "" {
			return
		}
		var res FootLockResult
		if _, err := client.Post(ctx, "/clips/"+ids[i]+"/footlock", struct{}{}, &res); err != nil {
			logger.Get().Warn(ctx, "foot lock failed", logger.String("id", ids[i]), logger.Error(err))
			return
		}
		locked[i] = res.Clip.ID
		atomic.AddInt64(&ok, 1)
		atomic.AddInt64(&runs, int64(len(res.Report.LeftRuns)+len(res.Report.RightRuns)))
		atomic.AddInt64(&unconverged, int64(res.Report.Unconverged))
	})
	stats.FootLocked = int(ok)
	stats.ContactRuns = int(runs)
	stats.Unconverged = int(unconverged)
	logger.Get().Info(ctx, "foot locking completed",
		logger.Int("locked", stats.FootLocked),
		logger.Int("contactRuns", stats.ContactRuns),
		logger.Int("unconverged", stats.Unconverged))
	return locked
}

func blendClips(ctx context.Context, client *HTTPClient, config *Config, ids []string, stats *Stats) {
	if len(ids) < 2 {
		return
	}
	var ok, failed int64
	fanOut(ctx, config, len(ids)-1, func(i int) {
		if ids[i] == "" || ids[i+1] == "" {
			return
		}
		body := BlendPayload{A: ids[i], B: ids[i+1], Mode: config.BlendMode}
		if _, err := client.Post(ctx, "/blend", body, &ClipSummary{}); err != nil {
			atomic.AddInt64(&failed, 1)
			logger.Get().Warn(ctx, "blend failed", logger.String("a", ids[i]), logger.String("b", ids[i+1]), logger.Error(err))
			return
		}
		atomic.AddInt64(&ok, 1)
	})
	stats.Blends = int(ok)
	stats.BlendsFailed = int(failed)
}

// verifyStore checks that every clip the run created is listed.
func verifyStore(ctx context.Context, client *HTTPClient, stats *Stats) error {
	var list ClipList
	if _, err := client.Get(ctx, "/clips", &list); err != nil {
		return err
	}
	stats.ClipsListed = list.Count
	want := stats.ClipsStored + stats.FootLocked + stats.Blends
	if list.Count < want {
		return fmt.Errorf("store lists %d clips, run created %d: %w", list.Count, want, ErrVerification)
	}
	return nil
}

// displayFinalStats logs the final test statistics.
func displayFinalStats(stats *Stats) {
	var successRate, framesPerSecond float64

	if stats.ClipsGenerated > 0 {
		successRate = float64(stats.ClipsStored) / float64(stats.ClipsGenerated) * PercentageMultiplier
	}
	if stats.Duration > 0 {
		framesPerSecond = float64(stats.FramesSubmitted) / stats.Duration.Seconds()
	}

	logger.Get().Info(context.Background(), "final statistics",
		logger.Int("clipsGenerated", stats.ClipsGenerated),
		logger.Int("clipsStored", stats.ClipsStored),
		logger.Int("clipsFailed", stats.ClipsFailed),
		logger.Int("footLocked", stats.FootLocked),
		logger.Int("contactRuns", stats.ContactRuns),
		logger.Int("unconverged", stats.Unconverged),
		logger.Int("blends", stats.Blends),
		logger.Int("blendsFailed", stats.BlendsFailed),
		logger.Int("clipsListed", stats.ClipsListed),
		logger.String("duration", stats.Duration.String()),
		logger.Float64("successRate", successRate),
		logger.Float64("framesPerSecond", framesPerSecond))
}
