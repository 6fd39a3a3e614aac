package service

import (
	"context"
	"fmt"
	"time"

	"github.com/golang/geo/r3"
	repository "github.com/okian/stride/internal/adapters/repository"
	"github.com/okian/stride/internal/domain/blend"
	"github.com/okian/stride/internal/domain/footlock"
	"github.com/okian/stride/internal/domain/motion"
	"github.com/okian/stride/internal/domain/reconstruct"
	"github.com/okian/stride/internal/domain/transform"
	"github.com/okian/stride/pkg/logger"
	"github.com/okian/stride/pkg/metrics"
)

// AddClip validates and stores an imported clip.
func (s *Service) AddClip(ctx context.Context, label string, c *motion.Clip) (repository.Entry, error) {
	const op = "import"
	start := time.Now()
	store, _, err := s.deps()
	if err != nil {
		return repository.Entry{}, err
	}
	if c == nil {
		return repository.Entry{}, fmt.Errorf("import: no clip: %w", ErrInvalidRequest)
	}
	e, err := s.addClip(ctx, store, label, c)
	s.observe(ctx, op, start, c.Frames(), err)
	return e, err
}

func (s *Service) addClip(ctx context.Context, store repository.Store, label string, c *motion.Clip) (repository.Entry, error) {
	if err := c.Validate(); err != nil {
		return repository.Entry{}, wrapOp("import", err)
	}
	out := c.Clone()
	out.Normalize()
	out.EnforceSignContinuity()
	rec := motion.NewRecord(motion.OpImport, map[string]any{
		"frames": out.Frames(),
		"joints": out.Joints(),
	})
	return store.Put(ctx, repository.Entry{Label: label, Clip: out, History: motion.History{rec}})
}

// Clip returns a stored clip.
func (s *Service) Clip(ctx context.Context, id string) (repository.Entry, error) {
	store, _, err := s.deps()
	if err != nil {
		return repository.Entry{}, err
	}
	return store.Get(ctx, id)
}

// Clips lists stored clips.
func (s *Service) Clips(ctx context.Context) ([]repository.Summary, error) {
	store, _, err := s.deps()
	if err != nil {
		return nil, err
	}
	return store.List(ctx), nil
}

// DeleteClip removes a stored clip.
func (s *Service) DeleteClip(ctx context.Context, id string) error {
	store, _, err := s.deps()
	if err != nil {
		return err
	}
	if err := store.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info(ctx, "clip deleted", logger.String("id", id))
	return nil
}

// Reconstruct derives local rotations from tracked positions and stores
// the resulting clip. With bakeRest the result is re-expressed with its
// first frame as the rest pose.
func (s *Service) Reconstruct(ctx context.Context, label string, capture reconstruct.Capture, bakeRest bool) (entry repository.Entry, err error) {
	const op = "reconstruct"
	start := time.Now()
	store, pool, err := s.deps()
	if err != nil {
		return repository.Entry{}, err
	}
	defer func() { s.observe(ctx, op, start, len(capture.Positions), err) }()

	if capture.FrameTime <= 0 {
		capture.FrameTime = s.frameTime
	}
	opts := []reconstruct.Option{
		reconstruct.WithInitialFacing(s.facing),
		reconstruct.WithRunner(pool),
	}
	clip, rec, err := reconstruct.FromCapture(ctx, capture, opts...)
	if err != nil {
		return repository.Entry{}, wrapOp(op, err)
	}
	history := motion.History{rec}
	if bakeRest {
		baked, bakeRec, err := reconstruct.BakeFirstFrameAsRest(ctx, clip, opts...)
		if err != nil {
			return repository.Entry{}, wrapOp(op, err)
		}
		clip = baked
		history = history.Append(bakeRec)
	}
	return store.Put(ctx, repository.Entry{Label: label, Clip: clip, History: history})
}

// Bake re-expresses a stored clip with its first frame as the rest pose.
func (s *Service) Bake(ctx context.Context, id string) (entry repository.Entry, err error) {
	const op = "bake_rest"
	start := time.Now()
	store, pool, err := s.deps()
	if err != nil {
		return repository.Entry{}, err
	}
	parent, err := store.Get(ctx, id)
	if err != nil {
		return repository.Entry{}, err
	}
	defer func() { s.observe(ctx, op, start, parent.Clip.Frames(), err) }()

	clip, rec, err := reconstruct.BakeFirstFrameAsRest(ctx, parent.Clip,
		reconstruct.WithInitialFacing(s.facing),
		reconstruct.WithRunner(pool),
	)
	if err != nil {
		return repository.Entry{}, wrapOp(op, err)
	}
	return s.derive(ctx, store, parent, clip, rec)
}

// RemoveFootSliding locks the feet of a stored clip during ground contact.
func (s *Service) RemoveFootSliding(ctx context.Context, id string, cfg footlock.Config) (entry repository.Entry, report footlock.Report, err error) {
	const op = "foot_lock"
	start := time.Now()
	store, pool, err := s.deps()
	if err != nil {
		return repository.Entry{}, footlock.Report{}, err
	}
	parent, err := store.Get(ctx, id)
	if err != nil {
		return repository.Entry{}, footlock.Report{}, err
	}
	defer func() { s.observe(ctx, op, start, parent.Clip.Frames(), err) }()

	clip, recs, report, err := footlock.RemoveFootSliding(ctx, parent.Clip, cfg, footlock.WithRunner(pool))
	if err != nil {
		return repository.Entry{}, footlock.Report{}, wrapOp(op, err)
	}

	metrics.RecordContactRuns("left", len(report.LeftRuns))
	metrics.RecordContactRuns("right", len(report.RightRuns))
	for _, it := range report.Iterations {
		metrics.RecordFabrikIterations(it[0])
		metrics.RecordFabrikIterations(it[1])
	}
	if report.Unconverged > 0 {
		s.logger.Warn(ctx, "foot lock left legs unconverged",
			logger.String("id", id),
			logger.Int("unconverged", report.Unconverged),
			logger.Int("maxIterations", cfg.MaxIterations),
		)
	}

	entry, err = s.derive(ctx, store, parent, clip, recs...)
	return entry, report, err
}

// Transform applies a single-clip transform. Empty mirror tokens fall back
// to the configured defaults.
func (s *Service) Transform(ctx context.Context, id string, top transform.Op, p transform.Params) (entry repository.Entry, err error) {
	op := top.String()
	start := time.Now()
	store, _, err := s.deps()
	if err != nil {
		return repository.Entry{}, err
	}
	parent, err := store.Get(ctx, id)
	if err != nil {
		return repository.Entry{}, err
	}
	defer func() { s.observe(ctx, op, start, parent.Clip.Frames(), err) }()

	if p.LeftToken == "" && p.RightToken == "" {
		p.LeftToken, p.RightToken = s.mirrorLeft, s.mirrorRight
	}
	clip, rec, err := transform.Apply(parent.Clip, top, p)
	if err != nil {
		return repository.Entry{}, wrapOp(op, err)
	}
	return s.derive(ctx, store, parent, clip, rec)
}

// Blend stitches clip b after clip a. The result inherits a's history.
func (s *Service) Blend(ctx context.Context, aID, bID string, mode blend.Mode, frames int) (entry repository.Entry, err error) {
	op := mode.Op().String()
	start := time.Now()
	store, _, err := s.deps()
	if err != nil {
		return repository.Entry{}, err
	}
	a, b, err := getPair(ctx, store, aID, bID)
	if err != nil {
		return repository.Entry{}, err
	}
	defer func() { s.observe(ctx, op, start, a.Clip.Frames()+b.Clip.Frames(), err) }()

	clip, rec, err := blend.Blend(a.Clip, b.Clip, mode, frames,
		blend.WithSubsteps(s.blendSubsteps),
		blend.WithDecayFraction(s.decayFraction),
	)
	if err != nil {
		return repository.Entry{}, wrapOp(op, err)
	}
	rec.Params["b"] = bID
	return s.derive(ctx, store, a, clip, rec)
}

// Concat appends clip b to clip a after turning and moving b so it starts
// where and how a ends.
func (s *Service) Concat(ctx context.Context, aID, bID string) (entry repository.Entry, err error) {
	const op = "align_concat"
	start := time.Now()
	store, _, err := s.deps()
	if err != nil {
		return repository.Entry{}, err
	}
	a, b, err := getPair(ctx, store, aID, bID)
	if err != nil {
		return repository.Entry{}, err
	}
	defer func() { s.observe(ctx, op, start, a.Clip.Frames()+b.Clip.Frames(), err) }()

	clip, rec, err := transform.AlignConcat(a.Clip, b.Clip, s.facing)
	if err != nil {
		return repository.Entry{}, wrapOp(op, err)
	}
	rec.Params["b"] = bID
	return s.derive(ctx, store, a, clip, rec)
}

// Facing reports the facing yaw of a stored clip at frame f, estimated
// from the configured shoulder and hip joints.
func (s *Service) Facing(ctx context.Context, id string, f int) (float64, r3.Vector, error) {
	store, _, err := s.deps()
	if err != nil {
		return 0, r3.Vector{}, err
	}
	e, err := store.Get(ctx, id)
	if err != nil {
		return 0, r3.Vector{}, err
	}
	return transform.ExtractForward(e.Clip, f, s.forward)
}

// PathFacing reports the yaw of the root's horizontal travel between two
// frames of a stored clip.
func (s *Service) PathFacing(ctx context.Context, id string, from, to int) (float64, error) {
	store, _, err := s.deps()
	if err != nil {
		return 0, err
	}
	e, err := store.Get(ctx, id)
	if err != nil {
		return 0, err
	}
	return transform.ExtractPathForward(e.Clip, from, to)
}

func getPair(ctx context.Context, store repository.Store, aID, bID string) (repository.Entry, repository.Entry, error) {
	a, err := store.Get(ctx, aID)
	if err != nil {
		return repository.Entry{}, repository.Entry{}, err
	}
	b, err := store.Get(ctx, bID)
	if err != nil {
		return repository.Entry{}, repository.Entry{}, err
	}
	return a, b, nil
}

// derive stores clip as a child of parent, extending its history.
func (s *Service) derive(ctx context.Context, store repository.Store, parent repository.Entry, clip *motion.Clip, recs ...motion.Record) (repository.Entry, error) {
	e, err := store.Put(ctx, repository.Entry{
		Label:   parent.Label,
		Parent:  parent.ID,
		Clip:    clip,
		History: parent.History.Append(recs...),
	})
	if err != nil {
		return repository.Entry{}, fmt.Errorf("store result: %w", err)
	}
	return e, nil
}
