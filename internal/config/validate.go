package config

import (
	"fmt"
	"strings"
)

// Validate checks the configuration for values the service cannot run
// with.
func (c *Config) Validate() error {
	switch {
	case strings.TrimSpace(c.Addr) == "":
		return fmt.Errorf("addr must not be empty: %w", ErrInvalidConfig)
	case c.LogFormat != "text" && c.LogFormat != "json":
		return fmt.Errorf("log_format %q: %w", c.LogFormat, ErrInvalidConfig)
	case c.WorkerCount < 1:
		return fmt.Errorf("worker_count %d: %w", c.WorkerCount, ErrInvalidConfig)
	case c.ClipStoreSize < 0:
		return fmt.Errorf("clip_store_size %d: %w", c.ClipStoreSize, ErrInvalidConfig)
	case c.MaxRequestBytes < 1:
		return fmt.Errorf("max_request_bytes %d: %w", c.MaxRequestBytes, ErrInvalidConfig)
	case !(c.DefaultFrameTime > 0):
		return fmt.Errorf("default_frame_time %v: %w", c.DefaultFrameTime, ErrInvalidConfig)
	case c.Facing().Norm() == 0:
		return fmt.Errorf("facing must not be zero: %w", ErrInvalidConfig)
	case c.BlendFrames < 0:
		return fmt.Errorf("blend_frames %d: %w", c.BlendFrames, ErrInvalidConfig)
	case c.BlendSubsteps < 1:
		return fmt.Errorf("blend_substeps %d: %w", c.BlendSubsteps, ErrInvalidConfig)
	case !(c.BlendDecayFraction > 0 && c.BlendDecayFraction < 1):
		return fmt.Errorf("blend_decay_fraction %v: %w", c.BlendDecayFraction, ErrInvalidConfig)
	case c.MirrorLeftToken == "" || c.MirrorRightToken == "" || c.MirrorLeftToken == c.MirrorRightToken:
		return fmt.Errorf("mirror tokens %q/%q: %w", c.MirrorLeftToken, c.MirrorRightToken, ErrInvalidConfig)
	case c.ForwardLeftHip == "" || c.ForwardRightHip == "":
		return fmt.Errorf("forward hips must be set: %w", ErrInvalidConfig)
	}
	if err := c.FootLock().Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}
