// Package config defines service configuration structures and loading hooks.
//
// Keys are flat so that every field can be set from a YAML file or a
// STRIDE_-prefixed environment variable with the same name.
package config

import (
	"runtime"

	"github.com/golang/geo/r3"
	"github.com/okian/stride/internal/domain/footlock"
	"github.com/okian/stride/internal/domain/transform"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`
	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// WorkerCount sets the number of goroutines solving frames in parallel.
	WorkerCount int `koanf:"worker_count"`

	// ClipStoreSize bounds the number of stored clips. Zero is unbounded.
	ClipStoreSize int `koanf:"clip_store_size"`

	// MaxRequestBytes caps HTTP request bodies.
	MaxRequestBytes int64 `koanf:"max_request_bytes"`

	// DefaultFrameTime applies to reconstruct requests without frame_time.
	DefaultFrameTime float64 `koanf:"default_frame_time"`

	// Facing is the rest-pose facing direction used to resolve twist.
	FacingX float64 `koanf:"facing_x"`
	FacingY float64 `koanf:"facing_y"`
	FacingZ float64 `koanf:"facing_z"`

	FootLockLeftFoot         string  `koanf:"footlock_left_foot"`
	FootLockRightFoot        string  `koanf:"footlock_right_foot"`
	FootLockAvgFactor        float64 `koanf:"footlock_avg_factor"`
	FootLockMinContactFrames int     `koanf:"footlock_min_contact_frames"`
	FootLockContactSigma     float64 `koanf:"footlock_contact_sigma"`
	FootLockFixBarycenter    bool    `koanf:"footlock_fix_barycenter"`
	FootLockBarycenterSigma  float64 `koanf:"footlock_barycenter_sigma"`
	FabrikMaxIterations      int     `koanf:"fabrik_max_iterations"`
	FabrikTolerance          float64 `koanf:"fabrik_tolerance"`

	// BlendFrames is the default blend window.
	BlendFrames int `koanf:"blend_frames"`
	// BlendSubsteps splits each frame of the inertial spring update.
	BlendSubsteps int `koanf:"blend_substeps"`
	// BlendDecayFraction is the share of the initial offset left at the
	// end of an inertial blend window.
	BlendDecayFraction float64 `koanf:"blend_decay_fraction"`

	MirrorLeftToken  string `koanf:"mirror_left_token"`
	MirrorRightToken string `koanf:"mirror_right_token"`

	ForwardLeftShoulder  string `koanf:"forward_left_shoulder"`
	ForwardRightShoulder string `koanf:"forward_right_shoulder"`
	ForwardLeftHip       string `koanf:"forward_left_hip"`
	ForwardRightHip      string `koanf:"forward_right_hip"`
}

// New creates a Config holding the defaults.
func New() *Config {
	fl := footlock.DefaultConfig()
	return &Config{
		LogLevel:         "info",
		LogFormat:        "text",
		Addr:             ":9080",
		WorkerCount:      runtime.NumCPU(),
		ClipStoreSize:    1024,
		MaxRequestBytes:  64 << 20,
		DefaultFrameTime: 1.0 / 30,
		FacingZ:          1,

		FootLockLeftFoot:         "LeftFoot",
		FootLockRightFoot:        "RightFoot",
		FootLockAvgFactor:        fl.AvgFactor,
		FootLockMinContactFrames: fl.MinContactFrames,
		FootLockContactSigma:     fl.ContactSigma,
		FootLockFixBarycenter:    fl.FixBarycenter,
		FootLockBarycenterSigma:  fl.BarycenterSigma,
		FabrikMaxIterations:      fl.MaxIterations,
		FabrikTolerance:          fl.Tolerance,

		BlendFrames:        20,
		BlendSubsteps:      1,
		BlendDecayFraction: 1.0 / 64,

		MirrorLeftToken:  "Left",
		MirrorRightToken: "Right",

		ForwardLeftShoulder:  "LeftShoulder",
		ForwardRightShoulder: "RightShoulder",
		ForwardLeftHip:       "LeftUpLeg",
		ForwardRightHip:      "RightUpLeg",
	}
}

// Facing returns the configured rest-pose facing direction.
func (c *Config) Facing() r3.Vector {
	return r3.Vector{X: c.FacingX, Y: c.FacingY, Z: c.FacingZ}
}

// FootLock returns the foot locking configuration.
func (c *Config) FootLock() footlock.Config {
	return footlock.Config{
		LeftFoot:         c.FootLockLeftFoot,
		RightFoot:        c.FootLockRightFoot,
		AvgFactor:        c.FootLockAvgFactor,
		MinContactFrames: c.FootLockMinContactFrames,
		ContactSigma:     c.FootLockContactSigma,
		FixBarycenter:    c.FootLockFixBarycenter,
		BarycenterSigma:  c.FootLockBarycenterSigma,
		MaxIterations:    c.FabrikMaxIterations,
		Tolerance:        c.FabrikTolerance,
	}
}

// Forward returns the joints used to estimate facing.
func (c *Config) Forward() transform.ForwardJoints {
	return transform.ForwardJoints{
		LeftShoulder:  c.ForwardLeftShoulder,
		RightShoulder: c.ForwardRightShoulder,
		LeftHip:       c.ForwardLeftHip,
		RightHip:      c.ForwardRightHip,
	}
}
