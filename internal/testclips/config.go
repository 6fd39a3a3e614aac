package testclips

import "time"

// Config holds configuration for the clip load test.
type Config struct {
	BaseURL   string        // Base URL of the service
	NumClips  int           // Number of walking clips to reconstruct
	Frames    int           // Frames per generated clip
	BlendMode string        // Blend mode used to stitch consecutive clips
	Workers   int           // Number of concurrent workers
	Timeout   time.Duration // HTTP request timeout
	LogFile   string        // Log file for test output
	Verbose   bool          // Enable verbose logging
}

// ReconstructPayload is the body of POST /reconstruct.
type ReconstructPayload struct {
	Label     string         `json:"label"`
	Names     []string       `json:"names"`
	Parents   []int          `json:"parents"`
	Rest      [][3]float64   `json:"rest"`
	Positions [][][3]float64 `json:"positions"`
	FrameTime float64        `json:"frame_time"`
	BakeRest  bool           `json:"bake_rest,omitempty"`
}

// BlendPayload is the body of POST /blend.
type BlendPayload struct {
	A      string `json:"a"`
	B      string `json:"b"`
	Mode   string `json:"mode"`
	Frames *int   `json:"frames,omitempty"`
}

// ClipSummary mirrors the stored clip summary returned by the service.
type ClipSummary struct {
	ID     string   `json:"id"`
	Label  string   `json:"label"`
	Parent string   `json:"parent"`
	Frames int      `json:"frames"`
	Joints int      `json:"joints"`
	Ops    []string `json:"ops"`
}

// FootLockResult is the response of POST /clips/{id}/footlock.
type FootLockResult struct {
	Clip   ClipSummary `json:"clip"`
	Report struct {
		LeftRuns    []ContactRun `json:"left_runs"`
		RightRuns   []ContactRun `json:"right_runs"`
		Unconverged int          `json:"unconverged"`
	} `json:"report"`
}

// ContactRun is a contact run as reported by the service.
type ContactRun struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// ClipList is the response of GET /clips.
type ClipList struct {
	Clips []ClipSummary `json:"clips"`
	Count int           `json:"count"`
}

// Stats holds test statistics.
type Stats struct {
	ClipsGenerated  int
	ClipsStored     int
	ClipsFailed     int
	FootLocked      int
	ContactRuns     int
	Unconverged     int
	Blends          int
	BlendsFailed    int
	FramesSubmitted int
	ClipsListed     int
	StartTime       time.Time
	EndTime         time.Time
	Duration        time.Duration
}
