// Package repository keeps clips and their edit histories in memory.
package repository

import (
	"context"
	"time"

	"github.com/okian/stride/internal/domain/motion"
)

// Entry is a stored clip with the operations that produced it.
type Entry struct {
	ID        string
	Label     string
	Parent    string
	Clip      *motion.Clip
	History   motion.History
	CreatedAt time.Time
}

// Summary describes an entry without its buffers.
type Summary struct {
	ID        string    `json:"id"`
	Label     string    `json:"label,omitempty"`
	Parent    string    `json:"parent,omitempty"`
	Frames    int       `json:"frames"`
	Joints    int       `json:"joints"`
	FrameTime float64   `json:"frame_time"`
	Ops       []string  `json:"ops"`
	CreatedAt time.Time `json:"created_at"`
}

// Store provides read/write access to stored clips.
type Store interface {
	// Put stores e under a fresh id and returns the stored entry.
	// Returns ErrStoreFull when the capacity is reached.
	Put(ctx context.Context, e Entry) (Entry, error)

	// Get returns the entry for id. Returns ErrNotFound if unknown.
	Get(ctx context.Context, id string) (Entry, error)

	// Delete removes id. Returns ErrNotFound if unknown.
	Delete(ctx context.Context, id string) error

	// List returns summaries ordered by creation time.
	List(ctx context.Context) []Summary

	// Count returns the number of stored clips.
	Count(ctx context.Context) int
}

// Summarize describes an entry without its frame data.
func Summarize(e Entry) Summary {
	ops := make([]string, 0, len(e.History))
	for _, op := range e.History.Ops() {
		ops = append(ops, op.String())
	}
	return Summary{
		ID:        e.ID,
		Label:     e.Label,
		Parent:    e.Parent,
		Frames:    e.Clip.Frames(),
		Joints:    e.Clip.Joints(),
		FrameTime: e.Clip.FrameTime,
		Ops:       ops,
		CreatedAt: e.CreatedAt,
	}
}
