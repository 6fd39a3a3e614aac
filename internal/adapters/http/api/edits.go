package api

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/okian/stride/internal/domain/blend"
	"github.com/okian/stride/internal/domain/transform"
)

// EditsHandler handles requests that derive new clips.
type EditsHandler struct {
	responder
	deps     EditDependencies
	maxBytes int64
}

// HandleReconstruct handles POST /reconstruct requests.
func (h *EditsHandler) HandleReconstruct(w http.ResponseWriter, r *http.Request) {
	const op = "api.reconstruct"
	var req reconstructRequest
	if err := decodeJSON(w, r, h.maxBytes, &req, false); err != nil {
		h.fail(r.Context(), w, op, err)
		return
	}
	e, err := h.deps.Reconstruct(r.Context(), req.Label, req.capture(), req.BakeRest)
	if err != nil {
		h.fail(r.Context(), w, op, err)
		return
	}
	writeJSON(w, http.StatusCreated, newEntryResponse(e, false))
}

// HandleBake handles POST /clips/{id}/bake requests.
func (h *EditsHandler) HandleBake(w http.ResponseWriter, r *http.Request) {
	const op = "api.bake"
	e, err := h.deps.Bake(r.Context(), r.PathValue("id"))
	if err != nil {
		h.fail(r.Context(), w, op, err)
		return
	}
	writeJSON(w, http.StatusCreated, newEntryResponse(e, false))
}

// HandleFootLock handles POST /clips/{id}/footlock requests. The body is
// optional; fields it sets override the service defaults.
func (h *EditsHandler) HandleFootLock(w http.ResponseWriter, r *http.Request) {
	const op = "api.footlock"
	var req footLockRequest
	if err := decodeJSON(w, r, h.maxBytes, &req, true); err != nil {
		h.fail(r.Context(), w, op, err)
		return
	}
	cfg := req.apply(h.deps.FootLockConfig())
	e, report, err := h.deps.RemoveFootSliding(r.Context(), r.PathValue("id"), cfg)
	if err != nil {
		h.fail(r.Context(), w, op, err)
		return
	}
	writeJSON(w, http.StatusCreated, footLockResponse{Clip: newEntryResponse(e, false), Report: report})
}

// HandleTransform handles POST /clips/{id}/transform requests.
func (h *EditsHandler) HandleTransform(w http.ResponseWriter, r *http.Request) {
	const op = "api.transform"
	var req transformRequest
	if err := decodeJSON(w, r, h.maxBytes, &req, false); err != nil {
		h.fail(r.Context(), w, op, err)
		return
	}
	top, err := transform.ParseOp(req.Op)
	if err != nil {
		h.fail(r.Context(), w, op, err)
		return
	}
	set, err := transform.ParseJointSet(req.JointSet)
	if err != nil {
		h.fail(r.Context(), w, op, err)
		return
	}
	params := transform.Params{
		Factor:     req.Factor,
		Angle:      req.Angle,
		Stride:     req.Stride,
		JointSet:   set,
		LeftToken:  req.LeftToken,
		RightToken: req.RightToken,
	}
	e, err := h.deps.Transform(r.Context(), r.PathValue("id"), top, params)
	if err != nil {
		h.fail(r.Context(), w, op, err)
		return
	}
	writeJSON(w, http.StatusCreated, newEntryResponse(e, false))
}

// HandleBlend handles POST /blend requests.
func (h *EditsHandler) HandleBlend(w http.ResponseWriter, r *http.Request) {
	const op = "api.blend"
	var req blendRequest
	if err := decodeJSON(w, r, h.maxBytes, &req, false); err != nil {
		h.fail(r.Context(), w, op, err)
		return
	}
	if err := requirePair(req.A, req.B); err != nil {
		h.fail(r.Context(), w, op, err)
		return
	}
	mode, err := blend.ParseMode(req.Mode)
	if err != nil {
		h.fail(r.Context(), w, op, err)
		return
	}
	frames := h.deps.BlendFrames()
	if req.Frames != nil {
		frames = *req.Frames
	}
	e, err := h.deps.Blend(r.Context(), req.A, req.B, mode, frames)
	if err != nil {
		h.fail(r.Context(), w, op, err)
		return
	}
	writeJSON(w, http.StatusCreated, newEntryResponse(e, false))
}

// HandleConcat handles POST /concat requests.
func (h *EditsHandler) HandleConcat(w http.ResponseWriter, r *http.Request) {
	const op = "api.concat"
	var req concatRequest
	if err := decodeJSON(w, r, h.maxBytes, &req, false); err != nil {
		h.fail(r.Context(), w, op, err)
		return
	}
	if err := requirePair(req.A, req.B); err != nil {
		h.fail(r.Context(), w, op, err)
		return
	}
	e, err := h.deps.Concat(r.Context(), req.A, req.B)
	if err != nil {
		h.fail(r.Context(), w, op, err)
		return
	}
	writeJSON(w, http.StatusCreated, newEntryResponse(e, false))
}

func requirePair(a, b string) error {
	switch {
	case strings.TrimSpace(a) == "":
		return fmt.Errorf("missing a: %w", ErrBadRequest)
	case strings.TrimSpace(b) == "":
		return fmt.Errorf("missing b: %w", ErrBadRequest)
	}
	return nil
}
