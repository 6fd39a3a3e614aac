package api

import (
	"fmt"
	"net/http"
)

// ClipsHandler handles clip storage and inspection requests.
type ClipsHandler struct {
	responder
	deps     ClipDependencies
	maxBytes int64
}

// HandleCreate handles POST /clips requests.
func (h *ClipsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	const op = "api.create_clip"
	var req createClipRequest
	if err := decodeJSON(w, r, h.maxBytes, &req, false); err != nil {
		h.fail(r.Context(), w, op, err)
		return
	}
	if req.Clip == nil {
		h.fail(r.Context(), w, op, fmt.Errorf("missing clip: %w", ErrBadRequest))
		return
	}
	clip, err := req.Clip.decode()
	if err != nil {
		h.fail(r.Context(), w, op, err)
		return
	}
	e, err := h.deps.AddClip(r.Context(), req.Label, clip)
	if err != nil {
		h.fail(r.Context(), w, op, err)
		return
	}
	writeJSON(w, http.StatusCreated, newEntryResponse(e, false))
}

// HandleList handles GET /clips requests.
func (h *ClipsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	const op = "api.list_clips"
	clips, err := h.deps.Clips(r.Context())
	if err != nil {
		h.fail(r.Context(), w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse{Clips: clips, Count: len(clips)})
}

// HandleGet handles GET /clips/{id} requests. The frame data is included
// unless summary=true is passed.
func (h *ClipsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_clip"
	e, err := h.deps.Clip(r.Context(), r.PathValue("id"))
	if err != nil {
		h.fail(r.Context(), w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, newEntryResponse(e, r.URL.Query().Get("summary") != "true"))
}

// HandleDelete handles DELETE /clips/{id} requests.
func (h *ClipsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	const op = "api.delete_clip"
	if err := h.deps.DeleteClip(r.Context(), r.PathValue("id")); err != nil {
		h.fail(r.Context(), w, op, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleFacing handles GET /clips/{id}/facing requests. With ?frame=N the
// yaw comes from the body at frame N; with ?from=A&to=B it comes from the
// root's travel between the two frames.
func (h *ClipsHandler) HandleFacing(w http.ResponseWriter, r *http.Request) {
	const op = "api.facing"
	ctx := r.Context()
	id := r.PathValue("id")

	from, hasFrom, err := queryInt(r, "from")
	if err != nil {
		h.fail(ctx, w, op, err)
		return
	}
	to, hasTo, err := queryInt(r, "to")
	if err != nil {
		h.fail(ctx, w, op, err)
		return
	}
	if hasFrom || hasTo {
		if !hasFrom || !hasTo {
			h.fail(ctx, w, op, fmt.Errorf("from and to must be given together: %w", ErrBadRequest))
			return
		}
		yaw, err := h.deps.PathFacing(ctx, id, from, to)
		if err != nil {
			h.fail(ctx, w, op, err)
			return
		}
		writeJSON(w, http.StatusOK, facingResponse{Frame: from, To: &to, Yaw: yaw})
		return
	}

	frame, _, err := queryInt(r, "frame")
	if err != nil {
		h.fail(ctx, w, op, err)
		return
	}
	yaw, forward, err := h.deps.Facing(ctx, id, frame)
	if err != nil {
		h.fail(ctx, w, op, err)
		return
	}
	fwd := vec(forward)
	writeJSON(w, http.StatusOK, facingResponse{Frame: frame, Yaw: yaw, Forward: &fwd})
}
