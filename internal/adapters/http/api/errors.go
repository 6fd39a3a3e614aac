package api

import (
	"context"
	"errors"
	"net/http"

	repository "github.com/okian/stride/internal/adapters/repository"
	"github.com/okian/stride/internal/domain/blend"
	"github.com/okian/stride/internal/domain/footlock"
	"github.com/okian/stride/internal/domain/motion"
	"github.com/okian/stride/internal/domain/reconstruct"
	"github.com/okian/stride/internal/domain/skeleton"
	"github.com/okian/stride/internal/domain/transform"
	"github.com/okian/stride/pkg/logger"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest   = errors.New("bad request")
	ErrBodyTooLarge = errors.New("request body too large")
)

// HTTP status code constants.
const (
	statusBadRequest          = http.StatusBadRequest
	statusNotFound            = http.StatusNotFound
	statusRequestTooLarge     = http.StatusRequestEntityTooLarge
	statusInternalError       = http.StatusInternalServerError
	statusInsufficientStorage = http.StatusInsufficientStorage
)

// invalidInput lists domain errors caused by the request rather than the
// server.
var invalidInput = []error{
	ErrBadRequest,
	skeleton.ErrEmptySkeleton,
	skeleton.ErrDuplicateName,
	skeleton.ErrInvalidParent,
	skeleton.ErrMultipleRoots,
	skeleton.ErrJointNotFound,
	skeleton.ErrDegenerateOffset,
	skeleton.ErrJointOutOfRange,
	skeleton.ErrOffsetCountMismatch,
	motion.ErrNilSkeleton,
	motion.ErrInvalidFrameTime,
	motion.ErrShapeMismatch,
	motion.ErrSkeletonMismatch,
	motion.ErrFrameOutOfRange,
	motion.ErrEmptyClip,
	reconstruct.ErrNoFrames,
	reconstruct.ErrPositionShape,
	reconstruct.ErrRestShape,
	reconstruct.ErrDegenerateFacing,
	footlock.ErrInvalidConfig,
	footlock.ErrFootNotSet,
	footlock.ErrChainOverlap,
	footlock.ErrChainTooShort,
	footlock.ErrTooFewFrames,
	blend.ErrClipTooShort,
	blend.ErrInvalidWindow,
	blend.ErrUnknownMode,
	blend.ErrInvalidSubsteps,
	blend.ErrInvalidDecay,
	transform.ErrInvalidStride,
	transform.ErrDegenerateHeight,
	transform.ErrRootRemoved,
	transform.ErrUnknownJointSet,
	transform.ErrUnknownOp,
	transform.ErrDegenerateForward,
	transform.ErrFrameOutOfRange,
}

// classify maps an error to an HTTP status and a stable error code.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return statusNotFound, "not_found"
	case errors.Is(err, repository.ErrStoreFull):
		return statusInsufficientStorage, "store_full"
	case errors.Is(err, ErrBodyTooLarge):
		return statusRequestTooLarge, "too_large"
	}
	for _, target := range invalidInput {
		if errors.Is(err, target) {
			return statusBadRequest, "bad_request"
		}
	}
	return statusInternalError, "internal"
}

// responder writes error responses and logs the ones the server caused.
type responder struct {
	logger logger.Logger
}

func (r responder) fail(ctx context.Context, w http.ResponseWriter, op string, err error) {
	status, code := classify(err)
	if status >= statusInternalError {
		r.logger.Error(ctx, "request failed",
			logger.String("operation", op),
			logger.Int("status", status),
			logger.Error(err))
	}
	writeError(w, status, code, err)
}
