package net

import "errors"

var (
	// ErrShapeMismatch reports a feature vector, target vector or imported
	// tensor whose dimensions disagree with the configured layer dims.
	// Nothing is ever auto-padded or truncated.
	ErrShapeMismatch = errors.New("shape mismatch")

	// ErrNotInitialized reports training or export requested before weights
	// exist (neither Init nor Import has run).
	ErrNotInitialized = errors.New("model not initialized")

	// ErrBadModelFormat reports a malformed or version-incompatible
	// serialized model. The in-memory model is left untouched.
	ErrBadModelFormat = errors.New("bad model format")

	// ErrBadBatch reports an empty batch or one above the configured
	// maximum size.
	ErrBadBatch = errors.New("bad batch")
)
