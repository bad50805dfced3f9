package comm

import "errors"

// Sentinel errors for communicator operations.
var (
	// ErrAborted is returned by every operation once the world was aborted.
	ErrAborted = errors.New("comm: world aborted")
	// ErrBadSize indicates a world with fewer than one rank.
	ErrBadSize = errors.New("comm: world size must be positive")
	// ErrRankOutOfRange indicates a peer rank outside [0, Size()).
	ErrRankOutOfRange = errors.New("comm: rank out of range")
	// ErrNotMember indicates a sub-communicator that does not contain the caller,
	// or one whose member list is not a set of valid ranks.
	ErrNotMember = errors.New("comm: invalid sub-communicator membership")
	// ErrCountMismatch indicates that a received message does not have the length
	// the collective expected.
	ErrCountMismatch = errors.New("comm: message length mismatch")
	// ErrTypeMismatch indicates a receive whose element type differs from the send.
	ErrTypeMismatch = errors.New("comm: message element type mismatch")
)
