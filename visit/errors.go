package visit

import "errors"

// Integrity errors. They are wrapped with details about the location of
// the problem; use errors.Is to check for them.
var (
	// ErrMalformedMark flags a mark with nested changes on freshly attached
	// content, i.e. an attach without a detach.
	ErrMalformedMark = errors.New("invalid nested changes on an additive mark")

	// ErrMissingRefresher flags a detached id which is needed but has neither
	// an index entry nor refresher content.
	ErrMissingRefresher = errors.New("refresher data not found")

	// ErrEntryCollision flags an attempt to create detached content for an
	// id which already has an index entry.
	ErrEntryCollision = errors.New("detached entry already exists")

	// ErrMissingEntry flags a destruction of a detached id without an index entry.
	ErrMissingEntry = errors.New("detached entry not found")

	// ErrNoProgress flags a set of renames which cannot be carried out in
	// any order.
	ErrNoProgress = errors.New("root transfers make no progress")

	// ErrVisitor flags an error reported by a visitor.
	ErrVisitor = errors.New("visitor failed")
)
