package geometry

import "errors"

var (
	// ErrEmptyPointSet is returned when an operation needs at least one point.
	ErrEmptyPointSet = errors.New("point set is empty")

	// ErrNotQuadrilateral is returned when an edge operation is given anything other than 4 corners.
	ErrNotQuadrilateral = errors.New("expected exactly 4 corners")

	// ErrNotOrthonormal is returned when a rotation block is not a proper rotation.
	ErrNotOrthonormal = errors.New("rotation is not orthonormal and right-handed")

	// ErrBadTransformShape is returned when a homogeneous transform is not 4x4.
	ErrBadTransformShape = errors.New("homogeneous transform must be 4x4")
)
