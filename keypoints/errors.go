package keypoints

import "errors"

var (
	// ErrTooManyKeypoints is returned when more clicks than requested were made before confirming.
	ErrTooManyKeypoints = errors.New("too many keypoints clicked")

	// ErrIncomplete is returned when the event stream ends before enough keypoints were confirmed.
	ErrIncomplete = errors.New("event stream ended before all keypoints were collected")

	// ErrBadIntrinsics is returned when a camera matrix is not an invertible 3x3 matrix.
	ErrBadIntrinsics = errors.New("camera intrinsics must be an invertible 3x3 matrix")

	// ErrRayParallel is returned when a pixel ray never meets the table plane.
	ErrRayParallel = errors.New("pixel ray is parallel to the plane")

	// ErrBehindCamera is returned when the plane is hit behind the camera, or a point projects from behind it.
	ErrBehindCamera = errors.New("point is behind the camera")

	// ErrBadClickLine is returned by ParseClicks for lines that are not "u v".
	ErrBadClickLine = errors.New("click line must be two numbers")
)
