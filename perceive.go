package clothmanip

import (
	"context"
	"fmt"
	"image"
	"io"
	"os"

	"github.com/golang/geo/r3"
	"github.com/spf13/viper"

	"go.viam.com/rdk/components/camera"
	"go.viam.com/rdk/logging"
	"go.viam.com/rdk/spatialmath"

	"github.com/Victorlouisdg/iros-2022-cloth-competition/keypoints"
	"github.com/Victorlouisdg/iros-2022-cloth-competition/overlay"
)

// towelCorners is the number of keypoints describing a towel.
const towelCorners = 4

// KeypointSource produces the towel corners in the world frame.
type KeypointSource interface {
	Corners(ctx context.Context) ([]r3.Vector, error)
}

// FileSource reads corners from a YAML, JSON or TOML file holding a
// "corners" list of [x, y, z] entries. The file is read on every call so it
// can be updated between cycles.
type FileSource struct {
	Path string
}

// Corners implements KeypointSource.
func (s FileSource) Corners(_ context.Context) ([]r3.Vector, error) {
	v := viper.New()
	v.SetConfigFile(s.Path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read corners: %w", err)
	}
	var corners []r3.Vector
	if err := v.UnmarshalKey("corners", &corners, viper.DecodeHook(vectorHook)); err != nil {
		return nil, fmt.Errorf("decode corners: %w", err)
	}
	if len(corners) != towelCorners {
		return nil, fmt.Errorf("%s has %d corners, want %d", s.Path, len(corners), towelCorners)
	}
	return corners, nil
}

// ImageSource yields camera frames.
type ImageSource interface {
	Image(ctx context.Context) (image.Image, error)
}

// CameraImages reads frames from a viam camera.
type CameraImages struct {
	Camera camera.Camera
}

// Image implements ImageSource.
func (c CameraImages) Image(ctx context.Context) (image.Image, error) {
	if c.Camera == nil {
		return nil, ErrNoCamera
	}
	return camera.DecodeImageFromCamera(ctx, c.Camera, nil, nil)
}

// ClickSource opens a stream of user input events.
type ClickSource func(ctx context.Context) (<-chan keypoints.Event, error)

// ClickFile reads "u v" click lines from path, or from stdin when path is "-".
func ClickFile(path string) ClickSource {
	return func(context.Context) (<-chan keypoints.Event, error) {
		var r io.Reader = os.Stdin
		if path != "-" {
			f, err := os.Open(path)
			if err != nil {
				return nil, fmt.Errorf("open clicks: %w", err)
			}
			defer f.Close()
			r = f
		}
		events, err := keypoints.ParseClicks(r)
		if err != nil {
			return nil, err
		}
		return keypoints.Replay(events), nil
	}
}

// ManualSource asks an operator for the towel corners: a camera frame is
// saved with the world axes drawn on it, the operator clicks the four
// corners, and the clicks are reprojected onto the table.
type ManualSource struct {
	Images         ImageSource
	Clicks         ClickSource
	Intrinsics     *keypoints.Intrinsics
	MarkerInCamera spatialmath.Pose
	MarkerToWorld  r3.Vector
	// SnapshotPath, when set, receives the annotated frame.
	SnapshotPath string
	Logger       logging.Logger
}

// Corners implements KeypointSource.
func (s *ManualSource) Corners(ctx context.Context) ([]r3.Vector, error) {
	if s.SnapshotPath != "" && s.Images != nil {
		if err := s.saveSnapshot(ctx); err != nil {
			return nil, err
		}
	}
	events, err := s.Clicks(ctx)
	if err != nil {
		return nil, err
	}
	pixels, err := keypoints.Collect(ctx, events, towelCorners, s.Logger)
	if err != nil {
		return nil, err
	}
	corners, err := keypoints.ReprojectAll(pixels, s.Intrinsics, s.MarkerInCamera, s.MarkerToWorld)
	if err != nil {
		return nil, fmt.Errorf("reproject keypoints: %w", err)
	}
	for i, c := range corners {
		s.Logger.Infof("Keypoint %d: pixel (%.0f, %.0f) -> world (%.3f, %.3f, %.3f)",
			i, pixels[i].U, pixels[i].V, c.X, c.Y, c.Z)
	}
	return corners, nil
}

func (s *ManualSource) saveSnapshot(ctx context.Context) error {
	frame, err := s.Images.Image(ctx)
	if err != nil {
		return fmt.Errorf("camera frame: %w", err)
	}
	img := toRGBA(frame)
	overlay.DrawCenterCircle(img)
	worldInCamera := spatialmath.Compose(s.MarkerInCamera, spatialmath.NewPoseFromPoint(s.MarkerToWorld.Mul(-1)))
	if err := overlay.DrawWorldAxes(img, s.Intrinsics, worldInCamera); err != nil {
		s.Logger.Warnf("World axes not drawn: %v", err)
	}
	if err := overlay.Save(img, s.SnapshotPath); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	s.Logger.Infof("Saved frame to %s; click the %d towel corners", s.SnapshotPath, towelCorners)
	return nil
}

// NewManualSource wires a ManualSource from the camera configuration.
func NewManualSource(cfg CameraConfig, images ImageSource, clicks ClickSource, snapshotPath string, logger logging.Logger) (*ManualSource, error) {
	if cfg.MarkerInCamera == nil {
		return nil, fmt.Errorf("%w: camera.marker_in_camera is required for manual keypoints", ErrInvalidConfig)
	}
	in, err := cfg.Intrinsics()
	if err != nil {
		return nil, err
	}
	return &ManualSource{
		Images:         images,
		Clicks:         clicks,
		Intrinsics:     in,
		MarkerInCamera: cfg.MarkerInCamera,
		MarkerToWorld:  cfg.MarkerToWorld,
		SnapshotPath:   snapshotPath,
		Logger:         logger,
	}, nil
}

// Perceive clears the camera view and reads the towel corners.
func Perceive(ctx context.Context, r *Robot) ([]r3.Vector, error) {
	if r.source == nil {
		return nil, ErrNoKeypointSource
	}
	if err := ClearView(ctx, r); err != nil {
		return nil, err
	}
	corners, err := r.source.Corners(ctx)
	if err != nil {
		return nil, fmt.Errorf("towel corners: %w", err)
	}
	return corners, nil
}

// NewKeypointSource picks the keypoint source for the binaries: a corners
// file when cornersPath is set, otherwise manual clicks read from
// clicksPath on frames of the robot camera.
func NewKeypointSource(r *Robot, cornersPath, clicksPath, snapshotPath string) (KeypointSource, error) {
	switch {
	case cornersPath != "":
		return FileSource{Path: cornersPath}, nil
	case clicksPath != "":
		var images ImageSource
		if r.camera != nil {
			images = CameraImages{Camera: r.camera}
		}
		return NewManualSource(r.cfg.Camera, images, ClickFile(clicksPath), snapshotPath, r.logger)
	default:
		return nil, ErrNoKeypointSource
	}
}
