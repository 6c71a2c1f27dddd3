package clothmanip

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/go-viper/mapstructure/v2"
	"github.com/golang/geo/r3"
	"github.com/spf13/viper"
	"gonum.org/v1/gonum/mat"

	"go.viam.com/rdk/spatialmath"

	"github.com/Victorlouisdg/iros-2022-cloth-competition/fold"
	"github.com/Victorlouisdg/iros-2022-cloth-competition/geometry"
	"github.com/Victorlouisdg/iros-2022-cloth-competition/keypoints"
	"github.com/Victorlouisdg/iros-2022-cloth-competition/pull"
	"github.com/Victorlouisdg/iros-2022-cloth-competition/rig"
)

// ErrInvalidConfig wraps every rig configuration problem.
var ErrInvalidConfig = errors.New("invalid rig config")

// RigConfig describes the machine: both arms, the shared workspace, the
// camera and the motion tunables. Distances are in meters.
type RigConfig struct {
	Left          ArmConfig     `mapstructure:"left"`
	Right         ArmConfig     `mapstructure:"right"`
	Workspace     rig.Workspace `mapstructure:"workspace"`
	MotionService string        `mapstructure:"motion_service"`
	Camera        CameraConfig  `mapstructure:"camera"`
	Linear        LinearMotion  `mapstructure:"linear"`
	Pull          pull.Config   `mapstructure:"pull"`
	Fold          FoldConfig    `mapstructure:"fold"`

	// MaxPulls bounds the reorientation loop; zero means no bound.
	MaxPulls int `mapstructure:"max_pulls"`
	// OutputDir receives an overlay image per cycle when set.
	OutputDir string `mapstructure:"output_dir"`
}

// ArmConfig names one arm and its gripper and places it in the world.
type ArmConfig struct {
	Name     string           `mapstructure:"name"`
	Gripper  string           `mapstructure:"gripper"`
	Base     spatialmath.Pose `mapstructure:"base"`
	Home     spatialmath.Pose `mapstructure:"home"`
	OutOfWay spatialmath.Pose `mapstructure:"out_of_way"`
}

// CameraConfig holds the camera used for manual keypoints and overlays.
type CameraConfig struct {
	Name string  `mapstructure:"name"`
	Fx   float64 `mapstructure:"fx"`
	Fy   float64 `mapstructure:"fy"`
	Cx   float64 `mapstructure:"cx"`
	Cy   float64 `mapstructure:"cy"`
	// MarkerInCamera is the pose of the table marker in the camera frame.
	MarkerInCamera spatialmath.Pose `mapstructure:"marker_in_camera"`
	MarkerToWorld  r3.Vector        `mapstructure:"marker_to_world"`
}

// FoldConfig selects the fold trajectory and how finely it is sampled.
type FoldConfig struct {
	Kind         fold.Kind `mapstructure:"kind"`
	Waypoints    int       `mapstructure:"waypoints"`
	Speed        float64   `mapstructure:"speed"`
	Acceleration float64   `mapstructure:"acceleration"`
}

// Intrinsics builds the camera matrix.
func (c CameraConfig) Intrinsics() (*keypoints.Intrinsics, error) {
	return keypoints.PinholeIntrinsics(c.Fx, c.Fy, c.Cx, c.Cy)
}

// WorldInCamera is the pose of the world frame in the camera frame, derived
// from the marker pose and the marker to world translation.
func (c CameraConfig) WorldInCamera() spatialmath.Pose {
	if c.MarkerInCamera == nil {
		return nil
	}
	return spatialmath.Compose(c.MarkerInCamera, spatialmath.NewPoseFromPoint(c.MarkerToWorld.Mul(-1)))
}

// DefaultRigConfig returns the layout in positions.go with the default
// motion tunables.
func DefaultRigConfig() RigConfig {
	return RigConfig{
		Left: ArmConfig{
			Name: "left-arm", Gripper: "left-gripper",
			Base: LeftBase, Home: LeftHome, OutOfWay: LeftOutOfWay,
		},
		Right: ArmConfig{
			Name: "right-arm", Gripper: "right-gripper",
			Base: RightBase, Home: RightHome, OutOfWay: RightOutOfWay,
		},
		Workspace:     TableWorkspace,
		MotionService: "builtin",
		Camera: CameraConfig{
			Name:          "zed",
			Fx:            1060,
			Fy:            1060,
			Cx:            960,
			Cy:            540,
			MarkerToWorld: MarkerToWorld,
		},
		Linear: DefaultLinearMotion(),
		Pull:   pull.DefaultConfig(),
		Fold: FoldConfig{
			Kind:         fold.Circular,
			Waypoints:    fold.DefaultWaypoints,
			Speed:        0.2,
			Acceleration: 0.1,
		},
		MaxPulls: 10,
	}
}

// Validate checks the configuration for problems that would only surface
// once the arms are moving.
func (c RigConfig) Validate() error {
	if c.Left.Name == "" || c.Right.Name == "" {
		return fmt.Errorf("%w: both arms need a name", ErrInvalidConfig)
	}
	if c.Left.Name == c.Right.Name {
		return fmt.Errorf("%w: arms share the name %q", ErrInvalidConfig, c.Left.Name)
	}
	for _, a := range []ArmConfig{c.Left, c.Right} {
		if a.Base == nil || a.Home == nil {
			return fmt.Errorf("%w: %s needs a base and a home pose", ErrInvalidConfig, a.Name)
		}
	}
	w := c.Workspace
	if w.Min.X >= w.Max.X || w.Min.Y >= w.Max.Y || w.Min.Z >= w.Max.Z {
		return fmt.Errorf("%w: workspace min %v is not below max %v", ErrInvalidConfig, w.Min, w.Max)
	}
	if c.Linear.Speed <= 0 || c.Linear.Acceleration <= 0 {
		return fmt.Errorf("%w: linear speed and acceleration must be positive", ErrInvalidConfig)
	}
	if c.Fold.Waypoints < 2 {
		return fmt.Errorf("%w: fold needs at least 2 waypoints", ErrInvalidConfig)
	}
	if err := c.Pull.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

func (c *RigConfig) poseFields() []*spatialmath.Pose {
	return []*spatialmath.Pose{
		&c.Left.Base, &c.Left.Home, &c.Left.OutOfWay,
		&c.Right.Base, &c.Right.Home, &c.Right.OutOfWay,
		&c.Camera.MarkerInCamera,
	}
}

// LoadRigConfig reads a YAML, JSON or TOML rig file on top of
// DefaultRigConfig. Vectors are [x, y, z] lists; poses are either a 4x4
// homogeneous matrix or a map with a position list and an optional
// orientation vector {ox, oy, oz, theta} in degrees.
func LoadRigConfig(path string) (*RigConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read rig config: %w", err)
	}

	cfg := DefaultRigConfig()
	defaults := cfg
	// Decoding into an interface that already holds a value reuses its
	// concrete type, so poses are decoded into nil fields.
	for _, p := range cfg.poseFields() {
		*p = nil
	}
	if err := v.Unmarshal(&cfg, viper.DecodeHook(rigDecodeHook())); err != nil {
		return nil, fmt.Errorf("decode rig config: %w", err)
	}
	fallback := defaults.poseFields()
	for i, p := range cfg.poseFields() {
		if *p == nil {
			*p = *fallback[i]
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

var (
	vectorType = reflect.TypeOf(r3.Vector{})
	poseType   = reflect.TypeOf((*spatialmath.Pose)(nil)).Elem()
	kindType   = reflect.TypeOf(fold.Circular)
)

func rigDecodeHook() mapstructure.DecodeHookFunc {
	return mapstructure.ComposeDecodeHookFunc(
		vectorHook,
		poseHook,
		kindHook,
	)
}

func vectorHook(_, to reflect.Type, data interface{}) (interface{}, error) {
	if to != vectorType {
		return data, nil
	}
	if _, ok := data.(r3.Vector); ok {
		return data, nil
	}
	return toVector(data)
}

func poseHook(_, to reflect.Type, data interface{}) (interface{}, error) {
	if to != poseType || data == nil {
		return data, nil
	}
	if p, ok := data.(spatialmath.Pose); ok {
		return p, nil
	}
	if _, ok := data.([]interface{}); ok {
		return poseFromRows(data)
	}
	return poseFromEntry(data)
}

func kindHook(from, to reflect.Type, data interface{}) (interface{}, error) {
	if to != kindType || from.Kind() != reflect.String {
		return data, nil
	}
	return fold.ParseKind(data.(string))
}

func toVector(data interface{}) (r3.Vector, error) {
	var vals []float64
	if err := mapstructure.WeakDecode(data, &vals); err != nil {
		return r3.Vector{}, fmt.Errorf("vector: %w", err)
	}
	if len(vals) != 3 {
		return r3.Vector{}, fmt.Errorf("vector needs 3 components, got %d", len(vals))
	}
	return r3.Vector{X: vals[0], Y: vals[1], Z: vals[2]}, nil
}

func poseFromRows(data interface{}) (spatialmath.Pose, error) {
	var rows [][]float64
	if err := mapstructure.WeakDecode(data, &rows); err != nil {
		return nil, fmt.Errorf("pose matrix: %w", err)
	}
	if len(rows) != 4 {
		return nil, fmt.Errorf("pose matrix needs 4 rows, got %d", len(rows))
	}
	m := mat.NewDense(4, 4, nil)
	for i, row := range rows {
		if len(row) != 4 {
			return nil, fmt.Errorf("pose matrix row %d needs 4 values, got %d", i, len(row))
		}
		m.SetRow(i, row)
	}
	return geometry.PoseFromHomogeneous(m)
}

type poseEntry struct {
	Position    []float64        `mapstructure:"position"`
	Orientation *orientationEntry `mapstructure:"orientation"`
}

type orientationEntry struct {
	OX    float64 `mapstructure:"ox"`
	OY    float64 `mapstructure:"oy"`
	OZ    float64 `mapstructure:"oz"`
	Theta float64 `mapstructure:"theta"`
}

func poseFromEntry(data interface{}) (spatialmath.Pose, error) {
	var entry poseEntry
	if err := mapstructure.WeakDecode(data, &entry); err != nil {
		return nil, fmt.Errorf("pose: %w", err)
	}
	if len(entry.Position) != 3 {
		return nil, fmt.Errorf("pose position needs 3 components, got %d", len(entry.Position))
	}
	position := r3.Vector{X: entry.Position[0], Y: entry.Position[1], Z: entry.Position[2]}
	if entry.Orientation == nil {
		return spatialmath.NewPoseFromPoint(position), nil
	}
	o := entry.Orientation
	return spatialmath.NewPose(position, &spatialmath.OrientationVectorDegrees{
		OX: o.OX, OY: o.OY, OZ: o.OZ, Theta: o.Theta,
	}), nil
}
