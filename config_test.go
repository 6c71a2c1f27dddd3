package clothmanip

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/rdk/spatialmath"
	"go.viam.com/test"

	"github.com/Victorlouisdg/iros-2022-cloth-competition/fold"
)

func writeConfig(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	test.That(t, os.WriteFile(path, []byte(body), 0o600), test.ShouldBeNil)
	return path
}

func TestDefaultRigConfigIsValid(t *testing.T) {
	cfg := DefaultRigConfig()
	test.That(t, cfg.Validate(), test.ShouldBeNil)
	test.That(t, cfg.Camera.WorldInCamera(), test.ShouldBeNil)
}

const rigYAML = `
left:
  name: arm-a
  base:
    position: [0, -0.5, 0]
right:
  home:
    - [1, 0, 0, 0.1]
    - [0, 1, 0, 0.2]
    - [0, 0, 1, 0.3]
    - [0, 0, 0, 1]
workspace:
  min: [-0.5, -0.6, -0.02]
  max: [0.5, 0.6, 0.5]
  reach: 0.9
fold:
  kind: linear
  waypoints: 20
pull:
  min_pull_distance: 0.04
camera:
  fx: 600
  marker_in_camera:
    position: [0, 0, 1]
    orientation: {ox: 0, oy: 0, oz: -1, theta: 0}
max_pulls: 3
`

func TestLoadRigConfigYAML(t *testing.T) {
	cfg, err := LoadRigConfig(writeConfig(t, "rig.yaml", rigYAML))
	test.That(t, err, test.ShouldBeNil)

	test.That(t, cfg.Left.Name, test.ShouldEqual, "arm-a")
	test.That(t, cfg.Left.Gripper, test.ShouldEqual, "left-gripper")
	test.That(t, cfg.Left.Base.Point(), test.ShouldResemble, r3.Vector{Y: -0.5})
	test.That(t, spatialmath.PoseAlmostEqual(cfg.Left.Home, LeftHome), test.ShouldBeTrue)

	test.That(t, cfg.Right.Name, test.ShouldEqual, "right-arm")
	test.That(t, cfg.Right.Home.Point().Distance(r3.Vector{X: 0.1, Y: 0.2, Z: 0.3}), test.ShouldBeLessThan, 1e-9)
	test.That(t, spatialmath.PoseAlmostEqual(cfg.Right.Base, RightBase), test.ShouldBeTrue)

	test.That(t, cfg.Workspace.Min, test.ShouldResemble, r3.Vector{X: -0.5, Y: -0.6, Z: -0.02})
	test.That(t, cfg.Workspace.Max, test.ShouldResemble, r3.Vector{X: 0.5, Y: 0.6, Z: 0.5})
	test.That(t, cfg.Workspace.Reach, test.ShouldEqual, 0.9)

	test.That(t, cfg.Fold.Kind, test.ShouldEqual, fold.Linear)
	test.That(t, cfg.Fold.Waypoints, test.ShouldEqual, 20)
	test.That(t, cfg.Fold.Speed, test.ShouldEqual, 0.2)
	test.That(t, cfg.Pull.MinPullDistance, test.ShouldEqual, 0.04)
	test.That(t, cfg.Pull.Inset, test.ShouldEqual, 0.05)
	test.That(t, cfg.MaxPulls, test.ShouldEqual, 3)

	test.That(t, cfg.Camera.Fx, test.ShouldEqual, 600.0)
	test.That(t, cfg.Camera.Cx, test.ShouldEqual, 960.0)
	test.That(t, cfg.Camera.MarkerInCamera, test.ShouldNotBeNil)
	test.That(t, cfg.Camera.MarkerInCamera.Point(), test.ShouldResemble, r3.Vector{Z: 1})
	test.That(t, cfg.Camera.WorldInCamera(), test.ShouldNotBeNil)
}

func TestLoadRigConfigJSON(t *testing.T) {
	body := `{"max_pulls": 5, "linear": {"speed": 0.05}, "fold": {"kind": "circular"}}`
	cfg, err := LoadRigConfig(writeConfig(t, "rig.json", body))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, cfg.MaxPulls, test.ShouldEqual, 5)
	test.That(t, cfg.Linear.Speed, test.ShouldEqual, 0.05)
	test.That(t, cfg.Linear.Acceleration, test.ShouldEqual, DefaultLinearMotion().Acceleration)
	test.That(t, cfg.Fold.Kind, test.ShouldEqual, fold.Circular)
}

func TestLoadRigConfigErrors(t *testing.T) {
	cases := map[string]string{
		"same names":     "left:\n  name: right-arm\n",
		"short vector":   "workspace:\n  min: [1, 2]\n",
		"inverted box":   "workspace:\n  min: [1, 1, 1]\n",
		"bad kind":       "fold:\n  kind: spiral\n",
		"matrix rows":    "left:\n  home:\n    - [1, 0, 0, 0]\n",
		"pose position":  "left:\n  home:\n    position: [1, 2]\n",
		"negative inset": "pull:\n  inset: -1\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := LoadRigConfig(writeConfig(t, "rig.yaml", body))
			test.That(t, err, test.ShouldNotBeNil)
		})
	}

	_, err := LoadRigConfig(writeConfig(t, "rig.yaml", "left:\n  name: right-arm\n"))
	test.That(t, errors.Is(err, ErrInvalidConfig), test.ShouldBeTrue)

	_, err = LoadRigConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	test.That(t, err, test.ShouldNotBeNil)
}

func TestValidateRejectsMissingPoses(t *testing.T) {
	cfg := DefaultRigConfig()
	cfg.Right.Home = nil
	test.That(t, errors.Is(cfg.Validate(), ErrInvalidConfig), test.ShouldBeTrue)

	cfg = DefaultRigConfig()
	cfg.Linear.Speed = 0
	test.That(t, errors.Is(cfg.Validate(), ErrInvalidConfig), test.ShouldBeTrue)
}
