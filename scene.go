package clothmanip

import (
	"fmt"

	"github.com/golang/geo/r3"
	viz "github.com/viam-labs/motion-tools/client/client"
	"go.viam.com/rdk/spatialmath"

	"github.com/Victorlouisdg/iros-2022-cloth-competition/fold"
	"github.com/Victorlouisdg/iros-2022-cloth-competition/pull"
	"github.com/Victorlouisdg/iros-2022-cloth-competition/rig"
)

// cornerMarkerMm is the radius of the spheres drawn on towel corners.
const cornerMarkerMm = 8.0

// SceneDrawer shows planned motions in a 3D viewer.
type SceneDrawer interface {
	DrawReorientation(re *pull.Reorientation) error
	DrawFold(tr *fold.Trajectory, n int) error
}

// MotionToolsScene draws into a running motion-tools visualizer. The
// visualizer works in millimeters.
type MotionToolsScene struct{}

// DrawReorientation clears the scene and draws the observed corners in red,
// the desired corners in green and the pull poses.
func (MotionToolsScene) DrawReorientation(re *pull.Reorientation) error {
	if err := viz.RemoveAllSpatialObjects(); err != nil {
		return fmt.Errorf("clear scene: %w", err)
	}
	if err := drawCorners("corner", re.Ordered, "red"); err != nil {
		return err
	}
	if err := drawCorners("desired", re.Desired, "green"); err != nil {
		return err
	}
	if re.Pull == nil {
		return nil
	}
	p := re.Pull
	poses := []spatialmath.Pose{p.PregraspPose(), p.StartPose(), p.EndPose(), p.RetreatPose()}
	names := []string{"pull_pregrasp", "pull_start", "pull_end", "pull_retreat"}
	return viz.DrawPoses(toMillimeters(poses), names, true)
}

// DrawFold clears the scene and draws n poses sampled along tr.
func (MotionToolsScene) DrawFold(tr *fold.Trajectory, n int) error {
	path, err := tr.Path(n)
	if err != nil {
		return err
	}
	if err := viz.RemoveAllSpatialObjects(); err != nil {
		return fmt.Errorf("clear scene: %w", err)
	}
	names := make([]string, len(path))
	for i := range path {
		names[i] = fmt.Sprintf("fold_%02d", i)
	}
	return viz.DrawPoses(toMillimeters(path), names, true)
}

func drawCorners(prefix string, corners []r3.Vector, color string) error {
	for i, c := range corners {
		sphere, err := spatialmath.NewSphere(
			spatialmath.NewPoseFromPoint(c.Mul(1000)),
			cornerMarkerMm,
			fmt.Sprintf("%s_%d", prefix, i),
		)
		if err != nil {
			return err
		}
		if err := viz.DrawGeometry(sphere, color); err != nil {
			return fmt.Errorf("draw %s %d: %w", prefix, i, err)
		}
	}
	return nil
}

func toMillimeters(poses []spatialmath.Pose) []spatialmath.Pose {
	out := make([]spatialmath.Pose, len(poses))
	for i, p := range poses {
		out[i] = rig.ToMillimeters(p)
	}
	return out
}
