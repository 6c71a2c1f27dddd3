package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	clothmanip "github.com/Victorlouisdg/iros-2022-cloth-competition"
	"github.com/Victorlouisdg/iros-2022-cloth-competition/internal/creds"

	"go.viam.com/rdk/logging"
)

var steps = map[string][]func(context.Context, *clothmanip.Robot) error{
	"home":    {clothmanip.Home},
	"clear":   {clothmanip.ClearView},
	"release": {clothmanip.ReleaseGrippers},
	"plan":    {clothmanip.Observe, clothmanip.PlanPull, clothmanip.Show},
	"pull":    {clothmanip.Observe, clothmanip.PlanPull, clothmanip.Show, clothmanip.Pull},
	"fold":    {clothmanip.Fold},
}

const validSteps = "home, clear, release, plan, pull, fold"

func main() {
	configPath := flag.String("config", "", "path to rig config (YAML, JSON or TOML); defaults are used when empty")
	credsPath := flag.String("creds", "", "path to robot credentials JSON file; falls back to VIAM_* environment variables")
	step := flag.String("step", "", "step to run: "+validSteps)
	dryRun := flag.Bool("dry-run", false, "log motions on fake arms instead of connecting")
	cornersPath := flag.String("corners", "", "file with the towel corners in the world frame")
	clicksPath := flag.String("clicks", "", "file with clicked corner pixels, or - for stdin")
	snapshot := flag.String("snapshot", "keypoints.png", "where to save the frame to click on")
	outputDir := flag.String("output", "", "directory for the overlay image")
	flag.Parse()

	logger := logging.NewLogger("clothmanip-cli")

	if *step == "" {
		logger.Fatal("-step flag is required; valid steps: " + validSteps)
	}
	fns, ok := steps[*step]
	if !ok {
		logger.Fatalf("unknown step %q; valid steps: %s", *step, validSteps)
	}

	cfg := clothmanip.DefaultRigConfig()
	if *configPath != "" {
		loaded, err := clothmanip.LoadRigConfig(*configPath)
		if err != nil {
			logger.Fatal(err)
		}
		cfg = *loaded
	}
	if *outputDir != "" {
		cfg.OutputDir = *outputDir
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var r *clothmanip.Robot
	var rec interface{ Ops() []string }
	if *dryRun {
		dry, recorder, err := clothmanip.NewDryRunRobot(cfg, logger)
		if err != nil {
			logger.Fatal(err)
		}
		r, rec = dry, recorder
	} else {
		robotCreds, err := creds.Load(*credsPath)
		if err != nil {
			logger.Fatal(err)
		}
		machine, err := robotCreds.Connect(ctx, logger)
		if err != nil {
			logger.Fatal(err)
		}
		defer machine.Close(context.Background())
		logger.Info("Connected to robot")

		if r, err = clothmanip.NewRobot(ctx, machine, cfg, logger); err != nil {
			logger.Fatal(err)
		}
	}

	if *cornersPath != "" || *clicksPath != "" {
		src, err := clothmanip.NewKeypointSource(r, *cornersPath, *clicksPath, *snapshot)
		if err != nil {
			logger.Fatal(err)
		}
		r.SetKeypointSource(src)
	}

	logger.Infof("=== Running step: %s ===", *step)
	for _, fn := range fns {
		if err := fn(ctx, r); err != nil {
			logger.Fatal(err)
		}
	}

	if last := r.State().Last; last != nil {
		logger.Infof("Scores %.3f, best corner %d, average corner error %.4f m",
			last.Scores, last.Best, last.AverageCornerError())
		if last.Pull != nil {
			logger.Infof("Pull: %v", last.Pull)
		}
	}
	if rec != nil {
		logger.Infof("Dry run commands: %v", rec.Ops())
	}
	logger.Infof("Step %s completed successfully", *step)
}
