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

func main() {
	configPath := flag.String("config", "", "path to rig config (YAML, JSON or TOML); defaults are used when empty")
	credsPath := flag.String("creds", "", "path to robot credentials JSON file; falls back to VIAM_* environment variables")
	dryRun := flag.Bool("dry-run", false, "plan and log motions on fake arms instead of connecting")
	cornersPath := flag.String("corners", "", "file with the towel corners in the world frame")
	clicksPath := flag.String("clicks", "", "file with clicked corner pixels, or - for stdin")
	snapshot := flag.String("snapshot", "keypoints.png", "where to save the frame to click on")
	outputDir := flag.String("output", "", "directory for per-cycle overlay images")
	scene := flag.Bool("scene", false, "draw plans in a running motion-tools visualizer")
	doFold := flag.Bool("fold", false, "fold the towel in half once it is reoriented")
	flag.Parse()

	logger := logging.NewDebugLogger("clothmanip")

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
	if *dryRun {
		var err error
		if r, _, err = clothmanip.NewDryRunRobot(cfg, logger); err != nil {
			logger.Fatal(err)
		}
		logger.Info("Dry run: arms are simulated")
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
		logger.Info("Resources:", machine.ResourceNames())

		if r, err = clothmanip.NewRobot(ctx, machine, cfg, logger); err != nil {
			logger.Fatal(err)
		}
	}

	src, err := clothmanip.NewKeypointSource(r, *cornersPath, *clicksPath, *snapshot)
	if err != nil {
		logger.Fatal(err)
	}
	r.SetKeypointSource(src)
	if *scene {
		r.Scene = clothmanip.MotionToolsScene{}
	}

	last, err := clothmanip.Run(ctx, r)
	if err != nil {
		logger.Fatal(err)
	}
	if last != nil {
		logger.Infof("Final average corner error %.4f m", last.AverageCornerError())
	}

	if *doFold {
		if err := clothmanip.Fold(ctx, r); err != nil {
			logger.Fatal(err)
		}
	}
}
