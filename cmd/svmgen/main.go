// Command svmgen drives the space-vector modulator from a scenario file or a
// single-revolution sweep and sends the duties to CAN, a serial link, CSV
// and PNG.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"foc-svm/bench"
	"foc-svm/pwmbus"
	"foc-svm/svm"
	"foc-svm/utils"
)

func main() {
	var (
		scenPath  = flag.String("scenario", "config/scenarios/open_loop_50hz.yaml", "Scenario JSON or YAML file")
		mapPath   = flag.String("map", "config/can/duty_map.csv", "Path to the duty frame map CSV")
		frameName = flag.String("frame", pwmbus.DefaultDutyFrame, "Frame name to transmit")
		iface     = flag.String("iface", "", "SocketCAN interface name (empty disables CAN)")
		serialDev = flag.String("serial", "", "Serial device for framed duty packets (empty disables)")
		baud      = flag.Int("baud", 115200, "Serial baud rate")
		csvPath   = flag.String("csv", "", "Write every tick to this CSV file")
		plotPath  = flag.String("plot", "", "Render the duties to this PNG file")
		sweep     = flag.Float64("sweep", 0, "Run one 360° revolution at this magnitude instead of a scenario")
		steps     = flag.Int("steps", 360, "Steps per revolution for -sweep")
		scheme    = flag.Int("scheme", 12, "Sector scheme for -sweep: 12 or 6")
		modeName  = flag.String("mode", "svpwm", "Modulation mode for -sweep: svpwm|thipwm")
		logLevel  = flag.String("log", "info", "trace|debug|info|warn|error|critical")
		logFile   = flag.String("logfile", "svmgen.log", "Log file, mirrored to stdout")
	)
	flag.Parse()

	log, err := utils.NewFileLogger(*logFile, utils.ParseLevel(*logLevel), true)
	if err != nil {
		_, _ = os.Stderr.WriteString("ERROR: cannot open " + *logFile + ": " + err.Error() + "\n")
		os.Exit(1)
	}
	defer log.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var recs []bench.Record
	var filtered bool
	var title string

	if *sweep > 0 {
		mode, err := svm.ParseMode(*modeName)
		if err != nil {
			log.Critical("Startup failed: %v", err)
			os.Exit(1)
		}
		cfg := svm.DefaultConfig()
		cfg.Scheme = svm.Scheme(*scheme)

		recs, err = bench.Sweep(cfg, mode, *sweep, *steps)
		if err != nil {
			log.Critical("Sweep failed: %v", err)
			os.Exit(1)
		}
		title = fmt.Sprintf("%s %s |U|=%.3g", mode, cfg.Scheme, *sweep)
		log.Info("Sweep complete: mode=%s scheme=%s magnitude=%.3f steps=%d", mode, cfg.Scheme, *sweep, *steps)
	} else {
		scen, err := bench.LoadScenario(*scenPath)
		if err != nil {
			log.Critical("Startup failed: load scenario: %v", err)
			os.Exit(1)
		}

		sinks, err := openSinks(ctx, *mapPath, *frameName, *iface, *serialDev, *baud, log)
		if err != nil {
			log.Critical("Startup failed: %v", err)
			os.Exit(1)
		}

		runner, err := bench.NewRunner(bench.RunnerConfig{
			Scenario: scen,
			Record:   *csvPath != "" || *plotPath != "",
		}, log, sinks...)
		if err != nil {
			log.Critical("Startup failed: %v", err)
			os.Exit(1)
		}
		defer runner.Close()

		if err := runner.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Critical("Run failed: %v", err)
			os.Exit(1)
		}

		sum := runner.Summary()
		log.Info("Sector visits: %v", sum.SectorVisits)
		recs = runner.Records()
		filtered = scen.Filter != nil
		title = scen.Meta.Name
	}

	if *csvPath != "" {
		if err := writeCSVFile(*csvPath, recs, filtered); err != nil {
			log.Error("CSV: %v", err)
		} else {
			log.Info("Wrote %d rows to %s", len(recs), *csvPath)
		}
	}
	if *plotPath != "" {
		plot := bench.PlotRun
		if *sweep > 0 {
			plot = bench.PlotSweep
		}
		if err := plot(recs, title, *plotPath); err != nil {
			log.Error("Plot: %v", err)
		} else {
			log.Info("Wrote plot to %s", *plotPath)
		}
	}
}

func openSinks(ctx context.Context, mapPath, frameName, iface, serialDev string, baud int, log *utils.Logger) ([]pwmbus.Sink, error) {
	if iface == "" && serialDev == "" {
		return nil, nil
	}

	fmap, err := pwmbus.LoadFrameMap(mapPath)
	if err != nil {
		return nil, fmt.Errorf("load frame map: %w", err)
	}
	fd, err := fmap.FrameByName(frameName)
	if err != nil {
		return nil, fmt.Errorf("frame: %w", err)
	}

	var sinks []pwmbus.Sink
	if iface != "" {
		s, err := pwmbus.NewCANSink(ctx, iface, fmap, frameName)
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, s)
		log.Info("CAN sink: frame=%s id=0x%X dlc=%d iface=%s", fd.Name, fd.ID, fd.DLC, iface)
	}
	if serialDev != "" {
		s, err := pwmbus.NewSerialSink(serialDev, baud, fmap, frameName)
		if err != nil {
			for _, open := range sinks {
				_ = open.Close()
			}
			return nil, err
		}
		sinks = append(sinks, s)
		log.Info("Serial sink: frame=%s device=%s baud=%d", fd.Name, serialDev, baud)
	}
	return sinks, nil
}

func writeCSVFile(path string, recs []bench.Record, filtered bool) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := bench.WriteCSV(f, recs, filtered); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
