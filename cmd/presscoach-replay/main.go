package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/claude/presscoach/internal/ingest"
	"github.com/claude/presscoach/internal/ingest/landmarks"
	"github.com/claude/presscoach/internal/models"
	"github.com/claude/presscoach/internal/replay"
	"github.com/claude/presscoach/internal/session"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	file := flag.String("file", "", "newline-delimited JSON landmark recording")
	serverURL := flag.String("server", "", "PressCoach server URL; empty runs the session locally")
	apiKey := flag.String("api-key", "", "API key for frame ingest (remote mode)")
	format := flag.String("format", "json", "wire format for remote mode: json or msgpack")
	batchSize := flag.Int("batch-size", 1, "frames per request")
	pace := flag.Duration("pace", 0, "wait between batches (e.g. 33ms for 30 fps)")
	name := flag.String("name", "", "user name")
	goal := flag.String("goal", "00:05:00", "goal duration HH:MM:SS")
	weight := flag.Float64("weight", 70, "body weight in kg")
	repsPerSet := flag.Int("reps-per-set", 10, "reps per set")
	sets := flag.Int("sets", 3, "target sets")
	verbose := flag.Bool("v", false, "print every snapshot")
	version := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *version {
		fmt.Println("presscoach-replay", Version)
		return
	}

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if *file == "" {
		fmt.Fprintf(os.Stderr, "Usage: presscoach-replay -file <recording.ndjson> [-server URL -api-key KEY] [-goal HH:MM:SS] [-weight KG]\n\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	wireFormat, err := landmarks.ParseFormat(*format)
	if err != nil {
		log.Error("invalid format", "error", err)
		os.Exit(1)
	}

	in := session.Input{Name: *name, Goal: *goal, WeightKg: *weight, RepsPerSet: *repsPerSet, TargetSets: *sets}
	cfg, err := in.Parse()
	if err != nil {
		log.Error("invalid session", "error", err)
		os.Exit(1)
	}

	f, err := os.Open(*file)
	if err != nil {
		log.Error("failed to open recording", "error", err)
		os.Exit(1)
	}
	defer f.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	opts := replay.Options{BatchSize: *batchSize, Pace: *pace}
	if *verbose {
		opts.OnBatch = printSnapshot
	}

	var (
		stats   *replay.Stats
		result  *models.WorkoutResult
		summary string
	)
	if *serverURL == "" {
		stats, result, err = runLocal(ctx, cfg, f, opts, log)
		if result != nil {
			summary = result.Summary()
		}
	} else {
		client := replay.NewClient(*serverURL, *apiKey)
		stats, result, summary, err = runRemote(ctx, client, in, wireFormat, f, opts, log)
	}

	if stats != nil {
		printStats(stats)
	}
	if err != nil {
		log.Error("replay failed", "error", err)
		os.Exit(1)
	}
	if result != nil {
		printResult(result, summary)
	}
}

// runLocal plays the recording through an in-process session. The clock is
// driven by frame timestamps instead of the wall clock.
func runLocal(ctx context.Context, cfg session.Config, f *os.File, opts replay.Options, log *slog.Logger) (*replay.Stats, *models.WorkoutResult, error) {
	manager := session.NewManager(nil, nil, log)
	manager.Configure(cfg)
	if _, err := manager.Start(); err != nil {
		return nil, nil, err
	}

	opts.Clock = manager
	stats, err := replay.New(landmarks.NewProvider(manager, log), opts, log).Run(ctx, f)
	if err != nil {
		return stats, nil, err
	}

	s, err := manager.Current()
	if err != nil {
		return stats, nil, err
	}
	if r, ok := s.Result(); ok {
		return stats, &r, nil
	}
	r, err := manager.Finish()
	if err != nil {
		return stats, nil, err
	}
	return stats, &r, nil
}

// runRemote configures and starts a session on the server, streams the
// recording to it and finishes the session.
func runRemote(ctx context.Context, client *replay.Client, in session.Input, format landmarks.Format, f *os.File, opts replay.Options, log *slog.Logger) (*replay.Stats, *models.WorkoutResult, string, error) {
	if _, err := client.Configure(ctx, in); err != nil {
		return nil, nil, "", err
	}
	if _, err := client.Control(ctx, "start"); err != nil {
		return nil, nil, "", err
	}
	start := time.Now()

	sink := replay.RemoteSink{Client: client, Format: format}
	stats, err := replay.New(sink, opts, log).Run(ctx, f)
	if err != nil {
		return stats, nil, "", err
	}
	log.Info("recording sent", "frames", stats.Frames, "duration", time.Since(start).Round(time.Millisecond).String())

	if stats.Last != nil && stats.Last.State == session.StateFinished {
		log.Info("session finished on goal; result stored by the server")
		return stats, nil, "", nil
	}
	result, summary, err := client.Finish(ctx)
	if err != nil {
		return stats, nil, "", err
	}
	return stats, result, summary, nil
}

func printSnapshot(r *ingest.Result) {
	if r.Snapshot == nil {
		return
	}
	s := r.Snapshot
	fmt.Printf("%-7s reps=%-5.1f sets=%-5s clock=%s (%s) progress=%3.0f%% secondary=%3.0f%%\n",
		s.Label, s.RepCount, s.Sets, s.Clock, s.ClockMode, s.ProgressPrimary.Percent, s.ProgressSecondary.Percent)
}

func printStats(stats *replay.Stats) {
	fmt.Println()
	fmt.Println("=== Replay Summary ===")
	fmt.Printf("  Frames read:      %d\n", stats.Frames)
	fmt.Printf("  Batches sent:     %d\n", stats.Batches)
	fmt.Printf("  Frames applied:   %d\n", stats.Applied)
	fmt.Printf("  Frames skipped:   %d (missing joints)\n", stats.Skipped)
	fmt.Printf("  Frames rejected:  %d\n", stats.Rejected)
	if stats.Ticks > 0 {
		fmt.Printf("  Clock ticks:      %d\n", stats.Ticks)
	}
	if s := stats.Last; s != nil {
		fmt.Println()
		fmt.Printf("  Label:            %s\n", s.Label)
		fmt.Printf("  Reps:             %.1f\n", s.RepCount)
		fmt.Printf("  Sets:             %s\n", s.Sets)
		fmt.Printf("  Secondary:        %.0f%%\n", s.ProgressSecondary.Percent)
	}
	fmt.Println()
}

func printResult(r *models.WorkoutResult, summary string) {
	fmt.Println("=== Workout ===")
	fmt.Printf("  Duration:         %s\n", r.Duration().Round(time.Second))
	fmt.Printf("  Total reps:       %d\n", r.TotalReps)
	fmt.Printf("  Sets:             %d/%d\n", r.CompletedSets, r.TargetSets)
	fmt.Printf("  Calories:         %.1f\n", r.Calories)
	fmt.Println()
	fmt.Println(summary)
}
