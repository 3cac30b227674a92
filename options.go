package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/retroenv/retrogolib/log"
)

/// Options are the command line settings of the emulator.
///
type Options struct {
	ROM    string
	Scale  int
	Steps  int
	Debug  bool
	Quiet  bool
	Paused bool
}

/// UsageError is returned by ParseFlags when the usage text should be
/// shown instead of running.
///
type UsageError struct {
	flags *flag.FlagSet
	msg   string
}

func (e *UsageError) Error() string {
	return e.msg
}

/// ShowUsage prints the usage text and flag defaults.
///
func (e *UsageError) ShowUsage() {
	out := os.Stderr
	e.flags.SetOutput(out)

	if e.msg != "" {
		fmt.Fprintf(out, "%s\n\n", e.msg)
	}

	fmt.Fprintf(out, "usage: chip8 [options] [rom file]\n\n")
	e.flags.PrintDefaults()
}

/// ParseFlags parses the command line arguments (without the program
/// name).
///
func ParseFlags(args []string) (Options, error) {
	var opts Options

	flags := flag.NewFlagSet("chip8", flag.ContinueOnError)
	flags.SetOutput(io.Discard)
	flags.IntVar(&opts.Scale, "scale", 15, "size of a CHIP-8 pixel in screen pixels")
	flags.IntVar(&opts.Steps, "steps", 10, "instructions executed per 60 Hz frame")
	flags.BoolVar(&opts.Debug, "debug", false, "trace every instruction")
	flags.BoolVar(&opts.Quiet, "q", false, "only log errors")
	flags.BoolVar(&opts.Paused, "paused", false, "start with emulation paused")

	if err := flags.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return opts, &UsageError{flags: flags}
		}
		return opts, &UsageError{flags: flags, msg: err.Error()}
	}

	switch rest := flags.Args(); len(rest) {
	case 0:
	case 1:
		opts.ROM = rest[0]
	default:
		return opts, &UsageError{flags: flags, msg: "only one rom file may be given"}
	}

	if opts.Scale < 1 {
		return opts, fmt.Errorf("invalid scale %d", opts.Scale)
	}
	if opts.Steps < 1 {
		return opts, fmt.Errorf("invalid steps per frame %d", opts.Steps)
	}

	return opts, nil
}

/// CreateLogger creates a logger for the chosen verbosity.
///
func CreateLogger(debug, quiet bool) *log.Logger {
	cfg := log.DefaultConfig()
	if debug {
		cfg.Level = log.DebugLevel
	} else if quiet {
		cfg.Level = log.ErrorLevel
	}
	return log.NewWithConfig(cfg)
}
