package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/massung/chip8vm/chip8"
	"github.com/retroenv/retrogolib/log"
	"github.com/sqweek/dialog"
	"github.com/veandco/go-sdl2/sdl"
)

var (
	/// The CHIP-8 virtual machine.
	///
	VM *chip8.Machine

	/// File is the path of the loaded ROM.
	///
	File string

	/// Steps is how many instructions are executed per 60 Hz frame.
	///
	Steps int

	/// Scale is the size of a CHIP-8 pixel on screen.
	///
	Scale int

	/// Logger for everything the emulator reports.
	///
	Logger *log.Logger

	/// The SDL Window and Renderer.
	///
	Window   *sdl.Window
	Renderer *sdl.Renderer
)

func init() {
	runtime.LockOSThread()
}

func main() {
	opts, err := ParseFlags(os.Args[1:])
	if err != nil {
		var usageErr *UsageError
		if errors.As(err, &usageErr) {
			usageErr.ShowUsage()
			os.Exit(2)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	Logger = CreateLogger(opts.Debug, opts.Quiet)
	Steps = opts.Steps
	Scale = opts.Scale
	Paused = opts.Paused

	// no rom given on the command line, ask for one
	if opts.ROM == "" {
		if opts.ROM, err = OpenDialog(); err != nil {
			if errors.Is(err, dialog.ErrCancelled) {
				return
			}
			Logger.Fatal("Selecting ROM failed", log.Err(err))
		}
	}

	if err = Load(opts.ROM); err != nil {
		Logger.Fatal("Loading ROM failed", log.Err(err))
	}

	// initialize SDL or die
	if err = sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		Logger.Fatal("Initializing SDL failed", log.Err(err))
	}
	defer sdl.Quit()

	// create the main window and renderer
	w, h := int32(chip8.Width*Scale), int32(chip8.Height*Scale)
	if Window, Renderer, err = sdl.CreateWindowAndRenderer(w, h, sdl.WINDOW_SHOWN); err != nil {
		Logger.Fatal("Creating window failed", log.Err(err))
	}
	defer Window.Destroy()
	defer Renderer.Destroy()

	SetTitle()

	// the timers and display both run at 60 Hz
	video := time.NewTicker(time.Second / 60)
	defer video.Stop()

	// loop until window closed or user quit
	for ProcessEvents() {
		<-video.C

		if !Paused {
			if hit, err := Emulate(VM, Steps, Breaks); err != nil {
				Halt(err)
			} else if hit {
				Break()
			}
		}

		Refresh()
	}
}

/// Emulate runs a single 60 Hz frame: steps instructions followed by
/// one timer tick. The frame ends early, without ticking the timers, at
/// the first failing instruction or when the program counter reaches a
/// breakpoint. Returns true for a breakpoint.
///
func Emulate(vm *chip8.Machine, steps int, breaks *Breakpoints) (bool, error) {
	for i := 0; i < steps; i++ {
		if err := vm.Step(); err != nil {
			return false, err
		}

		// don't stop on every poll while waiting for a key
		if breaks != nil && !vm.Waiting() && breaks.Hit(vm.PC()) {
			return true, nil
		}
	}

	vm.TickTimers()

	return false, nil
}

/// Load a ROM file into a new virtual machine.
///
func Load(file string) error {
	vm, err := chip8.LoadFile(file, chip8.WithLogger(Logger))
	if err != nil {
		return err
	}

	// breakpoints belong to the previous program
	if file != File {
		Breaks.Clear()
	}

	VM = vm
	File = file

	Logger.Info("Loaded ROM", log.String("file", file))

	if Window != nil {
		SetTitle()
	}

	return nil
}

/// Reboot the virtual machine with the current ROM.
///
func Reboot() error {
	program, err := os.ReadFile(File)
	if err != nil {
		return fmt.Errorf("reading rom: %w", err)
	}

	VM.Reset()

	if err := VM.Load(program); err != nil {
		return err
	}

	Logger.Info("Rebooted", log.String("file", File))

	return nil
}

/// OpenDialog asks the user for a ROM file.
///
func OpenDialog() (string, error) {
	return dialog.File().
		Filter("CHIP-8 ROM", "ch8", "c8").
		Filter("All files", "*").
		Title("Load ROM").
		Load()
}

/// LoadDialog replaces the running ROM with one picked by the user.
///
func LoadDialog() {
	file, err := OpenDialog()
	if err != nil {
		if !errors.Is(err, dialog.ErrCancelled) {
			Logger.Error("Selecting ROM failed", log.Err(err))
		}
		return
	}

	if err := Load(file); err != nil {
		Logger.Error("Loading ROM failed", log.Err(err))
	}
}

/// Halt emulation after an instruction failed. The machine is left
/// paused so it can be inspected or rebooted.
///
func Halt(err error) {
	Paused = true

	Logger.Error("Emulation halted",
		log.Err(err),
		log.String("instruction", VM.Disassemble(VM.PC())))

	SetTitle()

	dialog.Message("%s", err).Title("CHIP-8").Error()
}

/// SetTitle shows the ROM name and run state in the window title.
///
func SetTitle() {
	title := "CHIP-8 - " + filepath.Base(File)

	if Paused {
		title += " [paused]"
	}

	Window.SetTitle(title)
}
