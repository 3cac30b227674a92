package main

import (
	"github.com/retroenv/retrogolib/log"
	"github.com/veandco/go-sdl2/sdl"
)

var (
	/// Mapping of modern keyboard to CHIP-8 keys.
	///
	KeyMap = map[sdl.Scancode]int{
		sdl.SCANCODE_X: 0x0,
		sdl.SCANCODE_1: 0x1,
		sdl.SCANCODE_2: 0x2,
		sdl.SCANCODE_3: 0x3,
		sdl.SCANCODE_Q: 0x4,
		sdl.SCANCODE_W: 0x5,
		sdl.SCANCODE_E: 0x6,
		sdl.SCANCODE_A: 0x7,
		sdl.SCANCODE_S: 0x8,
		sdl.SCANCODE_D: 0x9,
		sdl.SCANCODE_Z: 0xA,
		sdl.SCANCODE_C: 0xB,
		sdl.SCANCODE_4: 0xC,
		sdl.SCANCODE_R: 0xD,
		sdl.SCANCODE_F: 0xE,
		sdl.SCANCODE_V: 0xF,
	}
)

/// ProcessEvents from SDL and map keys to the CHIP-8 VM. Returns false
/// once the user wants to quit.
///
func ProcessEvents() bool {
	for e := sdl.PollEvent(); e != nil; e = sdl.PollEvent() {
		switch ev := e.(type) {
		case *sdl.QuitEvent:
			return false
		case *sdl.KeyboardEvent:
			pressed := ev.Type == sdl.KEYDOWN

			if key, ok := KeyMap[ev.Keysym.Scancode]; ok {
				if err := VM.SetKey(key, pressed); err != nil {
					Logger.Error("Key mapping failed", log.Err(err))
				}
				continue
			}

			// emulator keys only act on the initial press
			if !pressed || ev.Repeat != 0 {
				continue
			}

			if !Hotkey(ev.Keysym.Scancode, ev.Keysym.Mod) {
				return false
			}
		}
	}

	return true
}

/// Hotkey handles an emulator key press. Returns false to quit.
///
func Hotkey(code sdl.Scancode, mod uint16) bool {
	switch code {
	case sdl.SCANCODE_ESCAPE:
		return false
	case sdl.SCANCODE_BACKSPACE:
		if err := Reboot(); err != nil {
			Logger.Error("Reboot failed", log.Err(err))
		}

		// holding control during reset will reboot paused
		Paused = mod&sdl.KMOD_CTRL != 0
		SetTitle()
	case sdl.SCANCODE_F1, sdl.SCANCODE_H:
		DebugHelp()
	case sdl.SCANCODE_F3:
		LoadDialog()
	case sdl.SCANCODE_LEFTBRACKET:
		SetSpeed(Steps - 1)
	case sdl.SCANCODE_RIGHTBRACKET:
		SetSpeed(Steps + 1)
	case sdl.SCANCODE_F5, sdl.SCANCODE_SPACE:
		Paused = !Paused
		SetTitle()
	case sdl.SCANCODE_F6, sdl.SCANCODE_F10:
		if Paused {
			DebugStep()
		}
	case sdl.SCANCODE_F7, sdl.SCANCODE_F11:
		if Paused {
			StepOver()
			SetTitle()
		}
	case sdl.SCANCODE_F2:
		DebugRegisters()
		DebugAssembly()
	case sdl.SCANCODE_F8:
		DebugMemory()
	case sdl.SCANCODE_F9:
		ToggleBreakpoint()
	}

	return true
}
