package main

import (
	"github.com/massung/chip8vm/chip8"
	"github.com/veandco/go-sdl2/sdl"
)

/// Refresh draws the CHIP-8 display to the window.
///
func Refresh() {
	// the background color for the screen
	Renderer.SetDrawColor(143, 145, 133, 255)
	Renderer.Clear()

	// set the pixel color
	Renderer.SetDrawColor(17, 29, 43, 255)

	frame := VM.Framebuffer()
	if rects := PixelRects(&frame, int32(Scale)); len(rects) > 0 {
		Renderer.FillRects(rects)
	}

	Renderer.Present()
}

/// PixelRects returns one scaled rectangle per set pixel.
///
func PixelRects(frame *chip8.Frame, scale int32) []sdl.Rect {
	rects := make([]sdl.Rect, 0, 256)

	for y := 0; y < chip8.Height; y++ {
		for x := 0; x < chip8.Width; x++ {
			if frame.Pixel(x, y) {
				rects = append(rects, sdl.Rect{
					X: int32(x) * scale,
					Y: int32(y) * scale,
					W: scale,
					H: scale,
				})
			}
		}
	}

	return rects
}
