// Command agivm is the SDL2 host for the AGI virtual machine: it opens a
// window, blits the VM's composited framebuffer into it every frame at an
// integer pixel scale, and forwards keyboard events to the VM's key buffer.
// It follows the same flag/usage/window/renderer/texture shape as the
// teacher's cmd/emulator and internal/ui.UI (SDL2 window + streaming
// texture + nearest-neighbour manual scaling), adapted for an AGI
// framebuffer instead of a PPU scanline buffer.
package main

import (
	"flag"
	"fmt"
	"os"
	"unsafe"

	"github.com/veandco/go-sdl2/sdl"

	"agivm/internal/vm"
)

// egaPalette is AGI's fixed 16-colour EGA palette, 0xRRGGBB per index; the
// VM's framebuffer carries palette indices, never packed colour, so the
// host owns this lookup table the way the teacher's UI owns its own
// colour-channel unpacking in internal/ui/render_fixed.go.
var egaPalette = [16]uint32{
	0x000000, 0x0000AA, 0x00AA00, 0x00AAAA,
	0xAA0000, 0xAA00AA, 0xAA5500, 0xAAAAAA,
	0x555555, 0x5555FF, 0x55FF55, 0x55FFFF,
	0xFF5555, 0xFF55FF, 0xFFFF55, 0xFFFFFF,
}

// sdlKeyToVM translates an SDL key code into the key codes vm.PressKey
// expects, mirroring internal/vm/input.go's keyUp/keyDown/.../keyStop table
// (directional numeric-keypad scan codes) plus plain ASCII passthrough for
// everything else accept_input cares about.
func sdlKeyToVM(sym sdl.Keycode) (uint16, bool) {
	switch sym {
	case sdl.K_UP, sdl.K_KP_8:
		return 0x4800, true
	case sdl.K_DOWN, sdl.K_KP_2:
		return 0x5000, true
	case sdl.K_LEFT, sdl.K_KP_4:
		return 0x4B00, true
	case sdl.K_RIGHT, sdl.K_KP_6:
		return 0x4D00, true
	case sdl.K_KP_7:
		return 0x4700, true
	case sdl.K_KP_9:
		return 0x4900, true
	case sdl.K_KP_1:
		return 0x4F00, true
	case sdl.K_KP_3:
		return 0x5100, true
	case sdl.K_KP_5:
		return 0x4C00, true
	case sdl.K_RETURN, sdl.K_KP_ENTER:
		return 0x0D, true
	case sdl.K_BACKSPACE:
		return 0x08, true
	case sdl.K_ESCAPE:
		return 0, false
	}
	if sym >= 0x20 && sym < 0x7F {
		return uint16(sym), true
	}
	return 0, false
}

func main() {
	gameDir := flag.String("game", "", "Path to a directory holding a game's LOGDIR/PICDIR/VIEWDIR/SNDDIR/VOL.n/WORDS.TOK/OBJECT files")
	scale := flag.Int("scale", 3, "Integer pixel scale")
	controllerKey := flag.Int("bind", -1, "Optional SDL scancode-style key to bind to controller 0 before the first tick")
	flag.Parse()

	if *gameDir == "" {
		fmt.Println("Usage: agivm -game <dir> [-scale N]")
		fmt.Println("Runs an AGI game's resource directory through the VM, rendered in an SDL2 window.")
		os.Exit(1)
	}

	theVM, err := vm.LoadGame(os.DirFS(*gameDir))
	if err != nil {
		fmt.Fprintf(os.Stderr, "agivm: loading %s: %v\n", *gameDir, err)
		os.Exit(1)
	}
	if *controllerKey >= 0 {
		theVM.SetController(0, uint16(*controllerKey))
	}

	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		fmt.Fprintf(os.Stderr, "agivm: sdl.Init: %v\n", err)
		os.Exit(1)
	}
	defer sdl.Quit()

	sdl.SetHint(sdl.HINT_RENDER_SCALE_QUALITY, "0")

	width := int32(vm.FramebufferWidth * *scale)
	height := int32(vm.FramebufferHeight * *scale)
	window, err := sdl.CreateWindow("agivm", sdl.WINDOWPOS_CENTERED, sdl.WINDOWPOS_CENTERED, width, height, sdl.WINDOW_SHOWN)
	if err != nil {
		fmt.Fprintf(os.Stderr, "agivm: CreateWindow: %v\n", err)
		os.Exit(1)
	}
	defer window.Destroy()

	renderer, err := sdl.CreateRenderer(window, -1, sdl.RENDERER_ACCELERATED|sdl.RENDERER_PRESENTVSYNC)
	if err != nil {
		fmt.Fprintf(os.Stderr, "agivm: CreateRenderer: %v\n", err)
		os.Exit(1)
	}
	defer renderer.Destroy()

	texture, err := renderer.CreateTexture(sdl.PIXELFORMAT_RGB888, sdl.TEXTUREACCESS_STREAMING, width, height)
	if err != nil {
		fmt.Fprintf(os.Stderr, "agivm: CreateTexture: %v\n", err)
		os.Exit(1)
	}
	defer texture.Destroy()
	texture.SetBlendMode(sdl.BLENDMODE_NONE)

	fmt.Printf("agivm: %s loaded, room %d. Arrow keys move ego, Enter commits typed commands, Esc quits.\n",
		*gameDir, theVM.State().CurrentRoom)

	scaled := make([]byte, int(width)*int(height)*3)
	running := true
	for running && !theVM.Quit() {
		for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
			switch e := event.(type) {
			case *sdl.QuitEvent:
				running = false
			case *sdl.KeyboardEvent:
				if e.Type != sdl.KEYDOWN {
					continue
				}
				if e.Keysym.Sym == sdl.K_ESCAPE {
					running = false
					continue
				}
				if key, ok := sdlKeyToVM(e.Keysym.Sym); ok {
					theVM.PressKey(key)
				}
			}
		}

		if err := theVM.Tick(false, false); err != nil {
			fmt.Fprintf(os.Stderr, "agivm: tick: %v\n", err)
			running = false
			continue
		}

		blitScaled(theVM.Framebuffer(), scaled, vm.FramebufferWidth, vm.FramebufferHeight, *scale)
		if err := texture.Update(nil, unsafe.Pointer(&scaled[0]), int(width)*3); err != nil {
			fmt.Fprintf(os.Stderr, "agivm: texture update: %v\n", err)
			running = false
			continue
		}
		renderer.Clear()
		renderer.Copy(texture, nil, nil)
		renderer.Present()
		sdl.Delay(1)
	}
}

// blitScaled nearest-neighbour-scales src (one palette-index byte per
// pixel) into dst (3 BGR bytes per pixel, SDL's RGB888 packing order),
// following the block-replication loop internal/ui/render_fixed.go uses for
// its own integer pixel scaling.
func blitScaled(src []uint8, dst []byte, srcW, srcH, scale int) {
	dstW := srcW * scale
	for y := 0; y < srcH; y++ {
		for x := 0; x < srcW; x++ {
			c := egaPalette[src[y*srcW+x]&0x0F]
			r := byte(c >> 16)
			g := byte(c >> 8)
			b := byte(c)
			for sy := 0; sy < scale; sy++ {
				row := (y*scale+sy)*dstW + x*scale
				for sx := 0; sx < scale; sx++ {
					idx := (row + sx) * 3
					dst[idx] = b
					dst[idx+1] = g
					dst[idx+2] = r
				}
			}
		}
	}
}
