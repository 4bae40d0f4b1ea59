// Command agidebugger is a Fyne-based inspector for the AGI virtual
// machine: a live view of the composited framebuffer alongside scrollable
// variable/flag/sprite panels and breakpoint controls, in the shape of the
// teacher's internal/ui/panels (RegisterViewer, MemoryViewer) wired into a
// canvas.Image update loop the way internal/ui/fyne_ui.go drives its own
// emulator display, adapted from a 60Hz free-run emulator to a
// debugger that starts paused and steps one Tick at a time.
package main

import (
	"flag"
	"fmt"
	"image"
	"image/color"
	"os"
	"strconv"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"agivm/internal/vm"
)

var egaPalette = [16]color.RGBA{
	{0x00, 0x00, 0x00, 0xFF}, {0x00, 0x00, 0xAA, 0xFF}, {0x00, 0xAA, 0x00, 0xFF}, {0x00, 0xAA, 0xAA, 0xFF},
	{0xAA, 0x00, 0x00, 0xFF}, {0xAA, 0x00, 0xAA, 0xFF}, {0xAA, 0x55, 0x00, 0xFF}, {0xAA, 0xAA, 0xAA, 0xFF},
	{0x55, 0x55, 0x55, 0xFF}, {0x55, 0x55, 0xFF, 0xFF}, {0x55, 0xFF, 0x55, 0xFF}, {0x55, 0xFF, 0xFF, 0xFF},
	{0xFF, 0x55, 0x55, 0xFF}, {0xFF, 0x55, 0xFF, 0xFF}, {0xFF, 0xFF, 0x55, 0xFF}, {0xFF, 0xFF, 0xFF, 0xFF},
}

func main() {
	gameDir := flag.String("game", "", "Path to a directory holding a game's resource files")
	flag.Parse()
	if *gameDir == "" {
		fmt.Println("Usage: agidebugger -game <dir>")
		os.Exit(1)
	}

	theVM, err := vm.LoadGame(os.DirFS(*gameDir))
	if err != nil {
		fmt.Fprintf(os.Stderr, "agidebugger: loading %s: %v\n", *gameDir, err)
		os.Exit(1)
	}

	fyneApp := app.NewWithID("agivm.agidebugger")
	window := fyneApp.NewWindow("agivm debugger")

	frameImg := image.NewRGBA(image.Rect(0, 0, vm.FramebufferWidth, vm.FramebufferHeight))
	emulatorImage := canvas.NewImageFromImage(frameImg)
	emulatorImage.FillMode = canvas.ImageFillContain
	emulatorImage.Resize(fyne.NewSize(float32(vm.FramebufferWidth), float32(vm.FramebufferHeight)))

	statusLabel := widget.NewLabel("")
	stateText := widget.NewMultiLineEntry()
	stateText.Wrapping = fyne.TextWrapOff
	stateText.Disable()
	stateScroll := container.NewScroll(stateText)
	stateScroll.SetMinSize(fyne.NewSize(320, 260))

	running := false

	refresh := func() {
		renderInto(theVM.Framebuffer(), frameImg)
		emulatorImage.Refresh()
		statusLabel.SetText(statusText(theVM))
		stateText.SetText(formatState(theVM))
	}

	var runBtn *widget.Button
	step := func() {
		if theVM.AtBreakpoint() {
			theVM.ResumeFromBreakpoint()
		}
		if err := theVM.Tick(false, false); err != nil {
			statusLabel.SetText(fmt.Sprintf("tick error: %v", err))
			return
		}
		refresh()
	}
	stepBtn := widget.NewButton("Step", step)
	runBtn = widget.NewButton("Run", func() {
		running = !running
		if running {
			runBtn.SetText("Pause")
		} else {
			runBtn.SetText("Run")
		}
	})

	bpEntry := widget.NewEntry()
	bpEntry.SetPlaceHolder("script:pc (e.g. 1:0)")
	tempCheck := widget.NewCheck("temporary", nil)
	tempCheck.SetChecked(true)
	setBpBtn := widget.NewButton("Set breakpoint", func() {
		script, pc, ok := parseScriptPC(bpEntry.Text)
		if !ok {
			statusLabel.SetText("bad breakpoint syntax, want script:pc")
			return
		}
		theVM.SetBreakpoint(script, pc, tempCheck.Checked)
		refresh()
	})
	resumeBtn := widget.NewButton("Resume", func() {
		theVM.ResumeFromBreakpoint()
		refresh()
	})

	controls := container.NewVBox(
		statusLabel,
		container.NewHBox(stepBtn, runBtn),
		widget.NewLabel("Breakpoints"),
		container.NewHBox(bpEntry, tempCheck, setBpBtn),
		resumeBtn,
		widget.NewLabel("State"),
		stateScroll,
	)

	window.SetContent(container.NewHSplit(emulatorImage, controls))
	window.Resize(fyne.NewSize(900, 600))

	if c, ok := window.Canvas().(desktop.Canvas); ok {
		c.SetOnKeyDown(func(key *fyne.KeyEvent) {
			if vmKey, ok := fyneKeyToVM(key.Name); ok {
				theVM.PressKey(vmKey)
			}
		})
	}

	refresh()

	go func() {
		ticker := time.NewTicker(time.Second / 60)
		defer ticker.Stop()
		for range ticker.C {
			if !running || theVM.Quit() {
				continue
			}
			fyne.Do(step)
		}
	}()

	window.ShowAndRun()
}

func statusText(v *vm.VM) string {
	if v.Quit() {
		return "quit"
	}
	if v.AtBreakpoint() {
		script, pc, _ := v.PausedAt()
		return fmt.Sprintf("room %d — paused at breakpoint %d:%d", v.State().CurrentRoom, script, pc)
	}
	return fmt.Sprintf("room %d", v.State().CurrentRoom)
}

// formatState renders the non-zero variables, set flags, and active
// sprites, the same "dump what changed, not the whole fixed table" shape
// as the teacher's panels.RegisterViewer formats CPU state.
func formatState(v *vm.VM) string {
	st := v.State()
	var b strings.Builder

	fmt.Fprintf(&b, "=== Variables (non-zero) ===\n")
	for i, val := range st.Vars {
		if val != 0 {
			fmt.Fprintf(&b, "  v%d = %d\n", i, val)
		}
	}

	fmt.Fprintf(&b, "\n=== Flags (set) ===\n")
	for i, set := range st.Flags {
		if set {
			fmt.Fprintf(&b, "  f%d\n", i)
		}
	}

	fmt.Fprintf(&b, "\n=== Sprites (active) ===\n")
	for i, s := range st.Sprites {
		if !s.Active {
			continue
		}
		fmt.Fprintf(&b, "  obj%d: pos=(%d,%d) view=%d loop=%d cel=%d visible=%v\n",
			i, s.X, s.Y, s.ViewNum, s.Loop, s.Cel, s.Visible)
	}

	fmt.Fprintf(&b, "\n=== Breakpoints ===\n")
	for _, bp := range v.Breakpoints() {
		fmt.Fprintf(&b, "  %d:%d (temporary=%v)\n", bp.Script, bp.PC, bp.Temporary)
	}

	return b.String()
}

func parseScriptPC(s string) (script, pc int, ok bool) {
	parts := strings.SplitN(strings.TrimSpace(s), ":", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}
	script, err1 := strconv.Atoi(strings.TrimSpace(parts[0]))
	pc, err2 := strconv.Atoi(strings.TrimSpace(parts[1]))
	return script, pc, err1 == nil && err2 == nil
}

// renderInto paints one palette-indexed framebuffer into an RGBA image
// canvas.Image can display, 1:1 (Fyne's own FillMode handles scaling, the
// way emulatorImage.FillMode = canvas.ImageFillContain does in fyne_ui.go).
func renderInto(buf []uint8, img *image.RGBA) {
	for y := 0; y < vm.FramebufferHeight; y++ {
		row := y * vm.FramebufferWidth
		for x := 0; x < vm.FramebufferWidth; x++ {
			img.SetRGBA(x, y, egaPalette[buf[row+x]&0x0F])
		}
	}
}

func fyneKeyToVM(name fyne.KeyName) (uint16, bool) {
	switch name {
	case fyne.KeyUp:
		return 0x4800, true
	case fyne.KeyDown:
		return 0x5000, true
	case fyne.KeyLeft:
		return 0x4B00, true
	case fyne.KeyRight:
		return 0x4D00, true
	case fyne.KeyReturn, fyne.KeyEnter:
		return 0x0D, true
	case fyne.KeyBackspace:
		return 0x08, true
	}
	s := string(name)
	if len(s) == 1 {
		return uint16(s[0]), true
	}
	return 0, false
}
