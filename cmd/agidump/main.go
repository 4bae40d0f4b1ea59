// Command agidump is a read-only inspector for an AGI game's raw resource
// files: a directory/volume summary, a logic resource disassembly, and a
// view resource's cels exported as PNGs. It mirrors the teacher's
// cmd/dump_logs (flag-driven, single pass over a loaded image, writes a
// report) but reads straight from internal/dirres/internal/logic/
// internal/vocab/internal/view rather than going through a running VM,
// the way a resource inspector should be usable even on a game whose
// bytecode the VM itself cannot yet execute.
package main

import (
	"flag"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strconv"

	"golang.org/x/image/draw"

	"agivm/internal/dirres"
	"agivm/internal/logic"
	"agivm/internal/vocab"
	"agivm/internal/view"
)

var egaPalette = [16]color.RGBA{
	{0x00, 0x00, 0x00, 0xFF}, {0x00, 0x00, 0xAA, 0xFF}, {0x00, 0xAA, 0x00, 0xFF}, {0x00, 0xAA, 0xAA, 0xFF},
	{0xAA, 0x00, 0x00, 0xFF}, {0xAA, 0x00, 0xAA, 0xFF}, {0xAA, 0x55, 0x00, 0xFF}, {0xAA, 0xAA, 0xAA, 0xFF},
	{0x55, 0x55, 0x55, 0xFF}, {0x55, 0x55, 0xFF, 0xFF}, {0x55, 0xFF, 0x55, 0xFF}, {0x55, 0xFF, 0xFF, 0xFF},
	{0xFF, 0x55, 0x55, 0xFF}, {0xFF, 0x55, 0xFF, 0xFF}, {0xFF, 0xFF, 0x55, 0xFF}, {0xFF, 0xFF, 0xFF, 0xFF},
}

// dirNames mirrors internal/vm/load.go's fallback order: per-kind
// directories first, a single combined DIR file if those are absent.
var dirNames = [4]string{"LOGDIR", "PICDIR", "VIEWDIR", "SNDDIR"}

func main() {
	gameDir := flag.String("game", "", "Path to a directory holding a game's resource files")
	logicNum := flag.Int("logic", -1, "Disassemble logic resource N")
	viewNum := flag.Int("view", -1, "Export view resource N's cels as PNGs")
	out := flag.String("out", ".", "Output directory for -view PNG export")
	scale := flag.Int("scale", 4, "Nearest-neighbour scale factor for -view PNG export")
	flag.Parse()

	if *gameDir == "" {
		fmt.Println("Usage: agidump -game <dir> [-logic N] [-view N] [-out dir] [-scale N]")
		os.Exit(1)
	}

	dirs, err := loadDirectories(*gameDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "agidump: %v\n", err)
		os.Exit(1)
	}
	volumes, err := loadVolumes(*gameDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "agidump: %v\n", err)
		os.Exit(1)
	}

	if *logicNum < 0 && *viewNum < 0 {
		printSummary(*gameDir, dirs)
		return
	}

	if *logicNum >= 0 {
		if err := disassembleLogic(dirs[0], volumes, *logicNum); err != nil {
			fmt.Fprintf(os.Stderr, "agidump: logic.%d: %v\n", *logicNum, err)
			os.Exit(1)
		}
	}

	if *viewNum >= 0 {
		if err := exportView(dirs[2], volumes, *viewNum, *out, *scale); err != nil {
			fmt.Fprintf(os.Stderr, "agidump: view.%d: %v\n", *viewNum, err)
			os.Exit(1)
		}
	}
}

func loadDirectories(gameDir string) ([4]*dirres.Directory, error) {
	var out [4]*dirres.Directory
	anyFound := false
	for i, name := range dirNames {
		data, err := os.ReadFile(filepath.Join(gameDir, name))
		if err != nil {
			continue
		}
		d, err := dirres.ParseDirectory(data)
		if err != nil {
			return out, fmt.Errorf("decoding %s: %w", name, err)
		}
		out[i] = d
		anyFound = true
	}
	if anyFound {
		return out, nil
	}
	data, err := os.ReadFile(filepath.Join(gameDir, "DIR"))
	if err != nil {
		return out, fmt.Errorf("no LOGDIR/PICDIR/VIEWDIR/SNDDIR or DIR found in %s", gameDir)
	}
	d, err := dirres.ParseDirectory(data)
	if err != nil {
		return out, fmt.Errorf("decoding DIR: %w", err)
	}
	for i := range out {
		out[i] = d
	}
	return out, nil
}

func loadVolumes(gameDir string) (map[uint8]*dirres.Volume, error) {
	volumes := make(map[uint8]*dirres.Volume)
	for n := 0; n < 16; n++ {
		data, err := os.ReadFile(filepath.Join(gameDir, "VOL."+strconv.Itoa(n)))
		if err != nil {
			continue
		}
		volumes[uint8(n)] = dirres.NewVolume(data)
	}
	if len(volumes) == 0 {
		return nil, fmt.Errorf("no VOL.n files found in %s", gameDir)
	}
	return volumes, nil
}

func fetch(dir *dirres.Directory, volumes map[uint8]*dirres.Volume, num int, v3 bool) ([]byte, error) {
	if dir == nil {
		return nil, fmt.Errorf("no directory loaded for this resource kind")
	}
	entry, ok := dir.Get(num)
	if !ok || !entry.Present() {
		return nil, fmt.Errorf("resource %d not present", num)
	}
	vol, ok := volumes[entry.Volume]
	if !ok {
		return nil, fmt.Errorf("VOL.%d not found", entry.Volume)
	}
	return vol.Fetch(entry, v3)
}

func printSummary(gameDir string, dirs [4]*dirres.Directory) {
	fmt.Printf("agidump: %s\n", gameDir)
	labels := [4]string{"LOGIC", "PICTURE", "VIEW", "SOUND"}
	for i, d := range dirs {
		if d == nil {
			fmt.Printf("  %-7s: (no directory)\n", labels[i])
			continue
		}
		count := 0
		for _, e := range d.All() {
			if e.Present() {
				count++
			}
		}
		fmt.Printf("  %-7s: %d of %d slots present\n", labels[i], count, d.Len())
	}

	if data, err := os.ReadFile(filepath.Join(gameDir, "WORDS.TOK")); err == nil {
		if words, err := vocab.ParseVocabulary(data); err == nil {
			fmt.Printf("  WORDS  : %d entries\n", words.Len())
		}
	}
	if data, err := os.ReadFile(filepath.Join(gameDir, "OBJECT")); err == nil {
		if inv, err := vocab.ParseInventory(data); err == nil {
			fmt.Printf("  OBJECT : %d items\n", len(inv.Items))
			for i, item := range inv.Items {
				fmt.Printf("    %3d: %-24s start room %d\n", i, item.Name, item.StartRoom)
			}
		}
	}
}

// logicVersion matches internal/vm.DefaultConfig's Version (3.2149), since
// a standalone dump has no game-specific version hint to read.
var logicVersion = logic.Version{Major: 3, Minor: 2149}

func disassembleLogic(dir *dirres.Directory, volumes map[uint8]*dirres.Volume, num int) error {
	data, err := fetch(dir, volumes, num, false)
	if err != nil {
		return err
	}
	res, err := logic.ParseResource(data, logicVersion, logic.CompressionNone)
	if err != nil {
		return err
	}

	fmt.Printf("logic.%d: %d operations\n", num, len(res.Sequence.Operations))
	for i, op := range res.Sequence.Operations {
		label := ""
		if l, ok := res.Sequence.Labels[operationAddress(res.Sequence, i)]; ok && (l.IsGotoDestination || l.IfDestinationCnt > 0) {
			label = " <-- label"
		}
		fmt.Printf("  [%3d] op#%-3d %s%s\n", i, op.Op, formatOperands(op.Operands), label)
		if op.Op == logic.OpIf {
			fmt.Printf("         if %s goto op#%d\n", formatConditions(op.Conditions), mustOpIndex(res.Sequence, op.Target.Address))
		}
		if op.Op == logic.OpGoto {
			fmt.Printf("         goto op#%d\n", mustOpIndex(res.Sequence, op.Target.Address))
		}
	}

	fmt.Printf("\nlogic.%d: messages\n", num)
	for i := 1; i < 256; i++ {
		s := res.Messages.String(uint8(i))
		if s == "" {
			continue
		}
		fmt.Printf("  %3d: %q\n", i, s)
	}
	return nil
}

// operationAddress is the inverse of Sequence.LookupOperation: ParseSequence
// does not expose operation index -> address directly, so a disassembler
// wanting to mark jump targets recomputes it from the same Labels map.
func operationAddress(seq *logic.Sequence, opIndex int) int {
	for addr, l := range seq.Labels {
		if l.OperationIndex == opIndex {
			return addr
		}
	}
	return -1
}

func mustOpIndex(seq *logic.Sequence, address int) int {
	idx, ok := seq.LookupOperation(address)
	if !ok {
		return -1
	}
	return idx
}

func formatOperands(ops []logic.Operand) string {
	s := ""
	for _, o := range ops {
		switch v := o.(type) {
		case logic.Flag:
			s += fmt.Sprintf(" f%d", v.Value)
		case logic.Var:
			s += fmt.Sprintf(" v%d", v.Value)
		case logic.Num:
			s += fmt.Sprintf(" #%d", v.Value)
		case logic.Object:
			s += fmt.Sprintf(" o%d", v.Value)
		case logic.Controller:
			s += fmt.Sprintf(" c%d", v.Value)
		case logic.Message:
			s += fmt.Sprintf(" m%d", v.Value)
		case logic.StringSlot:
			s += fmt.Sprintf(" s%d", v.Value)
		case logic.Item:
			s += fmt.Sprintf(" i%d", v.Value)
		case logic.Word:
			s += fmt.Sprintf(" w%d", v.Value)
		default:
			s += fmt.Sprintf(" %v", v)
		}
	}
	return s
}

func formatConditions(conds []logic.Condition) string {
	s := ""
	for i, c := range conds {
		if i > 0 {
			s += " && "
		}
		if c.Negate {
			s += "!"
		}
		if c.Or != nil {
			s += "(" + formatConditions(c.Or) + ")"
			continue
		}
		s += fmt.Sprintf("cond#%d%s", c.Code, formatOperands(c.Operands))
	}
	return s
}

// exportView decodes view resource num and writes every loop/cel as a
// nearest-neighbour-scaled PNG, using golang.org/x/image/draw the way a
// sprite-asset extractor should: indexed AGI cel data is never large enough
// to need anything fancier than the same integer block-replication the
// teacher's render_fixed.go performs for its own framebuffer, but
// expressed through the library rather than hand-rolled a second time.
func exportView(dir *dirres.Directory, volumes map[uint8]*dirres.Volume, num int, outDir string, scale int) error {
	data, err := fetch(dir, volumes, num, false)
	if err != nil {
		return err
	}
	res, err := view.Decode(data)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return err
	}

	fmt.Printf("view.%d: %q, %d loops\n", num, res.Description, len(res.Loops))
	for li, loop := range res.Loops {
		for ci, cel := range loop.Cels {
			if cel.Width == 0 || cel.Height == 0 {
				continue
			}
			src := image.NewRGBA(image.Rect(0, 0, int(cel.Width), int(cel.Height)))
			transparent := cel.TransparentColour()
			for y := 0; y < int(cel.Height); y++ {
				for x := 0; x < int(cel.Width); x++ {
					idx := cel.Pixels[y*int(cel.Width)+x]
					c := egaPalette[idx&0x0F]
					if idx == transparent {
						c.A = 0
					}
					src.SetRGBA(x, y, c)
				}
			}

			dst := image.NewRGBA(image.Rect(0, 0, int(cel.Width)*scale, int(cel.Height)*scale))
			draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)

			name := filepath.Join(outDir, fmt.Sprintf("view%d_loop%d_cel%d.png", num, li, ci))
			f, err := os.Create(name)
			if err != nil {
				return err
			}
			if err := png.Encode(f, dst); err != nil {
				f.Close()
				return err
			}
			f.Close()
			fmt.Printf("  wrote %s (%dx%d)\n", name, dst.Bounds().Dx(), dst.Bounds().Dy())
		}
	}
	return nil
}
