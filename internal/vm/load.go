package vm

import (
	"errors"
	"fmt"
	"io/fs"
	"math/rand"
	"strconv"

	"agivm/internal/dirres"
	"agivm/internal/logic"
	"agivm/internal/view"
	"agivm/internal/vocab"
)

// ErrMissingResource is returned when LoadGame cannot find a required
// top-level file (a directory, OBJECT, or WORDS.TOK) in the supplied
// filesystem.
var ErrMissingResource = errors.New("vm: missing required resource file")

// dirNames are the four per-kind directory files spec.md §6 names, tried
// in this order; some releases ship a single combined DIR file instead
// (handled by loadDirectories falling back to it).
var dirNames = [4]string{"LOGDIR", "PICDIR", "VIEWDIR", "SNDDIR"}

// LoadGame decodes a complete game from root, the way
// memory.NewCartridge()+LoadROM decodes a ROM image in the teacher: it
// reads every top-level resource file through fs.FS (so tests can
// substitute fstest.MapFS the way the teacher's cartridge tests substitute
// in-memory byte slices) and returns a VM ready for its first Tick.
//
// opts, if given, overrides DefaultConfig(); at most one Config is read.
func LoadGame(root fs.FS, opts ...Config) (*VM, error) {
	cfg := DefaultConfig()
	if len(opts) > 0 {
		cfg = opts[0]
	}

	dirs, err := loadDirectories(root)
	if err != nil {
		return nil, err
	}

	volumes, err := loadVolumes(root)
	if err != nil {
		return nil, err
	}

	wordsData, err := fs.ReadFile(root, "WORDS.TOK")
	if err != nil {
		return nil, fmt.Errorf("vm: %w: WORDS.TOK: %v", ErrMissingResource, err)
	}
	words, err := vocab.ParseVocabulary(wordsData)
	if err != nil {
		return nil, fmt.Errorf("vm: decoding WORDS.TOK: %w", err)
	}

	objData, err := fs.ReadFile(root, "OBJECT")
	if err != nil {
		return nil, fmt.Errorf("vm: %w: OBJECT: %v", ErrMissingResource, err)
	}
	inventory, err := vocab.ParseInventory(objData)
	if err != nil {
		return nil, fmt.Errorf("vm: decoding OBJECT: %w", err)
	}

	vm := &VM{
		cfg:         cfg,
		logicDir:    dirs[0],
		picDir:      dirs[1],
		viewDir:     dirs[2],
		soundDir:    dirs[3],
		volumes:     volumes,
		words:       words,
		inventory:   inventory,
		logics:      make(map[int]*logic.Resource),
		views:       make(map[int]*view.Resource),
		rng:         rand.New(rand.NewSource(cfg.RNGSeed)),
		logger:      NewLogger(1000),
		controllers: NewControllers(),
		font:        NewBuiltinFont(),
		composite:   make([]uint8, FramebufferWidth*FramebufferHeight),
		scanStart:   make(map[int]int),
		itemRoom:    make(map[int]int),
	}
	vm.planes = newPlanes()
	vm.state.Sprites = make([]Sprite, cfg.NumSprites)
	vm.state.Sprites[egoIndex] = Sprite{
		Active: true, Visible: true, ViewNum: 0, PlayerControlled: true,
		StepSize: 1, Priority: 0, X: 80, Y: 130,
	}
	vm.state.AcceptingInput = true
	for i, item := range inventory.Items {
		vm.itemRoom[i] = int(item.StartRoom)
	}
	vm.resetTextOverlay()

	if err := vm.enterRoomFromScratch(); err != nil {
		return nil, err
	}

	return vm, nil
}

func (vm *VM) logicVersion() logic.Version {
	return logic.Version{Major: vm.cfg.Version.Major, Minor: vm.cfg.Version.Minor}
}

// loadDirectories reads the four per-kind directory files, falling back to
// a single combined DIR file (byte-identical layout, just concatenated
// differently by some distributions) when the per-kind files are absent.
func loadDirectories(root fs.FS) ([4]*dirres.Directory, error) {
	var out [4]*dirres.Directory
	anyFound := false
	for i, name := range dirNames {
		data, err := fs.ReadFile(root, name)
		if err != nil {
			continue
		}
		d, err := dirres.ParseDirectory(data)
		if err != nil {
			return out, fmt.Errorf("vm: decoding %s: %w", name, err)
		}
		out[i] = d
		anyFound = true
	}
	if anyFound {
		return out, nil
	}

	data, err := fs.ReadFile(root, "DIR")
	if err != nil {
		return out, fmt.Errorf("vm: %w: no LOGDIR/PICDIR/VIEWDIR/SNDDIR or DIR found", ErrMissingResource)
	}
	d, err := dirres.ParseDirectory(data)
	if err != nil {
		return out, fmt.Errorf("vm: decoding DIR: %w", err)
	}
	for i := range out {
		out[i] = d
	}
	return out, nil
}

// loadVolumes reads every VOL.n file present, up to 16 (AGI never shipped
// more).
func loadVolumes(root fs.FS) (map[uint8]*dirres.Volume, error) {
	volumes := make(map[uint8]*dirres.Volume)
	for n := 0; n < 16; n++ {
		name := "VOL." + strconv.Itoa(n)
		data, err := fs.ReadFile(root, name)
		if err != nil {
			continue
		}
		volumes[uint8(n)] = dirres.NewVolume(data)
	}
	if len(volumes) == 0 {
		return nil, fmt.Errorf("vm: %w: no VOL.n files found", ErrMissingResource)
	}
	return volumes, nil
}

// fetchLogic decodes and caches logic resource num.
func (vm *VM) fetchLogic(num int) (*logic.Resource, error) {
	if r, ok := vm.logics[num]; ok {
		return r, nil
	}
	data, err := vm.fetchVolumeData(vm.logicDir, num, false)
	if err != nil {
		return nil, err
	}
	r, err := logic.ParseResource(data, vm.logicVersion(), logic.CompressionNone)
	if err != nil {
		vm.logger.Warnf("logic.%d: elided, decode failed: %v", num, err)
		return nil, err
	}
	vm.logics[num] = r
	return r, nil
}

// fetchView decodes and caches view resource num.
func (vm *VM) fetchView(num int) (*view.Resource, error) {
	if r, ok := vm.views[num]; ok {
		return r, nil
	}
	data, err := vm.fetchVolumeData(vm.viewDir, num, false)
	if err != nil {
		return nil, err
	}
	r, err := view.Decode(data)
	if err != nil {
		vm.logger.Warnf("view.%d: elided, decode failed: %v", num, err)
		return nil, err
	}
	vm.views[num] = r
	return r, nil
}

// fetchPicProgram returns the raw opcode stream for picture resource num
// (pictures are re-rasterised every load.pic, not cached decoded, since
// add.to.pic and draw.pic both mutate the shared planes in place).
func (vm *VM) fetchPicProgram(num int) ([]byte, error) {
	return vm.fetchVolumeData(vm.picDir, num, true)
}

func (vm *VM) fetchVolumeData(dir *dirres.Directory, num int, v3 bool) ([]byte, error) {
	if dir == nil {
		return nil, fmt.Errorf("vm: %w: no directory loaded", ErrMissingResource)
	}
	entry, ok := dir.Get(num)
	if !ok || !entry.Present() {
		return nil, fmt.Errorf("vm: resource %d not present", num)
	}
	volume, ok := vm.volumes[entry.Volume]
	if !ok {
		return nil, fmt.Errorf("vm: %w: VOL.%d", ErrMissingResource, entry.Volume)
	}
	return volume.Fetch(entry, v3)
}
