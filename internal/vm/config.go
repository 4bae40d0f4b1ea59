package vm

// Config holds the knobs a host can tune when constructing a VM. It is a
// plain struct built by explicit constructor parameters, following the
// teacher's clock.NewMasterClock(cpuSpeed, ppuSpeed, apuSpeed uint32) style
// rather than a parsed configuration file: there is no ambient config
// format (toml/yaml) anywhere in the interpreter's own concerns, only a
// handful of values a host sets once at startup.
type Config struct {
	// Version selects which of the two version-sensitive logic opcode
	// bytes (0x86, 0x97/0x98) this game's bytecode uses.
	Version Version

	// KeyBufferDepth bounds how many unconsumed key events Tick retains
	// between calls to PressKey and the next tick's key-snapshot step.
	KeyBufferDepth int

	// MessageWindowTimeoutTicks is how many ticks a print window stays
	// open on its own; var 21 counts this down while flag 15 ("leave window
	// open") is set, and with flag 15 clear a window waits for a key.
	MessageWindowTimeoutTicks int

	// RNGSeed seeds the deterministic RNG random/wander draw from. A
	// fixed seed makes scripted-tick tests reproducible.
	RNGSeed int64

	// NumSprites sizes the object/sprite table; AGI's own object number
	// space is a single byte, but real games rarely place more than a few
	// dozen objects in a room at once.
	NumSprites int
}

// DefaultConfig returns the configuration most games ran under: version
// 3.2149 (quit takes one operand, print.at/print.at.v take a message or
// var plus three numbers), a 32-event key buffer, a 10-second
// (at 20Hz) default window timeout, and a 16-slot sprite table (ego plus
// up to 15 other objects, AGI's typical ceiling for a single room).
func DefaultConfig() Config {
	return Config{
		Version:                   Version{3, 2149},
		KeyBufferDepth:            32,
		MessageWindowTimeoutTicks: 200,
		RNGSeed:                   1,
		NumSprites:                16,
	}
}

// Version identifies the interpreter version a game's logic resources were
// compiled against, mirroring internal/logic.Version so a host never needs
// to import internal/logic just to build a Config.
type Version struct {
	Major, Minor int
}
