// Package event implements the tag-dispatched, multi-core GP virtual
// machine.
//
// A VM executes a Program, a table of tagged Functions. Work happens
// on cores: independent call stacks of States sharing one VM-owned
// memory. Each SingleProcess delivers one instruction-unit to every
// live core in creation order; cores whose call stack empties are
// freed and the survivors compacted, keeping relative order.
//
// The main frame (bottom of the first core) never returns: when its
// instruction position runs off the end of its function with no block
// left to close, it wraps back to the start.
//
// Functions are addressed by tag similarity rather than by index:
// MatchFunction picks the function whose tag is nearest by Hamming
// distance, lowest index on ties. The event queue is a FIFO the
// surrounding driver fills and drains; the step loop itself never
// consumes it.
package event

import (
	"github.com/pkg/errors"
)

// ErrBadPosition reports a function index or instruction position
// outside the current program.
var ErrBadPosition = errors.New("position outside program")

type core struct {
	frames []*State
}

func (c *core) top() *State {
	if len(c.frames) == 0 {
		return nil
	}
	return c.frames[len(c.frames)-1]
}

// VM is an event-driven GP virtual machine.
type VM struct {
	lib          *Lib
	shared       Memory
	program      Program
	cores        []*core
	curCore      *core
	events       []Event
	errors       int
	maxCores     int
	maxCallDepth int
}

// Option configures a VM at construction.
type Option func(*VM)

// WithLib dispatches through the given library instead of the default
// one.
func WithLib(lib *Lib) Option {
	return func(vm *VM) { vm.lib = lib }
}

// WithMaxCores bounds the number of parallel execution stacks. The
// default is MaxCores.
func WithMaxCores(n int) Option {
	return func(vm *VM) { vm.maxCores = n }
}

// WithMaxCallDepth bounds the call stack of a single core. The
// default is MaxCallDepth.
func WithMaxCallDepth(n int) Option {
	return func(vm *VM) { vm.maxCallDepth = n }
}

// NewVM creates a VM with an empty program and a single main core.
func NewVM(opts ...Option) *VM {
	vm := &VM{
		lib:          DefaultLib(),
		shared:       make(Memory),
		maxCores:     MaxCores,
		maxCallDepth: MaxCallDepth,
	}
	for _, opt := range opts {
		opt(vm)
	}
	vm.spawnMain()
	return vm
}

// NewVMWithLib creates a VM dispatching through the given library.
func NewVMWithLib(lib *Lib) *VM { return NewVM(WithLib(lib)) }

func (vm *VM) spawnMain() {
	main := &core{frames: []*State{newState(vm.shared, true)}}
	vm.cores = append(vm.cores, main)
	vm.curCore = main
}

// Reset clears the program and resets the full hardware.
func (vm *VM) Reset() {
	vm.program = vm.program[:0]
	vm.ResetHardware()
}

// ResetHardware clears shared memory, the event queue and every core,
// then reconstructs the main core. The program is kept.
func (vm *VM) ResetHardware() {
	vm.shared.clear()
	vm.events = vm.events[:0]
	vm.cores = vm.cores[:0]
	vm.errors = 0
	vm.spawnMain()
}

// Accessors.

// GetLib returns the VM's instruction library.
func (vm *VM) GetLib() *Lib { return vm.lib }

// GetProgram returns the VM's program.
func (vm *VM) GetProgram() Program { return vm.program }

// GetFunction returns the function at fID.
func (vm *VM) GetFunction(fID int) Function { return vm.program[fID] }

// GetNumErrors returns the count of arithmetic faults so far.
func (vm *VM) GetNumErrors() int { return vm.errors }

// GetNumCores returns the number of live cores.
func (vm *VM) GetNumCores() int { return len(vm.cores) }

// GetSharedMemory returns the VM-owned shared memory.
func (vm *VM) GetSharedMemory() Memory { return vm.shared }

// GetCurState returns the executing State of the current core, or nil
// if the current core is empty.
func (vm *VM) GetCurState() *State {
	if vm.curCore == nil {
		return nil
	}
	return vm.curCore.top()
}

// GetMainState returns the bottom frame of the first core, or nil if
// no core is live.
func (vm *VM) GetMainState() *State {
	if len(vm.cores) == 0 || len(vm.cores[0].frames) == 0 {
		return nil
	}
	return vm.cores[0].frames[0]
}

// ValidPosition reports whether (fID, pos) addresses an instruction
// in the current program.
func (vm *VM) ValidPosition(fID, pos int) bool {
	return fID >= 0 && fID < len(vm.program) && pos >= 0 && pos < vm.program[fID].Size()
}

// GetInst returns the instruction at (fID, pos).
func (vm *VM) GetInst(fID, pos int) Instruction { return vm.program[fID].Insts[pos] }

// Program construction.

// SetInst overwrites the instruction at (fID, pos).
func (vm *VM) SetInst(fID, pos int, op Opcode, args ...int) error {
	if !vm.ValidPosition(fID, pos) {
		return errors.Wrapf(ErrBadPosition, "fn %d inst %d", fID, pos)
	}
	inst := &vm.program[fID].Insts[pos]
	var a [NumInstArgs]int
	copy(a[:], args)
	inst.Set(op, a[0], a[1], a[2])
	return nil
}

// SetProgram replaces the whole program.
func (vm *VM) SetProgram(p Program) { vm.program = p }

// AddFunction appends a function to the program.
func (vm *VM) AddFunction(f Function) { vm.program = append(vm.program, f) }

// Dispatch.

// MatchFunction returns the index of the function whose tag is
// nearest to t by Hamming distance; ties resolve to the lowest index.
// Returns -1 for an empty program.
func (vm *VM) MatchFunction(t Tag) int {
	best := -1
	bestDist := TagWidth + 1
	for i := range vm.program {
		if d := HammingDist(vm.program[i].Tag, t); d < bestDist {
			best = i
			bestDist = d
		}
	}
	return best
}

// SpawnCore starts a new core running function fID with the given
// input memory (copied; may be nil). The core joins the tail of the
// core list and takes its first step on the next SingleProcess.
// Spawns beyond the core limit are silently ignored.
func (vm *VM) SpawnCore(fID int, input Memory) {
	if len(vm.cores) >= vm.maxCores || fID < 0 || fID >= len(vm.program) {
		return
	}
	s := newState(vm.shared, false)
	s.fp = fID
	if input != nil {
		s.input = input.Copy()
	}
	vm.cores = append(vm.cores, &core{frames: []*State{s}})
}

// CallFunction pushes a new frame for fID onto the current core,
// seeding the callee's input memory from the caller's local memory.
// Calls beyond the depth limit are silently ignored.
func (vm *VM) CallFunction(fID int) {
	if vm.curCore == nil || len(vm.curCore.frames) >= vm.maxCallDepth {
		return
	}
	if fID < 0 || fID >= len(vm.program) {
		return
	}
	s := newState(vm.shared, false)
	s.fp = fID
	if caller := vm.curCore.top(); caller != nil {
		s.input = caller.local.Copy()
	}
	vm.curCore.frames = append(vm.curCore.frames, s)
}

// closeBlock closes the innermost block of the executing State, if
// any. A LOOP block moves the instruction position back to its start.
func (vm *VM) closeBlock() {
	s := vm.GetCurState()
	if len(s.blocks) == 0 {
		return
	}
	block := s.blocks[len(s.blocks)-1]
	if block.Kind == BlockLoop {
		s.ip = block.Begin
	}
	s.blocks = s.blocks[:len(s.blocks)-1]
}

// returnFunction pops the executing State off the current core and
// merges its output memory into the caller's local memory.
func (vm *VM) returnFunction() {
	returning := vm.GetCurState()
	vm.curCore.frames = vm.curCore.frames[:len(vm.curCore.frames)-1]
	if caller := vm.curCore.top(); caller != nil {
		for k, v := range returning.output {
			caller.local[k] = v
		}
	}
}

// Execution.

// ProcessInst executes a single instruction against the current
// core's executing State.
func (vm *VM) ProcessInst(inst Instruction) { vm.lib.Process(vm, inst) }

// SingleProcess delivers one instruction-unit to every live core in
// creation order. Cores that empty during the pass are removed and
// the survivors compacted toward the front; cores spawned during the
// pass keep their place at the tail and wait for the next call.
func (vm *VM) SingleProcess() {
	if len(vm.program) == 0 {
		return
	}
	coreCnt := len(vm.cores)
	adjust := 0
	for idx := 0; idx < coreCnt; idx++ {
		cur := vm.cores[idx]
		vm.curCore = cur
		if adjust > 0 {
			vm.cores[idx] = nil
			vm.cores[idx-adjust] = cur
		}

		s := cur.top()
		ip, fp := s.ip, s.fp
		if ip >= vm.program[fp].Size() {
			switch {
			case len(s.blocks) > 0:
				vm.closeBlock()
			case s.isMain && len(cur.frames) == 1:
				s.ip = 0
			default:
				vm.returnFunction()
			}
		} else {
			// Advance first; the handler may retarget the position.
			s.ip = ip + 1
			vm.lib.Process(vm, vm.program[fp].Insts[ip])
		}

		if len(cur.frames) == 0 {
			vm.cores[idx-adjust] = nil
			adjust++
		}
	}
	if adjust > 0 {
		for i := coreCnt; i < len(vm.cores); i++ {
			vm.cores[i-adjust] = vm.cores[i]
		}
		vm.cores = vm.cores[:len(vm.cores)-adjust]
	}
	if len(vm.cores) > 0 {
		vm.curCore = vm.cores[0]
	} else {
		vm.curCore = nil
	}
}

// Process executes num instruction-units per core.
func (vm *VM) Process(num int) {
	for i := 0; i < num; i++ {
		vm.SingleProcess()
	}
}
