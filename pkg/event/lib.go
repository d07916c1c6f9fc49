package event

import (
	"github.com/akhildatla/evovm/pkg/instlib"
)

// HandlerFunc executes one instruction against a VM.
type HandlerFunc func(vm *VM, inst Instruction)

// Lib pairs the name/arity catalogue with a handler per opcode.
type Lib struct {
	cat      *instlib.Lib
	handlers []HandlerFunc
}

// NewLib creates an empty library.
func NewLib() *Lib { return &Lib{cat: instlib.New()} }

// AddInst registers an opcode with its handler. Registration order
// assigns opcode ids.
func (l *Lib) AddInst(name string, arity int, desc string, fn HandlerFunc) Opcode {
	id := l.cat.AddInst(name, arity, desc)
	l.handlers = append(l.handlers, fn)
	return Opcode(id)
}

// Catalogue returns the underlying name/arity table.
func (l *Lib) Catalogue() *instlib.Lib { return l.cat }

// NameOf returns the catalogue name of op.
func (l *Lib) NameOf(op Opcode) string { return l.cat.NameOf(int(op)) }

// ArityOf returns the declared argument count of op.
func (l *Lib) ArityOf(op Opcode) int { return l.cat.ArityOf(int(op)) }

// Size returns the number of registered opcodes.
func (l *Lib) Size() int { return len(l.handlers) }

// Process dispatches inst to its handler. Opcodes outside the library
// are ignored.
func (l *Lib) Process(vm *VM, inst Instruction) {
	if inst.Op < 0 || int(inst.Op) >= len(l.handlers) {
		return
	}
	l.handlers[inst.Op](vm, inst)
}

var defaultLib = buildDefaultLib()

// DefaultLib returns the canonical EventVM instruction library. The
// arithmetic opcodes carry full semantics over the executing frame's
// local memory. The flow-control and memory-move opcodes are declared
// with their arities but deliberately left as no-ops: they are
// extension points for the driver, and inventing semantics for them
// would change observable behavior.
func DefaultLib() *Lib { return defaultLib }

func buildDefaultLib() *Lib {
	l := NewLib()
	l.AddInst("Inc", 1, "Increment value in local memory Arg1", instInc)
	l.AddInst("Dec", 1, "Decrement value in local memory Arg1", instDec)
	l.AddInst("Not", 1, "Logically toggle value in local memory Arg1", instNot)
	l.AddInst("Add", 3, "Local memory: Arg3 = Arg1 + Arg2", instAdd)
	l.AddInst("Sub", 3, "Local memory: Arg3 = Arg1 - Arg2", instSub)
	l.AddInst("Mult", 3, "Local memory: Arg3 = Arg1 * Arg2", instMult)
	l.AddInst("Div", 3, "Local memory: Arg3 = Arg1 / Arg2", instDiv)
	l.AddInst("Mod", 3, "Local memory: Arg3 = Arg1 % Arg2", instMod)
	l.AddInst("TestEqu", 3, "No-op", instNop)
	l.AddInst("TestNEqu", 3, "No-op", instNop)
	l.AddInst("TestLess", 3, "No-op", instNop)
	l.AddInst("If", 2, "No-op", instNop)
	l.AddInst("While", 2, "No-op", instNop)
	l.AddInst("Countdown", 3, "No-op", instNop)
	l.AddInst("Break", 1, "No-op", instNop)
	l.AddInst("Close", 0, "No-op", instNop)
	l.AddInst("Call", 1, "No-op", instNop)
	l.AddInst("Return", 0, "No-op", instNop)
	l.AddInst("SetMem", 2, "No-op", instNop)
	l.AddInst("CopyMem", 2, "No-op", instNop)
	l.AddInst("SwapMem", 2, "No-op", instNop)
	l.AddInst("Input", 2, "No-op", instNop)
	l.AddInst("Output", 2, "No-op", instNop)
	l.AddInst("Commit", 2, "No-op", instNop)
	l.AddInst("Pull", 2, "No-op", instNop)
	l.AddInst("Nop", 0, "No-op", instNop)
	return l
}

func instInc(vm *VM, inst Instruction) {
	s := vm.GetCurState()
	s.SetLocal(inst.Args[0], s.AccessLocal(inst.Args[0])+1)
}

func instDec(vm *VM, inst Instruction) {
	s := vm.GetCurState()
	s.SetLocal(inst.Args[0], s.AccessLocal(inst.Args[0])-1)
}

func instNot(vm *VM, inst Instruction) {
	s := vm.GetCurState()
	if s.GetLocal(inst.Args[0]) == 0 {
		s.SetLocal(inst.Args[0], 1)
	} else {
		s.SetLocal(inst.Args[0], 0)
	}
}

func instAdd(vm *VM, inst Instruction) {
	s := vm.GetCurState()
	s.SetLocal(inst.Args[2], s.AccessLocal(inst.Args[0])+s.AccessLocal(inst.Args[1]))
}

func instSub(vm *VM, inst Instruction) {
	s := vm.GetCurState()
	s.SetLocal(inst.Args[2], s.AccessLocal(inst.Args[0])-s.AccessLocal(inst.Args[1]))
}

func instMult(vm *VM, inst Instruction) {
	s := vm.GetCurState()
	s.SetLocal(inst.Args[2], s.AccessLocal(inst.Args[0])*s.AccessLocal(inst.Args[1]))
}

func instDiv(vm *VM, inst Instruction) {
	s := vm.GetCurState()
	denom := s.AccessLocal(inst.Args[1])
	if denom == 0 {
		vm.errors++
	} else {
		s.SetLocal(inst.Args[2], s.AccessLocal(inst.Args[0])/denom)
	}
}

func instMod(vm *VM, inst Instruction) {
	s := vm.GetCurState()
	base := int(s.AccessLocal(inst.Args[1]))
	if base == 0 {
		vm.errors++
	} else {
		s.SetLocal(inst.Args[2], float64(int(s.AccessLocal(inst.Args[0]))%base))
	}
}

func instNop(vm *VM, inst Instruction) {}
