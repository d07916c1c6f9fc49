// Package linear implements the scope-based linear GP virtual machine.
//
// The VM is a single-threaded interpreter over a genome of fixed-shape
// instructions with:
//   - 16 float registers (initialized to their own index)
//   - 16-slot input and output buffers
//   - 16 bounded value stacks (capacity 16)
//   - 16 function-table slots populated by executing Define
//   - an integer scope stack driving loops, breaks and function returns
//
// Basic usage:
//
//	vm := linear.NewVM()
//	vm.PushInst(linear.OpSetReg, 3, 7)
//	vm.PushInst(linear.OpAdd, 3, 5, 10)
//	vm.Process(2)
//	result := vm.GetReg(10)
//
// Stepping never returns errors: arithmetic faults bump a per-VM error
// counter and execution continues (see GetNumErrors).
package linear

import (
	"context"

	"github.com/pkg/errors"
)

// ErrUnknownInst is the panic value raised when an Unknown opcode is
// dispatched. Run recovers it into a wrapped error.
var ErrUnknownInst = errors.New("unknown instruction executed")

// VM is a linear GP virtual machine.
type VM struct {
	genome    Genome
	regs      [NumRegs]float64
	inputs    [NumRegs]float64
	outputs   [NumRegs]float64
	stacks    [NumRegs][]float64
	funStarts [NumRegs]int

	ip         int
	scopeStack []scopeInfo
	regStack   []regBackup
	callStack  []int

	errors int
}

// NewVM creates a VM with an empty genome and freshly reset hardware.
func NewVM() *VM {
	vm := &VM{}
	vm.scopeStack = append(vm.scopeStack, scopeInfo{level: 0, kind: ScopeRoot, start: 0})
	vm.Reset()
	return vm
}

// Reset clears the genome and resets the full hardware.
func (vm *VM) Reset() {
	vm.genome = vm.genome[:0]
	vm.ResetHardware()
}

// ResetHardware resets registers, buffers, stacks and the function
// table, but keeps the genome. Register i starts at float64(i).
func (vm *VM) ResetHardware() {
	for i := 0; i < NumRegs; i++ {
		vm.regs[i] = float64(i)
		vm.inputs[i] = 0
		vm.outputs[i] = 0
		vm.stacks[i] = vm.stacks[i][:0]
		vm.funStarts[i] = -1
	}
	vm.errors = 0
	vm.ResetIP()
}

// ResetIP moves the instruction pointer back to the start of the
// genome, collapses all scopes down to the root and empties the call
// stack.
func (vm *VM) ResetIP() {
	vm.ip = 0
	for len(vm.scopeStack) > 1 {
		vm.exitScope()
	}
	vm.callStack = vm.callStack[:0]
}

// Accessors.

// GetInst returns the instruction at pos.
func (vm *VM) GetInst(pos int) Instruction { return vm.genome[pos] }

// GetGenome returns the VM's genome.
func (vm *VM) GetGenome() Genome { return vm.genome }

// GetReg returns the value of register id.
func (vm *VM) GetReg(id int) float64 { return vm.regs[id] }

// GetIP returns the instruction pointer.
func (vm *VM) GetIP() int { return vm.ip }

// GetInput returns input-buffer slot id.
func (vm *VM) GetInput(id int) float64 { return vm.inputs[id] }

// SetInput stores a value into input-buffer slot id.
func (vm *VM) SetInput(id int, value float64) { vm.inputs[id] = value }

// GetOutput returns output-buffer slot id.
func (vm *VM) GetOutput(id int) float64 { return vm.outputs[id] }

// GetNumErrors returns the count of arithmetic faults so far.
func (vm *VM) GetNumErrors() int { return vm.errors }

// Genome construction.

// SetInst overwrites the instruction at pos.
func (vm *VM) SetInst(pos int, op Opcode, args ...int) {
	inst := &vm.genome[pos]
	var a [NumInstArgs]int
	copy(a[:], args)
	inst.Set(op, a[0], a[1], a[2])
}

// SetGenome replaces the whole genome.
func (vm *VM) SetGenome(g Genome) { vm.genome = g }

// PushInst appends an instruction built from an opcode and args.
func (vm *VM) PushInst(op Opcode, args ...int) {
	vm.genome = append(vm.genome, NewInst(op, args...))
}

// PushInstInst appends a prebuilt instruction.
func (vm *VM) PushInstInst(inst Instruction) {
	vm.genome = append(vm.genome, inst)
}

func (vm *VM) popStack(id int) float64 {
	s := vm.stacks[id]
	if len(s) == 0 {
		return 0
	}
	out := s[len(s)-1]
	vm.stacks[id] = s[:len(s)-1]
	return out
}

func (vm *VM) pushStack(id int, value float64) {
	if len(vm.stacks[id]) >= StackCap {
		return
	}
	vm.stacks[id] = append(vm.stacks[id], value)
}

// ProcessInst executes a single instruction against the current
// hardware state, without touching the instruction pointer (except for
// the scope transitions that re-dispatch internally).
func (vm *VM) ProcessInst(inst Instruction) {
	switch inst.Op {
	case OpInc:
		vm.regs[inst.Args[0]]++
	case OpDec:
		vm.regs[inst.Args[0]]--
	case OpNot:
		if vm.regs[inst.Args[0]] == 0 {
			vm.regs[inst.Args[0]] = 1
		} else {
			vm.regs[inst.Args[0]] = 0
		}
	case OpSetReg:
		vm.regs[inst.Args[0]] = float64(inst.Args[1])
	case OpAdd:
		vm.regs[inst.Args[2]] = vm.regs[inst.Args[0]] + vm.regs[inst.Args[1]]
	case OpSub:
		vm.regs[inst.Args[2]] = vm.regs[inst.Args[0]] - vm.regs[inst.Args[1]]
	case OpMult:
		vm.regs[inst.Args[2]] = vm.regs[inst.Args[0]] * vm.regs[inst.Args[1]]

	case OpDiv:
		denom := vm.regs[inst.Args[1]]
		if denom == 0 {
			vm.errors++
		} else {
			vm.regs[inst.Args[2]] = vm.regs[inst.Args[0]] / denom
		}

	case OpMod:
		// Mirrors the historical hardware: Mod divides rather than
		// taking a remainder.
		base := vm.regs[inst.Args[1]]
		if base == 0 {
			vm.errors++
		} else {
			vm.regs[inst.Args[2]] = vm.regs[inst.Args[0]] / base
		}

	case OpTestEqu:
		vm.regs[inst.Args[2]] = boolToFloat(vm.regs[inst.Args[0]] == vm.regs[inst.Args[1]])
	case OpTestNEqu:
		vm.regs[inst.Args[2]] = boolToFloat(vm.regs[inst.Args[0]] != vm.regs[inst.Args[1]])
	case OpTestLess:
		vm.regs[inst.Args[2]] = boolToFloat(vm.regs[inst.Args[0]] < vm.regs[inst.Args[1]])

	case OpIf: // Args[0] = test, Args[1] = scope
		if !vm.updateScope(inst.Args[1], ScopeBasic) {
			break // previous scope unfinished
		}
		if vm.regs[inst.Args[0]] == 0 {
			vm.bypassScope(inst.Args[1])
		}

	case OpWhile:
		if !vm.updateScope(inst.Args[1], ScopeLoop) {
			break
		}
		if vm.regs[inst.Args[0]] == 0 {
			vm.bypassScope(inst.Args[1])
		}

	case OpCountdown: // While, but decrements the test register each pass.
		if !vm.updateScope(inst.Args[1], ScopeLoop) {
			break
		}
		if vm.regs[inst.Args[0]] == 0 {
			vm.bypassScope(inst.Args[1])
		} else {
			vm.regs[inst.Args[0]]--
		}

	case OpBreak:
		vm.bypassScope(inst.Args[0])
	case OpScope:
		vm.updateScope(inst.Args[0], ScopeBasic)

	case OpDefine:
		if !vm.updateScope(inst.Args[1], ScopeBasic) {
			break
		}
		vm.funStarts[inst.Args[0]] = vm.ip // record where the function body lives
		vm.bypassScope(inst.Args[1])       // skip over the definition for now

	case OpCall:
		defPos := vm.funStarts[inst.Args[0]]
		// The function must exist and its Define must still be in place.
		if defPos < 0 || defPos >= len(vm.genome) || vm.genome[defPos].Op != OpDefine {
			break
		}
		funScope := vm.genome[defPos].Args[1]
		if !vm.updateScope(funScope, ScopeFunction) {
			break
		}
		vm.callStack = append(vm.callStack, vm.ip+1)
		vm.ip = defPos + 1 // jump into the body; the step post-increment advances it

	case OpPush:
		vm.pushStack(inst.Args[1], vm.regs[inst.Args[0]])
	case OpPop:
		vm.regs[inst.Args[1]] = vm.popStack(inst.Args[0])
	case OpInput:
		vm.regs[inst.Args[1]] = vm.inputs[inst.Args[0]]
	case OpOutput:
		vm.outputs[inst.Args[1]] = vm.regs[inst.Args[0]]
	case OpCopyVal:
		vm.regs[inst.Args[1]] = vm.regs[inst.Args[0]]

	case OpScopeReg:
		vm.regStack = append(vm.regStack, regBackup{
			scope: vm.CurScope(),
			reg:   inst.Args[0],
			value: vm.regs[inst.Args[0]],
		})

	default:
		panic(ErrUnknownInst)
	}
}

// SingleProcess executes the instruction under the IP and advances it.
// If the IP has run off the end of the genome it wraps to the start
// first, collapsing scopes and the call stack.
func (vm *VM) SingleProcess() {
	if len(vm.genome) == 0 {
		return
	}
	if vm.ip >= len(vm.genome) {
		vm.ResetIP()
	}
	vm.ProcessInst(vm.genome[vm.ip])
	vm.ip++
}

// Process executes num instruction steps.
func (vm *VM) Process(num int) {
	for i := 0; i < num; i++ {
		vm.SingleProcess()
	}
}

// Run executes up to num steps, checking ctx between steps and
// converting an Unknown-opcode panic into a wrapped error carrying the
// faulting IP.
func (vm *VM) Run(ctx context.Context, num int) (err error) {
	defer func() {
		if e := recover(); e != nil {
			if rerr, ok := e.(error); ok {
				err = errors.Wrapf(rerr, "linear: fault @ip=%d/%d", vm.ip, len(vm.genome))
				return
			}
			panic(e)
		}
	}()
	for i := 0; i < num; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		vm.SingleProcess()
	}
	return nil
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
