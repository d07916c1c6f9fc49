package linear

import (
	"fmt"
	"strings"
)

const (
	// NumRegs is the register-file size; stacks, buffers and the
	// function table all share it.
	NumRegs = 16

	// NumInstArgs is the argument count carried by every instruction.
	NumInstArgs = 3

	// StackCap bounds each value stack; pushes beyond it are dropped.
	StackCap = 16
)

// Instruction is one genome position: an opcode plus three small
// integer arguments in 0..15. Unused arguments are ignored.
type Instruction struct {
	Op   Opcode
	Args [NumInstArgs]int
}

// NewInst builds an instruction from an opcode and up to three args.
func NewInst(op Opcode, args ...int) Instruction {
	inst := Instruction{Op: op}
	copy(inst.Args[:], args)
	return inst
}

// Set overwrites the instruction in place.
func (in *Instruction) Set(op Opcode, a0, a1, a2 int) {
	in.Op = op
	in.Args[0], in.Args[1], in.Args[2] = a0, a1, a2
}

// String renders the instruction as "Name a0 a1 ..." using only the
// arguments the catalogue declares for the opcode.
func (in Instruction) String() string {
	var b strings.Builder
	b.WriteString(Lib().NameOf(int(in.Op)))
	for i := 0; i < Lib().ArityOf(int(in.Op)); i++ {
		fmt.Fprintf(&b, " %d", in.Args[i])
	}
	return b.String()
}

// Genome is an ordered instruction sequence executed by the VM.
type Genome []Instruction
