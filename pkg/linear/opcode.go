package linear

import (
	"strconv"

	"github.com/akhildatla/evovm/pkg/instlib"
)

// Opcode identifies a LinearVM instruction.
type Opcode int

const (
	OpInc Opcode = iota
	OpDec
	OpNot
	OpSetReg
	OpAdd
	OpSub
	OpMult
	OpDiv
	OpMod
	OpTestEqu
	OpTestNEqu
	OpTestLess
	OpIf
	OpWhile
	OpCountdown
	OpBreak
	OpScope
	OpDefine
	OpCall
	OpPush
	OpPop
	OpInput
	OpOutput
	OpCopyVal
	OpScopeReg
	OpUnknown
)

// String returns the catalogue name of the opcode.
func (o Opcode) String() string { return Lib().NameOf(int(o)) }

var defaultLib = buildLib()

// Lib returns the canonical LinearVM instruction library. The catalogue
// is built once and shared by every VM in the process.
func Lib() *instlib.Lib { return defaultLib }

func buildLib() *instlib.Lib {
	l := instlib.New()
	l.AddInst("Inc", 1, "Increment value in register specified by Arg1")
	l.AddInst("Dec", 1, "Decrement value in register specified by Arg1")
	l.AddInst("Not", 1, "Logically toggle value in register specified by Arg1")
	l.AddInst("SetReg", 2, "Set Arg1 to numerical value of Arg2")
	l.AddInst("Add", 3, "Arg3 = Arg1 + Arg2")
	l.AddInst("Sub", 3, "Arg3 = Arg1 - Arg2")
	l.AddInst("Mult", 3, "Arg3 = Arg1 * Arg2")
	l.AddInst("Div", 3, "Arg3 = Arg1 / Arg2")
	l.AddInst("Mod", 3, "Arg3 = Arg1 / Arg2 (divides; no remainder)")
	l.AddInst("TestEqu", 3, "Arg3 = (Arg1 == Arg2)")
	l.AddInst("TestNEqu", 3, "Arg3 = (Arg1 != Arg2)")
	l.AddInst("TestLess", 3, "Arg3 = (Arg1 < Arg2)")
	l.AddInst("If", 2, "If Arg1 != 0, enter scope Arg2; else skip over scope")
	l.AddInst("While", 2, "While Arg1 != 0, repeat scope Arg2; else skip over scope")
	l.AddInst("Countdown", 3, "Countdown Arg1 to zero; scope to Arg2")
	l.AddInst("Break", 1, "Break out of scope Arg1")
	l.AddInst("Scope", 1, "Set scope to Arg1")
	l.AddInst("Define", 2, "Build a function called Arg1 in scope Arg2")
	l.AddInst("Call", 1, "Call previously defined function called Arg1")
	l.AddInst("Push", 2, "Push register Arg1 onto stack Arg2")
	l.AddInst("Pop", 2, "Pop stack Arg1 into register Arg2")
	l.AddInst("Input", 2, "Pull next value from input buffer Arg1 into register Arg2")
	l.AddInst("Output", 2, "Push reg Arg1 into output buffer Arg2")
	l.AddInst("CopyVal", 2, "Copy reg Arg1 into reg Arg2")
	l.AddInst("ScopeReg", 1, "Backup reg Arg1; restore at end of scope")
	l.AddInst("Unknown", 0, "Error: Unknown instruction used.")

	// Args can be named by value or as a register.
	for i := 0; i < NumRegs; i++ {
		l.AddArg(strconv.Itoa(i), i)
		l.AddArg("Reg"+string(rune('A'+i)), i)
	}
	return l
}
