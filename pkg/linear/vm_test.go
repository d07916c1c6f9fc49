package linear

import (
	"context"
	"math/rand"
	"strings"
	"testing"
)

// ===== Hardware state =====

func TestVM_RegisterInit(t *testing.T) {
	vm := NewVM()

	for i := 0; i < NumRegs; i++ {
		if got := vm.GetReg(i); got != float64(i) {
			t.Errorf("GetReg(%d) = %v, want %v", i, got, float64(i))
		}
	}
	if got := vm.GetIP(); got != 0 {
		t.Errorf("GetIP = %d, want 0", got)
	}
	if got := vm.ScopeDepth(); got != 1 {
		t.Errorf("ScopeDepth = %d, want 1 (root only)", got)
	}
	if got := vm.CurScopeKind(); got != ScopeRoot {
		t.Errorf("CurScopeKind = %v, want ROOT", got)
	}
}

func TestVM_ResetHardwareKeepsGenome(t *testing.T) {
	vm := NewVM()
	vm.PushInst(OpInc, 3)
	vm.Process(1)

	vm.ResetHardware()
	if got := vm.GetReg(3); got != 3 {
		t.Errorf("R[3] after ResetHardware = %v, want 3", got)
	}
	if got := len(vm.GetGenome()); got != 1 {
		t.Errorf("genome length after ResetHardware = %d, want 1", got)
	}

	vm.Reset()
	if got := len(vm.GetGenome()); got != 0 {
		t.Errorf("genome length after Reset = %d, want 0", got)
	}
}

// ===== Arithmetic =====

func TestVM_SetRegAdd(t *testing.T) {
	vm := NewVM()
	vm.PushInst(OpSetReg, 3, 7)
	vm.PushInst(OpAdd, 3, 5, 10)
	vm.Process(2)

	if got := vm.GetReg(3); got != 7 {
		t.Errorf("R[3] = %v, want 7", got)
	}
	if got := vm.GetReg(10); got != 12 {
		t.Errorf("R[10] = %v, want 12", got)
	}
}

func TestVM_IncDecNot(t *testing.T) {
	vm := NewVM()
	vm.PushInst(OpInc, 2)
	vm.PushInst(OpDec, 4)
	vm.PushInst(OpNot, 0)
	vm.PushInst(OpNot, 1)
	vm.Process(4)

	if got := vm.GetReg(2); got != 3 {
		t.Errorf("R[2] = %v, want 3", got)
	}
	if got := vm.GetReg(4); got != 3 {
		t.Errorf("R[4] = %v, want 3", got)
	}
	if got := vm.GetReg(0); got != 1 {
		t.Errorf("Not on zero: R[0] = %v, want 1", got)
	}
	if got := vm.GetReg(1); got != 0 {
		t.Errorf("Not on nonzero: R[1] = %v, want 0", got)
	}
}

func TestVM_DivByZero(t *testing.T) {
	vm := NewVM()
	vm.PushInst(OpSetReg, 1, 0)
	vm.PushInst(OpDiv, 2, 1, 4)
	vm.Process(2)

	if got := vm.GetNumErrors(); got != 1 {
		t.Errorf("errors = %d, want 1", got)
	}
	if got := vm.GetReg(4); got != 4 {
		t.Errorf("R[4] = %v, want unchanged 4", got)
	}
}

func TestVM_ModDivides(t *testing.T) {
	vm := NewVM()
	vm.PushInst(OpSetReg, 0, 12)
	vm.PushInst(OpSetReg, 1, 4)
	vm.PushInst(OpMod, 0, 1, 2)
	vm.Process(3)

	if got := vm.GetReg(2); got != 3 {
		t.Errorf("Mod 12 4: R[2] = %v, want 3 (quotient)", got)
	}
}

func TestVM_Comparisons(t *testing.T) {
	vm := NewVM()
	vm.PushInst(OpTestEqu, 3, 3, 0)
	vm.PushInst(OpTestNEqu, 3, 4, 1)
	vm.PushInst(OpTestLess, 2, 5, 6)
	vm.PushInst(OpTestLess, 5, 2, 7)
	vm.Process(4)

	if got := vm.GetReg(0); got != 1 {
		t.Errorf("TestEqu same reg = %v, want 1", got)
	}
	if got := vm.GetReg(1); got != 1 {
		t.Errorf("TestNEqu differing = %v, want 1", got)
	}
	if got := vm.GetReg(6); got != 1 {
		t.Errorf("TestLess 2<5 = %v, want 1", got)
	}
	if got := vm.GetReg(7); got != 0 {
		t.Errorf("TestLess 5<2 = %v, want 0", got)
	}
}

// ===== Control flow =====

func TestVM_CountdownLoop(t *testing.T) {
	vm := NewVM()
	vm.PushInst(OpSetReg, 0, 3)
	vm.PushInst(OpCountdown, 0, 1)
	vm.PushInst(OpInc, 5)
	vm.PushInst(OpScope, 0) // closes the loop scope each pass
	vm.Process(9)

	if got := vm.GetReg(5); got != 8 {
		t.Errorf("R[5] = %v, want 8 (initial 5 plus 3 loop passes)", got)
	}
	if got := vm.GetReg(0); got != 0 {
		t.Errorf("R[0] = %v, want 0 at loop exit", got)
	}
}

func TestVM_WhileLoop(t *testing.T) {
	vm := NewVM()
	vm.PushInst(OpSetReg, 0, 4)
	vm.PushInst(OpWhile, 0, 1)
	vm.PushInst(OpDec, 0)
	vm.PushInst(OpInc, 6)
	vm.PushInst(OpScope, 0)
	vm.Process(15)

	if got := vm.GetReg(6); got != 10 {
		t.Errorf("R[6] = %v, want 10 (initial 6 plus 4 passes)", got)
	}
	if got := vm.GetReg(0); got != 0 {
		t.Errorf("R[0] = %v, want 0", got)
	}
}

func TestVM_IfFalseSkipsScope(t *testing.T) {
	vm := NewVM()
	vm.PushInst(OpSetReg, 0, 0)
	vm.PushInst(OpIf, 0, 1)
	vm.PushInst(OpInc, 5)
	vm.PushInst(OpScope, 0)
	vm.PushInst(OpInc, 6)
	vm.Process(4)

	if got := vm.GetReg(5); got != 5 {
		t.Errorf("R[5] = %v, want 5 (body skipped)", got)
	}
	if got := vm.GetReg(6); got != 7 {
		t.Errorf("R[6] = %v, want 7 (after-scope code ran)", got)
	}
}

func TestVM_IfTrueEntersScope(t *testing.T) {
	vm := NewVM()
	vm.PushInst(OpIf, 1, 1) // R[1] == 1, truthy
	vm.PushInst(OpInc, 5)
	vm.Process(2)

	if got := vm.GetReg(5); got != 6 {
		t.Errorf("R[5] = %v, want 6 (body executed)", got)
	}
}

func TestVM_BreakExitsLoop(t *testing.T) {
	vm := NewVM()
	vm.PushInst(OpSetReg, 0, 100)
	vm.PushInst(OpWhile, 0, 1)
	vm.PushInst(OpInc, 5)
	vm.PushInst(OpBreak, 1)
	vm.PushInst(OpInc, 5) // still in loop scope, bypassed
	vm.PushInst(OpScope, 0)
	vm.PushInst(OpInc, 6)
	vm.Process(7)

	if got := vm.GetReg(5); got != 6 {
		t.Errorf("R[5] = %v, want 6 (one pass before break)", got)
	}
	if got := vm.GetReg(6); got != 7 {
		t.Errorf("R[6] = %v, want 7", got)
	}
}

func TestVM_ScopeRegRestores(t *testing.T) {
	vm := NewVM()
	vm.PushInst(OpScope, 1)
	vm.PushInst(OpScopeReg, 5)
	vm.PushInst(OpSetReg, 5, 99)
	vm.PushInst(OpScope, 0) // closes scope 1, restoring R[5]
	vm.Process(4)

	if got := vm.GetReg(5); got != 5 {
		t.Errorf("R[5] = %v, want restored 5", got)
	}
}

func TestVM_DefineCall(t *testing.T) {
	vm := NewVM()
	vm.PushInst(OpDefine, 2, 1) // function 2, body in scope 1
	vm.PushInst(OpInc, 9)       // slot skipped by the call jump
	vm.PushInst(OpInc, 7)
	vm.PushInst(OpScope, 0)
	vm.PushInst(OpCall, 2)
	vm.PushInst(OpCall, 2)
	vm.PushInst(OpInc, 8)
	vm.Process(7)

	// Define skips the body, then each Call runs it once.
	if got := vm.GetReg(7); got != 9 {
		t.Errorf("R[7] = %v, want 9 (two calls)", got)
	}
	if got := vm.GetReg(8); got != 9 {
		t.Errorf("R[8] = %v, want 9 (execution resumed after calls)", got)
	}
	if got := vm.GetReg(9); got != 9 {
		t.Errorf("R[9] = %v, want 9 (first body slot not executed)", got)
	}
}

func TestVM_CallUndefinedIsNoop(t *testing.T) {
	vm := NewVM()
	vm.PushInst(OpCall, 3)
	vm.PushInst(OpInc, 5)
	vm.Process(2)

	if got := vm.GetReg(5); got != 6 {
		t.Errorf("R[5] = %v, want 6 (Call of undefined skipped)", got)
	}
	if got := vm.GetNumErrors(); got != 0 {
		t.Errorf("errors = %d, want 0", got)
	}
}

func TestVM_IPWrapsAndCollapsesScopes(t *testing.T) {
	vm := NewVM()
	vm.PushInst(OpScope, 3)
	vm.PushInst(OpInc, 5)
	vm.Process(2)

	if got := vm.ScopeDepth(); got != 2 {
		t.Fatalf("ScopeDepth mid-run = %d, want 2", got)
	}

	vm.Process(1) // wraps, collapsing to root
	if got := vm.GetIP(); got != 1 {
		t.Errorf("GetIP after wrap = %d, want 1", got)
	}
	if got := vm.GetReg(5); got != 6 {
		t.Errorf("R[5] = %v, want 6 (Scope re-entered, Inc not yet re-run)", got)
	}
}

// ===== Stacks and buffers =====

func TestVM_PushPop(t *testing.T) {
	vm := NewVM()
	vm.PushInst(OpPush, 7, 2)
	vm.PushInst(OpPush, 3, 2)
	vm.PushInst(OpPop, 2, 10)
	vm.PushInst(OpPop, 2, 11)
	vm.PushInst(OpPop, 2, 12) // empty, yields 0
	vm.Process(5)

	if got := vm.GetReg(10); got != 3 {
		t.Errorf("first pop = %v, want 3 (LIFO)", got)
	}
	if got := vm.GetReg(11); got != 7 {
		t.Errorf("second pop = %v, want 7", got)
	}
	if got := vm.GetReg(12); got != 0 {
		t.Errorf("pop of empty stack = %v, want 0", got)
	}
}

func TestVM_StackCapDropsOverflow(t *testing.T) {
	vm := NewVM()
	for i := 0; i < StackCap+4; i++ {
		vm.PushInst(OpPush, 1, 0)
	}
	vm.Process(StackCap + 4)

	if got := len(vm.stacks[0]); got != StackCap {
		t.Errorf("stack 0 holds %d values, want %d", got, StackCap)
	}
}

func TestVM_InputOutput(t *testing.T) {
	vm := NewVM()
	vm.SetInput(3, 42)
	vm.PushInst(OpInput, 3, 0)
	vm.PushInst(OpOutput, 0, 9)
	vm.PushInst(OpCopyVal, 0, 1)
	vm.Process(3)

	if got := vm.GetReg(0); got != 42 {
		t.Errorf("R[0] = %v, want 42", got)
	}
	if got := vm.GetOutput(9); got != 42 {
		t.Errorf("output[9] = %v, want 42", got)
	}
	if got := vm.GetReg(1); got != 42 {
		t.Errorf("CopyVal: R[1] = %v, want 42", got)
	}
	if got := vm.GetInput(3); got != 42 {
		t.Errorf("input[3] = %v, want 42 (reads do not consume)", got)
	}
}

// ===== Run =====

func TestVM_RunUnknownInst(t *testing.T) {
	vm := NewVM()
	vm.PushInst(OpUnknown)

	err := vm.Run(context.Background(), 1)
	if err == nil {
		t.Fatal("Run of Unknown opcode returned nil error")
	}
	if !strings.Contains(err.Error(), "unknown instruction") {
		t.Errorf("error = %q, want mention of unknown instruction", err)
	}
}

func TestVM_RunContextCancel(t *testing.T) {
	vm := NewVM()
	vm.PushInst(OpInc, 0)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := vm.Run(ctx, 100); err != context.Canceled {
		t.Errorf("Run with cancelled ctx = %v, want context.Canceled", err)
	}
}

// ===== Randomization =====

func TestVM_PushRandom(t *testing.T) {
	vm := NewVM()
	rng := rand.New(rand.NewSource(1))
	vm.PushRandom(rng, 50)

	if got := len(vm.GetGenome()); got != 50 {
		t.Fatalf("genome length = %d, want 50", got)
	}
	for i, inst := range vm.GetGenome() {
		if inst.Op < 0 || inst.Op >= OpUnknown {
			t.Errorf("inst %d opcode %v out of range", i, inst.Op)
		}
		for _, a := range inst.Args {
			if a < 0 || a >= NumRegs {
				t.Errorf("inst %d arg %d out of range", i, a)
			}
		}
	}
}
