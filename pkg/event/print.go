package event

import (
	"fmt"
	"io"
	"sort"
	"strings"
)

// InstString renders an instruction as "Name a0 a1 ..." using only
// the arguments the catalogue declares for its opcode.
func (vm *VM) InstString(inst Instruction) string {
	var b strings.Builder
	b.WriteString(vm.lib.NameOf(inst.Op))
	for i := 0; i < vm.lib.ArityOf(inst.Op); i++ {
		fmt.Fprintf(&b, " %d", inst.Args[i])
	}
	return b.String()
}

func writeMemory(w io.Writer, m Memory) error {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	for _, k := range keys {
		if _, err := fmt.Fprintf(w, "{%d:%v}", k, m[k]); err != nil {
			return err
		}
	}
	return nil
}

// PrintProgram writes a listing of every function: a "Fn-<i> <tag>:"
// header followed by its instructions, indented.
func (vm *VM) PrintProgram(w io.Writer) error {
	for fID := range vm.program {
		if _, err := fmt.Fprintf(w, "Fn-%d %s:\n", fID, vm.program[fID].Tag); err != nil {
			return err
		}
		for _, inst := range vm.program[fID].Insts {
			if _, err := fmt.Fprintf(w, "  %s\n", vm.InstString(inst)); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}
	return nil
}

// PrintState writes the full hardware state: shared memory, then each
// core's call stack from the top down.
func (vm *VM) PrintState(w io.Writer) error {
	if _, err := fmt.Fprint(w, "Shared memory: "); err != nil {
		return err
	}
	if err := writeMemory(w, vm.shared); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w); err != nil {
		return err
	}

	for i, c := range vm.cores {
		if _, err := fmt.Fprintf(w, "Core %d:\n  Call stack (%d):\n    --TOP--\n", i, len(c.frames)); err != nil {
			return err
		}
		for k := len(c.frames) - 1; k >= 0; k-- {
			s := c.frames[k]
			cur := "NONE"
			if vm.ValidPosition(s.fp, s.ip) {
				cur = vm.InstString(vm.GetInst(s.fp, s.ip))
			}
			if _, err := fmt.Fprintf(w, "    Inst ptr: %d (%s)\n    Func ptr: %d\n", s.ip, cur, s.fp); err != nil {
				return err
			}
			for _, mem := range []struct {
				name string
				m    Memory
			}{{"Input", s.input}, {"Local", s.local}, {"Output", s.output}} {
				if _, err := fmt.Fprintf(w, "    %s memory: ", mem.name); err != nil {
					return err
				}
				if err := writeMemory(w, mem.m); err != nil {
					return err
				}
				if _, err := fmt.Fprintln(w); err != nil {
					return err
				}
			}
			if _, err := fmt.Fprintln(w, "    ---"); err != nil {
				return err
			}
		}
	}
	return nil
}
