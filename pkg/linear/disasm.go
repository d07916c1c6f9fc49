package linear

import (
	"fmt"
	"io"
	"strings"
)

// PrintGenome writes a human-readable listing of the genome to w.
// Instructions are indented by their scope level, a "----" line
// separates sibling scopes at the same level, and instructions that
// open a deeper scope are marked with a trailing "-->".
func (vm *VM) PrintGenome(w io.Writer) error {
	curScope := 0

	for _, inst := range vm.genome {
		newScope := InstScope(inst)

		if newScope != 0 {
			if newScope == curScope {
				if _, err := fmt.Fprintf(w, "%s----\n", strings.Repeat(" ", curScope)); err != nil {
					return err
				}
			}
			if newScope < curScope {
				curScope = newScope - 1
			}
		}

		line := strings.Repeat(" ", curScope) + inst.String()
		if newScope != 0 {
			if newScope > curScope {
				line += " -->"
			}
			curScope = newScope
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// Disassemble renders the genome listing as a string.
func (vm *VM) Disassemble() string {
	var b strings.Builder
	_ = vm.PrintGenome(&b)
	return b.String()
}
