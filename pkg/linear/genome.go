package linear

import (
	"bufio"
	"io"
	"strings"

	"github.com/pkg/errors"
)

var (
	// ErrUnknownOpcode reports a mnemonic missing from the catalogue.
	ErrUnknownOpcode = errors.New("unknown opcode name")

	// ErrBadArgument reports an argument symbol that resolves to
	// nothing, or an argument count above the opcode's arity.
	ErrBadArgument = errors.New("bad instruction argument")
)

// ParseInst parses a single "Name a0 a1 ..." line into an instruction.
// Arguments may be numerals or register aliases ("RegA".."RegP"). A
// trailing "-->" scope marker is ignored so disassembly listings parse
// back unchanged.
func ParseInst(line string) (Instruction, error) {
	fields := strings.Fields(line)
	if n := len(fields); n > 0 && fields[n-1] == "-->" {
		fields = fields[:n-1]
	}
	if len(fields) == 0 {
		return Instruction{}, errors.Wrap(ErrUnknownOpcode, "empty instruction")
	}

	id, ok := Lib().IDOf(fields[0])
	if !ok {
		return Instruction{}, errors.Wrapf(ErrUnknownOpcode, "%q", fields[0])
	}
	op := Opcode(id)

	args := fields[1:]
	if len(args) > Lib().ArityOf(id) {
		return Instruction{}, errors.Wrapf(ErrBadArgument, "%s takes %d args, got %d",
			fields[0], Lib().ArityOf(id), len(args))
	}

	inst := Instruction{Op: op}
	for i, sym := range args {
		v, ok := Lib().ResolveArg(sym)
		if !ok {
			return Instruction{}, errors.Wrapf(ErrBadArgument, "%q", sym)
		}
		inst.Args[i] = v
	}
	return inst, nil
}

// ParseGenome parses a full listing. Blank lines and "----" scope
// separators are skipped; leading indentation is insignificant.
func ParseGenome(r io.Reader) (Genome, error) {
	var g Genome
	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "----") {
			continue
		}
		inst, err := ParseInst(line)
		if err != nil {
			return nil, errors.Wrapf(err, "line %d", lineNo)
		}
		g = append(g, inst)
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(err, "reading genome")
	}
	return g, nil
}

// Load parses a listing from r and installs it as the VM's genome,
// resetting the hardware.
func (vm *VM) Load(r io.Reader) error {
	g, err := ParseGenome(r)
	if err != nil {
		return err
	}
	vm.genome = g
	vm.ResetHardware()
	return nil
}
