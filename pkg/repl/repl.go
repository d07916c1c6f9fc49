// Package repl provides an interactive console over both VM families.
// A session drives one LinearVM and one EventVM; the mode command
// picks which family the stepping and inspection commands address.
package repl

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/lmorg/readline"

	"github.com/akhildatla/evovm/pkg/event"
	"github.com/akhildatla/evovm/pkg/linear"
)

const (
	promptLinear = "linear> "
	promptEvent  = "event> "
)

// Mode selects which VM family the session addresses.
type Mode int

const (
	ModeLinear Mode = iota
	ModeEvent
)

// REPL provides an interactive Read-Eval-Print Loop over the VMs.
type REPL struct {
	mode    Mode
	lvm     *linear.VM
	evm     *event.VM
	history []string
}

// New creates a new REPL instance with fresh VMs.
func New() *REPL {
	return &REPL{
		mode: ModeLinear,
		lvm:  linear.NewVM(),
		evm:  event.NewVM(),
	}
}

// LinearVM returns the session's linear machine.
func (r *REPL) LinearVM() *linear.VM { return r.lvm }

// EventVM returns the session's event machine.
func (r *REPL) EventVM() *event.VM { return r.evm }

// SetMode sets the session's VM family.
func (r *REPL) SetMode(mode Mode) { r.mode = mode }

func (r *REPL) prompt() string {
	if r.mode == ModeEvent {
		return promptEvent
	}
	return promptLinear
}

// Start runs the interactive loop until quit or end of input.
func (r *REPL) Start(out io.Writer) {
	rline := readline.NewInstance()

	fmt.Fprintln(out, "evovm console")
	fmt.Fprintln(out, "Type 'help' for available commands, 'quit' to exit")
	fmt.Fprintln(out)

	for {
		rline.SetPrompt(r.prompt())
		line, err := rline.Readline()
		if err != nil {
			break
		}
		if r.Execute(line, out) {
			break
		}
	}
}

// Execute runs one command line and reports whether the session
// should end.
func (r *REPL) Execute(line string, out io.Writer) bool {
	parts := strings.Fields(strings.TrimSpace(line))
	if len(parts) == 0 {
		return false
	}
	r.history = append(r.history, strings.TrimSpace(line))

	switch parts[0] {
	case "quit", "exit", "q":
		fmt.Fprintln(out, "Goodbye!")
		return true

	case "help", "h", "?":
		r.printHelp(out)

	case "mode":
		r.cmdMode(parts[1:], out)

	case "load":
		if len(parts) != 2 {
			fmt.Fprintln(out, "Usage: load <path>")
			break
		}
		r.cmdLoad(parts[1], out)

	case "step", "s":
		r.cmdStep(parts[1:], out)

	case "regs":
		r.cmdRegs(out)

	case "state":
		r.cmdState(out)

	case "disasm", "d":
		r.cmdDisasm(out)

	case "input":
		r.cmdInput(parts[1:], out)

	case "reset":
		r.lvm.ResetHardware()
		r.evm.ResetHardware()
		fmt.Fprintln(out, "Hardware reset")

	case "history":
		for i, cmd := range r.history {
			fmt.Fprintf(out, "%3d: %s\n", i+1, cmd)
		}

	default:
		fmt.Fprintf(out, "Unknown command %q. Type 'help' for a list.\n", parts[0])
	}
	return false
}

func (r *REPL) cmdMode(args []string, out io.Writer) {
	if len(args) == 0 {
		if r.mode == ModeEvent {
			fmt.Fprintln(out, "Current mode: event")
		} else {
			fmt.Fprintln(out, "Current mode: linear")
		}
		return
	}
	switch args[0] {
	case "linear":
		r.mode = ModeLinear
		fmt.Fprintln(out, "Switched to linear mode")
	case "event":
		r.mode = ModeEvent
		fmt.Fprintln(out, "Switched to event mode")
	default:
		fmt.Fprintln(out, "Unknown mode. Use 'linear' or 'event'")
	}
}

func (r *REPL) cmdLoad(path string, out io.Writer) {
	if r.mode == ModeEvent {
		fmt.Fprintln(out, "load works on the linear machine; 'mode linear' first")
		return
	}
	f, err := os.Open(path)
	if err != nil {
		fmt.Fprintf(out, "Error: %v\n", err)
		return
	}
	defer f.Close()

	if err := r.lvm.Load(f); err != nil {
		fmt.Fprintf(out, "Error loading %s: %v\n", path, err)
		return
	}
	fmt.Fprintf(out, "Loaded %s (%d instructions)\n", path, len(r.lvm.GetGenome()))
}

func (r *REPL) cmdStep(args []string, out io.Writer) {
	n := 1
	if len(args) > 0 {
		v, err := strconv.Atoi(args[0])
		if err != nil || v < 1 {
			fmt.Fprintln(out, "Usage: step [n]")
			return
		}
		n = v
	}
	if r.mode == ModeEvent {
		r.evm.Process(n)
		fmt.Fprintf(out, "Stepped %d (cores=%d errors=%d)\n",
			n, r.evm.GetNumCores(), r.evm.GetNumErrors())
		return
	}
	r.lvm.Process(n)
	fmt.Fprintf(out, "Stepped %d (ip=%d errors=%d)\n",
		n, r.lvm.GetIP(), r.lvm.GetNumErrors())
}

func (r *REPL) cmdRegs(out io.Writer) {
	if r.mode == ModeEvent {
		fmt.Fprintln(out, "regs works on the linear machine; try 'state'")
		return
	}
	for i := 0; i < linear.NumRegs; i++ {
		fmt.Fprintf(out, "  R%-2d = %v\n", i, r.lvm.GetReg(i))
	}
}

func (r *REPL) cmdState(out io.Writer) {
	if r.mode == ModeEvent {
		if err := r.evm.PrintState(out); err != nil {
			fmt.Fprintf(out, "Error: %v\n", err)
		}
		return
	}
	fmt.Fprintf(out, "Inst ptr: %d\n", r.lvm.GetIP())
	fmt.Fprintf(out, "Scope: %d (%s, depth %d)\n",
		r.lvm.CurScope(), r.lvm.CurScopeKind(), r.lvm.ScopeDepth())
	fmt.Fprintf(out, "Errors: %d\n", r.lvm.GetNumErrors())
	fmt.Fprint(out, "Outputs:")
	for i := 0; i < linear.NumRegs; i++ {
		if v := r.lvm.GetOutput(i); v != 0 {
			fmt.Fprintf(out, " %d:%v", i, v)
		}
	}
	fmt.Fprintln(out)
}

func (r *REPL) cmdDisasm(out io.Writer) {
	if r.mode == ModeEvent {
		if err := r.evm.PrintProgram(out); err != nil {
			fmt.Fprintf(out, "Error: %v\n", err)
		}
		return
	}
	if err := r.lvm.PrintGenome(out); err != nil {
		fmt.Fprintf(out, "Error: %v\n", err)
	}
}

func (r *REPL) cmdInput(args []string, out io.Writer) {
	if r.mode == ModeEvent {
		fmt.Fprintln(out, "input works on the linear machine")
		return
	}
	if len(args) != 2 {
		fmt.Fprintln(out, "Usage: input <slot> <value>")
		return
	}
	slot, err := strconv.Atoi(args[0])
	if err != nil || slot < 0 || slot >= linear.NumRegs {
		fmt.Fprintf(out, "Bad slot %q\n", args[0])
		return
	}
	val, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		fmt.Fprintf(out, "Bad value %q\n", args[1])
		return
	}
	r.lvm.SetInput(slot, val)
	fmt.Fprintf(out, "Input %d = %v\n", slot, val)
}

func (r *REPL) printHelp(out io.Writer) {
	help := `
evovm console commands:
  help, h, ?       Show this help message
  quit, exit, q    Exit the console
  mode [linear|event]  Show or set the VM family
  load <path>      Load a genome listing (linear)
  step [n], s      Execute n instruction steps
  regs             Show registers (linear)
  state            Show hardware state
  disasm, d        Show the loaded program
  input <slot> <v> Set an input-buffer slot (linear)
  reset            Reset both machines' hardware
  history          Show command history
`
	fmt.Fprint(out, help)
}
