// Package cases loads fitness-case tables for the evolutionary driver.
//
// A table is a dataframe whose columns follow a slot-naming
// convention: column "x<k>" feeds input-buffer slot k of a VM, column
// "y<k>" is the expected value of output-buffer slot k. Any other
// columns are carried along but ignored by evaluation. Tables load
// from CSV, JSON or Parquet files.
package cases

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	dataframe "github.com/rocketlaunchr/dataframe-go"

	"github.com/akhildatla/evovm/pkg/linear"
)

// Error definitions
var (
	ErrEmptyTable = errors.New("table has no columns")
	ErrNoCases    = errors.New("table has no rows")
	ErrBadValue   = errors.New("non-numeric value in slot column")
)

// Case is one fitness case: input-slot values and expected
// output-slot values.
type Case struct {
	Inputs   map[int]float64
	Expected map[int]float64
}

// Bind writes the case's inputs into the VM's input buffer.
func (c Case) Bind(vm *linear.VM) {
	for slot, v := range c.Inputs {
		vm.SetInput(slot, v)
	}
}

// Table is a set of fitness cases backed by a dataframe.
type Table struct {
	df      *dataframe.DataFrame
	inputs  map[int]dataframe.Series // slot -> column
	outputs map[int]dataframe.Series
}

// NewTable wraps a dataframe, indexing its x<k>/y<k> slot columns.
func NewTable(df *dataframe.DataFrame) (*Table, error) {
	if df == nil || len(df.Series) == 0 {
		return nil, ErrEmptyTable
	}
	t := &Table{
		df:      df,
		inputs:  make(map[int]dataframe.Series),
		outputs: make(map[int]dataframe.Series),
	}
	for _, s := range df.Series {
		if slot, ok := slotName(s.Name(), "x"); ok {
			t.inputs[slot] = s
		} else if slot, ok := slotName(s.Name(), "y"); ok {
			t.outputs[slot] = s
		}
	}
	if t.NumCases() == 0 {
		return nil, ErrNoCases
	}
	return t, nil
}

func slotName(name, prefix string) (int, bool) {
	rest, ok := strings.CutPrefix(name, prefix)
	if !ok || rest == "" {
		return 0, false
	}
	slot, err := strconv.Atoi(rest)
	if err != nil || slot < 0 || slot >= linear.NumRegs {
		return 0, false
	}
	return slot, true
}

// DataFrame returns the backing dataframe.
func (t *Table) DataFrame() *dataframe.DataFrame { return t.df }

// NumCases returns the number of rows.
func (t *Table) NumCases() int {
	if len(t.df.Series) == 0 {
		return 0
	}
	return t.df.Series[0].NRows()
}

// NumInputs returns the number of input slot columns.
func (t *Table) NumInputs() int { return len(t.inputs) }

// NumOutputs returns the number of expected-output slot columns.
func (t *Table) NumOutputs() int { return len(t.outputs) }

// Case extracts row i as a fitness case.
func (t *Table) Case(i int) (Case, error) {
	c := Case{
		Inputs:   make(map[int]float64, len(t.inputs)),
		Expected: make(map[int]float64, len(t.outputs)),
	}
	for slot, s := range t.inputs {
		v, err := numeric(s, i)
		if err != nil {
			return Case{}, err
		}
		c.Inputs[slot] = v
	}
	for slot, s := range t.outputs {
		v, err := numeric(s, i)
		if err != nil {
			return Case{}, err
		}
		c.Expected[slot] = v
	}
	return c, nil
}

func numeric(s dataframe.Series, row int) (float64, error) {
	switch v := s.Value(row).(type) {
	case nil:
		return 0, nil
	case float64:
		return v, nil
	case int64:
		return float64(v), nil
	case string:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: column %s row %d: %q", ErrBadValue, s.Name(), row, v)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("%w: column %s row %d: %T", ErrBadValue, s.Name(), row, v)
	}
}

// TotalAbsError runs the VM over every case for steps instructions
// each and sums the absolute error across expected output slots. The
// VM hardware is reset before every case; the genome is untouched.
// Lower is better; a perfect program scores 0.
func (t *Table) TotalAbsError(vm *linear.VM, steps int) (float64, error) {
	total := 0.0
	for i := 0; i < t.NumCases(); i++ {
		c, err := t.Case(i)
		if err != nil {
			return 0, err
		}
		vm.ResetHardware()
		c.Bind(vm)
		vm.Process(steps)
		for slot, want := range c.Expected {
			diff := vm.GetOutput(slot) - want
			if diff < 0 {
				diff = -diff
			}
			total += diff
		}
	}
	return total, nil
}
