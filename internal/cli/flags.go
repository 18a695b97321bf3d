package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// positionFlag is a 1-based position on the command line stored 0-based.
// Unset reads as -1.
type positionFlag struct {
	index int
	set   bool
}

var _ pflag.Value = (*positionFlag)(nil)

func newPositionFlag() *positionFlag { return &positionFlag{index: -1} }

func (p *positionFlag) String() string {
	if !p.set {
		return ""
	}
	return strconv.Itoa(p.index + 1)
}

func (p *positionFlag) Set(s string) error {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return fmt.Errorf("must be a positive number, got %q", s)
	}
	p.index, p.set = n-1, true
	return nil
}

func (p *positionFlag) Type() string { return "N" }

// positiveIntFlag registers an int flag that rejects values below 1 at
// parse time.
type positiveIntFlag int

var _ pflag.Value = (*positiveIntFlag)(nil)

func (v *positiveIntFlag) String() string { return strconv.Itoa(int(*v)) }

func (v *positiveIntFlag) Set(s string) error {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return fmt.Errorf("must be a positive number of days, got %q", s)
	}
	*v = positiveIntFlag(n)
	return nil
}

func (v *positiveIntFlag) Type() string { return "days" }

// addPhaseFlag wires --phase and marks it required.
func addPhaseFlag(cmd *cobra.Command, p *positionFlag) {
	cmd.Flags().Var(p, "phase", "phase number (1-based)")
	_ = cmd.MarkFlagRequired("phase")
}

// addRowFlag wires --row and marks it required.
func addRowFlag(cmd *cobra.Command, p *positionFlag) {
	cmd.Flags().Var(p, "row", "row number within the phase (1-based, as shown by 'show --phase')")
	_ = cmd.MarkFlagRequired("row")
}
