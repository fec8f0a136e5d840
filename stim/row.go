package stim

import "fmt"

// Code selects a row's waveform kind (simple rows, code > 0) per §4.4/§6.
type Code int

const (
	DC           Code = 1
	OrnsteinUhlenbeck Code = 2
	Sine         Code = 3
	Square       Code = 4
	Saw          Code = 5
	Sweep        Code = 6
	Ramp         Code = 7
	PoissonShot1 Code = 8
	PoissonShot2 Code = 9
	Bipolar      Code = 10
	UniformNoise Code = 11
	Alpha        Code = 12
)

func (c Code) String() string {
	switch c {
	case DC:
		return "DC"
	case OrnsteinUhlenbeck:
		return "OrnsteinUhlenbeck"
	case Sine:
		return "Sine"
	case Square:
		return "Square"
	case Saw:
		return "Saw"
	case Sweep:
		return "Sweep"
	case Ramp:
		return "Ramp"
	case PoissonShot1:
		return "PoissonShot1"
	case PoissonShot2:
		return "PoissonShot2"
	case Bipolar:
		return "Bipolar"
	case UniformNoise:
		return "UniformNoise"
	case Alpha:
		return "Alpha"
	default:
		return fmt.Sprintf("Code(%d)", int(c))
	}
}

// Op combines a composite row's children (§4.4, §6's prev_op column).
type Op int

const (
	OpAdd Op = 1 + iota
	OpMul
	OpSub
	OpDiv
)

func (o Op) String() string {
	switch o {
	case OpAdd:
		return "+"
	case OpMul:
		return "×"
	case OpSub:
		return "−"
	case OpDiv:
		return "÷"
	default:
		return fmt.Sprintf("Op(%d)", int(o))
	}
}

// Row is one line of a stim file, field-for-field per §3's stimulus
// descriptor and §6's column order.
type Row struct {
	DurationSec float64
	Code        Code // < 0 for a composite row header: |Code| children follow
	P1, P2, P3, P4, P5 float64
	FixSeed     bool
	Seed        uint64
	Subcode     Code // the child's actual Code, for rows that are composite children
	PrevOp      Op
	Exponent    float64

	// line is the 1-based source line number, for error messages.
	line int
}

// NumColumns is the fixed column count §4.4 allows per row.
const NumColumns = 12

// MaxRows bounds the row count a stim file may declare (§4.4).
const MaxRows = 100
