package script

import (
	"fmt"
	"strings"
)

// Slot names. Each arity owns its own output slot so switching modes never
// hides a result that is still arriving.
const (
	SlotInputSingle  = "input-single"
	SlotInput1       = "input-1"
	SlotInput2       = "input-2"
	SlotOutputNone   = "output-none"
	SlotOutputSingle = "output-single"
	SlotOutputDual   = "output-dual"
)

// SlotNames lists every slot in display order.
var SlotNames = []string{
	SlotInputSingle,
	SlotInput1,
	SlotInput2,
	SlotOutputNone,
	SlotOutputSingle,
	SlotOutputDual,
}

// Arity is the number of input images a script takes.
type Arity int

const (
	ArityNone Arity = iota
	AritySingle
	ArityDual
)

func (a Arity) String() string {
	switch a {
	case ArityNone:
		return "none"
	case AritySingle:
		return "single"
	case ArityDual:
		return "dual"
	default:
		return fmt.Sprintf("arity(%d)", int(a))
	}
}

// ParseArity accepts the names produced by String as well as 0/1/2.
func ParseArity(value string) (Arity, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "none", "0":
		return ArityNone, nil
	case "single", "1":
		return AritySingle, nil
	case "dual", "2":
		return ArityDual, nil
	default:
		return ArityDual, fmt.Errorf("unknown arity %q", value)
	}
}

// Inputs is the number of input paths a request in this mode carries.
func (a Arity) Inputs() int {
	switch a {
	case AritySingle:
		return 1
	case ArityDual:
		return 2
	default:
		return 0
	}
}

// InputSlots returns the input slot names in argument order.
func (a Arity) InputSlots() []string {
	switch a {
	case AritySingle:
		return []string{SlotInputSingle}
	case ArityDual:
		return []string{SlotInput1, SlotInput2}
	default:
		return nil
	}
}

// OutputSlot returns the slot that receives this mode's result.
func (a Arity) OutputSlot() string {
	switch a {
	case ArityNone:
		return SlotOutputNone
	case AritySingle:
		return SlotOutputSingle
	default:
		return SlotOutputDual
	}
}

// Next cycles none -> single -> dual -> none.
func (a Arity) Next() Arity {
	switch a {
	case ArityNone:
		return AritySingle
	case AritySingle:
		return ArityDual
	default:
		return ArityNone
	}
}
