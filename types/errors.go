package types

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrStructural          = errors.New("structural error")
	ErrIncompatible        = errors.New("incompatible savegame")
	ErrUnknownVariable     = errors.New("invalid variable")
	ErrWrongType           = errors.New("wrong type")
	ErrMultipleDefinitions = errors.New("multiple definitions")
	ErrNotFound            = errors.New("variable not found")
	ErrRemoved             = errors.New("edit overlaps a removed range")
	ErrSaveInProgress      = errors.New("save in progress")
)

// StructuralError means the byte stream itself is broken. Loading must stop.
type StructuralError struct {
	Msg     string
	Offsets []int
}

func (e *StructuralError) Error() string {
	if len(e.Offsets) == 0 {
		return "structural error: " + e.Msg
	}
	strs := []string{}
	for _, o := range e.Offsets {
		strs = append(strs, fmt.Sprintf("0x%x", o))
	}
	return fmt.Sprintf("structural error: %v (at %v)", e.Msg, strings.Join(strs, ", "))
}

func (e *StructuralError) Unwrap() error { return ErrStructural }

// IncompatibleError is raised by the header check, before any block is decoded.
type IncompatibleError struct {
	Field     string
	Value     int
	Supported []int
}

func (e *IncompatibleError) Error() string {
	return fmt.Sprintf("incompatible savegame: %v is %v (supported: %v)", e.Field, e.Value, e.Supported)
}

func (e *IncompatibleError) Unwrap() error { return ErrIncompatible }

// InvalidVariableError is a name with no registry entry.
type InvalidVariableError struct {
	Name     string
	Platform Platform
	Offset   int
}

func (e *InvalidVariableError) Error() string {
	return fmt.Sprintf("invalid variable %q for %v at 0x%x", e.Name, e.Platform, e.Offset)
}

func (e *InvalidVariableError) Unwrap() error { return ErrUnknownVariable }

type WrongTypeError struct {
	Name     string
	Block    int
	Expected VariableType
	Actual   VariableType
}

func (e *WrongTypeError) Error() string {
	return fmt.Sprintf("wrong type for %q in block %v: expected %v, record is %v", e.Name, e.Block, e.Expected, e.Actual)
}

func (e *WrongTypeError) Unwrap() error { return ErrWrongType }

// MultipleDefinitionsError is returned by name-based access to a name that is not unique.
// Count is set when a single block holds several records of that name.
type MultipleDefinitionsError struct {
	Name   string
	Blocks []int
	Count  int
}

func (e *MultipleDefinitionsError) Error() string {
	if e.Count > 1 {
		return fmt.Sprintf("multiple definitions of %q (%v in block %v); address it by block offset and index", e.Name, e.Count, e.Blocks[0])
	}
	return fmt.Sprintf("multiple definitions of %q (blocks %v); address it by block offset", e.Name, e.Blocks)
}

func (e *MultipleDefinitionsError) Unwrap() error { return ErrMultipleDefinitions }

type NotFoundError struct {
	Name  string
	Block int
}

func (e *NotFoundError) Error() string {
	if e.Block == NO_BLOCK {
		return fmt.Sprintf("variable %q not found", e.Name)
	}
	return fmt.Sprintf("variable %q not found in block %v", e.Name, e.Block)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }
