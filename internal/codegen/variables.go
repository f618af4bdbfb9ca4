package codegen

import "fmt"

const MaxVariables = 26

type TooManyVariablesError struct {
	Name  byte
	Limit int
}

func (e *TooManyVariablesError) GetMessage() string {
	return fmt.Sprintf("cannot allocate variable %c: limit of %d variables reached", e.Name, e.Limit)
}

func (e *TooManyVariablesError) Error() string {
	return e.GetMessage()
}

// variableTable maps each letter to its slot below the frame pointer.
type variableTable struct {
	offsets [MaxVariables]int
	count   int
	limit   int
}

func newVariableTable(limit int) *variableTable {
	if limit <= 0 || limit > MaxVariables {
		limit = MaxVariables
	}

	return &variableTable{limit: limit}
}

// offset returns the frame offset of name, assigning the next free slot
// on first sight.
func (vt *variableTable) offset(name byte) (int, error) {
	slot := int(name - 'A')

	if vt.offsets[slot] != 0 {
		return vt.offsets[slot], nil
	}

	if vt.count >= vt.limit {
		return 0, &TooManyVariablesError{Name: name, Limit: vt.limit}
	}

	vt.count++
	vt.offsets[slot] = vt.count * 8

	return vt.offsets[slot], nil
}

func (vt *variableTable) frameSize() int {
	return vt.count * 8
}
