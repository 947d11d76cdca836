package ide

import (
	"github.com/dhamidi/libsyntax/ast"
	"github.com/dhamidi/libsyntax/text"
)

type RunnableKind int

const (
	RunnableBin RunnableKind = iota
	RunnableTest
)

func (k RunnableKind) String() string {
	if k == RunnableTest {
		return "test"
	}
	return "bin"
}

func (k RunnableKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Runnable is a top-level function that can be executed: the binary entry
// point or a test. Name is the function name.
type Runnable struct {
	Range text.Range   `json:"range"`
	Kind  RunnableKind `json:"kind"`
	Name  string       `json:"name"`
}

func Runnables(file *ast.File) []Runnable {
	var result []Runnable
	for fn := range file.Functions() {
		name, ok := fn.Name()
		if !ok {
			continue
		}
		var kind RunnableKind
		switch {
		case name.Text() == "main":
			kind = RunnableBin
		case fn.HasAtomAttr("test"):
			kind = RunnableTest
		default:
			continue
		}
		result = append(result, Runnable{Range: fn.Syntax().Range(), Kind: kind, Name: name.Text()})
	}
	return result
}
