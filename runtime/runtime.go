package runtime

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/sergev/mini/lang"
	"github.com/sergev/mini/parser"
)

// NewEvaluator constructs an evaluator with a fresh session environment and
// the standard built-ins installed. Sessions never share bindings.
func NewEvaluator() *lang.Evaluator {
	ev := lang.NewEvaluator()
	installPrimitives(ev)
	if err := installLibrary(ev); err != nil {
		panic(fmt.Errorf("runtime bootstrap failed: %w", err))
	}
	return ev
}

// Run parses src as statements and executes them against the session
// environment.
func Run(ev *lang.Evaluator, src string) error {
	mod, err := parser.ParseProgram(src)
	if err != nil {
		return err
	}
	return ev.Exec(mod)
}

// EvaluateAll parses src as an expression list and returns the value of each
// expression in order.
func EvaluateAll(ev *lang.Evaluator, src string) ([]lang.Value, error) {
	list, err := parser.ParseExpressions(src)
	if err != nil {
		return nil, err
	}
	return ev.EvalList(list)
}

// RunReader consumes all statements from the reader and executes them.
func RunReader(ev *lang.Evaluator, r io.Reader) error {
	mod, err := parser.ParseReader(r)
	if err != nil {
		return err
	}
	return ev.Exec(mod)
}

// ParseFile reads and parses a mini source file, allowing a #! first line.
func ParseFile(path string) (*parser.Module, error) {
	data, err := readFileSkippingShebang(path)
	if err != nil {
		return nil, err
	}
	mod, err := parser.ParseReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return mod, nil
}

// RunFile loads and executes a mini source file.
func RunFile(ev *lang.Evaluator, path string) error {
	mod, err := ParseFile(path)
	if err != nil {
		return err
	}
	if err := ev.Exec(mod); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

func readFileSkippingShebang(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if bytes.HasPrefix(data, []byte("#!")) {
		if idx := bytes.IndexByte(data, '\n'); idx >= 0 {
			return data[idx+1:], nil
		}
		return []byte{}, nil
	}
	return data, nil
}
