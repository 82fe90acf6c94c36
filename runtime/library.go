package runtime

import "github.com/sergev/mini/lang"

// preludeForms are written in mini and run in every new session after the
// primitives are installed.
var preludeForms = []string{
	`negate = (n) -> (0 - n)`,
	`not = (n) -> if n then 0 else 1`,
}

func installLibrary(ev *lang.Evaluator) error {
	for _, form := range preludeForms {
		if err := Run(ev, form); err != nil {
			return err
		}
	}
	return nil
}
