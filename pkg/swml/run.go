package swml

import (
	"encoding/json"
	"fmt"
	"io"
)

// Run implements the submission executable contract on top of an agent:
//
//	<submission> --dump-swml                   print the rendered document
//	<submission> --exec <function> [--args j]  execute a function, print result
//
// The grader's invoker drives submissions through exactly this surface.
func Run(a *Agent, args []string, out io.Writer) error {
	if len(args) == 0 {
		return fmt.Errorf("expected --dump-swml or --exec <function>")
	}

	switch args[0] {
	case "--dump-swml":
		return writeJSON(out, a.Document())

	case "--exec":
		if len(args) < 2 {
			return fmt.Errorf("--exec requires a function name")
		}
		fnName := args[1]

		fnArgs := map[string]any{}
		if len(args) > 2 {
			if args[2] != "--args" {
				return fmt.Errorf("unknown argument '%s'", args[2])
			}
			if len(args) < 4 {
				return fmt.Errorf("--args requires a JSON value")
			}
			if err := json.Unmarshal([]byte(args[3]), &fnArgs); err != nil {
				return fmt.Errorf("failed to parse --args: %w", err)
			}
		}

		result, err := a.Execute(fnName, fnArgs)
		if err != nil {
			return err
		}
		return writeJSON(out, result)

	default:
		return fmt.Errorf("unknown argument '%s'", args[0])
	}
}

func writeJSON(out io.Writer, v any) error {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
