package submission

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/swaigcheck/swaigcheck/pkg/swml"
	"github.com/swaigcheck/swaigcheck/pkg/util"
)

const DefaultTimeout = 30 * time.Second

// Invoker drives a submission through the invoker contract.
type Invoker interface {
	// DumpDocument returns the SWML document the submission renders
	DumpDocument(ctx context.Context) (*swml.Document, error)

	// ExecFunction executes a declared function with the given arguments
	ExecFunction(ctx context.Context, name string, args map[string]any) (*swml.FunctionResult, error)
}

// NewInvoker creates the invoker matching the spec's source type.
func NewInvoker(spec *Spec) (Invoker, error) {
	if err := spec.Source.Validate(); err != nil {
		return nil, err
	}

	if spec.Source.Document != "" {
		return &documentInvoker{path: spec.Source.Document}, nil
	}

	timeout := DefaultTimeout
	if spec.Source.Timeout != "" {
		parsed, err := time.ParseDuration(spec.Source.Timeout)
		if err != nil {
			return nil, fmt.Errorf("failed to parse submission timeout: %w", err)
		}
		timeout = parsed
	}

	return &commandInvoker{
		argv:    spec.Source.Command,
		timeout: timeout,
	}, nil
}

// documentInvoker serves a pre-rendered document. It cannot execute
// functions, so checks that require invocation fail for document submissions.
type documentInvoker struct {
	path string
}

var _ Invoker = &documentInvoker{}

func (d *documentInvoker) DumpDocument(ctx context.Context) (*swml.Document, error) {
	return swml.FromFile(d.path)
}

func (d *documentInvoker) ExecFunction(ctx context.Context, name string, args map[string]any) (*swml.FunctionResult, error) {
	return nil, fmt.Errorf("document submission '%s' cannot execute functions", d.path)
}

// commandInvoker runs the submission executable for each request.
type commandInvoker struct {
	argv    []string
	timeout time.Duration
}

var _ Invoker = &commandInvoker{}

func (c *commandInvoker) DumpDocument(ctx context.Context) (*swml.Document, error) {
	out, err := c.run(ctx, "--dump-swml")
	if err != nil {
		return nil, err
	}

	return swml.Read(out)
}

func (c *commandInvoker) ExecFunction(ctx context.Context, name string, args map[string]any) (*swml.FunctionResult, error) {
	argsJSON, err := json.Marshal(args)
	if err != nil {
		return nil, fmt.Errorf("failed to encode function arguments: %w", err)
	}

	out, err := c.run(ctx, "--exec", name, "--args", string(argsJSON))
	if err != nil {
		return nil, err
	}

	return swml.ReadFunctionResult(out)
}

func (c *commandInvoker) run(ctx context.Context, extraArgs ...string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if err := ensureExecutable(c.argv[0]); err != nil {
		return nil, err
	}

	argv := append(append([]string{}, c.argv[1:]...), extraArgs...)
	cmd := exec.CommandContext(ctx, c.argv[0], argv...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if util.IsVerbose(ctx) {
		fmt.Printf("  → invoking: %s\n", cmd.String())
	}

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("submission command failed: %w\nstderr: %s", err, stderr.String())
	}

	return stdout.Bytes(), nil
}

func ensureExecutable(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		// Bare command names resolve through $PATH at exec time
		return nil
	}

	if info.Mode()&0100 != 0 {
		return nil
	}

	if err := os.Chmod(path, info.Mode()|0111); err != nil {
		return fmt.Errorf("failed to make submission executable: %w", err)
	}

	return nil
}
