package submission

import (
	"context"
	"sync"

	"github.com/swaigcheck/swaigcheck/pkg/swml"
)

// Submission is a loaded submission artifact. The rendered document is
// fetched once and cached, including its error: a submission that fails to
// instantiate keeps failing the same way for every check that needs it.
type Submission struct {
	Spec    *Spec
	invoker Invoker

	docOnce sync.Once
	doc     *swml.Document
	docErr  error
}

// New wraps a submission spec with its invoker.
func New(spec *Spec) (*Submission, error) {
	invoker, err := NewInvoker(spec)
	if err != nil {
		return nil, err
	}

	return &Submission{
		Spec:    spec,
		invoker: invoker,
	}, nil
}

// Load builds a submission from a bare path; see SpecForPath for how the
// path is interpreted.
func Load(path string) (*Submission, error) {
	spec, err := SpecForPath(path)
	if err != nil {
		return nil, err
	}

	return New(spec)
}

// Name returns the submission's name.
func (s *Submission) Name() string {
	return s.Spec.Metadata.Name
}

// Document returns the submission's rendered SWML document, invoking the
// submission at most once.
func (s *Submission) Document(ctx context.Context) (*swml.Document, error) {
	s.docOnce.Do(func() {
		s.doc, s.docErr = s.invoker.DumpDocument(ctx)
	})

	return s.doc, s.docErr
}

// ExecFunction executes one of the submission's declared functions.
func (s *Submission) ExecFunction(ctx context.Context, name string, args map[string]any) (*swml.FunctionResult, error) {
	return s.invoker.ExecFunction(ctx, name, args)
}
