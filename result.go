package docvalidate

import "fmt"

// Result is the outcome of validating one document. It is created per call
// and not modified after Validate returns.
type Result struct {
	// Name identifies the document in messages.
	Name string
	// Messages holds one human-readable line per diagnostic, in order.
	Messages []string
	// Issues mirrors Messages with structured entries.
	Issues Issues
	// FlatItems maps leaf paths to their text. Empty unless parsing succeeded.
	FlatItems map[string]string
	// FlatOrder holds the same leaves in document order.
	FlatOrder []FlatItem

	hasError bool
	err      error
}

func newResult(name string) *Result {
	return &Result{Name: name, FlatItems: map[string]string{}}
}

// FailedResult builds a result for a document that could not be processed at
// all, e.g. because the validator itself failed to construct.
func FailedResult(name string, err error) *Result {
	r := newResult(name)
	r.err = err
	if err != nil {
		r.Messages = append(r.Messages, err.Error())
	}
	return r
}

// HasError reports whether any error was recorded or a failure cause is set.
func (r *Result) HasError() bool { return r.hasError || r.err != nil }

// Err returns the failure cause, if any. Per-document problems such as parse
// errors are reported through Messages, not here.
func (r *Result) Err() error { return r.err }

func (r *Result) encounteredError() { r.hasError = true }

func (r *Result) addIssue(iss Issue, line string) {
	r.Issues = append(r.Issues, iss)
	r.Messages = append(r.Messages, line)
}

func (r *Result) addf(code, path, format string, a ...any) {
	msg := fmt.Sprintf(format, a...)
	r.addIssue(Issue{Path: path, Code: code, Message: msg}, msg)
}
