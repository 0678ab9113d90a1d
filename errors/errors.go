package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseDecode  Phase = "decode"  // bytes to descriptor
	PhaseExtract Phase = "extract" // descriptor to references
	PhaseScan    Phase = "scan"    // archive enumeration
)

// Kind categorizes the error
type Kind string

const (
	KindTruncated          Kind = "truncated"
	KindUnknownTag         Kind = "unknown_tag"
	KindTrailingData       Kind = "trailing_data"
	KindMissingParent      Kind = "missing_parent"
	KindMalformedReference Kind = "malformed_reference"
	KindInvalidInput       Kind = "invalid_input"
	KindNotFound           Kind = "not_found"
)

// Error is the structured error type used throughout the module
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	Detail string
	Path   []string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "."))
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error.
// An empty Phase on the target matches any phase.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Phase != "" && t.Phase != e.Phase {
		return false
	}
	return e.Kind == t.Kind
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Path sets the field path
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Sentinel returns a kind-only error suitable as an errors.Is target.
func Sentinel(kind Kind) *Error {
	return &Error{Kind: kind}
}

// At prefixes the path of a structured error with the given segments.
// The original error is not modified. Non-structured errors are wrapped
// as invalid input in the given phase.
func At(phase Phase, err error, path ...string) error {
	if err == nil {
		return nil
	}
	var e *Error
	if !errors.As(err, &e) {
		return &Error{
			Phase: phase,
			Kind:  KindInvalidInput,
			Path:  path,
			Cause: err,
		}
	}
	cp := *e
	cp.Path = append(append(make([]string, 0, len(path)+len(e.Path)), path...), e.Path...)
	return &cp
}

// Convenience constructors for common error patterns

// Truncated creates an error for a read that needs more bytes than remain
func Truncated(phase Phase, offset, need, remaining int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindTruncated,
		Detail: fmt.Sprintf("need %d bytes at offset %d, %d remaining", need, offset, remaining),
		Value:  offset,
	}
}

// UnknownTag creates an error for an unrecognized symbol table tag
func UnknownTag(phase Phase, path []string, tag byte, offset int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnknownTag,
		Path:   path,
		Detail: fmt.Sprintf("tag %d at offset %d", tag, offset),
		Value:  tag,
	}
}

// TrailingData creates an error for bytes left over after a full decode
func TrailingData(phase Phase, offset, remaining int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindTrailingData,
		Detail: fmt.Sprintf("%d unconsumed bytes at offset %d", remaining, offset),
		Value:  remaining,
	}
}

// MissingParent creates an error for a zero parent index the policy rejects
func MissingParent(phase Phase, self string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindMissingParent,
		Detail: fmt.Sprintf("%q declares no parent", self),
		Value:  self,
	}
}

// MalformedReference creates an error for an index that does not resolve
// to an entry of the expected kind
func MalformedReference(phase Phase, path []string, index uint16, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindMalformedReference,
		Path:   path,
		Detail: fmt.Sprintf("#%d: %s", index, detail),
		Value:  index,
	}
}

// OutOfRange creates a malformed reference error for an index outside the table
func OutOfRange(phase Phase, path []string, index uint16, slots int) *Error {
	return MalformedReference(phase, path, index, fmt.Sprintf("out of range (table has %d slots)", slots))
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// NotFound creates a not-found error
func NotFound(phase Phase, what, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotFound,
		Detail: fmt.Sprintf("%s %q not found", what, name),
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}
