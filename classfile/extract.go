package classfile

import (
	"cmp"
	"slices"
	"strconv"

	"github.com/wippyai/classrefs/errors"
)

// ParentPolicy decides whether a zero parent index is acceptable.
type ParentPolicy int

const (
	// ParentRootOnly accepts a zero parent index only for RootClassName.
	ParentRootOnly ParentPolicy = iota
	// ParentOptional accepts a zero parent index for any descriptor.
	ParentOptional
	// ParentRequired rejects every zero parent index.
	ParentRequired
)

var parentPolicyNames = map[ParentPolicy]string{
	ParentRootOnly: "root-only",
	ParentOptional: "optional",
	ParentRequired: "required",
}

func (p ParentPolicy) String() string {
	if s, ok := parentPolicyNames[p]; ok {
		return s
	}
	return "ParentPolicy(" + strconv.Itoa(int(p)) + ")"
}

// ParseParentPolicy parses the String form of a policy.
func ParseParentPolicy(s string) (ParentPolicy, error) {
	for p, name := range parentPolicyNames {
		if name == s {
			return p, nil
		}
	}
	return 0, errors.InvalidInput(errors.PhaseExtract, "unknown parent policy "+strconv.Quote(s))
}

// ExtractOptions configures Extract. The zero value is the default.
type ExtractOptions struct {
	Policy ParentPolicy
	// ParentOnly skips collecting referenced names.
	ParentOnly bool
	// ExcludeSelf removes the descriptor's own name from the references.
	ExcludeSelf bool
}

// References is the result of Extract.
type References struct {
	// Parent is the binary name of the parent type, empty for a root type.
	Parent string
	// Names holds every other referenced binary name, shortest first and
	// lexicographically within a length.
	Names []string
	// Skipped holds one error per class entry whose name did not resolve.
	Skipped []error
}

// Extract resolves the parent name of d and collects the names of all
// class entries in its symbol table.
func Extract(d *Descriptor, opts ExtractOptions) (*References, error) {
	parent, err := parentName(d, opts.Policy)
	if err != nil {
		return nil, err
	}

	refs := &References{Parent: parent}
	if opts.ParentOnly {
		return refs, nil
	}

	names := make(map[string]struct{})
	for index, e := range d.Symbols.All() {
		if e.Tag != TagClass {
			continue
		}
		name, err := referencedName(d.Symbols, e.NameIndex)
		if err != nil {
			refs.Skipped = append(refs.Skipped, errors.At(errors.PhaseExtract, err, "constant_pool", "#"+strconv.Itoa(int(index))))
			continue
		}
		names[name] = struct{}{}
	}

	if parent != "" {
		delete(names, parent)
	}
	if opts.ExcludeSelf {
		if self, err := d.Symbols.ClassName(d.Header.ThisIndex); err == nil {
			delete(names, self)
		}
	}

	refs.Names = make([]string, 0, len(names))
	for name := range names {
		refs.Names = append(refs.Names, name)
	}
	slices.SortFunc(refs.Names, compareNames)

	return refs, nil
}

func parentName(d *Descriptor, policy ParentPolicy) (string, error) {
	index := d.ParentIndex()
	if index != 0 {
		name, err := d.Symbols.ClassName(index)
		if err != nil {
			return "", errors.At(errors.PhaseExtract, err, "super_class")
		}
		return name, nil
	}

	switch policy {
	case ParentOptional:
		return "", nil
	case ParentRequired:
		self, _ := d.Symbols.ClassName(d.Header.ThisIndex)
		return "", errors.MissingParent(errors.PhaseExtract, self)
	default:
		self, err := d.Symbols.ClassName(d.Header.ThisIndex)
		if err != nil {
			return "", errors.At(errors.PhaseExtract, err, "this_class")
		}
		if self != RootClassName {
			return "", errors.MissingParent(errors.PhaseExtract, self)
		}
		return "", nil
	}
}

// referencedName resolves the name slot of a class entry. Some encoders
// point it at a NameAndType entry, whose own name slot is followed once.
func referencedName(t *SymbolTable, index uint16) (string, error) {
	e, err := t.Entry(index)
	if err != nil {
		return "", err
	}
	switch e.Tag {
	case TagUtf8:
		return e.Text, nil
	case TagNameAndType:
		return t.Text(e.NameIndex)
	default:
		return "", errors.MalformedReference(errors.PhaseExtract, nil, index, "expected utf8 or name_and_type, found "+e.Tag.String())
	}
}

func compareNames(a, b string) int {
	if c := cmp.Compare(len(a), len(b)); c != 0 {
		return c
	}
	return cmp.Compare(a, b)
}
