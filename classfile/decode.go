package classfile

import (
	"strconv"

	"github.com/wippyai/classrefs/classfile/internal/binary"
	"github.com/wippyai/classrefs/errors"
)

// Sentinel errors for errors.Is checks against decode and extract failures.
var (
	ErrTruncated          = errors.Sentinel(errors.KindTruncated)
	ErrUnknownTag         = errors.Sentinel(errors.KindUnknownTag)
	ErrTrailingData       = errors.Sentinel(errors.KindTrailingData)
	ErrMissingParent      = errors.Sentinel(errors.KindMissingParent)
	ErrMalformedReference = errors.Sentinel(errors.KindMalformedReference)
)

// Decode parses one class file. The whole buffer must be consumed; leftover
// bytes fail the decode with ErrTrailingData.
func Decode(data []byte) (*Descriptor, error) {
	r := binary.NewReader(data)

	var h Header
	var err error
	if h.Magic, err = r.ReadU32(); err != nil {
		return nil, errors.At(errors.PhaseDecode, err, "magic")
	}
	if h.Version.Minor, err = r.ReadU16(); err != nil {
		return nil, errors.At(errors.PhaseDecode, err, "minor_version")
	}
	if h.Version.Major, err = r.ReadU16(); err != nil {
		return nil, errors.At(errors.PhaseDecode, err, "major_version")
	}

	symbols, err := decodeSymbolTable(r)
	if err != nil {
		return nil, err
	}

	if err := decodeBody(r, symbols, &h); err != nil {
		return nil, err
	}

	if err := r.Exhausted(); err != nil {
		return nil, err
	}

	return &Descriptor{Symbols: symbols, Header: h, Size: len(data)}, nil
}

func decodeSymbolTable(r *binary.Reader) (*SymbolTable, error) {
	count, err := r.ReadU16()
	if err != nil {
		return nil, errors.At(errors.PhaseDecode, err, "constant_pool_count")
	}

	slots := make([]Entry, 1, max(int(count), 1))
	for len(slots) < int(count) {
		index := len(slots)
		e, err := decodeEntry(r)
		if err != nil {
			return nil, errors.At(errors.PhaseDecode, err, "constant_pool", "#"+strconv.Itoa(index))
		}
		slots = append(slots, e)
		if e.Tag.Wide() {
			slots = append(slots, Entry{Tag: TagPlaceholder})
		}
	}
	// A wide entry in the last slot spills a placeholder past count.
	if len(slots) > int(count) && count > 0 {
		slots = slots[:count]
	}

	return &SymbolTable{slots: slots}, nil
}

func decodeEntry(r *binary.Reader) (Entry, error) {
	offset := r.Position()
	b, err := r.ReadU8()
	if err != nil {
		return Entry{}, err
	}
	tag := Tag(b)

	switch tag {
	case TagUtf8:
		n, err := r.ReadU16()
		if err != nil {
			return Entry{}, err
		}
		text, err := r.ReadBytes(int(n))
		if err != nil {
			return Entry{}, err
		}
		return Utf8(string(text)), nil

	case TagClass:
		name, err := r.ReadU16()
		if err != nil {
			return Entry{}, err
		}
		return ClassRef(name), nil

	case TagNameAndType:
		name, err := r.ReadU16()
		if err != nil {
			return Entry{}, err
		}
		desc, err := r.ReadU16()
		if err != nil {
			return Entry{}, err
		}
		return NameAndType(name, desc), nil
	}

	size, ok := payloadSize[tag]
	if !ok {
		return Entry{}, errors.UnknownTag(errors.PhaseDecode, nil, b, offset)
	}
	raw, err := r.ReadBytes(size)
	if err != nil {
		return Entry{}, err
	}
	return Opaque(tag, raw), nil
}

func decodeBody(r *binary.Reader, symbols *SymbolTable, h *Header) error {
	var err error
	if h.AccessFlags, err = r.ReadU16(); err != nil {
		return errors.At(errors.PhaseDecode, err, "access_flags")
	}
	if h.ThisIndex, err = readIndex(r, symbols, "this_class"); err != nil {
		return err
	}
	if h.SuperIndex, err = readIndex(r, symbols, "super_class"); err != nil {
		return err
	}

	if h.Interfaces, err = skipInterfaces(r); err != nil {
		return errors.At(errors.PhaseDecode, err, "interfaces")
	}
	if h.Fields, err = skipMembers(r); err != nil {
		return errors.At(errors.PhaseDecode, err, "fields")
	}
	if h.Methods, err = skipMembers(r); err != nil {
		return errors.At(errors.PhaseDecode, err, "methods")
	}
	if h.Attributes, err = skipAttributes(r); err != nil {
		return errors.At(errors.PhaseDecode, err, "attributes")
	}
	return nil
}

// readIndex reads a symbol table index, allowing zero but rejecting
// indices past the end of the table.
func readIndex(r *binary.Reader, symbols *SymbolTable, field string) (uint16, error) {
	index, err := r.ReadU16()
	if err != nil {
		return 0, errors.At(errors.PhaseDecode, err, field)
	}
	if int(index) >= symbols.Count() {
		return 0, errors.OutOfRange(errors.PhaseDecode, []string{field}, index, symbols.Count())
	}
	return index, nil
}

func skipInterfaces(r *binary.Reader) (Extent, error) {
	offset := r.Position()
	count, err := r.ReadU16()
	if err != nil {
		return Extent{}, err
	}
	if err := r.Skip(2 * int(count)); err != nil {
		return Extent{}, err
	}
	return Extent{Count: int(count), Offset: offset, Size: r.Position() - offset}, nil
}

// skipMembers skips a counted list of fields or methods. Each member is
// flags, name and descriptor followed by its own attribute list.
func skipMembers(r *binary.Reader) (Extent, error) {
	offset := r.Position()
	count, err := r.ReadU16()
	if err != nil {
		return Extent{}, err
	}
	for i := 0; i < int(count); i++ {
		if err := r.Skip(6); err != nil {
			return Extent{}, errors.At(errors.PhaseDecode, err, "#"+strconv.Itoa(i))
		}
		if _, err := skipAttributes(r); err != nil {
			return Extent{}, errors.At(errors.PhaseDecode, err, "#"+strconv.Itoa(i), "attributes")
		}
	}
	return Extent{Count: int(count), Offset: offset, Size: r.Position() - offset}, nil
}

func skipAttributes(r *binary.Reader) (Extent, error) {
	offset := r.Position()
	count, err := r.ReadU16()
	if err != nil {
		return Extent{}, err
	}
	for i := 0; i < int(count); i++ {
		if err := skipAttribute(r); err != nil {
			return Extent{}, errors.At(errors.PhaseDecode, err, "#"+strconv.Itoa(i))
		}
	}
	return Extent{Count: int(count), Offset: offset, Size: r.Position() - offset}, nil
}

// skipAttribute skips one metadata block: name index, 32-bit length, body.
func skipAttribute(r *binary.Reader) error {
	if err := r.Skip(2); err != nil {
		return err
	}
	_, err := r.SkipBlob()
	return err
}
