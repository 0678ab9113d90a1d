package classfile

import (
	"iter"
	"strconv"

	"github.com/wippyai/classrefs/errors"
)

// Entry is one symbol table entry. Which fields are meaningful depends on Tag:
// Utf8 uses Text, Class uses NameIndex, NameAndType uses NameIndex and
// DescriptorIndex. Every other tag keeps its raw wire payload in Raw.
type Entry struct {
	Text            string
	Raw             []byte
	NameIndex       uint16
	DescriptorIndex uint16
	Tag             Tag
}

// Utf8 returns a string entry.
func Utf8(text string) Entry {
	return Entry{Tag: TagUtf8, Text: text}
}

// ClassRef returns a class entry naming the Utf8 entry at nameIndex.
func ClassRef(nameIndex uint16) Entry {
	return Entry{Tag: TagClass, NameIndex: nameIndex}
}

// NameAndType returns a name-and-type entry.
func NameAndType(nameIndex, descriptorIndex uint16) Entry {
	return Entry{Tag: TagNameAndType, NameIndex: nameIndex, DescriptorIndex: descriptorIndex}
}

// Opaque returns an entry of any other tag carrying its raw payload.
func Opaque(tag Tag, raw []byte) Entry {
	return Entry{Tag: tag, Raw: raw}
}

// Width returns the number of slots the entry occupies.
func (e Entry) Width() int {
	return e.Tag.Width()
}

// SymbolTable is the 1-based, immutable table of a descriptor's entries.
// Slot 0 and the slot after a wide entry hold placeholders.
type SymbolTable struct {
	slots []Entry
}

// NewSymbolTable builds a table from entries in order, inserting a
// placeholder slot after every wide entry.
func NewSymbolTable(entries ...Entry) *SymbolTable {
	slots := make([]Entry, 1, len(entries)+1)
	for _, e := range entries {
		slots = append(slots, e)
		if e.Tag.Wide() {
			slots = append(slots, Entry{Tag: TagPlaceholder})
		}
	}
	return &SymbolTable{slots: slots}
}

// Count returns the wire count of the table: one more than the highest slot.
func (t *SymbolTable) Count() int {
	return len(t.slots)
}

// Entry returns the entry at index. It fails with a malformed reference
// error for index 0, indices past the end and placeholder slots.
func (t *SymbolTable) Entry(index uint16) (Entry, error) {
	if index == 0 || int(index) >= len(t.slots) {
		return Entry{}, errors.OutOfRange(errors.PhaseExtract, nil, index, len(t.slots))
	}
	e := t.slots[index]
	if e.Tag == TagPlaceholder {
		return Entry{}, errors.MalformedReference(errors.PhaseExtract, nil, index, "second slot of a wide entry")
	}
	return e, nil
}

// All yields every addressable entry with its index, in table order.
func (t *SymbolTable) All() iter.Seq2[uint16, Entry] {
	return func(yield func(uint16, Entry) bool) {
		for i := 1; i < len(t.slots); i++ {
			if t.slots[i].Tag == TagPlaceholder {
				continue
			}
			if !yield(uint16(i), t.slots[i]) {
				return
			}
		}
	}
}

// Text resolves index to the text of a Utf8 entry.
func (t *SymbolTable) Text(index uint16) (string, error) {
	e, err := t.Entry(index)
	if err != nil {
		return "", err
	}
	if e.Tag != TagUtf8 {
		return "", errors.MalformedReference(errors.PhaseExtract, nil, index, "expected utf8, found "+e.Tag.String())
	}
	return e.Text, nil
}

// ClassName resolves index to a class entry and returns the binary name it
// refers to.
func (t *SymbolTable) ClassName(index uint16) (string, error) {
	e, err := t.Entry(index)
	if err != nil {
		return "", err
	}
	if e.Tag != TagClass {
		return "", errors.MalformedReference(errors.PhaseExtract, nil, index, "expected class, found "+e.Tag.String())
	}
	name, err := t.Text(e.NameIndex)
	if err != nil {
		return "", errors.At(errors.PhaseExtract, err, "#"+strconv.Itoa(int(index)), "name")
	}
	return name, nil
}

// Version is the class file format version.
type Version struct {
	Minor uint16
	Major uint16
}

func (v Version) String() string {
	return strconv.Itoa(int(v.Major)) + "." + strconv.Itoa(int(v.Minor))
}

// Extent records a skipped section: its element count and byte range.
type Extent struct {
	Count  int
	Offset int
	Size   int
}

// Header holds everything decoded after the symbol table.
// A SuperIndex of zero means the descriptor declares no parent.
type Header struct {
	Interfaces  Extent
	Fields      Extent
	Methods     Extent
	Attributes  Extent
	Magic       uint32
	Version     Version
	AccessFlags uint16
	ThisIndex   uint16
	SuperIndex  uint16
}

// Descriptor is a fully decoded class file.
type Descriptor struct {
	Symbols *SymbolTable
	Header  Header
	Size    int
}

// ParentIndex returns the symbol table index of the parent class entry.
func (d *Descriptor) ParentIndex() uint16 {
	return d.Header.SuperIndex
}

// ClassFile is the input to Encode.
type ClassFile struct {
	Symbols     *SymbolTable
	Interfaces  []uint16
	Fields      []Member
	Methods     []Member
	Attributes  []Attribute
	Version     Version
	AccessFlags uint16
	ThisIndex   uint16
	SuperIndex  uint16
}

// Member is a field or method.
type Member struct {
	Attributes      []Attribute
	AccessFlags     uint16
	NameIndex       uint16
	DescriptorIndex uint16
}

// Attribute is an uninterpreted metadata block.
type Attribute struct {
	Data      []byte
	NameIndex uint16
}
