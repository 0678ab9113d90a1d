package classfile

import (
	"github.com/wippyai/classrefs/classfile/internal/binary"
)

// Encode encodes the class file to its binary form
func (c *ClassFile) Encode() []byte {
	w := binary.NewWriter()

	w.WriteU32(Magic)
	w.WriteU16(c.Version.Minor)
	w.WriteU16(c.Version.Major)

	symbols := c.Symbols
	if symbols == nil {
		symbols = NewSymbolTable()
	}
	writeSymbolTable(w, symbols)

	w.WriteU16(c.AccessFlags)
	w.WriteU16(c.ThisIndex)
	w.WriteU16(c.SuperIndex)

	w.WriteU16(uint16(len(c.Interfaces)))
	for _, idx := range c.Interfaces {
		w.WriteU16(idx)
	}

	writeMembers(w, c.Fields)
	writeMembers(w, c.Methods)
	writeAttributes(w, c.Attributes)

	return w.Bytes()
}

func writeSymbolTable(w *binary.Writer, t *SymbolTable) {
	w.WriteU16(uint16(t.Count()))
	for _, e := range t.All() {
		w.WriteU8(byte(e.Tag))
		switch e.Tag {
		case TagUtf8:
			w.WriteU16(uint16(len(e.Text)))
			w.WriteBytes([]byte(e.Text))
		case TagClass:
			w.WriteU16(e.NameIndex)
		case TagNameAndType:
			w.WriteU16(e.NameIndex)
			w.WriteU16(e.DescriptorIndex)
		default:
			// Pad or cut so the payload matches the tag's wire size.
			raw := make([]byte, payloadSize[e.Tag])
			copy(raw, e.Raw)
			w.WriteBytes(raw)
		}
	}
}

func writeMembers(w *binary.Writer, members []Member) {
	w.WriteU16(uint16(len(members)))
	for _, m := range members {
		w.WriteU16(m.AccessFlags)
		w.WriteU16(m.NameIndex)
		w.WriteU16(m.DescriptorIndex)
		writeAttributes(w, m.Attributes)
	}
}

func writeAttributes(w *binary.Writer, attrs []Attribute) {
	w.WriteU16(uint16(len(attrs)))
	for _, a := range attrs {
		w.WriteU16(a.NameIndex)
		w.WriteBlob(a.Data)
	}
}
