package classfile_test

import (
	"bytes"
	"errors"
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/wippyai/classrefs/classfile"
)

// generateClass builds a well-formed class whose shape is driven by seed.
func generateClass(seed uint64) *classfile.ClassFile {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))

	var entries []classfile.Entry
	slot := uint16(1)
	add := func(e classfile.Entry) uint16 {
		idx := slot
		entries = append(entries, e)
		slot += uint16(e.Width())
		return idx
	}

	name := add(classfile.Utf8(fmt.Sprintf("gen/C%d", seed)))
	self := add(classfile.ClassRef(name))
	parentName := add(classfile.Utf8("gen/Base"))
	parent := add(classfile.ClassRef(parentName))
	attrName := add(classfile.Utf8("Attr"))

	wide := []classfile.Tag{classfile.TagLong, classfile.TagDouble}
	narrow := []classfile.Tag{classfile.TagInteger, classfile.TagString, classfile.TagMethodHandle, classfile.TagInvokeDynamic}
	n := rng.IntN(20)
	for i := 0; i < n; i++ {
		switch rng.IntN(4) {
		case 0:
			add(classfile.Opaque(wide[rng.IntN(len(wide))], make([]byte, 8)))
		case 1:
			tag := narrow[rng.IntN(len(narrow))]
			raw := make([]byte, 4)
			for j := range raw {
				raw[j] = byte(rng.IntN(256))
			}
			add(classfile.Opaque(tag, raw))
		case 2:
			add(classfile.ClassRef(add(classfile.Utf8(fmt.Sprintf("gen/R%d", rng.IntN(5))))))
		default:
			add(classfile.NameAndType(name, attrName))
		}
	}

	attrs := func() []classfile.Attribute {
		out := make([]classfile.Attribute, rng.IntN(3))
		for i := range out {
			out[i] = classfile.Attribute{NameIndex: attrName, Data: make([]byte, rng.IntN(40))}
		}
		return out
	}
	members := func() []classfile.Member {
		out := make([]classfile.Member, rng.IntN(4))
		for i := range out {
			out[i] = classfile.Member{NameIndex: attrName, DescriptorIndex: attrName, Attributes: attrs()}
		}
		return out
	}

	return &classfile.ClassFile{
		Version:    classfile.Version{Major: uint16(45 + rng.IntN(25))},
		Symbols:    classfile.NewSymbolTable(entries...),
		ThisIndex:  self,
		SuperIndex: parent,
		Interfaces: []uint16{parent},
		Fields:     members(),
		Methods:    members(),
		Attributes: attrs(),
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	for seed := uint64(0); seed < 200; seed++ {
		c := generateClass(seed)
		data := c.Encode()

		d, err := classfile.Decode(data)
		if err != nil {
			t.Fatalf("seed %d: Decode: %v", seed, err)
		}
		if d.Size != len(data) {
			t.Errorf("seed %d: Size: got %d, want %d", seed, d.Size, len(data))
		}

		// Re-encoding with the decoded table reproduces the input exactly.
		again := *c
		again.Symbols = d.Symbols
		if !bytes.Equal(again.Encode(), data) {
			t.Errorf("seed %d: re-encoded bytes differ", seed)
		}

		refs, err := classfile.Extract(d, classfile.ExtractOptions{})
		if err != nil {
			t.Fatalf("seed %d: Extract: %v", seed, err)
		}
		if refs.Parent != "gen/Base" {
			t.Errorf("seed %d: Parent: got %q", seed, refs.Parent)
		}

		if _, err := classfile.Decode(append(data, 0)); !errors.Is(err, classfile.ErrTrailingData) {
			t.Errorf("seed %d: extra byte: got %v", seed, err)
		}
	}
}

func TestEncodeOpaquePayloadSize(t *testing.T) {
	c := &classfile.ClassFile{
		Symbols: classfile.NewSymbolTable(
			classfile.Opaque(classfile.TagInteger, []byte{1}),
			classfile.Opaque(classfile.TagMethodHandle, []byte{1, 2, 3, 4, 5}),
		),
	}

	d, err := classfile.Decode(c.Encode())
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	want := map[uint16][]byte{
		1: {1, 0, 0, 0},
		2: {1, 2, 3},
	}
	for idx, raw := range want {
		e, err := d.Symbols.Entry(idx)
		if err != nil {
			t.Fatalf("Entry(%d): %v", idx, err)
		}
		if !bytes.Equal(e.Raw, raw) {
			t.Errorf("Entry(%d).Raw: got %v, want %v", idx, e.Raw, raw)
		}
	}
}

func TestEncodeMinimalLayout(t *testing.T) {
	c := &classfile.ClassFile{
		Version:    classfile.Version{Minor: 3, Major: 45},
		Symbols:    classfile.NewSymbolTable(classfile.Utf8("A"), classfile.ClassRef(1)),
		ThisIndex:  2,
		SuperIndex: 2,
	}

	want := []byte{
		0xca, 0xfe, 0xba, 0xbe, // magic
		0x00, 0x03, 0x00, 0x2d, // minor, major
		0x00, 0x03, // pool count
		0x01, 0x00, 0x01, 'A', // #1 utf8
		0x07, 0x00, 0x01, // #2 class
		0x00, 0x00, // access flags
		0x00, 0x02, 0x00, 0x02, // this, super
		0x00, 0x00, // interfaces
		0x00, 0x00, // fields
		0x00, 0x00, // methods
		0x00, 0x00, // attributes
	}
	if got := c.Encode(); !bytes.Equal(got, want) {
		t.Errorf("Encode:\n got %x\nwant %x", got, want)
	}
}
