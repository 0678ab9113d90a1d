package classfile

// Magic is the class file magic number.
const Magic uint32 = 0xCAFEBABE

// RootClassName is the binary name of the one type without a parent.
const RootClassName = "java/lang/Object"

// Tag identifies the kind of a symbol table entry on the wire.
type Tag byte

// Symbol table tags. Long and Double are wide: they occupy two slots.
const (
	TagPlaceholder        Tag = 0 // second slot of a wide entry, never on the wire
	TagUtf8               Tag = 1
	TagInteger            Tag = 3
	TagFloat              Tag = 4
	TagLong               Tag = 5
	TagDouble             Tag = 6
	TagClass              Tag = 7
	TagString             Tag = 8
	TagFieldref           Tag = 9
	TagMethodref          Tag = 10
	TagInterfaceMethodref Tag = 11
	TagNameAndType        Tag = 12
	TagMethodHandle       Tag = 15
	TagMethodType         Tag = 16
	TagDynamic            Tag = 17
	TagInvokeDynamic      Tag = 18
	TagModule             Tag = 19
	TagPackage            Tag = 20
)

// payloadSize is the fixed wire size following the tag byte for every
// recognized tag except Utf8, whose payload is length-prefixed.
var payloadSize = map[Tag]int{
	TagInteger:            4,
	TagFloat:              4,
	TagLong:               8,
	TagDouble:             8,
	TagClass:              2,
	TagString:             2,
	TagFieldref:           4,
	TagMethodref:          4,
	TagInterfaceMethodref: 4,
	TagNameAndType:        4,
	TagMethodHandle:       3,
	TagMethodType:         2,
	TagDynamic:            4,
	TagInvokeDynamic:      4,
	TagModule:             2,
	TagPackage:            2,
}

// Wide reports whether entries with this tag occupy two slots.
func (t Tag) Wide() bool {
	return t == TagLong || t == TagDouble
}

// Width returns the number of table slots an entry with this tag occupies.
func (t Tag) Width() int {
	if t.Wide() {
		return 2
	}
	return 1
}

// Known reports whether t may appear on the wire.
func (t Tag) Known() bool {
	if t == TagUtf8 {
		return true
	}
	_, ok := payloadSize[t]
	return ok
}

// String returns the tag name.
func (t Tag) String() string {
	switch t {
	case TagPlaceholder:
		return "placeholder"
	case TagUtf8:
		return "utf8"
	case TagInteger:
		return "integer"
	case TagFloat:
		return "float"
	case TagLong:
		return "long"
	case TagDouble:
		return "double"
	case TagClass:
		return "class"
	case TagString:
		return "string"
	case TagFieldref:
		return "fieldref"
	case TagMethodref:
		return "methodref"
	case TagInterfaceMethodref:
		return "interface_methodref"
	case TagNameAndType:
		return "name_and_type"
	case TagMethodHandle:
		return "method_handle"
	case TagMethodType:
		return "method_type"
	case TagDynamic:
		return "dynamic"
	case TagInvokeDynamic:
		return "invoke_dynamic"
	case TagModule:
		return "module"
	case TagPackage:
		return "package"
	default:
		return "unknown"
	}
}
