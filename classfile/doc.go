// Package classfile decodes compiled class files far enough to validate
// their structure and list the type names they reference.
//
// # Decoding
//
// Decode reads the header, the 1-based symbol table and every section that
// follows it. Field, method and attribute contents are skipped by length,
// never interpreted. The buffer must be consumed exactly:
//
//	d, err := classfile.Decode(data)
//	if errors.Is(err, classfile.ErrTrailingData) {
//	    // bytes left over after the last attribute
//	}
//
// Long and Double entries occupy two slots; the slot after one is a
// placeholder that no lookup will resolve.
//
// # Extraction
//
// Extract resolves the parent class name and collects every other class
// name in the symbol table:
//
//	refs, err := classfile.Extract(d, classfile.ExtractOptions{})
//	fmt.Println(refs.Parent, refs.Names)
//
// Names are binary names ("java/lang/String"), never converted to dotted form.
//
// # Encoding
//
// ClassFile.Encode produces a well-formed class file from a symbol table and
// section contents. Decoding the output consumes it exactly.
package classfile
