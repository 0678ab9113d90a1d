// Package classrefs lists the parent and referenced types of compiled
// class files stored in zip and jar archives.
//
// # Architecture Overview
//
// The module is organized into several packages with distinct responsibilities:
//
//	classrefs/
//	├── classfile/       Class file decoding, reference extraction and encoding
//	│   └── internal/
//	│       └── binary/  Big-endian byte cursor and writer
//	├── scan/            Archive enumeration, concurrent decode, output lines
//	├── errors/          Structured error types for diagnosing malformed bytes
//	└── cmd/classrefs/   Command-line tool and interactive browser
//
// # Quick Start
//
// Decode one class file and list what it references:
//
//	d, err := classfile.Decode(data)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	refs, err := classfile.Extract(d, classfile.ExtractOptions{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(refs.Parent, refs.Names)
//
// Scan whole archives, one output line per class:
//
//	w := scan.NewWriter(os.Stdout)
//	stats, err := scan.Run(ctx, []string{"lib.jar"}, scan.Options{}, w.Write)
//	w.Flush()
//
// # Error Handling
//
// Decode failures are *errors.Error values with a phase, a kind and a path
// into the class file:
//
//	[decode] truncated at constant_pool.#3: need 16 bytes at offset 35, 5 remaining
//
// Test for a kind with errors.Is and the classfile sentinels:
//
//	if errors.Is(err, classfile.ErrTruncated) { ... }
//
// # Concurrency
//
// Decoding is pure and allocation-bound; descriptors share nothing, so the
// scanner decodes the entries of one archive on a bounded worker pool and
// reports them in archive order.
package classrefs
