// Package scan enumerates class files inside zip or jar containers,
// decodes them concurrently and reports each one's parent and referenced
// type names.
//
// Every entry is independent: a malformed entry is reported through its
// Item and logged, and scanning continues with its siblings and with the
// remaining containers.
//
//	w := scan.NewWriter(os.Stdout)
//	stats, err := scan.Run(ctx, paths, scan.Options{}, w.Write)
//	w.Flush()
package scan
