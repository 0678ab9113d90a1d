package scan

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"

	"github.com/gobwas/glob"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/wippyai/classrefs/classfile"
	"github.com/wippyai/classrefs/errors"
)

// DefaultExtension selects the archive entries that are decoded.
const DefaultExtension = ".class"

// Options configures a scan. The zero value decodes ".class" entries on
// GOMAXPROCS workers with the default extraction options.
type Options struct {
	Extension string
	// Include restricts decoding to entries matching at least one glob
	// pattern. '*' does not cross '/'; '**' does.
	Include []string
	Extract classfile.ExtractOptions
	Workers int
	// OnArchive is called by Run after each path, whether or not it failed.
	OnArchive func(path string)
}

// Validate reports the first include pattern that does not compile.
func (o Options) Validate() error {
	_, err := o.matcher()
	return err
}

func (o Options) extension() string {
	if o.Extension == "" {
		return DefaultExtension
	}
	return o.Extension
}

func (o Options) archiveDone(path string) {
	if o.OnArchive != nil {
		o.OnArchive(path)
	}
}

func (o Options) workers() int {
	if o.Workers <= 0 {
		return runtime.GOMAXPROCS(0)
	}
	return o.Workers
}

type matcher struct {
	extension string
	include   []glob.Glob
}

func (o Options) matcher() (*matcher, error) {
	m := &matcher{extension: o.extension()}
	for _, pattern := range o.Include {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, errors.Wrap(errors.PhaseScan, errors.KindInvalidInput, err, "include pattern "+strconv.Quote(pattern))
		}
		m.include = append(m.include, g)
	}
	return m, nil
}

func (m *matcher) match(name string) bool {
	if !strings.HasSuffix(name, m.extension) {
		return false
	}
	if len(m.include) == 0 {
		return true
	}
	for _, g := range m.include {
		if g.Match(name) {
			return true
		}
	}
	return false
}

// Item is the outcome of decoding one archive entry. Exactly one of Refs
// and Err is set.
type Item struct {
	Err     error
	Refs    *classfile.References
	Archive string
	Name    string
}

// Stats summarizes a Run.
type Stats struct {
	Archives       int
	FailedArchives int
	Items          int
	FailedItems    int
}

// Failed reports whether any archive or item failed.
func (s Stats) Failed() bool {
	return s.FailedArchives > 0 || s.FailedItems > 0
}

// DecodeItem decodes one descriptor and extracts its references.
func DecodeItem(archive, name string, data []byte, opts classfile.ExtractOptions) Item {
	item := Item{Archive: archive, Name: name}

	d, err := classfile.Decode(data)
	if err != nil {
		item.Err = fmt.Errorf("decode %s: %w", name, err)
		return item
	}

	refs, err := classfile.Extract(d, opts)
	if err != nil {
		item.Err = fmt.Errorf("parent of %s: %w", name, err)
		return item
	}
	for _, skipped := range refs.Skipped {
		Logger().Debug("unresolved class entry",
			zap.String("archive", archive),
			zap.String("item", name),
			zap.Error(skipped))
	}

	item.Refs = refs
	return item
}

// Archive decodes every matching entry of the container at path. A path
// ending in the extension itself is decoded as a single item and is not
// subject to the include patterns. Items are
// returned in archive order; per-item failures are carried in Item.Err and
// only failures to open or read the container are returned as an error.
func Archive(ctx context.Context, path string, opts Options) ([]Item, error) {
	if strings.HasSuffix(path, opts.extension()) {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrap(errors.PhaseScan, errors.KindNotFound, err, "read "+path)
		}
		return []Item{DecodeItem(path, path, data, opts.Extract)}, nil
	}

	m, err := opts.matcher()
	if err != nil {
		return nil, err
	}

	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseScan, errors.KindInvalidInput, err, "unzipping "+path)
	}
	defer zr.Close()

	var files []*zip.File
	for _, f := range zr.File {
		if m.match(f.Name) {
			files = append(files, f)
		}
	}

	items := make([]Item, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.workers())
	for i, f := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			data, err := readFile(f)
			if err != nil {
				items[i] = Item{Archive: path, Name: f.Name, Err: fmt.Errorf("opening item %d: %w", i, err)}
				return nil
			}
			items[i] = DecodeItem(path, f.Name, data, opts.Extract)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return items, nil
}

func readFile(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	var buf bytes.Buffer
	buf.Grow(int(min(f.UncompressedSize64, 1<<20)))
	if _, err := buf.ReadFrom(rc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Run scans every path in order and passes each item to emit. Failed
// items and unreadable archives are logged and counted; they never stop
// the scan. Only an emit error or context cancellation ends it early.
func Run(ctx context.Context, paths []string, opts Options, emit func(Item) error) (Stats, error) {
	var stats Stats
	log := Logger()

	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		stats.Archives++

		items, err := Archive(ctx, path, opts)
		if err != nil {
			if ctx.Err() != nil {
				return stats, ctx.Err()
			}
			stats.FailedArchives++
			log.Error("archive failed", zap.String("archive", path), zap.Error(err))
			opts.archiveDone(path)
			continue
		}

		failed := 0
		for _, item := range items {
			stats.Items++
			if item.Err != nil {
				failed++
				log.Error("item failed",
					zap.String("archive", item.Archive),
					zap.String("item", item.Name),
					zap.Error(item.Err))
				continue
			}
			if err := emit(item); err != nil {
				return stats, err
			}
		}
		stats.FailedItems += failed
		log.Debug("archive scanned",
			zap.String("archive", path),
			zap.Int("items", len(items)),
			zap.Int("failed", failed))
		opts.archiveDone(path)
	}

	return stats, nil
}
