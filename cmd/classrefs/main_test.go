package main

import (
	"archive/zip"
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wippyai/classrefs/classfile"
	"github.com/wippyai/classrefs/scan"
)

func classBytes(self, parent string, refs ...string) []byte {
	entries := []classfile.Entry{
		classfile.Utf8(self), classfile.ClassRef(1),
		classfile.Utf8(parent), classfile.ClassRef(3),
	}
	for _, r := range refs {
		entries = append(entries, classfile.Utf8(r), classfile.ClassRef(uint16(len(entries)+1)))
	}
	return (&classfile.ClassFile{
		Symbols:    classfile.NewSymbolTable(entries...),
		ThisIndex:  2,
		SuperIndex: 4,
	}).Encode()
}

func writeJar(t *testing.T, files map[string][]byte, order ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "lib.jar")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	zw := zip.NewWriter(f)
	for _, name := range order {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write(files[name])
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(append([]string{}, args...))
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func sampleJar(t *testing.T) string {
	return writeJar(t, map[string][]byte{
		"p/A.class":   classBytes("p/A", "p/Base", "p/Zed", "java/util/List"),
		"p/Bad.class": {0xca, 0xfe, 0xba, 0xbe},
		"README":      []byte("hello"),
	}, "p/A.class", "p/Bad.class", "README")
}

func TestRootCmd_PrintsReferences(t *testing.T) {
	jar := sampleJar(t)

	out, err := execute(t, jar)
	require.NoError(t, err)
	assert.Equal(t, `"`+jar+"\"\t\"p/A.class\"\tp/Base\tp/A\tp/Zed\tjava/util/List\n", out)
}

func TestRootCmd_Flags(t *testing.T) {
	jar := sampleJar(t)

	out, err := execute(t, "--quote=false", "--parent-only", jar)
	require.NoError(t, err)
	assert.Equal(t, jar+"\tp/A.class\tp/Base\t\n", out)

	out, err = execute(t, "--quote=false", "--exclude-self", jar)
	require.NoError(t, err)
	assert.Equal(t, jar+"\tp/A.class\tp/Base\tp/Zed\tjava/util/List\n", out)

	out, err = execute(t, "--quote=false", "--parent-only", "--include", "q/**", jar)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestRootCmd_Progress(t *testing.T) {
	jar := sampleJar(t)

	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs([]string{"--progress", "--quote=false", "--parent-only", jar})
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	require.NoError(t, cmd.ExecuteContext(context.Background()))

	assert.Equal(t, jar+"\tp/A.class\tp/Base\t\n", out.String())
	assert.Contains(t, errOut.String(), "Scanning archives")
}

func TestRootCmd_FailOnError(t *testing.T) {
	jar := sampleJar(t)

	_, err := execute(t, "--fail-on-error", jar)
	require.ErrorIs(t, err, errFailures)
	assert.Contains(t, err.Error(), "1 of 2 entries")

	_, err = execute(t, jar, filepath.Join(t.TempDir(), "missing.jar"))
	assert.NoError(t, err)
}

func TestRootCmd_RequiresArchive(t *testing.T) {
	_, err := execute(t)
	assert.Error(t, err)
}

func TestLoadConfig_Sources(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "classrefs.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("workers: 3\nparent_policy: optional\nquote: false\n"), 0o644))
	t.Setenv("CLASSREFS_EXTENSION", ".bin")

	cmd := newRootCmd()
	require.NoError(t, cmd.ParseFlags([]string{"--config", cfgPath, "--workers", "7"}))

	cfg, err := loadConfig(cmd)
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Workers, "flag beats config file")
	assert.Equal(t, ".bin", cfg.Extension, "environment beats default")
	assert.Equal(t, "optional", cfg.ParentPolicy)
	assert.False(t, cfg.Quote)
	assert.Equal(t, "error", cfg.LogLevel)

	opts := cfg.ScanOptions()
	assert.Equal(t, classfile.ParentOptional, opts.Extract.Policy)
	assert.Equal(t, ".bin", opts.Extension)
	assert.Equal(t, 7, opts.Workers)
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"policy", []string{"--parent-policy", "sometimes"}},
		{"log level", []string{"--log-level", "loud"}},
		{"extension", []string{"--extension", ""}},
		{"config file", []string{"--config", "/nonexistent/classrefs.yaml"}},
		{"include", []string{"--include", "p/[A"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := newRootCmd()
			require.NoError(t, cmd.ParseFlags(tt.args))
			_, err := loadConfig(cmd)
			assert.Error(t, err)
		})
	}
}

func TestConfig_NewLogger(t *testing.T) {
	cfg := &Config{LogLevel: "debug"}
	log, err := cfg.NewLogger()
	require.NoError(t, err)
	assert.True(t, log.Core().Enabled(-1))
}

func TestBrowseModel(t *testing.T) {
	jar := sampleJar(t)
	m := newBrowseModel(context.Background(), jar, scan.Options{})

	assert.Contains(t, m.View(), "Loading")

	msg := m.Init()()
	m.Update(msg)
	view := m.View()
	assert.Contains(t, view, "2 of 2 classes")
	assert.Contains(t, view, "p/A.class")
	assert.Contains(t, view, "(failed)")

	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Contains(t, m.View(), "p/Base")
	assert.Contains(t, m.View(), "3 referenced types")

	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Contains(t, m.View(), "truncated")
}

func TestBrowseModel_Filter(t *testing.T) {
	jar := sampleJar(t)
	m := newBrowseModel(context.Background(), jar, scan.Options{})
	m.Update(m.Init()())

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'/'}})
	for _, r := range "bad" {
		m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.Contains(t, m.View(), "1 of 2 classes")
	item, ok := m.current()
	require.True(t, ok)
	assert.Equal(t, "p/Bad.class", item.Name)
}

func TestBrowseModel_LoadError(t *testing.T) {
	m := newBrowseModel(context.Background(), filepath.Join(t.TempDir(), "missing.jar"), scan.Options{})
	m.Update(m.Init()())
	assert.Contains(t, m.View(), "Error")
}
