package scan

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wippyai/classrefs/classfile"
)

func TestFormatLine(t *testing.T) {
	item := Item{
		Archive: "lib/a b.jar",
		Name:    "p/A.class",
		Refs:    &classfile.References{Parent: "p/Base", Names: []string{"p/B", "p/Long"}},
	}

	assert.Equal(t, "\"lib/a b.jar\"\t\"p/A.class\"\tp/Base\tp/B\tp/Long\n", FormatLine(item, true))
	assert.Equal(t, "lib/a b.jar\tp/A.class\tp/Base\tp/B\tp/Long\n", FormatLine(item, false))
}

func TestFormatLine_NoReferences(t *testing.T) {
	item := Item{
		Archive: "a.jar",
		Name:    "java/lang/Object.class",
		Refs:    &classfile.References{},
	}
	assert.Equal(t, "a.jar\tjava/lang/Object.class\t\t\n", FormatLine(item, false))
}

func TestWriter(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	w.Quote = false

	require.NoError(t, w.Write(Item{Archive: "a.jar", Name: "A.class", Refs: &classfile.References{Parent: "B"}}))
	require.NoError(t, w.Write(Item{Archive: "a.jar", Name: "Bad.class", Err: errors.New("bad")}))
	assert.Empty(t, buf.String(), "output is buffered until Flush")

	require.NoError(t, w.Flush())
	assert.Equal(t, "a.jar\tA.class\tB\t\n", buf.String())
}
