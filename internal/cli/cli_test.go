package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/sammcj/mdquotes/internal/config"
	"github.com/sammcj/mdquotes/internal/converter"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRunner(stdin string) (*Runner, *bytes.Buffer) {
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)

	var stdout bytes.Buffer
	r := NewRunner(logger, config.Default(), strings.NewReader(stdin), &stdout)
	return r, &stdout
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestRun_StdinToStdout(t *testing.T) {
	r, stdout := newTestRunner(`He said "hello"`)

	err := r.Run([]string{"-"}, Options{Direction: converter.DirectionCurl})
	require.NoError(t, err)
	assert.Equal(t, "He said “hello”\n", stdout.String())
}

func TestRun_DevStdinAlias(t *testing.T) {
	r, stdout := newTestRunner("don't")

	err := r.Run([]string{"/dev/stdin"}, Options{Direction: converter.DirectionCurl})
	require.NoError(t, err)
	assert.Equal(t, "don’t\n", stdout.String())
}

func TestRun_FileToStdout(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "post.md", `say "hi"`)
	r, stdout := newTestRunner("")

	err := r.Run([]string{path}, Options{Direction: converter.DirectionCurl})
	require.NoError(t, err)
	assert.Equal(t, "say “hi”\n", stdout.String())

	// Source file is untouched without --inplace.
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, `say "hi"`, string(data))
}

func TestRun_InPlace(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "post.md", `say "hi"`)
	r, stdout := newTestRunner("")

	err := r.Run([]string{path}, Options{Direction: converter.DirectionCurl, InPlace: true})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "say “hi”", string(data))
	assert.Contains(t, stdout.String(), "Converted: "+path)
}

func TestRun_InPlaceNoChangesLeavesFileAlone(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "post.md", "already “curly”")
	r, stdout := newTestRunner("")

	err := r.Run([]string{path}, Options{Direction: converter.DirectionCurl, InPlace: true})
	require.NoError(t, err)
	assert.Empty(t, stdout.String())
}

func TestRun_InPlaceWithStdinIsAnError(t *testing.T) {
	r, _ := newTestRunner("text")

	err := r.Run([]string{"-"}, Options{Direction: converter.DirectionCurl, InPlace: true})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot use --inplace with stdin")
}

func TestRun_CheckModeNeedsConversion(t *testing.T) {
	color.NoColor = true
	dir := t.TempDir()
	path := writeFile(t, dir, "post.md", `straight "quotes"`)
	r, stdout := newTestRunner("")

	err := r.Run([]string{path}, Options{Direction: converter.DirectionCurl, Check: true})
	require.ErrorIs(t, err, ErrNeedsConversion)
	assert.Contains(t, stdout.String(), path+": needs conversion")

	// Check mode never writes.
	data, readErr := os.ReadFile(path)
	require.NoError(t, readErr)
	assert.Equal(t, `straight "quotes"`, string(data))
}

func TestRun_CheckModeOK(t *testing.T) {
	color.NoColor = true
	dir := t.TempDir()
	path := writeFile(t, dir, "post.md", "curly “quotes”")
	r, stdout := newTestRunner("")

	err := r.Run([]string{path}, Options{Direction: converter.DirectionCurl, Check: true})
	require.NoError(t, err)
	assert.Contains(t, stdout.String(), path+": ok")
}

func TestRun_CheckModeStdin(t *testing.T) {
	color.NoColor = true
	r, stdout := newTestRunner(`straight "quotes"`)

	err := r.Run([]string{"-"}, Options{Direction: converter.DirectionCurl, Check: true})
	require.ErrorIs(t, err, ErrNeedsConversion)
	assert.Contains(t, stdout.String(), "<stdin>: needs conversion")
}

func TestRun_FileNotFound(t *testing.T) {
	r, _ := newTestRunner("")

	err := r.Run([]string{"/nonexistent/path.md"}, Options{Direction: converter.DirectionCurl})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "file not found")
}

func TestRun_NoPaths(t *testing.T) {
	r, _ := newTestRunner("")

	err := r.Run(nil, Options{Direction: converter.DirectionCurl})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no input specified")
}

func TestRun_Straighten(t *testing.T) {
	r, stdout := newTestRunner("curly “quotes” and ‘ones’")

	err := r.Run([]string{"-"}, Options{Direction: converter.DirectionStraighten})
	require.NoError(t, err)
	assert.Equal(t, "curly \"quotes\" and 'ones'\n", stdout.String())
}

func TestExpandPaths_Directory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.md", "x")
	writeFile(t, dir, "sub/b.markdown", "x")
	writeFile(t, dir, "sub/c.txt", "x")
	writeFile(t, dir, "node_modules/pkg/d.md", "x")

	r, _ := newTestRunner("")
	files, useStdin, err := r.ExpandPaths([]string{dir})
	require.NoError(t, err)
	assert.False(t, useStdin)

	rels := make([]string, len(files))
	for i, f := range files {
		rel, relErr := filepath.Rel(dir, f)
		require.NoError(t, relErr)
		rels[i] = rel
	}
	assert.Equal(t, []string{"a.md", filepath.Join("sub", "b.markdown")}, rels)
}

func TestExpandPaths_MixedFileAndStdin(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.md", "x")

	r, _ := newTestRunner("")
	files, useStdin, err := r.ExpandPaths([]string{"-", path})
	require.NoError(t, err)
	assert.True(t, useStdin)
	assert.Equal(t, []string{path}, files)
}

func TestWatch_RequiresInPlace(t *testing.T) {
	r, _ := newTestRunner("")

	err := r.Watch(context.Background(), []string{"a.md"}, Options{Direction: converter.DirectionCurl})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--watch requires --inplace")
}

func TestWatch_NoFiles(t *testing.T) {
	r, _ := newTestRunner("")

	err := r.Watch(context.Background(), nil, Options{Direction: converter.DirectionCurl, InPlace: true})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no files to watch")
}

func TestWatch_StopsOnContextCancel(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.md", "x")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r, _ := newTestRunner("")
	err := r.Watch(ctx, []string{path}, Options{Direction: converter.DirectionCurl, InPlace: true})
	require.NoError(t, err)
}
