package bootbanner

import (
	"bytes"
	"errors"
	"io"
	"io/fs"
	"testing/fstest"
)

// dummyBanner is a caller-supplied banner.
type dummyBanner struct {
	text string
}

func (b *dummyBanner) PrintBanner(_ *Environment, _ fs.FS, out io.Writer) error {
	_, err := io.WriteString(out, b.text+"\n")
	return err
}

// failingBanner fails to render.
type failingBanner struct{}

func (failingBanner) PrintBanner(*Environment, fs.FS, io.Writer) error {
	return errors.New("render exploded")
}

// brokenWriter rejects every write.
type brokenWriter struct{}

func (brokenWriter) Write([]byte) (int, error) { return 0, io.ErrClosedPipe }

// shortWriter accepts only part of each write without reporting an error.
type shortWriter struct{}

func (shortWriter) Write(p []byte) (int, error) { return len(p) / 2, nil }

// emptyEnv returns an environment with no properties.
func emptyEnv() *Environment {
	return NewEnvironment()
}

// envWith returns an environment with a single source.
func envWith(props map[string]any) *Environment {
	return NewEnvironment(PropertySource{Name: "test", Properties: props})
}

// captureLog returns a JSON log channel writing into a buffer.
func captureLog() (*LogChannel, *bytes.Buffer) {
	var buf bytes.Buffer
	return NewLogChannel(&buf, LoggingConfig{Level: "info", Format: "json"}), &buf
}

// testResources returns an in-memory resources filesystem.
func testResources(files map[string]string) fs.FS {
	m := fstest.MapFS{}
	for name, content := range files {
		m[name] = &fstest.MapFile{Data: []byte(content)}
	}
	return m
}
