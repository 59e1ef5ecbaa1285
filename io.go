// File: lixenwraith/iniconf/io.go
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Parse reads the bound file and replaces the document. A missing file leaves
// an empty document and returns ErrConfigNotFound, which callers may ignore.
func (c *Config) Parse() error {
	path := c.Path()
	if path == "" {
		return fmt.Errorf("%w: no file path bound", ErrInvalidArgument)
	}
	return c.parseFile(path)
}

// ParseFile binds path and parses it like Parse.
func (c *Config) ParseFile(path string) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return fmt.Errorf("%w: file path cannot be empty", ErrInvalidArgument)
	}
	c.SetPath(path)
	return c.parseFile(path)
}

// ParseString replaces the document with the parsed text. Lines are split on
// line feeds only.
func (c *Config) ParseString(text string) error {
	c.replace(ParseDocument(splitLines(text), c.defaultSection), "string")
	return nil
}

// ParseLines replaces the document with already split lines.
func (c *Config) ParseLines(lines []string) error {
	if lines == nil {
		return fmt.Errorf("%w: lines cannot be nil", ErrInvalidArgument)
	}
	c.replace(ParseDocument(lines, c.defaultSection), "lines")
	return nil
}

// ParseReader reads r to the end and replaces the document.
func (c *Config) ParseReader(r io.Reader) error {
	if r == nil {
		return fmt.Errorf("%w: reader cannot be nil", ErrInvalidArgument)
	}
	data, err := c.readAll(r)
	if err != nil {
		return fmt.Errorf("failed to read configuration: %w", err)
	}
	c.replace(ParseDocument(splitLines(string(data)), c.defaultSection), "reader")
	return nil
}

// parseFile reads and parses an INI file
func (c *Config) parseFile(path string) error {
	fileInfo, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			c.replace(NewDocument(c.defaultSection), path)
			c.logger.Debug().Str("path", path).Msg("Configuration file not found, using empty document")
			return fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return fmt.Errorf("failed to stat config file '%s': %w", path, err)
	}
	if fileInfo.IsDir() {
		return fmt.Errorf("%w: '%s' is a directory", ErrInvalidArgument, path)
	}

	if c.maxFileSize > 0 && fileInfo.Size() > c.maxFileSize {
		return fmt.Errorf("config file '%s' exceeds maximum size %d bytes", path, c.maxFileSize)
	}

	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open config file '%s': %w", path, err)
	}
	defer file.Close()

	data, err := c.readAll(file)
	if err != nil {
		return fmt.Errorf("failed to read config file '%s': %w", path, err)
	}

	c.replace(ParseDocument(splitLines(string(data)), c.defaultSection), path)
	return nil
}

// readAll reads r whole. Input longer than the configured size cap is an
// error; it is never parsed truncated.
func (c *Config) readAll(r io.Reader) ([]byte, error) {
	if c.maxFileSize <= 0 {
		return io.ReadAll(r)
	}
	data, err := io.ReadAll(io.LimitReader(r, c.maxFileSize+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > c.maxFileSize {
		return nil, fmt.Errorf("input exceeds maximum size %d bytes", c.maxFileSize)
	}
	return data, nil
}

// replace swaps in a freshly parsed document.
func (c *Config) replace(doc *Document, origin string) {
	c.mutex.Lock()
	c.doc = doc
	c.mutex.Unlock()

	event := c.logger.Debug().Str("origin", origin).Int("elements", doc.Len())
	if dropped := doc.DroppedLines(); len(dropped) > 0 {
		event = event.Ints("dropped_lines", dropped)
	}
	event.Msg("Parsed configuration")
}

// Write serializes the full document to path, or to the bound path when path
// is empty. With overwrite the file is replaced atomically; without it an
// existing file fails with ErrWrite and ErrFileExists. An empty document is
// still written, leaving an empty file rather than the previous contents.
func (c *Config) Write(path string, overwrite bool) error {
	path = strings.TrimSpace(path)
	if path == "" {
		path = c.Path()
	}
	if path == "" {
		return fmt.Errorf("%w: no file path to write to", ErrInvalidArgument)
	}

	c.mutex.RLock()
	var buf bytes.Buffer
	_, _ = c.doc.WriteTo(&buf)
	c.mutex.RUnlock()

	var err error
	if overwrite {
		err = atomicWriteFile(path, buf.Bytes())
	} else {
		err = exclusiveWriteFile(path, buf.Bytes())
	}
	if err != nil {
		c.logger.Warn().Err(err).Str("path", path).Msg("Failed to write configuration")
		return err
	}

	c.logger.Debug().Str("path", path).Int("bytes", buf.Len()).Bool("overwrite", overwrite).Msg("Wrote configuration")
	return nil
}

// Save writes the document back to the bound path, replacing the file.
func (c *Config) Save() error {
	return c.Write("", true)
}

// WriteTo serializes the document to w.
func (c *Config) WriteTo(w io.Writer) (int64, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	n, err := c.doc.WriteTo(w)
	if err != nil {
		return n, fmt.Errorf("%w: %w", ErrWrite, err)
	}
	return n, nil
}

// String renders the document in INI form.
func (c *Config) String() string {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return c.doc.String()
}

// atomicWriteFile performs atomic file write
func atomicWriteFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("%w: failed to create directory '%s': %w", ErrWrite, dir, err)
	}

	tempFile, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w: failed to create temporary file: %w", ErrWrite, err)
	}

	tempPath := tempFile.Name()
	defer os.Remove(tempPath) // Clean up on any error

	if _, err := tempFile.Write(data); err != nil {
		tempFile.Close()
		return fmt.Errorf("%w: failed to write temporary file: %w", ErrWrite, err)
	}

	if err := tempFile.Sync(); err != nil {
		tempFile.Close()
		return fmt.Errorf("%w: failed to sync temporary file: %w", ErrWrite, err)
	}

	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("%w: failed to close temporary file: %w", ErrWrite, err)
	}

	if err := os.Chmod(tempPath, 0644); err != nil {
		return fmt.Errorf("%w: failed to set permissions: %w", ErrWrite, err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		return fmt.Errorf("%w: failed to rename temporary file: %w", ErrWrite, err)
	}

	return nil
}

// exclusiveWriteFile creates path and fails if it already exists
func exclusiveWriteFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("%w: failed to create directory '%s': %w", ErrWrite, dir, err)
	}

	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return fmt.Errorf("%w: %w: %s", ErrWrite, ErrFileExists, path)
		}
		return fmt.Errorf("%w: failed to create '%s': %w", ErrWrite, path, err)
	}

	if _, err := file.Write(data); err != nil {
		file.Close()
		return fmt.Errorf("%w: failed to write '%s': %w", ErrWrite, path, err)
	}

	if err := file.Close(); err != nil {
		return fmt.Errorf("%w: failed to close '%s': %w", ErrWrite, path, err)
	}

	return nil
}

// splitLines splits on line feeds only; a trailing carriage return stays on
// the line and is removed by the per-rule trimming.
func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}
