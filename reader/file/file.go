// Package file reads conversations exported to disk, either as the API
// payload, a bare JSON array of messages, or JSONL.
package file

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sonnes/bellhop/core"
	"github.com/sonnes/bellhop/reader"
)

// maxLineSize is the maximum JSONL line size (1 MB). Function-call outputs
// can exceed the default 64 KB bufio.Scanner buffer.
const maxLineSize = 1 << 20

// ErrNotFound is returned when no export exists for a conversation ID.
var ErrNotFound = errors.New("conversation file not found")

// Reader reads conversation exports from a directory.
type Reader struct {
	// Dir holds <id>.json or <id>.jsonl files. Defaults to the working directory.
	Dir string
}

var _ reader.Reader = (*Reader)(nil)

// ReadConversation locates <Dir>/<id>.json or <Dir>/<id>.jsonl and parses it.
func (r *Reader) ReadConversation(ctx context.Context, id string) (*core.Conversation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	for _, ext := range []string{".json", ".jsonl"} {
		path := filepath.Join(r.dir(), id+ext)
		if _, err := os.Stat(path); err == nil {
			return r.readFile(path, id)
		}
	}
	return nil, fmt.Errorf("%s: %w", id, ErrNotFound)
}

// ReadFile parses a single export. The conversation ID is the file name
// without its extension.
func (r *Reader) ReadFile(path string) (*core.Conversation, error) {
	id := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return r.readFile(path, id)
}

// List returns the conversation IDs available in Dir, sorted by name.
func (r *Reader) List() ([]string, error) {
	entries, err := os.ReadDir(r.dir())
	if err != nil {
		return nil, fmt.Errorf("read conversation directory: %w", err)
	}

	var ids []string
	seen := make(map[string]bool)
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := filepath.Ext(e.Name())
		if ext != ".json" && ext != ".jsonl" {
			continue
		}
		id := strings.TrimSuffix(e.Name(), ext)
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (r *Reader) dir() string {
	if r.Dir != "" {
		return r.Dir
	}
	return "."
}

func (r *Reader) readFile(path, id string) (*core.Conversation, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("open conversation file: %w", err)
	}

	raws, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}

	conv := reader.BuildConversation(id, raws)
	if info, err := os.Stat(path); err == nil {
		conv.FetchedAt = info.ModTime()
	}
	return conv, nil
}

// Parse decodes an export in any supported layout.
func Parse(data []byte) ([]reader.RawMessage, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, nil
	}

	switch trimmed[0] {
	case '[':
		var raws []reader.RawMessage
		if err := json.Unmarshal(trimmed, &raws); err != nil {
			return nil, fmt.Errorf("decode message array: %w", err)
		}
		return raws, nil
	case '{':
		var payload reader.Payload
		if err := json.Unmarshal(trimmed, &payload); err == nil && payload.Data != nil {
			return payload.Data, nil
		}
		return scanLines(bytes.NewReader(trimmed))
	default:
		return nil, fmt.Errorf("unrecognized export format")
	}
}

// scanLines reads one message per line, skipping blank and malformed lines.
func scanLines(r io.Reader) ([]reader.RawMessage, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, maxLineSize), maxLineSize)

	var raws []reader.RawMessage
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var raw reader.RawMessage
		if err := json.Unmarshal(line, &raw); err != nil {
			continue
		}
		if raw.Role == "" {
			continue
		}
		raws = append(raws, raw)
	}
	return raws, scanner.Err()
}
