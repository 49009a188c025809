package model

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// ReadProcess decodes a process model from JSON. The decoded model is
// validated before being returned.
func ReadProcess(r io.Reader) (Process, error) {
	var p Process
	if err := json.NewDecoder(r).Decode(&p); err != nil {
		return Process{}, fmt.Errorf("decode: %w", err)
	}
	if err := p.Validate(); err != nil {
		return Process{}, err
	}
	return p, nil
}

// ReadProcessFile reads and validates a process model from a JSON file.
func ReadProcessFile(path string) (Process, error) {
	f, err := os.Open(path)
	if err != nil {
		return Process{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadProcess(f)
}

// WriteProcess encodes a process model as indented JSON.
func WriteProcess(p Process, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(p); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// WriteProcessFile writes a process model to a JSON file.
// The file is created with 0644 permissions.
func WriteProcessFile(p Process, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteProcess(p, f)
}
