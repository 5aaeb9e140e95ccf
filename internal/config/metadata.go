package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"adaptik/pkg/adaptive"
)

// LoadRunMetadata reads a run metadata file. The format follows the file
// extension: .json parses as JSON, everything else as YAML. Unknown keys
// and multi-document files are rejected.
func LoadRunMetadata(path string) (*adaptive.RunMetadata, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read metadata: %w", err)
	}
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".json" {
		return parseJSONMetadata(data)
	}
	return parseYAMLMetadata(data)
}

func parseJSONMetadata(data []byte) (*adaptive.RunMetadata, error) {
	var metadata adaptive.RunMetadata
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&metadata); err != nil {
		return nil, fmt.Errorf("parse json: %w", err)
	}
	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		if err == nil {
			return nil, fmt.Errorf("parse json: multiple documents are not supported")
		}
		return nil, fmt.Errorf("parse json: %w", err)
	}
	return &metadata, nil
}

func parseYAMLMetadata(data []byte) (*adaptive.RunMetadata, error) {
	var metadata adaptive.RunMetadata
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&metadata); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		if err == nil {
			return nil, fmt.Errorf("parse yaml: multiple documents are not supported")
		}
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	return &metadata, nil
}
