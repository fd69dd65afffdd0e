package capture

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported capture format")
	ErrEmptyCapture      = errors.New("capture contains no exchanges")
	ErrIndexOutOfRange   = errors.New("exchange index out of range")
	ErrInvalidSelection  = errors.New("invalid selection")
)

type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatHAR  Format = "har"
)

// FormatFromPath picks the format from the file extension, defaulting to JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".har":
		return FormatHAR
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Load reads a capture file. The format follows the extension; JSON files
// may hold an array of recordings, a single recording or a HAR document.
func Load(path string) ([]Recording, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read capture: %w", err)
	}

	recs, err := Parse(data, FormatFromPath(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return recs, nil
}

// Parse decodes capture data in the given format.
func Parse(data []byte, format Format) ([]Recording, error) {
	var (
		recs []Recording
		err  error
	)
	switch format {
	case FormatHAR:
		recs, err = parseHAR(data)
	case FormatYAML:
		recs, err = parseYAML(data)
	case FormatJSON:
		recs, err = parseJSON(data)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, ErrEmptyCapture
	}
	return recs, nil
}

func parseHAR(data []byte) ([]Recording, error) {
	var har harFile
	if err := json.Unmarshal(data, &har); err != nil {
		return nil, fmt.Errorf("invalid HAR: %w", err)
	}
	recs := make([]Recording, 0, len(har.Log.Entries))
	for i := range har.Log.Entries {
		recs = append(recs, har.Log.Entries[i].recording())
	}
	return recs, nil
}

func parseJSON(data []byte) ([]Recording, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, nil
	}

	if trimmed[0] == '[' {
		var recs []Recording
		if err := json.Unmarshal(trimmed, &recs); err != nil {
			return nil, fmt.Errorf("invalid JSON capture: %w", err)
		}
		return recs, nil
	}

	var probe map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &probe); err != nil {
		return nil, fmt.Errorf("invalid JSON capture: %w", err)
	}
	if _, ok := probe["log"]; ok {
		return parseHAR(trimmed)
	}

	var rec Recording
	if err := json.Unmarshal(trimmed, &rec); err != nil {
		return nil, fmt.Errorf("invalid JSON capture: %w", err)
	}
	return []Recording{rec}, nil
}

func parseYAML(data []byte) ([]Recording, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, fmt.Errorf("invalid YAML capture: %w", err)
	}
	if len(node.Content) == 0 {
		return nil, nil
	}

	root := node.Content[0]
	switch root.Kind {
	case yaml.SequenceNode:
		var recs []Recording
		if err := root.Decode(&recs); err != nil {
			return nil, fmt.Errorf("invalid YAML capture: %w", err)
		}
		return recs, nil
	case yaml.MappingNode:
		var rec Recording
		if err := root.Decode(&rec); err != nil {
			return nil, fmt.Errorf("invalid YAML capture: %w", err)
		}
		return []Recording{rec}, nil
	}
	return nil, fmt.Errorf("invalid YAML capture: expected a list or a mapping")
}

// Write stores recordings in the format given by the path extension.
func Write(path string, recs []Recording) error {
	data, err := Marshal(recs, FormatFromPath(path))
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func Marshal(recs []Recording, format Format) ([]byte, error) {
	switch format {
	case FormatHAR:
		har := harFile{Log: harLog{
			Version: "1.2",
			Creator: harCreator{Name: "hitcmd", Version: "1"},
			Entries: make([]harEntry, 0, len(recs)),
		}}
		for _, rec := range recs {
			har.Log.Entries = append(har.Log.Entries, toHAREntry(rec))
		}
		return json.MarshalIndent(har, "", "  ")
	case FormatYAML:
		return yaml.Marshal(recs)
	case FormatJSON:
		return json.MarshalIndent(recs, "", "  ")
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
}

// Select returns the recordings at the given indices, in the order asked
// for. No indices selects everything.
func Select(recs []Recording, indices []int) ([]Recording, error) {
	if len(indices) == 0 {
		return recs, nil
	}
	out := make([]Recording, 0, len(indices))
	for _, i := range indices {
		if i < 0 || i >= len(recs) {
			return nil, fmt.Errorf("%w: %d (capture has %d)", ErrIndexOutOfRange, i, len(recs))
		}
		out = append(out, recs[i])
	}
	return out, nil
}

// ParseSelection parses a selection such as "0,2,4-6" into indices of a
// capture holding size recordings. Ranges are inclusive and are checked
// against size before they are expanded.
func ParseSelection(s string, size int) ([]int, error) {
	var out []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		lo, hi, isRange := strings.Cut(part, "-")
		start, err := strconv.Atoi(strings.TrimSpace(lo))
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrInvalidSelection, part)
		}
		end := start
		if isRange {
			end, err = strconv.Atoi(strings.TrimSpace(hi))
			if err != nil || end < start {
				return nil, fmt.Errorf("%w: %q", ErrInvalidSelection, part)
			}
		}
		if end >= size {
			return nil, fmt.Errorf("%w: %d (capture has %d)", ErrIndexOutOfRange, end, size)
		}
		for i := start; i <= end; i++ {
			out = append(out, i)
		}
	}
	return out, nil
}
