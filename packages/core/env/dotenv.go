package env

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// LoadDotEnv reads the .env file at path into Vars backed by the process
// environment. Nothing is exported to the process environment.
func LoadDotEnv(path string) (*Vars, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open env file: %w", err)
	}
	defer file.Close()

	values, err := ParseDotEnv(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return NewVars(values), nil
}

// ParseDotEnv parses .env assignments:
//
//	KEY=value            # trailing comments are dropped from bare values
//	export KEY=value
//	KEY="line one\nline two"
//	KEY='kept $literally'
//
// Lines without "=" and blank or comment lines are skipped. A later
// assignment of the same key wins.
func ParseDotEnv(r io.Reader) (map[string]string, error) {
	result := make(map[string]string)
	scanner := bufio.NewScanner(r)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		key, value, ok := parseLine(scanner.Text())
		if !ok {
			continue
		}
		result[key] = value
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading env file after line %d: %w", lineNo, err)
	}
	return result, nil
}

func parseLine(line string) (string, string, bool) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return "", "", false
	}

	key, value, found := strings.Cut(line, "=")
	if !found {
		return "", "", false
	}
	key = strings.TrimSpace(key)
	if rest, ok := strings.CutPrefix(key, "export "); ok {
		key = strings.TrimSpace(rest)
	}
	if key == "" {
		return "", "", false
	}
	return key, parseValue(strings.TrimSpace(value)), true
}

func parseValue(value string) string {
	if len(value) >= 2 {
		switch first, last := value[0], value[len(value)-1]; {
		case first == '\'' && last == '\'':
			return value[1 : len(value)-1]
		case first == '"' && last == '"':
			return expandEscapes(value[1 : len(value)-1])
		}
	}
	if i := strings.Index(value, " #"); i >= 0 {
		value = strings.TrimSpace(value[:i])
	}
	return value
}

// expandEscapes handles the escapes allowed in double-quoted values.
func expandEscapes(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	return strings.NewReplacer(`\n`, "\n", `\t`, "\t", `\"`, `"`, `\\`, `\`).Replace(s)
}
