package env

import (
	"errors"
	"os"
	"sort"
	"strings"
)

// Vars resolves variables from a .env file first and the process
// environment second.
type Vars struct {
	file      map[string]string
	lookupEnv func(string) (string, bool)
}

func NewVars(file map[string]string) *Vars {
	if file == nil {
		file = map[string]string{}
	}
	return &Vars{file: file, lookupEnv: os.LookupEnv}
}

// Load reads the .env file at path. An empty path or a missing file yields
// variables backed only by the process environment.
func Load(path string) (*Vars, error) {
	if path == "" {
		return NewVars(nil), nil
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return NewVars(nil), nil
	}
	return LoadDotEnv(path)
}

func (v *Vars) Lookup(name string) (string, bool) {
	if val, ok := v.file[name]; ok {
		return val, true
	}
	return v.lookupEnv(name)
}

// With returns a copy of v in which overrides take precedence over the
// .env file.
func (v *Vars) With(overrides map[string]string) *Vars {
	return &Vars{file: MergeVariables(v.file, overrides), lookupEnv: v.lookupEnv}
}

// FileNames returns the names defined in the .env file, sorted.
func (v *Vars) FileNames() []string {
	names := make([]string, 0, len(v.file))
	for k := range v.file {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

func MergeVariables(sources ...map[string]string) map[string]string {
	result := make(map[string]string)
	for _, src := range sources {
		for k, v := range src {
			result[k] = v
		}
	}
	return result
}

// LoadSystemEnv returns the process variables starting with prefix, with the
// prefix removed.
func LoadSystemEnv(prefix string) map[string]string {
	result := make(map[string]string)
	for _, e := range os.Environ() {
		key, value, found := strings.Cut(e, "=")
		if !found {
			continue
		}
		if prefix == "" {
			result[key] = value
		} else if len(key) > len(prefix) && strings.HasPrefix(key, prefix) {
			result[key[len(prefix):]] = value
		}
	}
	return result
}
