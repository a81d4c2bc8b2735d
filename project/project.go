// Package project reads and writes the manifest describing a Morph project.
package project

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/coreos/pkg/capnslog"
	"github.com/pelletier/go-toml/v2"
	"github.com/ztrue/tracerr"
	"gopkg.in/yaml.v2"
)

var plog = capnslog.NewPackageLogger("github.com/morph-lang/morph", "project")

const (
	YAMLFile = "morph.yaml"
	TOMLFile = "morph.toml"

	// SourceExt is the extension of Morph source files.
	SourceExt = ".morph"
)

type Stage string

const (
	Proto Stage = "proto"
	Solid Stage = "solid"
)

// Manifest describes a project. It is stored as morph.yaml, or as
// morph.toml when the project prefers TOML.
type Manifest struct {
	Package string   `yaml:"package" toml:"package"`
	Entry   string   `yaml:"entry,omitempty" toml:"entry,omitempty"`
	Sources []string `yaml:"sources,omitempty" toml:"sources,omitempty"`
	Stage   Stage    `yaml:"stage,omitempty" toml:"stage,omitempty"`
}

// Default returns the manifest `morph init` writes for name.
func Default(name string) *Manifest {
	return &Manifest{
		Package: sanitize(name),
		Entry:   "main" + SourceExt,
		Sources: []string{"*" + SourceExt},
		Stage:   Proto,
	}
}

func sanitize(name string) string {
	name = strings.ToLower(name)
	name = strings.ReplaceAll(name, " ", "-")

	var b strings.Builder
	for _, r := range name {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "app"
	}
	return b.String()
}

func (m *Manifest) validate() error {
	if m.Package == "" {
		return tracerr.Errorf("manifest has no package name")
	}
	switch m.Stage {
	case "":
		m.Stage = Proto
	case Proto, Solid:
	default:
		return tracerr.Errorf("unknown stage %q, expected %q or %q", m.Stage, Proto, Solid)
	}
	if len(m.Sources) == 0 {
		m.Sources = []string{"*" + SourceExt}
	}
	return nil
}

// Load reads the manifest in dir, preferring morph.yaml over morph.toml.
func Load(dir string) (*Manifest, error) {
	for _, name := range []string{YAMLFile, TOMLFile} {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if os.IsNotExist(err) {
			continue
		} else if err != nil {
			return nil, tracerr.Wrap(err)
		}

		plog.Debugf("loading %s", path)

		var m Manifest
		if name == YAMLFile {
			err = yaml.Unmarshal(data, &m)
		} else {
			err = toml.Unmarshal(data, &m)
		}
		if err != nil {
			return nil, tracerr.Errorf("error reading %s: %s", path, err)
		}
		if err := m.validate(); err != nil {
			return nil, err
		}
		return &m, nil
	}

	return nil, tracerr.Errorf("no %s or %s in %s", YAMLFile, TOMLFile, dir)
}

// Find walks up from start to the nearest directory holding a manifest.
func Find(start string) (string, bool) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", false
	}

	for {
		for _, name := range []string{YAMLFile, TOMLFile} {
			if _, err := os.Stat(filepath.Join(dir, name)); err == nil {
				return dir, true
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

// Save writes m into dir as file, which must be YAMLFile or TOMLFile.
func (m *Manifest) Save(dir, file string) error {
	var (
		data []byte
		err  error
	)
	switch file {
	case YAMLFile:
		data, err = yaml.Marshal(m)
	case TOMLFile:
		data, err = toml.Marshal(m)
	default:
		return tracerr.Errorf("unknown manifest file %s", file)
	}
	if err != nil {
		return tracerr.Wrap(err)
	}

	return tracerr.Wrap(os.WriteFile(filepath.Join(dir, file), data, 0644))
}

// SourceFiles expands the manifest's source globs relative to dir. The entry
// file comes first when it exists; the rest are sorted.
func (m *Manifest) SourceFiles(dir string) ([]string, error) {
	seen := map[string]bool{}
	var files []string

	for _, pattern := range m.Sources {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, tracerr.Errorf("bad source pattern %q: %s", pattern, err)
		}
		for _, match := range matches {
			if !seen[match] {
				seen[match] = true
				files = append(files, match)
			}
		}
	}
	sort.Strings(files)

	if m.Entry != "" {
		entry := filepath.Join(dir, m.Entry)
		for i, f := range files {
			if f == entry {
				files = append([]string{entry}, append(files[:i:i], files[i+1:]...)...)
				break
			}
		}
	}
	return files, nil
}
