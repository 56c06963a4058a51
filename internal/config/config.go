// Package config discovers, loads and decodes sketch configuration files.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/roach88/sketch/internal/collection"
	"github.com/roach88/sketch/internal/dialect"
	"github.com/roach88/sketch/internal/preset"
	"github.com/roach88/sketch/internal/schema"
	"github.com/roach88/sketch/internal/tree"
)

// AppName names the user configuration directory and the config files.
const AppName = "sketch"

// Names are the config file names tried in each search directory, in order.
var Names = []string{"sketch.yaml", "sketch.yml", "sketch.toml", "sketch.json", "sketch.cue"}

// Config is a decoded configuration file.
type Config struct {
	TemplatesDir string                                `json:"templates_dir" alias:"templates-dir"`
	NoOverwrite  bool                                  `json:"no_overwrite" alias:"no-overwrite"`
	Vars         *tree.Object                          `json:"vars"`
	People       collection.OrderedMap[dialect.Person] `json:"people"`
	NPM          NPM                                   `json:"npm"`
	Templates    collection.OrderedMap[Template]       `json:"templates"`
	Presets      collection.OrderedMap[*tree.Object]   `json:"presets"`
}

// NPM configures version pinning.
type NPM struct {
	VersionRange string   `json:"version_range" alias:"version-range" default:"^"`
	Registry     string   `json:"registry"`
	Timeout      Duration `json:"timeout" default:"10s"`
	Cache        string   `json:"cache"`
	CacheTTL     Duration `json:"cache_ttl" alias:"cache-ttl" default:"24h"`
	Concurrency  int64    `json:"concurrency" default:"8"`
}

// Template is a named template: inline content or a file under the
// templates directory, with an optional default output path.
type Template struct {
	Content string       `json:"content"`
	File    string       `json:"file"`
	Output  string       `json:"output"`
	Vars    *tree.Object `json:"vars"`
}

// Duration is a time.Duration written as a Go duration string, or as a
// number of seconds.
type Duration time.Duration

func (d *Duration) DecodeTree(v tree.Value, path tree.Path) error {
	switch val := v.(type) {
	case tree.Int:
		*d = Duration(time.Duration(val) * time.Second)
	case tree.Float:
		*d = Duration(float64(val) * float64(time.Second))
	case tree.String:
		parsed, err := time.ParseDuration(string(val))
		if err != nil {
			return schema.Errorf(path, "invalid duration %q", string(val))
		}
		*d = Duration(parsed)
	default:
		return schema.TypeError(path, "duration", v)
	}
	return nil
}

func (d Duration) EncodeTree() (tree.Value, error) {
	return tree.String(time.Duration(d).String()), nil
}

// File is a loaded configuration with its source document.
type File struct {
	// Path is empty for the built-in configuration.
	Path   string
	Doc    *tree.Document
	Config Config
}

// Source returns the raw presets of one dialect for a preset store.
func (f *File) Source(tag string) preset.Source {
	presets, _ := f.Config.Presets.Get(tag)
	return preset.Source{
		Presets: presets,
		Doc:     f.Doc,
		Base:    tree.Path{}.Key("presets").Key(tag),
	}
}

// People returns the people registry keyed by id.
func (f *File) People() map[string]dialect.Person {
	people := make(map[string]dialect.Person, f.Config.People.Len())
	for id, p := range f.Config.People.All() {
		people[id] = p
	}
	return people
}

// Empty returns the built-in configuration used with --ignore-config.
func Empty() *File {
	return &File{Config: schema.Default[Config]()}
}

// ErrNotFound is returned by Discover when no configuration file exists.
var ErrNotFound = errors.New("no configuration file found")

// Discover returns the first configuration file found in dir, then in the
// user configuration directory. userDir may be empty.
func Discover(dir, userDir string) (string, error) {
	dirs := []string{dir}
	if userDir != "" {
		dirs = append(dirs, filepath.Join(userDir, AppName))
	}
	for _, d := range dirs {
		for _, name := range Names {
			candidate := filepath.Join(d, name)
			info, err := os.Stat(candidate)
			if err == nil && !info.IsDir() {
				return candidate, nil
			}
		}
	}
	return "", ErrNotFound
}

// Load reads and decodes the configuration file at path.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return Parse(data, path)
}

// Parse decodes configuration data; the syntax comes from path's extension.
func Parse(data []byte, path string) (*File, error) {
	syntax, err := tree.SyntaxForPath(path)
	if err != nil {
		return nil, err
	}
	doc, err := tree.Parse(data, syntax, path)
	if err != nil {
		return nil, err
	}
	cfg := schema.Default[Config]()
	if err := schema.Decode(doc.Root, &cfg, nil); err != nil {
		return nil, schema.Locate(err, doc, nil)
	}
	return &File{Path: path, Doc: doc, Config: cfg}, nil
}
