package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"
)

// File is a loaded configuration file: a flat-to-nested map of settings
// read from JSON or YAML.
type File struct {
	path   string
	values map[string]any
}

// Load reads the configuration file at path. Files with a .yaml or .yml
// extension are decoded as YAML, everything else as JSON.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	values := make(map[string]any)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &values); err != nil {
			return nil, fmt.Errorf("config: parsing %s: %w", path, err)
		}
	default:
		if err := json.Unmarshal(data, &values); err != nil {
			return nil, fmt.Errorf("config: parsing %s: %w", path, err)
		}
	}
	return &File{path: path, values: values}, nil
}

// LoadApp loads the conventional per-application configuration file
// `<app>.config.json` from the current working directory.
func LoadApp(app string) (*File, error) {
	return Load(app + ".config.json")
}

// Path returns the path the file was loaded from.
func (f *File) Path() string { return f.path }

// Contains reports whether a configuration item is present.
func (f *File) Contains(name string) bool {
	_, ok := f.values[name]
	return ok
}

// Get returns the raw value of a configuration item.
func (f *File) Get(name string) (any, bool) {
	v, ok := f.values[name]
	return v, ok
}

// Dict wraps the file's settings in a typed validator.
func (f *File) Dict() *Dict {
	return NewDict(f.values)
}

// Watch reloads the file whenever it changes on disk and passes the result
// to fn. A failed reload passes the error instead; watching continues
// either way. The returned stop function releases the watcher.
func (f *File) Watch(fn func(*File, error)) (func() error, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	// Watch the directory, not the file: editors and atomic writers
	// replace the inode.
	dir := filepath.Dir(f.path)
	if err := w.Add(dir); err != nil {
		w.Close()
		return nil, fmt.Errorf("config: watching %s: %w", dir, err)
	}
	name := filepath.Base(f.path)
	go func() {
		for {
			select {
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Base(ev.Name) != name {
					continue
				}
				if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				fn(Load(f.path))
			case _, ok := <-w.Errors:
				if !ok {
					return
				}
			}
		}
	}()
	return w.Close, nil
}
