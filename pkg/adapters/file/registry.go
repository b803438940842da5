package file

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aretw0/rail/pkg/ports"
	"github.com/fsnotify/fsnotify"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Registry implements ports.ModelStore over a directory of YAML files,
// one model per <name>.yaml file.
type Registry struct {
	BasePath string
}

var (
	_ ports.ModelStore = (*Registry)(nil)
	_ ports.Watchable  = (*Registry)(nil)
)

// New creates a new Registry with the given base path.
// If basePath is empty, it defaults to ".rail/models".
func New(basePath string) *Registry {
	if basePath == "" {
		basePath = filepath.Join(".rail", "models")
	}
	return &Registry{BasePath: basePath}
}

// Lookup reads and decodes <name>.yaml (or .yml).
func (r *Registry) Lookup(ctx context.Context, name string) (*ports.Model, error) {
	if name == "" || strings.ContainsAny(name, `/\`) {
		return nil, fmt.Errorf("%w: invalid name %q", ports.ErrModelNotFound, name)
	}
	for _, ext := range []string{".yaml", ".yml"} {
		data, err := os.ReadFile(filepath.Join(r.BasePath, name+ext))
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("failed to read model file: %w", err)
		}
		m, err := Decode(data)
		if err != nil {
			return nil, fmt.Errorf("model %s: %w", name, err)
		}
		if m.Name == "" {
			m.Name = name
		}
		return m, nil
	}
	return nil, fmt.Errorf("%w: %s", ports.ErrModelNotFound, name)
}

// Decode parses a YAML model definition. Field entries may be written as
// mappings or, for brevity, as "name: type" pairs.
func Decode(data []byte) (*ports.Model, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("invalid yaml: %w", err)
	}
	if fields, ok := raw["fields"].([]any); ok {
		for i, f := range fields {
			short, ok := f.(map[string]any)
			if !ok || len(short) != 1 {
				continue
			}
			for name, typ := range short {
				if s, ok := typ.(string); ok {
					fields[i] = map[string]any{"name": name, "type": s}
				}
			}
		}
	}

	var m ports.Model
	if err := mapstructure.Decode(raw, &m); err != nil {
		return nil, fmt.Errorf("invalid model: %w", err)
	}
	for i, f := range m.Fields {
		if f.Name == "" || f.Type == "" {
			return nil, fmt.Errorf("field %d: name and type are required", i)
		}
	}
	return &m, nil
}

// Save writes the model as YAML atomically.
func (r *Registry) Save(ctx context.Context, m *ports.Model) error {
	if m == nil || m.Name == "" {
		return errors.New("model name is required")
	}
	if err := os.MkdirAll(r.BasePath, 0755); err != nil {
		return fmt.Errorf("failed to ensure model directory: %w", err)
	}

	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to marshal model: %w", err)
	}

	// Same directory so the rename stays on one filesystem.
	tmpFile, err := os.CreateTemp(r.BasePath, "tmp-"+m.Name+"-*.yaml")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	if _, err := tmpFile.Write(data); err != nil {
		return fmt.Errorf("failed to write to temp file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("failed to fsync temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	destPath := filepath.Join(r.BasePath, m.Name+".yaml")
	if _, err := os.Stat(destPath); err == nil {
		// os.Rename does not replace an existing file on Windows.
		if err := os.Remove(destPath); err != nil {
			return fmt.Errorf("failed to remove existing model file for overwrite: %w", err)
		}
	}
	if err := os.Rename(tmpPath, destPath); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}

// List returns the names of all model files.
func (r *Registry) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(r.BasePath)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to list models: %w", err)
	}

	names := []string{}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, "tmp-") {
			continue
		}
		if ext := filepath.Ext(name); ext == ".yaml" || ext == ".yml" {
			names = append(names, strings.TrimSuffix(name, ext))
		}
	}
	sort.Strings(names)
	return names, nil
}

// Watch implements ports.Watchable. The channel is signaled when a YAML file
// in the directory is written, created, removed or renamed.
func (r *Registry) Watch(ctx context.Context) (<-chan struct{}, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to start watcher: %w", err)
	}
	if err := watcher.Add(r.BasePath); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", r.BasePath, err)
	}

	ch := make(chan struct{}, 1)
	go func() {
		defer close(ch)
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case evt, ok := <-watcher.Events:
				if !ok {
					return
				}
				ext := filepath.Ext(evt.Name)
				if ext != ".yaml" && ext != ".yml" || strings.HasPrefix(filepath.Base(evt.Name), "tmp-") {
					continue
				}
				select {
				case ch <- struct{}{}:
				default:
				}
			case _, ok := <-watcher.Errors:
				if !ok {
					return
				}
			}
		}
	}()
	return ch, nil
}
