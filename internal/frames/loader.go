package frames

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/vovakirdan/tui-brawl/internal/frames/formats"
)

//go:embed data/*.yaml
var embedded embed.FS

// Loader reads frame tables from a file system.
type Loader struct {
	FS   fs.FS
	Root string
}

// NewLoader creates a loader rooted at dir on disk.
func NewLoader(dir string) *Loader {
	return &Loader{FS: os.DirFS(dir), Root: "."}
}

// EmbeddedLoader returns a loader over the built-in tables.
func EmbeddedLoader() *Loader {
	return &Loader{FS: embedded, Root: "data"}
}

// LoadAll parses every supported file under the root, sorted by kind.
// Unlike level packs, a broken table is an error: entities cannot run on it.
func (l *Loader) LoadAll() ([]*Table, error) {
	var tables []*Table
	err := fs.WalkDir(l.FS, l.Root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !isSupportedExtension(strings.ToLower(path.Ext(p))) {
			return nil
		}
		t, err := l.LoadFile(p)
		if err != nil {
			return err
		}
		tables = append(tables, t)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("frames: walking %s: %w", l.Root, err)
	}
	sort.Slice(tables, func(i, j int) bool { return tables[i].Kind < tables[j].Kind })
	return tables, nil
}

// LoadFile parses one table file.
func (l *Loader) LoadFile(p string) (*Table, error) {
	data, err := fs.ReadFile(l.FS, p)
	if err != nil {
		return nil, fmt.Errorf("reading file %s: %w", p, err)
	}
	doc, err := parseByExtension(data, strings.ToLower(path.Ext(p)))
	if err != nil {
		return nil, fmt.Errorf("parsing file %s: %w", p, err)
	}
	t, err := FromDocument(doc)
	if err != nil {
		return nil, fmt.Errorf("parsing file %s: %w", p, err)
	}
	return t, nil
}

// LoadCatalog builds the catalog used by a match. The built-in tables are
// always present; tables from the first directory found in the search order
// replace or extend them by kind.
// Search order: customDir -> ~/.brawl/fighters -> ./fighters -> embedded only
func LoadCatalog(customDir string) (*Catalog, error) {
	base, err := EmbeddedLoader().LoadAll()
	if err != nil {
		return nil, err
	}
	byKind := make(map[string]*Table, len(base))
	for _, t := range base {
		byKind[t.Kind] = t
	}

	dir := customDir
	if dir != "" {
		if _, err := os.Stat(dir); err != nil {
			return nil, fmt.Errorf("frames: %w", err)
		}
	} else {
		for _, candidate := range []string{userFightersDir(), "fighters"} {
			if candidate == "" {
				continue
			}
			if st, err := os.Stat(candidate); err == nil && st.IsDir() {
				dir = candidate
				break
			}
		}
	}
	if dir != "" {
		extra, err := NewLoader(dir).LoadAll()
		if err != nil {
			return nil, err
		}
		for _, t := range extra {
			byKind[t.Kind] = t
		}
	}

	c := &Catalog{tables: byKind}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("frames: invalid catalog: %w", err)
	}
	return c, nil
}

// DefaultCatalog returns the validated built-in catalog.
func DefaultCatalog() (*Catalog, error) {
	tables, err := EmbeddedLoader().LoadAll()
	if err != nil {
		return nil, err
	}
	c, err := NewCatalog(tables...)
	if err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("frames: invalid catalog: %w", err)
	}
	return c, nil
}

func userFightersDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".brawl", "fighters")
}

func isSupportedExtension(ext string) bool {
	for _, supported := range formats.FormatExtensions() {
		if ext == supported {
			return true
		}
	}
	return false
}

func parseByExtension(data []byte, ext string) (formats.Document, error) {
	switch ext {
	case ".yaml", ".yml":
		return formats.ParseYAML(data)
	case ".json":
		return formats.ParseJSON(data)
	default:
		return formats.Document{}, fmt.Errorf("unsupported extension: %s", ext)
	}
}
