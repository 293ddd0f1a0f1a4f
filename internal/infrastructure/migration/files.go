package migration

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

var (
	migrationFileName = regexp.MustCompile(`^(\d+)_([a-z0-9_]+)\.(up|down)\.sql$`)
	unsafeNameChars   = regexp.MustCompile(`[^a-z0-9]+`)
)

// File describes one migration with its up and down scripts
type File struct {
	Version uint
	Name    string
	HasDown bool
}

// Embedded lists the migrations compiled into the binary
func Embedded() ([]File, error) {
	sub, err := fs.Sub(migrationsFS, migrationsDir)
	if err != nil {
		return nil, err
	}
	return List(sub)
}

// List returns the migrations of fsys ordered by version. A version with
// only a down script or with two different names is rejected.
func List(fsys fs.FS) ([]File, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations: %w", err)
	}

	byVersion := make(map[uint]*File)
	for _, entry := range entries {
		m := migrationFileName.FindStringSubmatch(entry.Name())
		if entry.IsDir() || m == nil {
			continue
		}
		v, err := strconv.ParseUint(m[1], 10, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid migration version in %s: %w", entry.Name(), err)
		}
		version := uint(v)

		f, ok := byVersion[version]
		if !ok {
			f = &File{Version: version, Name: m[2]}
			byVersion[version] = f
		} else if f.Name != m[2] {
			return nil, fmt.Errorf("migration %d has conflicting names %s and %s", version, f.Name, m[2])
		}
		if m[3] == "down" {
			f.HasDown = true
		}
	}

	files := make([]File, 0, len(byVersion))
	for _, f := range byVersion {
		files = append(files, *f)
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Version < files[j].Version })
	return files, nil
}

// Create writes an empty up and down script to dir, numbered after the
// highest existing version
func Create(dir, name string) (up, down string, err error) {
	slug := strings.Trim(unsafeNameChars.ReplaceAllString(strings.ToLower(name), "_"), "_")
	if slug == "" {
		return "", "", fmt.Errorf("invalid migration name %q", name)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", "", fmt.Errorf("failed to create migrations directory: %w", err)
	}

	existing, err := List(os.DirFS(dir))
	if err != nil {
		return "", "", err
	}
	next := uint(1)
	if len(existing) > 0 {
		next = existing[len(existing)-1].Version + 1
	}

	base := fmt.Sprintf("%06d_%s", next, slug)
	up = filepath.Join(dir, base+".up.sql")
	down = filepath.Join(dir, base+".down.sql")

	if err := os.WriteFile(up, []byte("-- "+name+"\n"), 0o644); err != nil {
		return "", "", fmt.Errorf("failed to write %s: %w", up, err)
	}
	if err := os.WriteFile(down, []byte("-- rollback "+name+"\n"), 0o644); err != nil {
		_ = os.Remove(up)
		return "", "", fmt.Errorf("failed to write %s: %w", down, err)
	}
	return up, down, nil
}
