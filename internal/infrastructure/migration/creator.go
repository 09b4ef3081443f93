package migration

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"text/template"
	"time"
)

// VersionLayout is the timestamp prefix of every migration file.
const VersionLayout = "20060102150405"

var scaffold = template.Must(template.New("migration").Parse(`-- {{.Name}} ({{.Direction}})
-- Created: {{.Created}}
{{- if .Description}}
-- {{.Description}}
{{- end}}

`))

// NewFile names a freshly scaffolded migration pair.
type NewFile struct {
	Version  string
	UpPath   string
	DownPath string
}

// Create writes an empty <version>_<name>.up.sql / .down.sql pair into dir,
// versioned by now. Existing files are never overwritten.
func Create(dir, name, description string, now time.Time) (*NewFile, error) {
	slug := slugify(name)
	if slug == "" {
		return nil, errors.New("migration: name must contain letters or digits")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("migration: create dir: %w", err)
	}

	version := now.UTC().Format(VersionLayout)
	base := filepath.Join(dir, version+"_"+slug)
	nf := &NewFile{Version: version, UpPath: base + ".up.sql", DownPath: base + ".down.sql"}

	for direction, path := range map[string]string{"up": nf.UpPath, "down": nf.DownPath} {
		if err := writeScaffold(path, map[string]string{
			"Name":        name,
			"Direction":   direction,
			"Created":     now.UTC().Format(time.RFC3339),
			"Description": description,
		}); err != nil {
			_ = os.Remove(nf.UpPath)
			_ = os.Remove(nf.DownPath)
			return nil, err
		}
	}
	return nf, nil
}

func writeScaffold(path string, data map[string]string) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("migration: %w", err)
	}
	if err := scaffold.Execute(f, data); err != nil {
		_ = f.Close()
		return fmt.Errorf("migration: render %s: %w", path, err)
	}
	return f.Close()
}

// List returns the migration names (file name without .up.sql) in source,
// oldest first.
func List(source fs.FS) ([]string, error) {
	ups, err := fs.Glob(source, "*.up.sql")
	if err != nil {
		return nil, err
	}
	names := make([]string, len(ups))
	for i, up := range ups {
		names[i] = strings.TrimSuffix(up, ".up.sql")
	}
	return names, nil
}

// slugify lowercases name, keeps letters and digits and collapses any run of
// separators into one underscore.
func slugify(name string) string {
	var b strings.Builder
	pendingSep := false
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			if pendingSep && b.Len() > 0 {
				b.WriteByte('_')
			}
			pendingSep = false
			b.WriteRune(r)
		case r == ' ', r == '-', r == '_':
			pendingSep = true
		}
	}
	return b.String()
}
