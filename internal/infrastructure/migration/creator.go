package migration

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Scaffolded files carry the same header block as the checked-in
// migrations, so a new migration looks like the existing ones.
const upTemplate = `-- Migration: %s
-- Created: %s
-- Description: %s

-- Write the forward migration here

`

const downTemplate = `-- Migration: %s (rollback)
-- Created: %s
-- Description: rollback for %s

-- Write the rollback here

`

// MigrationFile describes one scaffolded up/down pair.
type MigrationFile struct {
	Version     string
	Name        string
	Description string
	UpPath      string
	DownPath    string
}

// CreateMigration scaffolds a timestamped up/down migration pair in
// the migrations directory, creating the directory if needed.
func CreateMigration(migrationsDir, name, description string) (*MigrationFile, error) {
	if err := os.MkdirAll(migrationsDir, 0o755); err != nil {
		return nil, fmt.Errorf("migration: create directory: %w", err)
	}

	// Timestamp versions sort lexically, which is all golang-migrate
	// needs for ordering.
	now := time.Now()
	version := now.Format("20060102150405")
	slug := sanitizeName(name)
	base := version + "_" + slug

	mf := &MigrationFile{
		Version:     version,
		Name:        slug,
		Description: description,
		UpPath:      filepath.Join(migrationsDir, base+".up.sql"),
		DownPath:    filepath.Join(migrationsDir, base+".down.sql"),
	}

	created := now.UTC().Format(time.RFC3339)
	up := fmt.Sprintf(upTemplate, slug, created, description)
	down := fmt.Sprintf(downTemplate, slug, created, description)

	if err := os.WriteFile(mf.UpPath, []byte(up), 0o644); err != nil {
		return nil, fmt.Errorf("migration: write %s: %w", mf.UpPath, err)
	}
	if err := os.WriteFile(mf.DownPath, []byte(down), 0o644); err != nil {
		_ = os.Remove(mf.UpPath)
		return nil, fmt.Errorf("migration: write %s: %w", mf.DownPath, err)
	}
	return mf, nil
}

// sanitizeName lowercases a migration name and squeezes everything
// that is not alphanumeric into single underscores.
func sanitizeName(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			if s := b.String(); len(s) > 0 && !strings.HasSuffix(s, "_") {
				b.WriteByte('_')
			}
		}
	}
	return strings.TrimSuffix(b.String(), "_")
}

// ListMigrations returns the base names of the up/down pairs in a
// directory. A missing directory is an empty list, not an error.
func ListMigrations(migrationsDir string) ([]string, error) {
	entries, err := os.ReadDir(migrationsDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("migration: read directory: %w", err)
	}

	migrations := make([]string, 0, len(entries)/2)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		base, found := strings.CutSuffix(entry.Name(), ".up.sql")
		if found && base != "" {
			migrations = append(migrations, base)
		}
	}
	return migrations, nil
}
