package database

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
)

//go:embed schema.sql
var embeddedSchema string

// loadSchema returns the schema from path, or the embedded schema when path
// is empty.
func loadSchema(path string) (string, error) {
	if path == "" {
		return embeddedSchema, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("%w: unable to open %q: %w", ErrSchemaUnavailable, path, err)
	}

	schema := string(data)
	if strings.TrimSpace(schema) == "" {
		return "", fmt.Errorf("%w: %q is empty", ErrSchemaUnavailable, path)
	}
	return schema, nil
}
