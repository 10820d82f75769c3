package validation

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateSourceFile(t *testing.T) {
	dir := t.TempDir()
	validator := NewFileValidator(nil)

	good := filepath.Join(dir, "location.csv")
	require.NoError(t, os.WriteFile(good, []byte("Driver\n"), 0o644))

	empty := filepath.Join(dir, "empty.csv")
	require.NoError(t, os.WriteFile(empty, nil, 0o644))

	wrongExt := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(wrongExt, []byte("x"), 0o644))

	tests := []struct {
		name    string
		path    string
		wantErr string
	}{
		{"valid csv", good, ""},
		{"missing file", filepath.Join(dir, "nope.csv"), "does not exist"},
		{"directory", dir, "is a directory"},
		{"empty file", empty, "is empty"},
		{"unsupported extension", wrongExt, "unsupported extension"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateSourceFile(tt.path)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateSourceFiles(t *testing.T) {
	dir := t.TempDir()
	validator := NewFileValidator(nil)

	good := filepath.Join(dir, "a.csv")
	require.NoError(t, os.WriteFile(good, []byte("x"), 0o644))

	assert.NoError(t, validator.ValidateSourceFiles([]string{good}))
	assert.NoError(t, validator.ValidateSourceFiles(nil))
	assert.Error(t, validator.ValidateSourceFiles([]string{good, filepath.Join(dir, "nope.csv")}))
}

func TestValidateOutputDirectory(t *testing.T) {
	validator := NewFileValidator(nil)

	dir := filepath.Join(t.TempDir(), "reports", "week29")
	require.NoError(t, validator.ValidateOutputDirectory(dir))
	assert.DirExists(t, dir)

	// The probe file is cleaned up.
	_, err := os.Stat(filepath.Join(dir, ".write_test"))
	assert.True(t, os.IsNotExist(err))
}
