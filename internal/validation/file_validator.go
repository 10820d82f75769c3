package validation

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// FileValidator checks source files and the output directory before the
// pipeline starts, so a misconfigured run fails up front instead of
// halfway through.
type FileValidator struct {
	logger *slog.Logger
}

// NewFileValidator creates a file validator.
func NewFileValidator(logger *slog.Logger) *FileValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileValidator{logger: logger}
}

// ValidateSourceFile checks that a source file exists, is a regular
// file, has a readable extension and is not empty.
func (v *FileValidator) ValidateSourceFile(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		v.logger.Error("source file does not exist",
			slog.String("file", path))
		return fmt.Errorf("source file %s does not exist", path)
	}
	if err != nil {
		return fmt.Errorf("failed to stat source file %s: %w", path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory, not a file", path)
	}
	if info.Size() == 0 {
		v.logger.Error("source file is empty",
			slog.String("file", path))
		return fmt.Errorf("source file %s is empty", path)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".xlsx", ".xls":
		return nil
	default:
		return fmt.Errorf("source file %s has unsupported extension %s", path, filepath.Ext(path))
	}
}

// ValidateSourceFiles checks every path and reports the first failure.
func (v *FileValidator) ValidateSourceFiles(paths []string) error {
	for _, path := range paths {
		if err := v.ValidateSourceFile(path); err != nil {
			return err
		}
	}
	return nil
}

// ValidateOutputDirectory creates the output directory if needed and
// verifies it is writable.
func (v *FileValidator) ValidateOutputDirectory(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		v.logger.Error("failed to create output directory",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}

	testFile := filepath.Join(dir, ".write_test")
	file, err := os.Create(testFile)
	if err != nil {
		v.logger.Error("output directory is not writable",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return fmt.Errorf("output directory %s is not writable: %w", dir, err)
	}
	file.Close()
	os.Remove(testFile)

	return nil
}
