// SPDX-License-Identifier: MIT
package wavfile

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"glitch/internal/pcm"
)

// ReadFile decodes the WAV file at path.
func ReadFile(path string) (*pcm.Buffer, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIO, err)
	}
	defer file.Close()

	buf, err := Decode(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return buf, nil
}

// WriteFile encodes b to path, replacing any existing file. The data is
// written to a temporary file next to path and renamed into place, so a
// failed encode never leaves a truncated output behind.
func WriteFile(path string, b *pcm.Buffer) error {
	tmp := filepath.Join(filepath.Dir(path), "."+filepath.Base(path)+"."+uuid.NewString()+".tmp")

	file, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrIO, err)
	}
	defer os.Remove(tmp)

	if err := Encode(file, b); err != nil {
		file.Close()
		return fmt.Errorf("%s: %w", path, err)
	}

	if err := file.Close(); err != nil {
		return fmt.Errorf("%w: %v", ErrIO, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("%w: %v", ErrIO, err)
	}
	return nil
}
