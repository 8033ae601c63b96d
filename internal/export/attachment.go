package export

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// StageAttachment writes a rendered report to a unique path under the
// system temp directory and returns that path. The delivery process
// picks the file up from there and attaches it under its public name.
func StageAttachment(blob []byte, name string) (string, error) {
	path := filepath.Join(os.TempDir(), fmt.Sprintf("%s-%s", uuid.NewString(), name))
	if err := os.WriteFile(path, blob, 0o600); err != nil {
		return "", fmt.Errorf("stage attachment: %w", err)
	}
	return path, nil
}
