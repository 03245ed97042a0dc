package digest

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/alethic/forumdigest/internal/models"
)

// Write renders the digest and writes it to <outputDir>/<YYYY-MM-DD>.md,
// named after the period end in UTC. Returns the written path.
func Write(d *models.Digest, outputDir string) (string, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", errors.Wrapf(err, "creating output dir %s", outputDir)
	}

	path := filepath.Join(outputDir, d.PeriodEnd.UTC().Format("2006-01-02")+".md")
	if err := os.WriteFile(path, []byte(Format(d)), 0o644); err != nil {
		return "", errors.Wrapf(err, "writing digest %s", path)
	}
	return path, nil
}
