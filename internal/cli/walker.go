package cli

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/schoolboyqueue/docgate/internal/artifact"
)

// collectArtifacts walks root and reads every regular file whose base name
// matches one of the include globs. Paths in the result are relative to
// root with forward slashes, which is what classification rules match on.
func collectArtifacts(root string, include []string) ([]artifact.Artifact, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("artifact root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("artifact root %s is not a directory", root)
	}

	var artifacts []artifact.Artifact
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if !matchesInclude(d.Name(), include) {
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		artifacts = append(artifacts, artifact.Artifact{
			Path: filepath.ToSlash(rel),
			Raw:  string(data),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return artifacts, nil
}

func matchesInclude(name string, include []string) bool {
	if len(include) == 0 {
		return true
	}
	for _, glob := range include {
		if ok, err := filepath.Match(glob, name); err == nil && ok {
			return true
		}
	}
	return false
}
