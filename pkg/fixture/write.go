package fixture

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/qmuntal/gltf"
)

var all = []struct {
	name  string
	build func() *gltf.Document
}{
	{CubeFanFile, CubeFan},
	{CubeFanIndexedFile, CubeFanIndexed},
}

// WriteAll writes every fixture into dir as binary glTF and returns the
// written paths.
func WriteAll(dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create %s: %w", dir, err)
	}

	var paths []string
	for _, f := range all {
		path := filepath.Join(dir, f.name)
		if err := writeGLB(path, f.build()); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func writeGLB(path string, doc *gltf.Document) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	enc := gltf.NewEncoder(f)
	enc.AsBinary = true
	if err := enc.Encode(doc); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
