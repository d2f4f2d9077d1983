package cli

import (
	"fmt"
	"os"

	"github.com/phanxgames/vellum"
)

// readSnapshotFile decodes the JSON snapshot at path.
func readSnapshotFile(path string) (vellum.Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return vellum.Snapshot{}, err
	}
	defer f.Close()
	snap, err := vellum.ReadSnapshot(f)
	if err != nil {
		return vellum.Snapshot{}, fmt.Errorf("%s: %w", path, err)
	}
	return snap, nil
}

// writeSnapshotFile writes snap to path as indented JSON.
func writeSnapshotFile(path string, snap vellum.Snapshot) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := vellum.WriteSnapshot(f, snap); err != nil {
		f.Close()
		return fmt.Errorf("%s: %w", path, err)
	}
	return f.Close()
}
