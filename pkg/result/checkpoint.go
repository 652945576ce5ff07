package result

import (
	"encoding/gob"
	"os"

	"github.com/oisee/i8080/pkg/cpu"
)

// Checkpoint holds a machine's state for resuming a run.
type Checkpoint struct {
	Program string
	Steps   uint64 // Instructions executed before the checkpoint
	State   cpu.State
}

// SaveCheckpoint writes machine state to a file.
func SaveCheckpoint(path string, ckpt *Checkpoint) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := gob.NewEncoder(f).Encode(ckpt); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// LoadCheckpoint loads machine state from a file.
func LoadCheckpoint(path string) (*Checkpoint, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var ckpt Checkpoint
	if err := gob.NewDecoder(f).Decode(&ckpt); err != nil {
		return nil, err
	}
	return &ckpt, nil
}
