package osutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
)

// WriteJSONFile re-indents raw with four spaces and writes it to path.
// Non-ASCII text is kept as is.
func WriteJSONFile(path string, raw []byte) error {
	var out bytes.Buffer
	err := json.Indent(&out, bytes.TrimSpace(raw), "", "    ")
	if err != nil {
		return fmt.Errorf("indent %s: %w", path, err)
	}
	out.WriteByte('\n')
	return WriteFile(path, out.Bytes())
}

func WriteFile(path string, data []byte) error {
	err := os.WriteFile(path, data, 0644)
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
