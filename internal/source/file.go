package source

import (
	"context"
	"fmt"
	"os"
)

// FileSource reads documents from the local filesystem.
type FileSource struct{}

func (FileSource) Load(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	text, err := Decode(path, f)
	if err != nil {
		return "", fmt.Errorf("decode %s: %w", path, err)
	}
	return text, nil
}
