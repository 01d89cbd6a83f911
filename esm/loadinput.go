package esm

import "github.com/slfx77/esm360/internal/mmfile"

// LoadInput memory-maps the ESM at path read-only and returns its bytes
// along with a cleanup function the caller must invoke once done with the
// returned slice. Convert's output is a separate buffer and stays valid
// after cleanup. Convert itself takes a []byte directly so callers that
// already have the bytes in memory (e.g. from a test, or an archive) never
// need to touch the filesystem.
func LoadInput(path string) ([]byte, func() error, error) {
	return mmfile.Map(path)
}
