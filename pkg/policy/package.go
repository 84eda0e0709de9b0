package policy

import (
	"io"

	"github.com/go-errors/errors"
)

// Package is a decoded module package: the policy database plus the text
// sections bundled alongside it. Sections may be empty.
type Package struct {
	Policy *PolicyDB

	FileContexts      []byte
	SeUsers           []byte
	UserExtra         []byte
	NetfilterContexts []byte
}

// DecodeFunc turns the raw bytes of a binary policy package into a decoded
// Package.
type DecodeFunc func(data []byte) (*Package, error)

// Decode is the seam for the binary package decoder. Decoding the legacy
// .pp wire format is handled by an external collaborator; embedding
// programs assign their decoder here (or pass one to app.NewApp) before
// running a translation.
var Decode DecodeFunc = func(data []byte) (*Package, error) {
	return nil, errors.New("no policy package decoder is wired in")
}

// readStart is the initial buffer size for ReadAll, enough to hold about
// half of the existing pp files in one allocation.
const readStart = 1 << 17

// ReadAll buffers an entire non-seekable stream into memory, starting at a
// 128 KiB allocation and doubling until EOF.
func ReadAll(r io.Reader) ([]byte, error) {
	buf := make([]byte, readStart)
	total := 0

	for {
		n, err := r.Read(buf[total:])
		total += n
		if err == io.EOF {
			return buf[:total], nil
		}
		if err != nil {
			return nil, errors.Errorf("failed to read policy package: %s", err)
		}
		if total == len(buf) {
			grown := make([]byte, len(buf)*2)
			copy(grown, buf)
			buf = grown
		}
	}
}
