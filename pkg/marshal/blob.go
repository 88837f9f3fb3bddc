package marshal

import (
	"io"
	"math"
	"os"

	"github.com/sliderstack/sliderstack/pkg/wire"
)

// CredentialStore is a handle that resolves to the file backing a keystore
// or truststore.
type CredentialStore interface {
	File() string
}

// MarshalCertificateStore reads the whole credential store into an envelope.
// limit bounds the number of bytes read; limit <= 0 reads without a bound.
// The read is synchronous and either completes or fails with an *IOError.
func MarshalCertificateStore(store CredentialStore, limit int64) (*wire.CertificateStoreResponse, error) {
	data, err := readStore(store.File(), limit)
	if err != nil {
		return nil, err
	}
	return &wire.CertificateStoreResponse{Store: data}, nil
}

// UnmarshalCertificateStore returns the store bytes verbatim. The result is
// never nil.
func UnmarshalCertificateStore(w *wire.CertificateStoreResponse) []byte {
	if w == nil {
		return []byte{}
	}
	return append([]byte{}, w.Store...)
}

func readStore(path string, limit int64) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &IOError{Path: path, Err: err}
	}
	defer f.Close()

	var r io.Reader = f
	if limit > 0 {
		// One byte past the limit distinguishes "exactly limit" from "too large".
		n := limit
		if n < math.MaxInt64 {
			n++
		}
		r = io.LimitReader(f, n)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &IOError{Path: path, Err: err}
	}
	if limit > 0 && int64(len(data)) > limit {
		return nil, &IOError{Path: path, Err: ErrStoreTooLarge}
	}
	return data, nil
}
