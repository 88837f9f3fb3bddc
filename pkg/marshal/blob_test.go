package marshal

import (
	"errors"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fileStore string

func (f fileStore) File() string { return string(f) }

func writeStore(t *testing.T, data []byte) fileStore {
	t.Helper()
	p := filepath.Join(t.TempDir(), "keystore.p12")
	require.NoError(t, os.WriteFile(p, data, 0o600))
	return fileStore(p)
}

func TestCertificateStore_RoundTrip(t *testing.T) {
	data := make([]byte, 70000)
	for i := range data {
		data[i] = byte(i * 31)
	}
	store := writeStore(t, data)

	w, err := MarshalCertificateStore(store, 0)
	require.NoError(t, err)
	assert.Equal(t, data, UnmarshalCertificateStore(overTheWire(t, w)))
}

func TestCertificateStore_EmptyFile(t *testing.T) {
	store := writeStore(t, nil)

	w, err := MarshalCertificateStore(store, 1024)
	require.NoError(t, err)
	assert.NotNil(t, w.Store)
	assert.Empty(t, w.Store)

	out := UnmarshalCertificateStore(overTheWire(t, w))
	assert.NotNil(t, out)
	assert.Empty(t, out)
}

func TestCertificateStore_MissingFile(t *testing.T) {
	missing := fileStore(filepath.Join(t.TempDir(), "absent.p12"))

	w, err := MarshalCertificateStore(missing, 0)
	assert.Nil(t, w)

	var ioErr *IOError
	require.True(t, errors.As(err, &ioErr), "got %v", err)
	assert.Equal(t, string(missing), ioErr.Path)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestCertificateStore_Directory(t *testing.T) {
	_, err := MarshalCertificateStore(fileStore(t.TempDir()), 0)

	var ioErr *IOError
	assert.True(t, errors.As(err, &ioErr), "reading a directory must fail, got %v", err)
}

func TestCertificateStore_Limit(t *testing.T) {
	store := writeStore(t, []byte("0123456789"))

	_, err := MarshalCertificateStore(store, 10)
	assert.NoError(t, err, "a store exactly at the limit is accepted")

	_, err = MarshalCertificateStore(store, 9)
	assert.True(t, errors.Is(err, ErrStoreTooLarge), "got %v", err)
	var ioErr *IOError
	assert.True(t, errors.As(err, &ioErr))
}

func TestCertificateStore_MaxLimitReadsWholeStore(t *testing.T) {
	data := []byte("secret-bytes")
	store := writeStore(t, data)

	w, err := MarshalCertificateStore(store, math.MaxInt64)
	require.NoError(t, err)
	assert.Equal(t, data, UnmarshalCertificateStore(overTheWire(t, w)))
}

func TestUnmarshalCertificateStore_Copies(t *testing.T) {
	store := writeStore(t, []byte{1, 2, 3})
	w, err := MarshalCertificateStore(store, 0)
	require.NoError(t, err)

	out := UnmarshalCertificateStore(w)
	out[0] = 9
	assert.Equal(t, byte(1), w.Store[0])

	assert.Equal(t, []byte{}, UnmarshalCertificateStore(nil))
}
