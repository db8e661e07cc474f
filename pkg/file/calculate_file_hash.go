package file

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"os"
)

// Dosya hash hesaplama
func CalculateFileHash(filePath string) (string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("dosya açılamadı: %w", err)
	}
	defer file.Close()

	return CalculateHash(file)
}

func CalculateHash(r io.Reader) (string, error) {
	h := sha256.New()
	if _, err := io.Copy(h, r); err != nil {
		return "", fmt.Errorf("hash hesaplanamadı: %w", err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// HashReader hashes everything read through it, so a stream can be stored and
// checksummed in one pass.
type HashReader struct {
	r io.Reader
	h hash.Hash
	n int64
}

func NewHashReader(r io.Reader) *HashReader {
	h := sha256.New()
	return &HashReader{r: io.TeeReader(r, h), h: h}
}

func (hr *HashReader) Read(p []byte) (int, error) {
	n, err := hr.r.Read(p)
	hr.n += int64(n)
	return n, err
}

func (hr *HashReader) Sum() string { return hex.EncodeToString(hr.h.Sum(nil)) }

func (hr *HashReader) BytesRead() int64 { return hr.n }
