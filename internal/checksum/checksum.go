package checksum

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"golang.org/x/crypto/blake2b"
)

// BufferSize is the chunk size fed into the hash per read.
const BufferSize = 8192

// CalculateFileBLAKE2b calculates the BLAKE2b-512 digest of a file and returns it as lowercase hex.
// onProgress, if non-nil, receives the number of bytes hashed after every chunk.
func CalculateFileBLAKE2b(filePath string, onProgress func(n int64)) (string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("open file: %w", err)
	}
	defer file.Close()

	return CalculateBLAKE2b(file, onProgress)
}

// CalculateBLAKE2b calculates the BLAKE2b-512 digest from reader and returns it as lowercase hex
func CalculateBLAKE2b(r io.Reader, onProgress func(n int64)) (string, error) {
	hash, err := blake2b.New512(nil)
	if err != nil {
		return "", fmt.Errorf("init blake2b: %w", err)
	}
	buffer := make([]byte, BufferSize)

	for {
		n, err := r.Read(buffer)
		if n > 0 {
			if _, err := hash.Write(buffer[:n]); err != nil {
				return "", fmt.Errorf("write to hash: %w", err)
			}
			if onProgress != nil {
				onProgress(int64(n))
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("read: %w", err)
		}
	}

	return hex.EncodeToString(hash.Sum(nil)), nil
}

// CompareChecksums reports whether two hex digests are equal.
// An empty digest means the file was never hashed and matches nothing, not even another empty digest.
func CompareChecksums(checksum1, checksum2 string) bool {
	if checksum1 == "" || checksum2 == "" {
		return false
	}
	return checksum1 == checksum2
}
