package security

import (
	"crypto/rand"
	"errors"
)

var (
	ErrNegativeLength = errors.New("length must be non-negative")
	ErrAlphabetSize   = errors.New("alphabet must hold between 1 and 256 characters")
)

// RandomString draws length bytes from alphabet with crypto/rand. Bytes that
// would skew the distribution are rejected and redrawn.
func RandomString(length int, alphabet string) (string, error) {
	switch {
	case length < 0:
		return "", ErrNegativeLength
	case len(alphabet) == 0 || len(alphabet) > 256:
		return "", ErrAlphabetSize
	case length == 0:
		return "", nil
	}

	size := len(alphabet)
	limit := 256 - 256%size
	value := make([]byte, 0, length)
	buffer := make([]byte, length)
	for len(value) < length {
		if _, err := rand.Read(buffer); err != nil {
			return "", err
		}
		for _, b := range buffer {
			if int(b) >= limit {
				continue
			}
			value = append(value, alphabet[int(b)%size])
			if len(value) == length {
				break
			}
		}
	}
	return string(value), nil
}
