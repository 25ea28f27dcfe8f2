package security

import (
	"errors"
	"strings"
	"testing"
)

func TestRandomStringErrors(t *testing.T) {
	t.Parallel()

	if _, err := RandomString(-1, "abc"); !errors.Is(err, ErrNegativeLength) {
		t.Fatalf("expected ErrNegativeLength, got %v", err)
	}
	if _, err := RandomString(4, ""); !errors.Is(err, ErrAlphabetSize) {
		t.Fatalf("expected ErrAlphabetSize for an empty alphabet, got %v", err)
	}
	if _, err := RandomString(4, strings.Repeat("a", 257)); !errors.Is(err, ErrAlphabetSize) {
		t.Fatalf("expected ErrAlphabetSize for 257 characters, got %v", err)
	}
}

func TestRandomStringDrawsFromAlphabet(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		length   int
		alphabet string
	}{
		{name: "zero length", length: 0, alphabet: "abc"},
		{name: "single character", length: 8, alphabet: "X"},
		{name: "odd alphabet size", length: 64, alphabet: "ABCDEFGHJKLMNPQRSTUVWXYZ23456789abc"},
		{name: "full byte range", length: 32, alphabet: fullByteAlphabet()},
	}

	for _, testCase := range cases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			got, err := RandomString(testCase.length, testCase.alphabet)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(got) != testCase.length {
				t.Fatalf("expected length %d, got %d", testCase.length, len(got))
			}
			for i := 0; i < len(got); i++ {
				if strings.IndexByte(testCase.alphabet, got[i]) < 0 {
					t.Fatalf("byte %q is outside the alphabet", got[i])
				}
			}
		})
	}
}

func fullByteAlphabet() string {
	alphabet := make([]byte, 256)
	for i := range alphabet {
		alphabet[i] = byte(i)
	}
	return string(alphabet)
}
