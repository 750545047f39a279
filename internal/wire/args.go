package wire

import (
	"fmt"
	"unicode/utf8"
)

// WordsForString returns the number of wire words a string argument
// (including its length prefix and NUL terminator) will occupy.
func WordsForString(s string) int {
	n := len(s) + 1
	return 1 + (n+3)/4
}

// WordsForArray returns the number of wire words an array argument
// (including its length prefix) will occupy.
func WordsForArray(b []byte) int {
	return 1 + (len(b)+3)/4
}

// DecodeString extracts a length-prefixed, NUL-terminated string
// argument starting at args[idx], returning the decoded string and the
// index of the next argument. Per §4.1/§8: a non-null string must be
// valid UTF-8 and NUL-terminated; length 0 is null only when allowNull.
func DecodeString(args []uint32, idx int, allowNull bool) (string, int, error) {
	if idx >= len(args) {
		return "", idx, newf(KindBadFormat, "argument array too short for string")
	}
	length := args[idx]
	if length == 0 {
		if allowNull {
			return "", idx + 1, nil
		}
		return "", idx, newf(KindBadFormat, "null string where it is not allowed")
	}
	wordCount := int((length + 3) / 4)
	if idx+1+wordCount > len(args) {
		return "", idx, newf(KindBadFormat, "argument array too short for string body")
	}
	raw := wordsToBytes(args[idx+1 : idx+1+wordCount])
	if int(length) > len(raw) || length == 0 {
		return "", idx, newf(KindBadFormat, "invalid string length")
	}
	body := raw[:length]
	if body[len(body)-1] != 0 {
		return "", idx, newf(KindBadFormat, "string not NUL-terminated")
	}
	str := string(body[:len(body)-1])
	if !utf8.ValidString(str) {
		return "", idx, newf(KindBadFormat, "string is not valid UTF-8")
	}
	return str, idx + 1 + wordCount, nil
}

// DecodeArray extracts a length-prefixed opaque array argument starting
// at args[idx].
func DecodeArray(args []uint32, idx int, allowNull bool) ([]byte, int, error) {
	if idx >= len(args) {
		return nil, idx, newf(KindBadFormat, "argument array too short for array")
	}
	length := args[idx]
	if length == 0 && allowNull {
		return nil, idx + 1, nil
	}
	wordCount := int((length + 3) / 4)
	if idx+1+wordCount > len(args) {
		return nil, idx, newf(KindBadFormat, "argument array too short for array body")
	}
	raw := wordsToBytes(args[idx+1 : idx+1+wordCount])
	return append([]byte(nil), raw[:length]...), idx + 1 + wordCount, nil
}

func wordsToBytes(words []uint32) []byte {
	out := make([]byte, 0, len(words)*4)
	for _, w := range words {
		out = append(out,
			byte(w), byte(w>>8), byte(w>>16), byte(w>>24))
	}
	return out
}

// EncodeString writes a length-prefixed, NUL-terminated, zero-padded
// string into dst starting at idx, returning the next free index. dst
// must have been sized with WordsForString beforehand.
func EncodeString(dst []uint32, idx int, s string) int {
	n := len(s) + 1
	dst[idx] = uint32(n)
	bytes := make([]byte, ((n+3)/4)*4)
	copy(bytes, s)
	bytes[len(s)] = 0
	words := bytesToWordsCopy(bytes)
	copy(dst[idx+1:], words)
	return idx + 1 + len(words)
}

// EncodeArray writes a length-prefixed, zero-padded array into dst
// starting at idx.
func EncodeArray(dst []uint32, idx int, b []byte) int {
	dst[idx] = uint32(len(b))
	padded := make([]byte, ((len(b)+3)/4)*4)
	copy(padded, b)
	words := bytesToWordsCopy(padded)
	copy(dst[idx+1:], words)
	return idx + 1 + len(words)
}

func bytesToWordsCopy(b []byte) []uint32 {
	words := make([]uint32, len(b)/4)
	for i := range words {
		words[i] = uint32(b[i*4]) | uint32(b[i*4+1])<<8 | uint32(b[i*4+2])<<16 | uint32(b[i*4+3])<<24
	}
	return words
}

// ArgError wraps an argument-decode failure with its argument name, for
// friendlier BadFormat details in generated demarshallers.
func ArgError(name string, err error) error {
	return fmt.Errorf("argument %q: %w", name, err)
}
