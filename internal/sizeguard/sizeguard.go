// Package sizeguard flags text blobs too large for a single storage item.
package sizeguard

// MaxItemSize is kept below the 400 KiB item ceiling of the gateway's
// storage backend.
const MaxItemSize = 350 * 1024

// IsTooLarge reports whether the UTF-8 encoding of text exceeds MaxItemSize.
func IsTooLarge(text string) bool {
	return len(text) > MaxItemSize
}
