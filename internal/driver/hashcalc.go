package driver

import (
	"crypto/sha256"
	"strconv"
)

// Digest is a SHA-256 cache key.
type Digest [32]byte

// combineDigest: H(content || part1 || part2 ...). Части уже в детерминированном порядке.
func combineDigest(content Digest, parts ...[]byte) Digest {
	h := sha256.New()
	_, _ = h.Write(content[:])
	for _, p := range parts {
		// длина перед содержимым, чтобы "ab"+"c" != "a"+"bc"
		_, _ = h.Write([]byte(strconv.Itoa(len(p)) + ":"))
		_, _ = h.Write(p)
	}
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}

// cacheKey covers everything a compile summary depends on: the normalized
// file content, the options that change checking, and the cache schema.
func cacheKey(content [32]byte, opts Options, ex *Exercise) Digest {
	parts := [][]byte{
		[]byte("schema=" + strconv.Itoa(int(diskCacheSchemaVersion))),
		[]byte("hardcoded=" + strconv.FormatBool(opts.HardcodedImpls)),
		[]byte("max=" + strconv.Itoa(opts.MaxDiagnostics)),
	}
	if ex != nil {
		parts = append(parts, []byte("var="+ex.VarName), []byte("type="+ex.TypeSource))
	}
	return combineDigest(Digest(content), parts...)
}
