package compact

const (
	magic   = "DYB"
	version = 1

	// DefaultCacheSize is the cache capacity written by encoders unless
	// WithCacheSize is given.
	DefaultCacheSize = 32

	// MaxFrameSize bounds the value bytes of a single frame.
	MaxFrameSize = 64 << 20
)

type code byte

const (
	cNull code = iota
	cFalse
	cTrue
	cInt
	cFloat
	cBigInt
	cDecimal
	cString
	cBytes
	cTime
	cKeyword
)

const (
	cSeq code = 0x10 + iota
	cSet
	cMap
	cRecord
	cTagged
)

const (
	// cCacheDef precedes a value to be stored in the next cache slot.
	cCacheDef code = 0x20 + iota
	// cCacheRef is followed by the uvarint slot of a cached value.
	cCacheRef
)

var codeNames = map[code]string{
	cNull:     "null",
	cFalse:    "false",
	cTrue:     "true",
	cInt:      "int",
	cFloat:    "float",
	cBigInt:   "bigint",
	cDecimal:  "decimal",
	cString:   "string",
	cBytes:    "bytes",
	cTime:     "time",
	cKeyword:  "keyword",
	cSeq:      "seq",
	cSet:      "set",
	cMap:      "map",
	cRecord:   "record",
	cTagged:   "tagged",
	cCacheDef: "cache-def",
	cCacheRef: "cache-ref",
}

func (c code) String() string {
	if s, ok := codeNames[c]; ok {
		return s
	}
	return "<unknown>"
}

// IsCompact reports whether d starts with a binary stream header.
func IsCompact(d []byte) bool {
	return len(d) >= len(magic) && string(d[:len(magic)]) == magic
}
