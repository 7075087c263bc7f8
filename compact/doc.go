// Package compact implements the binary document stream.
//
// A stream starts with a header
//
//	"DYB" version(1 byte) cacheCapacity(uvarint)
//
// followed by one frame per document
//
//	length(4 bytes, big endian) value(length bytes) crc32(4 bytes, big endian)
//
// where the checksum is the IEEE CRC-32 of the value bytes. Values are a
// type code followed by a type specific payload; integers use zigzag
// varints.
//
// Values of record fields marked cached are written through a FIFO cache
// of recently written distinct values shared by every record in the
// stream: a value already in the cache is written as a reference to its
// slot. The capacity is part of the header, so a decoder needs no
// configuration to follow the cache.
package compact
