package consensus

// CompactSize is the self-describing length prefix used for counts and
// script lengths: one byte below 0xfd, otherwise a 0xfd/0xfe/0xff marker
// followed by a u16le/u32le/u64le payload. Only the minimal form of a
// value is accepted.
type CompactSize uint64

// Encode returns the minimal encoding of c.
func (c CompactSize) Encode() []byte {
	return AppendCompactSize(make([]byte, 0, c.EncodedLen()), uint64(c))
}

// EncodedLen is the number of bytes Encode produces.
func (c CompactSize) EncodedLen() int {
	switch {
	case c < 0xfd:
		return 1
	case c <= 0xffff:
		return 3
	case c <= 0xffffffff:
		return 5
	default:
		return 9
	}
}

func AppendCompactSize(dst []byte, n uint64) []byte {
	switch {
	case n < 0xfd:
		return append(dst, byte(n))
	case n <= 0xffff:
		dst = append(dst, 0xfd)
		return AppendU16le(dst, uint16(n))
	case n <= 0xffffffff:
		dst = append(dst, 0xfe)
		return AppendU32le(dst, uint32(n))
	default:
		dst = append(dst, 0xff)
		return AppendU64le(dst, n)
	}
}

// DecodeCompactSize decodes the prefix at the start of b and returns the
// value and the number of bytes it occupied.
func DecodeCompactSize(b []byte) (CompactSize, int, error) {
	off := 0
	n, _, err := readCompactSize(b, &off)
	if err != nil {
		return 0, 0, err
	}
	return CompactSize(n), off, nil
}

func readCompactSize(b []byte, off *int) (uint64, int, error) {
	start := *off
	tag, err := readU8(b, off)
	if err != nil {
		return 0, 0, err
	}

	var n, floor uint64
	switch tag {
	case 0xfd:
		v, err := readU16le(b, off)
		if err != nil {
			*off = start
			return 0, 0, err
		}
		n, floor = uint64(v), 0xfd
	case 0xfe:
		v, err := readU32le(b, off)
		if err != nil {
			*off = start
			return 0, 0, err
		}
		n, floor = uint64(v), 0x1_0000
	case 0xff:
		v, err := readU64le(b, off)
		if err != nil {
			*off = start
			return 0, 0, err
		}
		n, floor = v, 0x1_0000_0000
	default:
		return uint64(tag), 1, nil
	}

	if n < floor {
		*off = start
		return 0, 0, txerrf(TX_ERR_NONCANONICAL_SIZE, "non-minimal compactsize 0x%x with marker 0x%02x at offset %d", n, tag, start)
	}
	return n, *off - start, nil
}
