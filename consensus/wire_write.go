package consensus

import "encoding/binary"

func AppendU16le(dst []byte, v uint16) []byte {
	return binary.LittleEndian.AppendUint16(dst, v)
}

func AppendU32le(dst []byte, v uint32) []byte {
	return binary.LittleEndian.AppendUint32(dst, v)
}

func AppendU64le(dst []byte, v uint64) []byte {
	return binary.LittleEndian.AppendUint64(dst, v)
}
