// Package endian provides byte order utilities for binary decoding.
//
// This package combines the ByteOrder and AppendByteOrder interfaces of the
// standard encoding/binary package into a unified EndianEngine interface,
// so decode plans can carry a single byte-order value.
//
// The portal produces big-endian payloads, so most callers want
// GetBigEndianEngine():
//
//	engine := endian.GetBigEndianEngine()
//	plan, req, err := codec.Build(sch, rows, nil, engine)
//
// The returned engines are the stateless binary.BigEndian and
// binary.LittleEndian values and are safe for concurrent use.
package endian

import (
	"encoding/binary"
	"unsafe"
)

// EndianEngine combines ByteOrder and AppendByteOrder interfaces from
// encoding/binary into a single interface for convenient byte order
// operations.
//
// This interface is satisfied by binary.LittleEndian and binary.BigEndian
// from the standard library, making it fully compatible with existing Go
// code while providing access to both read and append operations.
type EndianEngine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// CheckEndianness uses a fixed integer value to determine the host's byte order.
func CheckEndianness() binary.ByteOrder {
	// 0x0100 is 256. For a little-endian system, the LSB (0x00) is first.
	// For a big-endian system, the MSB (0x01) is first.
	var i uint16 = 0x0100

	// Create a byte slice pointing to the memory address of 'i'.
	// We only need the first byte.
	b := (*[2]byte)(unsafe.Pointer(&i))

	// Check the first byte at the lowest memory address
	if b[0] == 0x01 {
		return binary.BigEndian
	}

	return binary.LittleEndian
}

func IsNativeLittleEndian() bool {
	return CheckEndianness() == binary.LittleEndian
}

func IsNativeBigEndian() bool {
	return CheckEndianness() == binary.BigEndian
}

func CompareNativeEndian(engine EndianEngine) bool {
	return engine == CheckEndianness()
}

// GetLittleEndianEngine returns the little-endian engine.
func GetLittleEndianEngine() EndianEngine {
	return binary.LittleEndian
}

// GetBigEndianEngine returns the big-endian engine.
func GetBigEndianEngine() EndianEngine {
	return binary.BigEndian
}

// Marker returns the conventional descriptor prefix for the engine:
// '>' for big-endian, '<' for little-endian.
func Marker(engine EndianEngine) byte {
	if engine == binary.BigEndian {
		return '>'
	}

	return '<'
}
