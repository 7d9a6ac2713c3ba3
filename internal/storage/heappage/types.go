// Package heappage implements the slotted-page record layout used by a
// heap file: a fixed-size byte buffer holding a header, a slot directory
// that grows downward from the header, and a record region that grows
// upward from the page tail.
//
// The buffer-pool / page-pin manager, the heap-file layer that chains
// pages together, record serialization, concurrency control above the
// page level, and durability/recovery are all external collaborators.
// This package only knows how to lay out and mutate one page buffer.
package heappage

import "encoding/binary"

const (
	// HeaderSize is the byte size of Header: six little-endian uint32
	// fields, 8-byte aligned as a whole.
	HeaderSize = 24

	// SlotInfoSize is the byte size of one SlotInfo entry: offset then
	// length, both little-endian uint32.
	SlotInfoSize = 8

	// DefaultPageSize is the page size this module is tuned for. Page
	// itself derives its size from the length of the buffer it wraps, so
	// a heap file may pick any fixed size at creation time; this constant
	// is only the default used by the CLI and by the tests' worked
	// scenarios.
	DefaultPageSize = 4096

	// InvalidPageNum is the sentinel prev/next page-number value, opaque
	// to this package and interpreted only by the heap-file layer above.
	InvalidPageNum PageNum = 0xFFFFFFFF

	// InvalidSlotOffset marks a free slot directory entry.
	InvalidSlotOffset uint32 = 0xFFFFFFFF

	// InvalidSlotID is returned by PageScanner.GetNext on exhaustion.
	InvalidSlotID SlotID = 0xFFFFFFFF
)

// PageNum is an opaque page-number link, meaningful only to the heap-file
// layer that chains pages into a doubly linked list.
type PageNum uint32

// SlotID is a zero-based index into a page's slot directory. It is stable
// across compaction: a record keeps its SlotID for as long as it lives.
type SlotID uint32

// MaxRecordSize returns the largest record that fits into a freshly
// initialized page of the given size: the whole buffer minus the header
// and the one slot directory entry the first insert must allocate.
func MaxRecordSize(pageSize int) int {
	return pageSize - HeaderSize - SlotInfoSize
}

// Header is the fixed-layout page header. Field order and width are part
// of the persisted format: little-endian, no implicit padding beyond
// natural alignment.
type Header struct {
	PrevPage  PageNum
	NextPage  PageNum
	FreeBegin uint32
	FreeEnd   uint32
	Size      uint32
	Capacity  uint32
}

// marshalHeader writes h into the first HeaderSize bytes of buf.
func marshalHeader(h Header, buf []byte) {
	binary.LittleEndian.PutUint32(buf[0:4], uint32(h.PrevPage))
	binary.LittleEndian.PutUint32(buf[4:8], uint32(h.NextPage))
	binary.LittleEndian.PutUint32(buf[8:12], h.FreeBegin)
	binary.LittleEndian.PutUint32(buf[12:16], h.FreeEnd)
	binary.LittleEndian.PutUint32(buf[16:20], h.Size)
	binary.LittleEndian.PutUint32(buf[20:24], h.Capacity)
}

// unmarshalHeader reads a Header from the first HeaderSize bytes of buf.
func unmarshalHeader(buf []byte) Header {
	return Header{
		PrevPage:  PageNum(binary.LittleEndian.Uint32(buf[0:4])),
		NextPage:  PageNum(binary.LittleEndian.Uint32(buf[4:8])),
		FreeBegin: binary.LittleEndian.Uint32(buf[8:12]),
		FreeEnd:   binary.LittleEndian.Uint32(buf[12:16]),
		Size:      binary.LittleEndian.Uint32(buf[16:20]),
		Capacity:  binary.LittleEndian.Uint32(buf[20:24]),
	}
}

// SlotInfo is one slot directory entry: the byte offset of a record in
// the page, and its length. A free slot has Offset == InvalidSlotOffset
// and Length == 0.
type SlotInfo struct {
	Offset uint32
	Length uint32
}

func slotAt(buf []byte, id SlotID) SlotInfo {
	off := HeaderSize + int(id)*SlotInfoSize
	return SlotInfo{
		Offset: binary.LittleEndian.Uint32(buf[off : off+4]),
		Length: binary.LittleEndian.Uint32(buf[off+4 : off+8]),
	}
}

func setSlotAt(buf []byte, id SlotID, s SlotInfo) {
	off := HeaderSize + int(id)*SlotInfoSize
	binary.LittleEndian.PutUint32(buf[off:off+4], s.Offset)
	binary.LittleEndian.PutUint32(buf[off+4:off+8], s.Length)
}
