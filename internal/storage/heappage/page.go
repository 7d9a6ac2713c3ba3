package heappage

import "fmt"

// Page wraps a raw, fixed-size page buffer and provides the slotted-page
// record operations over it. Page never allocates: every record byte
// lives inside the wrapped buffer. The caller (a buffer-pool or heap-file
// layer) owns the buffer and must keep it alive and at a stable address
// for as long as this Page, or any PageScanner over it, is in use.
type Page struct {
	buf []byte
}

// New wraps an existing page buffer. The buffer is assumed to already
// hold a valid header (e.g. freshly read from disk); call
// InitializeHeader explicitly on a freshly allocated buffer instead.
func New(buf []byte) *Page {
	return &Page{buf: buf}
}

// InitializeHeader resets buf to an empty page: both page links are set
// to InvalidPageNum, the slot directory is empty, and free space spans
// the whole buffer past the header.
func (p *Page) InitializeHeader() {
	marshalHeader(Header{
		PrevPage:  InvalidPageNum,
		NextPage:  InvalidPageNum,
		FreeBegin: HeaderSize,
		FreeEnd:   uint32(len(p.buf)),
		Size:      0,
		Capacity:  0,
	}, p.buf)
}

func (p *Page) header() Header { return unmarshalHeader(p.buf) }

func (p *Page) setHeader(h Header) { marshalHeader(h, p.buf) }

// SetPrev sets the opaque prev-page link.
func (p *Page) SetPrev(pn PageNum) {
	h := p.header()
	h.PrevPage = pn
	p.setHeader(h)
}

// SetNext sets the opaque next-page link.
func (p *Page) SetNext(pn PageNum) {
	h := p.header()
	h.NextPage = pn
	p.setHeader(h)
}

// GetPrev returns the opaque prev-page link.
func (p *Page) GetPrev() PageNum { return p.header().PrevPage }

// GetNext returns the opaque next-page link.
func (p *Page) GetNext() PageNum { return p.header().NextPage }

// NumRecords returns the count of currently live slots.
func (p *Page) NumRecords() uint32 { return p.header().Size }

// IsEmpty reports whether the page holds no live records.
func (p *Page) IsEmpty() bool { return p.header().Size == 0 }

// IsFull reports whether the slot directory has no free slot (size ==
// capacity and size > 0). It does not look at how much free space is left
// for growing the directory or storing another record.
func (p *Page) IsFull() bool {
	h := p.header()
	return h.Size == h.Capacity && h.Size > 0
}

// FreeSpace returns the number of bytes of record data InsertRecord is
// guaranteed to accept right now, per the insert-accounting formula: a
// reused interior slot costs nothing extra, but a trailing append must
// reserve room for the new directory entry it would need.
func (p *Page) FreeSpace() uint32 {
	h := p.header()
	rawFree := h.FreeEnd - h.FreeBegin
	if h.Size < h.Capacity {
		// An interior free slot exists: insert reuses it, no directory
		// growth needed.
		return rawFree
	}
	if rawFree >= SlotInfoSize {
		return rawFree - SlotInfoSize
	}
	return 0
}

// InsertRecord copies data onto the page and returns the SlotID it was
// assigned. Fails with ErrEmptyData if data is empty, or
// ErrInsufficientSpace if FreeSpace() < len(data); on failure the page is
// unchanged.
func (p *Page) InsertRecord(data []byte) (SlotID, error) {
	if len(data) == 0 {
		return 0, fmt.Errorf("insert_record: %w", ErrEmptyData)
	}
	if int(p.FreeSpace()) < len(data) {
		return 0, fmt.Errorf("insert_record: need %d bytes, have %d: %w", len(data), p.FreeSpace(), ErrInsufficientSpace)
	}

	h := p.header()
	target, grew := p.firstFreeSlot(h)
	if grew {
		h.Capacity++
		h.FreeBegin += SlotInfoSize
	}

	h.FreeEnd -= uint32(len(data))
	copy(p.buf[h.FreeEnd:], data)
	setSlotAt(p.buf, target, SlotInfo{Offset: h.FreeEnd, Length: uint32(len(data))})
	h.Size++
	p.setHeader(h)
	return target, nil
}

// firstFreeSlot scans the directory for the first free slot to reuse. If
// none exists it reports the slot id a new trailing entry would get,
// with grew=true to signal the caller must grow the directory.
func (p *Page) firstFreeSlot(h Header) (id SlotID, grew bool) {
	for i := SlotID(0); i < SlotID(h.Capacity); i++ {
		if slotAt(p.buf, i).Offset == InvalidSlotOffset {
			return i, false
		}
	}
	return SlotID(h.Capacity), true
}

// GetRecord copies the record at slot into out and returns the number of
// bytes written. Fails with ErrInvalidSlotID if slot is out of range or
// free, or ErrInsufficientBuffer if len(out) is smaller than the stored
// record. Read-only: never mutates page state.
func (p *Page) GetRecord(slot SlotID, out []byte) (int, error) {
	h := p.header()
	s, err := p.liveSlot(h, slot)
	if err != nil {
		return 0, fmt.Errorf("get_record: %w", err)
	}
	if len(out) < int(s.Length) {
		return 0, fmt.Errorf("get_record: buffer has %d bytes, record has %d: %w", len(out), s.Length, ErrInsufficientBuffer)
	}
	n := copy(out, p.buf[s.Offset:s.Offset+s.Length])
	return n, nil
}

// DeleteRecord removes the record at slot, compacts the record region so
// live bytes stay contiguous at the page tail, and shrinks the slot
// directory while its trailing entries are free.
func (p *Page) DeleteRecord(slot SlotID) error {
	h := p.header()
	s, err := p.liveSlot(h, slot)
	if err != nil {
		return fmt.Errorf("delete_record: %w", err)
	}
	p.compactOut(&h, slot, s)
	p.shrinkDirectory(&h)
	p.setHeader(h)
	return nil
}

// UpdateRecord replaces the record at slot with data, keeping the same
// SlotID. Semantically a delete of the old bytes followed by a re-insert
// at the same slot. Fails atomically: on any error the page
// is left unmodified.
func (p *Page) UpdateRecord(slot SlotID, data []byte) error {
	h := p.header()
	old, err := p.liveSlot(h, slot)
	if err != nil {
		return fmt.Errorf("update_record: %w", err)
	}
	if len(data) == 0 {
		return fmt.Errorf("update_record: %w", ErrEmptyData)
	}

	rawFree := h.FreeEnd - h.FreeBegin
	if uint64(rawFree)+uint64(old.Length) < uint64(len(data)) {
		return fmt.Errorf("update_record: need %d bytes, have %d: %w", len(data), rawFree+old.Length, ErrInsufficientSpace)
	}

	// Delete without shrinking the directory: slot is about to be reused.
	p.compactOut(&h, slot, old)

	h.FreeEnd -= uint32(len(data))
	copy(p.buf[h.FreeEnd:], data)
	setSlotAt(p.buf, slot, SlotInfo{Offset: h.FreeEnd, Length: uint32(len(data))})
	h.Size++
	p.setHeader(h)
	return nil
}

// liveSlot validates slot and returns its current SlotInfo, or
// ErrInvalidSlotID if slot is out of range or already free.
func (p *Page) liveSlot(h Header, slot SlotID) (SlotInfo, error) {
	if uint32(slot) >= h.Capacity {
		return SlotInfo{}, ErrInvalidSlotID
	}
	s := slotAt(p.buf, slot)
	if s.Offset == InvalidSlotOffset {
		return SlotInfo{}, ErrInvalidSlotID
	}
	return s, nil
}

// compactOut marks slot free, shifts any record bytes below it up to
// close the gap, and advances FreeEnd — the shared core of delete and the
// delete-half of update. It does not touch the slot directory length.
func (p *Page) compactOut(h *Header, slot SlotID, s SlotInfo) {
	setSlotAt(p.buf, slot, SlotInfo{Offset: InvalidSlotOffset, Length: 0})
	h.Size--

	if s.Offset == h.FreeEnd {
		h.FreeEnd += s.Length
		return
	}

	// Shift [FreeEnd, s.Offset) up by s.Length so it lands at
	// [FreeEnd+s.Length, s.Offset+s.Length), then raise FreeEnd.
	copy(p.buf[h.FreeEnd+s.Length:s.Offset+s.Length], p.buf[h.FreeEnd:s.Offset])
	h.FreeEnd += s.Length

	for i := SlotID(0); i < SlotID(h.Capacity); i++ {
		if i == slot {
			continue
		}
		e := slotAt(p.buf, i)
		if e.Offset != InvalidSlotOffset && e.Offset < s.Offset {
			e.Offset += s.Length
			setSlotAt(p.buf, i, e)
		}
	}
}

// shrinkDirectory drops trailing free slots, restoring the invariant
// that slot[capacity-1] is always live whenever capacity > 0.
func (p *Page) shrinkDirectory(h *Header) {
	for h.Capacity > 0 && slotAt(p.buf, SlotID(h.Capacity-1)).Offset == InvalidSlotOffset {
		h.Capacity--
		h.FreeBegin -= SlotInfoSize
	}
}
