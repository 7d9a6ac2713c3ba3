package heappage

// PageScanner iterates the live slots of a Page in ascending SlotID
// order, skipping interior free slots. It holds a non-owning reference
// to the Page: the caller must keep the Page alive, at a stable address,
// and unmodified between calls if deterministic iteration matters.
// PageScanner never mutates the Page it scans.
type PageScanner struct {
	page *Page
	cur  SlotID
}

// NewScanner creates a PageScanner positioned at the start of page.
func NewScanner(page *Page) *PageScanner {
	return &PageScanner{page: page, cur: 0}
}

// Reset rebinds the scanner to page (which may be the same Page or a
// different one) and rewinds the cursor to the start.
func (s *PageScanner) Reset(page *Page) {
	s.page = page
	s.cur = 0
}

// GetNext advances past any free slots and returns the first live SlotID
// at or after the cursor, or InvalidSlotID once the directory is
// exhausted. Once exhausted, subsequent calls keep returning
// InvalidSlotID.
func (s *PageScanner) GetNext() SlotID {
	capacity := s.page.header().Capacity
	for uint32(s.cur) < capacity {
		id := s.cur
		s.cur++
		if slotAt(s.page.buf, id).Offset != InvalidSlotOffset {
			return id
		}
	}
	return InvalidSlotID
}
