// Package heapfile is a minimal heap-file layer over heappage.Page: it
// chains fixed-size page buffers via their prev/next links and routes
// inserts to whichever page has room. It is deliberately not a buffer
// pool — no pinning, no eviction, no WAL, no recovery — those remain out
// of scope for the page-storage core (see internal/storage/heappage).
// File exists only to give heappage.Page's public operations the kind of
// caller the original design describes: "an external owner allocates a
// raw page buffer, hands it to Page for header initialization, then
// invokes insert/get/update/delete/scan operations."
package heapfile

import (
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/gopherdb/slottedpage/internal/storage/heappage"
)

// RecordID identifies a record by the page it lives on and its SlotID
// within that page's directory.
type RecordID struct {
	Page heappage.PageNum
	Slot heappage.SlotID
}

func (r RecordID) String() string {
	return fmt.Sprintf("%d:%d", r.Page, r.Slot)
}

// frame wraps a page buffer with whether it is still spliced into the
// prev/next chain. An unlinked (fully emptied) page is never again a
// candidate for new inserts — a stand-in for the free-list a real heap
// file would consult instead.
type frame struct {
	page   *heappage.Page
	linked bool
}

// File is an in-memory chain of heappage.Page buffers, all the same
// fixed size, linked in insertion order via prev_page/next_page.
type File struct {
	ID       uuid.UUID
	pageSize int
	frames   []frame
}

// New creates an empty heap file with the given page size. pageSize must
// be large enough to hold the header, one slot, and at least one byte of
// record data.
func New(pageSize int) *File {
	return &File{
		ID:       uuid.New(),
		pageSize: pageSize,
	}
}

// PageSize returns the fixed page size every page in this file uses.
func (f *File) PageSize() int { return f.pageSize }

// NumPages returns the number of pages the file has allocated, including
// pages that were emptied and unlinked from the chain.
func (f *File) NumPages() int { return len(f.frames) }

func (f *File) pageAt(pn heappage.PageNum) (*heappage.Page, error) {
	if pn == heappage.InvalidPageNum || int(pn) >= len(f.frames) {
		return nil, fmt.Errorf("heapfile: page %d out of range", pn)
	}
	return f.frames[pn].page, nil
}

// appendPage allocates and links a new page onto the tail of the chain.
func (f *File) appendPage() *heappage.Page {
	buf := make([]byte, f.pageSize)
	p := heappage.New(buf)
	p.InitializeHeader()

	newNum := heappage.PageNum(len(f.frames))
	if len(f.frames) > 0 {
		last := heappage.PageNum(len(f.frames) - 1)
		f.frames[last].page.SetNext(newNum)
		p.SetPrev(last)
	}
	f.frames = append(f.frames, frame{page: p, linked: true})
	log.Printf("heapfile %s: allocated page %d", f.ID, newNum)
	return p
}

// Insert places record on the first page (scanning prev→next) with
// enough free space, allocating a new page at the tail if none has room.
// A record larger than heappage.MaxRecordSize(f.PageSize()) can never be
// inserted into any page in the file.
func (f *File) Insert(record []byte) (RecordID, error) {
	for i, fr := range f.frames {
		if !fr.linked {
			continue
		}
		if int(fr.page.FreeSpace()) >= len(record) {
			slot, err := fr.page.InsertRecord(record)
			if err != nil {
				return RecordID{}, err
			}
			return RecordID{Page: heappage.PageNum(i), Slot: slot}, nil
		}
	}
	p := f.appendPage()
	slot, err := p.InsertRecord(record)
	if err != nil {
		return RecordID{}, fmt.Errorf("heapfile: insert on fresh page: %w", err)
	}
	return RecordID{Page: heappage.PageNum(len(f.frames) - 1), Slot: slot}, nil
}

// Get copies the record identified by id into out.
func (f *File) Get(id RecordID, out []byte) (int, error) {
	p, err := f.pageAt(id.Page)
	if err != nil {
		return 0, err
	}
	return p.GetRecord(id.Slot, out)
}

// Update replaces the record identified by id in place (same RecordID).
func (f *File) Update(id RecordID, data []byte) error {
	p, err := f.pageAt(id.Page)
	if err != nil {
		return err
	}
	return p.UpdateRecord(id.Slot, data)
}

// Delete removes the record identified by id. If its page becomes empty
// afterward, the page is unlinked from the chain and retired from the
// insert-routing scan; a real heap file would return its page number to
// a free list instead of simply marking it unavailable.
func (f *File) Delete(id RecordID) error {
	p, err := f.pageAt(id.Page)
	if err != nil {
		return err
	}
	if err := p.DeleteRecord(id.Slot); err != nil {
		return err
	}
	if p.IsEmpty() {
		f.unlink(id.Page)
	}
	return nil
}

// unlink splices an empty page out of the prev/next chain and marks it
// unavailable for new inserts.
func (f *File) unlink(pn heappage.PageNum) {
	p := f.frames[pn].page
	prev, next := p.GetPrev(), p.GetNext()
	if prev != heappage.InvalidPageNum {
		if prevPage, err := f.pageAt(prev); err == nil {
			prevPage.SetNext(next)
		}
	}
	if next != heappage.InvalidPageNum {
		if nextPage, err := f.pageAt(next); err == nil {
			nextPage.SetPrev(prev)
		}
	}
	f.frames[pn].linked = false
	log.Printf("heapfile %s: page %d emptied and unlinked", f.ID, pn)
}

// Scan returns every live RecordID in the file, in page order (prev to
// next) and ascending SlotID within each page.
func (f *File) Scan() []RecordID {
	var out []RecordID
	for i, fr := range f.frames {
		sc := heappage.NewScanner(fr.page)
		for slot := sc.GetNext(); slot != heappage.InvalidSlotID; slot = sc.GetNext() {
			out = append(out, RecordID{Page: heappage.PageNum(i), Slot: slot})
		}
	}
	return out
}
