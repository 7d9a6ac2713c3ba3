package heappage

import "errors"

// Sentinel errors for the four kinds of failure a Page operation can
// report. Callers distinguish them with errors.Is, the same
// pattern the rest of this module's ancestry uses for os.ErrNotExist and
// io.EOF — never by matching on error strings.
var (
	// ErrEmptyData is returned by InsertRecord/UpdateRecord when the
	// caller passes a zero-length record.
	ErrEmptyData = errors.New("heappage: empty record data")

	// ErrInsufficientSpace is returned when a record would not fit in
	// the space FreeSpace reports as available (or, for update, in the
	// raw free bytes between the directory and the record region plus
	// the slot's existing bytes).
	ErrInsufficientSpace = errors.New("heappage: insufficient space")

	// ErrInvalidSlotID is returned when a SlotID is out of range or
	// refers to a free (already-deleted) slot.
	ErrInvalidSlotID = errors.New("heappage: invalid slot id")

	// ErrInsufficientBuffer is returned by GetRecord when the caller's
	// output buffer is smaller than the stored record.
	ErrInsufficientBuffer = errors.New("heappage: output buffer too small")
)
