package providers

import (
	"bytes"
	"encoding/binary"
	"sync"

	"github.com/google/uuid"
	"github.com/ukaji3/xlsql-go/pkg/xlsql/models"
)

// handleMagic prefixes every encoded row handle.
var handleMagic = []byte("XLRW")

const handleSize = 4 + 16 + 8 + 8 // magic, arena owner, result id, row

// Arena stores the rows materialized by xl_rows cursors so that the row
// handles they emit can be resolved by xl_at. A handle resolves only while
// its cursor is positioned on the handle's row.
//
// An Arena is safe for concurrent use; one Arena serves every cursor of a
// registry.
type Arena struct {
	owner uuid.UUID

	mu      sync.Mutex
	nextID  uint64
	results map[uint64]*arenaResult
}

type arenaResult struct {
	sheet   *models.Sheet
	current int
}

// NewArena creates an empty arena with a fresh identity.
func NewArena() *Arena {
	return &Arena{
		owner:   uuid.New(),
		results: make(map[uint64]*arenaResult),
	}
}

// Owner is the identity embedded in every handle this arena issues.
func (a *Arena) Owner() uuid.UUID { return a.owner }

// alloc stores a sheet's rows and returns their result id.
func (a *Arena) alloc(sheet *models.Sheet) uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.nextID++
	a.results[a.nextID] = &arenaResult{sheet: sheet}
	return a.nextID
}

// position records the row the owning cursor is on.
func (a *Arena) position(id uint64, row int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if r, ok := a.results[id]; ok {
		r.current = row
	}
}

// release drops a result; its handles become stale.
func (a *Arena) release(id uint64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.results, id)
}

// Len reports how many results are live.
func (a *Arena) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.results)
}

// handle encodes a reference to row of result id.
func (a *Arena) handle(id uint64, row int) []byte {
	buf := make([]byte, 0, handleSize)
	buf = append(buf, handleMagic...)
	buf = append(buf, a.owner[:]...)
	buf = binary.BigEndian.AppendUint64(buf, id)
	buf = binary.BigEndian.AppendUint64(buf, uint64(row))
	return buf
}

// Resolve returns the row a handle refers to, anchored at column A.
func (a *Arena) Resolve(v any) (models.RowRecord, error) {
	h, ok := v.([]byte)
	if !ok || len(h) != handleSize || !bytes.HasPrefix(h, handleMagic) {
		return nil, NewLookupError("", ErrForeignHandle)
	}
	h = h[len(handleMagic):]
	if !bytes.Equal(h[:16], a.owner[:]) {
		return nil, NewLookupError("", ErrForeignHandle)
	}
	id := binary.BigEndian.Uint64(h[16:24])
	row := binary.BigEndian.Uint64(h[24:32])

	a.mu.Lock()
	r, ok := a.results[id]
	var sheet *models.Sheet
	if ok && uint64(r.current) == row {
		sheet = r.sheet
	}
	a.mu.Unlock()

	if sheet == nil {
		return nil, NewLookupError("", ErrStaleHandle)
	}
	return sheet.Row(int(row)), nil
}
