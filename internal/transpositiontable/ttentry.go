//
// Corvid - UCI chess engine in GO for learning purposes
//
// MIT License
//
// Copyright (c) 2018-2020 Corvid Contributors
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.
//

package transpositiontable

import (
	"github.com/silvaine/corvid/internal/position"
	. "github.com/silvaine/corvid/internal/types"
)

// EntrySize is the on-the-wire size in bytes of a single slot entry.
// Kept at 16 bytes so a cache line holds four slots.
const EntrySize = 16

// slotMeta packs depth, bound type and generation into one uint16 so
// a slot fits in 16 bytes total alongside the 64-bit key.
//
//	bits 15..9 (7 bits): search depth, 0..127
//	bits  8..7 (2 bits): bound kind - see Bound
//	bits  6..0 (7 bits): generation counter, wraps at 128
type slotMeta uint16

const (
	genBits   = 7
	genMask   = slotMeta(1<<genBits) - 1
	boundMask = slotMeta(0b11) << genBits
	boundShift = genBits
	depthShift = genBits + 2
)

func packMeta(depth int8, bound Bound, generation int8) slotMeta {
	return slotMeta(depth)<<depthShift | slotMeta(bound)<<boundShift | (slotMeta(generation) & genMask)
}

// Bound records which side of the alpha-beta window a stored value is
// valid for. Named ValueType upstream; Bound reads better next to
// Entry.Bound().
type Bound = ValueType

// Re-export the value-type constants under the vocabulary this package
// uses in doc comments and tests (Exact/Lower/Upper), backed by the
// same underlying ValueType the search package already stores.
const (
	NoBound    = Vnone
	ExactBound = EXACT
	LowerBound = BETA  // fail-high: the true value is >= the stored one
	UpperBound = ALPHA // fail-low:  the true value is <= the stored one
)

// Entry is one slot of the transposition table: a Zobrist key, a best
// move (16-bit encoding), a static eval, a search value, and packed
// depth/bound/generation metadata. Kept at 16 bytes.
type Entry struct {
	zobrist position.Key
	move    uint16
	eval    int16
	value   int16
	meta    slotMeta
}

func newEntry(key position.Key, move Move, value Value, eval Value, depth int8, bound Bound, generation int8) Entry {
	return Entry{
		zobrist: key,
		move:    uint16(move),
		eval:    int16(eval),
		value:   int16(value),
		meta:    packMeta(depth, bound, generation),
	}
}

// Key is the Zobrist hash this entry was stored under.
func (e *Entry) Key() position.Key { return e.zobrist }

// Move returns the stored best move. Only the 16-bit move encoding is
// stored, so the high (sort value) bits are empty; the search value is
// read with Value().
func (e *Entry) Move() Move { return Move(e.move) }

// Value is the search value stored for Depth(), still ply-relative
// for mate scores - callers translate via valueFromTT/valueToTT.
func (e *Entry) Value() Value { return Value(e.value) }

// Eval is the static evaluation recorded for the position, independent
// of search depth.
func (e *Entry) Eval() Value { return Value(e.eval) }

// Depth is the remaining search depth this entry was stored at.
func (e *Entry) Depth() int8 { return int8((e.meta >> depthShift) & 0x7F) }

// Bound reports whether Value() is exact, or a lower/upper bound.
func (e *Entry) Bound() Bound { return Bound((e.meta & boundMask) >> boundShift) }

// Generation is the search iteration counter this entry was last
// touched in; a mismatch against the table's current generation marks
// the slot as stale and preferred for replacement.
func (e *Entry) Generation() int8 { return int8(e.meta & genMask) }

func (e *Entry) touch(generation int8) {
	e.meta = (e.meta &^ slotMeta(genMask)) | (slotMeta(generation) & genMask)
}

func (e *Entry) isEmpty() bool { return e.zobrist == 0 }
