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

// Package transpositiontable implements the search's position cache: a
// flat, open-addressed array of Entry slots keyed by Zobrist hash. A
// Table is not safe for concurrent Put/Probe and Resize/Clear - callers
// must serialize Resize/Clear against any in-flight search the same way
// the rest of this engine treats the search worker as single-threaded.
package transpositiontable

import (
	"math"
	"unsafe"

	"github.com/op/go-logging"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	myLogging "github.com/silvaine/corvid/internal/logging"
	"github.com/silvaine/corvid/internal/position"
	. "github.com/silvaine/corvid/internal/types"
	"github.com/silvaine/corvid/internal/util"
)

var out = message.NewPrinter(language.German)

// MaxSizeMiB is the largest table size this engine will honor for a
// -Hash/setoption request; larger requests are clamped and logged.
const MaxSizeMiB = 65_536

// Table is a Zobrist-keyed cache of prior search results.
type Table struct {
	log        *logging.Logger
	slots      []Entry
	slotMask   uint64
	slotCount  uint64
	used       uint64
	generation int8
	Counters   Counters
}

// Counters is a snapshot of how a Table has been used since the last
// Clear, surfaced via String() for UCI "info string" diagnostics.
type Counters struct {
	Puts       uint64
	Updates    uint64
	Collisions uint64
	Overwrites uint64
	Probes     uint64
	Hits       uint64
	Misses     uint64
}

// New builds a Table sized to the nearest power-of-two slot count that
// fits within sizeMiB.
func New(sizeMiB int) *Table {
	t := &Table{log: myLogging.GetLog()}
	t.Resize(sizeMiB)
	return t
}

// Resize reallocates the table for a new memory budget, discarding all
// entries. Not safe to call while a search is using the table.
func (t *Table) Resize(sizeMiB int) {
	if sizeMiB > MaxSizeMiB {
		t.log.Error(out.Sprintf("requested TT size %d MiB clamped to max %d MiB", sizeMiB, MaxSizeMiB))
		sizeMiB = MaxSizeMiB
	}

	budget := uint64(sizeMiB) * MB
	slotCount := uint64(0)
	if budget >= EntrySize {
		slotCount = uint64(1) << uint(math.Floor(math.Log2(float64(budget/EntrySize))))
	}

	t.slotCount = slotCount
	t.slotMask = slotCount - 1 // slotCount==0 leaves slotMask huge, but slots is then also empty
	t.slots = make([]Entry, slotCount)
	t.used = 0
	t.generation = 0
	t.Counters = Counters{}

	t.log.Info(out.Sprintf("TT resized to %d MiB, %d slots of %d bytes each (requested %d MiB)",
		(slotCount*EntrySize)/MB, slotCount, unsafe.Sizeof(Entry{}), sizeMiB))
	t.log.Debug(util.MemStat())
}

func (t *Table) slot(key position.Key) uint64 {
	if t.slotCount == 0 {
		return 0
	}
	return uint64(key) & t.slotMask
}

// GetEntry returns the slot for key without touching its generation or
// any counters - used by tests and by getPVLine to walk stored lines.
func (t *Table) GetEntry(key position.Key) *Entry {
	if t.slotCount == 0 {
		return nil
	}
	e := &t.slots[t.slot(key)]
	if e.Key() == key {
		return e
	}
	return nil
}

// Probe looks up key and, on a hit, refreshes the slot's generation so
// it survives the next NewGeneration() sweep.
func (t *Table) Probe(key position.Key) *Entry {
	t.Counters.Probes++
	if t.slotCount == 0 {
		t.Counters.Misses++
		return nil
	}
	e := &t.slots[t.slot(key)]
	if e.Key() != key {
		t.Counters.Misses++
		return nil
	}
	e.touch(t.generation)
	t.Counters.Hits++
	return e
}

// Put stores a search result. An occupant holding a different position
// is replaced per replacementWins; an occupant holding the same position
// is updated unless it is EXACT and from a deeper search than the new one.
func (t *Table) Put(key position.Key, move Move, depth int8, value Value, bound Bound, eval Value) {
	if t.slotCount == 0 {
		return
	}
	t.Counters.Puts++

	slotIdx := t.slot(key)
	occupant := &t.slots[slotIdx]

	switch {
	case occupant.isEmpty():
		t.used++
	case occupant.Key() != key:
		t.Counters.Collisions++
		if !replacementWins(occupant, depth, t.generation) {
			return
		}
		t.Counters.Overwrites++
	default:
		if occupant.Bound() == ExactBound && occupant.Depth() > depth {
			return
		}
		t.Counters.Updates++
		if move == MoveNone {
			move = occupant.Move().MoveOf() // keep a previously stored move
		}
		if value == ValueNA {
			value = occupant.Value()
		}
		if eval == ValueNA {
			eval = occupant.Eval()
		}
	}

	*occupant = newEntry(key, move, value, eval, depth, bound, t.generation)
}

// replacementWins decides whether a new entry of the given depth should
// evict the slot's current occupant when their keys differ: an entry
// from a stale generation is always replaced; otherwise only a deeper
// search wins.
func replacementWins(occupant *Entry, newDepth int8, currentGeneration int8) bool {
	if occupant.Generation() != currentGeneration {
		return true
	}
	return newDepth >= occupant.Depth()
}

// Clear discards every entry. Not safe to call while a search is using
// the table.
func (t *Table) Clear() {
	t.slots = make([]Entry, t.slotCount)
	t.used = 0
	t.generation = 0
	t.Counters = Counters{}
}

// NewGeneration marks the table as belonging to a new search iteration;
// existing entries are not touched individually, they simply become
// eligible for eviction the next time their slot collides. Rolls over
// at the bound the packed metadata can hold (0..127).
func (t *Table) NewGeneration() {
	t.generation = int8((int(t.generation) + 1) & 0x7F)
}

// Hashfull reports slot occupancy in permille, the form UCI's "info
// hashfull" expects.
func (t *Table) Hashfull() int {
	if t.slotCount == 0 {
		return 0
	}
	return int((1000 * t.used) / t.slotCount)
}

// Len returns the number of occupied slots.
func (t *Table) Len() uint64 { return t.used }

// String renders a one-line diagnostic summary of size and hit rate.
func (t *Table) String() string {
	c := t.Counters
	return out.Sprintf("TT: %d MiB, %d/%d slots used (%d%%), puts %d updates %d collisions %d "+
		"overwrites %d, probes %d hits %d (%d%%) misses %d (%d%%)",
		(t.slotCount*EntrySize)/MB, t.used, t.slotCount, t.Hashfull()/10,
		c.Puts, c.Updates, c.Collisions, c.Overwrites,
		c.Probes, c.Hits, (c.Hits*100)/(1+c.Probes), c.Misses, (c.Misses*100)/(1+c.Probes))
}

// AgeEntries marks the table as belonging to a new search iteration.
// A prior design walked every slot in parallel goroutines to decrement
// a per-entry counter; comparing each slot's Generation() against the
// table's current one at Put time makes that walk unnecessary.
func (t *Table) AgeEntries() {
	t.NewGeneration()
}
