/*
 * Corvid - UCI chess engine in GO for learning purposes
 *
 * MIT License
 *
 * Copyright (c) 2018-2020 Corvid Contributors
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 */

package transpositiontable

import (
	"os"
	"path"
	"runtime"
	"testing"
	"unsafe"

	logging2 "github.com/op/go-logging"
	"github.com/stretchr/testify/assert"

	"github.com/silvaine/corvid/internal/config"
	"github.com/silvaine/corvid/internal/logging"
	"github.com/silvaine/corvid/internal/position"
	. "github.com/silvaine/corvid/internal/types"
)

var logTest *logging2.Logger

// make tests run in the projects root directory
func init() {
	_, filename, _, _ := runtime.Caller(0)
	dir := path.Join(path.Dir(filename), "../..")
	err := os.Chdir(dir)
	if err != nil {
		panic(err)
	}
}

func TestMain(m *testing.M) {
	config.Setup()
	logTest = logging.GetTestLog()
	code := m.Run()
	os.Exit(code)
}

func TestEntrySize(t *testing.T) {
	var e Entry
	assert.EqualValues(t, 16, unsafe.Sizeof(e))
	logTest.Debugf("Size of Entry %d bytes", unsafe.Sizeof(e))
}

func TestPackMeta(t *testing.T) {
	m := packMeta(27, LowerBound, 5)
	assert.EqualValues(t, 27, (m>>depthShift)&0x7F)
	assert.EqualValues(t, LowerBound, Bound((m&boundMask)>>boundShift))
	assert.EqualValues(t, 5, m&genMask)
}

func TestNew(t *testing.T) {
	tt := New(2)
	assert.Equal(t, uint64(131_072), tt.slotCount)
	assert.Equal(t, 131_072, cap(tt.slots))

	tt = New(64)
	assert.Equal(t, uint64(4_194_304), tt.slotCount)
	assert.Equal(t, 4_194_304, cap(tt.slots))

	tt = New(100)
	assert.Equal(t, uint64(4_194_304), tt.slotCount)
	assert.Equal(t, 4_194_304, cap(tt.slots))

	tt = New(4_096)
	assert.Equal(t, uint64(268_435_456), tt.slotCount)
	assert.Equal(t, 268_435_456, cap(tt.slots))
}

func TestGetAndProbe(t *testing.T) {
	tt := New(64)
	pos := position.NewPosition()
	move := CreateMove(SqE2, SqE4, Normal, PtNone)

	tt.slots[tt.slot(pos.ZobristKey())] = newEntry(pos.ZobristKey(), move, 0, 0, 5, NoBound, 0)
	tt.used++

	e := tt.GetEntry(pos.ZobristKey())
	assert.Equal(t, pos.ZobristKey(), e.Key())
	assert.Equal(t, move, e.Move().MoveOf())
	assert.EqualValues(t, 5, e.Depth())
	assert.EqualValues(t, NoBound, e.Bound())

	// Probe refreshes the entry's generation to the table's current one.
	tt.generation = 3
	e = tt.Probe(pos.ZobristKey())
	assert.Equal(t, pos.ZobristKey(), e.Key())
	assert.EqualValues(t, 3, e.Generation())

	// not in tt
	pos.DoMove(move)
	e = tt.Probe(pos.ZobristKey())
	assert.Nil(t, e)
}

func TestClear(t *testing.T) {
	tt := New(1)
	pos := position.NewPosition()
	move := CreateMove(SqE2, SqE4, Normal, PtNone)

	tt.Put(pos.ZobristKey(), move, 5, Value(111), NoBound, ValueNA)
	assert.EqualValues(t, 1, tt.Len())

	e := tt.Probe(pos.ZobristKey())
	assert.Equal(t, pos.ZobristKey(), e.Key())

	tt.Clear()

	e = tt.Probe(pos.ZobristKey())
	assert.Nil(t, e)
	assert.EqualValues(t, 0, tt.Len())
}

func TestNewGeneration(t *testing.T) {
	tt := New(64)
	assert.EqualValues(t, 0, tt.generation)
	tt.NewGeneration()
	assert.EqualValues(t, 1, tt.generation)

	tt.generation = 127
	tt.NewGeneration()
	assert.EqualValues(t, 0, tt.generation, "generation wraps at the 7-bit packed width")
}

func TestPut(t *testing.T) {
	tt := New(4)
	move := CreateMove(SqE2, SqE4, Normal, PtNone)

	// fresh slot
	tt.Put(111, move, 4, Value(111), UpperBound, ValueNA)
	assert.EqualValues(t, 1, tt.Len())
	assert.EqualValues(t, 1, tt.Counters.Puts)
	e := tt.Probe(111)
	a := assert.New(t)
	a.EqualValues(111, e.Key())
	a.EqualValues(move, e.Move().MoveOf())
	a.EqualValues(111, e.Value())
	a.EqualValues(4, e.Depth())
	a.EqualValues(UpperBound, e.Bound())

	// same key, deeper search: update in place
	tt.Put(111, move, 5, Value(112), LowerBound, ValueNA)
	assert.EqualValues(t, 1, tt.Len())
	assert.EqualValues(t, 2, tt.Counters.Puts)
	assert.EqualValues(t, 1, tt.Counters.Updates)
	assert.EqualValues(t, 0, tt.Counters.Collisions)
	e = tt.Probe(111)
	assert.EqualValues(t, 112, e.Value())
	assert.EqualValues(t, 5, e.Depth())
	assert.EqualValues(t, LowerBound, e.Bound())

	// different key, same slot, current generation, deeper: overwrites
	collisionKey := position.Key(111 + tt.slotCount)
	tt.Put(collisionKey, move, 6, Value(113), ExactBound, ValueNA)
	assert.EqualValues(t, 1, tt.Len())
	assert.EqualValues(t, 3, tt.Counters.Puts)
	assert.EqualValues(t, 1, tt.Counters.Collisions)
	assert.EqualValues(t, 1, tt.Counters.Overwrites)
	e = tt.Probe(collisionKey)
	assert.EqualValues(t, collisionKey, e.Key())
	assert.EqualValues(t, 113, e.Value())
	assert.EqualValues(t, ExactBound, e.Bound())

	// different key, same slot, current generation, shallower: rejected
	collisionKey2 := position.Key(111 + (tt.slotCount << 1))
	tt.Put(collisionKey2, move, 4, Value(114), LowerBound, ValueNA)
	assert.EqualValues(t, 1, tt.Len())
	assert.EqualValues(t, 2, tt.Counters.Collisions)
	assert.EqualValues(t, 1, tt.Counters.Overwrites)
	assert.Nil(t, tt.Probe(collisionKey2))
	e = tt.Probe(collisionKey)
	assert.EqualValues(t, collisionKey, e.Key(), "shallower same-generation entry must not evict")

	// a stale generation always loses, regardless of depth
	tt.NewGeneration()
	tt.Put(collisionKey2, move, 1, Value(115), LowerBound, ValueNA)
	assert.EqualValues(t, 3, tt.Counters.Collisions)
	assert.EqualValues(t, 2, tt.Counters.Overwrites)
	e = tt.Probe(collisionKey2)
	a.NotNil(e)
	a.EqualValues(collisionKey2, e.Key())
}

func TestHashfull(t *testing.T) {
	tt := New(1)
	assert.Equal(t, 0, tt.Hashfull())
	move := CreateMove(SqE2, SqE4, Normal, PtNone)
	for i := uint64(0); i < tt.slotCount/2; i++ {
		tt.Put(position.Key(i*2+1), move, 1, ValueDraw, ExactBound, ValueNA)
	}
	assert.InDelta(t, 500, tt.Hashfull(), 5)
}
