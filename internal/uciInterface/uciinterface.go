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

// Package uciInterface declares the narrow capability interface the search
// package uses to talk back to whatever is driving it, without holding a
// dependency on the uci package itself (which in turn depends on search).
package uciInterface

import (
	"time"

	"github.com/silvaine/corvid/internal/moveslice"
	. "github.com/silvaine/corvid/internal/types"
)

// UciDriver is implemented by the protocol driver (uci.UciHandler) and
// consumed by search.Search. It is the SearchSink half of the driver/search
// relationship: Search holds a non-owning reference to a UciDriver and
// never the other way around, so the two packages do not form an import
// cycle.
type UciDriver interface {
	// SendReadyOk responds to an "isready" command once initialization
	// has completed.
	SendReadyOk()
	// SendInfoString forwards an arbitrary diagnostic string as
	// "info string ...".
	SendInfoString(info string)
	// SendIterationEndInfo reports depth, score and pv after a completed
	// iterative-deepening iteration.
	SendIterationEndInfo(depth int, seldepth int, value Value, nodes uint64, nps uint64, elapsed time.Duration, pv moveslice.MoveSlice)
	// SendSearchUpdate reports periodic progress while a depth iteration
	// is still running.
	SendSearchUpdate(depth int, seldepth int, nodes uint64, nps uint64, elapsed time.Duration, hashfull int)
	// SendAspirationResearchInfo reports a fail-high/fail-low during an
	// aspiration window research.
	SendAspirationResearchInfo(depth int, seldepth int, value Value, bound string, nodes uint64, nps uint64, elapsed time.Duration, pv moveslice.MoveSlice)
	// SendCurrentRootMove reports the root move currently being searched.
	SendCurrentRootMove(currMove Move, moveNumber int)
	// SendCurrentLine reports the variation currently being searched.
	SendCurrentLine(moveList moveslice.MoveSlice)
	// SendResult emits the terminal "bestmove" line.
	SendResult(bestMove Move, ponderMove Move)
}
