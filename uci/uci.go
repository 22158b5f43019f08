// Copyright 2014-2016 The Zurichess Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package uci implements the Universal Chess Interface protocol,
// described at http://wbec-ridderkerk.nl/html/UCIProtocol.html.
package uci

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"log"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PS-Wizard/OopsMate/engine"
)

// errQuit unwinds Run's loop when "quit" is read.
var errQuit = errors.New("quit")

// DefaultHashTableSizeMB is advertised to the GUI as the Hash option's
// default value and used when no "setoption name Hash" is received.
const DefaultHashTableSizeMB = 64

// Logger prints search progress as UCI "info" lines.
type logger struct {
	out   io.Writer
	start time.Time
	buf   bytes.Buffer
}

func newLogger(out io.Writer) *logger {
	return &logger{out: out}
}

func (l *logger) BeginSearch() {
	l.start = time.Now()
	l.buf.Reset()
}

func (l *logger) EndSearch() {
	l.flush()
}

func (l *logger) PrintPV(stats engine.Stats, score int32, pv []engine.Move) {
	now := time.Now()
	fmt.Fprintf(&l.buf, "info depth %d seldepth %d ", stats.Depth, stats.SelDepth)

	switch {
	case score > engine.MateScore-engine.MaxSearchPly:
		fmt.Fprintf(&l.buf, "score mate %d ", (engine.MateScore-score+1)/2)
	case score < engine.MatedScore+engine.MaxSearchPly:
		fmt.Fprintf(&l.buf, "score mate %d ", (engine.MatedScore-score)/2)
	default:
		fmt.Fprintf(&l.buf, "score cp %d ", score)
	}

	elapsed := maxDuration(now.Sub(l.start), time.Microsecond)
	millis := uint64(elapsed / time.Millisecond)
	nps := stats.Nodes * uint64(time.Second) / uint64(elapsed)
	fmt.Fprintf(&l.buf, "nodes %d time %d nps %d ", stats.Nodes, millis, nps)

	fmt.Fprint(&l.buf, "pv")
	for _, m := range pv {
		fmt.Fprintf(&l.buf, " %v", m.UCI())
	}
	fmt.Fprint(&l.buf, "\n")
	l.flush()
}

func (l *logger) flush() {
	l.out.Write(l.buf.Bytes())
	l.buf.Reset()
}

func maxDuration(a, b time.Duration) time.Duration {
	if a > b {
		return a
	}
	return b
}

// UCI drives one engine instance through a line-oriented protocol
// session. Commands that mutate engine state run synchronously except
// "go", which hands the search off to its own goroutine so "stop" and
// "ponderhit" can still be read from the same input stream while a
// search is in flight.
type UCI struct {
	Engine *engine.Engine
	out    io.Writer

	timeControl *engine.TimeControl
	rootMoves   []engine.Move

	// buffered 1; filled while a search goroutine is running.
	busy chan struct{}
	// buffered 1; filled while pondering, so ponderhit/stop can join it.
	pondering chan struct{}

	predicted uint64
}

// New builds a UCI session writing info/bestmove lines to out.
func New(out io.Writer) *UCI {
	u := &UCI{
		out:       out,
		busy:      make(chan struct{}, 1),
		pondering: make(chan struct{}, 1),
	}
	u.Engine = engine.NewEngine(nil, newLogger(out), engine.Options{HashSizeMB: DefaultHashTableSizeMB})
	return u
}

// Run reads UCI commands from in until "quit" or EOF.
func (u *UCI) Run(in io.Reader) error {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 1<<20), 1<<20)
	for scanner.Scan() {
		if err := u.Execute(scanner.Text()); err != nil {
			if err == errQuit {
				return nil
			}
			log.Println("uci:", err)
		}
	}
	return scanner.Err()
}

var reCmd = regexp.MustCompile(`^[[:word:]]+\b`)

// Execute parses and runs a single UCI command line.
func (u *UCI) Execute(line string) error {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}

	cmd := reCmd.FindString(line)
	if cmd == "" {
		return fmt.Errorf("invalid command line")
	}

	// These never need to wait for the search goroutine to settle.
	switch cmd {
	case "isready":
		return u.isready()
	case "quit":
		return errQuit
	case "stop":
		return u.stop()
	case "uci":
		return u.uci()
	case "ponderhit":
		return u.ponderhit()
	}

	// Everything else requires the engine to be idle first.
	u.busy <- struct{}{}
	<-u.busy

	switch cmd {
	case "ucinewgame":
		return u.ucinewgame()
	case "position":
		return u.position(line)
	case "go":
		return u.goCmd(line)
	case "setoption":
		return u.setoption(line)
	default:
		return fmt.Errorf("unhandled command %q", cmd)
	}
}

func (u *UCI) uci() error {
	fmt.Fprintln(u.out, "id name OopsMate")
	fmt.Fprintln(u.out, "id author the OopsMate contributors")
	fmt.Fprintln(u.out)
	fmt.Fprintf(u.out, "option name Hash type spin default %d min 1 max 65536\n", DefaultHashTableSizeMB)
	fmt.Fprintln(u.out, "option name Ponder type check default true")
	fmt.Fprintln(u.out, "option name UCI_AnalyseMode type check default false")
	fmt.Fprintln(u.out, "option name Clear Hash type button")
	fmt.Fprintln(u.out, "uciok")
	return nil
}

func (u *UCI) isready() error {
	fmt.Fprintln(u.out, "readyok")
	return nil
}

func (u *UCI) ucinewgame() error {
	u.Engine.NewGame()
	return nil
}

func (u *UCI) position(line string) error {
	args := strings.Fields(line)[1:]
	if len(args) == 0 {
		return fmt.Errorf("expected argument for 'position'")
	}

	var pos *engine.Position
	var err error
	i := 0
	switch args[0] {
	case "startpos":
		pos, err = engine.PositionFromFEN(engine.FENStartPos)
		i = 1
	case "fen":
		i = 1
		for i < len(args) && args[i] != "moves" {
			i++
		}
		pos, err = engine.PositionFromFEN(strings.Join(args[1:i], " "))
	default:
		err = fmt.Errorf("unknown position command %q", args[0])
	}
	if err != nil {
		return err
	}

	u.Engine.SetPosition(pos)

	if i < len(args) {
		if args[i] != "moves" {
			return fmt.Errorf("expected 'moves', got %q", args[i])
		}
		for _, s := range args[i+1:] {
			move, err := parseUCIMove(u.Engine.Position, s)
			if err != nil {
				return err
			}
			u.Engine.DoMove(move)
		}
	}
	return nil
}

// parseUCIMove resolves a long algebraic move string against pos's
// legal moves, since a bare from/to/promotion string doesn't by itself
// distinguish castling or en passant flags.
func parseUCIMove(pos *engine.Position, s string) (engine.Move, error) {
	var buf [engine.MaxMoves]engine.Move
	for _, m := range pos.GenerateLegalMoves(buf[:0]) {
		if m.UCI() == s {
			return m, nil
		}
	}
	return 0, fmt.Errorf("illegal or unrecognized move %q", s)
}

var validGoCommands = map[string]bool{
	"searchmoves": true,
	"ponder":      true,
	"wtime":       true,
	"btime":       true,
	"winc":        true,
	"binc":        true,
	"movestogo":   true,
	"depth":       true,
	"nodes":       true,
	"mate":        true,
	"movetime":    true,
	"infinite":    true,
}

func (u *UCI) goCmd(line string) error {
	u.timeControl = engine.NewTimeControl(u.Engine.Position)
	u.rootMoves = u.rootMoves[:0]
	ponder := false
	infinite := false

	args := strings.Fields(line)[1:]
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "searchmoves":
			for j := i + 1; j < len(args) && !validGoCommands[args[j]]; j++ {
				m, err := parseUCIMove(u.Engine.Position, args[j])
				if err != nil {
					return err
				}
				i = j
				u.rootMoves = append(u.rootMoves, m)
			}
		case "ponder":
			ponder = true
		case "infinite":
			infinite = true
		case "wtime":
			i++
			t, _ := strconv.Atoi(args[i])
			u.timeControl.WTime = time.Duration(t) * time.Millisecond
		case "winc":
			i++
			t, _ := strconv.Atoi(args[i])
			u.timeControl.WInc = time.Duration(t) * time.Millisecond
		case "btime":
			i++
			t, _ := strconv.Atoi(args[i])
			u.timeControl.BTime = time.Duration(t) * time.Millisecond
		case "binc":
			i++
			t, _ := strconv.Atoi(args[i])
			u.timeControl.BInc = time.Duration(t) * time.Millisecond
		case "movestogo":
			i++
			t, _ := strconv.Atoi(args[i])
			u.timeControl.MovesToGo = t
		case "movetime":
			i++
			t, _ := strconv.Atoi(args[i])
			u.timeControl = engine.NewMoveTimeControl(u.Engine.Position, time.Duration(t)*time.Millisecond)
		case "depth":
			i++
			d, _ := strconv.Atoi(args[i])
			u.timeControl.Depth = d
		case "nodes", "mate":
			i++
			log.Println(args[i-1], "not implemented, ignoring")
		default:
			return fmt.Errorf("invalid go argument %q", args[i])
		}
	}
	if infinite {
		u.timeControl.Depth = engine.MaxSearchPly
	}

	if ponder {
		// PonderHit/stop both try to join this channel; filling it now
		// makes a bare "go ponder" block until one of them does.
		u.pondering <- struct{}{}
	}

	u.timeControl.Start(ponder)
	u.busy <- struct{}{}
	go u.play()
	return nil
}

func (u *UCI) ponderhit() error {
	if u.timeControl != nil {
		u.timeControl.PonderHit()
	}
	select {
	case <-u.pondering:
	default:
	}
	return nil
}

func (u *UCI) stop() error {
	if u.timeControl != nil {
		u.timeControl.Stop()
	}
	select {
	case <-u.pondering:
	default:
	}
	// Wait for the in-flight search goroutine to finish and release busy.
	u.busy <- struct{}{}
	<-u.busy
	return nil
}

// play runs one search to completion and prints bestmove. It must run
// in its own goroutine so Execute can keep servicing stop/ponderhit.
func (u *UCI) play() {
	moves := u.Engine.Play(u.timeControl)

	if len(moves) >= 2 {
		u.Engine.Position.Make(moves[0])
		u.Engine.Position.Make(moves[1])
		u.predicted = u.Engine.Position.Zobrist
		u.Engine.Position.Unmake(moves[1])
		u.Engine.Position.Unmake(moves[0])
	} else if len(moves) == 1 {
		u.predicted = u.Engine.Position.Zobrist
	}

	// If a ponder was requested, block here until ponderhit/stop frees it.
	u.pondering <- struct{}{}
	<-u.pondering

	switch len(moves) {
	case 0:
		fmt.Fprintln(u.out, "bestmove 0000")
	case 1:
		fmt.Fprintf(u.out, "bestmove %v\n", moves[0].UCI())
	default:
		fmt.Fprintf(u.out, "bestmove %v ponder %v\n", moves[0].UCI(), moves[1].UCI())
	}

	<-u.busy
}

var reOption = regexp.MustCompile(`^setoption\s+name\s+(.+?)(\s+value\s+(.*))?$`)

func (u *UCI) setoption(line string) error {
	m := reOption.FindStringSubmatch(line)
	if m == nil {
		return fmt.Errorf("invalid setoption arguments")
	}

	switch m[1] {
	case "Clear Hash":
		u.Engine.NewGame()
		return nil
	case "Ponder":
		return nil
	}

	if m[3] == "" {
		return fmt.Errorf("missing setoption value for %q", m[1])
	}
	switch m[1] {
	case "UCI_AnalyseMode":
		mode, err := strconv.ParseBool(m[3])
		if err != nil {
			return err
		}
		u.Engine.Options.AnalyseMode = mode
		return nil
	case "Hash":
		size, err := strconv.Atoi(m[3])
		if err != nil {
			return err
		}
		u.Engine.SetHashSizeMB(size)
		return nil
	default:
		return fmt.Errorf("unhandled option %q", m[1])
	}
}
