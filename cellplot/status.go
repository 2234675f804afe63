// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"

	"golang.org/x/crypto/ssh/terminal"
)

// A StatusReporter prints progress lines that overwrite each other,
// shown only when stdout is a terminal. Messages persist; when stdout
// is not a terminal they go to stderr so they can't mix with results.
type StatusReporter struct {
	update chan<- statusUpdate
	done   chan bool
}

type statusUpdate struct {
	progress float64
	message  string
}

func NewStatusReporter() *StatusReporter {
	if os.Getenv("TERM") == "dumb" || !terminal.IsTerminal(1) {
		return &StatusReporter{}
	}
	update := make(chan statusUpdate)
	sr := &StatusReporter{update: update}
	go sr.loop(update)
	return sr
}

func (sr *StatusReporter) Progress(msg string, frac float64) {
	if sr.update != nil {
		sr.update <- statusUpdate{message: msg, progress: frac}
	}
}

func (sr *StatusReporter) Message(msg string) {
	if sr.update == nil {
		fmt.Fprintln(os.Stderr, msg)
	} else {
		sr.update <- statusUpdate{message: msg, progress: -1}
	}
}

func (sr *StatusReporter) Stop() {
	if sr.update != nil {
		sr.done = make(chan bool)
		close(sr.update)
		<-sr.done
		sr.update = nil
	}
}

func (sr *StatusReporter) loop(updates <-chan statusUpdate) {
	const resetLine = "\r\x1b[2K"
	const wrapOff = "\x1b[?7l"
	const wrapOn = "\x1b[?7h"

	for update := range updates {
		if update.progress == -1 {
			fmt.Print(resetLine)
			fmt.Println(update.message)
			continue
		}
		fmt.Printf("%s%s%s [%3.0f%%]%s", resetLine, wrapOff, update.message, update.progress*100, wrapOn)
	}
	fmt.Print(resetLine)
	close(sr.done)
}
