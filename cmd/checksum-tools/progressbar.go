package main

import (
	"os"
	"path/filepath"

	"github.com/folbricht/checksum-tools"
	"golang.org/x/crypto/ssh/terminal"
	pb "gopkg.in/cheggaaa/pb.v1"
)

// NewProgressBar initializes a wrapper for a https://github.com/cheggaaa/pb
// progressbar counting bytes. Returns nil if stderr is not a terminal.
func NewProgressBar(prefix string) *ProgressBar {
	if !terminal.IsTerminal(int(os.Stderr.Fd())) {
		return nil
	}
	bar := pb.New64(0).Prefix(prefix).SetUnits(pb.U_BYTES)
	bar.ShowCounters = false
	bar.Output = os.Stderr
	return &ProgressBar{ProgressBar: bar}
}

type ProgressBar struct {
	*pb.ProgressBar
	started bool
}

// Set updates the bar, starting it on the first call.
func (p *ProgressBar) Set(total, current int64) {
	if !p.started {
		p.SetTotal64(total)
		p.Start()
		p.started = true
	}
	p.Set64(current)
}

// Finish stops the bar if it was started.
func (p *ProgressBar) Finish() {
	if p.started {
		p.ProgressBar.Finish()
	}
}

// fileProgress drives one progressbar per file and passes verification
// results on to an optional handler. Its Progress method is a
// checksum.ProgressFunc.
type fileProgress struct {
	bar      *ProgressBar
	onResult func(name string, r checksum.VerifyResult)
}

func (p *fileProgress) Progress(name string, size, pos int64, result *checksum.VerifyResult) {
	switch {
	case result != nil:
		p.Finish()
		if p.onResult != nil {
			p.onResult(name, *result)
		}
	case size < 0:
		p.Finish()
		p.bar = NewProgressBar(filepath.Base(name) + " ")
	case p.bar != nil:
		p.bar.Set(size, pos)
	}
}

// Finish stops the bar of the current file, if any.
func (p *fileProgress) Finish() {
	if p.bar != nil {
		p.bar.Finish()
		p.bar = nil
	}
}
