package ptyutil

import (
	"errors"
	"fmt"
	ioctl "github.com/daedaluz/goioctl"
	"syscall"
	"unsafe"
)

// Pty is an allocated pseudoterminal pair: Master is kept open by the
// parent, Slave is handed to the child via exec. masterClosed/
// slaveClosed track each descriptor independently, because cmd/luit
// closes Slave on its own right after the child inherits it and then
// later calls Close from whichever branch of its poll loop ends the
// session -- without the guard, Close would call syscall.Close on an
// already-closed Slave fd a second time, and by then that integer may
// have been reused for something else entirely.
type Pty struct {
	Master int
	Slave  int
	Name   string

	masterClosed bool
	slaveClosed  bool
}

// Allocate opens /dev/ptmx, unlocks the peer with TIOCSPTLCK, resolves
// its pty number with TIOCGPTN and opens /dev/pts/<n> by path,
// mirroring Daedaluz-goserial's OpenPTY but returning raw descriptors
// instead of *Port, since the translator owns its own read/write loop
// rather than a serial-style Port.
func Allocate() (*Pty, error) {
	master, err := syscall.Open("/dev/ptmx", syscall.O_RDWR|syscall.O_NOCTTY, 0)
	if err != nil {
		return nil, wrapErr("open /dev/ptmx", err)
	}

	var unlock int32
	if err := ioctl.Ioctl(uintptr(master), tiocsptlck, uintptr(unsafe.Pointer(&unlock))); err != nil {
		syscall.Close(master)
		return nil, wrapErr("unlock pty", err)
	}

	var ptn uint32
	if err := ioctl.Ioctl(uintptr(master), tiocgptn, uintptr(unsafe.Pointer(&ptn))); err != nil {
		syscall.Close(master)
		return nil, wrapErr("get pty number", err)
	}
	name := fmt.Sprintf("/dev/pts/%d", ptn)

	slave, err := syscall.Open(name, syscall.O_RDWR|syscall.O_NOCTTY, 0)
	if err != nil {
		syscall.Close(master)
		return nil, wrapErr("open "+name, err)
	}

	return &Pty{Master: master, Slave: slave, Name: name}, nil
}

// Close closes both descriptors, tolerating either one already having
// been closed individually through CloseMaster/CloseSlave.
func (p *Pty) Close() error {
	e1 := p.CloseMaster()
	e2 := p.CloseSlave()
	if e1 != nil && !errors.Is(e1, ErrClosed) {
		return e1
	}
	if e2 != nil && !errors.Is(e2, ErrClosed) {
		return e2
	}
	return nil
}

// CloseMaster releases the parent's end only; Close calls it.
// Returns ErrClosed if the master side was already closed.
func (p *Pty) CloseMaster() error {
	if p.masterClosed {
		return ErrClosed
	}
	p.masterClosed = true
	return wrapErr("close master", syscall.Close(p.Master))
}

// CloseSlave releases the parent's copy of the slave descriptor once
// the child has inherited it, so the master side sees EOF/hangup when
// the child's own copy closes. Returns ErrClosed if the slave side was
// already closed.
func (p *Pty) CloseSlave() error {
	if p.slaveClosed {
		return ErrClosed
	}
	p.slaveClosed = true
	return wrapErr("close slave", syscall.Close(p.Slave))
}
