package ptyutil

import (
	ioctl "github.com/daedaluz/goioctl"
	"unsafe"
)

var (
	tcgets  = uintptr(0x5401)
	tcsets  = uintptr(0x5402)
	tcsetsw = uintptr(0x5403)
	tcsetsf = uintptr(0x5404)

	tcflsh = uintptr(0x540B)

	tiocswinsz = uintptr(0x5414)
	tiocgwinsz = uintptr(0x5413)

	tiocgptn   = ioctl.IOR('T', 0x30, unsafe.Sizeof(uint32(0)))
	tiocsptlck = ioctl.IOW('T', 0x31, unsafe.Sizeof(int32(0)))
)
