// Command luit runs a child program behind a pseudoterminal and
// translates between the child's ISO 2022 locale encoding and the
// UTF-8 the invoking terminal speaks, the way the original luit(1)
// does, grounded on _examples/original_source/luit.c's
// parseOptions/condom/child/parent/convert.
package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"os/exec"
	"os/signal"
	"strings"
	"syscall"

	"golang.org/x/sys/unix"
	"golang.org/x/term"

	"github.com/dxwzv/luit/internal/charset"
	"github.com/dxwzv/luit/internal/iso2022"
	"github.com/dxwzv/luit/internal/locale"
	"github.com/dxwzv/luit/internal/luitlog"
	"github.com/dxwzv/luit/internal/ptyutil"
	"github.com/dxwzv/luit/internal/report"
)

const version = "luit (Go translation) 1.0"

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	opts, err := parseOptions(args)
	if err != nil {
		fmt.Fprintln(os.Stderr, "luit:", err)
		usage()
		return 2
	}
	if opts.help {
		usage()
		return 0
	}
	if opts.version {
		fmt.Println(version)
		return 0
	}
	luitlog.SetVerbose(opts.verbose)

	if done, code := reportAndExit(opts); done {
		return code
	}

	if opts.alias != "" {
		if resolved, ok := resolveAlias(opts.alias, effectiveLocale(opts)); ok {
			opts.locale = resolved
		} else {
			luitlog.Warningf("no alias entry for %q in %s", effectiveLocale(opts), opts.alias)
		}
	}

	outputState, cs := resolveChildState(opts)
	applyBankOverrides(outputState, opts.g)
	applyGLGROverride(outputState, opts.gl, opts.gr)
	applyOutputFlags(outputState, opts)

	inputState := iso2022.Merge(outputState)
	if opts.kssgr && !cs.IsOther() {
		// +kssgr: some Far East locales' keyboard drivers designate the
		// legacy charset into GL instead of GR; swap the input side's
		// default so GL speaks cs directly and ASCII rides GR. luit.c
		// checked this flag only at argv[1], which the original spec
		// called out as a bug -- here it applies wherever it appears.
		inputState.Designate(0, cs)
		ascii, ok := charset.GetByName("ASCII")
		if ok && ascii != nil {
			inputState.Designate(1, ascii)
		}
		inputState.SetGL(0)
		inputState.SetGR(1)
	}
	applyBankOverrides(inputState, opts.kg)
	applyGLGROverride(inputState, opts.kgl, opts.kgr)
	logInertInputFlags(opts)

	if opts.test {
		luitlog.Verbosef("configuration resolved (-t); exiting without running a child")
		return 0
	}

	if opts.converter {
		return convert(outputState, os.Stdin, os.Stdout)
	}

	command := opts.command
	if len(command) == 0 {
		shell := os.Getenv("SHELL")
		if shell == "" {
			shell = "/bin/sh"
		}
		command = []string{shell}
	}
	argv0 := command[0]
	if opts.argv0 != "" {
		argv0 = opts.argv0
	}

	ilog, err := openLog(opts.ilog)
	if err != nil {
		luitlog.Fatalf("%v", err)
	}
	if ilog != nil {
		defer ilog.Close()
	}
	olog, err := openLog(opts.olog)
	if err != nil {
		luitlog.Fatalf("%v", err)
	}
	if olog != nil {
		defer olog.Close()
	}

	pty, err := ptyutil.Allocate()
	if err != nil {
		luitlog.Fatalf("allocate pty: %v", err)
	}

	if err := ptyutil.CopyAttr(pty.Slave, int(os.Stdin.Fd())); err != nil {
		luitlog.Warningf("copy terminal attributes: %v", err)
	}
	if err := ptyutil.CopyWinSize(pty.Slave, int(os.Stdin.Fd())); err != nil {
		luitlog.Warningf("copy window size: %v", err)
	}

	var rawState *term.State
	if term.IsTerminal(int(os.Stdin.Fd())) {
		rawState, err = term.MakeRaw(int(os.Stdin.Fd()))
		if err != nil {
			luitlog.Warningf("set raw mode: %v", err)
		}
	}
	defer func() {
		if rawState != nil {
			term.Restore(int(os.Stdin.Fd()), rawState)
		}
	}()

	cmd := exec.Command(command[0], command[1:]...)
	cmd.Args[0] = argv0
	slaveFile := os.NewFile(uintptr(pty.Slave), pty.Name)
	cmd.Stdin = slaveFile
	cmd.Stdout = slaveFile
	cmd.Stderr = slaveFile
	cmd.SysProcAttr = &syscall.SysProcAttr{
		Setsid:  true,
		Setctty: true,
	}

	// -p: hand the child a pipe it can read past to learn the parent
	// has finished setting up the pty/raw-mode state. A cooperating
	// child blocks on fd 3 until the parent writes its single
	// go-ahead byte; an ordinary program that never looks at fd 3
	// just inherits and ignores it.
	var handshakeWrite *os.File
	if opts.handshake {
		r, w, perr := os.Pipe()
		if perr != nil {
			luitlog.Warningf("create handshake pipe: %v", perr)
		} else {
			cmd.ExtraFiles = append(cmd.ExtraFiles, r)
			handshakeWrite = w
		}
	}

	if err := cmd.Start(); err != nil {
		luitlog.Fatalf("start %s: %v", argv0, err)
	}
	pty.CloseSlave()
	if handshakeWrite != nil {
		handshakeWrite.Write([]byte{0})
		handshakeWrite.Close()
	}

	sigwinch := make(chan os.Signal, 1)
	signal.Notify(sigwinch, syscall.SIGWINCH)
	sigchld := make(chan os.Signal, 1)
	signal.Notify(sigchld, syscall.SIGCHLD)

	return parent(cmd, pty, inputState, outputState, ilog, olog, opts.exitFast, sigwinch, sigchld)
}

// reportAndExit handles every -list*/-show* flag, which all just dump
// a table and exit before any locale/pty work happens.
func reportAndExit(opts *options) (bool, int) {
	switch {
	case opts.list:
		if err := report.Charsets(os.Stdout); err != nil {
			luitlog.Fatalf("%v", err)
		}
		return true, 0
	case opts.listFontenc:
		if err := report.Fontenc(os.Stdout); err != nil {
			luitlog.Fatalf("%v", err)
		}
		return true, 0
	case opts.listIconv:
		if err := report.Iconv(os.Stdout); err != nil {
			luitlog.Fatalf("%v", err)
		}
		return true, 0
	case opts.showFontenc != "":
		if err := report.ShowFontenc(os.Stdout, opts.showFontenc, opts.fillFontenc); err != nil {
			luitlog.Fatalf("%v", err)
		}
		return true, 0
	case opts.showIconv != "":
		if err := report.ShowIconv(os.Stdout, opts.showIconv); err != nil {
			luitlog.Fatalf("%v", err)
		}
		return true, 0
	}
	return false, 0
}

// convert implements -c: a straight decode of r through outputState,
// written to w, with no pty and no child at all.
func convert(outputState *iso2022.State, r io.Reader, w io.Writer) int {
	buf := make([]byte, 4096)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			out := outputState.Decode(buf[:n])
			if len(out) > 0 {
				if _, werr := w.Write(out); werr != nil {
					luitlog.Fatalf("write: %v", werr)
				}
			}
		}
		if err != nil {
			if err == io.EOF {
				return 0
			}
			luitlog.Fatalf("read: %v", err)
		}
	}
}

func openLog(path string) (*os.File, error) {
	if path == "" {
		return nil, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log %s: %w", path, err)
	}
	return f, nil
}

// parent is the single-threaded poll loop that shuttles bytes between
// the real terminal (fd 0/1) and the pty master, translating through
// inputState (keystrokes -> child) and outputState (child -> real
// terminal), mirroring luit.c's waitForInput/parent without spawning
// goroutines for the steady-state copy. Per spec.md §9, the two
// directions never share one *iso2022.State: an SI/SO the user types
// must not silently flip what the next byte of the child's own output
// is decoded as, and vice versa.
func parent(cmd *exec.Cmd, pty *ptyutil.Pty, inputState, outputState *iso2022.State, ilog, olog *os.File, exitFast bool, sigwinch, sigchld chan os.Signal) int {
	fds := []unix.PollFd{
		{Fd: int32(os.Stdin.Fd()), Events: unix.POLLIN},
		{Fd: int32(pty.Master), Events: unix.POLLIN},
	}
	buf := make([]byte, 4096)

	childExited := false
	childCode := 0

	for {
		select {
		case <-sigwinch:
			if err := ptyutil.CopyWinSize(pty.Master, int(os.Stdin.Fd())); err != nil {
				luitlog.Warningf("propagate window size: %v", err)
			}
			continue
		case <-sigchld:
			if code, exited := reap(cmd, false); exited {
				childExited = true
				childCode = code
				if exitFast {
					pty.Close()
					return code
				}
			}
			continue
		default:
		}

		n, err := unix.Poll(fds, 250)
		if err != nil {
			if err == unix.EINTR {
				continue
			}
			luitlog.Warningf("poll: %v", err)
			continue
		}
		if n == 0 {
			continue
		}

		if fds[0].Revents&unix.POLLIN != 0 {
			nr, err := syscall.Read(int(os.Stdin.Fd()), buf)
			if err != nil || nr == 0 {
				// real terminal closed; nothing further to type
				fds[0].Fd = -1
			} else {
				if ilog != nil {
					ilog.Write(buf[:nr])
				}
				out := inputState.Encode(buf[:nr])
				if len(out) > 0 {
					syscall.Write(pty.Master, out)
				}
			}
		}

		if fds[1].Revents&unix.POLLIN != 0 {
			nr, err := syscall.Read(pty.Master, buf)
			if err != nil || nr == 0 {
				pty.Close()
				if childExited {
					return childCode
				}
				code, _ := reap(cmd, true)
				return code
			}
			if olog != nil {
				olog.Write(buf[:nr])
			}
			out := outputState.Decode(buf[:nr])
			if len(out) > 0 {
				syscall.Write(int(os.Stdout.Fd()), out)
			}
		}

		if fds[1].Revents&(unix.POLLHUP|unix.POLLERR) != 0 {
			pty.Close()
			if childExited {
				return childCode
			}
			code, _ := reap(cmd, true)
			return code
		}
	}
}

// reap collects the child's exit status via wait4 directly, since the
// process was started with cmd.Start and never cmd.Wait, so
// cmd.ProcessState is never populated on its own. With block set,
// reap waits for the child to exit; otherwise it polls non-blocking
// and returns exited=false if the child is still running.
func reap(cmd *exec.Cmd, block bool) (code int, exited bool) {
	var ws syscall.WaitStatus
	flag := syscall.WNOHANG
	if block {
		flag = 0
	}
	pid, err := syscall.Wait4(cmd.Process.Pid, &ws, flag, nil)
	if err != nil || pid != cmd.Process.Pid {
		return 0, false
	}
	return ws.ExitStatus(), true
}

func effectiveLocale(opts *options) string {
	if opts.locale != "" {
		return opts.locale
	}
	return environmentLocale()
}

// resolveAlias looks loc up in a POSIX-style locale.alias file (blank
// lines and "#"-comments skipped, "alias real-name" per remaining
// line, whitespace-separated), the way glibc's locale.alias resolves
// a short name like "german" to "de_DE.ISO-8859-1" before the rest of
// locale inference runs. Grounded on the format
// _examples/original_source/charset.c documents locale.alias using
// even though the distilled source never parses it itself.
func resolveAlias(path, loc string) (string, bool) {
	f, err := os.Open(path)
	if err != nil {
		luitlog.Warningf("open alias file %s: %v", path, err)
		return "", false
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		if fields[0] == loc {
			return fields[1], true
		}
	}
	return "", false
}

// resolveChildState builds the child-facing ISO2022 state per spec.md
// §4.3/§4.4: -encoding forces a single charset into G1 (mirroring
// NewWithCharset's common case), otherwise the environment/-lc locale
// is resolved against the full locale table, predesignating every
// bank the matching row names. It also returns the "primary" charset
// (the one a +kssgr swap moves into the input side's G0), which is the
// charset GR points at for an ISO 2022 configuration (G1 under
// -encoding, the row's GR bank for a locale-table match) or the Other
// charset for a non-ISO-2022 one.
// The State returned here becomes the output (child -> terminal)
// direction; iso2022.Merge derives the input direction from it.
func resolveChildState(opts *options) (*iso2022.State, charset.Charset) {
	if opts.encoding != "" {
		if cs, ok := charset.GetByName(opts.encoding); ok && cs != nil {
			return iso2022.NewWithCharset(cs), cs
		}
		luitlog.Warningf("unknown encoding %q, falling back to the locale's charsets", opts.encoding)
	}

	loc := effectiveLocale(opts)
	if cfg, ok := locale.Resolve(loc); ok {
		if cfg.Other != nil {
			return iso2022.NewOtherState(cfg.Other), cfg.Other
		}
		primary := cfg.G[cfg.GR]
		if primary == nil {
			primary = charset.Unknown96
		}
		return iso2022.NewFromBanks(cfg.GL, cfg.GR, cfg.G), primary
	}

	if fallback, ok := charset.GetByName("ISO 8859-1"); ok && fallback != nil {
		return iso2022.NewWithCharset(fallback), fallback
	}
	return iso2022.NewWithCharset(charset.Unknown96), charset.Unknown96
}

func applyBankOverrides(s *iso2022.State, names [4]string) {
	for bank, name := range names {
		if name == "" {
			continue
		}
		cs, ok := charset.GetByName(name)
		if !ok || cs == nil {
			luitlog.Warningf("unknown charset %q for bank G%d", name, bank)
			continue
		}
		s.Designate(bank, cs)
	}
}

// applyGLGROverride implements -gl/-gr/-kgl/-kgr: each names the bank
// ("g0".."g3") that should become the state's GL or GR pointer.
func applyGLGROverride(s *iso2022.State, gl, gr string) {
	if gl != "" {
		if b, ok := bankIndex(gl); ok {
			s.SetGL(b)
		} else {
			luitlog.Warningf("invalid GL bank %q", gl)
		}
	}
	if gr != "" {
		if b, ok := bankIndex(gr); ok {
			s.SetGR(b)
		} else {
			luitlog.Warningf("invalid GR bank %q", gr)
		}
	}
}

// logInertInputFlags notes -k7/-kls/+kss at verbose level. The
// encoder's bank-search design (DESIGN.md's "GL vs single-shifted
// G2/G3 precedence" decision) already represents every character as
// 7-bit GL bytes reached by a locking shift -- it never emits an
// 8-bit GR byte or a single shift -- so these flags describe behavior
// the encoder already has; there is no alternate code path left for
// them to select.
func logInertInputFlags(opts *options) {
	if opts.k7 {
		luitlog.Verbosef("-k7: input already encodes 7-bit only")
	}
	if opts.kls {
		luitlog.Verbosef("-kls: input already generates locking shifts")
	}
	if opts.kss {
		luitlog.Verbosef("+kss: input already never emits single shifts")
	}
}

// applyOutputFlags implements "+oss"/"+ols"/"+osl"/"+ot" on the output
// (child -> terminal) direction's State.
func applyOutputFlags(s *iso2022.State, opts *options) {
	if opts.oss {
		s.SetAcceptSingleShift(false)
	}
	if opts.ols {
		s.SetAcceptLockingShift(false)
	}
	if opts.osl {
		s.SetAcceptSelection(false)
	}
	if opts.ot {
		s.SetDisableInterpretation(true)
	}
}
