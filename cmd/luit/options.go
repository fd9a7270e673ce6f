package main

import (
	"fmt"
	"os"
	"strings"
)

// options holds the parsed command line, grounded on luit.c's
// parseOptions: a hand-rolled scanner rather than the standard
// library's flag package, because luit's syntax mixes "-flag value",
// bare "-flag", and the leading-"+"-to-disable convention ("+kssgr",
// "+oss") that flag.FlagSet has no way to express.
type options struct {
	version bool
	verbose bool
	list    bool
	help    bool

	test      bool // -t: resolve state, skip the pty/exec/loop
	converter bool // -c: stdin/stdout, no pty
	exitFast  bool // -x: return as soon as the child exits
	handshake bool // -p: synchronize child start with a pipe

	encoding string // -encoding: force both directions to one charset
	locale   string // -lc: override the locale used to infer charsets
	alias    string // -alias: locale-alias file path

	ilog string // -ilog: copy of bytes read from the real terminal
	olog string // -olog: copy of bytes read from the child

	g  [4]string // -g0.. -g3: output-side bank designation
	kg [4]string // -kg0..-kg3: input-side bank designation
	gl string    // -gl: output GL ("g0".."g3")
	gr string    // -gr: output GR
	kgl string   // -kgl: input GL
	kgr string   // -kgr: input GR

	k7   bool // -k7: input encodes 7-bit only
	kls  bool // -kls: input generates locking shifts
	kss  bool // +kss: disable input single shifts
	kssgr bool // +kssgr: swap the child-facing keyboard shift state

	oss bool // +oss: output direction ignores single shifts
	ols bool // +ols: output direction ignores locking shifts
	osl bool // +osl: output direction ignores designation escapes
	ot  bool // +ot: output direction does no ISO 2022 interpretation at all

	listFontenc  bool
	listIconv    bool
	showFontenc  string
	showIconv    string
	fillFontenc  bool

	argv0   string
	command []string
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: luit [options] [--] [command [args...]]

  -V                print version and exit
  -v                verbose diagnostics on stderr
  -list             print the locale and charset tables and exit
  -list-fontenc     print only the ISO 2022 (fontenc) charset table
  -list-iconv       print only the non-ISO-2022 ("other") charset table
  -show-fontenc N   dump the code table of fontenc charset N
  -show-iconv N     probe the "other" charset N byte by byte
  -fill-fontenc     include unmapped codes as identity rows in -show-fontenc
  -t                resolve locale/encoding and exit, without running a child
  -c                converter mode: translate stdin to stdout, no pty
  -x                return as soon as the child exits
  -p                synchronize child start with the parent over a pipe
  -encoding NAME    use NAME for both the child and terminal side
  -lc LOCALE        resolve charsets from LOCALE instead of the environment
  -alias FILE       resolve LOCALE through a locale-alias file first
  -ilog FILE        copy bytes read from the real terminal into FILE
  -olog FILE        copy bytes read from the child into FILE
  -g0/-g1/-g2/-g3 N designate charset N into the given output-side G bank
  -kg0../-kg3 N     designate charset N into the given input-side G bank
  -gl/-gr g0..g3    set the output-side GL/GR pointer
  -kgl/-kgr g0..g3  set the input-side GL/GR pointer
  -k7               input side encodes 7-bit only
  -kls              input side generates locking shifts
  +kss              disable input-side single shifts
  +kssgr            swap the child-facing keyboard shift state
  +oss              output side ignores single shifts
  +ols              output side ignores locking shifts
  +osl              output side ignores designation escapes
  +ot               output side performs no ISO 2022 interpretation at all
  -argv0 NAME       exec the child with argv[0] set to NAME
  -h, -help         this message`)
}

// parseOptions scans args (os.Args[1:]) the way luit.c's main loop
// does: one token at a time, '+' and '-' both introduce an option.
// An unrecognized token starting with '-' is a usage error; the first
// other token that isn't a recognized option (a bare "-", a word, or
// an unrecognized '+' token) ends option parsing and begins the
// command to run.
func parseOptions(args []string) (*options, error) {
	o := &options{}
	i := 0
	for i < len(args) {
		a := args[i]
		switch {
		case a == "--":
			i++
			o.command = args[i:]
			return o, nil

		case a == "+kssgr":
			o.kssgr = true
			i++
		case a == "+kss":
			o.kss = true
			i++
		case a == "+oss":
			o.oss = true
			i++
		case a == "+ols":
			o.ols = true
			i++
		case a == "+osl":
			o.osl = true
			i++
		case a == "+ot":
			o.ot = true
			i++

		case a == "-V":
			o.version = true
			i++
		case a == "-v":
			o.verbose = true
			i++
		case a == "-t":
			o.test = true
			i++
		case a == "-c":
			o.converter = true
			i++
		case a == "-x":
			o.exitFast = true
			i++
		case a == "-p":
			o.handshake = true
			i++
		case a == "-k7":
			o.k7 = true
			i++
		case a == "-kls":
			o.kls = true
			i++
		case a == "-list":
			o.list = true
			i++
		case a == "-list-fontenc":
			o.listFontenc = true
			i++
		case a == "-list-iconv":
			o.listIconv = true
			i++
		case a == "-fill-fontenc":
			o.fillFontenc = true
			i++
		case a == "-h", a == "-help", a == "--help":
			o.help = true
			i++

		case a == "-encoding":
			v, n, err := needValue(args, i)
			if err != nil {
				return nil, err
			}
			o.encoding = v
			i += n
		case a == "-lc":
			v, n, err := needValue(args, i)
			if err != nil {
				return nil, err
			}
			o.locale = v
			i += n
		case a == "-alias":
			v, n, err := needValue(args, i)
			if err != nil {
				return nil, err
			}
			o.alias = v
			i += n
		case a == "-ilog":
			v, n, err := needValue(args, i)
			if err != nil {
				return nil, err
			}
			o.ilog = v
			i += n
		case a == "-olog":
			v, n, err := needValue(args, i)
			if err != nil {
				return nil, err
			}
			o.olog = v
			i += n
		case a == "-argv0":
			v, n, err := needValue(args, i)
			if err != nil {
				return nil, err
			}
			o.argv0 = v
			i += n
		case a == "-gl":
			v, n, err := needValue(args, i)
			if err != nil {
				return nil, err
			}
			o.gl = v
			i += n
		case a == "-gr":
			v, n, err := needValue(args, i)
			if err != nil {
				return nil, err
			}
			o.gr = v
			i += n
		case a == "-kgl":
			v, n, err := needValue(args, i)
			if err != nil {
				return nil, err
			}
			o.kgl = v
			i += n
		case a == "-kgr":
			v, n, err := needValue(args, i)
			if err != nil {
				return nil, err
			}
			o.kgr = v
			i += n
		case a == "-show-fontenc":
			v, n, err := needValue(args, i)
			if err != nil {
				return nil, err
			}
			o.showFontenc = v
			i += n
		case a == "-show-iconv":
			v, n, err := needValue(args, i)
			if err != nil {
				return nil, err
			}
			o.showIconv = v
			i += n

		case strings.HasPrefix(a, "-g") && len(a) == 3 && a[2] >= '0' && a[2] <= '3':
			bank := int(a[2] - '0')
			v, n, err := needValue(args, i)
			if err != nil {
				return nil, err
			}
			o.g[bank] = v
			i += n
		case strings.HasPrefix(a, "-kg") && len(a) == 4 && a[3] >= '0' && a[3] <= '3':
			bank := int(a[3] - '0')
			v, n, err := needValue(args, i)
			if err != nil {
				return nil, err
			}
			o.kg[bank] = v
			i += n

		case strings.HasPrefix(a, "-") && a != "-":
			return nil, fmt.Errorf("unrecognized option %q", a)
		default:
			o.command = args[i:]
			return o, nil
		}
	}
	return o, nil
}

func needValue(args []string, i int) (string, int, error) {
	if i+1 >= len(args) {
		return "", 0, fmt.Errorf("option %q requires an argument", args[i])
	}
	return args[i+1], 2, nil
}

// bankIndex parses a "g0".."g3" GL/GR argument, as used by -gl/-gr/
// -kgl/-kgr.
func bankIndex(s string) (int, bool) {
	if len(s) == 2 && s[0] == 'g' && s[1] >= '0' && s[1] <= '3' {
		return int(s[1] - '0'), true
	}
	return 0, false
}
