package main

import "os"

// environmentLocale reproduces glibc's LC_ALL > LC_CTYPE > LANG
// precedence, the same order luit.c's main() consults before falling
// back to the "-lc" override.
func environmentLocale() string {
	for _, name := range []string{"LC_ALL", "LC_CTYPE", "LANG"} {
		if v := os.Getenv(name); v != "" {
			return v
		}
	}
	return "C"
}
