// Package main provides urlgrep, a concurrent grep over URLs. It fetches a
// set of text resources (HTTP(S), local files, remote files over SSH),
// splits them into lines and prints every line containing a literal
// substring together with its source and line number.
//
// Usage:
//
//	urlgrep [flags] [source...]
//	urlgrep --grep 'EECE 210' https://example.org/a.txt ssh://host/var/log/app.log.zst
//	cat sources.txt | urlgrep -g ERROR --sort --stats -
package main

import (
	"context"
	"os"

	"golang.org/x/term"
)

func main() {
	s := streams{
		in:          os.Stdin,
		out:         os.Stdout,
		err:         os.Stderr,
		outTerminal: term.IsTerminal(int(os.Stdout.Fd())),
		lookupEnv:   os.LookupEnv,
	}
	os.Exit(execute(context.Background(), os.Args[1:], s))
}
