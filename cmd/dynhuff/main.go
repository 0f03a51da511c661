// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Command dynhuff compresses 8-bit images and arbitrary files with an
// adaptive Huffman code.
//
// Example usage:
//	$ dynhuff encode -i lena.pgm -o lena.dhuf
//	$ dynhuff decode -i lena.dhuf -o lena.out.pgm
//	$ dynhuff bench -tests ratio -sizes 1e5 lena.pgm skewed.gen
package main

import (
	"flag"
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"sort"
	"strings"

	"github.com/op/go-logging"
)

const progName = "dynhuff"

var log = logging.MustGetLogger(progName)

var leveledLogBackend logging.LeveledBackend

type command struct {
	usage string
	run   func(args []string) error
}

var commands = map[string]command{
	"encode": {"encode [-v] [-raw] [-stats] -i INPUT -o OUTPUT", runEncode},
	"decode": {"decode [-v] -i INPUT -o OUTPUT", runDecode},
	"bench":  {"bench [-v] [-codecs LIST] [-tests LIST] [-levels LIST] [-sizes LIST] [-paths LIST] [INPUT...]", runBench},
}

func usageMessage() string {
	var names []string
	for k := range commands {
		names = append(names, k)
	}
	sort.Strings(names)
	var s strings.Builder
	s.WriteString("Usage:\n")
	for _, k := range names {
		fmt.Fprintf(&s, "\t%s %s\n", progName, commands[k].usage)
	}
	return s.String()
}

func startLogging() {
	backend := logging.NewLogBackend(os.Stderr, progName+": ", 0)
	formatSpec := "%{color:bold}%{level:6s}%{color:reset} %{module:-8s} | %{message}"
	formatter := logging.MustStringFormatter(formatSpec)
	formatted := logging.NewBackendFormatter(backend, formatter)
	leveled := logging.AddModuleLevel(formatted)
	leveled.SetLevel(logging.INFO, "")
	logging.SetBackend(leveled)
	leveledLogBackend = leveled
}

// newFlagSet returns the flags of a subcommand with the shared -v flag.
func newFlagSet(name string, verbose *bool) *flag.FlagSet {
	fs := flag.NewFlagSet(progName+" "+name, flag.ContinueOnError)
	fs.SetOutput(ioutil.Discard)
	fs.BoolVar(verbose, "v", false, "")
	fs.BoolVar(verbose, "debug", false, "")
	return fs
}

// parseFlags parses args and raises the log level if requested.
func parseFlags(fs *flag.FlagSet, args []string, verbose *bool) error {
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *verbose && leveledLogBackend != nil {
		leveledLogBackend.SetLevel(logging.DEBUG, "")
	}
	return nil
}

func main() {
	startLogging()

	if len(os.Args) < 2 {
		io.WriteString(os.Stderr, usageMessage())
		os.Exit(2)
	}
	cmd, ok := commands[os.Args[1]]
	if !ok {
		if a := os.Args[1]; a == "-h" || a == "-help" || a == "help" {
			io.WriteString(os.Stdout, usageMessage())
			os.Exit(0)
		}
		log.Errorf("unknown command %q", os.Args[1])
		io.WriteString(os.Stderr, usageMessage())
		os.Exit(2)
	}

	switch err := cmd.run(os.Args[2:]); err {
	case nil:
	case flag.ErrHelp:
		fmt.Fprintf(os.Stdout, "Usage:\n\t%s %s\n", progName, cmd.usage)
	default:
		log.Error(err.Error())
		os.Exit(1)
	}
}
