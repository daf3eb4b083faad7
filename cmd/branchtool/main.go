// Copyright (c) 2026 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	blog "github.com/btcsuite/btcbranch/internal/log"
	"github.com/btcsuite/btcbranch/internal/version"
	flags "github.com/jessevdk/go-flags"
)

var log = blog.ToolLog

// logClosure is used to provide a closure over expensive logging operations so
// don't have to be performed when the logging level doesn't warrant it.
type logClosure func() string

// String invokes the underlying function and returns the result.
func (c logClosure) String() string {
	return c()
}

// newLogClosure returns a new closure over a function that returns a string
// which itself provides a Stringer interface so that it can be used with the
// logging system.
func newLogClosure(c func() string) logClosure {
	return logClosure(c)
}

// fileExists reports whether the named file or directory exists.
func fileExists(name string) bool {
	if _, err := os.Stat(name); err != nil {
		if os.IsNotExist(err) {
			return false
		}
	}
	return true
}

// newParser returns the command line parser with the global options and all
// commands registered.
func newParser() *flags.Parser {
	appName := filepath.Base(os.Args[0])
	appName = strings.TrimSuffix(appName, filepath.Ext(appName))
	parserFlags := flags.Options(flags.HelpFlag | flags.PassDoubleDash)
	parser := flags.NewNamedParser(appName, parserFlags)
	parser.SubcommandsOptional = true
	parser.AddGroup("Global Options", "", cfg)
	parser.AddCommand("compose",
		"Compose branch scripts into one pay-to-script-hash script",
		"Compose branch scripts into one redeem script that can be "+
			"spent through any single branch.  Branches are "+
			"numbered in the order they are given.", &composeCfg)
	parser.AddCommand("show",
		"Show a stored branch set by its pay-to-script-hash address",
		"", &showCfg)
	parser.AddCommand("list", "List all stored branch sets", "", &listCfg)
	parser.AddCommand("spend",
		"Spend an output paying to a stored branch set",
		"Build and sign a transaction spending one output paying to "+
			"a stored branch set through the selected branch.  The "+
			"signed transaction is validated with the script "+
			"engine before it is printed.", &spendCfg)
	return parser
}

// realMain is the real main function for the utility.  It is necessary to work
// around the fact that deferred functions do not run when os.Exit() is called.
func realMain() error {
	defer func() {
		if blog.LogRotator != nil {
			blog.LogRotator.Close()
		}
	}()

	parser := newParser()

	// Parse command line and invoke the Execute function for the specified
	// command.
	if _, err := parser.Parse(); err != nil {
		if e, ok := err.(*flags.Error); ok && e.Type == flags.ErrHelp {
			parser.WriteHelp(os.Stderr)
		} else {
			log.Error(err)
		}

		return err
	}

	if cfg.ShowVersion {
		fmt.Printf("%s version %s (Go version %s %s/%s)\n", parser.Name,
			version.String(), runtime.Version(), runtime.GOOS,
			runtime.GOARCH)
		return nil
	}
	if parser.Active == nil {
		parser.WriteHelp(os.Stderr)
		return errors.New("a command must be specified")
	}

	return nil
}

func main() {
	// Work around defer not working after os.Exit()
	if err := realMain(); err != nil {
		os.Exit(1)
	}
}
