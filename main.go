package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/fzft/go-hashset/cmd"
	"github.com/fzft/go-hashset/log"
)

// Exit codes of hsetcli.
const (
	exitCodeSuccess = iota
	exitCodeInvalidArgs
	exitCodeLoggerError
	exitCodeCommandError
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := cmd.LoadConfig(os.Args[1:])
	if errors.Is(err, pflag.ErrHelp) {
		return exitCodeSuccess
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return exitCodeInvalidArgs
	}
	if cfg.Version {
		fmt.Println(cmd.Version(version, gitSHA1, gitDirty))
		return exitCodeSuccess
	}

	if err := log.InitLogger(cfg.LogLevel); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return exitCodeLoggerError
	}
	defer log.Logger.Sync()

	if err := cmd.NewCli(cfg, os.Stdin, os.Stdout).Run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitCodeCommandError
	}
	return exitCodeSuccess
}
