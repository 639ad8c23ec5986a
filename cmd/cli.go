package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/peterh/liner"
	"go.uber.org/zap"

	"github.com/fzft/go-hashset/log"
	"github.com/fzft/go-hashset/resp"
)

var Prompt = "hsetcli> "

// Cli reads command lines from a terminal or a pipe and prints replies.
type Cli struct {
	cfg   Config
	shell *Shell
	in    *os.File
	out   io.Writer
	raw   bool
	width int
}

func NewCli(cfg Config, in, out *os.File) *Cli {
	cli := &Cli{
		cfg:   cfg,
		shell: NewShell(cfg),
		in:    in,
		out:   out,
		raw:   cfg.Raw,
	}
	if isatty.IsTerminal(out.Fd()) {
		cli.width = terminalWidth(out.Fd())
	} else {
		cli.raw = true
	}
	return cli
}

// Version formats the version banner.
func Version(version, gitSHA1, gitDirty string) string {
	v := "hsetcli " + version
	// Add git commit and working tree status when available
	if sha1Int, err := strconv.ParseInt(gitSHA1, 16, 64); err == nil && sha1Int != 0 {
		v = fmt.Sprintf("%s (git:%s", v, gitSHA1)
		if dirtyInt, err := strconv.ParseInt(gitDirty, 10, 64); err == nil && dirtyInt != 0 {
			v = fmt.Sprintf("%s-dirty", v)
		}
		v = fmt.Sprintf("%s)", v)
	}
	return v
}

// Run executes the one-shot command from the config, or reads commands
// until input ends.
func (cli *Cli) Run() error {
	if len(cli.cfg.Args) > 0 {
		reply := cli.shell.Execute(cli.cfg.Args)
		cli.print(reply)
		if e, ok := reply.(resp.Error); ok {
			return errors.New(e.Message)
		}
		return nil
	}
	if isatty.IsTerminal(cli.in.Fd()) {
		return cli.repl()
	}
	return cli.pipe(cli.in)
}

func (cli *Cli) repl() error {
	line := NewLineNoise(cli.shell.complete)
	defer line.Close()

	historyFile := cli.cfg.HistFile
	if historyFile != "" {
		if err := line.HistoryLoad(historyFile); err != nil && !os.IsNotExist(err) {
			log.Logger.Warn("failed to load history", zap.String("file", historyFile), zap.Error(err))
		}
	}

	for {
		text, err := line.Prompt(Prompt)
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		if strings.TrimSpace(text) != "" {
			line.AppendHistory(text)
			if historyFile != "" {
				if err := line.HistorySave(historyFile); err != nil {
					log.Logger.Warn("failed to save history", zap.String("file", historyFile), zap.Error(err))
				}
			}
		}

		argv, err := splitArgs(text)
		if err != nil {
			fmt.Fprintln(cli.out, "Invalid argument(s)")
			continue
		}
		if len(argv) == 1 && strings.EqualFold(argv[0], "clear") {
			_ = line.ClearScreen()
			continue
		}
		if err := cli.execute(argv); errors.Is(err, errQuit) {
			return nil
		}
	}
}

// pipe executes one command per line. Failing lines do not stop the
// session; they are reported together at the end.
func (cli *Cli) pipe(r io.Reader) error {
	var errs MultiError
	scanner := bufio.NewScanner(r)
	lineno := 0
	for scanner.Scan() {
		lineno++
		argv, err := splitArgs(scanner.Text())
		if err != nil {
			errs = append(errs, fmt.Errorf("line %d: %w", lineno, err))
			continue
		}
		err = cli.execute(argv)
		if errors.Is(err, errQuit) {
			break
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("line %d: %w", lineno, err))
		}
	}
	if err := scanner.Err(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// execute runs argv, honouring a leading repeat count ("3 SADD k v"), and
// prints every reply. It returns errQuit for QUIT/EXIT and the last error
// reply otherwise.
func (cli *Cli) execute(argv []string) error {
	if len(argv) == 0 {
		return nil
	}
	if strings.EqualFold(argv[0], "quit") || strings.EqualFold(argv[0], "exit") {
		return errQuit
	}

	repeat := 1
	if n, err := strconv.Atoi(argv[0]); err == nil && len(argv) > 1 {
		if n <= 0 {
			fmt.Fprintln(cli.out, "Invalid repeat command option value.")
			return fmt.Errorf("%w: repeat %d", ErrInvalidArguments, n)
		}
		repeat = n
		argv = argv[1:]
	}

	var last error
	for i := 0; i < repeat; i++ {
		reply := cli.shell.Execute(argv)
		cli.print(reply)
		if e, ok := reply.(resp.Error); ok {
			last = errors.New(e.Message)
		}
	}
	return last
}

func (cli *Cli) print(reply resp.Node) {
	if cli.raw {
		_, _ = cli.out.Write(resp.Encode(reply))
		return
	}
	fmt.Fprintln(cli.out, resp.Format(reply, cli.width))
}

// splitArgs splits a command line into arguments. Arguments may be wrapped
// in double quotes, which understand \", \\, \n, \r, \t and \xHH escapes, or
// in single quotes, which only understand \'.
func splitArgs(line string) ([]string, error) {
	var (
		args    []string
		current strings.Builder
		inArg   bool
	)
	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case c == '"' || c == '\'':
			quote := c
			closed := false
			for i++; i < len(line); i++ {
				c = line[i]
				if c == '\\' && i+1 < len(line) {
					next := line[i+1]
					if quote == '\'' {
						if next == '\'' {
							current.WriteByte('\'')
							i++
							continue
						}
						current.WriteByte(c)
						continue
					}
					switch next {
					case 'n':
						current.WriteByte('\n')
					case 'r':
						current.WriteByte('\r')
					case 't':
						current.WriteByte('\t')
					case 'x':
						if i+3 < len(line) {
							if v, err := strconv.ParseUint(line[i+2:i+4], 16, 8); err == nil {
								current.WriteByte(byte(v))
								i += 3
								continue
							}
						}
						current.WriteByte(next)
					default:
						current.WriteByte(next)
					}
					i++
					continue
				}
				if c == quote {
					closed = true
					break
				}
				current.WriteByte(c)
			}
			if !closed {
				return nil, fmt.Errorf("%w: unbalanced quotes", ErrInvalidArguments)
			}
			// A closing quote must be followed by a space or the end.
			if i+1 < len(line) && line[i+1] != ' ' && line[i+1] != '\t' {
				return nil, fmt.Errorf("%w: closing quote must be followed by a space", ErrInvalidArguments)
			}
			inArg = true
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			if inArg {
				args = append(args, current.String())
				current.Reset()
				inArg = false
			}
		default:
			current.WriteByte(c)
			inArg = true
		}
	}
	if inArg {
		args = append(args, current.String())
	}
	return args, nil
}
