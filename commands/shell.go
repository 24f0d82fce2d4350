package commands

import (
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/abiosoft/readline"
	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/leizi-shell/leizi/core/config"
	"github.com/leizi-shell/leizi/core/executor"
	"github.com/leizi-shell/leizi/core/jobs"
	"github.com/leizi-shell/leizi/core/logger"
	"github.com/leizi-shell/leizi/core/proc"
	"github.com/leizi-shell/leizi/core/shell"
	"github.com/leizi-shell/leizi/core/signals"
	"github.com/leizi-shell/leizi/core/vars"
)

// Version is the shell release.
const Version = "1.1.1"

const (
	EnvHome      = "HOME"
	EnvPWD       = "PWD"
	EnvOldPWD    = "OLDPWD"
	EnvPrompt    = "PS1"
	EnvUser      = "USER"
	EnvShell     = "SHELL"
	EnvVersion   = "LEIZI_VERSION"
	DefaultShell = "/usr/local/bin/leizi"
)

// Options configures a new Shell. Zero values are replaced by defaults that
// talk to the real operating system.
type Options struct {
	Config  *config.Configuration
	Procs   proc.Controller
	Signals *signals.Coordinator
	Events  *logger.SessionLogger

	Stdin  *os.File
	Stdout *os.File
	Stderr *os.File
}

type Shell struct {
	Vars     *vars.Store
	Jobs     *jobs.Table
	Signals  *signals.Coordinator
	Executor *executor.Executor
	Readline *readline.Instance
	Config   *config.Configuration
	Events   *logger.SessionLogger

	Stdin  *os.File
	Stdout *os.File
	Stderr *os.File

	lastRet int
	history []string
	home    string

	// Set to true to quit the shell
	Quit bool
}

func NewShell(opts Options) *Shell {
	if opts.Config == nil {
		opts.Config = config.Default(".")
	}
	if opts.Procs == nil {
		opts.Procs = proc.OS{}
	}
	if opts.Signals == nil {
		opts.Signals = signals.New(opts.Procs.Signal)
	}
	if opts.Events == nil {
		opts.Events = logger.NewNopLogger().Sessionless()
	}
	if opts.Stdin == nil {
		opts.Stdin = os.Stdin
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}

	s := &Shell{
		Vars:    vars.NewStore(),
		Signals: opts.Signals,
		Config:  opts.Config,
		Events:  opts.Events,
		Stdin:   opts.Stdin,
		Stdout:  opts.Stdout,
		Stderr:  opts.Stderr,
	}

	s.Jobs = jobs.NewTable(opts.Procs, s.Signals, s.Stdout)
	s.Jobs.SetEventRecorder(s.Events)

	s.Executor = &executor.Executor{
		Procs:      opts.Procs,
		Jobs:       s.Jobs,
		Foreground: s.Signals,
		Vars:       s.Vars,
		Builtins:   s.lookupBuiltin,
		Stdin:      s.Stdin,
		Stdout:     s.Stdout,
		Stderr:     s.Stderr,
	}

	s.Init()
	return s
}

// Init sets up the shell variables similar to a login shell.
func (s *Shell) Init() {
	s.Vars.RegisterSpecial("?", func() string {
		return strconv.Itoa(s.lastRet)
	})
	s.Vars.RegisterSpecial("$", func() string {
		return strconv.Itoa(os.Getpid())
	})

	s.home = s.Vars.Getenv(EnvHome)
	if s.home == "" {
		if home, err := os.UserHomeDir(); err == nil {
			s.home = home
			s.Vars.Set(EnvHome, home)
		}
	}

	if wd, err := os.Getwd(); err == nil {
		s.Vars.Set(EnvPWD, wd)
	}

	if s.Vars.Getenv(EnvShell) == "" {
		s.setExported(EnvShell, DefaultShell)
	}
	s.setExported(EnvVersion, Version)
}

func (s *Shell) setExported(name, value string) {
	s.Vars.Set(name, value)
	if err := s.Vars.Export(name); err != nil {
		log.Printf("Error exporting %s: %v", name, err)
	}
}

// LastStatus returns the exit status of the last command.
func (s *Shell) LastStatus() int {
	return s.lastRet
}

// History returns the lines entered so far, oldest first.
func (s *Shell) History() []string {
	return append([]string(nil), s.history...)
}

func (s *Shell) addHistory(line string) {
	s.history = append(s.history, line)
	if limit := s.Config.History.Size; limit > 0 && len(s.history) > limit {
		s.history = s.history[len(s.history)-limit:]
	}
}

func (s *Shell) lookupBuiltin(name string) (executor.Class, executor.Builtin) {
	entry, ok := AllBuiltins[name]
	if !ok {
		return executor.NotBuiltin, nil
	}
	return entry.Class, func(stdio executor.IO, args []string) int {
		return entry.Builtin.Main(s, stdio, args)
	}
}

// expandAlias replaces the first word of the line with its alias.
func (s *Shell) expandAlias(tokens []string) []string {
	if len(tokens) == 0 {
		return tokens
	}
	alias, ok := s.Config.Aliases[tokens[0]]
	if !ok {
		return tokens
	}
	return append(shell.Tokenize(alias), tokens[1:]...)
}

// RunCommand runs a single line of input and returns its exit status.
func (s *Shell) RunCommand(line string) int {
	if strings.TrimSpace(line) == "" {
		return s.lastRet
	}
	s.addHistory(line)

	lexed := shell.Lex(line)
	for _, warning := range lexed.Warnings {
		fmt.Fprintf(s.Stderr, "leizi: warning: %s\n", warning)
	}

	tokens, background := shell.SplitBackground(s.expandAlias(lexed.Tokens))
	stages := shell.Split(tokens)

	start := time.Now()
	s.lastRet = s.Executor.Run(executor.Pipeline{
		Stages:     stages,
		Background: background,
	})

	var argv []string
	if len(stages) > 0 {
		argv = stages[0]
	}
	_ = s.Events.Record(logger.EventRunCommand, logger.Fields{
		"line":       line,
		"argv":       argv,
		"stages":     len(stages),
		"background": background,
		"status":     s.lastRet,
		"duration":   time.Since(start),
		"cwd":        s.Vars.Getenv(EnvPWD),
	})

	return s.lastRet
}

// RunOnce runs a line non-interactively as if it were passed with -c.
func (s *Shell) RunOnce(line string) int {
	s.recordSession(logger.EventSessionStart, false)
	defer s.recordSession(logger.EventSessionEnd, false)

	return s.RunCommand(line)
}

func (s *Shell) recordSession(event string, interactive bool) {
	_ = s.Events.Record(event, logger.Fields{
		"interactive": interactive,
		"pid":         os.Getpid(),
		"status":      s.lastRet,
	})
}

func (s *Shell) newReadline() (*readline.Instance, error) {
	fd := int(s.Stdin.Fd())

	historyLimit := s.Config.History.Size
	if historyLimit == 0 {
		historyLimit = -1
	}

	cfg := &readline.Config{
		Prompt:       s.prompt(),
		HistoryFile:  s.Config.HistoryPath(s.home),
		HistoryLimit: historyLimit,
		Stdin:        readline.NewCancelableStdin(s.Stdin),
		Stdout:       s.Stdout,
		Stderr:       s.Stderr,
		FuncGetWidth: func() int {
			width, _, err := term.GetSize(int(s.Stdout.Fd()))
			if err != nil {
				return 80
			}
			return width
		},
		FuncIsTerminal: func() bool {
			return term.IsTerminal(fd)
		},
	}

	if err := cfg.Init(); err != nil {
		return nil, err
	}

	return readline.NewEx(cfg)
}

// RunInteractive reads and runs lines until the input is closed or exit is
// called.
func (s *Shell) RunInteractive() int {
	rl, err := s.newReadline()
	if err != nil {
		fmt.Fprintf(s.Stderr, "leizi: %s\n", err)
		return 1
	}
	s.Readline = rl
	defer rl.Close()

	s.recordSession(logger.EventSessionStart, true)
	defer s.recordSession(logger.EventSessionEnd, true)

	if s.Config.Welcome {
		s.welcome()
	}

	for !s.Quit {
		s.Jobs.Refresh()
		rl.SetPrompt(s.prompt())
		line, err := rl.Readline()

		switch {
		case err == io.EOF:
			fmt.Fprintln(s.Stdout)
			s.Quit = true

		case err == readline.ErrInterrupt:
			// Interrupt clears line.
			s.Signals.TakeInterrupt()

		case err != nil:
			log.Printf("Error readline: %v", err)

		case strings.TrimSpace(line) == "":
			continue // empty line

		default:
			s.RunCommand(line)

			// The foreground job already received the interrupt, start the
			// prompt on a fresh line.
			if s.Signals.TakeInterrupt() {
				fmt.Fprintln(s.Stdout)
			}
		}
	}

	fmt.Fprintln(s.Stdout, s.paint(ColorCyan, "Thanks for using Leizi Shell!"))
	return s.lastRet
}

func (s *Shell) welcome() {
	fmt.Fprintln(s.Stdout, s.paint(ColorBoldCyan, "Welcome to Leizi Shell "+Version))
	fmt.Fprintln(s.Stdout, s.paint(ColorDim, "A modern POSIX-compatible shell with job control and ZSH-style arrays"))
	fmt.Fprintln(s.Stdout, s.paint(ColorDim, "Type 'help' for more information"))
	fmt.Fprintln(s.Stdout)
}

func (s *Shell) paint(c *color.Color, text string) string {
	return NewAutoColorPrinter(s.Stdout).Sprintf(c, "%s", text)
}

func (s *Shell) prompt() string {
	prompt := s.Vars.Getenv(EnvPrompt)
	if prompt == "" {
		prompt = s.Config.Prompt.Format
	}

	colored := s.Config.Prompt.Color && isTerminal(s.Stdout)
	paint := func(c *color.Color, text string) string {
		if colored {
			return c.Sprint(text)
		}
		return text
	}

	host, err := os.Hostname()
	if err != nil {
		host = "localhost"
	}
	prompt = strings.ReplaceAll(prompt, `\u`, paint(ColorBoldGreen, s.Vars.Getenv(EnvUser)))
	prompt = strings.ReplaceAll(prompt, `\h`, paint(ColorBoldGreen, host))

	pwd := s.Vars.Getenv(EnvPWD)
	if s.home != "" && strings.HasPrefix(pwd, s.home) {
		pwd = "~" + strings.TrimPrefix(pwd, s.home)
	}
	prompt = strings.ReplaceAll(prompt, `\w`, paint(ColorBoldBlue, pwd))

	if os.Geteuid() == 0 {
		prompt = strings.ReplaceAll(prompt, `\$`, "#")
	} else {
		prompt = strings.ReplaceAll(prompt, `\$`, "$")
	}

	return unescape(prompt)
}
