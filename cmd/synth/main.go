package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"pipelined.dev/synth/config"
	"pipelined.dev/synth/log"
	"pipelined.dev/synth/native"
)

// envFile is an optional file with SYNTH_* variables.
const envFile = ".env"

type app struct {
	args []string
	out  io.Writer
	// settings are shared by all commands, flags override them.
	settings *settings
	commands []command
}

type command interface {
	Name() string
	Help() string
	Run() error
	Register(*flag.FlagSet)
}

func newApp(args []string, out io.Writer) *app {
	s := &settings{out: out}
	return &app{
		args:     args,
		out:      out,
		settings: s,
		commands: []command{
			&renderCommand{settings: s},
			&playCommand{settings: s},
			&statsCommand{settings: s},
		},
	}
}

func (a *app) run() int {
	cmdName, args := parseArgs(a.args)
	if cmdName == "" {
		a.printUsage()
		return errorExitCode
	}

	cfg, err := config.Load(envFile)
	if err != nil {
		fmt.Fprintf(a.out, "Invalid configuration: %v\n", err)
		return errorExitCode
	}
	a.settings.Config = cfg

	for _, cmd := range a.commands {
		if cmd.Name() != cmdName {
			continue
		}
		flags := flag.NewFlagSet(cmdName, flag.ContinueOnError)
		flags.SetOutput(a.out)
		cmd.Register(flags)
		if err := flags.Parse(args); err != nil {
			return errorExitCode
		}
		if err := a.settings.Validate(); err != nil {
			fmt.Fprintf(a.out, "Invalid flags: %v\n", err)
			return errorExitCode
		}

		a.settings.log = a.settings.logger(cmdName)
		native.SetLogger(a.settings.log)
		native.SetDebug(a.settings.Debug)
		err := cmd.Run()
		native.ReportLeaks(a.settings.log)
		if err != nil {
			fmt.Fprintf(a.out, "Command failed: %v\n", err)
			return errorExitCode
		}
		return successExitCode
	}

	a.printUsage()
	return errorExitCode
}

var (
	successExitCode = 0
	errorExitCode   = 1
)

func main() {
	os.Exit(newApp(os.Args, os.Stdout).run())
}

func parseArgs(args []string) (string, []string) {
	if len(args) < 2 {
		return "", nil
	}
	return args[1], args[2:]
}

func (a *app) printUsage() {
	fmt.Fprintln(a.out, "Synth renders and plays a sine generator")
	fmt.Fprintln(a.out)
	fmt.Fprintln(a.out, "Usage: synth <command> [flags]")
	fmt.Fprintln(a.out)
	fmt.Fprintln(a.out, "Commands:")
	for _, cmd := range a.commands {
		fmt.Fprintf(a.out, "\t%s\t%s\n", cmd.Name(), cmd.Help())
	}
}

// logger returns a component logger for the command. Debug level is
// enabled with SYNTH_DEBUG.
func (s *settings) logger(cmdName string) *logrus.Entry {
	l := log.GetLogger()
	if s.Debug {
		l.SetLevel(logrus.DebugLevel)
	}
	l.SetOutput(s.out)
	return log.Component(l, "synth", cmdName)
}
