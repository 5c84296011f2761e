// Command ambient plays and renders the procedural ambient soundscape.
//
// Usage:
//
//	ambient <command> [flags] [args]
//
// Commands:
//
//	list                   list the effect recipes
//	render [flags] effect  render one effect to a FLAC file
//	inspect [source ...]   print level and spectral statistics
//	play                   interactive player (needs a terminal)
//
// Examples:
//
//	ambient render -o boot.flac boot
//	ambient render -duration 10 -bits 24 drone
//	ambient render -drone -o scare.flac scare
//	ambient inspect -intensity 1 knock scare pink
//	AMBIENT_BACKEND=pulse ambient play
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/cwbudde/algo-ambient/internal/config"
	"github.com/cwbudde/algo-ambient/internal/logging"
	"github.com/rs/zerolog"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		usage(stderr)
		return 2
	}

	var err error
	switch cmd, rest := args[0], args[1:]; cmd {
	case "list":
		err = runList(rest, stdout, stderr)
	case "render":
		err = runRender(rest, stdout, stderr)
	case "inspect":
		err = runInspect(rest, stdout, stderr)
	case "play":
		err = runPlay(rest, stderr)
	case "help", "-h", "-help", "--help":
		usage(stdout)
		return 0
	default:
		fmt.Fprintf(stderr, "error: unknown command %q\n\n", cmd)
		usage(stderr)
		return 2
	}

	switch {
	case errors.Is(err, flag.ErrHelp):
		return 0
	case err != nil:
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	return 0
}

func usage(w io.Writer) {
	fmt.Fprintf(w, "Usage: ambient <command> [flags] [args]\n\n")
	fmt.Fprintf(w, "Commands:\n")
	fmt.Fprintf(w, "  list      list the effect recipes\n")
	fmt.Fprintf(w, "  render    render one effect to a FLAC file\n")
	fmt.Fprintf(w, "  inspect   print level and spectral statistics\n")
	fmt.Fprintf(w, "  play      interactive player\n\n")
	fmt.Fprintf(w, "Run 'ambient <command> -h' for command flags.\n")
}

// command couples a subcommand flag set with the shared config flags.
type command struct {
	fs  *flag.FlagSet
	cf  *config.Flags
	cfg config.Config
	log zerolog.Logger
}

func newCommand(name, args string, stderr io.Writer) *command {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: ambient %s [flags] %s\n\nFlags:\n", name, args)
		fs.PrintDefaults()
	}
	return &command{fs: fs, cf: config.RegisterFlags(fs)}
}

// parse parses args and resolves the layered configuration. Logs go to
// logOut.
func (c *command) parse(args []string, logOut io.Writer) error {
	if err := c.fs.Parse(args); err != nil {
		return err
	}
	return c.resolve(logOut)
}

func (c *command) resolve(logOut io.Writer) error {
	cfg, err := c.cf.Resolve(os.LookupEnv)
	if err != nil {
		return err
	}
	log, err := logging.New(logging.Options{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Out:    logOut,
	})
	if err != nil {
		return err
	}
	c.cfg, c.log = cfg, log.With().Str("cmd", c.fs.Name()).Logger()
	return nil
}
