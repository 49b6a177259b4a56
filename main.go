package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/briangreenhill/novelreader/internal/app"
	"github.com/briangreenhill/novelreader/internal/config"
	"github.com/briangreenhill/novelreader/pages"
)

const version = "novelreader v0.1.0"

func main() {
	if err := runCLI(os.Args[1:]); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func runCLI(args []string) error {
	if len(args) > 0 {
		switch args[0] {
		case "help", "--help", "-h":
			printHelp(os.Stdout)
			return nil
		case "version", "--version", "-v":
			fmt.Println(version)
			return nil
		}
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := zerolog.New(os.Stderr).With().Timestamp().Logger().Level(cfg.Level())

	a, err := app.New(cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	return newCLI(a, os.Stdin, os.Stdout).run(context.Background(), args)
}

func printHelp(w io.Writer) {
	fmt.Fprintln(w, "Usage: novelreader [command] [args]")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  home                       Featured, latest and popular novels (default)")
	fmt.Fprintln(w, "  search <query> [page]      Search novels")
	fmt.Fprintln(w, "  novel <slug>               Novel details and chapter list")
	fmt.Fprintln(w, "  chapter <slug> <chapter>   Read a chapter")
	fmt.Fprintln(w, "  browse <slug> <chapter> [position]")
	fmt.Fprintln(w, "                             Step through a chapter's illustrations (n/p/q)")
	fmt.Fprintln(w, "  genres | genre <slug> [page]")
	fmt.Fprintln(w, "  latest | popular | list [page] [orderby]")
	fmt.Fprintln(w, "  history [clear] | bookmarks [clear] | bookmark <slug>")
	fmt.Fprintln(w, "  theme [light|dark]")
	fmt.Fprintln(w, "  shell                      Run commands interactively with a shared cache")
	fmt.Fprintln(w, "  clear-cache                Drop cached API responses")
	fmt.Fprintln(w, "  help, version")
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintln(w, "  NOVEL_API_BASE_URL   API root (default "+config.Default().API.BaseURL+")")
	fmt.Fprintln(w, "  NOVEL_CACHE_TTL      Response cache lifetime (default 5m)")
	fmt.Fprintln(w, "  NOVEL_FAILURE_TTL    Lifetime of cached failures, 0 disables (default 5m)")
	fmt.Fprintln(w, "  NOVEL_STORE          file or sqlite (default file)")
	fmt.Fprintln(w, "  NOVEL_DATA_DIR       Local state directory (default ~/.novelreader)")
	fmt.Fprintln(w, "  NOVEL_LOG_LEVEL      debug, info, warn or error (default warn)")
}

type cli struct {
	app     *app.App
	pages   *pages.Registry
	chapter *pages.Chapter
	in      *bufio.Reader
	out     io.Writer
}

func newCLI(a *app.App, in io.Reader, out io.Writer) *cli {
	reg := pages.Default(a)
	p, _ := reg.Get("chapter")
	return &cli{
		app:     a,
		pages:   reg,
		chapter: p.(*pages.Chapter),
		in:      bufio.NewReader(in),
		out:     out,
	}
}

func (c *cli) run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		args = []string{"home"}
	}

	switch args[0] {
	case "help", "--help", "-h":
		printHelp(c.out)
	case "version", "--version", "-v":
		fmt.Fprintln(c.out, version)
		fmt.Fprintf(c.out, "Device: %s\n", c.app.UserID)
	case "clear-cache":
		n := c.app.Cache.Len()
		c.app.API.ClearCache()
		fmt.Fprintf(c.out, "Cache cleared (%d responses)\n", n)
	case "browse":
		return c.browse(ctx, args[1:])
	case "shell":
		return c.shell(ctx)
	default:
		out, err := c.pages.Render(ctx, args[0], args[1:])
		if err != nil {
			return err
		}
		fmt.Fprint(c.out, out)
	}
	return nil
}

func (c *cli) browse(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("%w\nusage: browse <slug> <chapter> [position]", pages.ErrUsage)
	}
	ref := -1
	if len(args) > 2 {
		n, err := strconv.Atoi(args[2])
		if err != nil {
			return fmt.Errorf("%w: position must be a number, got %q", pages.ErrUsage, args[2])
		}
		ref = n
	}

	view, err := c.chapter.Load(ctx, args[0], args[1])
	if err != nil {
		return err
	}
	if view.Error != "" {
		fmt.Fprint(c.out, pages.FormatChapter(view))
		return nil
	}
	return c.chapter.Browse(ctx, c.in, c.out, ref)
}

// shell reads one command per line until quit or EOF. Errors are printed and
// the loop continues.
func (c *cli) shell(ctx context.Context) error {
	for {
		fmt.Fprint(c.out, "novelreader> ")
		line, err := c.in.ReadString('\n')
		fields := strings.Fields(line)

		if len(fields) > 0 {
			switch fields[0] {
			case "quit", "exit":
				return nil
			case "shell":
			default:
				if runErr := c.run(ctx, fields); runErr != nil {
					fmt.Fprintf(c.out, "Error: %v\n", runErr)
				}
			}
		}

		if errors.Is(err, io.EOF) {
			fmt.Fprintln(c.out)
			return nil
		}
		if err != nil {
			return err
		}
	}
}
