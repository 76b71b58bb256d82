// Command lessonfmt renders a lesson file, or standard input, to HTML,
// JSON, YAML or plain text.
//
//	lessonfmt [-format html|json|yaml|text] [-o out] [file]
//
// Input without a file name is read as plain lesson text. Payloads that fail
// to decode are rendered as placeholders and logged to stderr; they do not
// change the exit status.
package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/dgallion1/lessonrender/internal/config"
	"github.com/dgallion1/lessonrender/internal/pipeline"
	"github.com/dgallion1/lessonrender/internal/render"
	"github.com/dgallion1/lessonrender/internal/source"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("lessonfmt", flag.ContinueOnError)
	fs.SetOutput(stderr)
	format := fs.String("format", render.FormatHTML, "output format: "+strings.Join(render.Formats, ", "))
	outPath := fs.String("o", "", "write output to `file` instead of stdout")
	searchURL := fs.String("search-url", "", "image search URL prefix for figure searches")
	quiet := fs.Bool("q", false, "do not log payload failures")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if fs.NArg() > 1 {
		fmt.Fprintln(stderr, "lessonfmt: at most one input file")
		return 2
	}

	level := slog.LevelInfo
	if *quiet {
		level = slog.LevelError
	}
	log := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	cfg, err := config.Load()
	if err != nil {
		log.Error("load configuration", "error", err)
		return 1
	}
	if *searchURL != "" {
		cfg.FigureSearchURL = *searchURL
	}

	if _, err := render.Normalize(*format); err != nil {
		log.Error("invalid format", "error", err)
		return 2
	}

	src, err := load(fs.Arg(0), stdin, cfg)
	if err != nil {
		log.Error("load lesson", "error", err)
		return 1
	}

	engine := pipeline.NewEngine(pipeline.EngineConfig{
		Render: render.Options{FigureSearchURL: cfg.FigureSearchURL},
		Log:    log,
	})
	res, err := engine.Render(context.Background(), src.Text, *format)
	if err != nil {
		log.Error("render lesson", "error", err)
		return 1
	}

	if err := write(*outPath, stdout, res.Output); err != nil {
		log.Error("write output", "error", err)
		return 1
	}
	if res.Summary.Failures > 0 {
		log.Info("rendered with payload failures",
			"title", src.Title,
			"payloads", res.Summary.Payloads,
			"failures", res.Summary.Failures,
		)
	}
	return 0
}

func load(path string, stdin io.Reader, cfg config.Config) (*source.Source, error) {
	if path == "" || path == "-" {
		return (&source.TextLoader{}).Load(stdin, "stdin.txt")
	}
	loader, err := source.ForFile(path, source.Options{PDFFallbackPdftotext: cfg.PDFFallbackPdftotext})
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return loader.Load(bytes.NewReader(data), path)
}

func write(path string, stdout io.Writer, out string) error {
	if path == "" || path == "-" {
		_, err := io.WriteString(stdout, out)
		return err
	}
	return os.WriteFile(path, []byte(out), 0o644)
}
