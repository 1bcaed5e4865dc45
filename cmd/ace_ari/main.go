// ace_ari is the transcoder CLI: it reads ARIs in one form and writes
// them out in another, optionally resolving references against a set of
// loaded ADMs (spec.md §6.1).
//
// Usage:
//
//	ace_ari --inform text --outform cbor < input.txt > output.cbor
//
// Exit codes: 0 success; 1 lexical/syntax error; 2 decode error;
// 3 resolution/signature error; 4 usage error.
package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/fxamacker/cbor/v2"
	"github.com/spf13/pflag"

	"github.com/NASA-AMMOS/anms-ace/adm"
	"github.com/NASA-AMMOS/anms-ace/ari"
	"github.com/NASA-AMMOS/anms-ace/transcoder"
)

const (
	exitOK         = 0
	exitLexSyntax  = 1
	exitDecode     = 2
	exitResolution = 3
	exitUsage      = 4
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	flags := pflag.NewFlagSet("ace_ari", pflag.ContinueOnError)

	inform := flags.String("inform", "text", "input form: text, cborhex, or cbor")
	outform := flags.String("outform", "text", "output form: text, cborhex, or cbor")
	inputPath := flags.String("input", "-", "input file path (\"-\" for standard input)")
	outputPath := flags.String("output", "-", "output file path (\"-\" for standard output)")
	mustNickname := flags.Bool("must-nickname", false, "error if a resolved reference lacks a symbolic name")
	mustLookup := flags.Bool("must-lookup", false, "error on any reference the ADM catalog cannot resolve")
	admPath := flags.String("adm-path", os.Getenv("ADM_PATH"), "colon-separated ADM search path (default: $ADM_PATH, then XDG data dirs)")
	logLevel := flags.String("log-level", "info", "log level: debug, info, warn, or error")

	if err := flags.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			return exitOK
		}
		fmt.Fprintln(os.Stderr, "ace_ari:", err)
		return exitUsage
	}

	logger, err := newLogger(*logLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, "ace_ari:", err)
		return exitUsage
	}

	inForm, err := transcoder.ParseForm(*inform)
	if err != nil {
		fmt.Fprintln(os.Stderr, "ace_ari:", err)
		return exitUsage
	}
	outForm, err := transcoder.ParseForm(*outform)
	if err != nil {
		fmt.Fprintln(os.Stderr, "ace_ari:", err)
		return exitUsage
	}

	cat, err := loadCatalog(*admPath, logger)
	if err != nil {
		fmt.Fprintln(os.Stderr, "ace_ari: loading ADM catalog:", err)
		return exitUsage
	}

	cache, err := adm.OpenCache(filepath.Join(adm.CacheDir(), "adms.sqlite"), logger)
	if err != nil {
		logger.Warn("nickname cache unavailable, continuing without it", "error", err)
	} else {
		defer cache.Close()
		if err := cache.Prime(context.Background(), cat); err != nil {
			logger.Warn("priming nickname cache failed", "error", err)
		}
	}

	in, closeIn, err := openInput(*inputPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "ace_ari:", err)
		return exitUsage
	}
	defer closeIn()

	out, closeOut, err := openOutput(*outputPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "ace_ari:", err)
		return exitUsage
	}
	defer closeOut()

	tc := transcoder.New(cat)
	opts := transcoder.ResolveOptions{MustNickname: *mustNickname, MustLookup: *mustLookup}

	return transcodeStream(in, out, inForm, outForm, tc, opts, logger)
}

func newLogger(level string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid --log-level %q", level)
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})), nil
}

func loadCatalog(admPath string, logger *slog.Logger) (*adm.Catalog, error) {
	paths := adm.DiscoverPaths(admPath)
	cat, err := adm.LoadAll(paths, logger)
	if err != nil {
		return nil, err
	}
	cat.Freeze()
	return cat, nil
}

func openInput(path string) (io.Reader, func(), error) {
	if path == "-" {
		return os.Stdin, func() {}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening input %s: %w", path, err)
	}
	return f, func() { f.Close() }, nil
}

func openOutput(path string) (io.Writer, func(), error) {
	if path == "-" {
		return os.Stdout, func() {}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening output %s: %w", path, err)
	}
	return f, func() { f.Close() }, nil
}

// transcodeStream reads one ARI per line (text/cborhex forms) or one ARI
// per CBOR item (binary form), per spec.md §6.1's "stream framing" rule,
// transcoding each through resolve and emit.
func transcodeStream(in io.Reader, out io.Writer, inForm, outForm transcoder.Form, tc *transcoder.Transcoder, opts transcoder.ResolveOptions, logger *slog.Logger) int {
	if inForm == transcoder.FormCBOR {
		dec := cbor.NewDecoder(in)
		for {
			var item cbor.RawMessage
			if err := dec.Decode(&item); err != nil {
				if err == io.EOF {
					return exitOK
				}
				fmt.Fprintln(os.Stderr, "ace_ari: reading input:", err)
				return exitDecode
			}
			if code := transcodeOne(item, out, inForm, outForm, tc, opts, logger); code != exitOK {
				return code
			}
		}
	}

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		if code := transcodeOne(line, out, inForm, outForm, tc, opts, logger); code != exitOK {
			return code
		}
	}
	if err := scanner.Err(); err != nil {
		fmt.Fprintln(os.Stderr, "ace_ari: reading input:", err)
		return exitUsage
	}
	return exitOK
}

func transcodeOne(data []byte, out io.Writer, inForm, outForm transcoder.Form, tc *transcoder.Transcoder, opts transcoder.ResolveOptions, logger *slog.Logger) int {
	v, err := transcoder.Decode(inForm, data)
	if err != nil {
		fmt.Fprintln(os.Stderr, "ace_ari:", err)
		return exitCodeFor(err)
	}

	resolved, err := tc.Resolve(v, opts)
	if err != nil {
		logger.Debug("resolution failed", "error", err)
		fmt.Fprintln(os.Stderr, "ace_ari:", err)
		return exitCodeFor(err)
	}

	rendered, err := transcoder.Emit(outForm, resolved)
	if err != nil {
		fmt.Fprintln(os.Stderr, "ace_ari:", err)
		return exitCodeFor(err)
	}
	if _, err := out.Write(rendered); err != nil {
		fmt.Fprintln(os.Stderr, "ace_ari: writing output:", err)
		return exitUsage
	}
	if outForm != transcoder.FormCBOR {
		if _, err := out.Write([]byte("\n")); err != nil {
			fmt.Fprintln(os.Stderr, "ace_ari: writing output:", err)
			return exitUsage
		}
	}
	return exitOK
}

// exitCodeFor maps one of ari's typed errors to the exit code spec.md
// §6.1 refines "nonzero on any error" into.
func exitCodeFor(err error) int {
	switch err.(type) {
	case *ari.LexicalError, *ari.SyntaxError:
		return exitLexSyntax
	case *ari.DecodeError:
		return exitDecode
	case *ari.ResolutionError, *ari.SignatureError, *ari.TypeError:
		return exitResolution
	default:
		return exitUsage
	}
}
