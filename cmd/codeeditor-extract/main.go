// Command codeeditor-extract prints the error annotations found in a build log
//
//	codeeditor-extract -in build.json
//	cat build.json | codeeditor-extract -source-root app
//
// input is a JSON array of {"time": "...", "log": "..."} entries
package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"io"
	"os"

	"codeeditor/internal/core/buildlog"
	perr "codeeditor/internal/platform/errors"
	"codeeditor/internal/platform/logger"
)

func main() {
	var (
		in     = flag.String("in", "", "input file, stdin when empty")
		root   = flag.String("source-root", buildlog.DefaultSourceRoot, "first path segment of annotated files")
		pretty = flag.Bool("pretty", false, "indent the output")
	)
	flag.Parse()

	l := logger.Named("extract")

	src := io.Reader(os.Stdin)
	if *in != "" {
		f, err := os.Open(*in)
		if err != nil {
			l.Fatal().Err(err).Str("file", *in).Msg("open input")
		}
		defer f.Close()
		src = f
	}

	out := bufio.NewWriter(os.Stdout)
	if err := run(src, out, *root, *pretty); err != nil {
		l.Fatal().Err(err).Msg("extract failed")
	}
	if err := out.Flush(); err != nil {
		l.Fatal().Err(err).Msg("write output")
	}
}

func run(in io.Reader, out io.Writer, root string, pretty bool) error {
	var entries []buildlog.Entry
	if err := json.NewDecoder(in).Decode(&entries); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeInvalidArgument, "decode entries")
	}

	x := buildlog.New(buildlog.WithSourceRoot(root))
	res := x.ExtractErrors(buildlog.FromEntries(entries))

	enc := json.NewEncoder(out)
	if pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(res)
}
