// mml - transcoding tool for the MML Markdown-list codec
//
// Reads a JSON, CBOR, or MML document and writes it back out in any of the
// three formats. The default pipeline matches the common case: JSON on stdin,
// MML on stdout.
//
//	mml input.json                    JSON file to MML on stdout
//	mml --from=mml --to=json doc.md   MML back to JSON
//	mml --to=cbor --gzip -o out.gz    JSON stdin to gzipped CBOR
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/gzip"
	logger "github.com/multiversx/mx-chain-logger-go"
	"github.com/urfave/cli"

	"github.com/PurpleMyst/serde-mml/mml"
)

var log = logger.GetOrCreate("mml")

var (
	fromFlag = cli.StringFlag{
		Name:  "from",
		Usage: "input format: json, cbor or mml",
		Value: "json",
	}
	toFlag = cli.StringFlag{
		Name:  "to",
		Usage: "output format: json, cbor or mml",
		Value: "mml",
	}
	outputFlag = cli.StringFlag{
		Name:  "output, o",
		Usage: "write to `FILE` instead of stdout",
	}
	gzipFlag = cli.BoolFlag{
		Name:  "gzip, z",
		Usage: "gzip-compress the output",
	}
)

func main() {
	app := cli.NewApp()
	app.Name = "mml"
	app.Usage = "transcode JSON/CBOR documents to Markdown-list documents and back"
	app.ArgsUsage = "[file]"
	app.Flags = []cli.Flag{fromFlag, toFlag, outputFlag, gzipFlag}
	app.Action = transcode

	if err := app.Run(os.Args); err != nil {
		log.Error("transcode failed", "error", err)
		os.Exit(1)
	}
}

func transcode(ctx *cli.Context) error {
	data, err := readInput(ctx.Args().First())
	if err != nil {
		return err
	}

	value, err := decode(ctx.String("from"), data)
	if err != nil {
		return err
	}

	out, err := encode(ctx.String("to"), value)
	if err != nil {
		return err
	}

	return writeOutput(ctx.String("output"), out, ctx.Bool("gzip"))
}

func readInput(path string) ([]byte, error) {
	if path == "" || path == "-" {
		return io.ReadAll(os.Stdin)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := f.Close(); err != nil {
			log.Warn("close input", "file", path, "error", err)
		}
	}()

	return io.ReadAll(f)
}

func decode(format string, data []byte) (mml.Value, error) {
	switch format {
	case "json":
		return mml.FromJSON(data)
	case "cbor":
		return mml.FromCBOR(data)
	case "mml":
		var value mml.Value
		if err := mml.Unmarshal(string(data), &value); err != nil {
			return mml.Value{}, err
		}
		return value, nil
	default:
		return mml.Value{}, fmt.Errorf("unknown input format %q", format)
	}
}

func encode(format string, value mml.Value) ([]byte, error) {
	switch format {
	case "json":
		return mml.ToJSON(value)
	case "cbor":
		return mml.ToCBOR(value)
	case "mml":
		return mml.Marshal(value)
	default:
		return nil, fmt.Errorf("unknown output format %q", format)
	}
}

func writeOutput(path string, data []byte, compress bool) error {
	var out io.Writer = os.Stdout
	if path != "" && path != "-" {
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer func() {
			if err := f.Close(); err != nil {
				log.Warn("close output", "file", path, "error", err)
			}
		}()
		out = f
	}

	if compress {
		zw := gzip.NewWriter(out)
		if _, err := zw.Write(data); err != nil {
			return err
		}
		return zw.Close()
	}

	_, err := out.Write(data)
	return err
}
