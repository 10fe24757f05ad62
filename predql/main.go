package main

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/pflag"

	"github.com/predql/predql"
	"github.com/predql/predql/jsondoc"
)

func init() {
	pflag.String("schema", "", "Path to the YAML schema definition")
	pflag.String("records", "", "Path to a newline-delimited JSON records file")
	pflag.Bool("explain", false, "Print the canonical form of the expression")
	pflag.String("config", "", "Path to the configuration file")
}

func main() {
	pflag.Parse()

	if pflag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: predql [flags] <expression>")
		pflag.PrintDefaults()
		os.Exit(2)
	}

	cfg, err := LoadConfig()
	if err != nil {
		slog.Error("loading configuration", "error", err)
		os.Exit(1)
	}

	schema, err := LoadSchema(cfg.SchemaPath)
	if err != nil {
		slog.Error("loading schema", "path", cfg.SchemaPath, "error", err)
		os.Exit(1)
	}

	expr := pflag.Arg(0)
	pred, err := predql.Deserialize(schema, expr)
	if err != nil {
		slog.Error("expression does not compile", "error", err)
		os.Exit(1)
	}

	if cfg.Explain {
		canonical, err := predql.Serialize(pred)
		if err != nil {
			slog.Error("rendering expression", "error", err)
			os.Exit(1)
		}
		fmt.Println(canonical)
	}

	if cfg.RecordsPath != "" {
		if err := filterRecords(pred, cfg.RecordsPath); err != nil {
			slog.Error("filtering records", "path", cfg.RecordsPath, "error", err)
			os.Exit(1)
		}
	}
}

// filterRecords streams newline-delimited JSON through the compiled
// filter and prints the matching lines.
func filterRecords(pred *predql.Predicate, path string) error {
	filter := jsondoc.NewFilter(pred)

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		doc := scanner.Bytes()
		if len(doc) == 0 {
			continue
		}
		ok, err := filter(doc)
		if err != nil {
			slog.Warn("skipping record", "line", line, "error", err)
			continue
		}
		if ok {
			fmt.Println(scanner.Text())
		}
	}
	return scanner.Err()
}
