package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/bebop/fmindex/fmindex"
)

// buildCommand reads all of stdin as T, constructs an FMIndex over it, and
// writes the serialized bytes to stdout.
func buildCommand(c *cli.Context) error {
	text, err := io.ReadAll(os.Stdin)
	if err != nil {
		return fmt.Errorf("reading stdin: %w", err)
	}

	var opts []fmindex.Option
	if rate := c.Float64("rate"); rate > 0 {
		opts = append(opts, fmindex.WithSamplingRate(rate))
	}

	idx, err := fmindex.New(text, opts...)
	if err != nil {
		return fmt.Errorf("building index: %w", err)
	}

	blob, err := idx.Serialize()
	if err != nil {
		return fmt.Errorf("serializing index: %w", err)
	}

	if _, err := os.Stdout.Write(blob); err != nil {
		return fmt.Errorf("writing stdout: %w", err)
	}
	return nil
}

// queryCommand loads a previously built index file and runs a single
// contains/counts/locate query against it, printing the result to stdout.
// The -query flag takes the form "verb:pattern", e.g. "counts:quick".
func queryCommand(c *cli.Context) error {
	indexPath := c.String("index")
	if indexPath == "" {
		return fmt.Errorf("-query requires -index")
	}

	verb, pattern, err := splitQuery(c.String("query"))
	if err != nil {
		return err
	}

	blob, err := os.ReadFile(indexPath)
	if err != nil {
		return fmt.Errorf("reading index file: %w", err)
	}

	idx, err := fmindex.Deserialize(blob)
	if err != nil {
		return fmt.Errorf("loading index: %w", err)
	}

	switch verb {
	case "contains":
		fmt.Println(idx.Contains([]byte(pattern)))
	case "counts":
		fmt.Println(idx.Counts([]byte(pattern)))
	case "locate":
		r := idx.Search([]byte(pattern))
		locs := idx.LocateRange(r)
		strs := make([]string, len(locs))
		for i, loc := range locs {
			strs[i] = strconv.Itoa(loc)
		}
		fmt.Println(strings.Join(strs, ","))
	default:
		return fmt.Errorf("unknown query verb %q, want contains, counts, or locate", verb)
	}
	return nil
}

func splitQuery(query string) (verb, pattern string, err error) {
	parts := strings.SplitN(query, ":", 2)
	if len(parts) != 2 {
		return "", "", fmt.Errorf("malformed -query %q, want verb:pattern", query)
	}
	return parts[0], parts[1], nil
}
