package main

import (
	"flag"
	"fmt"
	"os"
)

type AppFlags struct {
	SeedURL          string
	GlobalConfigFile string
	OutputFormat     string
	BrokenOnly       bool
}

func ParseFlags() AppFlags {
	seedURL := flag.String("seed", "", "Seed URL to start the scan from.")
	seedURLAlias := flag.String("s", "", "Alias for -seed")

	globalConfigFile := flag.String("config", "", "Path to the global YAML/JSON configuration file. If not set, searches default locations.")
	globalConfigFileAlias := flag.String("c", "", "Alias for -config")

	outputFormat := flag.String("format", "table", "Output format: table or json")
	outputFormatAlias := flag.String("f", "", "Alias for -format")

	brokenOnly := flag.Bool("broken-only", false, "Only print broken and erroring links")

	flag.Parse()

	flags := AppFlags{BrokenOnly: *brokenOnly}

	if *seedURL != "" {
		flags.SeedURL = *seedURL
	} else if *seedURLAlias != "" {
		flags.SeedURL = *seedURLAlias
	}

	if *globalConfigFile != "" {
		flags.GlobalConfigFile = *globalConfigFile
	} else if *globalConfigFileAlias != "" {
		flags.GlobalConfigFile = *globalConfigFileAlias
	}

	if *outputFormatAlias != "" {
		flags.OutputFormat = *outputFormatAlias
	} else {
		flags.OutputFormat = *outputFormat
	}

	if flags.SeedURL == "" {
		// A bare positional argument is accepted too: linkradar https://example.com
		if flag.NArg() > 0 {
			flags.SeedURL = flag.Arg(0)
		}
	}

	if flags.SeedURL == "" {
		fmt.Fprintln(os.Stderr, "[FATAL] --seed argument is required")
		flag.Usage()
		os.Exit(1)
	}

	if flags.OutputFormat != "table" && flags.OutputFormat != "json" {
		fmt.Fprintf(os.Stderr, "[FATAL] unknown output format '%s' (expected table or json)\n", flags.OutputFormat)
		os.Exit(1)
	}

	return flags
}
