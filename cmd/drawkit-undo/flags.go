// ABOUTME: CLI flag parsing using stdlib flag package
// ABOUTME: Supports --verbose, --docs, --script, --scripted, --project, --lang, --log-file

package main

import "flag"

type cliArgs struct {
	verbose  bool
	docs     int
	script   string
	scripted bool
	project  string
	lang     string
	logFile  string
	width    int
	version  bool
}

func parseFlags() cliArgs {
	var args cliArgs

	flag.BoolVar(&args.verbose, "verbose", false, "Enable debug logging")
	flag.IntVar(&args.docs, "docs", 3, "Number of documents edited concurrently in scripted mode")
	flag.StringVar(&args.script, "script", "", "Edit script to replay (default: built-in script)")
	flag.BoolVar(&args.scripted, "scripted", false, "Force scripted mode even on a terminal")
	flag.StringVar(&args.project, "project", "", "Project root holding .drawkit/undo.yaml (default: working directory)")
	flag.StringVar(&args.lang, "lang", "", "Menu title language, e.g. de or fr")
	flag.StringVar(&args.logFile, "log-file", "", "Write logs to this file in interactive mode")
	flag.IntVar(&args.width, "width", 48, "History row width in scripted reports")
	flag.BoolVar(&args.version, "version", false, "Show version and exit")

	flag.Parse()
	return args
}
