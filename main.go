package main

import (
	"flag"
	"fmt"
	"os"

	"decaflang/decaf/driver"
)

func main() {
	inputFile := flag.String("i", "", "Input Decaf source file")
	outputFile := flag.String("o", "output.ll", "Output LLVM IR file (only written at -target=tac)")
	target := flag.String("target", "tac", "Stage to stop at: parse, namer, typer, tac")
	dumpScope := flag.Bool("dump-scope", false, "Print the resolved scope tree after name resolution")
	quiet := flag.Bool("quiet", false, "Suppress staged progress output")
	flag.Parse()

	if *inputFile == "" {
		fmt.Fprintln(os.Stderr, "Error: Input file is required")
		flag.PrintDefaults()
		os.Exit(1)
	}

	tgt, ok := driver.ParseTarget(*target)
	if !ok {
		fmt.Fprintf(os.Stderr, "Error: unknown -target %q (want parse, namer, typer, or tac)\n", *target)
		os.Exit(1)
	}

	level := driver.LevelInfo
	if *quiet {
		level = driver.LevelSilent
	}
	log := driver.NewLogger(os.Stdout, level)

	cfg := &driver.Config{
		InputFile:  *inputFile,
		OutputFile: *outputFile,
		Target:     tgt,
		DumpScope:  *dumpScope,
	}

	result, parseErrs, diags, err := driver.Run(cfg, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if len(parseErrs) > 0 {
		fmt.Fprintln(os.Stderr, "Parsing errors:")
		for _, e := range parseErrs {
			fmt.Fprintf(os.Stderr, "\t%s\n", e)
		}
		os.Exit(1)
	}
	if len(diags) > 0 {
		fmt.Fprintln(os.Stderr, "Semantic errors:")
		for _, d := range diags {
			fmt.Fprintf(os.Stderr, "\t%s\n", d)
		}
		os.Exit(1)
	}

	if result.Module == nil {
		return
	}

	f, err := os.Create(*outputFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating output file: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	if _, err := fmt.Fprintf(f, "%s", result.Module.String()); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing output: %v\n", err)
		os.Exit(1)
	}

	log.Info("Successfully generated LLVM IR in %s", *outputFile)
}
