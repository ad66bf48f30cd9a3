package main

import (
	"fmt"
	"os"

	"github.com/rickchristie/bootbanner/internal/version"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "print":
		err = runPrint(os.Args[2:])
	case "doctor":
		err = runDoctor(os.Args[2:])
	case "serve":
		err = runServe(os.Args[2:])
	case "configure":
		err = runConfigure(os.Args[2:])
	case "version", "--version":
		fmt.Println("bootbanner " + version.Full())
	case "--help", "-h", "help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("bootbanner: startup banner toolkit")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  bootbanner print       Print the startup banner")
	fmt.Println("  bootbanner doctor      Check configuration and banner resources")
	fmt.Println("  bootbanner serve       Start the application and serve MCP tools over HTTP")
	fmt.Println("  bootbanner configure   Run interactive configuration wizard")
	fmt.Println("  bootbanner version     Show version information")
	fmt.Println("  bootbanner --help      Show this help message")
	fmt.Println()
	fmt.Println("Properties can be passed after --, e.g. bootbanner print -- --banner.mode=log")
}
