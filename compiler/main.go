package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/xiaobogaga/jackc/compiler/internal"
)

// A jack compiler: translates Xxx.jack into Xxx.vm next to it, for a single
// file or for every .jack file of a directory.

func main() {
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s <file.jack | directory>\n", os.Args[0])
	}
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	cfg := internal.DefaultConfig()
	cfg.Logger = log.New(os.Stderr, "compiler: ", 0)
	_, err := internal.Compile(flag.Arg(0), cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
