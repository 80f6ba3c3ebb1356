// Command cli plays chess against a random computer opponent in the terminal.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"
)

func main() {
	seed := flag.Uint64("seed", uint64(time.Now().UnixNano()), "seed for the computer player")
	color := flag.String("color", "ansi", "board rendering: plain or ansi")
	flag.Parse()

	if *color != "plain" && *color != "ansi" {
		fmt.Fprintf(os.Stderr, "unknown -color %q\n", *color)
		os.Exit(2)
	}
	if err := NewGame(*seed, *color == "ansi").Run(os.Stdin, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
