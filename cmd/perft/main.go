// Command perft counts move generation leaf nodes from the initial position.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"runtime/pprof"
	"sort"
	"time"

	"github.com/benbeisheim/chess-backend/internal/engine"
)

func main() {
	depth := flag.Int("depth", 0, "perft depth (required)")
	divide := flag.Bool("divide", false, "print per-move node counts at the root")
	cpuProf := flag.String("cpuprofile", "", "write a CPU profile to this file")
	flag.Parse()

	if *depth <= 0 {
		fmt.Fprintln(os.Stderr, "-depth must be > 0")
		os.Exit(2)
	}

	if *cpuProf != "" {
		f, err := os.Create(*cpuProf)
		if err != nil {
			fmt.Fprintf(os.Stderr, "creating cpuprofile: %v\n", err)
			os.Exit(2)
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			fmt.Fprintf(os.Stderr, "start cpu profile: %v\n", err)
			os.Exit(2)
		}
		defer func() {
			pprof.StopCPUProfile()
			_ = f.Close()
		}()
	}

	board := engine.NewBoard()
	if *divide {
		printDivide(os.Stdout, board, *depth)
		return
	}
	for d := 1; d <= *depth; d++ {
		start := time.Now()
		nodes := engine.Perft(board, d)
		elapsed := time.Since(start)
		fmt.Printf("depth %d: %d nodes in %s (%.0f nps)\n", d, nodes, elapsed.Round(time.Millisecond),
			float64(nodes)/elapsed.Seconds())
	}
}

func printDivide(w io.Writer, board *engine.Board, depth int) {
	div := engine.Divide(board, depth)
	moves := make([]string, 0, len(div))
	var total uint64
	for m, n := range div {
		moves = append(moves, m)
		total += n
	}
	sort.Strings(moves)
	for _, m := range moves {
		fmt.Fprintf(w, "%s: %d\n", m, div[m])
	}
	fmt.Fprintf(w, "Total: %d\n", total)
}
