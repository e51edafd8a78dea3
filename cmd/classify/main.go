package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/openlegis/billtracker/go-engine/internal/lexicon"
)

// #region main

func main() {
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "usage: classify \"ACTION TEXT\"")
		fmt.Fprintln(os.Stderr, "       classify -            (read lines from stdin)")
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	arg := flag.Arg(0)
	if arg == "-" {
		os.Exit(classifyStdin())
	}
	os.Exit(classifyOne(arg))
}

// #endregion main

// #region classify

func classifyOne(text string) int {
	st, ok := lexicon.Classify(text)
	if !ok {
		fmt.Println("undetermined")
		return 1
	}
	fmt.Println(st)
	return 0
}

func classifyStdin() int {
	scanner := bufio.NewScanner(os.Stdin)
	undetermined := 0
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		st, ok := lexicon.Classify(line)
		if !ok {
			fmt.Printf("undetermined\t%s\n", line)
			undetermined++
			continue
		}
		fmt.Printf("%s\t%s\n", st, line)
	}
	if err := scanner.Err(); err != nil {
		fmt.Fprintf(os.Stderr, "read stdin: %v\n", err)
		return 2
	}
	if undetermined > 0 {
		return 1
	}
	return 0
}

// #endregion classify
