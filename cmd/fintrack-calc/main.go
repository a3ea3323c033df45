// Command fintrack-calc runs the calculator in a terminal. Each input line
// holds whitespace-separated key labels, for example "12 + 7 =" or "+10%".
package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"fintrack/internal/calculator"
	"fintrack/internal/cli"
	"fintrack/internal/log"
)

func main() {
	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL"), log.ComponentCalculator)
	if err := run(os.Stdin, os.Stdout); err != nil {
		cli.Fatal(logger, "Calculator failed", err)
	}
}

func run(in io.Reader, out io.Writer) error {
	calc := calculator.NewEvaluator()
	fmt.Fprintf(out, "keys: %s (q to quit)\n", strings.Join(calculator.Keys, " "))
	render(out, calc.State())

	sc := bufio.NewScanner(in)
	for sc.Scan() {
		for _, key := range strings.Fields(sc.Text()) {
			if key == "q" || key == "quit" {
				return nil
			}
			if err := calc.Press(key); err != nil {
				fmt.Fprintf(out, "error: %v\n", err)
			}
		}
		render(out, calc.State())
	}
	return sc.Err()
}

func render(out io.Writer, s calculator.State) {
	snap := s.Snapshot()
	if snap.Expression != "" {
		fmt.Fprintf(out, "%24s\n", snap.Expression)
	}
	fmt.Fprintf(out, "%24s\n", snap.Display)
}
