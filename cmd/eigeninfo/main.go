// Command eigeninfo prints the eigenvalue decomposition of a real square
// matrix.
//
// Usage:
//
//	eigeninfo [flags] "row; row; ..."
//
// The matrix is given as semicolon-separated rows of comma- or
// space-separated values. Without an argument the matrix is read from stdin,
// one row per line.
//
// Examples:
//
//	eigeninfo "2,-1,0; -1,2,-1; 0,-1,2"
//	eigeninfo -general "0,-1; 1,0"
//	echo "1 2\n3 4" | eigeninfo
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/cwbudde/algo-linalg/eigen"
	"github.com/cwbudde/algo-linalg/mat"
)

func main() {
	general := flag.Bool("general", false, "force the general (non-symmetric) pipeline")
	symmetric := flag.Bool("symmetric", false, "force the symmetric pipeline")
	matrices := flag.Bool("matrices", false, "also print the D and V matrices")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: eigeninfo [flags] \"row; row; ...\"\n\n")
		fmt.Fprintf(os.Stderr, "Prints eigenvalues, determinant and rank of a real square matrix.\n")
		fmt.Fprintf(os.Stderr, "Without an argument the matrix is read from stdin, one row per line.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  eigeninfo \"2,-1,0; -1,2,-1; 0,-1,2\"\n")
		fmt.Fprintf(os.Stderr, "  eigeninfo -general -matrices \"0,-1; 1,0\"\n")
	}
	flag.Parse()

	if *general && *symmetric {
		fmt.Fprintln(os.Stderr, "error: -general and -symmetric are mutually exclusive")
		os.Exit(1)
	}

	a, err := readMatrix(flag.Args())
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	var ed *eigen.Decomposition

	switch {
	case *general:
		ed, err = eigen.New(a, false)
	case *symmetric:
		ed, err = eigen.New(a, true)
	default:
		ed, err = eigen.Decompose(a)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	printDecomposition(ed, *matrices)
}

func readMatrix(args []string) (*mat.Dense, error) {
	var rowTexts []string

	if len(args) > 0 {
		rowTexts = strings.Split(strings.Join(args, ";"), ";")
	} else {
		sc := bufio.NewScanner(os.Stdin)
		for sc.Scan() {
			if line := strings.TrimSpace(sc.Text()); line != "" {
				rowTexts = append(rowTexts, line)
			}
		}

		if err := sc.Err(); err != nil {
			return nil, err
		}
	}

	rows := make([][]float64, 0, len(rowTexts))

	for i, text := range rowTexts {
		fields := strings.FieldsFunc(text, func(r rune) bool {
			return r == ',' || r == ' ' || r == '\t'
		})

		if len(fields) == 0 {
			continue
		}

		row := make([]float64, len(fields))
		for j, f := range fields {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return nil, fmt.Errorf("row %d: %w", i+1, err)
			}

			row[j] = v
		}

		rows = append(rows, row)
	}

	return mat.FromRows(rows)
}

func printDecomposition(ed *eigen.Decomposition, matrices bool) {
	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(tw, "Index\tReal\tImag\t\n")

	for i, v := range ed.Values() {
		fmt.Fprintf(tw, "%d\t%.8g\t%.8g\t\n", i, real(v), imag(v))
	}

	tw.Flush()

	pipeline := "general"
	if ed.Symmetric() {
		pipeline = "symmetric"
	}

	fmt.Printf("\npipeline: %s\ndeterminant: %.8g\nrank: %d\n", pipeline, ed.Determinant(), ed.Rank())

	if matrices {
		fmt.Printf("\n%s", ed)
	}
}
