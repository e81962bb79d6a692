package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pageflow/pageflow"
)

func main() {
	var (
		inputFile  string
		outputFile string
		pageSize   string
		marginIn   float64
		verbose    bool
	)

	flag.StringVar(&inputFile, "input", "", "Input document path or http(s) URL (.txt, .md, .html, .docx, .pdf)")
	flag.StringVar(&outputFile, "output", "", "Output PDF file path")
	flag.StringVar(&pageSize, "page", "a4", "Page size: a4, letter or legal")
	flag.Float64Var(&marginIn, "margin", 1.0, "Page margin in inches")
	flag.BoolVar(&verbose, "verbose", false, "Enable verbose output")
	flag.Parse()

	if inputFile == "" {
		fmt.Println("Error: input file is required")
		flag.Usage()
		os.Exit(1)
	}

	remote := strings.HasPrefix(inputFile, "http://") || strings.HasPrefix(inputFile, "https://")
	if outputFile == "" {
		if remote {
			fmt.Println("Error: -output is required for URL input")
			os.Exit(1)
		}
		ext := filepath.Ext(inputFile)
		outputFile = inputFile[:len(inputFile)-len(ext)] + ".pdf"
	}

	opts := []pageflow.Option{
		pageflow.WithMargins(
			pageflow.In(marginIn), pageflow.In(marginIn),
			pageflow.In(marginIn), pageflow.In(marginIn),
		),
		pageflow.WithTitle(filepath.Base(inputFile)),
	}
	switch pageSize {
	case "a4":
		opts = append(opts, pageflow.WithPageSizeA4())
	case "letter":
		opts = append(opts, pageflow.WithPageSizeLetter())
	case "legal":
		opts = append(opts, pageflow.WithPageSizeLegal())
	default:
		fmt.Printf("Error: unknown page size %q\n", pageSize)
		os.Exit(1)
	}

	paginator, err := pageflow.NewWith(opts...)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	var doc *pageflow.Node
	if remote {
		doc, err = paginator.LoadURL(inputFile)
	} else {
		doc, err = paginator.LoadFile(inputFile)
	}
	if err != nil {
		fmt.Printf("Error paginating document: %v\n", err)
		os.Exit(1)
	}

	if err := paginator.RenderPDF(doc, outputFile); err != nil {
		fmt.Printf("Error writing PDF: %v\n", err)
		os.Exit(1)
	}

	if verbose {
		fmt.Printf("Paginated %s into %d pages: %s\n", inputFile, len(doc.Children), outputFile)
	}
}
