// pagedump decodes a register PDF and prints the classified lines and
// positioned text runs of each page. It is the quickest way to see why
// a register parses with one layout strategy rather than the other, or
// why a heading is not being found.
//
// Usage:
//
//	pagedump -pdf register.pdf [-page 2] [-backend pdfcpu]
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/planningalerts-scrapers/district-council-of-lower-eyre-peninsula-sa-development-applications/pkg/content"
	"github.com/planningalerts-scrapers/district-council-of-lower-eyre-peninsula-sa-development-applications/pkg/pdf"
)

func main() {
	pdfPath := flag.String("pdf", "", "path to the register PDF (required)")
	pageNumber := flag.Int("page", 0, "1-based page to dump, 0 for all pages")
	backend := flag.String("backend", "", "force a decode backend: pdfcpu, ledongthuc or dslipak")
	flag.Parse()

	if *pdfPath == "" {
		fmt.Fprintln(os.Stderr, "Error: -pdf flag is required")
		flag.PrintDefaults()
		os.Exit(1)
	}

	data, err := os.ReadFile(*pdfPath)
	if err != nil {
		log.Fatalf("Failed to read PDF: %v", err)
	}

	opts := []pdf.Option{}
	if *backend != "" {
		opts = append(opts, pdf.WithBackend(*backend))
	}
	doc, err := pdf.Open(data, opts...)
	if err != nil {
		log.Fatalf("Failed to open PDF: %v", err)
	}
	defer doc.Close()

	fmt.Printf("%s: %d pages, decoded with %s\n", *pdfPath, doc.PageCount(), doc.Backend())

	for n := 1; n <= doc.PageCount(); n++ {
		if *pageNumber != 0 && n != *pageNumber {
			continue
		}
		page, err := doc.Page(n)
		if err != nil {
			log.Printf("Failed to decode page %d: %v", n, err)
			continue
		}
		dump(page)
	}
}

func dump(page *content.Page) {
	fmt.Printf("\n=== Page %d ===\n", page.Number)
	fmt.Printf("  %d horizontal lines, %d vertical lines, %d text runs\n",
		len(page.HLines), len(page.VLines), len(page.Elements))

	if len(page.HLines) > 0 {
		fmt.Println("\nHorizontal lines:")
		for _, l := range page.HLines {
			fmt.Printf("  y=%.2f x=%.2f..%.2f\n", l.Y, l.X, l.X+l.Width)
		}
	}
	if len(page.VLines) > 0 {
		fmt.Println("\nVertical lines:")
		for _, l := range page.VLines {
			fmt.Printf("  x=%.2f y=%.2f..%.2f\n", l.X, l.Y, l.Y+l.Height)
		}
	}
	if len(page.Elements) > 0 {
		fmt.Println("\nText runs:")
		for _, e := range page.Elements {
			fmt.Printf("  (%.2f, %.2f) w=%.2f %q\n", e.X, e.Y, e.Width, e.Text)
		}
	}
}
