package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/kbukum/medsum/summary"
)

func render(w io.Writer, s summary.Summary, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(s)
	}
	for i, sec := range s.Sections() {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "## %s\n%s\n", sec.Title, sec.Body)
	}
	return nil
}
