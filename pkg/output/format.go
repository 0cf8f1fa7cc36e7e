// Package output provides utilities for formatting and displaying portfolio
// statements.
package output

import (
	"fmt"
	"strings"

	"github.com/dunphycap/crecast/internal/statement"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// PrettyFormat outputs a human-readable rather than machine-readable table.
func PrettyFormat(name string, st *statement.Statement) {
	p := message.NewPrinter(language.English)
	fmt.Printf("--- %s ---\n", name)

	columns := st.Columns()
	fmt.Printf("Date")
	for _, column := range columns {
		fmt.Printf(" | %s", column)
	}
	fmt.Printf("\n")
	fmt.Printf("____")
	for _, column := range columns {
		fmt.Printf(" | %s", strings.Repeat("_", len(column)))
	}
	fmt.Printf("\n")

	for _, date := range st.Dates() {
		fmt.Printf("%s", date)
		for _, column := range columns {
			_, _ = p.Printf(" | %.2f", st.Get(date, column))
		}
		fmt.Printf("\n")
	}
}

// CsvFormat outputs in comma-separated value format.
func CsvFormat(st *statement.Statement) {
	columns := st.Columns()
	fmt.Printf(`"date"`)
	for _, column := range columns {
		fmt.Printf(`,"%s"`, column)
	}
	fmt.Printf("\n")
	for _, date := range st.Dates() {
		fmt.Printf(`"%s"`, date)
		for _, column := range columns {
			fmt.Printf(`,"%.2f"`, st.Get(date, column))
		}
		fmt.Printf("\n")
	}
}
