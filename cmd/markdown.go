package cmd

import (
	"fmt"

	"github.com/charmbracelet/glamour"
)

// printMarkdown renders doc for the terminal, or prints it raw if it cannot.
func printMarkdown(doc string) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(120),
	)
	if err != nil {
		fmt.Println(doc)
		return
	}
	out, err := r.Render(doc)
	if err != nil {
		fmt.Println(doc)
		return
	}
	fmt.Print(out)
}
