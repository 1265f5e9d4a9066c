package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rgehrsitz/itax/internal/calculation"
	"github.com/rgehrsitz/itax/internal/rules"
	"github.com/rgehrsitz/itax/internal/tui"
)

func main() {
	// Optional profile to prefill the form
	profilePath := ""
	if len(os.Args) > 1 {
		profilePath = os.Args[1]
		if _, err := os.Stat(profilePath); os.IsNotExist(err) {
			fmt.Printf("Error: profile not found: %s\n", profilePath)
			os.Exit(1)
		}
	}

	reg, _, err := rules.Resolve(os.Getenv("ITAX_RULES"))
	if err != nil {
		fmt.Printf("Error loading rules: %v\n", err)
		os.Exit(1)
	}

	model := tui.NewModel(calculation.NewEngine(reg), profilePath)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	if _, err := p.Run(); err != nil {
		fmt.Printf("Error running TUI: %v\n", err)
		os.Exit(1)
	}
}
