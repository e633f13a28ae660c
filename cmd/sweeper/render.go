// ====================================
// File: cmd/sweeper/render.go
// ====================================
package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rovshanmuradov/dust-sweeper/internal/sweep"
	"github.com/rovshanmuradov/dust-sweeper/internal/token"
)

var (
	green  = lipgloss.Color("#2AFFAA")
	red    = lipgloss.Color("#FF5555")
	yellow = lipgloss.Color("#FFB500")
	muted  = lipgloss.Color("#6C7280")

	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00E5FF"))
	dustStyle   = lipgloss.NewStyle().Foreground(yellow)
	mutedStyle  = lipgloss.NewStyle().Foreground(muted)
	okStyle     = lipgloss.NewStyle().Foreground(green)
	failStyle   = lipgloss.NewStyle().Foreground(red)
)

// renderTokenTable печатает список токенов; dust-позиции подсвечиваются.
func renderTokenTable(tokens []token.Token, dustThreshold float64) string {
	var b strings.Builder

	b.WriteString(headerStyle.Render(fmt.Sprintf("%-12s %14s %12s  %s", "SYMBOL", "BALANCE", "VALUE", "MINT")))
	b.WriteString("\n")

	for _, tok := range tokens {
		line := fmt.Sprintf("%-12s %14s %12s  %s",
			tok.Symbol,
			token.FormatAmount(tok.Balance),
			token.FormatUSD(tok.ValueUSD),
			mutedStyle.Render(tok.Mint))
		if tok.ValueUSD < dustThreshold {
			line = dustStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString(mutedStyle.Render(fmt.Sprintf("%d tokens, total %s",
		len(tokens), token.FormatUSD(token.TotalValue(tokens)))))
	return b.String()
}

// renderResults печатает итоги батча конвертации.
func renderResults(results []sweep.ConversionResult) string {
	var b strings.Builder
	succeeded := 0

	for _, r := range results {
		if r.Success {
			succeeded++
			b.WriteString(okStyle.Render(fmt.Sprintf("✓ %s  %s", r.Mint, r.Signature)))
		} else {
			b.WriteString(failStyle.Render(fmt.Sprintf("✗ %s  %s", r.Mint, r.Error)))
		}
		b.WriteString("\n")
	}

	b.WriteString(fmt.Sprintf("converted %d of %d token(s)\n", succeeded, len(results)))
	return b.String()
}
