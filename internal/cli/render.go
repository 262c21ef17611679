package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/shopspring/decimal"

	"github.com/Veraticus/alertledger/internal/model"
)

const dateLayout = "2006-01-02"

// FormatAmount renders an amount with thousands separators and two decimals,
// e.g. "INR 23,540.50".
func FormatAmount(amount decimal.Decimal, currency string) string {
	fixed := amount.Abs().StringFixed(2)
	whole, frac, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}

	sign := ""
	if amount.IsNegative() {
		sign = "-"
	}
	return strings.TrimSpace(fmt.Sprintf("%s %s%s.%s", currency, sign, b.String(), frac))
}

// FormatSignedAmount prefixes debits with "-" and credits with "+", coloured
// by direction.
func FormatSignedAmount(stmt *model.Statement) string {
	text := FormatAmount(stmt.Amount, stmt.Currency)
	if stmt.Direction == model.DirectionCredit {
		return CreditStyle.Render("+" + text)
	}
	return DebitStyle.Render("-" + text)
}

// RenderStatement renders one statement as a labelled card.
func RenderStatement(stmt *model.Statement) string {
	row := func(label, value string) string {
		return lipgloss.JoinHorizontal(lipgloss.Top, LabelStyle.Render(label), value)
	}

	lines := []string{
		row("Amount", FormatSignedAmount(stmt)),
		row("Type", string(stmt.Direction)),
		row("Date", stmt.Date.Format(dateLayout)),
		row("Confidence", fmt.Sprintf("%.2f", stmt.Confidence)),
	}
	if stmt.Balance != nil {
		lines = append(lines, row("Balance", FormatAmount(*stmt.Balance, stmt.Currency)))
	}
	if stmt.ReferenceID != "" {
		lines = append(lines, row("Reference", stmt.ReferenceID))
	}
	if stmt.ID != "" {
		lines = append(lines, row("ID", SubtleStyle.Render(stmt.ID)))
	}
	if stmt.RawText != "" {
		lines = append(lines, row("Text", SubtleStyle.Render(stmt.RawText)))
	}

	return RenderBox(stmt.Description, strings.Join(lines, "\n"))
}

// StatementRow is the column set shared by the list table and the browser.
func StatementRow(stmt *model.Statement) []string {
	balance := ""
	if stmt.Balance != nil {
		balance = FormatAmount(*stmt.Balance, stmt.Currency)
	}
	sign := "-"
	if stmt.Direction == model.DirectionCredit {
		sign = "+"
	}
	return []string{
		stmt.Date.Format(dateLayout),
		string(stmt.Direction),
		sign + FormatAmount(stmt.Amount, stmt.Currency),
		balance,
		stmt.ReferenceID,
		fmt.Sprintf("%.2f", stmt.Confidence),
	}
}

// StatementHeaders names the StatementRow columns.
var StatementHeaders = []string{"Date", "Type", "Amount", "Balance", "Reference", "Conf"}

// RenderStatementTable renders statements as a bordered table.
func RenderStatementTable(stmts []*model.Statement) string {
	rows := make([][]string, 0, len(stmts))
	for _, s := range stmts {
		rows = append(rows, StatementRow(s))
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(SubtleStyle).
		Headers(StatementHeaders...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return TableHeaderStyle
			}
			style := TableCellStyle
			if col == 2 && row >= 0 && row < len(stmts) {
				if stmts[row].Direction == model.DirectionCredit {
					return style.Foreground(CreditColor)
				}
				return style.Foreground(DebitColor)
			}
			return style
		})

	return t.Render()
}
