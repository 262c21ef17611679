// Package ofx converts OFX/QFX bank and card statements into ledger statements.
package ofx

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"

	"github.com/aclindsa/ofxgo"
	"github.com/shopspring/decimal"

	"github.com/Veraticus/alertledger/internal/extract"
	"github.com/Veraticus/alertledger/internal/model"
)

// Statements read from OFX are authoritative, unlike scored alert text.
const ofxConfidence = 1.0

var (
	severityRegex = regexp.MustCompile(`(?i)<SEVERITY>(Info|Warn|Error)</SEVERITY>`)
	// Opening tags missing their closing bracket at end of line.
	tagFixRegex = regexp.MustCompile(`(?m)^(\s*<[A-Z][A-Z0-9._]*[A-Z0-9])$`)
)

// creditTypes are OFX transaction types that always mean money in.
var creditTypes = map[string]bool{
	"CREDIT":    true,
	"DEP":       true,
	"DIRECTDEP": true,
	"INT":       true,
	"DIV":       true,
}

// Parser implements OFX/QFX file parsing.
type Parser struct {
	currency string
}

// NewParser creates a parser that labels statements with currency.
func NewParser(currency string) *Parser {
	if currency == "" {
		currency = extract.CurrencyINR
	}
	return &Parser{currency: strings.ToUpper(currency)}
}

// File is the parsed content of one OFX document.
type File struct {
	Statements []*model.Statement
	Accounts   []string
}

// ParseFile parses an OFX/QFX document.
func (p *Parser) ParseFile(ctx context.Context, reader io.Reader) (*File, error) {
	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read OFX file: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	resp, err := ofxgo.ParseResponse(strings.NewReader(preprocess(string(content))))
	if err != nil {
		return nil, fmt.Errorf("failed to parse OFX file: %w", err)
	}

	file := &File{}
	seen := make(map[string]bool)
	addAccount := func(id string) {
		if id != "" && !seen[id] {
			seen[id] = true
			file.Accounts = append(file.Accounts, id)
		}
	}

	for _, msg := range resp.Bank {
		if stmt, ok := msg.(*ofxgo.StatementResponse); ok {
			account := string(stmt.BankAcctFrom.AcctID)
			addAccount(account)
			file.Statements = append(file.Statements, p.convertList(stmt.BankTranList, account)...)
		}
	}

	for _, msg := range resp.CreditCard {
		if stmt, ok := msg.(*ofxgo.CCStatementResponse); ok {
			account := string(stmt.CCAcctFrom.AcctID)
			addAccount(account)
			file.Statements = append(file.Statements, p.convertList(stmt.BankTranList, account)...)
		}
	}

	slog.Info("Parsed OFX file",
		"statements", len(file.Statements),
		"accounts", len(file.Accounts))

	return file, nil
}

func (p *Parser) convertList(list *ofxgo.TransactionList, account string) []*model.Statement {
	if list == nil {
		return nil
	}

	stmts := make([]*model.Statement, 0, len(list.Transactions))
	for _, tx := range list.Transactions {
		stmt, err := p.convert(tx, account)
		if err != nil {
			slog.Warn("Skipping OFX transaction",
				"fitid", string(tx.FiTID),
				"account", account,
				"error", err)
			continue
		}
		stmts = append(stmts, stmt)
	}
	return stmts
}

// convert maps one OFX transaction. OFX signs debits negative.
func (p *Parser) convert(tx ofxgo.Transaction, account string) (*model.Statement, error) {
	amount, err := decimal.NewFromString(tx.TrnAmt.FloatString(2))
	if err != nil {
		return nil, fmt.Errorf("invalid amount: %w", err)
	}

	trnType := strings.ToUpper(fmt.Sprintf("%v", tx.TrnType))
	direction := model.DirectionCredit
	if amount.IsNegative() || (amount.IsZero() && !creditTypes[trnType]) {
		direction = model.DirectionDebit
	}

	name := merchantName(tx)
	if name == "" {
		name = trnType
	}

	raw := strings.Join([]string{"OFX", trnType, string(tx.Name), string(tx.Memo)}, " ")

	return &model.Statement{
		AccountID:   account,
		Amount:      amount.Abs(),
		Currency:    p.currency,
		Direction:   direction,
		Date:        tx.DtPosted.Time,
		Description: name,
		ReferenceID: string(tx.FiTID),
		Confidence:  ofxConfidence,
		RawText:     extract.NormalizeWhitespace(raw),
		Source:      model.SourceOFX,
	}, nil
}

// preprocess fixes common formatting issues in OFX files.
func preprocess(content string) string {
	content = strings.TrimLeft(content, " \t\r\n")
	content = severityRegex.ReplaceAllStringFunc(content, strings.ToUpper)
	return tagFixRegex.ReplaceAllString(content, "$1>")
}

var merchantPrefixes = []string{
	"POS PURCHASE ",
	"PURCHASE AUTHORIZED ON ",
	"DEBIT CARD PURCHASE ",
	"UPI/",
	"IMPS/",
	"NEFT/",
	"ACH DEBIT ",
	"VISA PURCHASE ",
}

var genericNames = map[string]bool{
	"DEBIT":           true,
	"CREDIT":          true,
	"PURCHASE":        true,
	"PAYMENT":         true,
	"POS TRANSACTION": true,
	"CARD PURCHASE":   true,
}

// merchantName picks the most descriptive counterparty name available.
func merchantName(tx ofxgo.Transaction) string {
	if tx.Payee != nil && tx.Payee.Name != "" {
		return strings.TrimSpace(string(tx.Payee.Name))
	}

	name := strings.TrimSpace(string(tx.Name))
	if tx.Memo != "" && genericNames[strings.ToUpper(name)] {
		name = strings.TrimSpace(string(tx.Memo))
	}

	upper := strings.ToUpper(name)
	for _, prefix := range merchantPrefixes {
		if strings.HasPrefix(upper, prefix) {
			name = strings.TrimSpace(name[len(prefix):])
			break
		}
	}

	// Leading "MM/DD " dates.
	if len(name) > 5 && name[2] == '/' && name[5] == ' ' {
		name = strings.TrimSpace(name[6:])
	}

	return name
}
