// Package ofx converts OFX/QFX bank exports into confirmed events.
package ofx

import (
	"fmt"
	"io"
	"log/slog"
	"math/big"
	"regexp"
	"strings"

	"github.com/aclindsa/ofxgo"

	"github.com/calebgardner/runway/internal/model"
)

// Parser implements OFX/QFX file parsing.
type Parser struct{}

// NewParser creates a new OFX parser.
func NewParser() *Parser {
	return &Parser{}
}

// preprocessOFX fixes common formatting issues in OFX files.
func (p *Parser) preprocessOFX(content string) string {
	content = strings.TrimLeft(content, " \t\r\n")

	// Mixed-case SEVERITY values must be INFO, WARN, or ERROR.
	severityRegex := regexp.MustCompile(`(?i)<SEVERITY>(Info|Warn|Error)</SEVERITY>`)
	content = severityRegex.ReplaceAllStringFunc(content, strings.ToUpper)

	// SGML-style files sometimes drop the closing angle bracket on a tag
	// that ends the line.
	tagFixRegex := regexp.MustCompile(`(?m)^(\s*<[A-Z][A-Z0-9._]*[A-Z0-9])$`)
	content = tagFixRegex.ReplaceAllString(content, "$1>")

	return content
}

// ParseFile parses an OFX/QFX statement and returns its transactions as
// CONFIRMED events attached to the given account: credits become income,
// debits become expenses.
func (p *Parser) ParseFile(reader io.Reader, accountID string) ([]model.Event, error) {
	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read OFX file: %w", err)
	}

	resp, err := ofxgo.ParseResponse(strings.NewReader(p.preprocessOFX(string(content))))
	if err != nil {
		return nil, fmt.Errorf("failed to parse OFX file: %w", err)
	}

	var events []model.Event
	var bankStmts, ccStmts int

	for _, msg := range resp.Bank {
		if stmt, ok := msg.(*ofxgo.StatementResponse); ok {
			bankStmts++
			if stmt.BankTranList == nil {
				continue
			}
			for _, ofxTx := range stmt.BankTranList.Transactions {
				events = append(events, p.convertTransaction(ofxTx, accountID))
			}
		}
	}

	for _, msg := range resp.CreditCard {
		if stmt, ok := msg.(*ofxgo.CCStatementResponse); ok {
			ccStmts++
			if stmt.BankTranList == nil {
				continue
			}
			for _, ofxTx := range stmt.BankTranList.Transactions {
				events = append(events, p.convertTransaction(ofxTx, accountID))
			}
		}
	}

	slog.Info("Parsed OFX file",
		"total_events", len(events),
		"bank_statements", bankStmts,
		"cc_statements", ccStmts)

	return events, nil
}

// convertTransaction maps an OFX transaction onto an event. The caller is
// responsible for assigning an id and deduplicating against stored events.
func (p *Parser) convertTransaction(ofxTx ofxgo.Transaction, accountID string) model.Event {
	amount := ratToCents(&ofxTx.TrnAmt.Rat)

	ev := model.Event{
		Date:        ofxTx.DtPosted.Time.UTC(),
		Description: p.extractDescription(ofxTx),
		AccountID:   accountID,
		Status:      model.StatusConfirmed,
		Priority:    model.PriorityRequired,
		Amount:      amount,
	}
	if amount >= 0 {
		ev.Type = model.EventTypeIncome
	} else {
		ev.Type = model.EventTypeExpense
		ev.CostType = model.CostExceptional
	}
	return ev
}

// extractDescription tries to get a clean description from OFX data.
func (p *Parser) extractDescription(tx ofxgo.Transaction) string {
	if tx.Payee != nil && tx.Payee.Name != "" {
		return string(tx.Payee.Name)
	}

	name := strings.TrimSpace(string(tx.Name))
	if name == "" && tx.Memo != "" {
		name = strings.TrimSpace(string(tx.Memo))
	}

	prefixes := []string{
		"POS PURCHASE ",
		"PURCHASE AUTHORIZED ON ",
		"DEBIT CARD PURCHASE ",
		"ACH DEBIT ",
		"CHECK CARD ",
	}
	for _, prefix := range prefixes {
		if strings.HasPrefix(strings.ToUpper(name), prefix) {
			name = name[len(prefix):]
			break
		}
	}

	return strings.TrimSpace(name)
}

// ratToCents converts an exact OFX decimal amount to integer cents, rounding
// half away from zero.
func ratToCents(r *big.Rat) int64 {
	cents := new(big.Rat).Mul(r, big.NewRat(100, 1))
	num := new(big.Int).Mul(cents.Num(), big.NewInt(2))
	den := new(big.Int).Mul(cents.Denom(), big.NewInt(2))
	// Add half a cent in the amount's direction before truncating.
	half := new(big.Int).Set(cents.Denom())
	if num.Sign() < 0 {
		num.Sub(num, half)
	} else {
		num.Add(num, half)
	}
	return new(big.Int).Quo(num, den).Int64()
}
