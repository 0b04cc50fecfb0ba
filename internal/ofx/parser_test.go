package ofx

import (
	"math/big"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calebgardner/runway/internal/model"
)

// Sample OFX data for testing.
const sampleBankOFX = `OFXHEADER:100
DATA:OFXSGML
VERSION:102
SECURITY:NONE
ENCODING:USASCII
CHARSET:1252
COMPRESSION:NONE
OLDFILEUID:NONE
NEWFILEUID:NONE

<OFX>
<SIGNONMSGSRSV1>
<SONRS>
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<DTSERVER>20240315120000[0:GMT]
<LANGUAGE>ENG
</SONRS>
</SIGNONMSGSRSV1>
<BANKMSGSRSV1>
<STMTTRNRS>
<TRNUID>1
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<STMTRS>
<CURDEF>USD
<BANKACCTFROM>
<BANKID>123456789
<ACCTID>1234567890
<ACCTTYPE>CHECKING
</BANKACCTFROM>
<BANKTRANLIST>
<DTSTART>20240101120000[0:GMT]
<DTEND>20240131120000[0:GMT]
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20240115120000[0:GMT]
<TRNAMT>-25.50
<FITID>2024011501
<NAME>STARBUCKS STORE #1234
</STMTTRN>
<STMTTRN>
<TRNTYPE>CREDIT
<DTPOSTED>20240120120000[0:GMT]
<TRNAMT>1500.00
<FITID>2024012001
<NAME>PAYROLL DEPOSIT
</STMTTRN>
</BANKTRANLIST>
<LEDGERBAL>
<BALAMT>1000.00
<DTASOF>20240131120000[0:GMT]
</LEDGERBAL>
</STMTRS>
</STMTTRNRS>
</BANKMSGSRSV1>
</OFX>`

func TestParseFile_BankStatement(t *testing.T) {
	parser := NewParser()

	events, err := parser.ParseFile(strings.NewReader(sampleBankOFX), "acc-1")
	require.NoError(t, err)
	require.Len(t, events, 2)

	coffee := events[0]
	assert.Equal(t, int64(-2550), coffee.Amount)
	assert.Equal(t, model.EventTypeExpense, coffee.Type)
	assert.Equal(t, model.CostExceptional, coffee.CostType)
	assert.Equal(t, model.StatusConfirmed, coffee.Status)
	assert.Equal(t, "acc-1", coffee.AccountID)
	assert.Equal(t, "STARBUCKS STORE #1234", coffee.Description)
	assert.Equal(t, time.January, coffee.Date.Month())
	assert.Equal(t, 15, coffee.Date.Day())

	payroll := events[1]
	assert.Equal(t, int64(150000), payroll.Amount)
	assert.Equal(t, model.EventTypeIncome, payroll.Type)
	assert.Equal(t, model.CostType(""), payroll.CostType)
}

func TestParseFile_Garbage(t *testing.T) {
	parser := NewParser()

	_, err := parser.ParseFile(strings.NewReader("this is not an ofx file"), "acc-1")
	assert.Error(t, err)
}

func TestRatToCents(t *testing.T) {
	tests := []struct {
		name string
		in   *big.Rat
		want int64
	}{
		{"positive", big.NewRat(2550, 100), 2550},
		{"negative", big.NewRat(-2550, 100), -2550},
		{"whole dollars", big.NewRat(1500, 1), 150000},
		{"rounds half up", big.NewRat(10005, 10000), 100},
		{"rounds half away negative", big.NewRat(-10005, 10000), -100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ratToCents(tt.in), "ratToCents(%v)", tt.in)
		})
	}
}
