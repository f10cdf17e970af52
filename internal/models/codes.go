package models

import "fmt"

// MoneySource classifies where the money in a transaction moves.
type MoneySource int

const (
	// SourceCash marks movement within the account's cash balance.
	SourceCash MoneySource = iota
	// SourceClient marks movement to or from the client outside the account.
	SourceClient
)

// Code returns the 2-character source field value.
func (s MoneySource) Code() string {
	if s == SourceClient {
		return "cl"
	}
	return "ca"
}

// TxnCode describes how one source transaction type is rendered in the
// canonical interchange format.
type TxnCode struct {
	// Code is the 2-character target transaction code.
	Code string
	// Ticker is the 3-character ticker code.
	Ticker string
	// Description is the record description, at most 21 characters.
	Description string
	// Source classifies the money movement for the record's source field.
	Source MoneySource
}

// TxnVocabulary is the closed list of transaction types the custodians send.
// Any code outside this list makes a row unconvertible.
var TxnVocabulary = []string{"BUY", "SELL", "DIV", "INT", "WITH", "DEP", "MFEE"}

// TxnCodes maps each source transaction type to its canonical rendering.
var TxnCodes = map[string]TxnCode{
	"BUY":  {Code: "by", Ticker: "BOT", Description: "BOUGHT", Source: SourceCash},
	"SELL": {Code: "sl", Ticker: "SLD", Description: "SOLD", Source: SourceCash},
	"DIV":  {Code: "dv", Ticker: "DIV", Description: "DIVIDEND", Source: SourceCash},
	"INT":  {Code: "in", Ticker: "INT", Description: "INTEREST", Source: SourceCash},
	"WITH": {Code: "wd", Ticker: "WTH", Description: "WITHDRAWAL", Source: SourceClient},
	"DEP":  {Code: "dp", Ticker: "DEP", Description: "DEPOSIT", Source: SourceClient},
	"MFEE": {Code: "mf", Ticker: "FEE", Description: "MANAGEMENT FEE", Source: SourceCash},
}

// ValidateTxnCodes checks the code table against the closed vocabulary at
// startup so a typo fails the run instead of surfacing as a silent skip.
func ValidateTxnCodes() error {
	for _, name := range TxnVocabulary {
		code, ok := TxnCodes[name]
		if !ok {
			return fmt.Errorf("transaction code table: missing entry for %q", name)
		}
		if len(code.Code) != 2 {
			return fmt.Errorf("transaction code table: %q target code %q must be 2 characters", name, code.Code)
		}
		if len(code.Ticker) != 3 {
			return fmt.Errorf("transaction code table: %q ticker code %q must be 3 characters", name, code.Ticker)
		}
		if len(code.Description) == 0 || len(code.Description) > 21 {
			return fmt.Errorf("transaction code table: %q description %q must be 1-21 characters", name, code.Description)
		}
	}
	if len(TxnCodes) != len(TxnVocabulary) {
		return fmt.Errorf("transaction code table: %d entries for %d known types", len(TxnCodes), len(TxnVocabulary))
	}
	return nil
}
