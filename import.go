package finance

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"github.com/etnz/finance/date"
	"github.com/shopspring/decimal"
)

// ImportMapping describes where to find transactions in a JSON document, as
// JSONPath expressions.
//
// Records selects the list of records in the document. The other paths are
// evaluated on each record. Only Records and Amount are mandatory.
//
// When Type is empty the sign of the amount decides: negative amounts are
// expenses, the others income.
type ImportMapping struct {
	Records     string // e.g. "$.operations[*]"
	Type        string // e.g. "$.kind"
	Description string // e.g. "$.label"
	Amount      string // e.g. "$.value"
	Category    string // e.g. "$.category"
	Date        string // e.g. "$.bookedAt", RFC 3339 or YYYY-MM-DD
}

// ImportRecord is a transaction read from an external document, not yet
// recorded.
type ImportRecord struct {
	Type        TxType
	Description string
	Amount      Amount
	Category    string
	Date        time.Time // zero when unknown
}

// compile reports the first malformed path of the mapping. Missing values
// are only known per record.
func (m ImportMapping) compile() error {
	for _, p := range []struct{ name, path string }{
		{"records", m.Records},
		{"type", m.Type},
		{"description", m.Description},
		{"amount", m.Amount},
		{"category", m.Category},
		{"date", m.Date},
	} {
		if p.path == "" {
			continue
		}
		if _, err := jsonpath.New(p.path); err != nil {
			return fmt.Errorf("invalid %s path %q: %w", p.name, p.path, err)
		}
	}
	return nil
}

// DecodeImport extracts records from a JSON document.
func DecodeImport(r io.Reader, m ImportMapping) ([]ImportRecord, error) {
	if m.Records == "" || m.Amount == "" {
		return nil, fmt.Errorf("import mapping needs at least the records and amount paths")
	}

	if err := m.compile(); err != nil {
		return nil, err
	}

	var doc any
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("cannot parse import document: %w", err)
	}

	jrecords, err := jsonpath.Get(m.Records, doc)
	if err != nil {
		return nil, fmt.Errorf("cannot select records with %q: %w", m.Records, err)
	}
	// jsonpath returns a list for wildcards, and the value itself otherwise.
	list, ok := jrecords.([]any)
	if !ok {
		list = []any{jrecords}
	}

	records := make([]ImportRecord, 0, len(list))
	for i, jrec := range list {
		rec, err := decodeImportRecord(jrec, m)
		if err != nil {
			return nil, fmt.Errorf("record #%d: %w", i+1, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

func decodeImportRecord(jrec any, m ImportMapping) (rec ImportRecord, err error) {
	jamount, err := jsonpath.Get(m.Amount, jrec)
	if err != nil {
		return rec, fmt.Errorf("no amount at %q: %w", m.Amount, err)
	}
	var value decimal.Decimal
	switch v := jamount.(type) {
	case float64:
		value = decimal.NewFromFloat(v)
	case string:
		value, err = decimal.NewFromString(strings.TrimSpace(v))
		if err != nil {
			return rec, fmt.Errorf("%w: %q is not a number", ErrInvalidAmount, v)
		}
	default:
		return rec, fmt.Errorf("%w: unexpected amount %v", ErrInvalidAmount, jamount)
	}

	if m.Type != "" {
		typ, err := lookupString(jrec, m.Type)
		if err != nil {
			return rec, err
		}
		if rec.Type, err = ParseType(strings.ToLower(typ)); err != nil {
			return rec, err
		}
		if value.IsNegative() {
			return rec, fmt.Errorf("%w: %s is negative", ErrInvalidAmount, value)
		}
	} else {
		rec.Type = Income
		if value.IsNegative() {
			rec.Type = Expense
		}
	}
	rec.Amount = A(value.Abs())

	if rec.Description, err = lookupString(jrec, m.Description); err != nil {
		return rec, err
	}
	if rec.Category, err = lookupString(jrec, m.Category); err != nil {
		return rec, err
	}

	day, err := lookupString(jrec, m.Date)
	if err != nil {
		return rec, err
	}
	if day != "" {
		if rec.Date, err = time.Parse(time.RFC3339, day); err != nil {
			d, derr := date.Parse(day)
			if derr != nil {
				return rec, fmt.Errorf("invalid date %q", day)
			}
			rec.Date = time.Date(d.Year(), d.Month(), d.Day(), 12, 0, 0, 0, time.Local)
		}
	}
	return rec, nil
}

// lookupString returns the string at path in jrec. An empty path or a missing
// value gives "". Paths are already known to be well formed.
func lookupString(jrec any, path string) (string, error) {
	if path == "" {
		return "", nil
	}
	jval, err := jsonpath.Get(path, jrec)
	if err != nil {
		// missing optional values are not errors.
		return "", nil
	}
	switch v := jval.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	case float64, bool:
		return fmt.Sprint(v), nil
	default:
		return "", fmt.Errorf("value at %q is not a string: %v", path, jval)
	}
}
