package importer

import (
	"io"

	"github.com/cleared-dev/reports/internal/model"
)

// GenericParser reads CSVs with a header naming date, description and
// amount columns, in any order. Dates are YYYY-MM-DD. An optional type
// column is carried through.
type GenericParser struct{}

var genericLayout = layout{
	format:      "generic",
	dateLayout:  model.DateFormat,
	date:        []string{"date"},
	description: []string{"description"},
	amount:      []string{"amount"},
	kind:        []string{"type"},
}

// Format returns the parser name.
func (p *GenericParser) Format() string { return genericLayout.format }

// Parse reads a generic CSV and returns BankTransactions.
func (p *GenericParser) Parse(r io.Reader) ([]model.BankTransaction, error) {
	return genericLayout.read(r)
}
