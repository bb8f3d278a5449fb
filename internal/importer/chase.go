package importer

import (
	"io"

	"github.com/cleared-dev/reports/internal/model"
)

// ChaseParser parses Chase exports. Checking exports date rows by "Posting
// Date"; card exports use "Post Date" and put Amount later in the row.
type ChaseParser struct{}

var chaseLayout = layout{
	format:      "chase",
	dateLayout:  "01/02/2006",
	date:        []string{"posting date", "post date"},
	description: []string{"description"},
	amount:      []string{"amount"},
	kind:        []string{"type"},
}

// Format returns the parser name.
func (p *ChaseParser) Format() string { return chaseLayout.format }

// Parse reads a Chase CSV and returns BankTransactions.
func (p *ChaseParser) Parse(r io.Reader) ([]model.BankTransaction, error) {
	return chaseLayout.read(r)
}
