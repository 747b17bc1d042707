package pdf

import (
	"context"
	"fmt"

	"github.com/Ezzerof/smart-invoice-backend/internal/apperrors"
	"github.com/Ezzerof/smart-invoice-backend/internal/core/ports"
	"github.com/Ezzerof/smart-invoice-backend/internal/dto"
	"github.com/Ezzerof/smart-invoice-backend/internal/models"
	"github.com/Ezzerof/smart-invoice-backend/internal/platform/config"
	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	marotocfg "github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

// Generator renders invoices as A4 PDF documents.
type Generator struct {
	company config.CompanyConfig
}

// NewGenerator creates a PDF generator stamped with the issuing company's details.
func NewGenerator(company config.CompanyConfig) *Generator {
	return &Generator{company: company}
}

var _ ports.DocumentGenerator = (*Generator)(nil)

// Render produces the PDF bytes for a single invoice: company header, billed-to
// block, product table, total, and bank details footer.
func (g *Generator) Render(ctx context.Context, invoice models.Invoice) ([]byte, error) {
	cfg := marotocfg.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(15).
		WithRightMargin(15).
		WithTopMargin(15).
		Build()

	m := maroto.New(cfg)

	bold := props.Text{Style: fontstyle.Bold, Size: 10}
	normal := props.Text{Size: 9}
	right := props.Text{Size: 9, Align: align.Right}

	// Company header
	m.AddRow(8,
		col.New(8).Add(text.New(g.company.Name, props.Text{Style: fontstyle.Bold, Size: 16})),
		col.New(4).Add(text.New("INVOICE", props.Text{Style: fontstyle.Bold, Size: 16, Align: align.Right})),
	)
	m.AddRow(5,
		col.New(8).Add(text.New(g.company.Address+", "+g.company.City, normal)),
		col.New(4).Add(text.New("No: "+invoice.InvoiceNumber, right)),
	)
	m.AddRow(5,
		col.New(8).Add(text.New(g.company.Country+", "+g.company.Postcode, normal)),
		col.New(4).Add(text.New("Issued: "+invoice.IssueDate.Format(dto.DateLayout), right)),
	)
	m.AddRow(5,
		col.New(8).Add(text.New(g.company.Phone+"  "+g.company.Email, normal)),
		col.New(4).Add(text.New("Due: "+invoice.DueDate.Format(dto.DateLayout), right)),
	)
	m.AddRow(6, col.New(12).Add(line.New()))

	// Billed to
	m.AddRow(6, col.New(12).Add(text.New("Billed To", bold)))
	if invoice.Client != nil {
		c := invoice.Client
		billed := []string{c.Name, c.CompanyName, c.Address, c.City + ", " + c.Country + " " + c.Postcode, c.Email}
		for _, ln := range billed {
			if ln == "" || ln == ",  " {
				continue
			}
			m.AddRow(5, col.New(12).Add(text.New(ln, normal)))
		}
	}
	m.AddRow(6, col.New(12).Add(line.New()))

	// Product table
	header := props.Text{Style: fontstyle.Bold, Size: 9}
	m.AddRow(7,
		col.New(5).Add(text.New("Item", header)),
		col.New(3).Add(text.New("Description", header)),
		col.New(2).Add(text.New("Qty", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right})),
		col.New(2).Add(text.New("Price", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right})),
	)
	for _, p := range invoice.Products {
		m.AddRow(6,
			col.New(5).Add(text.New(p.Name, normal)),
			col.New(3).Add(text.New(p.Description, normal)),
			col.New(2).Add(text.New(fmt.Sprintf("%d", p.Quantity), right)),
			col.New(2).Add(text.New(p.Price.StringFixed(2), right)),
		)
	}
	m.AddRow(4, col.New(12).Add(line.New()))
	m.AddRow(7,
		col.New(10).Add(text.New("Total", props.Text{Style: fontstyle.Bold, Size: 11, Align: align.Right})),
		col.New(2).Add(text.New(invoice.TotalAmount.StringFixed(2), props.Text{Style: fontstyle.Bold, Size: 11, Align: align.Right})),
	)

	// Bank details and terms
	m.AddRow(10, col.New(12).Add(text.New("Payment Details", bold)))
	m.AddRow(5, col.New(12).Add(text.New("Account holder: "+g.company.BankHolder, normal)))
	m.AddRow(5, col.New(12).Add(text.New("Account number: "+g.company.BankAccount, normal)))
	m.AddRow(5, col.New(12).Add(text.New("Sort code: "+g.company.BankSortCode, normal)))
	m.AddRow(8, col.New(12).Add(text.New(
		fmt.Sprintf("Payment is due by %s. Thank you for your business.", invoice.DueDate.Format(dto.DateLayout)),
		props.Text{Size: 8, Style: fontstyle.Italic})))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("%w: render invoice %s: %w", apperrors.ErrGeneration, invoice.InvoiceID, err)
	}
	return doc.GetBytes(), nil
}
