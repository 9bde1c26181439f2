package testutil

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/ledgerbook/ledgerbook/internal/domain/render"
	"github.com/ledgerbook/ledgerbook/internal/pdf"
)

var _ pdf.Generator = (*MockPDFGenerator)(nil)

type MockPDFGenerator struct {
	mock.Mock
}

func NewMockPDFGenerator() *MockPDFGenerator {
	return &MockPDFGenerator{}
}

// RenderInvoicePdf implements pdf.Generator.
func (m *MockPDFGenerator) RenderInvoicePdf(ctx context.Context, data *render.Document) ([]byte, error) {
	args := m.Called(ctx, data)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}
