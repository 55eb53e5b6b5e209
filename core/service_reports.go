package core

import (
	"context"
	"fmt"
	"path/filepath"
)

const (
	saleOrderReport    = "sale.report_saleorder"
	saleOrderRawReport = "sale.report_saleorder_raw"
	reportTypePDF      = "PDF"
)

// SaleOrderReport downloads the PDF of an order. The content is decoded;
// writing it to Path is left to the caller.
func (s *Service) SaleOrderReport(ctx context.Context, orderID int64, raw bool) (report BinaryPayload, err error) {
	startedAt := s.now()
	name := saleOrderReport
	if raw {
		name = saleOrderRawReport
	}
	fields := map[string]any{"model": saleOrderModel, "order_id": orderID, "report": name}
	defer func() {
		fields["size"] = len(report.Content)
		s.observeOperation(ctx, startedAt, "sale_order_report", err, fields)
	}()

	if orderID <= 0 {
		err = s.mapError(BadInputError("order id must be positive", map[string]any{"order_id": orderID}))
		return BinaryPayload{}, err
	}
	if s.recordStore == nil {
		err = s.mapError(DependencyError("record store is required"))
		return BinaryPayload{}, err
	}
	content, err := s.recordStore.Report(ctx, ReportRequest{
		Report: name,
		IDs:    []int64{orderID},
		Type:   reportTypePDF,
	})
	if err != nil {
		return BinaryPayload{}, s.mapError(err)
	}
	fileName := fmt.Sprintf("%d.pdf", orderID)
	return BinaryPayload{
		Name:        fileName,
		Path:        filepath.Join(s.config.ReportDir, fileName),
		ContentType: "application/pdf",
		Content:     content,
	}, nil
}
