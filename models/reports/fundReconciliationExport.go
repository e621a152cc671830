package reports

import (
	"fmt"
	"io"

	"bitbucket.org/mmdatafocus/aims_backend/fund"
	"github.com/xuri/excelize/v2"
)

// ExportFundReconciliation writes a reconciliation report as an xlsx workbook:
// one summary block followed by a per-line-item sheet.
func ExportFundReconciliation(w io.Writer, report *fund.FundReconciliation) error {
	f := excelize.NewFile()
	const sheet = "Sheet1"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	f.SetCellValue(sheet, "A1", "Fund")
	f.SetCellValue(sheet, "B1", report.FundName)
	f.SetCellValue(sheet, "A2", "PercentReconciled")
	f.SetCellValue(sheet, "B2", report.Summary.PercentReconciled)
	f.SetCellValue(sheet, "A3", "TotalMatched")
	f.SetCellValue(sheet, "B3", report.Summary.TotalMatched.String())
	f.SetCellValue(sheet, "A4", "TotalDiscrepancy")
	f.SetCellValue(sheet, "B4", report.Summary.TotalDiscrepancy.String())

	headerRow := 6
	f.SetCellValue(sheet, fmt.Sprintf("A%d", headerRow), "Child")
	f.SetCellValue(sheet, fmt.Sprintf("B%d", headerRow), "Status")
	f.SetCellValue(sheet, fmt.Sprintf("C%d", headerRow), "FundAmount")
	f.SetCellValue(sheet, fmt.Sprintf("D%d", headerRow), "ChildAmount")
	f.SetCellValue(sheet, fmt.Sprintf("E%d", headerRow), "Discrepancy")

	row := headerRow + 1
	for _, child := range report.Children {
		for _, pair := range child.Pairs {
			f.SetCellValue(sheet, fmt.Sprintf("A%d", row), child.Title)
			f.SetCellValue(sheet, fmt.Sprintf("B%d", row), string(pair.Status))
			f.SetCellValue(sheet, fmt.Sprintf("C%d", row), pair.FundAmount.String())
			f.SetCellValue(sheet, fmt.Sprintf("D%d", row), pair.ChildAmount.String())
			f.SetCellValue(sheet, fmt.Sprintf("E%d", row), pair.Discrepancy.String())
			row++
		}
	}

	return f.Write(w)
}
