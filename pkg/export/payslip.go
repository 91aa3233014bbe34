package export

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"

	"hrms-backend/models"
)

type PayslipData struct {
	CompanyName string
	Employee    models.User
	Department  string
	Payroll     models.Payroll
}

// PayslipPDF renders a one-page payslip.
func PayslipPDF(d PayslipData) ([]byte, error) {
	p := d.Payroll

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, d.CompanyName)
	pdf.Ln(10)
	pdf.SetFont("Helvetica", "B", 13)
	pdf.Cell(0, 8, fmt.Sprintf("Payslip for %s", p.Month))
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 11)
	info := [][2]string{
		{"Employee", d.Employee.Name},
		{"Employee ID", d.Employee.EmployeeID},
		{"Designation", d.Employee.Designation},
		{"Department", d.Department},
		{"Working days", fmt.Sprintf("%d", p.WorkingDays)},
		{"Paid days", fmt.Sprintf("%.1f", p.PaidDays)},
		{"LOP days", fmt.Sprintf("%.1f", p.LOPDays)},
	}
	for _, row := range info {
		pdf.Cell(45, 7, row[0])
		pdf.Cell(0, 7, row[1])
		pdf.Ln(7)
	}
	pdf.Ln(5)

	earnings := [][2]interface{}{
		{"Basic", p.Earnings.Basic},
		{"HRA", p.Earnings.HRA},
		{"Special allowance", p.Earnings.SpecialAllowance},
		{"Overtime", p.Earnings.Overtime},
		{"Other earnings", p.Earnings.Adjustments},
	}
	deductions := [][2]interface{}{
		{"Provident fund", p.Deductions.PF},
		{"Professional tax", p.Deductions.ProfessionalTax},
		{"Loss of pay", p.Deductions.LOP},
		{"Other deductions", p.Deductions.Adjustments},
	}

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(60, 8, "Earnings", "1", 0, "L", false, 0, "")
	pdf.CellFormat(30, 8, "Amount", "1", 0, "R", false, 0, "")
	pdf.CellFormat(60, 8, "Deductions", "1", 0, "L", false, 0, "")
	pdf.CellFormat(30, 8, "Amount", "1", 1, "R", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	for i := 0; i < len(earnings); i++ {
		pdf.CellFormat(60, 7, earnings[i][0].(string), "1", 0, "L", false, 0, "")
		pdf.CellFormat(30, 7, fmt.Sprintf("%.2f", earnings[i][1]), "1", 0, "R", false, 0, "")
		if i < len(deductions) {
			pdf.CellFormat(60, 7, deductions[i][0].(string), "1", 0, "L", false, 0, "")
			pdf.CellFormat(30, 7, fmt.Sprintf("%.2f", deductions[i][1]), "1", 1, "R", false, 0, "")
		} else {
			pdf.CellFormat(60, 7, "", "1", 0, "L", false, 0, "")
			pdf.CellFormat(30, 7, "", "1", 1, "R", false, 0, "")
		}
	}
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(60, 8, "Gross", "1", 0, "L", false, 0, "")
	pdf.CellFormat(30, 8, fmt.Sprintf("%.2f", p.Gross), "1", 0, "R", false, 0, "")
	pdf.CellFormat(60, 8, "Total deductions", "1", 0, "L", false, 0, "")
	pdf.CellFormat(30, 8, fmt.Sprintf("%.2f", p.TotalDeductions), "1", 1, "R", false, 0, "")
	pdf.Ln(6)
	pdf.SetFont("Helvetica", "B", 13)
	pdf.Cell(0, 8, fmt.Sprintf("Net pay: %.2f", p.NetPay))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render payslip: %w", err)
	}
	return buf.Bytes(), nil
}
