package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"hrms-backend/models"
)

func newWorkbook(sheet string, header []interface{}) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	if err := f.SetRowStyle(sheet, 1, 1, bold); err != nil {
		return nil, err
	}
	return f, nil
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) ([]byte, error) {
	defer f.Close()
	for i := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(sheet, cell, &rows[i]); err != nil {
			return nil, err
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// PayrollRegisterXLSX lays out one row per payroll for a period.
func PayrollRegisterXLSX(month string, payrolls []models.PayrollWithUser) ([]byte, error) {
	sheet := "Payroll " + month
	f, err := newWorkbook(sheet, []interface{}{
		"Employee ID", "Name", "Email", "Working Days", "Paid Days", "LOP Days",
		"Basic", "HRA", "Special", "Overtime", "Other Earnings",
		"PF", "Prof. Tax", "LOP", "Other Deductions", "Gross", "Total Deductions", "Net Pay", "Status",
	})
	if err != nil {
		return nil, err
	}

	rows := make([][]interface{}, 0, len(payrolls))
	for _, p := range payrolls {
		rows = append(rows, []interface{}{
			p.UserEmployeeID, p.UserName, p.UserEmail, p.WorkingDays, p.PaidDays, p.LOPDays,
			p.Earnings.Basic, p.Earnings.HRA, p.Earnings.SpecialAllowance, p.Earnings.Overtime, p.Earnings.Adjustments,
			p.Deductions.PF, p.Deductions.ProfessionalTax, p.Deductions.LOP, p.Deductions.Adjustments,
			p.Gross, p.TotalDeductions, p.NetPay, p.Status,
		})
	}
	return writeRows(f, sheet, rows)
}

// AttendanceXLSX lays out one row per attendance day.
func AttendanceXLSX(month string, records []models.AttendanceWithUser) ([]byte, error) {
	sheet := "Attendance " + month
	f, err := newWorkbook(sheet, []interface{}{
		"Date", "Employee ID", "Name", "Punch In", "Punch Out", "Break (min)", "Hours", "Overtime", "Status", "Source",
	})
	if err != nil {
		return nil, err
	}

	rows := make([][]interface{}, 0, len(records))
	for _, a := range records {
		rows = append(rows, []interface{}{
			a.Date, a.UserEmployeeID, a.UserName, clock(a.PunchIn), clock(a.PunchOut),
			a.BreakMinutes, a.TotalHours, a.OvertimeHours, a.Status, a.Source,
		})
	}
	return writeRows(f, sheet, rows)
}
