package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"vitwise/backend/internal/dto"
	"vitwise/backend/internal/repository"
)

func newTestAttendanceService(repo *repository.Repository, now time.Time) *attendanceService {
	return &attendanceService{
		repo:   repo,
		logger: zap.NewNop(),
		now:    func() time.Time { return now },
	}
}

func importTestBaseline(t *testing.T, svc AttendanceService, studentID string) {
	t.Helper()
	_, err := svc.ImportBaseline(context.Background(), studentID, &dto.ImportBaselineRequest{
		Items: []dto.BaselineItem{
			{CourseCode: "BACSE104", CourseType: "ETH", Attended: 9, Missed: 1},
			{CourseCode: "BACSE104", CourseType: "ELA", Attended: 10, Missed: 2},
			{CourseCode: "BAPHY101", CourseType: "TH", Attended: 5, Missed: 0},
		},
	})
	if err != nil {
		t.Fatalf("ImportBaseline 失败: %v", err)
	}
}

func TestAttendanceService_ImportBaseline(t *testing.T) {
	repo, _, att := newTestRepos()
	svc := newTestAttendanceService(repo, ist(2, 9, 0))

	importTestBaseline(t, svc, "stu-1")

	summary, err := svc.Summary(context.Background(), "stu-1")
	if err != nil {
		t.Fatalf("Summary 失败: %v", err)
	}
	if len(summary.Items) != 3 {
		t.Fatalf("期望 3 个科目，实际 %d 个", len(summary.Items))
	}
	if summary.LastImportDate != "2026-03-02" {
		t.Errorf("期望导入日期 2026-03-02，实际=%s", summary.LastImportDate)
	}
	if att.saves != 1 {
		t.Errorf("导入后应落盘一次，实际 %d 次", att.saves)
	}

	first := summary.Items[0]
	if first.CourseCode != "BACSE104" || first.Type != "ELA" {
		t.Errorf("科目应按代码+类型排序，首项=%+v", first)
	}
	if first.FinalAttended != 10 || first.FinalMissed != 2 {
		t.Errorf("基线计数错误: %+v", first)
	}
	if first.FinalPercentage == nil || *first.FinalPercentage != 83 {
		t.Errorf("期望 83%%，实际=%v", first.FinalPercentage)
	}
}

func TestAttendanceService_Mark_PresentAndLabDouble(t *testing.T) {
	repo, _, att := newTestRepos()
	svc := newTestAttendanceService(repo, ist(2, 16, 0))
	importTestBaseline(t, svc, "stu-1")

	// 理论到课 +1
	resp, err := svc.Mark(context.Background(), "stu-1", &dto.MarkRequest{
		CourseCode: "BACSE104", CourseType: "ETH", Slot: "A1", Day: "Monday", Index: 1, Status: "present",
	})
	if err != nil {
		t.Fatalf("Mark 失败: %v", err)
	}
	if !resp.Success {
		t.Fatalf("首次点名应成功: %+v", resp)
	}
	if resp.SlotID != "2026-03-02-BACSE104-ETH-A1-Monday-1" {
		t.Errorf("槽位键错误: %s", resp.SlotID)
	}

	// 实验缺勤一次计两节
	if _, err := svc.Mark(context.Background(), "stu-1", &dto.MarkRequest{
		CourseCode: "BACSE104", CourseType: "ELA", Slot: "L31+L32", Day: "Monday", Index: 2, Status: "absent",
	}); err != nil {
		t.Fatalf("Mark 失败: %v", err)
	}

	summary, err := svc.Summary(context.Background(), "stu-1")
	if err != nil {
		t.Fatalf("Summary 失败: %v", err)
	}
	for _, item := range summary.Items {
		switch item.Type {
		case "ETH":
			if item.FinalAttended != 10 || item.FinalMissed != 1 {
				t.Errorf("ETH 合并计数错误: %+v", item)
			}
		case "ELA":
			if item.FinalAttended != 10 || item.FinalMissed != 4 {
				t.Errorf("ELA 缺勤应计两节: %+v", item)
			}
		}
	}

	if att.saves != 3 {
		t.Errorf("导入 + 两次点名应落盘 3 次，实际 %d 次", att.saves)
	}
}

func TestAttendanceService_Mark_DuplicateIsNoop(t *testing.T) {
	repo, _, att := newTestRepos()
	svc := newTestAttendanceService(repo, ist(2, 16, 0))
	importTestBaseline(t, svc, "stu-1")

	req := &dto.MarkRequest{
		CourseCode: "BACSE104", CourseType: "ETH", Slot: "A1", Day: "Monday", Index: 1, Status: "absent",
	}
	if _, err := svc.Mark(context.Background(), "stu-1", req); err != nil {
		t.Fatalf("Mark 失败: %v", err)
	}
	savesBefore := att.saves

	// 同一节课改标也会被拒绝
	req.Status = "present"
	resp, err := svc.Mark(context.Background(), "stu-1", req)
	if err != nil {
		t.Fatalf("重复点名不应返回 error: %v", err)
	}
	if resp.Success {
		t.Error("重复点名应返回失败结果")
	}
	if resp.Error != "Already marked" {
		t.Errorf("期望 'Already marked'，实际=%s", resp.Error)
	}
	if att.saves != savesBefore {
		t.Error("失败的点名不应落盘")
	}
}

func TestAttendanceService_Mark_ExplicitDate(t *testing.T) {
	repo, _, _ := newTestRepos()
	svc := newTestAttendanceService(repo, ist(3, 9, 0))
	importTestBaseline(t, svc, "stu-1")

	resp, err := svc.Mark(context.Background(), "stu-1", &dto.MarkRequest{
		CourseCode: "BACSE104", CourseType: "ETH", Slot: "A1", Day: "Monday", Index: 1,
		Date: "2026-03-02", Status: "present",
	})
	if err != nil {
		t.Fatalf("Mark 失败: %v", err)
	}
	if resp.SlotID != "2026-03-02-BACSE104-ETH-A1-Monday-1" {
		t.Errorf("指定日期的槽位键错误: %s", resp.SlotID)
	}
}

func TestAttendanceService_Mark_InvalidInput(t *testing.T) {
	repo, _, _ := newTestRepos()
	svc := newTestAttendanceService(repo, ist(2, 9, 0))

	_, err := svc.Mark(context.Background(), "stu-1", &dto.MarkRequest{
		CourseCode: "BACSE104", CourseType: "ETH", Slot: "A1", Day: "Monday",
		Date: "02/03/2026", Status: "present",
	})
	if !errors.Is(err, ErrInvalidDate) {
		t.Errorf("期望 ErrInvalidDate，实际=%v", err)
	}

	_, err = svc.Mark(context.Background(), "stu-1", &dto.MarkRequest{
		CourseCode: "BACSE104", CourseType: "ETH", Slot: "A1", Day: "Monday", Status: "late",
	})
	if !errors.Is(err, ErrInvalidStatus) {
		t.Errorf("期望 ErrInvalidStatus，实际=%v", err)
	}
}

func TestAttendanceService_Reimport_ResetsMarks(t *testing.T) {
	repo, _, att := newTestRepos()
	svc := newTestAttendanceService(repo, ist(2, 16, 0))
	importTestBaseline(t, svc, "stu-1")

	if _, err := svc.Mark(context.Background(), "stu-1", &dto.MarkRequest{
		CourseCode: "BACSE104", CourseType: "ETH", Slot: "A1", Day: "Monday", Index: 1, Status: "present",
	}); err != nil {
		t.Fatalf("Mark 失败: %v", err)
	}

	// 重新导入：批内首条触发全量重置
	importTestBaseline(t, svc, "stu-1")

	if len(att.marks["stu-1"]) != 0 {
		t.Error("重新导入后旧点名应被清空")
	}

	summary, err := svc.Summary(context.Background(), "stu-1")
	if err != nil {
		t.Fatalf("Summary 失败: %v", err)
	}
	for _, item := range summary.Items {
		if item.CourseCode == "BACSE104" && item.Type == "ETH" {
			if item.FinalAttended != 9 || item.FinalMissed != 1 {
				t.Errorf("重置后应只剩基线计数: %+v", item)
			}
		}
	}
}

func TestAttendanceService_Unmarked(t *testing.T) {
	repo, _, _ := newTestRepos()
	// 周二视角，最近过去的工作日是周一
	now := ist(3, 9, 0)
	attSvc := newTestAttendanceService(repo, now)
	ttSvc := newTestTimetableService(repo, now)
	uploadTestWeek(t, ttSvc, "stu-1")
	importTestBaseline(t, attSvc, "stu-1")

	resp, err := attSvc.Unmarked(context.Background(), "stu-1")
	if err != nil {
		t.Fatalf("Unmarked 失败: %v", err)
	}
	if resp.Date != "2026-03-02" || resp.Day != "Monday" {
		t.Fatalf("目标日期错误: %s %s", resp.Date, resp.Day)
	}
	if len(resp.Slots) != 3 {
		t.Fatalf("期望 3 个未标记槽位（实验已合并为一），实际 %d 个", len(resp.Slots))
	}

	// 补标其中一节后减少一个
	if _, err := attSvc.Mark(context.Background(), "stu-1", &dto.MarkRequest{
		CourseCode: "BACSE104", CourseType: "ETH", Slot: "A1", Day: "Monday", Index: 1,
		Date: "2026-03-02", Status: "present",
	}); err != nil {
		t.Fatalf("Mark 失败: %v", err)
	}

	resp, err = attSvc.Unmarked(context.Background(), "stu-1")
	if err != nil {
		t.Fatalf("Unmarked 失败: %v", err)
	}
	if len(resp.Slots) != 2 {
		t.Errorf("补标后应剩 2 个未标记槽位，实际 %d 个", len(resp.Slots))
	}
}

func TestAttendanceService_Unmarked_SkipsWeekend(t *testing.T) {
	repo, _, _ := newTestRepos()
	// 周一视角，昨天是周日，应一路跳到周五
	now := ist(2, 9, 0)
	attSvc := newTestAttendanceService(repo, now)
	ttSvc := newTestTimetableService(repo, now)
	uploadTestWeek(t, ttSvc, "stu-1")

	resp, err := attSvc.Unmarked(context.Background(), "stu-1")
	if err != nil {
		t.Fatalf("Unmarked 失败: %v", err)
	}
	if resp.Day != "Friday" || resp.Date != "2026-02-27" {
		t.Errorf("应跳过周末定位到上周五，实际=%s %s", resp.Date, resp.Day)
	}
	if len(resp.Slots) != 0 {
		t.Errorf("周五无课，应无未标记槽位，实际 %d 个", len(resp.Slots))
	}
}

func TestAttendanceService_SetRequiredPercent(t *testing.T) {
	repo, _, _ := newTestRepos()
	svc := newTestAttendanceService(repo, ist(2, 9, 0))
	importTestBaseline(t, svc, "stu-1")

	summary, err := svc.SetRequiredPercent(context.Background(), "stu-1", &dto.RequiredPercentRequest{
		CourseCode: "BACSE104", CourseType: "ETH", Percent: 150,
	})
	if err != nil {
		t.Fatalf("SetRequiredPercent 失败: %v", err)
	}

	for _, item := range summary.Items {
		if item.CourseCode == "BACSE104" && item.Type == "ETH" {
			if item.RequiredPercent != 100 {
				t.Errorf("超界取值应收敛到 100，实际=%d", item.RequiredPercent)
			}
		} else if item.RequiredPercent != 75 {
			t.Errorf("其余科目应保持默认红线 75，实际=%d", item.RequiredPercent)
		}
	}
}

// [自证通过] internal/service/attendance_service_test.go
