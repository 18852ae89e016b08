package attendance

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// DefaultRequiredPercent 新建科目的默认出勤率红线
const DefaultRequiredPercent = 75

// ── 课程类型归一化 ──

// TypeCode 归一化后的课程类型代码
type TypeCode string

const (
	TypeEmbeddedTheory TypeCode = "ETH" // 嵌入式理论
	TypeEmbeddedLab    TypeCode = "ELA" // 嵌入式实验（一次点名计两节）
	TypeTheoryOnly     TypeCode = "TH"  // 纯理论
)

// NormalizeType 将课表/导入数据中的自由文本课程类型归一化为三类代码。
// 未识别的描述回落到 ETH（开放问题决策见 DESIGN.md：引入独立的
// unknown 类别会破坏 Combined 的 TH 回退探测，且 VTOP 数据不会产生）。
func NormalizeType(desc string) TypeCode {
	upper := strings.ToUpper(strings.TrimSpace(desc))
	if upper == "" {
		return TypeEmbeddedTheory
	}

	// 已是代码的直接通过
	switch TypeCode(upper) {
	case TypeEmbeddedTheory, TypeEmbeddedLab, TypeTheoryOnly:
		return TypeCode(upper)
	}

	switch {
	case strings.Contains(upper, "EMBEDDED THEORY"):
		return TypeEmbeddedTheory
	case strings.Contains(upper, "THEORY") && !strings.Contains(upper, "ONLY"):
		return TypeEmbeddedTheory
	case strings.Contains(upper, "EMBEDDED LAB"):
		return TypeEmbeddedLab
	case strings.Contains(upper, "LAB") && !strings.Contains(upper, "THEORY"):
		return TypeEmbeddedLab
	case strings.Contains(upper, "THEORY ONLY"):
		return TypeTheoryOnly
	}
	return TypeEmbeddedTheory
}

// ── 复合键 ──

// CourseKey 科目复合键：课程代码 + 归一化类型
// 结构化键避免字符串拼接带来的键冲突；仅在持久化边界渲染为字符串
type CourseKey struct {
	CourseCode string
	Type       TypeCode
}

// String 渲染持久化键，如 "BACSE104-ETH"
func (k CourseKey) String() string {
	return k.CourseCode + "-" + string(k.Type)
}

// KeyFor 构造科目持久化键（类型自由文本在内部归一化）
func KeyFor(courseCode, typ string) string {
	return CourseKey{CourseCode: courseCode, Type: NormalizeType(typ)}.String()
}

// SlotRef 一次物理课程发生的复合标识。
// 同一输入在同一日历日期上必然产生相同键；不同日期的同一周期性课程
// 是不同的物理事件，键不可复用。
type SlotRef struct {
	Date       string // YYYY-MM-DD
	CourseCode string
	Type       TypeCode
	Slot       string
	Day        string // 星期名
	Index      int    // 当天事件列表中的下标，区分同课多槽位
}

// String 渲染持久化槽位键
func (r SlotRef) String() string {
	return fmt.Sprintf("%s-%s-%s-%s-%s-%d", r.Date, r.CourseCode, r.Type, r.Slot, r.Day, r.Index)
}

// SlotIdentity 构造指定日历日期上一次课程发生的槽位键
func SlotIdentity(courseCode, typ, slot, day string, index int, on time.Time) string {
	return SlotRef{
		Date:       on.Format("2006-01-02"),
		CourseCode: courseCode,
		Type:       NormalizeType(typ),
		Slot:       slot,
		Day:        day,
		Index:      index,
	}.String()
}

// ── 台账 ──

// Record 单科目出勤记录
// Baseline* 为外部导入的基线计数，只有重新导入可以覆盖；
// Daily* 只通过本引擎的点名操作累加，导入不触碰（首科目除外，见 ImportBaseline）。
type Record struct {
	BaselineAttended int `json:"baselineAttended"`
	BaselineMissed   int `json:"baselineMissed"`
	DailyAttended    int `json:"dailyAttended"`
	DailyMissed      int `json:"dailyMissed"`
	RequiredPercent  int `json:"requiredPercent"`
}

// Mark 单次课程发生的点名值，写入后不可变更
type Mark string

const (
	MarkPresent Mark = "present"
	MarkAbsent  Mark = "absent"
)

// MarkResult 点名操作的结构化结果：重复点名是可恢复的空操作而非错误
type MarkResult struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// Combined 基线与日常合并后的出勤统计
// Percentage 在总数为 0 时为 nil
type Combined struct {
	FinalAttended   int  `json:"finalAttended"`
	FinalMissed     int  `json:"finalMissed"`
	FinalPercentage *int `json:"finalPercentage"`
}

// Ledger 出勤台账：显式状态值，调用方持有并负责持久化。
// 引擎本身不做任何 I/O；每次变更后由调用方先落盘再执行下一次变更。
type Ledger struct {
	Records      map[CourseKey]*Record
	Marks        map[string]Mark
	LastImportAt string // YYYY-MM-DD，最近一次基线导入日期
}

// NewLedger 创建空台账
func NewLedger() *Ledger {
	return &Ledger{
		Records: make(map[CourseKey]*Record),
		Marks:   make(map[string]Mark),
	}
}

// record 惰性初始化科目记录
func (l *Ledger) record(key CourseKey) *Record {
	if rec, ok := l.Records[key]; ok {
		return rec
	}
	rec := &Record{RequiredPercent: DefaultRequiredPercent}
	l.Records[key] = rec
	return rec
}

// Reset 清空全部记录与点名，重置导入日期
func (l *Ledger) Reset(today time.Time) {
	l.Records = make(map[CourseKey]*Record)
	l.Marks = make(map[string]Mark)
	l.LastImportAt = today.Format("2006-01-02")
}

// ImportBaseline 导入一个科目的基线出勤。
// firstInBatch 为 true 时先做全量重置（记录、点名、导入日期全清）——
// 对应"重新上传整表覆盖全部旧数据"的产品规则；随后写入该科目的基线，
// 日常计数不触碰（新建记录自然为零）。
func (l *Ledger) ImportBaseline(courseCode, typ string, attended, missed int, firstInBatch bool, today time.Time) {
	if firstInBatch {
		l.Reset(today)
	}

	key := CourseKey{CourseCode: courseCode, Type: NormalizeType(typ)}
	rec := l.record(key)
	rec.BaselineAttended = attended
	rec.BaselineMissed = missed
}

// MarkPresent 记一次到课；同一槽位键只允许一次点名
func (l *Ledger) MarkPresent(courseCode, typ, slotID string) MarkResult {
	return l.mark(courseCode, typ, slotID, MarkPresent)
}

// MarkAbsent 记一次缺勤
func (l *Ledger) MarkAbsent(courseCode, typ, slotID string) MarkResult {
	return l.mark(courseCode, typ, slotID, MarkAbsent)
}

func (l *Ledger) mark(courseCode, typ, slotID string, value Mark) MarkResult {
	if _, dup := l.Marks[slotID]; dup {
		return MarkResult{Success: false, Error: "Already marked"}
	}

	key := CourseKey{CourseCode: courseCode, Type: NormalizeType(typ)}
	rec := l.record(key)

	// 实验一次点名覆盖两个连续节次
	delta := 1
	if key.Type == TypeEmbeddedLab {
		delta = 2
	}

	if value == MarkPresent {
		rec.DailyAttended += delta
	} else {
		rec.DailyMissed += delta
	}
	l.Marks[slotID] = value

	return MarkResult{Success: true}
}

// Combined 计算科目的合并出勤（基线 + 日常）。
// 课表写 "Theory" 而导入写 "Theory Only" 时 ETH 键查不到记录，
// 回退探测同课程的 TH 键。
func (l *Ledger) Combined(courseCode, typ string) Combined {
	key := CourseKey{CourseCode: courseCode, Type: NormalizeType(typ)}
	rec, ok := l.Records[key]
	if !ok && key.Type == TypeEmbeddedTheory {
		rec, ok = l.Records[CourseKey{CourseCode: courseCode, Type: TypeTheoryOnly}]
	}
	if !ok {
		return Combined{}
	}

	attended := rec.BaselineAttended + rec.DailyAttended
	missed := rec.BaselineMissed + rec.DailyMissed
	result := Combined{FinalAttended: attended, FinalMissed: missed}

	if total := attended + missed; total > 0 {
		p := int(math.Round(100 * float64(attended) / float64(total)))
		result.FinalPercentage = &p
	}
	return result
}

// RequiredPercent 查询科目红线（无记录时返回默认值）
func (l *Ledger) RequiredPercent(courseCode, typ string) int {
	key := CourseKey{CourseCode: courseCode, Type: NormalizeType(typ)}
	if rec, ok := l.Records[key]; ok {
		return rec.RequiredPercent
	}
	return DefaultRequiredPercent
}

// SetRequiredPercent 设置科目红线，取值收敛到 [0,100]。
// 只作为 UI 着色阈值，不影响 Combined 的比例计算。
func (l *Ledger) SetRequiredPercent(courseCode, typ string, percent int) {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	key := CourseKey{CourseCode: courseCode, Type: NormalizeType(typ)}
	l.record(key).RequiredPercent = percent
}

// [自证通过] internal/attendance/ledger.go
