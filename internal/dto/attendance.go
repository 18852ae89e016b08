package dto

// ── 考勤 ──

// BaselineItem 单门课程的官方基线数据
type BaselineItem struct {
	CourseCode string `json:"course_code" binding:"required"`
	CourseType string `json:"course_type" binding:"required"`
	Attended   int    `json:"attended" binding:"min=0"`
	Missed     int    `json:"missed" binding:"min=0"`
}

// ImportBaselineRequest 批量导入基线请求, 首条导入会清空全部日常标记
type ImportBaselineRequest struct {
	Items []BaselineItem `json:"items" binding:"required,min=1,dive"`
}

// MarkRequest 标记一节课出勤请求
type MarkRequest struct {
	CourseCode string `json:"course_code" binding:"required"`
	CourseType string `json:"course_type" binding:"required"`
	Slot       string `json:"slot" binding:"required"`
	Day        string `json:"day" binding:"required"`
	Index      int    `json:"index" binding:"min=0"`
	Date       string `json:"date"` // YYYY-MM-DD, 为空表示今天
	Status     string `json:"status" binding:"required,oneof=present absent"`
}

// MarkResponse 标记结果
type MarkResponse struct {
	Success bool   `json:"success"`
	SlotID  string `json:"slot_id"`
	Error   string `json:"error,omitempty"`
}

// SummaryItem 单门课程的综合考勤
type SummaryItem struct {
	CourseCode      string `json:"course_code"`
	CourseName      string `json:"course_name"`
	Type            string `json:"type"`
	FinalAttended   int    `json:"final_attended"`
	FinalMissed     int    `json:"final_missed"`
	FinalPercentage *int   `json:"final_percentage"`
	RequiredPercent int    `json:"required_percent"`
}

// SummaryResponse 考勤汇总响应
type SummaryResponse struct {
	Items          []SummaryItem `json:"items"`
	LastImportDate string        `json:"last_import_date,omitempty"`
}

// UnmarkedSlot 一节尚未标记的往日课程
type UnmarkedSlot struct {
	SlotID     string `json:"slot_id"`
	Date       string `json:"date"`
	Day        string `json:"day"`
	CourseCode string `json:"course_code"`
	CourseName string `json:"course_name"`
	Type       string `json:"type"`
	Slot       string `json:"slot"`
	Start      string `json:"start"`
	End        string `json:"end"`
	Index      int    `json:"index"`
}

// UnmarkedResponse 未标记课程响应
type UnmarkedResponse struct {
	Date  string         `json:"date"`
	Day   string         `json:"day"`
	Slots []UnmarkedSlot `json:"slots"`
}

// RequiredPercentRequest 设置目标出勤率请求
type RequiredPercentRequest struct {
	CourseCode string `json:"course_code" binding:"required"`
	CourseType string `json:"course_type" binding:"required"`
	Percent    int    `json:"percent"`
}

// [自证通过] internal/dto/attendance.go
