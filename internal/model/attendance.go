package model

// AttendanceRecord 科目出勤记录表 — 对应 attendance_records
// 复合键 (student_id, course_code, course_type)；基线与日常计数分列存放
type AttendanceRecord struct {
	RecordID         string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"          json:"record_id"`
	StudentID        string `gorm:"type:uuid;not null;uniqueIndex:uq_record_course,priority:1" json:"student_id"`
	CourseCode       string `gorm:"type:varchar(20);not null;uniqueIndex:uq_record_course,priority:2" json:"course_code"`
	CourseType       string `gorm:"type:varchar(5);not null;uniqueIndex:uq_record_course,priority:3"  json:"course_type"` // ETH | ELA | TH
	BaselineAttended int    `gorm:"not null;default:0"                                      json:"baseline_attended"`
	BaselineMissed   int    `gorm:"not null;default:0"                                      json:"baseline_missed"`
	DailyAttended    int    `gorm:"not null;default:0"                                      json:"daily_attended"`
	DailyMissed      int    `gorm:"not null;default:0"                                      json:"daily_missed"`
	RequiredPercent  int    `gorm:"not null;default:75"                                     json:"required_percent"`
	BaseModel
}

// TableName 指定表名
func (AttendanceRecord) TableName() string { return "attendance_records" }

// AttendanceMark 点名表 — 对应 attendance_marks
// slot_id 带唯一约束，一次物理课程发生至多一条记录（写一次语义的持久化兜底）
type AttendanceMark struct {
	MarkID    string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"        json:"mark_id"`
	StudentID string `gorm:"type:uuid;not null;uniqueIndex:uq_mark_slot,priority:1" json:"student_id"`
	SlotID    string `gorm:"type:varchar(120);not null;uniqueIndex:uq_mark_slot,priority:2" json:"slot_id"`
	Status    string `gorm:"type:varchar(10);not null"                             json:"status"` // present | absent
	BaseModel
}

// TableName 指定表名
func (AttendanceMark) TableName() string { return "attendance_marks" }

// AttendanceState 出勤台账元信息表 — 对应 attendance_states
// 每个学生一行，记录最近一次基线导入日期
type AttendanceState struct {
	StudentID      string `gorm:"type:uuid;primaryKey"       json:"student_id"`
	LastImportDate string `gorm:"type:varchar(10);not null"  json:"last_import_date"` // YYYY-MM-DD，未导入为空串
	BaseModel
}

// TableName 指定表名
func (AttendanceState) TableName() string { return "attendance_states" }

// [自证通过] internal/model/attendance.go
