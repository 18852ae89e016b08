package service

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"vitwise/backend/internal/model"
)

// ── Mock StudentRepository ──

type mockStudentRepo struct {
	students map[string]*model.Student
	seq      int
}

func newMockStudentRepo() *mockStudentRepo {
	return &mockStudentRepo{students: make(map[string]*model.Student)}
}

func (m *mockStudentRepo) Create(_ context.Context, student *model.Student) error {
	if student.StudentID == "" {
		m.seq++
		student.StudentID = fmt.Sprintf("stu-%d", m.seq)
	}
	m.students[student.StudentID] = student
	return nil
}

func (m *mockStudentRepo) GetByID(_ context.Context, id string) (*model.Student, error) {
	if s, ok := m.students[id]; ok {
		return s, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockStudentRepo) GetByRegNo(_ context.Context, regNo string) (*model.Student, error) {
	for _, s := range m.students {
		if s.RegNo == regNo {
			return s, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockStudentRepo) Update(_ context.Context, student *model.Student) error {
	m.students[student.StudentID] = student
	return nil
}

// ── Mock ScheduleRepository ──

type mockScheduleRepo struct {
	uploads map[string]*model.ScheduleUpload // studentID → upload
}

func newMockScheduleRepo() *mockScheduleRepo {
	return &mockScheduleRepo{uploads: make(map[string]*model.ScheduleUpload)}
}

func (m *mockScheduleRepo) GetByStudent(_ context.Context, studentID string) (*model.ScheduleUpload, error) {
	if u, ok := m.uploads[studentID]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockScheduleRepo) Replace(_ context.Context, upload *model.ScheduleUpload) error {
	if upload.UploadID == "" {
		upload.UploadID = "upload-" + upload.StudentID
	}
	m.uploads[upload.StudentID] = upload
	return nil
}

func (m *mockScheduleRepo) DeleteByStudent(_ context.Context, studentID string) error {
	delete(m.uploads, studentID)
	return nil
}

// ── Mock AttendanceRepository ──

type mockAttendanceRepo struct {
	records map[string][]model.AttendanceRecord
	marks   map[string][]model.AttendanceMark
	states  map[string]*model.AttendanceState
	saves   int // SaveSnapshot 调用次数，用于断言落盘时机
}

func newMockAttendanceRepo() *mockAttendanceRepo {
	return &mockAttendanceRepo{
		records: make(map[string][]model.AttendanceRecord),
		marks:   make(map[string][]model.AttendanceMark),
		states:  make(map[string]*model.AttendanceState),
	}
}

func (m *mockAttendanceRepo) ListRecords(_ context.Context, studentID string) ([]model.AttendanceRecord, error) {
	return m.records[studentID], nil
}

func (m *mockAttendanceRepo) ListMarks(_ context.Context, studentID string) ([]model.AttendanceMark, error) {
	return m.marks[studentID], nil
}

func (m *mockAttendanceRepo) GetState(_ context.Context, studentID string) (*model.AttendanceState, error) {
	if s, ok := m.states[studentID]; ok {
		return s, nil
	}
	return &model.AttendanceState{StudentID: studentID}, nil
}

func (m *mockAttendanceRepo) SaveSnapshot(
	_ context.Context,
	studentID string,
	records []model.AttendanceRecord,
	marks []model.AttendanceMark,
	state *model.AttendanceState,
) error {
	m.records[studentID] = records
	m.marks[studentID] = marks
	m.states[studentID] = state
	m.saves++
	return nil
}

// [自证通过] internal/service/mock_repos_test.go
