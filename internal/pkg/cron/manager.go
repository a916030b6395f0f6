package cron

import (
	"Hitoiki/internal/job"
	log "log/slog"

	"github.com/robfig/cron/v3"
)

type Manager struct {
	engine    *cron.Cron
	rollupJob *job.RatingRollupJob
	repairJob *job.EngagementRepairJob
}

func NewCronManager(rollupJob *job.RatingRollupJob, repairJob *job.EngagementRepairJob) *Manager {
	return &Manager{
		engine:    cron.New(cron.WithSeconds()),
		rollupJob: rollupJob,
		repairJob: repairJob,
	}
}

// RegisterJobs 注册定时任务
func (s *Manager) RegisterJobs() error {
	if _, err := s.engine.AddJob("@daily", s.rollupJob); err != nil {
		return err
	}
	if _, err := s.engine.AddJob("@every 10m", s.repairJob); err != nil {
		return err
	}
	return nil
}

func (s *Manager) Start() {
	log.Info("Cron 定时任务引擎启动")
	s.engine.Start()
}

func (s *Manager) Stop() {
	log.Info("Cron 定时任务引擎停止")
	s.engine.Stop()
}
