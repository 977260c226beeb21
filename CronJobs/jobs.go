package CronJobs

import (
	"TaskFlow/Config"
	"TaskFlow/FMSImport"
	"TaskFlow/Models"
	"TaskFlow/Slack"
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

const (
	JobChecklist = "checklist"
	JobFMSImport = "fms_import"
	JobDigest    = "digest"
)

var ErrUnknownJob = errors.New("unknown job")

const jobTimeout = 5 * time.Minute

// Scheduler runs the periodic jobs on cron schedules (with seconds)
type Scheduler struct {
	cronScheduler *cron.Cron
	db            *gorm.DB
	cfg           Config.Config
	digest        *Slack.Digest
	now           func() time.Time

	mu      sync.Mutex
	jobs    map[string]func(context.Context) error
	entries map[string]cron.EntryID
}

// NewScheduler wires the jobs enabled by cfg. digest may be nil.
func NewScheduler(db *gorm.DB, cfg Config.Config, digest *Slack.Digest) *Scheduler {
	s := &Scheduler{
		cronScheduler: cron.New(cron.WithSeconds(), cron.WithLocation(cfg.Location())),
		db:            db,
		cfg:           cfg,
		digest:        digest,
		now:           time.Now,
		jobs:          map[string]func(context.Context) error{},
		entries:       map[string]cron.EntryID{},
	}
	s.jobs[JobChecklist] = s.runChecklist
	if cfg.FMSSheetPath != "" {
		s.jobs[JobFMSImport] = s.runFMSImport
	}
	if digest != nil {
		s.jobs[JobDigest] = digest.Send
	}
	return s
}

func (s *Scheduler) schedules() map[string]string {
	return map[string]string{
		JobChecklist: s.cfg.ChecklistSchedule,
		JobFMSImport: s.cfg.FMSImportSchedule,
		JobDigest:    s.cfg.DigestSchedule,
	}
}

// Start schedules every enabled job and generates today's checklists right away
func (s *Scheduler) Start() error {
	for name, spec := range s.schedules() {
		if _, ok := s.jobs[name]; !ok {
			continue
		}
		if err := s.UpdateSchedule(name, spec); err != nil {
			return err
		}
	}
	s.cronScheduler.Start()
	log.Printf("Scheduler started with %d jobs", len(s.entries))

	go func() {
		if err := s.RunNow(JobChecklist); err != nil {
			log.Printf("Error in initial checklist run: %v", err)
		}
	}()
	return nil
}

// Stop terminates the scheduler and waits for running jobs
func (s *Scheduler) Stop() {
	if s.cronScheduler == nil {
		return
	}
	<-s.cronScheduler.Stop().Done()
	log.Println("Scheduler stopped")
}

// UpdateSchedule (re)schedules a job. Format: "0 5 0 * * *" = 00:05:00 every day
func (s *Scheduler) UpdateSchedule(name, spec string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.jobs[name]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownJob, name)
	}
	if id, ok := s.entries[name]; ok {
		s.cronScheduler.Remove(id)
	}
	id, err := s.cronScheduler.AddFunc(spec, func() {
		if err := s.RunNow(name); err != nil {
			log.Printf("Error in scheduled %s job: %v", name, err)
		}
	})
	if err != nil {
		return fmt.Errorf("error scheduling %s job: %w", name, err)
	}
	s.entries[name] = id
	log.Printf("%s job scheduled: %s", name, spec)
	return nil
}

// RunNow executes a job immediately
func (s *Scheduler) RunNow(name string) error {
	s.mu.Lock()
	job, ok := s.jobs[name]
	s.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownJob, name)
	}

	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()
	start := time.Now()
	err := job(ctx)
	log.Printf("Job %s finished in %s", name, time.Since(start).Round(time.Millisecond))
	return err
}

func (s *Scheduler) runChecklist(ctx context.Context) error {
	_, err := GenerateChecklists(ctx, s.db, s.now())
	return err
}

// runFMSImport re-reads the configured workbook and then backfills doers
func (s *Scheduler) runFMSImport(ctx context.Context) error {
	if _, err := os.Stat(s.cfg.FMSSheetPath); err != nil {
		return fmt.Errorf("fms sheet: %w", err)
	}
	if _, err := FMSImport.ImportFile(ctx, s.db, s.cfg.FMSSheetPath); err != nil {
		return err
	}
	report, err := Models.ReconcileDoers(s.db.WithContext(ctx))
	if err != nil {
		return err
	}
	log.Printf("Doer reconciliation: checklist %+v, fms %+v", report.Checklist, report.FMS)
	return nil
}
