package services

import (
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
)

// UploadPattern is the os.CreateTemp pattern of staged uploads. The sweeper
// only ever removes names matching it.
const UploadPattern = "import-*.csv"

// UploadSweeper removes uploads left behind by crashed or killed imports.
// Per-import cleanup is the primary guarantee; the sweeper only catches
// files that outlived their process.
type UploadSweeper struct {
	dir    string
	maxAge time.Duration
	cron   *cron.Cron
	now    func() time.Time
}

// NewUploadSweeper creates a sweeper for dir. Files older than maxAge are removed.
func NewUploadSweeper(dir string, maxAge time.Duration) *UploadSweeper {
	return &UploadSweeper{
		dir:    dir,
		maxAge: maxAge,
		cron:   cron.New(),
		now:    time.Now,
	}
}

// Start schedules the sweep (cron spec, e.g. "@hourly") and runs one sweep immediately
func (s *UploadSweeper) Start(schedule string) error {
	if _, err := s.cron.AddFunc(schedule, func() { s.Sweep() }); err != nil {
		return err
	}
	s.Sweep()
	s.cron.Start()
	log.Infof("Upload sweeper started for %s (%s, max age %s)", s.dir, schedule, s.maxAge)
	return nil
}

// Stop stops the scheduler and waits for a running sweep to finish
func (s *UploadSweeper) Stop() {
	<-s.cron.Stop().Done()
}

// Sweep removes staged uploads (UploadPattern) in dir whose modification time
// is older than maxAge and returns how many were removed. Other files are
// never touched. Errors are logged, not returned.
func (s *UploadSweeper) Sweep() int {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if !os.IsNotExist(err) {
			log.WithError(err).Warnf("Upload sweeper could not read %s", s.dir)
		}
		return 0
	}

	cutoff := s.now().Add(-s.maxAge)
	removed := 0
	var freed uint64
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		if ok, _ := filepath.Match(UploadPattern, e.Name()); !ok {
			continue
		}
		info, err := e.Info()
		if err != nil || !info.ModTime().Before(cutoff) {
			continue
		}
		path := filepath.Join(s.dir, e.Name())
		if err := os.Remove(path); err != nil {
			log.WithError(err).Warnf("Upload sweeper failed to remove %s", path)
			continue
		}
		removed++
		freed += uint64(info.Size())
	}

	if removed > 0 {
		log.Infof("Upload sweeper removed %d stale upload(s), %s", removed, humanize.Bytes(freed))
	}
	return removed
}
