package scheduler

import (
	"context"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"github.com/iamanishx/talawa-api/internals/features/events/model"
	ossh "github.com/iamanishx/talawa-api/internals/helpers/oss"
)

// BlobChecker: potongan kontrak object storage yang dibutuhkan sweep.
type BlobChecker interface {
	IsObjectExist(ctx context.Context, key string) (bool, error)
}

type AttachmentReconcilerConfig struct {
	CronSchedule string
	GraceMinutes int
	BatchSize    int
	DryRun       bool
}

func getEnvOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
func getEnvBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	switch v {
	case "1", "true", "TRUE", "True", "yes", "on":
		return true
	default:
		return false
	}
}
func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

// ── ENTRYPOINT: panggil dari main.go
// Row attachment yang event-nya sudah commit tapi blob-nya gagal/ belum ketulis
// punya blob_synced_at NULL. Sweep ini menyamakan row dengan isi object store:
// blob ada → tandai synced; blob tidak ada setelah masa tenggang → soft-delete row.
func StartAttachmentReconcilerCron(db *gorm.DB, svc *ossh.OSSService) {
	cfg := AttachmentReconcilerConfig{
		CronSchedule: getEnvOrDefault("ATTACHMENT_RECONCILER_SCHEDULE", "*/10 * * * *"),
		GraceMinutes: getEnvInt("ATTACHMENT_RECONCILER_GRACE_MINUTES", 15),
		BatchSize:    getEnvInt("ATTACHMENT_RECONCILER_BATCH", 200),
		DryRun:       getEnvBool("DRY_RUN", false),
	}

	if svc == nil {
		log.Printf("[ATTACH-RECONCILER] OSS service nil — reconciler tidak dijalankan")
		return
	}

	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)))

	_, err := c.AddFunc(cfg.CronSchedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 4*time.Minute)
		defer cancel()
		if err := ReconcileAttachments(ctx, db, svc, cfg); err != nil {
			log.Printf("[ATTACH-RECONCILER] sweep error: %v", err)
		}
	})
	if err != nil {
		log.Fatalf("[ATTACH-RECONCILER] add cron gagal: %v", err)
	}
	log.Printf("[ATTACH-RECONCILER] started schedule=%q grace=%dm batch=%d dryRun=%v",
		cfg.CronSchedule, cfg.GraceMinutes, cfg.BatchSize, cfg.DryRun)
	c.Start()
}

// ReconcileAttachments memproses satu sweep; dipisah dari cron supaya bisa
// dipanggil langsung (dan dites) tanpa scheduler.
func ReconcileAttachments(ctx context.Context, db *gorm.DB, svc BlobChecker, cfg AttachmentReconcilerConfig) error {
	cutoff := time.Now().Add(-time.Duration(cfg.GraceMinutes) * time.Minute)
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 200
	}

	var pending []model.EventAttachmentModel
	if err := db.WithContext(ctx).
		Where("event_attachment_blob_synced_at IS NULL AND event_attachment_created_at < ?", cutoff).
		Order("event_attachment_created_at ASC").
		Limit(cfg.BatchSize).
		Find(&pending).Error; err != nil {
		return err
	}
	if len(pending) == 0 {
		return nil
	}
	log.Printf("[ATTACH-RECONCILER] scanning %d pending rows older than %s", len(pending), cutoff.Format(time.RFC3339))

	marked, removed := 0, 0
	for i := range pending {
		att := &pending[i]

		exists, err := svc.IsObjectExist(ctx, att.EventAttachmentObjectKey)
		if err != nil {
			log.Printf("[ATTACH-RECONCILER] cek objek %s gagal: %v", att.EventAttachmentObjectKey, err)
			continue
		}

		if exists {
			if cfg.DryRun {
				log.Printf("[ATTACH-RECONCILER] DRY-RUN would mark synced: %s", att.EventAttachmentObjectKey)
				continue
			}
			now := time.Now()
			if err := db.WithContext(ctx).Model(att).
				Update("event_attachment_blob_synced_at", now).Error; err != nil {
				log.Printf("[ATTACH-RECONCILER] mark synced %s gagal: %v", att.EventAttachmentID, err)
				continue
			}
			marked++
			continue
		}

		// Blob tidak pernah sampai ke store; row-nya yatim.
		if cfg.DryRun {
			log.Printf("[ATTACH-RECONCILER] DRY-RUN would soft-delete orphan row: %s", att.EventAttachmentID)
			continue
		}
		if err := db.WithContext(ctx).Delete(att).Error; err != nil {
			log.Printf("[ATTACH-RECONCILER] soft-delete %s gagal: %v", att.EventAttachmentID, err)
			continue
		}
		removed++
	}

	log.Printf("[ATTACH-RECONCILER] done: marked=%d removed=%d of %d pending", marked, removed, len(pending))
	return nil
}
