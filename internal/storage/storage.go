package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"whodidit/backend/internal/apperr"
	"whodidit/backend/internal/config"
	"whodidit/backend/internal/logger"
	"whodidit/backend/internal/models"

	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// ErrDuplicate is returned when an insert hits a unique index.
var ErrDuplicate = errors.New("duplicate key")

// Storage is the full persistence surface used by the admin CLI. Services
// depend on narrower interfaces declared next to them.
type Storage interface {
	GetProfile(ctx context.Context, id string) (*models.Profile, error)
	SaveProfile(ctx context.Context, profile *models.Profile) error

	FindProviderByKey(ctx context.Context, nameKey, zipKey, serviceKey string) (*models.Provider, error)
	CreateProvider(ctx context.Context, provider *models.Provider) error
	GetProvider(ctx context.Context, id string) (*models.Provider, error)
	SearchProviders(ctx context.Context, nameKey, zipKey string, limit int) ([]models.Provider, error)

	CreateClaim(ctx context.Context, claim *models.Claim) error
	GetClaim(ctx context.Context, id string) (*models.Claim, error)
	ListPendingClaims(ctx context.Context) ([]models.Claim, error)
	ApproveClaim(ctx context.Context, claimID, adminID string, at time.Time) (*models.Claim, error)
	RejectClaim(ctx context.Context, claimID, adminID string, at time.Time) (*models.Claim, error)

	CreateReview(ctx context.Context, review *models.Review) error
	ListReviewsByAuthor(ctx context.Context, authorID string) ([]models.Review, error)
	ListReviewsByProvider(ctx context.Context, providerID string) ([]models.Review, error)

	CreateContactMessage(ctx context.Context, msg *models.ContactMessage) error
	GetContactMessage(ctx context.Context, id string) (*models.ContactMessage, error)
	UpdateContactMessageStatus(ctx context.Context, id string, from, to models.MessageStatus) (bool, error)
	ListOpenContactMessages(ctx context.Context, newestFirst bool) ([]models.ContactMessage, error)
}

var _ Storage = (*Service)(nil)

type Service struct {
	DB    *gorm.DB
	Redis *redis.Client
	log   *logger.Logger
}

// NewStorageService Constructor. rdb may be nil when no cache is configured.
func NewStorageService(db *gorm.DB, rdb *redis.Client, log *logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		DB:    db,
		Redis: rdb,
		log:   log.With("storage"),
	}
}

// Open connects to the database selected by cfg.DBDriver.
func Open(cfg config.Config) (*gorm.DB, error) {
	gormCfg := &gorm.Config{
		TranslateError:         true,
		SkipDefaultTransaction: true,
		Logger:                 gormlogger.Default.LogMode(gormlogger.Warn),
	}

	switch cfg.DBDriver {
	case "postgres":
		return gorm.Open(postgres.Open(cfg.PostgresDSN()), gormCfg)
	case "sqlite":
		if dir := filepath.Dir(cfg.SQLitePath); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create sqlite dir: %w", err)
			}
		}
		dsn := cfg.SQLitePath
		if strings.Contains(dsn, "?") {
			dsn += "&_busy_timeout=5000"
		} else {
			dsn += "?_busy_timeout=5000"
		}
		db, err := gorm.Open(sqlite.Open(dsn), gormCfg)
		if err != nil {
			return nil, err
		}
		// SQLite serializes writers anyway; one connection avoids SQLITE_BUSY.
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
		return db, nil
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
}

// Migrate creates or updates every table the backend owns.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Profile{},
		&models.Provider{},
		&models.Claim{},
		&models.Review{},
		&models.ContactMessage{},
	)
}

// NewRedisClient returns nil when no address is configured or the server does
// not answer. Callers treat a nil client as "no cache".
func NewRedisClient(ctx context.Context, cfg config.Config, log *logger.Logger) *redis.Client {
	if cfg.RedisAddr == "" {
		return nil
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		log.Warnf("Redis at %s unavailable, profile cache disabled: %v", cfg.RedisAddr, err)
		_ = rdb.Close()
		return nil
	}
	return rdb
}

// read runs an idempotent query, retrying once more on failure. Record-not-found
// and context errors are returned as is.
func (s *Service) read(ctx context.Context, op string, fn func(db *gorm.DB) error) error {
	var err error
	for attempt := 1; attempt <= config.ReadAttempts; attempt++ {
		err = fn(s.DB.WithContext(ctx))
		if err == nil || errors.Is(err, gorm.ErrRecordNotFound) || ctx.Err() != nil {
			return err
		}
		s.log.Warnf("%s failed (attempt %d/%d): %v", op, attempt, config.ReadAttempts, err)
	}
	return err
}

func translate(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%s: %w", op, apperr.ErrNotFound)
	case isDuplicate(err):
		return fmt.Errorf("%s: %w", op, ErrDuplicate)
	default:
		return apperr.Storage(op, err)
	}
}

// isDuplicate recognizes unique violations even when the dialector did not
// translate them (e.g. raw driver errors surfaced through a custom pool).
func isDuplicate(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value violates unique constraint")
}
