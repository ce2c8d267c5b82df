package db

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/losaltoshacks/registration-backend/internal/platform/logger"
)

const sqlitePrefix = "sqlite:"

type Config struct {
	// DSN wins when set. "sqlite:<path>" selects the SQLite driver.
	DSN          string        `env:"DSN"`
	Host         string        `env:"HOST" envDefault:"localhost"`
	Port         string        `env:"PORT" envDefault:"5432"`
	User         string        `env:"USER" envDefault:"postgres"`
	Password     string        `env:"PASSWORD"`
	Name         string        `env:"NAME" envDefault:"registration"`
	SSLMode      string        `env:"SSLMODE" envDefault:"disable"`
	SlowQuery    time.Duration `env:"SLOW_QUERY" envDefault:"1s"`
	MaxOpenConns int           `env:"MAX_OPEN_CONNS" envDefault:"10"`
}

func (c Config) postgresDSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     c.Host + ":" + c.Port,
		Path:     "/" + c.Name,
		RawQuery: "sslmode=" + url.QueryEscape(c.SSLMode),
	}
	return u.String()
}

type Service struct {
	db      *gorm.DB
	log     *logger.Logger
	dialect string
}

func Open(cfg Config, baseLog *logger.Logger) (*Service, error) {
	serviceLog := baseLog.With("service", "DatabaseService")

	gormLog := gormLogger.New(
		gormWriter{log: serviceLog},
		gormLogger.Config{
			SlowThreshold:             cfg.SlowQuery,
			LogLevel:                  gormLogger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
	gcfg := &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		TranslateError:                           true,
		Logger:                                   gormLog,
		NowFunc:                                  func() time.Time { return time.Now().UTC() },
	}

	dsn := strings.TrimSpace(cfg.DSN)
	var (
		dialector gorm.Dialector
		dialect   string
	)
	if strings.HasPrefix(dsn, sqlitePrefix) {
		dialector = sqlite.Open(strings.TrimPrefix(dsn, sqlitePrefix))
		dialect = "sqlite"
	} else {
		if dsn == "" {
			dsn = cfg.postgresDSN()
		}
		dialector = postgres.Open(dsn)
		dialect = "postgres"
	}

	db, err := gorm.Open(dialector, gcfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", dialect, err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("database handle: %w", err)
	}
	if dialect == "sqlite" {
		// SQLite allows one writer; serialise in the pool instead of failing with SQLITE_BUSY.
		sqlDB.SetMaxOpenConns(1)
	} else if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}

	serviceLog.Info("database connected", "dialect", dialect)
	return &Service{db: db, log: serviceLog, dialect: dialect}, nil
}

func (s *Service) DB() *gorm.DB { return s.db }

func (s *Service) Dialect() string { return s.dialect }

func (s *Service) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *Service) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// gormWriter routes gorm's printf-style logger into zap.
type gormWriter struct {
	log *logger.Logger
}

func (w gormWriter) Printf(format string, args ...interface{}) {
	w.log.Warn("gorm", "detail", strings.TrimSpace(fmt.Sprintf(format, args...)))
}
