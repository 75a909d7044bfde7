package storage

import (
	"context"
	"time"

	"facilitydesk/backend/internal/config"
	"facilitydesk/backend/internal/logger"
	"facilitydesk/backend/internal/models"

	_ "github.com/lib/pq" // registers the "postgres" database/sql driver for DB_DRIVER=pq
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Storage is the record store used by the services and handlers.
type Storage interface {
	Transaction(ctx context.Context, fn func(tx Storage) error) error

	// Reference data
	GetUser(ctx context.Context, id uint) (*models.User, error)
	UsersByIDs(ctx context.Context, ids []uint) ([]models.User, error)
	UserNames(ctx context.Context, ids []uint) (map[uint]string, error)
	UsersByRole(ctx context.Context, role string) ([]models.User, error)
	UsersByRoleInDepartment(ctx context.Context, role string, departmentID uint) ([]models.User, error)
	UsersByRoleInDepartmentNames(ctx context.Context, role string, names []string) ([]models.User, error)
	FirstUserByRole(ctx context.Context, role string) (*models.User, error)
	GetDepartment(ctx context.Context, id uint) (*models.Department, error)
	DepartmentNames(ctx context.Context, ids []uint) (map[uint]string, error)
	GetTemplateByName(ctx context.Context, name string) (*models.NotificationTemplate, error)

	// Tenants
	ListTenants(ctx context.Context) ([]models.Tenant, error)
	ListTenantSummaries(ctx context.Context) ([]TenantSummary, error)
	TenantNames(ctx context.Context, ids []uint) (map[uint]string, error)
	GetTenant(ctx context.Context, id uint) (*models.Tenant, error)
	CreateTenant(ctx context.Context, t *models.Tenant) error
	ReplaceTenant(ctx context.Context, t *models.Tenant) error
	DeleteTenant(ctx context.Context, id uint) error

	// Feedback complaints
	ListComplaints(ctx context.Context, page Page) ([]models.FeedbackComplain, int64, error)
	GetComplaint(ctx context.Context, id uint) (*models.FeedbackComplain, error)
	GetComplaintByNo(ctx context.Context, complainNo string) (*models.FeedbackComplain, error)
	CreateComplaint(ctx context.Context, c *models.FeedbackComplain) error
	UpdateComplaint(ctx context.Context, c *models.FeedbackComplain) error
	DeleteComplaint(ctx context.Context, id uint) error
	SetComplaintStatus(ctx context.Context, complainNo, status string) error

	// Job slips
	ListJobSlips(ctx context.Context, f JobSlipFilter, page Page) ([]models.JobSlip, int64, error)
	GetJobSlip(ctx context.Context, id uint) (*models.JobSlip, error)
	CreateJobSlip(ctx context.Context, j *models.JobSlip) error
	UpdateJobSlip(ctx context.Context, j *models.JobSlip) error
	DeleteJobSlip(ctx context.Context, id uint) error
	JobSlipStatuses(ctx context.Context, complainNo string) ([]string, error)

	// Janitorial reports
	ListReports(ctx context.Context, f ReportFilter, page Page) ([]models.JanitorialReport, int64, error)
	GetReport(ctx context.Context, id uint) (*models.JanitorialReport, error)
	CreateReport(ctx context.Context, r *models.JanitorialReport) error
	UpdateReportFields(ctx context.Context, r *models.JanitorialReport) error
	DeleteReport(ctx context.Context, id uint) error
	SubReportIDs(ctx context.Context, reportID uint) ([]uint, error)
	DeleteSubReports(ctx context.Context, ids []uint) error
	UpdateSubReport(ctx context.Context, sub *models.SubJanReport) error
	CreateSubReport(ctx context.Context, sub *models.SubJanReport) error

	// Notifications
	CreateNotifications(ctx context.Context, ns []models.Notification) error
	ListNotifications(ctx context.Context, userID uint, page Page) ([]models.Notification, int64, error)
	MarkNotificationRead(ctx context.Context, id, userID uint) error
}

// Service implements Storage on gorm. Redis is optional and only backs the
// notification queue and the live relay.
type Service struct {
	DB    *gorm.DB
	Redis *redis.Client
}

// NewStorageService Constructor
func NewStorageService(db *gorm.DB, rdb *redis.Client) *Service {
	return &Service{
		DB:    db,
		Redis: rdb,
	}
}

// Open connects to PostgreSQL through pgx, or through lib/pq when
// cfg.DBDriver is "pq".
func Open(cfg *config.Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.DBDriver {
	case "pq":
		dialector = postgres.New(postgres.Config{DriverName: "postgres", DSN: cfg.DSN})
	default:
		dialector = postgres.Open(cfg.DSN)
	}

	return gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger: gormlogger.New(logger.Log, gormlogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	})
}

// Migrate creates or updates the schema for every model.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(models.All()...)
}

// Transaction runs fn against a Storage bound to a single database
// transaction. Returning an error rolls everything back.
func (s *Service) Transaction(ctx context.Context, fn func(tx Storage) error) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Service{DB: tx, Redis: s.Redis})
	})
}

// Page is a 1-based page number over config.PageSize rows.
type Page struct {
	Number int
}

func (p Page) Limit() int {
	return config.PageSize
}

func (p Page) Offset() int {
	if p.Number < 1 {
		return 0
	}
	return (p.Number - 1) * config.PageSize
}

// HasNext reports whether rows remain after this page.
func (p Page) HasNext(total int64) bool {
	return total > int64(p.Offset()+p.Limit())
}

type TenantSummary struct {
	ID         uint   `json:"id"`
	TenantName string `json:"tenantName"`
}

// JobSlipFilter mirrors the list filters: text fields match by substring,
// Status matches exactly, dates bound the slip date inclusively.
type JobSlipFilter struct {
	JobID      string
	ComplainNo string
	ComplainBy string
	FloorNo    string
	Status     string
	DateFrom   *time.Time
	DateTo     *time.Time
}

type ReportFilter struct {
	Supervisor string
	DateFrom   *time.Time
	DateTo     *time.Time
}

func contains(v string) string {
	return "%" + v + "%"
}
