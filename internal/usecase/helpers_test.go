package usecase

import (
	"context"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"marcha-api/internal/domain/entity"
	"marcha-api/internal/repository"
	"marcha-api/internal/service"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testDBSeq atomic.Int64

// newTestDB opens a private in-memory SQLite database with the full schema.
// A single connection keeps every statement of a test on the same database.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:marcha_test_%d?mode=memory&cache=shared", testDBSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	err = db.AutoMigrate(
		&entity.Patient{},
		&entity.House{},
		&entity.Athlete{},
		&entity.ScoringRule{},
		&entity.Score{},
		&entity.Appointment{},
		&entity.FinancialTransaction{},
		&entity.AuditLog{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}

	return db
}

func newTestLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// countingCache records invalidations
type countingCache struct {
	invalidations atomic.Int64
}

func (c *countingCache) Get(context.Context) ([]entity.HouseTotal, bool) { return nil, false }
func (c *countingCache) Set(context.Context, []entity.HouseTotal)         {}
func (c *countingCache) Invalidate(context.Context)                       { c.invalidations.Add(1) }

// memoryTokenStore is an in-process allowlist
type memoryTokenStore struct {
	mu     sync.Mutex
	tokens map[string]bool
}

func newMemoryTokenStore() *memoryTokenStore {
	return &memoryTokenStore{tokens: map[string]bool{}}
}

func (s *memoryTokenStore) key(patientID int64, tokenID string) string {
	return fmt.Sprintf("%d:%s", patientID, tokenID)
}

func (s *memoryTokenStore) Store(_ context.Context, patientID int64, tokenID string, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[s.key(patientID, tokenID)] = true
	return nil
}

func (s *memoryTokenStore) Exists(_ context.Context, patientID int64, tokenID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tokens[s.key(patientID, tokenID)], nil
}

func (s *memoryTokenStore) Revoke(_ context.Context, patientID int64, tokenID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, s.key(patientID, tokenID))
	return nil
}

func (s *memoryTokenStore) RevokeAll(_ context.Context, patientID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	prefix := fmt.Sprintf("%d:", patientID)
	for k := range s.tokens {
		if len(k) >= len(prefix) && k[:len(prefix)] == prefix {
			delete(s.tokens, k)
		}
	}
	return nil
}

var _ service.TokenStore = (*memoryTokenStore)(nil)

type appointmentFixture struct {
	db      *gorm.DB
	usecase *appointmentUsecase
	cache   *countingCache
}

func newAppointmentFixture(t *testing.T) *appointmentFixture {
	t.Helper()

	db := newTestDB(t)
	log := newTestLogger()
	cache := &countingCache{}

	athleteRepo := repository.NewAthleteRepository()
	ruleRepo := repository.NewScoringRuleRepository()
	scoreRepo := repository.NewScoreRepository()

	uc := NewAppointmentUsecase(
		db,
		log,
		repository.NewAppointmentRepository(),
		repository.NewPatientRepository(),
		repository.NewFinancialTransactionRepository(),
		service.NewScoringService(log, athleteRepo, ruleRepo, scoreRepo),
		service.NewAuditService(log, repository.NewAuditLogRepository()),
		cache,
		decimal.RequireFromString("100.00"),
	).(*appointmentUsecase)
	uc.now = func() time.Time { return time.Date(2025, 1, 13, 10, 0, 0, 0, time.UTC) }

	return &appointmentFixture{db: db, usecase: uc, cache: cache}
}

func createPatient(t *testing.T, db *gorm.DB, name string) *entity.Patient {
	t.Helper()
	patient := &entity.Patient{Name: name, Role: entity.RoleClient, Active: true}
	if err := db.Create(patient).Error; err != nil {
		t.Fatalf("create patient: %v", err)
	}
	return patient
}

func createHouse(t *testing.T, db *gorm.DB, name, color string) *entity.House {
	t.Helper()
	house := &entity.House{Name: name, Color: color, Active: true}
	if err := db.Omit("Athletes").Create(house).Error; err != nil {
		t.Fatalf("create house: %v", err)
	}
	return house
}

func createAthlete(t *testing.T, db *gorm.DB, name string, houseID, patientID *int64) *entity.Athlete {
	t.Helper()
	athlete := &entity.Athlete{Name: name, HouseID: houseID, PatientID: patientID}
	if err := db.Omit("House").Create(athlete).Error; err != nil {
		t.Fatalf("create athlete: %v", err)
	}
	return athlete
}

func createRule(t *testing.T, db *gorm.DB, name string, value int) *entity.ScoringRule {
	t.Helper()
	rule := &entity.ScoringRule{Name: name, Value: value, Active: true}
	if err := db.Create(rule).Error; err != nil {
		t.Fatalf("create rule: %v", err)
	}
	return rule
}

func createScore(t *testing.T, db *gorm.DB, athleteID, ruleID int64) {
	t.Helper()
	if err := db.Omit("Athlete", "Rule").Create(&entity.Score{AthleteID: athleteID, RuleID: ruleID}).Error; err != nil {
		t.Fatalf("create score: %v", err)
	}
}

func countRows(t *testing.T, db *gorm.DB, model interface{}) int64 {
	t.Helper()
	var n int64
	if err := db.Model(model).Count(&n).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	return n
}

func int64Ptr(v int64) *int64 { return &v }
