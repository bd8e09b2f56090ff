package usecase

import (
	"context"
	"fmt"
	"strings"

	"marcha-api/internal/delivery/dto"
	"marcha-api/internal/domain/entity"
	"marcha-api/internal/domain/repository"
	"marcha-api/internal/service"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type defaultHouse struct {
	Name  string
	Color string
}

type defaultRule struct {
	Name        string
	Value       int
	Description string
}

var defaultHouses = []defaultHouse{
	{Name: "Cadillac", Color: "#1E88E5"},
	{Name: "Reformer", Color: "#E53935"},
	{Name: "Chair", Color: "#43A047"},
	{Name: "Barrel", Color: "#FB8C00"},
	{Name: "Tower", Color: "#8E24AA"},
}

var defaultRules = []defaultRule{
	{Name: entity.AttendanceRuleName, Value: entity.AttendanceRuleValue, Description: "Presença em qualquer aula"},
	{Name: "Desafio Completo", Value: 20, Description: "Completou um desafio proposto"},
	{Name: "Atividade Extra", Value: 15, Description: "Participou de atividade extra"},
	{Name: "Falta sem Aviso", Value: -5, Description: "Faltou sem avisar"},
	{Name: "Atitude Destrutiva", Value: -10, Description: "Comportamento inadequado"},
}

// SeedAdmin describes the optional first administrator
type SeedAdmin struct {
	Name     string
	Username string
	Password string
}

type MaintenanceUsecase interface {
	SeedDefaults(ctx context.Context, admin *SeedAdmin) (*dto.SeedResult, error)
	ResetData(ctx context.Context) (*dto.ResetResult, error)
}

type maintenanceUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	houseRepo    repository.HouseRepository
	ruleRepo     repository.ScoringRuleRepository
	patientRepo  repository.PatientRepository
	auditService service.AuditService
	rankingCache service.RankingCache
}

func NewMaintenanceUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	houseRepo repository.HouseRepository,
	ruleRepo repository.ScoringRuleRepository,
	patientRepo repository.PatientRepository,
	auditService service.AuditService,
	rankingCache service.RankingCache,
) MaintenanceUsecase {
	return &maintenanceUsecase{
		db:           db,
		log:          log,
		houseRepo:    houseRepo,
		ruleRepo:     ruleRepo,
		patientRepo:  patientRepo,
		auditService: auditService,
		rankingCache: rankingCache,
	}
}

// SeedDefaults creates the default houses and scoring rules that are missing,
// and the administrator when credentials are given. Running it again changes nothing.
func (u *maintenanceUsecase) SeedDefaults(ctx context.Context, admin *SeedAdmin) (*dto.SeedResult, error) {
	result := &dto.SeedResult{}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	for _, h := range defaultHouses {
		existing, err := u.houseRepo.FindByName(tx, h.Name)
		if err != nil {
			return nil, fmt.Errorf("find house %s: %w", h.Name, err)
		}
		if existing != nil {
			u.log.Debugf("House %s already exists", h.Name)
			continue
		}
		if err := u.houseRepo.Create(tx, &entity.House{Name: h.Name, Color: h.Color, Active: true}); err != nil {
			return nil, fmt.Errorf("create house %s: %w", h.Name, err)
		}
		result.HousesCreated++
	}

	for _, r := range defaultRules {
		existing, err := u.ruleRepo.FindByName(tx, r.Name)
		if err != nil {
			return nil, fmt.Errorf("find rule %s: %w", r.Name, err)
		}
		if existing != nil {
			u.log.Debugf("Scoring rule %s already exists", r.Name)
			continue
		}
		rule := &entity.ScoringRule{Name: r.Name, Value: r.Value, Description: r.Description, Active: true}
		if err := u.ruleRepo.Create(tx, rule); err != nil {
			return nil, fmt.Errorf("create rule %s: %w", r.Name, err)
		}
		result.RulesCreated++
	}

	if admin != nil && strings.TrimSpace(admin.Username) != "" && admin.Password != "" {
		created, err := u.seedAdmin(tx, admin)
		if err != nil {
			return nil, err
		}
		result.AdminCreated = created
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	u.rankingCache.Invalidate(ctx)
	u.log.Infof("Seed finished: houses=%d, rules=%d, admin=%t", result.HousesCreated, result.RulesCreated, result.AdminCreated)

	return result, nil
}

func (u *maintenanceUsecase) seedAdmin(tx *gorm.DB, admin *SeedAdmin) (bool, error) {
	username := strings.ToLower(strings.TrimSpace(admin.Username))

	existing, err := u.patientRepo.FindByUsername(tx, username)
	if err != nil {
		return false, fmt.Errorf("find admin %s: %w", username, err)
	}
	if existing != nil {
		u.log.Debugf("User %s already exists", username)
		return false, nil
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(admin.Password), bcrypt.DefaultCost)
	if err != nil {
		return false, fmt.Errorf("hash admin password: %w", err)
	}

	name := strings.TrimSpace(admin.Name)
	if name == "" {
		name = "Administrador"
	}

	patient := &entity.Patient{
		Name:         name,
		Username:     &username,
		PasswordHash: string(hashedPassword),
		Role:         entity.RoleAdmin,
		Active:       true,
	}
	if err := u.patientRepo.Create(tx, patient); err != nil {
		return false, fmt.Errorf("create admin %s: %w", username, err)
	}
	return true, nil
}

// ResetData wipes operational data: scores, transactions, appointments,
// athletes and patients. Houses, scoring rules and staff accounts are kept.
func (u *maintenanceUsecase) ResetData(ctx context.Context) (*dto.ResetResult, error) {
	result := &dto.ResetResult{}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	all := tx.Session(&gorm.Session{AllowGlobalUpdate: true})

	steps := []struct {
		name  string
		count *int64
		run   func() *gorm.DB
	}{
		{"scores", &result.Scores, func() *gorm.DB { return all.Delete(&entity.Score{}) }},
		{"financial transactions", &result.Transactions, func() *gorm.DB { return all.Delete(&entity.FinancialTransaction{}) }},
		{"appointments", &result.Appointments, func() *gorm.DB { return all.Delete(&entity.Appointment{}) }},
		{"athletes", &result.Athletes, func() *gorm.DB { return all.Delete(&entity.Athlete{}) }},
		{"patients", &result.Patients, func() *gorm.DB {
			return tx.Where("role NOT IN ?", []string{entity.RoleAdmin, entity.RoleProfessional}).Delete(&entity.Patient{})
		}},
	}

	for _, step := range steps {
		res := step.run()
		if res.Error != nil {
			u.log.Warnf("Failed to delete %s: %+v", step.name, res.Error)
			return nil, fmt.Errorf("delete %s: %w", step.name, res.Error)
		}
		*step.count = res.RowsAffected
	}

	if err := u.auditService.LogAction(ctx, tx, actorFromContext(ctx), entity.AuditActionDataReset, map[string]interface{}{
		"scores":       result.Scores,
		"transactions": result.Transactions,
		"appointments": result.Appointments,
		"athletes":     result.Athletes,
		"patients":     result.Patients,
	}); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	u.rankingCache.Invalidate(ctx)
	u.log.Infof("Data reset: %+v", *result)

	return result, nil
}
