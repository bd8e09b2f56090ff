package usecase

import (
	"context"
	"fmt"
	"strings"

	"marcha-api/internal/converter"
	"marcha-api/internal/delivery/dto"
	"marcha-api/internal/domain/entity"
	"marcha-api/internal/domain/repository"
	"marcha-api/internal/service"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrRuleInactive = newError(ErrValidation, "scoring rule is inactive")
)

type ScoringUsecase interface {
	ListRules(ctx context.Context) (*dto.RuleListResponse, error)
	CreateRule(ctx context.Context, req *dto.CreateRuleRequest) (*dto.RuleResponse, error)
	DeactivateRule(ctx context.Context, id int64) error
	AwardScore(ctx context.Context, req *dto.AwardScoreRequest) (*dto.ScoreResponse, error)
}

type scoringUsecase struct {
	db             *gorm.DB
	log            *logrus.Logger
	ruleRepo       repository.ScoringRuleRepository
	athleteRepo    repository.AthleteRepository
	scoringService service.ScoringService
	auditService   service.AuditService
	rankingCache   service.RankingCache
}

func NewScoringUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	ruleRepo repository.ScoringRuleRepository,
	athleteRepo repository.AthleteRepository,
	scoringService service.ScoringService,
	auditService service.AuditService,
	rankingCache service.RankingCache,
) ScoringUsecase {
	return &scoringUsecase{
		db:             db,
		log:            log,
		ruleRepo:       ruleRepo,
		athleteRepo:    athleteRepo,
		scoringService: scoringService,
		auditService:   auditService,
		rankingCache:   rankingCache,
	}
}

func (u *scoringUsecase) ListRules(ctx context.Context) (*dto.RuleListResponse, error) {
	rules, err := u.ruleRepo.FindAllActive(u.db.WithContext(ctx))
	if err != nil {
		u.log.Warnf("Failed to list scoring rules: %+v", err)
		return nil, err
	}

	return &dto.RuleListResponse{
		Rules: converter.RulesToResponses(rules),
		Total: len(rules),
	}, nil
}

func (u *scoringUsecase) CreateRule(ctx context.Context, req *dto.CreateRuleRequest) (*dto.RuleResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" || len(name) > 200 {
		return nil, validationError("name is required and must be at most 200 characters")
	}
	if req.Value < entity.MinRuleValue || req.Value > entity.MaxRuleValue {
		return nil, validationError(fmt.Sprintf("value must be between %d and %d", entity.MinRuleValue, entity.MaxRuleValue))
	}

	rule := &entity.ScoringRule{
		Name:        name,
		Value:       req.Value,
		Description: strings.TrimSpace(req.Description),
		Active:      true,
	}
	if err := u.ruleRepo.Create(u.db.WithContext(ctx), rule); err != nil {
		u.log.Warnf("Failed to create scoring rule: %+v", err)
		return nil, err
	}

	u.log.Infof("Scoring rule created: id=%d, name=%s, value=%d", rule.ID, rule.Name, rule.Value)
	return converter.RuleToResponse(rule), nil
}

// DeactivateRule soft deletes a rule; scores already awarded keep counting
func (u *scoringUsecase) DeactivateRule(ctx context.Context, id int64) error {
	rowsAffected, err := u.ruleRepo.Deactivate(u.db.WithContext(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to deactivate scoring rule %d: %+v", id, err)
		return err
	}
	if rowsAffected == 0 {
		return ErrRuleNotFound
	}
	return nil
}

// AwardScore records a manual award of an active rule to an athlete
func (u *scoringUsecase) AwardScore(ctx context.Context, req *dto.AwardScoreRequest) (*dto.ScoreResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	athlete, err := u.athleteRepo.FindByID(tx, req.AthleteID)
	if err != nil {
		u.log.Warnf("Failed to find athlete %d: %+v", req.AthleteID, err)
		return nil, err
	}
	if athlete == nil {
		return nil, ErrAthleteNotFound
	}

	rule, err := u.ruleRepo.FindByID(tx, req.RuleID)
	if err != nil {
		u.log.Warnf("Failed to find scoring rule %d: %+v", req.RuleID, err)
		return nil, err
	}
	if rule == nil {
		return nil, ErrRuleNotFound
	}
	if !rule.Active {
		return nil, ErrRuleInactive
	}

	score, err := u.scoringService.Award(ctx, tx, athlete.ID, rule, nil)
	if err != nil {
		u.log.Warnf("Failed to award rule %d to athlete %d: %+v", rule.ID, athlete.ID, err)
		return nil, err
	}

	if err := u.auditService.LogCreate(ctx, tx, actorFromContext(ctx), entity.AuditActionScoreAward, "score", score.ID, map[string]interface{}{
		"athlete_id": athlete.ID,
		"rule_id":    rule.ID,
		"value":      rule.Value,
	}); err != nil {
		return nil, err
	}

	total, err := u.athleteRepo.TotalPoints(tx, athlete.ID)
	if err != nil {
		u.log.Warnf("Failed to sum points of athlete %d: %+v", athlete.ID, err)
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	u.rankingCache.Invalidate(ctx)

	return &dto.ScoreResponse{
		ID:           score.ID,
		AthleteID:    athlete.ID,
		RuleID:       rule.ID,
		RuleName:     rule.Name,
		Value:        rule.Value,
		AthleteTotal: total,
		CreatedAt:    score.CreatedAt,
	}, nil
}
