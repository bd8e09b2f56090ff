package usecase

import (
	"context"
	"errors"
	"io"
	"strings"

	"marcha-api/internal/converter"
	"marcha-api/internal/delivery/dto"
	"marcha-api/internal/domain/entity"
	"marcha-api/internal/domain/repository"
	"marcha-api/internal/infrastructure/storage"
	"marcha-api/internal/service"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrHouseNameExists = newError(ErrConflict, "house name already exists")
)

const crestFolder = "crests"

type HouseUsecase interface {
	ListHouses(ctx context.Context) (*dto.HouseListResponse, error)
	GetHouse(ctx context.Context, id int64) (*dto.HouseResponse, error)
	CreateHouse(ctx context.Context, req *dto.CreateHouseRequest, crest io.Reader) (*dto.HouseResponse, error)
	GetDashboard(ctx context.Context, id int64) (*dto.HouseDashboardResponse, error)
	GetAthleteRanking(ctx context.Context, id int64) ([]dto.AthleteRankingItem, error)
	GetCupRanking(ctx context.Context) (*dto.CupRankingResponse, error)
}

type houseUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	houseRepo    repository.HouseRepository
	athleteRepo  repository.AthleteRepository
	imageStorage storage.ImageStorage
	rankingCache service.RankingCache
}

func NewHouseUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	houseRepo repository.HouseRepository,
	athleteRepo repository.AthleteRepository,
	imageStorage storage.ImageStorage,
	rankingCache service.RankingCache,
) HouseUsecase {
	return &houseUsecase{
		db:           db,
		log:          log,
		houseRepo:    houseRepo,
		athleteRepo:  athleteRepo,
		imageStorage: imageStorage,
		rankingCache: rankingCache,
	}
}

func (u *houseUsecase) ListHouses(ctx context.Context) (*dto.HouseListResponse, error) {
	houses, err := u.houseRepo.FindAllActive(u.db.WithContext(ctx))
	if err != nil {
		u.log.Warnf("Failed to list houses: %+v", err)
		return nil, err
	}

	return &dto.HouseListResponse{
		Houses: converter.HousesToResponses(houses),
		Total:  len(houses),
	}, nil
}

func (u *houseUsecase) GetHouse(ctx context.Context, id int64) (*dto.HouseResponse, error) {
	house, err := u.findHouse(ctx, id)
	if err != nil {
		return nil, err
	}
	return converter.HouseToResponse(house), nil
}

// CreateHouse registers a house. The crest, when given, is normalized and
// stored before the row is written and removed again if the insert fails.
func (u *houseUsecase) CreateHouse(ctx context.Context, req *dto.CreateHouseRequest, crest io.Reader) (*dto.HouseResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" || len(name) > 100 {
		return nil, validationError("name is required and must be at most 100 characters")
	}
	color := strings.ToUpper(strings.TrimSpace(req.Color))
	if !isHexColor(color) {
		return nil, validationError("color must be a hex color like #1E88E5")
	}

	db := u.db.WithContext(ctx)

	existing, err := u.houseRepo.FindByName(db, name)
	if err != nil {
		u.log.Warnf("Failed to check house name: %+v", err)
		return nil, err
	}
	if existing != nil {
		return nil, ErrHouseNameExists
	}

	house := &entity.House{
		Name:   name,
		Color:  color,
		Active: true,
	}

	if crest != nil {
		crestPath, err := u.imageStorage.SaveImage(crestFolder, crest)
		if err != nil {
			if errors.Is(err, storage.ErrFileTooLarge) || errors.Is(err, storage.ErrUnsupportedFormat) || errors.Is(err, storage.ErrInvalidImage) {
				return nil, validationError(err.Error())
			}
			u.log.Warnf("Failed to store crest: %+v", err)
			return nil, err
		}
		house.Crest = &crestPath
	}

	if err := u.houseRepo.Create(db, house); err != nil {
		if house.Crest != nil {
			if removeErr := u.imageStorage.Remove(*house.Crest); removeErr != nil {
				u.log.Warnf("Failed to remove orphan crest %s: %+v", *house.Crest, removeErr)
			}
		}
		if isDuplicateKeyError(err, "name") {
			return nil, ErrHouseNameExists
		}
		u.log.Warnf("Failed to create house: %+v", err)
		return nil, err
	}

	u.rankingCache.Invalidate(ctx)
	u.log.Infof("House created: id=%d, name=%s", house.ID, house.Name)

	return converter.HouseToResponse(house), nil
}

func (u *houseUsecase) GetDashboard(ctx context.Context, id int64) (*dto.HouseDashboardResponse, error) {
	house, err := u.findHouse(ctx, id)
	if err != nil {
		return nil, err
	}

	db := u.db.WithContext(ctx)

	total, err := u.houseRepo.TotalPoints(db, id)
	if err != nil {
		u.log.Warnf("Failed to sum points of house %d: %+v", id, err)
		return nil, err
	}

	best, err := u.houseRepo.BestCategory(db, id)
	if err != nil {
		u.log.Warnf("Failed to find best category of house %d: %+v", id, err)
		return nil, err
	}

	athletes, err := u.athleteRepo.FindByHouseWithTotals(db, id)
	if err != nil {
		u.log.Warnf("Failed to rank athletes of house %d: %+v", id, err)
		return nil, err
	}

	return &dto.HouseDashboardResponse{
		House:        *converter.HouseToResponse(house),
		TotalPoints:  total,
		BestCategory: converter.CategoryToResponse(best),
		Athletes:     converter.AthleteRanking(athletes),
	}, nil
}

func (u *houseUsecase) GetAthleteRanking(ctx context.Context, id int64) ([]dto.AthleteRankingItem, error) {
	if _, err := u.findHouse(ctx, id); err != nil {
		return nil, err
	}

	athletes, err := u.athleteRepo.FindByHouseWithTotals(u.db.WithContext(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to rank athletes of house %d: %+v", id, err)
		return nil, err
	}

	return converter.AthleteRanking(athletes), nil
}

// GetCupRanking serves the house ranking from cache, computing it on a miss
func (u *houseUsecase) GetCupRanking(ctx context.Context) (*dto.CupRankingResponse, error) {
	ranking, err := cupRanking(ctx, u.db, u.houseRepo, u.rankingCache)
	if err != nil {
		u.log.Warnf("Failed to compute cup ranking: %+v", err)
		return nil, err
	}

	return &dto.CupRankingResponse{
		Houses: converter.HouseRanking(ranking),
	}, nil
}

func (u *houseUsecase) findHouse(ctx context.Context, id int64) (*entity.House, error) {
	house, err := u.houseRepo.FindByID(u.db.WithContext(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to find house %d: %+v", id, err)
		return nil, err
	}
	if house == nil {
		return nil, ErrHouseNotFound
	}
	return house, nil
}

func cupRanking(ctx context.Context, db *gorm.DB, houseRepo repository.HouseRepository, cache service.RankingCache) ([]entity.HouseTotal, error) {
	if ranking, ok := cache.Get(ctx); ok {
		return ranking, nil
	}

	ranking, err := houseRepo.Ranking(db.WithContext(ctx))
	if err != nil {
		return nil, err
	}

	cache.Set(ctx, ranking)
	return ranking, nil
}

// isHexColor accepts #RRGGBB
func isHexColor(s string) bool {
	if len(s) != 7 || s[0] != '#' {
		return false
	}
	for _, c := range s[1:] {
		if !strings.ContainsRune("0123456789ABCDEFabcdef", c) {
			return false
		}
	}
	return true
}
