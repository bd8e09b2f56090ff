package usecase

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"marcha-api/config"
	"marcha-api/internal/delivery/dto"
	"marcha-api/internal/domain/entity"
	"marcha-api/internal/infrastructure/storage"
	"marcha-api/internal/repository"
	"marcha-api/internal/service"

	"gorm.io/gorm"
)

type gamificationFixture struct {
	db        *gorm.DB
	houses    HouseUsecase
	athletes  AthleteUsecase
	scoring   ScoringUsecase
	cache     *countingCache
	uploadDir string
}

func newGamificationFixture(t *testing.T) *gamificationFixture {
	t.Helper()

	db := newTestDB(t)
	log := newTestLogger()
	cache := &countingCache{}
	uploadDir := t.TempDir()

	houseRepo := repository.NewHouseRepository()
	athleteRepo := repository.NewAthleteRepository()
	ruleRepo := repository.NewScoringRuleRepository()
	scoreRepo := repository.NewScoreRepository()
	patientRepo := repository.NewPatientRepository()
	scoringService := service.NewScoringService(log, athleteRepo, ruleRepo, scoreRepo)
	auditService := service.NewAuditService(log, repository.NewAuditLogRepository())
	imageStorage := storage.NewLocalImageStorage(config.UploadConfig{
		Dir:          uploadDir,
		URLPrefix:    "/assets",
		MaxBytes:     1 << 20,
		MaxDimension: 64,
	}, log)

	return &gamificationFixture{
		db:        db,
		houses:    NewHouseUsecase(db, log, houseRepo, athleteRepo, imageStorage, cache),
		athletes:  NewAthleteUsecase(db, log, athleteRepo, houseRepo, patientRepo, scoreRepo, cache),
		scoring:   NewScoringUsecase(db, log, ruleRepo, athleteRepo, scoringService, auditService, cache),
		cache:     cache,
		uploadDir: uploadDir,
	}
}

func TestScoreTotals(t *testing.T) {
	f := newGamificationFixture(t)
	ctx := context.Background()

	reformer := createHouse(t, f.db, "Reformer", "#E53935")
	chair := createHouse(t, f.db, "Chair", "#43A047")

	ana := createAthlete(t, f.db, "Ana", &reformer.ID, nil)
	bia := createAthlete(t, f.db, "Bia", &reformer.ID, nil)
	caio := createAthlete(t, f.db, "Caio", &chair.ID, nil)

	presence := createRule(t, f.db, "Presença", 10)
	challenge := createRule(t, f.db, "Desafio Completo", 20)
	penalty := createRule(t, f.db, "Falta sem Aviso", -5)

	createScore(t, f.db, ana.ID, presence.ID)
	createScore(t, f.db, ana.ID, challenge.ID)
	createScore(t, f.db, bia.ID, penalty.ID)
	createScore(t, f.db, caio.ID, presence.ID)
	createScore(t, f.db, caio.ID, presence.ID)

	wantAthletes := map[int64]int64{ana.ID: 30, bia.ID: -5, caio.ID: 20}
	for id, want := range wantAthletes {
		athlete, err := f.athletes.GetAthlete(ctx, id)
		if err != nil {
			t.Fatalf("get athlete %d: %v", id, err)
		}
		if athlete.TotalPoints != want {
			t.Errorf("athlete %s total = %d, want %d", athlete.Name, athlete.TotalPoints, want)
		}
	}

	ranking, err := f.houses.GetCupRanking(ctx)
	if err != nil {
		t.Fatalf("cup ranking: %v", err)
	}
	if len(ranking.Houses) != 2 {
		t.Fatalf("houses = %d, want 2", len(ranking.Houses))
	}
	if ranking.Houses[0].ID != reformer.ID || ranking.Houses[0].TotalPoints != 25 || ranking.Houses[0].Position != 1 {
		t.Errorf("first = %+v, want Reformer with 25", ranking.Houses[0])
	}
	if ranking.Houses[1].ID != chair.ID || ranking.Houses[1].TotalPoints != 20 || ranking.Houses[1].Position != 2 {
		t.Errorf("second = %+v, want Chair with 20", ranking.Houses[1])
	}

	dashboard, err := f.houses.GetDashboard(ctx, reformer.ID)
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if dashboard.TotalPoints != 25 {
		t.Errorf("dashboard total = %d, want 25", dashboard.TotalPoints)
	}
	if dashboard.BestCategory == nil || dashboard.BestCategory.ID != challenge.ID {
		t.Errorf("best category = %+v, want %s", dashboard.BestCategory, challenge.Name)
	}
	if len(dashboard.Athletes) != 2 || dashboard.Athletes[0].ID != ana.ID || dashboard.Athletes[1].TotalPoints != -5 {
		t.Errorf("athlete ranking = %+v", dashboard.Athletes)
	}

	history, err := f.athletes.GetScoreHistory(ctx, caio.ID)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history.Scores) != 2 || history.Total != 2 {
		t.Errorf("history = %+v", history)
	}
}

func TestAwardScore(t *testing.T) {
	f := newGamificationFixture(t)
	ctx := context.Background()

	house := createHouse(t, f.db, "Barrel", "#FB8C00")
	athlete := createAthlete(t, f.db, "Duda", &house.ID, nil)
	rule := createRule(t, f.db, "Atividade Extra", 15)
	inactive := createRule(t, f.db, "Antiga", 5)
	if err := f.db.Model(inactive).Update("active", false).Error; err != nil {
		t.Fatalf("deactivate: %v", err)
	}

	score, err := f.scoring.AwardScore(ctx, &dto.AwardScoreRequest{AthleteID: athlete.ID, RuleID: rule.ID})
	if err != nil {
		t.Fatalf("award: %v", err)
	}
	if score.AthleteTotal != 15 || score.Value != 15 {
		t.Errorf("score = %+v", score)
	}
	if f.cache.invalidations.Load() != 1 {
		t.Errorf("cache invalidations = %d, want 1", f.cache.invalidations.Load())
	}

	tests := []struct {
		name    string
		req     dto.AwardScoreRequest
		wantErr error
	}{
		{"inactive rule", dto.AwardScoreRequest{AthleteID: athlete.ID, RuleID: inactive.ID}, ErrValidation},
		{"unknown rule", dto.AwardScoreRequest{AthleteID: athlete.ID, RuleID: 999}, ErrNotFound},
		{"unknown athlete", dto.AwardScoreRequest{AthleteID: 999, RuleID: rule.ID}, ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := f.scoring.AwardScore(ctx, &tt.req); !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}

	if n := countRows(t, f.db, &entity.Score{}); n != 1 {
		t.Errorf("scores = %d, want 1", n)
	}
}

func TestCreateRuleValueRange(t *testing.T) {
	f := newGamificationFixture(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		value   int
		wantErr bool
	}{
		{"lower bound", -1000, false},
		{"upper bound", 1000, false},
		{"too low", -1001, true},
		{"too high", 1001, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.scoring.CreateRule(ctx, &dto.CreateRuleRequest{Name: "Regra " + tt.name, Value: tt.value})
			if tt.wantErr != errors.Is(err, ErrValidation) {
				t.Errorf("err = %v, wantErr %t", err, tt.wantErr)
			}
		})
	}
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: 200, G: 30, B: 30, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func TestCreateHouse(t *testing.T) {
	f := newGamificationFixture(t)
	ctx := context.Background()

	house, err := f.houses.CreateHouse(ctx, &dto.CreateHouseRequest{Name: " Tower ", Color: "#8e24aa"}, bytes.NewReader(pngBytes(t, 200, 100)))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if house.Name != "Tower" || house.Color != "#8E24AA" {
		t.Errorf("house = %+v", house)
	}
	if house.Crest == nil || !strings.HasPrefix(*house.Crest, "/assets/crests/") {
		t.Fatalf("crest = %v", house.Crest)
	}

	stored := filepath.Join(f.uploadDir, "crests", filepath.Base(*house.Crest))
	file, err := os.Open(stored)
	if err != nil {
		t.Fatalf("open crest: %v", err)
	}
	defer file.Close()
	cfg, err := png.DecodeConfig(file)
	if err != nil {
		t.Fatalf("decode crest: %v", err)
	}
	if cfg.Width != 64 || cfg.Height != 32 {
		t.Errorf("crest size = %dx%d, want 64x32", cfg.Width, cfg.Height)
	}

	tests := []struct {
		name    string
		req     dto.CreateHouseRequest
		crest   []byte
		wantErr error
	}{
		{"duplicate name", dto.CreateHouseRequest{Name: "Tower", Color: "#000000"}, nil, ErrConflict},
		{"bad color", dto.CreateHouseRequest{Name: "Mat", Color: "blue"}, nil, ErrValidation},
		{"blank name", dto.CreateHouseRequest{Name: "  ", Color: "#000000"}, nil, ErrValidation},
		{"text crest", dto.CreateHouseRequest{Name: "Mat", Color: "#000000"}, []byte("not an image at all"), ErrValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var crest io.Reader
			if tt.crest != nil {
				crest = bytes.NewReader(tt.crest)
			}
			_, err := f.houses.CreateHouse(ctx, &tt.req, crest)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestAssignHouseAndLinkPatient(t *testing.T) {
	f := newGamificationFixture(t)
	ctx := context.Background()

	house := createHouse(t, f.db, "Cadillac", "#1E88E5")
	athlete := createAthlete(t, f.db, "Eva", nil, nil)
	patient := createPatient(t, f.db, "Eva")

	assigned, err := f.athletes.AssignHouse(ctx, athlete.ID, &dto.AssignHouseRequest{HouseID: house.ID})
	if err != nil {
		t.Fatalf("assign: %v", err)
	}
	if assigned.HouseID == nil || *assigned.HouseID != house.ID {
		t.Errorf("house = %v, want %d", assigned.HouseID, house.ID)
	}
	if f.cache.invalidations.Load() == 0 {
		t.Error("moving an athlete should invalidate the ranking")
	}

	if _, err := f.athletes.AssignHouse(ctx, athlete.ID, &dto.AssignHouseRequest{HouseID: 999}); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown house err = %v", err)
	}

	linked, err := f.athletes.LinkPatient(ctx, athlete.ID, &dto.LinkPatientRequest{PatientID: patient.ID})
	if err != nil {
		t.Fatalf("link: %v", err)
	}
	if linked.PatientID == nil || *linked.PatientID != patient.ID {
		t.Errorf("patient = %v, want %d", linked.PatientID, patient.ID)
	}

	other := createAthlete(t, f.db, "Eva B", nil, nil)
	if _, err := f.athletes.LinkPatient(ctx, other.ID, &dto.LinkPatientRequest{PatientID: patient.ID}); !errors.Is(err, ErrConflict) {
		t.Errorf("second link err = %v, want conflict", err)
	}
}
