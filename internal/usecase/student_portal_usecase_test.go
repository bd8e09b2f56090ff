package usecase

import (
	"context"
	"errors"
	"testing"

	"marcha-api/internal/repository"
	"marcha-api/internal/service"
)

func TestGetPortal(t *testing.T) {
	db := newTestDB(t)
	log := newTestLogger()

	athleteRepo := repository.NewAthleteRepository()
	ruleRepo := repository.NewScoringRuleRepository()
	scoreRepo := repository.NewScoreRepository()
	uc := NewStudentPortalUsecase(
		db,
		log,
		repository.NewPatientRepository(),
		athleteRepo,
		repository.NewHouseRepository(),
		scoreRepo,
		service.NewScoringService(log, athleteRepo, ruleRepo, scoreRepo),
		&countingCache{},
	)

	reformer := createHouse(t, db, "Reformer", "#E53935")
	chair := createHouse(t, db, "Chair", "#43A047")
	presence := createRule(t, db, "Presença", 10)
	challenge := createRule(t, db, "Desafio Completo", 20)

	ana := createPatient(t, db, "Ana")
	linked := createAthlete(t, db, "Ana Paula", &reformer.ID, &ana.ID)
	createScore(t, db, linked.ID, presence.ID)
	createScore(t, db, linked.ID, challenge.ID)

	caio := createPatient(t, db, "Caio")
	legacy := createAthlete(t, db, "Caio", nil, nil)
	createScore(t, db, legacy.ID, presence.ID)

	dani := createPatient(t, db, "Dani")

	tests := []struct {
		name        string
		patientID   int64
		wantAthlete int64
		wantTotal   int64
		wantHouse   string
		wantScores  int
	}{
		{"linked athlete with house", ana.ID, linked.ID, 30, "Reformer", 2},
		{"legacy athlete by name", caio.ID, legacy.ID, 10, "", 1},
		{"no athlete", dani.ID, 0, 0, "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			portal, err := uc.GetPortal(context.Background(), tt.patientID)
			if err != nil {
				t.Fatalf("GetPortal: %v", err)
			}
			if portal.Patient.ID != tt.patientID {
				t.Errorf("patient = %d, want %d", portal.Patient.ID, tt.patientID)
			}

			if tt.wantAthlete == 0 {
				if portal.Athlete != nil {
					t.Errorf("athlete = %+v, want none", portal.Athlete)
				}
			} else {
				if portal.Athlete == nil || portal.Athlete.ID != tt.wantAthlete {
					t.Fatalf("athlete = %+v, want id %d", portal.Athlete, tt.wantAthlete)
				}
				if portal.Athlete.TotalPoints != tt.wantTotal {
					t.Errorf("total = %d, want %d", portal.Athlete.TotalPoints, tt.wantTotal)
				}
			}

			gotHouse := ""
			if portal.House != nil {
				gotHouse = portal.House.Name
			}
			if gotHouse != tt.wantHouse {
				t.Errorf("house = %q, want %q", gotHouse, tt.wantHouse)
			}
			if len(portal.Scores) != tt.wantScores {
				t.Errorf("scores = %d, want %d", len(portal.Scores), tt.wantScores)
			}

			if len(portal.Ranking) != 2 || portal.Ranking[0].ID != reformer.ID || portal.Ranking[1].ID != chair.ID {
				t.Errorf("ranking = %+v", portal.Ranking)
			}
		})
	}

	if _, err := uc.GetPortal(context.Background(), 9999); !errors.Is(err, ErrPatientNotFound) {
		t.Errorf("unknown patient err = %v", err)
	}
}
