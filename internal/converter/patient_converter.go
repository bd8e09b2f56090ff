package converter

import (
	"marcha-api/internal/delivery/dto"
	"marcha-api/internal/domain/entity"
)

// PatientToResponse converts a Patient entity to PatientResponse DTO
func PatientToResponse(patient *entity.Patient) *dto.PatientResponse {
	if patient == nil {
		return nil
	}

	response := &dto.PatientResponse{
		ID:                    patient.ID,
		Name:                  patient.Name,
		Username:              patient.Username,
		Role:                  patient.Role,
		CPF:                   patient.CPF,
		Phone:                 patient.Phone,
		Email:                 patient.Email,
		Address:               patient.Address,
		City:                  patient.City,
		State:                 patient.State,
		ZipCode:               patient.ZipCode,
		EmergencyContact:      patient.EmergencyContact,
		EmergencyPhone:        patient.EmergencyPhone,
		HealthInsurance:       patient.HealthInsurance,
		HealthInsuranceNumber: patient.HealthInsuranceNumber,
		Notes:                 patient.Notes,
		Photo:                 patient.Photo,
		Active:                patient.Active,
		CreatedAt:             patient.CreatedAt,
		UpdatedAt:             patient.UpdatedAt,
	}

	if patient.BirthDate != nil && !patient.BirthDate.IsZero() {
		response.BirthDate = patient.BirthDate.String()
	}

	return response
}

// PatientsToResponses converts a slice of Patient entities to slice of PatientResponse DTOs
func PatientsToResponses(patients []entity.Patient) []dto.PatientResponse {
	responses := make([]dto.PatientResponse, len(patients))
	for i := range patients {
		responses[i] = *PatientToResponse(&patients[i])
	}
	return responses
}
