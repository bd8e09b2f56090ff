package converter

import (
	"marcha-api/internal/delivery/dto"
	"marcha-api/internal/domain/entity"
)

// AppointmentToResponse converts an Appointment entity to AppointmentResponse DTO
func AppointmentToResponse(appointment *entity.Appointment) *dto.AppointmentResponse {
	if appointment == nil {
		return nil
	}

	response := &dto.AppointmentResponse{
		ID:              appointment.ID,
		PatientID:       appointment.PatientID,
		Title:           appointment.Title,
		Description:     appointment.Description,
		AppointmentDate: appointment.AppointmentDate.String(),
		StartTime:       appointment.StartTime,
		EndTime:         appointment.EndTime,
		ServiceType:     appointment.ServiceType,
		Professional:    appointment.Professional,
		Status:          string(appointment.Status),
		Notes:           appointment.Notes,
		CreatedAt:       appointment.CreatedAt,
		UpdatedAt:       appointment.UpdatedAt,
	}

	// Include patient info if preloaded
	if appointment.Patient != nil {
		response.PatientName = appointment.Patient.Name
		response.PatientPhone = appointment.Patient.Phone
	}

	return response
}

// AppointmentsToResponses converts a slice of Appointment entities to slice of AppointmentResponse DTOs
func AppointmentsToResponses(appointments []entity.Appointment) []dto.AppointmentResponse {
	responses := make([]dto.AppointmentResponse, len(appointments))
	for i := range appointments {
		responses[i] = *AppointmentToResponse(&appointments[i])
	}
	return responses
}
