package dto

// CreatePetRequest: payload for adding a pet to the owner's profile
type CreatePetRequest struct {
	PetName        string `json:"pet_name" binding:"required,max=100"`
	Age            int    `json:"age" binding:"gte=0"`
	Breed          string `json:"breed,omitempty"`
	Gender         string `json:"gender,omitempty"`
	MedicalHistory string `json:"medical_history,omitempty"`
}

// CreatePetRecordRequest: payload for adding a medical record to a pet
type CreatePetRecordRequest struct {
	PetID       int64          `json:"pet_id" binding:"required"`
	ServiceType string         `json:"service_type" binding:"required"`
	RecordData  map[string]any `json:"record_data,omitempty"`
}

// UpdatePetRecordRequest: payload for editing an existing medical record
type UpdatePetRecordRequest struct {
	ServiceType string         `json:"service_type,omitempty"`
	RecordData  map[string]any `json:"record_data,omitempty"`
}
