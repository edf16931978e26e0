package models

import "time"

type Feedback struct {
	ID          int       `json:"id"`
	TenantID    int       `json:"tenant_id"`
	PatientName string    `json:"patient_name"`
	Rating      int       `json:"rating"` // 1-5
	Message     string    `json:"message"`
	CreatedAt   time.Time `json:"created_at"`
}

type CreateFeedbackRequest struct {
	PatientName string `json:"patient_name"`
	Rating      int    `json:"rating"`
	Message     string `json:"message"`
}
