package school

import (
	"time"
)

type (
	Campus struct {
		ID          string    `json:"id"`
		TenantID    string    `json:"tenantId"`
		Name        string    `json:"name"`
		Address     string    `json:"address"`
		City        string    `json:"city"`
		State       string    `json:"state"`
		Country     string    `json:"country"`
		PhoneNumber string    `json:"phoneNumber"`
		Capacity    int       `json:"capacity"`
		Description string    `json:"description,omitempty"`
		Email       string    `json:"email,omitempty"`
		CreatedAt   time.Time `json:"createdAt"` // UTC
	}

	Class struct {
		ID          string    `json:"id"`
		TenantID    string    `json:"tenantId"`
		CampusID    string    `json:"campusId"`
		Name        string    `json:"name"`
		Description string    `json:"description,omitempty"`
		CreatedAt   time.Time `json:"createdAt"` // UTC
	}

	// Arm is a section of a class (e.g. Grade 1 "A").
	Arm struct {
		ID          string    `json:"id"`
		TenantID    string    `json:"tenantId"`
		ClassID     string    `json:"classId"`
		Name        string    `json:"name"`
		Description string    `json:"description,omitempty"`
		CreatedAt   time.Time `json:"createdAt"` // UTC
	}

	// completionData feeds the setup_complete email templates.
	completionData struct {
		Name       string
		CampusName string
		ClassName  string
		ArmName    string
	}
)
