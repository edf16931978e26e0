package models

import "time"

// Tenant is a single hospital/clinic on the platform
type Tenant struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Subdomain string    `json:"subdomain"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateTenantRequest represents the request body for onboarding a tenant
type CreateTenantRequest struct {
	Name      string `json:"name"`
	Subdomain string `json:"subdomain"`
}

// UpdateTenantRequest represents the request body for updating a tenant
type UpdateTenantRequest struct {
	Name     string `json:"name"`
	IsActive *bool  `json:"is_active"`
}
