package models

import (
	"leadboard/utils"
	"net/mail"
	"strings"
	"time"
)

const maxNameLength = 200

// RegisterRequest is the body of POST /api/auth/register
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate normalizes the request and checks required fields
func (r *RegisterRequest) Validate() error {
	r.Name = utils.SanitizeText(r.Name)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	if r.Name == "" {
		return &utils.ValidationError{Field: "name", Message: "is required"}
	}
	if err := validateEmail(r.Email); err != nil {
		return err
	}
	if len(r.Password) < 8 {
		return &utils.ValidationError{Field: "password", Message: "must be at least 8 characters"}
	}
	return nil
}

// LoginRequest is the body of POST /api/auth/login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *LoginRequest) Validate() error {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	if r.Email == "" || r.Password == "" {
		return &utils.ValidationError{Field: "email", Message: "email and password are required"}
	}
	return nil
}

// CreateCampaignRequest is the body of POST /api/campaigns
type CreateCampaignRequest struct {
	Name        string         `json:"name"`
	Status      CampaignStatus `json:"status"`
	Description *string        `json:"description"`
}

// Validate sanitizes free text and canonicalizes the status; a missing status means Active
func (r *CreateCampaignRequest) Validate() error {
	name, err := validateName(r.Name)
	if err != nil {
		return err
	}
	r.Name = name
	r.Description = utils.SanitizeOptional(r.Description)

	if r.Status == "" {
		r.Status = CampaignActive
		return nil
	}
	st, err := ParseCampaignStatus(string(r.Status))
	if err != nil {
		return &utils.ValidationError{Field: "status", Message: err.Error()}
	}
	r.Status = st
	return nil
}

// UpdateCampaignRequest is the body of PATCH /api/campaigns/:id. Omitted fields are unchanged.
type UpdateCampaignRequest struct {
	Name   *string         `json:"name"`
	Status *CampaignStatus `json:"status"`
}

func (r *UpdateCampaignRequest) Validate() error {
	if r.Name == nil && r.Status == nil {
		return &utils.ValidationError{Field: "body", Message: "name or status is required"}
	}
	if r.Name != nil {
		name, err := validateName(*r.Name)
		if err != nil {
			return err
		}
		r.Name = &name
	}
	if r.Status != nil {
		st, err := ParseCampaignStatus(string(*r.Status))
		if err != nil {
			return &utils.ValidationError{Field: "status", Message: err.Error()}
		}
		r.Status = &st
	}
	return nil
}

// UpdateLeadStatusRequest is the body of PATCH /api/leads/:id
type UpdateLeadStatusRequest struct {
	Status LeadStatus `json:"status"`
}

// Validate accepts the status code or its label
func (r *UpdateLeadStatusRequest) Validate() error {
	if r.Status == "" {
		return &utils.ValidationError{Field: "status", Message: "is required"}
	}
	st, err := ParseLeadStatus(string(r.Status))
	if err != nil {
		return &utils.ValidationError{Field: "status", Message: err.Error()}
	}
	r.Status = st
	return nil
}

// CreateLeadRequest is the body of POST /api/leads
type CreateLeadRequest struct {
	Name            string     `json:"name"`
	Role            *string    `json:"role"`
	Email           string     `json:"email"`
	Company         *string    `json:"company"`
	AvatarURL       *string    `json:"avatarUrl"`
	Status          LeadStatus `json:"status"`
	CampaignID      int64      `json:"campaignId"`
	LastContactDate *time.Time `json:"lastContactDate"`
}

func (r *CreateLeadRequest) Validate() error {
	name, err := validateName(r.Name)
	if err != nil {
		return err
	}
	r.Name = name
	r.Email = strings.TrimSpace(r.Email)
	if err := validateEmail(r.Email); err != nil {
		return err
	}
	if r.CampaignID <= 0 {
		return &utils.ValidationError{Field: "campaignId", Message: "is required"}
	}
	r.Role = utils.SanitizeOptional(r.Role)
	r.Company = utils.SanitizeOptional(r.Company)
	if r.AvatarURL != nil {
		u := strings.TrimSpace(*r.AvatarURL)
		if u == "" {
			r.AvatarURL = nil
		} else {
			r.AvatarURL = &u
		}
	}

	if r.Status == "" {
		r.Status = LeadPending
		return nil
	}
	st, err := ParseLeadStatus(string(r.Status))
	if err != nil {
		return &utils.ValidationError{Field: "status", Message: err.Error()}
	}
	r.Status = st
	return nil
}

// Lead builds the lead row owned by userID
func (r *CreateLeadRequest) Lead(userID string) *Lead {
	return &Lead{
		Name:            r.Name,
		Role:            r.Role,
		Email:           r.Email,
		Company:         r.Company,
		AvatarURL:       r.AvatarURL,
		Status:          r.Status,
		CampaignID:      r.CampaignID,
		UserID:          userID,
		LastContactDate: r.LastContactDate,
	}
}

func validateName(s string) (string, error) {
	name := utils.SanitizeText(s)
	if name == "" {
		return "", &utils.ValidationError{Field: "name", Message: "is required"}
	}
	if len(name) > maxNameLength {
		return "", &utils.ValidationError{Field: "name", Message: "is too long"}
	}
	return name, nil
}

func validateEmail(s string) error {
	if s == "" {
		return &utils.ValidationError{Field: "email", Message: "is required"}
	}
	if _, err := mail.ParseAddress(s); err != nil {
		return &utils.ValidationError{Field: "email", Message: "is not a valid address"}
	}
	return nil
}
