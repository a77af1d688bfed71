package handler

import (
	"cartegrise/internal/registry/models"
	"cartegrise/pkg/domain"
	dErrors "cartegrise/pkg/domain-errors"
)

// SetRoleRequest is the body of POST /registry/roles.
type SetRoleRequest struct {
	Address string `json:"address"`
	Role    string `json:"role"`
}

func (r SetRoleRequest) Parse() (domain.Address, models.Role, error) {
	addr, err := domain.ParseAddress(r.Address)
	if err != nil {
		return "", models.RoleNone, dErrors.New(dErrors.CodeInvalidInput, "invalid address: "+r.Address)
	}
	role, err := models.ParseRole(r.Role)
	if err != nil {
		return "", models.RoleNone, err
	}
	return addr, role, nil
}

// MintRequest is the body of POST /registry/vehicles.
type MintRequest struct {
	To       string `json:"to"`
	VIN      string `json:"vin"`
	Brand    string `json:"brand"`
	Model    string `json:"model"`
	Mileage  uint64 `json:"mileage"`
	TokenURI string `json:"token_uri"`
}

func (r MintRequest) Parse() (domain.Address, models.VehicleRecord, error) {
	to, err := domain.ParseAddress(r.To)
	if err != nil {
		return "", models.VehicleRecord{}, dErrors.New(dErrors.CodeInvalidInput, "invalid recipient address: "+r.To)
	}
	return to, models.VehicleRecord{
		VIN:      r.VIN,
		Brand:    r.Brand,
		Model:    r.Model,
		Mileage:  r.Mileage,
		TokenURI: r.TokenURI,
	}, nil
}

// MileageRequest is the body of PATCH /registry/vehicles/{tokenID}/mileage.
type MileageRequest struct {
	Mileage uint64 `json:"mileage"`
}

// TokenURIRequest is the body of PATCH /registry/vehicles/{tokenID}/uri.
type TokenURIRequest struct {
	TokenURI string `json:"token_uri"`
}

// TransferRequest is the body of POST /registry/vehicles/{tokenID}/transfer.
type TransferRequest struct {
	From string `json:"from"`
	To   string `json:"to"`
}

func (r TransferRequest) Parse() (domain.Address, domain.Address, error) {
	from, err := domain.ParseAddress(r.From)
	if err != nil {
		return "", "", dErrors.New(dErrors.CodeInvalidInput, "invalid from address: "+r.From)
	}
	to, err := domain.ParseAddress(r.To)
	if err != nil {
		return "", "", dErrors.New(dErrors.CodeInvalidInput, "invalid to address: "+r.To)
	}
	return from, to, nil
}

// ApproveRequest is the body of POST /registry/vehicles/{tokenID}/approve.
// The zero address clears any standing approval.
type ApproveRequest struct {
	Operator string `json:"operator"`
}
