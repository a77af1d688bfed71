// Package handler exposes the vehicle registry over HTTP. Routes mirror the
// registry operations one to one; authority checks stay in the service, the
// handler only decodes, parses identifiers, and translates errors.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"cartegrise/internal/events"
	"cartegrise/internal/platform/middleware"
	"cartegrise/internal/registry/models"
	"cartegrise/pkg/domain"
	dErrors "cartegrise/pkg/domain-errors"
	"cartegrise/pkg/platform/httputil"
)

//go:generate mockgen -source=handler.go -destination=mocks/registry-mocks.go -package=mocks

// Service defines the registry operations the handler depends on.
type Service interface {
	SetRole(ctx context.Context, caller, target domain.Address, role models.Role) (models.RoleAssignment, error)
	RoleOf(ctx context.Context, addr domain.Address) (models.Role, error)
	Mint(ctx context.Context, caller, to domain.Address, rec models.VehicleRecord) (models.VehicleDetails, error)
	Vehicle(ctx context.Context, id domain.TokenID) (models.VehicleDetails, error)
	UpdateMileage(ctx context.Context, caller domain.Address, id domain.TokenID, mileage uint64) (models.VehicleDetails, error)
	UpdateTokenURI(ctx context.Context, caller domain.Address, id domain.TokenID, uri string) (models.VehicleDetails, error)
	Transfer(ctx context.Context, caller, from, to domain.Address, id domain.TokenID) error
	Approve(ctx context.Context, caller domain.Address, id domain.TokenID, operator domain.Address) error
	Approved(ctx context.Context, id domain.TokenID) (domain.Address, error)
	OwnerOf(ctx context.Context, id domain.TokenID) (domain.Address, error)
	OwnerPortfolio(ctx context.Context, addr domain.Address) (models.Portfolio, error)
	TokenOfOwnerByIndex(ctx context.Context, addr domain.Address, index int) (domain.TokenID, error)
	FindByVIN(ctx context.Context, vin string) ([]models.VehicleRecord, error)
	RecentEvents(ctx context.Context, limit int) ([]events.Event, error)
}

// Handler wires registry endpoints to the registry service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a registry handler with its dependencies.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterProtected mounts the mutating endpoints. These expect the wallet
// auth middleware to have run already.
func (h *Handler) RegisterProtected(r chi.Router) {
	r.Post("/registry/roles", h.HandleSetRole)
	r.Post("/registry/vehicles", h.HandleMint)
	r.Patch("/registry/vehicles/{tokenID}/mileage", h.HandleUpdateMileage)
	r.Patch("/registry/vehicles/{tokenID}/uri", h.HandleUpdateTokenURI)
	r.Post("/registry/vehicles/{tokenID}/transfer", h.HandleTransfer)
	r.Post("/registry/vehicles/{tokenID}/approve", h.HandleApprove)
}

// RegisterPublic mounts the read endpoints, open to any caller.
func (h *Handler) RegisterPublic(r chi.Router) {
	r.Get("/registry/roles/{address}", h.HandleRoleOf)
	r.Get("/registry/vehicles/vin/{vin}", h.HandleFindByVIN)
	r.Get("/registry/vehicles/{tokenID}", h.HandleVehicle)
	r.Get("/registry/vehicles/{tokenID}/approved", h.HandleApproved)
	r.Get("/registry/vehicles/{tokenID}/owner", h.HandleOwnerOf)
	r.Get("/registry/owners/{address}", h.HandleOwnerPortfolio)
	r.Get("/registry/owners/{address}/tokens/{index}", h.HandleTokenOfOwnerByIndex)
	r.Get("/registry/events", h.HandleEvents)
}

// caller pulls the authenticated wallet address out of the context. Routes
// behind RequireCaller always have one; the check guards direct wiring.
func (h *Handler) caller(w http.ResponseWriter, r *http.Request) (domain.Address, bool) {
	caller := middleware.GetCaller(r.Context())
	if caller == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return "", false
	}
	return caller, true
}

func (h *Handler) tokenID(w http.ResponseWriter, r *http.Request) (domain.TokenID, bool) {
	raw := chi.URLParam(r, "tokenID")
	id, err := domain.ParseTokenID(raw)
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "invalid token id: "+raw))
		return 0, false
	}
	return id, true
}

func (h *Handler) address(w http.ResponseWriter, r *http.Request) (domain.Address, bool) {
	raw := chi.URLParam(r, "address")
	addr, err := domain.ParseAddress(raw)
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "invalid address: "+raw))
		return "", false
	}
	return addr, true
}

// HandleSetRole handles POST /registry/roles.
func (h *Handler) HandleSetRole(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[SetRoleRequest](w, r, h.logger, ctx, middleware.GetRequestID(ctx))
	if !ok {
		return
	}
	target, role, err := req.Parse()
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	assignment, err := h.service.SetRole(ctx, caller, target, role)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, RoleResponse{
		Address:  assignment.Target.String(),
		Role:     assignment.Role.String(),
		Previous: assignment.Previous.String(),
		HasRole:  assignment.Role != models.RoleNone,
	})
}

// HandleRoleOf handles GET /registry/roles/{address}.
func (h *Handler) HandleRoleOf(w http.ResponseWriter, r *http.Request) {
	addr, ok := h.address(w, r)
	if !ok {
		return
	}
	role, err := h.service.RoleOf(r.Context(), addr)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, RoleResponse{
		Address: addr.String(),
		Role:    role.String(),
		HasRole: role != models.RoleNone,
	})
}

// HandleMint handles POST /registry/vehicles.
func (h *Handler) HandleMint(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[MintRequest](w, r, h.logger, ctx, middleware.GetRequestID(ctx))
	if !ok {
		return
	}
	to, rec, err := req.Parse()
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	details, err := h.service.Mint(ctx, caller, to, rec)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, details)
}

// HandleVehicle handles GET /registry/vehicles/{tokenID}.
func (h *Handler) HandleVehicle(w http.ResponseWriter, r *http.Request) {
	id, ok := h.tokenID(w, r)
	if !ok {
		return
	}
	details, err := h.service.Vehicle(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, details)
}

// HandleUpdateMileage handles PATCH /registry/vehicles/{tokenID}/mileage.
func (h *Handler) HandleUpdateMileage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}
	id, ok := h.tokenID(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[MileageRequest](w, r, h.logger, ctx, middleware.GetRequestID(ctx))
	if !ok {
		return
	}

	details, err := h.service.UpdateMileage(ctx, caller, id, req.Mileage)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, details)
}

// HandleUpdateTokenURI handles PATCH /registry/vehicles/{tokenID}/uri.
func (h *Handler) HandleUpdateTokenURI(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}
	id, ok := h.tokenID(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[TokenURIRequest](w, r, h.logger, ctx, middleware.GetRequestID(ctx))
	if !ok {
		return
	}

	details, err := h.service.UpdateTokenURI(ctx, caller, id, req.TokenURI)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, details)
}

// HandleTransfer handles POST /registry/vehicles/{tokenID}/transfer.
func (h *Handler) HandleTransfer(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}
	id, ok := h.tokenID(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[TransferRequest](w, r, h.logger, ctx, middleware.GetRequestID(ctx))
	if !ok {
		return
	}
	from, to, err := req.Parse()
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if err := h.service.Transfer(ctx, caller, from, to, id); err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, OwnerResponse{TokenID: id, Owner: to.String()})
}

// HandleApprove handles POST /registry/vehicles/{tokenID}/approve.
func (h *Handler) HandleApprove(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}
	id, ok := h.tokenID(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[ApproveRequest](w, r, h.logger, ctx, middleware.GetRequestID(ctx))
	if !ok {
		return
	}
	operator, err := domain.ParseAddress(req.Operator)
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "invalid operator address: "+req.Operator))
		return
	}

	if err := h.service.Approve(ctx, caller, id, operator); err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, ApprovedResponse{TokenID: id, Approved: operator.String()})
}

// HandleApproved handles GET /registry/vehicles/{tokenID}/approved.
func (h *Handler) HandleApproved(w http.ResponseWriter, r *http.Request) {
	id, ok := h.tokenID(w, r)
	if !ok {
		return
	}
	approved, err := h.service.Approved(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, ApprovedResponse{TokenID: id, Approved: approved.String()})
}

// HandleOwnerOf handles GET /registry/vehicles/{tokenID}/owner.
func (h *Handler) HandleOwnerOf(w http.ResponseWriter, r *http.Request) {
	id, ok := h.tokenID(w, r)
	if !ok {
		return
	}
	owner, err := h.service.OwnerOf(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, OwnerResponse{TokenID: id, Owner: owner.String()})
}

// HandleOwnerPortfolio handles GET /registry/owners/{address}.
func (h *Handler) HandleOwnerPortfolio(w http.ResponseWriter, r *http.Request) {
	addr, ok := h.address(w, r)
	if !ok {
		return
	}
	portfolio, err := h.service.OwnerPortfolio(r.Context(), addr)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, portfolio)
}

// HandleTokenOfOwnerByIndex handles GET /registry/owners/{address}/tokens/{index}.
func (h *Handler) HandleTokenOfOwnerByIndex(w http.ResponseWriter, r *http.Request) {
	addr, ok := h.address(w, r)
	if !ok {
		return
	}
	rawIndex := chi.URLParam(r, "index")
	index, err := strconv.Atoi(rawIndex)
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "invalid index: "+rawIndex))
		return
	}

	id, err := h.service.TokenOfOwnerByIndex(r.Context(), addr, index)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, TokenByIndexResponse{Owner: addr.String(), Index: index, TokenID: id})
}

// HandleFindByVIN handles GET /registry/vehicles/vin/{vin}.
func (h *Handler) HandleFindByVIN(w http.ResponseWriter, r *http.Request) {
	vin := chi.URLParam(r, "vin")
	if vin == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "missing vin"))
		return
	}
	matches, err := h.service.FindByVIN(r.Context(), vin)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, VINSearchResponse{VIN: vin, Matches: matches})
}

// HandleEvents handles GET /registry/events. The optional limit query bounds
// the page size, default 50.
func (h *Handler) HandleEvents(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			httputil.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "invalid limit: "+raw))
			return
		}
		limit = parsed
	}

	listed, err := h.service.RecentEvents(r.Context(), limit)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if listed == nil {
		listed = []events.Event{}
	}
	httputil.WriteJSON(w, http.StatusOK, EventsResponse{Events: listed})
}
