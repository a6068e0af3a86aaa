package handler

import (
	"net/http"
	"strings"
	"time"

	"church-admin-go/internal/domain/congregation"
	"github.com/go-chi/chi/v5"
)

type familyRequest struct {
	Address  string `json:"address" validate:"required"`
	Village  string `json:"village" validate:"required"`
	District string `json:"district" validate:"required"`
	Status   string `json:"status"`
}

type memberRequest struct {
	Name               string  `json:"name" validate:"required"`
	DateOfBirth        string  `json:"dateOfBirth" validate:"required"`
	Gender             string  `json:"gender" validate:"required"`
	Phone              *string `json:"phone" validate:"omitempty,len=10,numeric"`
	Email              *string `json:"email" validate:"omitempty,email"`
	Status             string  `json:"status"`
	JoinDate           string  `json:"joinDate"`
	Baptized           string  `json:"baptized"`
	BaptizedDate       string  `json:"baptizedDate"`
	MaritalStatus      string  `json:"maritalStatus"`
	WeddingDate        string  `json:"weddingDate"`
	Occupation         string  `json:"occupation"`
	EducationLevel     *string `json:"educationLevel"`
	RelationshipToHead string  `json:"relationshipToHead"`
	CustomRelationship *string `json:"customRelationship"`
	SpouseID           *string `json:"spouseId"`
	SpouseName         *string `json:"spouseName"`
}

type createFamilyRequest struct {
	Family familyRequest `json:"family" validate:"required"`
	Head   memberRequest `json:"head" validate:"required"`
}

type updateFamilyRequest struct {
	Address  *string `json:"address"`
	Village  *string `json:"village"`
	District *string `json:"district"`
	Status   *string `json:"status"`
}

type assignHeadRequest struct {
	NewHeadID string `json:"newHeadId" validate:"required"`
}

func (h *Handlers) CreateFamily(w http.ResponseWriter, r *http.Request) {
	var req createFamilyRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	if message, ok := h.validateRequest(req); !ok {
		writeError(w, http.StatusBadRequest, "validation_error", message)
		return
	}

	headAttrs, err := toMemberAttrs(req.Head)
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	family, head, err := h.Congregation.CreateFamilyWithHead(r.Context(), congregation.FamilyAttrs{
		Address:  req.Family.Address,
		Village:  req.Family.Village,
		District: req.Family.District,
		Status:   req.Family.Status,
	}, headAttrs)
	if err != nil {
		h.respondDomainError(w, "families.create", err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"family": toFamilyResponse(family),
		"head":   toBelieverResponse(head),
	})
}

func (h *Handlers) ListFamilies(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	page, err := parseIntParam(query.Get("page"), 1)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid page")
		return
	}
	limit, err := parseIntParam(query.Get("limit"), 20)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid limit")
		return
	}

	filter := congregation.FamilyFilter{
		Search:   strings.TrimSpace(query.Get("search")),
		Status:   strings.TrimSpace(query.Get("status")),
		District: strings.TrimSpace(query.Get("district")),
		Page:     page,
		Limit:    limit,
	}

	families, total, err := h.Congregation.ListFamilies(r.Context(), filter)
	if err != nil {
		h.respondDomainError(w, "families.list", err)
		return
	}

	data := make([]familyResponse, 0, len(families))
	for i := range families {
		data = append(data, toFamilyResponse(&families[i]))
	}

	writeJSON(w, http.StatusOK, listEnvelope[familyResponse]{
		Data:       data,
		Pagination: newPagination(page, limit, total),
	})
}

func (h *Handlers) GetFamily(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	result, err := h.Congregation.GetFamily(r.Context(), id)
	if err != nil {
		h.respondDomainError(w, "families.get", err, "family_id", id)
		return
	}

	members := make([]believerResponse, 0, len(result.Members))
	for i := range result.Members {
		members = append(members, toBelieverResponse(&result.Members[i]))
	}

	response := map[string]any{
		"family":  toFamilyResponse(&result.Family),
		"members": members,
	}
	if result.Head != nil {
		response["head"] = toBelieverResponse(result.Head)
	}

	writeJSON(w, http.StatusOK, response)
}

func (h *Handlers) UpdateFamily(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req updateFamilyRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	family, err := h.Congregation.UpdateFamily(r.Context(), id, congregation.UpdateFamilyInput{
		Address:  req.Address,
		Village:  req.Village,
		District: req.District,
		Status:   req.Status,
	})
	if err != nil {
		h.respondDomainError(w, "families.update", err, "family_id", id)
		return
	}

	writeJSON(w, http.StatusOK, toFamilyResponse(family))
}

func (h *Handlers) DeleteFamily(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.Congregation.DeleteFamily(r.Context(), id); err != nil {
		h.respondDomainError(w, "families.delete", err, "family_id", id)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "family moved to trash"})
}

func (h *Handlers) RestoreFamily(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	family, err := h.Congregation.RestoreFamily(r.Context(), id)
	if err != nil {
		h.respondDomainError(w, "families.restore", err, "family_id", id)
		return
	}

	writeJSON(w, http.StatusOK, toFamilyResponse(family))
}

func (h *Handlers) PermanentlyDeleteFamily(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.Congregation.PermanentlyDeleteFamily(r.Context(), id); err != nil {
		h.respondDomainError(w, "families.delete_permanent", err, "family_id", id)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "family permanently deleted"})
}

func (h *Handlers) ListFamilyTrash(w http.ResponseWriter, r *http.Request) {
	families, err := h.Congregation.ListTrashedFamilies(r.Context())
	if err != nil {
		h.respondDomainError(w, "families.trash", err)
		return
	}

	data := make([]familyResponse, 0, len(families))
	for i := range families {
		data = append(data, toFamilyResponse(&families[i]))
	}
	writeJSON(w, http.StatusOK, data)
}

func (h *Handlers) AddMember(w http.ResponseWriter, r *http.Request) {
	familyID := chi.URLParam(r, "id")

	var req memberRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	if message, ok := h.validateRequest(req); !ok {
		writeError(w, http.StatusBadRequest, "validation_error", message)
		return
	}

	attrs, err := toMemberAttrs(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	member, err := h.Congregation.AddMember(r.Context(), familyID, attrs)
	if err != nil {
		h.respondDomainError(w, "families.add_member", err, "family_id", familyID)
		return
	}

	writeJSON(w, http.StatusCreated, toBelieverResponse(member))
}

func (h *Handlers) AssignHead(w http.ResponseWriter, r *http.Request) {
	familyID := chi.URLParam(r, "id")

	var req assignHeadRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	if message, ok := h.validateRequest(req); !ok {
		writeError(w, http.StatusBadRequest, "validation_error", message)
		return
	}

	head, err := h.Congregation.AssignNewHead(r.Context(), familyID, req.NewHeadID)
	if err != nil {
		h.respondDomainError(w, "families.assign_head", err, "family_id", familyID, "new_head_id", req.NewHeadID)
		return
	}

	writeJSON(w, http.StatusOK, toBelieverResponse(head))
}

func toMemberAttrs(req memberRequest) (congregation.MemberAttrs, error) {
	dob, err := parseDateRequired(req.DateOfBirth)
	if err != nil {
		return congregation.MemberAttrs{}, &congregation.ValidationError{Field: "dateOfBirth", Reason: "must be a YYYY-MM-DD date"}
	}
	joinDate, err := parseDateParam(req.JoinDate)
	if err != nil {
		return congregation.MemberAttrs{}, &congregation.ValidationError{Field: "joinDate", Reason: "must be a YYYY-MM-DD date"}
	}
	baptizedDate, err := parseDateParam(req.BaptizedDate)
	if err != nil {
		return congregation.MemberAttrs{}, &congregation.ValidationError{Field: "baptizedDate", Reason: "must be a YYYY-MM-DD date"}
	}
	weddingDate, err := parseDateParam(req.WeddingDate)
	if err != nil {
		return congregation.MemberAttrs{}, &congregation.ValidationError{Field: "weddingDate", Reason: "must be a YYYY-MM-DD date"}
	}

	return congregation.MemberAttrs{
		Name:               req.Name,
		DateOfBirth:        dob,
		Gender:             req.Gender,
		Phone:              req.Phone,
		Email:              req.Email,
		Status:             req.Status,
		JoinDate:           joinDate,
		Baptized:           req.Baptized,
		BaptizedDate:       baptizedDate,
		MaritalStatus:      req.MaritalStatus,
		WeddingDate:        weddingDate,
		Occupation:         req.Occupation,
		EducationLevel:     req.EducationLevel,
		RelationshipToHead: req.RelationshipToHead,
		CustomRelationship: req.CustomRelationship,
		SpouseID:           req.SpouseID,
		SpouseName:         req.SpouseName,
	}, nil
}

type familyResponse struct {
	ID        string     `json:"id"`
	Code      *string    `json:"code"`
	Address   string     `json:"address"`
	Village   string     `json:"village"`
	District  string     `json:"district"`
	Status    string     `json:"status"`
	HeadID    *string    `json:"headId"`
	IsDeleted bool       `json:"isDeleted"`
	DeletedAt *time.Time `json:"deletedAt,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

func toFamilyResponse(family *congregation.Family) familyResponse {
	return familyResponse{
		ID:        family.ID,
		Code:      family.Code,
		Address:   family.Address,
		Village:   family.Village,
		District:  family.District,
		Status:    family.Status,
		HeadID:    family.HeadID,
		IsDeleted: family.IsDeleted,
		DeletedAt: family.DeletedAt,
		CreatedAt: family.CreatedAt,
		UpdatedAt: family.UpdatedAt,
	}
}

type listEnvelope[T any] struct {
	Data       []T        `json:"data"`
	Pagination pagination `json:"pagination"`
}

type pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"totalPages"`
}

func newPagination(page, limit int, total int64) pagination {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	totalPages := total / int64(limit)
	if total%int64(limit) != 0 {
		totalPages++
	}
	return pagination{Page: page, Limit: limit, Total: total, TotalPages: totalPages}
}
