package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"church-admin-go/internal/domain/congregation"
	"github.com/go-chi/chi/v5"
)

func (h *Handlers) ListBelievers(w http.ResponseWriter, r *http.Request) {
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

	filter := congregation.BelieverFilter{
		Search:     strings.TrimSpace(query.Get("search")),
		FamilyID:   strings.TrimSpace(query.Get("familyId")),
		MemberType: strings.TrimSpace(query.Get("memberType")),
		Status:     strings.TrimSpace(query.Get("status")),
		Gender:     strings.TrimSpace(query.Get("gender")),
		Baptized:   strings.TrimSpace(query.Get("baptized")),
		SortBy:     strings.TrimSpace(query.Get("sortBy")),
		SortDir:    strings.TrimSpace(query.Get("sortDir")),
		Page:       page,
		Limit:      limit,
	}

	believers, total, err := h.Congregation.ListBelievers(r.Context(), filter)
	if err != nil {
		h.respondDomainError(w, "believers.list", err)
		return
	}

	data := make([]believerResponse, 0, len(believers))
	for i := range believers {
		data = append(data, toBelieverResponse(&believers[i]))
	}

	writeJSON(w, http.StatusOK, listEnvelope[believerResponse]{
		Data:       data,
		Pagination: newPagination(page, limit, total),
	})
}

func (h *Handlers) GetBeliever(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	believer, err := h.Congregation.GetBeliever(r.Context(), id)
	if err != nil {
		h.respondDomainError(w, "believers.get", err, "believer_id", id)
		return
	}

	writeJSON(w, http.StatusOK, toBelieverResponse(believer))
}

func (h *Handlers) UpdateBeliever(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	input, err := decodeUpdateBeliever(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	believer, err := h.Congregation.UpdateBeliever(r.Context(), id, input)
	if err != nil {
		h.respondDomainError(w, "believers.update", err, "believer_id", id)
		return
	}

	writeJSON(w, http.StatusOK, toBelieverResponse(believer))
}

func (h *Handlers) DeleteBeliever(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.Congregation.DeleteBeliever(r.Context(), id); err != nil {
		h.respondDomainError(w, "believers.delete", err, "believer_id", id)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "believer moved to trash"})
}

func (h *Handlers) RestoreBeliever(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	believer, err := h.Congregation.RestoreBeliever(r.Context(), id)
	if err != nil {
		h.respondDomainError(w, "believers.restore", err, "believer_id", id)
		return
	}

	writeJSON(w, http.StatusOK, toBelieverResponse(believer))
}

func (h *Handlers) PermanentlyDeleteBeliever(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.Congregation.PermanentlyDeleteBeliever(r.Context(), id); err != nil {
		h.respondDomainError(w, "believers.delete_permanent", err, "believer_id", id)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "believer permanently deleted"})
}

func (h *Handlers) ListBelieverTrash(w http.ResponseWriter, r *http.Request) {
	believers, err := h.Congregation.ListTrashedBelievers(r.Context())
	if err != nil {
		h.respondDomainError(w, "believers.trash", err)
		return
	}

	data := make([]believerResponse, 0, len(believers))
	for i := range believers {
		data = append(data, toBelieverResponse(&believers[i]))
	}
	writeJSON(w, http.StatusOK, data)
}

func (h *Handlers) EmptyBelieverTrash(w http.ResponseWriter, r *http.Request) {
	count, err := h.Congregation.EmptyBelieverTrash(r.Context())
	if err != nil {
		h.respondDomainError(w, "believers.empty_trash", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]int64{"deleted": count})
}

// decodeUpdateBeliever decodes the patch body key by key so that "field
// absent", "field null" and "field set" stay distinguishable downstream.
func decodeUpdateBeliever(r *http.Request) (congregation.UpdateBelieverInput, error) {
	var input congregation.UpdateBelieverInput

	var raw map[string]json.RawMessage
	if err := decodeJSON(r, &raw); err != nil {
		return input, errInvalidBody
	}

	for key, value := range raw {
		switch key {
		case "name":
			if err := unmarshalPtr(value, &input.Name); err != nil {
				return input, errInvalidBody
			}
		case "dateOfBirth":
			date, _, err := unmarshalDate(value)
			if err != nil {
				return input, errInvalidBody
			}
			input.DateOfBirth = date
		case "gender":
			if err := unmarshalPtr(value, &input.Gender); err != nil {
				return input, errInvalidBody
			}
		case "phone":
			opt, err := unmarshalOptionalString(value)
			if err != nil {
				return input, errInvalidBody
			}
			input.Phone = opt
		case "email":
			opt, err := unmarshalOptionalString(value)
			if err != nil {
				return input, errInvalidBody
			}
			input.Email = opt
		case "status":
			if err := unmarshalPtr(value, &input.Status); err != nil {
				return input, errInvalidBody
			}
		case "joinDate":
			date, _, err := unmarshalDate(value)
			if err != nil {
				return input, errInvalidBody
			}
			input.JoinDate = date
		case "baptized":
			if err := unmarshalPtr(value, &input.Baptized); err != nil {
				return input, errInvalidBody
			}
		case "baptizedDate":
			opt, err := unmarshalOptionalDate(value)
			if err != nil {
				return input, errInvalidBody
			}
			input.BaptizedDate = opt
		case "maritalStatus":
			if err := unmarshalPtr(value, &input.MaritalStatus); err != nil {
				return input, errInvalidBody
			}
		case "weddingDate":
			opt, err := unmarshalOptionalDate(value)
			if err != nil {
				return input, errInvalidBody
			}
			input.WeddingDate = opt
		case "occupation":
			if err := unmarshalPtr(value, &input.Occupation); err != nil {
				return input, errInvalidBody
			}
		case "educationLevel":
			opt, err := unmarshalOptionalString(value)
			if err != nil {
				return input, errInvalidBody
			}
			input.EducationLevel = opt
		case "spouseId":
			opt, err := unmarshalOptionalString(value)
			if err != nil {
				return input, errInvalidBody
			}
			input.SpouseID = opt
		case "spouseName":
			opt, err := unmarshalOptionalString(value)
			if err != nil {
				return input, errInvalidBody
			}
			input.SpouseName = opt
		case "customRelationship":
			opt, err := unmarshalOptionalString(value)
			if err != nil {
				return input, errInvalidBody
			}
			input.CustomRelationship = opt
		case "familyId":
			if err := unmarshalPtr(value, &input.FamilyID); err != nil {
				return input, errInvalidBody
			}
			if input.FamilyID == nil {
				input.FamilyID = new(string)
			}
		case "isHead":
			if err := unmarshalPtr(value, &input.IsHead); err != nil {
				return input, errInvalidBody
			}
			if input.IsHead == nil {
				input.IsHead = new(bool)
			}
		case "relationshipToHead":
			if err := unmarshalPtr(value, &input.RelationshipToHead); err != nil {
				return input, errInvalidBody
			}
			if input.RelationshipToHead == nil {
				input.RelationshipToHead = new(string)
			}
		}
	}

	return input, nil
}

var errInvalidBody = &invalidBodyError{}

type invalidBodyError struct{}

func (*invalidBodyError) Error() string { return "invalid json body" }

func unmarshalPtr[T any](raw json.RawMessage, dst **T) error {
	if isJSONNull(raw) {
		*dst = nil
		return nil
	}
	var value T
	if err := json.Unmarshal(raw, &value); err != nil {
		return err
	}
	*dst = &value
	return nil
}

func unmarshalOptionalString(raw json.RawMessage) (congregation.OptionalString, error) {
	if isJSONNull(raw) {
		return congregation.OptionalString{Set: true}, nil
	}
	var value string
	if err := json.Unmarshal(raw, &value); err != nil {
		return congregation.OptionalString{}, err
	}
	return congregation.OptionalString{Set: true, Value: &value}, nil
}

// unmarshalOptionalDate treats null as an explicit clear and an empty string
// as "leave the field alone".
func unmarshalOptionalDate(raw json.RawMessage) (congregation.OptionalDate, error) {
	if isJSONNull(raw) {
		return congregation.OptionalDate{Set: true}, nil
	}
	var value string
	if err := json.Unmarshal(raw, &value); err != nil {
		return congregation.OptionalDate{}, err
	}
	if strings.TrimSpace(value) == "" {
		return congregation.OptionalDate{}, nil
	}
	parsed, err := time.Parse(dateLayout, value)
	if err != nil {
		return congregation.OptionalDate{}, err
	}
	return congregation.OptionalDate{Set: true, Value: &parsed}, nil
}

func unmarshalDate(raw json.RawMessage) (*time.Time, bool, error) {
	if isJSONNull(raw) {
		return nil, true, nil
	}
	var value string
	if err := json.Unmarshal(raw, &value); err != nil {
		return nil, false, err
	}
	if strings.TrimSpace(value) == "" {
		return nil, false, nil
	}
	parsed, err := time.Parse(dateLayout, value)
	if err != nil {
		return nil, false, err
	}
	return &parsed, true, nil
}

func isJSONNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

type believerResponse struct {
	ID                 string     `json:"id"`
	FamilyID           string     `json:"familyId"`
	Name               string     `json:"name"`
	DateOfBirth        time.Time  `json:"dateOfBirth"`
	Gender             string     `json:"gender"`
	Phone              *string    `json:"phone,omitempty"`
	Email              *string    `json:"email,omitempty"`
	MemberType         string     `json:"memberType"`
	Status             string     `json:"status"`
	JoinDate           time.Time  `json:"joinDate"`
	Baptized           string     `json:"baptized"`
	BaptizedDate       *time.Time `json:"baptizedDate,omitempty"`
	MaritalStatus      string     `json:"maritalStatus"`
	WeddingDate        *time.Time `json:"weddingDate,omitempty"`
	Occupation         string     `json:"occupation"`
	EducationLevel     *string    `json:"educationLevel,omitempty"`
	RelationshipToHead string     `json:"relationshipToHead"`
	CustomRelationship *string    `json:"customRelationship,omitempty"`
	IsHead             bool       `json:"isHead"`
	SpouseID           *string    `json:"spouseId,omitempty"`
	SpouseName         *string    `json:"spouseName,omitempty"`
	IsDeleted          bool       `json:"isDeleted"`
	DeletedAt          *time.Time `json:"deletedAt,omitempty"`
	CreatedAt          time.Time  `json:"createdAt"`
	UpdatedAt          time.Time  `json:"updatedAt"`
}

func toBelieverResponse(believer *congregation.Believer) believerResponse {
	return believerResponse{
		ID:                 believer.ID,
		FamilyID:           believer.FamilyID,
		Name:               believer.Name,
		DateOfBirth:        believer.DateOfBirth,
		Gender:             believer.Gender,
		Phone:              believer.Phone,
		Email:              believer.Email,
		MemberType:         believer.MemberType,
		Status:             believer.Status,
		JoinDate:           believer.JoinDate,
		Baptized:           believer.Baptized,
		BaptizedDate:       believer.BaptizedDate,
		MaritalStatus:      believer.MaritalStatus,
		WeddingDate:        believer.WeddingDate,
		Occupation:         believer.Occupation,
		EducationLevel:     believer.EducationLevel,
		RelationshipToHead: believer.RelationshipToHead,
		CustomRelationship: believer.CustomRelationship,
		IsHead:             believer.IsHead,
		SpouseID:           believer.SpouseID,
		SpouseName:         believer.SpouseName,
		IsDeleted:          believer.IsDeleted,
		DeletedAt:          believer.DeletedAt,
		CreatedAt:          believer.CreatedAt,
		UpdatedAt:          believer.UpdatedAt,
	}
}
