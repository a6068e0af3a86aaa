package congregation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"church-admin-go/internal/domain/agecalc"
	"github.com/google/uuid"
)

const (
	defaultPage  = 1
	defaultLimit = 20
	maxLimit     = 100
)

// Service enforces the family/believer relationship integrity rules: head
// assignment, spouse cross-linking, locked fields and the soft-delete
// lifecycle.
type Service struct {
	repo     Repository
	cache    StatsCache
	statsTTL time.Duration
	loc      *time.Location
	now      func() time.Time
}

func NewService(repo Repository, loc *time.Location) *Service {
	return NewServiceWithCache(repo, noopStatsCache{}, 0, loc)
}

func NewServiceWithCache(repo Repository, cache StatsCache, statsTTL time.Duration, loc *time.Location) *Service {
	if loc == nil {
		loc = time.UTC
	}
	if cache == nil {
		cache = noopStatsCache{}
	}
	return &Service{
		repo:     repo,
		cache:    cache,
		statsTTL: statsTTL,
		loc:      loc,
		now:      time.Now,
	}
}

func formatFamilyCode(n int64) string {
	return fmt.Sprintf("FAM-%04d", n)
}

// CreateFamilyWithHead inserts the family and its head believer in one
// transaction; on any failure neither survives. The family code is derived
// from the count of currently active families as a pre-save step.
func (s *Service) CreateFamilyWithHead(ctx context.Context, familyAttrs FamilyAttrs, headAttrs MemberAttrs) (*Family, *Believer, error) {
	familyAttrs, err := s.validateFamilyAttrs(familyAttrs)
	if err != nil {
		return nil, nil, err
	}

	headAttrs.RelationshipToHead = RelationSelf
	head, err := s.buildBeliever(headAttrs, "", true)
	if err != nil {
		return nil, nil, err
	}

	family := Family{
		ID:       uuid.NewString(),
		Address:  familyAttrs.Address,
		Village:  familyAttrs.Village,
		District: familyAttrs.District,
		Status:   familyAttrs.Status,
	}

	err = s.repo.Transaction(ctx, func(tx Repository) error {
		count, err := tx.CountActiveFamilies(ctx)
		if err != nil {
			return err
		}
		code := formatFamilyCode(count + 1)
		family.Code = &code

		if err := tx.CreateFamily(ctx, &family); err != nil {
			return err
		}

		head.FamilyID = family.ID
		if err := tx.CreateBeliever(ctx, head); err != nil {
			return err
		}

		family.HeadID = &head.ID
		return tx.UpdateFamily(ctx, &family)
	})
	if err != nil {
		return nil, nil, err
	}

	s.cache.Invalidate()
	return &family, head, nil
}

func (s *Service) GetFamily(ctx context.Context, id string) (*FamilyWithMembers, error) {
	family, err := s.repo.GetFamily(ctx, id)
	if err != nil {
		return nil, err
	}

	members, err := s.repo.ListBelieversByFamily(ctx, id)
	if err != nil {
		return nil, err
	}

	result := FamilyWithMembers{Family: *family, Members: members}
	for i := range members {
		if members[i].IsHead {
			result.Head = &members[i]
			break
		}
	}
	return &result, nil
}

func (s *Service) ListFamilies(ctx context.Context, filter FamilyFilter) ([]Family, int64, error) {
	filter.Page, filter.Limit = normalizePage(filter.Page, filter.Limit)
	if filter.Status != "" && !ValidStatus(filter.Status) {
		return nil, 0, invalidField("status", "must be Active or Inactive")
	}
	if filter.District != "" && !ValidDistrict(filter.District) {
		return nil, 0, invalidField("district", "unknown district")
	}
	return s.repo.ListFamilies(ctx, filter)
}

func (s *Service) ListTrashedFamilies(ctx context.Context) ([]Family, error) {
	return s.repo.ListTrashedFamilies(ctx)
}

func (s *Service) UpdateFamily(ctx context.Context, id string, input UpdateFamilyInput) (*Family, error) {
	family, err := s.repo.GetFamily(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Address != nil {
		address := strings.TrimSpace(*input.Address)
		if address == "" {
			return nil, requiredField("address")
		}
		family.Address = address
	}
	if input.Village != nil {
		village := strings.TrimSpace(*input.Village)
		if village == "" {
			return nil, requiredField("village")
		}
		family.Village = village
	}
	if input.District != nil {
		if !ValidDistrict(*input.District) {
			return nil, invalidField("district", "unknown district")
		}
		family.District = *input.District
	}
	if input.Status != nil {
		if !ValidStatus(*input.Status) {
			return nil, invalidField("status", "must be Active or Inactive")
		}
		family.Status = *input.Status
	}

	if err := s.repo.UpdateFamily(ctx, family); err != nil {
		return nil, err
	}
	return family, nil
}

// DeleteFamily soft-deletes the family, releases its code and cascades the
// soft delete to every active member with the exact same timestamp, so a
// later restore can tell this cascade apart from earlier deletions.
func (s *Service) DeleteFamily(ctx context.Context, id string) error {
	family, err := s.repo.GetFamily(ctx, id)
	if err != nil {
		return err
	}

	deletedAt := s.now().UTC()
	family.IsDeleted = true
	family.DeletedAt = &deletedAt
	family.Code = nil

	if err := s.repo.UpdateFamily(ctx, family); err != nil {
		return err
	}
	if _, err := s.repo.SoftDeleteBelieversByFamily(ctx, id, deletedAt); err != nil {
		return err
	}

	s.cache.Invalidate()
	return nil
}

// RestoreFamily brings a trashed family back with a freshly assigned code
// and restores every trashed member of the family, including members that
// were trashed before the family itself (documented simplification).
func (s *Service) RestoreFamily(ctx context.Context, id string) (*Family, error) {
	family, err := s.repo.GetFamilyAny(ctx, id)
	if err != nil {
		return nil, err
	}
	if !family.IsDeleted {
		return nil, ErrFamilyNotTrashed
	}

	count, err := s.repo.CountActiveFamilies(ctx)
	if err != nil {
		return nil, err
	}
	code := formatFamilyCode(count + 1)

	family.IsDeleted = false
	family.DeletedAt = nil
	family.Code = &code

	if err := s.repo.UpdateFamily(ctx, family); err != nil {
		return nil, err
	}
	if _, err := s.repo.RestoreBelieversByFamily(ctx, id); err != nil {
		return nil, err
	}

	s.cache.Invalidate()
	return family, nil
}

func (s *Service) PermanentlyDeleteFamily(ctx context.Context, id string) error {
	family, err := s.repo.GetFamilyAny(ctx, id)
	if err != nil {
		return err
	}
	if !family.IsDeleted {
		return ErrFamilyNotTrashed
	}

	if err := s.repo.DeleteBelieversByFamilyPermanently(ctx, id); err != nil {
		return err
	}
	if err := s.repo.DeleteFamilyPermanently(ctx, id); err != nil {
		return err
	}

	s.cache.Invalidate()
	return nil
}

// AssignNewHead promotes a member of the family to head and demotes the
// previous one. The demoted head keeps its current relationship label; only
// the promoted side is forced to Self.
func (s *Service) AssignNewHead(ctx context.Context, familyID, newHeadID string) (*Believer, error) {
	family, err := s.repo.GetFamily(ctx, familyID)
	if err != nil {
		return nil, err
	}

	target, err := s.repo.GetBeliever(ctx, newHeadID)
	if err != nil {
		return nil, err
	}
	if target.FamilyID != family.ID {
		return nil, invalidField("newHeadId", "believer does not belong to this family")
	}
	if target.IsHead {
		return target, nil
	}

	prev, err := s.repo.GetFamilyHead(ctx, familyID)
	if err != nil {
		return nil, err
	}
	if prev != nil {
		prev.IsHead = false
		if err := s.repo.UpdateBeliever(ctx, prev); err != nil {
			return nil, err
		}
	}

	target.IsHead = true
	target.RelationshipToHead = RelationSelf
	if err := s.repo.UpdateBeliever(ctx, target); err != nil {
		return nil, err
	}

	family.HeadID = &target.ID
	if err := s.repo.UpdateFamily(ctx, family); err != nil {
		return nil, err
	}

	return target, nil
}

func (s *Service) validateFamilyAttrs(attrs FamilyAttrs) (FamilyAttrs, error) {
	attrs.Address = strings.TrimSpace(attrs.Address)
	attrs.Village = strings.TrimSpace(attrs.Village)

	if attrs.Address == "" {
		return attrs, requiredField("address")
	}
	if attrs.Village == "" {
		return attrs, requiredField("village")
	}
	if attrs.District == "" {
		return attrs, requiredField("district")
	}
	if !ValidDistrict(attrs.District) {
		return attrs, invalidField("district", "unknown district")
	}
	if attrs.Status == "" {
		attrs.Status = StatusActive
	} else if !ValidStatus(attrs.Status) {
		return attrs, invalidField("status", "must be Active or Inactive")
	}
	return attrs, nil
}

// buildBeliever validates the raw attributes and applies the age-derived
// rules (minor guard, occupation default, member-type classification). It
// does not resolve spouse linkage; AddMember owns that.
func (s *Service) buildBeliever(attrs MemberAttrs, familyID string, isHead bool) (*Believer, error) {
	attrs.Name = strings.TrimSpace(attrs.Name)
	if attrs.Name == "" {
		return nil, requiredField("name")
	}
	if attrs.DateOfBirth.IsZero() {
		return nil, requiredField("dateOfBirth")
	}
	if attrs.Gender == "" {
		return nil, requiredField("gender")
	}
	if !ValidGender(attrs.Gender) {
		return nil, invalidField("gender", "must be Male or Female")
	}
	if attrs.Phone != nil {
		if err := validatePhone(*attrs.Phone); err != nil {
			return nil, err
		}
	}
	if attrs.Baptized == "" {
		attrs.Baptized = BaptizedNo
	} else if !ValidBaptized(attrs.Baptized) {
		return nil, invalidField("baptized", "must be Yes or No")
	}
	if !ValidRelationship(attrs.RelationshipToHead) {
		return nil, invalidField("relationshipToHead", "unknown relationship")
	}
	if attrs.RelationshipToHead == RelationOther {
		if attrs.CustomRelationship == nil || strings.TrimSpace(*attrs.CustomRelationship) == "" {
			return nil, requiredField("customRelationship")
		}
	} else {
		attrs.CustomRelationship = nil
	}
	if attrs.Occupation != "" && !ValidOccupation(attrs.Occupation) {
		return nil, invalidField("occupation", "unknown occupation")
	}

	now := s.now()
	age := agecalc.Age(attrs.DateOfBirth, now, s.loc)

	spouseRelation := attrs.RelationshipToHead == RelationWife || attrs.RelationshipToHead == RelationHusband
	if spouseRelation && age < adultAge {
		return nil, invalidField("relationshipToHead", "a minor cannot be registered as spouse")
	}

	switch {
	case spouseRelation:
		attrs.MaritalStatus = MaritalMarried
	case age < adultAge:
		// Minors are always Single with no spouse or wedding fields,
		// regardless of what the caller sent.
		attrs.MaritalStatus = MaritalSingle
		attrs.WeddingDate = nil
		attrs.SpouseID = nil
		attrs.SpouseName = nil
	default:
		if attrs.MaritalStatus == "" {
			return nil, requiredField("maritalStatus")
		}
		if !ValidMaritalStatus(attrs.MaritalStatus) {
			return nil, invalidField("maritalStatus", "must be Single, Married or Widowed")
		}
	}

	if attrs.Baptized == BaptizedNo {
		attrs.BaptizedDate = nil
	}

	occupation := ResolveOccupation(age, attrs.Occupation)
	if occupation != OccupationStudent {
		attrs.EducationLevel = nil
	}

	if attrs.Status == "" {
		attrs.Status = StatusActive
	} else if !ValidStatus(attrs.Status) {
		return nil, invalidField("status", "must be Active or Inactive")
	}

	joinDate := now.In(s.loc)
	if attrs.JoinDate != nil {
		joinDate = *attrs.JoinDate
	}
	joinDate = truncateToDay(joinDate)

	return &Believer{
		ID:                 uuid.NewString(),
		FamilyID:           familyID,
		Name:               attrs.Name,
		DateOfBirth:        truncateToDay(attrs.DateOfBirth),
		Gender:             attrs.Gender,
		Phone:              attrs.Phone,
		Email:              attrs.Email,
		MemberType:         ClassifyMemberType(age, attrs.MaritalStatus),
		Status:             attrs.Status,
		JoinDate:           joinDate,
		Baptized:           attrs.Baptized,
		BaptizedDate:       attrs.BaptizedDate,
		MaritalStatus:      attrs.MaritalStatus,
		WeddingDate:        attrs.WeddingDate,
		Occupation:         occupation,
		EducationLevel:     attrs.EducationLevel,
		RelationshipToHead: attrs.RelationshipToHead,
		CustomRelationship: attrs.CustomRelationship,
		IsHead:             isHead,
		SpouseID:           attrs.SpouseID,
		SpouseName:         attrs.SpouseName,
	}, nil
}

func validatePhone(phone string) error {
	if len(phone) != 10 {
		return invalidField("phone", "must be a 10-digit number")
	}
	for _, r := range phone {
		if r < '0' || r > '9' {
			return invalidField("phone", "must be a 10-digit number")
		}
	}
	return nil
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = defaultPage
	}
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return page, limit
}
