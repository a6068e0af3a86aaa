package congregation

import (
	"context"
	"strings"

	"church-admin-go/internal/domain/agecalc"
)

// AddMember inserts a believer into an existing family. Wife/Husband
// relationships are cross-linked with the head: at most one spouse per head
// is ever permitted, and a successful link stamps both sides' spouseId,
// spouseName and the head's marital status.
func (s *Service) AddMember(ctx context.Context, familyID string, attrs MemberAttrs) (*Believer, error) {
	family, err := s.repo.GetFamily(ctx, familyID)
	if err != nil {
		return nil, err
	}

	if attrs.RelationshipToHead == RelationSelf {
		return nil, invalidField("relationshipToHead", "Self is reserved for the family head")
	}

	member, err := s.buildBeliever(attrs, family.ID, false)
	if err != nil {
		return nil, err
	}

	spouseRelation := member.RelationshipToHead == RelationWife || member.RelationshipToHead == RelationHusband
	if spouseRelation {
		return s.addSpouseOfHead(ctx, family, member)
	}

	age := agecalc.Age(member.DateOfBirth, s.now(), s.loc)
	if age >= adultAge && member.MaritalStatus == MaritalMarried {
		if member.SpouseID == nil && (member.SpouseName == nil || strings.TrimSpace(*member.SpouseName) == "") {
			return nil, invalidField("spouseName", "married members need a linked spouse or a spouse name")
		}
	}

	// A supplied spouseId must resolve before anything is persisted; a
	// reference the store cannot look up would be a dangling link.
	var linked *Believer
	if member.SpouseID != nil {
		linked, err = s.repo.GetBeliever(ctx, *member.SpouseID)
		if err != nil {
			return nil, invalidField("spouseId", "linked believer not found")
		}
	}

	if err := s.repo.CreateBeliever(ctx, member); err != nil {
		return nil, err
	}

	// The target gets a back-reference. If it already points elsewhere it
	// is overwritten; members who marry outside the modeled tree stay
	// asymmetric.
	if linked != nil {
		linked.SpouseID = &member.ID
		linked.SpouseName = &member.Name
		if err := s.repo.UpdateBeliever(ctx, linked); err != nil {
			return nil, err
		}
	}

	s.cache.Invalidate()
	return member, nil
}

func (s *Service) addSpouseOfHead(ctx context.Context, family *Family, member *Believer) (*Believer, error) {
	head, err := s.repo.GetFamilyHead(ctx, family.ID)
	if err != nil {
		return nil, err
	}
	if head == nil {
		return nil, ErrHeadNotFound
	}

	if head.SpouseID != nil {
		name := ""
		if head.SpouseName != nil {
			name = *head.SpouseName
		} else if existing, err := s.repo.GetBeliever(ctx, *head.SpouseID); err == nil {
			name = existing.Name
		}
		return nil, &SpouseConflictError{SpouseName: name}
	}

	member.SpouseID = &head.ID
	member.SpouseName = &head.Name

	if err := s.repo.CreateBeliever(ctx, member); err != nil {
		return nil, err
	}

	head.SpouseID = &member.ID
	head.SpouseName = &member.Name
	head.MaritalStatus = MaritalMarried
	head.MemberType = ClassifyMemberType(agecalc.Age(head.DateOfBirth, s.now(), s.loc), head.MaritalStatus)
	if err := s.repo.UpdateBeliever(ctx, head); err != nil {
		return nil, err
	}

	s.cache.Invalidate()
	return member, nil
}

func (s *Service) GetBeliever(ctx context.Context, id string) (*Believer, error) {
	return s.repo.GetBeliever(ctx, id)
}

func (s *Service) ListBelievers(ctx context.Context, filter BelieverFilter) ([]Believer, int64, error) {
	filter.Page, filter.Limit = normalizePage(filter.Page, filter.Limit)
	if filter.SortBy != "" && filter.SortBy != SortByName && filter.SortBy != SortByAge {
		return nil, 0, invalidField("sortBy", "must be name or age")
	}
	if filter.SortDir != "" && filter.SortDir != SortAsc && filter.SortDir != SortDesc {
		return nil, 0, invalidField("sortDir", "must be asc or desc")
	}
	return s.repo.ListBelievers(ctx, filter)
}

func (s *Service) ListTrashedBelievers(ctx context.Context) ([]Believer, error) {
	return s.repo.ListTrashedBelievers(ctx)
}

// UpdateBeliever applies a field patch subject to the locked-field and
// age-gated rules, then synchronizes the spouse cross-reference.
func (s *Service) UpdateBeliever(ctx context.Context, id string, input UpdateBelieverInput) (*Believer, error) {
	if input.FamilyID != nil {
		return nil, invalidField("familyId", "cannot be changed")
	}
	if input.IsHead != nil {
		return nil, invalidField("isHead", "cannot be changed")
	}
	if input.RelationshipToHead != nil {
		return nil, invalidField("relationshipToHead", "cannot be changed; use assign-head")
	}

	believer, err := s.repo.GetBeliever(ctx, id)
	if err != nil {
		return nil, err
	}
	prevSpouseID := believer.SpouseID

	input = sanitizeUpdate(input)

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, requiredField("name")
		}
		believer.Name = name
	}
	if input.DateOfBirth != nil {
		believer.DateOfBirth = truncateToDay(*input.DateOfBirth)
	}
	if input.Gender != nil {
		if !ValidGender(*input.Gender) {
			return nil, invalidField("gender", "must be Male or Female")
		}
		believer.Gender = *input.Gender
	}
	if input.Phone.Set {
		if input.Phone.Value != nil {
			if err := validatePhone(*input.Phone.Value); err != nil {
				return nil, err
			}
		}
		believer.Phone = input.Phone.Value
	}
	if input.Email.Set {
		believer.Email = input.Email.Value
	}
	if input.Status != nil {
		if !ValidStatus(*input.Status) {
			return nil, invalidField("status", "must be Active or Inactive")
		}
		believer.Status = *input.Status
	}
	if input.JoinDate != nil {
		believer.JoinDate = truncateToDay(*input.JoinDate)
	}
	if input.Baptized != nil {
		if !ValidBaptized(*input.Baptized) {
			return nil, invalidField("baptized", "must be Yes or No")
		}
		believer.Baptized = *input.Baptized
	}
	if input.BaptizedDate.Set {
		believer.BaptizedDate = input.BaptizedDate.Value
	}
	if believer.Baptized == BaptizedNo {
		believer.BaptizedDate = nil
	}
	if input.MaritalStatus != nil {
		if !ValidMaritalStatus(*input.MaritalStatus) {
			return nil, invalidField("maritalStatus", "must be Single, Married or Widowed")
		}
		believer.MaritalStatus = *input.MaritalStatus
	}
	if input.WeddingDate.Set {
		believer.WeddingDate = input.WeddingDate.Value
	}
	if input.Occupation != nil {
		if !ValidOccupation(*input.Occupation) {
			return nil, invalidField("occupation", "unknown occupation")
		}
		believer.Occupation = *input.Occupation
	}
	if input.EducationLevel.Set {
		believer.EducationLevel = input.EducationLevel.Value
	}
	if input.SpouseID.Set {
		if input.SpouseID.Value != nil {
			if _, err := s.repo.GetBeliever(ctx, *input.SpouseID.Value); err != nil {
				return nil, invalidField("spouseId", "linked believer not found")
			}
		}
		believer.SpouseID = input.SpouseID.Value
	}
	if input.SpouseName.Set {
		believer.SpouseName = input.SpouseName.Value
	}
	if input.CustomRelationship.Set {
		believer.CustomRelationship = input.CustomRelationship.Value
	}

	// Age-gated policy is recomputed against the effective date of birth.
	age := agecalc.Age(believer.DateOfBirth, s.now(), s.loc)
	explicitSpouseClear := input.SpouseID.Set && input.SpouseID.Value == nil
	if age < adultAge {
		believer.MaritalStatus = MaritalSingle
		believer.WeddingDate = nil
		if believer.SpouseID != nil {
			explicitSpouseClear = true
			believer.SpouseID = nil
		}
	}
	believer.Occupation = ResolveOccupation(age, believer.Occupation)
	if believer.Occupation != OccupationStudent {
		believer.EducationLevel = nil
	}
	believer.MemberType = ClassifyMemberType(age, believer.MaritalStatus)

	if err := s.repo.UpdateBeliever(ctx, believer); err != nil {
		return nil, err
	}

	if err := s.syncSpouseReference(ctx, believer, prevSpouseID, explicitSpouseClear); err != nil {
		return nil, err
	}

	s.cache.Invalidate()
	return believer, nil
}

// syncSpouseReference keeps the weak back-reference consistent after an
// update: a newly set spouseId makes the target point back, and an explicit
// clear detaches the previously linked spouse, leaving spouseName as a text
// fallback on the remaining side.
func (s *Service) syncSpouseReference(ctx context.Context, believer *Believer, prevSpouseID *string, cleared bool) error {
	if believer.SpouseID != nil {
		if prevSpouseID != nil && *prevSpouseID == *believer.SpouseID {
			return nil
		}
		target, err := s.repo.GetBeliever(ctx, *believer.SpouseID)
		if err != nil {
			return nil
		}
		target.SpouseID = &believer.ID
		target.SpouseName = &believer.Name
		return s.repo.UpdateBeliever(ctx, target)
	}

	if cleared && prevSpouseID != nil {
		prev, err := s.repo.GetBeliever(ctx, *prevSpouseID)
		if err != nil {
			return nil
		}
		if prev.SpouseID != nil && *prev.SpouseID == believer.ID {
			prev.SpouseID = nil
			prev.SpouseName = &believer.Name
			return s.repo.UpdateBeliever(ctx, prev)
		}
	}
	return nil
}

// sanitizeUpdate resolves the ambiguous empty-string inputs the admin UI
// sends: an empty spouseId means null, an empty educationLevel or
// weddingDate means "leave the field alone".
func sanitizeUpdate(input UpdateBelieverInput) UpdateBelieverInput {
	if input.SpouseID.Set && input.SpouseID.Value != nil && strings.TrimSpace(*input.SpouseID.Value) == "" {
		input.SpouseID.Value = nil
	}
	if input.EducationLevel.Set && input.EducationLevel.Value != nil && strings.TrimSpace(*input.EducationLevel.Value) == "" {
		input.EducationLevel = OptionalString{}
	}
	if input.SpouseName.Set && input.SpouseName.Value != nil && strings.TrimSpace(*input.SpouseName.Value) == "" {
		input.SpouseName.Value = nil
	}
	return input
}

// DeleteBeliever soft-deletes a non-head believer and detaches any spouse
// link, backfilling spouseName on the surviving side. Heads must be
// reassigned first; the IS_HEAD conflict tells the caller to offer that.
func (s *Service) DeleteBeliever(ctx context.Context, id string) error {
	believer, err := s.repo.GetBeliever(ctx, id)
	if err != nil {
		return err
	}
	if believer.IsHead {
		return ErrBelieverIsHead
	}

	deletedAt := s.now().UTC()
	believer.IsDeleted = true
	believer.DeletedAt = &deletedAt
	if err := s.repo.UpdateBeliever(ctx, believer); err != nil {
		return err
	}

	if believer.SpouseID != nil {
		if spouse, err := s.repo.GetBeliever(ctx, *believer.SpouseID); err == nil {
			spouse.SpouseID = nil
			spouse.SpouseName = &believer.Name
			if err := s.repo.UpdateBeliever(ctx, spouse); err != nil {
				return err
			}
		}
	}

	s.cache.Invalidate()
	return nil
}

// RestoreBeliever is blocked while the parent family is still in the trash;
// the family must be restored first.
func (s *Service) RestoreBeliever(ctx context.Context, id string) (*Believer, error) {
	believer, err := s.repo.GetTrashedBeliever(ctx, id)
	if err != nil {
		return nil, err
	}

	family, err := s.repo.GetFamilyAny(ctx, believer.FamilyID)
	if err != nil {
		return nil, err
	}
	if family.IsDeleted {
		return nil, ErrFamilyTrashed
	}

	believer.IsDeleted = false
	believer.DeletedAt = nil
	if err := s.repo.UpdateBeliever(ctx, believer); err != nil {
		return nil, err
	}

	s.cache.Invalidate()
	return believer, nil
}

func (s *Service) PermanentlyDeleteBeliever(ctx context.Context, id string) error {
	believer, err := s.repo.GetTrashedBeliever(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteBelieverPermanently(ctx, believer.ID); err != nil {
		return err
	}
	s.cache.Invalidate()
	return nil
}

func (s *Service) EmptyBelieverTrash(ctx context.Context) (int64, error) {
	count, err := s.repo.DeleteTrashedBelievers(ctx)
	if err != nil {
		return 0, err
	}
	s.cache.Invalidate()
	return count, nil
}
