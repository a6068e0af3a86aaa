package congregation

import (
	"context"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	families  map[string]*Family
	believers map[string]*Believer

	failCreateBeliever bool
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		families:  make(map[string]*Family),
		believers: make(map[string]*Believer),
	}
}

func (r *fakeRepo) Transaction(ctx context.Context, fn func(Repository) error) error {
	// Snapshot-and-restore stands in for a real rollback.
	familiesBackup := make(map[string]*Family, len(r.families))
	for id, family := range r.families {
		copied := *family
		familiesBackup[id] = &copied
	}
	believersBackup := make(map[string]*Believer, len(r.believers))
	for id, believer := range r.believers {
		copied := *believer
		believersBackup[id] = &copied
	}

	if err := fn(r); err != nil {
		r.families = familiesBackup
		r.believers = believersBackup
		return err
	}
	return nil
}

func (r *fakeRepo) CreateFamily(ctx context.Context, family *Family) error {
	copied := *family
	r.families[family.ID] = &copied
	return nil
}

func (r *fakeRepo) GetFamily(ctx context.Context, id string) (*Family, error) {
	family, ok := r.families[id]
	if !ok || family.IsDeleted {
		return nil, ErrFamilyNotFound
	}
	copied := *family
	return &copied, nil
}

func (r *fakeRepo) GetFamilyAny(ctx context.Context, id string) (*Family, error) {
	family, ok := r.families[id]
	if !ok {
		return nil, ErrFamilyNotFound
	}
	copied := *family
	return &copied, nil
}

func (r *fakeRepo) GetTrashedFamily(ctx context.Context, id string) (*Family, error) {
	family, ok := r.families[id]
	if !ok || !family.IsDeleted {
		return nil, ErrFamilyNotTrashed
	}
	copied := *family
	return &copied, nil
}

func (r *fakeRepo) ListFamilies(ctx context.Context, filter FamilyFilter) ([]Family, int64, error) {
	var result []Family
	for _, family := range r.families {
		if family.IsDeleted {
			continue
		}
		if filter.Status != "" && family.Status != filter.Status {
			continue
		}
		if filter.District != "" && family.District != filter.District {
			continue
		}
		if filter.Search != "" && !strings.Contains(family.Address, filter.Search) && !strings.Contains(family.Village, filter.Search) {
			continue
		}
		result = append(result, *family)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, int64(len(result)), nil
}

func (r *fakeRepo) ListTrashedFamilies(ctx context.Context) ([]Family, error) {
	var result []Family
	for _, family := range r.families {
		if family.IsDeleted {
			result = append(result, *family)
		}
	}
	return result, nil
}

func (r *fakeRepo) UpdateFamily(ctx context.Context, family *Family) error {
	copied := *family
	r.families[family.ID] = &copied
	return nil
}

func (r *fakeRepo) DeleteFamilyPermanently(ctx context.Context, id string) error {
	delete(r.families, id)
	return nil
}

func (r *fakeRepo) CountActiveFamilies(ctx context.Context) (int64, error) {
	var count int64
	for _, family := range r.families {
		if !family.IsDeleted {
			count++
		}
	}
	return count, nil
}

func (r *fakeRepo) CreateBeliever(ctx context.Context, believer *Believer) error {
	if r.failCreateBeliever {
		return assert.AnError
	}
	copied := *believer
	r.believers[believer.ID] = &copied
	return nil
}

func (r *fakeRepo) GetBeliever(ctx context.Context, id string) (*Believer, error) {
	believer, ok := r.believers[id]
	if !ok || believer.IsDeleted {
		return nil, ErrBelieverNotFound
	}
	copied := *believer
	return &copied, nil
}

func (r *fakeRepo) GetTrashedBeliever(ctx context.Context, id string) (*Believer, error) {
	believer, ok := r.believers[id]
	if !ok || !believer.IsDeleted {
		return nil, ErrBelieverNotTrashed
	}
	copied := *believer
	return &copied, nil
}

func (r *fakeRepo) GetFamilyHead(ctx context.Context, familyID string) (*Believer, error) {
	for _, believer := range r.believers {
		if believer.FamilyID == familyID && believer.IsHead && !believer.IsDeleted {
			copied := *believer
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeRepo) ListBelievers(ctx context.Context, filter BelieverFilter) ([]Believer, int64, error) {
	var result []Believer
	for _, believer := range r.believers {
		if believer.IsDeleted {
			continue
		}
		if filter.FamilyID != "" && believer.FamilyID != filter.FamilyID {
			continue
		}
		if filter.MemberType != "" && believer.MemberType != filter.MemberType {
			continue
		}
		result = append(result, *believer)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, int64(len(result)), nil
}

func (r *fakeRepo) ListBelieversByFamily(ctx context.Context, familyID string) ([]Believer, error) {
	var result []Believer
	for _, believer := range r.believers {
		if believer.FamilyID == familyID && !believer.IsDeleted {
			result = append(result, *believer)
		}
	}
	return result, nil
}

func (r *fakeRepo) ListTrashedBelievers(ctx context.Context) ([]Believer, error) {
	var result []Believer
	for _, believer := range r.believers {
		if believer.IsDeleted {
			result = append(result, *believer)
		}
	}
	return result, nil
}

func (r *fakeRepo) UpdateBeliever(ctx context.Context, believer *Believer) error {
	copied := *believer
	r.believers[believer.ID] = &copied
	return nil
}

func (r *fakeRepo) SoftDeleteBelieversByFamily(ctx context.Context, familyID string, deletedAt time.Time) (int64, error) {
	var count int64
	for _, believer := range r.believers {
		if believer.FamilyID == familyID && !believer.IsDeleted {
			believer.IsDeleted = true
			at := deletedAt
			believer.DeletedAt = &at
			count++
		}
	}
	return count, nil
}

func (r *fakeRepo) RestoreBelieversByFamily(ctx context.Context, familyID string) (int64, error) {
	var count int64
	for _, believer := range r.believers {
		if believer.FamilyID == familyID && believer.IsDeleted {
			believer.IsDeleted = false
			believer.DeletedAt = nil
			count++
		}
	}
	return count, nil
}

func (r *fakeRepo) DeleteBelieversByFamilyPermanently(ctx context.Context, familyID string) error {
	for id, believer := range r.believers {
		if believer.FamilyID == familyID {
			delete(r.believers, id)
		}
	}
	return nil
}

func (r *fakeRepo) DeleteBelieverPermanently(ctx context.Context, id string) error {
	delete(r.believers, id)
	return nil
}

func (r *fakeRepo) DeleteTrashedBelievers(ctx context.Context) (int64, error) {
	var count int64
	for id, believer := range r.believers {
		if believer.IsDeleted {
			delete(r.believers, id)
			count++
		}
	}
	return count, nil
}

func (r *fakeRepo) Stats(ctx context.Context) (Stats, error) {
	stats := Stats{
		ByMemberType: make(map[string]int64),
		ByGender:     make(map[string]int64),
	}
	for _, family := range r.families {
		if family.IsDeleted {
			stats.TrashedFamilies++
		} else {
			stats.Families++
		}
	}
	for _, believer := range r.believers {
		if believer.IsDeleted {
			stats.TrashedMembers++
			continue
		}
		stats.Believers++
		stats.ByMemberType[believer.MemberType]++
		stats.ByGender[believer.Gender]++
		if believer.Baptized == BaptizedYes {
			stats.Baptized++
		} else {
			stats.NotBaptized++
		}
	}
	return stats, nil
}

var testNow = time.Date(2025, time.June, 15, 10, 0, 0, 0, time.UTC)

func newTestService(t *testing.T) (*Service, *fakeRepo) {
	t.Helper()
	repo := newFakeRepo()
	svc := NewService(repo, time.UTC)
	svc.now = func() time.Time { return testNow }
	return svc, repo
}

func dobForAge(age int) time.Time {
	return time.Date(testNow.Year()-age, time.January, 10, 0, 0, 0, 0, time.UTC)
}

func validFamilyAttrs() FamilyAttrs {
	return FamilyAttrs{
		Address:  "12 Church Street",
		Village:  "Kovilpatti",
		District: "Madurai",
	}
}

func validHeadAttrs(age int) MemberAttrs {
	return MemberAttrs{
		Name:          "Yesudas",
		DateOfBirth:   dobForAge(age),
		Gender:        GenderMale,
		MaritalStatus: MaritalSingle,
		Baptized:      BaptizedYes,
		Occupation:    "Farmer",
	}
}

func TestCreateFamilyWithHead(t *testing.T) {
	ctx := context.Background()

	t.Run("creates family and head atomically", func(t *testing.T) {
		svc, repo := newTestService(t)

		family, head, err := svc.CreateFamilyWithHead(ctx, validFamilyAttrs(), validHeadAttrs(40))
		require.NoError(t, err)

		require.NotNil(t, family.Code)
		assert.Equal(t, "FAM-0001", *family.Code)
		assert.Equal(t, StatusActive, family.Status)
		require.NotNil(t, family.HeadID)
		assert.Equal(t, head.ID, *family.HeadID)

		assert.True(t, head.IsHead)
		assert.Equal(t, RelationSelf, head.RelationshipToHead)
		assert.Equal(t, family.ID, head.FamilyID)
		assert.Equal(t, MemberTypeMember, head.MemberType)

		stored, err := repo.GetFamily(ctx, family.ID)
		require.NoError(t, err)
		assert.Equal(t, head.ID, *stored.HeadID)
	})

	t.Run("sequential codes", func(t *testing.T) {
		svc, _ := newTestService(t)

		first, _, err := svc.CreateFamilyWithHead(ctx, validFamilyAttrs(), validHeadAttrs(40))
		require.NoError(t, err)
		second, _, err := svc.CreateFamilyWithHead(ctx, validFamilyAttrs(), validHeadAttrs(35))
		require.NoError(t, err)

		assert.Equal(t, "FAM-0001", *first.Code)
		assert.Equal(t, "FAM-0002", *second.Code)
	})

	t.Run("minor head is forced single", func(t *testing.T) {
		svc, _ := newTestService(t)

		attrs := validHeadAttrs(16)
		attrs.MaritalStatus = MaritalMarried
		wedding := time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC)
		attrs.WeddingDate = &wedding

		_, head, err := svc.CreateFamilyWithHead(ctx, validFamilyAttrs(), attrs)
		require.NoError(t, err)

		assert.Equal(t, MaritalSingle, head.MaritalStatus)
		assert.Nil(t, head.WeddingDate)
		assert.Nil(t, head.SpouseID)
	})

	t.Run("missing address fails validation", func(t *testing.T) {
		svc, _ := newTestService(t)

		attrs := validFamilyAttrs()
		attrs.Address = "  "
		_, _, err := svc.CreateFamilyWithHead(ctx, attrs, validHeadAttrs(40))

		var validation *ValidationError
		require.ErrorAs(t, err, &validation)
		assert.Equal(t, "address", validation.Field)
	})

	t.Run("unknown district fails validation", func(t *testing.T) {
		svc, _ := newTestService(t)

		attrs := validFamilyAttrs()
		attrs.District = "Atlantis"
		_, _, err := svc.CreateFamilyWithHead(ctx, attrs, validHeadAttrs(40))

		var validation *ValidationError
		require.ErrorAs(t, err, &validation)
		assert.Equal(t, "district", validation.Field)
	})

	t.Run("rolls back family when head insert fails", func(t *testing.T) {
		svc, repo := newTestService(t)
		repo.failCreateBeliever = true

		_, _, err := svc.CreateFamilyWithHead(ctx, validFamilyAttrs(), validHeadAttrs(40))
		require.Error(t, err)

		assert.Empty(t, repo.families)
		assert.Empty(t, repo.believers)
	})
}

func TestDeleteAndRestoreFamily(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (*Service, *fakeRepo, *Family) {
		svc, repo := newTestService(t)
		family, _, err := svc.CreateFamilyWithHead(ctx, validFamilyAttrs(), validHeadAttrs(40))
		require.NoError(t, err)

		for _, name := range []string{"Ruth", "Samuel", "Martha"} {
			attrs := MemberAttrs{
				Name:               name,
				DateOfBirth:        dobForAge(10),
				Gender:             GenderFemale,
				RelationshipToHead: RelationDaughter,
			}
			_, err := svc.AddMember(ctx, family.ID, attrs)
			require.NoError(t, err)
		}
		return svc, repo, family
	}

	t.Run("soft delete cascades with shared timestamp and frees code", func(t *testing.T) {
		svc, repo, family := setup(t)

		require.NoError(t, svc.DeleteFamily(ctx, family.ID))

		stored, err := repo.GetFamilyAny(ctx, family.ID)
		require.NoError(t, err)
		assert.True(t, stored.IsDeleted)
		assert.Nil(t, stored.Code)
		require.NotNil(t, stored.DeletedAt)

		trashed, err := repo.ListTrashedBelievers(ctx)
		require.NoError(t, err)
		require.Len(t, trashed, 4)
		for _, believer := range trashed {
			require.NotNil(t, believer.DeletedAt)
			assert.True(t, believer.DeletedAt.Equal(*stored.DeletedAt))
		}
	})

	t.Run("restore assigns a fresh code and revives members", func(t *testing.T) {
		svc, repo, family := setup(t)
		originalCode := *family.Code

		require.NoError(t, svc.DeleteFamily(ctx, family.ID))

		// A family created meanwhile takes over the freed number.
		other, _, err := svc.CreateFamilyWithHead(ctx, validFamilyAttrs(), validHeadAttrs(50))
		require.NoError(t, err)
		assert.Equal(t, originalCode, *other.Code)

		restored, err := svc.RestoreFamily(ctx, family.ID)
		require.NoError(t, err)
		assert.False(t, restored.IsDeleted)
		assert.Nil(t, restored.DeletedAt)
		require.NotNil(t, restored.Code)
		assert.NotEqual(t, originalCode, *restored.Code)

		members, err := repo.ListBelieversByFamily(ctx, family.ID)
		require.NoError(t, err)
		assert.Len(t, members, 4)
	})

	t.Run("restore rejects a family that is not trashed", func(t *testing.T) {
		svc, _, family := setup(t)

		_, err := svc.RestoreFamily(ctx, family.ID)
		assert.ErrorIs(t, err, ErrFamilyNotTrashed)
	})

	t.Run("permanent delete requires trash and removes members", func(t *testing.T) {
		svc, repo, family := setup(t)

		err := svc.PermanentlyDeleteFamily(ctx, family.ID)
		assert.ErrorIs(t, err, ErrFamilyNotTrashed)

		require.NoError(t, svc.DeleteFamily(ctx, family.ID))
		require.NoError(t, svc.PermanentlyDeleteFamily(ctx, family.ID))

		_, err = repo.GetFamilyAny(ctx, family.ID)
		assert.ErrorIs(t, err, ErrFamilyNotFound)
		assert.Empty(t, repo.believers)
	})
}

func TestAssignNewHead(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestService(t)

	family, oldHead, err := svc.CreateFamilyWithHead(ctx, validFamilyAttrs(), validHeadAttrs(50))
	require.NoError(t, err)

	son, err := svc.AddMember(ctx, family.ID, MemberAttrs{
		Name:               "Daniel",
		DateOfBirth:        dobForAge(25),
		Gender:             GenderMale,
		MaritalStatus:      MaritalSingle,
		RelationshipToHead: RelationSon,
	})
	require.NoError(t, err)

	promoted, err := svc.AssignNewHead(ctx, family.ID, son.ID)
	require.NoError(t, err)
	assert.True(t, promoted.IsHead)
	assert.Equal(t, RelationSelf, promoted.RelationshipToHead)

	demoted, err := repo.GetBeliever(ctx, oldHead.ID)
	require.NoError(t, err)
	assert.False(t, demoted.IsHead)
	assert.Equal(t, RelationSelf, demoted.RelationshipToHead)

	storedFamily, err := repo.GetFamily(ctx, family.ID)
	require.NoError(t, err)
	assert.Equal(t, son.ID, *storedFamily.HeadID)

	t.Run("rejects believer from another family", func(t *testing.T) {
		otherFamily, _, err := svc.CreateFamilyWithHead(ctx, validFamilyAttrs(), validHeadAttrs(45))
		require.NoError(t, err)

		_, err = svc.AssignNewHead(ctx, otherFamily.ID, son.ID)
		var validation *ValidationError
		require.ErrorAs(t, err, &validation)
		assert.Equal(t, "newHeadId", validation.Field)
	})
}

func TestDashboardStats(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	_, _, err := svc.CreateFamilyWithHead(ctx, validFamilyAttrs(), validHeadAttrs(40))
	require.NoError(t, err)

	stats, err := svc.DashboardStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.Families)
	assert.Equal(t, int64(1), stats.Believers)
	assert.Equal(t, int64(1), stats.ByMemberType[MemberTypeMember])
}
