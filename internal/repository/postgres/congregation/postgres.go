package congregation

import (
	"context"
	"errors"
	"time"

	domain "church-admin-go/internal/domain/congregation"
	"gorm.io/gorm"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(domain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

func (r *PostgresRepository) CreateFamily(ctx context.Context, family *domain.Family) error {
	return r.db.WithContext(ctx).Create(family).Error
}

func (r *PostgresRepository) GetFamily(ctx context.Context, id string) (*domain.Family, error) {
	return r.getFamily(ctx, id, "is_deleted = false", domain.ErrFamilyNotFound)
}

func (r *PostgresRepository) GetFamilyAny(ctx context.Context, id string) (*domain.Family, error) {
	var family domain.Family
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&family).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrFamilyNotFound
	}
	if err != nil {
		return nil, err
	}
	return &family, nil
}

func (r *PostgresRepository) GetTrashedFamily(ctx context.Context, id string) (*domain.Family, error) {
	return r.getFamily(ctx, id, "is_deleted = true", domain.ErrFamilyNotTrashed)
}

func (r *PostgresRepository) getFamily(ctx context.Context, id, cond string, notFound error) (*domain.Family, error) {
	var family domain.Family
	err := r.db.WithContext(ctx).Where("id = ?", id).Where(cond).First(&family).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound
	}
	if err != nil {
		return nil, err
	}
	return &family, nil
}

func (r *PostgresRepository) ListFamilies(ctx context.Context, filter domain.FamilyFilter) ([]domain.Family, int64, error) {
	query := r.db.WithContext(ctx).Model(&domain.Family{}).Where("is_deleted = false")

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("code ILIKE ? OR address ILIKE ? OR village ILIKE ?", pattern, pattern, pattern)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.District != "" {
		query = query.Where("district = ?", filter.District)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var families []domain.Family
	err := query.
		Order("code asc").
		Offset((filter.Page - 1) * filter.Limit).
		Limit(filter.Limit).
		Find(&families).Error
	if err != nil {
		return nil, 0, err
	}
	return families, total, nil
}

func (r *PostgresRepository) ListTrashedFamilies(ctx context.Context) ([]domain.Family, error) {
	var families []domain.Family
	err := r.db.WithContext(ctx).
		Where("is_deleted = true").
		Order("deleted_at desc").
		Find(&families).Error
	if err != nil {
		return nil, err
	}
	return families, nil
}

func (r *PostgresRepository) UpdateFamily(ctx context.Context, family *domain.Family) error {
	// Save writes all columns, including cleared ones (code, head_id).
	return r.db.WithContext(ctx).Save(family).Error
}

func (r *PostgresRepository) DeleteFamilyPermanently(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&domain.Family{}, "id = ?", id).Error
}

func (r *PostgresRepository) CountActiveFamilies(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Family{}).Where("is_deleted = false").Count(&count).Error
	return count, err
}

func (r *PostgresRepository) CreateBeliever(ctx context.Context, believer *domain.Believer) error {
	return r.db.WithContext(ctx).Create(believer).Error
}

func (r *PostgresRepository) GetBeliever(ctx context.Context, id string) (*domain.Believer, error) {
	return r.getBeliever(ctx, id, "is_deleted = false", domain.ErrBelieverNotFound)
}

func (r *PostgresRepository) GetTrashedBeliever(ctx context.Context, id string) (*domain.Believer, error) {
	return r.getBeliever(ctx, id, "is_deleted = true", domain.ErrBelieverNotTrashed)
}

func (r *PostgresRepository) getBeliever(ctx context.Context, id, cond string, notFound error) (*domain.Believer, error) {
	var believer domain.Believer
	err := r.db.WithContext(ctx).Where("id = ?", id).Where(cond).First(&believer).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound
	}
	if err != nil {
		return nil, err
	}
	return &believer, nil
}

func (r *PostgresRepository) GetFamilyHead(ctx context.Context, familyID string) (*domain.Believer, error) {
	var believer domain.Believer
	err := r.db.WithContext(ctx).
		Where("family_id = ? AND is_head = true AND is_deleted = false", familyID).
		First(&believer).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &believer, nil
}

func (r *PostgresRepository) ListBelievers(ctx context.Context, filter domain.BelieverFilter) ([]domain.Believer, int64, error) {
	query := r.db.WithContext(ctx).Model(&domain.Believer{}).Where("is_deleted = false")

	if filter.Search != "" {
		query = query.Where("name ILIKE ?", "%"+filter.Search+"%")
	}
	if filter.FamilyID != "" {
		query = query.Where("family_id = ?", filter.FamilyID)
	}
	if filter.MemberType != "" {
		query = query.Where("member_type = ?", filter.MemberType)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Gender != "" {
		query = query.Where("gender = ?", filter.Gender)
	}
	if filter.Baptized != "" {
		query = query.Where("baptized = ?", filter.Baptized)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Order(believerOrder(filter.SortBy, filter.SortDir))
	if filter.Limit > 0 {
		query = query.Offset((filter.Page - 1) * filter.Limit).Limit(filter.Limit)
	}

	var believers []domain.Believer
	if err := query.Find(&believers).Error; err != nil {
		return nil, 0, err
	}
	return believers, total, nil
}

// believerOrder maps the API sort keys onto columns; sorting by age is
// sorting by date of birth in the opposite direction.
func believerOrder(sortBy, sortDir string) string {
	desc := sortDir == domain.SortDesc
	switch sortBy {
	case domain.SortByAge:
		if desc {
			return "date_of_birth asc"
		}
		return "date_of_birth desc"
	default:
		if desc {
			return "name desc"
		}
		return "name asc"
	}
}

func (r *PostgresRepository) ListBelieversByFamily(ctx context.Context, familyID string) ([]domain.Believer, error) {
	var believers []domain.Believer
	err := r.db.WithContext(ctx).
		Where("family_id = ? AND is_deleted = false", familyID).
		Order("is_head desc, name asc").
		Find(&believers).Error
	if err != nil {
		return nil, err
	}
	return believers, nil
}

func (r *PostgresRepository) ListTrashedBelievers(ctx context.Context) ([]domain.Believer, error) {
	var believers []domain.Believer
	err := r.db.WithContext(ctx).
		Where("is_deleted = true").
		Order("deleted_at desc").
		Find(&believers).Error
	if err != nil {
		return nil, err
	}
	return believers, nil
}

func (r *PostgresRepository) UpdateBeliever(ctx context.Context, believer *domain.Believer) error {
	return r.db.WithContext(ctx).Save(believer).Error
}

func (r *PostgresRepository) SoftDeleteBelieversByFamily(ctx context.Context, familyID string, deletedAt time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Model(&domain.Believer{}).
		Where("family_id = ? AND is_deleted = false", familyID).
		Updates(map[string]any{"is_deleted": true, "deleted_at": deletedAt})
	return result.RowsAffected, result.Error
}

func (r *PostgresRepository) RestoreBelieversByFamily(ctx context.Context, familyID string) (int64, error) {
	result := r.db.WithContext(ctx).Model(&domain.Believer{}).
		Where("family_id = ? AND is_deleted = true", familyID).
		Updates(map[string]any{"is_deleted": false, "deleted_at": nil})
	return result.RowsAffected, result.Error
}

func (r *PostgresRepository) DeleteBelieversByFamilyPermanently(ctx context.Context, familyID string) error {
	return r.db.WithContext(ctx).Where("family_id = ?", familyID).Delete(&domain.Believer{}).Error
}

func (r *PostgresRepository) DeleteBelieverPermanently(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&domain.Believer{}, "id = ?", id).Error
}

func (r *PostgresRepository) DeleteTrashedBelievers(ctx context.Context) (int64, error) {
	result := r.db.WithContext(ctx).Where("is_deleted = true").Delete(&domain.Believer{})
	return result.RowsAffected, result.Error
}

func (r *PostgresRepository) Stats(ctx context.Context) (domain.Stats, error) {
	stats := domain.Stats{
		ByMemberType: make(map[string]int64),
		ByGender:     make(map[string]int64),
	}

	db := r.db.WithContext(ctx)
	if err := db.Model(&domain.Family{}).Where("is_deleted = false").Count(&stats.Families).Error; err != nil {
		return domain.Stats{}, err
	}
	if err := db.Model(&domain.Family{}).Where("is_deleted = true").Count(&stats.TrashedFamilies).Error; err != nil {
		return domain.Stats{}, err
	}
	if err := db.Model(&domain.Believer{}).Where("is_deleted = false").Count(&stats.Believers).Error; err != nil {
		return domain.Stats{}, err
	}
	if err := db.Model(&domain.Believer{}).Where("is_deleted = true").Count(&stats.TrashedMembers).Error; err != nil {
		return domain.Stats{}, err
	}

	type countRow struct {
		Key   string
		Count int64
	}

	var byType []countRow
	err := db.Model(&domain.Believer{}).
		Select("member_type AS key, COUNT(1) AS count").
		Where("is_deleted = false").
		Group("member_type").
		Scan(&byType).Error
	if err != nil {
		return domain.Stats{}, err
	}
	for _, row := range byType {
		stats.ByMemberType[row.Key] = row.Count
	}

	var byGender []countRow
	err = db.Model(&domain.Believer{}).
		Select("gender AS key, COUNT(1) AS count").
		Where("is_deleted = false").
		Group("gender").
		Scan(&byGender).Error
	if err != nil {
		return domain.Stats{}, err
	}
	for _, row := range byGender {
		stats.ByGender[row.Key] = row.Count
	}

	if err := db.Model(&domain.Believer{}).Where("is_deleted = false AND baptized = ?", domain.BaptizedYes).Count(&stats.Baptized).Error; err != nil {
		return domain.Stats{}, err
	}
	stats.NotBaptized = stats.Believers - stats.Baptized

	return stats, nil
}
