package congregation

import (
	"context"
	"time"
)

// Repository is the store abstraction over the families and believers
// collections. Lookups exclude trashed records unless the method says
// otherwise; Transaction runs fn in a unit of work where all writes commit
// or roll back together.
type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error

	CreateFamily(ctx context.Context, family *Family) error
	GetFamily(ctx context.Context, id string) (*Family, error)
	GetFamilyAny(ctx context.Context, id string) (*Family, error)
	GetTrashedFamily(ctx context.Context, id string) (*Family, error)
	ListFamilies(ctx context.Context, filter FamilyFilter) ([]Family, int64, error)
	ListTrashedFamilies(ctx context.Context) ([]Family, error)
	UpdateFamily(ctx context.Context, family *Family) error
	DeleteFamilyPermanently(ctx context.Context, id string) error
	CountActiveFamilies(ctx context.Context) (int64, error)

	CreateBeliever(ctx context.Context, believer *Believer) error
	GetBeliever(ctx context.Context, id string) (*Believer, error)
	GetTrashedBeliever(ctx context.Context, id string) (*Believer, error)
	GetFamilyHead(ctx context.Context, familyID string) (*Believer, error)
	ListBelievers(ctx context.Context, filter BelieverFilter) ([]Believer, int64, error)
	ListBelieversByFamily(ctx context.Context, familyID string) ([]Believer, error)
	ListTrashedBelievers(ctx context.Context) ([]Believer, error)
	UpdateBeliever(ctx context.Context, believer *Believer) error
	SoftDeleteBelieversByFamily(ctx context.Context, familyID string, deletedAt time.Time) (int64, error)
	RestoreBelieversByFamily(ctx context.Context, familyID string) (int64, error)
	DeleteBelieversByFamilyPermanently(ctx context.Context, familyID string) error
	DeleteBelieverPermanently(ctx context.Context, id string) error
	DeleteTrashedBelievers(ctx context.Context) (int64, error)

	Stats(ctx context.Context) (Stats, error)
}
