package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Querier is the subset of pgx operations shared by *pgxpool.Pool and pgx.Tx.
// Repository methods that must run inside the admin save transaction take a
// Querier so the same code serves both paths.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repositories holds all the repository instances
type Repositories struct {
	StudentRepository     *StudentRepository
	AchievementRepository *AchievementRepository
	ParticipantRepository *ParticipantRepository
	MediaRepository       *MediaRepository
	AdminRepository       *AdminRepository
}

// NewRepositories initializes all repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		StudentRepository:     NewStudentRepository(db),
		AchievementRepository: NewAchievementRepository(db),
		ParticipantRepository: NewParticipantRepository(db),
		MediaRepository:       NewMediaRepository(db),
		AdminRepository:       NewAdminRepository(db),
	}
}
