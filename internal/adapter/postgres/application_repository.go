package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"campaign-earnings/internal/core/domain"
	"campaign-earnings/internal/core/port"
)

const applicationColumns = `id, campaign_id, creator_id, message, proposed_rate, deliverables,
       status, version, created_at, updated_at, withdrawn_at`

// ApplicationRepository implements port.ApplicationRepository.
type ApplicationRepository struct {
	db DB
}

func NewApplicationRepository(db DB) *ApplicationRepository {
	return &ApplicationRepository{db: db}
}

// Create inserts an application. The partial unique index on
// (campaign_id, creator_id) for non-withdrawn rows backs the one live
// application per pair rule even under concurrent inserts.
func (r *ApplicationRepository) Create(ctx context.Context, app domain.Application) error {
	_, err := conn(ctx, r.db).Exec(ctx, `INSERT INTO applications
    (id, campaign_id, creator_id, message, proposed_rate, deliverables, status, version, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		app.ID, app.CampaignID, app.CreatorID, app.Message, app.ProposedRate, app.Deliverables,
		string(app.Status), app.Version, app.CreatedAt, app.UpdatedAt)
	if isUniqueViolation(err, "applications_live_pair_uq") {
		return port.ErrDuplicateApplication
	}
	return err
}

func (r *ApplicationRepository) Get(ctx context.Context, id uuid.UUID) (*domain.Application, error) {
	row := conn(ctx, r.db).QueryRow(ctx, `SELECT `+applicationColumns+` FROM applications WHERE id = $1`, id)
	app, err := scanApplication(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &app, nil
}

func (r *ApplicationRepository) FindActive(ctx context.Context, campaignID, creatorID uuid.UUID) (*domain.Application, error) {
	row := conn(ctx, r.db).QueryRow(ctx, `SELECT `+applicationColumns+` FROM applications
WHERE campaign_id = $1 AND creator_id = $2 AND status <> 'withdrawn'`, campaignID, creatorID)
	app, err := scanApplication(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &app, nil
}

// UpdateStatus applies a status change guarded by the row version.
func (r *ApplicationRepository) UpdateStatus(ctx context.Context, id uuid.UUID, expectedVersion int64, status domain.ApplicationStatus, at time.Time) error {
	tag, err := conn(ctx, r.db).Exec(ctx, `UPDATE applications
SET status = $3,
    version = version + 1,
    updated_at = $4,
    withdrawn_at = CASE WHEN $3 = 'withdrawn' THEN $4 ELSE withdrawn_at END
WHERE id = $1 AND version = $2`, id, expectedVersion, string(status), at)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return port.ErrConcurrentUpdate
	}
	return nil
}

func (r *ApplicationRepository) UpdateMessage(ctx context.Context, id uuid.UUID, expectedVersion int64, message string, at time.Time) error {
	tag, err := conn(ctx, r.db).Exec(ctx, `UPDATE applications
SET message = $3, version = version + 1, updated_at = $4
WHERE id = $1 AND version = $2`, id, expectedVersion, message, at)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return port.ErrConcurrentUpdate
	}
	return nil
}

func (r *ApplicationRepository) ListByStatus(ctx context.Context, status domain.ApplicationStatus, campaignID *uuid.UUID) ([]domain.Application, error) {
	args := []any{string(status)}
	whereCampaign := ""
	if campaignID != nil {
		whereCampaign = "AND campaign_id = $2"
		args = append(args, *campaignID)
	}
	query := fmt.Sprintf(`SELECT %s FROM applications WHERE status = $1 %s ORDER BY created_at, id`, applicationColumns, whereCampaign)
	return r.list(ctx, query, args...)
}

func (r *ApplicationRepository) ListByCampaign(ctx context.Context, campaignID uuid.UUID) ([]domain.Application, error) {
	return r.list(ctx, `SELECT `+applicationColumns+` FROM applications
WHERE campaign_id = $1 AND status <> 'withdrawn' ORDER BY created_at, id`, campaignID)
}

func (r *ApplicationRepository) ListByCreator(ctx context.Context, creatorID uuid.UUID) ([]domain.Application, error) {
	return r.list(ctx, `SELECT `+applicationColumns+` FROM applications
WHERE creator_id = $1 AND status <> 'withdrawn' ORDER BY created_at, id`, creatorID)
}

func (r *ApplicationRepository) ListForPair(ctx context.Context, campaignID, creatorID uuid.UUID) ([]domain.Application, error) {
	return r.list(ctx, `SELECT `+applicationColumns+` FROM applications
WHERE campaign_id = $1 AND creator_id = $2 AND status <> 'withdrawn' ORDER BY created_at, id`, campaignID, creatorID)
}

func (r *ApplicationRepository) list(ctx context.Context, query string, args ...any) ([]domain.Application, error) {
	rows, err := conn(ctx, r.db).Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Application, error) {
		return scanApplication(row)
	})
}

func scanApplication(row pgx.Row) (domain.Application, error) {
	var (
		app    domain.Application
		status string
	)
	err := row.Scan(
		&app.ID,
		&app.CampaignID,
		&app.CreatorID,
		&app.Message,
		&app.ProposedRate,
		&app.Deliverables,
		&status,
		&app.Version,
		&app.CreatedAt,
		&app.UpdatedAt,
		&app.WithdrawnAt,
	)
	app.Status = domain.ApplicationStatus(status)
	return app, err
}
