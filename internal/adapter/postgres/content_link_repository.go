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

const contentLinkColumns = `id, application_id, platform, url, is_selected, selection_status,
       views_tracked, last_checked_at, selected_at, created_at`

// ContentLinkRepository implements port.ContentLinkRepository.
type ContentLinkRepository struct {
	db DB
}

func NewContentLinkRepository(db DB) *ContentLinkRepository {
	return &ContentLinkRepository{db: db}
}

// CreateBatch inserts links one statement at a time. Callers run it inside
// the transaction that created the owning application.
func (r *ContentLinkRepository) CreateBatch(ctx context.Context, links []domain.ContentLink) error {
	q := conn(ctx, r.db)
	for _, l := range links {
		_, err := q.Exec(ctx, `INSERT INTO content_links
    (id, application_id, platform, url, is_selected, selection_status, views_tracked, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
			l.ID, l.ApplicationID, string(l.Platform), l.URL, l.IsSelected, string(l.SelectionStatus), l.ViewsTracked, l.CreatedAt)
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *ContentLinkRepository) Get(ctx context.Context, id uuid.UUID) (*domain.ContentLink, error) {
	row := conn(ctx, r.db).QueryRow(ctx, `SELECT `+contentLinkColumns+` FROM content_links WHERE id = $1`, id)
	link, err := scanContentLink(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &link, nil
}

func (r *ContentLinkRepository) ListByApplication(ctx context.Context, applicationID uuid.UUID) ([]domain.ContentLink, error) {
	return r.list(ctx, `SELECT `+contentLinkColumns+` FROM content_links
WHERE application_id = $1 ORDER BY created_at, id`, applicationID)
}

func (r *ContentLinkRepository) ListSelectedByApplication(ctx context.Context, applicationID uuid.UUID) ([]domain.ContentLink, error) {
	return r.list(ctx, `SELECT `+contentLinkColumns+` FROM content_links
WHERE application_id = $1 AND selection_status = 'selected' ORDER BY created_at, id`, applicationID)
}

func (r *ContentLinkRepository) UpdateSelection(ctx context.Context, ids []uuid.UUID, isSelected bool, status domain.SelectionStatus, selectedAt *time.Time) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := conn(ctx, r.db).Exec(ctx, `UPDATE content_links
SET is_selected = $2, selection_status = $3, selected_at = $4
WHERE id = ANY($1)`, ids, isSelected, string(status), selectedAt)
	return err
}

func (r *ContentLinkRepository) UpdateViewCount(ctx context.Context, id uuid.UUID, views int64, checkedAt time.Time, override bool) error {
	q := conn(ctx, r.db)
	tag, err := q.Exec(ctx, `UPDATE content_links
SET views_tracked = $2, last_checked_at = $3
WHERE id = $1 AND ($4 OR views_tracked <= $2)`, id, views, checkedAt, override)
	if err != nil {
		return err
	}
	if tag.RowsAffected() > 0 {
		return nil
	}

	var tracked int64
	err = q.QueryRow(ctx, `SELECT views_tracked FROM content_links WHERE id = $1`, id).Scan(&tracked)
	if errors.Is(err, pgx.ErrNoRows) {
		return port.ErrContentLinkNotFound
	}
	if err != nil {
		return err
	}
	return fmt.Errorf("%w: link %s has %d, got %d", port.ErrCounterDecreased, id, tracked, views)
}

func (r *ContentLinkRepository) SumSelectedViews(ctx context.Context, campaignID, creatorID uuid.UUID) (int64, *time.Time, error) {
	var (
		views int64
		last  *time.Time
	)
	err := conn(ctx, r.db).QueryRow(ctx, `SELECT COALESCE(SUM(l.views_tracked), 0), MAX(l.last_checked_at)
FROM content_links l
JOIN applications a ON a.id = l.application_id
WHERE a.campaign_id = $1 AND a.creator_id = $2
  AND a.status <> 'withdrawn'
  AND l.selection_status = 'selected'`, campaignID, creatorID).Scan(&views, &last)
	if err != nil {
		return 0, nil, err
	}
	return views, last, nil
}

func (r *ContentLinkRepository) list(ctx context.Context, query string, args ...any) ([]domain.ContentLink, error) {
	rows, err := conn(ctx, r.db).Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.ContentLink, error) {
		return scanContentLink(row)
	})
}

func scanContentLink(row pgx.Row) (domain.ContentLink, error) {
	var (
		l                domain.ContentLink
		platform, status string
	)
	err := row.Scan(
		&l.ID,
		&l.ApplicationID,
		&platform,
		&l.URL,
		&l.IsSelected,
		&status,
		&l.ViewsTracked,
		&l.LastCheckedAt,
		&l.SelectedAt,
		&l.CreatedAt,
	)
	l.Platform = domain.Platform(platform)
	l.SelectionStatus = domain.SelectionStatus(status)
	return l, err
}
