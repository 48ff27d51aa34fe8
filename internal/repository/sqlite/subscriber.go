package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/Nazarious-ucu/listings-footer/internal/metrics"
	"github.com/Nazarious-ucu/listings-footer/internal/models"
)

// SubscriberRepository stores newsletter subscribers with structured logging and metrics.
type SubscriberRepository struct {
	DB  *sql.DB
	log zerolog.Logger
	m   *metrics.Metrics
}

func NewSubscriberRepository(db *sql.DB, logger zerolog.Logger, m *metrics.Metrics) *SubscriberRepository {
	logger = logger.With().Str("component", "SubscriberRepository").Logger()
	return &SubscriberRepository{DB: db, log: logger, m: m}
}

// Create stores a new subscriber. An address that unsubscribed earlier is
// reactivated with the new token; an active one yields ErrSubscriberExists.
func (r *SubscriberRepository) Create(ctx context.Context, email, token string) error {
	start := time.Now()

	existing, err := r.GetByEmail(ctx, email)
	switch {
	case errors.Is(err, models.ErrSubscriberNotFound):
	case err != nil:
		return err
	case !existing.Unsubscribed:
		r.log.Warn().Ctx(ctx).Str("email", email).Msg("subscriber already exists, abort create")
		r.m.BusinessErrors.WithLabelValues("subscriber_exists", "warning").Inc()
		return models.ErrSubscriberExists
	default:
		_, err = r.DB.ExecContext(ctx,
			`UPDATE subscribers SET token = ?, confirmed = 0, unsubscribed = 0, created_at = ? WHERE id = ?`,
			token, time.Now().UTC(), existing.ID,
		)
		if err != nil {
			return r.technical(ctx, "db_update_error", err, "failed to reactivate subscriber")
		}
		r.log.Info().Ctx(ctx).Str("email", email).Dur("duration", time.Since(start)).
			Msg("subscriber reactivated")
		return nil
	}

	_, err = r.DB.ExecContext(ctx,
		`INSERT INTO subscribers (email, token, confirmed, unsubscribed, created_at)
		 VALUES (?, ?, 0, 0, ?)`,
		email, token, time.Now().UTC(),
	)
	if err != nil {
		return r.technical(ctx, "db_insert_error", err, "failed to insert subscriber")
	}

	r.log.Info().Ctx(ctx).Str("email", email).Dur("duration", time.Since(start)).
		Msg("subscriber created")
	return nil
}

func (r *SubscriberRepository) Confirm(ctx context.Context, token string) (bool, error) {
	return r.updateByToken(ctx,
		"UPDATE subscribers SET confirmed = 1 WHERE token = ? AND unsubscribed = 0", token, "confirm")
}

func (r *SubscriberRepository) Unsubscribe(ctx context.Context, token string) (bool, error) {
	return r.updateByToken(ctx,
		"UPDATE subscribers SET unsubscribed = 1 WHERE token = ? AND unsubscribed = 0", token, "unsubscribe")
}

func (r *SubscriberRepository) GetByEmail(ctx context.Context, email string) (models.Subscriber, error) {
	var s models.Subscriber
	err := r.DB.QueryRowContext(ctx,
		`SELECT id, email, token, confirmed, unsubscribed, created_at FROM subscribers WHERE email = ?`, email,
	).Scan(&s.ID, &s.Email, &s.Token, &s.Confirmed, &s.Unsubscribed, &s.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Subscriber{}, models.ErrSubscriberNotFound
	}
	if err != nil {
		return models.Subscriber{}, r.technical(ctx, "db_query_error", err, "failed to get subscriber")
	}
	return s, nil
}

// Count returns subscribers that have not unsubscribed.
func (r *SubscriberRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM subscribers WHERE unsubscribed = 0`,
	).Scan(&n)
	if err != nil {
		return 0, r.technical(ctx, "db_query_error", err, "failed to count subscribers")
	}
	return n, nil
}

func (r *SubscriberRepository) updateByToken(ctx context.Context, query, token, op string) (bool, error) {
	start := time.Now()
	r.log.Debug().Ctx(ctx).Str("token", token).Str("op", op).Msg("updating subscriber by token")

	res, err := r.DB.ExecContext(ctx, query, token)
	if err != nil {
		return false, r.technical(ctx, "db_update_error", err, "failed to execute "+op)
	}
	count, err := res.RowsAffected()
	if err != nil {
		return false, r.technical(ctx, "db_rows_error", err, "failed to get rows affected for "+op)
	}

	r.log.Info().Ctx(ctx).
		Str("token", token).
		Str("op", op).
		Int64("rows", count).
		Dur("duration", time.Since(start)).
		Msg("subscriber update completed")
	return count > 0, nil
}

func (r *SubscriberRepository) technical(ctx context.Context, errType string, err error, msg string) error {
	r.log.Error().Err(err).Ctx(ctx).Msg(msg)
	r.m.TechnicalErrors.WithLabelValues(errType, "critical").Inc()
	return err
}
