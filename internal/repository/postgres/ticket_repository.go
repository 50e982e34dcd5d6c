// Package postgres implements the ticket repository over a pgx pool.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/helpdesk-console/internal/domain"
	"github.com/spec-kit/helpdesk-console/internal/repository"
)

const ticketColumns = `id, owner_id, ticket_type, priority, suggested_team, status, lifecycle_stage,
       title, description, user_name, app_or_system, collected_details, external_ids,
       assignee, source, asset_id, reopened_count, csat_score, csat_comment,
       created_at, updated_at, first_response_at, resolved_at, sla_due_at,
       sla_breached_at, csat_submitted_at`

// TicketRepository persists tickets in the tickets table, one row per record.
type TicketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates the repository.
func NewTicketRepository(pool *pgxpool.Pool) *TicketRepository {
	return &TicketRepository{pool: pool}
}

// Create assigns identity, timestamps and the SLA deadline, then inserts the
// ticket.
func (r *TicketRepository) Create(ctx context.Context, params domain.NewTicketParams) (*domain.Ticket, error) {
	ticket := domain.NewTicket(params, nowUTC())

	const query = `
        INSERT INTO tickets (id, owner_id, ticket_type, priority, suggested_team, status, lifecycle_stage,
            title, description, user_name, app_or_system, collected_details, external_ids,
            assignee, source, asset_id, reopened_count, csat_score, csat_comment,
            created_at, updated_at, first_response_at, resolved_at, sla_due_at,
            sla_breached_at, csat_submitted_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22,$23,$24,$25,$26)`
	_, err := r.pool.Exec(ctx, query, ticketArgs(ticket)...)
	if err != nil {
		return nil, err
	}
	return ticket, nil
}

// List filters, sorts newest-created-first and paginates; total reflects the
// filtered count before pagination.
func (r *TicketRepository) List(ctx context.Context, filter repository.TicketFilter) ([]domain.Ticket, int, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.OwnerID != "" {
		args = append(args, filter.OwnerID)
		clauses = append(clauses, fmt.Sprintf("owner_id=$%d", len(args)))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		clauses = append(clauses, fmt.Sprintf("status=$%d", len(args)))
	}
	if filter.Priority != nil {
		args = append(args, *filter.Priority)
		clauses = append(clauses, fmt.Sprintf("priority=$%d", len(args)))
	}
	if filter.TicketType != nil {
		args = append(args, *filter.TicketType)
		clauses = append(clauses, fmt.Sprintf("ticket_type=$%d", len(args)))
	}
	if filter.SuggestedTeam != nil {
		args = append(args, *filter.SuggestedTeam)
		clauses = append(clauses, fmt.Sprintf("suggested_team=$%d", len(args)))
	}
	where := strings.Join(clauses, " AND ")

	var total int
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM tickets WHERE %s", where)
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = repository.DefaultPageSize
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`SELECT %s FROM tickets WHERE %s ORDER BY created_at DESC, id DESC LIMIT %d OFFSET %d`,
		ticketColumns, where, limit, offset)
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	tickets, err := scanTickets(rows)
	if err != nil {
		return nil, 0, err
	}
	return tickets, total, nil
}

// GetByID returns nil, nil for an unknown id.
func (r *TicketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	query := fmt.Sprintf("SELECT %s FROM tickets WHERE id=$1", ticketColumns)
	ticket, err := scanTicket(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return ticket, nil
}

// Update merges the patch onto the stored row. Last write wins; concurrent
// updates to the same ticket race deliberately (no version column).
func (r *TicketRepository) Update(ctx context.Context, id string, patch repository.TicketPatch) (*domain.Ticket, error) {
	ticket, err := r.GetByID(ctx, id)
	if err != nil || ticket == nil {
		return nil, err
	}
	patch.Apply(ticket, nowUTC())

	const query = `
        UPDATE tickets SET owner_id=$2, ticket_type=$3, priority=$4, suggested_team=$5, status=$6,
            lifecycle_stage=$7, title=$8, description=$9, user_name=$10, app_or_system=$11,
            collected_details=$12, external_ids=$13, assignee=$14, source=$15, asset_id=$16,
            reopened_count=$17, csat_score=$18, csat_comment=$19, created_at=$20, updated_at=$21,
            first_response_at=$22, resolved_at=$23, sla_due_at=$24, sla_breached_at=$25,
            csat_submitted_at=$26
        WHERE id=$1`
	if _, err := r.pool.Exec(ctx, query, ticketArgs(ticket)...); err != nil {
		return nil, err
	}
	return ticket, nil
}

// Delete reports false, nil for an unknown id.
func (r *TicketRepository) Delete(ctx context.Context, id string) (bool, error) {
	cmd, err := r.pool.Exec(ctx, "DELETE FROM tickets WHERE id=$1", id)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}

// Search matches the query case-insensitively against title, description,
// user_name and app_or_system.
func (r *TicketRepository) Search(ctx context.Context, ownerID, query string) ([]domain.Ticket, error) {
	needle := "%" + strings.ToLower(strings.TrimSpace(query)) + "%"
	args := []any{needle}
	scope := ""
	if ownerID != "" {
		args = append(args, ownerID)
		scope = " AND owner_id=$2"
	}
	sql := fmt.Sprintf(`SELECT %s FROM tickets
        WHERE (LOWER(title) LIKE $1 OR LOWER(description) LIKE $1 OR LOWER(user_name) LIKE $1 OR LOWER(app_or_system) LIKE $1)%s
        ORDER BY created_at DESC, id DESC`, ticketColumns, scope)

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTickets(rows)
}

// Counts aggregates by status across the owner scope.
func (r *TicketRepository) Counts(ctx context.Context, ownerID string) (domain.StatusCounts, error) {
	args := []any{}
	scope := ""
	if ownerID != "" {
		args = append(args, ownerID)
		scope = " WHERE owner_id=$1"
	}
	rows, err := r.pool.Query(ctx, "SELECT status, COUNT(*) FROM tickets"+scope+" GROUP BY status", args...)
	if err != nil {
		return domain.StatusCounts{}, err
	}
	defer rows.Close()

	var counts domain.StatusCounts
	for rows.Next() {
		var status domain.TicketStatus
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return domain.StatusCounts{}, err
		}
		for i := 0; i < n; i++ {
			counts.Add(status)
		}
	}
	return counts, rows.Err()
}

// All returns every ticket in the owner scope, newest first.
func (r *TicketRepository) All(ctx context.Context, ownerID string) ([]domain.Ticket, error) {
	args := []any{}
	scope := ""
	if ownerID != "" {
		args = append(args, ownerID)
		scope = " WHERE owner_id=$1"
	}
	query := fmt.Sprintf("SELECT %s FROM tickets%s ORDER BY created_at DESC, id DESC", ticketColumns, scope)
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTickets(rows)
}

func ticketArgs(t *domain.Ticket) []any {
	return []any{
		t.ID,
		t.OwnerID,
		t.TicketType,
		t.Priority,
		t.SuggestedTeam,
		t.Status,
		t.LifecycleStage,
		t.Title,
		t.Description,
		t.UserName,
		t.AppOrSystem,
		t.CollectedDetails,
		t.ExternalIDs,
		t.Assignee,
		t.Source,
		t.AssetID,
		t.ReopenedCount,
		t.CSATScore,
		t.CSATComment,
		t.CreatedAt,
		t.UpdatedAt,
		t.FirstResponseAt,
		t.ResolvedAt,
		t.SLADueAt,
		t.SLABreachedAt,
		t.CSATSubmittedAt,
	}
}

func nowUTC() time.Time {
	return time.Now().UTC()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTicket(row rowScanner) (*domain.Ticket, error) {
	var t domain.Ticket
	if err := row.Scan(
		&t.ID,
		&t.OwnerID,
		&t.TicketType,
		&t.Priority,
		&t.SuggestedTeam,
		&t.Status,
		&t.LifecycleStage,
		&t.Title,
		&t.Description,
		&t.UserName,
		&t.AppOrSystem,
		&t.CollectedDetails,
		&t.ExternalIDs,
		&t.Assignee,
		&t.Source,
		&t.AssetID,
		&t.ReopenedCount,
		&t.CSATScore,
		&t.CSATComment,
		&t.CreatedAt,
		&t.UpdatedAt,
		&t.FirstResponseAt,
		&t.ResolvedAt,
		&t.SLADueAt,
		&t.SLABreachedAt,
		&t.CSATSubmittedAt,
	); err != nil {
		return nil, err
	}
	return &t, nil
}

func scanTickets(rows pgx.Rows) ([]domain.Ticket, error) {
	var result []domain.Ticket
	for rows.Next() {
		ticket, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *ticket)
	}
	return result, rows.Err()
}
