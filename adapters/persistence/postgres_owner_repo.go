package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/khoahotran/devfolio/internal/domain/owner"
	"github.com/khoahotran/devfolio/pkg/apperror"
	"github.com/khoahotran/devfolio/pkg/logger"
)

// postgresOwnerRepo stores each owner as one jsonb document. The columns next
// to it duplicate what queries filter and sort on.
type postgresOwnerRepo struct {
	db     *pgxpool.Pool
	logger logger.Logger
}

func NewPostgresOwnerRepo(db *pgxpool.Pool, logger logger.Logger) owner.Repository {
	return &postgresOwnerRepo{db: db, logger: logger}
}

var psqlOwner = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

const uniqueViolation = "23505"

func scanOwner(row pgx.Row, resource, ident string) (*owner.Owner, error) {
	var (
		raw     []byte
		version int64
	)
	if err := row.Scan(&raw, &version); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFound(resource, ident)
		}
		return nil, apperror.NewInternal("failed to scan owner row", err)
	}
	return decodeOwner(raw, version)
}

func decodeOwner(raw []byte, version int64) (*owner.Owner, error) {
	var doc ownerDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, apperror.NewInternal("failed to unmarshal owner document", err)
	}
	doc.Version = version
	o, err := doc.toDomain()
	if err != nil {
		return nil, apperror.NewInternal("failed to decode owner document", err)
	}
	return o, nil
}

func (r *postgresOwnerRepo) Create(ctx context.Context, o *owner.Owner) error {
	doc := toOwnerDocument(o)
	doc.Version = 1
	raw, err := json.Marshal(doc)
	if err != nil {
		return apperror.NewInternal("failed to marshal owner document", err)
	}

	query := `
		INSERT INTO owners (id, email, name, education, profile_complete, version, document, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err = r.db.Exec(ctx, query,
		o.ID, o.Email, o.Name, o.Education, o.ProfileComplete,
		doc.Version, raw, o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return apperror.NewConflict("User", "email", o.Email)
		}
		r.logger.Error("Failed to insert owner", err, zap.String("owner_id", o.ID.String()))
		return apperror.NewInternal("failed to save owner", err)
	}
	o.Version = doc.Version
	return nil
}

func (r *postgresOwnerRepo) FindByID(ctx context.Context, id uuid.UUID) (*owner.Owner, error) {
	row := r.db.QueryRow(ctx, `SELECT document, version FROM owners WHERE id = $1`, id)
	return scanOwner(row, "User", id.String())
}

func (r *postgresOwnerRepo) FindByEmail(ctx context.Context, email string) (*owner.Owner, error) {
	email = owner.NormalizeEmail(email)
	row := r.db.QueryRow(ctx, `SELECT document, version FROM owners WHERE email = $1`, email)
	return scanOwner(row, "User", email)
}

func (r *postgresOwnerRepo) FindAnyComplete(ctx context.Context) (*owner.Owner, error) {
	query := `
		SELECT document, version FROM owners
		WHERE profile_complete = true
		ORDER BY created_at ASC, id ASC
		LIMIT 1
	`
	return scanOwner(r.db.QueryRow(ctx, query), "Profile", "profile_complete=true")
}

func (r *postgresOwnerRepo) ListComplete(ctx context.Context) ([]*owner.Owner, error) {
	builder := psqlOwner.Select("document", "version").
		From("owners").
		Where(sq.Eq{"profile_complete": true}).
		OrderBy("created_at ASC", "id ASC")
	return r.query(ctx, builder)
}

func (r *postgresOwnerRepo) Search(ctx context.Context, q owner.SearchQuery) ([]*owner.Owner, int64, error) {
	where := sq.And{sq.Eq{"profile_complete": true}}
	if text := strings.TrimSpace(q.Text); text != "" {
		pattern := "%" + escapeLike(text) + "%"
		where = append(where, sq.Or{
			sq.ILike{"name": pattern},
			sq.ILike{"email": pattern},
			sq.ILike{"education": pattern},
			sq.Expr("EXISTS (SELECT 1 FROM jsonb_array_elements_text(document->'skills') AS s WHERE s ILIKE ?)", pattern),
		})
	}

	countSQL, countArgs, err := psqlOwner.Select("COUNT(*)").From("owners").Where(where).ToSql()
	if err != nil {
		return nil, 0, apperror.NewInternal("failed to build owner count query", err)
	}
	var total int64
	if err := r.db.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, apperror.NewInternal("failed to count owners", err)
	}

	builder := psqlOwner.Select("document", "version").
		From("owners").
		Where(where).
		OrderBy(`name COLLATE "C" ASC`, "id ASC").
		Offset(uint64(q.Skip))
	if q.Limit > 0 {
		builder = builder.Limit(uint64(q.Limit))
	}
	owners, err := r.query(ctx, builder)
	if err != nil {
		return nil, 0, err
	}
	return owners, total, nil
}

func (r *postgresOwnerRepo) query(ctx context.Context, builder sq.SelectBuilder) ([]*owner.Owner, error) {
	sql, args, err := builder.ToSql()
	if err != nil {
		return nil, apperror.NewInternal("failed to build owner query", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		r.logger.Error("Failed to query owners", err)
		return nil, apperror.NewInternal("failed to query owners", err)
	}
	defer rows.Close()

	owners := make([]*owner.Owner, 0)
	for rows.Next() {
		o, err := scanOwner(rows, "User", "")
		if err != nil {
			return nil, err
		}
		owners = append(owners, o)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewInternal("error iterating owner rows", err)
	}
	return owners, nil
}

func (r *postgresOwnerRepo) Save(ctx context.Context, o *owner.Owner) error {
	doc := toOwnerDocument(o)
	doc.Version = o.Version + 1
	raw, err := json.Marshal(doc)
	if err != nil {
		return apperror.NewInternal("failed to marshal owner document", err)
	}

	sql, args, err := psqlOwner.Update("owners").
		SetMap(map[string]interface{}{
			"email":            o.Email,
			"name":             o.Name,
			"education":        o.Education,
			"profile_complete": o.ProfileComplete,
			"version":          doc.Version,
			"document":         raw,
			"updated_at":       o.UpdatedAt,
		}).
		Where(sq.Eq{"id": o.ID, "version": o.Version}).
		ToSql()
	if err != nil {
		return apperror.NewInternal("failed to build owner update", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return apperror.NewConflict("User", "email", o.Email)
		}
		r.logger.Error("Failed to update owner", err, zap.String("owner_id", o.ID.String()))
		return apperror.NewInternal("failed to update owner", err)
	}

	if cmdTag.RowsAffected() == 0 {
		var exists bool
		err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM owners WHERE id = $1)`, o.ID).Scan(&exists)
		if err != nil {
			return apperror.NewInternal("failed to check owner", err)
		}
		if !exists {
			return apperror.NewNotFound("User", o.ID.String())
		}
		return owner.ErrVersionConflict
	}

	o.Version = doc.Version
	return nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
