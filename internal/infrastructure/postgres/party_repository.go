package postgres

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"github.com/stockceramique/stockceramique-api/internal/domain"
	"github.com/stockceramique/stockceramique-api/internal/domain/entity"
	"github.com/stockceramique/stockceramique-api/internal/domain/repository"
)

var (
	_ repository.SupplierRepository  = (*SupplierRepo)(nil)
	_ repository.RequestorRepository = (*RequestorRepo)(nil)
)

// Las columnas coinciden con los campos en snake_case: pgxscan escanea directo a la entidad.
var (
	supplierColumns  = []string{"id", "nom", "contact", "telephone", "email", "adresse", "created_at"}
	requestorColumns = []string{"id", "nom", "prenom", "departement", "poste", "email", "telephone", "created_at"}
)

// SupplierRepo proveedores sobre PostgreSQL.
type SupplierRepo struct {
	q Querier
}

// NewSupplierRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSupplierRepository(q Querier) *SupplierRepo {
	return &SupplierRepo{q: q}
}

func (r *SupplierRepo) Create(ctx context.Context, s *entity.Supplier) error {
	sql, args, err := psql.Insert("fournisseurs").Columns(supplierColumns...).
		Values(s.ID, s.Nom, s.Contact, s.Telephone, s.Email, s.Adresse, s.CreatedAt).ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	if _, err := r.q.Exec(ctx, sql, args...); err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert fournisseur: %w", err)
	}
	return nil
}

func (r *SupplierRepo) GetByID(ctx context.Context, id string) (*entity.Supplier, error) {
	if !validID(id) {
		return nil, nil
	}
	sql, args, err := psql.Select(supplierColumns...).From("fournisseurs").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	var s entity.Supplier
	if err := pgxscan.Get(ctx, r.q, &s, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get fournisseur: %w", err)
	}
	return &s, nil
}

func (r *SupplierRepo) List(ctx context.Context) ([]*entity.Supplier, error) {
	sql, args, err := psql.Select(supplierColumns...).From("fournisseurs").OrderBy("nom", "id").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	var list []*entity.Supplier
	if err := pgxscan.Select(ctx, r.q, &list, sql, args...); err != nil {
		return nil, fmt.Errorf("list fournisseurs: %w", err)
	}
	return list, nil
}

func (r *SupplierRepo) Update(ctx context.Context, s *entity.Supplier) error {
	if !validID(s.ID) {
		return domain.ErrNotFound
	}
	sql, args, err := psql.Update("fournisseurs").SetMap(map[string]any{
		"nom":       s.Nom,
		"contact":   s.Contact,
		"telephone": s.Telephone,
		"email":     s.Email,
		"adresse":   s.Adresse,
	}).Where(squirrel.Eq{"id": s.ID}).ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}
	return execOne(ctx, r.q, "update fournisseur", sql, args...)
}

func (r *SupplierRepo) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return domain.ErrNotFound
	}
	return execOne(ctx, r.q, "delete fournisseur", "DELETE FROM fournisseurs WHERE id = $1", id)
}

// RequestorRepo demandeurs sobre PostgreSQL.
type RequestorRepo struct {
	q Querier
}

// NewRequestorRepository construye el adaptador. Pasar pool o tx (Querier).
func NewRequestorRepository(q Querier) *RequestorRepo {
	return &RequestorRepo{q: q}
}

func (r *RequestorRepo) Create(ctx context.Context, req *entity.Requestor) error {
	sql, args, err := psql.Insert("demandeurs").Columns(requestorColumns...).
		Values(req.ID, req.Nom, req.Prenom, req.Departement, req.Poste, req.Email, req.Telephone, req.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	if _, err := r.q.Exec(ctx, sql, args...); err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert demandeur: %w", err)
	}
	return nil
}

func (r *RequestorRepo) GetByID(ctx context.Context, id string) (*entity.Requestor, error) {
	if !validID(id) {
		return nil, nil
	}
	sql, args, err := psql.Select(requestorColumns...).From("demandeurs").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	var req entity.Requestor
	if err := pgxscan.Get(ctx, r.q, &req, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get demandeur: %w", err)
	}
	return &req, nil
}

func (r *RequestorRepo) List(ctx context.Context) ([]*entity.Requestor, error) {
	sql, args, err := psql.Select(requestorColumns...).From("demandeurs").OrderBy("nom", "prenom", "id").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	var list []*entity.Requestor
	if err := pgxscan.Select(ctx, r.q, &list, sql, args...); err != nil {
		return nil, fmt.Errorf("list demandeurs: %w", err)
	}
	return list, nil
}

func (r *RequestorRepo) Update(ctx context.Context, req *entity.Requestor) error {
	if !validID(req.ID) {
		return domain.ErrNotFound
	}
	sql, args, err := psql.Update("demandeurs").SetMap(map[string]any{
		"nom":         req.Nom,
		"prenom":      req.Prenom,
		"departement": req.Departement,
		"poste":       req.Poste,
		"email":       req.Email,
		"telephone":   req.Telephone,
	}).Where(squirrel.Eq{"id": req.ID}).ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}
	return execOne(ctx, r.q, "update demandeur", sql, args...)
}

func (r *RequestorRepo) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return domain.ErrNotFound
	}
	return execOne(ctx, r.q, "delete demandeur", "DELETE FROM demandeurs WHERE id = $1", id)
}

// execOne ejecuta una sentencia que debe afectar exactamente una fila; 0 filas = ErrNotFound.
func execOne(ctx context.Context, q Querier, op, sql string, args ...any) error {
	tag, err := q.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
