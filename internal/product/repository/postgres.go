package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/fekuna/omnipos-bar-service/internal/apperr"
	"github.com/fekuna/omnipos-bar-service/internal/model"
	"github.com/fekuna/omnipos-bar-service/internal/product/dto"
	"github.com/fekuna/omnipos-bar-service/pkg/database/postgres"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) Create(ctx context.Context, p *model.Product) error {
	query := `
        INSERT INTO products (
            id, code, name, description, price, category, kind,
            is_active, created_at, updated_at
        )
        VALUES (
            :id, :code, :name, :description, :price, :category, :kind,
            :is_active, :created_at, :updated_at
        )
    `
	_, err := sqlx.NamedExecContext(ctx, postgres.Executor(ctx, r.DB), query, p)
	if postgres.IsUniqueViolation(err) {
		return apperr.DuplicateCode(p.Code)
	}
	return err
}

func (r *PGRepository) FindByID(ctx context.Context, id string) (*model.Product, error) {
	var product model.Product
	query := `SELECT * FROM products WHERE id = $1 LIMIT 1`
	err := sqlx.GetContext(ctx, postgres.Executor(ctx, r.DB), &product, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

func (r *PGRepository) FindByIDs(ctx context.Context, ids []string) ([]model.Product, error) {
	if len(ids) == 0 {
		return []model.Product{}, nil
	}

	query, args, err := sqlx.In(`SELECT * FROM products WHERE id IN (?)`, ids)
	if err != nil {
		return nil, err
	}
	query = r.DB.Rebind(query)

	var products []model.Product
	err = sqlx.SelectContext(ctx, postgres.Executor(ctx, r.DB), &products, query, args...)
	return products, err
}

func (r *PGRepository) FindByCode(ctx context.Context, code string) (*model.Product, error) {
	var product model.Product
	err := sqlx.GetContext(ctx, postgres.Executor(ctx, r.DB), &product, `SELECT * FROM products WHERE code = $1 LIMIT 1`, code)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

func (r *PGRepository) FindAll(ctx context.Context, f *dto.ProductFilters) ([]model.Product, int, error) {
	var products []model.Product
	var count int

	conditions := []string{}
	args := map[string]interface{}{}

	if f.Category != "" {
		conditions = append(conditions, "category = :category")
		args["category"] = f.Category
	}
	if f.Kind != "" {
		conditions = append(conditions, "kind = :kind")
		args["kind"] = f.Kind
	}
	if f.IsActive != nil {
		conditions = append(conditions, "is_active = :is_active")
		args["is_active"] = *f.IsActive
	}
	if f.SearchQuery != "" {
		conditions = append(conditions, "(name ILIKE :search OR code ILIKE :search)")
		args["search"] = "%" + f.SearchQuery + "%"
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := "SELECT count(*) FROM products" + whereClause
	rows, err := r.DB.NamedQueryContext(ctx, countQuery, args)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	if rows.Next() {
		if err := rows.Scan(&count); err != nil {
			return nil, 0, err
		}
	}

	orderBy := "category, name"
	if f.SortBy != "" {
		switch f.SortBy {
		case "name":
			orderBy = "name"
		case "price":
			orderBy = "price"
		case "created_at":
			orderBy = "created_at"
		}
		if strings.ToLower(f.SortOrder) == "desc" {
			orderBy += " DESC"
		} else {
			orderBy += " ASC"
		}
	}

	query := fmt.Sprintf("SELECT * FROM products%s ORDER BY %s", whereClause, orderBy)
	if f.PageSize > 0 {
		offset := (max(f.Page, 1) - 1) * f.PageSize
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, offset)
	}

	nstmt, err := r.DB.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	defer nstmt.Close()

	if err := nstmt.SelectContext(ctx, &products, args); err != nil {
		return nil, 0, err
	}
	return products, count, nil
}

func (r *PGRepository) Update(ctx context.Context, p *model.Product) error {
	query := `
        UPDATE products
        SET code = :code,
            name = :name,
            description = :description,
            price = :price,
            category = :category,
            is_active = :is_active,
            updated_at = :updated_at
        WHERE id = :id
    `
	_, err := sqlx.NamedExecContext(ctx, postgres.Executor(ctx, r.DB), query, p)
	if postgres.IsUniqueViolation(err) {
		return apperr.DuplicateCode(p.Code)
	}
	return err
}

func (r *PGRepository) IsCodeUnique(ctx context.Context, code, excludeID string) (bool, error) {
	var count int
	query := `SELECT count(*) FROM products WHERE code = $1`
	args := []interface{}{code}
	if excludeID != "" {
		query += ` AND id != $2`
		args = append(args, excludeID)
	}

	if err := sqlx.GetContext(ctx, postgres.Executor(ctx, r.DB), &count, query, args...); err != nil {
		return false, err
	}
	return count == 0, nil
}

func (r *PGRepository) FindRecipe(ctx context.Context, productID string) ([]model.RecipeLine, error) {
	query := `
        SELECT rl.id, rl.product_id, rl.component_id, rl.quantity, rl.optional, rl.option_group,
               c.code AS component_code, c.name AS component_name, c.kind AS component_kind
        FROM recipe_lines rl
        JOIN products c ON c.id = rl.component_id
        WHERE rl.product_id = $1
        ORDER BY rl.option_group NULLS FIRST, c.name
    `
	var lines []model.RecipeLine
	err := sqlx.SelectContext(ctx, postgres.Executor(ctx, r.DB), &lines, query, productID)
	return lines, err
}

// ReplaceRecipe deletes and re-inserts the recipe lines. Callers run it
// inside a transaction together with the product write.
func (r *PGRepository) ReplaceRecipe(ctx context.Context, productID string, lines []model.RecipeLine) error {
	ex := postgres.Executor(ctx, r.DB)
	if _, err := ex.ExecContext(ctx, `DELETE FROM recipe_lines WHERE product_id = $1`, productID); err != nil {
		return fmt.Errorf("delete recipe: %w", err)
	}

	query := `
        INSERT INTO recipe_lines (id, product_id, component_id, quantity, optional, option_group)
        VALUES (:id, :product_id, :component_id, :quantity, :optional, :option_group)
    `
	for i := range lines {
		if lines[i].ID == "" {
			lines[i].ID = uuid.New().String()
		}
		lines[i].ProductID = productID
		if _, err := sqlx.NamedExecContext(ctx, ex, query, &lines[i]); err != nil {
			return fmt.Errorf("insert recipe line: %w", err)
		}
	}
	return nil
}
