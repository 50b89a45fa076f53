package database

import (
	"context"
	"database/sql"
	"errors"

	"github.com/doug-martin/goqu/v9"

	"github.com/carelink/backend/internal/domain/entities"
	"github.com/carelink/backend/internal/domain/repositories"
	"github.com/carelink/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/carelink/backend/pkg/errors"
)

// BlogAdapter implements BlogRepository on PostgreSQL
type BlogAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewBlogAdapter creates a new blog adapter
func NewBlogAdapter(client *postgres.Client) repositories.BlogRepository {
	return &BlogAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// ensureAuthor fails with a validation error when the author does not exist
func ensureAuthor(ctx context.Context, q querier, authorID int64) error {
	query, args, err := toSQL(dialect.From("users").Select(goqu.L("1")).Where(goqu.C("id").Eq(authorID)).Prepared(true), "author check")
	if err != nil {
		return err
	}

	var one int
	err = q.QueryRowContext(ctx, query, args...).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return apperrors.NewValidationError("invalid author_id")
	}
	if err != nil {
		return mapDBError("failed to check blog author", err)
	}
	return nil
}

func blogRecord(b *entities.Blog) goqu.Record {
	return goqu.Record{
		"title":        b.Title,
		"content":      b.Content,
		"excerpt":      nullString(b.Excerpt),
		"category":     nullString(b.Category),
		"full_content": nullString(b.FullContent),
		"publish_date": nullTime(b.PublishDate),
		"author_id":    b.AuthorID,
		"status":       string(b.Status),
	}
}

// Create verifies the author and inserts the blog in one transaction
func (a *BlogAdapter) Create(ctx context.Context, b *entities.Blog) error {
	return a.client.WithTx(ctx, func(tx *sql.Tx) error {
		if err := ensureAuthor(ctx, tx, b.AuthorID); err != nil {
			return err
		}

		record := blogRecord(b)
		record["image"] = nullString(b.Image)

		query, args, err := toSQL(dialect.Insert("blogs").Rows(record).Returning("id", "created_at", "updated_at").Prepared(true), "blog insert")
		if err != nil {
			return err
		}
		if err := tx.QueryRowContext(ctx, query, args...).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return mapDBError("failed to create blog", err)
		}
		return nil
	})
}

// Update verifies the author and rewrites the blog in one transaction
func (a *BlogAdapter) Update(ctx context.Context, b *entities.Blog, keepImage bool) error {
	return a.client.WithTx(ctx, func(tx *sql.Tx) error {
		if err := ensureAuthor(ctx, tx, b.AuthorID); err != nil {
			return err
		}

		record := blogRecord(b)
		record["updated_at"] = goqu.L("NOW()")
		if !keepImage {
			record["image"] = nullString(b.Image)
		}

		query, args, err := toSQL(dialect.Update("blogs").
			Set(record).
			Where(goqu.C("id").Eq(b.ID)).
			Returning("image", "created_at", "updated_at").
			Prepared(true), "blog update")
		if err != nil {
			return err
		}

		var image sql.NullString
		err = tx.QueryRowContext(ctx, query, args...).Scan(&image, &b.CreatedAt, &b.UpdatedAt)
		if errors.Is(err, sql.ErrNoRows) {
			return apperrors.NewNotFoundError("blog not found")
		}
		if err != nil {
			return mapDBError("failed to update blog", err)
		}
		b.Image = stringPtr(image)
		return nil
	})
}

func (a *BlogAdapter) joined() *goqu.SelectDataset {
	return a.db.From(goqu.T("blogs").As("b")).
		LeftJoin(goqu.T("users").As("u"), goqu.On(goqu.I("u.id").Eq(goqu.I("b.author_id")))).
		Select(
			"b.id", "b.title", "b.content", "b.excerpt", "b.category", "b.full_content",
			"b.publish_date", "b.image", "b.author_id", "b.status", "b.created_at", "b.updated_at",
			goqu.I("u.name").As("author_name"),
		)
}

// GetByID retrieves a blog
func (a *BlogAdapter) GetByID(ctx context.Context, id int64) (*entities.Blog, error) {
	query, args, err := toSQL(a.joined().Where(goqu.I("b.id").Eq(id)).Prepared(true), "blog select")
	if err != nil {
		return nil, err
	}

	b, err := scanBlog(a.client.DB().QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFoundError("blog not found")
	}
	if err != nil {
		return nil, mapDBError("failed to get blog", err)
	}
	return b, nil
}

// List retrieves blogs newest first, optionally for one category
func (a *BlogAdapter) List(ctx context.Context, category string) ([]*entities.Blog, error) {
	ds := a.joined()
	if category != "" {
		ds = ds.Where(goqu.I("b.category").Eq(category))
	}
	ds = ds.Order(goqu.I("b.created_at").Desc(), goqu.I("b.id").Desc())

	query, args, err := toSQL(ds.Prepared(true), "blog list")
	if err != nil {
		return nil, err
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapDBError("failed to list blogs", err)
	}
	defer rows.Close()

	blogs := make([]*entities.Blog, 0)
	for rows.Next() {
		b, err := scanBlog(rows)
		if err != nil {
			return nil, mapDBError("failed to scan blog", err)
		}
		blogs = append(blogs, b)
	}
	if err := rows.Err(); err != nil {
		return nil, mapDBError("failed to list blogs", err)
	}
	return blogs, nil
}

// Delete removes a blog
func (a *BlogAdapter) Delete(ctx context.Context, id int64) error {
	query, args, err := toSQL(a.db.Delete("blogs").Where(goqu.C("id").Eq(id)).Prepared(true), "blog delete")
	if err != nil {
		return err
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return mapDBError("failed to delete blog", err)
	}
	return checkAffected(result, "blog not found")
}

func scanBlog(row rowScanner) (*entities.Blog, error) {
	var (
		b           entities.Blog
		excerpt     sql.NullString
		category    sql.NullString
		fullContent sql.NullString
		publishDate sql.NullTime
		image       sql.NullString
		status      string
		authorName  sql.NullString
	)
	if err := row.Scan(&b.ID, &b.Title, &b.Content, &excerpt, &category, &fullContent,
		&publishDate, &image, &b.AuthorID, &status, &b.CreatedAt, &b.UpdatedAt, &authorName); err != nil {
		return nil, err
	}
	b.Excerpt = stringPtr(excerpt)
	b.Category = stringPtr(category)
	b.FullContent = stringPtr(fullContent)
	b.PublishDate = timePtr(publishDate)
	b.Image = stringPtr(image)
	b.Status = entities.BlogStatus(status)
	b.AuthorName = stringPtr(authorName)
	return &b, nil
}
