package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/mateuszmatysiak/collab-list/internal/apperror"
	"github.com/mateuszmatysiak/collab-list/internal/database"
	"github.com/mateuszmatysiak/collab-list/internal/models"
)

// Postgres implements Store on top of the pgx connection pool. Missing
// rows map to apperror.NotFound and unique violations to
// apperror.Conflict, keyed by constraint name.
type Postgres struct {
	db *database.DB
}

func NewPostgres(db *database.DB) *Postgres {
	return &Postgres{db: db}
}

var conflictMessages = map[string]string{
	"users_login_key":                   "A user with this login already exists",
	"user_categories_personal_name_idx": "A category with this name already exists",
	"user_categories_local_name_idx":    "A local category with this name already exists in this list",
	"list_shares_list_id_user_id_key":   "List is already shared with this user",
}

func translateError(err error, notFoundMessage string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return apperror.NotFound(notFoundMessage)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		if msg, ok := conflictMessages[pgErr.ConstraintName]; ok {
			return apperror.Conflict(msg)
		}
		return apperror.Conflict("Resource already exists")
	}
	return err
}

// Users

func (p *Postgres) CreateUser(ctx context.Context, user *models.User) error {
	err := p.db.QueryRow(ctx,
		`INSERT INTO users (id, name, login, password_hash)
		 VALUES ($1, $2, $3, $4)
		 RETURNING created_at`,
		user.ID, user.Name, user.Login, user.PasswordHash).Scan(&user.CreatedAt)
	if err != nil {
		return translateError(err, "User not found")
	}
	return nil
}

func (p *Postgres) UserByID(ctx context.Context, id string) (*models.User, error) {
	return p.scanUser(ctx,
		`SELECT id, name, login, password_hash, created_at FROM users WHERE id = $1`, id)
}

func (p *Postgres) UserByLogin(ctx context.Context, login string) (*models.User, error) {
	return p.scanUser(ctx,
		`SELECT id, name, login, password_hash, created_at FROM users WHERE login = $1`, login)
}

func (p *Postgres) scanUser(ctx context.Context, query string, arg any) (*models.User, error) {
	var user models.User
	err := p.db.QueryRow(ctx, query, arg).Scan(
		&user.ID, &user.Name, &user.Login, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		return nil, translateError(err, "User not found")
	}
	return &user, nil
}

// System categories

func (p *Postgres) CopySystemCategoriesToUser(ctx context.Context, userID string) error {
	_, err := p.db.Exec(ctx,
		`INSERT INTO user_categories (id, user_id, name, icon, list_id)
		 SELECT gen_random_uuid(), $1, name, icon, NULL FROM system_categories`,
		userID)
	if err != nil {
		return fmt.Errorf("failed to copy system categories: %w", err)
	}
	return nil
}

// Refresh tokens

func (p *Postgres) CreateRefreshToken(ctx context.Context, token *models.RefreshToken) error {
	err := p.db.QueryRow(ctx,
		`INSERT INTO refresh_tokens (id, token, user_id, expires_at)
		 VALUES ($1, $2, $3, $4)
		 RETURNING created_at`,
		token.ID, token.Token, token.UserID, token.ExpiresAt).Scan(&token.CreatedAt)
	if err != nil {
		return translateError(err, "Refresh token not found")
	}
	return nil
}

func (p *Postgres) RotateRefreshToken(ctx context.Context, oldToken string, newToken *models.RefreshToken) (string, error) {
	tx, err := p.db.Begin(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var userID string
	err = tx.QueryRow(ctx,
		`DELETE FROM refresh_tokens WHERE token = $1 AND expires_at > NOW() RETURNING user_id`,
		oldToken).Scan(&userID)
	if err != nil {
		return "", translateError(err, "Refresh token not found")
	}

	newToken.UserID = userID
	err = tx.QueryRow(ctx,
		`INSERT INTO refresh_tokens (id, token, user_id, expires_at)
		 VALUES ($1, $2, $3, $4)
		 RETURNING created_at`,
		newToken.ID, newToken.Token, newToken.UserID, newToken.ExpiresAt).Scan(&newToken.CreatedAt)
	if err != nil {
		return "", translateError(err, "Refresh token not found")
	}

	if err := tx.Commit(ctx); err != nil {
		return "", fmt.Errorf("failed to commit token rotation: %w", err)
	}
	return userID, nil
}

func (p *Postgres) DeleteRefreshToken(ctx context.Context, token string) error {
	_, err := p.db.Exec(ctx, `DELETE FROM refresh_tokens WHERE token = $1`, token)
	return err
}

// Lists

func (p *Postgres) CreateList(ctx context.Context, list *models.List) error {
	err := p.db.QueryRow(ctx,
		`INSERT INTO lists (id, name, author_id) VALUES ($1, $2, $3) RETURNING created_at`,
		list.ID, list.Name, list.AuthorID).Scan(&list.CreatedAt)
	if err != nil {
		return translateError(err, "List not found")
	}
	return nil
}

func (p *Postgres) ListByID(ctx context.Context, id string) (*models.List, error) {
	var list models.List
	err := p.db.QueryRow(ctx,
		`SELECT id, name, author_id, created_at FROM lists WHERE id = $1`, id).Scan(
		&list.ID, &list.Name, &list.AuthorID, &list.CreatedAt)
	if err != nil {
		return nil, translateError(err, "List not found")
	}
	return &list, nil
}

func (p *Postgres) ListsOwnedBy(ctx context.Context, userID string) ([]models.List, error) {
	rows, err := p.db.Query(ctx,
		`SELECT id, name, author_id, created_at FROM lists WHERE author_id = $1 ORDER BY created_at`,
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	lists := make([]models.List, 0)
	for rows.Next() {
		var list models.List
		if err := rows.Scan(&list.ID, &list.Name, &list.AuthorID, &list.CreatedAt); err != nil {
			return nil, err
		}
		lists = append(lists, list)
	}
	return lists, rows.Err()
}

func (p *Postgres) ListsSharedWith(ctx context.Context, userID string) ([]SharedList, error) {
	rows, err := p.db.Query(ctx,
		`SELECT l.id, l.name, l.author_id, l.created_at, ls.role
		 FROM list_shares ls
		 JOIN lists l ON ls.list_id = l.id
		 WHERE ls.user_id = $1
		 ORDER BY l.created_at`,
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	shared := make([]SharedList, 0)
	for rows.Next() {
		var s SharedList
		if err := rows.Scan(&s.List.ID, &s.List.Name, &s.List.AuthorID, &s.List.CreatedAt, &s.Role); err != nil {
			return nil, err
		}
		shared = append(shared, s)
	}
	return shared, rows.Err()
}

func (p *Postgres) UpdateListName(ctx context.Context, id, name string) error {
	result, err := p.db.Exec(ctx, `UPDATE lists SET name = $1 WHERE id = $2`, name, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperror.NotFound("List not found")
	}
	return nil
}

func (p *Postgres) DeleteList(ctx context.Context, id string) error {
	result, err := p.db.Exec(ctx, `DELETE FROM lists WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperror.NotFound("List not found")
	}
	return nil
}

func (p *Postgres) ListCounts(ctx context.Context, listID string) (ListCounts, error) {
	var counts ListCounts
	err := p.db.QueryRow(ctx,
		`SELECT COUNT(*), COUNT(*) FILTER (WHERE is_completed)
		 FROM list_items WHERE list_id = $1`,
		listID).Scan(&counts.Items, &counts.Completed)
	if err != nil {
		return ListCounts{}, err
	}
	err = p.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM list_shares WHERE list_id = $1`, listID).Scan(&counts.Shares)
	if err != nil {
		return ListCounts{}, err
	}
	return counts, nil
}

// Shares

func (p *Postgres) ShareFor(ctx context.Context, listID, userID string) (*models.ListShare, error) {
	var share models.ListShare
	err := p.db.QueryRow(ctx,
		`SELECT id, list_id, user_id, role, created_at
		 FROM list_shares WHERE list_id = $1 AND user_id = $2`,
		listID, userID).Scan(&share.ID, &share.ListID, &share.UserID, &share.Role, &share.CreatedAt)
	if err != nil {
		return nil, translateError(err, "Share not found")
	}
	return &share, nil
}

func (p *Postgres) SharesByList(ctx context.Context, listID string) ([]models.ShareInfo, error) {
	rows, err := p.db.Query(ctx,
		`SELECT ls.id, u.id, u.name, u.login, ls.role, ls.created_at
		 FROM list_shares ls
		 JOIN users u ON ls.user_id = u.id
		 WHERE ls.list_id = $1
		 ORDER BY ls.created_at`,
		listID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	shares := make([]models.ShareInfo, 0)
	for rows.Next() {
		var info models.ShareInfo
		if err := rows.Scan(&info.ID, &info.UserID, &info.UserName, &info.UserLogin, &info.Role, &info.CreatedAt); err != nil {
			return nil, err
		}
		shares = append(shares, info)
	}
	return shares, rows.Err()
}

func (p *Postgres) CountShares(ctx context.Context, listID string) (int, error) {
	var count int
	err := p.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM list_shares WHERE list_id = $1`, listID).Scan(&count)
	return count, err
}

func (p *Postgres) CreateShare(ctx context.Context, share *models.ListShare) error {
	err := p.db.QueryRow(ctx,
		`INSERT INTO list_shares (id, list_id, user_id, role)
		 VALUES ($1, $2, $3, $4)
		 RETURNING created_at`,
		share.ID, share.ListID, share.UserID, share.Role).Scan(&share.CreatedAt)
	if err != nil {
		return translateError(err, "Share not found")
	}
	return nil
}

func (p *Postgres) DeleteShare(ctx context.Context, listID, userID string) error {
	result, err := p.db.Exec(ctx,
		`DELETE FROM list_shares WHERE list_id = $1 AND user_id = $2`, listID, userID)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperror.NotFound("Share not found")
	}
	return nil
}

// Categories

func (p *Postgres) CategoryByID(ctx context.Context, id string) (*models.Category, error) {
	var category models.Category
	err := p.db.QueryRow(ctx,
		`SELECT id, user_id, name, icon, list_id, created_at
		 FROM user_categories WHERE id = $1`, id).Scan(
		&category.ID, &category.UserID, &category.Name, &category.Icon,
		&category.ListID, &category.CreatedAt)
	if err != nil {
		return nil, translateError(err, "Category not found")
	}
	return &category, nil
}

func (p *Postgres) PersonalCategories(ctx context.Context, userID string) ([]models.Category, error) {
	return p.queryCategories(ctx,
		`SELECT id, user_id, name, icon, list_id, created_at
		 FROM user_categories
		 WHERE user_id = $1 AND list_id IS NULL
		 ORDER BY name`,
		userID)
}

func (p *Postgres) CategoriesForList(ctx context.Context, ownerID, listID string) ([]models.Category, error) {
	return p.queryCategories(ctx,
		`SELECT id, user_id, name, icon, list_id, created_at
		 FROM user_categories
		 WHERE (user_id = $1 AND list_id IS NULL) OR list_id = $2
		 ORDER BY name`,
		ownerID, listID)
}

func (p *Postgres) queryCategories(ctx context.Context, query string, args ...any) ([]models.Category, error) {
	rows, err := p.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := make([]models.Category, 0)
	for rows.Next() {
		var category models.Category
		if err := rows.Scan(&category.ID, &category.UserID, &category.Name,
			&category.Icon, &category.ListID, &category.CreatedAt); err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}
	return categories, rows.Err()
}

func (p *Postgres) PersonalCategoryExists(ctx context.Context, userID, name string) (bool, error) {
	var exists bool
	err := p.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM user_categories
		 WHERE user_id = $1 AND name = $2 AND list_id IS NULL)`,
		userID, name).Scan(&exists)
	return exists, err
}

func (p *Postgres) LocalCategoryExists(ctx context.Context, listID, name string) (bool, error) {
	var exists bool
	err := p.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM user_categories
		 WHERE list_id = $1 AND name = $2)`,
		listID, name).Scan(&exists)
	return exists, err
}

func (p *Postgres) CreateCategory(ctx context.Context, category *models.Category) error {
	err := p.db.QueryRow(ctx,
		`INSERT INTO user_categories (id, user_id, name, icon, list_id)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING created_at`,
		category.ID, category.UserID, category.Name, category.Icon, category.ListID).Scan(&category.CreatedAt)
	if err != nil {
		return translateError(err, "Category not found")
	}
	return nil
}

func (p *Postgres) UpdateCategory(ctx context.Context, id, name, icon string) error {
	result, err := p.db.Exec(ctx,
		`UPDATE user_categories SET name = $1, icon = $2 WHERE id = $3`, name, icon, id)
	if err != nil {
		return translateError(err, "Category not found")
	}
	if result.RowsAffected() == 0 {
		return apperror.NotFound("Category not found")
	}
	return nil
}

// DeleteCategory removes a category and un-categorizes any items still
// referencing it. Both reference columns are cleared together so the
// paired id/type constraint keeps holding.
func (p *Postgres) DeleteCategory(ctx context.Context, id string) error {
	tx, err := p.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	result, err := tx.Exec(ctx, `DELETE FROM user_categories WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperror.NotFound("Category not found")
	}

	_, err = tx.Exec(ctx,
		`UPDATE list_items SET category_id = NULL, category_type = NULL
		 WHERE category_id = $1`, id)
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// Items

const itemDetailQuery = `
	SELECT li.id, li.list_id, li.title, li.description, li.is_completed,
	       li.category_id, li.category_type, uc.name, uc.icon,
	       li.position, li.created_at
	FROM list_items li
	LEFT JOIN user_categories uc ON li.category_id = uc.id`

func (p *Postgres) ItemsByList(ctx context.Context, listID string) ([]models.ItemDetail, error) {
	rows, err := p.db.Query(ctx,
		itemDetailQuery+` WHERE li.list_id = $1 ORDER BY li.position`, listID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]models.ItemDetail, 0)
	for rows.Next() {
		item, err := scanItemDetail(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

func (p *Postgres) ItemDetailByID(ctx context.Context, id string) (*models.ItemDetail, error) {
	rows, err := p.db.Query(ctx, itemDetailQuery+` WHERE li.id = $1`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, apperror.NotFound("List item not found")
	}
	return scanItemDetail(rows)
}

func scanItemDetail(rows pgx.Rows) (*models.ItemDetail, error) {
	var item models.ItemDetail
	var categoryType *string
	err := rows.Scan(&item.ID, &item.ListID, &item.Title, &item.Description,
		&item.IsCompleted, &item.CategoryID, &categoryType,
		&item.CategoryName, &item.CategoryIcon, &item.Position, &item.CreatedAt)
	if err != nil {
		return nil, err
	}
	if categoryType != nil {
		t := models.CategoryType(*categoryType)
		item.CategoryType = &t
	}
	return &item, nil
}

func (p *Postgres) ItemByID(ctx context.Context, id string) (*models.ListItem, error) {
	var item models.ListItem
	var categoryID, categoryType *string
	err := p.db.QueryRow(ctx,
		`SELECT id, list_id, title, description, is_completed,
		        category_id, category_type, position, created_at
		 FROM list_items WHERE id = $1`, id).Scan(
		&item.ID, &item.ListID, &item.Title, &item.Description, &item.IsCompleted,
		&categoryID, &categoryType, &item.Position, &item.CreatedAt)
	if err != nil {
		return nil, translateError(err, "List item not found")
	}
	if categoryID != nil && categoryType != nil {
		item.Category = &models.CategoryRef{ID: *categoryID, Type: models.CategoryType(*categoryType)}
	}
	return &item, nil
}

func (p *Postgres) CreateItem(ctx context.Context, item *models.ListItem) error {
	var categoryID *string
	var categoryType *string
	if item.Category != nil {
		categoryID = &item.Category.ID
		t := string(item.Category.Type)
		categoryType = &t
	}

	// Position assignment and insert are one statement, so concurrent
	// appends to the same list cannot both observe the same max.
	err := p.db.QueryRow(ctx,
		`INSERT INTO list_items (id, list_id, title, description, is_completed, category_id, category_type, position)
		 VALUES ($1, $2, $3, $4, $5, $6, $7,
		         (SELECT COALESCE(MAX(position) + 1, 0) FROM list_items WHERE list_id = $2))
		 RETURNING position, created_at`,
		item.ID, item.ListID, item.Title, item.Description, item.IsCompleted,
		categoryID, categoryType).Scan(&item.Position, &item.CreatedAt)
	if err != nil {
		return translateError(err, "List item not found")
	}
	return nil
}

func (p *Postgres) UpdateItem(ctx context.Context, item *models.ListItem) error {
	var categoryID *string
	var categoryType *string
	if item.Category != nil {
		categoryID = &item.Category.ID
		t := string(item.Category.Type)
		categoryType = &t
	}

	result, err := p.db.Exec(ctx,
		`UPDATE list_items
		 SET title = $1, description = $2, is_completed = $3, category_id = $4, category_type = $5
		 WHERE id = $6`,
		item.Title, item.Description, item.IsCompleted, categoryID, categoryType, item.ID)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperror.NotFound("List item not found")
	}
	return nil
}

func (p *Postgres) DeleteItem(ctx context.Context, id string) error {
	result, err := p.db.Exec(ctx, `DELETE FROM list_items WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperror.NotFound("List item not found")
	}
	return nil
}

func (p *Postgres) ItemIDsInList(ctx context.Context, listID string, ids []string) ([]string, error) {
	rows, err := p.db.Query(ctx,
		`SELECT id FROM list_items WHERE list_id = $1 AND id = ANY($2)`, listID, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	found := make([]string, 0, len(ids))
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		found = append(found, id)
	}
	return found, rows.Err()
}

func (p *Postgres) UpdateItemPositions(ctx context.Context, orderedIDs []string) error {
	tx, err := p.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	batch := &pgx.Batch{}
	for index, id := range orderedIDs {
		batch.Queue(`UPDATE list_items SET position = $1 WHERE id = $2`, index, id)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to update positions: %w", err)
	}

	return tx.Commit(ctx)
}
