package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"libris/contexts/catalog/book-service/domain/entities"
	domainerrors "libris/contexts/catalog/book-service/domain/errors"
	"libris/contexts/catalog/book-service/ports"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const classicsBefore = 1950

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		db:     db,
		logger: logger,
	}
}

func (r *Repository) CreateBook(ctx context.Context, book entities.Book) error {
	row := bookModelFromEntity(book)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrDuplicateBook
		}
		return err
	}
	return nil
}

func (r *Repository) GetBook(ctx context.Context, bookID string) (entities.Book, error) {
	var row bookModel
	err := r.db.WithContext(ctx).
		Where("book_id = ?", strings.TrimSpace(bookID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Book{}, domainerrors.ErrBookNotFound
		}
		return entities.Book{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) UpdateBook(ctx context.Context, book entities.Book) error {
	result := r.db.WithContext(ctx).
		Model(&bookModel{}).
		Where("book_id = ?", strings.TrimSpace(book.BookID)).
		Updates(map[string]any{
			"title":            book.Title,
			"publication_year": book.PublicationYear,
			"author_id":        book.AuthorID,
			"author_name":      book.AuthorName,
			"updated_at":       book.UpdatedAt.UTC(),
		})
	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			return domainerrors.ErrDuplicateBook
		}
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrBookNotFound
	}
	return nil
}

func (r *Repository) DeleteBook(ctx context.Context, bookID string) error {
	result := r.db.WithContext(ctx).
		Where("book_id = ?", strings.TrimSpace(bookID)).
		Delete(&bookModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrBookNotFound
	}
	return nil
}

func (r *Repository) ListBooks(ctx context.Context, filter ports.BookFilter) (ports.BookPage, error) {
	tx := r.db.WithContext(ctx).Model(&bookModel{})
	tx = applyBookFilter(tx, filter)

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return ports.BookPage{}, err
	}

	page := filter.Page
	if page <= 0 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize <= 0 {
		pageSize = 10
	}

	for _, clause := range orderClauses(filter.Ordering) {
		tx = tx.Order(clause)
	}

	var rows []bookModel
	err := tx.Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&rows).
		Error
	if err != nil {
		return ports.BookPage{}, err
	}

	items := make([]entities.Book, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}

	totalPages := (int(total) + pageSize - 1) / pageSize
	if totalPages == 0 {
		totalPages = 1
	}
	return ports.BookPage{
		Items:      items,
		TotalCount: int(total),
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}, nil
}

func (r *Repository) CreateAuthor(ctx context.Context, author entities.Author) error {
	row := authorModel{
		AuthorID:  author.AuthorID,
		Name:      author.Name,
		CreatedAt: author.CreatedAt.UTC(),
	}
	return r.db.WithContext(ctx).Create(&row).Error
}

func (r *Repository) GetAuthor(ctx context.Context, authorID string) (entities.AuthorWithBooks, error) {
	var row authorModel
	err := r.db.WithContext(ctx).
		Where("author_id = ?", strings.TrimSpace(authorID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.AuthorWithBooks{}, domainerrors.ErrAuthorNotFound
		}
		return entities.AuthorWithBooks{}, err
	}
	return r.withBooks(ctx, row)
}

func (r *Repository) ListAuthors(ctx context.Context, filter ports.AuthorFilter) ([]entities.AuthorWithBooks, error) {
	tx := r.db.WithContext(ctx).Model(&authorModel{})
	if filter.NameContains != "" {
		tx = tx.Where("name ILIKE ?", "%"+filter.NameContains+"%")
	}

	var rows []authorModel
	if err := tx.Order("name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}

	authors := make([]entities.AuthorWithBooks, 0, len(rows))
	for _, row := range rows {
		view, err := r.withBooks(ctx, row)
		if err != nil {
			return nil, err
		}
		if filter.HasBooks && len(view.Books) == 0 {
			continue
		}
		authors = append(authors, view)
	}
	return authors, nil
}

func (r *Repository) withBooks(ctx context.Context, row authorModel) (entities.AuthorWithBooks, error) {
	var bookRows []bookModel
	err := r.db.WithContext(ctx).
		Where("author_id = ?", row.AuthorID).
		Order("title ASC").
		Find(&bookRows).
		Error
	if err != nil {
		return entities.AuthorWithBooks{}, err
	}

	view := entities.AuthorWithBooks{
		Author: entities.Author{
			AuthorID:  row.AuthorID,
			Name:      row.Name,
			CreatedAt: row.CreatedAt,
		},
	}
	for _, bookRow := range bookRows {
		view.Books = append(view.Books, bookRow.toEntity())
	}
	return view, nil
}

func applyBookFilter(tx *gorm.DB, filter ports.BookFilter) *gorm.DB {
	if filter.Title != "" {
		tx = tx.Where("LOWER(title) = LOWER(?)", filter.Title)
	}
	if filter.TitleContains != "" {
		tx = tx.Where("title ILIKE ?", "%"+filter.TitleContains+"%")
	}
	if filter.AuthorID != "" {
		tx = tx.Where("author_id = ?", filter.AuthorID)
	}
	if filter.AuthorNameContains != "" {
		tx = tx.Where("author_name ILIKE ?", "%"+filter.AuthorNameContains+"%")
	}
	if filter.Year != nil {
		tx = tx.Where("publication_year = ?", *filter.Year)
	}
	if filter.YearGT != nil {
		tx = tx.Where("publication_year > ?", *filter.YearGT)
	}
	if filter.YearLT != nil {
		tx = tx.Where("publication_year < ?", *filter.YearLT)
	}
	if filter.YearGTE != nil {
		tx = tx.Where("publication_year >= ?", *filter.YearGTE)
	}
	if filter.YearLTE != nil {
		tx = tx.Where("publication_year <= ?", *filter.YearLTE)
	}
	if filter.RecentOnly {
		tx = tx.Where("publication_year >= ?", time.Now().UTC().Year()-10)
	}
	if filter.ClassicsOnly {
		tx = tx.Where("publication_year < ?", classicsBefore)
	}
	if filter.Search != "" {
		needle := "%" + filter.Search + "%"
		tx = tx.Where("title ILIKE ? OR author_name ILIKE ?", needle, needle)
	}
	return tx
}

func orderClauses(ordering []ports.SortKey) []string {
	if len(ordering) == 0 {
		ordering = []ports.SortKey{{Field: ports.OrderTitle}}
	}
	clauses := make([]string, 0, len(ordering))
	for _, key := range ordering {
		column := "title"
		switch key.Field {
		case ports.OrderYear:
			column = "publication_year"
		case ports.OrderAuthorName:
			column = "author_name"
		case ports.OrderBookID:
			column = "book_id"
		}
		direction := "ASC"
		if key.Descending {
			direction = "DESC"
		}
		clauses = append(clauses, column+" "+direction)
	}
	return clauses
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

type bookModel struct {
	BookID          string    `gorm:"column:book_id;primaryKey"`
	Title           string    `gorm:"column:title;uniqueIndex:idx_books_title_author"`
	PublicationYear int       `gorm:"column:publication_year"`
	AuthorID        string    `gorm:"column:author_id;uniqueIndex:idx_books_title_author;index"`
	AuthorName      string    `gorm:"column:author_name"`
	CreatedAt       time.Time `gorm:"column:created_at"`
	UpdatedAt       time.Time `gorm:"column:updated_at"`
}

func (bookModel) TableName() string { return "catalog_books" }

func bookModelFromEntity(book entities.Book) bookModel {
	return bookModel{
		BookID:          book.BookID,
		Title:           book.Title,
		PublicationYear: book.PublicationYear,
		AuthorID:        book.AuthorID,
		AuthorName:      book.AuthorName,
		CreatedAt:       book.CreatedAt.UTC(),
		UpdatedAt:       book.UpdatedAt.UTC(),
	}
}

func (m bookModel) toEntity() entities.Book {
	return entities.Book{
		BookID:          m.BookID,
		Title:           m.Title,
		PublicationYear: m.PublicationYear,
		AuthorID:        m.AuthorID,
		AuthorName:      m.AuthorName,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

type authorModel struct {
	AuthorID  string    `gorm:"column:author_id;primaryKey"`
	Name      string    `gorm:"column:name"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (authorModel) TableName() string { return "catalog_authors" }
