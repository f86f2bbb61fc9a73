package postgres

import (
	"fmt"
	"strings"

	"github.com/VitaminP8/blogpost/models"
	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/postgres"
	_ "github.com/jinzhu/gorm/dialects/sqlite"
	"github.com/sirupsen/logrus"
)

var DB *gorm.DB

const (
	emailLowerIndex  = "idx_users_email_lower"
	singleAdminIndex = "idx_users_single_admin"
)

// GetDB возвращает глобальную переменную DB (для тестирования)
func GetDB() *gorm.DB {
	return DB
}

// InitDB подключается к базе данных и устанавливает глобальную переменную DB.
// dialect - "postgres" или "sqlite3", uri - строка подключения из DB_URI
func InitDB(dialect, uri string) error {
	db, err := gorm.Open(dialect, uri)
	if err != nil {
		return fmt.Errorf("failed to connect to the database: %w", err)
	}

	if dialect == "sqlite3" {
		// sqlite не выдерживает параллельных писателей
		db.DB().SetMaxOpenConns(1)
	}

	DB = db
	logrus.WithField("dialect", dialect).Info("Successfully connected to the database")
	return nil
}

// Migrate создает таблицы users, blog_posts, comments и внешние ключи
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(&models.User{}, &models.BlogPost{}, &models.Comment{}).Error
	if err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	// база, созданная без колонки role: админом становится самый первый пользователь
	err = db.Exec(`UPDATE users SET role = ? WHERE id = (SELECT MIN(id) FROM users)
		AND NOT EXISTS (SELECT 1 FROM users WHERE role = ?)`, string(models.RoleAdmin), string(models.RoleAdmin)).Error
	if err != nil {
		return fmt.Errorf("failed to backfill admin role: %w", err)
	}

	// гонку двух регистраций решают уникальные индексы, а не проверка перед вставкой
	indexes := []string{
		`CREATE UNIQUE INDEX IF NOT EXISTS ` + emailLowerIndex + ` ON users (LOWER(email))`,
		`CREATE UNIQUE INDEX IF NOT EXISTS ` + singleAdminIndex + ` ON users (role) WHERE role = 'admin'`,
	}
	for _, stmt := range indexes {
		err = db.Exec(stmt).Error
		if err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	// sqlite не умеет ALTER TABLE ... ADD CONSTRAINT, каскад для него делает DeletePostById
	if db.Dialect().GetName() != "postgres" {
		return nil
	}

	foreignKeys := []struct {
		model    interface{}
		field    string
		dest     string
		onDelete string
	}{
		{&models.BlogPost{}, "author_id", "users(id)", "RESTRICT"},
		{&models.Comment{}, "author_id", "users(id)", "RESTRICT"},
		{&models.Comment{}, "post_id", "blog_posts(id)", "CASCADE"},
	}
	for _, fk := range foreignKeys {
		err = db.Model(fk.model).AddForeignKey(fk.field, fk.dest, fk.onDelete, "CASCADE").Error
		if err != nil {
			return fmt.Errorf("failed to add foreign key %s -> %s: %w", fk.field, fk.dest, err)
		}
	}

	return nil
}

// CloseDB закрывает соединение с базой данных
func CloseDB() error {
	if DB == nil {
		return nil
	}

	err := DB.Close()
	if err != nil {
		return fmt.Errorf("failed to close the database connection: %w", err)
	}

	logrus.Info("Database connection closed")
	return nil
}

// InitDBWithConnection для тестирования (позволяет инъекцию соединения БД)
func InitDBWithConnection(db *gorm.DB) {
	DB = db
}

// isDuplicateEntryError распознает нарушение уникального ограничения по тексту ошибки драйвера
func isDuplicateEntryError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") || // SQLite
		strings.Contains(msg, "duplicate key value violates unique constraint") // PostgreSQL
}

// isAdminTakenError - вставка админа уперлась в индекс единственного админа
func isAdminTakenError(err error) bool {
	if !isDuplicateEntryError(err) {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, singleAdminIndex) || // PostgreSQL
		strings.Contains(msg, "users.role") // SQLite
}
