// Package db is the storage layer of the stand-in backend: admin accounts,
// their session tokens, and the contact-form submissions, all in one SQLite
// file.
package db

import (
	"context"
	"database/sql"
	"sync"

	"github.com/google/uuid"
	"github.com/iatek/deptadmin/domain"
	"log"
	"modernc.org/sqlite"
	sqlitelib "modernc.org/sqlite/lib"
	"time"
)

// DB is the database struct.
type DB struct {
	db *sql.DB
}

var (
	dbInstance *DB
	dbOnce     sync.Once
)

const (
	//Admins
	sqlCreateAdminsTable = `CREATE TABLE IF NOT EXISTS admins(
                        id uuid NOT NULL PRIMARY KEY,
                        username varchar(100) NOT NULL,
                        email varchar(255) UNIQUE NOT NULL,
                        password_hash varchar(255) NOT NULL,
                        created_at timestamp default current_timestamp
                        )`
	sqlInsertAdmin        = `INSERT INTO admins(id, username, email, password_hash, created_at) VALUES (?, ?, ?, ?, ?)`
	sqlSelectAdminByEmail = `SELECT id, username, email, password_hash, created_at FROM admins WHERE email = ?`
	sqlCountAdmins        = `SELECT COUNT(*) FROM admins`

	//Sessions
	sqlCreateSessionsTable = `CREATE TABLE IF NOT EXISTS sessions(
                        token varchar(100) NOT NULL PRIMARY KEY,
                        admin_id uuid NOT NULL,
                        created_at timestamp default current_timestamp
                        )`
	sqlInsertSession      = `INSERT INTO sessions(token, admin_id, created_at) VALUES (?, ?, ?)`
	sqlSelectSessionAdmin = `SELECT admins.id, admins.username, admins.email, admins.password_hash, admins.created_at FROM sessions
                                                            INNER JOIN admins ON admins.id = sessions.admin_id
                                                            WHERE sessions.token = ?`

	//Submissions
	sqlCreateSubmissionsTable = `CREATE TABLE IF NOT EXISTS departements(
                        id uuid NOT NULL PRIMARY KEY,
                        nom varchar(100) NOT NULL,
                        prenom varchar(100),
                        email varchar(255) NOT NULL,
                        phone varchar(50),
                        service varchar(100),
                        message varchar(2000),
                        created_at timestamp default current_timestamp
                        )`
	sqlInsertSubmission     = `INSERT INTO departements(id, nom, prenom, email, phone, service, message, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	sqlSelectAllSubmissions = `SELECT id, nom, prenom, email, phone, service, message, created_at FROM departements ORDER BY created_at DESC`
	sqlSelectSubmissionById = `SELECT id, nom, prenom, email, phone, service, message, created_at FROM departements WHERE id = ?`
	sqlDeleteSubmission     = `DELETE FROM departements WHERE id = ?`
	sqlCountSubmissions     = `SELECT COUNT(*) FROM departements`
)

func (db *DB) CreateAdmin(username, email, passwordHash string) (error, *domain.Admin) {
	admin := &domain.Admin{
		Id:           uuid.New(),
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now(),
	}

	err := db.wrapTransaction(func(tx *sql.Tx) error {
		_, err := tx.Exec(sqlInsertAdmin, admin.Id.String(), admin.Username, admin.Email, admin.PasswordHash, admin.CreatedAt)
		return err
	})
	if err != nil {
		return err, nil
	}
	return nil, admin
}

func (db *DB) ReadAdminByEmail(email string) (error, *domain.Admin) {
	row := db.db.QueryRow(sqlSelectAdminByEmail, email)
	return scanAdmin(row)
}

func (db *DB) CountAdmins() (error, int) {
	var count int
	err := db.db.QueryRow(sqlCountAdmins).Scan(&count)
	return err, count
}

func (db *DB) CreateSession(token string, adminId uuid.UUID) error {
	return db.wrapTransaction(func(tx *sql.Tx) error {
		_, err := tx.Exec(sqlInsertSession, token, adminId.String(), time.Now())
		return err
	})
}

// ReadSessionAdmin resolves a bearer token into its admin account.
func (db *DB) ReadSessionAdmin(token string) (error, *domain.Admin) {
	row := db.db.QueryRow(sqlSelectSessionAdmin, token)
	return scanAdmin(row)
}

func (db *DB) CreateSubmission(sub *domain.Submission) error {
	if sub.Id == "" {
		sub.Id = uuid.New().String()
	}
	if sub.CreatedAt.IsZero() {
		sub.CreatedAt = time.Now()
	}

	return db.wrapTransaction(func(tx *sql.Tx) error {
		_, err := tx.Exec(sqlInsertSubmission,
			sub.Id,
			sub.Nom,
			sub.Prenom,
			sub.Email,
			sub.Phone,
			sub.Service,
			sub.Message,
			sub.CreatedAt,
		)
		return err
	})
}

func (db *DB) ReadAllSubmissions() (error, *[]domain.Submission) {
	rows, err := db.db.Query(sqlSelectAllSubmissions)
	if err != nil {
		return err, nil
	}
	defer rows.Close()

	var subs []domain.Submission

	for rows.Next() {
		var sub domain.Submission
		if err := rows.Scan(&sub.Id, &sub.Nom, &sub.Prenom, &sub.Email, &sub.Phone, &sub.Service, &sub.Message, &sub.CreatedAt); err != nil {
			return err, &subs
		}
		subs = append(subs, sub)
	}
	if err = rows.Err(); err != nil {
		return err, &subs
	}

	return nil, &subs
}

func (db *DB) ReadSubmissionById(id string) (error, *domain.Submission) {
	row := db.db.QueryRow(sqlSelectSubmissionById, id)
	var sub domain.Submission
	err := row.Scan(&sub.Id, &sub.Nom, &sub.Prenom, &sub.Email, &sub.Phone, &sub.Service, &sub.Message, &sub.CreatedAt)
	if err == sql.ErrNoRows {
		return err, nil
	}
	return err, &sub
}

// DeleteSubmission removes one record. Deleting an unknown id reports
// sql.ErrNoRows so the handler can answer 404.
func (db *DB) DeleteSubmission(id string) error {
	return db.wrapTransaction(func(tx *sql.Tx) error {
		res, err := tx.Exec(sqlDeleteSubmission, id)
		if err != nil {
			return err
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if affected == 0 {
			return sql.ErrNoRows
		}
		return nil
	})
}

func (db *DB) CountSubmissions() (error, int) {
	var count int
	err := db.db.QueryRow(sqlCountSubmissions).Scan(&count)
	return err, count
}

func scanAdmin(row *sql.Row) (error, *domain.Admin) {
	var admin domain.Admin
	var idStr string
	err := row.Scan(&idStr, &admin.Username, &admin.Email, &admin.PasswordHash, &admin.CreatedAt)
	if err == sql.ErrNoRows {
		return err, nil
	}
	if err != nil {
		return err, nil
	}

	admin.Id, err = uuid.Parse(idStr)
	if err != nil {
		return err, nil
	}
	return nil, &admin
}

// Open opens (or creates) the database at the given path and sets up the
// schema.
func Open(path string) (*DB, error) {
	sqlDB, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(time.Hour)

	sqlDB.Exec("PRAGMA journal_mode = WAL")
	sqlDB.Exec("PRAGMA synchronous = NORMAL")
	sqlDB.Exec("PRAGMA busy_timeout = 5000")
	sqlDB.Exec("PRAGMA foreign_keys = ON")

	db := &DB{db: sqlDB}
	if err := db.CreateDB(); err != nil {
		return nil, err
	}
	return db, nil
}

func GetDB() *DB {
	dbOnce.Do(func() {
		db, err := Open("deptadmin.db")
		if err != nil {
			panic(err)
		}

		log.Printf("Database initialized with connection pooling (max 25 connections)")
		dbInstance = db
	})

	return dbInstance
}

// CreateDB creates the database schema.
func (db *DB) CreateDB() error {
	return db.wrapTransaction(func(tx *sql.Tx) error {
		for _, stmt := range []string{sqlCreateAdminsTable, sqlCreateSessionsTable, sqlCreateSubmissionsTable} {
			if _, err := tx.Exec(stmt); err != nil {
				return err
			}
		}
		return nil
	})
}

// wrapTransaction runs the given function within a transaction.
func (db *DB) wrapTransaction(f func(tx *sql.Tx) error) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()
	tx, err := db.db.BeginTx(ctx, nil)
	if err != nil {
		log.Printf("error starting transaction: %s", err)
		return err
	}
	for {
		err = f(tx)
		if err != nil {
			serr, ok := err.(*sqlite.Error)
			if ok && serr.Code() == sqlitelib.SQLITE_BUSY {
				continue
			}
			tx.Rollback()
			return err
		}
		err = tx.Commit()
		if err != nil {
			log.Printf("error committing transaction: %s", err)
			return err
		}
		break
	}
	return nil
}
