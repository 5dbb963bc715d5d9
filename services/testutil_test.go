package services

import (
	"sync"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"reviewbase-api/config"
	"reviewbase-api/models"
	"reviewbase-api/permissions"
)

// newTestDB opens an in-memory SQLite database with foreign keys enforced,
// so the cascade and unique-constraint behavior under test matches what the
// migrated schema declares.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?_pragma=foreign_keys(1)"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// One connection, or each pooled connection would see its own empty
	// in-memory database.
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, config.Migrate(db))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, username string, role models.UserRole) *models.User {
	t.Helper()

	user := &models.User{
		Username: username,
		Email:    username + "@example.com",
		Role:     role,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedTitle(t *testing.T, db *gorm.DB, name string, year int) *models.Title {
	t.Helper()

	title := &models.Title{Name: name, Year: year}
	require.NoError(t, db.Create(title).Error)
	return title
}

func actorFor(user *models.User) permissions.Actor {
	return permissions.Actor{
		Authenticated: true,
		UserID:        user.ID,
		Role:          user.Role,
		Superuser:     user.IsSuperuser,
	}
}

// recordingSender captures outgoing mail for assertions and can be told to
// fail.
type recordingSender struct {
	mu     sync.Mutex
	sent   []sentMail
	failed bool
}

type sentMail struct {
	To      string
	Subject string
	Body    string
}

func (s *recordingSender) Send(toAddress, subject, body string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failed {
		return errSendFailed
	}
	s.sent = append(s.sent, sentMail{To: toAddress, Subject: subject, Body: body})
	return nil
}

func (s *recordingSender) last() sentMail {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.sent) == 0 {
		return sentMail{}
	}
	return s.sent[len(s.sent)-1]
}

type sendError string

func (e sendError) Error() string { return string(e) }

const errSendFailed = sendError("smtp unavailable")
