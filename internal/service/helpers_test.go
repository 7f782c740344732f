package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/noah-isme/padidoc-go-api/internal/models"
)

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}

func setupServiceDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:service_%s_%d?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"), time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models.All()...))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

type stubActivity struct {
	mu      sync.Mutex
	entries []ActivityEntry
}

func (s *stubActivity) Record(_ context.Context, entry ActivityEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, entry)
}

func (s *stubActivity) LogLogin(ctx context.Context, userID uint, origin Origin) {
	s.Record(ctx, ActivityEntry{ActorID: userID, Action: models.ActionLogin, Resource: "auth", Origin: origin})
}

func (s *stubActivity) LogLogout(ctx context.Context, userID uint, origin Origin) {
	s.Record(ctx, ActivityEntry{ActorID: userID, Action: models.ActionLogout, Resource: "auth", Origin: origin})
}

func (s *stubActivity) LogRoleChange(ctx context.Context, actorID, targetID uint, role models.Role, origin Origin) {
	s.Record(ctx, ActivityEntry{ActorID: actorID, Action: models.ActionUpdateRole, Resource: "user", ResourceID: &targetID, Details: string(role), Origin: origin})
}

func (s *stubActivity) LogStatusChange(ctx context.Context, actorID, targetID uint, active bool, origin Origin) {
	s.Record(ctx, ActivityEntry{ActorID: actorID, Action: models.ActionUpdateStatus, Resource: "user", ResourceID: &targetID, Details: fmt.Sprint(active), Origin: origin})
}

func (s *stubActivity) LogUserCreation(ctx context.Context, actorID, newUserID uint, origin Origin) {
	s.Record(ctx, ActivityEntry{ActorID: actorID, Action: models.ActionCreate, Resource: "user", ResourceID: &newUserID, Origin: origin})
}

func (s *stubActivity) LogTransaction(ctx context.Context, actorID uint, action models.ActivityAction, resource string, resourceID uint, details string, origin Origin) {
	s.Record(ctx, ActivityEntry{ActorID: actorID, Action: action, Resource: resource, ResourceID: &resourceID, Details: details, Origin: origin})
}

func (s *stubActivity) actions() []models.ActivityAction {
	s.mu.Lock()
	defer s.mu.Unlock()
	actions := make([]models.ActivityAction, 0, len(s.entries))
	for _, entry := range s.entries {
		actions = append(actions, entry.Action)
	}
	return actions
}

type published struct {
	subject string
	data    interface{}
}

type stubInvalidator struct {
	mu    sync.Mutex
	calls int
}

func (s *stubInvalidator) Invalidate(context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
}

func (s *stubInvalidator) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

type stubEvents struct {
	mu     sync.Mutex
	events []published
}

func (s *stubEvents) Publish(_ context.Context, subject string, data interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, published{subject: subject, data: data})
}

func (s *stubEvents) subjects() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	subjects := make([]string, 0, len(s.events))
	for _, event := range s.events {
		subjects = append(subjects, event.subject)
	}
	return subjects
}

// plainHasher keeps tests fast; bcrypt is covered in the auth package.
type plainHasher struct{}

func (plainHasher) Hash(plain string) (string, error) {
	return "hashed:" + plain, nil
}

func (plainHasher) Verify(plain, digest string) bool {
	return digest == "hashed:"+plain
}

type stubTokens struct {
	issued int
}

func (s *stubTokens) Issue(userID uint, email string, role models.Role) (string, error) {
	s.issued++
	return fmt.Sprintf("token-%d-%s", userID, role), nil
}

func (s *stubTokens) TTL() time.Duration {
	return time.Hour
}

func TestSanitizeTextKeepsPlainText(t *testing.T) {
	require.Equal(t, "UD Tani & Jaya", sanitizeText("UD Tani & Jaya"))
	require.Equal(t, `UD Tani & Jaya "Makmur" 5 > 3`, sanitizeText(` UD Tani & Jaya "Makmur" 5 > 3 `))
	require.Equal(t, "Gabah kering", sanitizeText("<b>Gabah</b> kering<script>alert(1)</script>"))
}
