package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/iamanishx/talawa-api/internals/constants"
	"github.com/iamanishx/talawa-api/internals/features/events/model"
	"github.com/iamanishx/talawa-api/internals/features/events/recurrence"
	orgModel "github.com/iamanishx/talawa-api/internals/features/organizations/model"
	userModel "github.com/iamanishx/talawa-api/internals/features/users/model"
)

// fakeBlobStore merekam upload di memori; failKeys memaksa error per object key.
type fakeBlobStore struct {
	mu       sync.Mutex
	uploads  map[string]string // key → content type
	failAll  bool
	keySeq   int
}

func newFakeBlobStore() *fakeBlobStore {
	return &fakeBlobStore{uploads: map[string]string{}}
}

func (f *fakeBlobStore) UploadStream(ctx context.Context, key string, r io.Reader, contentType string, inline bool, cacheForever bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll {
		return errors.New("simulated storage outage")
	}
	if _, err := io.ReadAll(r); err != nil {
		return err
	}
	f.uploads[key] = contentType
	return nil
}

func (f *fakeBlobStore) BuildObjectKey(dir, ext string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.keySeq++
	return fmt.Sprintf("test/%s/%d%s", dir, f.keySeq, ext)
}

func (f *fakeBlobStore) PublicURL(key string) string {
	return "https://blobs.test/" + key
}

func (f *fakeBlobStore) uploadCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.uploads)
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&userModel.UserModel{},
		&orgModel.OrganizationModel{},
		&orgModel.OrganizationMemberModel{},
		&model.EventModel{},
		&model.RecurrenceRuleModel{},
		&model.EventAttachmentModel{},
	))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, role string) *userModel.UserModel {
	t.Helper()
	u := userModel.UserModel{
		UserFullName: "Test User",
		UserEmail:    fmt.Sprintf("user-%s@example.com", uuid.NewString()),
		UserPassword: "hashed",
		UserRole:     role,
	}
	require.NoError(t, db.Create(&u).Error)
	return &u
}

func seedOrg(t *testing.T, db *gorm.DB, creator uuid.UUID) *orgModel.OrganizationModel {
	t.Helper()
	o := orgModel.OrganizationModel{
		OrganizationName:            "Test Org " + uuid.NewString()[:8],
		OrganizationSlug:            "test-org-" + uuid.NewString()[:8],
		OrganizationCreatedByUserID: creator,
	}
	require.NoError(t, db.Create(&o).Error)
	return &o
}

func seedMembership(t *testing.T, db *gorm.DB, orgID, userID uuid.UUID, role string) {
	t.Helper()
	m := orgModel.OrganizationMemberModel{
		OrganizationMemberOrganizationID: orgID,
		OrganizationMemberUserID:         userID,
		OrganizationMemberRole:           role,
	}
	require.NoError(t, db.Create(&m).Error)
}

// newTestService: admin di satu org + service dengan clock tetap.
func newTestService(t *testing.T) (*EventService, *fakeBlobStore, *userModel.UserModel, *orgModel.OrganizationModel) {
	t.Helper()
	db := newTestDB(t)
	admin := seedUser(t, db, constants.RoleUser)
	org := seedOrg(t, db, admin.UserID)
	seedMembership(t, db, org.OrganizationID, admin.UserID, constants.OrgRoleAdmin)

	blobs := newFakeBlobStore()
	svc := NewEventService(db, blobs, recurrence.FixedClock(testNow))
	return svc, blobs, admin, org
}

var testNow = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func mustUUID(t *testing.T) uuid.UUID {
	t.Helper()
	id, err := uuid.NewV7()
	require.NoError(t, err)
	return id
}

// requireOpError memastikan err adalah *OpError dengan kode + status tertentu.
func requireOpError(t *testing.T, err error, code string, status int) *OpError {
	t.Helper()
	require.Error(t, err)
	var op *OpError
	require.ErrorAs(t, err, &op)
	require.Equal(t, code, op.Code)
	require.Equal(t, status, op.Status)
	return op
}
