package repositories_test

import (
	"context"
	"net/http"
	"os"
	"testing"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/Gobusters/ectologger/zapadapter"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Ramsey-B/tulsi/pkg/database"
	"github.com/Ramsey-B/tulsi/pkg/models"
	"github.com/Ramsey-B/tulsi/pkg/repositories"
)

func getTestLogger() ectologger.Logger {
	zapLogger, _ := zap.NewDevelopment()
	return zapadapter.NewZapEctoLogger(zapLogger, nil)
}

func getTestDB(t *testing.T) database.DB {
	dbHost := os.Getenv("DB_HOST")
	if dbHost == "" {
		dbHost = "localhost"
	}
	dbUser := os.Getenv("DB_USER_NAME")
	if dbUser == "" {
		dbUser = "user"
	}
	dbPass := os.Getenv("DB_PASSWORD")
	if dbPass == "" {
		dbPass = "password"
	}
	dbName := os.Getenv("DB_NAME")
	if dbName == "" {
		dbName = "tulsi"
	}

	dsn := "host=" + dbHost + " user=" + dbUser + " password=" + dbPass + " dbname=" + dbName + " sslmode=disable"
	db, err := sqlx.Connect("postgres", dsn)
	require.NoError(t, err, "Failed to connect to test database")

	return database.NewDatabaseInstance(db, getTestLogger())
}

// assertNotFound asserts that err is an HTTP 404 error
func assertNotFound(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err)
	assert.True(t, httperror.IsHTTPError(err), "expected HTTP error, got: %v", err)
	assert.Equal(t, http.StatusNotFound, httperror.GetStatusCode(err), "expected 404, got: %d", httperror.GetStatusCode(err))
}

func testDevotee(phone string) *models.Devotee {
	return &models.Devotee{
		Name:        "TEST DEVOTEE " + phone,
		CountryCode: "91",
		Phone:       phone,
		Nakshatra:   "ROHINI",
	}
}

func TestDevoteeRepository_CRUD(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := getTestDB(t)
	logger := getTestLogger()
	repo := repositories.NewDevoteeRepository(db, logger)
	ctx := context.Background()

	devotee := testDevotee("9000000001")
	created, err := repo.Create(ctx, devotee)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.False(t, created.CreatedAt.IsZero())
	defer func() {
		_ = repo.Delete(ctx, created.ID)
	}()

	// Test GetByID
	fetched, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Name, fetched.Name)
	assert.Equal(t, "ROHINI", fetched.Nakshatra)

	// Test List with filter
	devotees, total, err := repo.List(ctx, "ROHINI", 50, 0)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, total, 1)
	assert.GreaterOrEqual(t, len(devotees), 1)

	// Test Update
	fetched.Nakshatra = "MAKAM"
	err = repo.Update(ctx, fetched)
	require.NoError(t, err)

	updated, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "MAKAM", updated.Nakshatra)

	// Test Delete
	err = repo.Delete(ctx, created.ID)
	require.NoError(t, err)

	_, err = repo.GetByID(ctx, created.ID)
	assertNotFound(t, err)
}

func TestDevoteeRepository_UniqueConstraint(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := getTestDB(t)
	logger := getTestLogger()
	repo := repositories.NewDevoteeRepository(db, logger)
	ctx := context.Background()

	first, err := repo.Create(ctx, testDevotee("9000000002"))
	require.NoError(t, err)
	defer func() {
		_ = repo.Delete(ctx, first.ID)
	}()

	_, err = repo.Create(ctx, testDevotee("9000000002"))
	require.ErrorIs(t, err, repositories.ErrDevoteeExists)

	// The same tuple under a different nakshatra is a distinct identity.
	other := testDevotee("9000000002")
	other.Nakshatra = "MAKAM"
	created, err := repo.Create(ctx, other)
	require.NoError(t, err)
	_ = repo.Delete(ctx, created.ID)
}

func TestDevoteeRepository_ExistsByIdentity(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := getTestDB(t)
	logger := getTestLogger()
	repo := repositories.NewDevoteeRepository(db, logger)
	ctx := context.Background()

	devotee := testDevotee("9000000003")
	created, err := repo.Create(ctx, devotee)
	require.NoError(t, err)
	defer func() {
		_ = repo.Delete(ctx, created.ID)
	}()

	identity := models.DevoteeIdentity{
		Name:        created.Name,
		CountryCode: created.CountryCode,
		Phone:       created.Phone,
		Nakshatra:   created.Nakshatra,
	}

	exists, err := repo.ExistsByIdentity(ctx, identity, nil)
	require.NoError(t, err)
	assert.True(t, exists)

	// Excluding the record itself reports no duplicate.
	exists, err = repo.ExistsByIdentity(ctx, identity, &created.ID)
	require.NoError(t, err)
	assert.False(t, exists)

	identity.Phone = "9999999999"
	exists, err = repo.ExistsByIdentity(ctx, identity, nil)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestDevoteeRepository_DeleteByNakshatra(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := getTestDB(t)
	logger := getTestLogger()
	repo := repositories.NewDevoteeRepository(db, logger)
	ctx := context.Background()

	for _, phone := range []string{"9000000004", "9000000005"} {
		devotee := testDevotee(phone)
		devotee.Nakshatra = "CHATHAYAM"
		_, err := repo.Create(ctx, devotee)
		require.NoError(t, err)
	}

	deleted, err := repo.DeleteByNakshatra(ctx, "CHATHAYAM")
	require.NoError(t, err)
	assert.GreaterOrEqual(t, deleted, int64(2))

	deleted, err = repo.DeleteByNakshatra(ctx, "CHATHAYAM")
	require.NoError(t, err)
	assert.Equal(t, int64(0), deleted)
}
