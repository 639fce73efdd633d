package postgresql_test

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/cmlabs-hris/workday-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/workday-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/workday-backend-go/internal/repository/postgresql"
	"github.com/stretchr/testify/require"
)

const migrationsDir = "../../../../migrations"

var testDB *database.DB

func TestMain(m *testing.M) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn != "" {
		ctx := context.Background()
		db, err := database.NewPostgreSQLDB(ctx, dsn)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to connect to test database: %v\n", err)
			os.Exit(1)
		}
		if err := database.Migrate(ctx, db, migrationsDir); err != nil {
			fmt.Fprintf(os.Stderr, "failed to migrate test database: %v\n", err)
			os.Exit(1)
		}
		testDB = db
	}

	code := m.Run()
	if testDB != nil {
		testDB.Close()
	}
	os.Exit(code)
}

// setupTestData skips without a database and truncates every table otherwise.
func setupTestData(t *testing.T) {
	t.Helper()
	if testDB == nil {
		t.Skip("TEST_DATABASE_URL not set")
	}

	_, err := testDB.Exec(context.Background(),
		"TRUNCATE TABLE notifications, leave_requests, eod_entries, attendances, refresh_tokens, users CASCADE")
	require.NoError(t, err)
}

func createTestUser(t *testing.T, ctx context.Context, name string, role user.Role, managerID *string) user.User {
	t.Helper()
	repo := postgresql.NewUserRepository(testDB)
	u, err := repo.Create(ctx, user.User{
		Name:      name,
		Email:     name + "@example.com",
		Role:      role,
		Status:    user.StatusActive,
		ManagerID: managerID,
	})
	require.NoError(t, err)
	return u
}
