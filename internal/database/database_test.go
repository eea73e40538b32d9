package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"taste-tribe/internal/model"
)

func TestSQLiteDSN(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"sqlite:///tastetribe.db":  "tastetribe.db",
		"sqlite:////var/lib/tt.db": "/var/lib/tt.db",
		"sqlite://:memory:":        ":memory:",
		"sqlite:data.db":           "data.db",
		"./local.db":               "./local.db",
	}
	for raw, want := range cases {
		require.Equal(t, want, sqliteDSN(raw), raw)
	}
}

func TestIsPostgresURL(t *testing.T) {
	t.Parallel()

	require.True(t, isPostgresURL("postgres://u:p@localhost:5432/db"))
	require.True(t, isPostgresURL("PostgreSQL://localhost/db"))
	require.False(t, isPostgresURL("sqlite:///tastetribe.db"))
}

func TestEnsureSchemaOnSQLite(t *testing.T) {
	t.Parallel()

	db, err := OpenSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(db.Close)

	ctx := context.Background()
	require.NoError(t, db.EnsureSchema(ctx))
	require.NoError(t, db.EnsureSchema(ctx), "migration must be re-runnable")
	require.NoError(t, db.Health(ctx))

	for _, m := range schemaModels {
		require.True(t, db.Gorm.Migrator().HasTable(m))
	}

	user := model.User{Username: "alice", Email: "alice@example.com", PasswordHash: "x"}
	require.NoError(t, db.Gorm.Create(&user).Error)
	require.NotEmpty(t, user.ID)
}
