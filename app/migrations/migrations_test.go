package migrations

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEmbeddedMigrations_PairedUpAndDown(t *testing.T) {
	for _, dir := range []string{"mysql", "postgres"} {
		t.Run(dir, func(t *testing.T) {
			entries, err := fs.ReadDir(files, dir)
			require.NoError(t, err)
			require.NotEmpty(t, entries)

			ups := map[string]bool{}
			downs := map[string]bool{}
			for _, e := range entries {
				name := e.Name()
				switch {
				case strings.HasSuffix(name, ".up.sql"):
					ups[strings.TrimSuffix(name, ".up.sql")] = true
				case strings.HasSuffix(name, ".down.sql"):
					downs[strings.TrimSuffix(name, ".down.sql")] = true
				default:
					t.Fatalf("unexpected file %s", name)
				}
			}
			require.Equal(t, ups, downs)
		})
	}
}

func TestEmbeddedMigrations_CreateReservationTable(t *testing.T) {
	for _, path := range []string{
		"mysql/000005_create_reservations.up.sql",
		"postgres/000001_create_reservations.up.sql",
	} {
		body, err := fs.ReadFile(files, path)
		require.NoError(t, err, path)
		sql := string(body)
		require.Contains(t, sql, "reservations")
		require.Contains(t, sql, "expires_at")
		require.Contains(t, sql, "session_id")
		require.Contains(t, sql, "user_id")
	}
}
