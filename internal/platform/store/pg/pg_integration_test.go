//go:build integration_pg

package pg

import (
	"context"
	"testing"
	"time"

	"csvprep/internal/platform/testkit/containers"

	"github.com/jackc/pgx/v5/pgxpool"
)

func TestOpen_PingAndApplicationName_Integration(t *testing.T) {
	dsn := containers.StartPostgres(t)

	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	const appName = "csvprep-pg-integration"
	withTestDB(t, dsn, func(pc *pgxpool.Config) {
		pc.ConnConfig.RuntimeParams["application_name"] = appName
		pc.MinConns = 1
	}, func(p *PG) {
		if err := p.Pool.Ping(ctx); err != nil {
			t.Fatalf("ping: %v", err)
		}
		var got string
		if err := p.Pool.QueryRow(ctx, `select current_setting('application_name')`).Scan(&got); err != nil {
			t.Fatalf("app name: %v", err)
		}
		if got != appName {
			t.Fatalf("application_name = %q, want %q", got, appName)
		}
	})
}
