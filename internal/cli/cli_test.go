package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/library/internal/config"
	"github.com/mrlokans/library/internal/database"
	auditdb "github.com/mrlokans/library/internal/database/audit"
	"github.com/mrlokans/library/internal/entities"
)

func TestOpenAPICommand_Stdout(t *testing.T) {
	var out bytes.Buffer
	cmd := NewOpenAPICommand()
	cmd.stdout = &out

	require.NoError(t, cmd.ParseFlags([]string{"-host", "10.0.0.5", "-port", "8080"}))
	require.NoError(t, cmd.Run())

	var doc struct {
		Servers []struct {
			URL string `json:"url"`
		} `json:"servers"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &doc))
	require.Len(t, doc.Servers, 1)
	assert.Equal(t, "http://10.0.0.5:8080/api", doc.Servers[0].URL)
}

func TestOpenAPICommand_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "openapi.json")
	cmd := NewOpenAPICommand()

	require.NoError(t, cmd.ParseFlags([]string{"-o", path}))
	require.NoError(t, cmd.Run())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "http://127.0.0.1:80/api")
}

func TestOpenAPICommand_InvalidPort(t *testing.T) {
	cmd := NewOpenAPICommand()
	assert.Error(t, cmd.ParseFlags([]string{"-port", "70000"}))
}

func TestPublicIPCommand(t *testing.T) {
	imds := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/latest/api/token":
			w.Write([]byte("token"))
		case "/latest/meta-data/public-ipv4":
			w.Write([]byte("198.51.100.20"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer imds.Close()

	tests := []struct {
		name string
		env  config.Environment
		want string
	}{
		{"development uses loopback", config.EnvDevelopment, "127.0.0.1"},
		{"production asks the metadata service", config.EnvProduction, "198.51.100.20"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			cmd := NewPublicIPCommand()
			cmd.stdout = &out
			cmd.newConfig = func() (*config.Config, error) {
				return &config.Config{
					Env:      tt.env,
					PublicIP: config.PublicIP{Lookup: true},
				}, nil
			}

			require.NoError(t, cmd.ParseFlags([]string{"-metadata-url", imds.URL}))
			require.NoError(t, cmd.Run(context.Background()))
			assert.Equal(t, tt.want+"\n", out.String())
		})
	}
}

func TestAuditCommand(t *testing.T) {
	uri := "sqlite:///" + filepath.Join(t.TempDir(), "library.db")
	cfg := &config.Config{Env: config.EnvDevelopment, Database: config.Database{URI: uri}}

	db, err := database.NewDatabase(uri, logger.Silent)
	require.NoError(t, err)
	repo := auditdb.NewRepository(db.DB)
	ctx := context.Background()
	require.NoError(t, repo.LogEvent(ctx, &entities.AuditEvent{
		EventType: entities.AuditEventCreate, Action: "book_create", Description: "Created book: Dune",
		Status: entities.AuditStatusSuccess,
	}))
	require.NoError(t, repo.LogEvent(ctx, &entities.AuditEvent{
		EventType: entities.AuditEventAuth, Action: "api_key_rejected", IPAddress: "10.0.0.9",
		Status: entities.AuditStatusFailed,
	}))
	require.NoError(t, repo.LogEvent(ctx, &entities.AuditEvent{
		EventType: entities.AuditEventDelete, Action: "book_delete", Status: entities.AuditStatusSuccess,
		CreatedAt: time.Now().Add(-72 * time.Hour),
	}))
	require.NoError(t, db.Close())

	run := func(t *testing.T, args ...string) string {
		t.Helper()
		var out bytes.Buffer
		cmd := NewAuditCommand()
		cmd.stdout = &out
		cmd.newConfig = func() (*config.Config, error) { return cfg, nil }

		require.NoError(t, cmd.ParseFlags(args))
		require.NoError(t, cmd.Run(ctx))
		return out.String()
	}

	t.Run("lists recent events", func(t *testing.T) {
		out := run(t)
		assert.Contains(t, out, "Created book: Dune")
		assert.Contains(t, out, "api_key_rejected")
		assert.NotContains(t, out, "book_delete")
	})

	t.Run("filters by type", func(t *testing.T) {
		out := run(t, "-type", "auth")
		assert.Contains(t, out, "10.0.0.9")
		assert.NotContains(t, out, "Created book: Dune")
	})

	t.Run("wider window", func(t *testing.T) {
		assert.Contains(t, run(t, "-since", "96h"), "book_delete")
	})
}

func TestAuditCommand_InvalidFlags(t *testing.T) {
	assert.Error(t, NewAuditCommand().ParseFlags([]string{"-type", "login"}))
	assert.Error(t, NewAuditCommand().ParseFlags([]string{"-since", "-1h"}))
}
