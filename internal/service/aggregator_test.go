package service

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lifesync/internal/backend"
	"lifesync/internal/config"
	"lifesync/internal/logging"
	"lifesync/internal/model"
	"lifesync/internal/provider"
)

func writeProviders(t *testing.T, cfg *config.Config, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(cfg.ProvidersPath(), []byte(body), 0600))
}

func newConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.New(t.TempDir())
	require.NoError(t, err)
	return cfg
}

func TestAggregatorSyncsConfiguredSources(t *testing.T) {
	gh := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "token good" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"message":"Bad credentials"}`))
			return
		}
		_, _ = w.Write([]byte(`[{"id":1,"number":3,"title":"Fix it","state":"open","repository":{"full_name":"acme/app"}}]`))
	}))
	defer gh.Close()

	cfg := newConfig(t)
	writeProviders(t, cfg, fmt.Sprintf(`{
		"sync": {"retryBackoffMs": 0},
		"providers": [
			{"name": "demo", "type": "static"},
			{"name": "work-gh", "type": "github", "token": "good", "baseUrl": %q},
			{"name": "old-gh", "type": "github", "token": "bad", "baseUrl": %q},
			{"name": "off", "type": "slack", "disabled": true}
		]
	}`, gh.URL, gh.URL))

	svc, err := Open(cfg, backend.NewRegistry(), WithLogger(logging.NewNop()), WithHTTPClient(gh.Client()))
	require.NoError(t, err)

	infos := svc.Sources()
	require.Len(t, infos, 4)
	assert.Equal(t, "demo", infos[0].Name)
	assert.Equal(t, []model.Kind{model.KindTasks}, infos[1].Kinds)
	assert.True(t, infos[3].Disabled)

	res, err := svc.Sync(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 5, res.Calls, "three static kinds plus two github task calls")
	require.Len(t, res.Failures, 1)
	assert.Equal(t, "old-gh", res.Failures[0].Source)
	assert.Equal(t, provider.KindAuth, res.Failures[0].ErrKind)
	assert.True(t, res.Partial())

	var ghTasks []string
	for _, task := range res.Tasks {
		if strings.HasPrefix(task.ID, "work-gh:") || strings.HasPrefix(task.ID, "old-gh:") {
			ghTasks = append(ghTasks, task.ID)
		}
	}
	assert.Equal(t, []string{"work-gh:acme/app#3"}, ghTasks)
	assert.Equal(t, "demo:1", res.Messages[0].ID)
}

func TestOpenRejectsUnknownProviderType(t *testing.T) {
	cfg := newConfig(t)
	writeProviders(t, cfg, `{"providers": [{"type": "friendster", "token": "x"}]}`)

	_, err := Open(cfg, backend.NewRegistry(), WithLogger(logging.NewNop()))
	assert.ErrorIs(t, err, provider.ErrConfig)
}

func TestOpenMissingFile(t *testing.T) {
	_, err := Open(newConfig(t), backend.NewRegistry(), WithLogger(logging.NewNop()))
	assert.ErrorIs(t, err, config.ErrNotConfigured)
}

func TestSyncDuplicateNamesIsConfigError(t *testing.T) {
	cfg := newConfig(t)
	writeProviders(t, cfg, `{"providers": [{"type": "static"}, {"type": "static"}]}`)

	svc, err := Open(cfg, backend.NewRegistry(), WithLogger(logging.NewNop()))
	require.NoError(t, err)

	_, err = svc.Sync(context.Background())
	assert.ErrorIs(t, err, provider.ErrConfig)
}

func TestReloadKeepsPreviousConfigOnError(t *testing.T) {
	cfg := newConfig(t)
	writeProviders(t, cfg, `{"providers": [{"type": "static"}]}`)

	svc, err := Open(cfg, backend.NewRegistry(), WithLogger(logging.NewNop()))
	require.NoError(t, err)

	writeProviders(t, cfg, `{"providers": [{"type": "static", "name": "bad:name"}]}`)
	assert.ErrorIs(t, svc.Reload(), config.ErrInvalidConfig)
	assert.Equal(t, "static", svc.Sources()[0].Name)

	writeProviders(t, cfg, `{"providers": [{"type": "static", "name": "renamed"}]}`)
	require.NoError(t, svc.Reload())
	assert.Equal(t, "renamed", svc.Sources()[0].Name)

	res, err := svc.Sync(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "renamed:1", res.Tasks[0].ID)
}
