package backend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lifesync/internal/model"
	"lifesync/internal/provider"
)

func TestNewRegistryCapabilities(t *testing.T) {
	r := NewRegistry()

	assert.Equal(t, []string{
		"github", "gmail", "googlecalendar", "googletasks", "jira", "outlook", "slack", "static", "teams",
	}, r.Tags())

	want := map[string][]model.Kind{
		"static":         {model.KindMessages, model.KindTasks, model.KindEvents},
		"googletasks":    {model.KindTasks},
		"googlecalendar": {model.KindEvents},
		"gmail":          {model.KindMessages},
		"slack":          {model.KindMessages},
		"outlook":        {model.KindMessages, model.KindEvents},
		"teams":          {model.KindMessages},
		"jira":           {model.KindTasks},
		"github":         {model.KindTasks},
	}
	for tag, kinds := range want {
		a, err := r.Build(tag, provider.Settings{})
		require.NoError(t, err, tag)
		assert.Equal(t, tag, a.Tag())
		assert.Equal(t, kinds, provider.Kinds(a), tag)
		assert.Equal(t, tag != "static", provider.NeedsCredential(a), tag)
	}
}

func TestNewRegistryUnknownType(t *testing.T) {
	_, err := NewRegistry().Build("myspace", provider.Settings{})
	assert.ErrorIs(t, err, provider.ErrConfig)
}
