package msgraph

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lifesync/internal/model"
	"lifesync/internal/provider"
)

func graphServer(t *testing.T, routes map[string]string) provider.Settings {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer graph-token" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":{"code":"InvalidAuthenticationToken","message":"Access token is empty."}}`))
			return
		}
		body, ok := routes[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return provider.Settings{BaseURL: server.URL, HTTPClient: server.Client()}
}

var cred = provider.Credential{Token: "graph-token"}

func TestOutlookFetchMessages(t *testing.T) {
	settings := graphServer(t, map[string]string{
		"/me/messages": `{"value":[
			{"id":"AAA","subject":"Q3 plan","bodyPreview":"Draft attached","receivedDateTime":"2024-05-10T08:30:00Z",
			 "from":{"emailAddress":{"name":"Dana","address":"dana@example.com"}},"categories":["Blue category","Work"]},
			{"id":"BBB","subject":"Hello","bodyPreview":"  ","receivedDateTime":"2024-05-09T08:30:00Z",
			 "from":{"emailAddress":{"address":"noreply@example.com"}}}
		]}`,
	})

	got, err := NewOutlook(settings).FetchMessages(context.Background(), cred)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "AAA", got[0].ID)
	assert.Equal(t, "Dana", got[0].Sender)
	assert.Equal(t, "Draft attached", got[0].Content)
	assert.Equal(t, model.Work, got[0].Category)
	assert.False(t, got[0].Replied)
	assert.True(t, got[0].Timestamp.Equal(time.Date(2024, 5, 10, 8, 30, 0, 0, time.UTC)))

	assert.Equal(t, "noreply@example.com", got[1].Sender)
	assert.Equal(t, "Hello", got[1].Content)
	assert.Equal(t, model.Personal, got[1].Category)
}

func TestOutlookFetchEvents(t *testing.T) {
	settings := graphServer(t, map[string]string{
		"/me/events": `{"value":[
			{"id":"E1","subject":"Design review","bodyPreview":"Agenda inside",
			 "start":{"dateTime":"2024-05-11T09:00:00.0000000","timeZone":"UTC"},
			 "end":{"dateTime":"2024-05-11T10:00:00.0000000","timeZone":"UTC"},
			 "location":{"displayName":"Room 4"},"categories":["work"],
			 "webLink":"https://outlook.example.com/E1","onlineMeeting":{"joinUrl":"https://teams.example.com/j"}},
			{"id":"E2","subject":"Cancelled","isCancelled":true,
			 "start":{"dateTime":"2024-05-11T09:00:00.0000000"},"end":{"dateTime":"2024-05-11T10:00:00.0000000"}}
		]}`,
	})

	got, err := NewOutlook(settings).FetchEvents(context.Background(), cred)
	require.NoError(t, err)
	require.Len(t, got, 1)

	ev := got[0]
	assert.Equal(t, "E1", ev.ID)
	assert.Equal(t, "Room 4", ev.Location)
	assert.Equal(t, model.Work, ev.Category)
	assert.True(t, ev.Start.Equal(time.Date(2024, 5, 11, 9, 0, 0, 0, time.UTC)))
	assert.True(t, ev.End.Equal(time.Date(2024, 5, 11, 10, 0, 0, 0, time.UTC)))
	assert.Equal(t, []model.Link{
		{Title: "Join meeting", URL: "https://teams.example.com/j"},
		{Title: "Open in Outlook", URL: "https://outlook.example.com/E1"},
	}, ev.Links)
}

func TestTeamsFetchMessages(t *testing.T) {
	settings := graphServer(t, map[string]string{
		"/me/chats/getAllMessages": `{"value":[
			{"id":"1","messageType":"message","createdDateTime":"2024-05-10T08:30:00.123Z",
			 "from":{"user":{"displayName":"Lee"}},"body":{"contentType":"html","content":"<p>Lunch &amp; learn <b>today</b></p>"}},
			{"id":"2","messageType":"systemEventMessage","createdDateTime":"2024-05-10T08:31:00Z"},
			{"id":"3","messageType":"message","createdDateTime":"2024-05-10T08:32:00Z",
			 "from":{"application":{"displayName":"Planner"}},"body":{"contentType":"text","content":"Task assigned"}}
		]}`,
	})

	got, err := NewTeams(settings).FetchMessages(context.Background(), cred)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "Lee", got[0].Sender)
	assert.Equal(t, "Lunch & learn today", got[0].Content)
	assert.Equal(t, TeamsTag, got[0].Platform)
	assert.Equal(t, "Planner", got[1].Sender)
	assert.Equal(t, "Task assigned", got[1].Content)
}

func TestGraphRejectedToken(t *testing.T) {
	settings := graphServer(t, nil)
	_, err := NewTeams(settings).FetchMessages(context.Background(), provider.Credential{Token: "stale"})
	assert.ErrorIs(t, err, provider.ErrAuth)
	assert.Contains(t, err.Error(), "Access token is empty.")
}

func TestAdapterKinds(t *testing.T) {
	assert.Equal(t, []model.Kind{model.KindMessages, model.KindEvents}, provider.Kinds(NewOutlook(provider.Settings{})))
	assert.Equal(t, []model.Kind{model.KindMessages}, provider.Kinds(NewTeams(provider.Settings{})))
}
