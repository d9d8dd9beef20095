package notify

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JurrevE/pararius-monitor/pkg/config"
	"github.com/JurrevE/pararius-monitor/pkg/listing"
)

func testSnapshot() listing.Snapshot {
	return listing.Snapshot{
		Key:     "123",
		Title:   "Apartment Herengracht",
		Price:   "€1,750 per month",
		Address: "1016 BZ Amsterdam",
		URL:     "https://www.pararius.com/apartment/amsterdam/123",
	}
}

func newTestTwilio(endpoint string) *TwilioNotifier {
	n := NewTwilioNotifier(config.TwilioConfig{
		AccountSID: "ACxxx",
		AuthToken:  "secret",
		FromNumber: "+10000000000",
		ToNumber:   "+31600000000",
	})
	n.endpoint = endpoint
	n.client = &http.Client{Timeout: time.Second}
	return n
}

func TestTwilioNotifySuccess(t *testing.T) {
	var gotBody, gotFrom, gotTo string
	var gotAuth bool

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		gotBody = r.PostFormValue("Body")
		gotFrom = r.PostFormValue("From")
		gotTo = r.PostFormValue("To")
		user, pass, ok := r.BasicAuth()
		gotAuth = ok && user == "ACxxx" && pass == "secret"
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	ok := newTestTwilio(srv.URL).Notify(context.Background(), testSnapshot())

	assert.True(t, ok)
	assert.True(t, gotAuth, "basic auth with account sid and token")
	assert.Contains(t, gotBody, "Apartment Herengracht")
	assert.Equal(t, "+10000000000", gotFrom)
	assert.Equal(t, "+31600000000", gotTo)
}

func TestTwilioNotifyRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"code": 21211}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	ok := newTestTwilio(srv.URL).Notify(context.Background(), testSnapshot())
	assert.False(t, ok)
}

func TestTwilioNotifyUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse connections

	ok := newTestTwilio(srv.URL).Notify(context.Background(), testSnapshot())
	assert.False(t, ok)
}

func TestLogNotifierReportsFailure(t *testing.T) {
	assert.False(t, LogNotifier{}.Notify(context.Background(), testSnapshot()))
}
