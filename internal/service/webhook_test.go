package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ricardo-pereira-dev/mathlab-enhanced/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveEndpoint(t *testing.T) {
	w := NewTutorWebhook(map[domain.Grade]string{
		domain.Grade7: "http://n8n/7",
		domain.Grade8: "http://n8n/8",
	})

	url, err := w.ResolveEndpoint(domain.Grade8)
	require.NoError(t, err)
	assert.Equal(t, "http://n8n/8", url)

	// Grade without a mapping falls back to the 7th-grade endpoint
	url, err = w.ResolveEndpoint(domain.Grade9)
	require.NoError(t, err)
	assert.Equal(t, "http://n8n/7", url)

	url, err = w.ResolveEndpoint("unknown")
	require.NoError(t, err)
	assert.Equal(t, "http://n8n/7", url)
}

func TestResolveEndpointUnconfigured(t *testing.T) {
	w := NewTutorWebhook(map[domain.Grade]string{})

	_, err := w.ResolveEndpoint(domain.Grade7)
	assert.ErrorIs(t, err, domain.ErrWebhookNotConfigured)
}

func TestAsk(t *testing.T) {
	var got tutorRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		json.NewEncoder(w).Encode(map[string]string{"response": "x = 4"})
	}))
	defer srv.Close()

	w := NewTutorWebhook(map[domain.Grade]string{domain.Grade8: srv.URL})

	answer, err := w.Ask(context.Background(), "2x = 8?", domain.Grade8, "42")
	require.NoError(t, err)
	assert.Equal(t, "x = 4", answer)
	assert.Equal(t, "2x = 8?", got.Message)
	assert.Equal(t, "8º ano", got.Grade)
	assert.Equal(t, "42", got.UserID)
}

func TestAskPrefersResponseOverMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"response": "primary", "message": "secondary"})
	}))
	defer srv.Close()

	w := NewTutorWebhook(map[domain.Grade]string{domain.Grade7: srv.URL})

	answer, err := w.Ask(context.Background(), "q", domain.Grade7, "1")
	require.NoError(t, err)
	assert.Equal(t, "primary", answer)
}

func TestAskMessageField(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"message": "só message"})
	}))
	defer srv.Close()

	w := NewTutorWebhook(map[domain.Grade]string{domain.Grade7: srv.URL})

	answer, err := w.Ask(context.Background(), "q", domain.Grade7, "1")
	require.NoError(t, err)
	assert.Equal(t, "só message", answer)
}

func TestAskEmptyPayloadFallsBack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	w := NewTutorWebhook(map[domain.Grade]string{domain.Grade7: srv.URL})

	answer, err := w.Ask(context.Background(), "q", domain.Grade7, "1")
	require.NoError(t, err)
	assert.Equal(t, FallbackAnswer, answer)
}

func TestAskNon2xxFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	w := NewTutorWebhook(map[domain.Grade]string{domain.Grade7: srv.URL})

	_, err := w.Ask(context.Background(), "q", domain.Grade7, "1")
	assert.ErrorContains(t, err, "status 500")
}

func TestAskPlainTextBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("resposta em texto simples"))
	}))
	defer srv.Close()

	w := NewTutorWebhook(map[domain.Grade]string{domain.Grade7: srv.URL})

	answer, err := w.Ask(context.Background(), "q", domain.Grade7, "1")
	require.NoError(t, err)
	assert.Equal(t, "resposta em texto simples", answer)
}

func TestFlattenHTML(t *testing.T) {
	assert.Equal(t, "Olá aluno", flattenHTML("<p>Olá <b>aluno</b></p>"))

	// Math symbols must not be treated as markup
	assert.Equal(t, "2 < 3 e x > 1", flattenHTML("2 < 3 e x > 1"))
	assert.Equal(t, "sem html", flattenHTML("sem html"))
}
