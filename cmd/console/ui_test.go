package main

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLoadingUI(baseURL string) ConsoleUI {
	return ConsoleUI{
		config:   &ConsoleConfig{APIBaseURL: baseURL, Timeout: 5 * time.Second},
		client:   &http.Client{Timeout: 5 * time.Second},
		textarea: textarea.New(),
		ready:    true,
		loading:  true,
	}
}

func TestEnterWhileLoading(t *testing.T) {
	var cancelHits atomic.Int64
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/v1/game/cancel" {
			cancelHits.Add(1)
			w.WriteHeader(http.StatusAccepted)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer ts.Close()

	t.Run("cancel goes through", func(t *testing.T) {
		m := newLoadingUI(ts.URL)
		m.textarea.SetValue("/cancel")

		model, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
		updated, ok := model.(ConsoleUI)
		require.True(t, ok)

		assert.Equal(t, int64(1), cancelHits.Load())
		assert.Empty(t, updated.textarea.Value())
	})

	t.Run("other input is swallowed", func(t *testing.T) {
		cancelHits.Store(0)
		m := newLoadingUI(ts.URL)
		m.textarea.SetValue("/attack")

		model, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
		updated, ok := model.(ConsoleUI)
		require.True(t, ok)

		assert.Equal(t, int64(0), cancelHits.Load())
		assert.Equal(t, "/attack", updated.textarea.Value())
	})
}
