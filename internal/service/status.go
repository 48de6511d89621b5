package service

import (
	"time"

	"github.com/crewscheduler/backend/internal/models"
)

type Status struct {
	DataSource   string         `json:"data_source"`
	DataPath     string         `json:"data_path"`
	DataLoaded   bool           `json:"data_loaded"`
	Error        string         `json:"error,omitempty"`
	DataSummary  map[string]int `json:"data_summary,omitempty"`
	LoadedAt     *time.Time     `json:"loaded_at,omitempty"`
	ChatbotReady bool           `json:"chatbot_ready"`
	AIProvider   string         `json:"ai_provider"`
	Timestamp    time.Time      `json:"timestamp"`
}

type SourceInfo interface {
	Kind() string
	Path() string
}

func BuildStatus(src SourceInfo, snap *models.Snapshot, chatbotReady bool, aiProvider string, now time.Time) Status {
	st := Status{
		DataSource:   src.Kind(),
		DataPath:     src.Path(),
		DataLoaded:   snap.Loaded(),
		ChatbotReady: chatbotReady,
		AIProvider:   aiProvider,
		Timestamp:    now,
	}
	if snap == nil {
		st.Error = "no data loaded"
		return st
	}
	if !snap.LoadedAt.IsZero() {
		at := snap.LoadedAt
		st.LoadedAt = &at
	}
	if st.DataLoaded {
		st.DataSummary = snap.Counts()
	} else {
		st.Error = snap.LoadError
	}
	return st
}
