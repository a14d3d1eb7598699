package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/horizon-summaries/backend/internal/db"
)

// settingsKeys defines which keys are allowed and their display metadata
var settingsKeys = []SettingDef{
	{Key: "gemini_api_key", Label: "Gemini API Key", Group: "llm", Placeholder: "AIza...", Secret: true},
	{Key: "gemini_model", Label: "Gemini Model", Group: "llm", Placeholder: "gemini-2.0-flash", Secret: false},
	{Key: "gemini_fallback_model", Label: "Gemini Fallback Model", Group: "llm", Placeholder: "gemini-1.5-flash", Secret: false},
	{Key: "fal_api_key", Label: "Fal API Key", Group: "transcription", Placeholder: "fal-...", Secret: true},
	{Key: "openai_api_key", Label: "OpenAI API Key", Group: "transcription", Placeholder: "sk-...", Secret: true},
	{Key: "transcription_engine", Label: "Default Transcription Engine", Group: "transcription", Placeholder: "fal-wizper", Secret: false},
	{Key: "transcription_language", Label: "Default Language", Group: "transcription", Placeholder: "auto", Secret: false},
}

type SettingDef struct {
	Key         string `json:"key"`
	Label       string `json:"label"`
	Group       string `json:"group"`
	Placeholder string `json:"placeholder"`
	Secret      bool   `json:"secret"`
}

type SettingsHandler struct {
	database *db.Database
}

func NewSettingsHandler(database *db.Database) *SettingsHandler {
	return &SettingsHandler{database: database}
}

// GetSettings returns all settings (secrets are masked)
func (h *SettingsHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	all, err := h.database.GetAllSettings()
	if err != nil {
		jsonError(w, "failed to load settings", http.StatusInternalServerError)
		return
	}

	type settingValue struct {
		SettingDef
		Value string `json:"value"`
		Set   bool   `json:"set"`
	}

	var out []settingValue
	for _, def := range settingsKeys {
		sv := settingValue{SettingDef: def}
		if val, ok := all[def.Key]; ok && val != "" {
			sv.Set = true
			if def.Secret {
				sv.Value = maskSecret(val)
			} else {
				sv.Value = val
			}
		}
		out = append(out, sv)
	}

	jsonResponse(w, out, http.StatusOK)
}

// UpdateSettings accepts a key/value map and stores allowed keys
func (h *SettingsHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req map[string]string
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	allowed := make(map[string]bool, len(settingsKeys))
	for _, def := range settingsKeys {
		allowed[def.Key] = true
	}

	for key, value := range req {
		if !allowed[key] {
			jsonError(w, "unknown setting key: "+key, http.StatusBadRequest)
			return
		}
		if err := h.database.SetSetting(key, value); err != nil {
			jsonError(w, "failed to save setting", http.StatusInternalServerError)
			return
		}
	}

	jsonResponse(w, map[string]string{"status": "ok"}, http.StatusOK)
}

func maskSecret(val string) string {
	if len(val) <= 8 {
		return "********"
	}
	return val[:4] + "..." + val[len(val)-4:]
}
