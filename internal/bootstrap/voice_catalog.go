package bootstrap

import (
	"fmt"
	"strings"

	"voicecut/internal/domain"
)

var voiceCatalog = []domain.VoiceOption{
	{
		ID:          "21m00Tcm4TlvDq8ikWAM",
		Name:        "Rachel",
		Language:    "en",
		Description: "Calm, neutral narration voice.",
	},
	{
		ID:          "29vD33N1CtxCmqQRPOHJ",
		Name:        "Drew",
		Language:    "en",
		Description: "Warm male voice for tutorials.",
	},
	{
		ID:          "EXAVITQu4vr4xnSDxMaL",
		Name:        "Bella",
		Language:    "en",
		Description: "Soft, expressive delivery.",
	},
	{
		ID:          "TxGEqnHWrfWFTfGW9XjX",
		Name:        "Josh",
		Language:    "en",
		Description: "Deep, deliberate narration.",
	},
	{
		ID:          "pNInz6obpgDQGcFmaJgB",
		Name:        "Adam",
		Language:    "en",
		Description: "Crisp male voice for walkthroughs.",
	},
}

// defaultVoiceID is used when remediating a missing voice selection.
const defaultVoiceID = "21m00Tcm4TlvDq8ikWAM"

// GetVoices returns built-in narration voice presets with the current
// selection marked.
func (a *App) GetVoices() []domain.VoiceOption {
	voices := make([]domain.VoiceOption, len(voiceCatalog))
	copy(voices, voiceCatalog)

	settings, err := a.Store.Load()
	if err != nil {
		return voices
	}
	for i := range voices {
		if voices[i].ID == settings.VoiceID {
			voices[i].Selected = true
		}
	}
	return voices
}

// SelectVoice persists the chosen narration voice.
func (a *App) SelectVoice(voiceID string) (domain.Settings, error) {
	id := strings.TrimSpace(voiceID)
	if id == "" {
		return domain.Settings{}, fmt.Errorf("voice id is required")
	}
	if _, found := getVoiceByID(id); !found {
		return domain.Settings{}, fmt.Errorf("unknown voice id: %s", id)
	}

	settings, err := a.Store.Load()
	if err != nil {
		return domain.Settings{}, fmt.Errorf("load settings: %w", err)
	}
	settings.VoiceID = id
	return a.SaveSettings(settings)
}

func getVoiceByID(id string) (domain.VoiceOption, bool) {
	for _, voice := range voiceCatalog {
		if voice.ID == id {
			return voice, true
		}
	}
	return domain.VoiceOption{}, false
}
