package client

// SpawnRequest is the request body for spawning a new NPC.
type SpawnRequest struct {
	ShortName            string        `json:"short_name"`
	Name                 string        `json:"name"`
	CharacterDescription string        `json:"character_description"`
	SystemPrompt         string        `json:"system_prompt"`
	VoiceID              string        `json:"voice_id"`
	Commands             []FunctionDef `json:"commands,omitempty"`
	KeepGameState        *bool         `json:"keep_game_state,omitempty"`
}

// ChatRequest is the request body for sending a chat message to an NPC.
type ChatRequest struct {
	SenderName    string `json:"sender_name"`
	SenderMessage string `json:"sender_message"`
	GameStateInfo string `json:"game_state_info,omitempty"`
	TTS           string `json:"tts,omitempty"`
}

// TTS modes accepted in ChatRequest.TTS.
const (
	TTSLocalClient = "local_client"
	TTSServer      = "server"
)

// FunctionDef is the wire representation of a function/command an NPC may
// invoke. Parameters holds a JSON-schema object map; nil means the function
// takes no arguments.
type FunctionDef struct {
	Name                    string         `json:"name"`
	Description             string         `json:"description"`
	Parameters              map[string]any `json:"parameters,omitempty"`
	NeverRespondWithMessage *bool          `json:"never_respond_with_message,omitempty"`
}

// TTSSpeakRequest is the request body for speaking text through the Player2
// app's TTS engine.
type TTSSpeakRequest struct {
	Text          string         `json:"text"`
	PlayInApp     bool           `json:"play_in_app"`
	Speed         float64        `json:"speed"`
	VoiceIDs      []string       `json:"voice_ids,omitempty"`
	VoiceGender   string         `json:"voice_gender,omitempty"`
	VoiceLanguage string         `json:"voice_language,omitempty"`
	AudioFormat   string         `json:"audio_format,omitempty"`
	AdvancedVoice *AdvancedVoice `json:"advanced_voice,omitempty"`
}

// AdvancedVoice carries free-form delivery instructions for TTS models that
// support them.
type AdvancedVoice struct {
	Instructions string `json:"instructions,omitempty"`
}

// TTSSpeakResponse is the response of the speak endpoint. Data holds base64
// audio when the request asked for it instead of in-app playback.
type TTSSpeakResponse struct {
	Data string `json:"data,omitempty"`
}

// TTSVoice describes one voice available for TTS.
type TTSVoice struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Language string `json:"language"`
	Gender   string `json:"gender"`
}

// ttsVoicesResponse is the envelope of the list-voices endpoint.
type ttsVoicesResponse struct {
	Voices []TTSVoice `json:"voices"`
}
