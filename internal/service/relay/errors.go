package relay

import "errors"

var (
	// ErrHistoryRequired is returned when a chat request carries no messages.
	ErrHistoryRequired = errors.New("history required")
	// ErrInvalidRole is returned for a history entry with an unknown role.
	ErrInvalidRole = errors.New("invalid message role")
	// ErrAudioRequired is returned when an audio request has no file.
	ErrAudioRequired = errors.New("audio file required")
	// ErrNoSpeech is returned when transcription yields no text.
	ErrNoSpeech = errors.New("no speech detected in audio")
	// ErrUpstream wraps every failure reported by the model provider,
	// including timeouts and empty responses.
	ErrUpstream = errors.New("upstream provider failure")
)

// IsInvalidRequest reports whether err was caused by caller input.
func IsInvalidRequest(err error) bool {
	return errors.Is(err, ErrHistoryRequired) ||
		errors.Is(err, ErrInvalidRole) ||
		errors.Is(err, ErrAudioRequired) ||
		errors.Is(err, ErrNoSpeech)
}
