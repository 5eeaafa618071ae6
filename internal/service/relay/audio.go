package relay

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"relaychat/internal/models"
)

const (
	tempFilePrefix   = "relaychat-audio-"
	defaultAudioName = "audio.webm"
	maxNameLen       = 64
)

// AudioUpload is a voice note received from the client.
type AudioUpload struct {
	Filename string
	Body     io.Reader
}

// SubmitAudio stages the upload in a temp file, transcribes it and relays
// the transcript behind the audio instruction. The temp file is removed
// before SubmitAudio returns, whatever the outcome.
func (s *Service) SubmitAudio(ctx context.Context, upload AudioUpload) (AudioResult, error) {
	var result AudioResult
	if upload.Body == nil {
		return result, ErrAudioRequired
	}

	path, err := s.stageUpload(upload)
	if err != nil {
		return result, fmt.Errorf("stage audio: %w", err)
	}
	defer func() {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			log.Printf("remove temp audio %s failed: %v", path, err)
		}
	}()

	transcript, err := s.transcribe(ctx, path)
	if err != nil {
		return result, err
	}
	result.Transcript = transcript
	if transcript == "" {
		return result, ErrNoSpeech
	}

	reply, err := s.complete(ctx, s.audioInstruction, []models.Message{
		{Role: models.RoleUser, Content: transcript},
	})
	if err != nil {
		return result, err
	}
	result.Reply = reply
	return result, nil
}

func (s *Service) transcribe(ctx context.Context, path string) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	text, err := s.transcriber.Transcribe(callCtx, path)
	if err != nil {
		return "", fmt.Errorf("%w: transcription: %w", ErrUpstream, err)
	}
	return strings.TrimSpace(text), nil
}

// stageUpload copies the upload into a new file under the temp dir. On
// failure nothing is left behind.
func (s *Service) stageUpload(upload AudioUpload) (string, error) {
	name := tempFilePrefix + uuid.NewString() + "-" + sanitizeFilename(upload.Filename)
	path := filepath.Join(s.tempDir, name)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(f, upload.Body); err != nil {
		f.Close()
		os.Remove(path)
		return "", err
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", err
	}
	return path, nil
}

// sanitizeFilename keeps only the base name and replaces every character
// outside [A-Za-z0-9._-] so the result can never leave the temp dir.
func sanitizeFilename(name string) string {
	name = strings.ReplaceAll(name, `\`, "/")
	name = filepath.Base(name)
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	clean := strings.TrimLeft(b.String(), ".")
	if clean == "" || strings.Trim(clean, "_") == "" {
		return defaultAudioName
	}
	if len(clean) > maxNameLen {
		ext := filepath.Ext(clean)
		if len(ext) >= maxNameLen {
			ext = ""
		}
		clean = clean[:maxNameLen-len(ext)] + ext
	}
	return clean
}
