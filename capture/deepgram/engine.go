// Package deepgram implements capture.Engine over Deepgram's live
// transcription websocket. Audio comes from an AudioSource and is streamed
// as binary frames; transcript results come back as capture events.
package deepgram

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/kbukum/medsum/capture"
	"github.com/kbukum/medsum/logger"
)

var closeStream = []byte(`{"type": "CloseStream"}`)

// messageType is used to determine the type of a Deepgram message.
type messageType struct {
	Type string `json:"type"`
}

// transcriptResponse is Deepgram's transcript result.
type transcriptResponse struct {
	Type    string `json:"type"`
	Channel struct {
		Alternatives []struct {
			Transcript string  `json:"transcript"`
			Confidence float64 `json:"confidence"`
		} `json:"alternatives"`
	} `json:"channel"`
	IsFinal bool `json:"is_final"`
}

// Engine streams audio to Deepgram. One run is active at a time.
type Engine struct {
	cfg    Config
	source AudioSource
	dialer *websocket.Dialer
	log    *logger.Logger

	mu  sync.Mutex
	run *run
}

// run is one connection plus its audio stream.
type run struct {
	conn    *websocket.Conn
	audio   io.ReadCloser
	writeMu sync.Mutex
	stopped chan struct{}
	once    sync.Once
}

func (r *run) stop() {
	r.once.Do(func() {
		close(r.stopped)
		r.writeMu.Lock()
		_ = r.conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		r.writeMu.Unlock()
		_ = r.conn.Close()
		_ = r.audio.Close()
	})
}

func (r *run) isStopped() bool {
	select {
	case <-r.stopped:
		return true
	default:
		return false
	}
}

// New creates an engine. cfg defaults are applied.
func New(cfg Config, source AudioSource, log *logger.Logger) *Engine {
	cfg.ApplyDefaults()
	if log == nil {
		log = logger.Nop()
	}
	return &Engine{
		cfg:    cfg,
		source: source,
		dialer: &websocket.Dialer{HandshakeTimeout: cfg.HandshakeTimeout},
		log:    log.WithComponent("deepgram"),
	}
}

// Start opens the audio source and connects. Rejected credentials are
// reported to l as not-allowed and other dial failures as audio-capture;
// Start then returns nil. A source that cannot be opened is returned as an
// error.
func (e *Engine) Start(locale string, l capture.Listener) error {
	e.mu.Lock()
	busy := e.run != nil
	e.mu.Unlock()
	if busy {
		return fmt.Errorf("deepgram: engine already running")
	}

	target, err := e.cfg.listenURL(locale)
	if err != nil {
		return fmt.Errorf("deepgram: build url: %w", err)
	}

	audio, err := e.source.Open(context.Background())
	if err != nil {
		return fmt.Errorf("deepgram: open audio: %w", err)
	}

	header := http.Header{}
	header.Set("Authorization", "Token "+e.cfg.APIKey)
	conn, resp, err := e.dialer.Dial(target, header)
	if err != nil {
		_ = audio.Close()
		code := capture.ErrAudioCapture
		if resp != nil && (resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden) {
			code = capture.ErrNotAllowed
		}
		e.log.WithError(err).Warn("deepgram connection failed", logger.Fields(logger.FieldKind, string(code)))
		l.Error(code)
		return nil
	}

	r := &run{conn: conn, audio: audio, stopped: make(chan struct{})}
	e.mu.Lock()
	e.run = r
	e.mu.Unlock()

	go e.pump(r)
	go e.readResults(r, l)

	e.log.Info("connected to speech-to-text service", logger.Fields(logger.FieldLocale, locale))
	return nil
}

// Stop closes the connection and the audio stream. No callbacks follow.
func (e *Engine) Stop() {
	e.mu.Lock()
	r := e.run
	e.run = nil
	e.mu.Unlock()
	if r != nil {
		r.stop()
		e.log.Info("disconnected")
	}
}

// pump copies audio to the socket and asks Deepgram to flush at EOF.
func (e *Engine) pump(r *run) {
	buf := make([]byte, e.cfg.ChunkSize)
	for {
		n, err := r.audio.Read(buf)
		if n > 0 {
			r.writeMu.Lock()
			werr := r.conn.WriteMessage(websocket.BinaryMessage, buf[:n])
			r.writeMu.Unlock()
			if werr != nil {
				return
			}
		}
		if err != nil {
			if r.isStopped() {
				return
			}
			if !errors.Is(err, io.EOF) {
				e.log.WithError(err).Warn("audio source read failed")
			}
			r.writeMu.Lock()
			_ = r.conn.WriteMessage(websocket.TextMessage, closeStream)
			r.writeMu.Unlock()
			return
		}
	}
}

func (e *Engine) readResults(r *run, l capture.Listener) {
	for {
		_, message, err := r.conn.ReadMessage()
		if err != nil {
			if r.isStopped() {
				return
			}
			e.finish(r)
			if websocket.IsCloseError(err, websocket.CloseNormalClosure) || errors.Is(err, io.EOF) {
				l.End()
				return
			}
			e.log.WithError(err).Warn("deepgram read error")
			l.Error(capture.ErrNetwork)
			return
		}

		var mt messageType
		if err := json.Unmarshal(message, &mt); err != nil || mt.Type != "Results" {
			continue
		}
		var resp transcriptResponse
		if err := json.Unmarshal(message, &resp); err != nil {
			continue
		}
		if len(resp.Channel.Alternatives) == 0 || resp.Channel.Alternatives[0].Transcript == "" {
			continue
		}
		l.Result(capture.Event{Fragments: []capture.Fragment{{
			Text:  resp.Channel.Alternatives[0].Transcript,
			Final: resp.IsFinal,
		}}})
	}
}

// finish releases a run that ended on its own so the engine can start again.
func (e *Engine) finish(r *run) {
	e.mu.Lock()
	if e.run == r {
		e.run = nil
	}
	e.mu.Unlock()
	r.stop()
}
