package player

import (
	"bytes"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
	"github.com/gopxl/beep/wav"

	"github.com/Danondso/melodia/internal/render"
)

// Player plays rendered WAV containers on the default output device.
type Player struct {
	enabled  bool
	logger   *log.Logger
	initOnce sync.Once
	initErr  error
	mu       sync.Mutex
}

// New creates a Player. If enabled is false, Play is a no-op.
func New(enabled bool, logger *log.Logger) *Player {
	return &Player{enabled: enabled, logger: logger}
}

// Enabled reports whether playback is turned on.
func (p *Player) Enabled() bool {
	return p.enabled
}

func (p *Player) initSpeaker(format beep.Format) {
	p.initOnce.Do(func() {
		p.initErr = speaker.Init(format.SampleRate, format.SampleRate.N(time.Second/10))
	})
}

// Play decodes data and blocks until playback finishes. Calls are
// serialized; a second Play waits for the first to end.
func (p *Player) Play(data []byte) error {
	if !p.enabled || len(data) == 0 {
		return nil
	}

	h, err := render.ReadHeader(data)
	if err != nil {
		return err
	}
	if h.DataSize == 0 {
		return nil
	}

	streamer, format, err := wav.Decode(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("wav decode: %w", err)
	}
	defer streamer.Close()

	p.mu.Lock()
	defer p.mu.Unlock()

	p.initSpeaker(format)
	if p.initErr != nil {
		return fmt.Errorf("speaker init: %w", p.initErr)
	}

	if p.logger != nil {
		p.logger.Printf("player: playing %d samples at %d Hz", streamer.Len(), format.SampleRate)
	}

	done := make(chan struct{})
	speaker.Play(beep.Seq(streamer, beep.Callback(func() {
		close(done)
	})))
	<-done
	return nil
}

// PlayAsync plays data in the background and reports the result on the
// returned channel.
func (p *Player) PlayAsync(data []byte) <-chan error {
	errc := make(chan error, 1)
	go func() {
		err := p.Play(data)
		if err != nil && p.logger != nil {
			p.logger.Printf("player: %v", err)
		}
		errc <- err
	}()
	return errc
}
