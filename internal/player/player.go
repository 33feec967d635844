package player

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strings"
	"sync"

	"wallpresentation/internal/analytics"
	"wallpresentation/internal/chrome"
	"wallpresentation/internal/engine"
	"wallpresentation/internal/media"
	"wallpresentation/internal/models"
	"wallpresentation/internal/syncnet"
)

// Launch carries the parameters the hosting URL supplies to the engine.
type Launch struct {
	PresentationID string
	// ClientID attributes analytics events; empty disables analytics
	// emission entirely.
	ClientID string
	// ClientMode switches the engine into the read-only client role.
	ClientMode bool
}

// ParseLaunchURL extracts launch parameters from a hosting URL of the form
// /presentations/{id}?client=...&mode=client.
func ParseLaunchURL(raw string) (Launch, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return Launch{}, fmt.Errorf("invalid launch URL: %w", err)
	}
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(parts) < 2 || parts[len(parts)-2] != "presentations" || parts[len(parts)-1] == "" {
		return Launch{}, fmt.Errorf("launch URL has no presentation id: %s", raw)
	}
	query := u.Query()
	return Launch{
		PresentationID: parts[len(parts)-1],
		ClientID:       query.Get("client"),
		ClientMode:     query.Get("mode") == "client",
	}, nil
}

// Options configures a player session.
type Options struct {
	// APIBaseURL is the backend API root, e.g. "http://localhost:8090/api".
	APIBaseURL string
	// FilesBaseURL is the static asset root, e.g. "http://localhost:8090".
	FilesBaseURL string
	Launch       Launch
	// Fullscreen may be nil when the host surface has no fullscreen
	// capability.
	Fullscreen chrome.FullscreenRequester
}

// Player composes the playback engine for one presentation view: the
// navigation state machine, sync channel endpoint, analytics recorder,
// chrome controller, and the media renderer for the current section.
type Player struct {
	opts     Options
	engine   *engine.Engine
	chrome   *chrome.Controller
	recorder *analytics.Recorder
	listener *syncnet.WSListener
	resolver *media.SourceResolver

	mu              sync.Mutex
	presentation    *models.Presentation
	renderer        media.Renderer
	rendererSection int
	closed          bool
}

// New creates a player session. The engine starts in Loading; call Start to
// fetch the presentation and come alive.
func New(opts Options) *Player {
	role := engine.RolePresenter
	var publisher engine.Publisher
	if opts.Launch.ClientMode {
		role = engine.RoleClient
	} else {
		publisher = syncnet.NewHTTPPublisher(opts.APIBaseURL)
	}

	p := &Player{
		opts:     opts,
		engine:   engine.New(role, publisher),
		resolver: &media.SourceResolver{FilesBaseURL: opts.FilesBaseURL},
	}
	p.chrome = chrome.NewController(role, opts.Fullscreen)
	return p
}

// Engine returns the navigation state machine.
func (p *Player) Engine() *engine.Engine {
	return p.engine
}

// Chrome returns the chrome controller.
func (p *Player) Chrome() *chrome.Controller {
	return p.chrome
}

// Renderer returns the media renderer for the current section.
func (p *Player) Renderer() media.Renderer {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.renderer
}

// Start loads the presentation and wires up the session. On load failure
// the engine is left in Error; the caller shows the terminal message and
// offers only an exit action.
func (p *Player) Start(ctx context.Context) error {
	loader := engine.NewLoader(p.opts.APIBaseURL)
	if err := p.engine.Load(ctx, loader, p.opts.Launch.PresentationID); err != nil {
		return fmt.Errorf("failed to load presentation: %w", err)
	}
	presentation := p.engine.Presentation()
	p.mu.Lock()
	p.presentation = presentation
	p.mu.Unlock()

	// The player observes cursor changes to swap renderers; the recorder
	// observes them to account dwell time.
	p.engine.AddObserver(p)
	if p.opts.Launch.ClientID != "" {
		sender := analytics.NewHTTPSender(p.opts.APIBaseURL)
		p.recorder = analytics.NewRecorder(presentation, p.opts.Launch.ClientID, sender)
		p.engine.AddObserver(p.recorder)
		p.recorder.Start(p.engine.Cursor())
	}

	p.mountRenderer(p.engine.Cursor().SectionIndex)

	if p.opts.Launch.ClientMode {
		p.listener = syncnet.NewWSListener(p.syncURL(), p.engine)
		if err := p.listener.Start(); err != nil {
			// Sync is best-effort; the client stays on its local cursor.
			log.Printf("Sync subscription unavailable: %v", err)
		}
	} else {
		p.chrome.AutoFullscreen()
	}

	return nil
}

// CursorChanged implements engine.Observer: the media renderer's lifetime
// is scoped to "this section is current".
func (p *Player) CursorChanged(prev, next engine.Cursor) {
	if prev.SectionIndex == next.SectionIndex {
		return
	}
	p.mountRenderer(next.SectionIndex)
}

func (p *Player) mountRenderer(sectionIndex int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	if p.renderer != nil {
		p.renderer.Close()
		p.renderer = nil
	}

	section := p.presentation.Sections[sectionIndex]
	renderer, err := media.ForSection(p.presentation.ID, section, p.resolver, p.engine.Role())
	if err != nil {
		log.Printf("Failed to mount renderer: %v", err)
		return
	}
	p.renderer = renderer
	p.rendererSection = sectionIndex

	if panorama, ok := renderer.(*media.PanoramaRenderer); ok {
		panorama.Viewer().StartAutoRotate()
	}
}

// Close tears the session down: the sync subscription, the idle-hide timer,
// any auto-rotate tick, and the fullscreen grab are all released, and the
// final presentation_exit analytics event is emitted exactly once.
func (p *Player) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	renderer := p.renderer
	p.renderer = nil
	p.mu.Unlock()

	if p.listener != nil {
		p.listener.Stop()
	}
	if renderer != nil {
		renderer.Close()
	}
	if p.recorder != nil {
		p.recorder.Close()
	}
	p.chrome.Close()
	p.engine.Close()
}

func (p *Player) syncURL() string {
	base := p.opts.APIBaseURL
	if strings.HasPrefix(base, "https://") {
		base = "wss://" + strings.TrimPrefix(base, "https://")
	} else if strings.HasPrefix(base, "http://") {
		base = "ws://" + strings.TrimPrefix(base, "http://")
	}
	return fmt.Sprintf("%s/sync/%s", base, p.opts.Launch.PresentationID)
}
