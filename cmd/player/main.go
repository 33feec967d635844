package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"wallpresentation/internal/media"
	"wallpresentation/internal/player"
)

func main() {
	apiURL := flag.String("api", "http://localhost:8090/api", "backend API base URL")
	filesURL := flag.String("files", "http://localhost:8090", "static files base URL")
	launchURL := flag.String("url", "", "launch URL, e.g. /presentations/<id>?client=<cid>&mode=client")
	presentationID := flag.String("presentation", "", "presentation id (alternative to -url)")
	clientID := flag.String("client", "", "client id for analytics attribution")
	clientMode := flag.Bool("client-mode", false, "run as a read-only client view")
	flag.Parse()

	launch := player.Launch{
		PresentationID: *presentationID,
		ClientID:       *clientID,
		ClientMode:     *clientMode,
	}
	if *launchURL != "" {
		parsed, err := player.ParseLaunchURL(*launchURL)
		if err != nil {
			log.Fatalf("Invalid launch URL: %v", err)
		}
		launch = parsed
	}
	if launch.PresentationID == "" {
		log.Fatal("A presentation id is required (-presentation or -url)")
	}

	p := player.New(player.Options{
		APIBaseURL:   *apiURL,
		FilesBaseURL: *filesURL,
		Launch:       launch,
	})

	if err := p.Start(context.Background()); err != nil {
		// LoadFailure is terminal for this view: show the message, offer
		// only exit.
		log.Printf("Failed to load presentation: %v", err)
		fmt.Println("Could not load the presentation. Press enter to exit.")
		bufio.NewReader(os.Stdin).ReadString('\n')
		os.Exit(1)
	}
	defer p.Close()

	// The final analytics event must go out even on an interrupt.
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-interrupt
		p.Close()
		os.Exit(0)
	}()

	if launch.ClientMode {
		fmt.Println("Client view: mirroring the presenter. Press q to exit.")
	} else {
		fmt.Println("Presenter view. Commands: n(ext) p(rev) N(ext section) P(rev section) s <i> i <i> v f q(uit)")
	}

	scanner := bufio.NewScanner(os.Stdin)
	for printCursor(p); scanner.Scan(); printCursor(p) {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		p.Chrome().PointerMoved()
		switch fields[0] {
		case "n":
			p.Engine().Next()
		case "p":
			p.Engine().Previous()
		case "N":
			p.Engine().NextSection()
		case "P":
			p.Engine().PreviousSection()
		case "s":
			if index, ok := parseIndex(fields); ok {
				p.Engine().JumpToSection(index)
			}
		case "i":
			if index, ok := parseIndex(fields); ok {
				p.Engine().JumpToItem(index)
			}
		case "v":
			if renderer, ok := p.Renderer().(*media.VideoRenderer); ok {
				renderer.State().HandleClick()
			}
		case "f":
			p.Chrome().ToggleFullscreen()
		case "q":
			return
		}
	}
}

func parseIndex(fields []string) (int, bool) {
	if len(fields) < 2 {
		return 0, false
	}
	index, err := strconv.Atoi(fields[1])
	if err != nil {
		return 0, false
	}
	return index, true
}

func printCursor(p *player.Player) {
	cursor := p.Engine().Cursor()
	if section, ok := p.Engine().CurrentSection(); ok {
		fmt.Printf("[section %d: %s | item %d]> ", cursor.SectionIndex, section.Heading, cursor.ItemIndex)
		return
	}
	fmt.Print("> ")
}
