// Package indesign pushes text into named frames of the front InDesign
// document by piping AppleScript to osascript. The document itself is
// an external collaborator; nothing here knows about forecasts.
package indesign

import (
	"bytes"
	"fmt"
	"io"
	"os/exec"
	"strings"
)

// DefaultApp is the application name the AppleScript targets.
const DefaultApp = "Adobe InDesign 2024"

// Sink accepts (frame name, text) pairs for a document.
type Sink interface {
	SetFrame(name, text string) error
}

// InDesign drives the real application via osascript.
type InDesign struct {
	App string
}

func New(app string) *InDesign {
	if app == "" {
		app = DefaultApp
	}
	return &InDesign{App: app}
}

const frameScript = `tell application "%s"
	tell the front document
		set the contents of text frame "%s" to "%s"
	end tell
end tell
`

// escape makes a string safe inside AppleScript double quotes.
func escape(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return s
}

func buildScript(app, frame, text string) string {
	return fmt.Sprintf(frameScript, escape(app), escape(frame), escape(text))
}

// SetFrame runs the script for one frame. Stderr is surfaced in the
// error so the caller can print it as a plain diagnostic.
func (d *InDesign) SetFrame(name, text string) error {
	cmd := exec.Command("osascript", "-")
	cmd.Stdin = strings.NewReader(buildScript(d.App, name, text))

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("osascript frame %q: %w: %s", name, err, strings.TrimSpace(stderr.String()))
	}
	return nil
}

// Writer is a dry-run sink that prints each frame instead of touching
// a document.
type Writer struct {
	W io.Writer
}

func (w Writer) SetFrame(name, text string) error {
	_, err := fmt.Fprintf(w.W, "%s: %s\n", name, text)
	return err
}

// Frame names used by the weather panel.
const (
	TodayFrame   = "Weather-Today"
	OutlookFrame = "Weather-Outlook"
)

// CityFrame returns the frame name for a city's report. The first
// target date gets the plain name; later dates are suffixed.
func CityFrame(city string, dayIndex int) string {
	if dayIndex == 0 {
		return "Weather-" + city
	}
	return fmt.Sprintf("Weather-%s-%d", city, dayIndex+1)
}
