package notes

import (
	"fmt"
	"io"
	"strings"
)

// RenderText writes v as plain text for terminal output.
func RenderText(w io.Writer, v View) error {
	var b strings.Builder

	switch v.Mode {
	case ModeNote:
		if v.Message != "" {
			fmt.Fprintf(&b, "%s\n\n", v.Message)
		}
		if v.Transcript != "" {
			section(&b, "Transcript", v.Transcript)
		}
		if v.SOAPNote != "" {
			section(&b, "SOAP Note", v.SOAPNote)
		}
		if v.DownloadURL != "" {
			fmt.Fprintf(&b, "%s: %s\n", DownloadText, v.DownloadURL)
		}
		if v.ProcessingTime != "" {
			fmt.Fprintf(&b, "Processing time: %s\n", v.ProcessingTime)
		}
	case ModeDocument:
		if v.EmbedURL != "" {
			fmt.Fprintf(&b, "Note document: %s\n", v.EmbedURL)
		} else {
			fmt.Fprintln(&b, v.Prompt)
		}
	default:
		fmt.Fprintln(&b, v.Prompt)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func section(b *strings.Builder, title, body string) {
	fmt.Fprintf(b, "%s\n%s\n%s\n\n", title, strings.Repeat("-", len(title)), strings.TrimRight(body, "\n"))
}
