package notes

const (
	// PlaceholderText is shown before any result exists.
	PlaceholderText = "Upload an audio file to generate a SOAP note"
	// NoNoteText is shown for a document result without a location.
	NoNoteText = "No note available"
	// DownloadText labels the note download link.
	DownloadText = "Download SOAP Note"
)

// Mode selects how a View is laid out.
type Mode string

const (
	ModePlaceholder Mode = "placeholder"
	ModeNote        Mode = "note"
	ModeDocument    Mode = "document"
)

// View is the display model for the latest workflow result.
type View struct {
	Mode           Mode   `json:"mode"`
	Prompt         string `json:"prompt,omitempty"`
	Transcript     string `json:"transcript,omitempty"`
	SOAPNote       string `json:"soapNote,omitempty"`
	DownloadURL    string `json:"downloadUrl,omitempty"`
	EmbedURL       string `json:"embedUrl,omitempty"`
	Message        string `json:"message,omitempty"`
	ProcessingTime string `json:"processingTime,omitempty"`
}

// Present derives the View for r. It reads nothing but r.
func Present(r *Result) View {
	if r == nil {
		return View{Mode: ModePlaceholder, Prompt: PlaceholderText}
	}

	if r.Contract == ContractDocument {
		if r.Document == "" {
			return View{Mode: ModeDocument, Prompt: NoNoteText}
		}
		return View{Mode: ModeDocument, EmbedURL: r.Document}
	}

	return View{
		Mode:           ModeNote,
		Transcript:     r.Transcript,
		SOAPNote:       r.SOAPNote,
		DownloadURL:    r.NoteLocation,
		Message:        r.Message,
		ProcessingTime: r.ProcessingTime,
	}
}
