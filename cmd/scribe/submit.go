package main

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/JaimeStill/scribe/internal/backend"
	"github.com/JaimeStill/scribe/internal/config"
	"github.com/JaimeStill/scribe/internal/infrastructure"
	"github.com/JaimeStill/scribe/internal/notes"
	"github.com/JaimeStill/scribe/internal/upload"
	"github.com/JaimeStill/scribe/pkg/formatting"
	"github.com/JaimeStill/scribe/pkg/transfer"
)

var errNoNote = errors.New(notes.NoNoteText)

var (
	flagBaseURL  string
	flagContract string
	flagTransfer string
	flagSave     string
)

var submitCmd = &cobra.Command{
	Use:   "submit <file>",
	Short: "Upload an audio file and print the generated note",
	Args:  cobra.ExactArgs(1),
	RunE:  runSubmit,
}

func init() {
	f := submitCmd.Flags()
	f.StringVar(&flagBaseURL, "base-url", "", "backend base URL (overrides SCRIBE_BACKEND_BASE_URL)")
	f.StringVar(&flagContract, "contract", "", "result contract: structured or document")
	f.StringVar(&flagTransfer, "transfer", "", "transfer provider: http or azure")
	f.StringVar(&flagSave, "save", "", "download the note document to this path")
}

func runSubmit(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(&config.Config{
		Backend:  backend.Config{BaseURL: flagBaseURL},
		Transfer: transfer.Config{Provider: flagTransfer},
		Upload:   upload.Config{Contract: flagContract},
	})
	if err != nil {
		return err
	}

	infra, err := infrastructure.New(cfg)
	if err != nil {
		return err
	}
	defer infra.HTTP.CloseIdleConnections()

	file, err := readFile(args[0])
	if err != nil {
		return err
	}

	ctl := upload.New(&cfg.Upload, infra.Backend, infra.Transfer, infra.Logger)
	result, err := ctl.Submit(cmd.Context(), file)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if err := notes.RenderText(out, notes.Present(result)); err != nil {
		return err
	}

	if flagSave == "" {
		return nil
	}
	return save(cmd, infra, result, out)
}

func readFile(path string) (upload.File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return upload.File{}, err
	}
	return upload.File{
		Name:        filepath.Base(path),
		ContentType: mime.TypeByExtension(filepath.Ext(path)),
		Data:        data,
	}, nil
}

func save(cmd *cobra.Command, infra *infrastructure.Infrastructure, result *notes.Result, out io.Writer) error {
	location := result.Location()
	if location == "" {
		return errNoNote
	}

	f, err := os.Create(flagSave)
	if err != nil {
		return err
	}

	info, err := notes.Download(cmd.Context(), infra.HTTP, location, f)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(flagSave)
		return err
	}

	summary := fmt.Sprintf("%s, %s", info.ContentType, formatting.FormatBytes(info.Size, 1))
	if info.PageCount != nil {
		summary += fmt.Sprintf(", %d pages", *info.PageCount)
	}
	fmt.Fprintf(out, "\nSaved %s (%s)\n", flagSave, summary)
	return nil
}
