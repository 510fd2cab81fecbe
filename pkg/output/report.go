package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/sdejongh/remotecomparer/pkg/models"
)

// WriteOutcomeReport writes the outcome of a run to a file
// Format can be "human" or "json"
func WriteOutcomeReport(outcome *models.RunOutcome, path string, format string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}

	switch format {
	case "json":
		err = writeOutcomeJSON(outcome, file)
	default: // "human"
		err = writeOutcomeHuman(outcome, file)
	}

	if closeErr := file.Close(); err == nil && closeErr != nil {
		err = fmt.Errorf("failed to close report file: %w", closeErr)
	}
	return err
}

// writeOutcomeHuman writes the outcome in human-readable format
func writeOutcomeHuman(outcome *models.RunOutcome, w io.Writer) error {
	fmt.Fprintf(w, "Comparison Report\n")
	fmt.Fprintf(w, "=================\n\n")
	fmt.Fprintf(w, "Generated:   %s\n", time.Now().Format(time.RFC3339))
	fmt.Fprintf(w, "Request:     %s\n", outcome.RequestID)
	fmt.Fprintf(w, "Local file:  %s\n", outcome.LocalFilePath)
	fmt.Fprintf(w, "Remote file: %s\n", outcome.RemoteFileURI)
	fmt.Fprintf(w, "Duration:    %s\n\n", outcome.Duration.Round(time.Millisecond))

	fmt.Fprintf(w, "Status:  %s\n", outcome.Status)
	fmt.Fprintf(w, "Stage:   %s\n", outcome.Stage)
	if outcome.Kind != models.KindNone {
		fmt.Fprintf(w, "Kind:    %s\n", outcome.Kind)
	}
	fmt.Fprintf(w, "Message: %s\n\n", outcome.Message)

	if res := outcome.Resolution; res != nil {
		label := "Candidates checked"
		fmt.Fprintf(w, "%s\n%s\n", label, strings.Repeat("-", len(label)))
		for _, candidate := range res.Candidates {
			marker := " "
			if res.Found && candidate == res.Path {
				marker = "*"
			}
			fmt.Fprintf(w, "  %s %s\n", marker, candidate)
		}
		fmt.Fprintf(w, "\n")
	}

	if fetch := outcome.Fetch; fetch != nil && !fetch.Fetched {
		fmt.Fprintf(w, "Fetch failed (%s): %s\n\n", fetch.Kind, fetch.Reason)
	}

	if cmp := outcome.Comparison; cmp != nil {
		fmt.Fprintf(w, "Comparison: %s", cmp.Verdict)
		if cmp.Reason != "" {
			fmt.Fprintf(w, " (%s)", cmp.Reason)
		}
		fmt.Fprintf(w, "\n\n")
	}

	if len(outcome.Reports) > 0 {
		label := fmt.Sprintf("Messages (%d)", len(outcome.Reports))
		fmt.Fprintf(w, "%s\n%s\n", label, strings.Repeat("-", len(label)))
		for _, report := range outcome.Reports {
			fmt.Fprintf(w, "  [%s] %s\n", report.Level, report.Message)
		}
	}

	return nil
}

// writeOutcomeJSON writes the outcome in JSON format
func writeOutcomeJSON(outcome *models.RunOutcome, w io.Writer) error {
	output := struct {
		Generated string `json:"generated"`
		JSONOutcomeData
	}{
		Generated:       time.Now().Format(time.RFC3339),
		JSONOutcomeData: newOutcomeData(outcome),
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}
