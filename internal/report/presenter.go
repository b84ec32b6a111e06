package report

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"ethflowScope/internal/appdata"
	"ethflowScope/internal/model"
)

// Supported output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Labeler resolves a display label for an app data hash. It must not fail.
type Labeler interface {
	Label(ctx context.Context, appData string) string
}

// Summary describes the scanned window.
type Summary struct {
	Days      int    `json:"days"`
	Events    int    `json:"events"`
	Contract  string `json:"contract"`
	Network   string `json:"network"`
	FromBlock uint64 `json:"from_block"`
	HeadBlock uint64 `json:"head_block"`
}

// Line is one rendered report entry.
type Line struct {
	AppData string `json:"app_data"`
	Count   int    `json:"count"`
	AppCode string `json:"app_code"`
}

type jsonReport struct {
	Summary
	Entries []Line `json:"entries"`
}

type unknownLabeler struct{}

func (unknownLabeler) Label(context.Context, string) string {
	return appdata.Unknown
}

// Presenter renders the usage report.
type Presenter struct {
	out     io.Writer
	format  string
	labeler Labeler
}

// NewPresenter builds a presenter. A nil labeler labels every entry as unknown.
func NewPresenter(out io.Writer, format string, labeler Labeler) (*Presenter, error) {
	switch format {
	case FormatText, FormatJSON:
	case "":
		format = FormatText
	default:
		return nil, fmt.Errorf("unsupported report format: %s", format)
	}
	if labeler == nil {
		labeler = unknownLabeler{}
	}
	return &Presenter{out: out, format: format, labeler: labeler}, nil
}

// Render resolves labels one entry at a time, in the given order, and writes the report.
func (p *Presenter) Render(ctx context.Context, summary Summary, entries []model.UsageEntry) error {
	if p.format == FormatJSON {
		return p.renderJSON(ctx, summary, entries)
	}
	return p.renderText(ctx, summary, entries)
}

func (p *Presenter) renderText(ctx context.Context, summary Summary, entries []model.UsageEntry) error {
	if _, err := fmt.Fprintf(p.out,
		"In the last %d days there were %d eth-flow orders for contract %s on network %s.\n",
		summary.Days, summary.Events, summary.Contract, summary.Network,
	); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	if _, err := fmt.Fprintln(p.out,
		"The following is a list of all the app data used in these orders. When possible, the corresponding `appCode` field has been recovered.",
	); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	for _, entry := range entries {
		line, err := p.resolve(ctx, entry)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(p.out, "%s: count %d, appCode: %s\n", line.AppData, line.Count, line.AppCode); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
	}
	return nil
}

func (p *Presenter) renderJSON(ctx context.Context, summary Summary, entries []model.UsageEntry) error {
	doc := jsonReport{Summary: summary, Entries: make([]Line, 0, len(entries))}
	for _, entry := range entries {
		line, err := p.resolve(ctx, entry)
		if err != nil {
			return err
		}
		doc.Entries = append(doc.Entries, line)
	}

	enc := json.NewEncoder(p.out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

func (p *Presenter) resolve(ctx context.Context, entry model.UsageEntry) (Line, error) {
	if err := ctx.Err(); err != nil {
		return Line{}, err
	}
	return Line{
		AppData: entry.AppData,
		Count:   entry.Count,
		AppCode: p.labeler.Label(ctx, entry.AppData),
	}, nil
}
