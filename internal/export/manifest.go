package export

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/KaramelBytes/paradox-cli/internal/analysis"
	"github.com/KaramelBytes/paradox-cli/internal/report"
	"github.com/KaramelBytes/paradox-cli/internal/utils"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ManifestName is the file written next to the charts.
const ManifestName = "manifest.json"

// Options controls chart export.
type Options struct {
	Format string
	Width  int
	Height int
	Log    *zap.Logger
	// Now is used for CreatedAt; nil means time.Now.
	Now func() time.Time
}

// Manifest describes one export run.
type Manifest struct {
	RunID        string       `json:"run_id"`
	CreatedAt    time.Time    `json:"created_at"`
	Title        string       `json:"title"`
	Format       string       `json:"format"`
	Charts       []ChartEntry `json:"charts"`
	Correlations []Coef       `json:"correlations"`
	Notices      []string     `json:"notices,omitempty"`
}

// ChartEntry is one analysis; File is empty when nothing was plotted.
type ChartEntry struct {
	Key       string `json:"key"`
	Title     string `json:"title"`
	File      string `json:"file,omitempty"`
	Points    int    `json:"points"`
	Status    string `json:"status"`
	Reversal  bool   `json:"reversal"`
	Subgroups []Coef `json:"subgroups,omitempty"`
}

// Coef is a correlation; R is nil when it is undefined.
type Coef struct {
	Label  string   `json:"label"`
	R      *float64 `json:"r"`
	Status string   `json:"status"`
	N      int      `json:"n"`
}

func coef(label string, f analysis.Fit) Coef {
	c := Coef{Label: label, Status: f.Status.String(), N: f.Pairs}
	if f.Defined() {
		r := f.Line.R
		c.R = &r
	}
	return c
}

// WriteCharts renders every plottable analysis of doc into dir and writes the
// manifest. Analyses with nothing to plot are listed as skipped.
func WriteCharts(doc *report.Document, dir string, opt Options) (*Manifest, error) {
	log := opt.Log
	if log == nil {
		log = zap.NewNop()
	}
	if opt.Format == "" {
		opt.Format = FormatPNG
	}
	if opt.Format != FormatPNG && opt.Format != FormatSVG {
		return nil, fmt.Errorf("unsupported chart format %q (use png or svg)", opt.Format)
	}
	if opt.Width <= 0 || opt.Height <= 0 {
		return nil, fmt.Errorf("chart size must be positive, got %dx%d", opt.Width, opt.Height)
	}
	now := time.Now
	if opt.Now != nil {
		now = opt.Now
	}
	if err := utils.EnsureDir(dir); err != nil {
		return nil, err
	}

	m := &Manifest{
		RunID:     uuid.NewString(),
		CreatedAt: now().UTC(),
		Title:     doc.Title,
		Format:    opt.Format,
	}
	for _, c := range doc.Correlations {
		m.Correlations = append(m.Correlations, coef(c.Label, c.Fit))
	}
	for _, n := range doc.Notices {
		m.Notices = append(m.Notices, n.Message)
	}

	for _, a := range doc.Analyses {
		r := a.Result
		e := ChartEntry{Key: a.Key, Title: a.Heading, Points: len(r.Points), Status: r.Overall.Status.String(), Reversal: r.Reversal.Detected}
		for _, g := range r.Groups {
			e.Subgroups = append(e.Subgroups, coef(g.Key, g.Fit))
		}
		var buf bytes.Buffer
		err := Render(&buf, a, opt.Format, opt.Width, opt.Height)
		switch {
		case errors.Is(err, ErrNothingToPlot):
			e.Status = "skipped"
			log.Debug("chart skipped", zap.String("analysis", a.Key))
		case err != nil:
			return nil, err
		default:
			e.File = a.Key + "." + opt.Format
			if err := utils.SafeWriteFile(filepath.Join(dir, e.File), buf.Bytes()); err != nil {
				return nil, fmt.Errorf("write %s: %w", e.File, err)
			}
			log.Debug("chart written", zap.String("file", e.File), zap.Int("bytes", buf.Len()))
		}
		m.Charts = append(m.Charts, e)
	}

	b, err := utils.PrettyJSON(m)
	if err != nil {
		return nil, err
	}
	if err := utils.SafeWriteFile(filepath.Join(dir, ManifestName), b); err != nil {
		return nil, fmt.Errorf("write manifest: %w", err)
	}
	return m, nil
}
