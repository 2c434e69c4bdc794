// Package export renders the tree browser's state to files: SVG and PNG
// snapshots of the virtualized row window, and Markdown outlines of the
// hierarchy.
package export

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strings"

	"git.sr.ht/~sbinet/gg"
	svg "github.com/ajstarks/svgo"
	"golang.org/x/image/font/basicfont"

	"github.com/vanderheijden86/dirtree/pkg/metrics"
	"github.com/vanderheijden86/dirtree/pkg/model"
	"github.com/vanderheijden86/dirtree/pkg/store"
	"github.com/vanderheijden86/dirtree/pkg/viewport"
)

// ErrUnsupportedFormat is returned for snapshot formats other than svg and png.
var ErrUnsupportedFormat = errors.New("unsupported snapshot format")

// SnapshotOptions controls snapshot export.
type SnapshotOptions struct {
	Path   string // Output path; format inferred from extension when Format empty
	Format string // "svg" or "png" (case-insensitive)
	Title  string

	Rows      []store.RowView
	Window    viewport.Window
	Summary   store.Summary
	ScrollTop float64
	// ViewportHeight is the visible height in pixels. 0 means
	// model.ContainerHeight.
	ViewportHeight float64
	Footer         string
}

// FromStore fills the row, window and summary fields from the store's
// current snapshot.
func FromStore(st *store.Store, path, title string) SnapshotOptions {
	s := st.Snapshot()
	return SnapshotOptions{
		Path:           path,
		Title:          title,
		Rows:           st.RowViews(),
		Window:         st.Window(),
		Summary:        st.Summarize(),
		ScrollTop:      s.ScrollTop,
		ViewportHeight: s.ViewportHeight,
		Footer:         FooterText(s.Mode, len(st.Rows())),
	}
}

// FooterText is the status line under the row list.
func FooterText(mode model.ViewMode, total int) string {
	if mode == model.ModeFlat {
		return "Drag and drop is disabled in flat mode"
	}
	return fmt.Sprintf("Virtualization Active (%d items)", total)
}

// ResolveFormat infers the snapshot format from opts.Format or the path
// extension, appending ".svg" to an extensionless path.
func ResolveFormat(opts *SnapshotOptions) (string, error) {
	format := strings.ToLower(strings.TrimPrefix(opts.Format, "."))
	if format == "" {
		switch strings.ToLower(filepath.Ext(opts.Path)) {
		case ".svg":
			format = "svg"
		case ".png":
			format = "png"
		case "":
			format = "svg"
			if opts.Path != "" {
				opts.Path += ".svg"
			}
		default:
			return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(opts.Path))
		}
	}
	if format != "svg" && format != "png" {
		return "", fmt.Errorf("%w: %q (want svg or png)", ErrUnsupportedFormat, format)
	}
	return format, nil
}

// SaveSnapshot renders the row window to opts.Path.
func SaveSnapshot(opts SnapshotOptions) error {
	defer metrics.Timer(metrics.Snapshot)()

	format, err := ResolveFormat(&opts)
	if err != nil {
		return err
	}
	if opts.Path == "" {
		return fmt.Errorf("output path is required")
	}
	if err := os.MkdirAll(filepath.Dir(opts.Path), 0o755); err != nil {
		return fmt.Errorf("create parent dir: %w", err)
	}

	l := buildLayout(opts)
	if format == "png" {
		return renderPNG(opts.Path, l)
	}
	f, err := os.Create(opts.Path)
	if err != nil {
		return fmt.Errorf("create snapshot: %w", err)
	}
	if err := renderSVG(f, l); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// --- layout ----------------------------------------------------------------

const (
	canvasWidth = 640
	padding     = 16
	headerH     = 64
	footerH     = 32
	indentW     = 20
	charW       = 7 // basicfont.Face7x13 advance
)

type layoutRow struct {
	Y        float64 // top edge on the canvas
	X        float64 // label start
	Label    string
	Glyph    string
	Selected bool
	Dragged  bool
	Context  bool
	Drop     *model.Position
}

type layout struct {
	Width, Height int
	ListTop       float64
	ListHeight    float64
	Rows          []layoutRow
	Title         string
	Info          string
	Footer        string
	Empty         string
}

func buildLayout(opts SnapshotOptions) layout {
	vh := opts.ViewportHeight
	if vh <= 0 {
		vh = model.ContainerHeight
	}
	title := opts.Title
	if title == "" {
		title = "dt"
	}
	l := layout{
		Width:      canvasWidth,
		Height:     int(headerH + vh + footerH + 2*padding),
		ListTop:    headerH + padding,
		ListHeight: vh,
		Title:      title,
		Info: fmt.Sprintf("mode: %s  rows: %d  window: [%d,%d)  selected: %d",
			opts.Summary.Mode, opts.Summary.VisibleRows, opts.Window.Start, opts.Window.End, len(opts.Summary.Selected)),
		Footer: opts.Footer,
	}
	if opts.Summary.Search != "" {
		l.Info += fmt.Sprintf("  search: %q", opts.Summary.Search)
	}
	if len(opts.Rows) == 0 {
		l.Empty = "No folders"
		if opts.Summary.Search != "" {
			l.Empty = "Nothing found"
		}
	}

	maxChars := (canvasWidth - 2*padding) / charW
	for _, r := range opts.Rows {
		y := l.ListTop + r.Top - opts.ScrollTop
		// Overscan rows fall outside the viewport; they are clipped.
		if y+model.ItemHeight <= l.ListTop || y >= l.ListTop+vh {
			continue
		}
		glyph := " "
		if !r.Flat && r.HasChildren {
			glyph = "▸"
			if r.Expanded {
				glyph = "▾"
			}
		}
		x := float64(padding + 8 + r.Depth*indentW)
		room := maxChars - 4 - r.Depth*indentW/charW
		l.Rows = append(l.Rows, layoutRow{
			Y:        y,
			X:        x,
			Label:    truncate(r.Name, room),
			Glyph:    glyph,
			Selected: r.Selected,
			Dragged:  r.Dragged,
			Context:  r.Context,
			Drop:     r.Drop,
		})
	}
	return l
}

var (
	colorBackdrop = color.RGBA{0xf9, 0xfa, 0xfb, 0xff}
	colorHeaderBG = color.RGBA{0xf3, 0xf4, 0xf6, 0xff}
	colorListBG   = color.RGBA{0xff, 0xff, 0xff, 0xff}
	colorStroke   = color.RGBA{0xd1, 0xd5, 0xdb, 0xff}
	colorText     = color.RGBA{0x11, 0x11, 0x11, 0xff}
	colorSubtle   = color.RGBA{0x66, 0x66, 0x66, 0xff}
	colorSelected = color.RGBA{0xdb, 0xea, 0xfe, 0xff}
	colorDragged  = color.RGBA{0xe5, 0xe7, 0xeb, 0xff}
	colorDrop     = color.RGBA{0x25, 0x63, 0xeb, 0xff}
)

func rowFill(r layoutRow) (color.RGBA, bool) {
	switch {
	case r.Dragged:
		return colorDragged, true
	case r.Selected:
		return colorSelected, true
	}
	return color.RGBA{}, false
}

func textColor(r layoutRow) color.RGBA {
	if r.Context || r.Dragged {
		return colorSubtle
	}
	return colorText
}

// --- png -------------------------------------------------------------------

func renderPNG(path string, l layout) error {
	dc := gg.NewContext(l.Width, l.Height)
	dc.SetColor(colorBackdrop)
	dc.Clear()
	dc.SetFontFace(basicfont.Face7x13)

	dc.SetColor(colorHeaderBG)
	dc.DrawRoundedRectangle(padding, padding, float64(l.Width)-2*padding, headerH-padding, 8)
	dc.Fill()
	dc.SetColor(colorText)
	dc.DrawStringAnchored(l.Title, padding+12, padding+16, 0, 0.5)
	dc.SetColor(colorSubtle)
	dc.DrawStringAnchored(l.Info, padding+12, padding+34, 0, 0.5)

	listW := float64(l.Width) - 2*padding
	dc.SetColor(colorListBG)
	dc.DrawRectangle(padding, l.ListTop, listW, l.ListHeight)
	dc.Fill()

	dc.Push()
	dc.DrawRectangle(padding, l.ListTop, listW, l.ListHeight)
	dc.Clip()
	for _, r := range l.Rows {
		if fill, ok := rowFill(r); ok {
			dc.SetColor(fill)
			dc.DrawRectangle(padding, r.Y, listW, model.ItemHeight)
			dc.Fill()
		}
		dc.SetColor(colorSubtle)
		dc.DrawStringAnchored(asciiGlyph(r.Glyph), r.X, r.Y+model.ItemHeight/2, 0, 0.5)
		dc.SetColor(textColor(r))
		dc.DrawStringAnchored(r.Label, r.X+2*charW, r.Y+model.ItemHeight/2, 0, 0.5)
		if r.Drop != nil {
			drawDropPNG(dc, *r.Drop, padding, r.Y, listW)
		}
	}
	if l.Empty != "" {
		dc.SetColor(colorSubtle)
		dc.DrawStringAnchored(l.Empty, float64(l.Width)/2, l.ListTop+l.ListHeight/2, 0.5, 0.5)
	}
	dc.ResetClip()
	dc.Pop()

	dc.SetColor(colorStroke)
	dc.SetLineWidth(1)
	dc.DrawRectangle(padding, l.ListTop, listW, l.ListHeight)
	dc.Stroke()

	dc.SetColor(colorSubtle)
	dc.DrawStringAnchored(l.Footer, padding, l.ListTop+l.ListHeight+footerH/2, 0, 0.5)

	return dc.SavePNG(path)
}

func drawDropPNG(dc *gg.Context, pos model.Position, x, y, w float64) {
	dc.SetColor(colorDrop)
	dc.SetLineWidth(2)
	switch pos {
	case model.Before:
		dc.DrawLine(x, y+1, x+w, y+1)
	case model.After:
		dc.DrawLine(x, y+model.ItemHeight-1, x+w, y+model.ItemHeight-1)
	default:
		dc.DrawRectangle(x+1, y+1, w-2, model.ItemHeight-2)
	}
	dc.Stroke()
}

// --- svg -------------------------------------------------------------------

func renderSVG(w io.Writer, l layout) error {
	canvas := svg.New(w)
	canvas.Start(l.Width, l.Height)
	canvas.Rect(0, 0, l.Width, l.Height, fmt.Sprintf("fill:%s", css(colorBackdrop)))
	canvas.Roundrect(padding, padding, l.Width-2*padding, headerH-padding, 8, 8, fmt.Sprintf("fill:%s", css(colorHeaderBG)))
	canvas.Text(padding+12, padding+20, l.Title, fmt.Sprintf("fill:%s;font-size:14px;font-family:monospace;font-weight:bold", css(colorText)))
	canvas.Text(padding+12, padding+38, l.Info, fmt.Sprintf("fill:%s;font-size:12px;font-family:monospace", css(colorSubtle)))

	listTop := int(l.ListTop)
	listW := l.Width - 2*padding
	listH := int(l.ListHeight)
	canvas.ClipPath(`id="rows"`)
	canvas.Rect(padding, listTop, listW, listH)
	canvas.ClipEnd()
	canvas.Rect(padding, listTop, listW, listH, fmt.Sprintf("fill:%s;stroke:%s;stroke-width:1", css(colorListBG), css(colorStroke)))

	canvas.Group(`clip-path="url(#rows)"`)
	for _, r := range l.Rows {
		y := int(r.Y)
		mid := y + model.ItemHeight/2 + 4
		if fill, ok := rowFill(r); ok {
			canvas.Rect(padding, y, listW, model.ItemHeight, fmt.Sprintf("fill:%s", css(fill)))
		}
		canvas.Text(int(r.X), mid, r.Glyph, fmt.Sprintf("fill:%s;font-size:12px;font-family:monospace", css(colorSubtle)))
		style := fmt.Sprintf("fill:%s;font-size:13px;font-family:monospace", css(textColor(r)))
		if r.Context {
			style += ";font-style:italic"
		}
		canvas.Text(int(r.X)+2*charW, mid, r.Label, style)
		if r.Drop != nil {
			drawDropSVG(canvas, *r.Drop, padding, y, listW)
		}
	}
	if l.Empty != "" {
		canvas.Text(l.Width/2, listTop+listH/2, l.Empty,
			fmt.Sprintf("fill:%s;font-size:13px;font-family:monospace;text-anchor:middle", css(colorSubtle)))
	}
	canvas.Gend()

	canvas.Text(padding, listTop+listH+footerH/2+4, l.Footer, fmt.Sprintf("fill:%s;font-size:12px;font-family:monospace", css(colorSubtle)))
	canvas.End()
	return nil
}

func drawDropSVG(canvas *svg.SVG, pos model.Position, x, y, w int) {
	stroke := fmt.Sprintf("stroke:%s;stroke-width:2", css(colorDrop))
	switch pos {
	case model.Before:
		canvas.Line(x, y+1, x+w, y+1, stroke)
	case model.After:
		canvas.Line(x, y+model.ItemHeight-1, x+w, y+model.ItemHeight-1, stroke)
	default:
		canvas.Rect(x+1, y+1, w-2, model.ItemHeight-2, "fill:none;"+stroke)
	}
}

// --- helpers ---------------------------------------------------------------

// asciiGlyph maps expander glyphs into the range basicfont can draw.
func asciiGlyph(g string) string {
	switch g {
	case "▸":
		return ">"
	case "▾":
		return "v"
	}
	return g
}

func truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}

func css(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
