package layout

// ============================================================================
// Text metrics
// ============================================================================

// Baseline returns the baseline y that vertically centers a single line of
// font inside a band of height lineHeight starting at top.
func Baseline(top, lineHeight float64, font Font) float64 {
	return top + (lineHeight+font.Size*0.7)/2
}

// BlockMetrics is the fixed part of a block's height around its wrapped
// lines. A block's height is PadTop + Header + lines × LineHeight + PadBottom.
type BlockMetrics struct {
	PadTop     float64
	Header     float64
	LineHeight float64
	PadBottom  float64
}

// Height returns the block height for the given wrapped line count.
func (b BlockMetrics) Height(lines int) float64 {
	return b.PadTop + b.Header + float64(lines)*b.LineHeight + b.PadBottom
}

// BulletLines returns the number of lines a bullet list wraps to. Blank
// bullets are skipped.
func BulletLines(m Measurer, bullets []string, font Font, width float64) int {
	n := 0
	for _, b := range bullets {
		n += LineCount(m, b, font, width)
	}
	return n
}

// ============================================================================
// Leaf sections
// ============================================================================

// Spacer is empty vertical space.
type Spacer struct {
	H float64
}

func (s Spacer) Measure(Measurer, float64) float64 { return s.H }
func (Spacer) Draw(Surface, Rect) {}

// Custom is a section built from closures. Use it for fixed-layout pieces
// that draw at absolute offsets within their rectangle.
type Custom struct {
	Label  string
	Height func(m Measurer, width float64) float64
	Paint  func(s Surface, r Rect)
}

// Fixed returns a Custom section of constant height.
func Fixed(label string, h float64, paint func(s Surface, r Rect)) Custom {
	return Custom{Label: label, Height: func(Measurer, float64) float64 { return h }, Paint: paint}
}

func (c Custom) Name() string { return c.Label }

func (c Custom) Measure(m Measurer, width float64) float64 {
	if c.Height == nil {
		return 0
	}
	return c.Height(m, width)
}

func (c Custom) Draw(s Surface, r Rect) {
	if c.Paint != nil {
		c.Paint(s, r)
	}
}

// Line is a single line of text. Text wider than the rectangle is cut with
// an ellipsis.
type Line struct {
	Text   string
	Font   Font
	Color  Color
	Align  Align
	Height float64
}

func (l Line) Measure(Measurer, float64) float64 { return l.Height }

func (l Line) Draw(s Surface, r Rect) {
	if l.Text == "" {
		return
	}
	text := Truncate(s, l.Text, l.Font, r.W)
	x := r.X
	switch l.Align {
	case AlignRight:
		x = r.Right()
	case AlignCenter:
		x = r.X + r.W/2
	}
	s.DrawText(x, Baseline(r.Y, l.Height, l.Font), text, l.Font, l.Color, l.Align)
}

// Paragraph is word-wrapped text.
type Paragraph struct {
	Text       string
	Font       Font
	Color      Color
	LineHeight float64
}

func (p Paragraph) Measure(m Measurer, width float64) float64 {
	return float64(LineCount(m, p.Text, p.Font, width)) * p.LineHeight
}

func (p Paragraph) Draw(s Surface, r Rect) {
	y := r.Y
	for line := range Wrap(s, p.Text, p.Font, r.W) {
		s.DrawText(r.X, Baseline(y, p.LineHeight, p.Font), line, p.Font, p.Color, AlignLeft)
		y += p.LineHeight
	}
}

// Bullets is a list of wrapped items, each led by a marker. Continuation
// lines are indented under the item text.
type Bullets struct {
	Items       []string
	Font        Font
	Color       Color
	Marker      string
	MarkerColor Color
	LineHeight  float64
	Indent      float64
}

func (b Bullets) Measure(m Measurer, width float64) float64 {
	return float64(BulletLines(m, b.Items, b.Font, width-b.Indent)) * b.LineHeight
}

func (b Bullets) Draw(s Surface, r Rect) {
	y := r.Y
	for _, item := range b.Items {
		first := true
		for line := range Wrap(s, item, b.Font, r.W-b.Indent) {
			base := Baseline(y, b.LineHeight, b.Font)
			if first && b.Marker != "" {
				s.DrawText(r.X, base, b.Marker, b.Font, b.MarkerColor, AlignLeft)
			}
			s.DrawText(r.X+b.Indent, base, line, b.Font, b.Color, AlignLeft)
			y += b.LineHeight
			first = false
		}
	}
}

// Pair is a label on the left and a value on the right of one line.
type Pair struct {
	Label, Value           string
	LabelFont, ValueFont   Font
	LabelColor, ValueColor Color
	Height                 float64
}

func (p Pair) Measure(Measurer, float64) float64 { return p.Height }

func (p Pair) Draw(s Surface, r Rect) {
	s.DrawText(r.X, Baseline(r.Y, p.Height, p.LabelFont), p.Label, p.LabelFont, p.LabelColor, AlignLeft)
	s.DrawText(r.Right(), Baseline(r.Y, p.Height, p.ValueFont), p.Value, p.ValueFont, p.ValueColor, AlignRight)
}

// Rule is a horizontal line across the rectangle.
type Rule struct {
	Color Color
	Width float64
	H     float64 // total height, the line sits in the middle
}

func (l Rule) Measure(Measurer, float64) float64 { return l.H }

func (l Rule) Draw(s Surface, r Rect) {
	y := r.Y + r.H/2
	s.DrawLine(r.X, y, r.Right(), y, l.Color, l.Width)
}

// ============================================================================
// Containers
// ============================================================================

// Stack lays children out vertically with Gap between them.
type Stack struct {
	Label    string
	Children []Section
	Gap      float64
}

func (st Stack) Name() string { return st.Label }

func (st Stack) Measure(m Measurer, width float64) float64 {
	var h float64
	for i, c := range st.Children {
		if i > 0 {
			h += st.Gap
		}
		h += c.Measure(m, width)
	}
	return h
}

func (st Stack) Draw(s Surface, r Rect) {
	y := r.Y
	for i, c := range st.Children {
		if i > 0 {
			y += st.Gap
		}
		h := c.Measure(s, r.W)
		c.Draw(s, Rect{X: r.X, Y: y, W: r.W, H: h})
		y += h
	}
}

// Row lays children out side by side. Widths are proportional to Weights
// (equal when nil). The row is as tall as its tallest child and every child
// is drawn at the full row height.
type Row struct {
	Label    string
	Children []Section
	Weights  []float64
	Gap      float64
}

func (rw Row) Name() string { return rw.Label }

func (rw Row) widths(total float64) []float64 {
	n := len(rw.Children)
	out := make([]float64, n)
	if n == 0 {
		return out
	}
	avail := total - rw.Gap*float64(n-1)
	var sum float64
	for i := range n {
		sum += rw.weight(i)
	}
	for i := range n {
		out[i] = avail * rw.weight(i) / sum
	}
	return out
}

func (rw Row) weight(i int) float64 {
	if i < len(rw.Weights) && rw.Weights[i] > 0 {
		return rw.Weights[i]
	}
	return 1
}

func (rw Row) Measure(m Measurer, width float64) float64 {
	var h float64
	for i, w := range rw.widths(width) {
		h = max(h, rw.Children[i].Measure(m, w))
	}
	return h
}

func (rw Row) Draw(s Surface, r Rect) {
	x := r.X
	for i, w := range rw.widths(r.W) {
		rw.Children[i].Draw(s, Rect{X: x, Y: r.Y, W: w, H: r.H})
		x += w + rw.Gap
	}
}

// Grid flows cells left to right into Columns columns. Each grid row is as
// tall as its tallest cell.
type Grid struct {
	Label   string
	Cells   []Section
	Columns int
	Gap     float64 // horizontal
	RowGap  float64
}

func (g Grid) Name() string { return g.Label }

func (g Grid) rows() []Row {
	cols := max(1, g.Columns)
	var rows []Row
	for i := 0; i < len(g.Cells); i += cols {
		end := min(i+cols, len(g.Cells))
		cells := append([]Section(nil), g.Cells[i:end]...)
		for len(cells) < cols {
			cells = append(cells, Spacer{})
		}
		rows = append(rows, Row{Children: cells, Gap: g.Gap})
	}
	return rows
}

func (g Grid) Measure(m Measurer, width float64) float64 {
	return Stack{Children: sections(g.rows()), Gap: g.RowGap}.Measure(m, width)
}

func (g Grid) Draw(s Surface, r Rect) {
	Stack{Children: sections(g.rows()), Gap: g.RowGap}.Draw(s, r)
}

func sections(rows []Row) []Section {
	out := make([]Section, len(rows))
	for i, r := range rows {
		out[i] = r
	}
	return out
}

// Card paints a background behind a padded child. An optional accent bar
// runs down the left edge.
type Card struct {
	Label       string
	Child       Section
	PadX, PadY  float64
	Paint       Paint
	Radius      float64
	Accent      *Color
	AccentWidth float64
	MinHeight   float64
}

func (b Card) Name() string { return b.Label }

func (b Card) Measure(m Measurer, width float64) float64 {
	h := 2 * b.PadY
	if b.Child != nil {
		h += b.Child.Measure(m, b.innerWidth(width))
	}
	return max(h, b.MinHeight)
}

func (b Card) innerWidth(width float64) float64 {
	return width - 2*b.PadX - b.accentWidth()
}

func (b Card) accentWidth() float64 {
	if b.Accent == nil {
		return 0
	}
	return b.AccentWidth
}

func (b Card) Draw(s Surface, r Rect) {
	if b.Paint.Fill != nil || b.Paint.Stroke != nil {
		if b.Radius > 0 {
			s.DrawRoundedRect(r, b.Radius, b.Paint)
		} else {
			s.DrawRect(r, b.Paint)
		}
	}
	if b.Accent != nil {
		s.DrawRect(Rect{X: r.X, Y: r.Y, W: b.AccentWidth, H: r.H}, Fill(*b.Accent))
	}
	if b.Child == nil {
		return
	}
	inner := Rect{
		X: r.X + b.accentWidth() + b.PadX,
		Y: r.Y + b.PadY,
		W: b.innerWidth(r.W),
	}
	inner.H = b.Child.Measure(s, inner.W)
	b.Child.Draw(s, inner)
}

// Label attaches a diagnostic label to any section.
func Label(name string, sec Section) Section {
	return labeled{Section: sec, name: name}
}

type labeled struct {
	Section
	name string
}

func (l labeled) Name() string { return l.name }
