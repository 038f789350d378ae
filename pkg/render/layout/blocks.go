package layout

// Band is a section header: a filled strip with a title and an optional
// right-aligned note.
type Band struct {
	Title      string
	Note       string
	Font       Font
	NoteFont   Font
	Color      Color
	Fill       Color
	Accent     *Color // left bar, drawn when set
	Height     float64
	PadX       float64
	Underlined bool // draw a hairline under the band instead of filling it
}

func (b Band) Name() string { return b.Title }

func (b Band) Measure(Measurer, float64) float64 { return b.Height }

func (b Band) Draw(s Surface, r Rect) {
	x := r.X + b.PadX
	if b.Underlined {
		s.DrawLine(r.X, r.Bottom(), r.Right(), r.Bottom(), b.Fill, 0.75)
	} else {
		s.DrawRect(r, Fill(b.Fill))
	}
	if b.Accent != nil {
		s.DrawRect(Rect{X: r.X, Y: r.Y, W: 3, H: r.H}, Fill(*b.Accent))
		x += 3
	}
	s.DrawText(x, Baseline(r.Y, r.H, b.Font), b.Title, b.Font, b.Color, AlignLeft)
	if b.Note != "" {
		s.DrawText(r.Right()-b.PadX, Baseline(r.Y, r.H, b.NoteFont), b.Note, b.NoteFont, b.Color, AlignRight)
	}
}

// Column is one column of a [Table].
type Column struct {
	Title  string
	Weight float64
	Align  Align
}

// Table is a header row followed by body rows. Body row height comes from
// the tallest cell; rows alternate between Fill and Stripe.
type Table struct {
	Label      string
	Columns    []Column
	Rows       [][]Section
	HeaderFont Font
	HeaderText Color
	HeaderFill Color
	HeaderH    float64
	Fill       Color
	Stripe     Color
	Rule       *Color // hairline under each row
	PadX       float64
	PadY       float64
	Gap        float64 // between columns
}

func (t Table) Name() string { return t.Label }

func (t Table) weights() []float64 {
	w := make([]float64, len(t.Columns))
	for i, c := range t.Columns {
		w[i] = c.Weight
	}
	return w
}

// Header returns the header row as a section.
func (t Table) Header() Section {
	return Fixed(t.Label+" header", t.HeaderH, func(s Surface, r Rect) {
		s.DrawRect(r, Fill(t.HeaderFill))
		cells := make([]Section, len(t.Columns))
		for i, c := range t.Columns {
			cells[i] = Line{Text: c.Title, Font: t.HeaderFont, Color: t.HeaderText, Align: c.Align, Height: t.HeaderH}
		}
		Row{Children: cells, Weights: t.weights(), Gap: t.Gap}.Draw(s, r.Inset(t.PadX, 0))
	})
}

// Body returns body row i as a section.
func (t Table) Body(i int) Section {
	row := Row{Children: t.Rows[i], Weights: t.weights(), Gap: t.Gap}
	fill := t.Fill
	if i%2 == 1 {
		fill = t.Stripe
	}
	return Custom{
		Label: t.Label + " row",
		Height: func(m Measurer, width float64) float64 {
			return row.Measure(m, width-2*t.PadX) + 2*t.PadY
		},
		Paint: func(s Surface, r Rect) {
			s.DrawRect(r, Fill(fill))
			if t.Rule != nil {
				s.DrawLine(r.X, r.Bottom(), r.Right(), r.Bottom(), *t.Rule, 0.5)
			}
			row.Draw(s, r.Inset(t.PadX, t.PadY))
		},
	}
}

// Sections returns the header and every body row, for [Flow.AddRun] so long
// tables can break between rows.
func (t Table) Sections() []Section {
	out := []Section{t.Header()}
	for i := range t.Rows {
		out = append(out, t.Body(i))
	}
	return out
}

func (t Table) Measure(m Measurer, width float64) float64 {
	var h float64
	for _, sec := range t.Sections() {
		h += sec.Measure(m, width)
	}
	return h
}

func (t Table) Draw(s Surface, r Rect) {
	Stack{Children: t.Sections()}.Draw(s, r)
}

// Checklist is a titled column of checkbox items. Its height is
// Pad + len(Items) × RowHeight.
type Checklist struct {
	Title     string
	Items     []string
	Font      Font
	TitleFont Font
	Color     Color
	BoxColor  Color
	RowHeight float64
	Pad       float64 // title band plus bottom padding
}

func (c Checklist) Name() string { return c.Title }

func (c Checklist) Measure(Measurer, float64) float64 {
	return c.Pad + float64(len(c.Items))*c.RowHeight
}

func (c Checklist) Draw(s Surface, r Rect) {
	titleH := c.Pad * 2 / 3
	s.DrawText(r.X, Baseline(r.Y, titleH, c.TitleFont), c.Title, c.TitleFont, c.Color, AlignLeft)
	y := r.Y + titleH
	box := min(c.RowHeight-4, 8)
	for _, item := range c.Items {
		top := y + (c.RowHeight-box)/2
		s.DrawRect(Rect{X: r.X, Y: top, W: box, H: box}, Paint{Stroke: &c.BoxColor, LineWidth: 0.6})
		text := Truncate(s, item, c.Font, r.W-box-6)
		s.DrawText(r.X+box+6, Baseline(y, c.RowHeight, c.Font), text, c.Font, c.Color, AlignLeft)
		y += c.RowHeight
	}
}

// Checklists pairs two checklists side by side. The pair is as tall as the
// longer list.
func Checklists(left, right Checklist, gap float64) Row {
	return Row{Label: "checklists", Children: []Section{left, right}, Gap: gap}
}
