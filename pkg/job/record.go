package job

import (
	"strings"

	"github.com/usawrapco/wrapdoc/pkg/money"
)

// Record is one job as read from a job record file.
//
// Keys are snake_case and flat, matching the files the shop already produces:
// client and vehicle fields live at the top level and are grouped here through
// embedded structs. A Record is treated as immutable once loaded.
type Record struct {
	Ref         string `json:"ref" validate:"required,max=64"`
	Date        string `json:"date"`
	Status      string `json:"status"`
	StatusColor string `json:"status_color"`
	DueDate     string `json:"due_date"`
	ValidDays   int    `json:"valid_days" validate:"gte=0"`
	InstallDate string `json:"install_date"`
	Priority    string `json:"priority"`
	Division    string `json:"division"`

	// Cross references between documents of the same job.
	LinkedRef   string `json:"linked_ref"`
	SalesOrder  string `json:"so_ref"`
	EstimateRef string `json:"est_ref"`
	PONumber    string `json:"po_number"`

	Agent          string `json:"agent"`
	CommissionType string `json:"commission_type"`
	AgentType      string `json:"agent_type"`
	Installer      string `json:"installer"`
	Designer       string `json:"designer"`
	Bay            string `json:"bay"`
	EstHours       string `json:"est_hours"`
	PayType        string `json:"pay_type"`

	Client
	Vehicle

	Scope        string      `json:"scope"`
	Material     string      `json:"material"`
	Sqft         string      `json:"sqft"`
	LinearFt     string      `json:"linear_ft"`
	PrimaryFilm  string      `json:"primary_film"`
	Overlaminate string      `json:"overlaminate"`
	Brand        ClientBrand `json:"client_brand"`

	LineItems  []LineItem  `json:"line_items" validate:"dive"`
	Panels     []string    `json:"panels"`
	Inclusions []string    `json:"inclusions"`
	Payments   []Payment   `json:"payments" validate:"dive"`
	Notes      []NoteBlock `json:"note_blocks" validate:"dive"`
	PreChecks  []string    `json:"pre_checks"`
	PostChecks []string    `json:"post_checks"`

	// Free-text notes as written by the older generators.
	AgentNotes    string `json:"agent_notes"`
	ProdNotes     string `json:"prod_notes"`
	InternalNotes string `json:"internal_notes"`
	SpecialNotes  string `json:"special_notes"`
	GeneralNotes  string `json:"notes"`

	PaymentMethods string `json:"payment_methods"`

	B2BExempt  bool   `json:"b2b_exempt"`
	ExemptCert string `json:"exempt_cert"`

	DepositPaid     money.Amount `json:"deposit_paid"`
	SalePrice       money.Amount `json:"sale_price"`
	MaterialCost    money.Amount `json:"material_cost"`
	LaborCost       money.Amount `json:"labor_cost"`
	InstallerPay    money.Amount `json:"installer_pay"`
	DesignCost      money.Amount `json:"design_cost"`
	DesignFee       money.Amount `json:"design_fee"`
	ProductionBonus money.Amount `json:"production_bonus"`

	TorqCompleted  bool  `json:"torq_completed"`
	GPMBonusEarned *bool `json:"gpm_bonus_earned"`
}

// Client identifies the customer.
type Client struct {
	ClientName    string `json:"client_name" validate:"required"`
	ClientPhone   string `json:"client_phone"`
	ClientEmail   string `json:"client_email" validate:"omitempty,email"`
	ClientAddr    string `json:"client_addr"`
	ClientZip     string `json:"client_zip"`
	ClientCompany string `json:"client_company"`
	ClientContact string `json:"client_contact"`
	DropOff       string `json:"drop_off"`
	PickUp        string `json:"pick_up"`
}

// Vehicle describes the vehicle being wrapped.
type Vehicle struct {
	Year         string `json:"year"`
	Make         string `json:"make"`
	Model        string `json:"model"`
	VehicleLabel string `json:"vehicle"`
	VIN          string `json:"vin"`
	Color        string `json:"color"`
	Plate        string `json:"plate"`
	Plates       string `json:"plates"`
	Mileage      string `json:"mileage"`
}

// ClientBrand is the client's brand profile shown on estimates.
type ClientBrand struct {
	Tagline    string   `json:"tagline"`
	Industry   string   `json:"industry"`
	Website    string   `json:"website"`
	Colors     []string `json:"colors" validate:"dive,omitempty,hexcolor"`
	ColorNames []string `json:"color_names"`
}

// LineItem is one priced service on the job.
type LineItem struct {
	Name    string       `json:"name" validate:"required"`
	Qty     string       `json:"qty"`
	Amount  money.Amount `json:"amount"`
	Sub     string       `json:"sub"`
	Vehicle string       `json:"vehicle"`
	Desc    string       `json:"desc"`
	Bullets []string     `json:"bullets"`

	// Sales order breakdown.
	Revenue      money.Amount `json:"revenue"`
	MaterialCost money.Amount `json:"material_cost"`
	LaborCost    money.Amount `json:"labor_cost"`
	DesignCost   money.Amount `json:"design_cost"`
}

// Payment is one entry of an invoice's payment history.
type Payment struct {
	Date   string       `json:"date"`
	Amount money.Amount `json:"amount"`
	Method string       `json:"method"`
	Note   string       `json:"note"`
}

// NoteBlock is a labeled free-text note.
type NoteBlock struct {
	Label string `json:"label" validate:"required"`
	Text  string `json:"text"`
}

// VehicleName returns the display name of the vehicle, preferring the
// explicit label over year/make/model.
func (r *Record) VehicleName() string {
	if r.VehicleLabel != "" {
		return r.VehicleLabel
	}
	return strings.TrimSpace(strings.Join(nonEmpty(r.Year, r.Make, r.Model), " "))
}

// PlateNumber returns the plate, accepting either spelling of the key.
func (r *Record) PlateNumber() string {
	if r.Plate != "" {
		return r.Plate
	}
	return r.Plates
}

// Commission returns the commission type, accepting either key.
func (r *Record) Commission() string {
	if r.CommissionType != "" {
		return r.CommissionType
	}
	return r.AgentType
}

// Labor returns the labor cost, accepting the installer_pay alias.
func (r *Record) Labor() money.Amount {
	if r.LaborCost.IsSet() {
		return r.LaborCost
	}
	return r.InstallerPay
}

// Design returns the design cost, accepting the design_fee alias.
func (r *Record) Design() money.Amount {
	if r.DesignCost.IsSet() {
		return r.DesignCost
	}
	return r.DesignFee
}

// HasJobCosts reports whether any job-level cost was supplied.
func (r *Record) HasJobCosts() bool {
	return r.MaterialCost.IsSet() || r.Labor().IsSet() || r.Design().IsSet() || r.ProductionBonus.IsSet()
}

// NoteBlocks returns the structured notes followed by the legacy free-text
// note fields, skipping empty ones.
func (r *Record) NoteBlocks() []NoteBlock {
	out := make([]NoteBlock, 0, len(r.Notes)+5)
	for _, n := range r.Notes {
		if strings.TrimSpace(n.Text) != "" {
			out = append(out, n)
		}
	}
	for _, n := range []NoteBlock{
		{Label: "Agent Notes", Text: r.AgentNotes},
		{Label: "Production Notes", Text: r.ProdNotes},
		{Label: "Internal Notes", Text: r.InternalNotes},
		{Label: "Special Instructions", Text: r.SpecialNotes},
		{Label: "Notes", Text: r.GeneralNotes},
	} {
		if strings.TrimSpace(n.Text) != "" {
			out = append(out, n)
		}
	}
	return out
}

func nonEmpty(ss ...string) []string {
	out := ss[:0:0]
	for _, s := range ss {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
