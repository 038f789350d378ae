// Package shop holds the shop profile: contact details, the material
// catalog, process steps, terms and the default checklists printed on
// customer and installer documents.
//
// The built-in profile is embedded from profile.toml. A user profile is
// decoded on top of it, so a file only needs the keys it changes.
package shop

import (
	_ "embed"
	stderrors "errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"

	"github.com/usawrapco/wrapdoc/pkg/errors"
)

//go:embed profile.toml
var defaultProfile []byte

// Profile is the shop's identity and boilerplate.
type Profile struct {
	Name     string   `toml:"name" validate:"required"`
	Slogan   string   `toml:"slogan"`
	Tagline  string   `toml:"tagline"`
	Address  string   `toml:"address" validate:"required"`
	Phone    string   `toml:"phone" validate:"required"`
	Email    string   `toml:"email" validate:"omitempty,email"`
	Web      string   `toml:"web"`
	Portal   string   `toml:"portal"`
	Hours    string   `toml:"hours"`
	Reviews  int      `toml:"reviews" validate:"gte=0"`
	Certs    []string `toml:"certs"`

	Inclusions []string   `toml:"inclusions"`
	Materials  []Material `toml:"materials" validate:"dive"`
	FilmSpecs  []Spec     `toml:"film_specs" validate:"max=4,dive"`
	Process    []Step     `toml:"process" validate:"dive"`
	Terms      []Term     `toml:"terms" validate:"dive"`
	Checklists Checklists `toml:"checklists"`

	Estimate   EstimateText   `toml:"estimate"`
	Invoice    InvoiceText    `toml:"invoice"`
	SalesOrder SalesOrderText `toml:"sales_order"`
	WorkOrder  WorkOrderText  `toml:"work_order"`
}

// Material is a catalog entry for a film or laminate.
type Material struct {
	Key      string `toml:"key" validate:"required"` // short name used in job records
	Name     string `toml:"name" validate:"required"`
	Category string `toml:"category"`
	URL      string `toml:"url"`
}

// Spec is a labeled film property shown as a chip.
type Spec struct {
	Label string `toml:"label" validate:"required"`
	Value string `toml:"value"`
}

// Step is one step of the customer-facing process.
type Step struct {
	Title string   `toml:"title" validate:"required"`
	Lines []string `toml:"lines"`
}

// Term is a titled group of terms and conditions.
type Term struct {
	Column int      `toml:"column" validate:"gte=0,lte=1"`
	Title  string   `toml:"title" validate:"required"`
	Points []string `toml:"points"`
}

// Checklists are the installer checklists used when a job has none.
type Checklists struct {
	Pre  []string `toml:"pre"`
	Post []string `toml:"post"`
}

// Banner is a colored call-out strip.
type Banner struct {
	Title  string `toml:"title"`
	Text   string `toml:"text"`
	Action string `toml:"action"`
	Note   string `toml:"note"`
}

type EstimateText struct {
	ValidDays int    `toml:"valid_days" validate:"gte=0"`
	Financing Banner `toml:"financing"`
	CTA       Banner `toml:"cta"`
}

type InvoiceText struct {
	PaymentMethods string `toml:"payment_methods"`
	PayOnline      string `toml:"pay_online"`
	LateFee        string `toml:"late_fee"`
	Footer         string `toml:"footer"`
}

type SalesOrderText struct {
	Confidential string   `toml:"confidential"`
	Footer       string   `toml:"footer"`
	SignOff      []string `toml:"sign_off"`
}

type WorkOrderText struct {
	SignOffNote string   `toml:"sign_off_note"`
	SignOff     []string `toml:"sign_off"`
	Footer      string   `toml:"footer"`
}

// LookupMaterial finds a catalog entry by key. Matching ignores case and
// accepts a record value that starts with the key, such as
// "Avery MPI 1105 EZ-RS Gloss".
func (p *Profile) LookupMaterial(name string) (Material, bool) {
	n := strings.ToLower(strings.TrimSpace(name))
	if n == "" {
		return Material{}, false
	}
	for _, m := range p.Materials {
		k := strings.ToLower(m.Key)
		if n == k || strings.HasPrefix(n, k) {
			return m, true
		}
	}
	return Material{}, false
}

// TermColumn returns the terms printed in column col.
func (p *Profile) TermColumn(col int) []Term {
	var out []Term
	for _, t := range p.Terms {
		if t.Column == col {
			out = append(out, t)
		}
	}
	return out
}

// PreChecks returns checks when non-empty, else the profile defaults.
func (p *Profile) PreChecks(checks []string) []string {
	if len(checks) > 0 {
		return checks
	}
	return p.Checklists.Pre
}

// PostChecks returns checks when non-empty, else the profile defaults.
func (p *Profile) PostChecks(checks []string) []string {
	if len(checks) > 0 {
		return checks
	}
	return p.Checklists.Post
}

// IncludedItems returns items when non-empty, else the default inclusions.
func (p *Profile) IncludedItems(items []string) []string {
	if len(items) > 0 {
		return items
	}
	return p.Inclusions
}

var (
	builtin     *Profile
	builtinErr  error
	builtinOnce sync.Once
)

// Default returns the built-in profile. The result is shared and must be
// treated as read-only.
func Default() (*Profile, error) {
	builtinOnce.Do(func() {
		builtin, builtinErr = decode(&Profile{}, string(defaultProfile), "built-in profile")
	})
	return builtin, builtinErr
}

// Load returns the built-in profile overlaid with the file at path. An
// empty path returns the built-in profile.
//
// Keys the profile does not know are rejected so typos surface instead of
// silently printing defaults.
func Load(path string) (*Profile, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errors.New(errors.ErrCodeFileNotFound, "shop profile %s not found", path)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read shop profile %s", path)
	}

	p := &Profile{}
	if _, err := decode(p, string(defaultProfile), "built-in profile"); err != nil {
		return nil, err
	}
	return decode(p, string(data), path)
}

func decode(p *Profile, data, origin string) (*Profile, error) {
	md, err := toml.Decode(data, p)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", origin)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, errors.New(errors.ErrCodeInvalidConfig, "%s: unknown keys %s", origin, strings.Join(keys, ", "))
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", origin, err)
	}
	return p, nil
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// Validate checks required contact fields and catalog entries.
func (p *Profile) Validate() error {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	if err := validate.Struct(p); err != nil {
		var verrs validator.ValidationErrors
		if stderrors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "shop profile: %s failed %q", fe.Namespace(), fe.Tag())
		}
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "shop profile")
	}
	return nil
}
