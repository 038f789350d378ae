package job

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/usawrapco/wrapdoc/pkg/errors"
)

// DocType identifies which document is assembled from a record.
type DocType string

const (
	Estimate   DocType = "estimate"
	Invoice    DocType = "invoice"
	SalesOrder DocType = "salesorder"
	WorkOrder  DocType = "workorder"
)

// DocTypes lists every document type in display order.
var DocTypes = []DocType{Estimate, Invoice, SalesOrder, WorkOrder}

// Title returns the heading printed on the document.
func (d DocType) Title() string {
	switch d {
	case Estimate:
		return "ESTIMATE"
	case Invoice:
		return "INVOICE"
	case SalesOrder:
		return "SALES ORDER"
	case WorkOrder:
		return "WORK ORDER"
	}
	return strings.ToUpper(string(d))
}

// ParseDocType accepts the canonical names plus common short forms
// ("est", "inv", "so", "wo", "sales-order", "work_order").
func ParseDocType(s string) (DocType, error) {
	key := strings.NewReplacer("-", "", "_", "", " ", "").Replace(strings.ToLower(strings.TrimSpace(s)))
	switch key {
	case "estimate", "est":
		return Estimate, nil
	case "invoice", "inv":
		return Invoice, nil
	case "salesorder", "so":
		return SalesOrder, nil
	case "workorder", "wo":
		return WorkOrder, nil
	}
	return "", errors.New(errors.ErrCodeInvalidDocType, "unknown document type %q (valid: estimate, invoice, salesorder, workorder)", s)
}

// GuessDocType infers the document type from a ref prefix such as "INV-0001".
func GuessDocType(ref string) (DocType, bool) {
	prefix, _, ok := strings.Cut(ref, "-")
	if !ok {
		return "", false
	}
	t, err := ParseDocType(prefix)
	return t, err == nil
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return validate
}

// Validate checks the structural rules of a record: required identity
// fields, well-formed emails and brand colors. Amounts are checked later by
// the financial calculator, which can name the offending field.
func Validate(r *Record) error {
	if err := getValidator().Struct(r); err != nil {
		var verrs validator.ValidationErrors
		if stderrors.As(err, &verrs) && len(verrs) > 0 {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, describeFieldError(fe))
			}
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid job record: %s", strings.Join(msgs, "; "))
		}
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid job record")
	}
	return errors.ValidateRef(r.Ref)
}

func describeFieldError(fe validator.FieldError) string {
	field := fieldPath(fe.Namespace())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " is not a valid email"
	case "hexcolor":
		return field + " is not a hex color"
	case "max":
		return fmt.Sprintf("%s exceeds %s characters", field, fe.Param())
	}
	return fmt.Sprintf("%s failed %q", field, fe.Tag())
}

// fieldPath drops the root type and embedded struct names from a validator
// namespace: "Record.Client.client_name" becomes "client_name".
func fieldPath(ns string) string {
	parts := strings.Split(ns, ".")
	out := parts[:0]
	for i, p := range parts {
		if i == 0 || p == "Client" || p == "Vehicle" {
			continue
		}
		out = append(out, p)
	}
	return strings.Join(out, ".")
}

// Decode reads a record from JSON. Unknown keys are ignored so records
// written for one document type can be rendered as another.
func Decode(r io.Reader) (*Record, error) {
	var rec Record
	if err := json.NewDecoder(r).Decode(&rec); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode job record")
	}
	return &rec, nil
}

// Parse decodes and validates a record.
func Parse(data []byte) (*Record, error) {
	rec, err := Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	if err := Validate(rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// LoadFile reads and validates the record at path.
func LoadFile(path string) (*Record, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errors.New(errors.ErrCodeFileNotFound, "job record %s not found", path)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read job record %s", path)
	}
	rec, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rec, nil
}
