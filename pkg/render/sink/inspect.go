package sink

import (
	"bytes"
	"sync"

	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/usawrapco/wrapdoc/pkg/errors"
)

var disableConfigDir sync.Once

// PageCount parses an encoded PDF and returns its page count. It doubles as
// a structural check of the generated file.
func PageCount(data []byte) (int, error) {
	disableConfigDir.Do(api.DisableConfigDir)
	n, err := api.PageCount(bytes.NewReader(data), nil)
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeInvalidFormat, err, "read pdf")
	}
	return n, nil
}
