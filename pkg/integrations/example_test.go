package integrations_test

import (
	"errors"
	"fmt"

	"github.com/usawrapco/wrapdoc/pkg/cache"
	"github.com/usawrapco/wrapdoc/pkg/integrations"
)

func Example_errors() {
	// Collaborator errors are shared with the cache package so retry
	// decisions can be made on either side.
	fmt.Println("ErrNotFound:", integrations.ErrNotFound)
	fmt.Println("ErrNetwork:", integrations.ErrNetwork)
	fmt.Println(errors.Is(integrations.ErrNetwork, cache.ErrNetwork))
	// Output:
	// ErrNotFound: not found
	// ErrNetwork: network error
	// true
}
