// Package integrations provides HTTP clients for the services documents
// depend on but do not own.
//
// Each service has its own subpackage:
//
//   - [imagegen]: wrap mockup image generation from a prompt and a
//     reference photo
//   - [reviews]: the shop's current five-star review count
//
// Both build on [Client], which sends default headers and maps HTTP status
// codes onto [ErrNotFound] and [ErrNetwork]. Transient failures are wrapped
// with [cache.Retryable]. Responses are cached by the collaborators through
// [cache.Memo].
//
// [imagegen]: github.com/usawrapco/wrapdoc/pkg/integrations/imagegen
// [reviews]: github.com/usawrapco/wrapdoc/pkg/integrations/reviews
// [cache.Memo]: github.com/usawrapco/wrapdoc/pkg/cache.Memo
// [cache.Retryable]: github.com/usawrapco/wrapdoc/pkg/cache.Retryable
package integrations
