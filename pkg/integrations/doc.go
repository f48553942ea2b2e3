// Package integrations provides the HTTP transport shared by remote API clients.
//
// # Overview
//
// The [Client] type is the "send request, get status and body" capability
// every API client builds on. Each remote API has its own subpackage:
//
//   - [wordpress]: WordPress REST API (media, posts, categories, tags)
//
// # Client Pattern
//
// API clients embed *[Client] and add typed operations on top:
//
//	transport, err := integrations.NewClient(integrations.Config{}, headers)
//	resp, err := transport.Get(ctx, url, query, nil)
//	if resp.OK() {
//	    // decode resp.Body
//	}
//
// The transport handles:
//   - Default headers merged with per-request headers
//   - Retry with exponential backoff on connection failures only
//   - Optional proxy, timeout, and request pacing
//   - HTTP hooks from [observability]
//
// An HTTP answer is never retried and never turned into an error: callers
// get the status code and the raw body and decide what it means. Only
// failures to obtain an answer are returned as errors, coded
// NETWORK_ERROR or TIMEOUT.
//
// [wordpress]: github.com/matzehuels/presspub/pkg/integrations/wordpress
// [observability]: github.com/matzehuels/presspub/pkg/observability
package integrations
