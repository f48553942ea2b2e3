// Package wordpress publishes media, posts, categories, and tags through the
// WordPress REST API.
//
// # Overview
//
// The [Client] is the entry point. It wraps the shared transport from
// [integrations] with the site host and a JWT bearer token:
//
//	client, err := wordpress.NewClient("https://www.crifan.org", token,
//	    wordpress.WithLogger(logger))
//	ok, res, err := client.ValidateToken(ctx)
//
// # Results
//
// Every remote operation returns a [Result]: OK plus a [Payload]. The payload
// is resolved once by [Normalize] into one of [Media], [Post], [Taxonomy],
// [Entity], [Generic], [List], or, when OK is false, [ErrorDetail] holding
// the HTTP status and the raw body text. A 2xx answer that is not a JSON
// object or list is reported as a MALFORMED_RESPONSE error instead.
//
// # Taxonomy Resolution
//
// Posts reference categories and tags by id. [Resolver] turns names into ids:
//
//  1. Fetch every page of GET /categories?search=name (or /tags) with [Fetcher]
//  2. Pick a record with [FindMatch]: first exact match, else the last
//     case-insensitive match, else none
//  3. Create the term when nothing matched
//
// [Resolver.ResolveAllToIDs] processes names in order and skips names that
// fail, so its output can be shorter than its input. Use
// [Resolver.ResolveAll] when a per-name outcome is needed.
//
// Nothing is cached: every resolution re-queries the site.
//
// # Slugs
//
// [GenerateSlug] derives a URL slug from an English title:
//
//	wordpress.GenerateSlug("Give the PIP replacement source to the Mac to speed up the download")
//	// give_pip_replacement_source_mac_speed_up_download
//
// [integrations]: github.com/matzehuels/presspub/pkg/integrations
package wordpress
