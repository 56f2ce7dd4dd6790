// Package integrations provides HTTP clients for package registry APIs.
//
// # Overview
//
// The [Client] type provides the shared HTTP plumbing: default headers,
// retries with backoff for transient failures, rate-limit handling and a
// namespaced response cache. Registry-specific clients embed it:
//
//   - [packagist]: Composer package metadata from repo.packagist.org
//
// # Client Pattern
//
//	client, err := packagist.NewClient("", 24*time.Hour)  // default URL, cache TTL
//	versions, err := client.FetchVersions(ctx, "monolog/monolog", false)  // false = use cache
//
// Every request reports to the HTTP hooks, and every cache lookup to the
// cache hooks, registered in the observability package.
//
// [packagist]: github.com/drupalprojects/composer/pkg/integrations/packagist
package integrations
