// Package packagist provides an HTTP client for the Packagist metadata API.
//
// # Overview
//
// This package fetches package metadata from Packagist (https://packagist.org),
// the main Composer repository, through the p2 endpoints:
//
//   - /p2/<vendor>/<package>.json: tagged releases
//   - /p2/<vendor>/<package>~dev.json: development branches
//
// # Usage
//
//	client, err := packagist.NewClient("", 24*time.Hour)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	versions, err := client.FetchVersions(ctx, "monolog/monolog", false)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	for _, v := range versions {
//	    fmt.Println(v.Version, v.Source.Reference)
//	}
//
// # Minified Metadata
//
// Packagist serves the "composer/2.0" minified format, where each version only
// lists the keys that differ from the previous one. [Expand] restores full
// entries before they are decoded into [VersionInfo].
//
// # Caching
//
// Responses are cached to reduce load on Packagist. The cache TTL is set
// when creating the client. Pass refresh=true to bypass the cache.
package packagist
