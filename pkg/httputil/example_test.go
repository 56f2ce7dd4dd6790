package httputil_test

import (
	"fmt"
	"time"

	"github.com/spf13/afero"

	"github.com/drupalprojects/composer/pkg/httputil"
)

func ExampleCache() {
	cache, err := httputil.NewCacheFs(afero.NewMemMapFs(), "/cache", 24*time.Hour)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}

	packagist := cache.Namespace("packagist:")
	data := map[string]string{"name": "monolog/monolog", "version": "3.5.0"}
	if err := packagist.Set("monolog/monolog", data); err != nil {
		fmt.Println("Error:", err)
		return
	}

	var result map[string]string
	if ok, err := packagist.Get("monolog/monolog", &result); ok && err == nil {
		fmt.Println("Name:", result["name"])
		fmt.Println("Version:", result["version"])
	}
	// Output:
	// Name: monolog/monolog
	// Version: 3.5.0
}

func ExampleCache_miss() {
	cache, _ := httputil.NewCacheFs(afero.NewMemMapFs(), "/cache", time.Hour)

	var result string
	ok, err := cache.Get("nonexistent", &result)
	fmt.Println("Found:", ok)
	fmt.Println("Error:", err)
	// Output:
	// Found: false
	// Error: <nil>
}
