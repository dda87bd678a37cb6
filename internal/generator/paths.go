package generator

import (
	"path"
	"strings"
)

// routeToOutputPath maps a pretty route ("/2024/05/hello/") to the artifact
// path written under the output directory ("2024/05/hello/index.html").
func routeToOutputPath(route string) string {
	trimmed := strings.Trim(route, "/")
	if trimmed == "" {
		return "index.html"
	}
	if strings.HasSuffix(route, "/") || path.Ext(trimmed) == "" {
		return path.Join(trimmed, "index.html")
	}
	return trimmed
}

// routeToURL joins the base URL with a route, preserving the trailing slash.
func routeToURL(baseURL, route string) string {
	base := strings.TrimRight(baseURL, "/")
	if route == "" || route == "/" {
		return base + "/"
	}
	if !strings.HasPrefix(route, "/") {
		route = "/" + route
	}
	return base + route
}
