package generator

import "testing"

func TestRouteToOutputPath(t *testing.T) {
	cases := map[string]string{
		"/":                      "index.html",
		"":                       "index.html",
		"/2024/05/hello/":        "2024/05/hello/index.html",
		"/tags/go/":              "tags/go/index.html",
		"/about":                 "about/index.html",
		"/assets/css/theme.css":  "assets/css/theme.css",
	}

	for route, want := range cases {
		if got := routeToOutputPath(route); got != want {
			t.Fatalf("routeToOutputPath(%q) = %q, want %q", route, got, want)
		}
	}
}

func TestRouteToURL(t *testing.T) {
	if got := routeToURL("https://example.com/", "/2024/05/post/"); got != "https://example.com/2024/05/post/" {
		t.Fatalf("unexpected URL %q", got)
	}
	if got := routeToURL("https://example.com", "/"); got != "https://example.com/" {
		t.Fatalf("unexpected root URL %q", got)
	}
}
